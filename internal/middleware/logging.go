package middleware

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
)

// Logging emits one key=value line per request, matching the format the job
// manager logs with so a request id can be traced across both.
func Logging() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			if err != nil {
				c.Error(err)
			}

			log.Printf("request_id=%s method=%s path=%s status=%d latency=%s",
				RequestIDFromContext(c),
				c.Request().Method,
				c.Request().URL.Path,
				c.Response().Status,
				time.Since(start),
			)

			return err
		}
	}
}
