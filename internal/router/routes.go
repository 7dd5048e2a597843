package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/config"
	"github.com/octobees/outreach-toolkit/api/internal/handler"
	middlewarepkg "github.com/octobees/outreach-toolkit/api/internal/middleware"
)

// Handlers aggregates HTTP handlers used by the router.
type Handlers struct {
	Scrape   *handler.ScrapeHandler
	Results  *handler.ResultsHandler
	Export   *handler.ExportHandler
	Audience *handler.AudienceHandler
}

// Register wires all HTTP routes for the API.
func Register(e *echo.Echo, cfg *config.Config, handlers Handlers) {
	e.GET("/healthz", func(c echo.Context) error {
		return handler.Success(c, http.StatusOK, "service healthy", map[string]any{"status": "ok"})
	})

	e.POST("/scrape", handlers.Scrape.Submit, middlewarepkg.RateLimiter(cfg.RateLimitScrape))
	e.GET("/scrape/status/:job_id", handlers.Scrape.Status)
	e.POST("/scrape/cancel/:job_id", handlers.Scrape.Cancel)

	e.GET("/results", handlers.Results.List)
	e.DELETE("/results", handlers.Results.Clear)

	e.GET("/export/csv", handlers.Export.DownloadCSV)
	e.POST("/export/sheets", handlers.Export.PushSheets)

	e.GET("/config/audience", handlers.Audience.Get)
}
