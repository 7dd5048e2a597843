package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/config"
)

// AudienceHandler serves the targeting vocabulary loaded at startup.
type AudienceHandler struct {
	audience config.Audience
}

// NewAudienceHandler creates a new handler instance.
func NewAudienceHandler(audience config.Audience) *AudienceHandler {
	return &AudienceHandler{audience: audience}
}

// Get handles GET /config/audience requests.
func (h *AudienceHandler) Get(c echo.Context) error {
	return Success(c, http.StatusOK, "audience options", h.audience)
}
