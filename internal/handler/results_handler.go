package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/dto"
	"github.com/octobees/outreach-toolkit/api/internal/store"
)

// ResultsHandler exposes the in-memory result pool.
type ResultsHandler struct {
	results *store.ResultStore
}

// NewResultsHandler creates a new handler instance.
func NewResultsHandler(results *store.ResultStore) *ResultsHandler {
	return &ResultsHandler{results: results}
}

// List handles GET /results requests with limit/offset pagination.
func (h *ResultsHandler) List(c echo.Context) error {
	limit := parseIntDefault(c.QueryParam("limit"), store.DefaultPageSize)
	offset := parseIntDefault(c.QueryParam("offset"), 0)

	// report the bounds actually applied, not the raw query values
	if limit <= 0 {
		limit = store.DefaultPageSize
	}
	if limit > store.MaxPageSize {
		limit = store.MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	contacts, total := h.results.Page(limit, offset)
	page := dto.ResultsPage{
		Total:  total,
		Limit:  limit,
		Offset: offset,
		Data:   contacts,
	}
	return Success(c, http.StatusOK, "current results", page)
}

// Clear handles DELETE /results requests.
func (h *ResultsHandler) Clear(c echo.Context) error {
	h.results.Reset()
	return Success(c, http.StatusOK, "results cleared", map[string]any{"total": 0})
}

func parseIntDefault(raw string, fallback int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
