package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
	"github.com/octobees/outreach-toolkit/api/internal/export"
	"github.com/octobees/outreach-toolkit/api/internal/store"
)

// SheetsPusher pushes a contact batch into a spreadsheet. Satisfied by
// export.SheetsExporter; stubbed in tests.
type SheetsPusher interface {
	Export(ctx context.Context, contacts []entity.Contact, req export.SheetRequest) (export.SheetResult, error)
}

// ExportHandler serves downloads and pushes of the current result pool.
type ExportHandler struct {
	results *store.ResultStore
	sheets  SheetsPusher
}

// NewExportHandler creates a new handler instance. sheets may be nil when
// Google Sheets credentials are not configured.
func NewExportHandler(results *store.ResultStore, sheets SheetsPusher) *ExportHandler {
	return &ExportHandler{results: results, sheets: sheets}
}

// DownloadCSV handles GET /export/csv requests by streaming the full result
// pool as a CSV attachment.
func (h *ExportHandler) DownloadCSV(c echo.Context) error {
	contacts := h.results.All()

	filename := fmt.Sprintf("leads-%s.csv", time.Now().UTC().Format("20060102-150405"))
	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", filename))
	c.Response().WriteHeader(http.StatusOK)

	return export.WriteCSV(c.Response(), contacts)
}

// PushSheets handles POST /export/sheets requests.
func (h *ExportHandler) PushSheets(c echo.Context) error {
	if h.sheets == nil {
		return Error(c, http.StatusServiceUnavailable, "sheets export is not configured")
	}

	var req export.SheetRequest
	if err := c.Bind(&req); err != nil {
		return Error(c, http.StatusBadRequest, "invalid payload")
	}

	contacts := h.results.All()
	result, err := h.sheets.Export(c.Request().Context(), contacts, req)
	if err != nil {
		return Error(c, http.StatusBadGateway, err.Error())
	}
	return Success(c, http.StatusOK, "results exported", result)
}
