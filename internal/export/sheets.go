package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"google.golang.org/api/option"
	"google.golang.org/api/sheets/v4"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

// SheetRequest describes one spreadsheet export. Exactly one of SheetTitle
// (create a new spreadsheet) or SheetID (append to an existing one) is used;
// SheetID wins when both are set.
type SheetRequest struct {
	SheetTitle   string `json:"sheet_title,omitempty"`
	SheetID      string `json:"sheet_id,omitempty"`
	IncludeNotes bool   `json:"include_notes"`
}

// SheetResult reports where the data landed.
type SheetResult struct {
	SheetID  string `json:"sheet_id"`
	SheetURL string `json:"sheet_url"`
	Rows     int    `json:"rows"`
}

// spreadsheetAPI abstracts the Google Sheets calls so the exporter can be
// tested without network access.
type spreadsheetAPI interface {
	CreateSpreadsheet(ctx context.Context, title string) (id, url string, err error)
	AppendRows(ctx context.Context, id string, rows [][]any) error
}

// SheetsExporter pushes contact batches into Google Sheets.
type SheetsExporter struct {
	api spreadsheetAPI
}

// NewSheetsExporter builds an exporter authenticated with a service account
// credentials file.
func NewSheetsExporter(ctx context.Context, credentialsFile string) (*SheetsExporter, error) {
	if credentialsFile == "" {
		return nil, fmt.Errorf("sheets credentials file is not configured")
	}
	svc, err := sheets.NewService(ctx, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return &SheetsExporter{api: &googleSheetsAPI{svc: svc}}, nil
}

// newSheetsExporterWithAPI is the test seam.
func newSheetsExporterWithAPI(api spreadsheetAPI) *SheetsExporter {
	return &SheetsExporter{api: api}
}

// Export writes the contacts to a spreadsheet per the request and returns
// the target sheet id and URL.
func (e *SheetsExporter) Export(ctx context.Context, contacts []entity.Contact, req SheetRequest) (SheetResult, error) {
	if len(contacts) == 0 {
		return SheetResult{}, fmt.Errorf("no contacts to export")
	}

	sheetID := strings.TrimSpace(req.SheetID)
	sheetURL := ""
	appendHeader := false

	if sheetID == "" {
		title := strings.TrimSpace(req.SheetTitle)
		if title == "" {
			title = fmt.Sprintf("Outreach Leads - %s", time.Now().UTC().Format("2006-01-02"))
		}
		var err error
		sheetID, sheetURL, err = e.api.CreateSpreadsheet(ctx, title)
		if err != nil {
			return SheetResult{}, fmt.Errorf("create spreadsheet: %w", err)
		}
		appendHeader = true
	} else {
		sheetURL = "https://docs.google.com/spreadsheets/d/" + sheetID
	}

	rows := SheetRows(contacts, req.IncludeNotes, appendHeader)
	if err := e.api.AppendRows(ctx, sheetID, rows); err != nil {
		return SheetResult{}, fmt.Errorf("append rows: %w", err)
	}

	return SheetResult{SheetID: sheetID, SheetURL: sheetURL, Rows: len(contacts)}, nil
}

// SheetRows converts contacts to spreadsheet values. The column order
// matches the CSV export minus the notes column when excluded.
func SheetRows(contacts []entity.Contact, includeNotes, includeHeader bool) [][]any {
	header := []string{"name", "role", "company", "platform", "contact_link", "region"}
	if includeNotes {
		header = append(header, "notes")
	}

	rows := make([][]any, 0, len(contacts)+1)
	if includeHeader {
		headerRow := make([]any, len(header))
		for i, col := range header {
			headerRow[i] = col
		}
		rows = append(rows, headerRow)
	}

	for _, contact := range contacts {
		row := []any{
			contact.Name,
			contact.Role,
			contact.Company,
			string(contact.Platform),
			contact.ContactLink,
			contact.Region,
		}
		if includeNotes {
			row = append(row, contact.Notes)
		}
		rows = append(rows, row)
	}
	return rows
}

// googleSheetsAPI is the real Sheets v4 binding.
type googleSheetsAPI struct {
	svc *sheets.Service
}

func (g *googleSheetsAPI) CreateSpreadsheet(ctx context.Context, title string) (string, string, error) {
	spreadsheet, err := g.svc.Spreadsheets.Create(&sheets.Spreadsheet{
		Properties: &sheets.SpreadsheetProperties{Title: title},
	}).Context(ctx).Do()
	if err != nil {
		return "", "", err
	}
	return spreadsheet.SpreadsheetId, spreadsheet.SpreadsheetUrl, nil
}

func (g *googleSheetsAPI) AppendRows(ctx context.Context, id string, rows [][]any) error {
	valueRange := &sheets.ValueRange{Values: rows}
	_, err := g.svc.Spreadsheets.Values.Append(id, "A1", valueRange).
		ValueInputOption("RAW").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).Do()
	return err
}

var _ spreadsheetAPI = (*googleSheetsAPI)(nil)
