// Package export turns canonical contact batches into outbound formats. The
// formatters are pure transforms over the result store snapshot; field names
// and ordering are stable so consumers need no normalization of their own.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

// CSVHeader is the stable column order for CSV exports.
var CSVHeader = []string{
	"name", "role", "company", "platform", "contact_link", "region", "notes",
	"rating", "review_count", "address", "phone", "website", "place_id",
}

// WriteCSV streams the contacts as CSV with the stable header. Optional
// fields serialize as empty cells.
func WriteCSV(w io.Writer, contacts []entity.Contact) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(CSVHeader); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, contact := range contacts {
		if err := writer.Write(csvRow(contact)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func csvRow(contact entity.Contact) []string {
	return []string{
		contact.Name,
		contact.Role,
		contact.Company,
		string(contact.Platform),
		contact.ContactLink,
		contact.Region,
		contact.Notes,
		floatCell(contact.Rating),
		intCell(contact.ReviewCount),
		stringCell(contact.Address),
		stringCell(contact.Phone),
		stringCell(contact.Website),
		stringCell(contact.PlaceID),
	}
}

func stringCell(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}

func floatCell(value *float64) string {
	if value == nil {
		return ""
	}
	return strconv.FormatFloat(*value, 'f', -1, 64)
}

func intCell(value *int) string {
	if value == nil {
		return ""
	}
	return strconv.Itoa(*value)
}
