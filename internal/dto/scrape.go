package dto

import "github.com/octobees/outreach-toolkit/api/internal/entity"

// ResultsPage is the paginated payload returned by the results endpoint.
type ResultsPage struct {
	Total  int              `json:"total"`
	Limit  int              `json:"limit"`
	Offset int              `json:"offset"`
	Data   []entity.Contact `json:"data"`
}

// ScrapeAccepted reports the job created for a scrape submission.
type ScrapeAccepted struct {
	JobID  string `json:"job_id"`
	Status string `json:"status"`
}
