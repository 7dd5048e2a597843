// Job status graph:
//
//	pending ──► running ──► completed
//	                │
//	                ├──► failed
//	                └──► cancelled
//
// completed, failed and cancelled are terminal states.
package entity

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// JobStatus is the lifecycle state of a scrape job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// validTransitions lists every allowed (from → to) pair.
var validTransitions = map[JobStatus][]JobStatus{
	JobStatusPending: {JobStatusRunning},
	JobStatusRunning: {JobStatusCompleted, JobStatusFailed, JobStatusCancelled},
	// terminal states have no outgoing transitions
}

// ParseJobStatus converts a raw string to a JobStatus, returning an error
// for unknown values.
func ParseJobStatus(s string) (JobStatus, error) {
	st := JobStatus(s)
	switch st {
	case JobStatusPending, JobStatusRunning, JobStatusCompleted, JobStatusFailed, JobStatusCancelled:
		return st, nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

// IsTerminal reports whether the status has no outgoing transitions.
func (s JobStatus) IsTerminal() bool {
	return len(validTransitions[s]) == 0
}

// CanTransition reports whether moving from → to is permitted by the state
// machine.
func CanTransition(from, to JobStatus) bool {
	for _, next := range validTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ScrapeJob tracks one scrape run from submission to a terminal state. It is
// created and mutated only by the job manager.
type ScrapeJob struct {
	ID           uuid.UUID     `json:"id"`
	Status       JobStatus     `json:"status"`
	Request      ScrapeRequest `json:"request"`
	Progress     int           `json:"progress"`
	StartedAt    time.Time     `json:"started_at"`
	CompletedAt  *time.Time    `json:"completed_at,omitempty"`
	TotalResults int           `json:"total_results"`
	Error        string        `json:"error,omitempty"`
}
