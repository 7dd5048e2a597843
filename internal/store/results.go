// Package store holds the canonical, deduplicated contact collection for the
// current scrape results. Results are process-lifetime only; durable history
// is layered on top by the repository package.
package store

import (
	"sync"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

const (
	// DefaultPageSize applies when a caller does not specify a limit.
	DefaultPageSize = 20
	// MaxPageSize bounds page responses regardless of what the caller asks for.
	MaxPageSize = 100
)

// ResultStore is an insertion-ordered map from contact id to Contact. A
// second Add with an existing id refreshes the entry in place: identity and
// insertion position are first-write-wins, attribute values last-write-wins.
type ResultStore struct {
	mu    sync.RWMutex
	index map[string]int
	order []entity.Contact
}

// NewResultStore creates an empty store.
func NewResultStore() *ResultStore {
	return &ResultStore{index: make(map[string]int)}
}

// Add inserts the contact or refreshes the existing entry with the same id.
func (s *ResultStore) Add(contact entity.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.add(contact)
}

// AddBatch appends a full result batch under one lock so readers never
// observe a partially ingested job.
func (s *ResultStore) AddBatch(contacts []entity.Contact) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, contact := range contacts {
		s.add(contact)
	}
}

func (s *ResultStore) add(contact entity.Contact) {
	if pos, ok := s.index[contact.ID]; ok {
		s.order[pos] = contact
		return
	}
	s.index[contact.ID] = len(s.order)
	s.order = append(s.order, contact)
}

// Page returns a copy of the slice [offset, offset+limit) in insertion order
// together with the live total. An offset at or past the end yields an empty
// slice, never an error.
func (s *ResultStore) Page(limit, offset int) ([]entity.Contact, int) {
	if limit <= 0 {
		limit = DefaultPageSize
	}
	if limit > MaxPageSize {
		limit = MaxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	total := len(s.order)
	if offset >= total {
		return []entity.Contact{}, total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	items := make([]entity.Contact, end-offset)
	copy(items, s.order[offset:end])
	return items, total
}

// All returns a copy of every contact in insertion order, matching the order
// Page exposes. Export formatters consume this.
func (s *ResultStore) All() []entity.Contact {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]entity.Contact, len(s.order))
	copy(items, s.order)
	return items
}

// Len reports the current number of contacts.
func (s *ResultStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// Reset discards all contacts.
func (s *ResultStore) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.index = make(map[string]int)
	s.order = nil
}
