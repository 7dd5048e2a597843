package store

import (
	"fmt"
	"reflect"
	"sync"
	"testing"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

func contactWith(id, company string) entity.Contact {
	return entity.Contact{
		ID:       id,
		Name:     "Contact " + id,
		Company:  company,
		Platform: entity.PlatformLinkedIn,
	}
}

func seedStore(t *testing.T, n int) *ResultStore {
	t.Helper()
	s := NewResultStore()
	for i := 0; i < n; i++ {
		s.Add(contactWith(fmt.Sprintf("c-%03d", i), "Acme"))
	}
	return s
}

func TestResultStore_AddRefreshesByID(t *testing.T) {
	s := NewResultStore()
	s.Add(contactWith("X", "First Corp"))
	s.Add(contactWith("X", "Second Corp"))

	if s.Len() != 1 {
		t.Fatalf("expected 1 entry after duplicate add, got %d", s.Len())
	}
	all := s.All()
	if all[0].Company != "Second Corp" {
		t.Fatalf("expected refreshed attributes, got %q", all[0].Company)
	}
}

func TestResultStore_RefreshKeepsInsertionPosition(t *testing.T) {
	s := NewResultStore()
	s.Add(contactWith("a", "A"))
	s.Add(contactWith("b", "B"))
	s.Add(contactWith("a", "A2"))

	all := s.All()
	if len(all) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(all))
	}
	if all[0].ID != "a" || all[1].ID != "b" {
		t.Fatalf("expected refresh to keep original position, got %s, %s", all[0].ID, all[1].ID)
	}
	if all[0].Company != "A2" {
		t.Fatalf("expected refreshed company, got %q", all[0].Company)
	}
}

func TestResultStore_PageBounds(t *testing.T) {
	s := seedStore(t, 7)

	cases := []struct {
		name          string
		limit, offset int
		wantLen       int
	}{
		{"first page", 5, 0, 5},
		{"second page", 5, 5, 2},
		{"offset past end", 5, 7, 0},
		{"offset far past end", 5, 100, 0},
		{"zero limit uses default", 0, 0, 7},
		{"limit clamped", MaxPageSize + 50, 0, 7},
		{"negative offset", 3, -1, 3},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			items, total := s.Page(tc.limit, tc.offset)
			if total != 7 {
				t.Fatalf("expected total 7, got %d", total)
			}
			if len(items) != tc.wantLen {
				t.Fatalf("expected %d items, got %d", tc.wantLen, len(items))
			}
		})
	}
}

func TestResultStore_PagesReconstructAll(t *testing.T) {
	s := seedStore(t, 23)
	limit := 5

	var paged []entity.Contact
	for offset := 0; ; offset += limit {
		items, total := s.Page(limit, offset)
		if total != 23 {
			t.Fatalf("expected total 23, got %d", total)
		}
		if len(items) == 0 {
			break
		}
		paged = append(paged, items...)
	}

	if !reflect.DeepEqual(paged, s.All()) {
		t.Fatal("expected concatenated pages to reconstruct All()")
	}
}

func TestResultStore_AddBatchAtomicForReaders(t *testing.T) {
	s := NewResultStore()
	batch := make([]entity.Contact, 50)
	for i := range batch {
		batch[i] = contactWith(fmt.Sprintf("b-%03d", i), "Acme")
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		s.AddBatch(batch)
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			if n := s.Len(); n != 0 && n != len(batch) {
				t.Errorf("observed torn batch: %d entries", n)
				return
			}
		}
	}()
	wg.Wait()

	if s.Len() != len(batch) {
		t.Fatalf("expected %d entries, got %d", len(batch), s.Len())
	}
}

func TestResultStore_Reset(t *testing.T) {
	s := seedStore(t, 3)
	s.Reset()

	if s.Len() != 0 {
		t.Fatalf("expected empty store after reset, got %d", s.Len())
	}
	items, total := s.Page(10, 0)
	if total != 0 || len(items) != 0 {
		t.Fatalf("expected empty page after reset, got %d items, total %d", len(items), total)
	}

	s.Add(contactWith("fresh", "Acme"))
	if s.Len() != 1 {
		t.Fatalf("expected store usable after reset, got %d", s.Len())
	}
}
