package scraper

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

// mockIdentity is one synthetic lead in the fixed generator pool.
type mockIdentity struct {
	name    string
	slug    string
	role    string
	company string
	region  string
}

// mockPool is the fixed catalogue of synthetic identities. Order matters:
// the generator walks it front to back so output is reproducible.
var mockPool = [...]mockIdentity{
	{"Ava Thompson", "ava-thompson", "Head of Growth", "Brightline Labs", "San Francisco, CA"},
	{"Liam Patel", "liam-patel", "Product Manager", "Northwind Digital", "New York, NY"},
	{"Sofia Marquez", "sofia-marquez", "Marketing Director", "Cobalt & Co", "Austin, TX"},
	{"Noah Kim", "noah-kim", "Founder", "Lumen Analytics", "Seattle, WA"},
	{"Emma Fischer", "emma-fischer", "Sales Lead", "Harbor Collective", "Chicago, IL"},
	{"Oliver Santos", "oliver-santos", "Operations Manager", "Greenfield Studio", "Denver, CO"},
	{"Mia Chen", "mia-chen", "VP Engineering", "Quartz Systems", "Boston, MA"},
	{"Ethan Novak", "ethan-novak", "Business Development", "Atlas Ventures", "Miami, FL"},
}

// MockPoolSize is the number of distinct synthetic identities available per
// platform.
const MockPoolSize = len(mockPool)

var mockProfileHosts = map[entity.Platform]string{
	entity.PlatformLinkedIn:   "https://linkedin.com/in/",
	entity.PlatformInstagram:  "https://instagram.com/",
	entity.PlatformTwitter:    "https://twitter.com/",
	entity.PlatformFacebook:   "https://facebook.com/",
	entity.PlatformGoogleMaps: "https://maps.google.com/?cid=",
}

// GenerateMockContacts produces deterministic synthetic contacts for the
// request: per requested platform, min(max_results, pool size) records in a
// fixed order. Identical requests produce identical output, and the notes
// field always marks the data as synthetic so downstream consumers can tell
// it apart from real leads.
func GenerateMockContacts(req entity.ScrapeRequest) []entity.Contact {
	limit := req.MaxResults
	if limit <= 0 || limit > MockPoolSize {
		limit = MockPoolSize
	}

	contacts := make([]entity.Contact, 0, limit*len(req.Platforms))
	for _, platform := range req.Platforms {
		for i := 0; i < limit; i++ {
			contacts = append(contacts, mockContact(platform, req, i))
		}
	}
	return contacts
}

func mockContact(platform entity.Platform, req entity.ScrapeRequest, i int) entity.Contact {
	identity := mockPool[i%MockPoolSize]

	role := identity.role
	if len(req.Roles) > 0 {
		role = req.Roles[i%len(req.Roles)]
	}
	region := identity.region
	if len(req.Regions) > 0 {
		region = req.Regions[i%len(req.Regions)]
	}

	link := mockProfileHosts[platform] + identity.slug
	// Content-derived id: repeated fallback runs refresh rather than
	// duplicate the same synthetic identity.
	id := uuid.NewSHA1(uuid.NameSpaceURL, []byte(link)).String()

	notes := "[synthetic] Generated fallback lead; scraping provider unavailable."
	if q := strings.TrimSpace(req.SearchQuery); q != "" {
		notes = fmt.Sprintf("%s Matched search: %q.", notes, q)
	}

	return entity.Contact{
		ID:          id,
		Name:        identity.name,
		Role:        role,
		Company:     identity.company,
		Platform:    platform,
		ContactLink: link,
		Region:      region,
		Notes:       notes,
	}
}
