package scraper

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/nyaruka/phonenumbers"
	"golang.org/x/net/idna"

	"github.com/octobees/outreach-toolkit/api/internal/entity"
)

const defaultPhoneRegion = "US"

// Key aliases tolerated per canonical field. Providers disagree on naming,
// so extraction walks these lists in order and takes the first non-empty hit.
var (
	nameKeys    = []string{"name", "full_name", "fullName", "contact_name", "title"}
	roleKeys    = []string{"role", "job_title", "jobTitle", "headline", "position", "occupation", "category"}
	companyKeys = []string{"company", "company_name", "companyName", "organization", "workplace"}
	linkKeys    = []string{"contact_link", "profile_url", "profileUrl", "url", "link"}
	regionKeys  = []string{"region", "location"}
	notesKeys   = []string{"notes", "bio", "description", "summary", "about"}
	idKeys      = []string{"place_id", "placeId", "profile_id", "profileId", "id"}

	ratingKeys  = []string{"rating", "stars", "totalScore"}
	reviewKeys  = []string{"review_count", "reviews", "reviews_count", "reviewsCount", "user_ratings_total"}
	addressKeys = []string{"address", "full_address", "street_address"}
	phoneKeys   = []string{"phone", "phone_number", "phoneNumber", "phoneUnformatted"}
	websiteKeys = []string{"website", "website_url", "websiteUrl", "domain"}
	placeIDKeys = []string{"place_id", "placeId"}
)

// NormalizeRecord converts one raw provider record into a canonical Contact.
// Missing optional fields are omitted, never defaulted; unknown keys are
// dropped because the canonical schema is closed. An error is returned only
// when the record is unusable (no name), which aborts the whole batch.
func NormalizeRecord(raw RawRecord, req entity.ScrapeRequest) (entity.Contact, error) {
	name := firstString(raw, nameKeys)
	if name == "" {
		return entity.Contact{}, fmt.Errorf("record has no usable name field")
	}

	platform := recordPlatform(raw, req)

	contact := entity.Contact{
		Name:        name,
		Role:        firstString(raw, roleKeys),
		Company:     firstString(raw, companyKeys),
		Platform:    platform,
		ContactLink: firstString(raw, linkKeys),
		Region:      extractRegion(raw),
		Notes:       extractNotes(raw, req),
	}

	if rating, ok := firstFloat(raw, ratingKeys); ok {
		contact.Rating = &rating
	}
	if reviews, ok := firstInt(raw, reviewKeys); ok {
		contact.ReviewCount = &reviews
	}
	if address := firstString(raw, addressKeys); address != "" {
		contact.Address = &address
	}
	if phone := normalizePhone(firstString(raw, phoneKeys), defaultPhoneRegion); phone != "" {
		contact.Phone = &phone
	}
	if website := normalizeWebsite(firstString(raw, websiteKeys)); website != "" {
		contact.Website = &website
	}
	if placeID := firstString(raw, placeIDKeys); placeID != "" {
		contact.PlaceID = &placeID
	}

	contact.ID = resolveID(raw, contact)
	return contact, nil
}

// resolveID reuses a stable provider identifier when present so repeated
// scrapes of the same entity deduplicate; otherwise it derives a
// content-based id from the fields least likely to change.
func resolveID(raw RawRecord, contact entity.Contact) string {
	if id := firstString(raw, idKeys); id != "" {
		return id
	}
	seed := string(contact.Platform) + "|" + contact.ContactLink + "|" + contact.Name
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(seed)).String()
}

func recordPlatform(raw RawRecord, req entity.ScrapeRequest) entity.Platform {
	if value := firstString(raw, []string{"platform"}); value != "" {
		if platform, err := entity.ParsePlatform(value); err == nil {
			return platform
		}
	}
	if len(req.Platforms) > 0 {
		return req.Platforms[0]
	}
	return ""
}

// extractRegion prefers a combined region string and otherwise assembles one
// from whatever locality fragments the provider supplied.
func extractRegion(raw RawRecord) string {
	if region := firstString(raw, regionKeys); region != "" {
		return region
	}
	parts := make([]string, 0, 3)
	for _, key := range []string{"city", "locality", "state", "country"} {
		if value := stringValue(raw[key]); value != "" {
			parts = append(parts, value)
		}
	}
	return strings.Join(parts, ", ")
}

// extractNotes falls back to the originating search query so the UI always
// has a reason for a given lead.
func extractNotes(raw RawRecord, req entity.ScrapeRequest) string {
	if notes := firstString(raw, notesKeys); notes != "" {
		return notes
	}
	if q := strings.TrimSpace(req.SearchQuery); q != "" {
		return fmt.Sprintf("Matched search: %q", q)
	}
	return ""
}

func normalizePhone(raw, region string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	number, err := phonenumbers.Parse(raw, region)
	if err != nil {
		return ""
	}
	if !phonenumbers.IsValidNumber(number) {
		return ""
	}
	return phonenumbers.Format(number, phonenumbers.E164)
}

// normalizeWebsite validates the hostname through the IDNA lookup profile
// and discards values that cannot resolve to a real domain.
func normalizeWebsite(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	if !strings.Contains(raw, "://") {
		raw = "https://" + raw
	}
	u, err := url.Parse(raw)
	if err != nil || u.Hostname() == "" {
		return ""
	}
	if _, err := idna.Lookup.ToASCII(u.Hostname()); err != nil {
		return ""
	}
	return u.String()
}

func firstString(raw RawRecord, keys []string) string {
	for _, key := range keys {
		if value := stringValue(raw[key]); value != "" {
			return value
		}
	}
	return ""
}

func firstFloat(raw RawRecord, keys []string) (float64, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			if f, err := strconv.ParseFloat(strings.TrimSpace(v), 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func firstInt(raw RawRecord, keys []string) (int, bool) {
	for _, key := range keys {
		switch v := raw[key].(type) {
		case int:
			return v, true
		case float64:
			return int(v), true
		case string:
			if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
				return n, true
			}
		}
	}
	return 0, false
}

func stringValue(value any) string {
	s, _ := value.(string)
	return strings.TrimSpace(s)
}
