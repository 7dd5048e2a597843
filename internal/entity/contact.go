package entity

// Contact is the canonical lead record every platform-specific payload is
// normalized into. Optional platform-specific fields are pointers so that
// absent values are omitted from JSON rather than serialized as sentinels.
type Contact struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Role        string   `json:"role,omitempty"`
	Company     string   `json:"company,omitempty"`
	Platform    Platform `json:"platform"`
	ContactLink string   `json:"contact_link,omitempty"`
	Region      string   `json:"region,omitempty"`
	Notes       string   `json:"notes,omitempty"`

	Rating      *float64 `json:"rating,omitempty"`
	ReviewCount *int     `json:"review_count,omitempty"`
	Address     *string  `json:"address,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Website     *string  `json:"website,omitempty"`
	PlaceID     *string  `json:"place_id,omitempty"`
}

// ScrapeRequest describes one lead acquisition run. It is treated as an
// immutable snapshot once a job has been created from it.
type ScrapeRequest struct {
	Platforms   []Platform `json:"platforms"`
	Industries  []string   `json:"industries,omitempty"`
	Roles       []string   `json:"roles,omitempty"`
	Regions     []string   `json:"regions,omitempty"`
	SearchQuery string     `json:"search_query,omitempty"`
	MaxResults  int        `json:"max_results,omitempty"`
}
