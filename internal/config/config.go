package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port                  string
	ApifyToken            string
	ApifyBaseURL          string
	DatabaseURL           string
	SheetsCredentialsFile string
	AudienceConfigFile    string
	ScrapeTimeout         time.Duration
	MaxConcurrentJobs     int
	ProviderRPS           float64
	RateLimitScrape       RateLimitConfig
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:                  getEnv("PORT", "8080"),
		ApifyToken:            os.Getenv("APIFY_TOKEN"),
		ApifyBaseURL:          getEnv("APIFY_BASE_URL", "https://api.apify.com"),
		DatabaseURL:           os.Getenv("DATABASE_URL"),
		SheetsCredentialsFile: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_FILE"),
		AudienceConfigFile:    os.Getenv("AUDIENCE_CONFIG_FILE"),
		ScrapeTimeout:         parseDuration(getEnv("SCRAPE_TIMEOUT", "45s"), 45*time.Second),
		MaxConcurrentJobs:     parseInt(getEnv("MAX_CONCURRENT_JOBS", "4"), 4),
		ProviderRPS:           parseFloat(getEnv("PROVIDER_RPS", "2"), 2),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_SCRAPE", "10/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_SCRAPE value: %w", err)
	}
	cfg.RateLimitScrape = rl

	return cfg, nil
}

// Audience holds the vocabulary offered to the UI for building scrape
// requests. The core treats filters as opaque strings; this is dropdown
// material, not an enforced closed set.
type Audience struct {
	Platforms  []string `yaml:"platforms" json:"platforms"`
	Industries []string `yaml:"industries" json:"industries"`
	Roles      []string `yaml:"roles" json:"roles"`
	Regions    []string `yaml:"regions" json:"regions"`
}

func defaultAudience() Audience {
	return Audience{
		Platforms:  []string{"LinkedIn", "Instagram", "Twitter", "Facebook", "GoogleMaps"},
		Industries: []string{"Technology", "Finance", "Healthcare", "Retail", "Hospitality"},
		Roles:      []string{"Founder", "CEO", "Marketing Director", "Product Manager", "Software Engineer"},
		Regions:    []string{"San Francisco", "New York", "Austin", "London", "Berlin"},
	}
}

// LoadAudience reads the audience vocabulary from a YAML file. A missing
// path yields the compiled-in defaults; a present but unreadable file is an
// error so typos do not silently fall back.
func LoadAudience(path string) (Audience, error) {
	if path == "" {
		return defaultAudience(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Audience{}, fmt.Errorf("read audience config: %w", err)
	}

	var audience Audience
	if err := yaml.Unmarshal(data, &audience); err != nil {
		return Audience{}, fmt.Errorf("parse audience config: %w", err)
	}

	defaults := defaultAudience()
	if len(audience.Platforms) == 0 {
		audience.Platforms = defaults.Platforms
	}
	if len(audience.Industries) == 0 {
		audience.Industries = defaults.Industries
	}
	if len(audience.Roles) == 0 {
		audience.Roles = defaults.Roles
	}
	if len(audience.Regions) == 0 {
		audience.Regions = defaults.Regions
	}
	return audience, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func parseDuration(input string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(input string, fallback int) int {
	n, err := strconv.Atoi(input)
	if err != nil {
		return fallback
	}
	return n
}

func parseFloat(input string, fallback float64) float64 {
	f, err := strconv.ParseFloat(input, 64)
	if err != nil {
		return fallback
	}
	return f
}
