// Package config assembles runtime settings for the dnsadm CLI from three
// layers: built-in defaults, an optional JSON file (-c/-config), and
// command-line flags. Later layers win.
package config

import "time"

// Config holds runtime settings for the CLI.
type Config struct {
	// ServerURL is the base URL of the DNS management API, without the
	// /api/v1 suffix.
	ServerURL string

	// RequestTimeout bounds every HTTP request.
	RequestTimeout time.Duration

	// PageSize is the fixed window size of record listings.
	PageSize int

	// SearchDebounce is the quiet window applied to search-term changes.
	SearchDebounce time.Duration

	// ResetPageOnSearch snaps listings back to page 1 when the search term
	// changes.
	ResetPageOnSearch bool

	// DatabasePath locates the local SQLite file holding the credential pair.
	DatabasePath string

	// Verbose enables debug-level logging.
	Verbose bool
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://localhost:8080"
	c.RequestTimeout = 10 * time.Second
	c.PageSize = 10
	c.SearchDebounce = 500 * time.Millisecond
	c.ResetPageOnSearch = true
	c.DatabasePath = "dnsadm.db"
	c.Verbose = false
}

// LoadConfig builds a Config: defaults, then JSON (if a file was given),
// then flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
