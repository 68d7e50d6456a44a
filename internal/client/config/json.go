package config

import (
	"encoding/json"
	"os"

	"dnsadm/internal/flagx"
	"dnsadm/internal/timex"
)

// JsonConfig is the DTO for the optional JSON config file. Durations accept
// either strings like "500ms" or integer nanoseconds (timex.Duration).
// Pointer fields distinguish "absent" from a zero value so the file only
// overrides what it actually sets.
type JsonConfig struct {
	ServerURL         *string         `json:"server_url"`
	RequestTimeout    *timex.Duration `json:"request_timeout"`
	PageSize          *int            `json:"page_size"`
	SearchDebounce    *timex.Duration `json:"search_debounce"`
	ResetPageOnSearch *bool           `json:"reset_page_on_search"`
	DatabasePath      *string         `json:"database_path"`
	Verbose           *bool           `json:"verbose"`
}

// parseJson overlays cfg with values from the JSON file named by -c/-config.
// No file flag means no JSON layer. Read or parse failures panic; the caller
// is main and there is nothing sensible to continue with.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	var jc JsonConfig
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	if jc.ServerURL != nil {
		cfg.ServerURL = *jc.ServerURL
	}
	if jc.RequestTimeout != nil {
		cfg.RequestTimeout = jc.RequestTimeout.Duration
	}
	if jc.PageSize != nil {
		cfg.PageSize = *jc.PageSize
	}
	if jc.SearchDebounce != nil {
		cfg.SearchDebounce = jc.SearchDebounce.Duration
	}
	if jc.ResetPageOnSearch != nil {
		cfg.ResetPageOnSearch = *jc.ResetPageOnSearch
	}
	if jc.DatabasePath != nil {
		cfg.DatabasePath = *jc.DatabasePath
	}
	if jc.Verbose != nil {
		cfg.Verbose = *jc.Verbose
	}
}
