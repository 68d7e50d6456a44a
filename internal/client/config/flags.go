package config

import (
	"flag"
	"os"

	"dnsadm/internal/flagx"
)

// parseFlags overlays Config fields from command-line flags:
//
//	-s string   base URL of the DNS management API
//	-p int      records per page
//	-d string   path to the local credentials database
//	-v          verbose (debug) logging
//
// Args are filtered with flagx.FilterArgs so the -c/-config flags handled by
// parseJson do not trip this flag set.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-s", "-p", "-d", "-v"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "s", cfg.ServerURL, "base URL of the DNS management API")
	fs.IntVar(&cfg.PageSize, "p", cfg.PageSize, "records per page")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "path to the local credentials database")
	fs.BoolVar(&cfg.Verbose, "v", cfg.Verbose, "verbose logging")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
