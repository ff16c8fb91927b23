package config

import (
	"flag"
	"os"

	"github.com/dmitrijs2005/patinapro/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
//	-a string    backend base URL
//	-d string    path of the local session database
//	-u string    user whose profile is shown when nobody is logged in
//	-l string    log level (debug, info, warn, error)
//	-lat float   latitude reported by the location source
//	-lon float   longitude reported by the location source
//
// Only these flags are taken from os.Args (see flagx.FilterArgs).
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-u", "-l", "-lat", "-lon"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerBaseURL, "a", cfg.ServerBaseURL, "backend base URL")
	fs.StringVar(&cfg.DatabasePath, "d", cfg.DatabasePath, "local database path")
	fs.StringVar(&cfg.FallbackUsername, "u", cfg.FallbackUsername, "fallback profile user")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.Float64Var(&cfg.Latitude, "lat", cfg.Latitude, "device latitude")
	fs.Float64Var(&cfg.Longitude, "lon", cfg.Longitude, "device longitude")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
