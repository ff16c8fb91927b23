// Package config loads runtime configuration for the PatinaPRO terminal
// client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string    backend base URL (http://localhost:8000)
//	-d string    local session database (patinapro.db)
//	-u string    fallback profile user (solrack1)
//	-l string    log level (info)
//	-lat float   fixed device latitude (-33.448)
//	-lon float   fixed device longitude (-70.669)
//
// # JSON schema
//
//	{
//	  "server_base_url": "http://10.0.2.2:8000",
//	  "database_path": "/var/lib/patinapro/session.db",
//	  "fallback_username": "solrack1",
//	  "log_level": "debug",
//	  "latitude": -33.4489,
//	  "longitude": -70.6693
//	}
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
