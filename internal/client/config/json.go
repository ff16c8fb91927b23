package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/patinapro/internal/flagx"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. Coordinates
// are pointers so that an explicit 0 can be told apart from a missing key.
type JsonConfig struct {
	ServerBaseURL    string   `json:"server_base_url"`
	DatabasePath     string   `json:"database_path"`
	FallbackUsername string   `json:"fallback_username"`
	LogLevel         string   `json:"log_level"`
	Latitude         *float64 `json:"latitude"`
	Longitude        *float64 `json:"longitude"`
}

// parseJson overlays Config with values from the JSON file named by -c or
// -config. Keys missing from the file leave the current value alone.
// Panics on read or unmarshal errors.
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	overlay(&cfg.ServerBaseURL, jc.ServerBaseURL)
	overlay(&cfg.DatabasePath, jc.DatabasePath)
	overlay(&cfg.FallbackUsername, jc.FallbackUsername)
	overlay(&cfg.LogLevel, jc.LogLevel)

	if jc.Latitude != nil {
		cfg.Latitude = *jc.Latitude
	}
	if jc.Longitude != nil {
		cfg.Longitude = *jc.Longitude
	}
}
