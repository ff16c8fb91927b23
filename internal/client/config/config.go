package config

// Config holds runtime settings for the PatinaPRO terminal client.
//
// Latitude and Longitude are the fixed position reported by the terminal's
// location source, in decimal degrees.
type Config struct {
	ServerBaseURL    string
	DatabasePath     string
	FallbackUsername string
	LogLevel         string
	Latitude         float64
	Longitude        float64
}

// LoadDefaults populates c with the defaults of a local development setup.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "http://localhost:8000"
	c.DatabasePath = "patinapro.db"
	c.FallbackUsername = "solrack1"
	c.LogLevel = "info"
	c.Latitude = -33.448
	c.Longitude = -70.669
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
