package config

import "time"

// Config holds runtime settings for the profilekeeper CLI.
//
// Fields:
//   - ServerBaseURL: base URL of the remote profile API, including the /api prefix.
//   - DatabaseDSN: path of the local SQLite file holding session and gallery state.
//   - RequestTimeout: upper bound for a single HTTP exchange.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	ServerBaseURL  string
	DatabaseDSN    string
	RequestTimeout time.Duration
	LogLevel       string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerBaseURL = "https://interview-task-bmcl.onrender.com/api"
	c.DatabaseDSN = "profilekeeper.db"
	c.RequestTimeout = 30 * time.Second
	c.LogLevel = "info"
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
