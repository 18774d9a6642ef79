// Package mockapi is an in-memory implementation of the remote profile API.
// It backs local development and end-to-end tests of the client; it is not
// meant to hold real data.
package mockapi

import (
	"flag"
	"time"

	"github.com/dmitrijs2005/profilekeeper/internal/flagx"
)

// Config holds runtime settings for the mock server.
//
// Fields:
//   - Addr: listen address of the HTTP server.
//   - SecretKey: HMAC secret for signing tokens (HS256).
//   - TokenTTL: lifetime of issued tokens.
//   - LogLevel: debug, info, warn or error.
type Config struct {
	Addr      string
	SecretKey string
	TokenTTL  time.Duration
	LogLevel  string
}

// LoadDefaults populates Config with development defaults.
func (c *Config) LoadDefaults() {
	c.Addr = "localhost:8080"
	c.SecretKey = "secretKey"
	c.TokenTTL = 60 * time.Minute
	c.LogLevel = "info"
}

// LoadConfig applies defaults and then the recognised flags from args.
//
//	-a string   listen address
//	-s string   token secret
//	-t int      token lifetime, minutes
//	-l string   log level
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("mockserver", flag.ContinueOnError)
	fs.StringVar(&cfg.Addr, "a", cfg.Addr, "address and port to listen on")
	fs.StringVar(&cfg.SecretKey, "s", cfg.SecretKey, "token secret key")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	ttl := fs.Int("t", int(cfg.TokenTTL.Minutes()), "token validity (in minutes)")

	if err := fs.Parse(flagx.FilterArgs(args, []string{"-a", "-s", "-t", "-l"})); err != nil {
		return nil, err
	}
	cfg.TokenTTL = time.Duration(*ttl) * time.Minute
	return cfg, nil
}
