package checker

import (
	"net"
	"time"
)

// DefaultUserAgent is a browser-like identity; many directory entries sit
// behind bot filters that reject obvious crawler agents.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36"

// Config holds prober and runner configuration.
type Config struct {
	Concurrency    int           // Number of concurrent probes (default 1)
	RequestTimeout time.Duration // Per-probe timeout (default 10s)
	Delay          time.Duration // Minimum spacing between probe starts (default 500ms)
	UserAgent      string        // User-Agent header sent with every probe
	BodyLimit      int64         // Maximum body bytes read per probe (default 10000)
	MaxRedirects   int           // Redirects followed before giving up (default 10)
	RespectRobots  bool          // Skip hosts whose robots.txt disallows "/"
	Resolver       *net.Resolver // Optional resolver; nil uses the system default
}

// DefaultConfig returns a Config with the defaults used by the CLI.
func DefaultConfig() Config {
	return Config{
		Concurrency:    1,
		RequestTimeout: 10 * time.Second,
		Delay:          500 * time.Millisecond,
		UserAgent:      DefaultUserAgent,
		BodyLimit:      10_000,
		MaxRedirects:   10,
	}
}

// withDefaults fills zero-valued fields from DefaultConfig. A negative Delay
// disables rate limiting.
func (c Config) withDefaults() Config {
	def := DefaultConfig()
	if c.Concurrency <= 0 {
		c.Concurrency = def.Concurrency
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = def.RequestTimeout
	}
	if c.Delay == 0 {
		c.Delay = def.Delay
	}
	if c.UserAgent == "" {
		c.UserAgent = def.UserAgent
	}
	if c.BodyLimit <= 0 {
		c.BodyLimit = def.BodyLimit
	}
	if c.MaxRedirects <= 0 {
		c.MaxRedirects = def.MaxRedirects
	}
	return c
}
