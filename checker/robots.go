package checker

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync"

	"github.com/temoto/robotstxt"
)

// RobotsChecker fetches robots.txt once per origin and answers whether the
// site root may be probed. Fetch or parse failures allow the probe.
type RobotsChecker struct {
	client *http.Client
	mu     sync.Mutex
	cache  map[string]*robotstxt.RobotsData // origin -> rules; nil means allow all
}

// NewRobotsChecker creates a RobotsChecker with the given HTTP client.
func NewRobotsChecker(client *http.Client) *RobotsChecker {
	return &RobotsChecker{
		client: client,
		cache:  make(map[string]*robotstxt.RobotsData),
	}
}

// Allowed reports whether userAgent may fetch the path of target. The
// returned error is informational: when it is non-nil the answer is true.
func (r *RobotsChecker) Allowed(ctx context.Context, target, userAgent string) (bool, error) {
	parsed, err := url.Parse(target)
	if err != nil {
		return true, fmt.Errorf("parse URL: %w", err)
	}
	if parsed.Host == "" {
		return true, nil
	}
	origin := parsed.Scheme + "://" + parsed.Host

	r.mu.Lock()
	data, cached := r.cache[origin]
	r.mu.Unlock()

	if !cached {
		data, err = r.fetch(ctx, origin)
		r.mu.Lock()
		r.cache[origin] = data
		r.mu.Unlock()
		if err != nil {
			return true, err
		}
	}

	if data == nil {
		return true, nil
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}
	return data.TestAgent(path, userAgent), nil
}

func (r *RobotsChecker) fetch(ctx context.Context, origin string) (*robotstxt.RobotsData, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, origin+"/robots.txt", nil)
	if err != nil {
		return nil, fmt.Errorf("create robots.txt request for %s: %w", origin, err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch robots.txt for %s: %w", origin, err)
	}
	defer func() { _ = resp.Body.Close() }()

	// Missing robots.txt or a server error means no rules apply.
	if resp.StatusCode == http.StatusNotFound || resp.StatusCode >= 500 {
		return nil, nil
	}

	data, err := robotstxt.FromResponse(resp)
	if err != nil {
		return nil, fmt.Errorf("parse robots.txt for %s: %w", origin, err)
	}
	return data, nil
}
