package checker

import (
	"context"
	"crypto/tls"
	"io"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/lukemcguire/zombiecheck/result"
)

// URLProber issues a single probe against a normalized address.
type URLProber interface {
	Probe(ctx context.Context, target string) result.ProbeResult
}

// Prober performs one GET per address and captures what the classifier
// needs. It never returns an error: every failure is recorded in the
// result's Failure field.
type Prober struct {
	cfg    Config
	client *http.Client
	robots *RobotsChecker
}

// NewProber creates a Prober. Certificate verification is disabled.
func NewProber(cfg Config) *Prober {
	cfg = cfg.withDefaults()

	dialer := &net.Dialer{
		Timeout:  cfg.RequestTimeout,
		Resolver: cfg.Resolver,
	}
	transport := &http.Transport{
		DialContext:           dialer.DialContext,
		TLSClientConfig:       &tls.Config{InsecureSkipVerify: true}, //nolint:gosec // reachability check only
		TLSHandshakeTimeout:   cfg.RequestTimeout,
		ResponseHeaderTimeout: cfg.RequestTimeout,
		MaxIdleConns:          100,
		IdleConnTimeout:       90 * time.Second,
		ForceAttemptHTTP2:     true,
	}

	maxRedirects := cfg.MaxRedirects
	client := &http.Client{
		Transport: transport,
		// Past the limit the last 3xx response is returned as the final one.
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= maxRedirects {
				return http.ErrUseLastResponse
			}
			return nil
		},
	}

	p := &Prober{cfg: cfg, client: client}
	if cfg.RespectRobots {
		// Separate client for robots.txt with shorter timeout
		p.robots = NewRobotsChecker(&http.Client{Transport: transport, Timeout: 5 * time.Second})
	}
	return p
}

// Probe fetches target once and returns the status, final address, declared
// content type and a lower-cased prefix of the body.
func (p *Prober) Probe(ctx context.Context, target string) (res result.ProbeResult) {
	res.RequestedURL = target

	if p.robots != nil {
		// robots.txt errors fail open; only an explicit disallow skips the probe.
		if allowed, _ := p.robots.Allowed(ctx, target, p.cfg.UserAgent); !allowed {
			res.Failure = &result.Failure{Kind: result.FailureDisallowed, Detail: "disallowed by robots.txt"}
			return res
		}
	}

	reqCtx, cancel := context.WithTimeout(ctx, p.cfg.RequestTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, target, nil)
	if err != nil {
		res.Failure = &result.Failure{Kind: result.FailureOther, Detail: err.Error()}
		return res
	}
	req.Header.Set("User-Agent", p.cfg.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")

	resp, err := p.client.Do(req)
	if err != nil {
		res.Failure = result.FailureFromError(err)
		return res
	}
	defer func() { _ = resp.Body.Close() }()

	res.StatusCode = resp.StatusCode
	res.FinalURL = resp.Request.URL.String()
	res.ContentType = resp.Header.Get("Content-Type")

	// Anything outside 2xx is an HTTP failure, including a 3xx the client
	// could not or would not follow.
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		res.Failure = &result.Failure{Kind: result.FailureHTTP, StatusCode: resp.StatusCode, Detail: resp.Status}
		return res
	}

	prefix, err := io.ReadAll(io.LimitReader(resp.Body, p.cfg.BodyLimit))
	if err != nil {
		res.Failure = result.FailureFromError(err)
		return res
	}

	text := decodeBody(prefix, res.ContentType)
	res.Title = pageTitle(text)
	res.Body = strings.ToLower(text)
	return res
}
