package urlutil

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// DefaultScheme is prepended to addresses that carry no transport scheme.
const DefaultScheme = "https://"

// EnsureScheme returns rawURL unchanged when it already begins with http://
// or https:// (case-insensitive), and prefixes it with https:// otherwise.
// Callers are expected to reject empty addresses before calling it.
func EnsureScheme(rawURL string) string {
	lower := strings.ToLower(rawURL)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return rawURL
	}
	return DefaultScheme + rawURL
}

// Normalize takes a raw URL string and returns a normalized version.
// Normalization includes:
// - Lowercasing the scheme and host
// - Stripping fragments (#section)
// - Stripping trailing slashes (except for root path "/")
// - Preserving query parameters
//
// Returns an error if the input is empty or cannot be parsed as a valid URL.
func Normalize(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errors.New("cannot normalize empty URL")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize URL %q: %w", rawURL, err)
	}

	if parsed.Scheme == "" || parsed.Host == "" {
		return "", errors.New("URL must have both scheme and host")
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = strings.ToLower(parsed.Host)
	parsed.Fragment = ""

	if parsed.Path != "/" && strings.HasSuffix(parsed.Path, "/") {
		parsed.Path = strings.TrimSuffix(parsed.Path, "/")
	}

	return parsed.String(), nil
}

// Canonical returns a comparison key for a catalogue address: the scheme is
// dropped, a leading "www." is removed from the host and a bare root path is
// treated as empty, so "example.com", "https://www.example.com/" and
// "http://Example.com" share one key.
func Canonical(rawURL string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return "", errors.New("cannot canonicalize empty URL")
	}

	normalized, err := Normalize(EnsureScheme(trimmed))
	if err != nil {
		return "", err
	}

	parsed, err := url.Parse(normalized)
	if err != nil {
		return "", fmt.Errorf("canonicalize URL %q: %w", rawURL, err)
	}

	key := strings.TrimPrefix(parsed.Host, "www.")
	if parsed.Path != "/" {
		key += parsed.Path
	}
	if parsed.RawQuery != "" {
		key += "?" + parsed.RawQuery
	}
	return key, nil
}
