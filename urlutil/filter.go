package urlutil

import (
	"net/url"
	"strings"
)

// Netloc returns the lower-cased network location (host[:port]) of rawURL,
// or an empty string when rawURL cannot be parsed.
func Netloc(rawURL string) string {
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return strings.ToLower(parsed.Host)
}

// IsSameOrSubdomain reports whether netloc equals base or is a subdomain of
// it. The suffix must start on a label boundary: "blog.example.com" matches
// "example.com", while "notexample.com" and "example.com.evil.com" do not.
// Both arguments are host[:port] strings; comparison is case-insensitive.
func IsSameOrSubdomain(netloc, base string) bool {
	netloc = strings.ToLower(netloc)
	base = strings.ToLower(base)
	if base == "" {
		return netloc == ""
	}
	return netloc == base || strings.HasSuffix(netloc, "."+base)
}
