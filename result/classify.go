package result

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/lukemcguire/zombiecheck/urlutil"
)

// MessageNoURL is reported for records without an address. No probe is made.
const MessageNoURL = "No URL provided"

// DefaultIndicators are body substrings that mark a parked, for-sale or
// placeholder page.
var DefaultIndicators = []string{
	"domain is for sale",
	"this domain may be for sale",
	"parked domain",
	"coming soon",
	"under construction",
	"domain not configured",
	"this site can't be reached",
	"godaddy",
	"namecheap",
	"sedo",
}

// DefaultURLIndicators are final-address substrings of domain marketplaces
// and parking services.
var DefaultURLIndicators = []string{
	"domain-for-sale",
	"parked-domain",
	"this-domain-is-for-sale",
	"godaddy.com/parking",
	"afternic.com",
	"sedo.com/search",
	"hugedomains.com",
	"dan.com",
}

// Classifier maps probe results to outcomes. The zero value is not usable;
// construct one with NewClassifier.
type Classifier struct {
	indicators    []string
	urlIndicators []string
}

// NewClassifier returns a Classifier matching body indicators against the
// page and URL indicators against the final address. Blank and duplicate
// entries are dropped; a nil or empty set falls back to DefaultIndicators or
// DefaultURLIndicators respectively.
func NewClassifier(indicators, urlIndicators []string) *Classifier {
	if len(indicators) == 0 {
		indicators = DefaultIndicators
	}
	if len(urlIndicators) == 0 {
		urlIndicators = DefaultURLIndicators
	}
	return &Classifier{
		indicators:    normalizeIndicators(indicators),
		urlIndicators: normalizeIndicators(urlIndicators),
	}
}

func normalizeIndicators(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := make([]string, 0, len(in))
	for _, ind := range in {
		ind = strings.ToLower(strings.TrimSpace(ind))
		if ind == "" || seen[ind] {
			continue
		}
		seen[ind] = true
		out = append(out, ind)
	}
	return out
}

// Indicators returns a copy of the active body indicator set.
func (c *Classifier) Indicators() []string {
	return append([]string(nil), c.indicators...)
}

// URLIndicators returns a copy of the active final-address indicator set.
func (c *Classifier) URLIndicators() []string {
	return append([]string(nil), c.urlIndicators...)
}

// Classify applies the rules in precedence order: probe failures first, then
// parked content or a parking-marketplace final address, then cross-domain
// redirects, then success.
func (c *Classifier) Classify(res ProbeResult) Outcome {
	if res.Failure != nil {
		return classifyFailure(res.Failure)
	}

	if containsAny(res.Body, c.indicators) || containsAny(res.FinalURL, c.urlIndicators) {
		return Outcome{CategoryInvalid, fmt.Sprintf("Parked domain or for sale (Status: %d)", res.StatusCode)}
	}

	original := urlutil.Netloc(res.RequestedURL)
	final := urlutil.Netloc(res.FinalURL)
	if res.FinalURL != "" && original != final && !urlutil.IsSameOrSubdomain(final, original) {
		return Outcome{CategoryRedirect, fmt.Sprintf("Redirects to different domain: %s (Status: %d)", final, res.StatusCode)}
	}

	return Outcome{CategoryValid, fmt.Sprintf("Active (Status: %d)", res.StatusCode)}
}

// containsAny reports whether s, lower-cased, contains any of the
// lower-case needles.
func containsAny(s string, needles []string) bool {
	if s == "" {
		return false
	}
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, n) {
			return true
		}
	}
	return false
}

func classifyFailure(f *Failure) Outcome {
	switch f.Kind {
	case FailureDNS:
		return Outcome{CategoryInvalid, "Domain does not exist (DNS resolution failed)"}
	case FailureTimeout:
		return Outcome{CategoryError, "Connection timeout"}
	case FailureHTTP:
		return classifyStatus(f.StatusCode)
	case FailureTransport:
		return Outcome{CategoryError, "URL Error: " + f.Detail}
	case FailureDisallowed:
		return Outcome{CategoryError, "Probe disallowed by robots.txt"}
	default:
		return Outcome{CategoryError, "Unexpected error: " + f.Detail}
	}
}

// classifyStatus handles HTTP error responses. A block page still proves the
// host is live, so 401 and 403 count as valid.
func classifyStatus(code int) Outcome {
	switch {
	case code == http.StatusUnauthorized || code == http.StatusForbidden:
		return Outcome{CategoryValid, fmt.Sprintf("Site exists but access restricted (Status: %d)", code)}
	case code == http.StatusNotFound:
		return Outcome{CategoryInvalid, "Page not found (404)"}
	case code >= 500:
		return Outcome{CategoryError, fmt.Sprintf("Server error (Status: %d)", code)}
	default:
		return Outcome{CategoryError, fmt.Sprintf("HTTP Error %d", code)}
	}
}
