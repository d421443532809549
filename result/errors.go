package result

import (
	"context"
	"errors"
	"net"
	"net/url"
	"os"
)

// FailureKind classifies why a probe did not yield a usable response.
type FailureKind string

const (
	FailureDNS        FailureKind = "dns_failure"
	FailureTimeout    FailureKind = "timeout"
	FailureHTTP       FailureKind = "http_error"
	FailureTransport  FailureKind = "transport_error"
	FailureDisallowed FailureKind = "disallowed"
	FailureOther      FailureKind = "other"
)

// Failure describes a probe that did not produce a successful response.
type Failure struct {
	Kind       FailureKind
	StatusCode int    // Set for FailureHTTP
	Detail     string // Underlying diagnostic text
}

// ProbeResult is everything the classifier needs to know about one probe.
type ProbeResult struct {
	RequestedURL string   // Normalized address that was requested
	FinalURL     string   // Address after redirects were followed
	StatusCode   int      // HTTP status of the final response
	ContentType  string   // Declared Content-Type of the final response
	Body         string   // Lower-cased, UTF-8 decoded body prefix
	Title        string   // Page <title>, if any
	Failure      *Failure // Non-nil when the probe failed
}

// ClassifyError determines the failure kind of a transport-level error
// returned by an HTTP client.
func ClassifyError(err error) FailureKind {
	if err == nil {
		return FailureOther
	}

	// A resolver that gave up waiting is a timeout, not a missing domain.
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		if dnsErr.IsTimeout {
			return FailureTimeout
		}
		return FailureDNS
	}

	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return FailureTimeout
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return FailureTimeout
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return FailureTransport
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return FailureTransport
	}

	return FailureOther
}

// FailureFromError builds a Failure for err, unwrapping *url.Error so the
// detail carries the underlying cause rather than the request line.
func FailureFromError(err error) *Failure {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
		var urlErr *url.Error
		if errors.As(err, &urlErr) && urlErr.Err != nil {
			detail = urlErr.Err.Error()
		}
	}
	return &Failure{Kind: ClassifyError(err), Detail: detail}
}

// FormatCategory returns a human-readable label for a category.
func FormatCategory(cat Category) string {
	switch cat {
	case CategoryValid:
		return "Valid"
	case CategoryInvalid:
		return "Invalid/Fake"
	case CategoryRedirect:
		return "Redirected"
	case CategoryError:
		return "Error"
	default:
		return "Unknown"
	}
}
