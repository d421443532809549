package result

import (
	"strings"
	"testing"
)

func TestClassify(t *testing.T) {
	c := NewClassifier(nil, nil)

	tests := []struct {
		name    string
		res     ProbeResult
		wantCat Category
		wantMsg string
	}{
		{
			name:    "dns failure",
			res:     ProbeResult{Failure: &Failure{Kind: FailureDNS, Detail: "no such host"}},
			wantCat: CategoryInvalid,
			wantMsg: "Domain does not exist (DNS resolution failed)",
		},
		{
			name:    "timeout",
			res:     ProbeResult{Failure: &Failure{Kind: FailureTimeout}},
			wantCat: CategoryError,
			wantMsg: "Connection timeout",
		},
		{
			name:    "forbidden counts as live",
			res:     ProbeResult{Failure: &Failure{Kind: FailureHTTP, StatusCode: 403}},
			wantCat: CategoryValid,
			wantMsg: "Site exists but access restricted (Status: 403)",
		},
		{
			name:    "unauthorized counts as live",
			res:     ProbeResult{Failure: &Failure{Kind: FailureHTTP, StatusCode: 401}},
			wantCat: CategoryValid,
			wantMsg: "Site exists but access restricted (Status: 401)",
		},
		{
			name:    "not found",
			res:     ProbeResult{Failure: &Failure{Kind: FailureHTTP, StatusCode: 404}},
			wantCat: CategoryInvalid,
			wantMsg: "Page not found (404)",
		},
		{
			name:    "server error",
			res:     ProbeResult{Failure: &Failure{Kind: FailureHTTP, StatusCode: 503}},
			wantCat: CategoryError,
			wantMsg: "Server error (Status: 503)",
		},
		{
			name:    "other http error",
			res:     ProbeResult{Failure: &Failure{Kind: FailureHTTP, StatusCode: 429}},
			wantCat: CategoryError,
			wantMsg: "HTTP Error 429",
		},
		{
			name:    "transport error keeps diagnostic",
			res:     ProbeResult{Failure: &Failure{Kind: FailureTransport, Detail: "connection refused"}},
			wantCat: CategoryError,
			wantMsg: "URL Error: connection refused",
		},
		{
			name:    "disallowed by robots",
			res:     ProbeResult{Failure: &Failure{Kind: FailureDisallowed}},
			wantCat: CategoryError,
			wantMsg: "Probe disallowed by robots.txt",
		},
		{
			name:    "unclassified error",
			res:     ProbeResult{Failure: &Failure{Kind: FailureOther, Detail: "boom"}},
			wantCat: CategoryError,
			wantMsg: "Unexpected error: boom",
		},
		{
			name: "active page",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://example.com/",
				StatusCode:   200,
				Body:         "<html><title>example tool</title></html>",
			},
			wantCat: CategoryValid,
			wantMsg: "Active (Status: 200)",
		},
		{
			name: "parked page with 200",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://example.com/",
				StatusCode:   200,
				Body:         "<h1>this domain is for sale</h1>",
			},
			wantCat: CategoryInvalid,
			wantMsg: "Parked domain or for sale (Status: 200)",
		},
		{
			name: "upper-case indicator",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://example.com",
				StatusCode:   202,
				Body:         "WELCOME TO THIS PARKED DOMAIN",
			},
			wantCat: CategoryInvalid,
			wantMsg: "Parked domain or for sale (Status: 202)",
		},
		{
			name: "parked beats foreign redirect",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://parking.unrelated.org/lander",
				StatusCode:   200,
				Body:         "buy this domain via sedo",
			},
			wantCat: CategoryInvalid,
			wantMsg: "Parked domain or for sale (Status: 200)",
		},
		{
			name: "redirect to domain marketplace is parked",
			res: ProbeResult{
				RequestedURL: "https://shopai.com",
				FinalURL:     "https://www.hugedomains.com/domain_profile.cfm?d=shopai.com",
				StatusCode:   200,
				Body:         "<html><body>make an offer</body></html>",
			},
			wantCat: CategoryInvalid,
			wantMsg: "Parked domain or for sale (Status: 200)",
		},
		{
			name: "parking path on final address is case-insensitive",
			res: ProbeResult{
				RequestedURL: "https://videoforge.ai",
				FinalURL:     "https://GoDaddy.com/Parking/videoforge.ai",
				StatusCode:   200,
			},
			wantCat: CategoryInvalid,
			wantMsg: "Parked domain or for sale (Status: 200)",
		},
		{
			name: "www subdomain is not a redirect",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://www.example.com/",
				StatusCode:   200,
			},
			wantCat: CategoryValid,
			wantMsg: "Active (Status: 200)",
		},
		{
			name: "foreign domain is a redirect",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://unrelated.org/",
				StatusCode:   200,
			},
			wantCat: CategoryRedirect,
			wantMsg: "Redirects to different domain: unrelated.org (Status: 200)",
		},
		{
			name: "lookalike suffix is a redirect",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				FinalURL:     "https://example.com.evil.com/",
				StatusCode:   200,
			},
			wantCat: CategoryRedirect,
			wantMsg: "Redirects to different domain: example.com.evil.com (Status: 200)",
		},
		{
			name: "missing final url is not a redirect",
			res: ProbeResult{
				RequestedURL: "https://example.com",
				StatusCode:   204,
			},
			wantCat: CategoryValid,
			wantMsg: "Active (Status: 204)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.res)
			if got.Category != tt.wantCat {
				t.Errorf("Category = %v, want %v", got.Category, tt.wantCat)
			}
			if got.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", got.Message, tt.wantMsg)
			}
		})
	}
}

func TestNewClassifier_CustomIndicators(t *testing.T) {
	c := NewClassifier([]string{"  Hello Lander ", "", "hello lander"}, nil)

	if got := c.Indicators(); len(got) != 1 || got[0] != "hello lander" {
		t.Fatalf("Indicators() = %v, want [hello lander]", got)
	}

	parked := c.Classify(ProbeResult{StatusCode: 200, Body: "...hello lander..."})
	if parked.Category != CategoryInvalid {
		t.Errorf("custom indicator not matched: %+v", parked)
	}

	// Defaults are replaced, not merged.
	live := c.Classify(ProbeResult{StatusCode: 200, Body: "coming soon"})
	if live.Category != CategoryValid {
		t.Errorf("default indicator should not match with a custom set: %+v", live)
	}
}

func TestNewClassifier_DefaultsWhenEmpty(t *testing.T) {
	c := NewClassifier([]string{}, nil)
	if len(c.Indicators()) != len(DefaultIndicators) {
		t.Errorf("expected %d default indicators, got %d", len(DefaultIndicators), len(c.Indicators()))
	}
	for _, ind := range c.Indicators() {
		if ind != strings.ToLower(ind) {
			t.Errorf("indicator %q is not lower-cased", ind)
		}
	}
}

func TestNewClassifier_URLIndicators(t *testing.T) {
	defaults := NewClassifier(nil, nil)
	if len(defaults.URLIndicators()) != len(DefaultURLIndicators) {
		t.Errorf("expected %d default URL indicators, got %d", len(DefaultURLIndicators), len(defaults.URLIndicators()))
	}

	c := NewClassifier(nil, []string{" Lander.Example/For-Sale ", "lander.example/for-sale"})
	if got := c.URLIndicators(); len(got) != 1 || got[0] != "lander.example/for-sale" {
		t.Fatalf("URLIndicators() = %v, want [lander.example/for-sale]", got)
	}

	parked := c.Classify(ProbeResult{
		RequestedURL: "https://auraflow.ai",
		FinalURL:     "https://lander.example/for-sale?d=auraflow.ai",
		StatusCode:   200,
	})
	if parked.Category != CategoryInvalid {
		t.Errorf("custom URL indicator not matched: %+v", parked)
	}

	// Defaults are replaced, so a marketplace address is only a redirect now.
	moved := c.Classify(ProbeResult{
		RequestedURL: "https://auraflow.ai",
		FinalURL:     "https://afternic.com/forsale/auraflow.ai",
		StatusCode:   200,
	})
	if moved.Category != CategoryRedirect {
		t.Errorf("default URL indicator should not match with a custom set: %+v", moved)
	}

	// Body indicators never look at the address and vice versa.
	live := c.Classify(ProbeResult{
		RequestedURL: "https://example.com",
		FinalURL:     "https://example.com/coming-soon",
		StatusCode:   200,
		Body:         "lander.example/for-sale",
	})
	if live.Category != CategoryValid {
		t.Errorf("indicator sets crossed over: %+v", live)
	}
}
