package urlutil

import "testing"

func TestNormalize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{
			name:     "fragment stripping",
			input:    "https://example.com/page#section",
			expected: "https://example.com/page",
			wantErr:  false,
		},
		{
			name:     "trailing slash stripping",
			input:    "https://example.com/about/",
			expected: "https://example.com/about",
			wantErr:  false,
		},
		{
			name:     "root path keeps slash",
			input:    "https://example.com/",
			expected: "https://example.com/",
			wantErr:  false,
		},
		{
			name:     "query params preserved",
			input:    "https://example.com/search?q=foo",
			expected: "https://example.com/search?q=foo",
			wantErr:  false,
		},
		{
			name:     "scheme lowercased",
			input:    "HTTPS://Example.Com/Page",
			expected: "https://example.com/Page",
			wantErr:  false,
		},
		{
			name:     "already normalized URL passes through",
			input:    "https://example.com/path",
			expected: "https://example.com/path",
			wantErr:  false,
		},
		{
			name:     "empty string returns error",
			input:    "",
			expected: "",
			wantErr:  true,
		},
		{
			name:     "invalid URL returns error",
			input:    "://invalid",
			expected: "",
			wantErr:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Normalize(tt.input)
			if (err != nil) != tt.wantErr {
				t.Errorf("Normalize() error = %v, wantErr %v", err, tt.wantErr)
				return
			}
			if got != tt.expected {
				t.Errorf("Normalize() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestEnsureScheme(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "bare domain gets https", input: "example.com", expected: "https://example.com"},
		{name: "bare domain with path", input: "example.com/tools", expected: "https://example.com/tools"},
		{name: "https passes through", input: "https://example.com", expected: "https://example.com"},
		{name: "http passes through", input: "http://example.com", expected: "http://example.com"},
		{name: "uppercase scheme passes through", input: "HTTP://Example.com", expected: "HTTP://Example.com"},
		{name: "scheme-relative is prefixed", input: "//example.com", expected: "https:////example.com"},
		{name: "other scheme is prefixed", input: "ftp://example.com", expected: "https://ftp://example.com"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := EnsureScheme(tt.input)
			if got != tt.expected {
				t.Errorf("EnsureScheme(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestCanonical(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "bare domain", input: "example.com", expected: "example.com"},
		{name: "www and trailing slash", input: "https://www.example.com/", expected: "example.com"},
		{name: "http and case", input: "http://Example.com", expected: "example.com"},
		{name: "path kept", input: "example.com/app/", expected: "example.com/app"},
		{name: "query kept", input: "example.com/?ref=dir", expected: "example.com?ref=dir"},
		{name: "surrounding space", input: "  example.com  ", expected: "example.com"},
		{name: "empty", input: "   ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Canonical(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Canonical() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.expected {
				t.Errorf("Canonical(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
