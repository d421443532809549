// Package catalog loads the platform directory that zombiecheck audits and
// selects the window of records a run will probe.
package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/lukemcguire/zombiecheck/urlutil"
)

// ErrEmptyCatalog is returned when the catalogue holds no records.
var ErrEmptyCatalog = errors.New("catalog is empty")

// ErrInvalidWindow is returned when a window does not overlap the catalogue.
var ErrInvalidWindow = errors.New("invalid window")

// Record is one catalogue entry.
type Record struct {
	Index int    // 1-based position in the catalogue
	Name  string // Platform name, "Unknown" when absent
	URL   string // Candidate address, possibly scheme-less or empty
}

// rawRecord mirrors the fields zombiecheck reads from a catalogue entry.
// Other fields are ignored.
type rawRecord struct {
	Name    string `json:"name"`
	URL     string `json:"url"`
	Website string `json:"website"`
}

// Catalog is the ordered list of records loaded from a source file.
type Catalog struct {
	Source  string
	Records []Record
}

// Load reads a JSON catalogue from path.
func Load(path string) (*Catalog, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	cat, err := Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	cat.Source = path
	return cat, nil
}

// Decode reads a JSON array of platform objects from r. A UTF-8 or UTF-16
// byte order mark is honoured and stripped.
func Decode(r io.Reader) (*Catalog, error) {
	decoder := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	dec := json.NewDecoder(transform.NewReader(r, decoder))

	var raw []rawRecord
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("parse json: %w", err)
	}
	if len(raw) == 0 {
		return nil, ErrEmptyCatalog
	}

	records := make([]Record, len(raw))
	for i, rr := range raw {
		name := strings.TrimSpace(rr.Name)
		if name == "" {
			name = "Unknown"
		}
		// The first non-empty address field wins.
		addr := strings.TrimSpace(rr.URL)
		if addr == "" {
			addr = strings.TrimSpace(rr.Website)
		}
		records[i] = Record{Index: i + 1, Name: name, URL: addr}
	}
	return &Catalog{Records: records}, nil
}

// Len returns the number of records in the catalogue.
func (c *Catalog) Len() int {
	return len(c.Records)
}

// Window returns the records at 1-based positions start through end,
// inclusive. An end of 0 or beyond the catalogue is clamped to the last
// record; start below 1 is treated as 1.
func (c *Catalog) Window(start, end int) ([]Record, error) {
	if start < 1 {
		start = 1
	}
	if end <= 0 || end > len(c.Records) {
		end = len(c.Records)
	}
	if start > len(c.Records) {
		return nil, fmt.Errorf("%w: start %d beyond catalog of %d records", ErrInvalidWindow, start, len(c.Records))
	}
	if start > end {
		return nil, fmt.Errorf("%w: start %d after end %d", ErrInvalidWindow, start, end)
	}

	window := make([]Record, end-start+1)
	copy(window, c.Records[start-1:end])
	return window, nil
}

// Duplicate describes a record whose address already appeared earlier in
// the catalogue.
type Duplicate struct {
	Record Record
	First  int    // Index of the first record with the same address
	Key    string // Canonical form both addresses share
}

// Duplicates returns records whose canonical address matches an earlier
// record, in catalogue order. Records without an address are skipped.
func (c *Catalog) Duplicates() []Duplicate {
	firstSeen := make(map[string]int, len(c.Records))
	var dups []Duplicate
	for _, rec := range c.Records {
		key, err := urlutil.Canonical(rec.URL)
		if err != nil {
			continue
		}
		if first, ok := firstSeen[key]; ok {
			dups = append(dups, Duplicate{Record: rec, First: first, Key: key})
			continue
		}
		firstSeen[key] = rec.Index
	}
	return dups
}
