package result

import (
	"sort"
	"time"
)

// Category is the liveness verdict for a single catalogue entry.
type Category string

const (
	CategoryValid    Category = "valid"
	CategoryInvalid  Category = "invalid"
	CategoryError    Category = "error"
	CategoryRedirect Category = "redirect"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryValid,
	CategoryInvalid,
	CategoryRedirect,
	CategoryError,
}

// Outcome is the classifier's verdict for one probe.
type Outcome struct {
	Category Category
	Message  string
}

// Entry is the externally visible result for one catalogue record.
type Entry struct {
	Index      int      `json:"index"`                 // 1-based position in the catalogue
	Name       string   `json:"name"`                  // Platform name as listed
	URL        string   `json:"url"`                   // Address as listed (before normalization)
	Message    string   `json:"message"`               // Human-readable classification detail
	Category   Category `json:"category"`              // Bucket this entry belongs to
	StatusCode int      `json:"status_code,omitempty"` // HTTP status (0 if no response)
	FinalURL   string   `json:"final_url,omitempty"`   // Address after redirects
	Title      string   `json:"title,omitempty"`       // Page <title>, when one was read
}

// Buckets groups entries by category. Each bucket keeps insertion order.
type Buckets map[Category][]Entry

// NewBuckets returns an empty bucket set with every category present.
func NewBuckets() Buckets {
	b := make(Buckets, len(Categories))
	for _, cat := range Categories {
		b[cat] = []Entry{}
	}
	return b
}

// Add appends entry to the bucket named by its category.
func (b Buckets) Add(entry Entry) {
	b[entry.Category] = append(b[entry.Category], entry)
}

// Count returns the number of entries in the given category.
func (b Buckets) Count(cat Category) int {
	return len(b[cat])
}

// Total returns the number of entries across all buckets.
func (b Buckets) Total() int {
	total := 0
	for _, entries := range b {
		total += len(entries)
	}
	return total
}

// All returns every entry across all buckets sorted by index.
func (b Buckets) All() []Entry {
	all := make([]Entry, 0, b.Total())
	for _, entries := range b {
		all = append(all, entries...)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Index < all[j].Index })
	return all
}

// RunStats contains aggregate statistics for a verification run.
type RunStats struct {
	Total    int           // Number of records processed
	Start    int           // First catalogue position in the window
	End      int           // Last catalogue position in the window
	Started  time.Time     // When the run began
	Duration time.Duration // Wall time of the run
}

// Result is the complete output of a verification run.
type Result struct {
	Buckets Buckets
	Stats   RunStats
}
