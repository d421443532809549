// Package report renders the Markdown verification report.
package report

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/lukemcguire/zombiecheck/result"
)

// TimeLayout formats the report's generation timestamp.
const TimeLayout = "2006-01-02 15:04:05"

// Input is everything the report is rendered from.
type Input struct {
	Source     string         // Catalogue file named in the recommended actions
	Start      int            // First catalogue position in the window
	End        int            // Last catalogue position in the window
	Generated  time.Time      // Timestamp printed under the title
	Total      int            // Records processed in the run
	Buckets    result.Buckets // Classified entries
	KnownFakes []string       // Operator-curated list printed verbatim
}

// section describes one results table.
type section struct {
	category    result.Category
	heading     string
	blurb       string
	issueColumn string
}

var sections = []section{
	{
		category:    result.CategoryInvalid,
		heading:     "Invalid/Fake Platforms Detected",
		blurb:       "These platforms have non-existent domains or are parked domains:",
		issueColumn: "Issue",
	},
	{
		category:    result.CategoryRedirect,
		heading:     "Platforms with Suspicious Redirects",
		blurb:       "These platforms redirect to different domains (may be legitimate or suspicious):",
		issueColumn: "Redirect Info",
	},
	{
		category:    result.CategoryError,
		heading:     "Platforms with Verification Errors",
		blurb:       "These platforms could not be verified (may be temporary issues):",
		issueColumn: "Error",
	},
}

// Render produces the report text. It performs no I/O and its output
// depends only on in.
func Render(in Input) string {
	var b strings.Builder
	line := func(format string, a ...any) {
		fmt.Fprintf(&b, format, a...)
		b.WriteByte('\n')
	}

	source := in.Source
	if source == "" {
		source = "the catalog"
	}

	line("# Platform Verification Report - Platforms %d-%d", in.Start, in.End)
	line("")
	line("Generated: %s", in.Generated.Format(TimeLayout))
	line("")
	line("Total platforms checked: %d", in.Total)
	line("")

	line("## Summary")
	line("")
	line("- Valid: %d", in.Buckets.Count(result.CategoryValid))
	line("- Invalid/Fake: %d", in.Buckets.Count(result.CategoryInvalid))
	line("- Redirected: %d", in.Buckets.Count(result.CategoryRedirect))
	line("- Error: %d", in.Buckets.Count(result.CategoryError))
	line("")

	line("## Known Fake Platforms (from user)")
	line("")
	line("The following platforms were previously identified as fake:")
	line("")
	if len(in.KnownFakes) == 0 {
		line("_None recorded._")
	}
	for _, fake := range in.KnownFakes {
		line("- %s", fake)
	}
	line("")

	for _, sec := range sections {
		entries := in.Buckets[sec.category]
		if len(entries) == 0 {
			continue
		}
		line("## %s", sec.heading)
		line("")
		line("%s", sec.blurb)
		line("")
		writeTable(&b, sec.issueColumn, entries)
		line("")
	}

	if valid := in.Buckets[result.CategoryValid]; len(valid) > 0 {
		line("## Valid Platforms")
		line("")
		line("These %d platforms appear to be legitimate and reachable:", len(valid))
		line("")
		line("<details>")
		line("<summary>Click to expand list</summary>")
		line("")
		writeTable(&b, "Status", valid)
		line("")
		line("</details>")
		line("")
	}

	line("## Recommended Actions")
	line("")
	actions := recommendedActions(in.Buckets, source)
	if len(actions) == 0 {
		line("No action required.")
	}
	for i, action := range actions {
		line("%d. %s", i+1, action)
	}
	line("")
	line("---")
	line("")
	line("*This report was automatically generated by platform verification script*")

	return b.String()
}

func recommendedActions(buckets result.Buckets, source string) []string {
	var actions []string
	if n := buckets.Count(result.CategoryInvalid); n > 0 {
		actions = append(actions, fmt.Sprintf("**Remove %d invalid/fake platforms** from %s", n, source))
	}
	if n := buckets.Count(result.CategoryRedirect); n > 0 {
		actions = append(actions, fmt.Sprintf("**Review %d redirected platforms** - verify if they are legitimate or should be updated", n))
	}
	if n := buckets.Count(result.CategoryError); n > 0 {
		actions = append(actions, fmt.Sprintf("**Re-verify %d platforms with errors** - these may be temporary issues", n))
	}
	return actions
}

func writeTable(b *strings.Builder, lastColumn string, entries []result.Entry) {
	fmt.Fprintf(b, "| # | Platform Name | URL | %s |\n", lastColumn)
	fmt.Fprintf(b, "|---|---------------|-----|%s|\n", strings.Repeat("-", len(lastColumn)+2))
	for _, e := range entries {
		fmt.Fprintf(b, "| %d | %s | %s | %s |\n", e.Index, cell(e.Name), cell(e.URL), cell(e.Message))
	}
}

// cell keeps a value on one table row.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	s = strings.ReplaceAll(s, "\r", " ")
	return strings.ReplaceAll(s, "\n", " ")
}

// WriteFile renders in and writes it to path, replacing any existing file.
func WriteFile(path string, in Input) error {
	if err := os.WriteFile(path, []byte(Render(in)), 0o644); err != nil {
		return fmt.Errorf("write report %s: %w", path, err)
	}
	return nil
}
