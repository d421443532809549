package result

import (
	"fmt"
	"io"
	"strings"
)

// PrintSummary writes the end-of-run summary block to w.
func PrintSummary(w io.Writer, res *Result, reportPath string) {
	writef := func(format string, a ...any) { _, _ = fmt.Fprintf(w, format, a...) }

	rule := strings.Repeat("=", 60)
	writef("\n%s\nVERIFICATION COMPLETE!\n%s\n", rule, rule)
	writef("Valid platforms: %d\n", res.Buckets.Count(CategoryValid))
	writef("Invalid/Fake platforms: %d\n", res.Buckets.Count(CategoryInvalid))
	writef("Redirected platforms: %d\n", res.Buckets.Count(CategoryRedirect))
	writef("Error/Unable to verify: %d\n", res.Buckets.Count(CategoryError))
	writef("Checked %d platforms in %s\n", res.Stats.Total, res.Stats.Duration.Round(1_000_000))
	if reportPath != "" {
		writef("\nReport saved to: %s\n", reportPath)
	}
}
