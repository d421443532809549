package result

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func TestPrintSummary(t *testing.T) {
	var buf bytes.Buffer
	res := &Result{
		Buckets: sampleBuckets(),
		Stats:   RunStats{Total: 3, Start: 10, End: 12, Duration: 1500 * time.Millisecond},
	}

	PrintSummary(&buf, res, "FAKE_PLATFORMS_REPORT.md")
	got := buf.String()

	for _, want := range []string{
		"VERIFICATION COMPLETE!",
		"Valid platforms: 1\n",
		"Invalid/Fake platforms: 1\n",
		"Redirected platforms: 0\n",
		"Error/Unable to verify: 1\n",
		"Checked 3 platforms in 1.5s",
		"Report saved to: FAKE_PLATFORMS_REPORT.md",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("summary missing %q:\n%s", want, got)
		}
	}
}

func TestPrintSummary_NoReportPath(t *testing.T) {
	var buf bytes.Buffer
	PrintSummary(&buf, &Result{Buckets: NewBuckets()}, "")
	if strings.Contains(buf.String(), "Report saved") {
		t.Error("report path line should be omitted when empty")
	}
}

func TestBuckets(t *testing.T) {
	b := sampleBuckets()
	if b.Total() != 3 {
		t.Errorf("Total() = %d, want 3", b.Total())
	}
	if b.Count(CategoryRedirect) != 0 {
		t.Errorf("Count(redirect) = %d, want 0", b.Count(CategoryRedirect))
	}
	all := b.All()
	for i := 1; i < len(all); i++ {
		if all[i-1].Index >= all[i].Index {
			t.Fatalf("All() not sorted by index: %v", all)
		}
	}
}
