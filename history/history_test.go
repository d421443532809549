package history

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/lukemcguire/zombiecheck/result"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "nested", "history.db"))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func runResult(entries ...result.Entry) *result.Result {
	b := result.NewBuckets()
	for _, e := range entries {
		b.Add(e)
	}
	return &result.Result{
		Buckets: b,
		Stats: result.RunStats{
			Total:    len(entries),
			Start:    1,
			End:      len(entries),
			Started:  time.Date(2026, 10, 16, 8, 0, 0, 0, time.UTC),
			Duration: 1500 * time.Millisecond,
		},
	}
}

func TestSaveRun_StoresEveryEntry(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	res := runResult(
		result.Entry{Index: 1, Name: "A", URL: "a.ai", Category: result.CategoryValid, Message: "Active (Status: 200)", StatusCode: 200},
		result.Entry{Index: 2, Name: "B", URL: "b.ai", Category: result.CategoryInvalid, Message: "Page not found (404)", StatusCode: 404},
		result.Entry{Index: 3, Name: "C", URL: "", Category: result.CategoryInvalid, Message: result.MessageNoURL},
	)

	runID, err := store.SaveRun(ctx, "platforms.json", res)
	if err != nil {
		t.Fatalf("SaveRun() error: %v", err)
	}
	if runID <= 0 {
		t.Errorf("run id = %d", runID)
	}

	var rows int
	if err := store.conn.QueryRow("SELECT COUNT(*) FROM results WHERE run_id = ?", runID).Scan(&rows); err != nil {
		t.Fatalf("count results: %v", err)
	}
	if rows != 3 {
		t.Errorf("stored %d result rows, want 3", rows)
	}

	runs, err := store.RunCount(ctx)
	if err != nil || runs != 1 {
		t.Errorf("RunCount() = %d, %v; want 1", runs, err)
	}
}

func TestLatestCategories(t *testing.T) {
	store := openTestStore(t)
	ctx := context.Background()

	first := runResult(
		result.Entry{Index: 1, Name: "A", URL: "a.ai", Category: result.CategoryValid, Message: "ok"},
		result.Entry{Index: 2, Name: "B", URL: "b.ai", Category: result.CategoryError, Message: "Connection timeout"},
	)
	second := runResult(
		result.Entry{Index: 2, Name: "B", URL: "b.ai", Category: result.CategoryInvalid, Message: "Page not found (404)"},
	)
	if _, err := store.SaveRun(ctx, "platforms.json", first); err != nil {
		t.Fatalf("save first run: %v", err)
	}
	if _, err := store.SaveRun(ctx, "platforms.json", second); err != nil {
		t.Fatalf("save second run: %v", err)
	}
	other := runResult(result.Entry{Index: 1, Name: "A", URL: "a.ai", Category: result.CategoryError, Message: "x"})
	if _, err := store.SaveRun(ctx, "other.json", other); err != nil {
		t.Fatalf("save other source: %v", err)
	}

	latest, err := store.LatestCategories(ctx, "platforms.json")
	if err != nil {
		t.Fatalf("LatestCategories() error: %v", err)
	}
	if latest["a.ai"] != result.CategoryValid {
		t.Errorf("a.ai = %q, want valid (other sources ignored)", latest["a.ai"])
	}
	if latest["b.ai"] != result.CategoryInvalid {
		t.Errorf("b.ai = %q, want invalid from the newest run", latest["b.ai"])
	}
}

func TestLatestCategories_Empty(t *testing.T) {
	latest, err := openTestStore(t).LatestCategories(context.Background(), "platforms.json")
	if err != nil {
		t.Fatalf("LatestCategories() error: %v", err)
	}
	if len(latest) != 0 {
		t.Errorf("expected empty map, got %v", latest)
	}
}

func TestChanges(t *testing.T) {
	previous := map[string]result.Category{
		"a.ai": result.CategoryValid,
		"b.ai": result.CategoryValid,
	}
	b := result.NewBuckets()
	b.Add(result.Entry{Index: 1, URL: "a.ai", Category: result.CategoryValid})
	b.Add(result.Entry{Index: 2, URL: "b.ai", Category: result.CategoryInvalid})
	b.Add(result.Entry{Index: 3, URL: "new.ai", Category: result.CategoryError})

	changes := Changes(previous, b)
	if len(changes) != 1 {
		t.Fatalf("got %d changes, want 1: %+v", len(changes), changes)
	}
	if changes[0].Entry.Index != 2 || changes[0].Previous != result.CategoryValid {
		t.Errorf("change = %+v", changes[0])
	}
}
