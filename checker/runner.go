// Package checker probes catalogue addresses and classifies the outcomes.
// It runs a bounded worker pool behind a fixed-interval rate limiter and
// streams progress events while collecting results in catalogue order.
package checker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/lukemcguire/zombiecheck/catalog"
	"github.com/lukemcguire/zombiecheck/result"
	"github.com/lukemcguire/zombiecheck/urlutil"
)

// Runner verifies a window of catalogue records.
type Runner struct {
	cfg        Config
	prober     URLProber
	classifier *result.Classifier
	limiter    *Limiter
	progressCh chan<- Event
}

// NewRunner creates a Runner. A nil prober uses NewProber(cfg) and a nil
// classifier uses the default indicator sets. The progressCh parameter is
// optional; pass nil to disable progress events. The Runner never closes it.
func NewRunner(cfg Config, prober URLProber, classifier *result.Classifier, progressCh chan<- Event) *Runner {
	cfg = cfg.withDefaults()
	if prober == nil {
		prober = NewProber(cfg)
	}
	if classifier == nil {
		classifier = result.NewClassifier(nil, nil)
	}
	return &Runner{
		cfg:        cfg,
		prober:     prober,
		classifier: classifier,
		limiter:    NewLimiter(cfg.Delay),
		progressCh: progressCh,
	}
}

// RequestsPerSecond returns the sustained probe rate, or 0 when unlimited.
func (r *Runner) RequestsPerSecond() float64 {
	return r.limiter.RequestsPerSecond()
}

// slot carries one finished record back to the coordinator.
type slot struct {
	pos   int
	entry result.Entry
}

// Run verifies catalogue positions start through end (1-based, inclusive)
// and returns the entries bucketed by category in ascending index order.
// Each record is probed at most once; failures never abort the run. If ctx
// is cancelled the partial results are discarded and an error is returned.
func (r *Runner) Run(ctx context.Context, cat *catalog.Catalog, start, end int) (*result.Result, error) {
	began := time.Now()

	records, err := cat.Window(start, end)
	if err != nil {
		return nil, fmt.Errorf("select window: %w", err)
	}

	jobs := make(chan int)
	slots := make(chan slot, r.cfg.Concurrency)

	errGroup, groupCtx := errgroup.WithContext(ctx)

	// Producer: feed window positions in ascending order.
	errGroup.Go(func() error {
		defer close(jobs)
		for pos := range records {
			select {
			case jobs <- pos:
			case <-groupCtx.Done():
				return groupCtx.Err()
			}
		}
		return nil
	})

	for range r.cfg.Concurrency {
		errGroup.Go(func() error {
			for pos := range jobs {
				rec := records[pos]
				if hasAddress(rec) {
					if waitErr := r.limiter.Wait(groupCtx); waitErr != nil {
						return fmt.Errorf("rate limiter wait: %w", waitErr)
					}
				}
				slots <- slot{pos: pos, entry: r.Check(groupCtx, rec)}
			}
			return nil
		})
	}

	var waitErr error
	go func() {
		waitErr = errGroup.Wait()
		close(slots)
	}()

	// Coordinator: the only writer of entries, so no locking is needed.
	entries := make([]result.Entry, len(records))
	filled := make([]bool, len(records))
	checked := 0
	for s := range slots {
		entries[s.pos] = s.entry
		filled[s.pos] = true
		checked++

		if r.progressCh != nil {
			r.progressCh <- Event{
				Index:    s.entry.Index,
				Name:     s.entry.Name,
				URL:      s.entry.URL,
				Category: s.entry.Category,
				Message:  s.entry.Message,
				Checked:  checked,
				Total:    len(records),
			}
		}
	}

	if waitErr != nil {
		return nil, fmt.Errorf("wait for workers: %w", waitErr)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("run cancelled: %w", ctxErr)
	}

	buckets := result.NewBuckets()
	for pos, entry := range entries {
		if !filled[pos] {
			return nil, fmt.Errorf("record #%d was not processed", records[pos].Index)
		}
		buckets.Add(entry)
	}

	return &result.Result{
		Buckets: buckets,
		Stats: result.RunStats{
			Total:    len(entries),
			Start:    records[0].Index,
			End:      records[len(records)-1].Index,
			Started:  began,
			Duration: time.Since(began),
		},
	}, nil
}

// Check normalizes, probes and classifies a single record. Records without
// an address are reported invalid without a probe.
func (r *Runner) Check(ctx context.Context, rec catalog.Record) result.Entry {
	entry := result.Entry{Index: rec.Index, Name: rec.Name, URL: rec.URL}

	if !hasAddress(rec) {
		entry.Category = result.CategoryInvalid
		entry.Message = result.MessageNoURL
		return entry
	}

	probe := r.prober.Probe(ctx, urlutil.EnsureScheme(strings.TrimSpace(rec.URL)))
	outcome := r.classifier.Classify(probe)

	entry.Category = outcome.Category
	entry.Message = outcome.Message
	entry.StatusCode = probe.StatusCode
	if probe.Failure != nil && probe.Failure.StatusCode != 0 {
		entry.StatusCode = probe.Failure.StatusCode
	}
	entry.FinalURL = probe.FinalURL
	entry.Title = probe.Title
	return entry
}

func hasAddress(rec catalog.Record) bool {
	return strings.TrimSpace(rec.URL) != ""
}
