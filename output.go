package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lukemcguire/zombiecheck/config"
	"github.com/lukemcguire/zombiecheck/history"
	"github.com/lukemcguire/zombiecheck/report"
	"github.com/lukemcguire/zombiecheck/result"
)

// writeOutputs writes the Markdown report and any configured exports.
func writeOutputs(cfg config.Config, source string, res *result.Result, generated time.Time) error {
	in := report.Input{
		Source:     source,
		Start:      res.Stats.Start,
		End:        res.Stats.End,
		Generated:  generated,
		Total:      res.Stats.Total,
		Buckets:    res.Buckets,
		KnownFakes: cfg.KnownFakes,
	}
	if err := report.WriteFile(cfg.Report, in); err != nil {
		return err
	}

	exports := []struct {
		path  string
		write func(io.Writer, result.Buckets) error
	}{
		{cfg.Exports.JSON, result.WriteJSON},
		{cfg.Exports.CSV, result.WriteCSV},
		{cfg.Exports.XLSX, result.WriteXLSX},
	}
	for _, exp := range exports {
		if exp.path == "" {
			continue
		}
		if err := writeExport(exp.path, res.Buckets, exp.write); err != nil {
			return err
		}
	}
	return nil
}

func writeExport(path string, buckets result.Buckets, write func(io.Writer, result.Buckets) error) (err error) {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export: %w", err)
	}
	defer func() {
		err = errors.Join(err, file.Close())
	}()

	if err := write(file, buckets); err != nil {
		return fmt.Errorf("write export %s: %w", path, err)
	}
	return nil
}

// recordHistory logs category changes since the previous run and stores
// this one. History problems are reported but never fail the run.
func recordHistory(ctx context.Context, logger *log.Logger, path, source string, res *result.Result) {
	store, err := history.Open(path)
	if err != nil {
		logger.Warn("history unavailable", "path", path, "err", err)
		return
	}
	defer store.Close()

	previous, err := store.LatestCategories(ctx, source)
	if err != nil {
		logger.Warn("read history", "err", err)
	}
	for _, ch := range history.Changes(previous, res.Buckets) {
		logger.Warn("category changed since last run",
			"index", ch.Entry.Index,
			"name", ch.Entry.Name,
			"from", result.FormatCategory(ch.Previous),
			"to", result.FormatCategory(ch.Entry.Category),
		)
	}

	runID, err := store.SaveRun(ctx, source, res)
	if err != nil {
		logger.Warn("save history", "err", err)
		return
	}
	runs, err := store.RunCount(ctx)
	if err != nil {
		logger.Warn("count history runs", "err", err)
		return
	}
	logger.Debug("run recorded", "run", runID, "stored_runs", runs, "path", path)
}
