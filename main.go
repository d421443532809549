// Package main provides the zombiecheck CLI entrypoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"

	"github.com/lukemcguire/zombiecheck/catalog"
	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/config"
	"github.com/lukemcguire/zombiecheck/result"
	"github.com/lukemcguire/zombiecheck/tui"
)

const (
	exitOK      = 0
	exitFatal   = 1
	exitInvalid = 2
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// options holds flags that are not part of config.Config.
type options struct {
	configPath string
	envFile    string
	plain      bool
}

func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("zombiecheck", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintln(stderr, "Usage: zombiecheck [flags]")
		fmt.Fprintln(stderr, "Flags:")
		fs.PrintDefaults()
	}

	var opts options
	def := config.Default()
	fs.StringVar(&opts.configPath, "config", "", "YAML config file (default "+config.DefaultPath+" if present)")
	fs.StringVar(&opts.envFile, "env-file", ".env", "dotenv file loaded before reading ZOMBIECHECK_* variables")
	fs.BoolVar(&opts.plain, "plain", false, "log one line per record instead of the interactive view")

	catalogPath := fs.String("catalog", def.Catalog, "platform catalogue (JSON array)")
	reportPath := fs.String("report", def.Report, "Markdown report path")
	start := fs.Int("start", def.Window.Start, "first catalogue position to check (1-based)")
	end := fs.Int("end", def.Window.End, "last catalogue position to check (0 = last record)")
	timeout := fs.Duration("timeout", def.Probe.Timeout, "per-probe timeout")
	delay := fs.Duration("delay", def.Rate.Delay, "minimum spacing between probe starts")
	concurrency := fs.Int("concurrency", def.Rate.Concurrency, "number of concurrent probes")
	userAgent := fs.String("user-agent", def.Probe.UserAgent, "user agent string")
	bodyLimit := fs.Int64("body-limit", def.Probe.BodyLimit, "maximum body bytes inspected per probe")
	respectRobots := fs.Bool("respect-robots", def.Probe.RespectRobots, "skip sites whose robots.txt disallows the root path")
	indicators := fs.String("indicators", "", "comma-separated parked-page phrases replacing the built-in set")
	extraIndicators := fs.String("extra-indicators", "", "comma-separated parked-page phrases added to the set")
	urlIndicators := fs.String("url-indicators", "", "comma-separated parking-marketplace address markers replacing the built-in set")
	extraURLIndicators := fs.String("extra-url-indicators", "", "comma-separated parking-marketplace address markers added to the set")
	knownFakes := fs.String("known-fakes", strings.Join(def.KnownFakes, ","), "comma-separated known fake platforms listed in the report")
	historyPath := fs.String("history", def.History, "SQLite run history database (empty disables)")
	jsonPath := fs.String("json", "", "write results as JSON to this path")
	csvPath := fs.String("csv", "", "write results as CSV to this path")
	xlsxPath := fs.String("xlsx", "", "write results as an Excel workbook to this path")
	logLevel := fs.String("log-level", def.LogLevel, "log level (debug, info, warn, error)")
	failOnInvalid := fs.Bool("fail-on-invalid", def.FailOnInvalid, "exit with status 2 when invalid platforms are found")

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitFatal
	}
	if fs.NArg() > 0 {
		fmt.Fprintf(stderr, "unexpected arguments: %s\n", strings.Join(fs.Args(), " "))
		fs.Usage()
		return exitFatal
	}

	logger := log.NewWithOptions(stderr, log.Options{
		ReportTimestamp: true,
		TimeFormat:      time.TimeOnly,
		Prefix:          "zombiecheck",
	})

	if err := godotenv.Load(opts.envFile); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Error("load env file", "path", opts.envFile, "err", err)
		return exitFatal
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		logger.Error("load config", "err", err)
		return exitFatal
	}

	// Flags given on the command line win over file and environment.
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "catalog":
			cfg.Catalog = *catalogPath
		case "report":
			cfg.Report = *reportPath
		case "start":
			cfg.Window.Start = *start
		case "end":
			cfg.Window.End = *end
		case "timeout":
			cfg.Probe.Timeout = *timeout
		case "delay":
			cfg.Rate.Delay = *delay
		case "concurrency":
			cfg.Rate.Concurrency = *concurrency
		case "user-agent":
			cfg.Probe.UserAgent = *userAgent
		case "body-limit":
			cfg.Probe.BodyLimit = *bodyLimit
		case "respect-robots":
			cfg.Probe.RespectRobots = *respectRobots
		case "indicators":
			cfg.Indicators = config.SplitList(*indicators)
		case "extra-indicators":
			cfg.ExtraIndicators = config.SplitList(*extraIndicators)
		case "url-indicators":
			cfg.URLIndicators = config.SplitList(*urlIndicators)
		case "extra-url-indicators":
			cfg.ExtraURLIndicators = config.SplitList(*extraURLIndicators)
		case "known-fakes":
			cfg.KnownFakes = config.SplitList(*knownFakes)
		case "history":
			cfg.History = *historyPath
		case "json":
			cfg.Exports.JSON = *jsonPath
		case "csv":
			cfg.Exports.CSV = *csvPath
		case "xlsx":
			cfg.Exports.XLSX = *xlsxPath
		case "log-level":
			cfg.LogLevel = *logLevel
		case "fail-on-invalid":
			cfg.FailOnInvalid = *failOnInvalid
		}
	})

	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		logger.Error("invalid log level", "level", cfg.LogLevel, "err", err)
		return exitFatal
	}
	logger.SetLevel(level)

	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "err", err)
		return exitFatal
	}

	cat, err := catalog.Load(cfg.Catalog)
	if err != nil {
		logger.Error("load catalog", "err", err)
		return exitFatal
	}
	window, err := cat.Window(cfg.Window.Start, cfg.Window.End)
	if err != nil {
		logger.Error("select window", "records", cat.Len(), "err", err)
		return exitFatal
	}

	for _, dup := range cat.Duplicates() {
		logger.Warn("duplicate platform address",
			"index", dup.Record.Index, "name", dup.Record.Name, "first", dup.First, "key", dup.Key)
	}

	// Sized to the window so the runner never blocks on a slow consumer.
	progressCh := make(chan checker.Event, len(window))
	checkerCfg := cfg.Checker()
	classifier := cfg.Classifier()
	runner := checker.NewRunner(checkerCfg, nil, classifier, progressCh)

	logger.Info("starting verification",
		"catalog", cfg.Catalog,
		"start", window[0].Index,
		"end", window[len(window)-1].Index,
		"concurrency", checkerCfg.Concurrency,
		"rps", runner.RequestsPerSecond(),
	)
	logger.Debug("parked indicators",
		"body", strings.Join(classifier.Indicators(), ", "),
		"url", strings.Join(classifier.URLIndicators(), ", "),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	interactive := !opts.plain && isTerminal(stdout)

	var res *result.Result
	if interactive {
		res, err = runInteractive(ctx, stop, runner, cat, cfg, progressCh)
	} else {
		res, err = runPlain(ctx, logger, runner, cat, cfg, progressCh)
	}
	if err != nil {
		logger.Error("verification failed; no report written", "err", err)
		return exitFatal
	}

	if cfg.History != "" {
		recordHistory(ctx, logger, cfg.History, cat.Source, res)
	}

	if err := writeOutputs(cfg, cat.Source, res, time.Now()); err != nil {
		logger.Error("write output", "err", err)
		return exitFatal
	}

	result.PrintSummary(stdout, res, cfg.Report)

	if cfg.FailOnInvalid && res.Buckets.Count(result.CategoryInvalid) > 0 {
		return exitInvalid
	}
	return exitOK
}

// runPlain logs one line per record while the runner works.
func runPlain(ctx context.Context, logger *log.Logger, runner *checker.Runner, cat *catalog.Catalog, cfg config.Config, progressCh chan checker.Event) (*result.Result, error) {
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for ev := range progressCh {
			logger.Info(fmt.Sprintf("[%d/%d] #%d %s", ev.Checked, ev.Total, ev.Index, ev.Name),
				"url", ev.URL, "category", ev.Category, "message", ev.Message)
		}
	}()

	res, err := runner.Run(ctx, cat, cfg.Window.Start, cfg.Window.End)
	close(progressCh)
	wg.Wait()
	return res, err
}

// runInteractive drives the Bubble Tea view until the run finishes or the
// user quits.
func runInteractive(ctx context.Context, cancel context.CancelFunc, runner *checker.Runner, cat *catalog.Catalog, cfg config.Config, progressCh <-chan checker.Event) (*result.Result, error) {
	model := tui.NewModel(ctx, cancel, tui.Run{
		Runner:  runner,
		Catalog: cat,
		Start:   cfg.Window.Start,
		End:     cfg.Window.End,
	}, progressCh)

	finalModel, err := tea.NewProgram(model).Run()
	if err != nil {
		return nil, fmt.Errorf("run interface: %w", err)
	}

	final, ok := finalModel.(tui.Model)
	if !ok {
		return nil, errors.New("unexpected interface model")
	}
	if final.Quitting() {
		return nil, errors.New("interrupted")
	}
	if final.Err() != nil {
		return nil, final.Err()
	}
	return final.GetResult(), nil
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
