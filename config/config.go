// Package config assembles run settings from defaults, an optional YAML
// file and ZOMBIECHECK_* environment variables. Command-line flags are
// applied on top by the caller.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/lukemcguire/zombiecheck/checker"
	"github.com/lukemcguire/zombiecheck/result"
)

// DefaultPath is read when no config file is named explicitly. A missing
// default file is not an error.
const DefaultPath = "zombiecheck.yaml"

// EnvPrefix prefixes every environment override.
const EnvPrefix = "ZOMBIECHECK_"

// Config is the full set of run settings.
type Config struct {
	Catalog string `yaml:"catalog"`
	Report  string `yaml:"report"`
	Window  Window `yaml:"window"`
	Probe   Probe  `yaml:"probe"`
	Rate    Rate   `yaml:"rate"`

	// Indicators replaces the built-in parked-page phrases when non-empty.
	Indicators      []string `yaml:"indicators"`
	ExtraIndicators []string `yaml:"extra_indicators"`

	// URLIndicators replaces the built-in parking-marketplace address
	// markers when non-empty.
	URLIndicators      []string `yaml:"url_indicators"`
	ExtraURLIndicators []string `yaml:"extra_url_indicators"`
	KnownFakes         []string `yaml:"known_fakes"`

	History       string  `yaml:"history"`
	Exports       Exports `yaml:"exports"`
	LogLevel      string  `yaml:"log_level"`
	FailOnInvalid bool    `yaml:"fail_on_invalid"`
}

// Window is the 1-based inclusive catalogue range. End 0 means the last record.
type Window struct {
	Start int `yaml:"start"`
	End   int `yaml:"end"`
}

type Probe struct {
	Timeout       time.Duration `yaml:"timeout"`
	UserAgent     string        `yaml:"user_agent"`
	BodyLimit     int64         `yaml:"body_limit"`
	RespectRobots bool          `yaml:"respect_robots"`
}

type Rate struct {
	Concurrency int           `yaml:"concurrency"`
	Delay       time.Duration `yaml:"delay"`
}

// Exports names optional output files; empty paths are skipped.
type Exports struct {
	JSON string `yaml:"json"`
	CSV  string `yaml:"csv"`
	XLSX string `yaml:"xlsx"`
}

// Default returns the built-in settings.
func Default() Config {
	def := checker.DefaultConfig()
	return Config{
		Catalog: "platforms.json",
		Report:  "FAKE_PLATFORMS_REPORT.md",
		Window:  Window{Start: 1},
		Probe: Probe{
			Timeout:   def.RequestTimeout,
			UserAgent: def.UserAgent,
			BodyLimit: def.BodyLimit,
		},
		Rate: Rate{
			Concurrency: def.Concurrency,
			Delay:       def.Delay,
		},
		KnownFakes: []string{"shopai.com", "auraflow.ai", "neurasearch.io", "videoforge.ai"},
		LogLevel:   "info",
	}
}

// Load returns defaults overlaid with the YAML file at path and then the
// process environment. An empty path tries DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}
	if err := cfg.mergeFile(path); err != nil {
		if explicit || !errors.Is(err, os.ErrNotExist) {
			return Config{}, err
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ApplyEnv overlays ZOMBIECHECK_* variables found through lookup. List
// values are comma separated.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	var errs []error
	get := func(key string) (string, bool) {
		v, ok := lookup(EnvPrefix + key)
		return strings.TrimSpace(v), ok
	}
	str := func(key string, dst *string) {
		if v, ok := get(key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v, ok := get(key); ok {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v, ok := get(key); ok {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = d
		}
	}
	flag := func(key string, dst *bool) {
		if v, ok := get(key); ok {
			b, err := strconv.ParseBool(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("%s%s: %w", EnvPrefix, key, err))
				return
			}
			*dst = b
		}
	}
	list := func(key string, dst *[]string) {
		if v, ok := get(key); ok {
			*dst = SplitList(v)
		}
	}

	str("CATALOG", &c.Catalog)
	str("REPORT", &c.Report)
	num("START", &c.Window.Start)
	num("END", &c.Window.End)
	dur("TIMEOUT", &c.Probe.Timeout)
	str("USER_AGENT", &c.Probe.UserAgent)
	if v, ok := get("BODY_LIMIT"); ok {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("%sBODY_LIMIT: %w", EnvPrefix, err))
		} else {
			c.Probe.BodyLimit = n
		}
	}
	flag("RESPECT_ROBOTS", &c.Probe.RespectRobots)
	num("CONCURRENCY", &c.Rate.Concurrency)
	dur("DELAY", &c.Rate.Delay)
	list("INDICATORS", &c.Indicators)
	list("EXTRA_INDICATORS", &c.ExtraIndicators)
	list("URL_INDICATORS", &c.URLIndicators)
	list("EXTRA_URL_INDICATORS", &c.ExtraURLIndicators)
	list("KNOWN_FAKES", &c.KnownFakes)
	str("HISTORY", &c.History)
	str("JSON", &c.Exports.JSON)
	str("CSV", &c.Exports.CSV)
	str("XLSX", &c.Exports.XLSX)
	str("LOG_LEVEL", &c.LogLevel)
	flag("FAIL_ON_INVALID", &c.FailOnInvalid)

	return errors.Join(errs...)
}

// Validate reports settings that cannot produce a run.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.Catalog) == "" {
		errs = append(errs, errors.New("catalog path is empty"))
	}
	if strings.TrimSpace(c.Report) == "" {
		errs = append(errs, errors.New("report path is empty"))
	}
	if c.Window.Start < 1 {
		errs = append(errs, fmt.Errorf("window start %d is below 1", c.Window.Start))
	}
	if c.Window.End < 0 {
		errs = append(errs, fmt.Errorf("window end %d is negative", c.Window.End))
	}
	if c.Window.End > 0 && c.Window.Start > c.Window.End {
		errs = append(errs, fmt.Errorf("window start %d is after end %d", c.Window.Start, c.Window.End))
	}
	if c.Probe.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("probe timeout must be positive, got %s", c.Probe.Timeout))
	}
	if c.Probe.BodyLimit <= 0 {
		errs = append(errs, fmt.Errorf("body limit must be positive, got %d", c.Probe.BodyLimit))
	}
	if c.Rate.Concurrency < 1 {
		errs = append(errs, fmt.Errorf("concurrency must be at least 1, got %d", c.Rate.Concurrency))
	}
	if c.Rate.Delay < 0 {
		errs = append(errs, fmt.Errorf("delay must not be negative, got %s", c.Rate.Delay))
	}
	return errors.Join(errs...)
}

// IndicatorSet returns the parked-page phrases to classify with.
func (c Config) IndicatorSet() []string {
	return mergeIndicators(result.DefaultIndicators, c.Indicators, c.ExtraIndicators)
}

// URLIndicatorSet returns the final-address markers to classify with.
func (c Config) URLIndicatorSet() []string {
	return mergeIndicators(result.DefaultURLIndicators, c.URLIndicators, c.ExtraURLIndicators)
}

// Classifier builds the outcome classifier from both indicator sets.
func (c Config) Classifier() *result.Classifier {
	return result.NewClassifier(c.IndicatorSet(), c.URLIndicatorSet())
}

func mergeIndicators(defaults, replace, extra []string) []string {
	base := defaults
	if len(replace) > 0 {
		base = replace
	}
	set := make([]string, 0, len(base)+len(extra))
	set = append(set, base...)
	return append(set, extra...)
}

// Checker converts the probe and rate settings into a checker.Config. A
// zero delay is passed through as "no spacing".
func (c Config) Checker() checker.Config {
	cfg := checker.DefaultConfig()
	cfg.Concurrency = c.Rate.Concurrency
	cfg.RequestTimeout = c.Probe.Timeout
	cfg.Delay = c.Rate.Delay
	if cfg.Delay == 0 {
		cfg.Delay = -1
	}
	cfg.UserAgent = c.Probe.UserAgent
	cfg.BodyLimit = c.Probe.BodyLimit
	cfg.RespectRobots = c.Probe.RespectRobots
	return cfg
}

// SplitList splits a comma-separated value, dropping blanks.
func SplitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
