// Package config parses the m3umine CLI surface: flags with environment
// variable fallbacks, defaults and validation.
package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
)

// Config is the fully-resolved set of options driving one run.
type Config struct {
	Input  string
	Output string
	Log    string

	ReprocessPlaylists bool
	ReprocessStreams   bool
	ClearProgress      bool

	FetchWorkers int
	ProbeWorkers int

	Timeout      int // seconds
	SaveInterval int // seconds

	NoFilters     bool
	IncludeRadio  bool
	IncludeAdult  bool
	Quiet         bool
	NoColors      bool

	LogLevel       string
	OtelExporter   string
	OtelEndpoint   string
	MetricsTextfile string
	HistoryDB      string
}

// ErrInvalidWorkers is returned when fetch or probe worker counts are non-positive.
var ErrInvalidWorkers = errors.New("config: worker counts must be positive")

// ErrInvalidTimeout is returned when the per-request timeout is non-positive.
var ErrInvalidTimeout = errors.New("config: timeout must be positive")

// Parse parses args (normally os.Args[1:]) into a Config, applies the
// M3UMINE_* environment fallbacks of applyEnvFallbacks, then validates
// the result.
func Parse(args []string) (Config, error) {
	fetchWorkers, probeWorkers, rest, err := extractWorkers(args)
	if err != nil {
		return Config{}, err
	}

	fs := flag.NewFlagSet("m3umine", flag.ContinueOnError)

	cfg := Config{FetchWorkers: fetchWorkers, ProbeWorkers: probeWorkers}
	fs.StringVar(&cfg.Input, "input", "", "path to the SQL dump to mine for playlist URLs")
	fs.StringVar(&cfg.Output, "output", "IPTV.m3u8", "output M3U playlist path")
	fs.StringVar(&cfg.Log, "log", "LOG.log", "log file path")
	fs.BoolVar(&cfg.ReprocessPlaylists, "reprocess-playlists", false, "ignore persisted playlist status and refetch everything")
	fs.BoolVar(&cfg.ReprocessStreams, "reprocess-streams", false, "ignore persisted stream results and reprobe everything")
	fs.BoolVar(&cfg.ClearProgress, "clear-progress", false, "delete persisted progress before starting")
	fs.IntVar(&cfg.Timeout, "timeout", 10, "per-request timeout in seconds")
	fs.IntVar(&cfg.SaveInterval, "save-interval", 30, "seconds between in-wave checkpoint ticks")
	fs.BoolVar(&cfg.NoFilters, "no-filters", false, "disable content filtering entirely")
	fs.BoolVar(&cfg.IncludeRadio, "include-radio", false, "do not filter radio streams")
	fs.BoolVar(&cfg.IncludeAdult, "include-adult", false, "do not filter adult streams")
	fs.BoolVar(&cfg.Quiet, "quiet", false, "raise the log level floor to warn")
	fs.BoolVar(&cfg.NoColors, "no-colors", false, "disable ANSI colors / console log formatting")
	fs.StringVar(&cfg.LogLevel, "log-level", "info", "log level: debug, info, warn, error")
	fs.StringVar(&cfg.OtelExporter, "otel-exporter", "noop", "otel trace exporter: grpc, http, noop")
	fs.StringVar(&cfg.OtelEndpoint, "otel-endpoint", "", "otel collector endpoint")
	fs.StringVar(&cfg.MetricsTextfile, "metrics-textfile", "", "node-exporter textfile-collector path; empty disables")
	fs.StringVar(&cfg.HistoryDB, "history-db", "m3umine_history.db", "run history ledger sqlite path")

	if err := fs.Parse(rest); err != nil {
		return Config{}, err
	}

	applyEnvFallbacks(&cfg)

	if cfg.FetchWorkers <= 0 || cfg.ProbeWorkers <= 0 {
		return Config{}, ErrInvalidWorkers
	}
	if cfg.Timeout <= 0 {
		return Config{}, ErrInvalidTimeout
	}
	return cfg, nil
}

// extractWorkers pulls "--workers <Wp> <Ws>" (or "-workers <Wp> <Ws>") out
// of args before the rest is handed to the flag package, which has no
// built-in notion of a flag consuming two positional values. Absent,
// it returns the spec's defaults of 10 fetch / 30 probe workers.
func extractWorkers(args []string) (fetchWorkers, probeWorkers int, rest []string, err error) {
	fetchWorkers, probeWorkers = 10, 30

	for i := 0; i < len(args); i++ {
		if args[i] != "--workers" && args[i] != "-workers" {
			continue
		}
		if i+2 >= len(args) {
			return 0, 0, nil, fmt.Errorf("config: --workers requires two values: <fetch workers> <probe workers>")
		}
		fetchWorkers, err = strconv.Atoi(args[i+1])
		if err != nil {
			return 0, 0, nil, fmt.Errorf("config: --workers fetch value %q: %w", args[i+1], err)
		}
		probeWorkers, err = strconv.Atoi(args[i+2])
		if err != nil {
			return 0, 0, nil, fmt.Errorf("config: --workers probe value %q: %w", args[i+2], err)
		}
		rest = make([]string, 0, len(args)-3)
		rest = append(rest, args[:i]...)
		rest = append(rest, args[i+3:]...)
		return fetchWorkers, probeWorkers, rest, nil
	}
	return fetchWorkers, probeWorkers, args, nil
}

// applyEnvFallbacks fills Input, Output, OtelEndpoint and HistoryDB from
// M3UMINE_INPUT, M3UMINE_OUTPUT, M3UMINE_OTEL_ENDPOINT and
// M3UMINE_HISTORY_DB when those fields still hold their flag defaults,
// the same "ParseString" idiom the teacher's probing CLI uses for
// container deployments without flags. No other flag has an
// environment fallback.
func applyEnvFallbacks(cfg *Config) {
	if v := os.Getenv("M3UMINE_INPUT"); v != "" && cfg.Input == "" {
		cfg.Input = v
	}
	if v := os.Getenv("M3UMINE_OUTPUT"); v != "" && cfg.Output == "IPTV.m3u8" {
		cfg.Output = v
	}
	if v := os.Getenv("M3UMINE_OTEL_ENDPOINT"); v != "" && cfg.OtelEndpoint == "" {
		cfg.OtelEndpoint = v
	}
	if v := os.Getenv("M3UMINE_HISTORY_DB"); v != "" && cfg.HistoryDB == "m3umine_history.db" {
		cfg.HistoryDB = v
	}
}

// ValidateInput reports whether input preconditions for a run are satisfiable:
// an input file must exist. Error kind "Input missing" per the error
// handling table is fatal at startup.
func (c Config) ValidateInput() error {
	if c.Input == "" {
		return fmt.Errorf("config: no input file specified")
	}
	if _, err := os.Stat(c.Input); err != nil {
		return fmt.Errorf("config: input file %q: %w", c.Input, err)
	}
	return nil
}
