// Command m3umine mines a SQL dump for IPTV playlist URLs, fetches and
// probes every stream reference, and emits a single deduplicated,
// country-grouped, bitrate-ranked extended-M3U playlist.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/accumulator"
	"github.com/ang3lo-azevedo/m3umine/internal/backend"
	"github.com/ang3lo-azevedo/m3umine/internal/checkpoint"
	"github.com/ang3lo-azevedo/m3umine/internal/config"
	"github.com/ang3lo-azevedo/m3umine/internal/fetch"
	"github.com/ang3lo-azevedo/m3umine/internal/filter"
	"github.com/ang3lo-azevedo/m3umine/internal/history"
	"github.com/ang3lo-azevedo/m3umine/internal/httpclient"
	applog "github.com/ang3lo-azevedo/m3umine/internal/log"
	"github.com/ang3lo-azevedo/m3umine/internal/metrics"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/organizer"
	"github.com/ang3lo-azevedo/m3umine/internal/pipeline"
	"github.com/ang3lo-azevedo/m3umine/internal/playlist"
	"github.com/ang3lo-azevedo/m3umine/internal/probe"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/ang3lo-azevedo/m3umine/internal/telemetry"
	"github.com/ang3lo-azevedo/m3umine/internal/urlextract"
	"github.com/rs/zerolog"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	cfg, err := config.Parse(args)
	if err != nil {
		fmt.Fprintln(os.Stderr, "m3umine:", err)
		return 1
	}

	if err := applog.Configure(applog.Config{Level: cfg.LogLevel, Quiet: cfg.Quiet, Console: !cfg.NoColors}); err != nil {
		fmt.Fprintln(os.Stderr, "m3umine: invalid --log-level:", err)
		return 1
	}
	log := applog.WithComponent("main")

	if err := cfg.ValidateInput(); err != nil {
		log.Error().Err(err).Msg("startup precondition failed")
		return 1
	}
	if err := backend.Available(""); err != nil {
		log.Error().Err(err).Msg("probing backend unavailable")
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	tp, err := telemetry.NewProvider(ctx, telemetry.Config{
		Enabled:      cfg.OtelExporter != "" && cfg.OtelExporter != "noop",
		ServiceName:  "m3umine",
		ExporterType: cfg.OtelExporter,
		Endpoint:     cfg.OtelEndpoint,
		SamplingRate: 1.0,
	})
	if err != nil {
		log.Warn().Err(err).Msg("tracing disabled: failed to start provider")
	} else {
		defer func() { _ = tp.Shutdown(context.Background()) }()
	}

	urls, err := loadURLs(cfg, log)
	if err != nil {
		return 1
	}
	if len(urls) == 0 {
		log.Error().Msg("no playlist URLs found in input")
		return 1
	}

	startedAt := time.Now()
	store, acc, cp := wireProgress(cfg, log)

	fetcher := fetch.New(httpclient.New(time.Duration(cfg.Timeout)*time.Second, 50))
	probeBackend := backend.New("")
	prober := probe.New(probeBackend, store, time.Duration(cfg.Timeout)*time.Second)

	orch := pipeline.New(pipeline.Config{
		FetchWorkers: cfg.FetchWorkers,
		ProbeWorkers: cfg.ProbeWorkers,
		Timeout:      time.Duration(cfg.Timeout) * time.Second,
		SaveInterval: time.Duration(cfg.SaveInterval) * time.Second,
		FilterOpts: filter.Options{
			Disabled:     cfg.NoFilters,
			IncludeRadio: cfg.IncludeRadio,
			IncludeAdult: cfg.IncludeAdult,
		},
	}, fetcher, prober, store, acc, cp, applog.WithComponent("pipeline"))

	if err := orch.Run(ctx, urls); err != nil {
		log.Warn().Err(err).Msg("run ended early (interrupted)")
	}

	working := acc.Snapshot()
	if len(working) == 0 {
		log.Error().Msg("no working streams produced")
		return 1
	}

	if err := writeFinalOutput(cfg.Output, working, log); err != nil {
		log.Error().Err(err).Msg("failed to write final output playlist")
		return 1
	}

	stats := orch.Stats.Snapshot()
	log.Info().
		Int("urls_total", len(urls)).
		Int("total_streams", stats.TotalStreams).
		Int("filtered", stats.Filtered).
		Int("checked", stats.Checked).
		Int("working", stats.Working).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(startedAt)).
		Msg("run complete")

	recordHistory(cfg, startedAt, len(urls), stats, log)

	if cfg.MetricsTextfile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsTextfile); err != nil {
			log.Warn().Err(err).Msg("failed to write metrics textfile")
		}
	}

	return 0
}

func loadURLs(cfg config.Config, log zerolog.Logger) ([]string, error) {
	res, err := urlextract.FromFile(cfg.Input)
	if err != nil {
		log.Error().Err(err).Msg("failed to read input dump")
		return nil, err
	}
	log.Info().Int("urls", len(res.URLs)).Interface("by_type", res.ByType).Msg("extracted playlist URLs")
	return res.URLs, nil
}

func wireProgress(cfg config.Config, log zerolog.Logger) (*progress.Store, *accumulator.Accumulator, *checkpoint.Checkpointer) {
	streamPath := cfg.Output + ".progress.streams.json"
	playlistPath := cfg.Output + ".progress.playlists.json"

	if cfg.ClearProgress {
		_ = os.Remove(streamPath)
		_ = os.Remove(playlistPath)
	}

	store := progress.New(log)
	if !cfg.ReprocessStreams && !cfg.ClearProgress {
		for k, v := range progress.LoadStreams(streamPath, log) {
			store.PutStream(k, v)
		}
	}
	if !cfg.ReprocessPlaylists && !cfg.ClearProgress {
		for k, v := range progress.LoadPlaylists(playlistPath, log) {
			store.PutPlaylist(k, v)
		}
	}

	acc := accumulator.New()
	cp := checkpoint.New(store, acc, streamPath, playlistPath, cfg.Output, log)
	return store, acc, cp
}

func writeFinalOutput(path string, working []model.StreamResult, log zerolog.Logger) error {
	organized := organizer.Organize(working)
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return playlist.Write(f, organized, time.Now())
}

func recordHistory(cfg config.Config, startedAt time.Time, urlsTotal int, stats pipeline.StatsSnapshot, log zerolog.Logger) {
	ledger, err := history.Open(cfg.HistoryDB)
	if err != nil {
		log.Warn().Err(err).Msg("failed to open run history ledger")
		return
	}
	defer ledger.Close()

	err = ledger.Record(history.Summary{
		StartedAt:       startedAt,
		FinishedAt:      time.Now(),
		URLsTotal:       urlsTotal,
		URLsProcessed:   urlsTotal,
		StreamsWorking:  stats.Working,
		StreamsFailed:   stats.Failed,
		StreamsFiltered: stats.Filtered,
	})
	if err != nil {
		log.Warn().Err(err).Msg("failed to record run history")
	}
}
