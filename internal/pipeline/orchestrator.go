// Package pipeline implements the pipeline orchestrator (C5): a
// two-stage bounded-concurrency scheduler running playlist fetchers
// into a filter into a stream prober pool, with explicit per-playlist
// wave drain as the checkpoint boundary.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/accumulator"
	"github.com/ang3lo-azevedo/m3umine/internal/checkpoint"
	"github.com/ang3lo-azevedo/m3umine/internal/fetch"
	"github.com/ang3lo-azevedo/m3umine/internal/filter"
	"github.com/ang3lo-azevedo/m3umine/internal/metrics"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/probe"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/ang3lo-azevedo/m3umine/internal/telemetry"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// Config tunes the orchestrator's scheduling parameters.
type Config struct {
	FetchWorkers int
	ProbeWorkers int
	Timeout      time.Duration
	SaveInterval time.Duration
	FilterOpts   filter.Options
}

// Stats accumulates the run's global counters, mutex-guarded and
// updated at well-defined transition points.
type Stats struct {
	mu sync.Mutex

	totalStreams int
	filtered     int
	checked      int
	working      int
	failed       int
}

func (s *Stats) add(total, filtered, checked, working, failed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.totalStreams += total
	s.filtered += filtered
	s.checked += checked
	s.working += working
	s.failed += failed
}

// StatsSnapshot is a plain-data, lock-free copy of Stats at a point in time.
type StatsSnapshot struct {
	TotalStreams int
	Filtered     int
	Checked      int
	Working      int
	Failed       int
}

// Snapshot returns a copy of the current counters.
func (s *Stats) Snapshot() StatsSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return StatsSnapshot{
		TotalStreams: s.totalStreams,
		Filtered:     s.filtered,
		Checked:      s.checked,
		Working:      s.working,
		Failed:       s.failed,
	}
}

// Orchestrator runs the two-stage pipeline over a list of playlist URLs.
type Orchestrator struct {
	cfg Config

	fetcher *fetch.Fetcher
	prober  *probe.Prober
	store   *progress.Store
	acc     *accumulator.Accumulator
	cp      *checkpoint.Checkpointer
	log     zerolog.Logger

	Stats Stats
}

// New wires an Orchestrator from its collaborators.
func New(cfg Config, fetcher *fetch.Fetcher, prober *probe.Prober, store *progress.Store, acc *accumulator.Accumulator, cp *checkpoint.Checkpointer, log zerolog.Logger) *Orchestrator {
	return &Orchestrator{cfg: cfg, fetcher: fetcher, prober: prober, store: store, acc: acc, cp: cp, log: log}
}

// Run traverses urls in chunks of 2*FetchWorkers, feeding each chunk to
// the fetcher pool and consuming completions in completion order. A
// URL already present in the playlist progress map is skipped. On ctx
// cancellation, no further chunks are submitted; a final checkpoint
// flush always runs before Run returns.
func (o *Orchestrator) Run(ctx context.Context, urls []string) error {
	defer o.cp.Flush(ctx)

	chunkSize := 2 * o.cfg.FetchWorkers
	if chunkSize <= 0 {
		chunkSize = 1
	}

	for start := 0; start < len(urls); start += chunkSize {
		if ctx.Err() != nil {
			o.log.Warn().Msg("orchestrator: cancellation observed, not submitting further chunks")
			return ctx.Err()
		}
		end := start + chunkSize
		if end > len(urls) {
			end = len(urls)
		}
		o.processChunk(ctx, urls[start:end])
	}
	return nil
}

func (o *Orchestrator) processChunk(ctx context.Context, urls []string) {
	var pending []string
	for _, u := range urls {
		if o.store.HasPlaylist(u) {
			continue
		}
		pending = append(pending, u)
	}
	if len(pending) == 0 {
		return
	}

	type fetchResult struct {
		url  string
		refs []model.StreamRef
	}

	jobs := make(chan string, len(pending))
	results := make(chan fetchResult, len(pending))

	workers := o.cfg.FetchWorkers
	if workers > len(pending) {
		workers = len(pending)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for url := range jobs {
				refs, _ := o.fetcher.Fetch(gctx, url, o.cfg.Timeout)
				results <- fetchResult{url: url, refs: refs}
			}
			return nil
		})
	}
	for _, u := range pending {
		jobs <- u
	}
	close(jobs)

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for r := range results {
		o.handleFetch(ctx, r.url, r.refs)
	}
}

func (o *Orchestrator) handleFetch(ctx context.Context, url string, refs []model.StreamRef) {
	if len(refs) == 0 {
		o.store.PutPlaylist(url, model.PlaylistRecord{Status: model.PlaylistInvalid, Timestamp: time.Now().UTC()})
		metrics.PlaylistsTotal.WithLabelValues("invalid").Inc()
		o.cp.Flush(ctx)
		return
	}

	var candidates []model.StreamRef
	filtered := 0
	for _, ref := range refs {
		if filter.ShouldFilter(ref.Info.ChannelName, ref.Info.GroupTitle, o.cfg.FilterOpts) {
			filtered++
			continue
		}
		candidates = append(candidates, ref)
	}
	if filtered > 0 {
		metrics.StreamsFiltered.Add(float64(filtered))
	}

	if len(candidates) == 0 {
		o.Stats.add(len(refs), filtered, 0, 0, 0)
		o.store.PutPlaylist(url, model.PlaylistRecord{
			Status:          model.PlaylistAllFiltered,
			Timestamp:       time.Now().UTC(),
			StreamsFound:    len(refs),
			StreamsFiltered: filtered,
		})
		metrics.PlaylistsTotal.WithLabelValues("all_filtered").Inc()
		o.cp.Flush(ctx)
		return
	}

	checked, working, failed := o.probeWave(ctx, candidates)
	o.Stats.add(len(refs), filtered, checked, working, failed)

	o.store.PutPlaylist(url, model.PlaylistRecord{
		Status:          model.PlaylistCompleted,
		Timestamp:       time.Now().UTC(),
		StreamsFound:    len(refs),
		StreamsFiltered: filtered,
		StreamsChecked:  checked,
		WorkingStreams:  working,
	})
	metrics.PlaylistsTotal.WithLabelValues("completed").Inc()
	o.cp.Flush(ctx)
}

// probeWave submits all candidates to the prober pool as one wave and
// waits for it to drain completely before returning, per §4.5's
// per-playlist drain rationale. A per-tick checkpoint ticker covers the
// case where this single wave outlives one save interval.
func (o *Orchestrator) probeWave(ctx context.Context, candidates []model.StreamRef) (checked, working, failed int) {
	ctx, span := telemetry.Tracer("m3umine/pipeline").Start(ctx, "pipeline.wave_drain")
	defer span.End()

	jobs := make(chan model.StreamRef, len(candidates))
	var mu sync.Mutex

	workers := o.cfg.ProbeWorkers
	if workers > len(candidates) {
		workers = len(candidates)
	}

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < workers; i++ {
		g.Go(func() error {
			for ref := range jobs {
				start := time.Now()
				result := o.prober.Probe(gctx, ref)
				metrics.ProbeDuration.Observe(time.Since(start).Seconds())

				mu.Lock()
				checked++
				if result.Status == model.StreamWorking {
					working++
					o.acc.Append(result)
				} else {
					failed++
				}
				mu.Unlock()
			}
			return nil
		})
	}
	for _, c := range candidates {
		jobs <- c
	}
	close(jobs)

	stop := make(chan struct{})
	if o.cfg.SaveInterval > 0 {
		go o.cp.Ticker(ctx, o.cfg.SaveInterval, stop)
	}
	_ = g.Wait()
	close(stop)

	return checked, working, failed
}
