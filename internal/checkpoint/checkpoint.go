// Package checkpoint implements the checkpointer (C6): periodic and
// post-batch persistence of progress state, and signal-safe flush.
package checkpoint

import (
	"context"
	"os"
	"sync"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/accumulator"
	"github.com/ang3lo-azevedo/m3umine/internal/metrics"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/organizer"
	"github.com/ang3lo-azevedo/m3umine/internal/playlist"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/ang3lo-azevedo/m3umine/internal/telemetry"
	"github.com/rs/zerolog"
)

// Checkpointer persists C1's state and re-materializes the output
// playlist. A single mutex serializes every flush so checkpoints never
// interleave with one another, per §5's ordering guarantee.
type Checkpointer struct {
	mu sync.Mutex

	store *progress.Store
	acc   *accumulator.Accumulator
	log   zerolog.Logger

	streamPath   string
	playlistPath string
	outputPath   string
}

// New returns a Checkpointer writing to the given paths.
func New(store *progress.Store, acc *accumulator.Accumulator, streamPath, playlistPath, outputPath string, log zerolog.Logger) *Checkpointer {
	return &Checkpointer{
		store:        store,
		acc:          acc,
		log:          log,
		streamPath:   streamPath,
		playlistPath: playlistPath,
		outputPath:   outputPath,
	}
}

// Flush performs one atomic write-to-tmp-then-rename of the stream map,
// the playlist map, and — if at least one working stream has
// accumulated — a full rewrite of the output playlist. Per §7, a save
// failure is logged and never aborts the run; the next trigger retries.
func (c *Checkpointer) Flush(ctx context.Context) {
	_, span := telemetry.Tracer("m3umine/checkpoint").Start(ctx, "checkpoint.flush")
	defer span.End()

	c.mu.Lock()
	defer c.mu.Unlock()

	start := time.Now()
	defer func() { metrics.CheckpointDuration.Observe(time.Since(start).Seconds()) }()

	streams, playlists := c.store.Snapshot()

	if err := progress.SaveStreams(c.streamPath, streams); err != nil {
		metrics.CheckpointFailures.Inc()
		c.log.Warn().Err(err).Msg("checkpoint: failed to save stream progress")
	}
	if err := progress.SavePlaylists(c.playlistPath, playlists); err != nil {
		metrics.CheckpointFailures.Inc()
		c.log.Warn().Err(err).Msg("checkpoint: failed to save playlist progress")
	}

	if working := c.acc.Snapshot(); len(working) > 0 {
		if err := c.writeOutput(working); err != nil {
			c.log.Warn().Err(err).Msg("checkpoint: failed to rematerialize output playlist")
		}
	}
}

func (c *Checkpointer) writeOutput(working []model.StreamResult) error {
	organized := organizer.Organize(working)

	tmp := c.outputPath + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	if err := playlist.Write(f, organized, time.Now()); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return err
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, c.outputPath)
}

// Ticker runs Flush every interval until stop is closed, for the
// per-tick trigger that covers a single long-draining wave.
func (c *Checkpointer) Ticker(ctx context.Context, interval time.Duration, stop <-chan struct{}) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-stop:
			return
		case <-t.C:
			c.Flush(ctx)
		}
	}
}
