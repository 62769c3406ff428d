// Package probe implements the stream prober (C4): wrapping the external
// probing backend behind at-most-once memoization against the progress
// store.
package probe

import (
	"context"
	"time"

	"github.com/ang3lo-azevedo/m3umine/internal/country"
	"github.com/ang3lo-azevedo/m3umine/internal/metrics"
	"github.com/ang3lo-azevedo/m3umine/internal/model"
	"github.com/ang3lo-azevedo/m3umine/internal/progress"
	"github.com/ang3lo-azevedo/m3umine/internal/telemetry"
)

// Alive is the liveness outcome check_channel_status must return for a
// stream to be considered working.
const Alive = "Alive"

// Backend is the external probing backend the core consumes. Concrete
// implementations (e.g. an ffprobe-shelling backend) live outside this
// package so C4 stays testable against a fake.
type Backend interface {
	CheckChannelStatus(ctx context.Context, url string, timeout, extendedTimeout time.Duration) (string, error)
	GetDetailedStreamInfo(ctx context.Context, url string) (codec, videoBitrate, resolution, fps string, err error)
	GetAudioBitrate(ctx context.Context, url string) (string, error)
}

// Prober probes stream candidates through a Backend, memoizing every
// outcome in a progress.Store.
type Prober struct {
	backend Backend
	store   *progress.Store
	timeout time.Duration
}

// New returns a Prober using backend for network calls and store for
// at-most-once memoization.
func New(backend Backend, store *progress.Store, timeout time.Duration) *Prober {
	return &Prober{backend: backend, store: store, timeout: timeout}
}

// Probe composes the StreamKey for ref; if already memoized, returns
// that result without invoking the backend. Otherwise it checks
// liveness, and on Alive fetches video/audio metadata and infers
// country, producing a working record; any other outcome — including a
// backend error — produces a failed record. The result is stored before
// being returned.
func (p *Prober) Probe(ctx context.Context, ref model.StreamRef) model.StreamResult {
	ctx, span := telemetry.Tracer("m3umine/probe").Start(ctx, "probe.stream")
	defer span.End()

	key := ref.Key()
	if cached, ok := p.store.GetStream(key); ok {
		metrics.StreamsTotal.WithLabelValues(string(cached.Status)).Inc()
		return cached
	}

	result := p.doProbe(ctx, ref)
	p.store.PutStream(key, result)
	metrics.StreamsTotal.WithLabelValues(string(result.Status)).Inc()
	return result
}

func (p *Prober) doProbe(ctx context.Context, ref model.StreamRef) model.StreamResult {
	extended := p.timeout + 5*time.Second
	status, err := p.backend.CheckChannelStatus(ctx, ref.URL, p.timeout, extended)
	if err != nil || status != Alive {
		reason := status
		if err != nil {
			reason = err.Error()
		}
		return failedResult(ref, reason)
	}

	codec, bitrate, resolution, fps, err := p.backend.GetDetailedStreamInfo(ctx, ref.URL)
	if err != nil {
		return failedResult(ref, err.Error())
	}
	audio, err := p.backend.GetAudioBitrate(ctx, ref.URL)
	if err != nil {
		audio = ""
	}

	return model.StreamResult{
		Status:       model.StreamWorking,
		ChannelName:  ref.Info.ChannelName,
		URL:          ref.URL,
		Info:         ref.Info,
		Codec:        codec,
		VideoBitrate: bitrate,
		Resolution:   resolution,
		FPS:          fps,
		AudioInfo:    audio,
		Country:      country.Resolve(ref.Info.TvgID, ref.Info.GroupTitle, ref.Info.ChannelName),
		Timestamp:    time.Now().UTC(),
	}
}

func failedResult(ref model.StreamRef, reason string) model.StreamResult {
	return model.StreamResult{
		Status:      model.StreamFailed,
		ChannelName: ref.Info.ChannelName,
		URL:         ref.URL,
		Info:        ref.Info,
		Reason:      reason,
		Timestamp:   time.Now().UTC(),
	}
}
