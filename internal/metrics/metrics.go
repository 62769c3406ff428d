// Package metrics exposes Prometheus counters and histograms for every
// transition point the pipeline passes through, optionally written to a
// node-exporter textfile-collector path since this tool has no
// long-lived HTTP surface to serve /metrics from.
package metrics

import (
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
)

var registry = prometheus.NewRegistry()

var factory = promauto.With(registry)

var (
	PlaylistsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "m3umine_playlists_total",
		Help: "Total number of playlists processed, by terminal status.",
	}, []string{"status"})

	StreamsTotal = factory.NewCounterVec(prometheus.CounterOpts{
		Name: "m3umine_streams_total",
		Help: "Total number of streams probed, by outcome.",
	}, []string{"outcome"})

	StreamsFiltered = factory.NewCounter(prometheus.CounterOpts{
		Name: "m3umine_streams_filtered_total",
		Help: "Total number of stream candidates excluded by the content filter.",
	})

	ProbeDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name: "m3umine_probe_duration_seconds",
		Help: "Duration of individual stream probes.",
	})

	CheckpointDuration = factory.NewHistogram(prometheus.HistogramOpts{
		Name: "m3umine_checkpoint_duration_seconds",
		Help: "Duration of a checkpoint flush.",
	})

	CheckpointFailures = factory.NewCounter(prometheus.CounterOpts{
		Name: "m3umine_checkpoint_failures_total",
		Help: "Total number of checkpoint flushes that failed to persist.",
	})
)

// WriteTextfile renders the registry in the Prometheus text exposition
// format to path, for node-exporter's textfile collector to pick up. A
// failure here is logged by the caller and never aborts the run.
func WriteTextfile(path string) error {
	families, err := registry.Gather()
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return err
	}
	enc := expfmt.NewEncoder(f, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			_ = f.Close()
			_ = os.Remove(tmp)
			return err
		}
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}
