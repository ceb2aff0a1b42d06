package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "datasquash"

// Metrics holds the extraction counters on a private registry so runs
// never touch the process-global default registry.
type Metrics struct {
	registry *prometheus.Registry

	VideosOpened   prometheus.Counter
	VideosSkipped  prometheus.Counter
	FramesSaved    prometheus.Counter
	DecodeFailures prometheus.Counter
	WriteFailures  prometheus.Counter
	DecodeSeconds  prometheus.Histogram
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		VideosOpened: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_opened_total",
			Help:      "Videos opened for frame extraction.",
		}),
		VideosSkipped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "videos_skipped_total",
			Help:      "Videos skipped because they could not be opened.",
		}),
		FramesSaved: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_saved_total",
			Help:      "Frames written to disk.",
		}),
		DecodeFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_decode_failures_total",
			Help:      "Frames that could not be decoded.",
		}),
		WriteFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frame_write_failures_total",
			Help:      "Frames that were decoded but could not be written.",
		}),
		DecodeSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_decode_seconds",
			Help:      "Time spent seeking and decoding a single frame.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 4, 8),
		}),
	}

	m.registry.MustRegister(
		m.VideosOpened,
		m.VideosSkipped,
		m.FramesSaved,
		m.DecodeFailures,
		m.WriteFailures,
		m.DecodeSeconds,
	)
	return m
}

// WriteTextfile dumps the registry in the text exposition format, suitable
// for the node exporter textfile collector.
func (m *Metrics) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}
