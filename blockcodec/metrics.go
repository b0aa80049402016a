package blockcodec

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	opCompress   = "compress"
	opDecompress = "decompress"

	kindRaw        = "raw"
	kindCompressed = "compressed"
)

// Metrics holds the block codec counters. A nil *Metrics records nothing.
type Metrics struct {
	blocks      *prometheus.CounterVec
	bytes       *prometheus.CounterVec
	corruptions prometheus.Counter
	errors      *prometheus.CounterVec
}

// NewMetrics creates the block codec counters and registers them with reg. A nil
// reg leaves them unregistered. Registering twice with the same registry panics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		blocks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldcodec_blocks_total",
				Help: "Total blocks processed",
			},
			[]string{"op"},
		),
		bytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldcodec_bytes_total",
				Help: "Total bytes processed, by raw or compressed size",
			},
			[]string{"op", "kind"},
		),
		corruptions: factory.NewCounter(
			prometheus.CounterOpts{
				Name: "fieldcodec_corruptions_total",
				Help: "Total blocks rejected as corrupt",
			},
		),
		errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldcodec_errors_total",
				Help: "Total failed block operations",
			},
			[]string{"op"},
		),
	}
}

func (m *Metrics) observe(op string, raw, compressed int) {
	if m == nil {
		return
	}

	m.blocks.WithLabelValues(op).Inc()
	m.bytes.WithLabelValues(op, kindRaw).Add(float64(raw))
	m.bytes.WithLabelValues(op, kindCompressed).Add(float64(compressed))
}

func (m *Metrics) fail(op string, corrupt bool) {
	if m == nil {
		return
	}

	m.errors.WithLabelValues(op).Inc()
	if corrupt {
		m.corruptions.Inc()
	}
}
