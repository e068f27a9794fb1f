// Package metrics implements ports.Metrics.
package metrics

import (
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"go.trai.ch/zerr"
)

const namespace = "assetcache"

// Prometheus implements ports.Metrics on a private Prometheus registry.
type Prometheus struct {
	registry *prometheus.Registry

	hits         *prometheus.CounterVec
	misses       prometheus.Counter
	puts         prometheus.Counter
	putBytes     prometheus.Counter
	evictions    *prometheus.CounterVec
	evictedBytes *prometheus.CounterVec
	purges       *prometheus.CounterVec
	entries      prometheus.Gauge
	diskBytes    prometheus.Gauge
	memoryBytes  prometheus.Gauge
}

// NewPrometheus creates the collectors and registers them on a new registry.
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		hits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "hits_total",
			Help:      "Total number of lookups served from a cache tier.",
		}, []string{"tier"}),
		misses: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "misses_total",
			Help:      "Total number of lookups that found nothing usable.",
		}),
		puts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "puts_total",
			Help:      "Total number of stored entries.",
		}),
		putBytes: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "put_bytes_total",
			Help:      "Total on-disk bytes written for stored entries.",
		}),
		evictions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evictions_total",
			Help:      "Total number of entries evicted by the size or age budget.",
		}, []string{"reason"}),
		evictedBytes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evicted_bytes_total",
			Help:      "Total on-disk bytes released by eviction.",
		}, []string{"reason"}),
		purges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "purges_total",
			Help:      "Total number of entries dropped after failing validation or decoding.",
		}, []string{"reason"}),
		entries: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "entries",
			Help:      "Number of entries in the index.",
		}),
		diskBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "disk_bytes",
			Help:      "Total on-disk size of indexed entries.",
		}),
		memoryBytes: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "memory_bytes",
			Help:      "Total size of artifacts held by the memory tier.",
		}),
	}

	p.registry.MustRegister(
		p.hits,
		p.misses,
		p.puts,
		p.putBytes,
		p.evictions,
		p.evictedBytes,
		p.purges,
		p.entries,
		p.diskBytes,
		p.memoryBytes,
	)
	return p
}

// Registry exposes the registry, e.g. for an HTTP handler owned by the embedding process.
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// RecordHit records a lookup served from tier.
func (p *Prometheus) RecordHit(tier string) {
	p.hits.WithLabelValues(tier).Inc()
}

// RecordMiss records a lookup that missed.
func (p *Prometheus) RecordMiss() {
	p.misses.Inc()
}

// RecordPut records a stored entry.
func (p *Prometheus) RecordPut(bytes int64) {
	p.puts.Inc()
	p.putBytes.Add(float64(bytes))
}

// RecordEviction records an evicted entry.
func (p *Prometheus) RecordEviction(reason string, bytes int64) {
	p.evictions.WithLabelValues(reason).Inc()
	p.evictedBytes.WithLabelValues(reason).Add(float64(bytes))
}

// RecordPurge records an entry dropped as invalid.
func (p *Prometheus) RecordPurge(reason string) {
	p.purges.WithLabelValues(reason).Inc()
}

// SetUsage publishes the current occupancy.
func (p *Prometheus) SetUsage(entries int, diskBytes, memoryBytes int64) {
	p.entries.Set(float64(entries))
	p.diskBytes.Set(float64(diskBytes))
	p.memoryBytes.Set(float64(memoryBytes))
}

// WriteText writes every collected metric to w in the Prometheus text format.
func (p *Prometheus) WriteText(w io.Writer) error {
	families, err := p.registry.Gather()
	if err != nil {
		return zerr.Wrap(err, "failed to gather metrics")
	}
	enc := expfmt.NewEncoder(w, expfmt.NewFormat(expfmt.TypeTextPlain))
	for _, mf := range families {
		if err := enc.Encode(mf); err != nil {
			return zerr.Wrap(err, "failed to encode metrics")
		}
	}
	return nil
}
