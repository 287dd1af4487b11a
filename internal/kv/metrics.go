package kv

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Instrumented wraps a Gateway with Prometheus collectors registered on a
// private registry.
type Instrumented struct {
	next     Gateway
	registry *prometheus.Registry

	ops      *prometheus.CounterVec
	failures *prometheus.CounterVec
	duration *prometheus.HistogramVec
	bytes    *prometheus.GaugeVec
}

// NewInstrumented wraps next. The collectors are registered on a fresh
// registry so several instances can coexist in one process.
func NewInstrumented(next Gateway) *Instrumented {
	g := &Instrumented{
		next:     next,
		registry: prometheus.NewRegistry(),
		ops: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "kv",
				Name:      "operations_total",
				Help:      "Total number of gateway operations.",
			},
			[]string{"op", "key"},
		),
		failures: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "storefront",
				Subsystem: "kv",
				Name:      "failures_total",
				Help:      "Total number of failed gateway operations.",
			},
			[]string{"op", "key"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "storefront",
				Subsystem: "kv",
				Name:      "operation_duration_seconds",
				Help:      "Duration of gateway operations.",
				Buckets:   prometheus.ExponentialBuckets(0.0001, 2, 12), // 100µs to ~200ms
			},
			[]string{"op"},
		),
		bytes: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "storefront",
				Subsystem: "kv",
				Name:      "value_bytes",
				Help:      "Size of the last value written per key.",
			},
			[]string{"key"},
		),
	}
	g.registry.MustRegister(g.ops, g.failures, g.duration, g.bytes)
	return g
}

// Registry exposes the collectors for gathering.
func (g *Instrumented) Registry() *prometheus.Registry {
	return g.registry
}

// Get delegates to the wrapped gateway.
func (g *Instrumented) Get(ctx context.Context, key string) (string, bool, error) {
	start := time.Now()
	v, ok, err := g.next.Get(ctx, key)
	g.observe("get", key, start, err)
	return v, ok, err
}

// Set delegates to the wrapped gateway.
func (g *Instrumented) Set(ctx context.Context, key, value string) error {
	start := time.Now()
	err := g.next.Set(ctx, key, value)
	g.observe("set", key, start, err)
	if err == nil {
		g.bytes.WithLabelValues(key).Set(float64(len(value)))
	}
	return err
}

// Keys delegates when the wrapped gateway is a Lister.
func (g *Instrumented) Keys(ctx context.Context) ([]string, error) {
	if l, ok := g.next.(Lister); ok {
		return l.Keys(ctx)
	}
	return nil, nil
}

// Close closes the wrapped gateway.
func (g *Instrumented) Close() error {
	return g.next.Close()
}

// Ops returns the operation counter, for tests and the stats command.
func (g *Instrumented) Ops() *prometheus.CounterVec { return g.ops }

// Failures returns the failure counter.
func (g *Instrumented) Failures() *prometheus.CounterVec { return g.failures }

func (g *Instrumented) observe(op, key string, start time.Time, err error) {
	g.ops.WithLabelValues(op, key).Inc()
	g.duration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	if err != nil {
		g.failures.WithLabelValues(op, key).Inc()
	}
}
