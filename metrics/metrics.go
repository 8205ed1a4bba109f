package metrics

import (
	"github.com/go-kit/kit/metrics"
	"github.com/go-kit/kit/metrics/prometheus"
	stdprometheus "github.com/prometheus/client_golang/prometheus"
)

// Provider is a Prometheus-backed metrics API. driver.NewProviderMeasures builds a
// driver.Measures from it; driver.New itself defaults to discard-backed measures.
type Provider struct {
	DefaultGathererInUse bool
}

// GetCounter returns a Counter metrics Collector.
// If Provider.DefaultGathererInUse is true, it registers the metric with the Prometheus
// default gatherer; otherwise it creates a standalone collector.
func (m *Provider) GetCounter(name, help string, labelValues []string) (counter metrics.Counter) {
	opts := stdprometheus.CounterOpts{Name: name, Help: help}
	if m.DefaultGathererInUse {
		counter = prometheus.NewCounterFrom(opts, labelValues) // registers with defaultGatherer
	} else {
		counter = prometheus.NewCounter(stdprometheus.NewCounterVec(opts, labelValues))
	}
	return
}

// GetGauge returns a Gauge metrics Collector, following the same gatherer rules as GetCounter.
func (m *Provider) GetGauge(name, help string, labelValues []string) (gauge metrics.Gauge) {
	opts := stdprometheus.GaugeOpts{Name: name, Help: help}
	if m.DefaultGathererInUse {
		gauge = prometheus.NewGaugeFrom(opts, labelValues)
	} else {
		gauge = prometheus.NewGauge(stdprometheus.NewGaugeVec(opts, labelValues))
	}
	return
}

// GetHistogram returns a Histogram metrics Collector, following the same gatherer rules as
// GetCounter. Driver uses this for queue-time and processing-time observations.
func (m *Provider) GetHistogram(name, help string, buckets []float64, labelValues []string) (histogram metrics.Histogram) {
	opts := stdprometheus.HistogramOpts{Name: name, Help: help, Buckets: buckets}
	if m.DefaultGathererInUse {
		histogram = prometheus.NewHistogramFrom(opts, labelValues)
	} else {
		histogram = prometheus.NewHistogram(stdprometheus.NewHistogramVec(opts, labelValues))
	}
	return
}
