package driver

import (
	"github.com/go-kit/kit/metrics/discard"

	"github.com/xmidt-org/connexec/metrics"
	"github.com/xmidt-org/connexec/xmetrics"
)

// Metric name constants, namespaced for xmetrics.NewCollector descriptors.
const (
	MetricConnectionOpened             = "connection_opened_total"
	MetricConnectionActivated          = "connection_activated_total"
	MetricConnectionWaiting            = "connection_waiting_total"
	MetricConnectionClosed             = "connection_closed_total"
	MetricMessageReceived              = "message_received_total"
	MetricMessageProcessingStarted     = "message_processing_started_total"
	MetricMessageProcessingCompleted   = "message_processing_completed_total"
	MetricMessageProcessingFailed      = "message_processing_failed_total"
	MetricMessageQueueTimeMillis       = "message_queue_time_milliseconds"
	MetricMessageProcessingTimeMillis  = "message_processing_time_milliseconds"
)

// Measures bundles the counters and observers spec.md's MetricsEmitter
// boundary names. Every field is a narrow, duck-typed xmetrics interface
// rather than a concrete Prometheus type, so a Driver never imports
// Prometheus directly and callers can substitute any compatible
// implementation (including go-kit's metrics/generic for tests).
type Measures struct {
	ConnectionOpened    xmetrics.Incrementer
	ConnectionActivated xmetrics.Incrementer
	ConnectionWaiting   xmetrics.Incrementer
	ConnectionClosed    xmetrics.Incrementer
	MessageReceived     xmetrics.Incrementer

	MessageProcessingStarted   xmetrics.Incrementer
	MessageProcessingCompleted xmetrics.Incrementer
	MessageProcessingFailed    xmetrics.Incrementer

	QueueTime       xmetrics.Observer
	ProcessingTime  xmetrics.Observer
}

// MetricsModule returns the set of xmetrics.Metric descriptors a Driver
// needs, suitable for passing to xmetrics.NewRegistry or merging via
// xmetrics.NewMerger alongside a host application's other modules.
func MetricsModule() []xmetrics.Metric {
	counter := func(name, help string) xmetrics.Metric {
		return xmetrics.Metric{Name: name, Type: xmetrics.CounterType, Help: help}
	}

	return []xmetrics.Metric{
		counter(MetricConnectionOpened, "total connections opened"),
		counter(MetricConnectionActivated, "total times a connection's batch was scheduled"),
		counter(MetricConnectionWaiting, "total times a connection returned to idle"),
		counter(MetricConnectionClosed, "total connections closed"),
		counter(MetricMessageReceived, "total messages enqueued"),
		counter(MetricMessageProcessingStarted, "total messages that began processing"),
		counter(MetricMessageProcessingCompleted, "total messages processed successfully"),
		counter(MetricMessageProcessingFailed, "total messages that failed processing"),
		{
			Name:    MetricMessageQueueTimeMillis,
			Type:    xmetrics.HistogramType,
			Help:    "time a message spent queued before processing began, in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
		{
			Name:    MetricMessageProcessingTimeMillis,
			Type:    xmetrics.HistogramType,
			Help:    "time spent executing a message against the state machine, in milliseconds",
			Buckets: []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000},
		},
	}
}

// NewMeasures builds a Measures from an xmetrics.Registry produced by
// MetricsModule's descriptors, via xmetrics.NewCollector -- the same
// factory the teacher's xmetrics package uses to turn a descriptor into a
// live Prometheus collector.
func NewMeasures(r xmetrics.Registry) *Measures {
	return &Measures{
		ConnectionOpened:           xmetrics.NewIncrementer(r.NewCounter(MetricConnectionOpened)),
		ConnectionActivated:        xmetrics.NewIncrementer(r.NewCounter(MetricConnectionActivated)),
		ConnectionWaiting:          xmetrics.NewIncrementer(r.NewCounter(MetricConnectionWaiting)),
		ConnectionClosed:           xmetrics.NewIncrementer(r.NewCounter(MetricConnectionClosed)),
		MessageReceived:            xmetrics.NewIncrementer(r.NewCounter(MetricMessageReceived)),
		MessageProcessingStarted:   xmetrics.NewIncrementer(r.NewCounter(MetricMessageProcessingStarted)),
		MessageProcessingCompleted: xmetrics.NewIncrementer(r.NewCounter(MetricMessageProcessingCompleted)),
		MessageProcessingFailed:    xmetrics.NewIncrementer(r.NewCounter(MetricMessageProcessingFailed)),
		QueueTime:                  r.NewHistogram(MetricMessageQueueTimeMillis, 50),
		ProcessingTime:             r.NewHistogram(MetricMessageProcessingTimeMillis, 50),
	}
}

// NewDiscardMeasures returns a Measures backed entirely by go-kit's
// metrics/discard no-ops, for callers that don't want to wire a real
// metrics backend -- exactly as device/drain.New defaults its gauge and
// counter fields when none are supplied.
func NewDiscardMeasures() *Measures {
	return &Measures{
		ConnectionOpened:           xmetrics.NewIncrementer(discard.NewCounter("")),
		ConnectionActivated:        xmetrics.NewIncrementer(discard.NewCounter("")),
		ConnectionWaiting:          xmetrics.NewIncrementer(discard.NewCounter("")),
		ConnectionClosed:           xmetrics.NewIncrementer(discard.NewCounter("")),
		MessageReceived:            xmetrics.NewIncrementer(discard.NewCounter("")),
		MessageProcessingStarted:   xmetrics.NewIncrementer(discard.NewCounter("")),
		MessageProcessingCompleted: xmetrics.NewIncrementer(discard.NewCounter("")),
		MessageProcessingFailed:    xmetrics.NewIncrementer(discard.NewCounter("")),
		QueueTime:                  discard.NewHistogram(""),
		ProcessingTime:             discard.NewHistogram(""),
	}
}

// NewProviderMeasures builds a Measures directly from a *metrics.Provider,
// connexec's simpler go-kit/Prometheus adapter, for callers that want a
// real Prometheus backend but don't need the full xmetrics.Registry
// merge-and-preregister machinery.
func NewProviderMeasures(p *metrics.Provider) *Measures {
	counter := func(name, help string) xmetrics.Incrementer {
		return xmetrics.NewIncrementer(p.GetCounter(name, help, nil))
	}

	return &Measures{
		ConnectionOpened:           counter(MetricConnectionOpened, "total connections opened"),
		ConnectionActivated:        counter(MetricConnectionActivated, "total times a connection's batch was scheduled"),
		ConnectionWaiting:          counter(MetricConnectionWaiting, "total times a connection returned to idle"),
		ConnectionClosed:           counter(MetricConnectionClosed, "total connections closed"),
		MessageReceived:            counter(MetricMessageReceived, "total messages enqueued"),
		MessageProcessingStarted:   counter(MetricMessageProcessingStarted, "total messages that began processing"),
		MessageProcessingCompleted: counter(MetricMessageProcessingCompleted, "total messages processed successfully"),
		MessageProcessingFailed:    counter(MetricMessageProcessingFailed, "total messages that failed processing"),
		QueueTime:                  p.GetHistogram(MetricMessageQueueTimeMillis, "queue time, in milliseconds", []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}, nil),
		ProcessingTime:             p.GetHistogram(MetricMessageProcessingTimeMillis, "processing time, in milliseconds", []float64{1, 5, 10, 25, 50, 100, 250, 500, 1000, 5000}, nil),
	}
}
