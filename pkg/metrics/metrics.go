package metrics

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var HistogramBuckets = []float64{
	// --- Fast responses (0 - 500ms) ---
	25, 50, 75, 100, 150, 200, 300, 400, 500,

	// --- Medium responses around 700ms (500ms - 2s) ---
	750, 1000, 1250, 1500, 1750, 2000,

	// --- Slow responses (2s - 15s) ---
	2500, 3000, 4000, 5000, 7500, 10000, 15000,

	// --- Extended range: covers 60000ms+ (15s - 75s) ---
	20000,  // 20s
	30000,  // 30s
	45000,  // 45s
	60000,  // 60s
	75000,  // 75s
	90000,  // 90s
	120000, // 120s
}

// Metric is a definition for the name, description, type, ID, and
// prometheus.Collector type (i.e. CounterVec, Summary, etc) of each metric
type Metric struct {
	MetricCollector prometheus.Collector
	ID              string
	Name            string
	Description     string
	Type            string
	Args            []string
}

// NewMetric associates prometheus.Collector based on Metric.Type
func NewMetric(m *Metric, subsystem string) prometheus.Collector {
	var metric prometheus.Collector
	switch m.Type {
	case "counter_vec":
		metric = prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "counter":
		metric = prometheus.NewCounter(
			prometheus.CounterOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "gauge_vec":
		metric = prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "gauge":
		metric = prometheus.NewGauge(
			prometheus.GaugeOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	case "histogram_vec":
		metric = prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   HistogramBuckets,
			},
			m.Args,
		)
	case "histogram":
		metric = prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
				Buckets:   HistogramBuckets,
			},
		)
	case "summary_vec":
		metric = prometheus.NewSummaryVec(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
			m.Args,
		)
	case "summary":
		metric = prometheus.NewSummary(
			prometheus.SummaryOpts{
				Subsystem: subsystem,
				Name:      m.Name,
				Help:      m.Description,
			},
		)
	}
	return metric
}

// ProviderCall tracks latency of every payment provider call.
// outcome is one of success, failure, error.
var ProviderCall = &Metric{
	ID:          "providerCall",
	Name:        "provider_call_dur_ms",
	Description: "payment provider call latency in milliseconds",
	Type:        "histogram_vec",
	Args:        []string{"operation", "outcome"},
}

// PaymentTransition counts payment state machine events by result.
var PaymentTransition = &Metric{
	ID:          "paymentTransition",
	Name:        "payment_transition_total",
	Description: "payment state machine events partitioned by event, from and to state",
	Type:        "counter_vec",
	Args:        []string{"event", "from", "to"},
}

var businessMetrics = []*Metric{ProviderCall, PaymentTransition}

func init() {
	for _, m := range businessMetrics {
		m.MetricCollector = NewMetric(m, "pledge")
		if err := prometheus.Register(m.MetricCollector); err != nil {
			var are prometheus.AlreadyRegisteredError
			if errors.As(err, &are) {
				m.MetricCollector = are.ExistingCollector
			}
		}
	}
}

// ObserveProviderCall records the latency of a provider call started at start.
func ObserveProviderCall(operation, outcome string, start time.Time) {
	if h, ok := ProviderCall.MetricCollector.(*prometheus.HistogramVec); ok {
		h.WithLabelValues(operation, outcome).Observe(MillisecondsSince(start))
	}
}

// IncPaymentTransition counts one state machine event. from == to for refused
// or unchanged events.
func IncPaymentTransition(event, from, to string) {
	if c, ok := PaymentTransition.MetricCollector.(*prometheus.CounterVec); ok {
		c.WithLabelValues(event, from, to).Inc()
	}
}

// MillisecondsSince returns elapsed wall time in fractional milliseconds.
func MillisecondsSince(start time.Time) float64 {
	return float64(time.Since(start)) / float64(time.Millisecond)
}

const (
	RefererKey = "X-Referer"
)
