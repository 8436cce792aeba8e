package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// DomainMetrics records the operational counters for pricing, checkout and
// outbox delivery. All methods are nil-safe so instrumentation can be wired
// optionally.
type DomainMetrics struct {
	priceResolutions *prometheus.CounterVec
	ordersPlaced     prometheus.Counter
	orderLines       prometheus.Histogram
	checkoutDuration prometheus.Histogram
	outboxPublished  prometheus.Counter
	outboxFailed     prometheus.Counter
}

// NewDomainMetrics registers the domain metrics on the provided registerer.
func NewDomainMetrics(reg prometheus.Registerer) *DomainMetrics {
	if reg == nil {
		return &DomainMetrics{}
	}
	priceResolutions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolutions_total",
		Help: "Price resolution attempts by outcome.",
	}, []string{"outcome"})
	ordersPlaced := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "orders_placed_total",
		Help: "Successfully placed orders.",
	})
	orderLines := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "order_line_count",
		Help:    "Number of lines per placed order.",
		Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
	})
	checkoutDuration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "checkout_duration_seconds",
		Help:    "Duration of order placement transactions in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	outboxPublished := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_published_total",
		Help: "Outbox events delivered to the broker.",
	})
	outboxFailed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "outbox_publish_failures_total",
		Help: "Outbox delivery attempts that failed.",
	})
	reg.MustRegister(priceResolutions, ordersPlaced, orderLines, checkoutDuration, outboxPublished, outboxFailed)
	return &DomainMetrics{
		priceResolutions: priceResolutions,
		ordersPlaced:     ordersPlaced,
		orderLines:       orderLines,
		checkoutDuration: checkoutDuration,
		outboxPublished:  outboxPublished,
		outboxFailed:     outboxFailed,
	}
}

// IncPriceResolution counts one resolution attempt with the given outcome,
// "resolved" or the error code that stopped it.
func (m *DomainMetrics) IncPriceResolution(outcome string) {
	if m == nil || m.priceResolutions == nil {
		return
	}
	m.priceResolutions.WithLabelValues(normalizeLabel(outcome)).Inc()
}

// ObserveOrderPlaced records a successful placement.
func (m *DomainMetrics) ObserveOrderPlaced(lineCount int, duration time.Duration) {
	if m == nil || m.ordersPlaced == nil {
		return
	}
	m.ordersPlaced.Inc()
	m.orderLines.Observe(float64(lineCount))
	m.checkoutDuration.Observe(duration.Seconds())
}

// IncOutboxPublished counts one delivered outbox event.
func (m *DomainMetrics) IncOutboxPublished() {
	if m == nil || m.outboxPublished == nil {
		return
	}
	m.outboxPublished.Inc()
}

// IncOutboxFailed counts one failed delivery attempt.
func (m *DomainMetrics) IncOutboxFailed() {
	if m == nil || m.outboxFailed == nil {
		return
	}
	m.outboxFailed.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
