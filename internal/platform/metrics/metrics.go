package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds Prometheus counters and gauges for the multistream viewer.
type Metrics struct {
	registry            *prometheus.Registry
	requestsTotal       prometheus.Counter
	errorsTotal         prometheus.Counter
	pushMessagesTotal   prometheus.Counter
	pushDroppedTotal    prometheus.Counter
	pushReconnectsTotal prometheus.Counter
	pushConnected       prometheus.Gauge
	liveChannels        prometheus.Gauge
	visibleChannels     prometheus.Gauge
}

// New creates and registers Prometheus metrics for the viewer.
func New() *Metrics {
	registry := prometheus.NewRegistry()

	requestsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multistream_requests_total",
		Help: "Total number of HTTP requests received",
	})
	errorsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multistream_errors_total",
		Help: "Total number of HTTP responses with error status (4xx or 5xx)",
	})
	pushMessagesTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multistream_push_messages_total",
		Help: "Total number of push messages applied to the channel set",
	})
	pushDroppedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multistream_push_messages_dropped_total",
		Help: "Total number of malformed or unrecognized push messages dropped",
	})
	pushReconnectsTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "multistream_push_reconnects_total",
		Help: "Total number of reconnect attempts after a push connection failure",
	})
	pushConnected := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "multistream_push_connected",
		Help: "1 while the push connection is open, 0 otherwise",
	})
	liveChannels := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "multistream_live_channels",
		Help: "Number of channels currently reported live",
	})
	visibleChannels := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "multistream_visible_channels",
		Help: "Number of live channels shown after applying the ignore list",
	})

	registry.MustRegister(
		requestsTotal,
		errorsTotal,
		pushMessagesTotal,
		pushDroppedTotal,
		pushReconnectsTotal,
		pushConnected,
		liveChannels,
		visibleChannels,
	)

	return &Metrics{
		registry:            registry,
		requestsTotal:       requestsTotal,
		errorsTotal:         errorsTotal,
		pushMessagesTotal:   pushMessagesTotal,
		pushDroppedTotal:    pushDroppedTotal,
		pushReconnectsTotal: pushReconnectsTotal,
		pushConnected:       pushConnected,
		liveChannels:        liveChannels,
		visibleChannels:     visibleChannels,
	}
}

// IncRequests increments the total request counter.
func (m *Metrics) IncRequests() {
	m.requestsTotal.Inc()
}

// IncErrors increments the errors counter.
func (m *Metrics) IncErrors() {
	m.errorsTotal.Inc()
}

// IncPushMessages increments the applied push message counter.
func (m *Metrics) IncPushMessages() {
	m.pushMessagesTotal.Inc()
}

// IncPushDropped increments the dropped push message counter.
func (m *Metrics) IncPushDropped() {
	m.pushDroppedTotal.Inc()
}

// IncReconnects increments the reconnect counter.
func (m *Metrics) IncReconnects() {
	m.pushReconnectsTotal.Inc()
}

// SetConnected records whether the push connection is open.
func (m *Metrics) SetConnected(connected bool) {
	if connected {
		m.pushConnected.Set(1)
		return
	}
	m.pushConnected.Set(0)
}

// SetLiveChannels sets the live channels gauge.
func (m *Metrics) SetLiveChannels(n int) {
	m.liveChannels.Set(float64(n))
}

// SetVisibleChannels sets the visible channels gauge.
func (m *Metrics) SetVisibleChannels(n int) {
	m.visibleChannels.Set(float64(n))
}

// Handler returns an http.Handler that serves Prometheus metrics.
// updateGauges is called before each scrape to refresh gauge values.
func (m *Metrics) Handler(updateGauges func()) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if updateGauges != nil {
			updateGauges()
		}
		promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}).ServeHTTP(w, r)
	})
}
