package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "faucet_gateway"

// Metrics holds the collectors for the relay and the price cache on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	relayRequests *prometheus.CounterVec
	relayDuration *prometheus.HistogramVec
	priceFetches  *prometheus.CounterVec
	pricesCached  prometheus.Gauge
}

func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		relayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "relay_requests_total",
			Help:      "Requests relayed to the backend by route and response status.",
		}, []string{"route", "status"}),
		relayDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "relay_duration_seconds",
			Help:      "Time spent waiting on the backend.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route"}),
		priceFetches: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_fetches_total",
			Help:      "Price API fetches by outcome.",
		}, []string{"outcome"}),
		pricesCached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "prices_cached",
			Help:      "Number of coin prices currently cached.",
		}),
	}
	m.registry.MustRegister(m.relayRequests, m.relayDuration, m.priceFetches, m.pricesCached)
	return m
}

// ObserveRelay records one relayed request. A nil receiver is a no-op.
func (m *Metrics) ObserveRelay(route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.relayRequests.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.relayDuration.WithLabelValues(route).Observe(elapsed.Seconds())
}

// ObservePriceFetch records the outcome of a price fetch and the resulting cache size.
func (m *Metrics) ObservePriceFetch(err error, cached int) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.priceFetches.WithLabelValues(outcome).Inc()
	m.pricesCached.Set(float64(cached))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
