// Package metrics collects and exposes Prometheus metrics.
package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Recorder is the metrics interface consumed by the aggregator and the HTTP
// layer. The aggregator runs decoupled from requests, so its failures are
// only observable here and in the logs.
type Recorder interface {
	RecordAggregationSuccess()
	RecordAggregationFailure()
	RecordGeocodeFailure()
	RecordHTTPStatus(statusCode int)
}

// Collector is the Prometheus-backed Recorder implementation.
type Collector struct {
	aggregationSuccess prometheus.Counter
	aggregationFail    prometheus.Counter
	geocodeFail        prometheus.Counter
	httpStatus         *prometheus.CounterVec
}

// NewCollector registers all counters on the given registry.
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		aggregationSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movies2u_rating_aggregation_success_total",
			Help: "Completed rating recomputations.",
		}),
		aggregationFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movies2u_rating_aggregation_fail_total",
			Help: "Rating recomputations that failed and were dropped.",
		}),
		geocodeFail: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "movies2u_geocode_fail_total",
			Help: "Location resolution failures surfaced to clients.",
		}),
		httpStatus: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "movies2u_http_status_total",
			Help: "Responses by HTTP status code.",
		}, []string{"status_code"}),
	}

	reg.MustRegister(
		c.aggregationSuccess,
		c.aggregationFail,
		c.geocodeFail,
		c.httpStatus,
	)
	return c
}

// RecordAggregationSuccess counts a completed recomputation.
func (c *Collector) RecordAggregationSuccess() {
	c.aggregationSuccess.Inc()
}

// RecordAggregationFailure counts a dropped recomputation.
func (c *Collector) RecordAggregationFailure() {
	c.aggregationFail.Inc()
}

// RecordGeocodeFailure counts an upstream geocoding failure.
func (c *Collector) RecordGeocodeFailure() {
	c.geocodeFail.Inc()
}

// RecordHTTPStatus counts a response by status code.
func (c *Collector) RecordHTTPStatus(statusCode int) {
	c.httpStatus.WithLabelValues(strconv.Itoa(statusCode)).Inc()
}

// Handler returns the Prometheus scrape handler.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Nop is a Recorder that discards everything. Used in tests.
type Nop struct{}

func (Nop) RecordAggregationSuccess() {}
func (Nop) RecordAggregationFailure() {}
func (Nop) RecordGeocodeFailure()     {}
func (Nop) RecordHTTPStatus(code int) {}
