// Package metrics exposes the Prometheus metrics of all packages.
// Collectors are defined next to the code they measure (client, cache,
// pagination, component) and registered via promauto.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry is the registerer all package metrics use.
var Registry = prometheus.DefaultRegisterer

// Gatherer serves the metrics in Registry.
var Gatherer = prometheus.DefaultGatherer

// Handler serves the metrics in the Prometheus text format.
func Handler() http.Handler {
	return promhttp.HandlerFor(Gatherer, promhttp.HandlerOpts{})
}

// Metrics Documentation
//
// Request Metrics (pkg/client):
//   - components_http_requests_total{app, status} (Counter): App API requests by HTTP status
//   - components_http_request_duration_seconds{app} (Histogram): Request duration
//   - components_http_errors_total{app, class} (Counter): Errors by class (client, server, rate_limit, network)
//
// Cache Metrics (pkg/cache):
//   - components_cache_hits_total{app} (Counter): Cache entries found
//   - components_cache_misses_total{app} (Counter): Cache misses
//   - components_cache_not_modified_total{app} (Counter): 304 responses served from cache
//   - components_cache_errors_total{operation} (Counter): Cache operation errors
//
// Pagination Metrics (pkg/pagination):
//   - components_pagination_pages_total{resource} (Counter): Pages fetched
//   - components_pagination_items_total{resource} (Counter): Items accumulated
//   - components_pagination_bound_exceeded_total{resource} (Counter): Sessions stopped at a page or item limit
//
// Component Metrics (pkg/component):
//   - components_runs_total{key, result} (Counter): Runs by result (success, error, invalid)
//   - components_run_duration_seconds{key} (Histogram): Run duration
//
// Example Prometheus Queries:
//
//   # Cache Hit Rate
//   sum(rate(components_cache_hits_total[5m])) /
//   (sum(rate(components_cache_hits_total[5m])) + sum(rate(components_cache_misses_total[5m])))
//
//   # Pages per adalo session
//   rate(components_pagination_pages_total{resource="adalo_records"}[5m])
//
//   # Failed runs
//   sum by (key) (rate(components_runs_total{result="error"}[5m]))
//
//   # P95 Request Latency
//   histogram_quantile(0.95, rate(components_http_request_duration_seconds_bucket[5m]))
