// Package prometheus renders membergate counters in Prometheus text
// exposition format.
//
// [NewPrometheusExporter] accepts a [membergate.Engine] and exposes an
// [http.Handler] suitable for mounting at /metrics. Counter names are
// prefixed membergate_*_total.
//
// The exporter never registers in a global Prometheus registry; callers
// mount the Handler themselves.
package prometheus
