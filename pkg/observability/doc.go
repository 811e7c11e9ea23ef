/*
Package observability wires tree lifecycle hooks to logs and Prometheus
metrics.

Hooks from several sources can be combined with Chain so a single Tree can
report to a logger and a metrics registry at the same time.
*/
package observability
