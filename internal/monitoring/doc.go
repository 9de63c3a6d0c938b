// Package monitoring implements the Prometheus tool server: PromQL instant
// and range queries, active alerts, and scrape target health.
//
// Prometheus is probed once at startup via /-/healthy; if unreachable the
// provider serves synthetic metrics that mirror the demo cluster state (a
// down payment service and an elevated checkout error rate).
package monitoring
