package monitoring

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

var demoRequestDuration = map[string]map[string]float64{
	"checkout-service": {"p50": 0.045, "p95": 0.320, "p99": 1.200},
	"payment-service":  {"p50": 0, "p95": 0, "p99": 0},
	"api-gateway":      {"p50": 0.012, "p95": 0.085, "p99": 0.250},
	"user-service":     {"p50": 0.030, "p95": 0.150, "p99": 0.400},
}

var demoRequestTotals = map[string]map[string]int{
	"checkout-service": {"2xx": 14532, "4xx": 234, "5xx": 847},
	"payment-service":  {"2xx": 0, "4xx": 0, "5xx": 0},
	"api-gateway":      {"2xx": 45231, "4xx": 1203, "5xx": 892},
	"user-service":     {"2xx": 8923, "4xx": 45, "5xx": 12},
}

var demoCPUUsage = map[string]float64{
	"checkout-service":  0.120,
	"payment-service":   0.0,
	"api-gateway":       0.200,
	"user-service":      0.080,
	"inventory-service": 0.060,
}

var demoMemoryBytes = map[string]float64{
	"checkout-service":  268435456,
	"payment-service":   0,
	"api-gateway":       478150656,
	"user-service":      188743680,
	"inventory-service": 157286400,
}

type demoAlert struct {
	AlertName   string
	Severity    string
	State       string
	Service     string
	Summary     string
	Description string
	Started     string
}

var demoAlerts = []demoAlert{
	{
		AlertName:   "PaymentServiceDown",
		Severity:    "critical",
		State:       "firing",
		Service:     "payment-service",
		Summary:     "Payment service has been down for > 10 minutes",
		Description: "payment-service pod is in CrashLoopBackOff. Last error: missing vault secret STRIPE_API_KEY",
		Started:     "2026-02-14T01:05:00Z",
	},
	{
		AlertName:   "HighErrorRate",
		Severity:    "warning",
		State:       "firing",
		Service:     "checkout-service",
		Summary:     "checkout-service 5xx rate > 5% for 5 minutes",
		Description: "Error rate at 5.5% (847 errors / 15613 total). Correlates with payment-service outage.",
		Started:     "2026-02-14T01:10:00Z",
	},
	{
		AlertName:   "HighMemoryUsage",
		Severity:    "warning",
		State:       "firing",
		Service:     "api-gateway",
		Summary:     "api-gateway memory usage at 89% of limit",
		Description: "Container memory at 456Mi / 512Mi limit. Risk of OOMKill.",
		Started:     "2026-02-14T01:15:00Z",
	},
}

type demoTarget struct {
	Endpoint       string
	State          string
	LastScrape     string
	ScrapeDuration string
	Error          string
}

var demoTargets = []demoTarget{
	{Endpoint: "checkout-service:8080/metrics", State: "up", LastScrape: "2s ago", ScrapeDuration: "12ms"},
	{Endpoint: "payment-service:8080/metrics", State: "down", LastScrape: "5m ago", ScrapeDuration: "0ms", Error: "connection refused"},
	{Endpoint: "api-gateway:8080/metrics", State: "up", LastScrape: "1s ago", ScrapeDuration: "8ms"},
	{Endpoint: "user-service:8080/metrics", State: "up", LastScrape: "3s ago", ScrapeDuration: "6ms"},
	{Endpoint: "inventory-service:8080/metrics", State: "up", LastScrape: "2s ago", ScrapeDuration: "5ms"},
	{Endpoint: "node-exporter:9100/metrics", State: "up", LastScrape: "1s ago", ScrapeDuration: "15ms"},
}

// generateTimeseries produces points synthetic samples at one-minute
// intervals ending now, jittered around base. Values are rendered as strings
// the way the Prometheus API does.
func generateTimeseries(base float64, points int, noise float64, now time.Time) [][2]interface{} {
	ts := now.Unix()
	series := make([][2]interface{}, points)
	for i := 0; i < points; i++ {
		jitter := (rand.Float64()*2 - 1) * noise * base
		series[i] = [2]interface{}{
			ts - int64(points-i)*60,
			fmt.Sprintf("%g", base+jitter),
		}
	}
	return series
}

// demoInstantData answers an instant query from the fixtures. Branch order
// matters: duration before totals, cpu/memory before the bare "up" match.
func demoInstantData(query string) interface{} {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(query, "http_request_duration"):
		return demoRequestDuration
	case strings.Contains(query, "http_requests_total"):
		return demoRequestTotals
	case strings.Contains(lower, "cpu"):
		return demoCPUUsage
	case strings.Contains(lower, "memory"):
		formatted := make(map[string]string, len(demoMemoryBytes))
		for svc, bytes := range demoMemoryBytes {
			formatted[svc] = fmt.Sprintf("%.0fMi", bytes/1024/1024)
		}
		return formatted
	case strings.Contains(query, "up"):
		states := make(map[string]int, len(demoTargets))
		for _, t := range demoTargets {
			svc := strings.SplitN(t.Endpoint, ":", 2)[0]
			if t.State == "up" {
				states[svc] = 1
			} else {
				states[svc] = 0
			}
		}
		return states
	default:
		return map[string]string{
			"info": fmt.Sprintf("Demo mode: no synthetic data for query '%s'. Try queries with: http_request_duration, http_requests_total, cpu, memory, up", query),
		}
	}
}

// demoRangeData answers a range query with synthetic series.
func demoRangeData(query string, now time.Time) interface{} {
	lower := strings.ToLower(query)

	switch {
	case strings.Contains(lower, "error") || strings.Contains(lower, "5xx"):
		return map[string]interface{}{
			"checkout-service": generateTimeseries(5.5, 30, 0.3, now),
			"api-gateway":      generateTimeseries(1.9, 30, 0.2, now),
		}
	case strings.Contains(lower, "latency") || strings.Contains(lower, "duration"):
		return map[string]interface{}{
			"checkout-service_p95": generateTimeseries(0.320, 30, 0.15, now),
			"api-gateway_p95":      generateTimeseries(0.085, 30, 0.1, now),
		}
	case strings.Contains(lower, "cpu"):
		return map[string]interface{}{
			"checkout-service": generateTimeseries(0.12, 30, 0.1, now),
			"api-gateway":      generateTimeseries(0.20, 30, 0.1, now),
		}
	default:
		return map[string]interface{}{
			"sample_series": generateTimeseries(0.1+rand.Float64()*9.9, 30, 0.1, now),
		}
	}
}
