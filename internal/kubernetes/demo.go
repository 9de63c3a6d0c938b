package kubernetes

import "strings"

type demoPod struct {
	Name      string
	Namespace string
	Status    string
	Restarts  int
	Age       string
	Node      string
	CPU       string
	Memory    string
}

type demoDeployment struct {
	Name      string
	Namespace string
	Replicas  string
	Available int
	Age       string
	Image     string
}

type demoEvent struct {
	Type    string
	Reason  string
	Object  string
	Message string
	Age     string
	Count   int
}

type demoNode struct {
	Name           string
	Status         string
	Roles          string
	CPUCapacity    string
	CPUUsed        string
	MemoryCapacity string
	MemoryUsed     string
	Pods           int
}

type demoServiceLogs struct {
	Service string
	Lines   []string
}

// The synthetic cluster: a healthy e-commerce stack except for
// payment-service, which crash-loops on a missing vault secret.
var demoPods = []demoPod{
	{Name: "checkout-service-7b9f4d6c8-x2k9p", Namespace: "default", Status: "Running", Restarts: 0, Age: "3d", Node: "node-1", CPU: "120m", Memory: "256Mi"},
	{Name: "checkout-service-7b9f4d6c8-m4n7q", Namespace: "default", Status: "Running", Restarts: 0, Age: "3d", Node: "node-2", CPU: "95m", Memory: "230Mi"},
	{Name: "payment-service-5c8d3a1b2-j8h5r", Namespace: "default", Status: "CrashLoopBackOff", Restarts: 14, Age: "1d", Node: "node-1", CPU: "0m", Memory: "0Mi"},
	{Name: "api-gateway-9f2e1d4c7-k3l6w", Namespace: "default", Status: "Running", Restarts: 0, Age: "7d", Node: "node-2", CPU: "200m", Memory: "512Mi"},
	{Name: "user-service-4a7b2c9d1-p5t8v", Namespace: "default", Status: "Running", Restarts: 2, Age: "5d", Node: "node-1", CPU: "80m", Memory: "180Mi"},
	{Name: "inventory-service-6d3e8f1a5-n9m2x", Namespace: "default", Status: "Running", Restarts: 0, Age: "7d", Node: "node-3", CPU: "60m", Memory: "150Mi"},
	{Name: "notification-service-2c5d7e9f3-q4r1s", Namespace: "default", Status: "Running", Restarts: 0, Age: "7d", Node: "node-3", CPU: "40m", Memory: "100Mi"},
	{Name: "redis-cache-0", Namespace: "default", Status: "Running", Restarts: 0, Age: "14d", Node: "node-2", CPU: "50m", Memory: "128Mi"},
}

// newDemoDeployments returns a fresh copy; scale_deployment mutates the
// provider's copy, so fixtures must not be shared between providers.
func newDemoDeployments() []demoDeployment {
	return []demoDeployment{
		{Name: "checkout-service", Namespace: "default", Replicas: "2/2", Available: 2, Age: "30d", Image: "myregistry/checkout:v2.3.1"},
		{Name: "payment-service", Namespace: "default", Replicas: "0/1", Available: 0, Age: "30d", Image: "myregistry/payment:v1.8.0"},
		{Name: "api-gateway", Namespace: "default", Replicas: "1/1", Available: 1, Age: "45d", Image: "myregistry/api-gw:v3.1.0"},
		{Name: "user-service", Namespace: "default", Replicas: "1/1", Available: 1, Age: "30d", Image: "myregistry/user:v2.0.5"},
		{Name: "inventory-service", Namespace: "default", Replicas: "1/1", Available: 1, Age: "45d", Image: "myregistry/inventory:v1.5.2"},
		{Name: "notification-service", Namespace: "default", Replicas: "1/1", Available: 1, Age: "45d", Image: "myregistry/notification:v1.2.0"},
	}
}

var demoEvents = []demoEvent{
	{Type: "Warning", Reason: "BackOff", Object: "pod/payment-service-5c8d3a1b2-j8h5r", Message: "Back-off restarting failed container", Age: "2m", Count: 14},
	{Type: "Warning", Reason: "Unhealthy", Object: "pod/payment-service-5c8d3a1b2-j8h5r", Message: "Liveness probe failed: connection refused on port 8080", Age: "3m", Count: 28},
	{Type: "Normal", Reason: "Pulled", Object: "pod/payment-service-5c8d3a1b2-j8h5r", Message: "Container image 'myregistry/payment:v1.8.0' already present on machine", Age: "5m", Count: 14},
	{Type: "Warning", Reason: "HighMemory", Object: "pod/api-gateway-9f2e1d4c7-k3l6w", Message: "Memory usage at 89% of limit (512Mi)", Age: "10m", Count: 3},
	{Type: "Normal", Reason: "ScalingReplicaSet", Object: "deployment/checkout-service", Message: "Scaled up replica set checkout-service-7b9f4d6c8 to 2", Age: "3d", Count: 1},
}

var demoNodes = []demoNode{
	{Name: "node-1", Status: "Ready", Roles: "worker", CPUCapacity: "4", CPUUsed: "1.2", MemoryCapacity: "8Gi", MemoryUsed: "4.5Gi", Pods: 3},
	{Name: "node-2", Status: "Ready", Roles: "worker", CPUCapacity: "4", CPUUsed: "1.8", MemoryCapacity: "8Gi", MemoryUsed: "5.2Gi", Pods: 3},
	{Name: "node-3", Status: "Ready", Roles: "worker", CPUCapacity: "4", CPUUsed: "0.5", MemoryCapacity: "8Gi", MemoryUsed: "2.1Gi", Pods: 2},
}

var demoPodLogs = []demoServiceLogs{
	{
		Service: "payment-service",
		Lines: []string{
			"2026-02-14T01:15:32Z [ERROR] Failed to connect to payment gateway: connection refused",
			"2026-02-14T01:15:32Z [ERROR] Health check failed — port 8080 not responding",
			"2026-02-14T01:15:33Z [INFO] Shutting down gracefully...",
			"2026-02-14T01:15:35Z [INFO] Starting payment-service v1.8.0...",
			"2026-02-14T01:15:35Z [INFO] Loading configuration from /etc/config/payment.yaml",
			"2026-02-14T01:15:36Z [ERROR] FATAL: Cannot read secret 'STRIPE_API_KEY' from vault — permission denied",
			"2026-02-14T01:15:36Z [ERROR] Startup aborted: missing required secrets",
			"2026-02-14T01:15:37Z [INFO] Shutting down gracefully...",
		},
	},
	{
		Service: "checkout-service",
		Lines: []string{
			"2026-02-14T01:20:01Z [INFO] Request POST /api/checkout — 200 OK (45ms)",
			"2026-02-14T01:20:02Z [WARN] Downstream payment-service returned 503 — retrying (attempt 1/3)",
			"2026-02-14T01:20:03Z [WARN] Downstream payment-service returned 503 — retrying (attempt 2/3)",
			"2026-02-14T01:20:04Z [ERROR] Downstream payment-service failed after 3 retries — returning 500",
			"2026-02-14T01:20:05Z [INFO] Request POST /api/checkout — 500 Internal Server Error (3012ms)",
			"2026-02-14T01:20:10Z [INFO] Request GET /api/checkout/health — 200 OK (2ms)",
		},
	},
	{
		Service: "api-gateway",
		Lines: []string{
			"2026-02-14T01:20:01Z [INFO] Request POST /api/checkout → checkout-service (200, 45ms)",
			"2026-02-14T01:20:05Z [ERROR] Request POST /api/checkout → checkout-service (500, 3012ms)",
			"2026-02-14T01:20:06Z [WARN] High memory usage detected: 456Mi / 512Mi (89%)",
			"2026-02-14T01:20:10Z [INFO] Request GET /health → 200 OK (1ms)",
		},
	},
}

// findDemoLogs matches partial pod names against service log fixtures in
// either direction, so both "payment-service-5c8d..." and "payment" resolve.
func findDemoLogs(podName string) *demoServiceLogs {
	for i := range demoPodLogs {
		key := demoPodLogs[i].Service
		if strings.Contains(podName, key) || strings.Contains(key, podName) {
			return &demoPodLogs[i]
		}
	}
	return nil
}

func demoLogServices() string {
	names := make([]string, len(demoPodLogs))
	for i, l := range demoPodLogs {
		names[i] = l.Service
	}
	return strings.Join(names, ", ")
}
