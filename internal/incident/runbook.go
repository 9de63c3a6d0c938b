package incident

// Runbook is one operational runbook entry.
type Runbook struct {
	ID          string   `json:"id" yaml:"id"`
	Title       string   `json:"title" yaml:"title"`
	Tags        []string `json:"tags" yaml:"tags"`
	Severity    string   `json:"severity" yaml:"severity"`
	Symptoms    []string `json:"symptoms" yaml:"symptoms"`
	Diagnosis   []string `json:"diagnosis" yaml:"diagnosis"`
	Remediation []string `json:"remediation" yaml:"remediation"`
}

// builtinRunbooks covers the failure modes the rest of the tool surface can
// surface: crash loops, resource saturation, slow queries, disk pressure,
// and 5xx spikes. Runbooks loaded from the overlay directory are served in
// addition to these.
var builtinRunbooks = []Runbook{
	{
		ID:       "RB-001",
		Title:    "Pod CrashLoopBackOff",
		Tags:     []string{"kubernetes", "crashloop", "pod", "restart"},
		Severity: "high",
		Symptoms: []string{
			"Pod status shows CrashLoopBackOff",
			"Pod restart count is increasing",
			"Container exits with non-zero exit code",
		},
		Diagnosis: []string{
			"1. Check pod logs: `kubectl logs <pod> --previous`",
			"2. Describe pod for events: `kubectl describe pod <pod>`",
			"3. Check if the issue is OOMKill (exit code 137) or application error (exit code 1)",
			"4. For exit code 1: check application configuration, secrets, and dependencies",
			"5. For exit code 137: check memory limits vs actual usage",
		},
		Remediation: []string{
			"For missing secrets: verify Vault/secrets config and permissions",
			"For OOMKill: increase memory limits in deployment spec",
			"For dependency issues: check downstream service connectivity",
			"Last resort: rollback to previous version",
		},
	},
	{
		ID:       "RB-002",
		Title:    "High CPU Usage",
		Tags:     []string{"cpu", "performance", "resource", "throttling"},
		Severity: "medium",
		Symptoms: []string{
			"CPU usage above 80% for sustained period",
			"Request latency increasing",
			"CPU throttling detected",
		},
		Diagnosis: []string{
			"1. Check CPU metrics: `query_metric('rate(container_cpu_usage_seconds_total[5m])')`",
			"2. Identify the hottest pods",
			"3. Check if it's a single pod or all replicas",
			"4. Look for correlated events (deployments, traffic spikes)",
		},
		Remediation: []string{
			"Scale the deployment horizontally: `scale_deployment(<name>, <replicas>)`",
			"Check for CPU-intensive operations in application logs",
			"Consider increasing CPU limits if consistently hitting the cap",
		},
	},
	{
		ID:       "RB-003",
		Title:    "Database Slow Queries",
		Tags:     []string{"database", "postgres", "slow", "query", "performance"},
		Severity: "medium",
		Symptoms: []string{
			"Increased p95/p99 latency",
			"Slow query log entries",
			"Connection pool exhaustion",
		},
		Diagnosis: []string{
			"1. Check slow queries: use `slow_queries` tool",
			"2. Run EXPLAIN on the offending query",
			"3. Check for missing indexes, sequential scans on large tables",
			"4. Check connection count and pool saturation",
		},
		Remediation: []string{
			"Add indexes for commonly filtered/joined columns",
			"Optimize query to reduce sequential scans",
			"Consider read replicas for heavy read workloads",
			"Check and tune connection pool settings",
		},
	},
	{
		ID:       "RB-004",
		Title:    "Disk Pressure / Node Storage Full",
		Tags:     []string{"disk", "storage", "node", "pressure", "eviction"},
		Severity: "high",
		Symptoms: []string{
			"Node condition shows DiskPressure",
			"Pods being evicted",
			"Container image pull failures",
		},
		Diagnosis: []string{
			"1. Check node conditions: `list_nodes`",
			"2. Identify large files: container logs, unused images",
			"3. Check PersistentVolume claims",
		},
		Remediation: []string{
			"Clean up unused container images: `docker system prune`",
			"Rotate and compress old logs",
			"Expand PersistentVolume if applicable",
			"Add additional nodes to the cluster",
		},
	},
	{
		ID:       "RB-005",
		Title:    "Service Returning 5xx Errors",
		Tags:     []string{"5xx", "error", "http", "service", "outage"},
		Severity: "critical",
		Symptoms: []string{
			"HTTP 500/502/503 error rate spike",
			"Downstream service timeouts",
			"Customer-facing impact",
		},
		Diagnosis: []string{
			"1. Check which service(s) are returning errors: `get_alerts`",
			"2. Check service health: `list_pods` + `get_events`",
			"3. Check logs for error details: `get_pod_logs`",
			"4. Check downstream dependencies (database, external APIs)",
			"5. Check recent deployments: was this caused by a code change?",
		},
		Remediation: []string{
			"If downstream dependency is down: check and fix that service first",
			"If recent deployment caused it: rollback to previous version",
			"If pod is unhealthy: restart deployment",
			"If overloaded: scale up replicas",
			"Communicate status to stakeholders",
		},
	},
}
