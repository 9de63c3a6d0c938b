package kubernetes

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
	k8sclient "k8s.io/client-go/kubernetes"
	"sigs.k8s.io/yaml"

	"infrawhisperer/internal/api"
	"infrawhisperer/internal/formatting"
	"infrawhisperer/pkg/logging"
)

const subsystem = "kubernetes"

const restartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// maxReplicas bounds scale_deployment. An agent-driven scale-up past this is
// assumed to be a mistake, not an intent.
const maxReplicas = 50

// Provider exposes the cluster tools. In demo mode it serves the synthetic
// cluster fixtures; scale_deployment mutates the provider's own deployment
// copy so the demo stays coherent across calls.
type Provider struct {
	clientset k8sclient.Interface
	demo      bool

	mu          sync.Mutex
	deployments []demoDeployment

	now func() time.Time
}

// NewProvider builds a provider from the given kubeconfig path. If no usable
// cluster configuration exists the provider runs in demo mode.
func NewProvider(kubeconfig string) *Provider {
	p := &Provider{
		deployments: newDemoDeployments(),
		now:         time.Now,
	}

	clientset, err := NewClientset(kubeconfig)
	if err != nil {
		p.demo = true
		logging.Warn(subsystem, "No Kubernetes config found (%v) — running in DEMO mode with synthetic data", err)
		return p
	}

	p.clientset = clientset
	logging.Info(subsystem, "Kubernetes client configured")
	return p
}

// NewProviderWithClientset wires an existing clientset, bypassing config
// discovery. Used by tests with a fake clientset.
func NewProviderWithClientset(clientset k8sclient.Interface) *Provider {
	return &Provider{
		clientset:   clientset,
		deployments: newDemoDeployments(),
		now:         time.Now,
	}
}

// DemoMode reports whether the provider answers from synthetic data.
func (p *Provider) DemoMode() bool {
	return p.demo
}

// GetTools implements api.ToolProvider.
func (p *Provider) GetTools() []api.ToolMetadata {
	namespaceArg := api.ArgMetadata{
		Name: "namespace", Type: "string", Required: false,
		Description: "The Kubernetes namespace to query", Default: "default",
	}

	return []api.ToolMetadata{
		{
			Name:        "list_pods",
			Description: "List all pods in a Kubernetes namespace with their status, restarts, and resource usage.",
			Args:        []api.ArgMetadata{namespaceArg},
		},
		{
			Name:        "get_pod_logs",
			Description: "Get the most recent log lines from a pod. The pod name may be partial; the first pod containing it is matched.",
			Args: []api.ArgMetadata{
				{Name: "pod_name", Type: "string", Required: true, Description: "Name of the pod, exact or partial"},
				namespaceArg,
				{Name: "lines", Type: "number", Required: false, Description: "Number of log lines to return", Default: 50},
			},
		},
		{
			Name:        "describe_pod",
			Description: "Get detailed information about a specific pod including containers, conditions, and last termination state.",
			Args: []api.ArgMetadata{
				{Name: "pod_name", Type: "string", Required: true, Description: "Exact name of the pod"},
				namespaceArg,
			},
		},
		{
			Name:        "list_deployments",
			Description: "List all deployments in a namespace with their replica counts and images.",
			Args:        []api.ArgMetadata{namespaceArg},
		},
		{
			Name:        "get_events",
			Description: "Get recent Kubernetes events in a namespace. Useful for debugging pod issues.",
			Args: []api.ArgMetadata{
				namespaceArg,
				{Name: "limit", Type: "number", Required: false, Description: "Maximum number of events to return", Default: 20},
			},
		},
		{
			Name:        "list_nodes",
			Description: "List all cluster nodes with their status, roles, and resource usage.",
		},
		{
			Name:        "scale_deployment",
			Description: "Scale a deployment to a specified number of replicas. RESTRICTED: this tool modifies infrastructure.",
			Args: []api.ArgMetadata{
				{Name: "name", Type: "string", Required: true, Description: "Name of the deployment to scale"},
				{Name: "replicas", Type: "number", Required: true, Description: "Target number of replicas"},
				namespaceArg,
			},
		},
		{
			Name:        "restart_deployment",
			Description: "Perform a rolling restart of a deployment. RESTRICTED: this tool modifies infrastructure.",
			Args: []api.ArgMetadata{
				{Name: "name", Type: "string", Required: true, Description: "Name of the deployment to restart"},
				namespaceArg,
			},
		},
	}
}

// ExecuteTool implements api.ToolProvider.
func (p *Provider) ExecuteTool(ctx context.Context, toolName string, args map[string]interface{}) (*api.CallToolResult, error) {
	namespace := api.GetString(args, "namespace", "default")

	switch toolName {
	case "list_pods":
		return p.listPods(ctx, namespace), nil
	case "get_pod_logs":
		return p.getPodLogs(ctx, api.GetString(args, "pod_name", ""), namespace, api.GetInt(args, "lines", 50)), nil
	case "describe_pod":
		return p.describePod(ctx, api.GetString(args, "pod_name", ""), namespace), nil
	case "list_deployments":
		return p.listDeployments(ctx, namespace), nil
	case "get_events":
		return p.getEvents(ctx, namespace, api.GetInt(args, "limit", 20)), nil
	case "list_nodes":
		return p.listNodes(ctx), nil
	case "scale_deployment":
		return p.scaleDeployment(ctx, api.GetString(args, "name", ""), api.GetInt(args, "replicas", -1), namespace), nil
	case "restart_deployment":
		return p.restartDeployment(ctx, api.GetString(args, "name", ""), namespace), nil
	default:
		return nil, fmt.Errorf("unknown tool: %s", toolName)
	}
}

func (p *Provider) listPods(ctx context.Context, namespace string) *api.CallToolResult {
	if p.demo {
		var rows [][]interface{}
		for _, pod := range demoPods {
			if pod.Namespace != namespace {
				continue
			}
			rows = append(rows, []interface{}{pod.Name, pod.Status, pod.Restarts, pod.Age, pod.Node, pod.CPU, pod.Memory})
		}
		if len(rows) == 0 {
			return api.TextResult(fmt.Sprintf("No pods found in namespace '%s'.", namespace))
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"NAME", "STATUS", "RESTARTS", "AGE", "NODE", "CPU", "MEMORY"}, rows))
	}

	pods, err := p.clientset.CoreV1().Pods(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing pods: %s", err))
	}
	if len(pods.Items) == 0 {
		return api.TextResult(fmt.Sprintf("No pods found in namespace '%s'.", namespace))
	}

	rows := make([][]interface{}, 0, len(pods.Items))
	for _, pod := range pods.Items {
		restarts := int32(0)
		for _, cs := range pod.Status.ContainerStatuses {
			restarts += cs.RestartCount
		}
		node := pod.Spec.NodeName
		if node == "" {
			node = "N/A"
		}
		rows = append(rows, []interface{}{pod.Name, string(pod.Status.Phase), restarts, node})
	}
	return api.TextResult(formatting.RenderTable(
		[]interface{}{"NAME", "STATUS", "RESTARTS", "NODE"}, rows))
}

func (p *Provider) getPodLogs(ctx context.Context, podName, namespace string, lines int) *api.CallToolResult {
	if podName == "" {
		return api.ErrorResult("pod_name is required")
	}

	if p.demo {
		logs := findDemoLogs(podName)
		if logs == nil {
			return api.TextResult(fmt.Sprintf("No logs found for pod '%s'. Available pods: %s", podName, demoLogServices()))
		}
		tail := logs.Lines
		if lines > 0 && lines < len(tail) {
			tail = tail[len(tail)-lines:]
		}
		header := fmt.Sprintf("--- Logs for pod matching '%s' (last %d lines) ---\n", podName, len(logs.Lines))
		return api.TextResult(header + strings.Join(tail, "\n"))
	}

	tailLines := int64(lines)
	raw, err := p.clientset.CoreV1().Pods(namespace).GetLogs(podName, &corev1.PodLogOptions{
		TailLines: &tailLines,
	}).Do(ctx).Raw()
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error fetching logs for %s: %s", podName, err))
	}
	header := fmt.Sprintf("--- Logs for %s (last %d lines) ---\n", podName, lines)
	return api.TextResult(header + string(raw))
}

// podDescription is the describe_pod output shape, rendered as YAML.
type podDescription struct {
	Name       string            `json:"name"`
	Namespace  string            `json:"namespace"`
	Node       string            `json:"node"`
	Status     string            `json:"status"`
	Restarts   int               `json:"restarts"`
	Age        string            `json:"age,omitempty"`
	Resources  map[string]string `json:"resources,omitempty"`
	Conditions []podCondition    `json:"conditions"`

	LastTermination *terminationInfo `json:"lastTermination,omitempty"`
}

type podCondition struct {
	Type   string `json:"type"`
	Status string `json:"status"`
}

type terminationInfo struct {
	Reason   string `json:"reason"`
	ExitCode int32  `json:"exitCode"`
	Message  string `json:"message,omitempty"`
}

func (p *Provider) describePod(ctx context.Context, podName, namespace string) *api.CallToolResult {
	if podName == "" {
		return api.ErrorResult("pod_name is required")
	}

	if p.demo {
		for _, pod := range demoPods {
			if pod.Name != podName && !strings.Contains(pod.Name, podName) {
				continue
			}
			ready := "False"
			if pod.Status == "Running" {
				ready = "True"
			}
			desc := podDescription{
				Name:      pod.Name,
				Namespace: pod.Namespace,
				Node:      pod.Node,
				Status:    pod.Status,
				Restarts:  pod.Restarts,
				Age:       pod.Age,
				Resources: map[string]string{"cpu": pod.CPU, "memory": pod.Memory},
				Conditions: []podCondition{
					{Type: "Ready", Status: ready},
					{Type: "ContainersReady", Status: ready},
				},
			}
			if pod.Status == "CrashLoopBackOff" {
				desc.LastTermination = &terminationInfo{
					Reason:   "Error",
					ExitCode: 1,
					Message:  "Cannot read secret 'STRIPE_API_KEY' from vault — permission denied",
				}
			}
			return renderDescription(desc)
		}
		return api.TextResult(fmt.Sprintf("Pod '%s' not found in namespace '%s'.", podName, namespace))
	}

	pod, err := p.clientset.CoreV1().Pods(namespace).Get(ctx, podName, metav1.GetOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error describing pod %s: %s", podName, err))
	}

	restarts := 0
	var lastTerm *terminationInfo
	for _, cs := range pod.Status.ContainerStatuses {
		restarts += int(cs.RestartCount)
		if t := cs.LastTerminationState.Terminated; t != nil && lastTerm == nil {
			lastTerm = &terminationInfo{Reason: t.Reason, ExitCode: t.ExitCode, Message: t.Message}
		}
	}

	conditions := make([]podCondition, 0, len(pod.Status.Conditions))
	for _, c := range pod.Status.Conditions {
		conditions = append(conditions, podCondition{Type: string(c.Type), Status: string(c.Status)})
	}

	return renderDescription(podDescription{
		Name:            pod.Name,
		Namespace:       pod.Namespace,
		Node:            pod.Spec.NodeName,
		Status:          string(pod.Status.Phase),
		Restarts:        restarts,
		Conditions:      conditions,
		LastTermination: lastTerm,
	})
}

func renderDescription(desc podDescription) *api.CallToolResult {
	out, err := yaml.Marshal(desc)
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error rendering pod description: %s", err))
	}
	return api.TextResult(string(out))
}

func (p *Provider) listDeployments(ctx context.Context, namespace string) *api.CallToolResult {
	if p.demo {
		p.mu.Lock()
		defer p.mu.Unlock()

		var rows [][]interface{}
		for _, d := range p.deployments {
			if d.Namespace != namespace {
				continue
			}
			rows = append(rows, []interface{}{d.Name, d.Replicas, d.Available, d.Age, d.Image})
		}
		if len(rows) == 0 {
			return api.TextResult(fmt.Sprintf("No deployments found in namespace '%s'.", namespace))
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"NAME", "REPLICAS", "AVAILABLE", "AGE", "IMAGE"}, rows))
	}

	deps, err := p.clientset.AppsV1().Deployments(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing deployments: %s", err))
	}
	if len(deps.Items) == 0 {
		return api.TextResult(fmt.Sprintf("No deployments found in namespace '%s'.", namespace))
	}

	rows := make([][]interface{}, 0, len(deps.Items))
	for _, dep := range deps.Items {
		specReplicas := int32(0)
		if dep.Spec.Replicas != nil {
			specReplicas = *dep.Spec.Replicas
		}
		ready := fmt.Sprintf("%d/%d", dep.Status.ReadyReplicas, specReplicas)
		rows = append(rows, []interface{}{dep.Name, ready, dep.Status.AvailableReplicas})
	}
	return api.TextResult(formatting.RenderTable(
		[]interface{}{"NAME", "READY", "AVAILABLE"}, rows))
}

func (p *Provider) getEvents(ctx context.Context, namespace string, limit int) *api.CallToolResult {
	if limit <= 0 {
		limit = 20
	}

	if p.demo {
		var rows [][]interface{}
		for i, e := range demoEvents {
			if i >= limit {
				break
			}
			rows = append(rows, []interface{}{e.Type, e.Reason, e.Object, e.Message, e.Age, e.Count})
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"TYPE", "REASON", "OBJECT", "MESSAGE", "AGE", "COUNT"}, rows))
	}

	events, err := p.clientset.CoreV1().Events(namespace).List(ctx, metav1.ListOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing events: %s", err))
	}

	items := events.Items
	sort.Slice(items, func(i, j int) bool {
		return eventTime(items[i]).After(eventTime(items[j]))
	})
	if len(items) > limit {
		items = items[:limit]
	}

	rows := make([][]interface{}, 0, len(items))
	for _, ev := range items {
		obj := fmt.Sprintf("%s/%s", ev.InvolvedObject.Kind, ev.InvolvedObject.Name)
		rows = append(rows, []interface{}{ev.Type, ev.Reason, obj, ev.Message})
	}
	return api.TextResult(formatting.RenderTable(
		[]interface{}{"TYPE", "REASON", "OBJECT", "MESSAGE"}, rows))
}

func eventTime(ev corev1.Event) time.Time {
	if !ev.LastTimestamp.IsZero() {
		return ev.LastTimestamp.Time
	}
	return ev.CreationTimestamp.Time
}

func (p *Provider) listNodes(ctx context.Context) *api.CallToolResult {
	if p.demo {
		rows := make([][]interface{}, 0, len(demoNodes))
		for _, n := range demoNodes {
			cpu := fmt.Sprintf("%s/%s", n.CPUUsed, n.CPUCapacity)
			mem := fmt.Sprintf("%s/%s", n.MemoryUsed, n.MemoryCapacity)
			rows = append(rows, []interface{}{n.Name, n.Status, n.Roles, cpu, mem, n.Pods})
		}
		return api.TextResult(formatting.RenderTable(
			[]interface{}{"NAME", "STATUS", "ROLES", "CPU (used/cap)", "MEM (used/cap)", "PODS"}, rows))
	}

	nodes, err := p.clientset.CoreV1().Nodes().List(ctx, metav1.ListOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error listing nodes: %s", err))
	}

	rows := make([][]interface{}, 0, len(nodes.Items))
	for _, node := range nodes.Items {
		status := "NotReady"
		for _, c := range node.Status.Conditions {
			if c.Type == corev1.NodeReady && c.Status == corev1.ConditionTrue {
				status = "Ready"
				break
			}
		}
		var roles []string
		for label := range node.Labels {
			if strings.HasPrefix(label, "node-role.kubernetes.io/") {
				roles = append(roles, strings.TrimPrefix(label, "node-role.kubernetes.io/"))
			}
		}
		sort.Strings(roles)
		roleText := strings.Join(roles, ",")
		if roleText == "" {
			roleText = "worker"
		}
		rows = append(rows, []interface{}{node.Name, status, roleText})
	}
	return api.TextResult(formatting.RenderTable(
		[]interface{}{"NAME", "STATUS", "ROLES"}, rows))
}

func (p *Provider) scaleDeployment(ctx context.Context, name string, replicas int, namespace string) *api.CallToolResult {
	if name == "" {
		return api.ErrorResult("name is required")
	}
	if replicas < 0 || replicas > maxReplicas {
		return api.ErrorResult(fmt.Sprintf("Error: replica count must be between 0 and %d (got %d).", maxReplicas, replicas))
	}

	if p.demo {
		p.mu.Lock()
		defer p.mu.Unlock()

		for i := range p.deployments {
			if p.deployments[i].Name != name {
				continue
			}
			old := p.deployments[i].Replicas
			p.deployments[i].Replicas = fmt.Sprintf("%d/%d", replicas, replicas)
			p.deployments[i].Available = replicas
			logging.Info(subsystem, "Scaled deployment %s: %s -> %d", name, old, replicas)
			return api.TextResult(fmt.Sprintf("✅ Deployment '%s' scaled: %s → %d/%d\nTimestamp: %s",
				name, old, replicas, replicas, p.now().UTC().Format(time.RFC3339)))
		}
		return api.ErrorResult(fmt.Sprintf("Error: Deployment '%s' not found in namespace '%s'.", name, namespace))
	}

	patch := fmt.Sprintf(`{"spec":{"replicas":%d}}`, replicas)
	_, err := p.clientset.AppsV1().Deployments(namespace).Patch(
		ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error scaling deployment: %s", err))
	}
	logging.Info(subsystem, "Scaled deployment %s/%s to %d replicas", namespace, name, replicas)
	return api.TextResult(fmt.Sprintf("✅ Deployment '%s' in '%s' scaled to %d replicas.\nTimestamp: %s",
		name, namespace, replicas, p.now().UTC().Format(time.RFC3339)))
}

func (p *Provider) restartDeployment(ctx context.Context, name, namespace string) *api.CallToolResult {
	if name == "" {
		return api.ErrorResult("name is required")
	}
	now := p.now().UTC().Format(time.RFC3339)

	if p.demo {
		p.mu.Lock()
		defer p.mu.Unlock()

		for _, d := range p.deployments {
			if d.Name == name {
				return api.TextResult(fmt.Sprintf("✅ Deployment '%s' rolling restart initiated.\nTimestamp: %s\nAll pods will be recreated with the current configuration.", name, now))
			}
		}
		return api.ErrorResult(fmt.Sprintf("Error: Deployment '%s' not found in namespace '%s'.", name, namespace))
	}

	patch := fmt.Sprintf(`{"spec":{"template":{"metadata":{"annotations":{%q:%q}}}}}`, restartedAtAnnotation, now)
	_, err := p.clientset.AppsV1().Deployments(namespace).Patch(
		ctx, name, types.StrategicMergePatchType, []byte(patch), metav1.PatchOptions{})
	if err != nil {
		return api.ErrorResult(fmt.Sprintf("Error restarting deployment: %s", err))
	}
	logging.Info(subsystem, "Rolling restart of deployment %s/%s", namespace, name)
	return api.TextResult(fmt.Sprintf("✅ Deployment '%s' in '%s' rolling restart initiated.\nTimestamp: %s", name, namespace, now))
}
