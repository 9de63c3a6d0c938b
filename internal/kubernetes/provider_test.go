package kubernetes

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/client-go/kubernetes/fake"

	"infrawhisperer/internal/api"
)

func newDemoProvider(t *testing.T) *Provider {
	t.Helper()
	p := &Provider{
		demo:        true,
		deployments: newDemoDeployments(),
		now:         func() time.Time { return time.Date(2026, 2, 14, 1, 30, 0, 0, time.UTC) },
	}
	return p
}

func callTool(t *testing.T, p *Provider, name string, args map[string]interface{}) string {
	t.Helper()
	result, err := p.ExecuteTool(context.Background(), name, args)
	require.NoError(t, err)
	require.Len(t, result.Content, 1)
	s, ok := result.Content[0].(string)
	require.True(t, ok)
	return s
}

func callToolResult(t *testing.T, p *Provider, name string, args map[string]interface{}) *api.CallToolResult {
	t.Helper()
	result, err := p.ExecuteTool(context.Background(), name, args)
	require.NoError(t, err)
	return result
}

func TestListPodsDemo(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "list_pods", nil)
	assert.Contains(t, out, "payment-service-5c8d3a1b2-j8h5r")
	assert.Contains(t, out, "CrashLoopBackOff")
	assert.Contains(t, out, "redis-cache-0")
}

func TestListPodsDemoEmptyNamespace(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "list_pods", map[string]interface{}{"namespace": "staging"})
	assert.Equal(t, "No pods found in namespace 'staging'.", out)
}

func TestGetPodLogsDemoPartialMatch(t *testing.T) {
	p := newDemoProvider(t)

	// Full pod name matches the service fixture by containment.
	out := callTool(t, p, "get_pod_logs", map[string]interface{}{
		"pod_name": "payment-service-5c8d3a1b2-j8h5r",
	})
	assert.Contains(t, out, "STRIPE_API_KEY")

	// And the reverse direction: a fragment of the service name.
	out = callTool(t, p, "get_pod_logs", map[string]interface{}{
		"pod_name": "payment",
	})
	assert.Contains(t, out, "Failed to connect to payment gateway")
}

func TestGetPodLogsDemoTail(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "get_pod_logs", map[string]interface{}{
		"pod_name": "checkout-service",
		"lines":    2,
	})
	assert.NotContains(t, out, "attempt 1/3")
	assert.Contains(t, out, "500 Internal Server Error")
	assert.Contains(t, out, "/api/checkout/health")
}

func TestGetPodLogsDemoUnknown(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "get_pod_logs", map[string]interface{}{"pod_name": "billing"})
	assert.Contains(t, out, "No logs found for pod 'billing'")
	assert.Contains(t, out, "payment-service, checkout-service, api-gateway")
}

func TestDescribePodDemoCrashLoop(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "describe_pod", map[string]interface{}{
		"pod_name": "payment-service-5c8d3a1b2-j8h5r",
	})
	assert.Contains(t, out, "status: CrashLoopBackOff")
	assert.Contains(t, out, "lastTermination:")
	assert.Contains(t, out, "exitCode: 1")
	assert.Contains(t, out, "type: Ready")
	assert.Contains(t, out, `status: "False"`)
}

func TestDescribePodDemoHealthy(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "describe_pod", map[string]interface{}{
		"pod_name": "redis-cache-0",
	})
	assert.Contains(t, out, "status: Running")
	assert.NotContains(t, out, "lastTermination")
}

func TestScaleDeploymentDemoBounds(t *testing.T) {
	p := newDemoProvider(t)

	result := callToolResult(t, p, "scale_deployment", map[string]interface{}{
		"name": "checkout-service", "replicas": 51,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(string), "between 0 and 50 (got 51)")

	result = callToolResult(t, p, "scale_deployment", map[string]interface{}{
		"name": "checkout-service", "replicas": -1,
	})
	assert.True(t, result.IsError)
}

func TestScaleDeploymentDemoUpdatesState(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "scale_deployment", map[string]interface{}{
		"name": "payment-service", "replicas": 3,
	})
	assert.Contains(t, out, "scaled: 0/1 → 3/3")
	assert.Contains(t, out, "Timestamp: 2026-02-14T01:30:00Z")

	// The change is visible in subsequent listings.
	out = callTool(t, p, "list_deployments", nil)
	assert.Contains(t, out, "3/3")
}

func TestScaleDeploymentDemoUnknown(t *testing.T) {
	p := newDemoProvider(t)

	result := callToolResult(t, p, "scale_deployment", map[string]interface{}{
		"name": "billing-service", "replicas": 2,
	})
	assert.True(t, result.IsError)
	assert.Contains(t, result.Content[0].(string), "not found")
}

func TestRestartDeploymentDemo(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "restart_deployment", map[string]interface{}{
		"name": "payment-service",
	})
	assert.Contains(t, out, "rolling restart initiated")
	assert.Contains(t, out, "Timestamp: 2026-02-14T01:30:00Z")
}

func TestGetEventsDemoLimit(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "get_events", map[string]interface{}{"limit": 2})
	assert.Contains(t, out, "BackOff")
	assert.Contains(t, out, "Unhealthy")
	assert.NotContains(t, out, "ScalingReplicaSet")
}

func TestListNodesDemo(t *testing.T) {
	p := newDemoProvider(t)

	out := callTool(t, p, "list_nodes", nil)
	assert.Contains(t, out, "node-1")
	assert.Contains(t, out, "1.2/4")
	assert.Contains(t, out, "4.5Gi/8Gi")
}

func TestExecuteToolUnknown(t *testing.T) {
	p := newDemoProvider(t)

	_, err := p.ExecuteTool(context.Background(), "delete_namespace", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown tool")
}

func TestListPodsLive(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&corev1.Pod{
			ObjectMeta: metav1.ObjectMeta{Name: "web-abc123", Namespace: "default"},
			Spec:       corev1.PodSpec{NodeName: "node-7"},
			Status: corev1.PodStatus{
				Phase: corev1.PodRunning,
				ContainerStatuses: []corev1.ContainerStatus{
					{RestartCount: 2},
					{RestartCount: 1},
				},
			},
		},
	)
	p := NewProviderWithClientset(clientset)
	require.False(t, p.DemoMode())

	out := callTool(t, p, "list_pods", nil)
	assert.Contains(t, out, "web-abc123")
	assert.Contains(t, out, "Running")
	assert.Contains(t, out, "node-7")
	// Restarts are summed across containers.
	assert.Contains(t, out, "3")
}

func TestScaleDeploymentLive(t *testing.T) {
	replicas := int32(1)
	clientset := fake.NewSimpleClientset(
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
			Spec:       appsv1.DeploymentSpec{Replicas: &replicas},
		},
	)
	p := NewProviderWithClientset(clientset)

	out := callTool(t, p, "scale_deployment", map[string]interface{}{
		"name": "web", "replicas": 4,
	})
	assert.Contains(t, out, "scaled to 4 replicas")

	dep, err := clientset.AppsV1().Deployments("default").Get(context.Background(), "web", metav1.GetOptions{})
	require.NoError(t, err)
	require.NotNil(t, dep.Spec.Replicas)
	assert.Equal(t, int32(4), *dep.Spec.Replicas)
}

func TestRestartDeploymentLive(t *testing.T) {
	clientset := fake.NewSimpleClientset(
		&appsv1.Deployment{
			ObjectMeta: metav1.ObjectMeta{Name: "web", Namespace: "default"},
		},
	)
	p := NewProviderWithClientset(clientset)

	out := callTool(t, p, "restart_deployment", map[string]interface{}{"name": "web"})
	assert.Contains(t, out, "rolling restart initiated")

	dep, err := clientset.AppsV1().Deployments("default").Get(context.Background(), "web", metav1.GetOptions{})
	require.NoError(t, err)
	stamp := dep.Spec.Template.Annotations[restartedAtAnnotation]
	require.NotEmpty(t, stamp)
	_, err = time.Parse(time.RFC3339, stamp)
	assert.NoError(t, err)
}

func TestGetToolsCatalog(t *testing.T) {
	p := newDemoProvider(t)

	tools := p.GetTools()
	require.Len(t, tools, 8)

	var names []string
	for _, tool := range tools {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{
		"list_pods", "get_pod_logs", "describe_pod", "list_deployments",
		"get_events", "list_nodes", "scale_deployment", "restart_deployment",
	}, names)

	for _, tool := range tools {
		assert.False(t, strings.Contains(tool.Name, " "))
	}
}
