// Package kubernetes implements the cluster tool server.
//
// Read tools (list_pods, get_pod_logs, describe_pod, list_deployments,
// get_events, list_nodes) query the cluster through client-go. The two write
// tools (scale_deployment, restart_deployment) are deliberately narrow:
// scaling is bounded and restarts go through the rollout annotation, never
// pod deletion.
//
// Without a usable kubeconfig or in-cluster config the provider serves
// synthetic data describing a small cluster with a crash-looping payment
// service.
package kubernetes
