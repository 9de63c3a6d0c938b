package kubernetes

import (
	"fmt"
	"os"

	k8sclient "k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// NewClientset builds a Kubernetes client from the given kubeconfig path.
// An empty path (or a path that does not exist) falls back to in-cluster
// configuration.
func NewClientset(kubeconfig string) (k8sclient.Interface, error) {
	cfg, err := buildRESTConfig(kubeconfig)
	if err != nil {
		return nil, err
	}

	clientset, err := k8sclient.NewForConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create kubernetes client: %w", err)
	}
	return clientset, nil
}

func buildRESTConfig(kubeconfig string) (*rest.Config, error) {
	if kubeconfig != "" {
		if _, err := os.Stat(kubeconfig); err != nil {
			return nil, fmt.Errorf("kubeconfig %s not readable: %w", kubeconfig, err)
		}
		cfg, err := clientcmd.BuildConfigFromFlags("", kubeconfig)
		if err != nil {
			return nil, fmt.Errorf("failed to load kubeconfig %s: %w", kubeconfig, err)
		}
		return cfg, nil
	}

	cfg, err := rest.InClusterConfig()
	if err != nil {
		return nil, fmt.Errorf("no kubeconfig and no in-cluster config: %w", err)
	}
	return cfg, nil
}
