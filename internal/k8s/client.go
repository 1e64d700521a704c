// Package k8s wraps the client-go clientset used to read and patch
// Deployments on behalf of remediation requests.
package k8s

import (
	"context"
	"fmt"
	"time"

	"k8s.io/client-go/kubernetes"
	"k8s.io/client-go/rest"
	"k8s.io/client-go/tools/clientcmd"
)

// Client wraps the Kubernetes client
type Client struct {
	clientset kubernetes.Interface
}

// NewClient creates a new Kubernetes client from in-cluster config or a kubeconfig file.
// requestTimeout bounds every API call at the transport level; zero means no limit.
func NewClient(inCluster bool, kubeConfigPath string, requestTimeout time.Duration) (*Client, error) {
	var config *rest.Config
	var err error

	if inCluster {
		config, err = rest.InClusterConfig()
		if err != nil {
			return nil, fmt.Errorf("failed to create in-cluster config: %w", err)
		}
	} else {
		if kubeConfigPath == "" {
			kubeConfigPath = clientcmd.RecommendedHomeFile
		}
		config, err = clientcmd.BuildConfigFromFlags("", kubeConfigPath)
		if err != nil {
			return nil, fmt.Errorf("failed to create kubeconfig: %w", err)
		}
	}

	config.Timeout = requestTimeout

	clientset, err := kubernetes.NewForConfig(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create K8s clientset: %w", err)
	}

	return NewFromClientset(clientset), nil
}

// NewFromClientset wraps an existing clientset (real or fake)
func NewFromClientset(clientset kubernetes.Interface) *Client {
	return &Client{clientset: clientset}
}

// GetClientset returns the underlying K8s clientset
func (c *Client) GetClientset() kubernetes.Interface {
	return c.clientset
}

// Ping asks the API server for its version. Used by readiness checks.
func (c *Client) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := c.clientset.Discovery().ServerVersion(); err != nil {
		return fmt.Errorf("failed to reach API server: %w", err)
	}
	return nil
}
