package k8s

import (
	"context"
	"errors"
	"fmt"

	appsv1 "k8s.io/api/apps/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/types"
)

// ScaleSubresource is the Deployment sub-resource exposing only the replica count
const ScaleSubresource = "scale"

// GetDeployment reads a deployment
func (c *Client) GetDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error) {
	return c.clientset.AppsV1().Deployments(namespace).Get(ctx, name, metav1.GetOptions{})
}

// PatchDeployment applies a strategic merge patch to a deployment
func (c *Client) PatchDeployment(ctx context.Context, namespace, name string, patch []byte) error {
	_, err := c.clientset.AppsV1().Deployments(namespace).Patch(
		ctx, name, types.StrategicMergePatchType, patch, metav1.PatchOptions{},
	)
	return err
}

// PatchDeploymentScale applies a merge patch to the deployment's scale sub-resource.
// The API server answers with an autoscaling/v1 Scale; only the error is kept.
func (c *Client) PatchDeploymentScale(ctx context.Context, namespace, name string, patch []byte) error {
	_, err := c.clientset.AppsV1().Deployments(namespace).Patch(
		ctx, name, types.MergePatchType, patch, metav1.PatchOptions{}, ScaleSubresource,
	)
	return err
}

// Unavailable stands in for a Client when cluster configuration could not be
// loaded at startup. Every call fails with the original cause.
type Unavailable struct {
	Cause error
}

// NewUnavailable creates an Unavailable handle for the given startup error
func NewUnavailable(cause error) *Unavailable {
	if cause == nil {
		cause = errors.New("no cluster configuration")
	}
	return &Unavailable{Cause: cause}
}

func (u *Unavailable) err() error {
	return fmt.Errorf("cluster client not configured: %w", u.Cause)
}

// GetDeployment always fails
func (u *Unavailable) GetDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error) {
	return nil, u.err()
}

// PatchDeployment always fails
func (u *Unavailable) PatchDeployment(ctx context.Context, namespace, name string, patch []byte) error {
	return u.err()
}

// PatchDeploymentScale always fails
func (u *Unavailable) PatchDeploymentScale(ctx context.Context, namespace, name string, patch []byte) error {
	return u.err()
}

// Ping always fails
func (u *Unavailable) Ping(ctx context.Context) error {
	return u.err()
}
