package k8s

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	appsv1 "k8s.io/api/apps/v1"
	corev1 "k8s.io/api/core/v1"
	apierrors "k8s.io/apimachinery/pkg/api/errors"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
	"k8s.io/apimachinery/pkg/types"
	"k8s.io/client-go/kubernetes/fake"
	testingk8s "k8s.io/client-go/testing"
)

func newDeployment(name, namespace string) *appsv1.Deployment {
	replicas := int32(2)
	return &appsv1.Deployment{
		ObjectMeta: metav1.ObjectMeta{Name: name, Namespace: namespace},
		Spec: appsv1.DeploymentSpec{
			Replicas: &replicas,
			Template: corev1.PodTemplateSpec{
				Spec: corev1.PodSpec{
					Containers: []corev1.Container{{Name: "app", Image: "nginx:1.25"}},
				},
			},
		},
	}
}

func TestClient_GetDeployment(t *testing.T) {
	ctx := context.Background()
	client := NewFromClientset(fake.NewSimpleClientset(newDeployment("api", "shop")))

	deploy, err := client.GetDeployment(ctx, "shop", "api")
	require.NoError(t, err)
	assert.Equal(t, "api", deploy.Name)

	_, err = client.GetDeployment(ctx, "shop", "missing")
	require.Error(t, err)
	assert.True(t, apierrors.IsNotFound(err))
}

func TestClient_PatchDeployment(t *testing.T) {
	ctx := context.Background()
	client := NewFromClientset(fake.NewSimpleClientset(newDeployment("api", "shop")))

	patch := []byte(`{"spec":{"template":{"metadata":{"annotations":{"example.com/touched":"yes"}}}}}`)
	require.NoError(t, client.PatchDeployment(ctx, "shop", "api", patch))

	deploy, err := client.GetDeployment(ctx, "shop", "api")
	require.NoError(t, err)
	assert.Equal(t, "yes", deploy.Spec.Template.Annotations["example.com/touched"])
	assert.Equal(t, int32(2), *deploy.Spec.Replicas)
	assert.Equal(t, "nginx:1.25", deploy.Spec.Template.Spec.Containers[0].Image)
}

func TestClient_PatchDeploymentScale(t *testing.T) {
	ctx := context.Background()
	clientset := fake.NewSimpleClientset(newDeployment("frontend", "default"))

	var captured testingk8s.PatchAction
	clientset.PrependReactor("patch", "deployments", func(action testingk8s.Action) (bool, runtime.Object, error) {
		captured = action.(testingk8s.PatchAction)
		return true, &appsv1.Deployment{}, nil
	})

	client := NewFromClientset(clientset)
	require.NoError(t, client.PatchDeploymentScale(ctx, "default", "frontend", []byte(`{"spec":{"replicas":4}}`)))

	require.NotNil(t, captured)
	assert.Equal(t, "frontend", captured.GetName())
	assert.Equal(t, "default", captured.GetNamespace())
	assert.Equal(t, ScaleSubresource, captured.GetSubresource())
	assert.Equal(t, types.MergePatchType, captured.GetPatchType())
	assert.JSONEq(t, `{"spec":{"replicas":4}}`, string(captured.GetPatch()))
}

func TestClient_Ping(t *testing.T) {
	client := NewFromClientset(fake.NewSimpleClientset())
	assert.NoError(t, client.Ping(context.Background()))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, client.Ping(ctx), context.Canceled)
}

func TestUnavailable(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("stat /root/.kube/config: no such file or directory")
	u := NewUnavailable(cause)

	_, err := u.GetDeployment(ctx, "default", "api")
	require.Error(t, err)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "cluster client not configured")

	assert.ErrorIs(t, u.PatchDeployment(ctx, "default", "api", nil), cause)
	assert.ErrorIs(t, u.PatchDeploymentScale(ctx, "default", "api", nil), cause)
	assert.ErrorIs(t, u.Ping(ctx), cause)

	assert.Error(t, NewUnavailable(nil).Ping(ctx))
}
