package remediation

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"
	"k8s.io/apimachinery/pkg/api/resource"
)

// RestartedAtAnnotation is the pod template annotation kubectl uses for rollout restarts
const RestartedAtAnnotation = "kubectl.kubernetes.io/restartedAt"

// resizeMemory sets the memory limit of the deployment's first container.
// Other containers, CPU, and requests are left untouched by the strategic merge.
func (d *Dispatcher) resizeMemory(ctx context.Context, namespace, name, memoryLimit string) (Outcome, error) {
	if memoryLimit == "" {
		return Outcome{}, &ParameterError{Msg: "memory_limit is required for this action"}
	}
	if _, err := resource.ParseQuantity(memoryLimit); err != nil {
		return Outcome{}, &ClusterError{Err: fmt.Errorf("invalid memory_limit %q: %w", memoryLimit, err)}
	}

	deploy, err := d.cluster.GetDeployment(ctx, namespace, name)
	if err != nil {
		return Outcome{}, &ClusterError{Err: err}
	}
	containers := deploy.Spec.Template.Spec.Containers
	if len(containers) == 0 {
		return Outcome{}, &ClusterError{Err: fmt.Errorf("deployment %s/%s has no containers", namespace, name)}
	}

	patch := map[string]interface{}{
		"spec": map[string]interface{}{
			"template": map[string]interface{}{
				"spec": map[string]interface{}{
					"containers": []interface{}{
						map[string]interface{}{
							"name": containers[0].Name,
							"resources": map[string]interface{}{
								"limits": map[string]interface{}{
									"memory": memoryLimit,
								},
							},
						},
					},
				},
			},
		},
	}
	if err := d.patch(ctx, namespace, name, patch, false); err != nil {
		return Outcome{}, err
	}

	return succeeded("Vertical scaling applied: '%s' memory limit updated to %s.", name, memoryLimit), nil
}

// scale patches only the replica count through the scale sub-resource
func (d *Dispatcher) scale(ctx context.Context, namespace, name string, replicas int32) (Outcome, error) {
	if replicas < 1 {
		return Outcome{}, &ParameterError{Msg: fmt.Sprintf("replicas must be at least 1, got %d", replicas)}
	}

	patch := map[string]interface{}{
		"spec": map[string]interface{}{
			"replicas": replicas,
		},
	}
	if err := d.patch(ctx, namespace, name, patch, true); err != nil {
		return Outcome{}, err
	}

	return succeeded("Horizontal scaling applied: '%s' set to %d replicas.", name, replicas), nil
}

// restart stamps the pod template so the deployment controller rolls every pod
func (d *Dispatcher) restart(ctx context.Context, namespace, name string) (Outcome, error) {
	stamp := d.stamps.next()

	patch := map[string]interface{}{
		"spec": map[string]interface{}{
			"template": map[string]interface{}{
				"metadata": map[string]interface{}{
					"annotations": map[string]interface{}{
						RestartedAtAnnotation: stamp,
					},
				},
			},
		},
	}
	if err := d.patch(ctx, namespace, name, patch, false); err != nil {
		return Outcome{}, err
	}

	return succeeded("Rollout restart triggered for '%s'.", name), nil
}

// health reports available replicas against the desired count. Read only.
func (d *Dispatcher) health(ctx context.Context, namespace, name string) (Outcome, error) {
	deploy, err := d.cluster.GetDeployment(ctx, namespace, name)
	if err != nil {
		return Outcome{}, &ClusterError{Err: err}
	}

	ready := deploy.Status.AvailableReplicas
	desired := deploy.Status.Replicas
	if deploy.Spec.Replicas != nil {
		desired = *deploy.Spec.Replicas
	}

	return succeeded("Status: %d/%d pods ready.", ready, desired), nil
}

func (d *Dispatcher) patch(ctx context.Context, namespace, name string, body map[string]interface{}, scale bool) error {
	data, err := json.Marshal(body)
	if err != nil {
		return &ClusterError{Err: fmt.Errorf("failed to encode patch: %w", err)}
	}

	d.logger.Debug("patching deployment",
		zap.String("namespace", namespace),
		zap.String("deployment", name),
		zap.Bool("scale_subresource", scale),
		zap.ByteString("patch", data),
	)

	if scale {
		err = d.cluster.PatchDeploymentScale(ctx, namespace, name, data)
	} else {
		err = d.cluster.PatchDeployment(ctx, namespace, name, data)
	}
	if err != nil {
		return &ClusterError{Err: err}
	}
	return nil
}
