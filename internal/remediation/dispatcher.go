package remediation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	appsv1 "k8s.io/api/apps/v1"
)

// StatusSuccess is the status field of every successful Outcome
const StatusSuccess = "success"

// Outcome is the success envelope returned to the caller
type Outcome struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func succeeded(format string, args ...interface{}) Outcome {
	return Outcome{Status: StatusSuccess, Message: fmt.Sprintf(format, args...)}
}

// Cluster is the subset of the cluster handle the routines use.
// k8s.Client and k8s.Unavailable both satisfy it.
type Cluster interface {
	GetDeployment(ctx context.Context, namespace, name string) (*appsv1.Deployment, error)
	PatchDeployment(ctx context.Context, namespace, name string, patch []byte) error
	PatchDeploymentScale(ctx context.Context, namespace, name string, patch []byte) error
}

// Dispatcher maps an Intent to one mutation routine
type Dispatcher struct {
	cluster Cluster
	stamps  *stamper
	logger  *zap.Logger
}

// Option configures a Dispatcher
type Option func(*Dispatcher)

// WithClock overrides the clock used for restart timestamps
func WithClock(now func() time.Time) Option {
	return func(d *Dispatcher) {
		d.stamps = newStamper(now)
	}
}

// NewDispatcher creates a dispatcher bound to a cluster handle
func NewDispatcher(cluster Cluster, logger *zap.Logger, opts ...Option) *Dispatcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	d := &Dispatcher{
		cluster: cluster,
		stamps:  newStamper(time.Now),
		logger:  logger,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Execute runs the routine for in.Action. Exactly one routine runs per call;
// an action outside the vocabulary returns *UnsupportedActionError.
func (d *Dispatcher) Execute(ctx context.Context, in Intent) (Outcome, error) {
	switch in.Action {
	case ActionUpdateResources:
		return d.resizeMemory(ctx, in.Namespace, in.Deployment, in.MemoryLimit)
	case ActionScale:
		return d.scale(ctx, in.Namespace, in.Deployment, in.Replicas)
	case ActionRestart:
		return d.restart(ctx, in.Namespace, in.Deployment)
	case ActionStatus:
		return d.health(ctx, in.Namespace, in.Deployment)
	default:
		return Outcome{}, &UnsupportedActionError{Action: string(in.Action)}
	}
}
