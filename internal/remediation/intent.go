// Package remediation turns a remediation intent into exactly one
// Deployment read or patch and reports a uniform outcome.
package remediation

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Action is the closed vocabulary of remediation actions
type Action string

const (
	ActionScale           Action = "scale"
	ActionRestart         Action = "restart"
	ActionStatus          Action = "status"
	ActionUpdateResources Action = "update_resources"
)

// Actions lists every supported action
var Actions = []Action{ActionScale, ActionRestart, ActionStatus, ActionUpdateResources}

// Valid reports whether a is one of the supported actions
func (a Action) Valid() bool {
	switch a {
	case ActionScale, ActionRestart, ActionStatus, ActionUpdateResources:
		return true
	}
	return false
}

const (
	DefaultNamespace       = "default"
	DefaultReplicas  int32 = 1
)

// Intent is a decoded remediation request. Fields that an action does not
// use are carried but never read by that action's routine.
type Intent struct {
	Action      Action
	Deployment  string
	Namespace   string
	Replicas    int32
	MemoryLimit string
}

// request is the wire shape; pointers distinguish "absent" from zero values.
type request struct {
	Action      *string `json:"action"`
	Deployment  *string `json:"deployment"`
	Namespace   *string `json:"namespace"`
	Replicas    *int32  `json:"replicas"`
	MemoryLimit *string `json:"memory_limit"`
}

// DecodeIntent reads a JSON request body and applies defaults.
// defaultNamespace replaces an absent or empty namespace; "" means DefaultNamespace.
// The action value is not checked against the vocabulary here; Dispatcher.Execute does that.
func DecodeIntent(r io.Reader, defaultNamespace string) (Intent, error) {
	if defaultNamespace == "" {
		defaultNamespace = DefaultNamespace
	}

	var req request
	if err := json.NewDecoder(r).Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return Intent{}, &ValidationError{Msg: "request body is required"}
		}
		return Intent{}, &ValidationError{Msg: fmt.Sprintf("invalid request body: %v", err)}
	}

	var missing []string
	if req.Action == nil || *req.Action == "" {
		missing = append(missing, "action")
	}
	if req.Deployment == nil || *req.Deployment == "" {
		missing = append(missing, "deployment")
	}
	if len(missing) > 0 {
		return Intent{}, &ValidationError{Msg: fmt.Sprintf("missing required field(s): %s", strings.Join(missing, ", "))}
	}

	in := Intent{
		Action:     Action(*req.Action),
		Deployment: *req.Deployment,
		Namespace:  defaultNamespace,
		Replicas:   DefaultReplicas,
	}
	if req.Namespace != nil && *req.Namespace != "" {
		in.Namespace = *req.Namespace
	}
	if req.Replicas != nil {
		in.Replicas = *req.Replicas
	}
	if req.MemoryLimit != nil {
		in.MemoryLimit = *req.MemoryLimit
	}

	return in, nil
}
