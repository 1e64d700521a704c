package remediation

import (
	"errors"
	"fmt"
	"net/http"

	apierrors "k8s.io/apimachinery/pkg/api/errors"
)

// ValidationError is returned when the request body does not decode into an Intent
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

// StatusCode implements StatusCoder
func (e *ValidationError) StatusCode() int { return http.StatusUnprocessableEntity }

// UnsupportedActionError is returned for an action outside the vocabulary
type UnsupportedActionError struct {
	Action string
}

func (e *UnsupportedActionError) Error() string {
	return fmt.Sprintf("Action '%s' not supported.", e.Action)
}

// StatusCode implements StatusCoder
func (e *UnsupportedActionError) StatusCode() int { return http.StatusBadRequest }

// ParameterError is returned when an action is missing a parameter it needs
type ParameterError struct {
	Msg string
}

func (e *ParameterError) Error() string { return e.Msg }

// StatusCode implements StatusCoder
func (e *ParameterError) StatusCode() int { return http.StatusBadRequest }

// ClusterError wraps any failure raised while reading or patching the deployment.
// All of them map to a server error; the cause is not classified further.
type ClusterError struct {
	Err error
}

func (e *ClusterError) Error() string {
	var status apierrors.APIStatus
	if errors.As(e.Err, &status) {
		return "Kubernetes API Error: " + e.Err.Error()
	}
	return "Unexpected Error: " + e.Err.Error()
}

func (e *ClusterError) Unwrap() error { return e.Err }

// StatusCode implements StatusCoder
func (e *ClusterError) StatusCode() int { return http.StatusInternalServerError }

// StatusCoder is implemented by errors that know their HTTP status
type StatusCoder interface {
	StatusCode() int
}

// StatusCode returns the HTTP status for err, defaulting to 500
func StatusCode(err error) int {
	var sc StatusCoder
	if errors.As(err, &sc) {
		return sc.StatusCode()
	}
	return http.StatusInternalServerError
}
