// Package models holds the JSON response bodies shared by the HTTP handlers.
package models

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Detail string `json:"detail"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

// ReadyResponse reports each dependency checked by the readiness probe
type ReadyResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
