package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, c interface{ Write(*dto.Metric) error }) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, c.Write(&m))
	return m.GetCounter().GetValue()
}

func TestAuthorized(t *testing.T) {
	tests := []struct {
		name     string
		header   string
		secret   string
		expected bool
	}{
		{name: "exact match", header: "Bearer s3cret", secret: "s3cret", expected: true},
		{name: "missing header", header: "", secret: "s3cret", expected: false},
		{name: "wrong secret", header: "Bearer nope", secret: "s3cret", expected: false},
		{name: "secret prefix only", header: "Bearer s3cre", secret: "s3cret", expected: false},
		{name: "lowercase scheme", header: "bearer s3cret", secret: "s3cret", expected: false},
		{name: "basic scheme", header: "Basic s3cret", secret: "s3cret", expected: false},
		{name: "no scheme", header: "s3cret", secret: "s3cret", expected: false},
		{name: "extra whitespace", header: "Bearer  s3cret", secret: "s3cret", expected: false},
		{name: "trailing space", header: "Bearer s3cret ", secret: "s3cret", expected: false},
		{name: "empty configured secret", header: "Bearer ", secret: "", expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Authorized(tt.header, tt.secret))
		})
	}
}

func TestAuth(t *testing.T) {
	called := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called++
		w.WriteHeader(http.StatusOK)
	})
	handler := Auth("s3cret", nil)(next)

	t.Run("rejects before next handler", func(t *testing.T) {
		before := counterValue(t, AuthFailuresTotal)

		req := httptest.NewRequest(http.MethodPost, "/manage", nil)
		req.Header.Set("Authorization", "Bearer wrong")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		assert.JSONEq(t, UnauthorizedBody, w.Body.String())
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
		assert.Zero(t, called)
		assert.Equal(t, before+1, counterValue(t, AuthFailuresTotal))
	})

	t.Run("missing and malformed headers get the same body", func(t *testing.T) {
		for _, header := range []string{"", "Token s3cret", "Bearer"} {
			req := httptest.NewRequest(http.MethodPost, "/manage", nil)
			if header != "" {
				req.Header.Set("Authorization", header)
			}
			w := httptest.NewRecorder()

			handler.ServeHTTP(w, req)

			assert.Equal(t, http.StatusUnauthorized, w.Code)
			assert.JSONEq(t, UnauthorizedBody, w.Body.String())
		}
		assert.Zero(t, called)
	})

	t.Run("passes valid credential", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/manage", nil)
		req.Header.Set("Authorization", "Bearer s3cret")
		w := httptest.NewRecorder()

		handler.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, 1, called)
	})
}

func TestRecovery(t *testing.T) {
	before := counterValue(t, PanicsRecoveredTotal)

	handler := Recovery(nil)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	req := httptest.NewRequest(http.MethodPost, "/manage", nil)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"detail":"internal server error"}`, w.Body.String())
	assert.Equal(t, before+1, counterValue(t, PanicsRecoveredTotal))
}
