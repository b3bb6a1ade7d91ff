package gcp

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
)

func TestDoJSONDecodesResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		assert.Equal(t, "900100", r.Header.Get("X-Goog-User-Project"))
		w.Write([]byte(`{"name":"projects/p/thing/1","displayName":"t"}`))
	}))
	defer srv.Close()

	tr := NewTransportWithClient(srv.Client(), "900100")

	var out struct {
		Name        string `json:"name"`
		DisplayName string `json:"displayName"`
	}
	err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, &out)
	require.NoError(t, err)
	assert.Equal(t, "projects/p/thing/1", out.Name)
}

func TestDoJSONEmptyBodyIsFine(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	tr := NewTransportWithClient(srv.Client(), "")
	var out map[string]any
	require.NoError(t, tr.DoJSON(context.Background(), http.MethodDelete, srv.URL, nil, &out))
}

func TestErrorNormalization(t *testing.T) {
	tests := []struct {
		status   int
		wantCode string
	}{
		{http.StatusBadRequest, apperr.CodeInvalidSpec},
		{http.StatusUnauthorized, apperr.CodeUnauthorized},
		{http.StatusForbidden, apperr.CodeUnauthorized},
		{http.StatusNotFound, apperr.CodeNotFound},
		{http.StatusConflict, apperr.CodeConflict},
		{http.StatusTooManyRequests, apperr.CodeRemoteUnavailable},
		{http.StatusInternalServerError, apperr.CodeRemoteUnavailable},
		{http.StatusServiceUnavailable, apperr.CodeRemoteUnavailable},
		{http.StatusTeapot, apperr.CodeFailed},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				w.Write([]byte(`{"error":{"message":"boom"}}`))
			}))
			defer srv.Close()

			tr := NewTransportWithClient(srv.Client(), "")
			err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, apperr.Code(err))
		})
	}
}

func TestConnectionFailureIsRetryable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close() // connection refused from here on

	tr := NewTransportWithClient(http.DefaultClient, "")
	err := tr.DoJSON(context.Background(), http.MethodGet, srv.URL, nil, nil)
	require.Error(t, err)
	assert.True(t, apperr.Retryable(err))
}
