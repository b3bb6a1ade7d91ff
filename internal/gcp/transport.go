// Package gcp provides the authenticated HTTP transport and shared
// Google Cloud plumbing used by the resource clients. Transport-level
// failures are normalized into the apperr taxonomy here so callers
// never branch on provider status codes.
package gcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/googleapi"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
)

const cloudPlatformScope = "https://www.googleapis.com/auth/cloud-platform"

// Transport performs authenticated JSON requests against Google Cloud
// REST APIs.
type Transport struct {
	client *http.Client
	// userProject is sent as X-Goog-User-Project for APIs billed to
	// the consumer project (the Discovery Engine v1alpha surface).
	userProject string
}

// NewTransport builds a transport backed by Application Default
// Credentials with the cloud-platform scope.
func NewTransport(ctx context.Context, userProject string) (*Transport, error) {
	client, err := google.DefaultClient(ctx, cloudPlatformScope)
	if err != nil {
		return nil, apperr.Wrap(apperr.CodeUnauthorized,
			"cannot load application default credentials (run 'gcloud auth application-default login')", err)
	}
	client.Timeout = 60 * time.Second
	return &Transport{client: client, userProject: userProject}, nil
}

// NewTransportWithClient builds a transport over a caller-supplied
// HTTP client. Tests use it with httptest servers.
func NewTransportWithClient(client *http.Client, userProject string) *Transport {
	return &Transport{client: client, userProject: userProject}
}

// DoJSON issues a JSON request and decodes the response into out when
// out is non-nil. Non-2xx responses and network failures come back as
// taxonomy errors.
func (t *Transport) DoJSON(ctx context.Context, method, rawURL string, body, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return apperr.Wrap(apperr.CodeInvalidSpec, "cannot encode request body", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reqBody)
	if err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "cannot build request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if t.userProject != "" {
		req.Header.Set("X-Goog-User-Project", t.userProject)
	}

	resp, err := t.client.Do(req)
	if err != nil {
		return normalizeTransportError(err)
	}
	defer resp.Body.Close()

	if err := googleapi.CheckResponse(resp); err != nil {
		return normalizeAPIError(err)
	}

	if out == nil {
		return nil
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return apperr.Wrap(apperr.CodeRemoteUnavailable, "cannot read response body", err)
	}
	if len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return apperr.Wrap(apperr.CodeFailed, "cannot decode response body", err)
	}
	return nil
}

// normalizeTransportError maps connection-level failures. Anything
// that never produced a response is treated as transient.
func normalizeTransportError(err error) error {
	var urlErr *url.Error
	if errors.As(err, &urlErr) && urlErr.Timeout() {
		return apperr.Wrap(apperr.CodeRemoteUnavailable, "request timed out", err)
	}
	return apperr.Wrap(apperr.CodeRemoteUnavailable, "request failed", err)
}

// normalizeAPIError maps a googleapi error into the taxonomy.
func normalizeAPIError(err error) error {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return apperr.Wrap(apperr.CodeFailed, "remote call failed", err)
	}

	msg := apiErr.Message
	if msg == "" {
		msg = fmt.Sprintf("remote returned status %d", apiErr.Code)
	}

	switch apiErr.Code {
	case http.StatusBadRequest:
		return apperr.Wrap(apperr.CodeInvalidSpec, msg, err)
	case http.StatusUnauthorized, http.StatusForbidden:
		return apperr.Wrap(apperr.CodeUnauthorized, msg, err)
	case http.StatusNotFound:
		return apperr.Wrap(apperr.CodeNotFound, msg, err)
	case http.StatusConflict:
		return apperr.Wrap(apperr.CodeConflict, msg, err)
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return apperr.Wrap(apperr.CodeRemoteUnavailable, msg, err)
	default:
		return apperr.Wrap(apperr.CodeFailed, msg, err)
	}
}
