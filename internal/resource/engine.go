package resource

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

var validate = validator.New()

// EngineSpec is the desired state of a ComputeAgent (Vertex AI
// reasoning engine). The package artifacts are expected under the
// staging bucket, where the build step uploads them.
type EngineSpec struct {
	DisplayName   string `validate:"required"`
	Description   string
	StagingBucket string `validate:"required,startswith=gs://"`
}

// Validate implements Spec.
func (s EngineSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid engine spec", err)
	}
	return nil
}

// Matches implements Spec. An engine with the same display name is
// considered the same deployment target.
func (s EngineSpec) Matches(h *Handle) bool {
	return h.Exists() && h.DisplayName == s.DisplayName
}

// EngineClient manages reasoning engines on the regional Vertex AI
// endpoint. Create and Update are long-running and are polled to
// completion.
type EngineClient struct {
	t        *gcp.Transport
	baseURL  string
	project  string
	location string
}

// EngineBaseURL returns the regional Vertex AI endpoint.
func EngineBaseURL(location string) string {
	return fmt.Sprintf("https://%s-aiplatform.googleapis.com/%s", location, constants.AIPlatformAPIVersion)
}

// NewEngineClient builds a client for the given project and location.
// baseURL is injectable for tests; pass EngineBaseURL(location)
// otherwise.
func NewEngineClient(t *gcp.Transport, baseURL, project, location string) *EngineClient {
	return &EngineClient{t: t, baseURL: baseURL, project: project, location: location}
}

// Kind implements Client.
func (c *EngineClient) Kind() Kind { return ComputeAgent }

func (c *EngineClient) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.project, c.location)
}

// engineResource is the wire shape of a reasoning engine.
type engineResource struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	State       string `json:"state,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

func (r *engineResource) handle() *Handle {
	return &Handle{
		Kind:        ComputeAgent,
		RemoteID:    r.Name,
		State:       stateFromRemote(r.State),
		DisplayName: r.DisplayName,
		CreateTime:  r.CreateTime,
		UpdateTime:  r.UpdateTime,
		Detail:      map[string]string{"description": r.Description},
	}
}

func (c *EngineClient) createBody(s EngineSpec) map[string]any {
	prefix := strings.TrimSuffix(s.StagingBucket, "/") + "/agent_engine"
	return map[string]any{
		"displayName": s.DisplayName,
		"description": s.Description,
		"spec": map[string]any{
			"packageSpec": map[string]any{
				"pickleObjectGcsUri":    prefix + "/agent_engine.pkl",
				"dependencyFilesGcsUri": prefix + "/dependencies.tar.gz",
				"requirementsGcsUri":    prefix + "/requirements.txt",
				"pythonVersion":         "3.11",
			},
		},
	}
}

// Create registers a new reasoning engine and waits for the operation
// to settle.
func (c *EngineClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(EngineSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "engine client requires an EngineSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/reasoningEngines", c.baseURL, c.parent())
	var op operation
	if err := c.t.DoJSON(ctx, http.MethodPost, url, c.createBody(s), &op); err != nil {
		return nil, normalizeCreateError(err, ComputeAgent, s.DisplayName)
	}

	response, err := pollOperation(ctx, c.t, c.baseURL, op.Name)
	if err != nil {
		return nil, err
	}

	var res engineResource
	if err := json.Unmarshal(response, &res); err != nil {
		return nil, apperr.Wrap(apperr.CodeFailed, "cannot decode engine from operation response", err)
	}
	return res.handle(), nil
}

// Get fetches an engine by fully qualified resource name.
func (c *EngineClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res engineResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.baseURL+"/"+id, nil, &res); err != nil {
		return nil, withResource(err, ComputeAgent, id)
	}
	return res.handle(), nil
}

// Update patches display name and description in place.
func (c *EngineClient) Update(ctx context.Context, id string, spec Spec) (*Handle, error) {
	s, ok := spec.(EngineSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "engine client requires an EngineSpec")
	}

	url := fmt.Sprintf("%s/%s?updateMask=displayName,description", c.baseURL, id)
	body := map[string]any{"displayName": s.DisplayName, "description": s.Description}
	var op operation
	if err := c.t.DoJSON(ctx, http.MethodPatch, url, body, &op); err != nil {
		return nil, withResource(err, ComputeAgent, id)
	}

	response, err := pollOperation(ctx, c.t, c.baseURL, op.Name)
	if err != nil {
		return nil, err
	}
	var res engineResource
	if err := json.Unmarshal(response, &res); err != nil {
		return nil, apperr.Wrap(apperr.CodeFailed, "cannot decode engine from operation response", err)
	}
	return res.handle(), nil
}

// Delete removes an engine. Deleting an absent engine surfaces
// NotFound; the idempotency layer upstream converts that to a skip.
func (c *EngineClient) Delete(ctx context.Context, id string) error {
	var op operation
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.baseURL+"/"+id, nil, &op); err != nil {
		return withResource(err, ComputeAgent, id)
	}
	if op.Name == "" || op.Done {
		return nil
	}
	_, err := pollOperation(ctx, c.t, c.baseURL, op.Name)
	return err
}

// List walks all engines in the location with bounded pagination.
func (c *EngineClient) List(ctx context.Context) ([]Handle, error) {
	var handles []Handle
	pageToken := ""
	for page := 0; page < constants.MaxListPages; page++ {
		url := fmt.Sprintf("%s/%s/reasoningEngines?pageSize=%d", c.baseURL, c.parent(), constants.ListPageSize)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}

		var res struct {
			ReasoningEngines []engineResource `json:"reasoningEngines"`
			NextPageToken    string           `json:"nextPageToken"`
		}
		if err := c.t.DoJSON(ctx, http.MethodGet, url, nil, &res); err != nil {
			return nil, withResource(err, ComputeAgent, "")
		}
		for i := range res.ReasoningEngines {
			handles = append(handles, *res.ReasoningEngines[i].handle())
		}
		if res.NextPageToken == "" {
			return handles, nil
		}
		pageToken = res.NextPageToken
	}
	return handles, nil
}

// withResource tags a normalized error with resource identity.
func withResource(err error, kind Kind, id string) error {
	var appErr *apperr.Error
	if errors.As(err, &appErr) {
		return appErr.WithResource(string(kind), id)
	}
	return err
}

// normalizeCreateError converts a generic Conflict on create into
// AlreadyExists, which callers treat differently from a concurrent
// mutation conflict.
func normalizeCreateError(err error, kind Kind, id string) error {
	if apperr.IsCode(err, apperr.CodeConflict) {
		return apperr.Wrap(apperr.CodeAlreadyExists, "resource already exists", err).
			WithResource(string(kind), id)
	}
	return withResource(err, kind, id)
}
