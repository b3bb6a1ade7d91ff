package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// AppSpec is the desired state of an Agentspace app (a Discovery
// Engine engine record).
type AppSpec struct {
	AppID        string `validate:"required"`
	DisplayName  string `validate:"required"`
	SolutionType string
	DataStoreIDs []string
}

// Validate implements Spec.
func (s AppSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid app spec", err)
	}
	return nil
}

// Matches implements Spec.
func (s AppSpec) Matches(h *Handle) bool {
	return h.Exists() && h.DisplayName == s.DisplayName
}

// AppClient manages Agentspace apps under a collection. The Agentspace
// surface lives on Discovery Engine v1alpha and is addressed by
// project number, not project id.
type AppClient struct {
	t             *gcp.Transport
	baseURL       string
	projectNumber string
	collection    string
}

// NewAppClient builds an app client. baseURL is injectable for tests;
// pass constants.DiscoveryEngineAPIBase otherwise.
func NewAppClient(t *gcp.Transport, baseURL, projectNumber, collection string) *AppClient {
	if collection == "" {
		collection = constants.DefaultCollection
	}
	return &AppClient{t: t, baseURL: baseURL, projectNumber: projectNumber, collection: collection}
}

// Kind implements Client.
func (c *AppClient) Kind() Kind { return IntegrationApp }

func (c *AppClient) parentURL() string {
	return fmt.Sprintf("%s/projects/%s/locations/global/collections/%s",
		c.baseURL, c.projectNumber, c.collection)
}

type appResource struct {
	Name         string   `json:"name"`
	DisplayName  string   `json:"displayName"`
	SolutionType string   `json:"solutionType,omitempty"`
	DataStoreIDs []string `json:"dataStoreIds,omitempty"`
	CreateTime   string   `json:"createTime,omitempty"`
}

func (r *appResource) handle() *Handle {
	return &Handle{
		Kind:        IntegrationApp,
		RemoteID:    shortID(r.Name),
		State:       StateActive,
		DisplayName: r.DisplayName,
		CreateTime:  r.CreateTime,
		Detail: map[string]string{
			"resource":     r.Name,
			"solutionType": r.SolutionType,
			"dataStores":   strings.Join(r.DataStoreIDs, ","),
		},
	}
}

// Create provisions a new app. The remote may answer with a
// long-running operation; it is polled on the same endpoint.
func (c *AppClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(AppSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "app client requires an AppSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	solution := s.SolutionType
	if solution == "" {
		solution = "SOLUTION_TYPE_SEARCH"
	}
	body := map[string]any{
		"displayName":  s.DisplayName,
		"solutionType": solution,
		"dataStoreIds": s.DataStoreIDs,
	}

	url := fmt.Sprintf("%s/engines?engineId=%s", c.parentURL(), s.AppID)
	var raw json.RawMessage
	if err := c.t.DoJSON(ctx, http.MethodPost, url, body, &raw); err != nil {
		return nil, normalizeCreateError(err, IntegrationApp, s.AppID)
	}

	raw, err := c.settle(ctx, raw)
	if err != nil {
		return nil, err
	}
	var res appResource
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, apperr.Wrap(apperr.CodeFailed, "cannot decode app", err)
	}
	h := res.handle()
	if h.RemoteID == "" {
		h.RemoteID = s.AppID
	}
	return h, nil
}

// settle resolves a possibly-operation response to the final resource.
func (c *AppClient) settle(ctx context.Context, raw json.RawMessage) (json.RawMessage, error) {
	var head struct {
		Name string `json:"name"`
		Done *bool  `json:"done"`
	}
	if err := json.Unmarshal(raw, &head); err != nil {
		return nil, apperr.Wrap(apperr.CodeFailed, "cannot decode create response", err)
	}
	if head.Done == nil && !strings.Contains(head.Name, "/operations/") {
		return raw, nil
	}
	return pollOperation(ctx, c.t, c.baseURL, head.Name)
}

// Get fetches an app by its short id.
func (c *AppClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res appResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.parentURL()+"/engines/"+id, nil, &res); err != nil {
		return nil, withResource(err, IntegrationApp, id)
	}
	h := res.handle()
	if h.RemoteID == "" {
		h.RemoteID = id
	}
	return h, nil
}

// Update patches the app display name and, when the spec names data
// stores, attaches them. Data stores are left untouched when the spec
// names none, so a plain rename cannot detach an existing store.
func (c *AppClient) Update(ctx context.Context, id string, spec Spec) (*Handle, error) {
	s, ok := spec.(AppSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "app client requires an AppSpec")
	}
	mask := "displayName"
	body := map[string]any{"displayName": s.DisplayName}
	if len(s.DataStoreIDs) > 0 {
		mask += ",dataStoreIds"
		body["dataStoreIds"] = s.DataStoreIDs
	}
	url := fmt.Sprintf("%s/engines/%s?updateMask=%s", c.parentURL(), id, mask)
	var res appResource
	if err := c.t.DoJSON(ctx, http.MethodPatch, url, body, &res); err != nil {
		return nil, withResource(err, IntegrationApp, id)
	}
	return res.handle(), nil
}

// Delete removes an app.
func (c *AppClient) Delete(ctx context.Context, id string) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.parentURL()+"/engines/"+id, nil, nil); err != nil {
		return withResource(err, IntegrationApp, id)
	}
	return nil
}

// List walks all apps in the collection.
func (c *AppClient) List(ctx context.Context) ([]Handle, error) {
	var handles []Handle
	pageToken := ""
	for page := 0; page < constants.MaxListPages; page++ {
		url := fmt.Sprintf("%s/engines?pageSize=%d", c.parentURL(), constants.ListPageSize)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}
		var res struct {
			Engines       []appResource `json:"engines"`
			NextPageToken string        `json:"nextPageToken"`
		}
		if err := c.t.DoJSON(ctx, http.MethodGet, url, nil, &res); err != nil {
			return nil, withResource(err, IntegrationApp, "")
		}
		for i := range res.Engines {
			handles = append(handles, *res.Engines[i].handle())
		}
		if res.NextPageToken == "" {
			return handles, nil
		}
		pageToken = res.NextPageToken
	}
	return handles, nil
}

// ConsoleURL returns the Cloud console page for an app.
func ConsoleURL(projectID, appID string) string {
	return fmt.Sprintf("https://console.cloud.google.com/gen-ai-studio/agentspace/apps/%s?project=%s", appID, projectID)
}

// shortID extracts the final path segment of a resource name.
func shortID(name string) string {
	if name == "" {
		return ""
	}
	parts := strings.Split(name, "/")
	return parts[len(parts)-1]
}
