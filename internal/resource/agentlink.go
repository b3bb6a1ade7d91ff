package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// LinkSpec is the desired state of an IntegrationAgentLink: the
// Agentspace assistant agent record binding a deployed reasoning
// engine into an app. AuthorizationName is optional; a link without it
// works with reduced capabilities.
type LinkSpec struct {
	DisplayName       string `validate:"required"`
	Description       string
	ToolDescription   string
	EngineResource    string `validate:"required"`
	AuthorizationName string
}

// Validate implements Spec.
func (s LinkSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid agent link spec", err)
	}
	return nil
}

// Matches implements Spec. The same engine behind the same display
// name is the same link.
func (s LinkSpec) Matches(h *Handle) bool {
	return h.Exists() &&
		h.DisplayName == s.DisplayName &&
		h.Detail["engine"] == s.EngineResource
}

// AgentLinkClient manages assistant agent records under an Agentspace
// app.
type AgentLinkClient struct {
	t             *gcp.Transport
	baseURL       string
	projectNumber string
	collection    string
	appID         string
	assistant     string
}

// NewAgentLinkClient builds a link client scoped to one app and
// assistant. baseURL is injectable for tests.
func NewAgentLinkClient(t *gcp.Transport, baseURL, projectNumber, collection, appID, assistant string) *AgentLinkClient {
	if collection == "" {
		collection = constants.DefaultCollection
	}
	if assistant == "" {
		assistant = constants.DefaultAssistant
	}
	return &AgentLinkClient{
		t: t, baseURL: baseURL,
		projectNumber: projectNumber, collection: collection,
		appID: appID, assistant: assistant,
	}
}

// Kind implements Client.
func (c *AgentLinkClient) Kind() Kind { return IntegrationAgentLink }

func (c *AgentLinkClient) agentsURL() string {
	return fmt.Sprintf("%s/projects/%s/locations/global/collections/%s/engines/%s/assistants/%s/agents",
		c.baseURL, c.projectNumber, c.collection, c.appID, c.assistant)
}

// Wire shapes mirror the Discovery Engine v1alpha agent record.
type agentResource struct {
	Name        string              `json:"name,omitempty"`
	DisplayName string              `json:"displayName"`
	Description string              `json:"description,omitempty"`
	State       string              `json:"state,omitempty"`
	ADK         *adkAgentDefinition `json:"adk_agent_definition,omitempty"`
}

type adkAgentDefinition struct {
	ToolSettings   *toolSettings   `json:"tool_settings,omitempty"`
	Provisioned    *provisionedRef `json:"provisioned_reasoning_engine,omitempty"`
	Authorizations []string        `json:"authorizations"`
}

type toolSettings struct {
	ToolDescription string `json:"tool_description,omitempty"`
}

type provisionedRef struct {
	ReasoningEngine string `json:"reasoning_engine"`
}

func (r *agentResource) handle() *Handle {
	h := &Handle{
		Kind:        IntegrationAgentLink,
		RemoteID:    shortID(r.Name),
		State:       stateFromRemote(r.State),
		DisplayName: r.DisplayName,
		Detail:      map[string]string{"resource": r.Name},
	}
	if r.ADK != nil {
		if r.ADK.Provisioned != nil {
			h.Detail["engine"] = r.ADK.Provisioned.ReasoningEngine
		}
		if len(r.ADK.Authorizations) > 0 {
			h.Detail["authorization"] = r.ADK.Authorizations[0]
		}
	}
	return h
}

func (c *AgentLinkClient) body(s LinkSpec) *agentResource {
	auths := []string{}
	if s.AuthorizationName != "" {
		auths = append(auths, s.AuthorizationName)
	}
	return &agentResource{
		DisplayName: s.DisplayName,
		Description: s.Description,
		ADK: &adkAgentDefinition{
			ToolSettings:   &toolSettings{ToolDescription: s.ToolDescription},
			Provisioned:    &provisionedRef{ReasoningEngine: s.EngineResource},
			Authorizations: auths,
		},
	}
}

// Create registers the agent link and returns its handle. The agent id
// in the handle must be persisted by the caller for later stages.
func (c *AgentLinkClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(LinkSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "agent link client requires a LinkSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var res agentResource
	if err := c.t.DoJSON(ctx, http.MethodPost, c.agentsURL(), c.body(s), &res); err != nil {
		return nil, normalizeCreateError(err, IntegrationAgentLink, s.DisplayName)
	}
	return res.handle(), nil
}

// Get fetches an agent link by its short id.
func (c *AgentLinkClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res agentResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.agentsURL()+"/"+id, nil, &res); err != nil {
		return nil, withResource(err, IntegrationAgentLink, id)
	}
	return res.handle(), nil
}

// Update rewrites the agent link configuration in place.
func (c *AgentLinkClient) Update(ctx context.Context, id string, spec Spec) (*Handle, error) {
	s, ok := spec.(LinkSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "agent link client requires a LinkSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	var res agentResource
	if err := c.t.DoJSON(ctx, http.MethodPatch, c.agentsURL()+"/"+id, c.body(s), &res); err != nil {
		return nil, withResource(err, IntegrationAgentLink, id)
	}
	return res.handle(), nil
}

// Delete removes the agent link.
func (c *AgentLinkClient) Delete(ctx context.Context, id string) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.agentsURL()+"/"+id, nil, nil); err != nil {
		return withResource(err, IntegrationAgentLink, id)
	}
	return nil
}

// List returns all agent links registered under the assistant.
func (c *AgentLinkClient) List(ctx context.Context) ([]Handle, error) {
	var res struct {
		Agents []agentResource `json:"agents"`
	}
	if err := c.t.DoJSON(ctx, http.MethodGet, c.agentsURL(), nil, &res); err != nil {
		return nil, withResource(err, IntegrationAgentLink, "")
	}
	handles := make([]Handle, 0, len(res.Agents))
	for i := range res.Agents {
		handles = append(handles, *res.Agents[i].handle())
	}
	return handles, nil
}
