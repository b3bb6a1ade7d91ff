package resource

import (
	"context"
	"fmt"
	"net/http"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// AuthorizationSpec is the desired state of a stored OAuth
// authorization that lets Agentspace call the engine on a user's
// behalf.
type AuthorizationSpec struct {
	AuthorizationID string `validate:"required"`
	ClientID        string `validate:"required"`
	ClientSecret    string `validate:"required"`
	AuthURI         string `validate:"required,url"`
	TokenURI        string `validate:"required,url"`
}

// Validate implements Spec.
func (s AuthorizationSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid authorization spec", err)
	}
	return nil
}

// Matches implements Spec. The remote never echoes the client secret,
// so the client id is the identity that matters.
func (s AuthorizationSpec) Matches(h *Handle) bool {
	return h.Exists() && h.Detail["clientId"] == s.ClientID
}

// AuthorizationClient manages Discovery Engine authorizations. They
// are global resources addressed by project number.
type AuthorizationClient struct {
	t             *gcp.Transport
	baseURL       string
	projectNumber string
}

// NewAuthorizationClient builds an authorization client. baseURL is
// injectable for tests.
func NewAuthorizationClient(t *gcp.Transport, baseURL, projectNumber string) *AuthorizationClient {
	return &AuthorizationClient{t: t, baseURL: baseURL, projectNumber: projectNumber}
}

// Kind implements Client.
func (c *AuthorizationClient) Kind() Kind { return OAuthAuthorization }

func (c *AuthorizationClient) parentURL() string {
	return fmt.Sprintf("%s/projects/%s/locations/global/authorizations", c.baseURL, c.projectNumber)
}

type authorizationResource struct {
	Name            string           `json:"name"`
	ServerSideOauth *serverSideOauth `json:"serverSideOauth2,omitempty"`
}

type serverSideOauth struct {
	ClientID         string `json:"clientId"`
	ClientSecret     string `json:"clientSecret,omitempty"`
	AuthorizationURI string `json:"authorizationUri,omitempty"`
	TokenURI         string `json:"tokenUri,omitempty"`
}

func (r *authorizationResource) handle() *Handle {
	h := &Handle{
		Kind:        OAuthAuthorization,
		RemoteID:    shortID(r.Name),
		State:       StateActive,
		DisplayName: shortID(r.Name),
		Detail:      map[string]string{"resource": r.Name},
	}
	if r.ServerSideOauth != nil {
		h.Detail["clientId"] = r.ServerSideOauth.ClientID
	}
	return h
}

// Create stores a new authorization under the configured id.
func (c *AuthorizationClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(AuthorizationSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "authorization client requires an AuthorizationSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	body := authorizationResource{
		Name: fmt.Sprintf("projects/%s/locations/global/authorizations/%s", c.projectNumber, s.AuthorizationID),
		ServerSideOauth: &serverSideOauth{
			ClientID:         s.ClientID,
			ClientSecret:     s.ClientSecret,
			AuthorizationURI: s.AuthURI,
			TokenURI:         s.TokenURI,
		},
	}

	url := fmt.Sprintf("%s?authorizationId=%s", c.parentURL(), s.AuthorizationID)
	var res authorizationResource
	if err := c.t.DoJSON(ctx, http.MethodPost, url, body, &res); err != nil {
		return nil, normalizeCreateError(err, OAuthAuthorization, s.AuthorizationID)
	}
	return res.handle(), nil
}

// Get fetches an authorization by its short id.
func (c *AuthorizationClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res authorizationResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.parentURL()+"/"+id, nil, &res); err != nil {
		return nil, withResource(err, OAuthAuthorization, id)
	}
	return res.handle(), nil
}

// Update replaces the stored OAuth client material.
func (c *AuthorizationClient) Update(ctx context.Context, id string, spec Spec) (*Handle, error) {
	s, ok := spec.(AuthorizationSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "authorization client requires an AuthorizationSpec")
	}

	body := authorizationResource{
		ServerSideOauth: &serverSideOauth{
			ClientID:         s.ClientID,
			ClientSecret:     s.ClientSecret,
			AuthorizationURI: s.AuthURI,
			TokenURI:         s.TokenURI,
		},
	}
	var res authorizationResource
	if err := c.t.DoJSON(ctx, http.MethodPatch, c.parentURL()+"/"+id, body, &res); err != nil {
		return nil, withResource(err, OAuthAuthorization, id)
	}
	return res.handle(), nil
}

// Delete removes an authorization.
func (c *AuthorizationClient) Delete(ctx context.Context, id string) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.parentURL()+"/"+id, nil, nil); err != nil {
		return withResource(err, OAuthAuthorization, id)
	}
	return nil
}

// List returns all authorizations in the project.
func (c *AuthorizationClient) List(ctx context.Context) ([]Handle, error) {
	var res struct {
		Authorizations []authorizationResource `json:"authorizations"`
	}
	if err := c.t.DoJSON(ctx, http.MethodGet, c.parentURL(), nil, &res); err != nil {
		return nil, withResource(err, OAuthAuthorization, "")
	}
	handles := make([]Handle, 0, len(res.Authorizations))
	for i := range res.Authorizations {
		handles = append(handles, *res.Authorizations[i].handle())
	}
	return handles, nil
}
