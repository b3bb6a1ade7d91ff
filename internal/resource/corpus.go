package resource

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// CorpusSpec is the desired state of a DocumentCorpus (Vertex AI RAG
// corpus).
type CorpusSpec struct {
	DisplayName string `validate:"required"`
	Description string
}

// Validate implements Spec.
func (s CorpusSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid corpus spec", err)
	}
	return nil
}

// Matches implements Spec.
func (s CorpusSpec) Matches(h *Handle) bool {
	return h.Exists() && h.DisplayName == s.DisplayName
}

// CorpusClient manages RAG corpora on the regional Vertex AI endpoint.
// Corpus creation is long-running and polled to completion.
type CorpusClient struct {
	t        *gcp.Transport
	baseURL  string
	project  string
	location string
}

// NewCorpusClient builds a corpus client. baseURL is injectable for
// tests; pass EngineBaseURL(location) otherwise, since corpora share
// the Vertex AI endpoint with reasoning engines.
func NewCorpusClient(t *gcp.Transport, baseURL, project, location string) *CorpusClient {
	return &CorpusClient{t: t, baseURL: baseURL, project: project, location: location}
}

// Kind implements Client.
func (c *CorpusClient) Kind() Kind { return DocumentCorpus }

func (c *CorpusClient) parent() string {
	return fmt.Sprintf("projects/%s/locations/%s", c.project, c.location)
}

type corpusResource struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Description string `json:"description,omitempty"`
	CreateTime  string `json:"createTime,omitempty"`
	UpdateTime  string `json:"updateTime,omitempty"`
}

func (r *corpusResource) handle() *Handle {
	return &Handle{
		Kind:        DocumentCorpus,
		RemoteID:    r.Name,
		State:       StateActive,
		DisplayName: r.DisplayName,
		CreateTime:  r.CreateTime,
		UpdateTime:  r.UpdateTime,
		Detail:      map[string]string{"description": r.Description},
	}
}

// Create provisions a new corpus and waits for the operation to
// settle.
func (c *CorpusClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(CorpusSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "corpus client requires a CorpusSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/ragCorpora", c.baseURL, c.parent())
	body := map[string]any{"displayName": s.DisplayName, "description": s.Description}
	var op operation
	if err := c.t.DoJSON(ctx, http.MethodPost, url, body, &op); err != nil {
		return nil, normalizeCreateError(err, DocumentCorpus, s.DisplayName)
	}

	response, err := pollOperation(ctx, c.t, c.baseURL, op.Name)
	if err != nil {
		return nil, err
	}
	var res corpusResource
	if err := json.Unmarshal(response, &res); err != nil {
		return nil, apperr.Wrap(apperr.CodeFailed, "cannot decode corpus from operation response", err)
	}
	return res.handle(), nil
}

// Get fetches a corpus by fully qualified resource name.
func (c *CorpusClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res corpusResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.baseURL+"/"+id, nil, &res); err != nil {
		return nil, withResource(err, DocumentCorpus, id)
	}
	return res.handle(), nil
}

// Update is not supported by the remote; corpora are replaced, not
// patched.
func (c *CorpusClient) Update(_ context.Context, id string, _ Spec) (*Handle, error) {
	return nil, apperr.New(apperr.CodeInvalidSpec,
		"corpora cannot be updated in place; delete and recreate").
		WithResource(string(DocumentCorpus), id)
}

// Delete removes a corpus.
func (c *CorpusClient) Delete(ctx context.Context, id string) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.baseURL+"/"+id, nil, nil); err != nil {
		return withResource(err, DocumentCorpus, id)
	}
	return nil
}

// List walks all corpora in the location with bounded pagination.
func (c *CorpusClient) List(ctx context.Context) ([]Handle, error) {
	var handles []Handle
	pageToken := ""
	for page := 0; page < constants.MaxListPages; page++ {
		url := fmt.Sprintf("%s/%s/ragCorpora?pageSize=%d", c.baseURL, c.parent(), constants.ListPageSize)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}
		var res struct {
			RagCorpora    []corpusResource `json:"ragCorpora"`
			NextPageToken string           `json:"nextPageToken"`
		}
		if err := c.t.DoJSON(ctx, http.MethodGet, url, nil, &res); err != nil {
			return nil, withResource(err, DocumentCorpus, "")
		}
		for i := range res.RagCorpora {
			handles = append(handles, *res.RagCorpora[i].handle())
		}
		if res.NextPageToken == "" {
			return handles, nil
		}
		pageToken = res.NextPageToken
	}
	return handles, nil
}
