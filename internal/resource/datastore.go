package resource

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
)

// DataStoreSpec is the desired state of a legacy SearchDataStore.
// Data stores are superseded by RAG corpora and exist for installs
// that predate corpus support.
type DataStoreSpec struct {
	DataStoreID      string `validate:"required"`
	DisplayName      string `validate:"required"`
	IndustryVertical string
	SolutionType     string
	ContentConfig    string
}

// Validate implements Spec.
func (s DataStoreSpec) Validate() error {
	if err := validate.Struct(s); err != nil {
		return apperr.Wrap(apperr.CodeInvalidSpec, "invalid data store spec", err)
	}
	return nil
}

// Matches implements Spec.
func (s DataStoreSpec) Matches(h *Handle) bool {
	return h.Exists() && h.DisplayName == s.DisplayName
}

// DataStoreClient manages Discovery Engine data stores under a
// collection.
type DataStoreClient struct {
	t             *gcp.Transport
	baseURL       string
	projectNumber string
	collection    string
}

// NewDataStoreClient builds a data store client. baseURL is injectable
// for tests.
func NewDataStoreClient(t *gcp.Transport, baseURL, projectNumber, collection string) *DataStoreClient {
	if collection == "" {
		collection = constants.DefaultCollection
	}
	return &DataStoreClient{t: t, baseURL: baseURL, projectNumber: projectNumber, collection: collection}
}

// Kind implements Client.
func (c *DataStoreClient) Kind() Kind { return SearchDataStore }

func (c *DataStoreClient) parentURL() string {
	return fmt.Sprintf("%s/projects/%s/locations/global/collections/%s/dataStores",
		c.baseURL, c.projectNumber, c.collection)
}

type dataStoreResource struct {
	Name             string   `json:"name"`
	DisplayName      string   `json:"displayName"`
	IndustryVertical string   `json:"industryVertical,omitempty"`
	SolutionTypes    []string `json:"solutionTypes,omitempty"`
	ContentConfig    string   `json:"contentConfig,omitempty"`
	CreateTime       string   `json:"createTime,omitempty"`
}

func (r *dataStoreResource) handle() *Handle {
	return &Handle{
		Kind:        SearchDataStore,
		RemoteID:    shortID(r.Name),
		State:       StateActive,
		DisplayName: r.DisplayName,
		CreateTime:  r.CreateTime,
		Detail: map[string]string{
			"resource":      r.Name,
			"contentConfig": r.ContentConfig,
			"solutionTypes": strings.Join(r.SolutionTypes, ","),
		},
	}
}

// Create provisions a data store under the configured id.
func (c *DataStoreClient) Create(ctx context.Context, spec Spec) (*Handle, error) {
	s, ok := spec.(DataStoreSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "data store client requires a DataStoreSpec")
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	vertical := s.IndustryVertical
	if vertical == "" {
		vertical = "GENERIC"
	}
	solution := s.SolutionType
	if solution == "" {
		solution = "SOLUTION_TYPE_SEARCH"
	}
	content := s.ContentConfig
	if content == "" {
		content = "NO_CONTENT"
	}
	body := map[string]any{
		"displayName":      s.DisplayName,
		"industryVertical": vertical,
		"solutionTypes":    []string{solution},
		"contentConfig":    content,
	}

	url := fmt.Sprintf("%s?dataStoreId=%s", c.parentURL(), s.DataStoreID)
	var res dataStoreResource
	if err := c.t.DoJSON(ctx, http.MethodPost, url, body, &res); err != nil {
		return nil, normalizeCreateError(err, SearchDataStore, s.DataStoreID)
	}
	h := res.handle()
	if h.RemoteID == "" {
		h.RemoteID = s.DataStoreID
	}
	return h, nil
}

// Get fetches a data store by its short id.
func (c *DataStoreClient) Get(ctx context.Context, id string) (*Handle, error) {
	var res dataStoreResource
	if err := c.t.DoJSON(ctx, http.MethodGet, c.parentURL()+"/"+id, nil, &res); err != nil {
		return nil, withResource(err, SearchDataStore, id)
	}
	return res.handle(), nil
}

// Update patches the data store display name.
func (c *DataStoreClient) Update(ctx context.Context, id string, spec Spec) (*Handle, error) {
	s, ok := spec.(DataStoreSpec)
	if !ok {
		return nil, apperr.New(apperr.CodeInvalidSpec, "data store client requires a DataStoreSpec")
	}
	url := fmt.Sprintf("%s/%s?updateMask=displayName", c.parentURL(), id)
	var res dataStoreResource
	if err := c.t.DoJSON(ctx, http.MethodPatch, url, map[string]any{"displayName": s.DisplayName}, &res); err != nil {
		return nil, withResource(err, SearchDataStore, id)
	}
	return res.handle(), nil
}

// Delete removes a data store.
func (c *DataStoreClient) Delete(ctx context.Context, id string) error {
	if err := c.t.DoJSON(ctx, http.MethodDelete, c.parentURL()+"/"+id, nil, nil); err != nil {
		return withResource(err, SearchDataStore, id)
	}
	return nil
}

// List returns all data stores in the collection.
func (c *DataStoreClient) List(ctx context.Context) ([]Handle, error) {
	var handles []Handle
	pageToken := ""
	for page := 0; page < constants.MaxListPages; page++ {
		url := fmt.Sprintf("%s?pageSize=%d", c.parentURL(), constants.ListPageSize)
		if pageToken != "" {
			url += "&pageToken=" + pageToken
		}
		var res struct {
			DataStores    []dataStoreResource `json:"dataStores"`
			NextPageToken string              `json:"nextPageToken"`
		}
		if err := c.t.DoJSON(ctx, http.MethodGet, url, nil, &res); err != nil {
			return nil, withResource(err, SearchDataStore, "")
		}
		for i := range res.DataStores {
			handles = append(handles, *res.DataStores[i].handle())
		}
		if res.NextPageToken == "" {
			return handles, nil
		}
		pageToken = res.NextPageToken
	}
	return handles, nil
}
