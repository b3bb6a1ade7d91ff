package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

func TestStatusWithNothingDeployed(t *testing.T) {
	clients := []resource.Client{
		newFakeClient(t, resource.ComputeAgent),
		newFakeClient(t, resource.IntegrationApp),
		newFakeClient(t, resource.IntegrationAgentLink),
		newFakeClient(t, resource.OAuthAuthorization),
	}
	v := NewVerifier(clients, nil, nil, quietLogger())

	report := v.Status(context.Background())
	assert.False(t, report.ConfigIncomplete)
	require.Len(t, report.Entries, 4)
	for _, e := range report.Entries {
		assert.Equal(t, resource.StateAbsent, e.State, "kind %s", e.Kind)
		assert.NotEmpty(t, e.Hint, "kind %s should suggest its create command", e.Kind)
	}
}

func TestStatusKeepsDependencyOrder(t *testing.T) {
	clients := []resource.Client{
		newFakeClient(t, resource.IntegrationAgentLink),
		newFakeClient(t, resource.ComputeAgent),
		newFakeClient(t, resource.IntegrationApp),
	}
	v := NewVerifier(clients, nil, nil, quietLogger())

	report := v.Status(context.Background())
	require.Len(t, report.Entries, 3)
	assert.Equal(t, resource.ComputeAgent, report.Entries[0].Kind)
	assert.Equal(t, resource.IntegrationApp, report.Entries[1].Kind)
	assert.Equal(t, resource.IntegrationAgentLink, report.Entries[2].Kind)
}

func TestStatusReportsLiveAndStaleResources(t *testing.T) {
	engines := newFakeClient(t, resource.ComputeAgent).
		seed("eng-1", &resource.Handle{State: resource.StateActive, DisplayName: "soc-agent"})
	links := newFakeClient(t, resource.IntegrationAgentLink)

	ids := map[resource.Kind]string{
		resource.ComputeAgent:         "eng-1",
		resource.IntegrationAgentLink: "gone-7",
	}
	v := NewVerifier([]resource.Client{engines, links}, ids, nil, quietLogger())

	report := v.Status(context.Background())
	require.Len(t, report.Entries, 2)

	engine := report.Entries[0]
	assert.Equal(t, resource.StateActive, engine.State)
	assert.Equal(t, "soc-agent", engine.DisplayName)
	assert.Empty(t, engine.Problem)

	link := report.Entries[1]
	assert.Equal(t, resource.StateAbsent, link.State)
	assert.Equal(t, "gone-7", link.RemoteID)
	assert.Contains(t, link.Problem, "does not exist")
	assert.Equal(t, "agentspacectl agent register", link.Hint)
}

func TestStatusNeverFailsOnRemoteErrors(t *testing.T) {
	broken := &failingClient{kind: resource.ComputeAgent}
	ids := map[resource.Kind]string{resource.ComputeAgent: "eng-1"}
	v := NewVerifier([]resource.Client{broken}, ids, nil, quietLogger())

	report := v.Status(context.Background())
	require.Len(t, report.Entries, 1)
	assert.Contains(t, report.Entries[0].Problem, "backend down")
}

func TestStatusShortCircuitsOnIncompleteConfig(t *testing.T) {
	// The client would fail the test if touched.
	broken := &failingClient{kind: resource.ComputeAgent, t: t}
	v := NewVerifier([]resource.Client{broken}, nil, []string{"GCP_PROJECT_ID", "GCP_LOCATION"}, quietLogger())

	report := v.Status(context.Background())
	assert.True(t, report.ConfigIncomplete)
	assert.Equal(t, []string{"GCP_PROJECT_ID", "GCP_LOCATION"}, report.MissingKeys)
	assert.Empty(t, report.Entries)
}

type failingClient struct {
	kind resource.Kind
	t    *testing.T
}

func (f *failingClient) Kind() resource.Kind { return f.kind }

func (f *failingClient) Get(context.Context, string) (*resource.Handle, error) {
	if f.t != nil {
		f.t.Fatal("no remote call may run while configuration is incomplete")
	}
	return nil, apperr.New(apperr.CodeRemoteUnavailable, "backend down")
}

func (f *failingClient) Create(context.Context, resource.Spec) (*resource.Handle, error) {
	return nil, apperr.New(apperr.CodeRemoteUnavailable, "backend down")
}

func (f *failingClient) Update(context.Context, string, resource.Spec) (*resource.Handle, error) {
	return nil, apperr.New(apperr.CodeRemoteUnavailable, "backend down")
}

func (f *failingClient) Delete(context.Context, string) error {
	return apperr.New(apperr.CodeRemoteUnavailable, "backend down")
}

func (f *failingClient) List(context.Context) ([]resource.Handle, error) {
	return nil, apperr.New(apperr.CodeRemoteUnavailable, "backend down")
}
