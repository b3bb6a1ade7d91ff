package orchestrator

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

func deploySpecs() DeploySpecs {
	return DeploySpecs{
		Engine: engineSpec(),
		App:    resource.AppSpec{AppID: "soc-app", DisplayName: "SOC App"},
		Link:   resource.LinkSpec{DisplayName: "SOC Agent", EngineResource: ""},
	}
}

func fullStack(t *testing.T) (*fakeClient, *fakeClient, *fakeClient, *fakeClient) {
	return newFakeClient(t, resource.ComputeAgent),
		newFakeClient(t, resource.IntegrationApp),
		newFakeClient(t, resource.OAuthAuthorization),
		newFakeClient(t, resource.IntegrationAgentLink)
}

func TestFullDeployRunsInDependencyOrder(t *testing.T) {
	engines, apps, auths, links := fullStack(t)
	o := New([]resource.Client{engines, apps, auths, links}, nil, Options{Logger: quietLogger()})

	outcomes, err := o.FullDeploy(context.Background(), deploySpecs())
	require.NoError(t, err)
	require.Len(t, outcomes, 3)
	assert.Equal(t, resource.ComputeAgent, outcomes[0].Kind)
	assert.Equal(t, resource.IntegrationApp, outcomes[1].Kind)
	assert.Equal(t, resource.IntegrationAgentLink, outcomes[2].Kind)
	for _, out := range outcomes {
		assert.Equal(t, ActionCreated, out.Action, "kind %s", out.Kind)
	}

	// The engine produced by step one is wired into the link.
	assert.Equal(t, o.ID(resource.ComputeAgent), outcomes[2].Handle.Detail["engine"])
}

func TestFullDeployIsRepeatable(t *testing.T) {
	engines, apps, auths, links := fullStack(t)
	o := New([]resource.Client{engines, apps, auths, links}, nil, Options{Logger: quietLogger()})

	_, err := o.FullDeploy(context.Background(), deploySpecs())
	require.NoError(t, err)

	outcomes, err := o.FullDeploy(context.Background(), deploySpecs())
	require.NoError(t, err)
	for _, out := range outcomes {
		assert.Equal(t, ActionSkipped, out.Action, "kind %s", out.Kind)
	}
	assert.Equal(t, 1, engines.creates)
	assert.Equal(t, 1, links.creates)
}

func TestFullDeployAbortsOnFirstFailure(t *testing.T) {
	engines, _, auths, links := fullStack(t)
	brokenApps := &failingClient{kind: resource.IntegrationApp}
	links.frozen = true

	o := New([]resource.Client{engines, brokenApps, auths, links}, nil, Options{Logger: quietLogger()})
	outcomes, err := o.FullDeploy(context.Background(), deploySpecs())
	require.Error(t, err)
	assert.Equal(t, apperr.CodeRemoteUnavailable, apperr.Code(err))
	require.Len(t, outcomes, 1)
	assert.Equal(t, resource.ComputeAgent, outcomes[0].Kind)
}

func TestRedeployAllTearsDownAndRebuilds(t *testing.T) {
	engines, apps, auths, links := fullStack(t)
	o := New([]resource.Client{engines, apps, auths, links}, nil,
		Options{Confirm: func(string) bool { return true }, Logger: quietLogger()})

	_, err := o.FullDeploy(context.Background(), deploySpecs())
	require.NoError(t, err)

	outcomes, err := o.RedeployAll(context.Background(), deploySpecs())
	require.NoError(t, err)
	require.Len(t, outcomes, 5)
	assert.Equal(t, ActionDeleted, outcomes[0].Action)
	assert.Equal(t, resource.IntegrationAgentLink, outcomes[0].Kind)
	assert.Equal(t, ActionDeleted, outcomes[1].Action)
	assert.Equal(t, resource.ComputeAgent, outcomes[1].Kind)

	// Engine and link come back; the app survives and skips.
	assert.Equal(t, ActionCreated, outcomes[2].Action)
	assert.Equal(t, ActionSkipped, outcomes[3].Action)
	assert.Equal(t, resource.IntegrationApp, outcomes[3].Kind)
	assert.Equal(t, ActionCreated, outcomes[4].Action)

	assert.Equal(t, 2, engines.creates)
	assert.Equal(t, 1, apps.creates)
}
