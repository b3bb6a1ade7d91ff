package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"prerequisite missing", apperr.New(apperr.CodePrerequisiteMissing, "x"), constants.ExitPrerequisite},
		{"prerequisite not ready", apperr.New(apperr.CodePrerequisiteNotReady, "x"), constants.ExitPrerequisite},
		{"remote unavailable", apperr.New(apperr.CodeRemoteUnavailable, "x"), constants.ExitRetryable},
		{"timeout", apperr.New(apperr.CodeTimeout, "x"), constants.ExitRetryable},
		{"user aborted", apperr.New(apperr.CodeUserAborted, "x"), constants.ExitUserAborted},
		{"config missing", apperr.New(apperr.CodeConfigMissing, "x"), constants.ExitFailure},
		{"spec conflict", apperr.New(apperr.CodeSpecConflict, "x"), constants.ExitFailure},
		{"foreign error", assert.AnError, constants.ExitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, exitCode(tt.err))
		})
	}
}

func TestKnownIDs(t *testing.T) {
	cfg := &config.Config{
		EngineResourceName: "projects/p/locations/l/reasoningEngines/42",
		AppID:              "soc-app",
		OAuthAuthID:        "soc-oauth",
	}

	ids := knownIDs(cfg)
	assert.Equal(t, "projects/p/locations/l/reasoningEngines/42", ids[resource.ComputeAgent])
	assert.Equal(t, "soc-app", ids[resource.IntegrationApp])
	assert.Equal(t, "soc-oauth", ids[resource.OAuthAuthorization])
	assert.NotContains(t, ids, resource.IntegrationAgentLink)
	assert.NotContains(t, ids, resource.DocumentCorpus)
}

func TestDeploySpecsFromConfig(t *testing.T) {
	cfg := &config.Config{
		ProjectNumber:        "123456789",
		StagingBucket:        "gs://staging",
		AppID:                "soc-app",
		AgentDisplayName:     "SOC Agent",
		AgentDescription:     "Handles security operations",
		AgentToolDescription: "SIEM and SOAR tools",
		EngineResourceName:   "projects/p/locations/l/reasoningEngines/42",
	}

	specs := deploySpecsFromConfig(cfg)
	assert.Equal(t, "SOC Agent", specs.Engine.DisplayName)
	assert.Equal(t, "gs://staging", specs.Engine.StagingBucket)
	assert.Equal(t, "soc-app", specs.App.AppID)
	assert.Nil(t, specs.Authorization, "no authorization configured")
	assert.Equal(t, "projects/p/locations/l/reasoningEngines/42", specs.Link.EngineResource)
	assert.Empty(t, specs.Link.AuthorizationName)

	cfg.OAuthAuthID = "soc-oauth"
	cfg.OAuthClientID = "cid"
	cfg.OAuthClientSecret = "secret"
	specs = deploySpecsFromConfig(cfg)
	if assert.NotNil(t, specs.Authorization) {
		assert.Equal(t, "soc-oauth", specs.Authorization.AuthorizationID)
	}
	assert.Equal(t, "projects/123456789/locations/global/authorizations/soc-oauth", specs.Link.AuthorizationName)
}

func TestBuildClientsWiresEveryKind(t *testing.T) {
	cfg := &config.Config{
		ProjectID:     "p",
		ProjectNumber: "123456789",
		Location:      "us-central1",
		RagLocation:   "us-central1",
		AppID:         "soc-app",
	}

	clients := buildClients(nil, cfg)
	seen := make(map[resource.Kind]bool, len(clients))
	for _, c := range clients {
		seen[c.Kind()] = true
	}
	for _, kind := range resource.Kinds {
		assert.True(t, seen[kind], "no client wired for %s", kind)
	}
}
