package config

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

// Stage-1 env vars that tests must not inherit from the host.
var stageOneVars = []string{
	"GCP_PROJECT_ID", "GCP_PROJECT_NUMBER", "GCP_LOCATION", "GCP_REGION",
	"GCP_STAGING_BUCKET", "AGENT_ENGINE_ID", "AGENT_ENGINE_RESOURCE_NAME",
	"AGENTSPACE_APP_ID", "AGENTSPACE_AGENT_ID", "RAG_CORPUS_ID", "RAG_CORPUS_NUMBER",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range stageOneVars {
		t.Setenv(v, "")
		os.Unsetenv(v)
	}
}

func TestEnvironmentOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "GCP_PROJECT_ID=from-file\n")
	t.Setenv("GCP_PROJECT_ID", "from-env")

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.ProjectID)
}

func TestFileOverridesDefaults(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "GCP_LOCATION=europe-west1\n")

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "europe-west1", cfg.Location)
}

func TestDefaultsApplyWhenUnset(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "")

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "us-central1", cfg.Location)
	assert.Equal(t, "default_collection", cfg.Collection)
	assert.Equal(t, "default_assistant", cfg.Assistant)
}

func TestCompositeDerivation(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
GCP_PROJECT_ID=p
GCP_LOCATION=r
AGENT_ENGINE_ID=s
`)

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/r/reasoningEngines/s", cfg.EngineResourceName)
}

func TestCompositeConflict(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
GCP_PROJECT_ID=p
GCP_LOCATION=r
AGENT_ENGINE_ID=s
AGENT_ENGINE_RESOURCE_NAME=projects/other/locations/r/reasoningEngines/s
`)

	_, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfigConflict, apperr.Code(err))
}

func TestCorpusCompositeDerivation(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
GCP_PROJECT_ID=p
GCP_LOCATION=us-central1
RAG_GCP_LOCATION=eu
RAG_CORPUS_NUMBER=42
`)

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "projects/p/locations/eu/ragCorpora/42", cfg.CorpusID)
}

func TestResolveMissingKeys(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "GCP_PROJECT_ID=real-project\n")

	_, err := NewResolver(path, testLogger()).Resolve(StagePrerequisites)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfigMissing, apperr.Code(err))
	assert.Contains(t, err.Error(), "GCP_PROJECT_NUMBER")
	assert.Contains(t, err.Error(), "GCP_STAGING_BUCKET")
	assert.NotContains(t, err.Error(), "GCP_PROJECT_ID")
}

func TestPlaceholderTreatedAsMissing(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
GCP_PROJECT_ID=your-project-id
GCP_PROJECT_NUMBER=900100
GCP_STAGING_BUCKET=gs://real-bucket
`)

	_, err := NewResolver(path, testLogger()).Resolve(StagePrerequisites)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfigMissing, apperr.Code(err))
	assert.Contains(t, err.Error(), "GCP_PROJECT_ID")
}

func TestStageTwoRequiresStageOne(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, `
AGENT_ENGINE_RESOURCE_NAME=projects/p/locations/r/reasoningEngines/1
AGENTSPACE_APP_ID=my-app
`)

	_, err := NewResolver(path, testLogger()).Resolve(StageDeployment)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfigMissing, apperr.Code(err))
	assert.Contains(t, err.Error(), "GCP_PROJECT_ID")
}

func TestResolveLenientReportsMissingWithoutFailing(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "")

	cfg, missing, err := NewResolver(path, testLogger()).ResolveLenient(StageIntegration)
	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Contains(t, missing, "GCP_PROJECT_ID")
	assert.Contains(t, missing, "AGENT_ENGINE_RESOURCE_NAME")
	assert.Contains(t, missing, "AGENTSPACE_AGENT_ID")
	// GCP_LOCATION has a default, so it is never missing.
	assert.NotContains(t, missing, "GCP_LOCATION")
}

func TestDeprecatedKeyAliased(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "")
	t.Setenv("GCP_REGION", "asia-east1")

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "asia-east1", cfg.Location)
}

func TestDeprecatedKeyLosesToReplacement(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "")
	t.Setenv("GCP_REGION", "asia-east1")
	t.Setenv("GCP_LOCATION", "europe-west4")

	cfg, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.NoError(t, err)
	assert.Equal(t, "europe-west4", cfg.Location)
}

func TestStagingBucketFormatValidated(t *testing.T) {
	clearEnv(t)
	path := writeEnvFile(t, "GCP_STAGING_BUCKET=not-a-gcs-uri\n")

	_, _, err := NewResolver(path, testLogger()).ResolveLenient(StagePrerequisites)
	require.Error(t, err)
	assert.Equal(t, apperr.CodeConfigConflict, apperr.Code(err))
}

func TestAuthorizationResourceName(t *testing.T) {
	cfg := &Config{ProjectNumber: "900100", OAuthAuthID: "auth-1"}
	assert.Equal(t, "projects/900100/locations/global/authorizations/auth-1", cfg.AuthorizationResourceName())

	cfg.OAuthAuthID = ""
	assert.Empty(t, cfg.AuthorizationResourceName())
}

func TestIsPlaceholder(t *testing.T) {
	assert.True(t, IsPlaceholder("GCP_PROJECT_ID", "your-project-id"))
	assert.True(t, IsPlaceholder("ANY", "/path/to/service-account.json"))
	assert.True(t, IsPlaceholder("GCP_PROJECT_NUMBER", "123456789012"))
	assert.False(t, IsPlaceholder("GCP_PROJECT_ID", "prod-sec-ops"))
	assert.False(t, IsPlaceholder("GCP_PROJECT_ID", ""))
}
