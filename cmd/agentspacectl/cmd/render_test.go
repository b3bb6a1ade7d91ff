package cmd

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenticsoc/agentspacectl/internal/orchestrator"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// captureOutput redirects user-facing output for the duration of fn.
func captureOutput(t *testing.T, fn func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := output.Stdout
	output.Stdout = &buf
	t.Cleanup(func() { output.Stdout = prev })
	fn()
	return buf.String()
}

func TestRenderOutcomeCreated(t *testing.T) {
	got := captureOutput(t, func() {
		renderOutcome(&orchestrator.Outcome{
			Kind:   resource.ComputeAgent,
			Action: orchestrator.ActionCreated,
			Handle: &resource.Handle{
				RemoteID:    "projects/p/locations/l/reasoningEngines/42",
				State:       resource.StateActive,
				DisplayName: "SOC Agent",
			},
			Warnings: []string{"no authorization configured"},
		})
	})

	assert.Contains(t, got, "ComputeAgent created")
	assert.Contains(t, got, "projects/p/locations/l/reasoningEngines/42")
	assert.Contains(t, got, "SOC Agent")
	assert.Contains(t, got, "no authorization configured")
}

func TestRenderOutcomeSkipped(t *testing.T) {
	got := captureOutput(t, func() {
		renderOutcome(&orchestrator.Outcome{
			Kind:   resource.IntegrationApp,
			Action: orchestrator.ActionSkipped,
			Reason: "already exists and matches",
		})
	})

	assert.Contains(t, got, "IntegrationApp skipped")
	assert.Contains(t, got, "already exists and matches")
}

func TestRenderReportConfigIncomplete(t *testing.T) {
	got := captureOutput(t, func() {
		renderReport(&orchestrator.Report{
			ConfigIncomplete: true,
			MissingKeys:      []string{"GCP_PROJECT_ID", "GCP_STAGING_BUCKET"},
		})
	})

	assert.Contains(t, got, "Configuration is incomplete")
	assert.Contains(t, got, "GCP_PROJECT_ID")
	assert.Contains(t, got, "GCP_STAGING_BUCKET")
}

func TestRenderReportEntries(t *testing.T) {
	got := captureOutput(t, func() {
		renderReport(&orchestrator.Report{Entries: []orchestrator.Entry{
			{Kind: resource.ComputeAgent, State: resource.StateActive,
				RemoteID: "engines/42", DisplayName: "SOC Agent"},
			{Kind: resource.IntegrationAgentLink, State: resource.StateAbsent,
				Hint: "agentspacectl agent register"},
		}})
	})

	assert.Contains(t, got, "ComputeAgent")
	assert.Contains(t, got, "engines/42")
	assert.Contains(t, got, "IntegrationAgentLink")
	assert.Contains(t, got, "agentspacectl agent register")
}

func TestRenderHandlesTable(t *testing.T) {
	got := captureOutput(t, func() {
		renderHandles([]resource.Handle{
			{RemoteID: "42", DisplayName: "one", State: resource.StateActive},
			{RemoteID: "43", DisplayName: "two", State: resource.StateCreating},
		})
	})

	assert.Contains(t, got, "42")
	assert.Contains(t, got, "two")
	assert.Contains(t, got, "2 resource(s)")
}
