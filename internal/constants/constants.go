// Package constants centralizes project-wide names, defaults, and exit
// codes shared by the CLI and the orchestration packages.
package constants

import "time"

const (
	// ProjectName is the CLI binary and user-facing product name.
	ProjectName = "agentspacectl"

	defaultVersion = "0.3.0"
)

// version is overridable at build time via
// -ldflags "-X .../internal/constants.version=v1.2.3".
var version = defaultVersion

// GetVersion returns the build version.
func GetVersion() string {
	return version
}

// Remote API surfaces.
const (
	// DiscoveryEngineAPIBase is the Discovery Engine endpoint hosting
	// Agentspace engines, assistant agents, authorizations, and legacy
	// data stores. The Agentspace surface is only available on v1alpha.
	DiscoveryEngineAPIBase = "https://discoveryengine.googleapis.com/v1alpha"

	// AIPlatformAPIVersion is the Vertex AI API version carrying both
	// reasoningEngines and ragCorpora.
	AIPlatformAPIVersion = "v1beta1"
)

// Defaults applied when the configuration omits a value.
const (
	DefaultLocation   = "us-central1"
	DefaultCollection = "default_collection"
	DefaultAssistant  = "default_assistant"
	DefaultEnvFile    = ".env"
)

// Long-running operation polling bounds.
const (
	// PollInitialInterval is the first wait before re-checking a
	// long-running operation.
	PollInitialInterval = 5 * time.Second

	// PollMaxInterval caps the exponential backoff between checks.
	PollMaxInterval = 60 * time.Second

	// PollCeiling bounds the total time spent waiting for a single
	// long-running operation. Exceeding it surfaces Timeout, which is
	// retry-check-later, never terminal failure.
	PollCeiling = 20 * time.Minute

	// MaxListPages bounds pagination on list calls so a misbehaving
	// remote can never spin the CLI forever.
	MaxListPages = 50

	// ListPageSize is the page size requested on list calls.
	ListPageSize = 100
)

// Exit codes. Composite workflows and wrapping automation rely on the
// distinction between a missing prerequisite (fix the command order)
// and a retryable remote failure (try again later).
const (
	ExitOK           = 0
	ExitFailure      = 1
	ExitPrerequisite = 2
	ExitRetryable    = 3
	ExitUserAborted  = 130
)
