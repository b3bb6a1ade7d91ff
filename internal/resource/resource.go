// Package resource defines the resource model shared by all clients:
// kinds, lifecycle states, handles, the uniform client interface, and
// the fixed dependency graph between resource kinds. One client
// implementation exists per kind; the orchestrator is written once
// against the Client interface.
package resource

import (
	"context"

	"github.com/agenticsoc/agentspacectl/internal/constants"
)

// Kind identifies a remote resource kind.
type Kind string

const (
	ComputeAgent         Kind = "ComputeAgent"
	IntegrationApp       Kind = "IntegrationApp"
	IntegrationAgentLink Kind = "IntegrationAgentLink"
	OAuthAuthorization   Kind = "OAuthAuthorization"
	DocumentCorpus       Kind = "DocumentCorpus"
	SearchDataStore      Kind = "SearchDataStore"
)

// Kinds lists every resource kind in dependency order, prerequisites
// first. The status reporter walks this list.
var Kinds = []Kind{
	DocumentCorpus,
	SearchDataStore,
	ComputeAgent,
	IntegrationApp,
	OAuthAuthorization,
	IntegrationAgentLink,
}

// State is a resource lifecycle state. A handle's remote identifier is
// only meaningful while the state is Creating, Active, or Updating.
type State string

const (
	StateAbsent   State = "Absent"
	StateCreating State = "Creating"
	StateActive   State = "Active"
	StateUpdating State = "Updating"
	StateDeleting State = "Deleting"
	StateFailed   State = "Failed"
)

// stateFromRemote maps remote state strings onto the local lifecycle.
// Resources that expose no state field are Active by virtue of
// existing.
func stateFromRemote(remote string) State {
	switch remote {
	case "", "ACTIVE", "STATE_UNSPECIFIED":
		return StateActive
	case "CREATING", "PROVISIONING":
		return StateCreating
	case "UPDATING":
		return StateUpdating
	case "DELETING":
		return StateDeleting
	case "FAILED", "ERROR":
		return StateFailed
	default:
		return StateActive
	}
}

// Handle describes one remote resource instance. Handles are derived
// fresh from remote state on every run; nothing is cached locally.
type Handle struct {
	Kind        Kind
	RemoteID    string
	State       State
	DisplayName string
	CreateTime  string
	UpdateTime  string
	// Detail carries kind-specific fields used for spec matching and
	// verbose output.
	Detail map[string]string
}

// Exists reports whether the handle refers to a live remote resource.
func (h *Handle) Exists() bool {
	return h != nil && h.State != StateAbsent
}

// Spec is the desired state for a resource. Concrete spec types live
// next to their clients.
type Spec interface {
	// Validate rejects malformed specs before any remote call.
	Validate() error
	// Matches reports whether an existing handle already satisfies the
	// spec, which lets create become a no-op.
	Matches(h *Handle) bool
}

// Client is the uniform per-kind resource client. All verbs normalize
// remote errors into the apperr taxonomy.
type Client interface {
	Kind() Kind
	Create(ctx context.Context, spec Spec) (*Handle, error)
	Get(ctx context.Context, id string) (*Handle, error)
	Update(ctx context.Context, id string, spec Spec) (*Handle, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]Handle, error)
}

// Edge is one ordered dependency: the prerequisite must be Active
// before the dependent may be mutated. Optional edges degrade to a
// warning when the prerequisite is absent.
type Edge struct {
	Prerequisite Kind
	Dependent    Kind
	Optional     bool
}

// Edges is the fixed dependency graph. It is known at design time;
// nothing computes it at runtime.
var Edges = []Edge{
	{Prerequisite: ComputeAgent, Dependent: IntegrationAgentLink},
	{Prerequisite: IntegrationApp, Dependent: IntegrationAgentLink},
	{Prerequisite: OAuthAuthorization, Dependent: IntegrationAgentLink, Optional: true},
	{Prerequisite: IntegrationApp, Dependent: SearchDataStore},
}

// Prerequisites returns the edges whose dependent is the given kind,
// in declaration order.
func Prerequisites(kind Kind) []Edge {
	var out []Edge
	for _, e := range Edges {
		if e.Dependent == kind {
			out = append(out, e)
		}
	}
	return out
}

// CreateCommand returns the CLI command that creates a resource of the
// given kind. Prerequisite failures embed it as the suggested fix.
func CreateCommand(kind Kind) string {
	sub := map[Kind]string{
		ComputeAgent:         "engine register",
		IntegrationApp:       "app create",
		IntegrationAgentLink: "agent register",
		OAuthAuthorization:   "oauth create",
		DocumentCorpus:       "corpus create",
		SearchDataStore:      "datastore create",
	}[kind]
	return constants.ProjectName + " " + sub
}
