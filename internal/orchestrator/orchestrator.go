// Package orchestrator sequences resource operations: it enforces the
// fixed dependency graph before any mutation, makes creates and deletes
// idempotent, and gates destructive actions behind confirmation. It is
// written once against the resource.Client interface; per-kind wiring
// happens in the command layer.
package orchestrator

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// Action describes what an operation actually did.
type Action string

const (
	ActionCreated  Action = "created"
	ActionUpdated  Action = "updated"
	ActionReplaced Action = "replaced"
	ActionDeleted  Action = "deleted"
	ActionSkipped  Action = "skipped"
)

// Outcome is the result of one orchestrated operation.
type Outcome struct {
	Kind   resource.Kind
	Action Action
	Handle *resource.Handle
	// Reason explains a skip in one line.
	Reason string
	// Warnings carry degraded-capability notes that did not stop the
	// operation.
	Warnings []string
}

// ConfirmFunc asks the user to approve a destructive action. A nil
// ConfirmFunc means no interactive session is available.
type ConfirmFunc func(prompt string) bool

// Options tune orchestrator behavior.
type Options struct {
	// Force skips confirmation prompts and allows replacing resources
	// whose remote state contradicts the desired spec.
	Force   bool
	Confirm ConfirmFunc
	Logger  *slog.Logger
}

// Orchestrator runs operations against a set of per-kind clients. The
// ids map carries the known remote identifier per kind, sourced from
// configuration; it is updated as resources are created.
type Orchestrator struct {
	clients map[resource.Kind]resource.Client
	ids     map[resource.Kind]string
	force   bool
	confirm ConfirmFunc
	log     *slog.Logger
}

// New builds an orchestrator over the given clients.
func New(clients []resource.Client, ids map[resource.Kind]string, opts Options) *Orchestrator {
	byKind := make(map[resource.Kind]resource.Client, len(clients))
	for _, c := range clients {
		byKind[c.Kind()] = c
	}
	if ids == nil {
		ids = make(map[resource.Kind]string)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Orchestrator{
		clients: byKind,
		ids:     ids,
		force:   opts.Force,
		confirm: opts.Confirm,
		log:     log,
	}
}

// ID returns the known remote identifier for a kind, or "".
func (o *Orchestrator) ID(kind resource.Kind) string { return o.ids[kind] }

func (o *Orchestrator) client(kind resource.Kind) (resource.Client, error) {
	c, ok := o.clients[kind]
	if !ok {
		return nil, apperr.New(apperr.CodeFailed, fmt.Sprintf("no client wired for %s", kind))
	}
	return c, nil
}

// checkPrerequisites verifies every prerequisite of kind is Active
// before any mutation runs. A missing required prerequisite fails with
// PrerequisiteMissing and the command that creates it; a prerequisite
// still settling fails with PrerequisiteNotReady. Optional
// prerequisites degrade to a warning.
func (o *Orchestrator) checkPrerequisites(ctx context.Context, kind resource.Kind) ([]string, error) {
	var warnings []string
	for _, edge := range resource.Prerequisites(kind) {
		id := o.ids[edge.Prerequisite]
		if id == "" {
			if edge.Optional {
				warnings = append(warnings, fmt.Sprintf(
					"%s is not configured; %s will run with reduced capabilities", edge.Prerequisite, kind))
				continue
			}
			return nil, apperr.New(apperr.CodePrerequisiteMissing, fmt.Sprintf(
				"%s requires %s, which is not configured", kind, edge.Prerequisite)).
				WithResource(string(edge.Prerequisite), "").
				WithSuggestion(resource.CreateCommand(edge.Prerequisite))
		}

		client, err := o.client(edge.Prerequisite)
		if err != nil {
			return nil, err
		}
		h, err := client.Get(ctx, id)
		if apperr.IsCode(err, apperr.CodeNotFound) {
			if edge.Optional {
				warnings = append(warnings, fmt.Sprintf(
					"%s %s no longer exists; %s will run with reduced capabilities", edge.Prerequisite, id, kind))
				continue
			}
			return nil, apperr.New(apperr.CodePrerequisiteMissing, fmt.Sprintf(
				"%s requires %s %s, which does not exist", kind, edge.Prerequisite, id)).
				WithResource(string(edge.Prerequisite), id).
				WithSuggestion(resource.CreateCommand(edge.Prerequisite))
		}
		if err != nil {
			return nil, err
		}
		if h.State != resource.StateActive {
			return nil, apperr.New(apperr.CodePrerequisiteNotReady, fmt.Sprintf(
				"%s %s is %s, not Active; wait and retry", edge.Prerequisite, id, h.State)).
				WithResource(string(edge.Prerequisite), id)
		}
	}
	return warnings, nil
}

// Register creates a resource if it does not already exist. A remote
// resource matching the spec makes the call a no-op skip; a remote
// resource contradicting the spec fails with SpecConflict unless Force
// is set, in which case it is deleted and recreated after confirmation.
// Force recreates even a matching resource.
func (o *Orchestrator) Register(ctx context.Context, kind resource.Kind, spec resource.Spec) (*Outcome, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	client, err := o.client(kind)
	if err != nil {
		return nil, err
	}
	warnings, err := o.checkPrerequisites(ctx, kind)
	if err != nil {
		return nil, err
	}

	replaced := false
	if id := o.ids[kind]; id != "" {
		current, err := client.Get(ctx, id)
		switch {
		case apperr.IsCode(err, apperr.CodeNotFound):
			// Stale id; fall through to create.
		case err != nil:
			return nil, err
		case spec.Matches(current) && !o.force:
			o.log.Info("resource already matches desired state", "kind", kind, "id", id)
			return &Outcome{Kind: kind, Action: ActionSkipped, Handle: current,
				Reason: "already exists and matches", Warnings: warnings}, nil
		default:
			if err := o.replaceExisting(ctx, client, kind, id); err != nil {
				return nil, err
			}
			replaced = true
		}
	}

	h, err := client.Create(ctx, spec)
	if apperr.IsCode(err, apperr.CodeAlreadyExists) {
		return o.adoptExisting(ctx, client, kind, spec, warnings, err)
	}
	if err != nil {
		return nil, err
	}

	o.ids[kind] = h.RemoteID
	action := ActionCreated
	if replaced {
		action = ActionReplaced
	}
	o.log.Info("resource created", "kind", kind, "id", h.RemoteID)
	return &Outcome{Kind: kind, Action: action, Handle: h, Warnings: warnings}, nil
}

// Update applies the spec to an existing resource in place.
func (o *Orchestrator) Update(ctx context.Context, kind resource.Kind, id string, spec resource.Spec) (*Outcome, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	client, err := o.client(kind)
	if err != nil {
		return nil, err
	}
	warnings, err := o.checkPrerequisites(ctx, kind)
	if err != nil {
		return nil, err
	}

	h, err := client.Update(ctx, id, spec)
	if err != nil {
		return nil, err
	}
	o.log.Info("resource updated", "kind", kind, "id", id)
	return &Outcome{Kind: kind, Action: ActionUpdated, Handle: h, Warnings: warnings}, nil
}

// Delete removes a resource. Deleting an already-absent resource is a
// skip, so delete is safe to repeat. Destructive; gated behind
// confirmation unless Force is set.
func (o *Orchestrator) Delete(ctx context.Context, kind resource.Kind, id string) (*Outcome, error) {
	if id == "" {
		return &Outcome{Kind: kind, Action: ActionSkipped, Reason: "no identifier configured"}, nil
	}
	client, err := o.client(kind)
	if err != nil {
		return nil, err
	}
	if err := o.confirmOrFail(fmt.Sprintf("Delete %s %s?", kind, id)); err != nil {
		return nil, err
	}

	if err := client.Delete(ctx, id); err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			o.log.Info("resource already absent", "kind", kind, "id", id)
			return &Outcome{Kind: kind, Action: ActionSkipped, Reason: "already absent"}, nil
		}
		return nil, err
	}
	delete(o.ids, kind)
	o.log.Info("resource deleted", "kind", kind, "id", id)
	return &Outcome{Kind: kind, Action: ActionDeleted}, nil
}
