package orchestrator

import (
	"context"
	"fmt"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// The guard keeps repeated operations safe: matching remote state turns
// creates into skips, mismatching state only gives way under Force plus
// confirmation, and destructive actions fail closed without a session
// that can approve them.

// replaceExisting tears down a resource whose remote state contradicts
// the desired spec. Requires Force plus confirmation.
func (o *Orchestrator) replaceExisting(ctx context.Context, client resource.Client, kind resource.Kind, id string) error {
	if !o.force {
		return apperr.New(apperr.CodeSpecConflict, fmt.Sprintf(
			"%s %s exists but does not match the desired configuration", kind, id)).
			WithResource(string(kind), id).
			WithSuggestion("re-run with --force to replace it")
	}
	if err := o.confirmOrFail(fmt.Sprintf("Replace %s %s with the new configuration?", kind, id)); err != nil {
		return err
	}
	o.log.Warn("replacing resource", "kind", kind, "id", id)
	if err := client.Delete(ctx, id); err != nil && !apperr.IsCode(err, apperr.CodeNotFound) {
		return err
	}
	delete(o.ids, kind)
	return nil
}

// adoptExisting resolves a create that raced with or repeated an
// earlier create: a remote resource matching the spec is adopted as a
// skip, anything else is a spec conflict.
func (o *Orchestrator) adoptExisting(ctx context.Context, client resource.Client, kind resource.Kind, spec resource.Spec, warnings []string, createErr error) (*Outcome, error) {
	handles, err := client.List(ctx)
	if err != nil {
		return nil, createErr
	}
	for i := range handles {
		if spec.Matches(&handles[i]) {
			o.ids[kind] = handles[i].RemoteID
			o.log.Info("adopted existing resource", "kind", kind, "id", handles[i].RemoteID)
			return &Outcome{Kind: kind, Action: ActionSkipped, Handle: &handles[i],
				Reason: "already exists and matches", Warnings: warnings}, nil
		}
	}
	return nil, apperr.Wrap(apperr.CodeSpecConflict, fmt.Sprintf(
		"a %s already exists but does not match the desired configuration", kind), createErr).
		WithSuggestion("re-run with --force to replace it")
}

// confirmOrFail gates a destructive action. Force approves silently; a
// missing confirmer means the session cannot approve at all.
func (o *Orchestrator) confirmOrFail(prompt string) error {
	if o.force {
		return nil
	}
	if o.confirm == nil {
		return apperr.New(apperr.CodeConfirmationRequired,
			"destructive action needs confirmation and no interactive session is available").
			WithSuggestion("re-run with --force to proceed without prompting")
	}
	if !o.confirm(prompt) {
		return apperr.New(apperr.CodeUserAborted, "aborted by user")
	}
	return nil
}
