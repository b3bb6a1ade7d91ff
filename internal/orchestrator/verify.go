package orchestrator

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// Entry is the observed status of one resource kind.
type Entry struct {
	Kind        resource.Kind
	State       resource.State
	RemoteID    string
	DisplayName string
	UpdateTime  string
	// Problem describes a lookup failure in one line, "" when the
	// lookup succeeded or the resource is simply absent.
	Problem string
	// Hint is the suggested next command, set for absent resources and
	// actionable failures.
	Hint string
}

// Report is a full status snapshot. Producing a report never fails:
// every problem is reported inside it.
type Report struct {
	// ConfigIncomplete is set when stage-one configuration is missing;
	// no remote call is attempted in that case.
	ConfigIncomplete bool
	MissingKeys      []string
	Entries          []Entry
}

// Verifier produces read-only status reports across all resource
// kinds. Lookups fan out concurrently; results keep dependency order.
type Verifier struct {
	clients map[resource.Kind]resource.Client
	ids     map[resource.Kind]string
	missing []string
	log     *slog.Logger
}

// NewVerifier builds a verifier. missing carries the stage-one
// configuration keys that could not be resolved; a non-empty list
// short-circuits Status to a config-incomplete report.
func NewVerifier(clients []resource.Client, ids map[resource.Kind]string, missing []string, log *slog.Logger) *Verifier {
	byKind := make(map[resource.Kind]resource.Client, len(clients))
	for _, c := range clients {
		byKind[c.Kind()] = c
	}
	if log == nil {
		log = slog.Default()
	}
	return &Verifier{clients: byKind, ids: ids, missing: missing, log: log}
}

// Status reports the state of every wired resource kind. It performs
// reads only and never returns an error: unreachable resources are
// reported as entries with a Problem line.
func (v *Verifier) Status(ctx context.Context) *Report {
	if len(v.missing) > 0 {
		return &Report{ConfigIncomplete: true, MissingKeys: v.missing}
	}

	var ordered []resource.Kind
	for _, kind := range resource.Kinds {
		if _, ok := v.clients[kind]; ok {
			ordered = append(ordered, kind)
		}
	}

	entries := make([]Entry, len(ordered))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for i, kind := range ordered {
		g.Go(func() error {
			entries[i] = v.check(gctx, kind)
			return nil
		})
	}
	_ = g.Wait()

	return &Report{Entries: entries}
}

// check resolves the status of one kind.
func (v *Verifier) check(ctx context.Context, kind resource.Kind) Entry {
	id := v.ids[kind]
	if id == "" {
		return Entry{
			Kind:  kind,
			State: resource.StateAbsent,
			Hint:  resource.CreateCommand(kind),
		}
	}

	h, err := v.clients[kind].Get(ctx, id)
	if err != nil {
		if apperr.IsCode(err, apperr.CodeNotFound) {
			return Entry{
				Kind:     kind,
				State:    resource.StateAbsent,
				RemoteID: id,
				Problem:  "configured identifier does not exist remotely",
				Hint:     resource.CreateCommand(kind),
			}
		}
		v.log.Warn("status lookup failed", "kind", kind, "id", id, "error", err)
		entry := Entry{Kind: kind, State: resource.StateAbsent, RemoteID: id, Problem: err.Error()}
		if s := apperr.Suggestion(err); s != "" {
			entry.Hint = s
		}
		return entry
	}

	return Entry{
		Kind:        kind,
		State:       h.State,
		RemoteID:    h.RemoteID,
		DisplayName: h.DisplayName,
		UpdateTime:  h.UpdateTime,
	}
}
