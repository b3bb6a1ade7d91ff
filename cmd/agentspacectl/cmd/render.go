package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/orchestrator"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

// verifyOne reports the status of a single resource kind. Like the
// full status report, it never fails; problems are rendered inline.
func verifyOne(cmd *cobra.Command, st *stack, kind resource.Kind, id string) error {
	v := orchestrator.NewVerifier([]resource.Client{st.client(kind)},
		map[resource.Kind]string{kind: id}, nil, slog.Default())
	renderReport(v.Status(cmd.Context()))
	return nil
}

// listKind lists every remote resource of one kind.
func listKind(cmd *cobra.Command, kind resource.Kind, stage config.Stage) error {
	st, err := buildStack(cmd.Context(), stage)
	if err != nil {
		return err
	}
	handles, err := st.client(kind).List(cmd.Context())
	if err != nil {
		return err
	}
	renderHandles(handles)
	return nil
}

func renderOutcome(out *orchestrator.Outcome) {
	switch out.Action {
	case orchestrator.ActionSkipped:
		output.Info("%s skipped: %s", out.Kind, out.Reason)
	default:
		output.Success("%s %s", out.Kind, out.Action)
	}
	if out.Handle != nil {
		renderHandle(out.Handle)
	}
	for _, w := range out.Warnings {
		output.Warning("%s", w)
	}
}

func renderHandle(h *resource.Handle) {
	output.KeyValue("ID", h.RemoteID)
	output.KeyValue("State", output.StateBadge(string(h.State)))
	if h.DisplayName != "" {
		output.KeyValue("Display name", h.DisplayName)
	}
	if verbose {
		if h.CreateTime != "" {
			output.KeyValue("Created", h.CreateTime)
		}
		if h.UpdateTime != "" {
			output.KeyValue("Updated", h.UpdateTime)
		}
		for k, v := range h.Detail {
			if v != "" {
				output.KeyValue(k, v)
			}
		}
	}
}

func renderHandles(handles []resource.Handle) {
	rows := make([][]string, 0, len(handles))
	for i := range handles {
		h := &handles[i]
		rows = append(rows, []string{h.RemoteID, h.DisplayName, string(h.State), h.CreateTime})
	}
	output.Table([]string{"ID", "Display Name", "State", "Created"}, rows)
	output.Blank()
	output.Success("%d resource(s)", len(handles))
}

func renderReport(report *orchestrator.Report) {
	if report.ConfigIncomplete {
		output.Warning("Configuration is incomplete; no remote checks were made")
		output.List(report.MissingKeys)
		output.Info("Set the missing keys in %s and re-run", output.Bold(envFile))
		return
	}

	for _, e := range report.Entries {
		output.Blank()
		output.Info("%s %s", output.Bold(string(e.Kind)), output.StateBadge(string(e.State)))
		if e.RemoteID != "" {
			output.KeyValue("ID", e.RemoteID)
		}
		if e.DisplayName != "" {
			output.KeyValue("Display name", e.DisplayName)
		}
		if e.UpdateTime != "" && verbose {
			output.KeyValue("Updated", e.UpdateTime)
		}
		if e.Problem != "" {
			output.Warning("%s", e.Problem)
		}
		if e.Hint != "" {
			output.KeyValue("Next", e.Hint)
		}
	}
}
