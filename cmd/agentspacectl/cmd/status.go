package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
	"github.com/agenticsoc/agentspacectl/internal/orchestrator"
	"github.com/agenticsoc/agentspacectl/internal/output"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report the state of every managed resource",
	Long: `Report the state of every managed resource. Status is read-only and
always exits zero: missing configuration and unreachable resources are
reported, never fatal.`,
	Example: fmt.Sprintf("  - %s status", constants.ProjectName),
	RunE:    runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	resolver := config.NewResolver(envFile, slog.Default())
	cfg, missing, err := resolver.ResolveLenient(config.StagePrerequisites)
	if err != nil {
		return err
	}

	output.Header("Deployment status")
	renderConfigEcho(cfg)

	if len(missing) > 0 {
		renderReport(&orchestrator.Report{ConfigIncomplete: true, MissingKeys: missing})
		return nil
	}

	t, err := gcp.NewTransport(cmd.Context(), cfg.ProjectNumber)
	if err != nil {
		return err
	}
	v := orchestrator.NewVerifier(buildClients(t, cfg), knownIDs(cfg), nil, slog.Default())
	renderReport(v.Status(cmd.Context()))
	return nil
}

// renderConfigEcho shows which required keys are set across all
// stages. Unset later-stage keys are normal before their stage runs.
func renderConfigEcho(cfg *config.Config) {
	for _, key := range config.RequiredKeys(config.StageIntegration) {
		if cfg.Value(key) != "" {
			output.KeyValue(key, output.Green("set"))
		} else {
			output.KeyValue(key, output.Gray("unset"))
		}
	}
}
