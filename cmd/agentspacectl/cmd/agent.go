package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/orchestrator"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

var agentCmd = &cobra.Command{
	Use:   "agent",
	Short: "Agentspace agent registration lifecycle",
}

var agentRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the deployed engine as an Agentspace agent",
	Long: `Register the deployed engine as an agent in the Agentspace app.
Requires the engine and app to exist; an OAuth authorization is picked
up when configured and the agent works with reduced capabilities
without one.`,
	Example: fmt.Sprintf("  - %s agent register", constants.ProjectName),
	RunE:    runAgentRegister,
}

var agentUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Rewrite the agent registration in place",
	RunE:  runAgentUpdate,
}

var agentVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the agent registration against the configuration",
	RunE:  runAgentVerify,
}

var agentDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Remove the agent from the Agentspace app",
	RunE:  runAgentDelete,
}

var agentListCmd = &cobra.Command{
	Use:   "list",
	Short: "List agents registered in the app",
	RunE:  runAgentList,
}

func init() {
	agentCmd.AddCommand(agentRegisterCmd, agentUpdateCmd, agentVerifyCmd, agentDeleteCmd, agentListCmd)
	rootCmd.AddCommand(agentCmd)
}

func linkSpecFromConfig(cfg *config.Config) resource.LinkSpec {
	return resource.LinkSpec{
		DisplayName:       cfg.AgentDisplayName,
		Description:       cfg.AgentDescription,
		ToolDescription:   cfg.AgentToolDescription,
		EngineResource:    cfg.EngineResourceName,
		AuthorizationName: cfg.AuthorizationResourceName(),
	}
}

func runAgentRegister(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageDeployment)
	if err != nil {
		return err
	}

	out, err := st.orch.Register(cmd.Context(), resource.IntegrationAgentLink, linkSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	if out.Action != orchestrator.ActionSkipped && out.Handle != nil {
		output.Blank()
		output.Info("Record this in your configuration:")
		output.KeyValue("AGENTSPACE_AGENT_ID", out.Handle.RemoteID)
	}
	return nil
}

func runAgentUpdate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageIntegration)
	if err != nil {
		return err
	}
	out, err := st.orch.Update(cmd.Context(), resource.IntegrationAgentLink,
		st.cfg.AgentID, linkSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runAgentVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageIntegration)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.IntegrationAgentLink, st.cfg.AgentID)
}

func runAgentDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageIntegration)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.IntegrationAgentLink, st.cfg.AgentID)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runAgentList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.IntegrationAgentLink, config.StageDeployment)
}
