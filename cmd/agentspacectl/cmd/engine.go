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

var engineCmd = &cobra.Command{
	Use:   "engine",
	Short: "Reasoning engine lifecycle",
}

var engineRegisterCmd = &cobra.Command{
	Use:   "register",
	Short: "Register the agent engine deployment",
	Long: `Register the reasoning engine built from the staged agent package.
Registering an engine that already matches the configuration is a no-op.`,
	Example: fmt.Sprintf("  - %s engine register", constants.ProjectName),
	RunE:    runEngineRegister,
}

var engineUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the engine display name and description",
	RunE:  runEngineUpdate,
}

var engineVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the deployed engine against the configuration",
	RunE:  runEngineVerify,
}

var engineDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the deployed engine",
	RunE:  runEngineDelete,
}

var engineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List reasoning engines in the configured location",
	RunE:  runEngineList,
}

func init() {
	engineCmd.AddCommand(engineRegisterCmd, engineUpdateCmd, engineVerifyCmd, engineDeleteCmd, engineListCmd)
	rootCmd.AddCommand(engineCmd)
}

func engineSpecFromConfig(cfg *config.Config) resource.EngineSpec {
	return resource.EngineSpec{
		DisplayName:   cfg.AgentDisplayName,
		Description:   cfg.AgentDescription,
		StagingBucket: cfg.StagingBucket,
	}
}

func runEngineRegister(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}

	output.Info("Registering agent engine (this can take several minutes)...")
	out, err := st.orch.Register(cmd.Context(), resource.ComputeAgent, engineSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	if out.Action != orchestrator.ActionSkipped && out.Handle != nil {
		output.Blank()
		output.Info("Record this in your configuration:")
		output.KeyValue("AGENT_ENGINE_RESOURCE_NAME", out.Handle.RemoteID)
	}
	return nil
}

func runEngineUpdate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageDeployment)
	if err != nil {
		return err
	}
	out, err := st.orch.Update(cmd.Context(), resource.ComputeAgent,
		st.cfg.EngineResourceName, engineSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runEngineVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageDeployment)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.ComputeAgent, st.cfg.EngineResourceName)
}

func runEngineDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StageDeployment)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.ComputeAgent, st.cfg.EngineResourceName)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runEngineList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.ComputeAgent, config.StagePrerequisites)
}
