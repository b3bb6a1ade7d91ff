package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

var appCmd = &cobra.Command{
	Use:   "app",
	Short: "Agentspace app lifecycle",
}

var appDisplayName string

var appCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the Agentspace app",
	Long: `Create the Agentspace app the agent will be linked into. A data
store configured via DATASTORE_ID is attached at creation.`,
	Example: fmt.Sprintf(`  - %s app create
  - %s app create --display-name "SOC Workbench"`, constants.ProjectName, constants.ProjectName),
	RunE: runAppCreate,
}

var appUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Update the app display name and attach the configured data store",
	RunE:  runAppUpdate,
}

var appVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the Agentspace app against the configuration",
	RunE:  runAppVerify,
}

var appDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the Agentspace app",
	RunE:  runAppDelete,
}

var appListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Agentspace apps in the collection",
	RunE:  runAppList,
}

func init() {
	appCreateCmd.Flags().StringVar(&appDisplayName, "display-name", "", "App display name (defaults to the agent display name)")
	appUpdateCmd.Flags().StringVar(&appDisplayName, "display-name", "", "App display name (defaults to the agent display name)")
	appCmd.AddCommand(appCreateCmd, appUpdateCmd, appVerifyCmd, appDeleteCmd, appListCmd)
	rootCmd.AddCommand(appCmd)
}

func appSpecFromConfig(cfg *config.Config) resource.AppSpec {
	displayName := appDisplayName
	if displayName == "" {
		displayName = cfg.AgentDisplayName
	}
	spec := resource.AppSpec{
		AppID:       cfg.AppID,
		DisplayName: displayName,
	}
	if cfg.DataStoreID != "" {
		spec.DataStoreIDs = []string{cfg.DataStoreID}
	}
	return spec
}

func runAppCreate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.AppID == "" {
		return missingKeyError("AGENTSPACE_APP_ID")
	}

	out, err := st.orch.Register(cmd.Context(), resource.IntegrationApp, appSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	output.Blank()
	output.Info("Console: %s", resource.ConsoleURL(st.cfg.ProjectID, st.cfg.AppID))
	return nil
}

func runAppUpdate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.AppID == "" {
		return missingKeyError("AGENTSPACE_APP_ID")
	}
	out, err := st.orch.Update(cmd.Context(), resource.IntegrationApp, st.cfg.AppID, appSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runAppVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.IntegrationApp, st.cfg.AppID)
}

func runAppDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.IntegrationApp, st.cfg.AppID)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runAppList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.IntegrationApp, config.StagePrerequisites)
}
