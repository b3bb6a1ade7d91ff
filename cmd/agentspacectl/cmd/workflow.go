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

var fullDeployCmd = &cobra.Command{
	Use:   "full-deploy",
	Short: "Deploy the engine, app, authorization, and agent in order",
	Long: `Run the whole deployment in dependency order: register the engine,
create the Agentspace app, store the OAuth authorization when one is
configured, and link the agent into the app. Steps that are already
satisfied are skipped, so the command is safe to re-run.`,
	Example: fmt.Sprintf("  - %s full-deploy", constants.ProjectName),
	RunE:    runFullDeploy,
}

var redeployAllCmd = &cobra.Command{
	Use:   "redeploy-all",
	Short: "Tear down the agent and engine, then deploy everything again",
	Long: `Delete the agent registration and the engine, then run a full
deployment. The app and authorization survive. Destructive; requires
confirmation or --force.`,
	RunE: runRedeployAll,
}

func init() {
	rootCmd.AddCommand(fullDeployCmd, redeployAllCmd)
}

func deploySpecsFromConfig(cfg *config.Config) orchestrator.DeploySpecs {
	specs := orchestrator.DeploySpecs{
		Engine: engineSpecFromConfig(cfg),
		App:    appSpecFromConfig(cfg),
		Link:   linkSpecFromConfig(cfg),
	}
	if cfg.OAuthAuthID != "" {
		auth := authorizationSpecFromConfig(cfg)
		specs.Authorization = &auth
	}
	return specs
}

func runFullDeploy(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.AppID == "" {
		return missingKeyError("AGENTSPACE_APP_ID")
	}
	if st.cfg.CorpusID != "" && st.cfg.DataStoreID != "" {
		output.Warning("Both a corpus and a data store are configured; the corpus is used for grounding")
	}
	if st.cfg.OAuthAuthID == "" {
		output.Warning("No OAuth authorization configured; the agent will run with reduced capabilities")
	}

	outcomes, err := st.orch.FullDeploy(cmd.Context(), deploySpecsFromConfig(st.cfg))
	renderWorkflow(outcomes)
	if err != nil {
		return err
	}
	output.Blank()
	output.Success("Deployment complete")
	output.Info("Console: %s", resource.ConsoleURL(st.cfg.ProjectID, st.cfg.AppID))
	return nil
}

func runRedeployAll(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.AppID == "" {
		return missingKeyError("AGENTSPACE_APP_ID")
	}

	outcomes, err := st.orch.RedeployAll(cmd.Context(), deploySpecsFromConfig(st.cfg))
	renderWorkflow(outcomes)
	if err != nil {
		return err
	}
	output.Blank()
	output.Success("Redeployment complete")
	return nil
}

func renderWorkflow(outcomes []orchestrator.Outcome) {
	for i := range outcomes {
		output.Blank()
		renderOutcome(&outcomes[i])
	}
}
