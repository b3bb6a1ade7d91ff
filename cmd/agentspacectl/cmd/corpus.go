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

var corpusCmd = &cobra.Command{
	Use:   "corpus",
	Short: "RAG corpus lifecycle",
}

var (
	corpusDisplayName string
	corpusDescription string
)

var corpusCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a RAG corpus for agent grounding documents",
	Long: `Create a RAG corpus. The corpus is consumed when the engine is
registered; changing it afterwards requires redeploying the engine.`,
	Example: fmt.Sprintf(`  - %s corpus create --display-name "SOC Runbooks"`, constants.ProjectName),
	RunE:    runCorpusCreate,
}

var corpusVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the configured corpus",
	RunE:  runCorpusVerify,
}

var corpusDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the configured corpus",
	RunE:  runCorpusDelete,
}

var corpusListCmd = &cobra.Command{
	Use:   "list",
	Short: "List corpora in the RAG location",
	RunE:  runCorpusList,
}

func init() {
	corpusCreateCmd.Flags().StringVar(&corpusDisplayName, "display-name", "", "Corpus display name")
	corpusCreateCmd.Flags().StringVar(&corpusDescription, "description", "", "Corpus description")
	_ = corpusCreateCmd.MarkFlagRequired("display-name")
	corpusCmd.AddCommand(corpusCreateCmd, corpusVerifyCmd, corpusDeleteCmd, corpusListCmd)
	rootCmd.AddCommand(corpusCmd)
}

func runCorpusCreate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}

	output.Info("Creating corpus (this can take a few minutes)...")
	out, err := st.orch.Register(cmd.Context(), resource.DocumentCorpus, resource.CorpusSpec{
		DisplayName: corpusDisplayName,
		Description: corpusDescription,
	})
	if err != nil {
		return err
	}
	renderOutcome(out)
	if out.Action != orchestrator.ActionSkipped && out.Handle != nil {
		output.Blank()
		output.Info("Record this in your configuration:")
		output.KeyValue("RAG_CORPUS_ID", out.Handle.RemoteID)
	}
	return nil
}

func runCorpusVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.DocumentCorpus, st.cfg.CorpusID)
}

func runCorpusDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.DocumentCorpus, st.cfg.CorpusID)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runCorpusList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.DocumentCorpus, config.StagePrerequisites)
}
