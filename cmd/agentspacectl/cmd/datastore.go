package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

var datastoreCmd = &cobra.Command{
	Use:   "datastore",
	Short: "Legacy search data store lifecycle",
	Long: `Manage search data stores. Data stores predate RAG corpora; new
installs should prefer a corpus, and when both are configured the
corpus is used for grounding.`,
}

var datastoreDisplayName string

var datastoreCreateCmd = &cobra.Command{
	Use:     "create",
	Short:   "Create the configured data store",
	Example: fmt.Sprintf(`  - %s datastore create --display-name "SOC Documents"`, constants.ProjectName),
	RunE:    runDataStoreCreate,
}

var datastoreVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the configured data store",
	RunE:  runDataStoreVerify,
}

var datastoreDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the configured data store",
	RunE:  runDataStoreDelete,
}

var datastoreListCmd = &cobra.Command{
	Use:   "list",
	Short: "List data stores in the collection",
	RunE:  runDataStoreList,
}

func init() {
	datastoreCreateCmd.Flags().StringVar(&datastoreDisplayName, "display-name", "", "Data store display name")
	_ = datastoreCreateCmd.MarkFlagRequired("display-name")
	datastoreCmd.AddCommand(datastoreCreateCmd, datastoreVerifyCmd, datastoreDeleteCmd, datastoreListCmd)
	rootCmd.AddCommand(datastoreCmd)
}

func runDataStoreCreate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.DataStoreID == "" {
		return missingKeyError("DATASTORE_ID")
	}
	if st.cfg.CorpusID != "" {
		output.Warning("A corpus is also configured; it takes precedence over the data store for grounding")
	}

	out, err := st.orch.Register(cmd.Context(), resource.SearchDataStore, resource.DataStoreSpec{
		DataStoreID: st.cfg.DataStoreID,
		DisplayName: datastoreDisplayName,
	})
	if err != nil {
		return err
	}
	renderOutcome(out)

	if st.cfg.AppID != "" {
		output.Info("Attaching data store to app %s", st.cfg.AppID)
		if _, err := st.orch.Update(cmd.Context(), resource.IntegrationApp, st.cfg.AppID, appSpecFromConfig(st.cfg)); err != nil {
			return err
		}
		output.Success("Data store %s attached to app %s", st.cfg.DataStoreID, st.cfg.AppID)
	}
	return nil
}

func runDataStoreVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.SearchDataStore, st.cfg.DataStoreID)
}

func runDataStoreDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.SearchDataStore, st.cfg.DataStoreID)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runDataStoreList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.SearchDataStore, config.StagePrerequisites)
}
