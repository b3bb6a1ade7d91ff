package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

var oauthCmd = &cobra.Command{
	Use:   "oauth",
	Short: "OAuth authorization lifecycle",
}

var oauthCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Store the OAuth client as an Agentspace authorization",
	Long: `Store the configured OAuth client so Agentspace can act on a user's
behalf when the agent calls protected tools. The client secret is sent
once at creation and never echoed back.`,
	Example: fmt.Sprintf("  - %s oauth create", constants.ProjectName),
	RunE:    runOAuthCreate,
}

var oauthUpdateCmd = &cobra.Command{
	Use:   "update",
	Short: "Replace the stored OAuth client material",
	RunE:  runOAuthUpdate,
}

var oauthVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check the stored authorization against the configuration",
	RunE:  runOAuthVerify,
}

var oauthDeleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete the stored authorization",
	RunE:  runOAuthDelete,
}

var oauthListCmd = &cobra.Command{
	Use:   "list",
	Short: "List authorizations in the project",
	RunE:  runOAuthList,
}

func init() {
	oauthCmd.AddCommand(oauthCreateCmd, oauthUpdateCmd, oauthVerifyCmd, oauthDeleteCmd, oauthListCmd)
	rootCmd.AddCommand(oauthCmd)
}

func authorizationSpecFromConfig(cfg *config.Config) resource.AuthorizationSpec {
	return resource.AuthorizationSpec{
		AuthorizationID: cfg.OAuthAuthID,
		ClientID:        cfg.OAuthClientID,
		ClientSecret:    cfg.OAuthClientSecret,
		AuthURI:         cfg.OAuthAuthURI,
		TokenURI:        cfg.OAuthTokenURI,
	}
}

func runOAuthCreate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.OAuthAuthID == "" {
		return missingKeyError("OAUTH_AUTH_ID")
	}

	out, err := st.orch.Register(cmd.Context(), resource.OAuthAuthorization, authorizationSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runOAuthUpdate(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	if st.cfg.OAuthAuthID == "" {
		return missingKeyError("OAUTH_AUTH_ID")
	}
	out, err := st.orch.Update(cmd.Context(), resource.OAuthAuthorization,
		st.cfg.OAuthAuthID, authorizationSpecFromConfig(st.cfg))
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runOAuthVerify(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	return verifyOne(cmd, st, resource.OAuthAuthorization, st.cfg.OAuthAuthID)
}

func runOAuthDelete(cmd *cobra.Command, _ []string) error {
	st, err := buildStack(cmd.Context(), config.StagePrerequisites)
	if err != nil {
		return err
	}
	out, err := st.orch.Delete(cmd.Context(), resource.OAuthAuthorization, st.cfg.OAuthAuthID)
	if err != nil {
		return err
	}
	renderOutcome(out)
	return nil
}

func runOAuthList(cmd *cobra.Command, _ []string) error {
	return listKind(cmd, resource.OAuthAuthorization, config.StagePrerequisites)
}
