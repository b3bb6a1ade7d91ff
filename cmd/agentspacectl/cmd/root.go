package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/config"
	"github.com/agenticsoc/agentspacectl/internal/constants"
	"github.com/agenticsoc/agentspacectl/internal/gcp"
	"github.com/agenticsoc/agentspacectl/internal/logger"
	"github.com/agenticsoc/agentspacectl/internal/orchestrator"
	"github.com/agenticsoc/agentspacectl/internal/output"
	"github.com/agenticsoc/agentspacectl/internal/resource"
)

var (
	envFile string
	force   bool
	verbose bool
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   constants.ProjectName,
	Short: "Deploy and manage the security operations agent on Agentspace",
	Long: fmt.Sprintf(`%s %s
Deploys the security operations agent engine, registers it in
Agentspace, and manages the authorizations, corpora, and data stores
it depends on. All state lives remotely; every command re-derives it.`,
		constants.ProjectName, constants.GetVersion()),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logLevel := slog.LevelInfo
		if debug {
			logLevel = slog.LevelDebug
		}
		logger.Initialize(logLevel)

		if verbose {
			output.Info("CLI build: %s", output.Bold(constants.GetVersion()))
			output.Info("Configuration file: %s", output.Bold(envFile))
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", constants.DefaultEnvFile, "Path to the dotenv configuration file")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "Skip confirmation prompts and replace mismatched resources")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "Enable debugging logs")
}

// Execute runs the root command and maps taxonomy errors onto stable
// exit codes for wrapping automation.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		renderError(err)
		os.Exit(exitCode(err))
	}
}

// exitCode distinguishes "run another command first" from "try again
// later" so callers can branch without parsing output.
func exitCode(err error) int {
	switch apperr.Code(err) {
	case apperr.CodePrerequisiteMissing, apperr.CodePrerequisiteNotReady:
		return constants.ExitPrerequisite
	case apperr.CodeRemoteUnavailable, apperr.CodeTimeout:
		return constants.ExitRetryable
	case apperr.CodeUserAborted:
		return constants.ExitUserAborted
	default:
		return constants.ExitFailure
	}
}

func renderError(err error) {
	output.Error("%s", err.Error())
	if s := apperr.Suggestion(err); s != "" {
		output.Info("Next: %s", output.Bold(s))
	}
}

// stack bundles everything a command needs once configuration is
// resolved: the config itself, the wired clients, and the orchestrator
// over them.
type stack struct {
	cfg     *config.Config
	orch    *orchestrator.Orchestrator
	clients []resource.Client
	ids     map[resource.Kind]string
}

// client returns the wired client for a kind. Every kind is always
// wired by buildClients.
func (s *stack) client(kind resource.Kind) resource.Client {
	for _, c := range s.clients {
		if c.Kind() == kind {
			return c
		}
	}
	return nil
}

// buildStack resolves configuration for the given stage and wires the
// remote clients. The project number is looked up from Resource Manager
// when the configuration only carries the project id.
func buildStack(ctx context.Context, stage config.Stage) (*stack, error) {
	resolver := config.NewResolver(envFile, slog.Default())
	cfg, missing, err := resolver.ResolveLenient(stage)
	if err != nil {
		return nil, err
	}
	missing, err = fillProjectNumber(ctx, cfg, missing)
	if err != nil {
		return nil, err
	}
	if len(missing) > 0 {
		return nil, apperr.New(apperr.CodeConfigMissing,
			fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", "))).
			WithSuggestion(fmt.Sprintf("set the missing keys in %s (see .env.example)", envFile))
	}

	t, err := gcp.NewTransport(ctx, cfg.ProjectNumber)
	if err != nil {
		return nil, err
	}

	clients := buildClients(t, cfg)
	ids := knownIDs(cfg)
	orch := orchestrator.New(clients, ids, orchestrator.Options{
		Force:   force,
		Confirm: confirmFunc(),
		Logger:  slog.Default(),
	})
	return &stack{cfg: cfg, orch: orch, clients: clients, ids: ids}, nil
}

// fillProjectNumber resolves GCP_PROJECT_NUMBER from Resource Manager
// when it is the only thing standing between the user and a complete
// stage-one configuration.
func fillProjectNumber(ctx context.Context, cfg *config.Config, missing []string) ([]string, error) {
	rest := make([]string, 0, len(missing))
	needsNumber := false
	for _, key := range missing {
		if key == "GCP_PROJECT_NUMBER" {
			needsNumber = true
			continue
		}
		rest = append(rest, key)
	}
	if !needsNumber {
		return missing, nil
	}
	if cfg.ProjectID == "" || config.IsPlaceholder("GCP_PROJECT_ID", cfg.ProjectID) {
		return missing, nil
	}

	lookup, err := gcp.NewProjectLookup(ctx)
	if err != nil {
		return nil, err
	}
	defer lookup.Close()

	number, err := lookup.ProjectNumber(ctx, cfg.ProjectID)
	if err != nil {
		return nil, err
	}
	slog.Debug("resolved project number from resource manager",
		"project", cfg.ProjectID, "number", number)
	cfg.ProjectNumber = number
	return rest, nil
}

func buildClients(t *gcp.Transport, cfg *config.Config) []resource.Client {
	de := constants.DiscoveryEngineAPIBase
	return []resource.Client{
		resource.NewEngineClient(t, resource.EngineBaseURL(cfg.Location), cfg.ProjectID, cfg.Location),
		resource.NewAppClient(t, de, cfg.ProjectNumber, cfg.Collection),
		resource.NewAgentLinkClient(t, de, cfg.ProjectNumber, cfg.Collection, cfg.AppID, cfg.Assistant),
		resource.NewAuthorizationClient(t, de, cfg.ProjectNumber),
		resource.NewCorpusClient(t, resource.EngineBaseURL(cfg.RagLocation), cfg.ProjectID, cfg.RagLocation),
		resource.NewDataStoreClient(t, de, cfg.ProjectNumber, cfg.Collection),
	}
}

// knownIDs maps configured identifiers onto resource kinds. Absent
// entries mean the resource was never deployed (or its id was never
// recorded).
func knownIDs(cfg *config.Config) map[resource.Kind]string {
	ids := make(map[resource.Kind]string)
	if cfg.EngineResourceName != "" {
		ids[resource.ComputeAgent] = cfg.EngineResourceName
	}
	if cfg.AppID != "" {
		ids[resource.IntegrationApp] = cfg.AppID
	}
	if cfg.AgentID != "" {
		ids[resource.IntegrationAgentLink] = cfg.AgentID
	}
	if cfg.OAuthAuthID != "" {
		ids[resource.OAuthAuthorization] = cfg.OAuthAuthID
	}
	if cfg.CorpusID != "" {
		ids[resource.DocumentCorpus] = cfg.CorpusID
	}
	if cfg.DataStoreID != "" {
		ids[resource.SearchDataStore] = cfg.DataStoreID
	}
	return ids
}

// missingKeyError reports a key required by one specific command on
// top of its stage's required set.
func missingKeyError(key string) error {
	return apperr.New(apperr.CodeConfigMissing,
		fmt.Sprintf("missing required configuration: %s", key)).
		WithSuggestion(fmt.Sprintf("set %s in %s", key, envFile))
}

// confirmFunc returns the interactive confirmer, or nil when stdin is
// not a terminal. Without a terminal, destructive actions require
// --force.
func confirmFunc() orchestrator.ConfirmFunc {
	if !output.IsInteractive() {
		return nil
	}
	return output.Confirm
}
