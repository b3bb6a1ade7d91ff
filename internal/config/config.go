// Package config resolves layered configuration for agentspacectl.
// It uses Viper to merge defaults, a dotenv-style file, and process
// environment variables; the environment always wins over the file,
// and the file wins over defaults. Required keys are validated per
// deployment stage, and composite resource names are derived from
// their components instead of being asked of the user twice.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/agenticsoc/agentspacectl/internal/apperr"
	"github.com/agenticsoc/agentspacectl/internal/constants"
)

// Stage identifies an ordered configuration phase. Resolving stage N
// requires every key of stages 1..N.
type Stage int

const (
	// StagePrerequisites covers keys the user must supply before any
	// deployment begins.
	StagePrerequisites Stage = 1
	// StageDeployment covers identifiers produced by deploying the
	// agent engine and creating the Agentspace app.
	StageDeployment Stage = 2
	// StageIntegration covers identifiers produced by linking the
	// agent into Agentspace.
	StageIntegration Stage = 3
)

// Config is the resolved configuration set. It is immutable after
// Resolve returns; components receive it by value injection, never
// through package-level state.
type Config struct {
	ProjectID     string `mapstructure:"gcp_project_id"`
	ProjectNumber string `mapstructure:"gcp_project_number"`
	Location      string `mapstructure:"gcp_location"`
	StagingBucket string `mapstructure:"gcp_staging_bucket" validate:"omitempty,startswith=gs://"`

	// EngineID is the short reasoning-engine id; EngineResourceName is
	// the fully qualified composite derived from it when absent.
	EngineID           string `mapstructure:"agent_engine_id"`
	EngineResourceName string `mapstructure:"agent_engine_resource_name"`

	AppID      string `mapstructure:"agentspace_app_id"`
	AgentID    string `mapstructure:"agentspace_agent_id"`
	Collection string `mapstructure:"agentspace_collection"`
	Assistant  string `mapstructure:"agentspace_assistant"`

	OAuthAuthID       string `mapstructure:"oauth_auth_id"`
	OAuthClientID     string `mapstructure:"oauth_client_id"`
	OAuthClientSecret string `mapstructure:"oauth_client_secret"`
	OAuthAuthURI      string `mapstructure:"oauth_auth_uri" validate:"omitempty,url"`
	OAuthTokenURI     string `mapstructure:"oauth_token_uri" validate:"omitempty,url"`

	// RagLocation falls back to Location when unset; some corpora live
	// in a different region than the engine.
	RagLocation  string `mapstructure:"rag_gcp_location"`
	CorpusNumber string `mapstructure:"rag_corpus_number"`
	CorpusID     string `mapstructure:"rag_corpus_id"`

	DataStoreID string `mapstructure:"datastore_id"`

	AgentDisplayName     string `mapstructure:"agent_display_name"`
	AgentDescription     string `mapstructure:"agent_description"`
	AgentToolDescription string `mapstructure:"agent_tool_description"`
}

// requiredKeys lists, per stage, the configuration keys that must be
// present (and non-placeholder) before operations of that stage run.
var requiredKeys = map[Stage][]string{
	StagePrerequisites: {
		"GCP_PROJECT_ID",
		"GCP_PROJECT_NUMBER",
		"GCP_LOCATION",
		"GCP_STAGING_BUCKET",
	},
	StageDeployment: {
		"AGENT_ENGINE_RESOURCE_NAME",
		"AGENTSPACE_APP_ID",
	},
	StageIntegration: {
		"AGENTSPACE_AGENT_ID",
	},
}

// deprecatedKeys maps deprecated key names to their replacements. The
// replacement always wins; the deprecated key only triggers a warning.
var deprecatedKeys = map[string]string{
	"GCP_REGION": "GCP_LOCATION",
}

var validate = validator.New()

// Resolver loads the layered configuration sources.
type Resolver struct {
	envFile string
	log     *slog.Logger
}

// NewResolver returns a resolver reading the given dotenv file.
// An empty path selects the default ".env".
func NewResolver(envFile string, log *slog.Logger) *Resolver {
	if envFile == "" {
		envFile = constants.DefaultEnvFile
	}
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{envFile: envFile, log: log}
}

// Resolve loads and validates configuration for the given stage.
// Missing or placeholder-valued required keys fail with CONFIG_MISSING
// listing every offending key; a composite value contradicting its
// components fails with CONFIG_CONFLICT.
func (r *Resolver) Resolve(stage Stage) (*Config, error) {
	cfg, err := r.load()
	if err != nil {
		return nil, err
	}
	if missing := cfg.missingKeys(stage); len(missing) > 0 {
		return nil, apperr.New(
			apperr.CodeConfigMissing,
			fmt.Sprintf("missing required configuration: %s", strings.Join(missing, ", ")),
		).WithSuggestion(fmt.Sprintf("set the missing keys in %s (see .env.example)", r.envFile))
	}
	return cfg, nil
}

// ResolveLenient loads configuration without enforcing required keys
// and reports which keys of the given stage are missing. The status
// reporter uses it so verification never fails on an incomplete
// configuration.
func (r *Resolver) ResolveLenient(stage Stage) (*Config, []string, error) {
	cfg, err := r.load()
	if err != nil {
		return nil, nil, err
	}
	return cfg, cfg.missingKeys(stage), nil
}

// load reads all layers, applies deprecation aliases, derives
// composites, and validates value formats. It performs no remote calls.
func (r *Resolver) load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(r.envFile)
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil {
		// A missing file is fine: the environment alone may be a
		// complete configuration source.
		if !os.IsNotExist(err) {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, apperr.Wrap(apperr.CodeConfigMissing,
					fmt.Sprintf("cannot read configuration file %s", r.envFile), err)
			}
		}
	}

	v.AutomaticEnv()
	bindEnvVars(v)
	r.applyDeprecatedKeys(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigMissing, "cannot parse configuration", err)
	}

	if cfg.RagLocation == "" {
		cfg.RagLocation = cfg.Location
	}

	if err := cfg.deriveComposites(); err != nil {
		return nil, err
	}

	if err := validate.Struct(&cfg); err != nil {
		return nil, apperr.Wrap(apperr.CodeConfigConflict, "configuration failed validation", err)
	}

	return &cfg, nil
}

// applyDeprecatedKeys copies a deprecated key's value onto its
// replacement when the replacement was not explicitly set. The
// replacement always wins; the deprecated key only warns.
func (r *Resolver) applyDeprecatedKeys(v *viper.Viper) {
	for old, replacement := range deprecatedKeys {
		oldKey, newKey := strings.ToLower(old), strings.ToLower(replacement)
		oldVal := firstNonEmpty(os.Getenv(old), v.GetString(oldKey))
		if oldVal == "" {
			continue
		}
		if isExplicit(v, newKey) {
			r.log.Warn("deprecated configuration key ignored",
				"key", old, "replacement", replacement)
			continue
		}
		v.Set(newKey, oldVal)
		r.log.Warn("configuration key is deprecated",
			"key", old, "replacement", replacement)
	}
}

// isExplicit reports whether the key was set by the file or the
// environment rather than by a default.
func isExplicit(v *viper.Viper, key string) bool {
	if v.InConfig(key) {
		return true
	}
	_, ok := os.LookupEnv(strings.ToUpper(key))
	return ok
}

// deriveComposites computes fully qualified resource names from their
// components and rejects contradictory user-supplied composites.
func (c *Config) deriveComposites() error {
	if c.EngineID != "" && c.ProjectID != "" && c.Location != "" {
		derived := EngineResourcePath(c.ProjectID, c.Location, c.EngineID)
		switch {
		case c.EngineResourceName == "":
			c.EngineResourceName = derived
		case c.EngineResourceName != derived:
			return apperr.New(apperr.CodeConfigConflict, fmt.Sprintf(
				"AGENT_ENGINE_RESOURCE_NAME %q contradicts AGENT_ENGINE_ID %q (expected %q)",
				c.EngineResourceName, c.EngineID, derived))
		}
	}

	if c.CorpusNumber != "" && c.ProjectID != "" && c.RagLocation != "" {
		derived := CorpusResourcePath(c.ProjectID, c.RagLocation, c.CorpusNumber)
		switch {
		case c.CorpusID == "":
			c.CorpusID = derived
		case c.CorpusID != derived:
			return apperr.New(apperr.CodeConfigConflict, fmt.Sprintf(
				"RAG_CORPUS_ID %q contradicts RAG_CORPUS_NUMBER %q (expected %q)",
				c.CorpusID, c.CorpusNumber, derived))
		}
	}

	return nil
}

// missingKeys returns the required keys of stages 1..stage that are
// absent or still carry a placeholder value.
func (c *Config) missingKeys(stage Stage) []string {
	var missing []string
	for s := StagePrerequisites; s <= stage; s++ {
		for _, key := range requiredKeys[s] {
			val := c.valueFor(key)
			if val == "" || IsPlaceholder(key, val) {
				missing = append(missing, key)
			}
		}
	}
	return missing
}

// valueFor maps a required-key name to its resolved value.
func (c *Config) valueFor(key string) string {
	switch key {
	case "GCP_PROJECT_ID":
		return c.ProjectID
	case "GCP_PROJECT_NUMBER":
		return c.ProjectNumber
	case "GCP_LOCATION":
		return c.Location
	case "GCP_STAGING_BUCKET":
		return c.StagingBucket
	case "AGENT_ENGINE_RESOURCE_NAME":
		return c.EngineResourceName
	case "AGENTSPACE_APP_ID":
		return c.AppID
	case "AGENTSPACE_AGENT_ID":
		return c.AgentID
	default:
		return ""
	}
}

// Value returns the resolved value for a required-key name, "" for
// unknown keys. The status reporter uses it to echo the configuration.
func (c *Config) Value(key string) string {
	return c.valueFor(key)
}

// AuthorizationResourceName returns the fully qualified authorization
// name, or "" when no authorization is configured.
func (c *Config) AuthorizationResourceName() string {
	if c.OAuthAuthID == "" {
		return ""
	}
	return fmt.Sprintf("projects/%s/locations/global/authorizations/%s", c.ProjectNumber, c.OAuthAuthID)
}

// EngineResourcePath composes the fully qualified reasoning-engine
// resource name.
func EngineResourcePath(project, location, id string) string {
	return fmt.Sprintf("projects/%s/locations/%s/reasoningEngines/%s", project, location, id)
}

// CorpusResourcePath composes the fully qualified RAG corpus resource
// name.
func CorpusResourcePath(project, location, number string) string {
	return fmt.Sprintf("projects/%s/locations/%s/ragCorpora/%s", project, location, number)
}

// RequiredKeys returns the required key names for stages 1..stage.
func RequiredKeys(stage Stage) []string {
	var keys []string
	for s := StagePrerequisites; s <= stage; s++ {
		keys = append(keys, requiredKeys[s]...)
	}
	return keys
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("gcp_location", constants.DefaultLocation)
	v.SetDefault("agentspace_collection", constants.DefaultCollection)
	v.SetDefault("agentspace_assistant", constants.DefaultAssistant)
	v.SetDefault("oauth_token_uri", "https://oauth2.googleapis.com/token")
	v.SetDefault("agent_display_name", "Security Operations Agent")
	v.SetDefault("agent_description", "Allows security operations on SIEM, SOAR and threat intelligence products")
	v.SetDefault("agent_tool_description", "Various tools from SIEM, SOAR and SCC")
}

func bindEnvVars(v *viper.Viper) {
	envVars := []string{
		"GCP_PROJECT_ID",
		"GCP_PROJECT_NUMBER",
		"GCP_LOCATION",
		"GCP_STAGING_BUCKET",
		"AGENT_ENGINE_ID",
		"AGENT_ENGINE_RESOURCE_NAME",
		"AGENTSPACE_APP_ID",
		"AGENTSPACE_AGENT_ID",
		"AGENTSPACE_COLLECTION",
		"AGENTSPACE_ASSISTANT",
		"OAUTH_AUTH_ID",
		"OAUTH_CLIENT_ID",
		"OAUTH_CLIENT_SECRET",
		"OAUTH_AUTH_URI",
		"OAUTH_TOKEN_URI",
		"RAG_GCP_LOCATION",
		"RAG_CORPUS_NUMBER",
		"RAG_CORPUS_ID",
		"DATASTORE_ID",
		"AGENT_DISPLAY_NAME",
		"AGENT_DESCRIPTION",
		"AGENT_TOOL_DESCRIPTION",
	}
	for _, envVar := range envVars {
		_ = v.BindEnv(strings.ToLower(envVar), envVar)
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
