package config

import "regexp"

// Placeholder values shipped in .env.example. A required key carrying
// one of these is reported as missing so a copied-but-unedited template
// fails fast instead of producing confusing remote errors.
var placeholderValues = map[string][]string{
	"GCP_PROJECT_ID":     {"your-project-id"},
	"GCP_PROJECT_NUMBER": {"123456789012"},
	"GCP_STAGING_BUCKET": {"gs://your-staging-bucket"},
	"AGENTSPACE_APP_ID":  {"your-app-id"},
	"AGENTSPACE_AGENT_ID": {
		"your-agent-id",
	},
	"AGENT_ENGINE_RESOURCE_NAME": {
		"projects/your-project-id/locations/us-central1/reasoningEngines/1234567890",
	},
	"RAG_CORPUS_ID": {
		"projects/your-project-id/locations/us-central1/ragCorpora/1234567890",
	},
}

var placeholderPatterns = []*regexp.Regexp{
	regexp.MustCompile(`your-[a-z-]+`),
	regexp.MustCompile(`/path/to/`),
	regexp.MustCompile(`123456789012`),
}

// IsPlaceholder reports whether a value is a template placeholder
// rather than real configuration.
func IsPlaceholder(key, value string) bool {
	if value == "" {
		return false
	}
	for _, p := range placeholderValues[key] {
		if value == p {
			return true
		}
	}
	for _, re := range placeholderPatterns {
		if re.MatchString(value) {
			return true
		}
	}
	return false
}
