package config

import (
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"
)

// Config represents the application configuration.
type Config struct {
	Logger LoggerConfig `mapstructure:"logger"`
	AI     AIConfig     `mapstructure:"ai"`
	Jira   JiraConfig   `mapstructure:"jira"`
	Tempo  TempoConfig  `mapstructure:"tempo"`
	Keka   KekaConfig   `mapstructure:"keka"`
	Ledger LedgerConfig `mapstructure:"ledger"`
}

// LoggerConfig holds activity logging configuration.
type LoggerConfig struct {
	LogDir        string `mapstructure:"log_dir"`        // Directory for dated activity logs
	RetentionDays int    `mapstructure:"retention_days"` // Logs older than this are eligible for cleanup
	SummaryFile   string `mapstructure:"summary_file"`   // Structured worklog file written by the user
}

// AIConfig holds AI provider configuration.
type AIConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Provider string `mapstructure:"provider"` // "gemini", "openai", "groq"
	Model    string `mapstructure:"model"`    // Empty means per-provider default
	APIKey   string `mapstructure:"api_key"`  // Env var and secret store take precedence

	// Per-provider default models (used when Model is empty)
	GeminiModel string `mapstructure:"gemini_model"`
	OpenAIModel string `mapstructure:"openai_model"`
	GroqModel   string `mapstructure:"groq_model"`

	Prompt string `mapstructure:"prompt"` // Prompt prefix for log summarization
}

// JiraConfig holds Jira integration configuration.
type JiraConfig struct {
	BaseURL    string `mapstructure:"base_url"` // e.g. "https://your-domain.atlassian.net"
	Email      string `mapstructure:"email"`    // User email for Basic Auth
	Token      string `mapstructure:"token"`    // API token (JIRA_API_KEY env var takes precedence)
	ProjectKey string `mapstructure:"project_key"`
	MaxResults int    `mapstructure:"max_results"` // Page size for ticket search
}

// TempoConfig holds Tempo worklog configuration.
type TempoConfig struct {
	APIURL string `mapstructure:"api_url"`
	Token  string `mapstructure:"token"` // Bearer token (TEMPO_API_KEY env var takes precedence)
}

// KekaConfig holds Keka HR integration configuration.
type KekaConfig struct {
	Enabled      bool   `mapstructure:"enabled"`
	BaseURL      string `mapstructure:"base_url"`
	ClientID     string `mapstructure:"client_id"`
	ClientSecret string `mapstructure:"client_secret"` // KEKA_CLIENT_SECRET env var takes precedence
}

// LedgerConfig holds the worklog submission ledger configuration.
type LedgerConfig struct {
	DatabasePath string `mapstructure:"database_path"`
}

// Load loads the configuration from file and environment variables.
func Load() (*Config, error) {
	config := &Config{}

	setDefaults()

	if err := viper.Unmarshal(config); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}

	if err := expandPaths(config); err != nil {
		return nil, errors.Wrap(err, "failed to expand paths")
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "config validation failed")
	}

	return config, nil
}

// ValidProviders is the list of supported AI providers.
var ValidProviders = []string{"gemini", "openai", "groq"}

// ValidateProvider validates that an AI provider name is supported.
// Empty is allowed and falls back to the default.
func ValidateProvider(provider string) error {
	if provider == "" {
		return nil
	}
	for _, valid := range ValidProviders {
		if provider == valid {
			return nil
		}
	}
	return errors.Newf("invalid ai provider %q: must be one of: gemini, openai, groq", provider)
}

// Validate validates the configuration and returns any validation errors.
func (c *Config) Validate() error {
	if err := ValidateProvider(c.AI.Provider); err != nil {
		return errors.Wrap(err, "ai.provider")
	}
	if c.Jira.MaxResults < 0 {
		return errors.Newf("jira.max_results must be non-negative, got %d", c.Jira.MaxResults)
	}
	if c.Logger.RetentionDays < 0 {
		return errors.Newf("logger.retention_days must be non-negative, got %d", c.Logger.RetentionDays)
	}
	return nil
}

// SecurityWarning represents a configuration security issue.
type SecurityWarning struct {
	Field   string
	Message string
}

// CheckSecurityWarnings returns warnings for insecure configuration practices.
// Call this when loading config to warn users about tokens stored in config files.
func CheckSecurityWarnings(config *Config) []SecurityWarning {
	var warnings []SecurityWarning

	if config.Jira.Token != "" && os.Getenv("JIRA_API_KEY") == "" {
		warnings = append(warnings, SecurityWarning{
			Field:   "jira.token",
			Message: "Jira token is set in config file. For security, use the JIRA_API_KEY environment variable or the secret store instead.",
		})
	}

	if config.Tempo.Token != "" && os.Getenv("TEMPO_API_KEY") == "" {
		warnings = append(warnings, SecurityWarning{
			Field:   "tempo.token",
			Message: "Tempo token is set in config file. For security, use the TEMPO_API_KEY environment variable or the secret store instead.",
		})
	}

	if config.AI.APIKey != "" {
		warnings = append(warnings, SecurityWarning{
			Field:   "ai.api_key",
			Message: "AI API key is set in config file. For security, use environment variables (GEMINI_API_KEY, OPENAI_API_KEY, GROQ_API_KEY) or the secret store instead.",
		})
	}

	return warnings
}

// setDefaults sets default configuration values.
func setDefaults() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		// Fall back to current directory if home dir can't be determined
		homeDir = "."
	}

	// Logger defaults
	viper.SetDefault("logger.log_dir", filepath.Join(homeDir, ".local", "share", "waid", "logs"))
	viper.SetDefault("logger.retention_days", 14)
	viper.SetDefault("logger.summary_file", filepath.Join(homeDir, "waid_summary.log"))

	// AI defaults
	viper.SetDefault("ai.enabled", true)
	viper.SetDefault("ai.provider", "gemini")
	viper.SetDefault("ai.model", "") // Empty means use per-provider default
	viper.SetDefault("ai.api_key", "")
	viper.SetDefault("ai.gemini_model", "gemini-2.0-flash")
	viper.SetDefault("ai.openai_model", "gpt-4o-mini")
	viper.SetDefault("ai.groq_model", "llama-3.3-70b-versatile")
	viper.SetDefault("ai.prompt", "Summarize the following window activity log into a concise JIRA work log entry. Group related activity into tasks and keep it factual")

	// Jira defaults
	viper.SetDefault("jira.base_url", "")
	viper.SetDefault("jira.email", "")
	viper.SetDefault("jira.token", "")
	viper.SetDefault("jira.project_key", "")
	viper.SetDefault("jira.max_results", 50)

	// Tempo defaults
	viper.SetDefault("tempo.api_url", "https://api.tempo.io/4/worklogs")
	viper.SetDefault("tempo.token", "")

	// Keka defaults
	viper.SetDefault("keka.enabled", false)
	viper.SetDefault("keka.base_url", "")
	viper.SetDefault("keka.client_id", "")
	viper.SetDefault("keka.client_secret", "")

	// Ledger defaults
	viper.SetDefault("ledger.database_path", filepath.Join(homeDir, ".local", "share", "waid", "ledger.db"))
}

// expandPaths expands ~ in configured paths.
func expandPaths(config *Config) error {
	var err error

	config.Logger.LogDir, err = expandPath(config.Logger.LogDir)
	if err != nil {
		return err
	}

	config.Logger.SummaryFile, err = expandPath(config.Logger.SummaryFile)
	if err != nil {
		return err
	}

	config.Ledger.DatabasePath, err = expandPath(config.Ledger.DatabasePath)
	if err != nil {
		return err
	}

	return nil
}

// expandPath expands ~ to home directory.
func expandPath(path string) (string, error) {
	if len(path) == 0 || path[0] != '~' {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}

	return filepath.Join(homeDir, path[1:]), nil
}
