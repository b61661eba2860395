// internal/common/config/config.go
package config

import (
	"time"

	"bfh-qualifier/internal/models"
)

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig        `mapstructure:"app"`
	Applicant  ApplicantConfig  `mapstructure:"applicant"`
	Submission SubmissionConfig `mapstructure:"submission"`
	API        APIConfig        `mapstructure:"api"`
	Answer     AnswerConfig     `mapstructure:"answer"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Metrics    MetricsConfig    `mapstructure:"metrics"`
}

// --- Core App Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

// ApplicantConfig identifies the candidate being registered.
type ApplicantConfig struct {
	Name  string `mapstructure:"name"`
	RegNo string `mapstructure:"reg_no"`
	Email string `mapstructure:"email"`
}

type SubmissionConfig struct {
	DryRun bool `mapstructure:"dry_run"`
}

// APIConfig describes the hiring API endpoints.
type APIConfig struct {
	BaseURL             string `mapstructure:"base_url"`
	GenerateWebhookPath string `mapstructure:"generate_webhook_path"`
	TestWebhookPath     string `mapstructure:"test_webhook_path"`
	UseIssuedWebhook    bool   `mapstructure:"use_issued_webhook"`
	Timeout             int    `mapstructure:"timeout"` // milliseconds
	MaxResponseBytes    int64  `mapstructure:"max_response_bytes"`
}

// AnswerConfig holds operator overrides for the derived SQL answer.
type AnswerConfig struct {
	EvenQuery string `mapstructure:"even_query"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// MetricsConfig controls the Prometheus textfile written at the end of a run.
type MetricsConfig struct {
	TextfilePath string `mapstructure:"textfile_path"`
}

// RegistrationInfo builds the immutable run input from the applicant settings.
func (c *Config) RegistrationInfo() models.RegistrationInfo {
	return models.NewRegistrationInfo(
		c.Applicant.Name,
		c.Applicant.RegNo,
		c.Applicant.Email,
		c.Submission.DryRun,
	)
}

// APITimeout returns the per-request timeout as a duration.
func (c *Config) APITimeout() time.Duration {
	return GetDuration(c.API.Timeout)
}
