// internal/common/config/loader.go
package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/afero"
	"github.com/spf13/viper"

	"bfh-qualifier/internal/common/errors"
	"bfh-qualifier/internal/common/validation"
)

const (
	DefaultBaseURL             = "https://bfhldevapigw.healthrx.co.in"
	DefaultGenerateWebhookPath = "/hiring/generateWebhook/JAVA"
	DefaultTestWebhookPath     = "/hiring/testWebhook/JAVA"
)

// LoadOptions tunes where configuration is read from.
type LoadOptions struct {
	// Fs is the filesystem YAML files are read from. Defaults to the OS.
	Fs afero.Fs
	// ConfigFile, when set, is read instead of searching SearchPaths.
	ConfigFile string
	// SearchPaths defaults to ./configs, ../../configs and the working dir.
	SearchPaths []string
	// SkipDotEnv disables .env discovery.
	SkipDotEnv bool
	// Overrides are applied last, after files and environment.
	Overrides map[string]interface{}
}

// Load reads config.yaml, the environment specific config.<env>.yaml and the
// environment, in that order of precedence (lowest first).
func Load() (*Config, error) {
	return LoadWithOptions(LoadOptions{})
}

// LoadFromFile loads configuration from a specific file path
func LoadFromFile(path string) (*Config, error) {
	return LoadWithOptions(LoadOptions{ConfigFile: path})
}

func LoadWithOptions(opts LoadOptions) (*Config, error) {
	if !opts.SkipDotEnv {
		loadEnvFile()
	}

	fs := opts.Fs
	if fs == nil {
		fs = afero.NewOsFs()
	}

	v := viper.New()
	v.SetFs(fs)
	v.SetConfigType("yaml")
	setDefaults(v)

	// Enable ENV override like APPLICANT_REG_NO
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		searchPaths := opts.SearchPaths
		if len(searchPaths) == 0 {
			searchPaths = []string{"./configs", "../../configs", "."}
		}
		for _, p := range searchPaths {
			v.AddConfigPath(p)
		}

		v.SetConfigName("config")
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return nil, fmt.Errorf("error reading base config: %w", err)
			}
		}

		env := v.GetString("app.environment")
		v.SetConfigName(fmt.Sprintf("config.%s", env))
		_ = v.MergeInConfig() // optional
	}

	expandEnvVars(v)

	for key, value := range opts.Overrides {
		v.Set(key, value)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, errors.NewConfigInvalidError(err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "bfh-qualifier")
	v.SetDefault("app.version", "dev")
	v.SetDefault("app.environment", "development")

	// Registered with empty values so AutomaticEnv can resolve them on Unmarshal.
	v.SetDefault("applicant.name", "")
	v.SetDefault("applicant.reg_no", "")
	v.SetDefault("applicant.email", "")
	v.SetDefault("answer.even_query", "")
	v.SetDefault("metrics.textfile_path", "")

	v.SetDefault("submission.dry_run", false)

	v.SetDefault("api.base_url", DefaultBaseURL)
	v.SetDefault("api.generate_webhook_path", DefaultGenerateWebhookPath)
	v.SetDefault("api.test_webhook_path", DefaultTestWebhookPath)
	v.SetDefault("api.use_issued_webhook", false)
	v.SetDefault("api.timeout", 30000)
	v.SetDefault("api.max_response_bytes", 1<<20)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.output", "stdout")
}

// loadEnvFile loads the first .env found walking up from the working
// directory, or from the module root. It returns the path loaded, if any.
func loadEnvFile() string {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return path
			}
		}
	}

	return ""
}

// Find project root by looking for go.mod
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

// expandEnvVars resolves ${VAR} placeholders in string values.
func expandEnvVars(v *viper.Viper) {
	for _, key := range v.AllKeys() {
		strVal, ok := v.Get(key).(string)
		if !ok {
			continue
		}
		if strings.Contains(strVal, "${") {
			// Unset variables expand to "", so required checks reject them.
			v.Set(key, os.ExpandEnv(strVal))
			continue
		}
		if strings.HasPrefix(strVal, "$") && len(strVal) > 1 {
			expanded := os.ExpandEnv(strVal)
			if expanded != strVal && expanded != "" {
				v.Set(key, expanded)
			}
		}
	}
}

// applyDefaults normalises values that survive unmarshalling empty or untidy.
func applyDefaults(cfg *Config) {
	cfg.Applicant.Name = strings.TrimSpace(cfg.Applicant.Name)
	cfg.Applicant.RegNo = strings.TrimSpace(cfg.Applicant.RegNo)
	cfg.Applicant.Email = strings.TrimSpace(cfg.Applicant.Email)
	cfg.Answer.EvenQuery = strings.TrimSpace(cfg.Answer.EvenQuery)

	if cfg.API.BaseURL == "" {
		cfg.API.BaseURL = DefaultBaseURL
	}
	cfg.API.BaseURL = strings.TrimRight(cfg.API.BaseURL, "/")

	if cfg.API.GenerateWebhookPath == "" {
		cfg.API.GenerateWebhookPath = DefaultGenerateWebhookPath
	}
	if cfg.API.TestWebhookPath == "" {
		cfg.API.TestWebhookPath = DefaultTestWebhookPath
	}
	if cfg.API.Timeout == 0 {
		cfg.API.Timeout = 30000
	}
	if cfg.API.MaxResponseBytes == 0 {
		cfg.API.MaxResponseBytes = 1 << 20
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}

// validateConfig validates critical configuration fields
func validateConfig(cfg *Config) error {
	if cfg.Applicant.Name == "" {
		return fmt.Errorf("applicant.name is required")
	}
	if cfg.Applicant.RegNo == "" {
		return fmt.Errorf("applicant.reg_no is required")
	}
	if cfg.Applicant.Email == "" {
		return fmt.Errorf("applicant.email is required")
	}
	if !validation.ValidateEmail(cfg.Applicant.Email) {
		return fmt.Errorf("applicant.email %q is not a valid email address", cfg.Applicant.Email)
	}

	u, err := url.ParseRequestURI(cfg.API.BaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("api.base_url %q must be an absolute http(s) URL", cfg.API.BaseURL)
	}
	if !strings.HasPrefix(cfg.API.GenerateWebhookPath, "/") {
		return fmt.Errorf("api.generate_webhook_path must start with '/'")
	}
	if !strings.HasPrefix(cfg.API.TestWebhookPath, "/") {
		return fmt.Errorf("api.test_webhook_path must start with '/'")
	}
	if cfg.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must be positive")
	}
	if cfg.API.MaxResponseBytes < 0 {
		return fmt.Errorf("api.max_response_bytes must be positive")
	}

	switch cfg.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be 'json' or 'console', got %q", cfg.Logging.Format)
	}

	return nil
}

// GetDuration converts milliseconds from config to time.Duration
func GetDuration(milliseconds int) time.Duration {
	return time.Duration(milliseconds) * time.Millisecond
}
