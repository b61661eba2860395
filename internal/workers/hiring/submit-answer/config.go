package submitanswer

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

type Config struct {
	BaseURL             string        `mapstructure:"base_url"`
	GenerateWebhookPath string        `mapstructure:"generate_webhook_path"`
	TestWebhookPath     string        `mapstructure:"test_webhook_path"`
	UseIssuedWebhook    bool          `mapstructure:"use_issued_webhook"`
	Timeout             time.Duration `mapstructure:"timeout"`
	MaxResponseBytes    int64         `mapstructure:"max_response_bytes"`
	EvenQuery           string        `mapstructure:"even_query"`
}

func DefaultConfig() *Config {
	return &Config{
		BaseURL:             "https://bfhldevapigw.healthrx.co.in",
		GenerateWebhookPath: "/hiring/generateWebhook/JAVA",
		TestWebhookPath:     "/hiring/testWebhook/JAVA",
		Timeout:             30 * time.Second,
		MaxResponseBytes:    1 << 20,
	}
}

func (c *Config) Validate() error {
	u, err := url.ParseRequestURI(c.BaseURL)
	if err != nil || u.Host == "" {
		return fmt.Errorf("base_url must be an absolute URL")
	}
	if !strings.HasPrefix(c.GenerateWebhookPath, "/") {
		return fmt.Errorf("generate_webhook_path must start with '/'")
	}
	if !strings.HasPrefix(c.TestWebhookPath, "/") {
		return fmt.Errorf("test_webhook_path must start with '/'")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive")
	}
	if c.MaxResponseBytes <= 0 {
		return fmt.Errorf("max_response_bytes must be positive")
	}
	return nil
}

// GenerateWebhookURL is the registration endpoint.
func (c *Config) GenerateWebhookURL() string {
	return strings.TrimRight(c.BaseURL, "/") + c.GenerateWebhookPath
}

// SubmissionURL is where the answer is posted: the issued webhook when
// UseIssuedWebhook is set, the fixed test path otherwise.
func (c *Config) SubmissionURL(cred *WebhookCredential) string {
	if c.UseIssuedWebhook && cred != nil {
		return cred.WebhookURL
	}
	return strings.TrimRight(c.BaseURL, "/") + c.TestWebhookPath
}
