package submitanswer

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bfh-qualifier/internal/common/config"
	"bfh-qualifier/internal/common/errors"
	"bfh-qualifier/internal/common/logger"
)

// ==========================
// Handler Creation Tests
// ==========================

func TestHandler_NewHandler(t *testing.T) {
	tests := []struct {
		name    string
		opts    HandlerOptions
		wantErr bool
		errMsg  string
	}{
		{
			name: "defaults",
			opts: HandlerOptions{Logger: logger.NewNoOpLogger()},
		},
		{
			name: "custom config",
			opts: HandlerOptions{
				CustomConfig: createTestConfig("http://localhost:8080"),
				Logger:       logger.NewNoOpLogger(),
			},
		},
		{
			name: "invalid base url",
			opts: HandlerOptions{
				CustomConfig: createTestConfig("not a url"),
			},
			wantErr: true,
			errMsg:  "base_url",
		},
		{
			name: "zero timeout",
			opts: HandlerOptions{
				CustomConfig: &Config{
					BaseURL:             "http://localhost",
					GenerateWebhookPath: "/a",
					TestWebhookPath:     "/b",
					MaxResponseBytes:    1,
				},
			},
			wantErr: true,
			errMsg:  "timeout",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := NewHandler(tt.opts)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, TaskType, h.GetTaskType())
		})
	}
}

func TestCreateConfigFromAppConfig(t *testing.T) {
	appCfg := &config.Config{
		API: config.APIConfig{
			BaseURL:             "http://api.test",
			GenerateWebhookPath: "/gen",
			TestWebhookPath:     "/test",
			UseIssuedWebhook:    true,
			Timeout:             1500,
			MaxResponseBytes:    4096,
		},
		Answer: config.AnswerConfig{EvenQuery: "SELECT 2;"},
	}

	cfg := createConfigFromAppConfig(appCfg, nil)
	assert.Equal(t, "http://api.test", cfg.BaseURL)
	assert.Equal(t, "http://api.test/gen", cfg.GenerateWebhookURL())
	assert.Equal(t, "/test", cfg.TestWebhookPath)
	assert.True(t, cfg.UseIssuedWebhook)
	assert.Equal(t, 1500*time.Millisecond, cfg.Timeout)
	assert.Equal(t, int64(4096), cfg.MaxResponseBytes)
	assert.Equal(t, "SELECT 2;", cfg.EvenQuery)

	custom := DefaultConfig()
	assert.Same(t, custom, createConfigFromAppConfig(appCfg, custom))

	defaults := createConfigFromAppConfig(nil, nil)
	assert.Equal(t, DefaultConfig(), defaults)
}

func TestConfig_SubmissionURL(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseURL = "http://api.test/"
	cred := &WebhookCredential{WebhookURL: "http://issued.test/hook", AccessToken: "t"}

	assert.Equal(t, "http://api.test/hiring/testWebhook/JAVA", cfg.SubmissionURL(cred))

	cfg.UseIssuedWebhook = true
	assert.Equal(t, "http://issued.test/hook", cfg.SubmissionURL(cred))
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		api, server := newFakeHiringAPI(t, http.StatusOK)
		h, err := NewHandler(HandlerOptions{
			CustomConfig: createTestConfig(server.URL),
			Logger:       logger.NewTestLogger(t),
		})
		require.NoError(t, err)

		result, err := h.Execute(context.Background(), oddRegistration(false))
		require.NoError(t, err)
		assert.NotEmpty(t, result.RunID)
		assert.Len(t, api.submissions, 1)
	})

	t.Run("failure is a standard error", func(t *testing.T) {
		_, server := newFakeHiringAPI(t, http.StatusInternalServerError)
		h, err := NewHandler(HandlerOptions{
			CustomConfig: createTestConfig(server.URL),
			Logger:       logger.NewTestLogger(t),
		})
		require.NoError(t, err)

		result, err := h.Execute(context.Background(), oddRegistration(false))
		require.Error(t, err)
		assert.NotEmpty(t, result.RunID)

		stdErr, ok := err.(*errors.StandardError)
		require.True(t, ok)
		assert.Equal(t, errors.ErrCodeSubmissionFailed, stdErr.Code)
		assert.Equal(t, 6, errors.ExitCode(stdErr.Code))
	})
}
