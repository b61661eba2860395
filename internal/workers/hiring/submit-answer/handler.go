package submitanswer

import (
	"context"
	"fmt"

	"bfh-qualifier/internal/common/config"
	"bfh-qualifier/internal/common/errors"
	httpclient "bfh-qualifier/internal/common/http"
	"bfh-qualifier/internal/common/logger"
	"bfh-qualifier/internal/common/observability"
	"bfh-qualifier/internal/models"
)

const TaskType = "hiring.answer.submit"

type Handler struct {
	config  *Config
	logger  logger.Logger
	service *Service
}

type HandlerOptions struct {
	AppConfig     *config.Config
	HTTPClient    *httpclient.Client
	Observability *observability.Observability
	CustomConfig  *Config
	Logger        logger.Logger
}

func NewHandler(opts HandlerOptions) (*Handler, error) {
	workerConfig := createConfigFromAppConfig(opts.AppConfig, opts.CustomConfig)

	if err := workerConfig.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration for submit-answer: %w", err)
	}

	var loggerInstance logger.Logger
	if opts.Logger != nil {
		loggerInstance = opts.Logger
	} else {
		loggerInstance = logger.NewStructured("info", "json")
	}
	loggerInstance = loggerInstance.With(map[string]interface{}{
		"worker": TaskType,
	})

	client := opts.HTTPClient
	if client == nil {
		client = httpclient.NewClient(workerConfig.Timeout, httpclient.WithMaxBodyBytes(workerConfig.MaxResponseBytes))
	}

	handler := &Handler{
		config: workerConfig,
		logger: loggerInstance,
	}

	handler.service = NewService(ServiceDependencies{
		Logger:        loggerInstance,
		HTTPClient:    client,
		Observability: opts.Observability,
	}, handler.config)

	return handler, nil
}

// Execute runs the workflow once for info. Failures are returned as
// *errors.StandardError; the result always carries the run ID.
func (h *Handler) Execute(ctx context.Context, info models.RegistrationInfo) (*RunResult, error) {
	result, err := h.service.Run(ctx, info)
	if err != nil {
		stdErr := errors.AsStandardError(err)
		h.logger.Debug("Run returned error", map[string]interface{}{
			"runId":     result.RunID,
			"errorCode": string(stdErr.Code),
		})
		return result, stdErr
	}
	return result, nil
}

func (h *Handler) GetTaskType() string {
	return TaskType
}

func (h *Handler) GetConfig() *Config {
	return h.config
}

func createConfigFromAppConfig(appConfig *config.Config, customConfig *Config) *Config {
	if customConfig != nil {
		return customConfig
	}

	cfg := DefaultConfig()

	if appConfig != nil {
		api := appConfig.API
		if api.BaseURL != "" {
			cfg.BaseURL = api.BaseURL
		}
		if api.GenerateWebhookPath != "" {
			cfg.GenerateWebhookPath = api.GenerateWebhookPath
		}
		if api.TestWebhookPath != "" {
			cfg.TestWebhookPath = api.TestWebhookPath
		}
		cfg.UseIssuedWebhook = api.UseIssuedWebhook
		if api.Timeout > 0 {
			cfg.Timeout = appConfig.APITimeout()
		}
		if api.MaxResponseBytes > 0 {
			cfg.MaxResponseBytes = api.MaxResponseBytes
		}
		cfg.EvenQuery = appConfig.Answer.EvenQuery
	}

	return cfg
}
