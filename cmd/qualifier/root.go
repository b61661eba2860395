package main

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"

	"bfh-qualifier/internal/common/config"
	"bfh-qualifier/internal/common/errors"
	httpclient "bfh-qualifier/internal/common/http"
	"bfh-qualifier/internal/common/logger"
	"bfh-qualifier/internal/common/metrics"
	"bfh-qualifier/internal/common/observability"
	submitanswer "bfh-qualifier/internal/workers/hiring/submit-answer"
)

type rootOptions struct {
	configFile string
	dryRun     bool
	logLevel   string
}

// exitCodeError carries a non-zero process exit status out of cobra.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("qualifier exited with status %d", e.code)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "qualifier",
		Short:         "Register for the hiring challenge and submit the SQL answer",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(c *cobra.Command, _ []string) error {
			overrides := map[string]interface{}{}
			if c.Flags().Changed("dry-run") {
				overrides["submission.dry_run"] = opts.dryRun
			}
			if opts.logLevel != "" {
				overrides["logging.level"] = opts.logLevel
			}

			if code := run(c.Context(), opts.configFile, overrides); code != 0 {
				return &exitCodeError{code: code}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&opts.configFile, "config", "", "path to a YAML config file (default: search ./configs)")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "derive the answer without submitting it")
	cmd.Flags().StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn or error")
	return cmd
}

// run executes one qualifier flow and returns the process exit status.
func run(ctx context.Context, configFile string, overrides map[string]interface{}) int {
	cfg, err := config.LoadWithOptions(config.LoadOptions{
		ConfigFile: configFile,
		Overrides:  overrides,
	})
	if err != nil {
		if !stderrors.Is(err, errors.ErrConfigInvalid) {
			err = errors.NewConfigInvalidError(err)
		}
		bootstrap := logger.NewStructured("info", "console")
		return errors.NewErrorHandler(bootstrap).HandleRunError("", err)
	}

	zapLog, err := logger.New(logger.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Output: cfg.Logging.Output,
	})
	if err != nil {
		bootstrap := logger.NewStructured("info", "console")
		return errors.NewErrorHandler(bootstrap).HandleRunError("", errors.NewConfigInvalidError(err))
	}
	defer zapLog.Sync()

	log := logger.NewZapAdapter(zapLog).With(map[string]interface{}{
		"app":     cfg.App.Name,
		"version": cfg.App.Version,
	})

	obs := observability.New(cfg.App.Name, observability.WithRegisterer(metrics.Registry))
	defer obs.Shutdown()

	client := httpclient.NewClient(cfg.APITimeout(), httpclient.WithMaxBodyBytes(cfg.API.MaxResponseBytes))

	handler, err := submitanswer.NewHandler(submitanswer.HandlerOptions{
		AppConfig:     cfg,
		HTTPClient:    client,
		Observability: obs,
		Logger:        log,
	})
	if err != nil {
		return errors.NewErrorHandler(log).HandleRunError("", errors.NewConfigInvalidError(err))
	}

	result, runErr := handler.Execute(ctx, cfg.RegistrationInfo())

	if err := metrics.WriteTextfile(cfg.Metrics.TextfilePath); err != nil {
		log.Warn("Failed to write metrics textfile", map[string]interface{}{
			"path":  cfg.Metrics.TextfilePath,
			"error": err.Error(),
		})
	}

	code := errors.NewErrorHandler(log).HandleRunError(result.RunID, runErr)
	if code == 0 {
		log.Info("Qualifier flow completed", map[string]interface{}{
			"runId":     result.RunID,
			"submitted": result.Submitted,
			"attempts":  len(result.Attempts),
		})
	}
	return code
}
