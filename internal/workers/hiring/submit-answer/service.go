package submitanswer

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"bfh-qualifier/internal/common/errors"
	httpclient "bfh-qualifier/internal/common/http"
	"bfh-qualifier/internal/common/logger"
	"bfh-qualifier/internal/common/metrics"
	"bfh-qualifier/internal/common/observability"
	"bfh-qualifier/internal/common/validation"
	"bfh-qualifier/internal/models"
)

type Service struct {
	config *Config
	logger logger.Logger
	client *httpclient.Client
	obs    *observability.Observability
}

func NewService(deps ServiceDependencies, config *Config) *Service {
	client := deps.HTTPClient
	if client == nil {
		client = httpclient.NewClient(config.Timeout, httpclient.WithMaxBodyBytes(config.MaxResponseBytes))
	}
	log := deps.Logger
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Service{
		config: config,
		logger: log,
		client: client,
		obs:    deps.Observability,
	}
}

// RequestWebhookCredential registers the applicant and returns the issued
// webhook and access token.
func (s *Service) RequestWebhookCredential(ctx context.Context, info models.RegistrationInfo) (*WebhookCredential, error) {
	ctx, span := s.obs.StartSpan(ctx, "generate_webhook")
	defer span.End()

	endpoint := s.config.GenerateWebhookURL()
	s.logger.Info("Requesting webhook", map[string]interface{}{
		"url":   endpoint,
		"regNo": info.RegistrationNumber(),
	})

	start := time.Now()
	resp, err := s.client.PostJSON(ctx, endpoint, nil, RegistrationRequest{
		Name:  info.Name(),
		RegNo: info.RegistrationNumber(),
		Email: info.Email(),
	})
	observeCall(metrics.CallGenerateWebhook, resp, start)
	if err != nil {
		return nil, spanError(span, errors.NewTransportError(metrics.CallGenerateWebhook, err))
	}
	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, spanError(span, errors.NewCredentialError(
			fmt.Sprintf("registration returned status %d: %s", resp.StatusCode, string(resp.Body)), nil))
	}
	if len(strings.TrimSpace(string(resp.Body))) == 0 {
		return nil, spanError(span, errors.NewCredentialError("registration returned an empty body", nil))
	}

	result, err := validation.ValidateDocument(resp.Body, GetWebhookResponseSchema())
	if err != nil {
		return nil, spanError(span, errors.NewCredentialError("registration response is not valid JSON", err))
	}
	if !result.Valid {
		return nil, spanError(span, errors.NewCredentialError(
			strings.Join(result.GetErrorMessages(), "; "), nil))
	}

	var body WebhookResponse
	if err := json.Unmarshal(resp.Body, &body); err != nil {
		return nil, spanError(span, errors.NewCredentialError("registration response could not be decoded", err))
	}

	s.logger.Info("Received webhook", map[string]interface{}{
		"webhook":     body.Webhook,
		"accessToken": logger.MaskSecret(body.AccessToken),
	})

	return &WebhookCredential{
		WebhookURL:  body.Webhook,
		AccessToken: body.AccessToken,
	}, nil
}

// DeriveAnswerQuery resolves the answer for regNo using the configured even
// query.
func (s *Service) DeriveAnswerQuery(regNo string) (string, error) {
	return DeriveAnswerQuery(regNo, s.config.EvenQuery)
}

// SubmitAnswer posts query to webhookURL once. Every HTTP status is returned
// as an outcome; only transport failures are errors.
func (s *Service) SubmitAnswer(ctx context.Context, webhookURL, token, query string, useBearer bool) (*SubmissionOutcome, error) {
	scheme := AuthSchemeRaw
	authorization := token
	if useBearer {
		scheme = AuthSchemeBearer
		authorization = "Bearer " + token
	}

	ctx, span := s.obs.StartSpan(ctx, "submit_answer", attribute.String("auth_scheme", scheme))
	defer span.End()

	start := time.Now()
	resp, err := s.client.PostJSON(ctx, webhookURL, map[string]string{
		"Authorization": authorization,
	}, SubmissionRequest{FinalQuery: query})
	observeCall(metrics.CallSubmitAnswer, resp, start)
	if err != nil {
		metrics.SubmissionAttempts.WithLabelValues(scheme, "transport_error").Inc()
		return nil, spanError(span, errors.NewTransportError(metrics.CallSubmitAnswer, err))
	}

	span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
	metrics.SubmissionAttempts.WithLabelValues(scheme, attemptOutcome(resp.StatusCode)).Inc()

	return &SubmissionOutcome{
		StatusCode: resp.StatusCode,
		Body:       string(resp.Body),
		AuthScheme: scheme,
	}, nil
}

// Run registers, derives the answer and submits it. A 401 on the first
// attempt is retried once with a Bearer prefix; nothing else is retried.
func (s *Service) Run(ctx context.Context, info models.RegistrationInfo) (*RunResult, error) {
	result := &RunResult{RunID: uuid.NewString()}
	log := s.logger.With(map[string]interface{}{"runId": result.RunID})
	svc := *s
	svc.logger = log

	ctx, span := s.obs.StartSpan(ctx, "qualifier.run",
		attribute.String("run.id", result.RunID),
		attribute.Bool("dry_run", info.DryRun()),
	)
	defer span.End()

	start := time.Now()
	outcome := "failed"
	defer func() {
		s.obs.RecordRun(ctx, outcome, time.Since(start))
	}()

	log.Info("Starting qualifier flow", map[string]interface{}{
		"name":   info.Name(),
		"regNo":  info.RegistrationNumber(),
		"dryRun": info.DryRun(),
	})

	cred, err := svc.RequestWebhookCredential(ctx, info)
	if err != nil {
		return result, spanError(span, err)
	}

	query, err := svc.DeriveAnswerQuery(info.RegistrationNumber())
	if err != nil {
		return result, spanError(span, err)
	}
	result.Query = query
	log.Info("Prepared SQL", map[string]interface{}{"finalQuery": query})

	if info.DryRun() {
		outcome = "dry_run"
		log.Info("Dry run enabled; skipping submission", map[string]interface{}{
			"target": s.config.SubmissionURL(cred),
		})
		return result, nil
	}

	target := s.config.SubmissionURL(cred)
	result.Submitted = true

	first, err := svc.SubmitAnswer(ctx, target, cred.AccessToken, query, false)
	if err != nil {
		return result, spanError(span, err)
	}
	first.Attempt = 1
	result.Attempts = append(result.Attempts, *first)

	if isAccepted(first.StatusCode) {
		outcome = "submitted"
		log.Info("Submission succeeded", map[string]interface{}{
			"statusCode": first.StatusCode,
			"authScheme": first.AuthScheme,
			"body":       first.Body,
		})
		return result, nil
	}

	if first.StatusCode != http.StatusUnauthorized {
		return result, spanError(span, errors.NewSubmissionError(first.StatusCode, first.Body, first.AuthScheme))
	}

	log.Warn("Submission unauthorized; retrying with Bearer prefix", map[string]interface{}{
		"statusCode": first.StatusCode,
	})

	second, err := svc.SubmitAnswer(ctx, target, cred.AccessToken, query, true)
	if err != nil {
		return result, spanError(span, err)
	}
	second.Attempt = 2
	result.Attempts = append(result.Attempts, *second)

	if !isAccepted(second.StatusCode) {
		return result, spanError(span, errors.NewSubmissionError(second.StatusCode, second.Body, second.AuthScheme))
	}

	outcome = "submitted"
	log.Info("Submission succeeded", map[string]interface{}{
		"statusCode": second.StatusCode,
		"authScheme": second.AuthScheme,
		"body":       second.Body,
	})
	return result, nil
}

func isAccepted(statusCode int) bool {
	return statusCode == http.StatusOK || statusCode == http.StatusCreated
}

func attemptOutcome(statusCode int) string {
	switch {
	case isAccepted(statusCode):
		return "accepted"
	case statusCode == http.StatusUnauthorized:
		return "unauthorized"
	default:
		return "rejected"
	}
}

func observeCall(call string, resp *httpclient.Response, start time.Time) {
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	metrics.HTTPRequestsTotal.WithLabelValues(call, metrics.StatusLabel(status)).Inc()
	metrics.HTTPRequestDuration.WithLabelValues(call).Observe(time.Since(start).Seconds())
}

func spanError(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
