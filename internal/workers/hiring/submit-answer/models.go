package submitanswer

import (
	httpclient "bfh-qualifier/internal/common/http"
	"bfh-qualifier/internal/common/logger"
	"bfh-qualifier/internal/common/observability"
)

const (
	AuthSchemeRaw    = "raw"
	AuthSchemeBearer = "bearer"
)

// RegistrationRequest is the body of the generateWebhook call.
type RegistrationRequest struct {
	Name  string `json:"name"`
	RegNo string `json:"regNo"`
	Email string `json:"email"`
}

type WebhookResponse struct {
	Webhook     string `json:"webhook"`
	AccessToken string `json:"accessToken"`
}

type SubmissionRequest struct {
	FinalQuery string `json:"finalQuery"`
}

// WebhookCredential is what a successful registration issues. Both fields
// are non-empty.
type WebhookCredential struct {
	WebhookURL  string
	AccessToken string
}

// SubmissionOutcome is the result of one submission attempt.
type SubmissionOutcome struct {
	StatusCode int
	Body       string
	AuthScheme string
	Attempt    int
}

// RunResult summarises a run. RunID is always set, even when the run fails.
type RunResult struct {
	RunID     string
	Query     string
	Submitted bool
	Attempts  []SubmissionOutcome
}

type ServiceDependencies struct {
	Logger        logger.Logger
	HTTPClient    *httpclient.Client
	Observability *observability.Observability
}
