// Package errors provides the standardized error taxonomy for the qualifier workflow.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeConfigInvalid             ErrorCode = "CONFIG_INVALID"
	ErrCodeCredentialFailed          ErrorCode = "CREDENTIAL_ERROR"
	ErrCodeInvalidRegistrationNumber ErrorCode = "INVALID_REGISTRATION_NUMBER"
	ErrCodeUnsupportedParity         ErrorCode = "UNSUPPORTED_PARITY"
	ErrCodeSubmissionFailed          ErrorCode = "SUBMISSION_FAILED"
	ErrCodeTransport                 ErrorCode = "TRANSPORT_ERROR"
	ErrCodeInternal                  ErrorCode = "INTERNAL_ERROR"
)

// Metadata keys carried by SUBMISSION_FAILED errors.
const (
	MetaStatusCode = "statusCode"
	MetaBody       = "body"
	MetaAuthScheme = "authScheme"
	MetaCall       = "call"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`

	cause error
}

func (e *StandardError) Error() string {
	if e.Details != "" {
		return fmt.Sprintf("StandardError[%s]: %s: %s", e.Code, e.Message, e.Details)
	}
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

func (e *StandardError) Unwrap() error {
	return e.cause
}

// Is reports a match when target is a StandardError with the same code, so
// the sentinels below work with errors.Is.
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrConfigInvalid             = &StandardError{Code: ErrCodeConfigInvalid}
	ErrCredential                = &StandardError{Code: ErrCodeCredentialFailed}
	ErrInvalidRegistrationNumber = &StandardError{Code: ErrCodeInvalidRegistrationNumber}
	ErrUnsupportedParity         = &StandardError{Code: ErrCodeUnsupportedParity}
	ErrSubmission                = &StandardError{Code: ErrCodeSubmissionFailed}
	ErrTransport                 = &StandardError{Code: ErrCodeTransport}
)

// ==========================
// 2. Error Constructors
// ==========================

// NewConfigInvalidError wraps a configuration validation failure.
func NewConfigInvalidError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeConfigInvalid,
		Message:   "Configuration rejected",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// NewCredentialError reports a registration call that did not yield a usable
// webhook and access token.
func NewCredentialError(details string, cause error) *StandardError {
	return &StandardError{
		Code:      ErrCodeCredentialFailed,
		Message:   "Failed to obtain webhook or accessToken",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     cause,
	}
}

func NewInvalidRegistrationNumberError(regNo string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidRegistrationNumber,
		Message:   "Registration number must contain at least two digits",
		Details:   fmt.Sprintf("regNo: %q", regNo),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewUnsupportedParityError(lastTwo string) *StandardError {
	return &StandardError{
		Code:      ErrCodeUnsupportedParity,
		Message:   "No answer query defined for even registration numbers",
		Details:   fmt.Sprintf("lastTwoDigits: %s", lastTwo),
		Retryable: false,
		Metadata: map[string]interface{}{
			"lastTwoDigits": lastTwo,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewSubmissionError carries the status and body of the final submission attempt.
func NewSubmissionError(statusCode int, body, authScheme string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSubmissionFailed,
		Message:   fmt.Sprintf("Submission failed (%d)", statusCode),
		Details:   body,
		Retryable: false,
		Metadata: map[string]interface{}{
			MetaStatusCode: statusCode,
			MetaBody:       body,
			MetaAuthScheme: authScheme,
		},
		Timestamp: time.Now().UTC(),
	}
}

// NewTransportError wraps a connection-level failure for the named call.
func NewTransportError(call string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeTransport,
		Message:   fmt.Sprintf("Transport failure during '%s'", call),
		Details:   err.Error(),
		Retryable: false,
		Metadata: map[string]interface{}{
			MetaCall: call,
		},
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// ==========================
// 3. Utility Functions
// ==========================

// AsStandardError unwraps err into a StandardError, wrapping unknown errors
// as INTERNAL_ERROR.
func AsStandardError(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
		cause:     err,
	}
}

// StatusCode returns the HTTP status carried by a SUBMISSION_FAILED error.
func StatusCode(err error) (int, bool) {
	var stdErr *StandardError
	if !stderrors.As(err, &stdErr) || stdErr.Metadata == nil {
		return 0, false
	}
	code, ok := stdErr.Metadata[MetaStatusCode].(int)
	return code, ok
}

// ExitCode maps an error code to the process exit status.
func ExitCode(code ErrorCode) int {
	switch code {
	case ErrCodeConfigInvalid:
		return 2
	case ErrCodeCredentialFailed:
		return 3
	case ErrCodeInvalidRegistrationNumber:
		return 4
	case ErrCodeUnsupportedParity:
		return 5
	case ErrCodeSubmissionFailed:
		return 6
	case ErrCodeTransport:
		return 7
	default:
		return 1
	}
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "CONFIG"):
		return "CONFIGURATION"
	case strings.Contains(codeStr, "CREDENTIAL"):
		return "REGISTRATION"
	case strings.Contains(codeStr, "REGISTRATION_NUMBER") || strings.Contains(codeStr, "PARITY"):
		return "ANSWER"
	case strings.Contains(codeStr, "SUBMISSION"):
		return "SUBMISSION"
	case strings.Contains(codeStr, "TRANSPORT"):
		return "NETWORK"
	default:
		return "OTHER"
	}
}
