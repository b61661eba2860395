// internal/common/errors/handler.go
package errors

// ErrorHandler reports a failed run and decides the process exit status.
type ErrorHandler struct {
	logger Logger
}

type Logger interface {
	Error(msg string, fields map[string]interface{})
}

func NewErrorHandler(logger Logger) *ErrorHandler {
	return &ErrorHandler{logger: logger}
}

// HandleRunError logs err with its code and category and returns the exit
// code for it. A nil error yields 0.
func (h *ErrorHandler) HandleRunError(runID string, err error) int {
	if err == nil {
		return 0
	}

	stdErr := AsStandardError(err)
	h.logError(runID, stdErr)

	return ExitCode(stdErr.Code)
}

func (h *ErrorHandler) logError(runID string, stdErr *StandardError) {
	fields := map[string]interface{}{
		"runId":         runID,
		"errorCode":     string(stdErr.Code),
		"message":       stdErr.Message,
		"details":       stdErr.Details,
		"retryable":     stdErr.Retryable,
		"errorCategory": GetErrorCategory(stdErr.Code),
	}
	for k, v := range stdErr.Metadata {
		if _, exists := fields[k]; !exists {
			fields[k] = v
		}
	}
	h.logger.Error("Run failed", fields)
}
