// Package errors provides the standardized error model shared by the HTTP
// surface and the workflow workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

// Wizard and submission
const (
	ErrCodeValidationFailed        ErrorCode = "VALIDATION_FAILED"
	ErrCodeStepNotFinal            ErrorCode = "STEP_NOT_FINAL"
	ErrCodeUnsupportedPayloadShape ErrorCode = "UNSUPPORTED_PAYLOAD_SHAPE"
	ErrCodePayloadSchemaViolation  ErrorCode = "PAYLOAD_SCHEMA_VIOLATION"
	ErrCodeSubmissionRejected      ErrorCode = "SUBMISSION_REJECTED"
	ErrCodeInvalidRequestBody      ErrorCode = "INVALID_REQUEST_BODY"
)

// Interview session and jobs
const (
	ErrCodeJobIDRequired     ErrorCode = "JOB_ID_REQUIRED"
	ErrCodeJobNotFound       ErrorCode = "JOB_NOT_FOUND"
	ErrCodeJobLookupFailed   ErrorCode = "JOB_LOOKUP_FAILED"
	ErrCodeSearchQueryFailed ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeToastNotFound     ErrorCode = "TOAST_NOT_FOUND"
	ErrCodeRateLimited       ErrorCode = "RATE_LIMITED"
)

// Infrastructure
const (
	ErrCodeUpstreamUnavailable           ErrorCode = "UPSTREAM_UNAVAILABLE"
	ErrCodeDatabaseConnectionFailed      ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed          ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeElasticsearchConnectionFailed ErrorCode = "ELASTICSEARCH_CONNECTION_FAILED"
	ErrCodeDatabaseInsertFailed          ErrorCode = "DATABASE_INSERT_FAILED"
	ErrCodeDuplicateApplication          ErrorCode = "DUPLICATE_APPLICATION"
	ErrCodeNotificationSendFailed        ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeInternal                      ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// MetadataFields holds per-field validation errors for the API error body.
const MetadataFields = "fields"

// WithMetadata attaches a key to the error's metadata and returns the error.
func (e *StandardError) WithMetadata(key string, value interface{}) *StandardError {
	if e.Metadata == nil {
		e.Metadata = make(map[string]interface{})
	}
	e.Metadata[key] = value
	return e
}

// As extracts a *StandardError from err's chain.
func As(err error) (*StandardError, bool) {
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr, true
	}
	return nil, false
}

// Normalize always returns a StandardError, wrapping unknown errors as INTERNAL_ERROR.
func Normalize(err error) *StandardError {
	if stdErr, ok := As(err); ok {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error thrown to the workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func newError(code ErrorCode, message, details string, retryable bool) *StandardError {
	return &StandardError{
		Code:      code,
		Message:   message,
		Details:   details,
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// NewValidationFailedError reports a step or payload that failed local validation.
func NewValidationFailedError(details string) *StandardError {
	return newError(ErrCodeValidationFailed, "Validation failed", details, false)
}

// NewStepNotFinalError rejects a submission attempted before the review step.
func NewStepNotFinalError(current, final int) *StandardError {
	return newError(ErrCodeStepNotFinal, "Application can only be submitted from the review step",
		fmt.Sprintf("currentStep: %d, finalStep: %d", current, final), false)
}

func NewUnsupportedPayloadShapeError(shape string) *StandardError {
	return newError(ErrCodeUnsupportedPayloadShape, "Unsupported payload shape",
		fmt.Sprintf("shape: %s", shape), false)
}

func NewPayloadSchemaViolationError(shape string, problems []string) *StandardError {
	return newError(ErrCodePayloadSchemaViolation, "Assembled payload violates the submission contract",
		fmt.Sprintf("shape: %s, errors: %s", shape, strings.Join(problems, "; ")), false)
}

// NewSubmissionRejectedError carries a message reported by the applications API.
func NewSubmissionRejectedError(message string) *StandardError {
	return newError(ErrCodeSubmissionRejected, message, "", false)
}

func NewInvalidRequestBodyError(err error) *StandardError {
	return newError(ErrCodeInvalidRequestBody, "Invalid request body", err.Error(), false)
}

func NewJobIDRequiredError() *StandardError {
	return newError(ErrCodeJobIDRequired, "Job ID is required", "", false)
}

func NewJobNotFoundError(jobID string) *StandardError {
	return newError(ErrCodeJobNotFound, "Job not found", fmt.Sprintf("jobId: %s", jobID), false)
}

func NewJobLookupFailedError(jobID string, err error) *StandardError {
	return newError(ErrCodeJobLookupFailed, "Failed to fetch job details",
		fmt.Sprintf("jobId: %s, error: %s", jobID, err.Error()), true)
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return newError(ErrCodeSearchQueryFailed, "Job search failed",
		fmt.Sprintf("index: %s, error: %s", index, err.Error()), true)
}

func NewToastNotFoundError(id string) *StandardError {
	return newError(ErrCodeToastNotFound, "Toast not found", fmt.Sprintf("toastId: %s", id), false)
}

func NewRateLimitedError() *StandardError {
	return newError(ErrCodeRateLimited, "Too many requests", "", true)
}

func NewUpstreamUnavailableError(service string, err error) *StandardError {
	return newError(ErrCodeUpstreamUnavailable, fmt.Sprintf("Upstream service '%s' unavailable", service),
		err.Error(), true)
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseConnectionFailed, "Database connection error", err.Error(), true)
}

func NewQueryExecutionFailedError(queryType string, err error) *StandardError {
	return newError(ErrCodeQueryExecutionFailed, "Database query execution error",
		fmt.Sprintf("queryType: %s, error: %s", queryType, err.Error()), true)
}

func NewElasticsearchConnectionFailedError(err error) *StandardError {
	return newError(ErrCodeElasticsearchConnectionFailed, "Elasticsearch connection error", err.Error(), true)
}

func NewDatabaseInsertFailedError(err error) *StandardError {
	return newError(ErrCodeDatabaseInsertFailed, "Database insert operation failed", err.Error(), true)
}

func NewDuplicateApplicationError(details string) *StandardError {
	return newError(ErrCodeDuplicateApplication, "Application already exists", details, false)
}

func NewNotificationSendFailedError(channel string, err error) *StandardError {
	return newError(ErrCodeNotificationSendFailed, "Notification delivery failed",
		fmt.Sprintf("channel: %s, error: %s", channel, err.Error()), true)
}

// Generic constructors

func NewBusinessRuleError(message, details string) *StandardError {
	return newError("BUSINESS_RULE_VIOLATION", message, details, false)
}

func NewExternalServiceError(service string, err error) *StandardError {
	return newError("EXTERNAL_SERVICE_ERROR", fmt.Sprintf("External service '%s' error", service), err.Error(), true)
}

func NewTimeoutError(service string, err error) *StandardError {
	return newError("TIMEOUT_ERROR", fmt.Sprintf("Service '%s' timeout", service), err.Error(), true)
}

func NewResourceNotFoundError(service, details string) *StandardError {
	return newError("RESOURCE_NOT_FOUND", fmt.Sprintf("Resource not found in %s", service), details, false)
}

func NewAuthenticationError(details string) *StandardError {
	return newError("AUTHENTICATION_ERROR", "Authentication failed", details, false)
}

// ==========================
// 4. Conversions
// ==========================

// GetRetryCount returns the recommended retry count for worker jobs.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeDatabaseConnectionFailed,
		ErrCodeQueryExecutionFailed,
		ErrCodeDatabaseInsertFailed,
		ErrCodeNotificationSendFailed,
		ErrCodeElasticsearchConnectionFailed:
		return 3
	case ErrCodeUpstreamUnavailable, "TIMEOUT_ERROR", "EXTERNAL_SERVICE_ERROR":
		return 2
	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError for the workflow engine.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}
	return &BPMNError{
		Code:      string(stdErr.Code),
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// HTTPStatus maps an error code to the status the portal API answers with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidationFailed, ErrCodePayloadSchemaViolation:
		return http.StatusUnprocessableEntity
	case ErrCodeStepNotFinal, ErrCodeDuplicateApplication:
		return http.StatusConflict
	case ErrCodeUnsupportedPayloadShape, ErrCodeInvalidRequestBody, ErrCodeJobIDRequired:
		return http.StatusBadRequest
	case ErrCodeJobNotFound, ErrCodeToastNotFound, "RESOURCE_NOT_FOUND":
		return http.StatusNotFound
	case ErrCodeRateLimited:
		return http.StatusTooManyRequests
	case "AUTHENTICATION_ERROR":
		return http.StatusUnauthorized
	case ErrCodeSubmissionRejected, ErrCodeJobLookupFailed, ErrCodeSearchQueryFailed,
		ErrCodeUpstreamUnavailable, "EXTERNAL_SERVICE_ERROR":
		return http.StatusBadGateway
	case "TIMEOUT_ERROR":
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// ==========================
// 5. Utility Functions
// ==========================

// IsRetryableErrorCode checks if an error code is retryable.
func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.Contains(codeStr, "STEP") || strings.Contains(codeStr, "PAYLOAD") || strings.Contains(codeStr, "SUBMISSION"):
		return "WIZARD"
	case strings.HasPrefix(codeStr, "JOB") || strings.Contains(codeStr, "SEARCH") || strings.Contains(codeStr, "ELASTICSEARCH"):
		return "JOBS"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY") || strings.Contains(codeStr, "DUPLICATE"):
		return "DATABASE"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "UPSTREAM") || strings.Contains(codeStr, "EXTERNAL") || strings.Contains(codeStr, "TIMEOUT"):
		return "UPSTREAM"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}
