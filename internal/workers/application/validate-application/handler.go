// internal/workers/application/validate-application/handler.go
package validateapplication

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/metrics"
	"interview-portal/internal/common/validation"
	"interview-portal/internal/submission"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
)

const (
	TaskType = "validate-application"
)

var ErrInvalidInput = errors.New("INVALID_INPUT")

// Handler re-checks a submitted payload inside the review process. An
// invalid application completes the job with isValid=false so the process
// can route it; only unreadable input fails the job.
type Handler struct {
	config       *Config
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
}

func NewHandler(config *Config, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	ctx, cancel := context.WithTimeout(context.Background(), h.config.Timeout)
	defer cancel()

	var input Input
	if err := json.Unmarshal([]byte(job.Variables), &input); err != nil {
		h.fail(ctx, client, job, fmt.Errorf("%w: parse variables: %v", ErrInvalidInput, err))
		return
	}

	output, err := h.execute(ctx, &input)
	if err != nil {
		h.fail(ctx, client, job, err)
		return
	}

	cmd, err := client.NewCompleteJobCommand().JobKey(job.Key).VariablesFromObject(output)
	if err != nil {
		h.logger.Error("failed to create complete job command", map[string]interface{}{"error": err})
		return
	}
	if _, err := cmd.Send(ctx); err != nil {
		h.logger.Error("failed to complete job", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	stdErr := apperrors.Normalize(err)
	if errors.Is(err, ErrInvalidInput) {
		stdErr = apperrors.NewValidationFailedError(err.Error())
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

func (h *Handler) execute(_ context.Context, input *Input) (*Output, error) {
	shape, err := submission.ParseShape(input.Shape, "")
	if err != nil || shape == "" {
		return nil, fmt.Errorf("%w: unknown shape %q", ErrInvalidInput, input.Shape)
	}
	if len(input.Payload) == 0 {
		return nil, fmt.Errorf("%w: payload is required", ErrInvalidInput)
	}

	res, err := submission.CheckPayload(shape, input.Payload)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	errs := []ValidationError{}
	for _, e := range res.Errors {
		errs = append(errs, ValidationError{Field: e.Field, Code: e.Code, Message: e.Message})
	}

	email := strings.TrimSpace(input.ApplicantEmail)
	if email == "" {
		errs = append(errs, ValidationError{Field: "applicantEmail", Code: "REQUIRED", Message: "email is required"})
	} else if !validation.ValidateEmail(email) {
		errs = append(errs, ValidationError{Field: "applicantEmail", Code: "INVALID_FORMAT", Message: "email is not valid"})
	}
	if phone := strings.TrimSpace(input.ApplicantPhone); phone != "" && !validation.ValidatePhone(phone) {
		errs = append(errs, ValidationError{Field: "applicantPhone", Code: "INVALID_FORMAT", Message: "phone number is not valid"})
	}

	out := &Output{IsValid: len(errs) == 0, ValidationErrors: errs}
	h.logger.Info("application validated", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"isValid":       out.IsValid,
		"errors":        len(errs),
	})
	return out, nil
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
