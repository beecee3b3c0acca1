// internal/workers/application/send-confirmation/handler.go
package sendconfirmation

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
	"interview-portal/internal/models"

	"github.com/camunda/zeebe/clients/go/v8/pkg/entities"
	"github.com/camunda/zeebe/clients/go/v8/pkg/worker"
	"github.com/google/uuid"
)

const (
	TaskType = "send-confirmation"
)

var (
	ErrInvalidInput           = errors.New("INVALID_INPUT")
	ErrNotificationSendFailed = errors.New("NOTIFICATION_SEND_FAILED")
)

// EmailSender is satisfied by *aws.SESClient.
type EmailSender interface {
	SendEmail(ctx context.Context, from, to, subject, textBody, htmlBody string) (string, error)
}

// SMSSender is satisfied by *aws.SNSClient.
type SMSSender interface {
	SendSMS(ctx context.Context, phone, message string) (string, error)
}

type Handler struct {
	config       *Config
	email        EmailSender
	sms          SMSSender
	logger       logger.Logger
	errorHandler *apperrors.ErrorHandler
	now          func() time.Time
}

// NewHandler accepts nil senders; the matching channel is then reported as disabled.
func NewHandler(config *Config, email EmailSender, sms SMSSender, log logger.Logger) *Handler {
	l := log.WithFields(map[string]interface{}{"taskType": TaskType})
	return &Handler{
		config:       config,
		email:        email,
		sms:          sms,
		logger:       l,
		errorHandler: apperrors.NewErrorHandler(l),
		now:          time.Now,
	}
}

func (h *Handler) Handle(client worker.JobClient, job entities.Job) {
	start := time.Now()
	defer func() {
		metrics.WorkerJobDuration.WithLabelValues(TaskType).Observe(time.Since(start).Seconds())
	}()

	h.logger.Info("processing job", map[string]interface{}{
		"jobKey":      job.Key,
		"workflowKey": job.ProcessInstanceKey,
	})

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
		h.logger.Error("failed to send complete job command", map[string]interface{}{"error": err})
		return
	}
	metrics.WorkerJobsCompleted.WithLabelValues(TaskType).Inc()
}

func (h *Handler) fail(ctx context.Context, client worker.JobClient, job entities.Job, err error) {
	var stdErr *apperrors.StandardError
	switch {
	case errors.Is(err, ErrNotificationSendFailed):
		stdErr = apperrors.NewNotificationSendFailedError(ChannelEmail, err)
	case errors.Is(err, ErrInvalidInput):
		stdErr = apperrors.NewValidationFailedError(err.Error())
	default:
		stdErr = apperrors.Normalize(err)
	}
	metrics.WorkerJobsFailed.WithLabelValues(TaskType, string(stdErr.Code)).Inc()
	h.errorHandler.HandleJobError(ctx, client, job, stdErr)
}

// execute sends the email first. An email failure fails the job so the
// engine retries it; an SMS failure is only recorded.
func (h *Handler) execute(ctx context.Context, input *Input) (*Output, error) {
	to := strings.TrimSpace(input.ApplicantEmail)
	if to == "" {
		return nil, fmt.Errorf("%w: applicantEmail is required", ErrInvalidInput)
	}

	tmpl := templates[TypeApplicationReceived]
	data := map[string]interface{}{
		"applicationId": input.ApplicationID,
		"jobId":         input.JobID,
		"applicantName": firstNonEmpty(input.ApplicantName, "there"),
	}
	sentAt := h.now().UTC().Format(time.RFC3339)

	var sent []models.Notification
	if h.config.EmailEnabled && h.email != nil {
		id, err := h.email.SendEmail(ctx, h.config.FromEmail, to,
			render(tmpl.Subject, data), render(tmpl.Body, data), render(tmpl.HTMLBody, data))
		if err != nil {
			return nil, fmt.Errorf("%w: email to %s: %v", ErrNotificationSendFailed, to, err)
		}
		sent = append(sent, h.notification(ChannelEmail, StatusSent, id, sentAt))
	}

	phone := strings.TrimSpace(input.ApplicantPhone)
	if h.config.SMSEnabled && h.sms != nil && phone != "" {
		id, err := h.sms.SendSMS(ctx, phone, smsText(data))
		if err != nil {
			h.logger.Warn("SMS send failed", map[string]interface{}{
				"error":         err,
				"applicationId": input.ApplicationID,
			})
			sent = append(sent, h.notification(ChannelSMS, StatusFailed, "", sentAt))
		} else {
			sent = append(sent, h.notification(ChannelSMS, StatusSent, id, sentAt))
		}
	}

	status := StatusDisabled
	if len(sent) > 0 {
		status = StatusFailed
	}
	for _, n := range sent {
		if n.Status == StatusSent {
			status = StatusSent
			break
		}
	}
	if sent == nil {
		sent = []models.Notification{}
	}

	h.logger.Info("confirmation processed", map[string]interface{}{
		"applicationId": input.ApplicationID,
		"status":        status,
		"channels":      len(sent),
	})
	return &Output{Status: status, Notifications: sent}, nil
}

func (h *Handler) notification(channel, status, providerID, sentAt string) models.Notification {
	return models.Notification{
		ID:       uuid.New().String(),
		Type:     TypeApplicationReceived,
		Channel:  channel,
		Status:   status,
		SentAt:   sentAt,
		Provider: providerID,
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}

func (h *Handler) Execute(ctx context.Context, input *Input) (*Output, error) {
	return h.execute(ctx, input)
}
