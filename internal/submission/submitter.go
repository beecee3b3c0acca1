// internal/submission/submitter.go
package submission

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	apperrors "interview-portal/internal/common/errors"
	commonhttp "interview-portal/internal/common/http"
	"interview-portal/internal/common/logger"
	"interview-portal/internal/common/metrics"
	"interview-portal/internal/common/observability"
	"interview-portal/internal/wizard"
)

// ProcessStarter starts a workflow instance. *camunda.Client satisfies it.
type ProcessStarter interface {
	StartProcess(ctx context.Context, processID string, variables interface{}) (int64, error)
}

type Config struct {
	LegacyPath string
	NestedPath string
	ProcessID  string
}

// Meta carries request context that is not part of the form document.
type Meta struct {
	JobID     string
	ClientID  string
	RequestID string
}

// Receipt is returned to the client after a successful submission.
type Receipt struct {
	ApplicationID      string          `json:"applicationId"`
	Shape              Shape           `json:"shape"`
	ProcessInstanceKey int64           `json:"processInstanceKey,omitempty"`
	Payload            json.RawMessage `json:"payload"`
}

type Submitter struct {
	client  *commonhttp.Client
	process ProcessStarter
	obs     *observability.Observability
	cfg     Config
	log     logger.Logger
}

// NewSubmitter wires the upstream client. process and obs may be nil.
func NewSubmitter(client *commonhttp.Client, process ProcessStarter, obs *observability.Observability, cfg Config, log logger.Logger) *Submitter {
	if cfg.LegacyPath == "" {
		cfg.LegacyPath = "/api/v1/applications"
	}
	if cfg.NestedPath == "" {
		cfg.NestedPath = "/api/v2/applications"
	}
	if cfg.ProcessID == "" {
		cfg.ProcessID = "application-review"
	}
	return &Submitter{client: client, process: process, obs: obs, cfg: cfg, log: log}
}

func (s *Submitter) path(shape Shape) string {
	if shape == ShapeLegacy {
		return s.cfg.LegacyPath
	}
	return s.cfg.NestedPath
}

// Submit assembles the final payload and forwards it upstream. It refuses
// any state that is not on the review step, and any document that fails a
// step check, since the posted cursor is client supplied.
func (s *Submitter) Submit(ctx context.Context, state wizard.FormState, shape Shape, meta Meta) (*Receipt, error) {
	log := s.log.WithFields(map[string]interface{}{
		"job_id":     meta.JobID,
		"client_id":  meta.ClientID,
		"request_id": meta.RequestID,
		"shape":      string(shape),
	})

	if state.CurrentStep != wizard.FinalStep {
		metrics.SubmissionsTotal.WithLabelValues(string(shape), "refused").Inc()
		return nil, apperrors.NewStepNotFinalError(state.CurrentStep, wizard.FinalStep)
	}
	if res := wizard.ValidateAll(state.Data); !res.CanAdvance {
		metrics.SubmissionsTotal.WithLabelValues(string(shape), "incomplete").Inc()
		log.Warn("Submission failed step validation", map[string]interface{}{
			"first_failing_step": res.Step,
			"error_count":        len(res.Errors),
		})
		return nil, apperrors.NewValidationFailedError(
			fmt.Sprintf("step %d is incomplete", res.Step),
		).WithMetadata(apperrors.MetadataFields, res.Errors)
	}

	data := withJobID(state, meta.JobID)
	payload, err := Assemble(data.Data, shape)
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(shape), "invalid").Inc()
		log.Warn("Payload assembly failed", map[string]interface{}{"error": err})
		return nil, err
	}

	start := time.Now()
	env, status, err := s.client.DoJSON(ctx, commonhttp.Request{
		Method:  http.MethodPost,
		Path:    s.path(shape),
		Body:    payload.Body,
		Headers: http.Header{"X-Request-ID": []string{meta.RequestID}},
	})
	s.obs.RecordUpstreamCall(ctx, "submit_application", err == nil && env != nil && env.Error == "")
	if err != nil {
		metrics.SubmissionsTotal.WithLabelValues(string(shape), "upstream_error").Inc()
		log.Error("Submission forward failed", map[string]interface{}{"error": err, "status": status})
		return nil, apperrors.NewUpstreamUnavailableError("applications", err)
	}
	if env.Error != "" {
		metrics.SubmissionsTotal.WithLabelValues(string(shape), "rejected").Inc()
		log.Warn("Submission rejected upstream", map[string]interface{}{"message": env.Error, "status": status})
		return nil, apperrors.NewSubmissionRejectedError(env.Error)
	}

	receipt := &Receipt{
		ApplicationID: applicationID(env),
		Shape:         shape,
		Payload:       payload.Body,
	}
	log.Info("Application submitted", map[string]interface{}{
		"application_id": receipt.ApplicationID,
		"duration_ms":    time.Since(start).Milliseconds(),
	})
	metrics.SubmissionsTotal.WithLabelValues(string(shape), "accepted").Inc()

	receipt.ProcessInstanceKey = s.startReview(ctx, data, receipt, log)
	return receipt, nil
}

// startReview is best effort: the submission already succeeded upstream.
func (s *Submitter) startReview(ctx context.Context, state wizard.FormState, receipt *Receipt, log logger.Logger) int64 {
	if s.process == nil {
		return 0
	}

	r := Resolve(state.Data)
	var body map[string]interface{}
	if err := json.Unmarshal(receipt.Payload, &body); err != nil {
		log.Warn("Could not decode payload for process variables", map[string]interface{}{"error": err})
		return 0
	}

	vars := map[string]interface{}{
		"applicationId":  receipt.ApplicationID,
		"jobId":          r.Position.JobID,
		"shape":          string(receipt.Shape),
		"payload":        body,
		"applicantEmail": r.Personal.Email,
		"applicantPhone": r.Personal.Phone,
		"applicantName":  r.ApplicantName(),
	}

	key, err := s.process.StartProcess(ctx, s.cfg.ProcessID, vars)
	if err != nil {
		log.Error("Failed to start review process", map[string]interface{}{
			"error":      err,
			"process_id": s.cfg.ProcessID,
		})
		return 0
	}
	log.Info("Review process started", map[string]interface{}{
		"process_id":           s.cfg.ProcessID,
		"process_instance_key": key,
	})
	return key
}

// withJobID fills the position's job id from the route when the document
// does not carry one. The caller's state is left untouched.
func withJobID(state wizard.FormState, jobID string) wizard.FormState {
	if jobID == "" {
		return state
	}
	pos := Resolve(state.Data).Position
	if pos.JobID != "" {
		return state
	}
	pos.JobID = jobID
	state.Data.Position = &pos
	return state
}

func applicationID(env *commonhttp.Envelope) string {
	if env.HasData() {
		var data struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(env.Data, &data); err == nil && data.ID != "" {
			return data.ID
		}
	}
	return uuid.NewString()
}

// Preview assembles what Submit would send without forwarding it.
func Preview(state wizard.FormState, shape Shape, jobID string) (*Payload, error) {
	return Assemble(withJobID(state, jobID).Data, shape)
}
