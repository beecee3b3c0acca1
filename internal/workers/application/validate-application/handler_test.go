// internal/workers/application/validate-application/handler_test.go
package validateapplication

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-portal/internal/common/logger"
	"interview-portal/internal/models"
	"interview-portal/internal/submission"
)

func newTestHandler(t *testing.T) *Handler {
	return NewHandler(&Config{Timeout: time.Second}, logger.NewTestLogger(t))
}

func assembledPayload(t *testing.T, shape submission.Shape) json.RawMessage {
	t.Helper()
	d := models.NewApplicationData()
	d.PersonalInfo = models.PersonalInfo{FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com", Phone: "+44 20 7946 0000"}
	d.AddressInfo = models.AddressInfo{Street: "12 St James's Sq", City: "London", State: "LDN", ZipCode: "SW1Y", Country: "UK"}
	d.Experience.Skills = "math, engines"
	d.Position = &models.Position{JobID: "job-1"}

	p, err := submission.Assemble(d, shape)
	require.NoError(t, err)
	return p.Body
}

func TestHandler_Execute_ValidPayload(t *testing.T) {
	for _, shape := range []submission.Shape{submission.ShapeNested, submission.ShapeLegacy} {
		t.Run(string(shape), func(t *testing.T) {
			out, err := newTestHandler(t).Execute(context.Background(), &Input{
				ApplicationID:  "app-1",
				Shape:          string(shape),
				Payload:        assembledPayload(t, shape),
				ApplicantEmail: "ada@example.com",
				ApplicantPhone: "+44 20 7946 0000",
			})

			require.NoError(t, err)
			assert.True(t, out.IsValid)
			assert.NotNil(t, out.ValidationErrors)
			assert.Empty(t, out.ValidationErrors)
		})
	}
}

func TestHandler_Execute_SchemaViolation(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		Shape:          "nested",
		Payload:        json.RawMessage(`{"position":{"job_id":"job-1"}}`),
		ApplicantEmail: "ada@example.com",
	})

	require.NoError(t, err)
	assert.False(t, out.IsValid)
	assert.NotEmpty(t, out.ValidationErrors)
}

func TestHandler_Execute_ContactChecks(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		Shape:          "nested",
		Payload:        assembledPayload(t, submission.ShapeNested),
		ApplicantEmail: "not-an-email",
		ApplicantPhone: "12",
	})

	require.NoError(t, err)
	assert.False(t, out.IsValid)
	require.Len(t, out.ValidationErrors, 2)
	assert.Equal(t, "applicantEmail", out.ValidationErrors[0].Field)
	assert.Equal(t, "INVALID_FORMAT", out.ValidationErrors[0].Code)
	assert.Equal(t, "applicantPhone", out.ValidationErrors[1].Field)
}

func TestHandler_Execute_MissingEmail(t *testing.T) {
	out, err := newTestHandler(t).Execute(context.Background(), &Input{
		Shape:   "legacy",
		Payload: assembledPayload(t, submission.ShapeLegacy),
	})

	require.NoError(t, err)
	assert.False(t, out.IsValid)
	assert.Equal(t, "REQUIRED", out.ValidationErrors[0].Code)
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	h := newTestHandler(t)

	_, err := h.Execute(context.Background(), &Input{Shape: "yaml", Payload: json.RawMessage(`{}`)})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = h.Execute(context.Background(), &Input{Shape: "", Payload: json.RawMessage(`{}`)})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = h.Execute(context.Background(), &Input{Shape: "nested"})
	assert.True(t, errors.Is(err, ErrInvalidInput))
}
