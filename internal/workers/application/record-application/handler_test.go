// internal/workers/application/record-application/handler_test.go
package recordapplication

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"interview-portal/internal/common/config"
	apperrors "interview-portal/internal/common/errors"
	"interview-portal/internal/common/logger"
)

// ==========================
// Test Helper Functions
// ==========================

func createTestInput() *Input {
	return &Input{
		ApplicationID:  "app-001",
		JobID:          "job-001",
		Shape:          "nested",
		Payload:        json.RawMessage(`{"position":{"job_id":"job-001"}}`),
		ApplicantEmail: "Ada@Example.com ",
		ApplicantName:  "Ada Lovelace",
	}
}

func newTestHandler(t *testing.T) (*Handler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	h := NewHandler(&Config{Timeout: time.Second}, db, logger.NewTestLogger(t))
	h.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }
	return h, mock
}

// ==========================
// Core Functionality Tests
// ==========================

func TestHandler_Execute_Success(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("job-001", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).
		WithArgs("app-001", "job-001", "ada@example.com", "nested", sqlmock.AnyArg(), "submitted", "2026-03-01T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).
		WithArgs("application_recorded", "application", "app-001", sqlmock.AnyArg(), "2026-03-01T12:00:00Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "app-001", output.ApplicationID)
	assert.Equal(t, StatusSubmitted, output.ApplicationStatus)
	assert.Equal(t, "2026-03-01T12:00:00Z", output.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_GeneratesIDWhenMissing(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnResult(sqlmock.NewResult(1, 1))

	input := createTestInput()
	input.ApplicationID = ""
	output, err := h.Execute(context.Background(), input)

	require.NoError(t, err)
	assert.Len(t, output.ApplicationID, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicateApplication(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WithArgs("job-001", "ada@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	output, err := h.Execute(context.Background(), createTestInput())

	assert.True(t, errors.Is(err, ErrDuplicateApplication))
	assert.Contains(t, err.Error(), "already applied")
	assert.Nil(t, output)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_DuplicateCheckError(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).WillReturnError(errors.New("database connection failed"))

	_, err := h.Execute(context.Background(), createTestInput())

	assert.True(t, errors.Is(err, ErrDatabaseInsertFailed))
	assert.Contains(t, err.Error(), "duplicate check failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InsertError(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).WillReturnError(errors.New("constraint violation"))

	_, err := h.Execute(context.Background(), createTestInput())

	assert.True(t, errors.Is(err, ErrDatabaseInsertFailed))
	assert.Contains(t, err.Error(), "insert failed")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_AuditLogFailureIsIgnored(t *testing.T) {
	h, mock := newTestHandler(t)

	mock.ExpectQuery(`SELECT EXISTS`).
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectExec(`INSERT INTO applications`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec(`INSERT INTO audit_log`).WillReturnError(errors.New("audit table missing"))

	output, err := h.Execute(context.Background(), createTestInput())

	require.NoError(t, err)
	assert.Equal(t, "app-001", output.ApplicationID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHandler_Execute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Input)
	}{
		{"missing job id", func(in *Input) { in.JobID = "" }},
		{"missing email", func(in *Input) { in.ApplicantEmail = "  " }},
		{"missing payload", func(in *Input) { in.Payload = nil }},
		{"malformed payload", func(in *Input) { in.Payload = json.RawMessage(`{"a":`) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, mock := newTestHandler(t)
			input := createTestInput()
			tt.mutate(input)

			_, err := h.Execute(context.Background(), input)

			assert.True(t, errors.Is(err, ErrInvalidInput))
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

// ==========================
// Error Mapping
// ==========================

func TestToStandardError(t *testing.T) {
	dup := toStandardError(ErrDuplicateApplication)
	assert.Equal(t, apperrors.ErrCodeDuplicateApplication, dup.Code)
	assert.Equal(t, 0, apperrors.ConvertToBPMNError(dup).Retries)

	insert := toStandardError(ErrDatabaseInsertFailed)
	assert.Equal(t, apperrors.ErrCodeDatabaseInsertFailed, insert.Code)
	assert.Equal(t, 3, apperrors.ConvertToBPMNError(insert).Retries)

	assert.Equal(t, apperrors.ErrCodeValidationFailed, toStandardError(ErrInvalidInput).Code)
	assert.Equal(t, apperrors.ErrCodeInternal, toStandardError(errors.New("boom")).Code)
}

func TestNewConfig_DefaultsTimeout(t *testing.T) {
	assert.Equal(t, 30*time.Second, NewConfig(config.WorkerConfig{}).Timeout)
}

func TestNewConfig_UsesWorkerTimeout(t *testing.T) {
	assert.Equal(t, 5*time.Second, NewConfig(config.WorkerConfig{Timeout: 5000}).Timeout)
}
