// internal/jobs/repository.go
package jobs

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"interview-portal/internal/models"
)

// Repository reads jobs from PostgreSQL.
type Repository struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

const selectJobByID = `
	SELECT id, title, company, location, description, employment_type, skills, posted_at
	FROM jobs
	WHERE id = $1
`

func (r *Repository) GetByID(ctx context.Context, jobID string) (LookupResult, error) {
	if jobID == "" {
		return LookupResult{}, ErrJobIDRequired
	}

	var (
		job    models.Job
		skills pq.StringArray
	)
	err := r.db.QueryRowContext(ctx, selectJobByID, jobID).Scan(
		&job.ID,
		&job.Title,
		&job.Company,
		&job.Location,
		&job.Description,
		&job.EmploymentType,
		&skills,
		&job.PostedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return LookupResult{Error: MessageJobNotFound}, nil
		}
		return LookupResult{}, fmt.Errorf("%w: %v", ErrJobLookupFailed, err)
	}

	job.Skills = []string(skills)
	if job.Skills == nil {
		job.Skills = []string{}
	}
	return LookupResult{Data: &job}, nil
}

// Upsert stores a job, replacing any existing row with the same id.
func (r *Repository) Upsert(ctx context.Context, job models.Job) error {
	const q = `
		INSERT INTO jobs (id, title, company, location, description, employment_type, skills, posted_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			title = EXCLUDED.title,
			company = EXCLUDED.company,
			location = EXCLUDED.location,
			description = EXCLUDED.description,
			employment_type = EXCLUDED.employment_type,
			skills = EXCLUDED.skills,
			posted_at = EXCLUDED.posted_at
	`
	_, err := r.db.ExecContext(ctx, q,
		job.ID, job.Title, job.Company, job.Location, job.Description,
		job.EmploymentType, pq.Array(job.Skills), job.PostedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert job %s: %w", job.ID, err)
	}
	return nil
}
