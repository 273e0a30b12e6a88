package repository

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"retunefm/db"
	"retunefm/logger"
	"retunefm/model"
)

// RemixJobRepository defines the interface for remix job data operations.
type RemixJobRepository interface {
	CreateJob(job *model.RemixJob) error
	GetJobByID(id string) (*model.RemixJob, error)
	ListRecentJobs(limit int) ([]*model.RemixJob, error)
	UpdateJobResult(id, status, outputObjectKey, errorMessage string) error
}

// mysqlRemixJobRepository implements RemixJobRepository for MySQL.
type mysqlRemixJobRepository struct {
	DB *sql.DB
}

// NewMySQLRemixJobRepository creates a new instance of mysqlRemixJobRepository.
func NewMySQLRemixJobRepository() RemixJobRepository {
	return &mysqlRemixJobRepository{DB: db.DB}
}

// CreateJob adds a new remix job to the database.
func (r *mysqlRemixJobRepository) CreateJob(job *model.RemixJob) error {
	stages, err := json.Marshal(job.TempoStages)
	if err != nil {
		return fmt.Errorf("failed to marshal tempo stages: %w", err)
	}

	query := `INSERT INTO remix_jobs
		(id, original_filename, source_key, source_bpm, target_key, target_bpm,
		 semitone_shift, pitch_factor, tempo_stages, duration, status)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for CreateJob: %w", err)
	}
	defer stmt.Close()

	_, err = stmt.Exec(job.ID, job.OriginalFilename, job.SourceKey, job.SourceBPM,
		job.TargetKey, job.TargetBPM, job.SemitoneShift, job.PitchFactor,
		string(stages), job.Duration, job.Status)
	if err != nil {
		return fmt.Errorf("failed to execute CreateJob: %w", err)
	}

	logger.Info("Remix job created",
		logger.String("jobId", job.ID),
		logger.String("filename", job.OriginalFilename),
	)
	return nil
}

// GetJobByID fetches a single remix job. Returns (nil, nil) when no job
// exists with that id.
func (r *mysqlRemixJobRepository) GetJobByID(id string) (*model.RemixJob, error) {
	query := `SELECT id, original_filename, source_key, source_bpm, target_key, target_bpm,
		semitone_shift, pitch_factor, tempo_stages, duration, status, output_object_key,
		error_message, created_at, updated_at
		FROM remix_jobs WHERE id = ?`

	job, err := scanJob(r.DB.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get remix job %s: %w", id, err)
	}
	return job, nil
}

// ListRecentJobs returns the most recently created jobs, newest first.
func (r *mysqlRemixJobRepository) ListRecentJobs(limit int) ([]*model.RemixJob, error) {
	query := `SELECT id, original_filename, source_key, source_bpm, target_key, target_bpm,
		semitone_shift, pitch_factor, tempo_stages, duration, status, output_object_key,
		error_message, created_at, updated_at
		FROM remix_jobs ORDER BY created_at DESC LIMIT ?`

	rows, err := r.DB.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list remix jobs: %w", err)
	}
	defer rows.Close()

	var jobs []*model.RemixJob
	for rows.Next() {
		job, err := scanJob(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan remix job row: %w", err)
		}
		jobs = append(jobs, job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating remix job rows: %w", err)
	}
	return jobs, nil
}

// UpdateJobResult records the outcome of a render.
func (r *mysqlRemixJobRepository) UpdateJobResult(id, status, outputObjectKey, errorMessage string) error {
	query := `UPDATE remix_jobs SET status = ?, output_object_key = ?, error_message = ? WHERE id = ?`
	stmt, err := r.DB.Prepare(query)
	if err != nil {
		return fmt.Errorf("failed to prepare statement for UpdateJobResult: %w", err)
	}
	defer stmt.Close()

	if _, err := stmt.Exec(status, outputObjectKey, errorMessage, id); err != nil {
		return fmt.Errorf("failed to execute UpdateJobResult: %w", err)
	}
	return nil
}

// rowScanner covers *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanJob(row rowScanner) (*model.RemixJob, error) {
	var job model.RemixJob
	var stages string
	var outputKey, errMsg sql.NullString

	err := row.Scan(&job.ID, &job.OriginalFilename, &job.SourceKey, &job.SourceBPM,
		&job.TargetKey, &job.TargetBPM, &job.SemitoneShift, &job.PitchFactor,
		&stages, &job.Duration, &job.Status, &outputKey, &errMsg, &job.CreatedAt, &job.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(stages), &job.TempoStages); err != nil {
		return nil, fmt.Errorf("failed to unmarshal tempo stages for job %s: %w", job.ID, err)
	}
	job.OutputObjectKey = outputKey.String
	job.ErrorMessage = errMsg.String
	return &job, nil
}
