package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence"
)

type RunRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewRunRepository(db *sql.DB, logger *slog.Logger) *RunRepository {
	return &RunRepository{
		db:     db,
		logger: logger.With("module", "run_repository"),
	}
}

func (r *RunRepository) Save(ctx context.Context, run *models.Run) error {
	event, err := json.Marshal(run.Event)
	if err != nil {
		return fmt.Errorf("failed to encode run event: %w", err)
	}

	results, err := json.Marshal(run.Results)
	if err != nil {
		return fmt.Errorf("failed to encode run results: %w", err)
	}

	var finishedAt sql.NullTime
	if !run.FinishedAt.IsZero() {
		finishedAt = sql.NullTime{Time: run.FinishedAt, Valid: true}
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO runs (id, pipeline_id, status, event, results, concurrency_group, started_at, finished_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO UPDATE SET
			status = EXCLUDED.status,
			results = EXCLUDED.results,
			finished_at = EXCLUDED.finished_at
	`, run.ID, run.PipelineID, string(run.Status), event, results, run.ConcurrencyGroup, run.StartedAt, finishedAt)
	if err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	return nil
}

func (r *RunRepository) GetByID(ctx context.Context, id string) (*models.Run, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, pipeline_id, status, event, results, concurrency_group, started_at, finished_at
		FROM runs WHERE id = $1
	`, id)

	run, err := scanRun(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.ErrRunNotFound
	}

	if err != nil {
		return nil, err
	}

	return run, nil
}

func (r *RunRepository) GetByPipeline(ctx context.Context, pipelineID string) ([]*models.Run, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, pipeline_id, status, event, results, concurrency_group, started_at, finished_at
		FROM runs WHERE pipeline_id = $1 ORDER BY started_at DESC
	`, pipelineID)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs for pipeline %s: %w", pipelineID, err)
	}

	defer func() {
		_ = rows.Close()
	}()

	runs := make([]*models.Run, 0)

	for rows.Next() {
		run, err := scanRun(rows.Scan)
		if err != nil {
			return nil, err
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}

	return runs, nil
}

func scanRun(scan func(dest ...any) error) (*models.Run, error) {
	var (
		run        models.Run
		status     string
		event      []byte
		results    []byte
		group      sql.NullString
		finishedAt sql.NullTime
	)

	err := scan(&run.ID, &run.PipelineID, &status, &event, &results, &group, &run.StartedAt, &finishedAt)
	if err != nil {
		return nil, err
	}

	run.Status = models.RunStatus(status)
	run.ConcurrencyGroup = group.String

	if finishedAt.Valid {
		run.FinishedAt = finishedAt.Time.UTC()
	} else {
		run.FinishedAt = time.Time{}
	}

	err = json.Unmarshal(event, &run.Event)
	if err != nil {
		return nil, fmt.Errorf("failed to decode run event: %w", err)
	}

	if len(results) > 0 {
		err = json.Unmarshal(results, &run.Results)
		if err != nil {
			return nil, fmt.Errorf("failed to decode run results: %w", err)
		}
	}

	return &run, nil
}
