package postgresql

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence"
)

// PipelineRepository stores the whole pipeline definition as a JSONB
// document; name and timestamps are denormalized for listing.
type PipelineRepository struct {
	db     *sql.DB
	logger *slog.Logger
}

func NewPipelineRepository(db *sql.DB, logger *slog.Logger) *PipelineRepository {
	return &PipelineRepository{
		db:     db,
		logger: logger.With("module", "pipeline_repository"),
	}
}

func (r *PipelineRepository) GetAll(ctx context.Context) ([]*models.Pipeline, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT document FROM pipelines ORDER BY created_at")
	if err != nil {
		return nil, fmt.Errorf("failed to query pipelines: %w", err)
	}

	defer func() {
		_ = rows.Close()
	}()

	pipelines := make([]*models.Pipeline, 0)

	for rows.Next() {
		pipeline, err := scanPipeline(rows.Scan)
		if err != nil {
			return nil, err
		}

		pipelines = append(pipelines, pipeline)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate pipelines: %w", err)
	}

	return pipelines, nil
}

func (r *PipelineRepository) GetByID(ctx context.Context, id string) (*models.Pipeline, error) {
	row := r.db.QueryRowContext(ctx, "SELECT document FROM pipelines WHERE id = $1", id)

	pipeline, err := scanPipeline(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, persistence.NewPipelineError("GetByID", id, persistence.ErrPipelineNotFound)
	}

	if err != nil {
		return nil, err
	}

	return pipeline, nil
}

func (r *PipelineRepository) Save(ctx context.Context, pipeline *models.Pipeline) error {
	document, err := json.Marshal(pipeline)
	if err != nil {
		return fmt.Errorf("failed to encode pipeline %s: %w", pipeline.ID, err)
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO pipelines (id, name, description, document, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			description = EXCLUDED.description,
			document = EXCLUDED.document,
			updated_at = EXCLUDED.updated_at
	`, pipeline.ID, pipeline.Name, pipeline.Description, document, pipeline.CreatedAt, pipeline.UpdatedAt)
	if err != nil {
		return persistence.NewPipelineError("Save", pipeline.ID, err)
	}

	return nil
}

func (r *PipelineRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM pipelines WHERE id = $1", id)
	if err != nil {
		return persistence.NewPipelineError("Delete", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return persistence.NewPipelineError("Delete", id, err)
	}

	if affected == 0 {
		return persistence.NewPipelineError("Delete", id, persistence.ErrPipelineNotFound)
	}

	return nil
}

func scanPipeline(scan func(dest ...any) error) (*models.Pipeline, error) {
	var document []byte

	err := scan(&document)
	if err != nil {
		return nil, err
	}

	var pipeline models.Pipeline

	err = json.Unmarshal(document, &pipeline)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pipeline document: %w", err)
	}

	return &pipeline, nil
}
