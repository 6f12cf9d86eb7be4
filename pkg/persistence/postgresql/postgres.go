// Package postgresql provides the PostgreSQL persistence implementation.
package postgresql

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	// Registers the postgres driver.
	_ "github.com/lib/pq"
	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence/sqlbase"
)

// Persistence implements the persistence layer for PostgreSQL.
type Persistence struct {
	db           *sql.DB
	logger       *slog.Logger
	pipelineRepo *PipelineRepository
	runRepo      *RunRepository
}

// NewPersistence connects, runs migrations and returns the persistence layer.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) (*Persistence, error) {
	database, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL database: %w", err)
	}

	err = database.PingContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	migrationManager := sqlbase.NewMigrationManager(logger, database, migrations())

	err = migrationManager.RunMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &Persistence{
		db:           database,
		logger:       logger,
		pipelineRepo: NewPipelineRepository(database, logger),
		runRepo:      NewRunRepository(database, logger),
	}, nil
}

func (p *Persistence) Close(_ context.Context) error {
	if p.db != nil {
		err := p.db.Close()
		if err != nil {
			return fmt.Errorf("failed to close database connection: %w", err)
		}
	}

	return nil
}

func (p *Persistence) HealthCheck(ctx context.Context) error {
	err := p.db.PingContext(ctx)
	if err != nil {
		return fmt.Errorf("failed to ping database: %w", err)
	}

	return nil
}

func (p *Persistence) Pipelines(ctx context.Context) ([]*models.Pipeline, error) {
	return p.pipelineRepo.GetAll(ctx)
}

func (p *Persistence) PipelineByID(ctx context.Context, id string) (*models.Pipeline, error) {
	return p.pipelineRepo.GetByID(ctx, id)
}

func (p *Persistence) SavePipeline(ctx context.Context, pipeline *models.Pipeline) error {
	return p.pipelineRepo.Save(ctx, pipeline)
}

func (p *Persistence) DeletePipeline(ctx context.Context, id string) error {
	return p.pipelineRepo.Delete(ctx, id)
}

func (p *Persistence) SaveRun(ctx context.Context, run *models.Run) error {
	return p.runRepo.Save(ctx, run)
}

func (p *Persistence) RunByID(ctx context.Context, id string) (*models.Run, error) {
	return p.runRepo.GetByID(ctx, id)
}

func (p *Persistence) RunsByPipeline(ctx context.Context, pipelineID string) ([]*models.Run, error) {
	return p.runRepo.GetByPipeline(ctx, pipelineID)
}
