// Package persistence provides the storage abstraction for pipelines and
// finished runs.
package persistence

import (
	"context"

	"github.com/runwayci/runway/pkg/models"
)

type Persistence interface {
	Pipelines(ctx context.Context) ([]*models.Pipeline, error)
	PipelineByID(ctx context.Context, id string) (*models.Pipeline, error)
	SavePipeline(ctx context.Context, pipeline *models.Pipeline) error
	DeletePipeline(ctx context.Context, id string) error

	SaveRun(ctx context.Context, run *models.Run) error
	RunByID(ctx context.Context, id string) (*models.Run, error)
	RunsByPipeline(ctx context.Context, pipelineID string) ([]*models.Run, error)

	HealthCheck(ctx context.Context) error
	Close(ctx context.Context) error
}
