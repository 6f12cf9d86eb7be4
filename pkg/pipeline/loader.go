// Package pipeline loads and validates declarative pipeline documents.
package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/runwayci/runway/pkg/models"
	"github.com/xeipuuv/gojsonschema"
)

// Loader parses JSON pipeline documents into immutable Pipeline values.
// Documents are parsed once per run; configuration errors (malformed
// matrix, invalid parallelism) surface here, before any job starts.
type Loader struct {
	validate *validator.Validate
}

func NewLoader() *Loader {
	return &Loader{
		validate: validator.New(validator.WithRequiredStructEnabled()),
	}
}

// LoadFile reads and loads a pipeline document from disk.
func (l *Loader) LoadFile(path string) (*models.Pipeline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read pipeline document %s: %w", path, err)
	}

	return l.Load(data)
}

// Load validates the document against the pipeline schema, decodes it,
// and applies defaults and structural checks.
func (l *Loader) Load(document []byte) (*models.Pipeline, error) {
	err := l.validateSchema(document)
	if err != nil {
		return nil, err
	}

	var p models.Pipeline

	err = json.Unmarshal(document, &p)
	if err != nil {
		return nil, fmt.Errorf("failed to decode pipeline document: %w", err)
	}

	if p.ID == "" {
		p.ID = uuid.New().String()
	}

	now := time.Now().UTC()
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now
	}

	p.UpdatedAt = now

	err = l.applyDefaults(&p)
	if err != nil {
		return nil, err
	}

	err = l.validate.Struct(&p)
	if err != nil {
		return nil, fmt.Errorf("pipeline document failed validation: %w", err)
	}

	return &p, nil
}

func (l *Loader) validateSchema(document []byte) error {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(documentSchema),
		gojsonschema.NewBytesLoader(document),
	)
	if err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	if !result.Valid() {
		errs := result.Errors()
		if len(errs) > 0 {
			return fmt.Errorf("invalid pipeline document: %s", errs[0].String())
		}

		return fmt.Errorf("invalid pipeline document")
	}

	return nil
}

// applyDefaults fills omitted matrix parallelism and rejects the
// configuration errors that must stop a run before it starts.
func (l *Loader) applyDefaults(p *models.Pipeline) error {
	for _, job := range p.Jobs {
		for _, step := range job.Steps {
			if step.IsAction() == (step.Run != "") {
				return fmt.Errorf("step %s/%s must set exactly one of uses or run", job.ID, step.ID)
			}
		}

		if job.Matrix == nil {
			continue
		}

		if job.Matrix.MaxParallel == 0 {
			job.Matrix.MaxParallel = 1
		}

		if job.Matrix.MaxParallel < 1 {
			return fmt.Errorf("job %s: %w", job.ID, models.ErrInvalidParallelism)
		}

		for dim, values := range job.Matrix.Dimensions {
			if len(values) == 0 {
				return &models.InvalidMatrixError{
					JobID:     job.ID,
					Dimension: dim,
					Err:       models.ErrEmptyDimension,
				}
			}
		}
	}

	return nil
}
