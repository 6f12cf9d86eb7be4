// Package file provides the file-based persistence implementation for
// local use and tests.
package file

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/runwayci/runway/pkg/models"
	"github.com/runwayci/runway/pkg/persistence"
)

// Persistence implements persistence.Persistence on the file system:
// one JSON file per pipeline under pipelines/ and one per run under runs/.
type Persistence struct {
	root string
}

func NewPersistence(root string) *Persistence {
	cleanRoot := strings.Replace(root, "file://", "", 1)

	return &Persistence{root: cleanRoot}
}

func (fp *Persistence) Close(_ context.Context) error {
	return nil
}

func (fp *Persistence) HealthCheck(_ context.Context) error {
	if _, err := os.Stat(fp.root); os.IsNotExist(err) {
		return os.ErrNotExist
	}

	return nil
}

func (fp *Persistence) Pipelines(_ context.Context) ([]*models.Pipeline, error) {
	dir := filepath.Join(fp.root, "pipelines")

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []*models.Pipeline{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list pipelines: %w", err)
	}

	pipelines := make([]*models.Pipeline, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var p models.Pipeline

		err := readJSON(filepath.Join(dir, entry.Name()), &p)
		if err != nil {
			return nil, err
		}

		pipelines = append(pipelines, &p)
	}

	return pipelines, nil
}

func (fp *Persistence) PipelineByID(_ context.Context, id string) (*models.Pipeline, error) {
	var p models.Pipeline

	err := readJSON(fp.pipelinePath(id), &p)
	if os.IsNotExist(err) {
		return nil, persistence.NewPipelineError("PipelineByID", id, persistence.ErrPipelineNotFound)
	}

	if err != nil {
		return nil, err
	}

	return &p, nil
}

func (fp *Persistence) SavePipeline(_ context.Context, pipeline *models.Pipeline) error {
	return writeJSON(fp.pipelinePath(pipeline.ID), pipeline)
}

func (fp *Persistence) DeletePipeline(_ context.Context, id string) error {
	err := os.Remove(fp.pipelinePath(id))
	if os.IsNotExist(err) {
		return persistence.NewPipelineError("DeletePipeline", id, persistence.ErrPipelineNotFound)
	}

	return err
}

func (fp *Persistence) SaveRun(_ context.Context, run *models.Run) error {
	return writeJSON(fp.runPath(run.ID), run)
}

func (fp *Persistence) RunByID(_ context.Context, id string) (*models.Run, error) {
	var r models.Run

	err := readJSON(fp.runPath(id), &r)
	if os.IsNotExist(err) {
		return nil, persistence.ErrRunNotFound
	}

	if err != nil {
		return nil, err
	}

	return &r, nil
}

func (fp *Persistence) RunsByPipeline(_ context.Context, pipelineID string) ([]*models.Run, error) {
	dir := filepath.Join(fp.root, "runs")

	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return []*models.Run{}, nil
	}

	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	runs := make([]*models.Run, 0)

	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}

		var r models.Run

		err := readJSON(filepath.Join(dir, entry.Name()), &r)
		if err != nil {
			return nil, err
		}

		if r.PipelineID == pipelineID {
			runs = append(runs, &r)
		}
	}

	return runs, nil
}

func (fp *Persistence) pipelinePath(id string) string {
	return filepath.Join(fp.root, "pipelines", id+".json")
}

func (fp *Persistence) runPath(id string) string {
	return filepath.Join(fp.root, "runs", id+".json")
}

func readJSON(path string, out any) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	err = json.Unmarshal(data, out)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", path, err)
	}

	return nil
}

func writeJSON(path string, in any) error {
	err := os.MkdirAll(filepath.Dir(path), 0o750)
	if err != nil {
		return fmt.Errorf("failed to create directory for %s: %w", path, err)
	}

	data, err := json.MarshalIndent(in, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}

	err = os.WriteFile(path, data, 0o600)
	if err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}

	return nil
}
