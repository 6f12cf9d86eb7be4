// Package matrix expands declarative matrix specifications into concrete
// job instances.
package matrix

import (
	"sort"

	"github.com/runwayci/runway/pkg/models"
)

// Expand fans a job template out into one instance per matrix point. The
// expansion is deterministic: dimensions iterate in lexicographic name
// order and values in their declared order, so instance ordering and
// naming are reproducible across runs.
//
// A job without a matrix yields exactly one instance with empty bindings.
// A dimension with zero values is a configuration error and the run must
// never start.
func Expand(job *models.JobSpec) ([]*models.JobInstance, error) {
	if job.Matrix == nil {
		return []*models.JobInstance{models.NewJobInstance(job, map[string]string{})}, nil
	}

	dims := make([]string, 0, len(job.Matrix.Dimensions))
	for dim := range job.Matrix.Dimensions {
		dims = append(dims, dim)
	}

	sort.Strings(dims)

	for _, dim := range dims {
		if len(job.Matrix.Dimensions[dim]) == 0 {
			return nil, &models.InvalidMatrixError{
				JobID:     job.ID,
				Dimension: dim,
				Err:       models.ErrEmptyDimension,
			}
		}
	}

	instances := make([]*models.JobInstance, 0, job.Matrix.Size())
	instances = product(job, dims, map[string]string{}, instances)

	return instances, nil
}

func product(job *models.JobSpec, dims []string, bound map[string]string, acc []*models.JobInstance) []*models.JobInstance {
	if len(dims) == 0 {
		bindings := make(map[string]string, len(bound))
		for k, v := range bound {
			bindings[k] = v
		}

		return append(acc, models.NewJobInstance(job, bindings))
	}

	dim := dims[0]
	for _, value := range job.Matrix.Dimensions[dim] {
		bound[dim] = value
		acc = product(job, dims[1:], bound, acc)
	}

	delete(bound, dim)

	return acc
}
