// Package report reduces per-instance outcomes into an overall run status.
package report

import "github.com/runwayci/runway/pkg/models"

// Aggregate reduces a result set to the overall run status. Failed
// dominates everything, Cancelled dominates Pending; a run counts as
// Succeeded only when every instance resolved and at least one actually
// succeeded (Skipped alone is not a success).
//
// Aggregation is idempotent: re-aggregating a completed result set yields
// the same status.
func Aggregate(results map[string]*models.RunResult) models.RunStatus {
	if len(results) == 0 {
		return models.RunPending
	}

	var (
		unresolved bool
		cancelled  bool
		succeeded  bool
	)

	for _, result := range results {
		switch result.Status {
		case models.InstanceFailed:
			return models.RunFailed
		case models.InstanceCancelled:
			cancelled = true
		case models.InstanceSucceeded:
			succeeded = true
		case models.InstancePending, models.InstanceRunning:
			unresolved = true
		case models.InstanceSkipped:
		}
	}

	switch {
	case cancelled:
		return models.RunCancelled
	case unresolved:
		return models.RunRunning
	case succeeded:
		return models.RunSucceeded
	default:
		// Everything skipped: nothing ran, nothing failed.
		return models.RunPending
	}
}
