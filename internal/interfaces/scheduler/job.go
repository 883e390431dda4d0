package scheduler

import "context"

// Job is a unit of work executed by the worker pool. Sync jobs implement
// it today; cleanup or notification jobs can be added the same way.
type Job interface {
	// Execute runs the job. The context carries the worker's timeout and
	// is cancelled on shutdown.
	Execute(ctx context.Context) error

	// Description returns a human-readable description used in logs.
	Description() string
}
