package scheduler

import "errors"

var (
	// ErrSchedulerNotRunning is returned when triggering a job on a stopped scheduler
	ErrSchedulerNotRunning = errors.New("scheduler is not running")

	// ErrUnknownJob is returned when triggering a job name that is not registered
	ErrUnknownJob = errors.New("unknown job")

	// ErrInvalidConfig is returned when the scheduler configuration is invalid
	ErrInvalidConfig = errors.New("invalid scheduler configuration")
)
