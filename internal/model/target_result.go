package model

import (
	"time"
)

const (
	// StatusPassed marks a target whose command exited zero.
	StatusPassed = "passed"
	// StatusFailed marks a target that exited non-zero or could not be started.
	StatusFailed = "failed"
)

// TargetResult captures the outcome of running a single integration target.
type TargetResult struct {
	Target     string
	Status     string
	ExitCode   int
	OutputFile string
	Error      error
	Duration   time.Duration
	Timestamp  time.Time
}

// Passed reports whether the target succeeded.
func (r TargetResult) Passed() bool {
	return r.Status == StatusPassed
}
