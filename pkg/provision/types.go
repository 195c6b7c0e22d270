// Package provision builds and runs ordered provisioning plans.
// A plan is the step list derived from one configuration; running it
// executes each step in order, skips steps whose work is already done,
// and stops at the first failure.
package provision

import (
	"time"

	"github.com/arthur-debert/deskup/pkg/initsys"
)

// StepStatus represents the outcome of a single step
type StepStatus string

const (
	// StatusPending means the step has not run, either because the run
	// has not reached it or because an earlier step failed first
	StatusPending StepStatus = "pending"

	// StatusCompleted means the step ran and succeeded
	StatusCompleted StepStatus = "completed"

	// StatusSkipped means the step's check found the work already done
	StatusSkipped StepStatus = "skipped"

	// StatusFailed means the step ran and failed
	StatusFailed StepStatus = "failed"
)

// Step is one provisioning action.
type Step struct {
	// Name identifies the step in reports and failure diagnostics
	Name string

	// Check, when set, reports whether the step's work is already done.
	// A true result skips Run; a check error fails the step.
	Check func() (bool, error)

	// Run does the work
	Run func() error
}

// StepResult records the outcome of one step.
type StepResult struct {
	Name      string
	Status    StepStatus
	Error     error
	StartTime time.Time
	EndTime   time.Time
}

// Duration returns how long the step took.
func (r StepResult) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}

// Plan is the ordered step list for provisioning one host.
type Plan struct {
	// User is the login user the desktop is provisioned for
	User string

	// Init is the init system the plan was built for. It is resolved
	// once at build time and decides which services the plan enables
	// and how.
	Init initsys.Kind

	// Steps in execution order
	Steps []Step
}

// Report contains the aggregated results of one plan run.
type Report struct {
	// RunID ties log lines and output to this run
	RunID string

	// User and Init echo the plan
	User string
	Init initsys.Kind

	StartTime time.Time
	EndTime   time.Time

	// Steps contains one result per plan step, in plan order. Steps
	// after a failure stay pending.
	Steps []StepResult

	// CompletedSteps is the number of steps that ran and succeeded
	CompletedSteps int

	// SkippedSteps is the number of steps whose work was already done
	SkippedSteps int

	// FailedStep names the step that stopped the run, empty on success
	FailedStep string

	// Err is the failure that stopped the run
	Err error
}

// Success reports whether the whole plan ran without failure.
func (r *Report) Success() bool {
	return r.Err == nil
}

// Duration returns the total run time.
func (r *Report) Duration() time.Duration {
	return r.EndTime.Sub(r.StartTime)
}
