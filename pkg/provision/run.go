package provision

import (
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// Provisioner runs plans. The zero value executes steps for real;
// with DryRun set only the idempotence checks run and the host is
// never touched.
type Provisioner struct {
	DryRun bool
}

// Run executes the plan's steps in order with a default Provisioner.
// Steps whose check reports done are skipped. The first failure stops
// the run; later steps are reported as pending, never attempted.
func Run(plan *Plan) *Report {
	return (&Provisioner{}).Run(plan)
}

// Run executes or previews the plan's steps in order.
func (p *Provisioner) Run(plan *Plan) *Report {
	logger := logging.GetLogger("provision")
	report := &Report{
		RunID:     uuid.NewString(),
		User:      plan.User,
		Init:      plan.Init,
		StartTime: time.Now(),
		Steps:     make([]StepResult, 0, len(plan.Steps)),
	}

	logger.Info().
		Str("runID", report.RunID).
		Str("user", plan.User).
		Str("init", plan.Init.String()).
		Int("steps", len(plan.Steps)).
		Bool("dryRun", p.DryRun).
		Msg("Starting provisioning run")

	if p.DryRun {
		report.Steps = Probe(plan)
		for _, result := range report.Steps {
			if result.Status == StatusSkipped {
				report.SkippedSteps++
			}
		}
		report.EndTime = time.Now()
		logger.Info().
			Str("runID", report.RunID).
			Int("alreadyDone", report.SkippedSteps).
			Msg("Dry run finished, host untouched")
		return report
	}

	for i, step := range plan.Steps {
		result := runStep(step, logger)
		report.Steps = append(report.Steps, result)

		switch result.Status {
		case StatusCompleted:
			report.CompletedSteps++
		case StatusSkipped:
			report.SkippedSteps++
		case StatusFailed:
			report.FailedStep = step.Name
			report.Err = result.Error
		}

		if result.Status == StatusFailed {
			for _, rest := range plan.Steps[i+1:] {
				report.Steps = append(report.Steps, StepResult{
					Name:   rest.Name,
					Status: StatusPending,
				})
			}
			break
		}
	}

	report.EndTime = time.Now()
	logger.Info().
		Str("runID", report.RunID).
		Bool("success", report.Success()).
		Int("completed", report.CompletedSteps).
		Int("skipped", report.SkippedSteps).
		Dur("duration", report.Duration()).
		Msg("Provisioning run finished")
	return report
}

func runStep(step Step, logger zerolog.Logger) StepResult {
	defer logging.LogOperationStart(logger, step.Name)()

	result := StepResult{
		Name:      step.Name,
		StartTime: time.Now(),
	}

	if step.Check != nil {
		done, err := step.Check()
		if err != nil {
			result.Status = StatusFailed
			result.Error = checkError(step.Name, err)
			result.EndTime = time.Now()
			logger.Error().Err(err).Str("step", step.Name).Msg("Step check failed")
			return result
		}
		if done {
			result.Status = StatusSkipped
			result.EndTime = time.Now()
			logger.Info().Str("step", step.Name).Msg("Already done, skipping")
			return result
		}
	}

	logger.Info().Str("step", step.Name).Msg("Running step")
	if err := step.Run(); err != nil {
		result.Status = StatusFailed
		result.Error = stepError(step.Name, err)
		result.EndTime = time.Now()
		logger.Error().Err(err).Str("step", step.Name).Msg("Step failed")
		return result
	}

	result.Status = StatusCompleted
	result.EndTime = time.Now()
	return result
}

// stepError tags a failure with the step that produced it. The underlying
// command error stays in the chain, keeping the captured exit status and
// command line reachable for diagnostics.
func stepError(name string, err error) error {
	return errors.Wrapf(err, errors.ErrStepFailed, "step %q failed", name).
		WithDetail(errors.DetailStep, name)
}

// checkError is stepError for a broken done-check. The distinct code
// separates "the step could not tell whether it is needed" from "the
// step ran and failed".
func checkError(name string, err error) error {
	return errors.Wrapf(err, errors.ErrStepCheck, "check for step %q failed", name).
		WithDetail(errors.DetailStep, name)
}

// Probe evaluates every step's check without running anything. Steps
// whose check reports done come back skipped, everything else pending.
// A check error marks the step failed but does not stop the probe.
func Probe(plan *Plan) []StepResult {
	results := make([]StepResult, 0, len(plan.Steps))
	for _, step := range plan.Steps {
		result := StepResult{Name: step.Name, Status: StatusPending}
		if step.Check != nil {
			done, err := step.Check()
			switch {
			case err != nil:
				result.Status = StatusFailed
				result.Error = err
			case done:
				result.Status = StatusSkipped
			}
		}
		results = append(results, result)
	}
	return results
}
