// Package status implements the status command: evaluate every step's
// check against the host without changing anything.
package status

import (
	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/commands/internal"
	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/provision"
)

// StatusOptions holds options for the status command
type StatusOptions struct {
	// ConfigPath is an explicit config file, empty for the default
	// search order.
	ConfigPath string

	// User overrides the configured login user when set
	User string

	// Init overrides the configured init system selection when set
	Init string

	// Runner executes host commands. Defaults to the real process
	// runner.
	Runner cmdexec.Runner

	// Ops applies filesystem changes. Defaults to the host filesystem.
	Ops *fileops.Executor
}

// StatusResult pairs the plan with the probed state of its steps.
type StatusResult struct {
	Plan    *provision.Plan
	Results []provision.StepResult
}

// Status builds the provisioning plan and probes it read-only.
func Status(opts StatusOptions) (*StatusResult, error) {
	logger := logging.GetLogger("commands.status")

	_, plan, err := internal.BuildPlan(internal.HostOptions{
		ConfigPath: opts.ConfigPath,
		User:       opts.User,
		Init:       opts.Init,
		Runner:     opts.Runner,
		Ops:        opts.Ops,
	})
	if err != nil {
		return nil, err
	}

	results := provision.Probe(plan)

	done := 0
	for _, result := range results {
		if result.Status == provision.StatusSkipped {
			done++
		}
	}
	logger.Info().
		Int("steps", len(results)).
		Int("done", done).
		Msg("Probed provisioning state")

	return &StatusResult{Plan: plan, Results: results}, nil
}
