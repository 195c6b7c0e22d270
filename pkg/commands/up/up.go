// Package up implements the up command: build the provisioning plan
// from configuration and run it against the host.
package up

import (
	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/commands/internal"
	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/provision"
)

// UpOptions holds options for the up command
type UpOptions struct {
	// ConfigPath is an explicit config file, empty for the default
	// search order.
	ConfigPath string

	// User overrides the configured login user when set
	User string

	// Init overrides the configured init system selection when set
	Init string

	// DryRun previews the plan: checks run, the host stays untouched
	DryRun bool

	// Runner executes host commands. Defaults to the real process
	// runner.
	Runner cmdexec.Runner

	// Ops applies filesystem changes. Defaults to the host filesystem.
	Ops *fileops.Executor
}

// Up builds the provisioning plan and runs it. The report is returned
// even when the run fails; the error then matches report.Err so the
// caller can both render the report and exit non-zero.
func Up(opts UpOptions) (*provision.Report, error) {
	logger := logging.GetLogger("commands.up")

	cfg, plan, err := internal.BuildPlan(internal.HostOptions{
		ConfigPath: opts.ConfigPath,
		User:       opts.User,
		Init:       opts.Init,
		Runner:     opts.Runner,
		Ops:        opts.Ops,
	})
	if err != nil {
		return nil, err
	}

	logger.Info().
		Str("user", cfg.User).
		Int("steps", len(plan.Steps)).
		Bool("dryRun", opts.DryRun).
		Msg("Starting provisioning run")

	provisioner := &provision.Provisioner{DryRun: opts.DryRun}
	report := provisioner.Run(plan)
	return report, report.Err
}
