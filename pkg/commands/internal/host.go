// Package internal holds the wiring shared by the plan-building
// commands: loading configuration, resolving the init system and
// assembling the provisioning plan against the host.
package internal

import (
	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/initsys"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/portage"
	"github.com/arthur-debert/deskup/pkg/provision"
	"github.com/arthur-debert/deskup/pkg/sysusers"
	"github.com/arthur-debert/deskup/pkg/xsession"
)

// HostOptions carries the inputs shared by up and status.
type HostOptions struct {
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

// BuildPlan is the core logic for up and status: load and validate the
// configuration, resolve the init system, and assemble the provisioning
// plan.
func BuildPlan(opts HostOptions) (*config.Config, *provision.Plan, error) {
	logger := logging.GetLogger("commands")

	overrides := map[string]interface{}{}
	if opts.User != "" {
		overrides["user"] = opts.User
	}
	if opts.Init != "" {
		overrides["init"] = opts.Init
	}

	cfg, err := config.LoadWithOverrides(opts.ConfigPath, overrides)
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	runner := opts.Runner
	if runner == nil {
		runner = cmdexec.NewOSRunner()
	}
	ops := opts.Ops
	if ops == nil {
		ops = fileops.New()
	}

	kind, err := initsys.NewDetector(ops.FS()).Resolve(cfg.Init)
	if err != nil {
		return nil, nil, err
	}
	services, err := initsys.NewManager(kind, runner)
	if err != nil {
		return nil, nil, err
	}

	logger.Debug().
		Str("user", cfg.User).
		Stringer("init", kind).
		Msg("Assembling provisioning plan")

	users := sysusers.NewManager(runner)
	plan := provision.NewPlan(cfg, provision.Deps{
		Packages: portage.NewManager(runner),
		MakeConf: portage.NewMakeConf(cfg.Portage.MakeConf, ops),
		Users:    users,
		Session:  xsession.NewManager(ops, users),
		Services: services,
	})

	return cfg, plan, nil
}
