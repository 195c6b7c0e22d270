package provision

import (
	"fmt"

	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/initsys"
	"github.com/arthur-debert/deskup/pkg/portage"
	"github.com/arthur-debert/deskup/pkg/sysusers"
	"github.com/arthur-debert/deskup/pkg/xsession"
)

// Deps bundles the managers plan steps call into. Tests pass managers
// built on a fake runner and an in-memory filesystem.
type Deps struct {
	Packages *portage.Manager
	MakeConf *portage.MakeConf
	Users    *sysusers.Manager
	Session  *xsession.Manager
	Services initsys.ServiceManager
}

// NewPlan derives the ordered step list for a configuration. The order
// follows the dependency chain of a desktop install: package tree and
// profile first, USE flags before anything builds against them, X and the
// desktop before anything that configures them, services last.
func NewPlan(cfg *config.Config, deps Deps) *Plan {
	b := &planBuilder{cfg: cfg, deps: deps}

	var steps []Step
	steps = append(steps, b.syncSteps()...)
	steps = append(steps, b.profileSteps()...)
	steps = append(steps, b.useFlagSteps()...)
	steps = append(steps, b.packageSteps()...)
	steps = append(steps, b.groupSteps()...)
	steps = append(steps, b.envSteps()...)
	steps = append(steps, b.sessionSteps()...)
	steps = append(steps, b.serviceSteps()...)

	return &Plan{
		User:  cfg.User,
		Init:  deps.Services.Kind(),
		Steps: steps,
	}
}

type planBuilder struct {
	cfg  *config.Config
	deps Deps
}

func (b *planBuilder) syncSteps() []Step {
	if !b.cfg.Portage.Sync {
		return nil
	}
	return []Step{{
		Name: "sync portage tree",
		Run:  b.deps.Packages.Sync,
	}}
}

func (b *planBuilder) profileSteps() []Step {
	profile := b.cfg.Portage.Profile
	return []Step{{
		Name: "select profile",
		Check: func() (bool, error) {
			current, err := b.deps.Packages.CurrentProfile()
			if err != nil {
				return false, err
			}
			return current == profile, nil
		},
		Run: func() error {
			return b.deps.Packages.SetProfile(profile)
		},
	}}
}

func (b *planBuilder) useFlagSteps() []Step {
	flags := b.cfg.Portage.UseFlags
	if len(flags) == 0 {
		return nil
	}

	step := Step{
		Name: "append use flags",
		Run: func() error {
			return b.deps.MakeConf.AppendUse(flags)
		},
	}
	// Appending is deliberately repeatable; the check only exists when the
	// configuration asks for write-once behavior.
	if b.cfg.Portage.UseFlagsOnce {
		step.Check = func() (bool, error) {
			return b.deps.MakeConf.HasUseLine(flags), nil
		}
	}
	return []Step{step}
}

func (b *planBuilder) packageSteps() []Step {
	atoms := make([]string, 0, 1+len(b.cfg.Packages.Desktop)+len(b.cfg.Packages.Extras))
	if b.cfg.Packages.Xorg != "" {
		atoms = append(atoms, b.cfg.Packages.Xorg)
	}
	atoms = append(atoms, b.cfg.Packages.Desktop...)
	atoms = append(atoms, b.cfg.Packages.Extras...)

	steps := make([]Step, 0, len(atoms))
	for _, atom := range atoms {
		steps = append(steps, Step{
			Name: "install " + atom,
			Check: func() (bool, error) {
				return b.deps.Packages.IsInstalled(atom)
			},
			Run: func() error {
				return b.deps.Packages.Install(atom)
			},
		})
	}
	return steps
}

func (b *planBuilder) groupSteps() []Step {
	user := b.cfg.User
	steps := make([]Step, 0, len(b.cfg.Groups))
	for _, group := range b.cfg.Groups {
		steps = append(steps, Step{
			Name: fmt.Sprintf("add %s to %s", user, group),
			Check: func() (bool, error) {
				return b.deps.Users.IsMember(user, group)
			},
			Run: func() error {
				return b.deps.Users.AddToGroup(user, group)
			},
		})
	}
	return steps
}

func (b *planBuilder) envSteps() []Step {
	return []Step{{
		Name: "refresh environment",
		Run:  b.deps.Packages.EnvUpdate,
	}}
}

func (b *planBuilder) sessionSteps() []Step {
	var steps []Step
	user := b.cfg.User

	if b.cfg.Session.WriteXinitrc {
		command := b.cfg.Session.Command
		// No check: the file is always rewritten so the configured session
		// wins over whatever a stale .xinitrc points at.
		steps = append(steps, Step{
			Name: "write .xinitrc",
			Run: func() error {
				return b.deps.Session.WriteXinitrc(user, command)
			},
		})
	}

	if b.cfg.Session.SeedXfconf {
		steps = append(steps, Step{
			Name: "seed xfconf channel",
			Check: func() (bool, error) {
				return b.deps.Session.HasChannel(user), nil
			},
			Run: func() error {
				return b.deps.Session.SeedChannel(user)
			},
		})
	}
	return steps
}

func (b *planBuilder) serviceSteps() []Step {
	var services []string
	switch b.deps.Services.Kind() {
	case initsys.Systemd:
		services = b.cfg.Services.Systemd
	case initsys.OpenRC:
		services = b.cfg.Services.Openrc
	}

	steps := make([]Step, 0, len(services))
	for _, service := range services {
		steps = append(steps, Step{
			Name: "enable " + service,
			Check: func() (bool, error) {
				return b.deps.Services.IsEnabled(service)
			},
			Run: func() error {
				return b.deps.Services.Enable(service)
			},
		})
	}
	return steps
}
