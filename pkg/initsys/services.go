package initsys

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// ServiceManager enables boot services for one init system
type ServiceManager interface {
	Kind() Kind

	// Enable registers the service to start at boot.
	Enable(service string) error

	// IsEnabled reports whether the service is already registered.
	IsEnabled(service string) (bool, error)
}

// NewManager returns the ServiceManager for the given init system
func NewManager(kind Kind, runner cmdexec.Runner) (ServiceManager, error) {
	switch kind {
	case Systemd:
		return &systemdManager{
			runner: runner,
			logger: logging.GetLogger("initsys.systemd"),
		}, nil
	case OpenRC:
		return &openrcManager{
			runner: runner,
			logger: logging.GetLogger("initsys.openrc"),
		}, nil
	}
	return nil, errors.New(errors.ErrInitDetect, "no service manager for unknown init system")
}

type systemdManager struct {
	runner cmdexec.Runner
	logger zerolog.Logger
}

func (m *systemdManager) Kind() Kind { return Systemd }

func (m *systemdManager) Enable(service string) error {
	m.logger.Debug().Str("service", service).Msg("Enabling service")

	if err := m.runner.Run("systemctl", "enable", service); err != nil {
		return errors.Wrapf(err, errors.ErrServiceEnable,
			"failed to enable service %s", service)
	}
	return nil
}

func (m *systemdManager) IsEnabled(service string) (bool, error) {
	result, err := m.runner.Capture("systemctl", "is-enabled", service)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrServiceEnable,
			"cannot query service %s", service)
	}
	return result.ExitCode == 0, nil
}

type openrcManager struct {
	runner cmdexec.Runner
	logger zerolog.Logger
}

func (m *openrcManager) Kind() Kind { return OpenRC }

func (m *openrcManager) Enable(service string) error {
	m.logger.Debug().Str("service", service).Msg("Adding service to default runlevel")

	if err := m.runner.Run("rc-update", "add", service, "default"); err != nil {
		return errors.Wrapf(err, errors.ErrServiceEnable,
			"failed to add service %s to default runlevel", service)
	}
	return nil
}

func (m *openrcManager) IsEnabled(service string) (bool, error) {
	result, err := m.runner.Capture("rc-update", "show", "default")
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrServiceEnable,
			"cannot list default runlevel")
	}
	if result.ExitCode != 0 {
		return false, nil
	}

	// rc-update show prints one " name | runlevels" line per service.
	for _, line := range strings.Split(result.Stdout, "\n") {
		fields := strings.Fields(line)
		if len(fields) > 0 && fields[0] == service {
			return true, nil
		}
	}
	return false, nil
}
