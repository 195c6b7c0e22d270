// Package portage drives Gentoo's package manager: tree sync, profile
// selection, package installs and the post-install environment refresh.
// Every mutation is an external command through cmdexec.Runner; queries
// capture output instead of streaming it.
package portage

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// Manager runs Portage operations on the host
type Manager struct {
	runner cmdexec.Runner
	logger zerolog.Logger
}

// NewManager creates a Manager using the given command runner
func NewManager(runner cmdexec.Runner) *Manager {
	return &Manager{
		runner: runner,
		logger: logging.GetLogger("portage"),
	}
}

// Sync refreshes the package tree
func (m *Manager) Sync() error {
	m.logger.Info().Msg("Syncing package tree")

	if err := m.runner.Run("emerge", "--sync", "--quiet"); err != nil {
		return errors.Wrap(err, errors.ErrPkgSync, "package tree sync failed")
	}
	return nil
}

// SetProfile selects the Portage profile
func (m *Manager) SetProfile(profile string) error {
	m.logger.Info().Str("profile", profile).Msg("Selecting profile")

	if err := m.runner.Run("eselect", "profile", "set", profile); err != nil {
		return errors.Wrapf(err, errors.ErrProfileSet,
			"failed to select profile %s", profile)
	}
	return nil
}

// CurrentProfile reports the active profile
func (m *Manager) CurrentProfile() (string, error) {
	result, err := m.runner.Capture("eselect", "profile", "show")
	if err != nil {
		return "", errors.Wrap(err, errors.ErrPkgQuery, "cannot read current profile")
	}
	if result.ExitCode != 0 {
		return "", errors.Newf(errors.ErrPkgQuery,
			"eselect profile show exited with status %d", result.ExitCode)
	}

	// Output is a header line followed by the indented profile name.
	var profile string
	for _, line := range strings.Split(result.Stdout, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			profile = trimmed
		}
	}
	if strings.HasSuffix(profile, ":") {
		// Only the header came back; no profile is set.
		return "", nil
	}
	return profile, nil
}

// Install builds and installs the package atom
func (m *Manager) Install(atom string) error {
	m.logger.Info().Str("atom", atom).Msg("Installing package")

	if err := m.runner.Run("emerge", "--quiet-build=y", atom); err != nil {
		return errors.Wrapf(err, errors.ErrPkgInstall,
			"failed to install %s", atom)
	}
	return nil
}

// IsInstalled reports whether the atom is already present
func (m *Manager) IsInstalled(atom string) (bool, error) {
	result, err := m.runner.Capture("qlist", "-I", atom)
	if err != nil {
		return false, errors.Wrapf(err, errors.ErrPkgQuery, "cannot query %s", atom)
	}

	// qlist prints matching installed packages; silence means absent.
	installed := result.ExitCode == 0 && strings.TrimSpace(result.Stdout) != ""

	m.logger.Debug().Str("atom", atom).Bool("installed", installed).Msg("Package queried")
	return installed, nil
}

// EnvUpdate rebuilds the profile environment after installs
func (m *Manager) EnvUpdate() error {
	m.logger.Info().Msg("Refreshing environment")

	if err := m.runner.Run("env-update"); err != nil {
		return errors.Wrap(err, errors.ErrEnvUpdate, "environment refresh failed")
	}
	return nil
}
