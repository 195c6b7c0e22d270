// Package sysusers manages the target user's supplementary group
// memberships and file ownership handoff.
package sysusers

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// Manager runs user and group operations on the host
type Manager struct {
	runner cmdexec.Runner
	logger zerolog.Logger
}

// NewManager creates a Manager using the given command runner
func NewManager(runner cmdexec.Runner) *Manager {
	return &Manager{
		runner: runner,
		logger: logging.GetLogger("sysusers"),
	}
}

// AddToGroup adds the user to one supplementary group
func (m *Manager) AddToGroup(user, group string) error {
	m.logger.Info().Str("user", user).Str("group", group).Msg("Adding user to group")

	if err := m.runner.Run("gpasswd", "-a", user, group); err != nil {
		return errors.Wrapf(err, errors.ErrGroupAdd,
			"failed to add %s to group %s", user, group)
	}
	return nil
}

// Groups lists the groups the user currently belongs to
func (m *Manager) Groups(user string) ([]string, error) {
	result, err := m.runner.Capture("id", "-nG", user)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrUserQuery,
			"cannot read groups for %s", user)
	}
	if result.ExitCode != 0 {
		return nil, errors.Newf(errors.ErrUserQuery,
			"cannot read groups for %s: %s", user, strings.TrimSpace(result.Stderr))
	}
	return strings.Fields(result.Stdout), nil
}

// IsMember reports whether the user already belongs to the group
func (m *Manager) IsMember(user, group string) (bool, error) {
	groups, err := m.Groups(user)
	if err != nil {
		return false, err
	}
	for _, g := range groups {
		if g == group {
			return true, nil
		}
	}
	return false, nil
}

// ChownToUser hands a file to the user and their login group. The
// provisioner runs as root, so files written into the user's home need
// an explicit ownership handoff.
func (m *Manager) ChownToUser(user, path string) error {
	if err := m.runner.Run("chown", user+":", path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"failed to hand %s to %s", path, user)
	}
	return nil
}

// ChownTreeToUser hands a directory tree to the user and their login group
func (m *Manager) ChownTreeToUser(user, path string) error {
	if err := m.runner.Run("chown", "-R", user+":", path); err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite,
			"failed to hand %s to %s", path, user)
	}
	return nil
}
