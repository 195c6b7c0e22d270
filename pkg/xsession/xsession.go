// Package xsession prepares a user's X session: the .xinitrc that execs
// the desktop and the initial xfconf channel for first login.
package xsession

import (
	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/paths"
	"github.com/arthur-debert/deskup/pkg/sysusers"
)

const xinitrcMode = 0o644

// Manager writes session files into a user's home directory. All writes
// run as root, so every file is handed back to the user afterwards.
type Manager struct {
	ops    *fileops.Executor
	users  *sysusers.Manager
	logger zerolog.Logger
}

// NewManager creates a session manager using the given file executor and
// user manager.
func NewManager(ops *fileops.Executor, users *sysusers.Manager) *Manager {
	return &Manager{
		ops:    ops,
		users:  users,
		logger: logging.GetLogger("xsession"),
	}
}

// XinitrcContent renders the startup file for a session command.
func XinitrcContent(command string) string {
	return "exec " + command + "\n"
}

// WriteXinitrc writes the user's .xinitrc so startx launches the desktop.
// An existing file is overwritten: the session command comes from the
// configuration, and a stale .xinitrc pointing at another desktop would
// otherwise win.
func (m *Manager) WriteXinitrc(user, command string) error {
	path := paths.Xinitrc(user)
	if err := m.ops.WriteFile(path, []byte(XinitrcContent(command)), xinitrcMode); err != nil {
		return err
	}
	if err := m.users.ChownToUser(user, path); err != nil {
		return err
	}

	m.logger.Info().
		Str("user", user).
		Str("path", path).
		Str("command", command).
		Msg("Wrote session startup file")
	return nil
}

// HasXinitrc reports whether the user's .xinitrc already execs the given
// command. Used for status reporting, not to skip the write.
func (m *Manager) HasXinitrc(user, command string) bool {
	data, err := m.ops.ReadFile(paths.Xinitrc(user))
	if err != nil {
		return false
	}
	return string(data) == XinitrcContent(command)
}
