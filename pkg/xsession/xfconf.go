package xsession

import (
	"path/filepath"

	"github.com/beevik/etree"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/paths"
)

// SessionChannel is the xfconf channel seeded for first login.
const SessionChannel = "xfce4-session"

const channelMode = 0o644

// HasChannel reports whether the user already has the session channel.
// An existing channel is user state and is never touched.
func (m *Manager) HasChannel(user string) bool {
	return m.ops.Exists(paths.XfconfChannelPath(user, SessionChannel))
}

// SeedChannel writes the initial session channel into the user's xfconf
// directory and hands the created tree back to the user. Callers skip
// this when HasChannel reports true.
func (m *Manager) SeedChannel(user string) error {
	path := paths.XfconfChannelPath(user, SessionChannel)

	doc := sessionChannelDocument()
	doc.Indent(2)
	data, err := doc.WriteToBytes()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to render xfconf channel")
	}

	if err := m.ops.WriteFile(path, data, channelMode); err != nil {
		return err
	}

	// The write may have created ~/.config and everything under it as
	// root. Hand the whole xfconf tree back, plus ~/.config itself so
	// the user can keep writing into it.
	home := paths.UserHome(user)
	if err := m.users.ChownToUser(user, filepath.Join(home, ".config")); err != nil {
		return err
	}
	if err := m.users.ChownTreeToUser(user, filepath.Join(home, ".config", "xfce4")); err != nil {
		return err
	}

	m.logger.Info().
		Str("user", user).
		Str("channel", SessionChannel).
		Str("path", path).
		Msg("Seeded xfconf channel")
	return nil
}

// sessionChannelDocument builds the initial xfce4-session channel.
// Session saving is off so a first logout does not pin whatever windows
// happened to be open as the permanent session.
func sessionChannelDocument() *etree.Document {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	channel := doc.CreateElement("channel")
	channel.CreateAttr("name", SessionChannel)
	channel.CreateAttr("version", "1.0")

	general := channel.CreateElement("property")
	general.CreateAttr("name", "general")
	general.CreateAttr("type", "empty")

	saveOnExit := general.CreateElement("property")
	saveOnExit.CreateAttr("name", "SaveOnExit")
	saveOnExit.CreateAttr("type", "bool")
	saveOnExit.CreateAttr("value", "false")

	return doc
}
