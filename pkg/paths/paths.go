// Package paths provides centralized path handling for deskup.
// It implements XDG Base Directory specification compliance for deskup's
// own files and knows the fixed host locations (Portage configuration,
// per-user session files) the provisioner writes to.
package paths

import (
	"os"
	"os/user"
	"path/filepath"

	"github.com/adrg/xdg"
)

// Environment variable names
const (
	// EnvDeskupConfigDir overrides the XDG config directory for deskup
	EnvDeskupConfigDir = "DESKUP_CONFIG_DIR"

	// EnvDeskupStateDir overrides the XDG state directory for deskup
	EnvDeskupStateDir = "DESKUP_STATE_DIR"

	// EnvHome is the standard home directory variable
	EnvHome = "HOME"
)

// Fixed host locations. These are defined by Portage and X11, not by
// deskup, and are not user-configurable.
const (
	// MakeConfPath is the Portage make.conf file
	MakeConfPath = "/etc/portage/make.conf"

	// SystemConfigPath is the machine-wide deskup configuration file
	SystemConfigPath = "/etc/deskup.toml"

	// XinitrcName is the per-user X session startup file
	XinitrcName = ".xinitrc"

	// XfconfChannelDir is the per-user xfconf channel directory,
	// relative to the user's home
	XfconfChannelDir = ".config/xfce4/xfconf/xfce-perchannel-xml"
)

// deskup's own directories and files
const (
	// DeskupDirName is the directory name for deskup-specific files
	DeskupDirName = "deskup"

	// ConfigFileName is the name of the configuration file
	ConfigFileName = "deskup.toml"

	// LogFileName is the name of the log file
	LogFileName = "deskup.log"
)

// Paths provides centralized path management for deskup
type Paths interface {
	ConfigDir() string
	ConfigFilePath() string
	SystemConfigFilePath() string
	StateDir() string
	LogFilePath() string
}

type paths struct {
	// xdgConfig is the XDG config directory
	xdgConfig string

	// xdgState is the XDG state directory
	xdgState string
}

// New creates a new Paths instance, respecting environment overrides
func New() (Paths, error) {
	p := &paths{}
	p.setupXDGDirs()
	return p, nil
}

// setupXDGDirs initializes XDG directories, respecting environment overrides
func (p *paths) setupXDGDirs() {
	// Config directory
	if configDir := os.Getenv(EnvDeskupConfigDir); configDir != "" {
		p.xdgConfig = expandHome(configDir)
	} else {
		p.xdgConfig = filepath.Join(xdg.ConfigHome, DeskupDirName)
	}

	// State directory - XDG doesn't provide StateHome, so we check manually
	if stateDir := os.Getenv(EnvDeskupStateDir); stateDir != "" {
		p.xdgState = expandHome(stateDir)
	} else if stateHome := os.Getenv("XDG_STATE_HOME"); stateHome != "" {
		p.xdgState = filepath.Join(stateHome, DeskupDirName)
	} else {
		homeDir, _ := os.UserHomeDir()
		p.xdgState = filepath.Join(homeDir, ".local", "state", DeskupDirName)
	}
}

// ConfigDir returns deskup's per-user configuration directory
func (p *paths) ConfigDir() string {
	return p.xdgConfig
}

// ConfigFilePath returns the per-user configuration file path
func (p *paths) ConfigFilePath() string {
	return filepath.Join(p.xdgConfig, ConfigFileName)
}

// SystemConfigFilePath returns the machine-wide configuration file path
func (p *paths) SystemConfigFilePath() string {
	return SystemConfigPath
}

// StateDir returns deskup's state directory
func (p *paths) StateDir() string {
	return p.xdgState
}

// LogFilePath returns the path of deskup's log file
func (p *paths) LogFilePath() string {
	return filepath.Join(p.xdgState, LogFileName)
}

// UserHome resolves the home directory of the named user. When the user
// cannot be looked up (not in passwd yet, cross-compiled binary without
// cgo), it falls back to the conventional location.
func UserHome(username string) string {
	if u, err := user.Lookup(username); err == nil && u.HomeDir != "" {
		return u.HomeDir
	}

	if username == "root" {
		return "/root"
	}
	return filepath.Join("/home", username)
}

// Xinitrc returns the path of the named user's X session startup file
func Xinitrc(username string) string {
	return filepath.Join(UserHome(username), XinitrcName)
}

// XfconfChannelPath returns the path of an xfconf channel file in the
// named user's home
func XfconfChannelPath(username, channel string) string {
	return filepath.Join(UserHome(username), XfconfChannelDir, channel+".xml")
}

// expandHome expands ~ to the home directory
func expandHome(path string) string {
	if path == "" {
		return path
	}

	if path[0] == '~' {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			// Fallback to HOME env var
			homeDir = os.Getenv(EnvHome)
			if homeDir == "" {
				// Can't expand, return as-is
				return path
			}
		}

		if path == "~" {
			return homeDir
		}
		if len(path) > 1 && path[1] == '/' {
			return filepath.Join(homeDir, path[2:])
		}
	}

	return path
}
