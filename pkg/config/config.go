// Package config loads deskup's configuration. Sources are merged in
// order: embedded defaults, the machine-wide /etc/deskup.toml, the user's
// XDG config file, an explicit --config path, and finally DESKUP_*
// environment variables.
package config

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/paths"
)

var log = logging.GetLogger("config")

// EnvPrefix is the prefix for environment variable overrides
const EnvPrefix = "DESKUP_"

// Init system selection values for Config.Init
const (
	InitAuto    = "auto"
	InitSystemd = "systemd"
	InitOpenrc  = "openrc"
)

// Config is deskup's effective configuration
type Config struct {
	// User is the login user the desktop is provisioned for
	User string `koanf:"user" toml:"user"`

	// Init selects the init system: auto, systemd or openrc
	Init string `koanf:"init" toml:"init"`

	// Groups are the device groups the user joins
	Groups []string `koanf:"groups" toml:"groups"`

	Portage  Portage  `koanf:"portage" toml:"portage"`
	Packages Packages `koanf:"packages" toml:"packages"`
	Services Services `koanf:"services" toml:"services"`
	Session  Session  `koanf:"session" toml:"session"`
}

// Portage holds package-manager settings
type Portage struct {
	Profile      string   `koanf:"profile" toml:"profile"`
	Sync         bool     `koanf:"sync" toml:"sync"`
	UseFlags     []string `koanf:"use_flags" toml:"use_flags"`
	UseFlagsOnce bool     `koanf:"use_flags_once" toml:"use_flags_once"`
	MakeConf     string   `koanf:"make_conf" toml:"make_conf"`
}

// Packages lists the package atoms the plan installs
type Packages struct {
	Xorg    string   `koanf:"xorg" toml:"xorg"`
	Desktop []string `koanf:"desktop" toml:"desktop"`
	Extras  []string `koanf:"extras" toml:"extras"`
}

// Services lists the services enabled per init system
type Services struct {
	Systemd []string `koanf:"systemd" toml:"systemd"`
	Openrc  []string `koanf:"openrc" toml:"openrc"`
}

// Session holds X session settings
type Session struct {
	Command      string `koanf:"command" toml:"command"`
	WriteXinitrc bool   `koanf:"write_xinitrc" toml:"write_xinitrc"`
	SeedXfconf   bool   `koanf:"seed_xfconf" toml:"seed_xfconf"`
}

// Load builds the effective configuration. explicitPath is the --config
// value and may be empty.
func Load(explicitPath string) (*Config, error) {
	return LoadWithOverrides(explicitPath, nil)
}

// LoadWithOverrides builds the effective configuration with a final layer
// of programmatic overrides, keyed by dotted config path ("user",
// "portage.profile"). Command-line flags land here so they beat every
// other source.
func LoadWithOverrides(explicitPath string, overrides map[string]interface{}) (*Config, error) {
	p, err := paths.New()
	if err != nil {
		return nil, err
	}

	files := []string{p.SystemConfigFilePath(), p.ConfigFilePath()}
	if explicitPath != "" {
		// An explicit path must exist; silently skipping it would hide typos.
		if _, err := os.Stat(explicitPath); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"config file not found: %s", explicitPath)
		}
		files = append(files, explicitPath)
	}

	return loadFrom(files, overrides)
}

// loadFrom merges the embedded defaults, the given files in order, the
// environment, and any programmatic overrides on top.
func loadFrom(files []string, overrides map[string]interface{}) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to load embedded defaults")
	}

	for _, path := range files {
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := k.Load(file.Provider(path), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse,
				"failed to parse config from %s", path)
		}
		log.Debug().Str("path", path).Msg("Config file loaded")
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, EnvPrefix)), "_", ".")
	}), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load environment overrides")
	}

	if len(overrides) > 0 {
		if err := k.Load(confmap.Provider(overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}

	log.Debug().
		Str("user", cfg.User).
		Str("init", cfg.Init).
		Int("desktopPackages", len(cfg.Packages.Desktop)).
		Msg("Configuration loaded")

	return &cfg, nil
}

// Validate checks the fields a provisioning run depends on
func (c *Config) Validate() error {
	if c.User == "" {
		return errors.New(errors.ErrConfigValid,
			"user must be set (deskup.toml 'user' key or DESKUP_USER)")
	}

	switch c.Init {
	case InitAuto, InitSystemd, InitOpenrc:
	default:
		return errors.Newf(errors.ErrConfigValid,
			"init must be %q, %q or %q, got %q", InitAuto, InitSystemd, InitOpenrc, c.Init)
	}

	if c.Portage.Profile == "" {
		return errors.New(errors.ErrConfigValid, "portage.profile must be set")
	}

	if c.Portage.MakeConf == "" {
		return errors.New(errors.ErrConfigValid, "portage.make_conf must be set")
	}

	if c.Session.WriteXinitrc && c.Session.Command == "" {
		return errors.New(errors.ErrConfigValid,
			"session.command must be set when session.write_xinitrc is enabled")
	}

	return nil
}
