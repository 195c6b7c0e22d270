// Package initialize implements the init command: write a starter
// configuration file for the host.
package initialize

import (
	"os"
	"path/filepath"

	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/paths"
)

// InitOptions holds options for the init command
type InitOptions struct {
	// Path is where the config file is written. Empty means the user's
	// config path.
	Path string

	// Force overwrites an existing file.
	Force bool

	// Interactive asks the setup questions instead of writing the
	// commented defaults.
	Interactive bool
}

// InitResult reports what Init wrote
type InitResult struct {
	Path    string
	Content string
	Written bool
}

// Init writes a starter configuration file. Without Interactive it
// writes the embedded defaults with every value commented out, ready
// for editing.
func Init(opts InitOptions) (*InitResult, error) {
	log := logging.GetLogger("commands.init")

	path := opts.Path
	if path == "" {
		p, err := paths.New()
		if err != nil {
			return nil, err
		}
		path = p.ConfigFilePath()
	}

	if _, err := os.Stat(path); err == nil && !opts.Force {
		return nil, errors.Newf(errors.ErrFileWrite,
			"config file already exists at %s (use --force to overwrite)", path)
	}

	content := config.GenerateConfigContent()
	if opts.Interactive {
		cfg, err := runWizard()
		if err != nil {
			return nil, err
		}
		data, err := config.MarshalConfig(cfg)
		if err != nil {
			return nil, err
		}
		content = string(data)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, errors.ErrDirCreate,
			"failed to create directory %s", dir)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileWrite,
			"failed to write config to %s", path)
	}

	log.Info().
		Str("path", path).
		Bool("interactive", opts.Interactive).
		Msg("Config file written")

	return &InitResult{Path: path, Content: content, Written: true}, nil
}
