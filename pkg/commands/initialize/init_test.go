package initialize

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/errors"
)

func TestInitWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskup.toml")

	result, err := Init(InitOptions{Path: path})
	require.NoError(t, err)

	assert.Equal(t, path, result.Path)
	assert.True(t, result.Written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# deskup configuration.")
	assert.Contains(t, string(content), `# user = ""`)
	assert.Contains(t, string(content), "[portage]")
}

func TestInitCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "etc", "deskup", "deskup.toml")

	result, err := Init(InitOptions{Path: path})
	require.NoError(t, err)
	assert.True(t, result.Written)
	assert.FileExists(t, path)
}

func TestInitRefusesExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskup.toml")
	require.NoError(t, os.WriteFile(path, []byte("user = \"larry\"\n"), 0o644))

	_, err := Init(InitOptions{Path: path})
	require.Error(t, err)
	assert.Equal(t, errors.ErrFileWrite, errors.GetErrorCode(err))
	assert.Contains(t, err.Error(), "--force")

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "user = \"larry\"\n", string(content))
}

func TestInitForceOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskup.toml")
	require.NoError(t, os.WriteFile(path, []byte("user = \"larry\"\n"), 0o644))

	result, err := Init(InitOptions{Path: path, Force: true})
	require.NoError(t, err)
	assert.True(t, result.Written)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# deskup configuration.")
}

func TestGeneratedDefaultsRoundTrip(t *testing.T) {
	// The starter file with everything uncommented must parse back to
	// the embedded defaults.
	cfg, err := config.ParseConfig([]byte(config.GetDefaultsContent()))
	require.NoError(t, err)

	assert.Equal(t, config.InitAuto, cfg.Init)
	assert.Equal(t, "default/linux/amd64/23.0/desktop", cfg.Portage.Profile)
	assert.True(t, cfg.Portage.Sync)
	assert.Equal(t, "startxfce4", cfg.Session.Command)
}

func TestSetupFormUsesDefaults(t *testing.T) {
	cfg, err := config.ParseConfig([]byte(config.GetDefaultsContent()))
	require.NoError(t, err)

	form := setupForm(cfg)
	require.NotNil(t, form)

	// The form binds straight to cfg, so the pre-filled answers are
	// the embedded defaults.
	assert.Equal(t, config.InitAuto, cfg.Init)
	assert.Equal(t, "default/linux/amd64/23.0/desktop", cfg.Portage.Profile)
}
