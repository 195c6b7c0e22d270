package portage

import (
	"testing"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/deskup/pkg/fileops"
)

// newTestFileSystem creates a test filesystem that handles absolute paths
func newTestFileSystem() filesystem.FullFileSystem {
	testFS := filesystem.NewTestFileSystem()
	return synthfs.NewPathAwareFileSystem(testFS, "/").WithAbsolutePaths()
}

func newTestMakeConf(t *testing.T) (*MakeConf, *fileops.Executor) {
	t.Helper()
	ops := fileops.NewWithFS(newTestFileSystem())
	return NewMakeConf("/etc/portage/make.conf", ops), ops
}

func TestUseLine(t *testing.T) {
	assert.Equal(t, `USE="X gtk gnome"`, UseLine([]string{"X", "gtk", "gnome"}))
	assert.Equal(t, `USE="-qt5"`, UseLine([]string{"-qt5"}))
	assert.Equal(t, `USE=""`, UseLine(nil))
}

func TestAppendUse_NewFile(t *testing.T) {
	mc, ops := newTestMakeConf(t)

	require.NoError(t, mc.AppendUse([]string{"X", "gtk"}))

	data, err := ops.ReadFile("/etc/portage/make.conf")
	require.NoError(t, err)
	assert.Equal(t, "USE=\"X gtk\"\n", string(data))
}

func TestAppendUse_PreservesExistingContent(t *testing.T) {
	mc, ops := newTestMakeConf(t)
	require.NoError(t, ops.WriteFile("/etc/portage/make.conf",
		[]byte("COMMON_FLAGS=\"-O2 -pipe\"\n"), 0644))

	require.NoError(t, mc.AppendUse([]string{"X"}))

	data, err := ops.ReadFile("/etc/portage/make.conf")
	require.NoError(t, err)
	assert.Equal(t, "COMMON_FLAGS=\"-O2 -pipe\"\nUSE=\"X\"\n", string(data))
}

func TestAppendUse_AppendsEveryTime(t *testing.T) {
	mc, ops := newTestMakeConf(t)

	require.NoError(t, mc.AppendUse([]string{"X"}))
	require.NoError(t, mc.AppendUse([]string{"X"}))

	data, err := ops.ReadFile("/etc/portage/make.conf")
	require.NoError(t, err)
	assert.Equal(t, "USE=\"X\"\nUSE=\"X\"\n", string(data),
		"the append mirrors shell '>>': Portage honors the last USE line")
}

func TestHasUseLine(t *testing.T) {
	mc, ops := newTestMakeConf(t)

	t.Run("missing file", func(t *testing.T) {
		has, err := mc.HasUseLine([]string{"X"})
		require.NoError(t, err)
		assert.False(t, has)
	})

	require.NoError(t, ops.WriteFile("/etc/portage/make.conf",
		[]byte("COMMON_FLAGS=\"-O2\"\n  USE=\"X gtk\"  \n"), 0644))

	t.Run("exact line present despite whitespace", func(t *testing.T) {
		has, err := mc.HasUseLine([]string{"X", "gtk"})
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("different flags absent", func(t *testing.T) {
		has, err := mc.HasUseLine([]string{"X", "gtk", "gnome"})
		require.NoError(t, err)
		assert.False(t, has)
	})
}
