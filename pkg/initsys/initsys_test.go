package initsys

import (
	"testing"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arthur-debert/deskup/pkg/errors"
)

// newTestFileSystem creates a test filesystem that handles absolute paths
func newTestFileSystem() filesystem.FullFileSystem {
	testFS := filesystem.NewTestFileSystem()
	return synthfs.NewPathAwareFileSystem(testFS, "/").WithAbsolutePaths()
}

func TestParseKind(t *testing.T) {
	tests := []struct {
		input   string
		want    Kind
		wantErr bool
	}{
		{"", Unknown, false},
		{"auto", Unknown, false},
		{"systemd", Systemd, false},
		{"openrc", OpenRC, false},
		{"OpenRC", OpenRC, false},
		{"runit", Unknown, true},
	}

	for _, tt := range tests {
		t.Run("input_"+tt.input, func(t *testing.T) {
			kind, err := ParseKind(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsErrorCode(err, errors.ErrInitDetect))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, kind)
		})
	}
}

func TestKindString(t *testing.T) {
	assert.Equal(t, "systemd", Systemd.String())
	assert.Equal(t, "openrc", OpenRC.String())
	assert.Equal(t, "unknown", Unknown.String())
}

func TestDetect_Systemd(t *testing.T) {
	fs := newTestFileSystem()
	require.NoError(t, fs.MkdirAll("/run/systemd/system", 0755))

	detector := NewDetector(fs)
	assert.Equal(t, Systemd, detector.Detect())
}

func TestDetect_OpenRC(t *testing.T) {
	detector := NewDetector(newTestFileSystem())
	assert.Equal(t, OpenRC, detector.Detect())
}

func TestResolve(t *testing.T) {
	withMarker := newTestFileSystem()
	require.NoError(t, withMarker.MkdirAll("/run/systemd/system", 0755))

	t.Run("auto detects from marker", func(t *testing.T) {
		kind, err := NewDetector(withMarker).Resolve("auto")
		require.NoError(t, err)
		assert.Equal(t, Systemd, kind)
	})

	t.Run("auto without marker is openrc", func(t *testing.T) {
		kind, err := NewDetector(newTestFileSystem()).Resolve("auto")
		require.NoError(t, err)
		assert.Equal(t, OpenRC, kind)
	})

	t.Run("forced value skips detection", func(t *testing.T) {
		// The marker says systemd, the configuration insists on OpenRC.
		kind, err := NewDetector(withMarker).Resolve("openrc")
		require.NoError(t, err)
		assert.Equal(t, OpenRC, kind)
	})

	t.Run("unknown value is an error", func(t *testing.T) {
		_, err := NewDetector(newTestFileSystem()).Resolve("sysvinit")
		require.Error(t, err)
	})
}
