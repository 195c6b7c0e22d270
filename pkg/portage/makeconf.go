package portage

import (
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/fileops"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// MakeConf edits Portage's make.conf
type MakeConf struct {
	path   string
	ops    *fileops.Executor
	logger zerolog.Logger
}

// NewMakeConf creates a MakeConf editor for the given file
func NewMakeConf(path string, ops *fileops.Executor) *MakeConf {
	return &MakeConf{
		path:   path,
		ops:    ops,
		logger: logging.GetLogger("portage.makeconf"),
	}
}

// UseLine renders USE flags as the line appended to make.conf
func UseLine(flags []string) string {
	return fmt.Sprintf("USE=%q", strings.Join(flags, " "))
}

// AppendUse appends the USE line to make.conf. Appending is not
// idempotent: each call adds another line, and Portage honors the last
// one. Callers wanting write-once behavior gate on HasUseLine.
func (mc *MakeConf) AppendUse(flags []string) error {
	line := UseLine(flags)

	if err := mc.ops.AppendLine(mc.path, line, 0644); err != nil {
		return err
	}

	mc.logger.Info().Str("path", mc.path).Str("line", line).Msg("USE flags appended")
	return nil
}

// HasUseLine reports whether make.conf already carries the exact USE line
// for these flags
func (mc *MakeConf) HasUseLine(flags []string) (bool, error) {
	if !mc.ops.Exists(mc.path) {
		return false, nil
	}

	data, err := mc.ops.ReadFile(mc.path)
	if err != nil {
		return false, err
	}

	line := UseLine(flags)
	for _, existing := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(existing) == line {
			return true, nil
		}
	}
	return false, nil
}
