// Package fileops applies host file mutations through a staged operation
// pipeline. Every write the provisioner performs (make.conf append,
// .xinitrc, xfconf seed) goes through an Executor so the whole write side
// can run against an in-memory filesystem in tests. There is no rollback:
// a failed write is diagnosed, not undone.
package fileops

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/synthfs/pkg/synthfs"
	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// Executor stages file mutations as operations and applies them in one run
type Executor struct {
	logger zerolog.Logger
	fs     filesystem.FullFileSystem
}

// New creates an Executor writing to the host filesystem
func New() *Executor {
	osfs := filesystem.NewOSFileSystem("/")
	return NewWithFS(synthfs.NewPathAwareFileSystem(osfs, "/").WithAbsolutePaths())
}

// NewWithFS creates an Executor on the given filesystem
func NewWithFS(fsys filesystem.FullFileSystem) *Executor {
	return &Executor{
		logger: logging.GetLogger("fileops"),
		fs:     fsys,
	}
}

// FS exposes the underlying filesystem for read-side checks
func (e *Executor) FS() filesystem.FullFileSystem {
	return e.fs
}

// WriteFile writes content to path, creating parent directories and
// overwriting any existing file
func (e *Executor) WriteFile(path string, content []byte, mode os.FileMode) error {
	sfs := synthfs.New()
	id := fmt.Sprintf("write-%s", path)

	op := sfs.CustomOperationWithID(id, func(ctx context.Context, opfs filesystem.FileSystem) error {
		if err := ensureParentDir(opfs, path); err != nil {
			return err
		}
		if err := opfs.WriteFile(path, content, mode); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
		return nil
	})

	return e.apply(path, op)
}

// AppendLine appends line to path with a trailing newline, creating the
// file when absent. Calling it twice appends twice; callers wanting
// write-once semantics check the file first.
func (e *Executor) AppendLine(path, line string, mode os.FileMode) error {
	content := line
	if !strings.HasSuffix(content, "\n") {
		content += "\n"
	}

	sfs := synthfs.New()
	id := fmt.Sprintf("append-%s", path)

	op := sfs.CustomOperationWithID(id, func(ctx context.Context, opfs filesystem.FileSystem) error {
		if err := ensureParentDir(opfs, path); err != nil {
			return err
		}

		var existing []byte
		file, err := opfs.Open(path)
		if err == nil {
			defer func() { _ = file.Close() }()
			existing, err = io.ReadAll(file)
			if err != nil {
				return fmt.Errorf("failed to read file %s: %w", path, err)
			}
		} else if !isNotExist(err) {
			return fmt.Errorf("failed to open file %s: %w", path, err)
		}

		if err := opfs.WriteFile(path, append(existing, []byte(content)...), mode); err != nil {
			return fmt.Errorf("failed to write file %s: %w", path, err)
		}
		return nil
	})

	return e.apply(path, op)
}

// Exists reports whether path exists
func (e *Executor) Exists(path string) bool {
	_, err := e.fs.Stat(path)
	return err == nil
}

// ReadFile returns the content of path
func (e *Executor) ReadFile(path string) ([]byte, error) {
	file, err := e.fs.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to open %s", path)
	}
	defer func() { _ = file.Close() }()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrFileAccess, "failed to read %s", path)
	}
	return data, nil
}

// apply runs the staged operations against the executor's filesystem
func (e *Executor) apply(target string, ops ...synthfs.Operation) error {
	ctx := context.Background()
	options := synthfs.DefaultPipelineOptions()
	options.RollbackOnError = false

	result, err := synthfs.RunWithOptions(ctx, e.fs, options, ops...)
	e.logResult(result)

	if err != nil {
		return errors.Wrapf(err, errors.ErrFileWrite, "failed to update %s", target)
	}
	return nil
}

func (e *Executor) logResult(result *synthfs.Result) {
	if result == nil {
		return
	}
	for _, opResult := range result.GetOperations() {
		if r, ok := opResult.(synthfs.OperationResult); ok {
			e.logger.Debug().
				Str("operationID", string(r.OperationID)).
				Bool("success", r.Status == synthfs.StatusSuccess).
				Msg("Operation finished")
		}
	}
}

// ensureParentDir creates the parent directory of path
func ensureParentDir(opfs filesystem.FileSystem, path string) error {
	parentDir := filepath.Dir(path)
	if parentDir != "." && parentDir != "/" {
		if err := opfs.MkdirAll(parentDir, 0755); err != nil {
			return fmt.Errorf("failed to create parent directory %s: %w", parentDir, err)
		}
	}
	return nil
}

// isNotExist checks if an error indicates a file doesn't exist
func isNotExist(err error) bool {
	return err != nil && stderrors.Is(err, fs.ErrNotExist)
}
