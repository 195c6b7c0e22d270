// Package cmdexec runs external commands on the host. Provisioning steps,
// the Portage provider and the service managers all go through the Runner
// interface so tests can substitute a fake and assert on the exact command
// lines without touching the system.
package cmdexec

import (
	"bytes"
	stderrors "errors"
	"os"
	"os/exec"
	"strings"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/rs/zerolog"
)

// Result holds the outcome of a finished command
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// Runner executes external commands on the host
type Runner interface {
	// Run executes the command, streaming its output to the terminal.
	// A non-zero exit status is returned as an error carrying the captured
	// status and the attempted command line.
	Run(name string, args ...string) error

	// Capture executes the command and buffers its output. A non-zero exit
	// status is reported through Result, not as an error; the error return
	// covers commands that could not be started at all.
	Capture(name string, args ...string) (Result, error)
}

// OSRunner is the os/exec implementation of Runner
type OSRunner struct {
	logger zerolog.Logger
}

// NewOSRunner creates a Runner backed by the host system
func NewOSRunner() *OSRunner {
	return &OSRunner{
		logger: logging.GetLogger("cmdexec"),
	}
}

// CommandLine renders a command the way it would be typed at a shell prompt
func CommandLine(name string, args ...string) string {
	if len(args) == 0 {
		return name
	}
	return name + " " + strings.Join(args, " ")
}

// Run executes the command with output attached to the terminal so the user
// sees package-manager progress live. No timeout is applied: a hung command
// hangs the plan, which is acceptable for an install-time utility.
func (r *OSRunner) Run(name string, args ...string) error {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		status := exitStatus(err)
		r.logger.Error().
			Err(err).
			Str("command", CommandLine(name, args...)).
			Int("exitCode", status).
			Msg("Command execution failed")

		return errors.Wrapf(err, errors.ErrCommandRun,
			"command failed: %s", CommandLine(name, args...)).
			WithDetail(errors.DetailExitCode, status).
			WithDetail(errors.DetailCommand, CommandLine(name, args...))
	}

	r.logger.Debug().
		Str("command", CommandLine(name, args...)).
		Msg("Command executed successfully")

	return nil
}

// Capture executes the command and returns its exit status and buffered
// output. Queries such as qlist or systemctl is-enabled use the status to
// answer yes/no questions, so non-zero exits are data here, not failures.
func (r *OSRunner) Capture(name string, args ...string) (Result, error) {
	logging.LogCommand(name, args)

	cmd := exec.Command(name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	result := Result{
		ExitCode: 0,
		Stdout:   stdout.String(),
		Stderr:   stderr.String(),
	}

	if err != nil {
		var exitErr *exec.ExitError
		if stderrors.As(err, &exitErr) {
			result.ExitCode = exitStatus(err)
			return result, nil
		}

		return result, errors.Wrapf(err, errors.ErrCommandRun,
			"cannot run command: %s", CommandLine(name, args...)).
			WithDetail(errors.DetailCommand, CommandLine(name, args...))
	}

	return result, nil
}

// exitStatus extracts the command's exit status, defaulting to 1 when the
// process never produced one (start failure, signal)
func exitStatus(err error) int {
	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) && exitErr.ExitCode() > 0 {
		return exitErr.ExitCode()
	}
	return 1
}
