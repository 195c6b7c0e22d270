// Package testutil provides an in-memory Runner for tests that need to
// assert on executed command lines without spawning processes.
package testutil

import (
	"github.com/arthur-debert/deskup/pkg/cmdexec"
	"github.com/arthur-debert/deskup/pkg/errors"
)

// FakeRunner records every command line it is asked to execute and lets
// tests script failures and captured results per command line.
type FakeRunner struct {
	// Commands holds every executed command line, in order.
	Commands []string

	// Failures maps a command line to the exit status Run should fail with.
	Failures map[string]int

	// Captures maps a command line to the Result Capture should return.
	Captures map[string]cmdexec.Result

	// Errors maps a command line to a start error for either method.
	Errors map[string]error
}

// NewFakeRunner creates a FakeRunner where every command succeeds
func NewFakeRunner() *FakeRunner {
	return &FakeRunner{
		Failures: make(map[string]int),
		Captures: make(map[string]cmdexec.Result),
		Errors:   make(map[string]error),
	}
}

// Run records the command line and fails if a failure was scripted for it
func (f *FakeRunner) Run(name string, args ...string) error {
	line := cmdexec.CommandLine(name, args...)
	f.Commands = append(f.Commands, line)

	if err, ok := f.Errors[line]; ok {
		return err
	}

	if status, ok := f.Failures[line]; ok && status != 0 {
		return errors.Newf(errors.ErrCommandRun, "command failed: %s", line).
			WithDetail(errors.DetailExitCode, status).
			WithDetail(errors.DetailCommand, line)
	}

	return nil
}

// Capture records the command line and returns the scripted result, or a
// zero Result when none was scripted
func (f *FakeRunner) Capture(name string, args ...string) (cmdexec.Result, error) {
	line := cmdexec.CommandLine(name, args...)
	f.Commands = append(f.Commands, line)

	if err, ok := f.Errors[line]; ok {
		return cmdexec.Result{}, err
	}

	if result, ok := f.Captures[line]; ok {
		return result, nil
	}

	return cmdexec.Result{}, nil
}

// Ran reports whether the exact command line was executed
func (f *FakeRunner) Ran(line string) bool {
	for _, cmd := range f.Commands {
		if cmd == line {
			return true
		}
	}
	return false
}
