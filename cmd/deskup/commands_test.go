package deskup

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(args ...string) (string, error) {
	root := NewRootCmd()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}

func TestRootHelpListsCommands(t *testing.T) {
	out, err := executeCommand("--help")
	require.NoError(t, err)

	assert.Contains(t, out, "deskup")
	assert.Contains(t, out, "up")
	assert.Contains(t, out, MsgUpShort)
	assert.Contains(t, out, "status")
	assert.Contains(t, out, "init")
	assert.Contains(t, out, "COMMANDS:")
}

func TestRootVersion(t *testing.T) {
	out, err := executeCommand("--version")
	require.NoError(t, err)
	assert.Contains(t, out, "deskup")
}

func TestNoCommandFails(t *testing.T) {
	out, err := executeCommand()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
	// Help still printed so the user sees what to do.
	assert.Contains(t, out, "up")
}

func TestUnknownCommandFails(t *testing.T) {
	_, err := executeCommand("bogus")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bogus")
}

func TestUnknownFormatRejected(t *testing.T) {
	_, err := executeCommand("status", "--format", "yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "yaml")
}

func findCommand(t *testing.T, name string) *cobra.Command {
	t.Helper()
	cmd, _, err := NewRootCmd().Find([]string{name})
	require.NoError(t, err)
	require.Equal(t, name, cmd.Name())
	return cmd
}

func TestCommandGroups(t *testing.T) {
	assert.Equal(t, "core", findCommand(t, "up").GroupID)
	assert.Equal(t, "core", findCommand(t, "status").GroupID)
	assert.Equal(t, "core", findCommand(t, "init").GroupID)
	assert.Equal(t, "misc", findCommand(t, "topics").GroupID)
	assert.Equal(t, "misc", findCommand(t, "completion").GroupID)
}

func TestCommandsAreDocumented(t *testing.T) {
	for _, name := range []string{"up", "status", "init"} {
		cmd := findCommand(t, name)
		assert.NotEmpty(t, cmd.Short, name)
		assert.NotEmpty(t, cmd.Long, name)
	}
}

func TestInitWritesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskup.toml")

	// Stdin is not a terminal under go test, so init takes the
	// non-interactive path and writes the commented defaults.
	out, err := executeCommand("init", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote "+path)

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), "# deskup configuration.")
}

func TestInitRefusesOverwrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deskup.toml")
	require.NoError(t, os.WriteFile(path, []byte("user = \"larry\"\n"), 0o644))

	_, err := executeCommand("init", path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "--force")

	_, err = executeCommand("init", "--force", path)
	require.NoError(t, err)
}

func TestHelpCommandInstalled(t *testing.T) {
	helpCmd, _, err := NewRootCmd().Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestTopicsCommand(t *testing.T) {
	out, err := executeCommand("topics")
	require.NoError(t, err)
	// With no topics directory next to the test binary this prints the
	// empty-list message; either way the command is wired to help.
	assert.Contains(t, out, "help topics")
}

func TestCompletionArgs(t *testing.T) {
	cmd := findCommand(t, "completion")
	assert.ElementsMatch(t, []string{"bash", "zsh", "fish", "powershell"}, cmd.ValidArgs)

	_, err := executeCommand("completion", "tcsh")
	require.Error(t, err)
}

func TestGlobalFlags(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"verbose", "config", "format", "dry-run"} {
		assert.NotNil(t, root.PersistentFlags().Lookup(name), "flag %s", name)
	}
}

func TestUpHelpShowsFlags(t *testing.T) {
	out, err := executeCommand("up", "--help")
	require.NoError(t, err)

	assert.Contains(t, out, "--user")
	assert.Contains(t, out, "--init-system")
	assert.Contains(t, out, "--yes")
	assert.Contains(t, out, "--dry-run")
}

func TestStatusFlags(t *testing.T) {
	cmd := findCommand(t, "status")
	assert.NotNil(t, cmd.Flags().Lookup("user"))
	assert.NotNil(t, cmd.Flags().Lookup("init-system"))
}

func TestInitFlags(t *testing.T) {
	cmd := findCommand(t, "init")
	assert.NotNil(t, cmd.Flags().Lookup("force"))
	assert.NotNil(t, cmd.Flags().Lookup("defaults"))
}
