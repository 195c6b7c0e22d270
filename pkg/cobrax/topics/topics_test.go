package topics

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTopic(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestScanDefaultExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "portage.md", "# Portage\n\nTree and profiles")
	writeTopic(t, dir, "services.txt", "Service enablement")
	writeTopic(t, dir, "notes.json", "not a topic")

	m := New(dir)
	require.NoError(t, m.scan())

	topic, ok := m.Get("portage")
	require.True(t, ok)
	assert.Equal(t, "# Portage\n\nTree and profiles", topic.Content)

	_, ok = m.Get("services")
	assert.True(t, ok)

	_, ok = m.Get("notes")
	assert.False(t, ok)
}

func TestScanCustomExtensions(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "portage.rst", "Portage in rst")

	m := NewWithOptions(dir, Options{Extensions: []string{".rst"}})
	require.NoError(t, m.scan())

	_, ok := m.Get("portage")
	assert.True(t, ok)
}

func TestScanMissingDir(t *testing.T) {
	m := New("/nonexistent/topics")
	require.NoError(t, m.scan())
	assert.Empty(t, m.List())
}

func TestGetTrimsFlagDashes(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "format.md", "Output formats")

	m := New(dir)
	require.NoError(t, m.scan())

	for _, name := range []string{"format", "--format", "-format"} {
		topic, ok := m.Get(name)
		require.True(t, ok, name)
		assert.Equal(t, "format", topic.Name)
	}

	_, ok := m.Get("--missing")
	assert.False(t, ok)
}

func TestListSorted(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "use-flags.md", "a")
	writeTopic(t, dir, "portage.md", "b")
	writeTopic(t, dir, "services.md", "c")

	m := New(dir)
	require.NoError(t, m.scan())

	assert.Equal(t, []string{"portage", "services", "use-flags"}, m.List())
}

func newTestRoot() *cobra.Command {
	root := &cobra.Command{Use: "testapp", Short: "Test application"}
	root.AddCommand(&cobra.Command{
		Use:   "up",
		Short: "Do the thing",
		Run:   func(cmd *cobra.Command, args []string) {},
	})
	return root
}

func TestInitializeReplacesHelp(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "portage.md", "Portage details")

	root := newTestRoot()
	require.NoError(t, Initialize(root, dir))

	helpCmd, _, err := root.Find([]string{"help"})
	require.NoError(t, err)
	assert.Equal(t, "help [command or topic]", helpCmd.Use)
}

func TestHelpRendersTopic(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "portage.txt", "SYNCING THE TREE\nRun emerge --sync first.")

	root := newTestRoot()
	require.NoError(t, Initialize(root, dir))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"help", "portage"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "SYNCING THE TREE")
}

func TestHelpListsTopics(t *testing.T) {
	dir := t.TempDir()
	writeTopic(t, dir, "portage.md", "a")
	writeTopic(t, dir, "services.md", "b")

	root := newTestRoot()
	require.NoError(t, Initialize(root, dir))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"help", "topics"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Available help topics:")
	assert.Contains(t, out.String(), "portage")
	assert.Contains(t, out.String(), "services")
	assert.Contains(t, out.String(), "testapp help <topic>")
}

func TestHelpFallsBackToCommands(t *testing.T) {
	root := newTestRoot()
	require.NoError(t, Initialize(root, t.TempDir()))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"help", "up"})
	require.NoError(t, root.Execute())

	assert.Contains(t, out.String(), "Do the thing")
}

func TestPlainRendererPassthrough(t *testing.T) {
	r := &PlainRenderer{}
	assert.Equal(t, "# raw", r.Render("# raw", ".md"))
}

func TestGlamourRendererNonMarkdown(t *testing.T) {
	r := NewGlamourRenderer()
	assert.Equal(t, "plain text", r.Render("plain text", ".txt"))
}
