// Package topics adds file-backed help topics to a cobra application.
// Topic files live in a directory shipped next to the binary; `<app>
// help <topic>` renders them, so longer-form docs don't have to be
// baked into command help strings.
package topics

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

// Manager loads and serves help topics for a cobra application
type Manager struct {
	dir          string
	topics       map[string]*Topic
	originalHelp func(*cobra.Command, []string)
	extensions   []string
	renderer     Renderer
}

// Topic is one loaded help topic
type Topic struct {
	Name    string
	Path    string
	Content string
}

// Options configures the Manager
type Options struct {
	// Extensions lists the file extensions treated as topics.
	// Defaults to [".md", ".txt"].
	Extensions []string

	// Renderer formats topic content for display.
	// Defaults to PlainRenderer.
	Renderer Renderer
}

// New creates a Manager with default options
func New(dir string) *Manager {
	return NewWithOptions(dir, Options{})
}

// NewWithOptions creates a Manager with custom options
func NewWithOptions(dir string, opts Options) *Manager {
	m := &Manager{
		dir:        dir,
		topics:     make(map[string]*Topic),
		extensions: opts.Extensions,
		renderer:   opts.Renderer,
	}
	if len(m.extensions) == 0 {
		m.extensions = []string{".md", ".txt"}
	}
	if m.renderer == nil {
		m.renderer = &PlainRenderer{}
	}
	return m
}

// scan loads every topic file from the topics directory. A missing
// directory is not an error; the application just has no topics.
func (m *Manager) scan() error {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := filepath.Ext(entry.Name())
		if !m.supported(ext) {
			continue
		}

		path := filepath.Join(m.dir, entry.Name())
		content, err := os.ReadFile(path)
		if err != nil {
			return err
		}

		name := strings.TrimSuffix(entry.Name(), ext)
		m.topics[name] = &Topic{
			Name:    name,
			Path:    path,
			Content: string(content),
		}
	}

	return nil
}

func (m *Manager) supported(ext string) bool {
	for _, e := range m.extensions {
		if ext == e {
			return true
		}
	}
	return false
}

// Get looks up a topic by name. Leading flag dashes are stripped, so
// `help --format` finds the "format" topic.
func (m *Manager) Get(name string) (*Topic, bool) {
	name = strings.TrimPrefix(name, "--")
	name = strings.TrimPrefix(name, "-")
	topic, ok := m.topics[name]
	return topic, ok
}

// List returns all topic names, sorted
func (m *Manager) List() []string {
	names := make([]string, 0, len(m.topics))
	for name := range m.topics {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Initialize wires the topic help system into rootCmd with defaults
func Initialize(rootCmd *cobra.Command, dir string) error {
	return InitializeWithOptions(rootCmd, dir, Options{})
}

// InitializeWithOptions replaces rootCmd's help command with one that
// also knows about topics. `help <command>` behaves as before, `help
// <topic>` renders the topic file, and `help topics` lists what is
// available.
func InitializeWithOptions(rootCmd *cobra.Command, dir string, opts Options) error {
	m := NewWithOptions(dir, opts)
	if err := m.scan(); err != nil {
		return fmt.Errorf("failed to scan topics: %w", err)
	}

	m.originalHelp = rootCmd.HelpFunc()

	helpCmd := &cobra.Command{
		Use:   "help [command or topic]",
		Short: "Help about any command or topic",
		Long: `Help provides help for any command or topic in the application.
Simply type ` + rootCmd.Name() + ` help [path to command or topic] for full details.

To see all available help topics:
  ` + rootCmd.Name() + ` help topics`,
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			completions := []string{"topics"}
			for _, c := range rootCmd.Commands() {
				if !c.Hidden {
					completions = append(completions, c.Name())
				}
			}
			completions = append(completions, m.List()...)
			return completions, cobra.ShellCompDirectiveNoFileComp
		},
		Run: func(cmd *cobra.Command, args []string) {
			if len(args) == 0 {
				m.originalHelp(rootCmd, []string{})
				return
			}

			if args[0] == "topics" {
				m.printTopicList(cmd, rootCmd.Name())
				return
			}

			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.render(topic))
				return
			}

			// Not a topic, so a command (or a typo). Cobra's help
			// handles both.
			m.originalHelp(rootCmd, args)
		},
	}

	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == "help" {
			rootCmd.RemoveCommand(cmd)
			break
		}
	}
	rootCmd.AddCommand(helpCmd)

	// --help must see topics too, not just the help command.
	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if len(args) > 0 {
			if topic, ok := m.Get(args[0]); ok {
				fmt.Fprint(cmd.OutOrStdout(), m.render(topic))
				return
			}
		}
		m.originalHelp(cmd, args)
	})

	return nil
}

func (m *Manager) render(topic *Topic) string {
	return m.renderer.Render(topic.Content, filepath.Ext(topic.Path))
}

func (m *Manager) printTopicList(cmd *cobra.Command, appName string) {
	out := cmd.OutOrStdout()
	names := m.List()
	if len(names) == 0 {
		fmt.Fprintln(out, "No help topics available.")
		return
	}

	fmt.Fprintln(out, "Available help topics:")
	for _, name := range names {
		fmt.Fprintf(out, "  %s\n", name)
	}
	fmt.Fprintf(out, "\nUse '%s help <topic>' to read about a specific topic.\n", appName)
}
