package style

import (
	_ "embed"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/deskup/pkg/provision"
)

//go:embed theme.yaml
var themeData []byte

// colorDef is an adaptive color pair in theme.yaml
type colorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// styleDef is a named style in theme.yaml. Foreground names a color
// from the colors section.
type styleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
}

type theme struct {
	Colors map[string]colorDef `yaml:"colors"`
	Styles map[string]styleDef `yaml:"styles"`
}

// Styles used by the renderers, populated from the embedded theme
var (
	TitleStyle   lipgloss.Style
	SuccessStyle lipgloss.Style
	ErrorStyle   lipgloss.Style
	WarningStyle lipgloss.Style
	MutedStyle   lipgloss.Style
	CommandStyle lipgloss.Style
)

// Step indicators
var (
	CompletedIndicator string
	SkippedIndicator   string
	PendingIndicator   string
	FailedIndicator    string
)

func init() {
	if err := LoadTheme(themeData); err != nil {
		defaultTheme()
	}
	renderIndicators()
}

// LoadTheme parses a theme document and rebuilds the exported styles.
// The current styles are left untouched when the document does not parse.
func LoadTheme(data []byte) error {
	var t theme
	if err := yaml.Unmarshal(data, &t); err != nil {
		return err
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(t.Colors))
	for name, def := range t.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	styleFor := func(name string) lipgloss.Style {
		def := t.Styles[name]
		s := lipgloss.NewStyle()
		if def.Bold {
			s = s.Bold(true)
		}
		if c, ok := colors[def.Foreground]; ok {
			s = s.Foreground(c)
		}
		return s
	}

	TitleStyle = styleFor("title")
	SuccessStyle = styleFor("success")
	ErrorStyle = styleFor("error")
	WarningStyle = styleFor("warning")
	MutedStyle = styleFor("muted")
	CommandStyle = styleFor("command")
	renderIndicators()
	return nil
}

// defaultTheme restores the built-in palette. Used when the embedded
// theme cannot be parsed.
func defaultTheme() {
	heading := lipgloss.AdaptiveColor{Light: "#212529", Dark: "#F8F9FA"}
	success := lipgloss.AdaptiveColor{Light: "#28A745", Dark: "#4CDD76"}
	errCol := lipgloss.AdaptiveColor{Light: "#DC3545", Dark: "#FF6B7D"}
	warning := lipgloss.AdaptiveColor{Light: "#FFC107", Dark: "#FFD54F"}
	muted := lipgloss.AdaptiveColor{Light: "#6C757D", Dark: "#ADB5BD"}
	accent := lipgloss.AdaptiveColor{Light: "#007ACC", Dark: "#3D9EFF"}

	TitleStyle = lipgloss.NewStyle().Foreground(heading).Bold(true)
	SuccessStyle = lipgloss.NewStyle().Foreground(success).Bold(true)
	ErrorStyle = lipgloss.NewStyle().Foreground(errCol).Bold(true)
	WarningStyle = lipgloss.NewStyle().Foreground(warning).Bold(true)
	MutedStyle = lipgloss.NewStyle().Foreground(muted)
	CommandStyle = lipgloss.NewStyle().Foreground(accent)
}

func renderIndicators() {
	CompletedIndicator = SuccessStyle.Render("✓")
	SkippedIndicator = MutedStyle.Render("•")
	PendingIndicator = MutedStyle.Render("○")
	FailedIndicator = ErrorStyle.Render("✗")
}

// indicatorFor maps a step status to its terminal indicator.
func indicatorFor(status provision.StepStatus) string {
	switch status {
	case provision.StatusCompleted:
		return CompletedIndicator
	case provision.StatusSkipped:
		return SkippedIndicator
	case provision.StatusFailed:
		return FailedIndicator
	default:
		return PendingIndicator
	}
}
