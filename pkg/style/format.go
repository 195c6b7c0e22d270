// Package style renders provisioning output for terminals, plain text
// and JSON. Detection picks the richest format the output supports;
// callers can force one instead.
package style

import (
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/arthur-debert/deskup/pkg/errors"
)

// Format represents the output format type
type Format int

const (
	// FormatAuto picks the format from the terminal's capabilities
	FormatAuto Format = iota
	// FormatTerm renders styled terminal output
	FormatTerm
	// FormatText renders plain text without styling
	FormatText
	// FormatJSON renders machine-readable JSON
	FormatJSON
)

// String returns the string representation of the format
func (f Format) String() string {
	switch f {
	case FormatAuto:
		return "auto"
	case FormatTerm:
		return "term"
	case FormatText:
		return "text"
	case FormatJSON:
		return "json"
	default:
		return "unknown"
	}
}

// ParseFormat parses a string into a Format value
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "auto", "":
		return FormatAuto, nil
	case "term", "terminal":
		return FormatTerm, nil
	case "text", "plain":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	default:
		return FormatAuto, errors.Newf(errors.ErrInvalidInput, "unknown format: %s", s)
	}
}

// DetectFormat picks the output format for a file handle. Pipes,
// NO_COLOR and colorless terminals all get plain text.
func DetectFormat(output *os.File) Format {
	if os.Getenv("NO_COLOR") != "" {
		return FormatText
	}

	if !isatty.IsTerminal(output.Fd()) && !isatty.IsCygwinTerminal(output.Fd()) {
		return FormatText
	}

	if termenv.ColorProfile() == termenv.Ascii {
		return FormatText
	}

	return FormatTerm
}

// ForFormat returns the renderer for a format, resolving FormatAuto
// against stdout.
func ForFormat(format Format) Renderer {
	if format == FormatAuto {
		format = DetectFormat(os.Stdout)
	}

	switch format {
	case FormatJSON:
		return NewJSONRenderer()
	case FormatText:
		return NewPlainRenderer()
	default:
		return NewTerminalRenderer()
	}
}
