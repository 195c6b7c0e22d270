// Package initsys identifies the host's init system and enables boot
// services under it. The kind is resolved once when the provisioning plan
// is built and held immutably afterwards; the plan branches on it, the
// steps never re-detect.
package initsys

import (
	"strings"

	"github.com/arthur-debert/synthfs/pkg/synthfs/filesystem"

	"github.com/arthur-debert/deskup/pkg/errors"
	"github.com/arthur-debert/deskup/pkg/logging"
)

// Kind identifies an init system
type Kind int

const (
	Unknown Kind = iota
	Systemd
	OpenRC
)

func (k Kind) String() string {
	switch k {
	case Systemd:
		return "systemd"
	case OpenRC:
		return "openrc"
	}
	return "unknown"
}

// ParseKind maps a configuration value to a Kind. Empty and "auto" mean
// detect at run time and return Unknown.
func ParseKind(s string) (Kind, error) {
	switch strings.ToLower(s) {
	case "", "auto":
		return Unknown, nil
	case "systemd":
		return Systemd, nil
	case "openrc":
		return OpenRC, nil
	}
	return Unknown, errors.Newf(errors.ErrInitDetect, "unknown init system %q", s)
}

// SystemdMarker is the directory systemd mounts early in boot. Its
// presence is the canonical running-under-systemd check.
const SystemdMarker = "/run/systemd/system"

// Detector reports which init system the host runs
type Detector struct {
	fs     filesystem.FullFileSystem
	marker string
}

// NewDetector creates a Detector reading through the given filesystem
func NewDetector(fs filesystem.FullFileSystem) *Detector {
	return &Detector{fs: fs, marker: SystemdMarker}
}

// Detect resolves the init system. A Portage host without the systemd
// marker runs OpenRC; there is no error case.
func (d *Detector) Detect() Kind {
	logger := logging.GetLogger("initsys")

	if info, err := d.fs.Stat(d.marker); err == nil && info.IsDir() {
		logger.Debug().Str("marker", d.marker).Msg("systemd marker present")
		return Systemd
	}

	logger.Debug().Str("marker", d.marker).Msg("No systemd marker, assuming OpenRC")
	return OpenRC
}

// Resolve honors a forced configuration value and falls back to detection
// for "auto"
func (d *Detector) Resolve(selection string) (Kind, error) {
	kind, err := ParseKind(selection)
	if err != nil {
		return Unknown, err
	}
	if kind == Unknown {
		kind = d.Detect()
	}
	return kind, nil
}
