package config

import (
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/arthur-debert/deskup/pkg/errors"
)

const generatedHeader = `# deskup configuration.
# Uncomment and edit values to override the defaults shown below.

`

// GenerateConfigContent generates starter configuration content with all
// values commented out, ready for hand editing
func GenerateConfigContent() string {
	return generatedHeader + commentOutConfigValues(GetDefaultsContent())
}

// MarshalConfig renders a Config as TOML, the form written by the
// interactive wizard
func MarshalConfig(cfg *Config) ([]byte, error) {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrInternal, "failed to render configuration")
	}
	return append([]byte(generatedHeader), data...), nil
}

// ParseConfig parses TOML configuration content. The wizard starts from
// the parsed defaults instead of a zero Config.
func ParseConfig(data []byte) (*Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to parse TOML")
	}
	return &cfg, nil
}

// commentOutConfigValues takes the TOML content and comments out all
// non-comment, non-blank lines that contain configuration values
func commentOutConfigValues(content string) string {
	lines := strings.Split(content, "\n")
	var result []string

	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Keep blank lines as-is
		if trimmed == "" {
			result = append(result, line)
			continue
		}

		// Keep lines that are already comments
		if strings.HasPrefix(trimmed, "#") {
			result = append(result, line)
			continue
		}

		// Keep section headers (e.g., [portage], [services]) as-is
		if strings.HasPrefix(trimmed, "[") && strings.HasSuffix(trimmed, "]") {
			result = append(result, line)
			continue
		}

		// Comment out configuration value lines
		result = append(result, "# "+line)
	}

	return strings.Join(result, "\n")
}
