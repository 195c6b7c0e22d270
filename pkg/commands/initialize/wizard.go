package initialize

import (
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/arthur-debert/deskup/pkg/config"
	"github.com/arthur-debert/deskup/pkg/errors"
)

// runWizard asks the few questions a host-specific config needs and
// returns the embedded defaults with the answers applied.
func runWizard() (*config.Config, error) {
	cfg, err := config.ParseConfig([]byte(config.GetDefaultsContent()))
	if err != nil {
		return nil, err
	}

	if err := setupForm(cfg).Run(); err != nil {
		return nil, errors.Wrap(err, errors.ErrInvalidInput, "setup wizard aborted")
	}
	return cfg, nil
}

// setupForm builds the interactive setup form. The answers land
// directly in cfg.
func setupForm(cfg *config.Config) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Login user").
				Description("The user the desktop is provisioned for").
				Placeholder("larry").
				Value(&cfg.User).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New(errors.ErrInvalidInput, "user cannot be empty")
					}
					return nil
				}),
			huh.NewSelect[string]().
				Title("Init system").
				Options(
					huh.NewOption("Detect automatically", config.InitAuto),
					huh.NewOption("systemd", config.InitSystemd),
					huh.NewOption("OpenRC", config.InitOpenrc),
				).
				Value(&cfg.Init),
			huh.NewInput().
				Title("Portage profile").
				Description("Target of eselect profile set").
				Value(&cfg.Portage.Profile),
			huh.NewConfirm().
				Title("Sync the portage tree during provisioning?").
				Value(&cfg.Portage.Sync),
		).Title("deskup setup"),
	)
}
