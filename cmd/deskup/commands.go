package deskup

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/arthur-debert/deskup/internal/version"
	"github.com/arthur-debert/deskup/pkg/cobrax/topics"
	"github.com/arthur-debert/deskup/pkg/commands/initialize"
	"github.com/arthur-debert/deskup/pkg/commands/status"
	"github.com/arthur-debert/deskup/pkg/commands/up"
	"github.com/arthur-debert/deskup/pkg/logging"
	"github.com/arthur-debert/deskup/pkg/style"
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	initTemplateFormatting()

	var (
		verbosity  int
		configPath string
		formatName string
		dryRun     bool
	)

	rootCmd := &cobra.Command{
		Use:     "deskup",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLogger(verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			// No subcommand: show help but exit non-zero.
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:      true,
		SilenceErrors:     true,
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", MsgFlagConfig)
	rootCmd.PersistentFlags().StringVar(&formatName, "format", "auto", MsgFlagFormat)
	rootCmd.PersistentFlags().BoolVar(&dryRun, "dry-run", false, MsgFlagDryRun)

	// The topic help system replaces cobra's help command below.
	rootCmd.SetHelpCommand(&cobra.Command{Hidden: true})

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "COMMANDS:",
	})
	rootCmd.AddGroup(&cobra.Group{
		ID:    "misc",
		Title: "MISC:",
	})

	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newUpCmd())
	rootCmd.AddCommand(newStatusCmd())
	rootCmd.AddCommand(newInitCmd())
	rootCmd.AddCommand(newTopicsCmd())
	rootCmd.AddCommand(newCompletionCmd())

	// A missing topics directory still installs the help command, just
	// with no topics behind it.
	if err := topics.InitializeWithOptions(rootCmd, defaultTopicsDir(), topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	}); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: help topics unavailable: %v\n", err)
	}

	return rootCmd
}

// defaultTopicsDir finds the shipped topics directory: next to the
// binary in production, in the source tree during development.
func defaultTopicsDir() string {
	candidates := []string{"cmd/deskup/topics"}
	if exe, err := os.Executable(); err == nil {
		candidates = []string{
			filepath.Join(filepath.Dir(exe), "topics"),
			filepath.Join(filepath.Dir(exe), "..", "..", "cmd", "deskup", "topics"),
			"cmd/deskup/topics",
		}
	}
	for _, dir := range candidates {
		if _, err := os.Stat(dir); err == nil {
			return dir
		}
	}
	return candidates[len(candidates)-1]
}

// rendererFromFlags picks the output renderer from the --format flag
func rendererFromFlags(cmd *cobra.Command) (style.Renderer, error) {
	name, _ := cmd.Root().PersistentFlags().GetString("format")
	format, err := style.ParseFormat(name)
	if err != nil {
		return nil, err
	}
	return style.ForFormat(format), nil
}

func explicitConfig(cmd *cobra.Command) string {
	path, _ := cmd.Root().PersistentFlags().GetString("config")
	return path
}

func newUpCmd() *cobra.Command {
	var (
		userName   string
		initSystem string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:     "up",
		Short:   MsgUpShort,
		Long:    MsgUpLong,
		Example: MsgUpExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFromFlags(cmd)
			if err != nil {
				return err
			}
			dryRun, _ := cmd.Root().PersistentFlags().GetBool("dry-run")

			if !yes && !dryRun && isatty.IsTerminal(os.Stdin.Fd()) {
				var proceed bool
				confirm := huh.NewConfirm().
					Title(MsgUpConfirmTitle).
					Value(&proceed)
				if err := confirm.Run(); err != nil {
					return err
				}
				if !proceed {
					fmt.Fprintln(cmd.OutOrStdout(), MsgUpAborted)
					return nil
				}
			}

			log.Info().
				Str("config", explicitConfig(cmd)).
				Bool("dryRun", dryRun).
				Msg("Provisioning host")

			report, err := up.Up(up.UpOptions{
				ConfigPath: explicitConfig(cmd),
				User:       userName,
				Init:       initSystem,
				DryRun:     dryRun,
			})
			if report != nil {
				fmt.Fprint(cmd.OutOrStdout(), renderer.RenderReport(report))
			}
			if dryRun && err == nil {
				fmt.Fprintln(cmd.OutOrStdout(), MsgDryRunNotice)
			}
			// A failed run is already rendered; the returned error makes
			// the process exit with the failing command's status.
			return err
		},
	}

	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	cmd.Flags().StringVar(&initSystem, "init-system", "", MsgFlagInitSystem)
	cmd.Flags().BoolVar(&yes, "yes", false, MsgFlagYes)
	registerInitSystemCompletion(cmd)

	return cmd
}

func newStatusCmd() *cobra.Command {
	var (
		userName   string
		initSystem string
	)

	cmd := &cobra.Command{
		Use:     "status",
		Short:   MsgStatusShort,
		Long:    MsgStatusLong,
		Example: MsgStatusExample,
		GroupID: "core",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			renderer, err := rendererFromFlags(cmd)
			if err != nil {
				return err
			}

			result, err := status.Status(status.StatusOptions{
				ConfigPath: explicitConfig(cmd),
				User:       userName,
				Init:       initSystem,
			})
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), renderer.RenderPlanStatus(result.Plan, result.Results))
			return nil
		},
	}

	cmd.Flags().StringVar(&userName, "user", "", MsgFlagUser)
	cmd.Flags().StringVar(&initSystem, "init-system", "", MsgFlagInitSystem)
	registerInitSystemCompletion(cmd)

	return cmd
}

// registerInitSystemCompletion completes --init-system with the two
// supported init systems.
func registerInitSystemCompletion(cmd *cobra.Command) {
	_ = cmd.RegisterFlagCompletionFunc("init-system",
		func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
			return []string{"systemd", "openrc"}, cobra.ShellCompDirectiveNoFileComp
		})
}

func newInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "init [path]",
		Short:   MsgInitShort,
		Long:    MsgInitLong,
		Example: MsgInitExample,
		GroupID: "core",
		Args:    cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			force, _ := cmd.Flags().GetBool("force")
			writeDefaults, _ := cmd.Flags().GetBool("defaults")

			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			result, err := initialize.Init(initialize.InitOptions{
				Path:        path,
				Force:       force,
				Interactive: !writeDefaults && isatty.IsTerminal(os.Stdin.Fd()),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", result.Path)
			return nil
		},
	}

	cmd.Flags().Bool("force", false, MsgFlagForce)
	cmd.Flags().Bool("defaults", false, MsgFlagDefaults)

	return cmd
}

func newTopicsCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "topics",
		Short:   MsgTopicsShort,
		Long:    MsgTopicsLong,
		GroupID: "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			helpCmd, _, err := cmd.Root().Find([]string{"help"})
			if err != nil || helpCmd.Run == nil {
				return fmt.Errorf("help command not found")
			}
			helpCmd.Run(helpCmd, []string{"topics"})
			return nil
		},
	}
}

func newCompletionCmd() *cobra.Command {
	return &cobra.Command{
		Use:                   "completion [bash|zsh|fish|powershell]",
		Short:                 MsgCompletionShort,
		Long:                  MsgCompletionLong,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		GroupID:               "misc",
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(os.Stdout)
			case "zsh":
				return cmd.Root().GenZshCompletion(os.Stdout)
			case "fish":
				return cmd.Root().GenFishCompletion(os.Stdout, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}
}
