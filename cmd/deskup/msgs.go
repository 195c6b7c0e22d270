package deskup

// Short messages (one-liners)
const (
	MsgRootShort       = "Provision a Gentoo XFCE desktop"
	MsgUpShort         = "Run the provisioning plan against this host"
	MsgStatusShort     = "Show which provisioning steps are already done"
	MsgInitShort       = "Write a starter configuration file"
	MsgTopicsShort     = "Display available documentation topics"
	MsgTopicsLong      = "Display a list of all available help topics that provide additional documentation beyond command help."
	MsgCompletionShort = "Generate shell completion script"

	// Flag descriptions
	MsgFlagVerbose    = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig     = "Path to an explicit configuration file"
	MsgFlagFormat     = "Output format: auto, term, text or json"
	MsgFlagDryRun     = "Preview the plan without changing the host"
	MsgFlagForce      = "Overwrite an existing configuration file"
	MsgFlagDefaults   = "Never ask questions, write the commented defaults"
	MsgFlagUser       = "Provision for this login user instead of the configured one"
	MsgFlagInitSystem = "Force the init system (systemd or openrc) instead of detecting it"
	MsgFlagYes        = "Run without asking for confirmation"

	// MsgDryRunNotice trails any dry-run output
	MsgDryRunNotice = "\nDRY RUN - no changes were made"

	// MsgUpConfirmTitle is the confirmation prompt before a real run
	MsgUpConfirmTitle = "Provision this host now?"
	MsgUpAborted      = "Aborted, nothing changed."
)

// Long messages
const (
	MsgRootLong = `deskup turns a freshly installed Gentoo system into a working XFCE
desktop: it selects the Portage profile, sets USE flags, installs the X
server and the desktop packages, puts the user in the device groups,
writes the session startup file and enables the needed services for the
host's init system.

Every step knows how to detect its own work, so deskup can be re-run
safely: finished steps are skipped, and the run stops at the first
failure with the failing command and its exit status.`

	MsgUpLong = `Up builds the provisioning plan from the configuration and executes it
step by step. Steps whose work is already done are skipped. The first
failing step aborts the run; the remaining steps are reported as
pending.

The plan is host-aware: service enablement follows the init system
(systemd or OpenRC), detected automatically unless the configuration
or --init-system forces one. With --dry-run the plan is previewed and
the host stays untouched.`

	MsgUpExample = `  # Provision using the default configuration search order
  deskup up

  # Provision from an explicit config file, no confirmation prompt
  deskup up --config /root/desktop.toml --yes

  # Preview what a run would do on an OpenRC host
  deskup up --init-system openrc --dry-run

  # Machine-readable report
  deskup up --format json`

	MsgStatusLong = `Status evaluates every step's check without changing the host: which
packages are installed, whether the user is in the device groups,
whether the services are enabled. Steps that cannot detect their own
work (tree sync, session file write) always read as pending.`

	MsgStatusExample = `  # Show the provisioning state of this host
  deskup status

  # Feed the state to a script
  deskup status --format json`

	MsgInitLong = `Init writes a starter configuration file with every default value
present but commented out, ready for hand editing. On a terminal it
instead asks the few host-specific questions (user, init system,
profile) and writes their answers; --defaults skips the questions.

Without a path argument the file lands in the user configuration
directory.`

	MsgInitExample = `  # Write the user config file, asking the setup questions
  deskup init

  # Write commented defaults to an explicit location
  deskup init --defaults /etc/deskup.toml`

	MsgCompletionLong = `Generate a shell completion script for deskup.

To load completions in the current bash session:
  source <(deskup completion bash)

To install them permanently, write the script where your shell looks
for completions, e.g.:
  deskup completion bash > /etc/bash_completion.d/deskup
  deskup completion fish > ~/.config/fish/completions/deskup.fish`
)

// MsgUsageTemplate is the cobra usage template with bold section
// headers.
const MsgUsageTemplate = `{{boldUpper "Usage:"}}{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "Aliases:"}}
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "Examples:"}}
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}{{$cmds := .Commands}}{{if eq (len .Groups) 0}}

{{boldUpper "Available Commands:"}}{{range $cmds}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{else}}{{range $group := .Groups}}

{{bold .Title}}{{range $cmds}}{{if (and (eq .GroupID $group.ID) (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if not .AllChildCommandsHaveGroup}}

{{boldUpper "Additional Commands:"}}{{range $cmds}}{{if (and (eq .GroupID "") (or .IsAvailableCommand (eq .Name "help")))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "Flags:"}}
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "Global Flags:"}}
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} help [command]" for more information about a command.{{end}}
`
