package cli

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/roach88/selfcare/internal/store"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose    bool
	Format     string // "json" | "text"
	ConfigPath string
	DBPath     string // overrides storage.path
	Driver     string // overrides storage.driver
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the selfcare CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "selfcare",
		Short: "Mood journal, self-assessments and coping techniques",
		Long: `selfcare keeps a private mood journal, scores short self-assessment
questionnaires and suggests coping techniques based on recent entries.

Data is stored locally in SQLite by default. Set storage.driver in
selfcare.yaml (or SELFCARE_STORAGE_DRIVER) to use Redis instead.

If you are in crisis, run "selfcare emergency" for support lines.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			if opts.Driver != "" && !slices.Contains(store.Drivers, opts.Driver) {
				return NewExitError(ExitCommandError,
					fmt.Sprintf("invalid driver %q: must be one of %v", opts.Driver, store.Drivers))
			}
			return nil
		},
	}

	// Global flags
	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output and debug logging")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "config file (default: selfcare.yaml in $XDG_CONFIG_HOME/selfcare or .)")
	cmd.PersistentFlags().StringVar(&opts.DBPath, "db", "", "database path (overrides storage.path)")
	cmd.PersistentFlags().StringVar(&opts.Driver, "driver", "", "storage driver (sqlite3|sqlite|memory|redis)")

	// Add subcommands
	cmd.AddCommand(NewRegisterCommand(opts))
	cmd.AddCommand(NewLoginCommand(opts))
	cmd.AddCommand(NewLogoutCommand(opts))
	cmd.AddCommand(NewWhoamiCommand(opts))
	cmd.AddCommand(NewMoodCommand(opts))
	cmd.AddCommand(NewTestCommand(opts))
	cmd.AddCommand(NewTechniquesCommand(opts))
	cmd.AddCommand(NewFavoriteCommand(opts))
	cmd.AddCommand(NewFavoritesCommand(opts))
	cmd.AddCommand(NewRecommendCommand(opts))
	cmd.AddCommand(NewDashboardCommand(opts))
	cmd.AddCommand(NewExportCommand(opts))
	cmd.AddCommand(NewDeleteAllCommand(opts))
	cmd.AddCommand(NewEmergencyCommand(opts))
	cmd.AddCommand(NewCheckCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	return slices.Contains(ValidFormats, format)
}

// formatter builds the output formatter for cmd.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format:    o.Format,
		Writer:    cmd.OutOrStdout(),
		ErrWriter: cmd.ErrOrStderr(),
		Verbose:   o.Verbose,
	}
}
