// Package cli implements the sysparm command: it saves, lists, shows and
// deletes encoded queries in a SQLite database and filters local rows with
// queries assembled from flags.
package cli

import (
	"fmt"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// EnvDatabase names the environment variable that provides the default
// database path.
const EnvDatabase = "SYSPARM_DB"

const defaultDatabase = "sysparm.db"

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "text" | "json" | "yaml"
	Database string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json", "yaml"}

// NewRootCommand creates the root command for the sysparm CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "sysparm",
		Short: "Build and store encoded table queries",
		Long: `Build encoded queries (the caret-delimited filter strings accepted by
table APIs) from flags, keep them under a name in a local SQLite database,
and try them against rows from a JSON or YAML file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.Database, "db", defaultDatabasePath(), "path to SQLite database (env "+EnvDatabase+")")

	cmd.AddCommand(NewSaveCommand(opts))
	cmd.AddCommand(NewListCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))
	cmd.AddCommand(NewDeleteCommand(opts))
	cmd.AddCommand(NewMatchCommand(opts))

	return cmd
}

func defaultDatabasePath() string {
	if path := os.Getenv(EnvDatabase); path != "" {
		return path
	}
	return defaultDatabase
}

// newLogger builds the zap logger for a command run. Diagnostics go to
// stderr so they never mix with command output.
func (o *RootOptions) newLogger() (*zap.Logger, error) {
	var config zap.Config
	if o.Verbose {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}

// formatter returns an OutputFormatter writing to the command's output.
func (o *RootOptions) formatter(cmd *cobra.Command) *OutputFormatter {
	return &OutputFormatter{
		Format: o.Format,
		Writer: cmd.OutOrStdout(),
	}
}
