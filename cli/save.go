package cli

import (
	"errors"

	"github.com/asaidimu/go-sysparm/core/query"
	"github.com/spf13/cobra"
)

// SaveOptions holds flags for the save command.
type SaveOptions struct {
	*RootOptions
	Table      string
	Conditions ConditionFlags
}

// NewSaveCommand creates the save command.
func NewSaveCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &SaveOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Build an encoded query and store it under a name",
		Long: `Build an encoded query from condition flags and store it under a name.
Saving an existing name replaces its table and query.

Example:
  sysparm save open-p1 --table incident --eq active=true --eq priority=1 --order-by-desc opened_at
  sysparm save vpn --table incident --contains short_description=vpn --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSave(opts, args[0], cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Table, "table", "", "table the query applies to (required)")
	_ = cmd.MarkFlagRequired("table")
	opts.Conditions.Register(cmd.Flags())

	return cmd
}

func runSave(opts *SaveOptions, name string, cmd *cobra.Command) error {
	sess, err := openSession(cmd.Context(), opts.RootOptions)
	if err != nil {
		return err
	}
	defer sess.Close()

	qb, err := opts.Conditions.Builder(sess.logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid query", err)
	}

	saved, err := sess.filters.Save(cmd.Context(), name, opts.Table, qb)
	if err != nil {
		var empty *query.EmptyQueryError
		if errors.As(err, &empty) {
			return WrapExitError(ExitCommandError, "nothing to save", err)
		}
		return WrapExitError(ExitFailure, "failed to save filter", err)
	}

	return opts.formatter(cmd).Success(filterDetail(saved))
}
