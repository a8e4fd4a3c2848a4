package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/asaidimu/go-sysparm/core/query"
	"github.com/asaidimu/go-sysparm/core/schema"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// MatchOptions holds flags for the match command.
type MatchOptions struct {
	*RootOptions
	Input      string
	Conditions ConditionFlags
}

// NewMatchCommand creates the match command.
func NewMatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &MatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "match",
		Short: "Filter rows from a JSON or YAML file with a query",
		Long: `Build an encoded query from condition flags and evaluate it against a
list of rows read from a JSON or YAML file, without contacting any API.

Example:
  sysparm match --input incidents.json --eq state=new --order-by priority
  cat incidents.yaml | sysparm match --input - --contains short_description=outage`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMatch(opts, cmd)
		},
	}

	cmd.Flags().StringVarP(&opts.Input, "input", "i", "", `file holding a list of rows, or "-" for stdin (required)`)
	_ = cmd.MarkFlagRequired("input")
	opts.Conditions.Register(cmd.Flags())

	return cmd
}

func runMatch(opts *MatchOptions, cmd *cobra.Command) error {
	logger, err := opts.newLogger()
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to create logger", err)
	}
	defer func() { _ = logger.Sync() }()

	rows, err := readRows(opts.Input, cmd.InOrStdin())
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to read rows", err)
	}
	logger.Debug("Loaded rows", zap.String("input", opts.Input), zap.Int("count", len(rows)))

	qb, err := opts.Conditions.Builder(logger)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid query", err)
	}

	processor := query.NewDataProcessor(logger)
	matched, err := processor.ProcessRows(cmd.Context(), rows, qb.Fragments())
	if err != nil {
		return WrapExitError(ExitFailure, "failed to evaluate query", err)
	}

	var encoded string
	if len(qb.Fragments()) > 0 {
		encoded = qb.String()
	}
	return opts.formatter(cmd).Success(matchResult{
		Query: encoded,
		Count: len(matched),
		Rows:  matched,
	})
}

// readRows decodes a list of rows. YAML is a superset of JSON, so one
// decoder serves both formats.
func readRows(path string, stdin io.Reader) ([]schema.Document, error) {
	var r io.Reader = stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		r = f
	}

	var rows []schema.Document
	if err := yaml.NewDecoder(r).Decode(&rows); err != nil {
		if err == io.EOF {
			return []schema.Document{}, nil
		}
		return nil, fmt.Errorf("input must be a list of objects: %w", err)
	}
	return rows, nil
}
