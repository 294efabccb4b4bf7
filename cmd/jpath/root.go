package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacoelho/jpath/internal/config"
	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/exit"
	"github.com/jacoelho/jpath/internal/output"
)

// rootOptions holds global flags for all commands.
type rootOptions struct {
	Verbose     bool
	Format      string // "text" | "json" | "yaml"
	InputFormat string // "auto" | "json" | "yaml"
	AutoID      string
	Base        bool
	RFC9535     bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "jpath",
		Short: "Query and edit JSON and YAML documents with path expressions",
		Long: `jpath evaluates path expressions against JSON or YAML documents.

Expressions use the extended grammar by default: filters, sorting,
arithmetic and named operators such as ` + "`len`" + ` and ` + "`sub(/re/, x)`" + `.
Use --base for plain paths or --rfc9535 for standard JSONPath queries.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %v", exit.ErrUsage, err)
	})

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log debug records to stderr")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (text|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.InputFormat, "input-format", "auto", "input format (auto|json|yaml)")
	cmd.PersistentFlags().StringVar(&opts.AutoID, "auto-id", "", "field name that yields a synthetic id when missing")
	cmd.PersistentFlags().BoolVar(&opts.Base, "base", false, "reject extension syntax")
	cmd.PersistentFlags().BoolVar(&opts.RFC9535, "rfc9535", false, "evaluate queries with RFC 9535 semantics")

	cmd.AddCommand(newQueryCommand(opts))
	cmd.AddCommand(newSetCommand(opts))
	cmd.AddCommand(newUpdateCommand(opts))
	cmd.AddCommand(newTokensCommand(opts))

	return cmd
}

// config builds and validates the configuration of one command.
func (o *rootOptions) config(expression, value, inputFile string) (*config.Config, error) {
	outputFormat, err := output.ParseFormat(o.Format)
	if err != nil {
		return nil, err
	}
	inputFormat, err := document.ParseFormat(o.InputFormat)
	if err != nil {
		return nil, err
	}

	cfg := &config.Config{
		Expression:   expression,
		Value:        value,
		InputFile:    inputFile,
		InputFormat:  inputFormat,
		OutputFormat: outputFormat,
		AutoIDField:  o.AutoID,
		BaseGrammar:  o.Base,
		RFC9535:      o.RFC9535,
		Verbose:      o.Verbose,
	}
	return cfg, nil
}

// argsBetween is cobra.RangeArgs with an error the exit package classifies
// as a usage mistake.
func argsBetween(lo, hi int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < lo || len(args) > hi {
			return fmt.Errorf("%w: %s accepts between %d and %d arguments, received %d", exit.ErrUsage, cmd.Name(), lo, hi, len(args))
		}
		return nil
	}
}

func optionalArg(args []string, i int) string {
	if i < len(args) {
		return args[i]
	}
	return ""
}
