package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/jacoelho/jpath/internal/config"
	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/jsonpath"
	"github.com/jacoelho/jpath/internal/output"
)

// mutation rewrites one document.
type mutation func(path *jsonpath.Path, data, value any) (any, error)

func newSetCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set EXPR VALUE [FILE]",
		Short: "Store VALUE at EXPR, creating missing fields and list slots",
		Long: `set stores VALUE at the location EXPR names in every input document and
prints the result. Missing maps and lists along the way are created; with
no input document it builds one from scratch.

VALUE is read as YAML, so 42 is a number and '{a: 1}' a mapping.`,
		Example: `  jpath set 'spec.replicas' 3 deploy.yaml
  jpath set 'users[0].tags[1]' admin < /dev/null`,
		Args: argsBetween(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args, true, func(path *jsonpath.Path, data, value any) (any, error) {
				return path.UpdateOrCreate(data, value)
			})
		},
	}
}

func newUpdateCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "update EXPR VALUE [FILE]",
		Short:   "Replace every existing match of EXPR with VALUE",
		Example: `  jpath update 'store.book[?price > 20].price' 20 books.json`,
		Args:    argsBetween(2, 3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMutation(cmd, opts, args, false, func(path *jsonpath.Path, data, value any) (any, error) {
				return path.Update(data, value)
			})
		},
	}
}

func runMutation(cmd *cobra.Command, opts *rootOptions, args []string, create bool, mutate mutation) error {
	cfg, err := opts.config(args[0], args[1], optionalArg(args, 2))
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.RFC9535 {
		return fmt.Errorf("%w: --rfc9535 with %s", config.ErrIncompatibleFlags, cmd.Name())
	}

	logger := cfg.Logger(cmd.ErrOrStderr())

	path, err := jsonpath.Parse(cfg.Expression, cfg.PathOptions(logger)...)
	if err != nil {
		return err
	}
	value, err := cfg.ParseValue()
	if err != nil {
		return err
	}

	in, err := cfg.OpenInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	w := cmd.OutOrStdout()
	written := 0
	for data, err := range document.Decode(in, cfg.InputFormat) {
		if err != nil {
			return err
		}
		if err := cmd.Context().Err(); err != nil {
			return fmt.Errorf("%s cancelled: %w", cmd.Name(), err)
		}
		if err := writeMutated(w, cfg, path, mutate, data, value, written); err != nil {
			return fmt.Errorf("document %d: %w", written, err)
		}
		written++
	}

	if written == 0 && create {
		logger.Debug("no input document, building one", "expression", path.String())
		if err := writeMutated(w, cfg, path, mutate, map[string]any{}, value, 0); err != nil {
			return err
		}
		written++
	}

	logger.Debug("documents rewritten", "command", cmd.Name(), "expression", path.String(), "documents", written)
	return nil
}

func writeMutated(w io.Writer, cfg *config.Config, path *jsonpath.Path, mutate mutation, data, value any, index int) error {
	result, err := mutate(path, data, value)
	if err != nil {
		return err
	}
	if index > 0 && cfg.OutputFormat == output.FormatYAML {
		if _, err := io.WriteString(w, "---\n"); err != nil {
			return err
		}
	}
	return output.FormatDocument(cfg.OutputFormat, w, result)
}
