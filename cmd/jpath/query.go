package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/jacoelho/jpath/internal/config"
	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/jsonpath"
	"github.com/jacoelho/jpath/internal/output"
	"github.com/jacoelho/jpath/internal/standard"
)

func newQueryCommand(opts *rootOptions) *cobra.Command {
	var paths, documents bool

	cmd := &cobra.Command{
		Use:   "query EXPR [FILE]",
		Short: "Print the values an expression selects",
		Example: `  jpath query 'store.book[?price < 10].title' books.json
  jpath query --paths '..author' books.json
  cat events.yaml | jpath query --format json 'items[*].id'`,
		Args: argsBetween(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args[0], "", optionalArg(args, 1))
			if err != nil {
				return err
			}
			cfg.Paths = paths
			cfg.Documents = documents

			if err := cfg.Validate(); err != nil {
				return err
			}
			return runQuery(cmd, cfg)
		},
	}

	cmd.Flags().BoolVarP(&paths, "paths", "p", false, "print the canonical path of every match")
	cmd.Flags().BoolVarP(&documents, "documents", "d", false, "print the position of the document of every match")

	return cmd
}

func runQuery(cmd *cobra.Command, cfg *config.Config) error {
	logger := cfg.Logger(cmd.ErrOrStderr())

	in, err := cfg.OpenInput(cmd.InOrStdin())
	if err != nil {
		return err
	}
	defer in.Close()

	var matches []output.Match
	if cfg.RFC9535 {
		matches, err = selectStandard(cmd.Context(), in, cfg)
	} else {
		matches, err = selectExtended(cmd.Context(), in, cfg, logger)
	}
	if err != nil {
		return err
	}

	logger.Debug("query evaluated", "expression", cfg.Expression, "matches", len(matches), "format", cfg.OutputFormat)

	return output.FormatMatches(cfg.OutputFormat, cmd.OutOrStdout(), matches, output.Options{
		Paths:     cfg.Paths,
		Documents: cfg.Documents,
	})
}

func selectExtended(ctx context.Context, in io.Reader, cfg *config.Config, logger *slog.Logger) ([]output.Match, error) {
	results, err := jsonpath.Stream(ctx, in, cfg.Expression, cfg.PathOptions(logger)...)
	if err != nil {
		return nil, err
	}

	var matches []output.Match
	for result, err := range results {
		if err != nil {
			return nil, err
		}
		matches = append(matches, output.Match{
			Document: result.Document,
			Path:     result.Path,
			Value:    result.Value,
		})
	}
	return matches, nil
}

func selectStandard(ctx context.Context, in io.Reader, cfg *config.Config) ([]output.Match, error) {
	query, err := standard.Parse(cfg.Expression)
	if err != nil {
		return nil, err
	}

	var matches []output.Match
	index := 0
	for data, err := range document.Decode(in, cfg.InputFormat) {
		if err != nil {
			return nil, err
		}
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("query cancelled: %w", err)
		}
		for _, value := range query.Select(data) {
			matches = append(matches, output.Match{Document: index, Value: value})
		}
		index++
	}
	return matches, nil
}
