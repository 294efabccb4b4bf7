package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jacoelho/jpath/internal/lexer"
	"github.com/jacoelho/jpath/internal/output"
	"github.com/jacoelho/jpath/internal/parser"
)

// tokenRecord is the JSON and YAML shape of one token.
type tokenRecord struct {
	Line int    `json:"line" yaml:"line"`
	Col  int    `json:"col" yaml:"col"`
	Kind string `json:"kind" yaml:"kind"`
	Text string `json:"text" yaml:"text"`
}

func newTokensCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens EXPR",
		Short: "Print the tokens of an expression",
		Args:  argsBetween(1, 1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config(args[0], "", "")
			if err != nil {
				return err
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			var records []tokenRecord
			for tok, err := range lexer.Tokenize(cfg.Expression) {
				if err != nil {
					return fmt.Errorf("%w: %w", parser.ErrSyntax, err)
				}
				records = append(records, tokenRecord{Line: tok.Line, Col: tok.Col, Kind: tok.Kind.String(), Text: tok.Text})
			}

			w := cmd.OutOrStdout()
			switch cfg.OutputFormat {
			case output.FormatJSON, output.FormatYAML:
				return output.FormatDocument(cfg.OutputFormat, w, records)
			case output.FormatText:
				fallthrough
			default:
				for _, r := range records {
					if _, err := fmt.Fprintf(w, "%d:%d\t%s\t%s\n", r.Line, r.Col, r.Kind, r.Text); err != nil {
						return err
					}
				}
				return nil
			}
		},
	}
}
