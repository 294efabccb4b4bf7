package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/jacoelho/jpath/internal/document"
	"github.com/jacoelho/jpath/internal/jsonpath"
	"github.com/jacoelho/jpath/internal/output"
)

// StdinFile names standard input as the input file.
const StdinFile = "-"

var (
	ErrNoExpression      = errors.New("no expression provided")
	ErrIncompatibleFlags = errors.New("incompatible flags")
	ErrInvalidValue      = errors.New("invalid value")
)

// Config represents the complete configuration for one jpath invocation.
type Config struct {
	Expression string
	Value      string // raw VALUE argument of set and update
	InputFile  string // empty or "-" reads standard input

	InputFormat  document.Format
	OutputFormat output.OutputFormat

	// Evaluation
	AutoIDField string
	BaseGrammar bool
	RFC9535     bool

	// Output
	Paths     bool
	Documents bool
	Verbose   bool
}

// Validate validates the configuration and returns an error if invalid.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Expression) == "" {
		return ErrNoExpression
	}

	if c.RFC9535 {
		switch {
		case c.BaseGrammar:
			return fmt.Errorf("%w: --rfc9535 and --base", ErrIncompatibleFlags)
		case c.AutoIDField != "":
			return fmt.Errorf("%w: --rfc9535 and --auto-id", ErrIncompatibleFlags)
		case c.Paths:
			return fmt.Errorf("%w: --rfc9535 and --paths", ErrIncompatibleFlags)
		}
	}

	if c.InputFile != "" && c.InputFile != StdinFile {
		if _, err := os.Stat(c.InputFile); err != nil {
			return fmt.Errorf("input file %s not found: %w", c.InputFile, err)
		}
	}

	return nil
}

// PathOptions translates the evaluation settings for the jsonpath package.
func (c *Config) PathOptions(logger *slog.Logger) []jsonpath.Option {
	opts := []jsonpath.Option{
		jsonpath.WithFormat(c.InputFormat),
		jsonpath.WithLogger(logger),
	}
	if c.BaseGrammar {
		opts = append(opts, jsonpath.WithBaseGrammar())
	}
	if c.AutoIDField != "" {
		opts = append(opts, jsonpath.WithAutoIDField(c.AutoIDField))
	}
	return opts
}

// ParseValue decodes the VALUE argument as a YAML scalar or document, so
// 42 is a number, true a boolean and '{a: 1}' a mapping. Anything YAML
// cannot read is used as a plain string.
func (c *Config) ParseValue() (any, error) {
	if c.Value == "" {
		return "", nil
	}

	value, err := document.Parse([]byte(c.Value), document.FormatYAML)
	if err != nil {
		if errors.Is(err, document.ErrNoDocument) {
			return nil, fmt.Errorf("%w: %q holds no value", ErrInvalidValue, c.Value)
		}
		return c.Value, nil
	}
	return value, nil
}

// OpenInput opens the input file, falling back to stdin.
func (c *Config) OpenInput(stdin io.Reader) (io.ReadCloser, error) {
	if c.InputFile == "" || c.InputFile == StdinFile {
		return io.NopCloser(stdin), nil
	}

	f, err := os.Open(c.InputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open input file %s: %w", c.InputFile, err)
	}
	return f, nil
}

// Logger builds the diagnostics logger: Info by default, Debug when verbose.
func (c *Config) Logger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
