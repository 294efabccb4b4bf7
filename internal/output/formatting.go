// Package output writes query matches and rewritten documents.
package output

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/goccy/go-yaml"
)

var ErrUnknownFormat = errors.New("unknown output format")

// OutputFormat represents the output format for matches and documents.
type OutputFormat int

const (
	FormatText OutputFormat = iota
	FormatJSON
	FormatYAML
)

// ParseFormat maps a flag value onto an OutputFormat.
func ParseFormat(name string) (OutputFormat, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "text":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	case "yaml":
		return FormatYAML, nil
	default:
		return FormatText, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

func (f OutputFormat) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return "text"
	}
}

// Match is one query result ready for display.
type Match struct {
	Document int    `json:"document" yaml:"document"`
	Path     string `json:"path" yaml:"path"`
	Value    any    `json:"value" yaml:"value"`
}

// Options controls which match fields are written.
type Options struct {
	Paths     bool
	Documents bool
}

// FormatMatches writes matches in the given format. Text output prints one
// match per line; JSON and YAML output print a single sequence.
func FormatMatches(format OutputFormat, w io.Writer, matches []Match, opts Options) error {
	switch format {
	case FormatJSON:
		return formatJSON(w, shape(matches, opts))
	case FormatYAML:
		return formatYAML(w, shape(matches, opts))
	case FormatText:
		fallthrough
	default:
		return formatMatchesText(w, matches, opts)
	}
}

// FormatDocument writes a whole document, as produced by set or update.
// Text output is indented JSON.
func FormatDocument(format OutputFormat, w io.Writer, value any) error {
	switch format {
	case FormatYAML:
		return formatYAML(w, value)
	case FormatJSON, FormatText:
		fallthrough
	default:
		return formatJSON(w, value)
	}
}

type pathValue struct {
	Path  string `json:"path" yaml:"path"`
	Value any    `json:"value" yaml:"value"`
}

// shape picks the narrowest record that carries the requested fields.
func shape(matches []Match, opts Options) any {
	switch {
	case opts.Documents:
		return matches
	case opts.Paths:
		out := make([]pathValue, len(matches))
		for i, m := range matches {
			out[i] = pathValue{Path: m.Path, Value: m.Value}
		}
		return out
	default:
		out := make([]any, len(matches))
		for i, m := range matches {
			out[i] = m.Value
		}
		return out
	}
}

func formatMatchesText(w io.Writer, matches []Match, opts Options) error {
	for _, m := range matches {
		value, err := Scalar(m.Value)
		if err != nil {
			return err
		}

		var prefix string
		if opts.Documents {
			prefix += fmt.Sprintf("%d\t", m.Document)
		}
		if opts.Paths {
			prefix += m.Path + "\t"
		}

		if _, err := fmt.Fprintf(w, "%s%s\n", prefix, value); err != nil {
			return err
		}
	}

	return nil
}

// Scalar renders a value on one line: strings as they are, everything else
// as compact JSON.
func Scalar(value any) (string, error) {
	if s, ok := value.(string); ok {
		return s, nil
	}
	encoded, err := json.Marshal(value)
	if err != nil {
		return "", fmt.Errorf("encode value: %w", err)
	}
	return string(encoded), nil
}

func formatJSON(w io.Writer, value any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(value); err != nil {
		return fmt.Errorf("encode JSON: %w", err)
	}
	return nil
}

func formatYAML(w io.Writer, value any) error {
	payload, err := yaml.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode YAML: %w", err)
	}
	_, err = w.Write(payload)
	return err
}
