// Package document decodes JSON and YAML input into the plain trees the
// evaluator walks: map[string]any, []any, string, bool, nil, int and float64.
package document

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/jacoelho/jpath/internal/number"
)

var (
	ErrDecode        = errors.New("decode document")
	ErrNoDocument    = errors.New("input holds no document")
	ErrUnknownFormat = errors.New("unknown document format")
)

// Format selects the input syntax.
type Format string

const (
	FormatAuto Format = "auto"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat validates a format name; the empty string means auto.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case "":
		return FormatAuto, nil
	case FormatAuto, FormatJSON, FormatYAML:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
}

// Parse decodes the first document in data.
func Parse(data []byte, format Format) (any, error) {
	for value, err := range Decode(bytes.NewReader(data), format) {
		return value, err
	}
	return nil, ErrNoDocument
}

// Decode yields every document in r. JSON input may hold several
// concatenated values and YAML input several "---" separated documents.
// Iteration stops after the first error.
func Decode(r io.Reader, format Format) iter.Seq2[any, error] {
	return func(yield func(any, error) bool) {
		br := bufio.NewReader(r)
		sniffed, ok := sniff(br)
		if format == FormatAuto || format == "" {
			format = sniffed
		}

		var next func() (any, error)
		switch format {
		case FormatJSON:
			dec := json.NewDecoder(br)
			dec.UseNumber()
			next = func() (any, error) {
				var v any
				err := dec.Decode(&v)
				return v, err
			}
		case FormatYAML:
			dec := yaml.NewDecoder(br)
			next = func() (any, error) {
				var v any
				err := dec.Decode(&v)
				return v, err
			}
		default:
			yield(nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format))
			return
		}
		if !ok {
			return
		}

		for index := 0; ; index++ {
			value, err := next()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("%w: %s document %d: %w", ErrDecode, format, index, err))
				return
			}
			if !yield(Normalize(value), nil) {
				return
			}
		}
	}
}

// sniff picks JSON when the first significant byte opens a JSON object,
// array or string, YAML otherwise. Nothing is consumed. It reports false
// when the input is blank.
func sniff(br *bufio.Reader) (Format, bool) {
	for n := 1; ; n++ {
		buf, err := br.Peek(n)
		if errors.Is(err, bufio.ErrBufferFull) {
			return FormatYAML, true
		}
		if len(buf) < n {
			return FormatYAML, false
		}
		switch buf[n-1] {
		case ' ', '\t', '\r', '\n':
			continue
		case '{', '[', '"':
			return FormatJSON, true
		default:
			return FormatYAML, true
		}
	}
}

// Normalize rewrites decoder-specific shapes in place: json.Number and sized
// integers become int or float64, and mappings with non-string keys get
// their keys formatted as strings.
func Normalize(value any) any {
	switch v := value.(type) {
	case map[string]any:
		for key, item := range v {
			v[key] = Normalize(item)
		}
		return v
	case map[any]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[fmt.Sprint(key)] = Normalize(item)
		}
		return out
	case []any:
		for i, item := range v {
			v[i] = Normalize(item)
		}
		return v
	case nil, string, bool:
		return v
	default:
		return number.Normalize(v)
	}
}
