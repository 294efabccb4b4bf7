package output

import (
	"bytes"
	"encoding/json"
	"math"
	"testing"

	"github.com/goccy/go-yaml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sample = []Match{
	{Document: 0, Path: "a[0]", Value: "x"},
	{Document: 1, Path: "a[1]", Value: map[string]any{"k": 1}},
}

func TestFormatMatchesText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		opts Options
		want string
	}{
		{name: "values", want: "x\n{\"k\":1}\n"},
		{name: "paths", opts: Options{Paths: true}, want: "a[0]\tx\na[1]\t{\"k\":1}\n"},
		{name: "documents", opts: Options{Paths: true, Documents: true}, want: "0\ta[0]\tx\n1\ta[1]\t{\"k\":1}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var out bytes.Buffer
			require.NoError(t, FormatMatches(FormatText, &out, sample, tt.opts))
			assert.Equal(t, tt.want, out.String())
		})
	}
}

func TestFormatMatchesJSON(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, FormatMatches(FormatJSON, &out, sample, Options{Paths: true}))

	var payload []map[string]any
	require.NoError(t, json.Unmarshal(out.Bytes(), &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "a[1]", payload[1]["path"])
	assert.Equal(t, map[string]any{"k": float64(1)}, payload[1]["value"])
}

func TestFormatMatchesYAML(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, FormatMatches(FormatYAML, &out, sample, Options{}))

	var payload []any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &payload))
	require.Len(t, payload, 2)
	assert.Equal(t, "x", payload[0])
}

func TestFormatDocument(t *testing.T) {
	t.Parallel()

	var out bytes.Buffer
	require.NoError(t, FormatDocument(FormatText, &out, map[string]any{"b": []any{1}, "a": true}))
	assert.Equal(t, "{\n  \"a\": true,\n  \"b\": [\n    1\n  ]\n}\n", out.String())
}

func TestScalarRejectsUnencodable(t *testing.T) {
	t.Parallel()

	_, err := Scalar(math.Inf(1))
	assert.Error(t, err)
}

func TestParseFormat(t *testing.T) {
	t.Parallel()

	for name, want := range map[string]OutputFormat{"": FormatText, "text": FormatText, "JSON": FormatJSON, "yaml": FormatYAML} {
		got, err := ParseFormat(name)
		require.NoError(t, err)
		assert.Equal(t, want, got)
		if name != "" {
			assert.Equal(t, want.String(), got.String())
		}
	}

	_, err := ParseFormat("csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
