package ai

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONPlainObject(t *testing.T) {
	var out map[string]any
	err := ExtractJSON(`{"identified": true, "commonName": "Monstera"}`, &out)
	require.NoError(t, err)
	assert.Equal(t, true, out["identified"])
	assert.Equal(t, "Monstera", out["commonName"])
}

func TestExtractJSONStripsFences(t *testing.T) {
	raw := "```json\n{\"commonName\": \"Monstera\"}\n```"

	var out map[string]any
	require.NoError(t, ExtractJSON(raw, &out))
	assert.Equal(t, "Monstera", out["commonName"])
}

func TestExtractJSONIgnoresSurroundingProse(t *testing.T) {
	cases := map[string]string{
		"leading":  `Sure, here is the result: {"commonName": "Monstera"}`,
		"trailing": `{"commonName": "Monstera"} Let me know if you need more!`,
		"both":     "Of course!\n```json\n{\"commonName\": \"Monstera\"}\n```\nHappy growing!",
	}

	for name, raw := range cases {
		t.Run(name, func(t *testing.T) {
			var out map[string]any
			require.NoError(t, ExtractJSON(raw, &out))
			assert.Equal(t, "Monstera", out["commonName"])
		})
	}
}

func TestExtractJSONNotJSON(t *testing.T) {
	var out map[string]any
	err := ExtractJSON("not json at all", &out)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.Empty(t, out)
}

func TestExtractJSONTruncatedObject(t *testing.T) {
	// A fenced but broken payload must fail, never return a partial object.
	var out map[string]any
	err := ExtractJSON("Sure! ```json {bad json``` ", &out)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.NotEmpty(t, malformed.Excerpt)
}

func TestExtractJSONExcerptIsBounded(t *testing.T) {
	raw := "{" + string(make([]byte, 5000))

	var out map[string]any
	err := ExtractJSON(raw, &out)

	var malformed *MalformedResponseError
	require.True(t, errors.As(err, &malformed))
	assert.LessOrEqual(t, len(malformed.Excerpt), excerptLimit)
}
