package models

import (
	"testing"

	json "github.com/goccy/go-json"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeValue_NormalizesNumbers(t *testing.T) {
	v, err := DecodeValue([]byte(`{"i":6,"f":1.5,"neg":-3,"list":[1,2.25,"x"],"nested":{"n":0},"null":null,"ok":true}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"i":      6,
		"f":      json.Number("1.5"),
		"neg":    -3,
		"list":   []any{1, json.Number("2.25"), "x"},
		"nested": map[string]any{"n": 0},
		"null":   nil,
		"ok":     true,
	}, v)
}

func TestDecodeValue_KeepsNumberText(t *testing.T) {
	v, err := DecodeValue([]byte(`{"whole":9.0,"exp":2e3,"upper":1E2,"huge":123456789012345678901234567890}`))
	require.NoError(t, err)

	assert.Equal(t, map[string]any{
		"whole": json.Number("9.0"),
		"exp":   json.Number("2e3"),
		"upper": json.Number("1E2"),
		"huge":  json.Number("123456789012345678901234567890"),
	}, v)

	out, err := json.Marshal(v)
	require.NoError(t, err)
	assert.JSONEq(t, `{"whole":9.0,"exp":2e3,"upper":1E2,"huge":123456789012345678901234567890}`, string(out))
	assert.Contains(t, string(out), `"whole":9.0`)
}

func TestDecodeValue_Scalars(t *testing.T) {
	v, err := DecodeValue([]byte(`42`))
	require.NoError(t, err)
	assert.Equal(t, 42, v)

	v, err = DecodeValue([]byte(`"text"`))
	require.NoError(t, err)
	assert.Equal(t, "text", v)

	v, err = DecodeValue([]byte(`[1,{"a":2}]`))
	require.NoError(t, err)
	assert.Equal(t, []any{1, map[string]any{"a": 2}}, v)
}

func TestDecodeValue_Invalid(t *testing.T) {
	for _, input := range []string{``, `{`, `{"a":1} trailing`, `not json`, `{"a":}`} {
		_, err := DecodeValue([]byte(input))
		assert.ErrorIs(t, err, ErrInvalidJSON, "input %q", input)
	}
}

func TestCloneValue_DeepCopy(t *testing.T) {
	src := map[string]any{
		"section": map[string]any{"list": []any{1, map[string]any{"k": "v"}}},
		"scalar":  3,
	}

	dst := CloneValue(src).(map[string]any)
	dst["section"].(map[string]any)["list"].([]any)[1].(map[string]any)["k"] = "changed"
	dst["scalar"] = 4

	assert.Equal(t, "v", src["section"].(map[string]any)["list"].([]any)[1].(map[string]any)["k"])
	assert.Equal(t, 3, src["scalar"])
}
