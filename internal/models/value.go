package models

import (
	"bytes"
	"errors"
	json "github.com/goccy/go-json"
	"math"
	"strings"
)

var ErrInvalidJSON = errors.New("invalid JSON")

// DecodeValue decodes a single JSON value. Numbers written without a
// fraction or exponent become int; any other number stays a json.Number with
// its original text, so 9.0 is written back as 9.0.
func DecodeValue(data []byte) (any, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	return normalize(v), nil
}

func normalize(v any) any {
	switch t := v.(type) {
	case map[string]any:
		for k, item := range t {
			t[k] = normalize(item)
		}
		return t
	case []any:
		for i, item := range t {
			t[i] = normalize(item)
		}
		return t
	case json.Number:
		if strings.ContainsAny(t.String(), ".eE") {
			return t
		}
		if i, err := t.Int64(); err == nil && i >= math.MinInt && i <= math.MaxInt {
			return int(i)
		}
		return t
	default:
		return v
	}
}

// CloneValue deep-copies maps and slices produced by DecodeValue.
func CloneValue(v any) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = CloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = CloneValue(item)
		}
		return out
	default:
		return v
	}
}
