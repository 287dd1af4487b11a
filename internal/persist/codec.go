package persist

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Codec converts a value to and from its persisted string form.
type Codec[T any] interface {
	Encode(v T) (string, error)
	Decode(s string) (T, error)
}

// JSON returns the codec used for every collection key.
func JSON[T any]() Codec[T] { return jsonCodec[T]{} }

// Float returns the decimal-string codec used for the wallet balance.
func Float() Codec[float64] { return floatCodec{} }

// Int returns the integer-string codec used for the loyalty points balance.
func Int() Codec[int] { return intCodec{} }

type jsonCodec[T any] struct{}

func (jsonCodec[T]) Encode(v T) (string, error) {
	return Marshal(v)
}

func (jsonCodec[T]) Decode(s string) (T, error) {
	var v T
	err := Unmarshal(s, &v)
	return v, err
}

// Marshal converts v to compact JSON text.
// HTML escaping is disabled so names like "Smith & Co" survive verbatim.
func Marshal(v any) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return "", fmt.Errorf("marshal: %w", err)
	}
	// Encoder adds a trailing newline, remove it
	return strings.TrimSpace(buf.String()), nil
}

// Unmarshal parses JSON text into v. An empty string leaves v untouched.
func Unmarshal(data string, v any) error {
	if data == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return fmt.Errorf("unmarshal: %w", err)
	}
	return nil
}

type floatCodec struct{}

func (floatCodec) Encode(v float64) (string, error) {
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}

func (floatCodec) Decode(s string) (float64, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("parse decimal: %w", err)
	}
	return v, nil
}

type intCodec struct{}

func (intCodec) Encode(v int) (string, error) {
	return strconv.Itoa(v), nil
}

func (intCodec) Decode(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("parse integer: %w", err)
	}
	return v, nil
}
