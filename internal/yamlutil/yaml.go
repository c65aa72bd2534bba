// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 1MB).
var MaxInputSize = 1 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
	ErrDuplicateKey   = errors.New("yamlutil: duplicate key")
)

// Field is one top-level key of a YAML mapping, in document order.
type Field struct {
	Key    string
	Value  any
	Scalar bool // false for nested mappings and sequences
}

func validateInput(data []byte, v any) error {
	if len(data) == 0 {
		return ErrNilData
	}
	if len(data) > MaxInputSize {
		return fmt.Errorf("%w: %d bytes (max %d)", ErrInputTooLarge, len(data), MaxInputSize)
	}
	if v == nil {
		return ErrNilDestination
	}
	return nil
}

// UnmarshalStrict rejects unknown fields in the input.
func UnmarshalStrict(data []byte, v any) error {
	if err := validateInput(data, v); err != nil {
		return err
	}
	if err := yaml.UnmarshalWithOptions(data, v, yaml.Strict()); err != nil {
		return fmt.Errorf("yamlutil: %w", err)
	}
	return nil
}

// UnmarshalOrdered decodes a top-level mapping and keeps key order.
// Duplicate keys are an error.
func UnmarshalOrdered(data []byte) ([]Field, error) {
	var ms yaml.MapSlice
	if err := validateInput(data, &ms); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &ms, yaml.UseOrderedMap()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}

	fields := make([]Field, 0, len(ms))
	seen := make(map[string]bool, len(ms))
	for _, item := range ms {
		key := fmt.Sprint(item.Key)
		if seen[key] {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateKey, key)
		}
		seen[key] = true
		fields = append(fields, Field{Key: key, Value: item.Value, Scalar: isScalar(item.Value)})
	}
	return fields, nil
}

func isScalar(v any) bool {
	switch v.(type) {
	case yaml.MapSlice, map[string]any, map[any]any, []any:
		return false
	}
	return true
}
