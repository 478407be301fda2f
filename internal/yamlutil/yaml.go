// Package yamlutil wraps YAML parsing to isolate the external dependency.
// This allows swapping the underlying YAML library without modifying callers.
package yamlutil

import (
	"errors"
	"fmt"

	"github.com/goccy/go-yaml"
)

// MaxInputSize limits YAML input to prevent memory exhaustion (default 4MB).
// Item files with long descriptions are larger than typical config files.
var MaxInputSize = 4 << 20

var (
	ErrNilData        = errors.New("yamlutil: nil or empty data")
	ErrNilDestination = errors.New("yamlutil: nil destination pointer")
	ErrInputTooLarge  = errors.New("yamlutil: input exceeds maximum size")
)

// MapSlice is an ordered mapping as produced by UnmarshalOrdered.
type MapSlice = yaml.MapSlice

// MapItem is one key/value pair of a MapSlice.
type MapItem = yaml.MapItem

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

// UnmarshalOrdered decodes untyped YAML keeping mapping order: every mapping,
// at any depth, becomes a MapSlice instead of a Go map. Repeated keys are
// kept as separate items so callers can report them.
func UnmarshalOrdered(data []byte) (any, error) {
	var v any
	if err := validateInput(data, &v); err != nil {
		return nil, err
	}
	if err := yaml.UnmarshalWithOptions(data, &v, yaml.UseOrderedMap(), yaml.AllowDuplicateMapKey()); err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return v, nil
}

func Marshal(v any) ([]byte, error) {
	result, err := yaml.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("yamlutil: %w", err)
	}
	return result, nil
}
