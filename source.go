package item2pdf

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/alnah/go-item2pdf/internal/sheet"
	"github.com/alnah/go-item2pdf/internal/yamlutil"
)

// Supported input extensions.
const (
	extYAML = ".yaml"
	extYML  = ".yml"
	extXLSX = ".xlsx"
)

// ParseYAML decodes an item document: a mapping of item names to mappings
// of field names to values. Item and field order follow the document.
// An item whose value is null has no fields.
func ParseYAML(data []byte) (RawDocument, error) {
	if len(strings.TrimSpace(string(data))) == 0 {
		return nil, ErrEmptyDocument
	}

	v, err := yamlutil.UnmarshalOrdered(data)
	if err != nil {
		if errors.Is(err, yamlutil.ErrInputTooLarge) {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
	}
	if v == nil {
		return nil, ErrEmptyDocument
	}

	top, ok := v.(yamlutil.MapSlice)
	if !ok {
		return nil, fmt.Errorf("%w: got %s", ErrInvalidDocument, describeValue(v))
	}

	doc := make(RawDocument, 0, len(top))
	for _, entry := range top {
		name := keyString(entry.Key)

		var record RawRecord
		switch val := entry.Value.(type) {
		case nil:
			record = RawRecord{}
		case yamlutil.MapSlice:
			record = toRecord(val)
		default:
			return nil, fmt.Errorf("%w: %q is %s", ErrInvalidItem, name, describeValue(val))
		}

		doc = append(doc, RawEntry{Name: name, Record: record})
	}
	return doc, nil
}

// LoadFile reads an item document from disk, choosing the decoder by
// extension: .yaml and .yml are parsed as YAML, .xlsx as a spreadsheet.
func LoadFile(path string) (RawDocument, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case extYAML, extYML:
		info, err := os.Stat(path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		if info.Size() > int64(yamlutil.MaxInputSize) {
			return nil, fmt.Errorf("%w: %s is %d bytes (max %d)", ErrReadInput, path, info.Size(), yamlutil.MaxInputSize)
		}
		data, err := os.ReadFile(path) // #nosec G304 -- user-provided input path
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		doc, err := ParseYAML(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return doc, nil

	case extXLSX:
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
		}
		records, err := sheet.ReadFile(path, "")
		if err != nil {
			if errors.Is(err, sheet.ErrOpen) {
				return nil, fmt.Errorf("%w: %v", ErrReadInput, err)
			}
			return nil, fmt.Errorf("%w: %v", ErrInvalidDocument, err)
		}
		return fromSheet(records), nil

	default:
		return nil, fmt.Errorf("%w: %q (expected .yaml, .yml, or .xlsx)", ErrUnsupportedInput, ext)
	}
}

// IsSupportedInput reports whether LoadFile can read the file at path.
func IsSupportedInput(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case extYAML, extYML, extXLSX:
		return true
	}
	return false
}

// fromSheet converts spreadsheet rows to raw entries. Cell values stay
// strings; coercion rules apply to them like to YAML strings.
func fromSheet(records []sheet.Record) RawDocument {
	doc := make(RawDocument, 0, len(records))
	for _, rec := range records {
		record := make(RawRecord, 0, len(rec.Cells))
		for _, c := range rec.Cells {
			record = append(record, RawField{Key: c.Key, Value: c.Value})
		}
		doc = append(doc, RawEntry{Name: rec.Name, Record: record})
	}
	return doc
}

func toRecord(m yamlutil.MapSlice) RawRecord {
	record := make(RawRecord, 0, len(m))
	for _, item := range m {
		record = append(record, RawField{Key: keyString(item.Key), Value: toRawValue(item.Value)})
	}
	return record
}

// toRawValue replaces decoder-specific containers with RawRecord and
// renders timestamps as dates.
func toRawValue(v any) any {
	switch val := v.(type) {
	case yamlutil.MapSlice:
		return toRecord(val)
	case []any:
		out := make([]any, len(val))
		for i, elem := range val {
			out[i] = toRawValue(elem)
		}
		return out
	case time.Time:
		if h, m, s := val.Clock(); h == 0 && m == 0 && s == 0 && val.Nanosecond() == 0 {
			return val.Format(time.DateOnly)
		}
		return val.Format(time.RFC3339)
	default:
		return v
	}
}

// keyString renders a mapping key. Non-string keys (numbers, booleans)
// are formatted the way they were written.
func keyString(k any) string {
	switch key := k.(type) {
	case string:
		return key
	case nil:
		return ""
	default:
		if s, err := stringify(key); err == nil {
			return s
		}
		return fmt.Sprint(key)
	}
}

func describeValue(v any) string {
	switch v.(type) {
	case []any:
		return "a sequence"
	case string:
		return "a string"
	case yamlutil.MapSlice:
		return "a mapping"
	default:
		return fmt.Sprintf("a scalar (%T)", v)
	}
}
