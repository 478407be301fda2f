package item2pdf

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
)

// errNestedValue marks a raw value that is a mapping rather than a scalar.
var errNestedValue = errors.New("value is a nested mapping")

// signedPattern accepts an optional sign (including U+2212 minus) and digits.
var signedPattern = regexp.MustCompile(`^([+\-−]?)\s*(\d+)$`)

// stringify converts a decoded scalar (or a sequence of scalars) into text.
// Strings are trimmed. Nested mappings are rejected.
func stringify(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "", nil
	case string:
		return strings.TrimSpace(val), nil
	case bool:
		return strconv.FormatBool(val), nil
	case int:
		return strconv.Itoa(val), nil
	case int8, int16, int32, int64:
		return fmt.Sprintf("%d", val), nil
	case uint, uint8, uint16, uint32, uint64:
		return fmt.Sprintf("%d", val), nil
	case float32:
		return formatFloat(float64(val)), nil
	case float64:
		return formatFloat(val), nil
	case []any:
		parts := make([]string, 0, len(val))
		for _, elem := range val {
			s, err := stringify(elem)
			if err != nil {
				return "", err
			}
			if s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), nil
	case []string:
		parts := make([]string, 0, len(val))
		for _, s := range val {
			if s = strings.TrimSpace(s); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, ", "), nil
	case RawRecord, map[string]any, map[any]any:
		return "", errNestedValue
	case fmt.Stringer:
		return strings.TrimSpace(val.String()), nil
	default:
		return "", fmt.Errorf("unsupported value type %T", v)
	}
}

func formatFloat(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 0, 64)
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// coerce applies a rule to a raw value and returns escaped display text.
// The returned reason is non-empty when the value cannot satisfy the rule.
func coerce(rule Rule, v any) (value string, reason string) {
	text, err := stringify(v)
	if err != nil {
		return "", err.Error()
	}

	switch rule {
	case RuleSigned:
		return signed(v, text)
	case RuleLines:
		if text == "" {
			return "", "value is empty"
		}
		return EscapeLines(text), ""
	case RuleMarkup:
		if text == "" {
			return "", "value is empty"
		}
		return EscapeMarkup(text), ""
	default:
		if text == "" {
			return "", "value is empty"
		}
		return EscapeText(text), ""
	}
}

// signed renders integers with an explicit sign: 1 -> "+1", -2 -> "-2", 0 -> "+0".
// Signs need no LaTeX escaping, so the result is returned as is.
func signed(v any, text string) (string, string) {
	switch v.(type) {
	case float32, float64:
		if !strings.Contains(text, ".") && !strings.ContainsAny(text, "eE") {
			break
		}
		return "", fmt.Sprintf("%q is not a whole number", text)
	case bool:
		return "", fmt.Sprintf("%q is not a number", text)
	}

	if text == "" {
		return "", "value is empty"
	}

	m := signedPattern.FindStringSubmatch(text)
	if m == nil {
		return "", fmt.Sprintf("%q is not a signed integer", text)
	}

	digits := strings.TrimLeft(m[2], "0")
	if digits == "" {
		digits = "0"
	}
	if m[1] == "-" || m[1] == "−" {
		if digits == "0" {
			return "+0", ""
		}
		return "-" + digits, ""
	}
	return "+" + digits, ""
}
