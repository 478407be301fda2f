// Package dateutil resolves the date printed under the sheet title.
//
// A date value is either literal text, printed as is, or "auto" with an
// optional format: "auto", "auto:DD/MM/YYYY", "auto:long".
package dateutil

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidDateFormat indicates an invalid date format string.
var ErrInvalidDateFormat = errors.New("invalid date format")

// MaxDateFormatLength limits format string length.
const MaxDateFormatLength = 50

// DefaultDateFormat is used when "auto" is specified without a format.
const DefaultDateFormat = "YYYY-MM-DD"

const autoKeyword = "auto"

// token maps a format token to a Go time layout element.
type token struct {
	text   string
	layout string
}

// tokens are ordered longest first so that matching is greedy.
var tokens = []token{
	{"YYYY", "2006"},
	{"MMMM", "January"},
	{"dddd", "Monday"},
	{"MMM", "Jan"},
	{"ddd", "Mon"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"M", "1"},
	{"D", "2"},
}

// Presets provides named shortcuts for common date formats.
var Presets = map[string]string{
	"iso":      "YYYY-MM-DD",
	"european": "DD/MM/YYYY",
	"us":       "MM/DD/YYYY",
	"long":     "MMMM D, YYYY",
	"weekday":  "dddd D MMMM YYYY",
}

// segment is a piece of a parsed format: a layout element or literal text.
type segment struct {
	layout  string
	literal string
}

// parse splits a format into segments. Text inside brackets is literal:
// "[Session] D" keeps "Session" as written.
func parse(format string) ([]segment, error) {
	if format == "" {
		return nil, fmt.Errorf("%w: format cannot be empty", ErrInvalidDateFormat)
	}
	if len(format) > MaxDateFormatLength {
		return nil, fmt.Errorf("%w: format exceeds %d characters", ErrInvalidDateFormat, MaxDateFormatLength)
	}

	var segs []segment
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			segs = append(segs, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(format); {
		if format[i] == '[' {
			end := strings.IndexByte(format[i+1:], ']')
			if end < 0 {
				return nil, fmt.Errorf("%w: unclosed bracket at position %d", ErrInvalidDateFormat, i)
			}
			lit.WriteString(format[i+1 : i+1+end])
			i += end + 2
			continue
		}

		matched := false
		for _, tok := range tokens {
			if strings.HasPrefix(format[i:], tok.text) {
				flush()
				segs = append(segs, segment{layout: tok.layout})
				i += len(tok.text)
				matched = true
				break
			}
		}
		if !matched {
			lit.WriteByte(format[i])
			i++
		}
	}
	flush()
	return segs, nil
}

// Format renders t using a token format (YYYY, YY, MMMM, MMM, MM, M, DD, D,
// dddd, ddd). Literal text is never interpreted by the time layout engine,
// so digits in it are kept as written.
func Format(t time.Time, format string) (string, error) {
	segs, err := parse(format)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	for _, s := range segs {
		if s.layout != "" {
			b.WriteString(t.Format(s.layout))
		} else {
			b.WriteString(s.literal)
		}
	}
	return b.String(), nil
}

// Resolve returns the date text for value at time now. Values that do not
// start with "auto" are returned unchanged.
func Resolve(value string, now time.Time) (string, error) {
	format, isAuto, err := autoFormat(value)
	if err != nil || !isAuto {
		return value, err
	}
	return Format(now, format)
}

// Validate checks value without resolving it.
func Validate(value string) error {
	format, isAuto, err := autoFormat(value)
	if err != nil || !isAuto {
		return err
	}
	_, err = parse(format)
	return err
}

// autoFormat extracts the token format from an "auto" value.
func autoFormat(value string) (format string, isAuto bool, err error) {
	trimmed := strings.TrimSpace(value)
	lower := strings.ToLower(trimmed)
	if !strings.HasPrefix(lower, autoKeyword) {
		return "", false, nil
	}
	if lower == autoKeyword {
		return DefaultDateFormat, true, nil
	}

	rest, ok := strings.CutPrefix(trimmed[len(autoKeyword):], ":")
	if !ok {
		// "automatic" and similar words are literal text.
		if len(lower) > len(autoKeyword) && isLetter(lower[len(autoKeyword)]) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("%w: invalid auto syntax %q, use \"auto\" or \"auto:FORMAT\"", ErrInvalidDateFormat, value)
	}
	if rest == "" {
		return "", false, fmt.Errorf("%w: format cannot be empty after \"auto:\"", ErrInvalidDateFormat)
	}
	if preset, ok := Presets[strings.ToLower(rest)]; ok {
		rest = preset
	}
	return rest, true, nil
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
