package item2pdf

import "strings"

// lineBreak is the LaTeX directive emitted for a newline inside a value.
const lineBreak = `\newline `

// plainReplacer escapes every LaTeX-reserved character. Backslash must be
// handled in the same pass so the braces of \textbackslash{} are not re-escaped.
var plainReplacer = strings.NewReplacer(
	`\`, `\textbackslash{}`,
	`&`, `\&`,
	`%`, `\%`,
	`$`, `\$`,
	`#`, `\#`,
	`_`, `\_`,
	`{`, `\{`,
	`}`, `\}`,
	`~`, `\textasciitilde{}`,
	`^`, `\textasciicircum{}`,
)

// EscapeText escapes s for use as plain LaTeX text. Every reserved character
// is escaped and newlines become explicit line breaks.
func EscapeText(s string) string {
	s = normalizeNewlines(s)
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = plainReplacer.Replace(line)
	}
	return strings.Join(lines, lineBreak)
}

// EscapeLines escapes s like EscapeText and additionally turns "/"
// separators into line breaks ("Arcana 3/ History 5").
func EscapeLines(s string) string {
	parts := strings.Split(normalizeNewlines(s), "/")
	for i, p := range parts {
		parts[i] = EscapeText(strings.TrimSpace(p))
	}
	return strings.Join(parts, lineBreak)
}

// markupSpecials are escaped in markup text unless the author already
// escaped them. Backslash and braces pass through so commands survive.
const markupSpecials = "&%$#_~^"

// EscapeMarkup escapes s for a free-text body that may contain author LaTeX.
// Reserved characters are escaped unless preceded by a backslash; commands
// such as \newline or \textbf{...} are left untouched. A single newline
// becomes a line break, one or more blank lines become a paragraph break.
func EscapeMarkup(s string) string {
	paragraphs := splitParagraphs(normalizeNewlines(s))
	for i, para := range paragraphs {
		lines := strings.Split(para, "\n")
		for j, line := range lines {
			lines[j] = escapeMarkupLine(line)
		}
		paragraphs[i] = strings.Join(lines, lineBreak+"\n")
	}
	return strings.Join(paragraphs, "\n\n")
}

func escapeMarkupLine(line string) string {
	var b strings.Builder
	b.Grow(len(line) + 8)

	escaped := false // previous rune was an unescaped backslash
	for _, r := range line {
		switch {
		case escaped:
			b.WriteRune(r)
			escaped = false
		case r == '\\':
			b.WriteRune(r)
			escaped = true
		case r == '~':
			b.WriteString(`\textasciitilde{}`)
		case r == '^':
			b.WriteString(`\textasciicircum{}`)
		case strings.ContainsRune(markupSpecials, r):
			b.WriteRune('\\')
			b.WriteRune(r)
		default:
			b.WriteRune(r)
		}
	}
	out := b.String()
	if escaped {
		// A lone backslash would swallow the line break that follows.
		out = out[:len(out)-1] + `\textbackslash{}`
	}
	return out
}

// splitParagraphs splits on blank lines, dropping empty paragraphs.
func splitParagraphs(s string) []string {
	var out []string
	var cur []string
	flush := func() {
		if len(cur) > 0 {
			out = append(out, strings.Join(cur, "\n"))
			cur = nil
		}
	}
	for _, line := range strings.Split(s, "\n") {
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		cur = append(cur, strings.TrimRight(line, " \t"))
	}
	flush()
	return out
}

// normalizeNewlines converts CRLF and CR to LF and trims surrounding blank lines.
func normalizeNewlines(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	return strings.Trim(s, "\n")
}
