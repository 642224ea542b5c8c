// Package textutil provides the whole-text normalisation passes shared by
// dialect preprocessors and postprocessors.
package textutil

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
	"golang.org/x/text/width"
)

// Precompiled regex patterns for performance.
var (
	// Line ending normalization
	crlfOrCR = regexp.MustCompile(`\r\n?`)

	// Compress runs of blank lines to a single blank line
	multipleBlankLines = regexp.MustCompile(`\n{3,}`)

	// Whitespace-only lines count as blank
	blankLine = regexp.MustCompile(`(?m)^[ \t\x{3000}]+$`)

	// Trailing ASCII whitespace at line end
	trailingSpaces = regexp.MustCompile(`(?m)[ \t]+$`)

	// "!" or "?" runs followed by non-ASCII text that is not a closing bracket or space
	exclamationRun = regexp.MustCompile(`([!?！？]+)([^!?！？」』）】〉》\s\x{3000}\x00-\x7F])`)
)

// Half-width voiced sound marks and their combining equivalents.
const (
	halfwidthVoiced     = '\uFF9E'
	halfwidthSemiVoiced = '\uFF9F'
	combiningVoiced     = '\u3099'
	combiningSemiVoiced = '\u309A'
)

// Openers that must not be indented: dialogue and bracketed lines.
const noIndentPrefixes = "「『（(〈《【“‘―…　 "

// NormalizeLineEndings converts \r\n and \r to \n.
func NormalizeLineEndings(content string) string {
	return crlfOrCR.ReplaceAllString(content, "\n")
}

// NormalizeNFC puts content in Unicode normalization form C, so that
// decomposed kana with combining marks compare equal to their composed form.
func NormalizeNFC(content string) string {
	return norm.NFC.String(content)
}

// WidenHalfwidthKana converts half-width katakana and punctuation to their
// full-width forms. ASCII is left untouched.
func WidenHalfwidthKana(content string) string {
	if !hasHalfwidth(content) {
		return content
	}
	var b strings.Builder
	b.Grow(len(content))
	for _, r := range content {
		switch {
		case r == halfwidthVoiced:
			b.WriteRune(combiningVoiced)
		case r == halfwidthSemiVoiced:
			b.WriteRune(combiningSemiVoiced)
		case width.LookupRune(r).Kind() == width.EastAsianHalfwidth:
			b.WriteString(width.Widen.String(string(r)))
		default:
			b.WriteRune(r)
		}
	}
	// Voiced marks are written as combining runes; NFC composes them with the kana.
	return norm.NFC.String(b.String())
}

// hasHalfwidth reports whether content has any half-width rune.
func hasHalfwidth(content string) bool {
	for _, r := range content {
		if width.LookupRune(r).Kind() == width.EastAsianHalfwidth {
			return true
		}
	}
	return false
}

// TrimTrailingSpaces removes ASCII spaces and tabs at line ends and empties
// whitespace-only lines, so that they act as blank-line separators.
func TrimTrailingSpaces(content string) string {
	content = blankLine.ReplaceAllString(content, "")
	return trailingSpaces.ReplaceAllString(content, "")
}

// CompressBlankLines limits consecutive blank lines to one.
func CompressBlankLines(content string) string {
	return multipleBlankLines.ReplaceAllString(content, "\n\n")
}

// TrimBlankLines removes leading and trailing newlines.
func TrimBlankLines(content string) string {
	return strings.Trim(content, "\n")
}

// EnsureFinalNewline terminates non-empty content with exactly one newline.
func EnsureFinalNewline(content string) string {
	content = strings.TrimRight(content, "\n")
	if content == "" {
		return content
	}
	return content + "\n"
}

// SpaceAfterExclamation inserts a full-width space after "!" and "?" runs
// that are directly followed by text, following Japanese typesetting rules.
func SpaceAfterExclamation(content string) string {
	return exclamationRun.ReplaceAllString(content, "$1　$2")
}

// IndentLine prefixes a full-width space to narrative lines.
// Empty lines and lines opening with dialogue brackets are left unchanged.
func IndentLine(line string) string {
	if line == "" {
		return line
	}
	for _, r := range noIndentPrefixes {
		if strings.HasPrefix(line, string(r)) {
			return line
		}
	}
	return "　" + line
}

// IndentLines applies IndentLine to every line of text.
func IndentLines(text string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = IndentLine(l)
	}
	return strings.Join(lines, "\n")
}
