// Package inline defines the canonical inline notation that readers produce
// and writers consume.
//
// Readers rewrite dialect-specific inline markup (ruby, emphasis dots, links,
// escaped characters) into spans delimited by Unicode Private Use Area runes.
// These never occur in ordinary text, pass unchanged through every block rule,
// and let each writer map the spans to its own syntax without knowing which
// dialect produced them.
package inline

import (
	"regexp"
	"strings"
)

// Span delimiters. U+E000 to U+E009 are Private Use Area code points.
const (
	RubyStart     = "\uE000"
	RubySep       = "\uE001"
	RubyEnd       = "\uE002"
	EmphasisStart = "\uE003"
	EmphasisEnd   = "\uE004"
	LinkStart     = "\uE005"
	LinkSep       = "\uE006"
	LinkEnd       = "\uE007"
	LiteralStart  = "\uE008"
	LiteralEnd    = "\uE009"
)

// Precompiled span patterns.
var (
	rubyPattern     = regexp.MustCompile(RubyStart + "([^" + RubySep + "]*)" + RubySep + "([^" + RubyEnd + "]*)" + RubyEnd)
	emphasisPattern = regexp.MustCompile(EmphasisStart + "([^" + EmphasisEnd + "]*)" + EmphasisEnd)
	linkPattern     = regexp.MustCompile(LinkStart + "([^" + LinkSep + "]*)" + LinkSep + "([^" + LinkEnd + "]*)" + LinkEnd)
	literalPattern  = regexp.MustCompile(LiteralStart + "([^" + LiteralEnd + "]*)" + LiteralEnd)
)

// Ruby returns a ruby span: reading annotates base.
func Ruby(base, reading string) string {
	return RubyStart + base + RubySep + reading + RubyEnd
}

// Emphasis returns an emphasis-dots (bouten) span.
func Emphasis(text string) string {
	return EmphasisStart + text + EmphasisEnd
}

// Link returns a link span.
func Link(label, url string) string {
	return LinkStart + label + LinkSep + url + LinkEnd
}

// Literal protects text from further inline rules.
func Literal(text string) string {
	return LiteralStart + text + LiteralEnd
}

// ReplaceRuby rewrites every ruby span with fn(base, reading).
func ReplaceRuby(s string, fn func(base, reading string) string) string {
	if !strings.Contains(s, RubyStart) {
		return s
	}
	return replace(rubyPattern, s, func(m []string) string { return fn(m[1], m[2]) })
}

// ReplaceEmphasis rewrites every emphasis span with fn(text).
func ReplaceEmphasis(s string, fn func(text string) string) string {
	if !strings.Contains(s, EmphasisStart) {
		return s
	}
	return replace(emphasisPattern, s, func(m []string) string { return fn(m[1]) })
}

// ReplaceLinks rewrites every link span with fn(label, url).
func ReplaceLinks(s string, fn func(label, url string) string) string {
	if !strings.Contains(s, LinkStart) {
		return s
	}
	return replace(linkPattern, s, func(m []string) string { return fn(m[1], m[2]) })
}

// ReplaceLiterals rewrites every literal span with fn(text).
func ReplaceLiterals(s string, fn func(text string) string) string {
	if !strings.Contains(s, LiteralStart) {
		return s
	}
	return replace(literalPattern, s, func(m []string) string { return fn(m[1]) })
}

// Plain strips all spans, keeping ruby bases, emphasised text, link labels
// and literal text.
func Plain(s string) string {
	s = ReplaceRuby(s, func(base, _ string) string { return base })
	s = ReplaceEmphasis(s, func(text string) string { return text })
	s = ReplaceLinks(s, func(label, _ string) string { return label })
	return ReplaceLiterals(s, func(text string) string { return text })
}

// replace applies fn to the submatches of every match of re in s.
func replace(re *regexp.Regexp, s string, fn func(m []string) string) string {
	return re.ReplaceAllStringFunc(s, func(match string) string {
		return fn(re.FindStringSubmatch(match))
	})
}
