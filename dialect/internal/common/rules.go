// Package common holds the rules and formatters shared by the bundled dialects.
package common

import (
	"maps"
	"regexp"
	"slices"
	"strings"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/internal/textutil"
)

// Precompiled patterns shared by several readers.
var (
	// <!-- key: value --> on its own line
	commentField = regexp.MustCompile(`^<!--\s*([A-Za-z_][\w-]*)\s*:\s*(.*?)\s*-->$`)

	// "# title" on a single line
	titleLine = regexp.MustCompile(`^#[ \t]+(?P<text>[^\n]+)$`)

	// Scene breaks: *** / * * * / --- / ___ / ◇◇◇ / ＊＊＊, or a lone ◇ ◆ ☆ ★
	sceneBreak = regexp.MustCompile(`^[\s\x{3000}]*(?:(?:\*\s*){3,}|(?:-\s*){3,}|(?:_\s*){3,}|(?:[◇◆☆★＊※][\s\x{3000}]*){3,}|[◇◆☆★])[\s\x{3000}]*$`)
)

// Preprocessor priorities, highest runs first.
const (
	PriorityLineEndings = 100
	PriorityNFC         = 90
	PriorityKana        = 80
	PriorityTrailing    = 70
	PriorityCompress    = 60
	PriorityTrim        = 50
)

// Preprocessors returns the normalisation passes every reader runs.
func Preprocessors() *novelconv.Registry[novelconv.TextRule] {
	reg := novelconv.NewRegistry[novelconv.TextRule]()
	reg.Add(novelconv.TextRuleFunc(textutil.NormalizeLineEndings), "line_endings", PriorityLineEndings)
	reg.Add(novelconv.TextRuleFunc(textutil.NormalizeNFC), "nfc", PriorityNFC)
	reg.Add(novelconv.TextRuleFunc(textutil.WidenHalfwidthKana), "widen_kana", PriorityKana)
	reg.Add(novelconv.TextRuleFunc(textutil.TrimTrailingSpaces), "trailing_spaces", PriorityTrailing)
	reg.Add(novelconv.TextRuleFunc(textutil.CompressBlankLines), "compress_blank_lines", PriorityCompress)
	reg.Add(novelconv.TextRuleFunc(textutil.TrimBlankLines), "trim_blank_lines", PriorityTrim)
	return reg
}

// Regexp returns a block rule matching re against the whole chunk.
// Named subexpressions become block fields.
func Regexp(typ string, re *regexp.Regexp) novelconv.BlockRule {
	names := re.SubexpNames()
	return novelconv.BlockRuleFunc(func(text string) (novelconv.Block, bool) {
		m := re.FindStringSubmatch(text)
		if m == nil {
			return novelconv.Block{}, false
		}
		b := novelconv.NewBlock(typ)
		for i, name := range names {
			if name != "" {
				b.Fields[name] = m[i]
			}
		}
		return b, true
	})
}

// Replace returns an inline rule rewriting every match of re with fn(submatches).
func Replace(re *regexp.Regexp, fn func(m []string) string) novelconv.TextRule {
	return novelconv.TextRuleFunc(func(text string) string {
		return re.ReplaceAllStringFunc(text, func(match string) string {
			return fn(re.FindStringSubmatch(match))
		})
	})
}

// CommentMeta matches a chunk made only of <!-- key: value --> lines.
func CommentMeta() novelconv.BlockRule {
	return novelconv.BlockRuleFunc(func(text string) (novelconv.Block, bool) {
		b := novelconv.NewBlock(novelconv.MetaRule)
		for _, line := range strings.Split(text, "\n") {
			m := commentField.FindStringSubmatch(strings.TrimSpace(line))
			if m == nil {
				return novelconv.Block{}, false
			}
			b.Fields[strings.ToLower(m[1])] = m[2]
		}
		return b, len(b.Fields) > 0
	})
}

// SceneBreak matches a scene-break line.
func SceneBreak() novelconv.BlockRule {
	return novelconv.BlockRuleFunc(func(text string) (novelconv.Block, bool) {
		if !sceneBreak.MatchString(text) {
			return novelconv.Block{}, false
		}
		return novelconv.NewBlock(novelconv.BlockBreak), true
	})
}

// Paragraph matches any chunk with visible text.
func Paragraph() novelconv.BlockRule {
	return novelconv.BlockRuleFunc(func(text string) (novelconv.Block, bool) {
		if strings.TrimSpace(text) == "" {
			return novelconv.Block{}, false
		}
		return novelconv.NewBlock(novelconv.BlockParagraph, "text", text), true
	})
}

// SortedKeys returns the keys of m in lexical order.
func SortedKeys(m map[string]string) []string {
	return slices.Sorted(maps.Keys(m))
}

// WebNovelBlocks returns the block rules shared by the Japanese web-novel
// readers: comment metadata, "# " titles, scene breaks and paragraphs.
func WebNovelBlocks() *novelconv.Registry[novelconv.BlockRule] {
	reg := novelconv.NewRegistry[novelconv.BlockRule]()
	reg.Add(CommentMeta(), novelconv.MetaRule, 100)
	reg.Add(Regexp(novelconv.BlockTitle, titleLine), novelconv.BlockTitle, 50)
	reg.Add(SceneBreak(), novelconv.BlockBreak, 35)
	reg.Add(Paragraph(), novelconv.BlockParagraph, 0)
	return reg
}
