package common

import (
	"strconv"
	"strings"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
	"github.com/alnah/go-novelconv/internal/textutil"
)

// InlineFormats maps canonical inline spans to a target syntax.
// A nil function keeps the span's plain text.
type InlineFormats struct {
	Ruby     func(base, reading string) string
	Emphasis func(text string) string
	Link     func(label, url string) string
	Literal  func(text string) string
}

// Writer inline priorities. Literals are restored last so that no other
// rule sees their content.
const (
	PriorityRubyOut     = 100
	PriorityEmphasisOut = 90
	PriorityLinkOut     = 80
	PriorityLiteralOut  = 0
)

// Processor builds the inline pipeline for f.
func (f InlineFormats) Processor() *novelconv.Processor {
	ruby := f.Ruby
	if ruby == nil {
		ruby = func(base, _ string) string { return base }
	}
	emphasis := f.Emphasis
	if emphasis == nil {
		emphasis = identity
	}
	link := f.Link
	if link == nil {
		link = func(label, _ string) string { return label }
	}
	literal := f.Literal
	if literal == nil {
		literal = identity
	}

	reg := novelconv.NewRegistry[novelconv.TextRule]()
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return inline.ReplaceRuby(s, ruby)
	}), "ruby", PriorityRubyOut)
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return inline.ReplaceEmphasis(s, emphasis)
	}), "emphasis", PriorityEmphasisOut)
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return inline.ReplaceLinks(s, link)
	}), "link", PriorityLinkOut)
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return inline.ReplaceLiterals(s, literal)
	}), "literal", PriorityLiteralOut)
	return novelconv.NewProcessor(reg)
}

func identity(s string) string { return s }

// Level returns the heading level of a chapter block, defaulting to 2.
// The result is clamped to [lo, 6].
func Level(b novelconv.Block, lo int) int {
	n, err := strconv.Atoi(b.Field("level"))
	if err != nil {
		n = 2
	}
	return max(lo, min(n, 6))
}

// Style describes a plain-text Japanese web-novel target such as Kakuyomu
// or Shosetsuka ni Naro.
type Style struct {
	Name   string
	Inline InlineFormats

	// Break is the scene-break line.
	Break string

	// Indent prefixes narrative lines with a full-width space.
	Indent bool

	// CommentHeader writes metadata as <!-- key: value --> lines, readable
	// back by the same dialect. Otherwise the header is the title and author
	// on two plain lines.
	CommentHeader bool
}

// Renderer builds the block renderer for s.
func (s Style) Renderer() *novelconv.RuleRenderer {
	r := novelconv.NewRuleRenderer()
	r.Inline = s.Inline.Processor()
	r.Header = s.header

	text := func(b novelconv.Block, in *novelconv.Processor) string {
		return in.Run(b.Field("text"))
	}
	body := func(b novelconv.Block, in *novelconv.Processor) string {
		t := in.Run(b.Field("text"))
		if s.Indent {
			t = textutil.IndentLines(t)
		}
		return t
	}

	add := func(typ string, f func(novelconv.Block, *novelconv.Processor) string) {
		r.Formatters.Add(novelconv.BlockFormatterFunc(f), typ, 0)
	}
	add(novelconv.BlockTitle, text)
	add(novelconv.BlockChapter, text)
	add(novelconv.BlockParagraph, body)
	add(novelconv.BlockQuote, body)
	add(novelconv.BlockImage, func(b novelconv.Block, in *novelconv.Processor) string {
		alt := in.Run(b.Field("alt"))
		if alt == "" {
			alt = b.Field("src")
		}
		return "［挿絵：" + alt + "］"
	})
	add(novelconv.BlockBreak, func(novelconv.Block, *novelconv.Processor) string {
		return s.Break
	})
	add(novelconv.BlockCode, func(b novelconv.Block, _ *novelconv.Processor) string {
		return b.Field("code")
	})
	return r
}

// header renders the metadata fragment.
func (s Style) header(m novelconv.Meta, in *novelconv.Processor) string {
	if s.CommentHeader {
		return CommentHeader(m)
	}
	lines := make([]string, 0, 2)
	if m.Title != "" {
		lines = append(lines, in.Run(m.Title))
	}
	if m.Author != "" {
		lines = append(lines, in.Run(m.Author))
	}
	return strings.Join(lines, "\n")
}

// Postprocessors returns the passes run on the rendered text.
func (s Style) Postprocessors() *novelconv.Registry[novelconv.TextRule] {
	reg := novelconv.NewRegistry[novelconv.TextRule]()
	reg.Add(novelconv.TextRuleFunc(textutil.SpaceAfterExclamation), "exclamation_space", 100)
	reg.Add(novelconv.TextRuleFunc(textutil.EnsureFinalNewline), "final_newline", 0)
	return reg
}

// CommentHeader renders metadata as <!-- key: value --> lines, title and
// author first, other fields in key order.
func CommentHeader(m novelconv.Meta) string {
	var b strings.Builder
	line := func(k, v string) {
		if v == "" {
			return
		}
		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString("<!-- " + k + ": " + v + " -->")
	}
	line("title", m.Title)
	line("author", m.Author)
	for _, k := range SortedKeys(m.Fields) {
		line(k, m.Fields[k])
	}
	return b.String()
}
