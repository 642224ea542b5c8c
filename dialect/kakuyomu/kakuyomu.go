// Package kakuyomu reads and writes the markup of the Kakuyomu novel site.
//
// Kakuyomu marks ruby as |base《reading》 (the bar is optional after a run of
// kanji) and emphasis dots as 《《text》》. A bar directly before 《 escapes it.
package kakuyomu

import (
	"regexp"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
	"github.com/alnah/go-novelconv/dialect/internal/common"
)

// Name identifies the dialect.
const Name = "kakuyomu"

// Inline rule priorities.
const (
	PriorityEscape       = 120
	PriorityEmphasis     = 110
	PriorityRuby         = 100
	PriorityImplicitRuby = 90
)

var (
	escapedBracket = regexp.MustCompile(`[|｜]《`)
	emphasisDots   = regexp.MustCompile(`《《([^《》\n]+)》》`)
	explicitRuby   = regexp.MustCompile(`[|｜]([^|｜《》\n]+?)《([^《》\n]+)》`)
	implicitRuby   = regexp.MustCompile(`([\p{Han}々〆ヵヶ]+)《([^《》\n]+)》`)
)

// Reader parses Kakuyomu text.
type Reader struct{}

// NewReader creates a Kakuyomu reader.
func NewReader() *Reader {
	return &Reader{}
}

// Name implements novelconv.Reader.
func (*Reader) Name() string { return Name }

// Preprocessors implements novelconv.Reader.
func (*Reader) Preprocessors() *novelconv.Registry[novelconv.TextRule] {
	return common.Preprocessors()
}

// InlineRules implements novelconv.Reader.
func (*Reader) InlineRules() *novelconv.Registry[novelconv.TextRule] {
	reg := novelconv.NewRegistry[novelconv.TextRule]()
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return escapedBracket.ReplaceAllLiteralString(s, inline.Literal("《"))
	}), "escape", PriorityEscape)
	reg.Add(common.Replace(emphasisDots, func(m []string) string {
		return inline.Emphasis(m[1])
	}), "emphasis", PriorityEmphasis)
	reg.Add(common.Replace(explicitRuby, func(m []string) string {
		return inline.Ruby(m[1], m[2])
	}), "ruby", PriorityRuby)
	reg.Add(common.Replace(implicitRuby, func(m []string) string {
		return inline.Ruby(m[1], m[2])
	}), "implicit_ruby", PriorityImplicitRuby)
	return reg
}

// BlockRules implements novelconv.Reader.
func (*Reader) BlockRules() *novelconv.Registry[novelconv.BlockRule] {
	return common.WebNovelBlocks()
}

// Options configures the Kakuyomu writer.
type Options struct {
	// NoIndent disables the full-width space before narrative lines.
	NoIndent bool

	// CommentHeader writes metadata as comment lines instead of plain text.
	CommentHeader bool
}

// Writer renders Kakuyomu text.
type Writer struct {
	style common.Style
}

// NewWriter creates a Kakuyomu writer.
func NewWriter(opts Options) *Writer {
	return &Writer{style: common.Style{
		Name: Name,
		Inline: common.InlineFormats{
			Ruby: func(base, reading string) string {
				return "｜" + base + "《" + reading + "》"
			},
			Emphasis: func(text string) string {
				return "《《" + text + "》》"
			},
			Link: func(label, url string) string {
				if label == url {
					return url
				}
				return label + "（" + url + "）"
			},
			Literal: func(text string) string {
				if text == "《" {
					return "｜《"
				}
				return text
			},
		},
		Break:         "◇　◇　◇",
		Indent:        !opts.NoIndent,
		CommentHeader: opts.CommentHeader,
	}}
}

// Name implements novelconv.Writer.
func (w *Writer) Name() string { return Name }

// Renderer implements novelconv.Writer.
func (w *Writer) Renderer() novelconv.Renderer {
	return w.style.Renderer()
}

// Postprocessors implements novelconv.Writer.
func (w *Writer) Postprocessors() *novelconv.Registry[novelconv.TextRule] {
	return w.style.Postprocessors()
}

// Compile-time interface checks.
var (
	_ novelconv.Reader = (*Reader)(nil)
	_ novelconv.Writer = (*Writer)(nil)
)
