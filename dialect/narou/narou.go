// Package narou reads and writes the markup of Shosetsuka ni Naro.
//
// Ruby is written |base《reading》, |base（reading） or |base(reading); the bar
// may be omitted after a run of kanji, in which case the parenthesised forms
// only apply to kana readings. Emphasis dots have no syntax of their own and
// are written as per-character ruby of "・".
package narou

import (
	"regexp"
	"strings"
	"unicode"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
	"github.com/alnah/go-novelconv/dialect/internal/common"
)

// Name identifies the dialect.
const Name = "narou"

// boutenMark is the ruby text used for emphasis dots.
const boutenMark = "・"

// Inline rule priorities.
const (
	PriorityEscape       = 120
	PriorityBouten       = 110
	PriorityRuby         = 100
	PriorityImplicitRuby = 90
)

var (
	escapedBracket = regexp.MustCompile(`[|｜]([《（(])`)
	boutenRun      = regexp.MustCompile(`(?:[|｜][^|｜《》\s]《・》)+`)
	boutenRune     = regexp.MustCompile(`[|｜]([^|｜《》\s])《・》`)
	explicitRuby   = regexp.MustCompile(`[|｜]([^|｜《》（）()\n]+?)(?:《([^《》\n]+)》|（([^（）\n]+)）|\(([^()\n]+)\))`)
	implicitRuby   = regexp.MustCompile(`([\p{Han}々〆ヵヶ]+)(?:《([^《》\n]+)》|（([\p{Hiragana}\p{Katakana}ー]+)）|\(([\p{Hiragana}\p{Katakana}ー]+)\))`)
)

// Reader parses Narou text.
type Reader struct{}

// NewReader creates a Narou reader.
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
	reg.Add(common.Replace(escapedBracket, func(m []string) string {
		return inline.Literal(m[1])
	}), "escape", PriorityEscape)
	reg.Add(common.Replace(boutenRun, func(m []string) string {
		var b strings.Builder
		for _, r := range boutenRune.FindAllStringSubmatch(m[0], -1) {
			b.WriteString(r[1])
		}
		return inline.Emphasis(b.String())
	}), "bouten", PriorityBouten)
	reg.Add(common.Replace(explicitRuby, func(m []string) string {
		return inline.Ruby(m[1], firstNonEmpty(m[2:]))
	}), "ruby", PriorityRuby)
	reg.Add(common.Replace(implicitRuby, func(m []string) string {
		return inline.Ruby(m[1], firstNonEmpty(m[2:]))
	}), "implicit_ruby", PriorityImplicitRuby)
	return reg
}

// BlockRules implements novelconv.Reader.
func (*Reader) BlockRules() *novelconv.Registry[novelconv.BlockRule] {
	return common.WebNovelBlocks()
}

func firstNonEmpty(ss []string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// Options configures the Narou writer.
type Options struct {
	// NoIndent disables the full-width space before narrative lines.
	NoIndent bool

	// CommentHeader writes metadata as comment lines instead of plain text.
	CommentHeader bool
}

// Writer renders Narou text.
type Writer struct {
	style common.Style
}

// NewWriter creates a Narou writer.
func NewWriter(opts Options) *Writer {
	return &Writer{style: common.Style{
		Name: Name,
		Inline: common.InlineFormats{
			Ruby: func(base, reading string) string {
				return "｜" + base + "《" + reading + "》"
			},
			Emphasis: Bouten,
			Link: func(label, url string) string {
				if label == url {
					return url
				}
				return label + "（" + url + "）"
			},
			Literal: func(text string) string {
				switch text {
				case "《", "（", "(":
					return "｜" + text
				}
				return text
			},
		},
		Break:         "　　　　◇",
		Indent:        !opts.NoIndent,
		CommentHeader: opts.CommentHeader,
	}}
}

// Bouten writes emphasis dots over every visible character of text.
func Bouten(text string) string {
	var b strings.Builder
	for _, r := range text {
		if unicode.IsSpace(r) {
			b.WriteRune(r)
			continue
		}
		b.WriteString("｜")
		b.WriteRune(r)
		b.WriteString("《" + boutenMark + "》")
	}
	return b.String()
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
