// Package html renders novels as HTML: ruby, emphasis dots, scene breaks and
// highlighted code, optionally wrapped in a standalone styled document
// suitable for browsers and PDF printing.
package html

import (
	"bytes"
	"errors"
	"fmt"
	stdhtml "html"
	"html/template"
	"regexp"
	"strconv"
	"strings"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/alecthomas/chroma/v2/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	gmhtml "github.com/yuin/goldmark/renderer/html"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
	"github.com/alnah/go-novelconv/dialect/internal/common"
	"github.com/alnah/go-novelconv/dialect/markdown"
	"github.com/alnah/go-novelconv/internal/assets"
)

// Name identifies the dialect.
const Name = "html"

// Defaults for Options.
const (
	DefaultStyle          = "default"
	DefaultHighlightStyle = "github"
	DefaultLang           = "ja"
	documentTemplate      = "document"
)

// Postprocessor priorities.
const (
	PriorityDocument = 100
	PriorityNewline  = 0
)

// ErrTemplate indicates the document template could not be loaded or parsed.
var ErrTemplate = errors.New("invalid document template")

// Matches the header title, to reuse it as the document <title>.
var (
	novelTitle = regexp.MustCompile(`<h1 class="novel-title">(.*?)</h1>`)
	rubyText   = regexp.MustCompile(`<rp>.*?</rp>|<rt>.*?</rt>`)
	anyTag     = regexp.MustCompile(`<[^>]+>`)
)

// Options configures the HTML writer.
type Options struct {
	// Standalone wraps the fragments in a complete HTML document.
	Standalone bool

	// Style names the CSS stylesheet ("default" or "vertical").
	Style string

	// AssetPath is a directory with styles/ and templates/ overriding the
	// embedded assets.
	AssetPath string

	// HighlightStyle names the chroma style for code blocks.
	HighlightStyle string

	// Lang is the document language.
	Lang string
}

// Writer renders HTML.
type Writer struct {
	opts      Options
	highlight *highlighter
	tmpl      *template.Template
	css       template.CSS
}

// NewWriter creates an HTML writer. Assets are loaded only for standalone output.
func NewWriter(opts Options) (*Writer, error) {
	if opts.Style == "" {
		opts.Style = DefaultStyle
	}
	if opts.HighlightStyle == "" {
		opts.HighlightStyle = DefaultHighlightStyle
	}
	if opts.Lang == "" {
		opts.Lang = DefaultLang
	}

	w := &Writer{
		opts:      opts,
		highlight: newHighlighter(opts.HighlightStyle),
	}
	if !opts.Standalone {
		return w, nil
	}

	resolver, err := assets.NewAssetResolver(opts.AssetPath)
	if err != nil {
		return nil, err
	}
	css, err := resolver.LoadStyle(opts.Style)
	if err != nil {
		return nil, err
	}
	src, err := resolver.LoadTemplate(documentTemplate)
	if err != nil {
		return nil, err
	}
	tmpl, err := template.New(documentTemplate).Parse(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrTemplate, err)
	}

	hl, err := HighlightCSS(opts.HighlightStyle)
	if err != nil {
		return nil, err
	}

	// #nosec G203 -- stylesheets come from embedded assets or the user's own asset directory
	w.css = template.CSS(css + "\n" + hl)
	w.tmpl = tmpl
	return w, nil
}

// Name implements novelconv.Writer.
func (*Writer) Name() string { return Name }

// Renderer implements novelconv.Writer.
func (w *Writer) Renderer() novelconv.Renderer {
	r := novelconv.NewRuleRenderer()
	r.Inline = InlineProcessor()
	r.Header = header

	add := func(typ string, f func(novelconv.Block, *novelconv.Processor) string) {
		r.Formatters.Add(novelconv.BlockFormatterFunc(f), typ, 0)
	}
	add(novelconv.BlockTitle, func(b novelconv.Block, in *novelconv.Processor) string {
		return "<h1>" + in.Run(b.Field("text")) + "</h1>"
	})
	add(novelconv.BlockChapter, func(b novelconv.Block, in *novelconv.Processor) string {
		tag := "h" + strconv.Itoa(common.Level(b, 2))
		return "<" + tag + ` class="chapter">` + in.Run(b.Field("text")) + "</" + tag + ">"
	})
	add(novelconv.BlockParagraph, func(b novelconv.Block, in *novelconv.Processor) string {
		return paragraph(in.Run(b.Field("text")))
	})
	add(novelconv.BlockQuote, func(b novelconv.Block, in *novelconv.Processor) string {
		return "<blockquote>\n" + paragraph(in.Run(b.Field("text"))) + "\n</blockquote>"
	})
	add(novelconv.BlockImage, func(b novelconv.Block, _ *novelconv.Processor) string {
		alt := stdhtml.EscapeString(inline.Plain(b.Field("alt")))
		out := "<figure>\n" + `<img src="` + stdhtml.EscapeString(safeURL(b.Field("src"))) + `" alt="` + alt + `" />`
		if c := b.Field("caption"); c != "" {
			out += "\n<figcaption>" + stdhtml.EscapeString(c) + "</figcaption>"
		}
		return out + "\n</figure>"
	})
	add(novelconv.BlockBreak, func(novelconv.Block, *novelconv.Processor) string {
		return `<hr class="scene-break" />`
	})
	add(novelconv.BlockCode, func(b novelconv.Block, _ *novelconv.Processor) string {
		return w.highlight.Render(b.Field("lang"), b.Field("code"))
	})
	return r
}

// Postprocessors implements novelconv.Writer.
func (w *Writer) Postprocessors() *novelconv.Registry[novelconv.TextRule] {
	reg := novelconv.NewRegistry[novelconv.TextRule]()
	if w.tmpl != nil {
		reg.Add(novelconv.TextRuleFunc(w.document), "document", PriorityDocument)
	}
	reg.Add(novelconv.TextRuleFunc(func(s string) string {
		return strings.TrimRight(s, "\n") + "\n"
	}), "final_newline", PriorityNewline)
	return reg
}

// documentData feeds the document template.
type documentData struct {
	Lang  string
	Title string
	Style template.CSS
	Body  template.HTML
}

// document wraps body in the standalone template. A template execution
// failure leaves the fragments unwrapped.
func (w *Writer) document(body string) string {
	data := documentData{
		Lang:  w.opts.Lang,
		Title: documentTitle(body),
		Style: w.css,
		Body:  template.HTML(body), // #nosec G203 -- body is built from escaped text
	}
	var buf bytes.Buffer
	if err := w.tmpl.Execute(&buf, data); err != nil {
		return body
	}
	return buf.String()
}

// documentTitle extracts the plain text of the header title.
func documentTitle(body string) string {
	m := novelTitle.FindStringSubmatch(body)
	if m == nil {
		return ""
	}
	t := rubyText.ReplaceAllString(m[1], "")
	return stdhtml.UnescapeString(anyTag.ReplaceAllString(t, ""))
}

// header renders the title and author.
func header(m novelconv.Meta, in *novelconv.Processor) string {
	var b strings.Builder
	b.WriteString(`<header class="novel-header">`)
	if m.Title != "" {
		b.WriteString("\n" + `<h1 class="novel-title">` + in.Run(m.Title) + "</h1>")
	}
	if m.Author != "" {
		b.WriteString("\n" + `<p class="novel-author">` + in.Run(m.Author) + "</p>")
	}
	b.WriteString("\n</header>")
	return b.String()
}

// paragraph joins lines with hard breaks.
func paragraph(text string) string {
	return "<p>" + strings.ReplaceAll(text, "\n", "<br />\n") + "</p>"
}

// InlineProcessor escapes text and maps canonical spans to HTML elements.
func InlineProcessor() *novelconv.Processor {
	p := common.InlineFormats{
		Ruby: func(base, reading string) string {
			return "<ruby>" + base + "<rp>(</rp><rt>" + reading + "</rt><rp>)</rp></ruby>"
		},
		Emphasis: func(text string) string {
			return `<em class="bouten">` + text + "</em>"
		},
		Link: func(label, url string) string {
			if safeURL(url) == "" {
				return label
			}
			return `<a href="` + url + `">` + label + "</a>"
		},
	}.Processor()
	p.Registry().Add(novelconv.TextRuleFunc(stdhtml.EscapeString), "escape", 200)
	return p
}

// safeURL returns url, or "" for javascript:, vbscript:, file: and non-image
// data: URLs.
func safeURL(url string) string {
	if gmhtml.IsDangerousURL([]byte(url)) {
		return ""
	}
	return url
}

// highlighter renders fenced code through goldmark with chroma classes.
type highlighter struct {
	md goldmark.Markdown
}

func newHighlighter(style string) *highlighter {
	return &highlighter{md: goldmark.New(
		goldmark.WithExtensions(
			highlighting.NewHighlighting(
				highlighting.WithStyle(style),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithRendererOptions(gmhtml.WithXHTML()),
	)}
}

// Render returns highlighted HTML for code, or an escaped <pre> block if
// goldmark fails.
func (h *highlighter) Render(lang, code string) string {
	var buf bytes.Buffer
	if err := h.md.Convert([]byte(markdown.Fence(lang, code)), &buf); err != nil {
		return "<pre><code>" + stdhtml.EscapeString(code) + "</code></pre>"
	}
	return strings.TrimRight(buf.String(), "\n")
}

// HighlightCSS returns the chroma stylesheet for the named style.
// Unknown names fall back to chroma's default style.
func HighlightCSS(style string) (string, error) {
	var buf bytes.Buffer
	f := chromahtml.New(chromahtml.WithClasses(true))
	if err := f.WriteCSS(&buf, styles.Get(style)); err != nil {
		return "", fmt.Errorf("writing highlight stylesheet: %w", err)
	}
	return buf.String(), nil
}

// Compile-time interface check.
var _ novelconv.Writer = (*Writer)(nil)
