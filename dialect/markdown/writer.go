package markdown

import (
	"strings"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/internal/common"
	"github.com/alnah/go-novelconv/internal/textutil"
	"github.com/alnah/go-novelconv/internal/yamlutil"
)

// sceneBreak is written for break blocks.
const sceneBreak = "* * *"

// escapable lists the characters the reader accepts after a backslash.
const escapable = "\\`*_{}[]()#+-.!|~>"

// Options configures the Markdown writer.
type Options struct {
	// CommentHeader writes metadata as <!-- key: value --> lines instead of
	// YAML front matter.
	CommentHeader bool
}

// Writer renders Markdown.
type Writer struct {
	opts Options
}

// NewWriter creates a Markdown writer.
func NewWriter(opts Options) *Writer {
	return &Writer{opts: opts}
}

// Name implements novelconv.Writer.
func (*Writer) Name() string { return Name }

// Renderer implements novelconv.Writer.
func (w *Writer) Renderer() novelconv.Renderer {
	r := novelconv.NewRuleRenderer()
	r.Inline = inlineFormats.Processor()
	r.Header = w.header

	add := func(typ string, f func(novelconv.Block, *novelconv.Processor) string) {
		r.Formatters.Add(novelconv.BlockFormatterFunc(f), typ, 0)
	}
	add(novelconv.BlockTitle, func(b novelconv.Block, in *novelconv.Processor) string {
		return "# " + in.Run(b.Field("text"))
	})
	add(novelconv.BlockChapter, func(b novelconv.Block, in *novelconv.Processor) string {
		return strings.Repeat("#", common.Level(b, 2)) + " " + in.Run(b.Field("text"))
	})
	add(novelconv.BlockParagraph, func(b novelconv.Block, in *novelconv.Processor) string {
		return in.Run(b.Field("text"))
	})
	add(novelconv.BlockQuote, func(b novelconv.Block, in *novelconv.Processor) string {
		lines := strings.Split(in.Run(b.Field("text")), "\n")
		for i, l := range lines {
			lines[i] = strings.TrimRight("> "+l, " ")
		}
		return strings.Join(lines, "\n")
	})
	add(novelconv.BlockImage, func(b novelconv.Block, in *novelconv.Processor) string {
		out := "![" + in.Run(b.Field("alt")) + "](" + b.Field("src")
		if c := b.Field("caption"); c != "" {
			out += ` "` + c + `"`
		}
		return out + ")"
	})
	add(novelconv.BlockBreak, func(novelconv.Block, *novelconv.Processor) string {
		return sceneBreak
	})
	add(novelconv.BlockCode, func(b novelconv.Block, _ *novelconv.Processor) string {
		return Fence(b.Field("lang"), b.Field("code"))
	})
	return r
}

// Postprocessors implements novelconv.Writer.
func (*Writer) Postprocessors() *novelconv.Registry[novelconv.TextRule] {
	reg := novelconv.NewRegistry[novelconv.TextRule]()
	reg.Add(novelconv.TextRuleFunc(textutil.EnsureFinalNewline), "final_newline", 0)
	return reg
}

// header writes YAML front matter, or comment lines when configured.
// Metadata that fails to encode falls back to comment lines.
func (w *Writer) header(m novelconv.Meta, _ *novelconv.Processor) string {
	if w.opts.CommentHeader {
		return common.CommentHeader(m)
	}

	fields := make([]yamlutil.Field, 0, len(m.Fields)+2)
	if m.Title != "" {
		fields = append(fields, yamlutil.Field{Key: "title", Value: m.Title})
	}
	if m.Author != "" {
		fields = append(fields, yamlutil.Field{Key: "author", Value: m.Author})
	}
	for _, k := range common.SortedKeys(m.Fields) {
		fields = append(fields, yamlutil.Field{Key: k, Value: m.Fields[k]})
	}

	out, err := yamlutil.MarshalOrdered(fields)
	if err != nil {
		return common.CommentHeader(m)
	}
	return "---\n" + strings.TrimRight(string(out), "\n") + "\n---"
}

// inlineFormats maps canonical spans back to Markdown.
var inlineFormats = common.InlineFormats{
	Ruby: func(base, reading string) string {
		return "{" + base + "|" + reading + "}"
	},
	Emphasis: func(text string) string {
		return "**" + text + "**"
	},
	Link: func(label, url string) string {
		return "[" + label + "](" + url + ")"
	},
	Literal: func(text string) string {
		if len(text) == 1 && strings.Contains(escapable, text) {
			return `\` + text
		}
		return text
	},
}

// Fence wraps code in a backtick fence longer than any backtick run inside it.
func Fence(lang, code string) string {
	n := 3
	run := 0
	for _, r := range code {
		if r == '`' {
			run++
			n = max(n, run+1)
			continue
		}
		run = 0
	}
	fence := strings.Repeat("`", n)
	return fence + lang + "\n" + code + "\n" + fence
}

// Compile-time interface check.
var _ novelconv.Writer = (*Writer)(nil)
