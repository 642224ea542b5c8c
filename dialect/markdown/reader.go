// Package markdown reads and writes the Markdown flavour used for novel
// manuscripts: YAML front matter or comment metadata, "#" headings, fenced
// code, quotes, images, scene breaks and the {base|reading} ruby extension.
package markdown

import (
	"regexp"
	"strconv"
	"strings"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
	"github.com/alnah/go-novelconv/dialect/internal/common"
	"github.com/alnah/go-novelconv/internal/yamlutil"
)

// Name identifies the dialect.
const Name = "markdown"

// Block rule priorities.
const (
	PriorityMeta      = 100
	PriorityCodeBlock = 90
	PriorityTitle     = 50
	PriorityChapter   = 40
	PriorityBreak     = 35
	PriorityImage     = 30
	PriorityQuote     = 20
	PriorityParagraph = 0
)

// Inline rule priorities.
const (
	PriorityEscape   = 200
	PriorityRuby     = 110
	PriorityEmphasis = 100
	PriorityLink     = 90
)

// Precompiled patterns.
var (
	frontMatter = regexp.MustCompile(`(?s)^---\n(.+?)\n---$`)
	title       = regexp.MustCompile(`^#[ \t]+(?P<text>[^\n]+)$`)
	chapter     = regexp.MustCompile(`^(#{2,6})[ \t]+([^\n]+)$`)
	image       = regexp.MustCompile(`^!\[(?P<alt>[^\]\n]*)\]\((?P<src>[^)\s]+)(?:[ \t]+"(?P<caption>[^"\n]*)")?\)$`)
	quoteLine   = regexp.MustCompile(`^>[ \t]?`)

	escaped  = regexp.MustCompile("\\\\([\\\\`*_{}\\[\\]()#+\\-.!|~>])")
	ruby     = regexp.MustCompile(`\{([^{}|\n]+)\|([^{}\n]+)\}`)
	emphasis = regexp.MustCompile(`\*\*([^*\n]+)\*\*`)
	link     = regexp.MustCompile(`(!?)\[([^\]\n]+)\]\(([^)\s]+)\)`)
)

// Reader parses Markdown.
type Reader struct{}

// NewReader creates a Markdown reader.
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
	reg.Add(common.Replace(escaped, func(m []string) string {
		return inline.Literal(m[1])
	}), "escape", PriorityEscape)
	reg.Add(common.Replace(ruby, func(m []string) string {
		return inline.Ruby(m[1], m[2])
	}), "ruby", PriorityRuby)
	reg.Add(common.Replace(emphasis, func(m []string) string {
		return inline.Emphasis(m[1])
	}), "emphasis", PriorityEmphasis)
	reg.Add(common.Replace(link, func(m []string) string {
		if m[1] == "!" {
			return m[0] // image, left to the block rule
		}
		return inline.Link(m[2], m[3])
	}), "link", PriorityLink)
	return reg
}

// BlockRules implements novelconv.Reader.
func (*Reader) BlockRules() *novelconv.Registry[novelconv.BlockRule] {
	reg := novelconv.NewRegistry[novelconv.BlockRule]()
	reg.Add(novelconv.BlockRuleFunc(matchMeta), novelconv.MetaRule, PriorityMeta)
	reg.Add(novelconv.BlockRuleFunc(MatchFence), novelconv.CodeBlockRule, PriorityCodeBlock)
	reg.Add(common.Regexp(novelconv.BlockTitle, title), novelconv.BlockTitle, PriorityTitle)
	reg.Add(novelconv.BlockRuleFunc(matchChapter), novelconv.BlockChapter, PriorityChapter)
	reg.Add(common.SceneBreak(), novelconv.BlockBreak, PriorityBreak)
	reg.Add(common.Regexp(novelconv.BlockImage, image), novelconv.BlockImage, PriorityImage)
	reg.Add(novelconv.BlockRuleFunc(matchQuote), novelconv.BlockQuote, PriorityQuote)
	reg.Add(common.Paragraph(), novelconv.BlockParagraph, PriorityParagraph)
	return reg
}

// matchMeta accepts YAML front matter or <!-- key: value --> comment lines.
func matchMeta(text string) (novelconv.Block, bool) {
	if m := frontMatter.FindStringSubmatch(text); m != nil {
		fields, err := yamlutil.StringMap([]byte(m[1]))
		if err != nil || len(fields) == 0 {
			return novelconv.Block{}, false
		}
		b := novelconv.NewBlock(novelconv.MetaRule)
		for k, v := range fields {
			b.Fields[strings.ToLower(k)] = v
		}
		return b, true
	}
	return common.CommentMeta().Match(text)
}

// MatchFence matches a chunk that is one fenced code block opened by three
// or more backticks or tildes and closed by a fence of the same character
// at least as long. The info string's first word becomes "lang".
func MatchFence(text string) (novelconv.Block, bool) {
	lines := strings.Split(text, "\n")
	if len(lines) < 2 {
		return novelconv.Block{}, false
	}

	open := fenceLen(lines[0])
	if open < 3 {
		return novelconv.Block{}, false
	}
	char := lines[0][0]
	info := strings.TrimSpace(lines[0][open:])
	if char == '`' && strings.ContainsRune(info, '`') {
		return novelconv.Block{}, false
	}

	last := strings.TrimRight(lines[len(lines)-1], " \t")
	closing := fenceLen(last)
	if closing < open || closing != len(last) || last[0] != char {
		return novelconv.Block{}, false
	}

	lang, _, _ := strings.Cut(info, " ")
	code := strings.Join(lines[1:len(lines)-1], "\n")
	return novelconv.NewBlock(novelconv.BlockCode, "lang", lang, "code", code), true
}

// fenceLen returns the length of the ``` or ~~~ run opening line.
func fenceLen(line string) int {
	if line == "" || (line[0] != '`' && line[0] != '~') {
		return 0
	}
	n := 0
	for n < len(line) && line[n] == line[0] {
		n++
	}
	return n
}

func matchChapter(text string) (novelconv.Block, bool) {
	m := chapter.FindStringSubmatch(text)
	if m == nil {
		return novelconv.Block{}, false
	}
	return novelconv.NewBlock(novelconv.BlockChapter,
		"level", strconv.Itoa(len(m[1])),
		"text", m[2],
	), true
}

// matchQuote matches a chunk whose every line starts with ">".
func matchQuote(text string) (novelconv.Block, bool) {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		loc := quoteLine.FindStringIndex(l)
		if loc == nil {
			return novelconv.Block{}, false
		}
		lines[i] = l[loc[1]:]
	}
	return novelconv.NewBlock(novelconv.BlockQuote, "text", strings.Join(lines, "\n")), true
}

// Compile-time interface check.
var _ novelconv.Reader = (*Reader)(nil)
