package markdown

import (
	"strings"
	"testing"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
)

// parse runs the reader's passes and rules over src.
func parse(t *testing.T, src string) *novelconv.Tree {
	t.Helper()

	r := NewReader()
	tree := novelconv.NewTree()
	tree.InlineRules = r.InlineRules()
	tree.BlockRules = r.BlockRules()
	tree.Parse(novelconv.NewProcessor(r.Preprocessors()).Run(src))
	return tree
}

// convert runs a full Markdown to Markdown conversion.
func convert(t *testing.T, opts Options, src string) string {
	t.Helper()

	c, err := novelconv.NewConverter(NewReader(), NewWriter(opts))
	if err != nil {
		t.Fatal(err)
	}
	out, err := c.Convert(src)
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	return out
}

// ---------------------------------------------------------------------------
// TestReader - Block classification
// ---------------------------------------------------------------------------

func TestReader_Blocks(t *testing.T) {
	t.Parallel()

	src := strings.Join([]string{
		"---\ntitle: 吾輩は猫である\nauthor: 夏目漱石\nyear: 1905\n---",
		"# 吾輩は猫である",
		"## 第一章",
		"吾輩は猫である。\n名前はまだ無い。",
		"* * *",
		"> 引用\n>二行目",
		`![挿絵](cat.png "猫の図")`,
		"![](dog.png)",
		"#### 小見出し",
	}, "\n\n")

	tree := parse(t, src)

	if tree.Meta.Title != "吾輩は猫である" || tree.Meta.Author != "夏目漱石" {
		t.Errorf("Meta = %+v", tree.Meta)
	}
	if tree.Meta.Fields["year"] != "1905" {
		t.Errorf("Meta.Fields[year] = %q, want 1905", tree.Meta.Fields["year"])
	}

	want := []struct {
		typ    string
		fields map[string]string
	}{
		{novelconv.BlockTitle, map[string]string{"text": "吾輩は猫である"}},
		{novelconv.BlockChapter, map[string]string{"text": "第一章", "level": "2"}},
		{novelconv.BlockParagraph, map[string]string{"text": "吾輩は猫である。\n名前はまだ無い。"}},
		{novelconv.BlockBreak, nil},
		{novelconv.BlockQuote, map[string]string{"text": "引用\n二行目"}},
		{novelconv.BlockImage, map[string]string{"alt": "挿絵", "src": "cat.png", "caption": "猫の図"}},
		{novelconv.BlockImage, map[string]string{"alt": "", "src": "dog.png", "caption": ""}},
		{novelconv.BlockChapter, map[string]string{"text": "小見出し", "level": "4"}},
	}

	if tree.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d: %+v", tree.Len(), len(want), tree.Blocks)
	}
	for i, w := range want {
		b := tree.Blocks[i]
		if b.Type != w.typ {
			t.Errorf("block %d type = %q, want %q", i, b.Type, w.typ)
		}
		for k, v := range w.fields {
			if b.Field(k) != v {
				t.Errorf("block %d field %q = %q, want %q", i, k, b.Field(k), v)
			}
		}
	}
}

func TestReader_CommentMeta(t *testing.T) {
	t.Parallel()

	tree := parse(t, "本文\n\n<!-- title: 猫 -->\n<!-- Genre: SF -->")
	if tree.Meta.Title != "猫" || tree.Meta.Fields["genre"] != "SF" {
		t.Errorf("Meta = %+v", tree.Meta)
	}
	if tree.Len() != 1 {
		t.Errorf("Len() = %d, want 1", tree.Len())
	}
}

func TestReader_NestedFrontMatterIsNotMeta(t *testing.T) {
	t.Parallel()

	tree := parse(t, "---\ntags:\n  - a\n---\n\n本文")
	if !tree.Meta.IsZero() {
		t.Errorf("Meta = %+v, want zero", tree.Meta)
	}
}

func TestReader_Inline(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			name:  "ruby",
			input: "{吾輩|わがはい}は猫",
			want:  inline.Ruby("吾輩", "わがはい") + "は猫",
		},
		{
			name:  "emphasis",
			input: "**強調**する",
			want:  inline.Emphasis("強調") + "する",
		},
		{
			name:  "link",
			input: "見て[サイト](https://example.com)",
			want:  "見て" + inline.Link("サイト", "https://example.com"),
		},
		{
			name:  "link at start",
			input: "[a](b)",
			want:  inline.Link("a", "b"),
		},
		{
			name:  "adjacent links",
			input: "[a](x)[b](y)",
			want:  inline.Link("a", "x") + inline.Link("b", "y"),
		},
		{
			name:  "inline image kept",
			input: "![絵](a.png)[b](y)",
			want:  "![絵](a.png)" + inline.Link("b", "y"),
		},
		{
			name:  "link on the line after an image",
			input: "![絵](a.png)\n[b](y)",
			want:  "![絵](a.png)\n" + inline.Link("b", "y"),
		},
		{
			name:  "escapes",
			input: `\*\*not\*\* \{x|y\}`,
			want: inline.Literal("*") + inline.Literal("*") + "not" + inline.Literal("*") + inline.Literal("*") +
				" " + inline.Literal("{") + "x|y" + inline.Literal("}"),
		},
		{
			name:  "emphasised ruby",
			input: "**{猫|ねこ}**",
			want:  inline.Emphasis(inline.Ruby("猫", "ねこ")),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			tree := parse(t, tt.input)
			if tree.Len() != 1 {
				t.Fatalf("Len() = %d, want 1", tree.Len())
			}
			if got := tree.Blocks[0].Field("text"); got != tt.want {
				t.Errorf("text = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestReader_EscapedHeading(t *testing.T) {
	t.Parallel()

	tree := parse(t, `\# 見出しではない`)
	if tree.Len() != 1 || tree.Blocks[0].Type != novelconv.BlockParagraph {
		t.Errorf("blocks = %+v, want one paragraph", tree.Blocks)
	}
}

func TestReader_LeadingCodeBlocks(t *testing.T) {
	t.Parallel()

	tree := parse(t, "```go\nfmt.Println(\"**x**\")\n```\n\n~~~\nplain\n~~~\n\n本文\n\n```\nlate\n```")

	want := []string{novelconv.BlockCode, novelconv.BlockCode, novelconv.BlockParagraph, novelconv.BlockParagraph}
	if tree.Len() != len(want) {
		t.Fatalf("Len() = %d, want %d", tree.Len(), len(want))
	}
	for i, typ := range want {
		if tree.Blocks[i].Type != typ {
			t.Errorf("block %d type = %q, want %q", i, tree.Blocks[i].Type, typ)
		}
	}
	if got := tree.Blocks[0].Field("code"); got != `fmt.Println("**x**")` {
		t.Errorf("code = %q, inline rules must not run on code", got)
	}
	if tree.Blocks[0].Field("lang") != "go" {
		t.Errorf("lang = %q, want go", tree.Blocks[0].Field("lang"))
	}
}

func TestMatchFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		input    string
		ok       bool
		wantLang string
		wantCode string
	}{
		{name: "backticks", input: "```\ncode\n```", ok: true, wantCode: "code"},
		{name: "tildes with lang", input: "~~~python\nx = 1\n~~~", ok: true, wantLang: "python", wantCode: "x = 1"},
		{name: "longer fence", input: "````\n```\n````", ok: true, wantCode: "```"},
		{name: "longer closing", input: "```\nx\n`````", ok: true, wantCode: "x"},
		{name: "info string", input: "``` go extra\nx\n```", ok: true, wantLang: "go", wantCode: "x"},
		{name: "empty body", input: "```\n```", ok: true},
		{name: "unclosed", input: "```\nunclosed"},
		{name: "mixed chars", input: "```\nx\n~~~"},
		{name: "short closing", input: "````\nx\n```"},
		{name: "single line", input: "```"},
		{name: "two backticks", input: "``\nx\n``"},
		{name: "backtick in info", input: "```a`b\nx\n```"},
		{name: "closing with text", input: "```\nx\n```go"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, ok := MatchFence(tt.input)
			if ok != tt.ok {
				t.Fatalf("MatchFence() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if b.Field("lang") != tt.wantLang || b.Field("code") != tt.wantCode {
				t.Errorf("MatchFence() = lang %q code %q, want %q %q",
					b.Field("lang"), b.Field("code"), tt.wantLang, tt.wantCode)
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestWriter - Rendering and round trips
// ---------------------------------------------------------------------------

func TestWriter_RoundTrip(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
	}{
		{
			name: "body",
			input: "# 猫\n\n## 第一章\n\n{吾輩|わがはい}は**猫**である。\n\n* * *\n\n> 引用\n> 二行\n\n" +
				"![挿絵](cat.png \"猫\")\n\n[site](https://example.com)と\\*\n",
		},
		{
			name:  "leading code",
			input: "```go\nx := 1\n```\n\n本文\n",
		},
		{
			name:  "deep chapter",
			input: "###### 六\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := convert(t, Options{}, tt.input); got != tt.input {
				t.Errorf("Convert() = %q, want %q", got, tt.input)
			}
		})
	}
}

func TestWriter_FrontMatter(t *testing.T) {
	t.Parallel()

	src := "---\ntitle: 猫\nauthor: 漱石\ngenre: 小説\n---\n\n本文"
	out := convert(t, Options{}, src)

	if !strings.HasPrefix(out, "---\n") {
		t.Fatalf("output does not start with front matter: %q", out)
	}
	for _, key := range []string{"title:", "author:", "genre:"} {
		if !strings.Contains(out, key) {
			t.Errorf("front matter missing %s: %q", key, out)
		}
	}
	if strings.Index(out, "title:") > strings.Index(out, "author:") ||
		strings.Index(out, "author:") > strings.Index(out, "genre:") {
		t.Errorf("front matter order should be title, author, fields: %q", out)
	}

	// Reading the output back yields the same document.
	again := parse(t, out)
	if again.Meta.Title != "猫" || again.Meta.Author != "漱石" || again.Meta.Fields["genre"] != "小説" {
		t.Errorf("re-read Meta = %+v", again.Meta)
	}
	if again.Len() != 1 || again.Blocks[0].Field("text") != "本文" {
		t.Errorf("re-read blocks = %+v", again.Blocks)
	}
}

func TestWriter_CommentHeader(t *testing.T) {
	t.Parallel()

	out := convert(t, Options{CommentHeader: true}, "<!-- title: 猫 -->\n<!-- author: 漱石 -->\n\n本文")
	if want := "<!-- title: 猫 -->\n<!-- author: 漱石 -->\n\n本文\n"; out != want {
		t.Errorf("Convert() = %q, want %q", out, want)
	}
}

func TestWriter_Literal(t *testing.T) {
	t.Parallel()

	r := NewWriter(Options{}).Renderer()
	tree := novelconv.NewTree()
	tree.Blocks = []novelconv.Block{
		novelconv.NewBlock(novelconv.BlockParagraph, "text", inline.Literal("#")+inline.Literal("《")),
	}

	got, err := r.Render(tree)
	if err != nil {
		t.Fatal(err)
	}
	if got[0] != `\#《` {
		t.Errorf("Render() = %q, want only Markdown characters escaped", got[0])
	}
}

func TestFence(t *testing.T) {
	t.Parallel()

	tests := []struct {
		lang, code, want string
	}{
		{"go", "x", "```go\nx\n```"},
		{"", "a ``` b", "````\na ``` b\n````"},
		{"", "``````", "```````\n``````\n```````"},
	}

	for _, tt := range tests {
		if got := Fence(tt.lang, tt.code); got != tt.want {
			t.Errorf("Fence(%q, %q) = %q, want %q", tt.lang, tt.code, got, tt.want)
		}
		if b, ok := MatchFence(Fence(tt.lang, tt.code)); !ok || b.Field("code") != tt.code {
			t.Errorf("MatchFence(Fence(%q)) = %q, %v", tt.code, b.Field("code"), ok)
		}
	}
}
