package common

import (
	"regexp"
	"slices"
	"testing"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/inline"
)

func TestCommentMeta(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  map[string]string
		ok    bool
	}{
		{
			name:  "title and author",
			input: "<!-- title: 吾輩は猫である -->\n<!-- Author: 夏目漱石 -->",
			want:  map[string]string{"title": "吾輩は猫である", "author": "夏目漱石"},
			ok:    true,
		},
		{
			name:  "loose spacing",
			input: "  <!--genre:SF-->",
			want:  map[string]string{"genre": "SF"},
			ok:    true,
		},
		{name: "mixed with text", input: "<!-- title: x -->\n本文"},
		{name: "plain comment", input: "<!-- note -->"},
		{name: "empty", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			b, ok := CommentMeta().Match(tt.input)
			if ok != tt.ok {
				t.Fatalf("Match() ok = %v, want %v", ok, tt.ok)
			}
			if !ok {
				return
			}
			if b.Type != novelconv.MetaRule {
				t.Errorf("Type = %q, want %q", b.Type, novelconv.MetaRule)
			}
			for k, v := range tt.want {
				if b.Field(k) != v {
					t.Errorf("Field(%q) = %q, want %q", k, b.Field(k), v)
				}
			}
		})
	}
}

func TestSceneBreak(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  bool
	}{
		{"***", true},
		{"* * *", true},
		{"---", true},
		{"___", true},
		{"◇◇◇", true},
		{"◇　◇　◇", true},
		{"　　　　◇", true},
		{"＊＊＊", true},
		{"※※※", true},
		{"★", true},
		{"**", false},
		{"◇◇", false},
		{"◇ 章", false},
		{"本文", false},
	}

	for _, tt := range tests {
		_, got := SceneBreak().Match(tt.input)
		if got != tt.want {
			t.Errorf("SceneBreak().Match(%q) = %v, want %v", tt.input, got, tt.want)
		}
	}
}

func TestRegexp(t *testing.T) {
	t.Parallel()

	rule := Regexp("pair", regexp.MustCompile(`^(?P<key>\w+)=(?P<value>\w*)$`))

	b, ok := rule.Match("lang=ja")
	if !ok {
		t.Fatal("Match(lang=ja) ok = false")
	}
	if b.Type != "pair" || b.Field("key") != "lang" || b.Field("value") != "ja" {
		t.Errorf("Match() = %+v", b)
	}
	if len(b.Fields) != 2 {
		t.Errorf("unnamed groups leaked into fields: %v", b.Fields)
	}
	if _, ok := rule.Match("not a pair"); ok {
		t.Error("Match(not a pair) ok = true")
	}
}

func TestParagraph(t *testing.T) {
	t.Parallel()

	if _, ok := Paragraph().Match(" \n\t"); ok {
		t.Error("whitespace-only chunk should not be a paragraph")
	}
	b, ok := Paragraph().Match("本文")
	if !ok || b.Field("text") != "本文" {
		t.Errorf("Match(本文) = %+v, %v", b, ok)
	}
}

func TestLevel(t *testing.T) {
	t.Parallel()

	tests := []struct {
		level string
		lo    int
		want  int
	}{
		{"3", 2, 3},
		{"1", 2, 2},
		{"1", 1, 1},
		{"9", 2, 6},
		{"", 2, 2},
		{"x", 1, 2},
	}

	for _, tt := range tests {
		b := novelconv.NewBlock(novelconv.BlockChapter, "level", tt.level)
		if got := Level(b, tt.lo); got != tt.want {
			t.Errorf("Level(%q, %d) = %d, want %d", tt.level, tt.lo, got, tt.want)
		}
	}
}

func TestCommentHeader(t *testing.T) {
	t.Parallel()

	m := novelconv.Meta{
		Title:  "猫",
		Fields: map[string]string{"genre": "小説", "date": "1905", "empty": ""},
	}
	want := "<!-- title: 猫 -->\n<!-- date: 1905 -->\n<!-- genre: 小説 -->"
	if got := CommentHeader(m); got != want {
		t.Errorf("CommentHeader() = %q, want %q", got, want)
	}
}

func TestInlineFormats_Defaults(t *testing.T) {
	t.Parallel()

	text := inline.Ruby("漢字", "かんじ") + inline.Emphasis("強") + inline.Link("本", "http://x") + inline.Literal("《")
	if got, want := (InlineFormats{}).Processor().Run(text), "漢字強本《"; got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}
}

func TestInlineFormats_Order(t *testing.T) {
	t.Parallel()

	p := InlineFormats{Ruby: func(b, r string) string { return b + "(" + r + ")" }}.Processor()

	var got []string
	for _, it := range p.Registry().Items() {
		got = append(got, it.Name)
	}
	if want := []string{"ruby", "emphasis", "link", "literal"}; !slices.Equal(got, want) {
		t.Errorf("rule order = %v, want %v", got, want)
	}

	// Emphasised ruby: ruby is rewritten before emphasis.
	out := p.Run(inline.Emphasis(inline.Ruby("猫", "ねこ")))
	if out != "猫(ねこ)" {
		t.Errorf("Run() = %q", out)
	}
}

func TestStyle_Renderer(t *testing.T) {
	t.Parallel()

	s := Style{Name: "test", Break: "◇", Indent: true}
	r := s.Renderer()

	tree := novelconv.NewTree()
	tree.Meta = novelconv.Meta{Title: "題", Author: "著者"}
	tree.Blocks = []novelconv.Block{
		novelconv.NewBlock(novelconv.BlockTitle, "text", "題"),
		novelconv.NewBlock(novelconv.BlockChapter, "text", "章", "level", "2"),
		novelconv.NewBlock(novelconv.BlockParagraph, "text", "地の文\n「台詞」"),
		novelconv.NewBlock(novelconv.BlockBreak),
		novelconv.NewBlock(novelconv.BlockImage, "src", "a.png", "alt", "猫"),
		novelconv.NewBlock(novelconv.BlockImage, "src", "b.png"),
		novelconv.NewBlock(novelconv.BlockCode, "code", "x := 1"),
	}

	got, err := r.Render(tree)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	want := []string{
		"題\n著者",
		"題",
		"章",
		"　地の文\n「台詞」",
		"◇",
		"［挿絵：猫］",
		"［挿絵：b.png］",
		"x := 1",
	}
	if !slices.Equal(got, want) {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestStyle_CommentHeader(t *testing.T) {
	t.Parallel()

	r := Style{CommentHeader: true}.Renderer()
	tree := novelconv.NewTree()
	tree.Meta = novelconv.Meta{Title: "T", Author: "A"}

	got, err := r.Render(tree)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0] != "<!-- title: T -->\n<!-- author: A -->" {
		t.Errorf("Render() = %q", got)
	}
}

func TestPreprocessors(t *testing.T) {
	t.Parallel()

	p := novelconv.NewProcessor(Preprocessors())
	in := "\r\n\r\nｶﾞｲﾄﾞ  \r\n\r\n\r\n\r\n　\r\n本文\r\n\r\n"
	if got, want := p.Run(in), "ガイド\n\n本文"; got != want {
		t.Errorf("Run() = %q, want %q", got, want)
	}
}
