package novelconv

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

// ---------------------------------------------------------------------------
// Test dialects
// ---------------------------------------------------------------------------

// stubReader recognises "@title|author" metadata, "# " titles and paragraphs,
// and turns *x* into upper case.
type stubReader struct{}

func (stubReader) Name() string { return "stub" }

func (stubReader) Preprocessors() *Registry[TextRule] {
	r := NewRegistry[TextRule]()
	r.Add(TextRuleFunc(func(s string) string {
		return strings.ReplaceAll(s, "\r\n", "\n")
	}), "line_endings", 100)
	return r
}

func (stubReader) InlineRules() *Registry[TextRule] {
	r := NewRegistry[TextRule]()
	r.Add(TextRuleFunc(func(s string) string {
		for {
			start := strings.Index(s, "*")
			if start < 0 {
				return s
			}
			end := strings.Index(s[start+1:], "*")
			if end < 0 {
				return s
			}
			end += start + 1
			s = s[:start] + strings.ToUpper(s[start+1:end]) + s[end+1:]
		}
	}), "emphasis", 0)
	return r
}

func (stubReader) BlockRules() *Registry[BlockRule] {
	r := NewRegistry[BlockRule]()
	r.Add(metaRule, MetaRule, 100)
	r.Add(prefixRule(BlockTitle, "# "), "title", 10)
	r.Add(anyText, "paragraph", 0)
	return r
}

// stubWriter renders titles as "== x ==" and paragraphs verbatim.
type stubWriter struct{}

func (stubWriter) Name() string { return "stub-out" }

func (stubWriter) Renderer() Renderer {
	r := NewRuleRenderer()
	r.Header = func(m Meta, _ *Processor) string { return m.Title + " / " + m.Author }
	r.Formatters.Add(textFormatter("== "), BlockTitle, 0)
	r.Formatters.Add(textFormatter(""), BlockParagraph, 0)
	return r
}

func (stubWriter) Postprocessors() *Registry[TextRule] {
	r := NewRegistry[TextRule]()
	r.Add(TextRuleFunc(func(s string) string { return s + "\n" }), "final_newline", 0)
	return r
}

// ---------------------------------------------------------------------------
// TestNewConverter
// ---------------------------------------------------------------------------

func TestNewConverter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		reader  Reader
		writer  Writer
		wantErr error
	}{
		{name: "both set", reader: stubReader{}, writer: stubWriter{}},
		{name: "nil reader", writer: stubWriter{}, wantErr: ErrNilDialect},
		{name: "nil writer", reader: stubReader{}, wantErr: ErrNilDialect},
		{name: "both nil", wantErr: ErrNilDialect},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(tt.reader, tt.writer)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("NewConverter() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr != nil {
				return
			}
			if c.Reader().Name() != "stub" || c.Writer().Name() != "stub-out" {
				t.Error("accessors do not return the configured dialects")
			}
			if c.Tree() != nil {
				t.Error("Tree() before Convert should be nil")
			}
		})
	}
}

// ---------------------------------------------------------------------------
// TestConverter_Convert
// ---------------------------------------------------------------------------

func TestConverter_Convert(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		want   string
	}{
		{
			name:   "full document",
			source: "@Kokoro|Soseki\r\n\r\n# Part *one*\r\n\r\nSome *text*",
			want:   "Kokoro / Soseki\n\n== Part ONE\n\nSome TEXT\n",
		},
		{
			name:   "no metadata",
			source: "# Title\n\nSome text\n\nSome text2",
			want:   "== Title\n\nSome text\n\nSome text2\n",
		},
		{
			name:   "empty input",
			source: "",
			want:   "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c, err := NewConverter(stubReader{}, stubWriter{})
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Convert(tt.source)
			if err != nil {
				t.Fatalf("Convert() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Convert() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestConverter_FreshRulesPerRun(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(stubReader{}, stubWriter{})
	if err != nil {
		t.Fatal(err)
	}

	for i := range 3 {
		if _, err := c.Convert("@T|A\n\nbody"); err != nil {
			t.Fatalf("run %d: %v", i, err)
		}
		if c.Tree().Meta.Title != "T" {
			t.Fatalf("run %d: meta not extracted, one-shot rule leaked across runs", i)
		}
		if c.Tree().Len() != 1 {
			t.Errorf("run %d: Len() = %d, want 1", i, c.Tree().Len())
		}
	}
}

func TestConverter_ExtraRules(t *testing.T) {
	t.Parallel()

	tag := BlockRuleFunc(func(text string) (Block, bool) {
		rest, ok := strings.CutPrefix(text, "!")
		if !ok {
			return Block{}, false
		}
		return NewBlock(BlockParagraph, "text", "<"+rest+">"), true
	})

	c, err := NewConverter(stubReader{}, stubWriter{},
		WithPreprocessor(TextRuleFunc(func(s string) string {
			return strings.ReplaceAll(s, "teh", "the")
		}), "typos", 50),
		WithInlineRule(TextRuleFunc(func(s string) string {
			return strings.ReplaceAll(s, "...", "…")
		}), "ellipsis", 10),
		WithBlockRule(tag, "tag", 20),
		WithPostprocessor(TextRuleFunc(strings.TrimSpace), "final_newline", 0),
	)
	if err != nil {
		t.Fatal(err)
	}

	got, err := c.Convert("teh end...\n\n!note")
	if err != nil {
		t.Fatalf("Convert() error = %v", err)
	}
	if want := "the end…\n\n<note>"; got != want {
		t.Errorf("Convert() = %q, want %q", got, want)
	}
}

func TestConverter_NoFormatter(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(stubReader{}, stubWriter{},
		WithBlockRule(BlockRuleFunc(func(text string) (Block, bool) {
			if text != "verse" {
				return Block{}, false
			}
			return NewBlock("poem"), true
		}), "poem", 50),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Convert("prose"); err != nil {
		t.Fatalf("first Convert() error = %v", err)
	}
	if c.Tree() == nil {
		t.Fatal("Tree() = nil after a successful run")
	}

	out, err := c.Convert("verse")
	if !errors.Is(err, ErrNoFormatter) {
		t.Fatalf("Convert() error = %v, want ErrNoFormatter", err)
	}
	if out != "" {
		t.Errorf("Convert() output = %q on error, want empty", out)
	}
	if c.Tree() != nil {
		t.Error("Tree() should be nil after a failed render")
	}
}

func TestConverter_RulePanic(t *testing.T) {
	t.Parallel()

	c, err := NewConverter(stubReader{}, stubWriter{},
		WithInlineRule(TextRuleFunc(func(s string) string {
			if strings.Contains(s, "boom") {
				panic("exploded")
			}
			return s
		}), "fragile", 0),
	)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := c.Convert("fine"); err != nil {
		t.Fatalf("first Convert() error = %v", err)
	}
	if c.Tree() == nil {
		t.Fatal("Tree() = nil after a successful run")
	}

	out, err := c.Convert("fine\n\nboom")
	if !errors.Is(err, ErrRulePanic) {
		t.Fatalf("Convert() error = %v, want ErrRulePanic", err)
	}
	if !strings.Contains(err.Error(), "exploded") {
		t.Errorf("error %q should carry the panic value", err)
	}
	if out != "" {
		t.Errorf("Convert() output = %q, want empty", out)
	}
	if c.Tree() != nil {
		t.Error("Tree() should be nil after a panicking run")
	}
}

func TestConverter_Logger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.DebugLevel)

	c, err := NewConverter(stubReader{}, stubWriter{}, WithLogger(logger))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.Convert("@T|A\n\nx"); err != nil {
		t.Fatal(err)
	}

	out := buf.String()
	for _, want := range []string{`"from":"stub"`, `"to":"stub-out"`, `"message":"parsed"`, `"blocks":1`, `"title":"T"`} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %s:\n%s", want, out)
		}
	}
}
