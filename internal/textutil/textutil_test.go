package textutil

import "testing"

func TestPasses(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		fn    func(string) string
		input string
		want  string
	}{
		// NormalizeLineEndings
		{"crlf", NormalizeLineEndings, "a\r\nb", "a\nb"},
		{"lone cr", NormalizeLineEndings, "a\rb\r", "a\nb\n"},
		{"mixed", NormalizeLineEndings, "a\r\n\rb\n", "a\n\nb\n"},

		// NormalizeNFC
		{"decomposed kana", NormalizeNFC, "\u304B\u3099", "\u304C"},
		{"already composed", NormalizeNFC, "\u304C", "\u304C"},

		// WidenHalfwidthKana
		{"katakana", WidenHalfwidthKana, "ｱｲｳ", "アイウ"},
		{"voiced marks", WidenHalfwidthKana, "ｶﾞｷﾞﾊﾟ", "ガギパ"},
		{"punctuation", WidenHalfwidthKana, "｢ｶ｣､", "「カ」、"},
		{"ascii untouched", WidenHalfwidthKana, "abc 123!", "abc 123!"},
		{"mixed", WidenHalfwidthKana, "これはﾃｽﾄです", "これはテストです"},

		// TrimTrailingSpaces
		{"trailing ascii", TrimTrailingSpaces, "a  \nb\t", "a\nb"},
		{"whitespace-only line", TrimTrailingSpaces, "a\n　　\nb", "a\n\nb"},
		{"inner fullwidth kept", TrimTrailingSpaces, "　a", "　a"},

		// CompressBlankLines
		{"compress", CompressBlankLines, "a\n\n\n\nb", "a\n\nb"},
		{"single blank kept", CompressBlankLines, "a\n\nb", "a\n\nb"},

		// TrimBlankLines
		{"trim", TrimBlankLines, "\n\na\n\n", "a"},

		// EnsureFinalNewline
		{"add newline", EnsureFinalNewline, "a", "a\n"},
		{"collapse newlines", EnsureFinalNewline, "a\n\n\n", "a\n"},
		{"empty stays empty", EnsureFinalNewline, "\n\n", ""},

		// SpaceAfterExclamation
		{"bang before text", SpaceAfterExclamation, "えっ!本当?", "えっ!　本当?"},
		{"fullwidth run", SpaceAfterExclamation, "なに！？いや", "なに！？　いや"},
		{"already spaced", SpaceAfterExclamation, "なに！？　いや", "なに！？　いや"},
		{"before closing bracket", SpaceAfterExclamation, "「嘘!」", "「嘘!」"},
		{"ascii follower", SpaceAfterExclamation, "Hi!there ?id=1", "Hi!there ?id=1"},
		{"comment header", SpaceAfterExclamation, "<!-- title: 猫 -->", "<!-- title: 猫 -->"},

		// IndentLines
		{"narrative", IndentLines, "吾輩は猫である。", "　吾輩は猫である。"},
		{"dialogue", IndentLines, "「名前はまだない」", "「名前はまだない」"},
		{"already indented", IndentLines, "　すでに", "　すでに"},
		{"multi-line", IndentLines, "一行目\n「二行目」\n\n四行目", "　一行目\n「二行目」\n\n　四行目"},
		{"ellipsis", IndentLines, "……", "……"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := tt.fn(tt.input); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestIndentLine(t *testing.T) {
	t.Parallel()

	for _, line := range []string{"", "『本』", "（注）", "(note)", "《題》", "【章】", "―ダッシュ", " space"} {
		if got := IndentLine(line); got != line {
			t.Errorf("IndentLine(%q) = %q, want unchanged", line, got)
		}
	}
	if got := IndentLine("text"); got != "　text" {
		t.Errorf("IndentLine(text) = %q", got)
	}
}

func TestPasses_Idempotent(t *testing.T) {
	t.Parallel()

	input := "ｶﾞ!猫\r\n\r\n\r\n\r\n　吾輩  \n"
	passes := map[string]func(string) string{
		"NormalizeLineEndings":  NormalizeLineEndings,
		"WidenHalfwidthKana":    WidenHalfwidthKana,
		"TrimTrailingSpaces":    TrimTrailingSpaces,
		"CompressBlankLines":    CompressBlankLines,
		"EnsureFinalNewline":    EnsureFinalNewline,
		"SpaceAfterExclamation": SpaceAfterExclamation,
	}
	for name, fn := range passes {
		once := fn(input)
		if twice := fn(once); twice != once {
			t.Errorf("%s not idempotent: %q then %q", name, once, twice)
		}
	}
}
