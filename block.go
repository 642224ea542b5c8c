package novelconv

import "maps"

// Block types shared by the bundled dialects.
// Rule sets may introduce their own types; renderers must know them.
const (
	BlockTitle     = "title"
	BlockChapter   = "chapter"
	BlockParagraph = "paragraph"
	BlockQuote     = "quote"
	BlockImage     = "image"
	BlockBreak     = "break"
	BlockCode      = "code_block"
)

// Reserved block rule names with one-shot semantics in Tree.Parse.
const (
	MetaRule      = "meta"
	CodeBlockRule = "code_block"
)

// Block is a classified unit of the document tree.
// Fields holds dialect-specific captures such as "text", "level" or "src".
type Block struct {
	Type   string
	Fields map[string]string
}

// NewBlock builds a block of the given type from alternating key/value pairs.
// A trailing key without value is ignored.
func NewBlock(typ string, kv ...string) Block {
	b := Block{Type: typ, Fields: make(map[string]string, len(kv)/2)}
	for i := 0; i+1 < len(kv); i += 2 {
		b.Fields[kv[i]] = kv[i+1]
	}
	return b
}

// IsZero reports whether the block carries no classification.
func (b Block) IsZero() bool {
	return b.Type == "" && len(b.Fields) == 0
}

// Field returns the named field, or "" when absent.
func (b Block) Field(name string) string {
	return b.Fields[name]
}

// Clone returns a copy that shares no map with b.
func (b Block) Clone() Block {
	return Block{Type: b.Type, Fields: maps.Clone(b.Fields)}
}

// BlockRule classifies a chunk of text.
// It returns false when the chunk does not match.
type BlockRule interface {
	Match(text string) (Block, bool)
}

// BlockRuleFunc adapts an ordinary function to BlockRule.
type BlockRuleFunc func(text string) (Block, bool)

// Match calls f(text).
func (f BlockRuleFunc) Match(text string) (Block, bool) {
	return f(text)
}

// Meta describes the document. Title and Author are promoted from the
// "meta" rule's fields; any other captured field stays in Fields.
type Meta struct {
	Title  string
	Author string
	Fields map[string]string
}

// IsZero reports whether no metadata was extracted.
func (m Meta) IsZero() bool {
	return m.Title == "" && m.Author == "" && len(m.Fields) == 0
}

// metaFromBlock converts a "meta" rule match into Meta.
func metaFromBlock(b Block) Meta {
	m := Meta{
		Title:  b.Fields["title"],
		Author: b.Fields["author"],
	}
	for k, v := range b.Fields {
		if k == "title" || k == "author" {
			continue
		}
		if m.Fields == nil {
			m.Fields = make(map[string]string)
		}
		m.Fields[k] = v
	}
	return m
}
