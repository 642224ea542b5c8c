package novelconv

import "fmt"

// Renderer turns a parsed tree into output fragments, one per block,
// optionally preceded by a header fragment built from the metadata.
// Renderers read the tree and never mutate it.
type Renderer interface {
	Render(t *Tree) ([]string, error)
}

// BlockFormatter renders one block. Inline is the writer's inline pipeline,
// used to map the canonical inline notation to the target dialect.
type BlockFormatter interface {
	Format(b Block, inline *Processor) string
}

// BlockFormatterFunc adapts an ordinary function to BlockFormatter.
type BlockFormatterFunc func(b Block, inline *Processor) string

// Format calls f(b, inline).
func (f BlockFormatterFunc) Format(b Block, inline *Processor) string {
	return f(b, inline)
}

// RuleRenderer renders blocks through formatters registered under their block type.
type RuleRenderer struct {
	// Header renders the metadata. Nil, or an empty result, emits no header.
	Header func(m Meta, inline *Processor) string

	// Formatters maps block types to formatters. Registry names are block types.
	Formatters *Registry[BlockFormatter]

	// Inline maps canonical inline notation to the target dialect.
	Inline *Processor
}

// NewRuleRenderer creates a RuleRenderer with empty registries.
func NewRuleRenderer() *RuleRenderer {
	return &RuleRenderer{
		Formatters: NewRegistry[BlockFormatter](),
		Inline:     NewProcessor(nil),
	}
}

// Render implements Renderer. A block type with no formatter returns ErrNoFormatter.
func (r *RuleRenderer) Render(t *Tree) ([]string, error) {
	inline := r.Inline
	if inline == nil {
		inline = NewProcessor(nil)
	}

	fragments := make([]string, 0, len(t.Blocks)+1)
	if r.Header != nil && !t.Meta.IsZero() {
		if h := r.Header(t.Meta, inline); h != "" {
			fragments = append(fragments, h)
		}
	}

	for i, b := range t.Blocks {
		f, ok := r.Formatters.Get(b.Type)
		if !ok {
			return nil, fmt.Errorf("%w: %q (block %d)", ErrNoFormatter, b.Type, i)
		}
		fragments = append(fragments, f.Format(b, inline))
	}
	return fragments, nil
}
