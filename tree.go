package novelconv

import (
	"iter"
	"strings"
)

// Version identifies the tree-producing implementation. Informational only.
const Version = "0.4.0"

// chunkSeparator splits source text into paragraph candidates.
const chunkSeparator = "\n\n"

// Tree is the parsed document: an ordered list of blocks plus metadata.
//
// InlineRules and BlockRules drive Parse. The "meta" and "code_block" block
// rules are one-shot detectors and are removed from BlockRules while parsing,
// so a Tree's rule registries are consumed by the parse that uses them.
type Tree struct {
	Blocks      []Block
	Meta        Meta
	Version     string
	InlineRules *Registry[TextRule]
	BlockRules  *Registry[BlockRule]
}

// slot is one position of the tree under construction.
type slot struct {
	block      Block
	classified bool
}

// NewTree creates an empty tree with empty rule registries.
func NewTree() *Tree {
	return &Tree{
		Version:     Version,
		InlineRules: NewRegistry[TextRule](),
		BlockRules:  NewRegistry[BlockRule](),
	}
}

// Clear drops all blocks and metadata. Rule registries are kept.
func (t *Tree) Clear() {
	t.Blocks = nil
	t.Meta = Meta{}
	t.Version = Version
}

// Len returns the number of blocks.
func (t *Tree) Len() int {
	return len(t.Blocks)
}

// All yields the blocks in document order.
func (t *Tree) All() iter.Seq[Block] {
	return func(yield func(Block) bool) {
		for _, b := range t.Blocks {
			if !yield(b) {
				return
			}
		}
	}
}

// Parse rebuilds the tree from source. Previous blocks and metadata are discarded.
//
// Source is split on blank lines into chunks. The "meta" rule, when present,
// claims the first chunk it matches and is then removed. Each remaining chunk is
// offered raw to "code_block"; the first chunk it rejects removes that rule for
// the rest of the parse. Other chunks go through the inline rules, then the
// block rules in priority order; the first match classifies the chunk.
// Unmatched chunks are dropped.
//
// A panicking rule leaves the tree partially built and must be discarded.
func (t *Tree) Parse(source string) {
	t.Clear()

	chunks := splitChunks(source)
	chunks = t.extractMeta(chunks)

	inline := NewProcessor(t.InlineRules)
	slots := make([]slot, 0, len(chunks))

	for _, chunk := range chunks {
		if b, ok := t.matchCodeBlock(chunk); ok {
			slots = append(slots, slot{block: b, classified: true})
			continue
		}
		slots = append(slots, t.classify(inline.Run(chunk)))
	}

	t.Blocks = compact(slots)
}

// splitChunks splits source on blank lines, dropping empty chunks.
func splitChunks(source string) []string {
	parts := strings.Split(source, chunkSeparator)
	chunks := parts[:0]
	for _, p := range parts {
		if p != "" {
			chunks = append(chunks, p)
		}
	}
	return chunks
}

// extractMeta adopts the first chunk matched by the "meta" rule as metadata,
// removes that chunk and consumes the rule. Other chunks keep their order.
func (t *Tree) extractMeta(chunks []string) []string {
	rule, ok := t.BlockRules.Get(MetaRule)
	if !ok {
		return chunks
	}
	for i, chunk := range chunks {
		b, ok := rule.Match(chunk)
		if !ok || b.IsZero() {
			continue
		}
		t.Meta = metaFromBlock(b)
		_ = t.BlockRules.Delete(MetaRule, false)
		return append(chunks[:i:i], chunks[i+1:]...)
	}
	return chunks
}

// matchCodeBlock offers a raw chunk to the "code_block" rule.
// The first miss removes the rule for the remainder of the parse.
func (t *Tree) matchCodeBlock(chunk string) (Block, bool) {
	rule, ok := t.BlockRules.Get(CodeBlockRule)
	if !ok {
		return Block{}, false
	}
	b, ok := rule.Match(chunk)
	if ok && !b.IsZero() {
		return b, true
	}
	_ = t.BlockRules.Delete(CodeBlockRule, false)
	return Block{}, false
}

// classify tries block rules in priority order; the first match wins.
func (t *Tree) classify(text string) slot {
	var s slot
	for rule := range t.BlockRules.All() {
		if s.classified {
			break
		}
		b, ok := rule.Match(text)
		if !ok || b.IsZero() {
			continue
		}
		s = slot{block: b, classified: true}
	}
	return s
}

// compact keeps classified slots in order.
func compact(slots []slot) []Block {
	blocks := make([]Block, 0, len(slots))
	for _, s := range slots {
		if s.classified {
			blocks = append(blocks, s.block)
		}
	}
	return blocks
}
