package novelconv

import "github.com/rs/zerolog"

// Option configures a Converter.
type Option func(*Converter)

// rule pairs a rule with the name and priority it is registered under.
type rule[T any] struct {
	value    T
	name     string
	priority int
}

// converterConfig holds rules added on top of the dialects' own.
type converterConfig struct {
	pre    []rule[TextRule]
	post   []rule[TextRule]
	inline []rule[TextRule]
	blocks []rule[BlockRule]
}

// WithLogger sets the logger used for per-stage debug events.
// The default logger discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Converter) {
		c.logger = l
	}
}

// WithPreprocessor adds a whole-text pass run before parsing.
// A name already used by the reader replaces the reader's pass.
func WithPreprocessor(r TextRule, name string, priority int) Option {
	return func(c *Converter) {
		c.cfg.pre = append(c.cfg.pre, rule[TextRule]{r, name, priority})
	}
}

// WithPostprocessor adds a whole-text pass run after rendering.
// A name already used by the writer replaces the writer's pass.
func WithPostprocessor(r TextRule, name string, priority int) Option {
	return func(c *Converter) {
		c.cfg.post = append(c.cfg.post, rule[TextRule]{r, name, priority})
	}
}

// WithInlineRule adds an inline rule to the reader's set.
func WithInlineRule(r TextRule, name string, priority int) Option {
	return func(c *Converter) {
		c.cfg.inline = append(c.cfg.inline, rule[TextRule]{r, name, priority})
	}
}

// WithBlockRule adds a block rule to the reader's set.
func WithBlockRule(r BlockRule, name string, priority int) Option {
	return func(c *Converter) {
		c.cfg.blocks = append(c.cfg.blocks, rule[BlockRule]{r, name, priority})
	}
}

// register adds extra rules to reg, returning reg for chaining.
func register[T any](reg *Registry[T], extra []rule[T]) *Registry[T] {
	if reg == nil {
		reg = NewRegistry[T]()
	}
	for _, r := range extra {
		reg.Add(r.value, r.name, r.priority)
	}
	return reg
}
