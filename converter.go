package novelconv

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// fragmentSeparator joins rendered fragments.
const fragmentSeparator = "\n\n"

// Converter orchestrates preprocessing, parsing, rendering and postprocessing
// between a source and a target dialect.
//
// A Converter is not safe for concurrent use. Use one per goroutine, for
// example through ConverterPool.
type Converter struct {
	cfg    converterConfig
	reader Reader
	writer Writer
	tree   *Tree
	logger zerolog.Logger
}

// NewConverter creates a Converter reading reader's dialect and writing writer's.
func NewConverter(reader Reader, writer Writer, opts ...Option) (*Converter, error) {
	if reader == nil || writer == nil {
		return nil, ErrNilDialect
	}

	c := &Converter{
		reader: reader,
		writer: writer,
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// Convert runs the full pipeline over source and returns the converted text.
// A rule that panics aborts the conversion with ErrRulePanic; no partial
// output is returned.
func (c *Converter) Convert(source string) (result string, err error) {
	defer func() {
		if r := recover(); r != nil {
			c.tree = nil
			result = ""
			err = fmt.Errorf("%w: %v", ErrRulePanic, r)
		}
	}()

	start := time.Now()
	log := c.logger.With().
		Str("from", c.reader.Name()).
		Str("to", c.writer.Name()).
		Logger()

	source = NewProcessor(register(c.reader.Preprocessors(), c.cfg.pre)).Run(source)
	log.Debug().Int("bytes", len(source)).Msg("preprocessed")

	tree := NewTree()
	tree.InlineRules = register(c.reader.InlineRules(), c.cfg.inline)
	tree.BlockRules = register(c.reader.BlockRules(), c.cfg.blocks)
	c.tree = nil
	tree.Parse(source)
	log.Debug().Int("blocks", tree.Len()).Str("title", tree.Meta.Title).Msg("parsed")

	fragments, err := c.writer.Renderer().Render(tree)
	if err != nil {
		return "", fmt.Errorf("rendering %s: %w", c.writer.Name(), err)
	}

	result = strings.Join(fragments, fragmentSeparator)
	result = NewProcessor(register(c.writer.Postprocessors(), c.cfg.post)).Run(result)
	c.tree = tree

	log.Debug().Dur("elapsed", time.Since(start)).Msg("converted")
	return result, nil
}

// Tree returns the tree built by the last successful Convert, or nil.
// Callers must not mutate it.
func (c *Converter) Tree() *Tree {
	return c.tree
}

// Reader returns the source dialect.
func (c *Converter) Reader() Reader {
	return c.reader
}

// Writer returns the target dialect.
func (c *Converter) Writer() Writer {
	return c.writer
}
