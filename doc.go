// Package novelconv converts web-novel manuscripts between markup dialects.
//
// # Quick Start
//
// Pick a reader and a writer from the dialect catalogue and convert:
//
//	r, _ := dialect.Reader("markdown")
//	w, _ := dialect.Writer("kakuyomu", dialect.Options{})
//
//	conv, err := novelconv.NewConverter(r, w)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	out, err := conv.Convert(source)
//
// # Conversion Pipeline
//
// Convert runs four stages:
//
//  1. Preprocessing: the reader's whole-text passes (line endings, Unicode
//     normalisation, blank lines).
//  2. Parsing: Tree.Parse splits the text on blank lines, extracts the
//     metadata chunk, short-circuits leading code blocks, runs the inline
//     rules and classifies each chunk with the first matching block rule.
//  3. Rendering: the writer's Renderer turns each block into a fragment,
//     optionally preceded by a metadata header; fragments are joined with
//     a blank line.
//  4. Postprocessing: the writer's whole-text passes.
//
// # Rules and Priorities
//
// Every stage draws its rules from a Registry: named entries sorted by
// priority, highest first, ties in registration order. Adding a rule under
// an existing name replaces it. Two block rule names are reserved:
//
//	meta        matches at most one chunk, then is removed
//	code_block  tried on raw chunks until its first miss, then removed
//
// Extra rules can be layered over a dialect with WithPreprocessor,
// WithInlineRule, WithBlockRule and WithPostprocessor.
//
// # Concurrency
//
// A Converter is not safe for concurrent use. Use one per goroutine, for
// example through ConverterPool. Each Convert builds fresh registries from
// the reader and writer, so runs never share rule state.
//
// # PDF
//
// PDFExporter prints the standalone output of the html writer to PDF with
// headless Chrome:
//
//	exp, _ := novelconv.NewPDFExporter(novelconv.WithPaper("a5"))
//	defer exp.Close()
//	pdf, err := exp.Export(ctx, htmlDoc)
package novelconv
