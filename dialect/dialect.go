// Package dialect is the catalogue of bundled readers and writers.
//
//	r, _ := dialect.Reader("kakuyomu")
//	w, _ := dialect.Writer("html", dialect.Options{})
//	conv, _ := novelconv.NewConverter(r, w)
package dialect

import (
	"fmt"
	"slices"
	"strings"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect/html"
	"github.com/alnah/go-novelconv/dialect/kakuyomu"
	"github.com/alnah/go-novelconv/dialect/markdown"
	"github.com/alnah/go-novelconv/dialect/narou"
)

// Options configures writers. Each writer reads the fields it knows.
type Options struct {
	// NoIndent disables paragraph indentation (kakuyomu, narou).
	NoIndent bool

	// CommentHeader writes metadata as <!-- key: value --> lines
	// (markdown, kakuyomu, narou).
	CommentHeader bool

	// HTML configures the html writer.
	HTML html.Options
}

var readers = map[string]func() novelconv.Reader{
	markdown.Name: func() novelconv.Reader { return markdown.NewReader() },
	kakuyomu.Name: func() novelconv.Reader { return kakuyomu.NewReader() },
	narou.Name:    func() novelconv.Reader { return narou.NewReader() },
}

var writers = map[string]func(Options) (novelconv.Writer, error){
	markdown.Name: func(o Options) (novelconv.Writer, error) {
		return markdown.NewWriter(markdown.Options{CommentHeader: o.CommentHeader}), nil
	},
	kakuyomu.Name: func(o Options) (novelconv.Writer, error) {
		return kakuyomu.NewWriter(kakuyomu.Options{NoIndent: o.NoIndent, CommentHeader: o.CommentHeader}), nil
	},
	narou.Name: func(o Options) (novelconv.Writer, error) {
		return narou.NewWriter(narou.Options{NoIndent: o.NoIndent, CommentHeader: o.CommentHeader}), nil
	},
	html.Name: func(o Options) (novelconv.Writer, error) {
		return html.NewWriter(o.HTML)
	},
}

var extensions = map[string]string{
	markdown.Name: ".md",
	kakuyomu.Name: ".txt",
	narou.Name:    ".txt",
	html.Name:     ".html",
}

// Reader returns the reader for name (case-insensitive).
func Reader(name string) (novelconv.Reader, error) {
	newFn, ok := readers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: reader %q (available: %s)",
			novelconv.ErrUnknownDialect, name, strings.Join(Readers(), ", "))
	}
	return newFn(), nil
}

// Writer returns the writer for name (case-insensitive).
func Writer(name string, opts Options) (novelconv.Writer, error) {
	newFn, ok := writers[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("%w: writer %q (available: %s)",
			novelconv.ErrUnknownDialect, name, strings.Join(Writers(), ", "))
	}
	return newFn(opts)
}

// Readers lists reader names in lexical order.
func Readers() []string {
	return sortedNames(readers)
}

// Writers lists writer names in lexical order.
func Writers() []string {
	return sortedNames(writers)
}

// Extension returns the output file extension for a writer, with its dot.
func Extension(name string) string {
	if ext, ok := extensions[strings.ToLower(name)]; ok {
		return ext
	}
	return ".txt"
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for n := range m {
		names = append(names, n)
	}
	slices.Sort(names)
	return names
}
