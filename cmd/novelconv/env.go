package main

import (
	"context"
	"io"
	"os"
	"time"

	novelconv "github.com/alnah/go-novelconv"
)

// Exporter prints a standalone HTML document to PDF.
type Exporter interface {
	Export(ctx context.Context, htmlDoc string) ([]byte, error)
	Close() error
}

// Compile-time interface implementation check.
var _ Exporter = (*novelconv.PDFExporter)(nil)

// Environment holds injectable dependencies for testability.
// Includes I/O, time, and the PDF exporter factory.
type Environment struct {
	Now         func() time.Time
	Stdout      io.Writer
	Stderr      io.Writer
	NewExporter func(paper string, timeout time.Duration) (Exporter, error)
}

// DefaultEnv returns the production environment.
func DefaultEnv() *Environment {
	return &Environment{
		Now:         time.Now,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewExporter: newPDFExporter,
	}
}

func newPDFExporter(paper string, timeout time.Duration) (Exporter, error) {
	return novelconv.NewPDFExporter(novelconv.WithPaper(paper), novelconv.WithPDFTimeout(timeout))
}
