package main

import (
	"errors"
	"fmt"
	"io"

	flag "github.com/spf13/pflag"
)

// ErrInvalidFlag wraps flag parsing errors.
var ErrInvalidFlag = errors.New("invalid flag")

// commonFlags holds flags shared across commands.
type commonFlags struct {
	config  string
	quiet   bool
	verbose bool
}

// dialectFlags selects the reader, the writer and their text options.
type dialectFlags struct {
	from          string
	to            string
	noIndent      bool
	commentHeader bool
}

// htmlFlags configures HTML and PDF output.
type htmlFlags struct {
	style        string
	highlight    string
	lang         string
	assetPath    string
	noStandalone bool
}

// pdfFlags configures PDF printing.
type pdfFlags struct {
	paper   string
	timeout string
}

// convertFlags holds all flags for the convert command.
type convertFlags struct {
	common  commonFlags
	output  string
	workers int
	watch   bool
	dialect dialectFlags
	html    htmlFlags
	pdf     pdfFlags

	// set reports whether a flag was given on the command line.
	set func(name string) bool
}

// addCommonFlags adds common flags to a FlagSet.
func addCommonFlags(fs *flag.FlagSet, f *commonFlags) {
	fs.StringVarP(&f.config, "config", "c", "", "config file name or path")
	fs.BoolVarP(&f.quiet, "quiet", "q", false, "only show errors")
	fs.BoolVarP(&f.verbose, "verbose", "v", false, "show debug logs and timings")
}

// addDialectFlags adds dialect selection flags to a FlagSet.
func addDialectFlags(fs *flag.FlagSet, f *dialectFlags) {
	fs.StringVarP(&f.from, "from", "f", "", "source dialect: markdown, kakuyomu, narou")
	fs.StringVarP(&f.to, "to", "t", "", "target dialect: markdown, kakuyomu, narou, html, pdf")
	fs.BoolVar(&f.noIndent, "no-indent", false, "do not indent paragraphs")
	fs.BoolVar(&f.commentHeader, "comment-header", false, "write metadata as comment lines")
}

// addHTMLFlags adds HTML flags to a FlagSet.
func addHTMLFlags(fs *flag.FlagSet, f *htmlFlags) {
	fs.StringVar(&f.style, "style", "", "stylesheet: default, vertical or a custom name")
	fs.StringVar(&f.highlight, "highlight", "", "code highlighting style")
	fs.StringVar(&f.lang, "lang", "", "document language")
	fs.StringVar(&f.assetPath, "assets", "", "directory overriding the embedded styles and templates")
	fs.BoolVar(&f.noStandalone, "no-standalone", false, "write HTML fragments without a document")
}

// addPDFFlags adds PDF flags to a FlagSet.
func addPDFFlags(fs *flag.FlagSet, f *pdfFlags) {
	fs.StringVar(&f.paper, "paper", "", "paper size: a4, a5, b6, letter")
	fs.StringVar(&f.timeout, "timeout", "", "PDF generation timeout (e.g. 30s, 2m)")
}

// buildConvertFlagSet creates a FlagSet with all convert command flags bound to f.
func buildConvertFlagSet(f *convertFlags) *flag.FlagSet {
	fs := flag.NewFlagSet("convert", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.SortFlags = false

	fs.StringVarP(&f.output, "output", "o", "", "output file or directory")
	fs.IntVarP(&f.workers, "workers", "w", 0, "parallel workers (0 = auto)")
	fs.BoolVar(&f.watch, "watch", false, "convert again when inputs change")

	addDialectFlags(fs, &f.dialect)
	addHTMLFlags(fs, &f.html)
	addPDFFlags(fs, &f.pdf)
	addCommonFlags(fs, &f.common)

	return fs
}

// parseConvertFlags parses convert arguments and returns the flags and
// positional arguments. flag.ErrHelp is returned unwrapped.
func parseConvertFlags(args []string) (*convertFlags, []string, error) {
	f := &convertFlags{}
	fs := buildConvertFlagSet(f)
	f.set = fs.Changed

	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, nil, err
		}
		return nil, nil, fmt.Errorf("%w: %v", ErrInvalidFlag, err)
	}
	if f.common.quiet && f.common.verbose {
		return nil, nil, fmt.Errorf("%w: --quiet and --verbose are mutually exclusive", ErrInvalidFlag)
	}
	return f, fs.Args(), nil
}
