package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/alnah/go-novelconv/dialect"
	"github.com/alnah/go-novelconv/internal/config"
)

// printUsage prints the main usage message.
func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: novelconv <command> [flags] [args]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  convert     Convert novel manuscripts between dialects")
	fmt.Fprintln(w, "  dialects    List readers and writers")
	fmt.Fprintln(w, "  doctor      Check the PDF export environment")
	fmt.Fprintln(w, "  completion  Generate shell completion script")
	fmt.Fprintln(w, "  version     Show version information")
	fmt.Fprintln(w, "  help        Show help for a command")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Run 'novelconv help <command>' for details on a specific command.")
}

// printConvertUsage prints usage for the convert command.
func printConvertUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: novelconv convert <input> [flags]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Convert a manuscript, or every .md, .markdown and .txt file under a directory.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Dialects:")
	fmt.Fprintf(w, "  -f, --from <name>         Source dialect: %s\n", strings.Join(dialect.Readers(), ", "))
	fmt.Fprintf(w, "  -t, --to <name>           Target dialect: %s\n", strings.Join(config.Targets(), ", "))
	fmt.Fprintln(w, "      --no-indent           Do not indent paragraphs (kakuyomu, narou)")
	fmt.Fprintln(w, "      --comment-header      Write title and author as <!-- key: value --> lines")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Input/Output:")
	fmt.Fprintln(w, "  -o, --output <path>       Output file or directory")
	fmt.Fprintln(w, "  -c, --config <name>       Config file name or path")
	fmt.Fprintln(w, "  -w, --workers <n>         Parallel workers (0 = auto)")
	fmt.Fprintln(w, "      --watch               Convert again when inputs change")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "HTML:")
	fmt.Fprintln(w, "      --style <name>        Stylesheet: default, vertical")
	fmt.Fprintln(w, "      --highlight <name>    Code highlighting style (chroma)")
	fmt.Fprintln(w, "      --lang <code>         Document language (default ja)")
	fmt.Fprintln(w, "      --assets <dir>        Directory with styles/ and templates/ overrides")
	fmt.Fprintln(w, "      --no-standalone       Write fragments without <html> document")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "PDF:")
	fmt.Fprintln(w, "      --paper <size>        Paper size: a4, a5, b6, letter")
	fmt.Fprintln(w, "      --timeout <duration>  PDF generation timeout (e.g. 30s, 2m)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Output Control:")
	fmt.Fprintln(w, "  -q, --quiet               Only show errors")
	fmt.Fprintln(w, "  -v, --verbose             Show debug logs and timings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NOVELCONV_CONFIG, NOVELCONV_FROM, NOVELCONV_TO, NOVELCONV_STYLE,")
	fmt.Fprintln(w, "  NOVELCONV_TIMEOUT, NOVELCONV_OUTPUT_DIR, NOVELCONV_PAPER, NOVELCONV_WORKERS")
	fmt.Fprintln(w, "  Flags win over environment, environment over config files.")
}

// printDialects lists readers and writers with their output extension.
func printDialects(w io.Writer) {
	fmt.Fprintln(w, "Readers:")
	for _, name := range dialect.Readers() {
		fmt.Fprintf(w, "  %s\n", name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Writers:")
	for _, name := range dialect.Writers() {
		fmt.Fprintf(w, "  %-10s %s\n", name, dialect.Extension(name))
	}
	fmt.Fprintf(w, "  %-10s %s\n", config.PDFTarget, ".pdf")
}

// runHelp prints help for a specific command.
func runHelp(args []string, env *Environment) {
	if len(args) == 0 {
		printUsage(env.Stdout)
		return
	}

	switch args[0] {
	case "convert":
		printConvertUsage(env.Stdout)
	case "dialects":
		fmt.Fprintln(env.Stdout, "Usage: novelconv dialects")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "List the source and target dialects.")
	case "doctor":
		fmt.Fprintln(env.Stdout, "Usage: novelconv doctor [--json]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Check that Chrome is available for PDF export.")
	case "completion":
		printCompletionUsage(env.Stdout)
	case "version":
		fmt.Fprintln(env.Stdout, "Usage: novelconv version")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show version information.")
	case "help":
		fmt.Fprintln(env.Stdout, "Usage: novelconv help [command]")
		fmt.Fprintln(env.Stdout)
		fmt.Fprintln(env.Stdout, "Show help for a command.")
	default:
		fmt.Fprintf(env.Stderr, "Unknown command: %s\n", args[0])
		printUsage(env.Stderr)
	}
}
