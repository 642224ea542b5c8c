package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	flag "github.com/spf13/pflag"

	"github.com/alnah/go-novelconv/dialect"
	"github.com/alnah/go-novelconv/internal/config"
)

// Shell represents a supported shell for completion generation.
type Shell string

// Supported shells for completion.
const (
	ShellBash Shell = "bash"
	ShellZsh  Shell = "zsh"
	ShellFish Shell = "fish"
)

// ErrUnsupportedShell is returned when an unknown shell is requested.
var ErrUnsupportedShell = errors.New("unsupported shell")

// commands lists the subcommands offered for completion.
var commands = []struct{ name, desc string }{
	{"convert", "Convert novel manuscripts between dialects"},
	{"dialects", "List readers and writers"},
	{"doctor", "Check the PDF export environment"},
	{"completion", "Generate shell completion script"},
	{"version", "Show version information"},
	{"help", "Show help for a command"},
}

// flagDef describes a convert flag for completion purposes.
type flagDef struct {
	Long   string   // --output
	Short  string   // -o (empty if none)
	Desc   string   // help text
	Bool   bool     // takes no value
	Values []string // for enum flags
}

// flagValues maps enum flags to their values.
func flagValues() map[string][]string {
	return map[string][]string{
		"from":  dialect.Readers(),
		"to":    config.Targets(),
		"paper": {"a4", "a5", "b6", "letter"},
		"style": {"default", "vertical"},
	}
}

// convertFlagDefs extracts flag definitions from the convert FlagSet,
// so completion never drifts from the parser.
func convertFlagDefs() []flagDef {
	values := flagValues()
	var defs []flagDef
	buildConvertFlagSet(&convertFlags{}).VisitAll(func(f *flag.Flag) {
		defs = append(defs, flagDef{
			Long:   f.Name,
			Short:  f.Shorthand,
			Desc:   f.Usage,
			Bool:   f.Value.Type() == "bool",
			Values: values[f.Name],
		})
	})
	return defs
}

// GenerateCompletion writes shell completion script to w.
func GenerateCompletion(w io.Writer, shell Shell) error {
	switch shell {
	case ShellBash:
		return generateBash(w)
	case ShellZsh:
		return generateZsh(w)
	case ShellFish:
		return generateFish(w)
	default:
		return fmt.Errorf("%w: %q (supported: bash, zsh, fish)", ErrUnsupportedShell, shell)
	}
}

// runCompletion handles the completion command.
func runCompletion(args []string, env *Environment) error {
	if len(args) == 0 {
		printCompletionUsage(env.Stdout)
		return nil
	}
	return GenerateCompletion(env.Stdout, Shell(args[0]))
}

// printCompletionUsage prints help for the completion command.
func printCompletionUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: novelconv completion <shell>")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Generate shell completion script for bash, zsh or fish.")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Installation:")
	fmt.Fprintln(w, "  Bash:  eval \"$(novelconv completion bash)\"   # in ~/.bashrc")
	fmt.Fprintln(w, "  Zsh:   eval \"$(novelconv completion zsh)\"    # in ~/.zshrc, after compinit")
	fmt.Fprintln(w, "  Fish:  novelconv completion fish > ~/.config/fish/completions/novelconv.fish")
}

func commandNames() string {
	names := make([]string, len(commands))
	for i, c := range commands {
		names[i] = c.name
	}
	return strings.Join(names, " ")
}

func generateBash(w io.Writer) error {
	var b strings.Builder
	var opts []string
	for _, f := range convertFlagDefs() {
		opts = append(opts, "--"+f.Long)
		if f.Short != "" {
			opts = append(opts, "-"+f.Short)
		}
	}

	b.WriteString("# bash completion for novelconv\n")
	b.WriteString("_novelconv() {\n")
	b.WriteString("    local cur prev\n")
	b.WriteString("    cur=\"${COMP_WORDS[COMP_CWORD]}\"\n")
	b.WriteString("    prev=\"${COMP_WORDS[COMP_CWORD-1]}\"\n")
	b.WriteString("    if [[ ${COMP_CWORD} -eq 1 ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", commandNames())
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    case \"$prev\" in\n")
	for _, f := range convertFlagDefs() {
		if len(f.Values) == 0 {
			continue
		}
		pattern := "--" + f.Long
		if f.Short != "" {
			pattern += "|-" + f.Short
		}
		fmt.Fprintf(&b, "        %s) COMPREPLY=($(compgen -W %q -- \"$cur\")); return ;;\n", pattern, strings.Join(f.Values, " "))
	}
	b.WriteString("        -o|--output|--assets) COMPREPLY=($(compgen -d -- \"$cur\")); return ;;\n")
	b.WriteString("    esac\n")
	b.WriteString("    if [[ \"$cur\" == -* ]]; then\n")
	fmt.Fprintf(&b, "        COMPREPLY=($(compgen -W %q -- \"$cur\"))\n", strings.Join(opts, " "))
	b.WriteString("    else\n")
	b.WriteString("        COMPREPLY=($(compgen -f -- \"$cur\"))\n")
	b.WriteString("    fi\n")
	b.WriteString("}\n")
	b.WriteString("complete -F _novelconv novelconv\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateZsh(w io.Writer) error {
	var b strings.Builder
	b.WriteString("#compdef novelconv\n\n")
	b.WriteString("_novelconv() {\n")
	b.WriteString("    local -a commands\n")
	b.WriteString("    commands=(\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "        '%s:%s'\n", c.name, c.desc)
	}
	b.WriteString("    )\n")
	b.WriteString("    if (( CURRENT == 2 )); then\n")
	b.WriteString("        _describe 'command' commands\n")
	b.WriteString("        return\n")
	b.WriteString("    fi\n")
	b.WriteString("    _arguments \\\n")
	for _, f := range convertFlagDefs() {
		desc := zshEscape(f.Desc)
		action := ":value:"
		switch {
		case f.Bool:
			action = ""
		case len(f.Values) > 0:
			action = fmt.Sprintf(":%s:(%s)", f.Long, strings.Join(f.Values, " "))
		case f.Long == "output" || f.Long == "assets":
			action = ":directory:_files -/"
		case f.Long == "config":
			action = ":config:_files -g '*.y(a|)ml'"
		}
		if f.Short != "" {
			fmt.Fprintf(&b, "        '(-%s --%s)'{-%s,--%s}'[%s]%s' \\\n", f.Short, f.Long, f.Short, f.Long, desc, action)
		} else {
			fmt.Fprintf(&b, "        '--%s[%s]%s' \\\n", f.Long, desc, action)
		}
	}
	b.WriteString("        '*:input:_files'\n")
	b.WriteString("}\n\n")
	b.WriteString("compdef _novelconv novelconv\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func generateFish(w io.Writer) error {
	var b strings.Builder
	b.WriteString("# fish completion for novelconv\n")
	for _, c := range commands {
		fmt.Fprintf(&b, "complete -c novelconv -n '__fish_use_subcommand' -f -a %s -d %q\n", c.name, c.desc)
	}
	for _, f := range convertFlagDefs() {
		fmt.Fprintf(&b, "complete -c novelconv -n '__fish_seen_subcommand_from convert' -l %s", f.Long)
		if f.Short != "" {
			fmt.Fprintf(&b, " -s %s", f.Short)
		}
		if !f.Bool {
			b.WriteString(" -r")
		}
		if len(f.Values) > 0 {
			fmt.Fprintf(&b, " -f -a %q", strings.Join(f.Values, " "))
		}
		fmt.Fprintf(&b, " -d %q\n", f.Desc)
	}
	fmt.Fprintf(&b, "complete -c novelconv -n '__fish_seen_subcommand_from completion' -f -a %q\n", "bash zsh fish")

	_, err := io.WriteString(w, b.String())
	return err
}

func zshEscape(s string) string {
	return strings.NewReplacer("[", "\\[", "]", "\\]", "'", "'\\''", ":", "\\:").Replace(s)
}
