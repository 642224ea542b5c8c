// Package config loads novelconv YAML configuration files.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect"
	"github.com/alnah/go-novelconv/internal/fileutil"
	"github.com/alnah/go-novelconv/internal/yamlutil"
)

// Sentinel errors.
var (
	ErrConfigNotFound  = errors.New("config file not found")
	ErrEmptyConfigName = errors.New("config name cannot be empty")
	ErrConfigParse     = errors.New("failed to parse config")
	ErrFieldTooLong    = errors.New("field exceeds maximum length")
	ErrInvalidValue    = errors.New("invalid config value")
)

// UserDirName is the directory under os.UserConfigDir searched for configs.
const UserDirName = "go-novelconv"

// PDFTarget is the CLI-only target that prints HTML output to PDF.
const PDFTarget = "pdf"

// Field length limits.
const (
	MaxNameLength = 50
	MaxPathLength = 4096
	MaxWorkers    = 64
)

// Config holds CLI defaults. Flags override every field.
type Config struct {
	Convert ConvertConfig `yaml:"convert"`
	Output  OutputConfig  `yaml:"output"`
	HTML    HTMLConfig    `yaml:"html"`
	PDF     PDFConfig     `yaml:"pdf"`
	Assets  AssetsConfig  `yaml:"assets"`
}

// ConvertConfig selects dialects and text options.
type ConvertConfig struct {
	From          string `yaml:"from"`          // reader name
	To            string `yaml:"to"`            // writer name or "pdf"
	NoIndent      bool   `yaml:"noIndent"`      // kakuyomu, narou
	CommentHeader bool   `yaml:"commentHeader"` // markdown, kakuyomu, narou
	Workers       int    `yaml:"workers"`       // 0 = auto
}

// OutputConfig defines output destination options.
type OutputConfig struct {
	DefaultDir string `yaml:"defaultDir"` // empty = next to the source
}

// HTMLConfig configures HTML and PDF output.
type HTMLConfig struct {
	Style        string `yaml:"style"`        // default, vertical or a custom stylesheet
	Highlight    string `yaml:"highlight"`    // chroma style
	Lang         string `yaml:"lang"`         // document language
	NoStandalone bool   `yaml:"noStandalone"` // fragments only
}

// PDFConfig configures PDF printing.
type PDFConfig struct {
	Paper   string `yaml:"paper"`   // a4, a5, b6, letter
	Timeout string `yaml:"timeout"` // Go duration, e.g. "45s"
}

// AssetsConfig points at a directory overriding the embedded assets.
type AssetsConfig struct {
	BasePath string `yaml:"basePath"`
}

// Validate checks names, lengths and ranges. LoadConfig calls it; callers
// building a Config by hand should too.
func (c *Config) Validate() error {
	if c.Convert.From != "" && !slices.Contains(dialect.Readers(), strings.ToLower(c.Convert.From)) {
		return fmt.Errorf("%w: convert.from %q (must be one of %s)",
			ErrInvalidValue, c.Convert.From, strings.Join(dialect.Readers(), ", "))
	}
	if c.Convert.To != "" && !slices.Contains(Targets(), strings.ToLower(c.Convert.To)) {
		return fmt.Errorf("%w: convert.to %q (must be one of %s)",
			ErrInvalidValue, c.Convert.To, strings.Join(Targets(), ", "))
	}
	if c.Convert.Workers < 0 || c.Convert.Workers > MaxWorkers {
		return fmt.Errorf("%w: convert.workers must be between 0 and %d, got %d",
			ErrInvalidValue, MaxWorkers, c.Convert.Workers)
	}

	for _, f := range []struct {
		name, value string
		max         int
	}{
		{"html.style", c.HTML.Style, MaxPathLength},
		{"html.highlight", c.HTML.Highlight, MaxNameLength},
		{"html.lang", c.HTML.Lang, MaxNameLength},
		{"pdf.paper", c.PDF.Paper, MaxNameLength},
		{"pdf.timeout", c.PDF.Timeout, MaxNameLength},
		{"output.defaultDir", c.Output.DefaultDir, MaxPathLength},
		{"assets.basePath", c.Assets.BasePath, MaxPathLength},
	} {
		if err := validateFieldLength(f.name, f.value, f.max); err != nil {
			return err
		}
	}

	if c.PDF.Paper != "" {
		if _, err := novelconv.PaperSize(c.PDF.Paper); err != nil {
			return fmt.Errorf("pdf.paper: %w", err)
		}
	}
	if _, err := c.PDF.TimeoutDuration(); err != nil {
		return err
	}
	return nil
}

// TimeoutDuration parses Timeout. Empty means zero (use the default).
func (p PDFConfig) TimeoutDuration() (time.Duration, error) {
	if p.Timeout == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(p.Timeout)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("%w: pdf.timeout %q (use a positive duration like 30s)", ErrInvalidValue, p.Timeout)
	}
	return d, nil
}

// Targets lists valid convert.to values: every writer plus "pdf".
func Targets() []string {
	return append(dialect.Writers(), PDFTarget)
}

func validateFieldLength(fieldName, value string, maxLength int) error {
	if len(value) > maxLength {
		return fmt.Errorf("%w: %s (%d chars, max %d)", ErrFieldTooLong, fieldName, len(value), maxLength)
	}
	return nil
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		Convert: ConvertConfig{From: "markdown", To: "html"},
		HTML:    HTMLConfig{Style: "default"},
		PDF:     PDFConfig{Paper: novelconv.DefaultPaper},
	}
}

// LoadConfig loads a config from a file path, or by name from the current
// directory then the user config directory. A missing file is an error.
func LoadConfig(nameOrPath string) (*Config, error) {
	if nameOrPath == "" {
		return nil, ErrEmptyConfigName
	}

	path := nameOrPath
	if !strings.ContainsAny(nameOrPath, `/\`) {
		var err error
		if path, err = resolveConfigPath(nameOrPath); err != nil {
			return nil, err
		}
	}

	data, err := os.ReadFile(path) // #nosec G304 -- config path is user-provided
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrConfigParse, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SearchPaths lists the files LoadConfig tries for a config name, in order.
func SearchPaths(name string) []string {
	exts := []string{".yaml", ".yml"}
	paths := make([]string, 0, len(exts)*2)
	for _, ext := range exts {
		paths = append(paths, name+ext)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		for _, ext := range exts {
			paths = append(paths, filepath.Join(dir, UserDirName, name+ext))
		}
	}
	return paths
}

func resolveConfigPath(name string) (string, error) {
	paths := SearchPaths(name)
	for _, p := range paths {
		if fileutil.FileExists(p) {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: tried %s", ErrConfigNotFound, strings.Join(paths, ", "))
}
