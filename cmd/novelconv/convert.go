package main

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	flag "github.com/spf13/pflag"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect"
	"github.com/alnah/go-novelconv/dialect/html"
	"github.com/alnah/go-novelconv/internal/config"
)

// Sentinel errors for CLI operations.
var (
	ErrNoInput         = errors.New("no input specified")
	ErrReadInput       = errors.New("failed to read input file")
	ErrWriteOutput     = errors.New("failed to write output file")
	ErrOverwriteInput  = errors.New("output would overwrite its input")
	ErrCreateOutputDir = errors.New("failed to create output directory")
)

// defaultConfigName is loaded when present and no config is named.
const defaultConfigName = "novelconv"

// File permission constants.
const (
	dirPermissions  = 0o750 // rwxr-x---: owner full, group read+execute
	filePermissions = 0o644 // rw-r--r--: owner read+write, others read
)

// conversionParams groups parameters shared across batch/file conversion.
type conversionParams struct {
	from      string
	writer    string // dialect writer; "html" for the pdf target
	pdf       bool
	opts      dialect.Options
	paper     string
	timeout   time.Duration
	workers   int
	outputDir string
}

// ext returns the output file extension.
func (p *conversionParams) ext() string {
	if p.pdf {
		return ".pdf"
	}
	return dialect.Extension(p.writer)
}

// newConverter builds a converter for one worker.
func (p *conversionParams) newConverter(log zerolog.Logger) (*novelconv.Converter, error) {
	r, err := dialect.Reader(p.from)
	if err != nil {
		return nil, err
	}
	w, err := dialect.Writer(p.writer, p.opts)
	if err != nil {
		return nil, err
	}
	return novelconv.NewConverter(r, w, novelconv.WithLogger(log))
}

// runConvert orchestrates the conversion process.
func runConvert(ctx context.Context, args []string, env *Environment) error {
	flags, positional, err := parseConvertFlags(args)
	if errors.Is(err, flag.ErrHelp) {
		printConvertUsage(env.Stdout)
		return nil
	}
	if err != nil {
		return err
	}

	warnUnknownEnvVars(env.Stderr)
	envCfg := loadEnvConfig()

	cfg, err := loadConfig(flags.common.config, envCfg.ConfigPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	applyEnvConfig(envCfg, cfg)
	mergeFlags(flags, cfg)
	applyDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	inputPath, err := resolveInputPath(positional)
	if err != nil {
		return err
	}

	params, err := buildParams(cfg)
	if err != nil {
		return err
	}

	log := newLogger(env.Stderr, flags.common.quiet, flags.common.verbose).
		With().Str("run", uuid.NewString()).Logger()
	log.Debug().
		Str("from", params.from).
		Str("to", cfg.Convert.To).
		Str("input", inputPath).
		Msg("starting conversion")

	// Fail fast on writer errors such as a missing stylesheet.
	if _, err := params.newConverter(log); err != nil {
		return err
	}

	files, err := discoverFiles(inputPath, params.outputDir, params.ext())
	if err != nil {
		return fmt.Errorf("discovering files: %w", err)
	}
	if len(files) == 0 && !flags.watch {
		return fmt.Errorf("%w: no %s files found in %s", ErrNoInput, strings.Join(inputExtensions, ", "), inputPath)
	}

	b := newBatch(params, env, log)
	defer func() {
		if err := b.close(); err != nil {
			log.Warn().Err(err).Msg("closing workers")
		}
	}()
	log.Debug().Int("workers", b.converters.Size()).Int("files", len(files)).Msg("batch ready")

	results := convertBatch(ctx, b, files)
	failed := printResultsWithWriter(results, flags.common.quiet, flags.common.verbose, env)

	if flags.watch {
		return watchInput(ctx, inputPath, params, b, flags.common, env)
	}
	if failed > 0 {
		return fmt.Errorf("%d conversion(s) failed: %w", failed, firstError(results))
	}
	return nil
}

// loadConfig loads the named config, then NOVELCONV_CONFIG, then the
// default config if one exists. Without any, it returns an empty config.
func loadConfig(flagName, envName string) (*config.Config, error) {
	name := flagName
	if name == "" {
		name = envName
	}
	if name != "" {
		return config.LoadConfig(name)
	}

	cfg, err := config.LoadConfig(defaultConfigName)
	if errors.Is(err, config.ErrConfigNotFound) {
		return &config.Config{}, nil
	}
	return cfg, err
}

// mergeFlags merges CLI flags into config. CLI values override config values.
func mergeFlags(flags *convertFlags, cfg *config.Config) {
	set := flags.set
	if set == nil {
		set = func(string) bool { return false }
	}

	if flags.dialect.from != "" {
		cfg.Convert.From = flags.dialect.from
	}
	if flags.dialect.to != "" {
		cfg.Convert.To = flags.dialect.to
	}
	if set("no-indent") {
		cfg.Convert.NoIndent = flags.dialect.noIndent
	}
	if set("comment-header") {
		cfg.Convert.CommentHeader = flags.dialect.commentHeader
	}
	if set("workers") {
		cfg.Convert.Workers = flags.workers
	}

	if flags.output != "" {
		cfg.Output.DefaultDir = flags.output
	}

	if flags.html.style != "" {
		cfg.HTML.Style = flags.html.style
	}
	if flags.html.highlight != "" {
		cfg.HTML.Highlight = flags.html.highlight
	}
	if flags.html.lang != "" {
		cfg.HTML.Lang = flags.html.lang
	}
	if set("no-standalone") {
		cfg.HTML.NoStandalone = flags.html.noStandalone
	}
	if flags.html.assetPath != "" {
		cfg.Assets.BasePath = flags.html.assetPath
	}

	if flags.pdf.paper != "" {
		cfg.PDF.Paper = flags.pdf.paper
	}
	if flags.pdf.timeout != "" {
		cfg.PDF.Timeout = flags.pdf.timeout
	}
}

// applyDefaults fills every empty field from config.DefaultConfig.
func applyDefaults(cfg *config.Config) {
	def := config.DefaultConfig()
	if cfg.Convert.From == "" {
		cfg.Convert.From = def.Convert.From
	}
	if cfg.Convert.To == "" {
		cfg.Convert.To = def.Convert.To
	}
	if cfg.HTML.Style == "" {
		cfg.HTML.Style = def.HTML.Style
	}
	if cfg.PDF.Paper == "" {
		cfg.PDF.Paper = def.PDF.Paper
	}
}

// buildParams turns a validated config into conversion parameters.
func buildParams(cfg *config.Config) (*conversionParams, error) {
	timeout, err := cfg.PDF.TimeoutDuration()
	if err != nil {
		return nil, err
	}

	to := strings.ToLower(cfg.Convert.To)
	p := &conversionParams{
		from:      strings.ToLower(cfg.Convert.From),
		writer:    to,
		paper:     cfg.PDF.Paper,
		timeout:   timeout,
		workers:   cfg.Convert.Workers,
		outputDir: cfg.Output.DefaultDir,
		opts: dialect.Options{
			NoIndent:      cfg.Convert.NoIndent,
			CommentHeader: cfg.Convert.CommentHeader,
			HTML: html.Options{
				Standalone:     !cfg.HTML.NoStandalone,
				Style:          cfg.HTML.Style,
				AssetPath:      cfg.Assets.BasePath,
				HighlightStyle: cfg.HTML.Highlight,
				Lang:           cfg.HTML.Lang,
			},
		},
	}

	// PDF is printed from a standalone HTML document.
	if to == config.PDFTarget {
		p.pdf = true
		p.writer = html.Name
		p.opts.HTML.Standalone = true
	}
	return p, nil
}

// resolveInputPath returns the input file or directory argument.
func resolveInputPath(args []string) (string, error) {
	if len(args) == 0 {
		return "", ErrNoInput
	}
	if len(args) > 1 {
		return "", fmt.Errorf("%w: expected one input, got %d", ErrInvalidFlag, len(args))
	}
	return args[0], nil
}

func firstError(results []ConversionResult) error {
	for _, r := range results {
		if r.Err != nil {
			return r.Err
		}
	}
	return nil
}
