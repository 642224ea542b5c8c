package main

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/dialect"
)

func newTestBatch(t *testing.T, to string, exp *fakeExporter) (*batch, *conversionParams) {
	t.Helper()

	params := &conversionParams{from: "markdown", writer: to, workers: 2}
	if to == "pdf" {
		params.writer = "html"
		params.pdf = true
		params.opts.HTML.Standalone = true
	}
	env, _, _ := testEnv(exp)
	b := newBatch(params, env, zerolog.Nop())
	t.Cleanup(func() { _ = b.close() })
	return b, params
}

func TestConvertBatch(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.md": "一", "b.md": "二", "c.md": "三"})
	b, params := newTestBatch(t, "narou", nil)

	files, err := discoverFiles(dir, filepath.Join(dir, "out"), params.ext())
	if err != nil {
		t.Fatal(err)
	}
	files = append(files, FileToConvert{InputPath: filepath.Join(dir, "missing.md"), OutputPath: filepath.Join(dir, "x.txt")})

	results := convertBatch(context.Background(), b, files)
	if len(results) != 4 {
		t.Fatalf("len(results) = %d, want 4", len(results))
	}
	for i, want := range []string{"　一\n", "　二\n", "　三\n"} {
		if results[i].Err != nil {
			t.Fatalf("results[%d].Err = %v", i, results[i].Err)
		}
		if got := readFile(t, results[i].OutputPath); got != want {
			t.Errorf("%s = %q, want %q", results[i].OutputPath, got, want)
		}
	}
	if !errors.Is(results[3].Err, ErrReadInput) {
		t.Errorf("missing file error = %v, want ErrReadInput", results[3].Err)
	}

	if !b.wrote(results[0].OutputPath) || b.wrote(files[0].InputPath) {
		t.Error("batch should remember outputs only")
	}
}

func TestConvertBatch_Empty(t *testing.T) {
	t.Parallel()

	b, _ := newTestBatch(t, "narou", nil)
	if results := convertBatch(context.Background(), b, nil); results != nil {
		t.Errorf("results = %v, want nil", results)
	}
}

func TestConvertBatch_WorkerInitFailure(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.md": "一", "b.md": "二"})
	params := &conversionParams{from: "aozora", writer: "narou", workers: 1}
	env, _, _ := testEnv(nil)
	b := newBatch(params, env, zerolog.Nop())
	defer b.close()

	files, _ := discoverFiles(dir, "", params.ext())
	for _, r := range convertBatch(context.Background(), b, files) {
		if !errors.Is(r.Err, novelconv.ErrUnknownDialect) {
			t.Errorf("%s: error = %v, want ErrUnknownDialect", r.InputPath, r.Err)
		}
	}
}

func TestConvertBatch_PDFExportError(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.md": "一"})
	b, params := newTestBatch(t, "pdf", &fakeExporter{err: novelconv.ErrPageLoad})

	files, _ := discoverFiles(dir, "", params.ext())
	results := convertBatch(context.Background(), b, files)
	if !errors.Is(results[0].Err, novelconv.ErrPageLoad) {
		t.Errorf("error = %v, want ErrPageLoad", results[0].Err)
	}
	if b.wrote(results[0].OutputPath) {
		t.Error("failed conversions should not be recorded")
	}
}

func TestConvertBatch_DialectOptions(t *testing.T) {
	t.Parallel()

	dir := setupTestDir(t, map[string]string{"a.md": "<!-- title: 猫 -->\n\n本文"})
	params := &conversionParams{
		from:   "markdown",
		writer: "kakuyomu",
		opts:   dialect.Options{NoIndent: true, CommentHeader: true},
	}
	env, _, _ := testEnv(nil)
	b := newBatch(params, env, zerolog.Nop())
	defer b.close()

	files, _ := discoverFiles(filepath.Join(dir, "a.md"), "", params.ext())
	results := convertBatch(context.Background(), b, files)
	if results[0].Err != nil {
		t.Fatal(results[0].Err)
	}
	if got, want := readFile(t, results[0].OutputPath), "<!-- title: 猫 -->\n\n本文\n"; got != want {
		t.Errorf("output = %q, want %q", got, want)
	}
}

// ---------------------------------------------------------------------------
// TestPrintResults - Output format
// ---------------------------------------------------------------------------

func TestPrintResultsWithWriter(t *testing.T) {
	t.Parallel()

	results := []ConversionResult{
		{InputPath: "a.md", OutputPath: "a.txt", Duration: 1500 * time.Microsecond},
		{InputPath: "b.md", Err: errors.New("boom")},
	}

	tests := []struct {
		name       string
		quiet      bool
		verbose    bool
		wantStdout []string
		wantAbsent string
	}{
		{name: "default", wantStdout: []string{"Created a.txt", "1 succeeded, 1 failed"}},
		{name: "verbose", verbose: true, wantStdout: []string{"a.md -> a.txt (2ms)"}},
		{name: "quiet", quiet: true, wantAbsent: "Created"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var stdout, stderr bytes.Buffer
			env := &Environment{Stdout: &stdout, Stderr: &stderr}

			if failed := printResultsWithWriter(results, tt.quiet, tt.verbose, env); failed != 1 {
				t.Errorf("failed = %d, want 1", failed)
			}
			assertContains(t, stderr.String(), "FAILED b.md: boom")
			assertContains(t, stdout.String(), tt.wantStdout...)
			if tt.wantAbsent != "" && strings.Contains(stdout.String(), tt.wantAbsent) {
				t.Errorf("stdout should not contain %q: %s", tt.wantAbsent, stdout.String())
			}
		})
	}
}

func TestPrintResults_SingleFileHasNoSummary(t *testing.T) {
	t.Parallel()

	var stdout bytes.Buffer
	env := &Environment{Stdout: &stdout, Stderr: &bytes.Buffer{}}
	printResultsWithWriter([]ConversionResult{{InputPath: "a.md", OutputPath: "a.txt"}}, false, false, env)

	if strings.Contains(stdout.String(), "succeeded") {
		t.Errorf("single result should not print a summary: %q", stdout.String())
	}
}
