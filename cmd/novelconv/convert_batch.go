package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"

	novelconv "github.com/alnah/go-novelconv"
	"github.com/alnah/go-novelconv/internal/htmlpath"
)

// ConversionResult holds the outcome of a single conversion.
type ConversionResult struct {
	InputPath  string
	OutputPath string
	Err        error
	Duration   time.Duration
}

// batch owns the worker pools shared by every conversion of a run.
type batch struct {
	converters *novelconv.ConverterPool
	exporters  *novelconv.Pool[Exporter] // nil unless the target is pdf
	log        zerolog.Logger

	mu      sync.Mutex
	written map[string]bool // absolute output paths
}

// newBatch sizes the pools from the worker count. Values are built lazily,
// so a browser only starts when the first PDF worker needs it.
func newBatch(params *conversionParams, env *Environment, log zerolog.Logger) *batch {
	size := novelconv.ResolvePoolSize(params.workers)

	b := &batch{
		converters: novelconv.NewConverterPool(size, func() (*novelconv.Converter, error) {
			return params.newConverter(log)
		}),
		log:     log,
		written: make(map[string]bool),
	}
	if params.pdf {
		b.exporters = novelconv.NewPool(size, func() (Exporter, error) {
			return env.NewExporter(params.paper, params.timeout)
		}, func(e Exporter) error {
			return e.Close()
		})
	}
	return b
}

// close releases both pools.
func (b *batch) close() error {
	errs := []error{b.converters.Close()}
	if b.exporters != nil {
		errs = append(errs, b.exporters.Close())
	}
	return errors.Join(errs...)
}

// record remembers the outputs of successful conversions.
func (b *batch) record(results []ConversionResult) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		if abs, err := filepath.Abs(r.OutputPath); err == nil {
			b.written[abs] = true
		}
	}
}

// wrote reports whether path was written by this batch.
func (b *batch) wrote(path string) bool {
	abs, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.written[abs]
}

// worker is the set of values one goroutine converts with.
type worker struct {
	conv *novelconv.Converter
	exp  Exporter
}

func (b *batch) acquire() (worker, error) {
	conv, err := b.converters.Acquire()
	if err != nil {
		return worker{}, err
	}
	w := worker{conv: conv}
	if b.exporters != nil {
		if w.exp, err = b.exporters.Acquire(); err != nil {
			b.converters.Release(conv)
			return worker{}, err
		}
	}
	return w, nil
}

func (b *batch) release(w worker) {
	b.converters.Release(w.conv)
	if w.exp != nil {
		b.exporters.Release(w.exp)
	}
}

// convertBatch processes files concurrently using the batch pools.
func convertBatch(ctx context.Context, b *batch, files []FileToConvert) []ConversionResult {
	if len(files) == 0 {
		return nil
	}

	concurrency := min(b.converters.Size(), len(files))

	results := make([]ConversionResult, len(files))
	var wg sync.WaitGroup
	jobs := make(chan int, len(files))

	for range concurrency {
		wg.Add(1)
		go func() {
			defer wg.Done()

			w, err := b.acquire()
			if err != nil {
				// Worker creation failed, mark its jobs as failed
				for idx := range jobs {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       err,
					}
				}
				return
			}
			defer b.release(w)

			for idx := range jobs {
				if ctx.Err() != nil {
					results[idx] = ConversionResult{
						InputPath: files[idx].InputPath,
						Err:       ctx.Err(),
					}
					continue
				}
				results[idx] = convertFile(ctx, w, files[idx], b.log)
			}
		}()
	}

	for i := range files {
		jobs <- i
	}
	close(jobs)

	wg.Wait()
	b.record(results)
	return results
}

// convertFile processes a single file and returns the result.
func convertFile(ctx context.Context, w worker, f FileToConvert, log zerolog.Logger) ConversionResult {
	start := time.Now()
	result := ConversionResult{
		InputPath:  f.InputPath,
		OutputPath: f.OutputPath,
	}
	done := func(err error) ConversionResult {
		result.Err = err
		result.Duration = time.Since(start)
		return result
	}

	if samePath(f.InputPath, f.OutputPath) {
		return done(fmt.Errorf("%w: %s", ErrOverwriteInput, f.InputPath))
	}

	content, err := os.ReadFile(f.InputPath) // #nosec G304 -- discovered path
	if err != nil {
		return done(fmt.Errorf("%w: %v", ErrReadInput, err))
	}

	out, err := w.conv.Convert(string(content))
	if err != nil {
		return done(err)
	}
	data := []byte(out)

	if w.exp != nil {
		// The exporter prints from a temp file; illustrations must not
		// depend on the working directory.
		doc, err := htmlpath.Absolutize(out, filepath.Dir(f.InputPath))
		if err != nil {
			return done(err)
		}
		if data, err = w.exp.Export(ctx, doc); err != nil {
			return done(err)
		}
	}

	if err := os.MkdirAll(filepath.Dir(f.OutputPath), dirPermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrCreateOutputDir, err))
	}
	// #nosec G306 -- converted novels are meant to be readable
	if err := os.WriteFile(f.OutputPath, data, filePermissions); err != nil {
		return done(fmt.Errorf("%w: %v", ErrWriteOutput, err))
	}

	log.Debug().
		Str("input", f.InputPath).
		Str("output", f.OutputPath).
		Int("blocks", w.conv.Tree().Len()).
		Dur("took", time.Since(start)).
		Msg("converted")
	return done(nil)
}

// ResultSummary holds the count of succeeded and failed conversions.
type ResultSummary struct {
	Succeeded int
	Failed    int
}

// countResults tallies succeeded and failed conversions.
func countResults(results []ConversionResult) ResultSummary {
	var summary ResultSummary
	for _, r := range results {
		if r.Err != nil {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}
	return summary
}

// printResultsWithWriter outputs conversion results and returns the failure count.
func printResultsWithWriter(results []ConversionResult, quiet, verbose bool, env *Environment) int {
	summary := countResults(results)

	for _, r := range results {
		if r.Err != nil {
			fmt.Fprintf(env.Stderr, "FAILED %s: %v\n", r.InputPath, r.Err)
			continue
		}

		if quiet {
			continue
		}

		if verbose {
			fmt.Fprintf(env.Stdout, "%s -> %s (%v)\n", r.InputPath, r.OutputPath, r.Duration.Round(time.Millisecond))
		} else {
			fmt.Fprintf(env.Stdout, "Created %s\n", r.OutputPath)
		}
	}

	if !quiet && len(results) > 1 {
		fmt.Fprintf(env.Stdout, "\n%d succeeded, %d failed\n", summary.Succeeded, summary.Failed)
	}

	return summary.Failed
}
