package main

import (
	"context"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// watchDebounce groups the bursts of events editors emit on save.
const watchDebounce = 300 * time.Millisecond

// watcher reports changed source files under a file or directory.
type watcher struct {
	fsw      *fsnotify.Watcher
	accept   func(path string) bool
	debounce time.Duration
	log      zerolog.Logger
}

// newWatcher watches root. A file is watched through its directory, which
// survives editors that replace the file on save.
func newWatcher(root string, accept func(string) bool, log zerolog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	w := &watcher{fsw: fsw, accept: accept, debounce: watchDebounce, log: log}

	info, err := os.Stat(root)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	if !info.IsDir() {
		if err := fsw.Add(filepath.Dir(root)); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", root, err)
		}
		return w, nil
	}

	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return fsw.Add(path)
	})
	if err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", root, err)
	}
	return w, nil
}

// Run calls onChange with the sorted paths changed during each quiet
// period, until ctx is done.
func (w *watcher) Run(ctx context.Context, onChange func(paths []string)) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.fsw.Add(event.Name); err != nil {
						w.log.Warn().Err(err).Str("dir", event.Name).Msg("cannot watch new directory")
					}
					continue
				}
			}
			if !w.accept(event.Name) {
				continue
			}
			w.log.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change detected")
			pending[event.Name] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Error().Err(err).Msg("watcher error")

		case <-timer.C:
			paths := slices.Sorted(maps.Keys(pending))
			clear(pending)
			onChange(paths)
		}
	}
}

// Close stops watching.
func (w *watcher) Close() error {
	return w.fsw.Close()
}

// watchInput converts changed sources again until ctx is done.
func watchInput(ctx context.Context, inputPath string, params *conversionParams, b *batch, common commonFlags, env *Environment) error {
	single := !isDir(inputPath)
	accept := func(path string) bool {
		if single {
			return samePath(path, inputPath)
		}
		if !isInputFile(path) {
			return false
		}
		// Our own outputs may share a source extension.
		if b.wrote(path) {
			return false
		}
		return params.outputDir == "" || !within(path, params.outputDir)
	}

	w, err := newWatcher(inputPath, accept, b.log)
	if err != nil {
		return err
	}
	defer func() { _ = w.Close() }()

	if !common.quiet {
		fmt.Fprintf(env.Stdout, "Watching %s (Ctrl+C to stop)\n", inputPath)
	}

	return w.Run(ctx, func(paths []string) {
		base := ""
		if !single {
			base = inputPath
		}
		files := make([]FileToConvert, 0, len(paths))
		for _, p := range paths {
			files = append(files, FileToConvert{
				InputPath:  p,
				OutputPath: resolveOutputPath(p, params.outputDir, base, params.ext()),
			})
		}
		results := convertBatch(ctx, b, files)
		printResultsWithWriter(results, common.quiet, common.verbose, env)
	})
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

// within reports whether path lies under dir.
func within(path, dir string) bool {
	absPath, err1 := filepath.Abs(path)
	absDir, err2 := filepath.Abs(dir)
	if err1 != nil || err2 != nil {
		return false
	}
	rel, err := filepath.Rel(absDir, absPath)
	return err == nil && rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel)
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}
