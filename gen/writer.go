package gen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/dave/jennifer/jen"
	"golang.org/x/sync/errgroup"
	"golang.org/x/tools/imports"
)

// FileTask is one generated file awaiting formatting and a write to disk:
// name is the output path relative to a WriteFiles outDir.
type FileTask struct {
	Name string
	File *jen.File
}

// WriteFiles renders and writes each task's *jen.File under outDir,
// running the rendered source through imports.Process first so an
// emitter that forgets an import (or carries one it no longer needs)
// still produces a file that builds, the same role goimports plays in
// teacher's template-based writer. Tasks are written concurrently,
// bounded by workers (GOMAXPROCS if workers <= 0); the first error
// cancels the remaining writes.
func WriteFiles(outDir string, tasks []FileTask, workers int) error {
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return fmt.Errorf("gen: create output directory %s: %w", outDir, err)
	}

	eg, ctx := errgroup.WithContext(context.Background())
	eg.SetLimit(workers)
	for _, task := range tasks {
		task := task
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return writeFile(outDir, task)
		})
	}
	return eg.Wait()
}

func writeFile(outDir string, task FileTask) error {
	var buf strings.Builder
	if err := task.File.Render(&buf); err != nil {
		return fmt.Errorf("gen: render %s: %w", task.Name, err)
	}

	fullPath := filepath.Join(outDir, task.Name)
	formatted, err := imports.Process(fullPath, []byte(buf.String()), nil)
	if err != nil {
		debugPath := fullPath + ".error"
		_ = os.MkdirAll(filepath.Dir(debugPath), 0o755)
		_ = os.WriteFile(debugPath, []byte(buf.String()), 0o644)
		return fmt.Errorf("gen: format %s: %w (unformatted copy at %s)", task.Name, err, debugPath)
	}

	if err := os.MkdirAll(filepath.Dir(fullPath), 0o755); err != nil {
		return fmt.Errorf("gen: create directory for %s: %w", task.Name, err)
	}
	return os.WriteFile(fullPath, formatted, 0o644)
}
