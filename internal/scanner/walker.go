// Package scanner enumerates candidate source files under a project root
// and fans file work out over a bounded worker pool.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"todoscan/internal/models"
)

// Walker enumerates files under a root, filtered by extension, skipping
// ignored directories. Each Walk call restarts from the root.
type Walker struct {
	root       string
	extensions map[string]bool
	ignoreDirs map[string]bool
}

// NewWalker builds a walker for root. Extensions include the leading dot.
func NewWalker(root string, extensions, ignoreDirs []string) *Walker {
	extSet := make(map[string]bool, len(extensions))
	for _, ext := range extensions {
		extSet[strings.ToLower(ext)] = true
	}
	dirSet := make(map[string]bool, len(ignoreDirs))
	for _, dir := range ignoreDirs {
		dirSet[dir] = true
	}
	return &Walker{root: root, extensions: extSet, ignoreDirs: dirSet}
}

// Walk calls fn for each candidate file path in walk order. Directories
// that cannot be read are reported as warnings and skipped; a missing or
// unreadable root is an AccessError and fatal.
func (w *Walker) Walk(ctx context.Context, fn func(path string) error) ([]models.Warning, error) {
	info, err := os.Stat(w.root)
	if err != nil {
		return nil, &models.AccessError{Path: w.root, Err: err}
	}
	if !info.IsDir() {
		return nil, &models.AccessError{Path: w.root, Err: fmt.Errorf("not a directory")}
	}

	var warnings []models.Warning

	walkErr := filepath.WalkDir(w.root, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			// Unreadable entries below the root downgrade to warnings.
			warnings = append(warnings, models.Warning{
				Path:    path,
				Message: fmt.Sprintf("skipped: %v", err),
			})
			slog.Warn("skipping unreadable path", "path", path, "error", err)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if path != w.root && w.ignoreDirs[d.Name()] {
				return fs.SkipDir
			}
			return nil
		}
		if !w.extensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		return fn(path)
	})
	if walkErr != nil {
		return warnings, walkErr
	}
	return warnings, nil
}

// Files collects all candidate paths in walk order.
func (w *Walker) Files(ctx context.Context) ([]string, []models.Warning, error) {
	var files []string
	warnings, err := w.Walk(ctx, func(path string) error {
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, warnings, err
	}
	return files, warnings, nil
}
