// Package todo implements the business operations over TODO blocks:
// scanning a project, inserting template blocks, adding and updating
// entries, and cleaning completed ones. The managed source files are the
// only store; every operation re-reads them.
package todo

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"todoscan/internal/block"
	"todoscan/internal/config"
	"todoscan/internal/models"
	"todoscan/internal/scanner"
)

// Service defines all TODO block operations
type Service interface {
	// Scan walks the project and returns every entry found.
	Scan(ctx context.Context) (*models.ScanResult, error)

	// Init inserts a template block into every file that has none.
	// Running it twice changes nothing the second time.
	Init(ctx context.Context) (*InitResult, error)

	// Add appends a new block to one file.
	Add(ctx context.Context, req AddRequest) (*models.TodoEntry, error)

	// Update rewrites the fields of the block identified by
	// (file, start line).
	Update(ctx context.Context, req UpdateRequest) (*models.TodoEntry, error)

	// Done marks the block identified by (file, start line) as done.
	Done(ctx context.Context, file string, startLine int) (*models.TodoEntry, error)

	// Clean removes every block matching the completion predicate.
	Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error)
}

// AddRequest encapsulates all data needed to add a TODO block
type AddRequest struct {
	File     string
	Task     string
	Priority models.Priority // 0 means use the configured default
	Due      *time.Time
	Assignee string
}

// UpdateRequest encapsulates a partial update of one block.
// Pointer fields are optional - nil means don't update.
type UpdateRequest struct {
	File      string
	StartLine int
	Task      *string
	Priority  *models.Priority
	Due       *time.Time
	ClearDue  bool
	Assignee  *string
	Done      *bool
}

// InitResult reports what Init did.
type InitResult struct {
	Initialized []string // files that received a template block
	Unchanged   int      // files that already had a block
	Skipped     int      // files skipped because they failed to parse
	Warnings    []models.Warning
}

// CleanOptions controls which blocks Clean removes.
type CleanOptions struct {
	// All removes every block regardless of the predicate, for a
	// production build.
	All bool
	// Predicate overrides the default done==true rule.
	Predicate func(*models.TodoEntry) bool
}

// CleanResult reports what Clean did.
type CleanResult struct {
	Removed      int
	FilesChanged []string
	// Failed lists files whose rewrite failed; the originals are intact.
	Failed   []models.Warning
	Warnings []models.Warning
}

// service implements Service
type service struct {
	root    string
	dryRun  bool
	workers int
	codec   *block.Codec
	walker  *scanner.Walker
}

// NewService creates a TODO service for one project root.
func NewService(cfg *config.Config, root string, dryRun bool) Service {
	defaultPriority, err := models.ParsePriority(cfg.DefaultPriority)
	if err != nil {
		defaultPriority = models.DefaultPriority
	}
	return &service{
		root:    root,
		dryRun:  dryRun,
		workers: cfg.Workers,
		codec:   block.NewCodec(cfg.Markers.Begin, cfg.Markers.End, defaultPriority),
		walker:  scanner.NewWalker(root, cfg.Extensions, cfg.IgnoreDirs),
	}
}

func (s *service) Scan(ctx context.Context) (*models.ScanResult, error) {
	files, walkWarnings, err := s.walker.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnavailable, err)
	}

	pool := scanner.NewPool(ctx, s.workers)
	for _, path := range files {
		pool.Submit(path, s.parseFile)
	}
	results := pool.Wait()

	scan := &models.ScanResult{
		Root:     s.root,
		Warnings: walkWarnings,
	}
	for _, r := range results {
		scan.Warnings = append(scan.Warnings, r.Warnings...)
		if r.Err != nil {
			// Per-file errors skip the file, never the run. A file
			// counts as scanned only once it parsed.
			scan.FilesSkipped++
			scan.Warnings = append(scan.Warnings, models.Warning{
				Path:    r.Path,
				Message: r.Err.Error(),
			})
			continue
		}
		scan.FilesScanned++
		scan.Entries = append(scan.Entries, r.Entries...)
	}

	slog.Info("scan complete",
		"root", s.root,
		"files", scan.FilesScanned,
		"skipped", scan.FilesSkipped,
		"entries", len(scan.Entries))
	return scan, nil
}

// parseFile reads and parses one file. Runs on pool workers.
func (s *service) parseFile(path string) scanner.FileResult {
	data, err := os.ReadFile(path)
	if err != nil {
		return scanner.FileResult{Err: &models.AccessError{Path: path, Err: err}}
	}
	entries, warnings, err := s.codec.Parse(path, string(data))
	return scanner.FileResult{Entries: entries, Warnings: warnings, Err: err}
}

func (s *service) Init(ctx context.Context) (*InitResult, error) {
	files, walkWarnings, err := s.walker.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnavailable, err)
	}

	result := &InitResult{Warnings: walkWarnings}
	for _, path := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, models.Warning{Path: path, Message: err.Error()})
			continue
		}
		entries, _, err := s.codec.Parse(path, string(data))
		if err != nil {
			result.Skipped++
			result.Warnings = append(result.Warnings, models.Warning{Path: path, Message: err.Error()})
			continue
		}
		if len(entries) > 0 {
			result.Unchanged++
			continue
		}

		lines := block.SplitLines(string(data))
		at := block.InsertionIndex(lines)
		rendered := s.codec.Render(s.codec.Template(path))
		lines = block.Insert(lines, at, rendered)

		if !s.dryRun {
			if err := writeFileAtomic(path, []byte(block.JoinLines(lines))); err != nil {
				result.Warnings = append(result.Warnings, models.Warning{Path: path, Message: err.Error()})
				continue
			}
		}
		result.Initialized = append(result.Initialized, path)
		slog.Info("initialized TODO block", "path", path, "line", at+1, "dry_run", s.dryRun)
	}
	return result, nil
}

func (s *service) Add(ctx context.Context, req AddRequest) (*models.TodoEntry, error) {
	if err := validateAdd(req); err != nil {
		return nil, err
	}
	path, err := s.resolvePath(req.File)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.AccessError{Path: path, Err: err}
	}
	existing, _, err := s.codec.Parse(path, string(data))
	if err != nil {
		return nil, err
	}

	entry := &models.TodoEntry{
		FilePath: path,
		Task:     req.Task,
		Priority: req.Priority,
		Due:      req.Due,
		Assignee: req.Assignee,
	}
	if !entry.Priority.Valid() {
		entry.Priority = s.codec.Template(path).Priority
	}

	lines := block.SplitLines(string(data))

	// New blocks go after the last existing block so file order matches
	// creation order; the first block lands at the init insertion point.
	at := block.InsertionIndex(lines)
	if len(existing) > 0 {
		last := existing[len(existing)-1]
		at = last.EndLine
		entry.Indent = last.Indent
	}

	rendered := s.codec.Render(entry)
	lines = block.Insert(lines, at, rendered)
	entry.StartLine = at + 1
	entry.EndLine = at + len(rendered)

	if !s.dryRun {
		if err := writeFileAtomic(path, []byte(block.JoinLines(lines))); err != nil {
			return nil, err
		}
	}
	slog.Info("added TODO block", "path", path, "line", entry.StartLine, "dry_run", s.dryRun)
	return entry, nil
}

func (s *service) Update(ctx context.Context, req UpdateRequest) (*models.TodoEntry, error) {
	if req.StartLine < 1 {
		return nil, ErrInvalidLine
	}
	path, err := s.resolvePath(req.File)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.AccessError{Path: path, Err: err}
	}
	entries, _, err := s.codec.Parse(path, string(data))
	if err != nil {
		return nil, err
	}

	entry := findByStartLine(entries, req.StartLine)
	if entry == nil {
		return nil, fmt.Errorf("%s:%d: %w", path, req.StartLine, ErrEntryNotFound)
	}

	if req.Task != nil {
		if *req.Task == "" {
			return nil, ErrEmptyTask
		}
		entry.Task = *req.Task
	}
	if req.Priority != nil {
		entry.Priority = *req.Priority
	}
	if req.Due != nil {
		entry.Due = req.Due
	}
	if req.ClearDue {
		entry.Due = nil
	}
	if req.Assignee != nil {
		entry.Assignee = *req.Assignee
	}
	if req.Done != nil {
		entry.Done = *req.Done
	}

	lines := block.SplitLines(string(data))
	rendered := s.codec.Render(entry)
	lines = block.Replace(lines, entry.StartLine, entry.EndLine, rendered)
	entry.EndLine = entry.StartLine + len(rendered) - 1

	if !s.dryRun {
		if err := writeFileAtomic(path, []byte(block.JoinLines(lines))); err != nil {
			return nil, err
		}
	}
	slog.Info("updated TODO block", "path", path, "line", req.StartLine, "dry_run", s.dryRun)
	return entry, nil
}

func (s *service) Done(ctx context.Context, file string, startLine int) (*models.TodoEntry, error) {
	path, err := s.resolvePath(file)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &models.AccessError{Path: path, Err: err}
	}
	entries, _, err := s.codec.Parse(path, string(data))
	if err != nil {
		return nil, err
	}

	entry := findByStartLine(entries, startLine)
	if entry == nil {
		return nil, fmt.Errorf("%s:%d: %w", path, startLine, ErrEntryNotFound)
	}
	if entry.Done {
		return nil, fmt.Errorf("%s:%d: %w", path, startLine, ErrAlreadyDone)
	}

	done := true
	return s.Update(ctx, UpdateRequest{File: file, StartLine: startLine, Done: &done})
}

func (s *service) Clean(ctx context.Context, opts CleanOptions) (*CleanResult, error) {
	predicate := opts.Predicate
	if predicate == nil {
		predicate = func(e *models.TodoEntry) bool { return e.Done }
	}
	if opts.All {
		predicate = func(*models.TodoEntry) bool { return true }
	}

	files, walkWarnings, err := s.walker.Files(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrRootUnavailable, err)
	}

	result := &CleanResult{Warnings: walkWarnings}
	for _, path := range files {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		data, err := os.ReadFile(path)
		if err != nil {
			result.Warnings = append(result.Warnings, models.Warning{Path: path, Message: err.Error()})
			continue
		}
		entries, _, err := s.codec.Parse(path, string(data))
		if err != nil {
			result.Warnings = append(result.Warnings, models.Warning{Path: path, Message: err.Error()})
			continue
		}

		var matched []*models.TodoEntry
		for _, e := range entries {
			if predicate(e) {
				matched = append(matched, e)
			}
		}
		if len(matched) == 0 {
			continue
		}

		// Remove bottom-up so earlier line numbers stay valid; each
		// affected file is rewritten exactly once.
		lines := block.SplitLines(string(data))
		for i := len(matched) - 1; i >= 0; i-- {
			lines = block.Remove(lines, matched[i].StartLine, matched[i].EndLine)
		}

		if !s.dryRun {
			if err := writeFileAtomic(path, []byte(block.JoinLines(lines))); err != nil {
				result.Failed = append(result.Failed, models.Warning{Path: path, Message: err.Error()})
				continue
			}
		}
		result.Removed += len(matched)
		result.FilesChanged = append(result.FilesChanged, path)
		slog.Info("cleaned TODO blocks", "path", path, "removed", len(matched), "dry_run", s.dryRun)
	}
	return result, nil
}

func validateAdd(req AddRequest) error {
	if req.Task == "" {
		return ErrEmptyTask
	}
	if len(req.Task) > 255 {
		return ErrTaskTooLong
	}
	return nil
}

// resolvePath resolves a file argument against the project root. Relative
// paths are joined to the root; anything escaping the root is rejected.
func (s *service) resolvePath(file string) (string, error) {
	if file == "" {
		return "", fmt.Errorf("%q: %w", file, ErrInvalidPath)
	}
	path := file
	if !filepath.IsAbs(path) {
		path = filepath.Join(s.root, path)
	}
	path = filepath.Clean(path)

	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%s: %w", file, ErrInvalidPath)
	}
	return path, nil
}

func findByStartLine(entries []*models.TodoEntry, startLine int) *models.TodoEntry {
	for _, e := range entries {
		if e.StartLine == startLine {
			return e
		}
	}
	return nil
}
