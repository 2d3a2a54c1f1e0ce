package todo

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"todoscan/internal/config"
	"todoscan/internal/models"
)

// ============================================================================
// TEST HELPERS
// ============================================================================

// setupProject writes files into a temp root and returns it with a service.
func setupProject(t *testing.T, files map[string]string) (string, Service) {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", rel, err)
		}
	}
	return root, NewService(config.Default(), root, false)
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

const blockWithMeta = `import os

# <todo>
# task: fix the cache invalidation
# priority: HIGH
# due: 2024-01-01
# assignee: bob
# done: true
# </todo>

def run():
    pass
`

// ============================================================================
// Scan
// ============================================================================

func TestScan_FindsEntries(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py":     blockWithMeta,
		"sub/b.py": "# <todo>\n# task: second\n# done: false\n# </todo>\n",
		"c.py":     "x = 1\n",
	})

	result, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if result.FilesScanned != 3 {
		t.Errorf("FilesScanned = %d, want 3", result.FilesScanned)
	}
	if len(result.Entries) != 2 {
		t.Fatalf("Scan() found %d entries, want 2", len(result.Entries))
	}

	// Path-sorted aggregation: a.py before sub/b.py
	if result.Entries[0].FilePath != filepath.Join(root, "a.py") {
		t.Errorf("first entry path = %s, want a.py first", result.Entries[0].FilePath)
	}
	first := result.Entries[0]
	if first.Priority != models.PriorityHigh || first.Assignee != "bob" || !first.Done {
		t.Errorf("entry fields = %+v", first)
	}
	if first.DueString() != "2024-01-01" {
		t.Errorf("Due = %s, want 2024-01-01", first.DueString())
	}
}

func TestScan_ParseErrorSkipsFileOnly(t *testing.T) {
	_, svc := setupProject(t, map[string]string{
		"bad.py":  "# <todo>\n# task: never closed\n",
		"good.py": "# <todo>\n# task: fine\n# done: false\n# </todo>\n",
	})

	result, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatalf("Scan() returned error: %v", err)
	}
	if result.FilesSkipped != 1 {
		t.Errorf("FilesSkipped = %d, want 1", result.FilesSkipped)
	}
	// A skipped file is not also counted as scanned.
	if result.FilesScanned != 1 {
		t.Errorf("FilesScanned = %d, want 1", result.FilesScanned)
	}
	if len(result.Entries) != 1 || result.Entries[0].Task != "fine" {
		t.Errorf("Entries = %+v, want only the good file's entry", result.Entries)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the malformed file")
	}
}

func TestScan_MissingRootIsFatal(t *testing.T) {
	svc := NewService(config.Default(), filepath.Join(t.TempDir(), "missing"), false)
	_, err := svc.Scan(context.Background())

	if !errors.Is(err, ErrRootUnavailable) {
		t.Fatalf("Scan() error = %v, want ErrRootUnavailable", err)
	}
	var accessErr *models.AccessError
	if !errors.As(err, &accessErr) {
		t.Fatalf("Scan() error = %v, should carry the underlying *models.AccessError", err)
	}
}

// ============================================================================
// Init
// ============================================================================

func TestInit_InsertsTemplateBlock(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"plain.py": "x = 1\n",
	})

	result, err := svc.Init(context.Background())
	if err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}
	if len(result.Initialized) != 1 {
		t.Fatalf("Initialized = %v, want one file", result.Initialized)
	}

	scan, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Entries) != 1 {
		t.Fatalf("after init, found %d entries, want exactly 1", len(scan.Entries))
	}
	e := scan.Entries[0]
	if e.Priority != models.PriorityMedium {
		t.Errorf("template priority = %v, want MEDIUM", e.Priority)
	}
	if e.Assignee != "" {
		t.Errorf("template assignee = %q, want empty", e.Assignee)
	}
	if !strings.HasSuffix(readFile(t, filepath.Join(root, "plain.py")), "x = 1\n") {
		t.Error("original content should be preserved below the block")
	}
}

func TestInit_InsertsAfterDocstring(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"doc.py": "#!/usr/bin/env python3\n\"\"\"Module docstring.\"\"\"\nx = 1\n",
	})

	if _, err := svc.Init(context.Background()); err != nil {
		t.Fatalf("Init() returned error: %v", err)
	}

	content := readFile(t, filepath.Join(root, "doc.py"))
	lines := strings.Split(content, "\n")
	if lines[0] != "#!/usr/bin/env python3" || lines[1] != `"""Module docstring."""` {
		t.Errorf("header disturbed: %q", content)
	}
	if !strings.Contains(lines[2], "<todo>") {
		t.Errorf("block not inserted after docstring: %q", content)
	}
}

func TestInit_Idempotent(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "x = 1\n",
		"b.py": "y = 2\n",
	})

	if _, err := svc.Init(context.Background()); err != nil {
		t.Fatal(err)
	}
	before := map[string]string{
		"a.py": readFile(t, filepath.Join(root, "a.py")),
		"b.py": readFile(t, filepath.Join(root, "b.py")),
	}

	second, err := svc.Init(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(second.Initialized) != 0 {
		t.Errorf("second Init() initialized %v, want nothing", second.Initialized)
	}
	if second.Unchanged != 2 {
		t.Errorf("second Init() Unchanged = %d, want 2", second.Unchanged)
	}
	for rel, want := range before {
		if got := readFile(t, filepath.Join(root, rel)); got != want {
			t.Errorf("second Init() modified %s", rel)
		}
	}
}

func TestInit_DryRunLeavesFilesAlone(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.py")
	if err := os.WriteFile(path, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(config.Default(), root, true)
	result, err := svc.Init(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(result.Initialized) != 1 {
		t.Errorf("dry run should still report the file it would change")
	}
	if readFile(t, path) != "x = 1\n" {
		t.Error("dry run modified the file")
	}
}

func TestInit_SkipsMalformedFiles(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"bad.py": "# <todo>\n# task: never closed\n",
	})

	result, err := svc.Init(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if result.Skipped != 1 {
		t.Errorf("Skipped = %d, want 1", result.Skipped)
	}
	if strings.Count(readFile(t, filepath.Join(root, "bad.py")), "<todo>") != 1 {
		t.Error("malformed file should not receive another block")
	}
}

// ============================================================================
// Add / Update / Done
// ============================================================================

func TestAdd_AppendsAfterLastBlock(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: first\n# done: false\n# </todo>\nx = 1\n",
	})
	path := filepath.Join(root, "a.py")

	due := time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)
	entry, err := svc.Add(context.Background(), AddRequest{
		File:     path,
		Task:     "second",
		Priority: models.PriorityHigh,
		Due:      &due,
		Assignee: "ana",
	})
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if entry.StartLine != 5 {
		t.Errorf("new block StartLine = %d, want 5 (after first block)", entry.StartLine)
	}

	scan, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Entries) != 2 {
		t.Fatalf("after Add(), %d entries, want 2", len(scan.Entries))
	}
	second := scan.Entries[1]
	if second.Task != "second" || second.Priority != models.PriorityHigh || second.Assignee != "ana" {
		t.Errorf("added entry = %+v", second)
	}
	if !strings.HasSuffix(readFile(t, path), "x = 1\n") {
		t.Error("code below the blocks should be untouched")
	}
}

func TestAdd_FirstBlockUsesInsertionPoint(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "\"\"\"Doc.\"\"\"\nx = 1\n",
	})
	path := filepath.Join(root, "a.py")

	entry, err := svc.Add(context.Background(), AddRequest{File: path, Task: "new"})
	if err != nil {
		t.Fatalf("Add() returned error: %v", err)
	}
	if entry.StartLine != 2 {
		t.Errorf("StartLine = %d, want 2 (after docstring)", entry.StartLine)
	}
	if entry.Priority != models.PriorityMedium {
		t.Errorf("default priority = %v, want MEDIUM", entry.Priority)
	}
}

func TestAdd_Validation(t *testing.T) {
	root, svc := setupProject(t, map[string]string{"a.py": "x = 1\n"})
	path := filepath.Join(root, "a.py")

	if _, err := svc.Add(context.Background(), AddRequest{File: path, Task: ""}); !errors.Is(err, ErrEmptyTask) {
		t.Errorf("Add() with empty task = %v, want ErrEmptyTask", err)
	}
	long := strings.Repeat("x", 256)
	if _, err := svc.Add(context.Background(), AddRequest{File: path, Task: long}); !errors.Is(err, ErrTaskTooLong) {
		t.Errorf("Add() with long task = %v, want ErrTaskTooLong", err)
	}
}

func TestAdd_MissingFile(t *testing.T) {
	_, svc := setupProject(t, nil)
	_, err := svc.Add(context.Background(), AddRequest{File: "missing.py", Task: "x"})

	var accessErr *models.AccessError
	if !errors.As(err, &accessErr) {
		t.Errorf("Add() error = %v, want *models.AccessError", err)
	}
}

func TestAdd_RelativePathResolvesAgainstRoot(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"sub/mod.py": "x = 1\n",
	})

	entry, err := svc.Add(context.Background(), AddRequest{File: "sub/mod.py", Task: "from elsewhere"})
	if err != nil {
		t.Fatalf("Add() with relative file returned error: %v", err)
	}
	if entry.FilePath != filepath.Join(root, "sub", "mod.py") {
		t.Errorf("FilePath = %s, should resolve under the project root", entry.FilePath)
	}
	if !strings.Contains(readFile(t, filepath.Join(root, "sub", "mod.py")), "# task: from elsewhere") {
		t.Error("block should land in the file under the root")
	}
}

func TestAdd_RejectsPathsOutsideRoot(t *testing.T) {
	outside := filepath.Join(t.TempDir(), "outside.py")
	if err := os.WriteFile(outside, []byte("x = 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, svc := setupProject(t, nil)

	tests := []struct {
		name string
		file string
	}{
		{"relative escape", filepath.Join("..", "escape.py")},
		{"absolute outside root", outside},
		{"empty path", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Add(context.Background(), AddRequest{File: tt.file, Task: "x"})
			if !errors.Is(err, ErrInvalidPath) {
				t.Errorf("Add(%q) = %v, want ErrInvalidPath", tt.file, err)
			}
		})
	}
}

func TestUpdate_ChangesFields(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: old\n# priority: LOW\n# done: false\n# </todo>\n",
	})
	path := filepath.Join(root, "a.py")

	task := "new words"
	prio := models.PriorityHigh
	entry, err := svc.Update(context.Background(), UpdateRequest{
		File:      path,
		StartLine: 1,
		Task:      &task,
		Priority:  &prio,
	})
	if err != nil {
		t.Fatalf("Update() returned error: %v", err)
	}
	if entry.Task != "new words" || entry.Priority != models.PriorityHigh {
		t.Errorf("updated entry = %+v", entry)
	}

	content := readFile(t, path)
	if !strings.Contains(content, "# task: new words") || !strings.Contains(content, "# priority: HIGH") {
		t.Errorf("file content = %q", content)
	}
}

func TestUpdate_NotFound(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: x\n# done: false\n# </todo>\n",
	})

	_, err := svc.Update(context.Background(), UpdateRequest{
		File:      filepath.Join(root, "a.py"),
		StartLine: 3, // inside the block but not its start
	})
	if !errors.Is(err, ErrEntryNotFound) {
		t.Errorf("Update() = %v, want ErrEntryNotFound", err)
	}
}

func TestDone_MarksBlockDone(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: x\n# done: false\n# </todo>\n",
	})
	path := filepath.Join(root, "a.py")

	entry, err := svc.Done(context.Background(), path, 1)
	if err != nil {
		t.Fatalf("Done() returned error: %v", err)
	}
	if !entry.Done {
		t.Error("entry should be done")
	}
	if !strings.Contains(readFile(t, path), "# done: true") {
		t.Error("file should record done: true")
	}
}

func TestDone_AlreadyDone(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: x\n# done: true\n# </todo>\n",
	})
	path := filepath.Join(root, "a.py")

	_, err := svc.Done(context.Background(), path, 1)
	if !errors.Is(err, ErrAlreadyDone) {
		t.Fatalf("Done() on a done block = %v, want ErrAlreadyDone", err)
	}
	if readFile(t, path) != "# <todo>\n# task: x\n# done: true\n# </todo>\n" {
		t.Error("file should be left untouched")
	}
}

// ============================================================================
// Clean
// ============================================================================

func TestClean_RemovesDoneAndLeavesRestByteIdentical(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": blockWithMeta,
		"b.py": "# <todo>\n# task: keep\n# done: false\n# </todo>\ny = 2\n",
	})

	result, err := svc.Clean(context.Background(), CleanOptions{})
	if err != nil {
		t.Fatalf("Clean() returned error: %v", err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
	if len(result.FilesChanged) != 1 {
		t.Errorf("FilesChanged = %v, want a.py only", result.FilesChanged)
	}

	// a.py keeps everything around the removed block, byte for byte.
	got := readFile(t, filepath.Join(root, "a.py"))
	want := "import os\n\n\ndef run():\n    pass\n"
	if got != want {
		t.Errorf("a.py after clean = %q, want %q", got, want)
	}

	// b.py is untouched.
	if !strings.Contains(readFile(t, filepath.Join(root, "b.py")), "# task: keep") {
		t.Error("b.py should keep its unfinished block")
	}
}

func TestClean_All(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: open\n# done: false\n# </todo>\nx = 1\n",
	})

	result, err := svc.Clean(context.Background(), CleanOptions{All: true})
	if err != nil {
		t.Fatal(err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}
	if readFile(t, filepath.Join(root, "a.py")) != "x = 1\n" {
		t.Error("clean --all should strip every block")
	}
}

func TestClean_CustomPredicate(t *testing.T) {
	_, svc := setupProject(t, map[string]string{
		"a.py": "# <todo>\n# task: low\n# priority: LOW\n# done: false\n# </todo>\n" +
			"# <todo>\n# task: high\n# priority: HIGH\n# done: false\n# </todo>\n",
	})

	result, err := svc.Clean(context.Background(), CleanOptions{
		Predicate: func(e *models.TodoEntry) bool { return e.Priority == models.PriorityLow },
	})
	if err != nil {
		t.Fatal(err)
	}
	if result.Removed != 1 {
		t.Errorf("Removed = %d, want 1", result.Removed)
	}

	scan, err := svc.Scan(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(scan.Entries) != 1 || scan.Entries[0].Task != "high" {
		t.Errorf("remaining entries = %+v, want only the HIGH one", scan.Entries)
	}
}

func TestClean_DryRun(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, "a.py")
	content := "# <todo>\n# task: x\n# done: true\n# </todo>\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	svc := NewService(config.Default(), root, true)
	result, err := svc.Clean(context.Background(), CleanOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Removed != 1 {
		t.Errorf("dry run should report what it would remove, got %d", result.Removed)
	}
	if readFile(t, path) != content {
		t.Error("dry run modified the file")
	}
}

func TestClean_SkipsMalformedFiles(t *testing.T) {
	root, svc := setupProject(t, map[string]string{
		"bad.py": "# <todo>\n# task: never closed\n# done: true\n",
	})

	result, err := svc.Clean(context.Background(), CleanOptions{})
	if err != nil {
		t.Fatal(err)
	}
	if result.Removed != 0 {
		t.Errorf("Removed = %d, want 0", result.Removed)
	}
	if len(result.Warnings) == 0 {
		t.Error("expected a warning for the malformed file")
	}
	if readFile(t, filepath.Join(root, "bad.py")) == "" {
		t.Error("malformed file should be left untouched")
	}
}
