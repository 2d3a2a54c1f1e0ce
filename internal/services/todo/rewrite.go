package todo

import (
	"os"
	"path/filepath"

	"todoscan/internal/models"
)

// writeFileAtomic rewrites path through a temp file in the same directory
// followed by a rename, so an interrupted run never leaves a partial file.
// The original file mode is preserved.
func writeFileAtomic(path string, data []byte) error {
	info, err := os.Stat(path)
	if err != nil {
		return &models.WriteError{Path: path, Err: err}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return &models.WriteError{Path: path, Err: err}
	}
	tmpName := tmp.Name()

	cleanup := func() {
		tmp.Close()
		os.Remove(tmpName)
	}

	if _, err := tmp.Write(data); err != nil {
		cleanup()
		return &models.WriteError{Path: path, Err: err}
	}
	if err := tmp.Chmod(info.Mode().Perm()); err != nil {
		cleanup()
		return &models.WriteError{Path: path, Err: err}
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return &models.WriteError{Path: path, Err: err}
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return &models.WriteError{Path: path, Err: err}
	}
	return nil
}
