package fs

import (
	"io"
	"os"
	"path/filepath"

	"github.com/akeil/bizgen/internal/logging"
)

// WriteAtomic writes the data from r to a temporary file next to path
// and renames it to path when complete.
//
// On failure, the temporary file is removed and path is left untouched.
func WriteAtomic(path string, r io.Reader) error {
	dir, name := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+name+".*")
	if err != nil {
		return err
	}

	_, err = io.Copy(tmp, r)
	closeErr := tmp.Close()
	if err == nil {
		err = closeErr
	}
	if err == nil {
		err = Move(tmp.Name(), path)
	}
	if err != nil {
		ignoredErr := os.Remove(tmp.Name())
		if ignoredErr != nil && !os.IsNotExist(ignoredErr) {
			logging.Error("Failed to remove temp file %v", tmp.Name())
		}
		return err
	}

	return nil
}

// Move moves a file from src to dst.
// It tries os.Rename() first and falls back on "copy and delete".
//
// If src cannot be deleted after a successful copy,
// NO error is returned and src remains as it was.
func Move(src, dst string) error {
	err := os.Rename(src, dst)
	if err == nil {
		return nil
	}

	// Rename may have failed when moving across file systems
	// so try again w/ copy & delete.
	logging.Debug("Rename failed for %v -> %v, fall back on copy and delete", src, dst)
	r, err := os.Open(src)
	if err != nil {
		return err
	}
	defer r.Close()

	w, err := os.Create(dst)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, r)
	closeErr := w.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	// A bit untidy, but we carry on even if we fail to clean up behind us.
	ignoredErr := os.Remove(src)
	if ignoredErr != nil {
		logging.Error("Failed to remove file %v", src)
	}

	return nil
}
