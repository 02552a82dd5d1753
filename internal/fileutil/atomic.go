// Package fileutil holds small file helpers shared by the store and the
// repository config writer.
package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/moby/sys/atomicwriter"
)

// WriteFileAtomic replaces path with data in one rename. If path is a symlink
// the link target is replaced and the link is left in place.
func WriteFileAtomic(path string, data []byte, perm os.FileMode) error {
	target, err := resolveTarget(path)
	if err != nil {
		return err
	}
	if err := atomicwriter.WriteFile(target, data, perm); err != nil {
		return fmt.Errorf("failed to atomically update %s: %w", target, err)
	}
	return nil
}

// ModeOr returns the permission bits of path, or def if it cannot be stat'ed.
func ModeOr(path string, def os.FileMode) os.FileMode {
	info, err := os.Stat(path)
	if err != nil {
		return def
	}
	return info.Mode().Perm()
}

func resolveTarget(path string) (string, error) {
	resolved, err := filepath.EvalSymlinks(path)
	if err == nil {
		return resolved, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return path, nil
	}
	return "", fmt.Errorf("failed to resolve %s: %w", path, err)
}
