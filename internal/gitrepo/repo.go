// Package gitrepo applies a profile to a repository's local git config.
package gitrepo

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/storage/filesystem"
)

// Repository is an opened repository and the location of its local config
type Repository struct {
	GitDir     string
	ConfigPath string
}

// Open resolves path to a repository. path may be the work tree, any
// directory below it, or a bare repository.
func Open(path string) (*Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		if errors.Is(err, git.ErrRepositoryNotExists) {
			return nil, fmt.Errorf("%s is not a git repository", path)
		}
		return nil, fmt.Errorf("failed to open repository at %s: %w", path, err)
	}

	storage, ok := repo.Storer.(*filesystem.Storage)
	if !ok {
		return nil, fmt.Errorf("repository at %s is not backed by a filesystem", path)
	}
	gitDir := storage.Filesystem().Root()

	commonDir, err := resolveCommonDir(gitDir)
	if err != nil {
		return nil, err
	}

	return &Repository{
		GitDir:     gitDir,
		ConfigPath: filepath.Join(commonDir, "config"),
	}, nil
}

// resolveCommonDir follows the commondir pointer of a linked worktree, where
// the shared config lives.
func resolveCommonDir(gitDir string) (string, error) {
	data, err := os.ReadFile(filepath.Join(gitDir, "commondir")) // #nosec G304 - inside the git dir
	if errors.Is(err, fs.ErrNotExist) {
		return gitDir, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to read commondir: %w", err)
	}

	dir := strings.TrimSpace(string(data))
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(gitDir, dir)
	}
	return filepath.Clean(dir), nil
}
