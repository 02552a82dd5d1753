package gitrepo

import (
	"os"

	"github.com/rs/zerolog"

	"github.com/keeper-security/git-user/internal/apperrors"
	"github.com/keeper-security/git-user/internal/fileutil"
	"github.com/keeper-security/git-user/internal/gitconfig"
	"github.com/keeper-security/git-user/pkg/types"
)

const defaultConfigMode = 0644

// Result describes what an apply changed
type Result struct {
	RepoPath   string
	ConfigPath string
	Changes    []Change
}

// ChangedKeys returns the keys that were set or unset
func (r *Result) ChangedKeys() []string {
	keys := make([]string, 0, len(r.Changes))
	for _, c := range r.Changes {
		keys = append(keys, c.Key)
	}
	return keys
}

// Writer writes profiles into repository configs
type Writer struct {
	logger zerolog.Logger
}

// NewWriter creates a writer that logs through logger
func NewWriter(logger zerolog.Logger) *Writer {
	return &Writer{logger: logger}
}

// Apply writes profile into the local config of the repository at repoPath.
// The config file is replaced in one atomic write and only when something
// changed; every line outside the four owned keys is preserved.
func (w *Writer) Apply(repoPath string, profile types.Profile) (*Result, error) {
	repo, err := Open(repoPath)
	if err != nil {
		return nil, apperrors.Git("", err)
	}
	w.logger.Debug().Str("git_dir", repo.GitDir).Str("config", repo.ConfigPath).Msg("resolved repository")

	data, err := os.ReadFile(repo.ConfigPath)
	if err != nil && !os.IsNotExist(err) {
		return nil, apperrors.File("read "+repo.ConfigPath, err)
	}

	cfg, err := gitconfig.Parse(data)
	if err != nil {
		return nil, apperrors.Git("parse "+repo.ConfigPath, err)
	}

	changes := Plan(Desired(profile), cfg)
	for _, c := range changes {
		w.logger.Debug().Str("key", c.Key).Str("action", string(c.Action)).Msg("planned config change")
	}

	result := &Result{RepoPath: repoPath, ConfigPath: repo.ConfigPath, Changes: changes}
	if len(changes) == 0 {
		w.logger.Debug().Msg("repository config already matches profile")
		return result, nil
	}

	if err := Execute(changes, cfg); err != nil {
		return nil, apperrors.Git("update "+repo.ConfigPath, err)
	}

	mode := fileutil.ModeOr(repo.ConfigPath, defaultConfigMode)
	if err := fileutil.WriteFileAtomic(repo.ConfigPath, cfg.Bytes(), mode); err != nil {
		return nil, apperrors.File("write "+repo.ConfigPath, err)
	}

	return result, nil
}
