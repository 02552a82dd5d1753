package commands

import (
	"github.com/spf13/cobra"

	"github.com/keeper-security/git-user/internal/apperrors"
	"github.com/keeper-security/git-user/internal/config"
	"github.com/keeper-security/git-user/internal/storage"
)

func newUseCmd(a *app) *cobra.Command {
	var repo string

	cmd := &cobra.Command{
		Use:     "use <profile>",
		Aliases: []string{"u"},
		Short:   "Use user",
		Long: `Write a profile into a repository's local git config.

user.name and user.email are always set. user.signingKey and core.sshCommand
are set when the profile has them and removed otherwise. Nothing else in the
config file is changed.`,
		Args: exactArgs("profile"),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			return runUse(a, store, args[0], repo)
		},
	}

	cmd.Flags().StringVarP(&repo, "repo", "r", ".", "Git repository path")
	return cmd
}

func runUse(a *app, store storage.ProfileReader, profileKey, repo string) error {
	profile, ok := store.Get(profileKey)
	if !ok {
		return apperrors.Config("User '%s' not found.", profileKey)
	}

	repoPath, err := config.ExpandHome(repo)
	if err != nil {
		return apperrors.File("expand repository path", err)
	}

	result, err := a.writer.Apply(repoPath, profile)
	if err != nil {
		a.audit.LogApply(profileKey, repoPath, nil, err)
		return err
	}

	a.audit.LogApply(profileKey, repoPath, result.ChangedKeys(), nil)
	a.logger.Debug().Str("profile", profileKey).Str("config", result.ConfigPath).Strs("changed", result.ChangedKeys()).Msg("applied profile")
	return nil
}
