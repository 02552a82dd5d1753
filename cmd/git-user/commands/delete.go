package commands

import (
	"github.com/spf13/cobra"

	"github.com/keeper-security/git-user/internal/audit"
)

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "delete <profile>",
		Aliases: []string{"d"},
		Short:   "Deletes a user",
		Long:    `Delete a profile from the store. Deleting a profile that does not exist is not an error.`,
		Args:    exactArgs("profile"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(a, args[0])
		},
	}
}

func runDelete(a *app, profile string) error {
	store, err := a.loadStore()
	if err != nil {
		return err
	}

	_, removed := store.Remove(profile)
	if err := a.saveStore(store); err != nil {
		return err
	}

	if removed {
		a.audit.LogProfileOperation(audit.EventProfileDelete, profile, nil)
	}
	a.logger.Debug().Str("profile", profile).Bool("removed", removed).Msg("deleted profile")
	return nil
}
