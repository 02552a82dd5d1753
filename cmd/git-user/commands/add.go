package commands

import (
	"github.com/spf13/cobra"

	"github.com/keeper-security/git-user/internal/audit"
	"github.com/keeper-security/git-user/pkg/types"
)

type addOptions struct {
	profile    string
	signingKey string
	sshCommand string
}

func newAddCmd(a *app) *cobra.Command {
	var opts addOptions

	cmd := &cobra.Command{
		Use:     "add <name> <email>",
		Aliases: []string{"a"},
		Short:   "Create a new user",
		Long: `Create or replace a profile. The profile is stored under its name unless
--profile gives another key. An existing profile with the same key is overwritten.

Examples:
  git-user add alice alice@example.com
  git-user add bob bob@example.com --profile work -k KEY123 -s "ssh -i ~/.ssh/work"`,
		Args: exactArgs("name", "email"),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(a, cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.profile, "profile", "p", "", "Custom profile name for this user")
	cmd.Flags().StringVarP(&opts.signingKey, "signing-key", "k", "", "Git user signing key")
	cmd.Flags().StringVarP(&opts.sshCommand, "ssh-command", "s", "", "SSH command to run when authenticating")
	return cmd
}

func runAdd(a *app, cmd *cobra.Command, args []string, opts addOptions) error {
	name, email := args[0], args[1]

	key := name
	if cmd.Flags().Changed("profile") {
		key = opts.profile
	}

	// A flag that was not passed stays absent; one passed empty is kept as "".
	var signingKey, sshCommand *string
	if cmd.Flags().Changed("signing-key") {
		signingKey = &opts.signingKey
	}
	if cmd.Flags().Changed("ssh-command") {
		sshCommand = &opts.sshCommand
	}

	store, err := a.loadStore()
	if err != nil {
		return err
	}

	_, replaced := store.Insert(key, types.NewProfile(name, email, signingKey, sshCommand))
	if err := a.saveStore(store); err != nil {
		return err
	}

	event := audit.EventProfileCreate
	if replaced {
		event = audit.EventProfileUpdate
	}
	a.audit.LogProfileOperation(event, key, map[string]interface{}{"name": name, "email": email})
	a.logger.Debug().Str("profile", key).Bool("replaced", replaced).Msg("stored profile")
	return nil
}
