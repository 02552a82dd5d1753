package commands

import (
	"github.com/spf13/cobra"
)

func newExportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:     "export",
		Aliases: []string{"e"},
		Short:   "Export config",
		Long:    `Print the profile store as JSON on standard output.`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadStore()
			if err != nil {
				return err
			}
			data, err := store.Serialize()
			if err != nil {
				return err
			}
			return a.printer.Export(data)
		},
	}
}
