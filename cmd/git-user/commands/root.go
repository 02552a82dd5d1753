package commands

import (
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/keeper-security/git-user/internal/audit"
	"github.com/keeper-security/git-user/internal/config"
	"github.com/keeper-security/git-user/internal/gitrepo"
	"github.com/keeper-security/git-user/internal/logging"
	"github.com/keeper-security/git-user/internal/storage"
	"github.com/keeper-security/git-user/internal/ui"
)

var version = "dev"

// app carries everything a command needs once flags are parsed. It is built
// per invocation and passed to every command explicitly.
type app struct {
	stdout   io.Writer
	stderr   io.Writer
	settings *config.Settings
	logger   zerolog.Logger
	audit    *audit.Logger
	printer  *ui.Printer
	writer   *gitrepo.Writer
}

// SetVersion sets the version for the CLI
func SetVersion(v string) {
	version = v
}

// Run executes the command line and returns the process exit code.
func Run(args []string, stdout, stderr io.Writer) int {
	a := &app{
		stdout:  stdout,
		stderr:  stderr,
		logger:  zerolog.Nop(),
		printer: ui.NewPrinter(stdout, stderr),
	}
	defer a.close()

	root := newRootCmd(a)
	root.SetArgs(args)
	if err := root.Execute(); err != nil {
		a.printer.Error(err)
		return 1
	}
	return 0
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "git-user",
		Short: "Manage Git users.",
		Long: `Keep named git identities (name, email, signing key, SSH command) in one
JSON file and switch a repository to any of them.

Profiles are stored in ~/.gitusers unless --config or GIT_USER_CONFIG says otherwise.`,
		Version:       version,
		SilenceErrors: true,
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.setup(cmd)
		},
	}

	root.SetOut(a.stdout)
	root.SetErr(a.stderr)

	root.PersistentFlags().StringP("config", "c", config.DefaultStoreFile, "Custom config file path")
	root.PersistentFlags().Bool("verbose", false, "verbose output")

	root.AddCommand(
		newAddCmd(a),
		newDeleteCmd(a),
		newExportCmd(a),
		newListCmd(a),
		newUseCmd(a),
	)
	return root
}

// setup resolves settings and builds the logger, audit log and repo writer.
func (a *app) setup(cmd *cobra.Command) error {
	settings, err := config.Load(cmd.Flags())
	if err != nil {
		return err
	}
	a.settings = settings
	a.logger = logging.New(a.stderr, settings.LogLevel)
	a.writer = gitrepo.NewWriter(a.logger)

	a.audit = audit.Disabled()
	if settings.AuditFile != "" {
		auditLogger, err := audit.NewLogger(audit.Config{FilePath: settings.AuditFile})
		if err != nil {
			return err
		}
		a.audit = auditLogger
	}
	return nil
}

func (a *app) close() {
	if err := a.audit.Close(); err != nil {
		a.logger.Warn().Err(err).Msg("failed to close audit log")
	}
}

// loadStore loads the profile store, creating it when missing.
func (a *app) loadStore() (*storage.ProfileStore, error) {
	store, err := storage.LoadOrCreate(a.settings.StorePath)
	if err != nil {
		return nil, err
	}
	a.logger.Debug().Str("path", a.settings.StorePath).Int("profiles", store.Len()).Msg("loaded profile store")
	return store, nil
}

// saveStore writes the whole store back to its path.
func (a *app) saveStore(store *storage.ProfileStore) error {
	if err := store.Save(a.settings.StorePath); err != nil {
		a.audit.LogError("store", err, map[string]interface{}{"path": a.settings.StorePath})
		return err
	}
	a.logger.Debug().Str("path", a.settings.StorePath).Int("profiles", store.Len()).Msg("saved profile store")
	return nil
}

// exactArgs is cobra.ExactArgs with the argument names in the message.
func exactArgs(names ...string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) != len(names) {
			return fmt.Errorf("%s expects %d argument(s) (%v), got %d", cmd.Name(), len(names), names, len(args))
		}
		return nil
	}
}
