// Package cli implements the convivio command line client.
package cli

import (
	"context"

	"github.com/nlouis56/convivio-web/internal/config"
	"github.com/spf13/cobra"
)

// state is shared by every command of one root command.
type state struct {
	envFiles []string
	logLevel string
	cfg      config.Config
}

// NewRootCommand builds the convivio command tree.
func NewRootCommand() *cobra.Command {
	st := &state{}

	root := &cobra.Command{
		Use:   "convivio",
		Short: "Convivio events and places client",
		Long: `convivio manages your Convivio session from the command line.

Credentials are kept in a local sqlite database (STORAGE_PATH) unless
STORAGE_MODE=inert, in which case nothing is persisted.

Examples:
  convivio register --username alice --email alice@example.com --password secret
  convivio login --username alice --password secret
  convivio access /events/create
  convivio events --upcoming
  convivio places --category bar
  convivio lang fr-FR
  convivio logout`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			st.cfg = config.New(st.envFiles...)
			level := st.logLevel
			if level == "" {
				level = st.cfg.GetLogLevel()
			}
			setupLogger(cmd.ErrOrStderr(), level)
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&st.envFiles, "env-file", nil, "Env files to load (default .env)")
	root.PersistentFlags().StringVar(&st.logLevel, "log-level", "", "Log level (overrides LOG_LEVEL)")

	root.AddCommand(
		newRegisterCommand(st),
		newLoginCommand(st),
		newLogoutCommand(st),
		newWhoamiCommand(st),
		newAccessCommand(st),
		newLangCommand(st),
		newProfileCommand(st),
		newEventsCommand(st),
		newPlacesCommand(st),
		newStubAPICommand(st),
	)
	return root
}

// Execute runs the convivio command tree with os.Args
func Execute(ctx context.Context) error {
	return NewRootCommand().ExecuteContext(ctx)
}

// withApp opens the App for the duration of one command.
func (st *state) withApp(run func(cmd *cobra.Command, args []string, app *App) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		app, err := NewApp(st.cfg)
		if err != nil {
			return err
		}
		defer app.Close()
		return run(cmd, args, app)
	}
}
