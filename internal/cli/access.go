package cli

import (
	"fmt"
	"os"

	"github.com/nlouis56/convivio-web/guard"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newAccessCommand(st *state) *cobra.Command {
	var routesFile string

	cmd := &cobra.Command{
		Use:   "access <url>",
		Short: "Check whether the current session may open a page",
		Long: `Run the route guard for a page of the Convivio site and print either
"Access granted" or where the visitor would be redirected.

Examples:
  convivio access /profile
  convivio access /events/42/edit
  convivio access --routes routes.yaml /admin`,
		Args: cobra.ExactArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			g := app.Guard
			if routesFile != "" {
				loaded, err := loadGuard(routesFile)
				if err != nil {
					return err
				}
				g = loaded
			}

			decision := g.Check(app.Sessions, args[0])
			if decision.Allowed() {
				fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate("access.allowed"))
				return nil
			}
			fmt.Fprintf(cmd.OutOrStdout(), "-> %s\n", decision.RedirectTo)
			return nil
		}),
	}

	cmd.Flags().StringVar(&routesFile, "routes", "", "YAML route table to use instead of the built-in one")
	return cmd
}

func loadGuard(path string) (*guard.Guard, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open route table")
	}
	defer f.Close()

	routes, err := guard.LoadRoutes(f)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid route table %s", path)
	}
	return guard.New(routes), nil
}
