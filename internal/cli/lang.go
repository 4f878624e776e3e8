package cli

import (
	"fmt"

	"github.com/nlouis56/convivio-web/language"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newLangCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "lang [code]",
		Short: "Show or change the display language",
		Long: `Without an argument, list the available languages and mark the current
one. With a language code, switch to it.

Examples:
  convivio lang
  convivio lang fr-FR`,
		Args: cobra.MaximumNArgs(1),
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			out := cmd.OutOrStdout()
			if len(args) == 0 {
				current := app.Language.Current()
				for _, lang := range language.Available {
					marker := " "
					if lang.Code == current {
						marker = "*"
					}
					fmt.Fprintf(out, "%s %s %s (%s)\n", marker, lang.Flag, lang.Name, lang.Code)
				}
				return nil
			}

			code := args[0]
			ok, err := app.Language.Set(code)
			if err != nil {
				return err
			}
			if !ok {
				return errors.New(app.Language.Translate("language.unknown", code))
			}
			fmt.Fprintf(out, "%s %s\n", language.Flag(code), app.Language.Translate("language.changed", language.Name(code)))
			return nil
		}),
	}
}
