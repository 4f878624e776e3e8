package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/nlouis56/convivio-web/internal/utils"
	"github.com/nlouis56/convivio-web/language"
	"github.com/nlouis56/convivio-web/users"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

func newProfileCommand(st *state) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show your Convivio profile",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if !app.Sessions.IsLoggedIn() {
				return errors.New(app.Language.Translate("auth.not-logged-in"))
			}
			me, err := app.Users.Me(cmd.Context())
			if err != nil {
				return userError(app.Language, err, "profile.could-not-load")
			}
			printProfile(cmd.OutOrStdout(), app.Language, me)
			return nil
		}),
	}

	cmd.AddCommand(newProfileUpdateCommand(st))
	return cmd
}

func newProfileUpdateCommand(st *state) *cobra.Command {
	var email, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "update",
		Short: "Change your email or name",
		Long: `Change your email or name. Only the flags you pass are changed.

Examples:
  convivio profile update --first-name Alice --last-name Liddell`,
		Args: cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			session, ok := app.Sessions.CurrentSession()
			if !ok {
				return errors.New(app.Language.Translate("auth.not-logged-in"))
			}

			var req users.UpdateRequest
			flags := cmd.Flags()
			if flags.Changed("email") {
				req.Email = utils.Ptr(email)
			}
			if flags.Changed("first-name") {
				req.FirstName = utils.Ptr(firstName)
			}
			if flags.Changed("last-name") {
				req.LastName = utils.Ptr(lastName)
			}

			updated, err := app.Users.Update(cmd.Context(), session.UserID, req)
			if err != nil {
				return userError(app.Language, err, "profile.could-not-load")
			}
			printProfile(cmd.OutOrStdout(), app.Language, updated)
			return nil
		}),
	}

	cmd.Flags().StringVar(&email, "email", "", "New email address")
	cmd.Flags().StringVar(&firstName, "first-name", "", "New first name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "New last name")
	return cmd
}

func printProfile(out io.Writer, lang *language.Service, u *users.User) {
	t := lang.Translate
	fmt.Fprintln(out, t("profile.title"))
	fmt.Fprintf(out, "  %s: %s\n", t("auth.username"), u.Username)
	fmt.Fprintf(out, "  %s: %s\n", t("auth.email"), u.Email)
	fmt.Fprintf(out, "  %s: %s\n", t("auth.first-name"), orDash(u.FirstName))
	fmt.Fprintf(out, "  %s: %s\n", t("auth.last-name"), orDash(u.LastName))
	fmt.Fprintf(out, "  %s: %s\n", t("profile.user-id"), u.ID)
	fmt.Fprintf(out, "  %s: %s\n", t("profile.roles"), strings.Join(u.Roles, ", "))
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
