package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/nlouis56/convivio-web/authapi"
	"github.com/spf13/cobra"
)

func newRegisterCommand(st *state) *cobra.Command {
	var req authapi.RegistrationRequest

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a Convivio account",
		Long: `Create a Convivio account. Registering does not log you in.

Examples:
  convivio register --username alice --email alice@example.com --password secret`,
		Args: cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			if err := app.Sessions.Register(cmd.Context(), req); err != nil {
				return userError(app.Language, err, "auth.register-error")
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate("auth.register-success"))
			return nil
		}),
	}

	cmd.Flags().StringVar(&req.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address (required)")
	cmd.Flags().StringVar(&req.Password, "password", "", "Password, at least 6 characters (required)")
	cmd.Flags().StringVar(&req.FirstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&req.LastName, "last-name", "", "Last name")
	return cmd
}

func newLoginCommand(st *state) *cobra.Command {
	var creds authapi.Credentials

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and keep the session locally",
		Long: `Log in to Convivio. Logging in while already logged in replaces the
current session.

Examples:
  convivio login --username alice --password secret`,
		Args: cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			session, err := app.Sessions.Login(cmd.Context(), creds)
			if err != nil {
				return userError(app.Language, err, "auth.login-error")
			}
			fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate("auth.logged-in-as", session.Username))
			return nil
		}),
	}

	cmd.Flags().StringVar(&creds.Username, "username", "", "Username (required)")
	cmd.Flags().StringVar(&creds.Password, "password", "", "Password (required)")
	return cmd
}

func newLogoutCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the local session",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			app.Sessions.Logout()
			fmt.Fprintln(cmd.OutOrStdout(), app.Language.Translate("auth.logged-out"))
			return nil
		}),
	}
}

func newWhoamiCommand(st *state) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the current session",
		Args:  cobra.NoArgs,
		RunE: st.withApp(func(cmd *cobra.Command, args []string, app *App) error {
			out := cmd.OutOrStdout()
			session, ok := app.Sessions.CurrentSession()
			if !ok {
				fmt.Fprintln(out, app.Language.Translate("auth.not-logged-in"))
				return nil
			}

			t := app.Language.Translate
			fmt.Fprintln(out, t("auth.logged-in-as", session.Username))
			fmt.Fprintf(out, "  %s: %s\n", t("profile.user-id"), session.UserID)
			fmt.Fprintf(out, "  %s: %s\n", t("auth.email"), session.Email)
			fmt.Fprintf(out, "  %s: %s\n", t("profile.roles"), strings.Join(session.Roles, ", "))
			if exp, ok := session.ExpiresAt(); ok {
				fmt.Fprintf(out, "  expires: %s\n", exp.Local().Format(time.RFC1123))
			}
			return nil
		}),
	}
}
