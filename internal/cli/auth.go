package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pablasso/todo/internal/api"
	"github.com/pablasso/todo/internal/exitcode"
	"github.com/pablasso/todo/internal/session"
)

func newLoginCmd(a *app) *cobra.Command {
	var username, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in and remember the credential",
		Long: `Sign in to the todo API. The credential is stored in the config
directory and used by every other command until you log out.

Missing username or password are prompted for when running in a terminal.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if username == "" || password == "" {
				if !interactive() {
					return exitcode.User(errors.New("--username and --password are required when not running in a terminal"))
				}
				if err := runForm(loginForm(&username, &password)); err != nil {
					return err
				}
			}

			token, err := a.client("").Login(cmd.Context(), username, password)
			if err != nil {
				if api.IsUnauthorized(err) {
					return exitcode.Auth(errors.New("invalid username or password"))
				}
				return err
			}

			cred := session.Credential{Token: token, Username: username, CreatedAt: time.Now().UTC()}
			if err := a.storage.Save(cred); err != nil {
				return err
			}
			a.logger.Info("logged in", "username", username)
			fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", username)
			return nil
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&password, "password", "p", "", "account password")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the stored credential",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := a.storage.Remove(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func newRegisterCmd(a *app) *cobra.Command {
	var in registerInput

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if in.name == "" || in.email == "" || in.username == "" || in.password == "" {
				if !interactive() {
					return exitcode.User(errors.New("--name, --email, --username and --password are required when not running in a terminal"))
				}
				if err := runForm(registerForm(&in)); err != nil {
					return err
				}
			}

			reg := api.Registration{Name: in.name, Email: in.email, Username: in.username, Password: in.password}
			if err := a.client("").Register(cmd.Context(), reg); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Account created. Run 'todo login -u %s' to sign in.\n", in.username)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.name, "name", "", "your name")
	cmd.Flags().StringVar(&in.email, "email", "", "email address")
	cmd.Flags().StringVarP(&in.username, "username", "u", "", "account username")
	cmd.Flags().StringVarP(&in.password, "password", "p", "", "account password")
	return cmd
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := a.authedClient()
			if err != nil {
				return err
			}
			sess, err := client.FetchSession(cmd.Context())
			if err != nil {
				return a.checkAuth(err)
			}
			if sess == nil {
				return exitcode.Auth(errors.New("not logged in; run 'todo login' first"))
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s (@%s)\n", sess.Name, sess.Username)
			return nil
		},
	}
}
