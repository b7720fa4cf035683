package cli

import (
	"fmt"

	"github.com/go-faster/errors"
	"github.com/spf13/cobra"

	"github.com/xenking/otamanga-storefront/internal/apiclient"
	"github.com/xenking/otamanga-storefront/internal/domain/auth"
	"github.com/xenking/otamanga-storefront/internal/session"
	"github.com/xenking/otamanga-storefront/internal/storefront"
)

func loginCommand(rt *runtime) *cobra.Command {
	var creds auth.Credentials
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in as an administrator",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := rt.account().Login(cmd.Context(), creds)
			if err != nil {
				return err
			}
			name := s.Name
			if name == "" {
				name = creds.Email
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", name)
			return nil
		},
	}
	cmd.Flags().StringVar(&creds.Email, "email", "", "account email")
	cmd.Flags().StringVar(&creds.Password, "password", "", "account password")
	return cmd
}

func registerCommand(rt *runtime) *cobra.Command {
	var f storefront.RegisterForm
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an administrator account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := rt.account().Register(cmd.Context(), f); err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Registered %s, you can now log in\n", f.Email)
			return nil
		},
	}
	cmd.Flags().StringVar(&f.Name, "name", "", "display name")
	cmd.Flags().StringVar(&f.Email, "email", "", "account email")
	cmd.Flags().StringVar(&f.Password, "password", "", "account password")
	cmd.Flags().StringVar(&f.ConfirmPassword, "confirm-password", "", "repeat the password")
	return cmd
}

func logoutCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "End the current session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			err := rt.account().Logout(cmd.Context())
			if err != nil && !apiclient.IsUnauthorized(err) {
				return err
			}
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
			return nil
		},
	}
}

func whoamiCommand(rt *runtime) *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := rt.account()
			payload, err := a.Current()
			if errors.Is(err, session.ErrNotFound) {
				return errors.New("not logged in")
			}
			if err != nil {
				return err
			}
			s, err := apiclient.ParseSession(payload)
			if err != nil {
				return err
			}

			st, err := a.Check(cmd.Context())
			if err != nil {
				return err
			}
			name, email := st.Name, st.Email
			if name == "" {
				name = s.Name
			}
			if email == "" {
				email = s.Email
			}
			t := newTable(cmd.OutOrStdout(), "NAME", "EMAIL", "ROLE", "AUTHENTICATED")
			t.row(dash(name), dash(email), dash(st.Role), st.Authenticated)
			return t.flush()
		},
	}
}
