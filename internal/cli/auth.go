package cli

import (
	"errors"
	"fmt"

	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/present"
	"github.com/me/fintrade/internal/session"
	"github.com/me/fintrade/internal/validate"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var req model.LoginRequest

	cmd := &cobra.Command{
		Use:         "login",
		Short:       "Sign in to FinTrade",
		Long:        "Sign in with your username and password. Missing values are prompted for.",
		Annotations: routed(guard.Login),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if cur := a.sessions.Current(); cur != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "Already signed in as %s. Run 'fintrade logout' first.\n", cur.Username)
				return nil
			}

			err := fill(cmd, "Sign in",
				field{flag: "username", title: "Username", value: &req.Username},
				field{flag: "password", title: "Password", value: &req.Password, secret: true},
			)
			if err != nil {
				return err
			}
			if err := validate.Login(req); err != nil {
				return reportInvalid(cmd, err)
			}

			sess, err := a.sessions.Login(cmd.Context(), req)
			if err != nil {
				if errors.Is(err, session.ErrSuperseded) {
					return errors.New("sign-in cancelled")
				}
				return err
			}

			a.nav.Navigate(guard.Dashboard.Path())
			fmt.Fprintf(cmd.OutOrStdout(), "Welcome back, %s!\n", sess.DisplayName)
			return nil
		}),
	}

	cmd.Flags().StringVarP(&req.Username, "username", "u", "", "Username (prompted if omitted)")
	cmd.Flags().StringVarP(&req.Password, "password", "p", "", "Password (prompted if omitted)")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var req model.RegisterRequest

	cmd := &cobra.Command{
		Use:         "register",
		Short:       "Create a FinTrade account",
		Annotations: routed(guard.Register),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			err := fill(cmd, "Create your account",
				field{flag: "first-name", title: "First name", value: &req.FirstName,
					validate: func(s string) string { return validate.Name("First name", s) }},
				field{flag: "last-name", title: "Last name", value: &req.LastName,
					validate: func(s string) string { return validate.Name("Last name", s) }},
				field{flag: "username", title: "Username", value: &req.Username, validate: validate.Username},
				field{flag: "email", title: "Email", value: &req.Email, validate: validate.Email},
				field{flag: "password", title: "Password", value: &req.Password, secret: true, validate: validate.Password},
			)
			if err != nil {
				return err
			}
			if err := validate.Register(req); err != nil {
				return reportInvalid(cmd, err)
			}

			if _, err := a.client.Auth().SignUp(cmd.Context(), req); err != nil {
				return userMessage(err, "Registration failed. Please try again.")
			}
			fmt.Fprintln(cmd.OutOrStdout(), styleSuccess.Render("Account created successfully! Please sign in."))
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&req.Username, "username", "", "Username (3-50 letters, digits or underscores)")
	f.StringVar(&req.Email, "email", "", "Email address")
	f.StringVar(&req.Password, "password", "", "Password (6-100 characters, upper, lower and digit)")
	f.StringVar(&req.FirstName, "first-name", "", "First name")
	f.StringVar(&req.LastName, "last-name", "", "Last name")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the stored token",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			if !a.sessions.IsAuthenticated() {
				fmt.Fprintln(cmd.OutOrStdout(), "Not signed in.")
				return nil
			}
			a.sessions.Logout()
			a.nav.Navigate(guard.Login.Path())
			return nil
		}),
	}
}

func newWhoamiCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:         "whoami",
		Short:       "Show the signed-in user",
		Annotations: routed(guard.Dashboard),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			sess := a.sessions.Current()
			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Username: %s\n", sess.Username)
			if sess.DisplayName != "" && sess.DisplayName != sess.Username {
				fmt.Fprintf(w, "Name:     %s\n", sess.DisplayName)
			}
			if sess.Email != "" {
				fmt.Fprintf(w, "Email:    %s\n", sess.Email)
			}
			fmt.Fprintf(w, "Role:     %s\n", sess.Role)
			if info, err := session.ParseToken(a.sessions.Token()); err == nil && !info.Expiry.IsZero() {
				label := "expires"
				if info.IsExpired() {
					label = "expired"
				}
				fmt.Fprintf(w, "Token:    %s %s\n", label, present.Until(info.Expiry))
			}
			return nil
		}),
	}
}
