package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/me/fintrade/internal/guard"
	"github.com/me/fintrade/internal/present"
	"github.com/me/fintrade/internal/validate"
	"github.com/me/fintrade/pkg/model"
	"github.com/spf13/cobra"
)

func newAdminCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:         "admin",
		Short:       "Administer user accounts (admin only)",
		Annotations: routed(guard.Admin),
	}
	users := &cobra.Command{
		Use:   "users",
		Short: "Manage user accounts",
	}
	users.AddCommand(
		newUserListCmd(a),
		newUserShowCmd(a),
		newUserUpdateCmd(a),
		newUserToggleCmd(a),
		newUserDeleteCmd(a),
	)
	cmd.AddCommand(users)
	return cmd
}

func newUserListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all users",
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			users, err := a.client.Admin().ListUsers(cmd.Context())
			if err != nil {
				return userMessage(err, "Error loading users")
			}
			w := cmd.OutOrStdout()
			if len(users) == 0 {
				fmt.Fprintln(w, "No users found.")
				return nil
			}
			t := newTable(w, "ID", "USERNAME", "NAME", "EMAIL", "ROLE", "STATUS", "CREATED")
			for _, u := range users {
				t.row(strconv.FormatInt(u.ID, 10), u.Username, u.FullName(), u.Email, string(u.Role), statusLabel(u.Enabled), present.Date(u.CreatedAt))
			}
			return t.flush()
		}),
	}
}

func newUserShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one user",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.client.Admin().GetUser(cmd.Context(), id)
			if err != nil {
				return userMessage(err, "Error loading user")
			}
			printUser(cmd.OutOrStdout(), u)
			return nil
		}),
	}
}

func newUserUpdateCmd(a *app) *cobra.Command {
	var email, first, last, role string

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Edit a user's profile or role",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.client.Admin().GetUser(ctx, id)
			if err != nil {
				return userMessage(err, "Error loading user")
			}

			var v validate.Errors
			changed := cmd.Flags().Changed
			if changed("email") {
				u.Email = strings.TrimSpace(email)
				v.Add("email", validate.Email(u.Email))
			}
			if changed("first-name") {
				u.FirstName = strings.TrimSpace(first)
				v.Add("firstName", validate.Name("First name", u.FirstName))
			}
			if changed("last-name") {
				u.LastName = strings.TrimSpace(last)
				v.Add("lastName", validate.Name("Last name", u.LastName))
			}
			if changed("role") {
				u.Role = model.Role(strings.ToUpper(strings.TrimSpace(role)))
				if u.Role != model.RoleUser && u.Role != model.RoleAdmin {
					v.Add("role", "Role must be USER or ADMIN")
				}
			}
			if err := v.Err(); err != nil {
				return reportInvalid(cmd, err)
			}

			updated, err := a.client.Admin().UpdateUser(ctx, id, *u)
			if err != nil {
				return userMessage(err, "Error updating user")
			}
			printUser(cmd.OutOrStdout(), updated)
			return nil
		}),
	}

	f := cmd.Flags()
	f.StringVar(&email, "email", "", "Email address")
	f.StringVar(&first, "first-name", "", "First name")
	f.StringVar(&last, "last-name", "", "Last name")
	f.StringVar(&role, "role", "", "USER or ADMIN")
	return cmd
}

func newUserToggleCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "toggle <id>",
		Short: "Enable a disabled user or disable an enabled one",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.client.Admin().GetUser(ctx, id)
			if err != nil {
				return userMessage(err, "Error loading user")
			}
			action := "enable"
			if u.Enabled {
				action = "disable"
			}
			ok, err := confirm(cmd, fmt.Sprintf("Are you sure you want to %s user %s?", action, u.Username), yes)
			if err != nil || !ok {
				return err
			}

			updated, err := a.client.Admin().ToggleUserStatus(ctx, id)
			if err != nil {
				return userMessage(err, "Error toggling user status")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "User %s is now %s.\n", updated.Username, strings.ToLower(statusLabel(updated.Enabled)))
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func newUserDeleteCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a user",
		Args:  cobra.ExactArgs(1),
		RunE: a.run(func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			u, err := a.client.Admin().GetUser(ctx, id)
			if err != nil {
				return userMessage(err, "Error loading user")
			}
			q := fmt.Sprintf("Are you sure you want to delete user %s? This action cannot be undone.", u.Username)
			ok, err := confirm(cmd, q, yes)
			if err != nil || !ok {
				return err
			}
			if err := a.client.Admin().DeleteUser(ctx, id); err != nil {
				return userMessage(err, "Error deleting user")
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted user %s.\n", u.Username)
			return nil
		}),
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "Do not ask for confirmation")
	return cmd
}

func printUser(w io.Writer, u *model.User) {
	fmt.Fprintf(w, "ID:        %d\n", u.ID)
	fmt.Fprintf(w, "Username:  %s\n", u.Username)
	fmt.Fprintf(w, "Name:      %s\n", u.FullName())
	fmt.Fprintf(w, "Email:     %s\n", u.Email)
	fmt.Fprintf(w, "Role:      %s\n", u.Role)
	fmt.Fprintf(w, "Status:    %s\n", statusLabel(u.Enabled))
	fmt.Fprintf(w, "Created:   %s\n", present.DateTime(u.CreatedAt))
}

func statusLabel(enabled bool) string {
	if enabled {
		return "Active"
	}
	return "Disabled"
}
