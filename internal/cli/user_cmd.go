package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nswan/lifeweave/internal/cli/formatter"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/spf13/cobra"
)

func newUserCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "user",
		Short: "Manage users",
	}

	cmd.AddCommand(
		newUserAddCmd(app),
		newUserListCmd(app),
		newUserPersonalSpanCmd(app),
	)

	return cmd
}

func newUserAddCmd(app *App) *cobra.Command {
	var id, name string
	var admin bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new user",
		RunE: func(cmd *cobra.Command, args []string) error {
			u := &domain.User{
				ID:      id,
				Name:    name,
				IsAdmin: admin,
			}
			if u.ID == "" {
				u.ID = uuid.New().String()
			}

			if err := app.Users.Create(context.Background(), u); err != nil {
				return err
			}

			fmt.Printf("Created user %s (%s)\n", u.Name, u.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&id, "id", "", "User ID (generated when empty)")
	cmd.Flags().StringVar(&name, "name", "", "Display name")
	cmd.Flags().BoolVar(&admin, "admin", false, "Grant admin authority")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newUserListCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List users",
		RunE: func(cmd *cobra.Command, args []string) error {
			users, err := app.Users.List(context.Background())
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatUserList(users))
			return nil
		},
	}

	return cmd
}

func newUserPersonalSpanCmd(app *App) *cobra.Command {
	var clear bool

	cmd := &cobra.Command{
		Use:   "personal-span [span]",
		Short: "Designate the span that represents the acting user",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			userID := currentUserID(cmd)

			if clear {
				if err := app.Users.SetPersonalSpan(ctx, userID, ""); err != nil {
					return err
				}
				fmt.Println("Cleared personal span")
				return nil
			}

			if len(args) == 0 {
				return fmt.Errorf("a span reference or --clear is required")
			}

			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}
			s, err := app.Spans.Resolve(ctx, args[0], sess)
			if err != nil {
				return err
			}

			if err := app.Users.SetPersonalSpan(ctx, userID, s.ID); err != nil {
				return err
			}

			fmt.Printf("Personal span set to %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().BoolVar(&clear, "clear", false, "Remove the designation")

	return cmd
}

func newGroupCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "group",
		Short: "Manage permission groups",
	}

	cmd.AddCommand(
		newGroupCreateCmd(app),
		newGroupAddCmd(app),
		newGroupRemoveCmd(app),
	)

	return cmd
}

func newGroupCreateCmd(app *App) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a group owned by the acting user",
		RunE: func(cmd *cobra.Command, args []string) error {
			g := &domain.Group{
				ID:      uuid.New().String(),
				OwnerID: currentUserID(cmd),
				Name:    name,
			}

			if err := app.Users.CreateGroup(context.Background(), g); err != nil {
				return err
			}

			fmt.Printf("Created group %s (%s)\n", g.Name, g.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Group name")
	_ = cmd.MarkFlagRequired("name")

	return cmd
}

func newGroupAddCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "add <group-id> <user-id>",
		Short: "Add a user to a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Users.AddGroupMember(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Added group member")
			return nil
		},
	}

	return cmd
}

func newGroupRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <group-id> <user-id>",
		Short: "Remove a user from a group",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Users.RemoveGroupMember(context.Background(), args[0], args[1]); err != nil {
				return err
			}
			fmt.Println("Removed group member")
			return nil
		},
	}

	return cmd
}

func newGrantCmd(app *App) *cobra.Command {
	var span, user, group, permType string

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Grant view or edit on a shared span",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			if (user == "") == (group == "") {
				return fmt.Errorf("exactly one of --to-user and --to-group is required")
			}

			s, err := app.Spans.Resolve(ctx, span, sess)
			if err != nil {
				return err
			}

			p := &domain.SpanPermission{
				ID:      uuid.New().String(),
				SpanID:  s.ID,
				UserID:  user,
				GroupID: group,
				Type:    domain.PermissionType(permType),
			}

			if err := app.Users.Grant(ctx, p, sess); err != nil {
				return err
			}

			fmt.Printf("Granted %s on %s (%s)\n", p.Type, s.Name, p.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&span, "span", "", "Span to grant on (slug, name, or ID)")
	cmd.Flags().StringVar(&user, "to-user", "", "Grantee user ID")
	cmd.Flags().StringVar(&group, "to-group", "", "Grantee group ID")
	cmd.Flags().StringVar(&permType, "type", "view", "Permission type (view, edit)")
	_ = cmd.MarkFlagRequired("span")

	return cmd
}

func newRevokeCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "revoke <permission-id>",
		Short: "Revoke a permission grant",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			if err := app.Users.Revoke(ctx, args[0], sess); err != nil {
				return err
			}

			fmt.Println("Revoked permission")
			return nil
		},
	}

	return cmd
}
