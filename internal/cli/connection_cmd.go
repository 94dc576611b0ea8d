package cli

import (
	"context"
	"fmt"

	"github.com/nswan/lifeweave/internal/cli/formatter"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/service"
	"github.com/spf13/cobra"
)

func newConnectionCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "connection",
		Aliases: []string{"conn"},
		Short:   "Manage connections between spans",
	}

	cmd.AddCommand(
		newConnectionAddCmd(app),
		newConnectionShowCmd(app),
		newConnectionUpdateCmd(app),
		newConnectionRemoveCmd(app),
		newConnectionTypesCmd(app),
	)

	return cmd
}

// forwardPredicate looks the forward predicate up in the catalog,
// falling back to the raw type key.
func forwardPredicate(ctx context.Context, app *App, typeKey string) string {
	types, err := app.Connections.ListTypes(ctx)
	if err != nil {
		return typeKey
	}
	for _, ct := range types {
		if ct.Type == typeKey {
			return ct.ForwardPredicate
		}
	}
	return typeKey
}

func newConnectionAddCmd(app *App) *cobra.Command {
	var parent, child, childName, childType, typeStr, start, end string
	var inverse bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Connect two spans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			parentSpan, err := app.Spans.Resolve(ctx, parent, sess)
			if err != nil {
				return err
			}

			in := service.CreateConnectionInput{
				ParentID: parentSpan.ID,
				Type:     typeStr,
			}
			if inverse {
				in.Direction = domain.DirectionInverse
			}

			switch {
			case child != "":
				childSpan, err := app.Spans.Resolve(ctx, child, sess)
				if err != nil {
					return err
				}
				in.ChildID = childSpan.ID
			case childName != "":
				// Quick-add: the target does not exist yet, create it as
				// a placeholder.
				in.ChildName = childName
				in.ChildType = domain.SpanType(childType)
			default:
				return fmt.Errorf("either --child or --child-name is required")
			}

			if in.Start, err = parseOptionalDate("start", start); err != nil {
				return err
			}
			if in.End, err = parseOptionalDate("end", end); err != nil {
				return err
			}

			detail, err := app.Connections.Create(ctx, in, sess)
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatConnection(
				detail.Parent, detail.Child,
				forwardPredicate(ctx, app, detail.Connection.Type),
				detail.ConnectionSpan.Interval()))
			fmt.Printf("Connection %s\n", formatter.TruncID(detail.Connection.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&parent, "parent", "", "Parent span (slug, name, or ID)")
	cmd.Flags().StringVar(&child, "child", "", "Child span (slug, name, or ID)")
	cmd.Flags().StringVar(&childName, "child-name", "", "Create a placeholder target with this name")
	cmd.Flags().StringVar(&childType, "child-type", "person", "Span type for the placeholder target")
	cmd.Flags().StringVar(&typeStr, "type", "", "Connection type (see \"connection types\")")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY, YYYY-MM, or YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date")
	cmd.Flags().BoolVar(&inverse, "inverse", false, "Swap the endpoint roles (\"was child of\" instead of \"was parent of\")")
	_ = cmd.MarkFlagRequired("parent")
	_ = cmd.MarkFlagRequired("type")

	return cmd
}

func newConnectionShowCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <connection-id>",
		Short: "Show a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			detail, err := app.Connections.GetByID(ctx, args[0], sess)
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatConnection(
				detail.Parent, detail.Child,
				forwardPredicate(ctx, app, detail.Connection.Type),
				detail.ConnectionSpan.Interval()))
			return nil
		},
	}

	return cmd
}

func newConnectionUpdateCmd(app *App) *cobra.Command {
	var start, end string

	cmd := &cobra.Command{
		Use:   "update <connection-id>",
		Short: "Re-date a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}

			if err := app.Connections.UpdateInterval(ctx, args[0], startDate, endDate, sess); err != nil {
				return err
			}

			fmt.Println("Updated connection dates")
			return nil
		},
	}

	cmd.Flags().StringVar(&start, "start", "", "New start date (empty to clear)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (empty to clear)")

	return cmd
}

func newConnectionRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <connection-id>",
		Short: "Delete a connection",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			if err := app.Connections.Delete(ctx, args[0], sess); err != nil {
				return err
			}

			fmt.Println("Removed connection")
			return nil
		},
	}

	return cmd
}

func newConnectionTypesCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "types",
		Short: "List the connection-type catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			types, err := app.Connections.ListTypes(context.Background())
			if err != nil {
				return err
			}

			fmt.Println(formatter.FormatConnectionTypes(types))
			return nil
		},
	}

	return cmd
}
