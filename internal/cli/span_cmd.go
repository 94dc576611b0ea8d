package cli

import (
	"context"
	"fmt"

	"github.com/nswan/lifeweave/internal/cli/formatter"
	"github.com/nswan/lifeweave/internal/domain"
	"github.com/spf13/cobra"
)

func newSpanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "span",
		Short: "Manage spans",
	}

	cmd.AddCommand(
		newSpanAddCmd(app),
		newSpanListCmd(app),
		newSpanInspectCmd(app),
		newSpanUpdateCmd(app),
		newSpanRemoveCmd(app),
	)

	return cmd
}

// parseOptionalDate parses a partial date flag, treating "" as unset.
func parseOptionalDate(flag, value string) (domain.PartialDate, error) {
	if value == "" {
		return domain.PartialDate{}, nil
	}
	d, err := domain.ParsePartialDate(value)
	if err != nil {
		return domain.PartialDate{}, fmt.Errorf("invalid --%s %q: %w", flag, value, err)
	}
	return d, nil
}

func newSpanAddCmd(app *App) *cobra.Command {
	var name, typeStr, start, end, state, access, slug string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new span",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			// With no --name on a terminal, fall through to the wizard.
			if name == "" {
				if app.IsInteractive == nil || !app.IsInteractive() {
					return fmt.Errorf("--name is required")
				}
				if err := runSpanWizard(&name, &typeStr, &start, &end, &access); err != nil {
					return err
				}
			}

			startDate, err := parseOptionalDate("start", start)
			if err != nil {
				return err
			}
			endDate, err := parseOptionalDate("end", end)
			if err != nil {
				return err
			}

			s := &domain.Span{
				Type:        domain.SpanType(typeStr),
				Name:        name,
				Slug:        slug,
				Start:       startDate,
				End:         endDate,
				State:       domain.SpanState(state),
				AccessLevel: domain.AccessLevel(access),
			}

			if err := app.Spans.Create(ctx, s, sess); err != nil {
				return err
			}

			fmt.Printf("Created %s span %s (%s)\n", s.Type, s.Name, s.DisplayID())
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "Span name")
	cmd.Flags().StringVar(&typeStr, "type", "person", "Span type (person, organisation, place, event, thing, role, set, note)")
	cmd.Flags().StringVar(&start, "start", "", "Start date (YYYY, YYYY-MM, or YYYY-MM-DD)")
	cmd.Flags().StringVar(&end, "end", "", "End date (YYYY, YYYY-MM, or YYYY-MM-DD)")
	cmd.Flags().StringVar(&state, "state", "", "Lifecycle state (placeholder, draft, complete; default draft)")
	cmd.Flags().StringVar(&access, "access", "", "Access level (public, private, shared; default private)")
	cmd.Flags().StringVar(&slug, "slug", "", "URL-safe identifier (derived from the name when empty)")

	return cmd
}

func newSpanListCmd(app *App) *cobra.Command {
	var typeStr string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List visible spans",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			spans, err := app.Spans.List(ctx, domain.SpanType(typeStr), sess)
			if err != nil {
				return err
			}

			if len(spans) == 0 {
				fmt.Println("No spans found.")
				return nil
			}

			fmt.Println(formatter.FormatSpanList(spans))
			return nil
		},
	}

	cmd.Flags().StringVar(&typeStr, "type", "", "Filter by span type")

	return cmd
}

func newSpanInspectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect <span>",
		Short: "Show a span with its direct connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			s, err := app.Spans.Resolve(ctx, args[0], sess)
			if err != nil {
				return err
			}

			edges, err := app.Graph.Neighborhood(ctx, s.ID, 1, sess)
			if err != nil {
				return err
			}

			lines := make([]formatter.ConnectionLine, 0, len(edges))
			for _, e := range edges {
				lines = append(lines, formatter.ConnectionLine{
					Predicate: e.Predicate,
					Neighbor:  e.Neighbor.Name,
					When:      formatter.FormatInterval(e.ConnectionSpan.Interval()),
				})
			}

			fmt.Println(formatter.FormatSpanInspect(s, lines))
			return nil
		},
	}

	return cmd
}

func newSpanUpdateCmd(app *App) *cobra.Command {
	var name, start, end, state, access string

	cmd := &cobra.Command{
		Use:   "update <span>",
		Short: "Update a span's fields",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			s, err := app.Spans.Resolve(ctx, args[0], sess)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("name") {
				s.Name = name
			}
			if cmd.Flags().Changed("start") {
				s.Start, err = parseOptionalDate("start", start)
				if err != nil {
					return err
				}
				s.StartPrecision = s.Start.Precision()
			}
			if cmd.Flags().Changed("end") {
				s.End, err = parseOptionalDate("end", end)
				if err != nil {
					return err
				}
				s.EndPrecision = s.End.Precision()
			}
			if cmd.Flags().Changed("state") {
				s.State = domain.SpanState(state)
			}
			if cmd.Flags().Changed("access") {
				s.AccessLevel = domain.AccessLevel(access)
			}

			if err := app.Spans.Update(ctx, s, sess); err != nil {
				return err
			}

			fmt.Printf("Updated span %s\n", s.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "New name")
	cmd.Flags().StringVar(&start, "start", "", "New start date (empty to clear)")
	cmd.Flags().StringVar(&end, "end", "", "New end date (empty to clear)")
	cmd.Flags().StringVar(&state, "state", "", "New lifecycle state")
	cmd.Flags().StringVar(&access, "access", "", "New access level")

	return cmd
}

func newSpanRemoveCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "remove <span>",
		Short: "Delete a span and its connections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			s, err := app.Spans.Resolve(ctx, args[0], sess)
			if err != nil {
				return err
			}

			if err := app.Spans.Delete(ctx, s.ID, sess); err != nil {
				return err
			}

			fmt.Printf("Removed span %s\n", s.Name)
			return nil
		},
	}

	return cmd
}
