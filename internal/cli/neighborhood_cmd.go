package cli

import (
	"context"
	"fmt"

	"github.com/nswan/lifeweave/internal/cli/formatter"
	"github.com/nswan/lifeweave/internal/service"
	"github.com/spf13/cobra"
)

func newNeighborhoodCmd(app *App) *cobra.Command {
	var depth int

	cmd := &cobra.Command{
		Use:     "neighborhood <span>",
		Aliases: []string{"nbhd"},
		Short:   "Walk the connection graph around a span",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			root, err := app.Spans.Resolve(ctx, args[0], sess)
			if err != nil {
				return err
			}

			edges, err := app.Graph.Neighborhood(ctx, root.ID, depth, sess)
			if err != nil {
				return err
			}

			if len(edges) == 0 {
				fmt.Printf("%s has no visible connections.\n", root.Name)
				return nil
			}

			fmt.Println(formatter.FormatNeighborhood(root.Name, neighborhoodItems(edges)))
			return nil
		},
	}

	cmd.Flags().IntVar(&depth, "depth", 2, "Expansion depth (1 or 2)")

	return cmd
}

// neighborhoodItems interleaves hop-2 edges beneath the hop-1 neighbor
// they were reached through and marks the last child of every branch
// for tree connectors.
func neighborhoodItems(edges []service.NeighborhoodEdge) []formatter.NeighborhoodItem {
	byVia := make(map[string][]service.NeighborhoodEdge)
	var hop1 []service.NeighborhoodEdge
	for _, e := range edges {
		if e.Hop == 1 {
			hop1 = append(hop1, e)
		} else {
			byVia[e.ViaID] = append(byVia[e.ViaID], e)
		}
	}

	items := make([]formatter.NeighborhoodItem, 0, len(edges))
	for i, e := range hop1 {
		items = append(items, formatter.NeighborhoodItem{
			Hop:       1,
			Predicate: e.Predicate,
			Neighbor:  e.Neighbor.Name,
			When:      formatter.FormatInterval(e.ConnectionSpan.Interval()),
			IsLast:    i == len(hop1)-1 && len(byVia[e.Neighbor.ID]) == 0,
		})
		children := byVia[e.Neighbor.ID]
		for j, c := range children {
			items = append(items, formatter.NeighborhoodItem{
				Hop:       2,
				ViaID:     c.ViaID,
				Predicate: c.Predicate,
				Neighbor:  c.Neighbor.Name,
				When:      formatter.FormatInterval(c.ConnectionSpan.Interval()),
				IsLast:    j == len(children)-1,
			})
		}
	}

	return items
}
