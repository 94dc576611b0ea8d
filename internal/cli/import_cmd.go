package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a graph from a JSON file",
		Long: "Import spans and connections from a JSON file. The whole file is\n" +
			"validated first and applied atomically: a single constraint\n" +
			"violation rejects the entire import.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			sess, err := currentSession(ctx, app, cmd)
			if err != nil {
				return err
			}

			result, err := app.Imports.ImportGraph(ctx, args[0], sess)
			if err != nil {
				return err
			}

			fmt.Printf("Imported %d spans and %d connections\n",
				result.SpanCount, result.ConnectionCount)
			return nil
		},
	}

	return cmd
}
