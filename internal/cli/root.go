package cli

import (
	"context"
	"os"

	"github.com/nswan/lifeweave/internal/domain"
	"github.com/nswan/lifeweave/internal/service"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// GuestUser is the reserved --user value for an anonymous session.
const GuestUser = "guest"

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Spans       service.SpanService
	Connections service.ConnectionService
	Graph       service.GraphService
	Users       service.UserService
	Sessions    service.SessionService
	Imports     service.ImportService

	// IsInteractive reports whether stdin is a terminal; it gates the
	// wizard prompts.
	IsInteractive func() bool
}

// NewRootCmd creates the top-level "lifeweave" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:   "lifeweave",
		Short: "Temporal connection graph for people, places, and things",
	}

	root.PersistentFlags().String("user", "", "Acting user (defaults to $LIFEWEAVE_USER, then \"default\"; \"guest\" for anonymous)")

	root.AddCommand(
		newSpanCmd(app),
		newConnectionCmd(app),
		newNeighborhoodCmd(app),
		newUserCmd(app),
		newGroupCmd(app),
		newGrantCmd(app),
		newRevokeCmd(app),
		newAdminCmd(app),
		newLogoutCmd(app),
		newImportCmd(app),
	)

	return root
}

// userFlag reads the persistent --user flag, tolerating flag sets that
// never registered it.
func userFlag(flags *pflag.FlagSet) string {
	user, _ := flags.GetString("user")
	return user
}

// currentUserID resolves the acting user from the --user flag, the
// LIFEWEAVE_USER environment variable, or the seeded default account.
func currentUserID(cmd *cobra.Command) string {
	user := userFlag(cmd.Flags())
	if user == "" {
		user = os.Getenv("LIFEWEAVE_USER")
	}
	if user == "" {
		user = "default"
	}
	return user
}

// currentSession loads the acting user's session context. The guest
// user maps to a nil context, which every access check treats as an
// anonymous viewer.
func currentSession(ctx context.Context, app *App, cmd *cobra.Command) (*domain.SessionContext, error) {
	user := currentUserID(cmd)
	if user == GuestUser {
		return nil, nil
	}
	return app.Sessions.Session(ctx, user)
}
