package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/intelligence"
	"github.com/alexanderramin/dayroute/internal/service"
	"github.com/spf13/cobra"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Catalog service.CatalogService
	Planner service.PlannerService

	// Explain narrates variants. Nil means deterministic summaries only.
	Explain intelligence.ExplainService

	// User owns the working itinerary; --user overrides it per call.
	User string

	// Constraints are the configured day bounds that generate flags adjust.
	Constraints domain.Constraints

	// AllowRemote enables model suggestions when a provider is wired.
	AllowRemote bool

	// IsInteractive reports whether stdin is a terminal. Nil means never.
	IsInteractive func() bool

	// PickVariant asks the user to choose among variants. Nil uses the
	// huh picker.
	PickVariant func(variants []domain.RouteVariant) (string, error)
}

func (a *App) interactive() bool {
	return a.IsInteractive != nil && a.IsInteractive()
}

// NewRootCmd creates the top-level "dayroute" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "dayroute",
		Short:         "Festival day planner: pick events, get three timed routes",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&app.User, "user", app.User, "Itinerary owner")

	root.AddCommand(
		newEventCmd(app),
		newPlanCmd(app),
	)

	return root
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

func parsePin(s string) (*domain.Clock, error) {
	if s == "" {
		return nil, nil
	}
	c, err := domain.ParseClock(s)
	if err != nil {
		return nil, fmt.Errorf("invalid pin %q: %w", s, err)
	}
	return &c, nil
}
