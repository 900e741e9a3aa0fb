package cli

import (
	"fmt"
	"os"

	"github.com/alexanderramin/dayroute/internal/cli/formatter"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/service"
	"github.com/spf13/cobra"
)

func newPlanCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Build and route your festival day",
	}

	cmd.AddCommand(
		newPlanAddCmd(app),
		newPlanRemoveCmd(app),
		newPlanPinCmd(app),
		newPlanUnpinCmd(app),
		newPlanShowCmd(app),
		newPlanClearCmd(app),
		newPlanExportCmd(app),
		newPlanGenerateCmd(app),
		newPlanHistoryCmd(app),
		newPlanSelectCmd(app),
		newPlanExplainCmd(app),
	)

	return cmd
}

func newPlanAddCmd(app *App) *cobra.Command {
	var pinStr string

	cmd := &cobra.Command{
		Use:   "add <event-id>...",
		Short: "Add catalog events to your itinerary",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pin, err := parsePin(pinStr)
			if err != nil {
				return err
			}
			if pin != nil && len(args) > 1 {
				return fmt.Errorf("--pin applies to a single event")
			}
			for _, id := range args {
				if err := app.Planner.Add(cmd.Context(), app.User, id, pin, app.User); err != nil {
					return fmt.Errorf("adding event %s: %w", id, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Added %s\n", id)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&pinStr, "pin", "", "Fix the event at this time (HH:MM)")
	return cmd
}

func newPlanRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <event-id>",
		Aliases: []string{"rm"},
		Short:   "Remove an event from your itinerary",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.Remove(cmd.Context(), app.User, args[0]); err != nil {
				return fmt.Errorf("removing event %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

func newPlanPinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "pin <event-id> <HH:MM>",
		Short: "Fix an itinerary event at a time",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			at, err := domain.ParseClock(args[1])
			if err != nil {
				return fmt.Errorf("invalid time %q: %w", args[1], err)
			}
			if err := app.Planner.Pin(cmd.Context(), app.User, args[0], at); err != nil {
				return fmt.Errorf("pinning event %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Pinned %s at %s\n", args[0], at)
			return nil
		},
	}
}

func newPlanUnpinCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "unpin <event-id>",
		Short: "Let an itinerary event move again",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := app.Planner.Unpin(cmd.Context(), app.User, args[0]); err != nil {
				return fmt.Errorf("unpinning event %s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Unpinned %s\n", args[0])
			return nil
		},
	}
}

type itemJSON struct {
	domain.Event
	Position    int           `json:"position"`
	Pin         *domain.Clock `json:"pin,omitempty"`
	PlannedTime *domain.Clock `json:"plannedTime,omitempty"`
	TravelTime  int           `json:"travelTime"`
	AddedBy     string        `json:"addedBy,omitempty"`
}

func newPlanShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show your working itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := app.Planner.Show(cmd.Context(), app.User)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				doc := make([]itemJSON, len(items))
				for i, it := range items {
					doc[i] = itemJSON{
						Event:       it.Event,
						Position:    it.Position,
						Pin:         it.Pin,
						PlannedTime: it.PlannedTime,
						TravelTime:  it.TravelTime,
						AddedBy:     it.AddedBy,
					}
				}
				return writeJSON(out, doc)
			}
			if len(items) == 0 {
				fmt.Fprintln(out, "Your itinerary is empty. Add events with: dayroute plan add <event-id>")
				return nil
			}
			fmt.Fprint(out, formatter.FormatItinerary(items, service.RouteLine(items)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newPlanClearCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove every event from your itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := app.Planner.Clear(cmd.Context(), app.User)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cleared %d events\n", n)
			return nil
		},
	}
}

func newPlanExportCmd(app *App) *cobra.Command {
	var format, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export your itinerary as a route line or JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := app.Planner.Export(cmd.Context(), app.User, service.ExportFormat(format))
			if err != nil {
				return err
			}
			if output == "" {
				fmt.Fprintln(cmd.OutOrStdout(), doc)
				return nil
			}
			if err := os.WriteFile(output, []byte(doc+"\n"), 0o644); err != nil {
				return fmt.Errorf("writing export: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", output)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(service.ExportText), "Export format: text or json")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	return cmd
}
