package cli

import (
	"fmt"

	"github.com/alexanderramin/dayroute/internal/cli/formatter"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/repository"
	"github.com/spf13/cobra"
)

func newEventCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "event",
		Short: "Manage the festival event catalog",
	}

	cmd.AddCommand(
		newEventImportCmd(app),
		newEventListCmd(app),
		newEventShowCmd(app),
	)

	return cmd
}

func newEventImportCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Import events from a YAML or JSON catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := app.Catalog.Import(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			name := result.Festival
			if name == "" {
				name = args[0]
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d events from %s (%d new, %d updated)\n",
				result.EventCount, name, result.Created, result.Updated)
			return nil
		},
	}
}

func newEventListCmd(app *App) *cobra.Command {
	var category, date string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalog events",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := repository.EventFilter{Date: date}
			if category != "" {
				c, err := domain.ParseCategory(category)
				if err != nil {
					return err
				}
				f.Category = c
			}

			events, err := app.Catalog.List(cmd.Context(), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if events == nil {
					events = []domain.Event{}
				}
				return writeJSON(out, events)
			}
			if len(events) == 0 {
				fmt.Fprintln(out, "No events found.")
				return nil
			}
			fmt.Fprint(out, formatter.FormatEventList(events))
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "", "Only events in this category")
	cmd.Flags().StringVar(&date, "date", "", "Only events on this date (YYYY-MM-DD)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newEventShowCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one catalog event",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := app.Catalog.Get(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("event %s: %w", args[0], err)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), e)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatEventDetail(e))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
