package cli

import (
	"fmt"

	"github.com/alexanderramin/dayroute/internal/cli/formatter"
	"github.com/alexanderramin/dayroute/internal/contract"
	"github.com/alexanderramin/dayroute/internal/domain"
	"github.com/alexanderramin/dayroute/internal/intelligence"
	"github.com/alexanderramin/dayroute/internal/service"
	"github.com/spf13/cobra"
)

type generateFlags struct {
	mode     string
	start    string
	end      string
	maxTotal int
	local    bool
	asJSON   bool

	maxTotalSet bool
}

// constraints applies the flags over the configured day bounds.
func (f generateFlags) constraints(base domain.Constraints) (domain.Constraints, error) {
	c := base
	if f.start != "" {
		at, err := domain.ParseClock(f.start)
		if err != nil {
			return c, fmt.Errorf("invalid --start %q: %w", f.start, err)
		}
		c.StartTime = at
	}
	if f.end != "" {
		at, err := domain.ParseClock(f.end)
		if err != nil {
			return c, fmt.Errorf("invalid --end %q: %w", f.end, err)
		}
		c.EndTime = at
	}
	if f.maxTotalSet {
		c.MaxTotalTime = f.maxTotal
	}
	return c, nil
}

type generateErrorJSON struct {
	Code    contract.GenerateErrorCode `json:"code"`
	Message string                     `json:"message"`
}

func newPlanGenerateCmd(app *App) *cobra.Command {
	var flags generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate three timed route variants from your itinerary",
		RunE: func(cmd *cobra.Command, args []string) error {
			flags.maxTotalSet = cmd.Flags().Changed("max-total")
			c, err := flags.constraints(app.Constraints)
			if err != nil {
				return err
			}
			opts := service.GenerateOptions{
				Mode:        contract.GenerateMode(flags.mode),
				Constraints: &c,
				AllowRemote: app.AllowRemote && !flags.local,
			}

			stop := func() {}
			if opts.AllowRemote && !flags.asJSON && app.interactive() {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Asking the model for routes...")
			}
			resp, err := app.Planner.Generate(cmd.Context(), app.User, opts)
			stop()

			out := cmd.OutOrStdout()
			if err != nil {
				if flags.asJSON {
					_ = writeJSON(out, map[string]generateErrorJSON{
						"error": {Code: contract.CodeOf(err), Message: err.Error()},
					})
				}
				return err
			}
			if flags.asJSON {
				return writeJSON(out, resp)
			}
			fmt.Fprint(out, formatter.FormatGenerateResult(resp, c))
			fmt.Fprintln(out, formatter.Dim("Pick one with: dayroute plan select <variant-id>"))
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.mode, "mode", "", "Strategy set: classic or coverage (default from config)")
	cmd.Flags().StringVar(&flags.start, "start", "", "Day start (HH:MM)")
	cmd.Flags().StringVar(&flags.end, "end", "", "Day end (HH:MM)")
	cmd.Flags().IntVar(&flags.maxTotal, "max-total", 0, "Time budget in minutes, travel included; 0 disables it")
	cmd.Flags().BoolVar(&flags.local, "local", false, "Skip model suggestions")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "Print JSON")
	return cmd
}

func newPlanHistoryCmd(app *App) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List generated variant sets, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			gens, err := app.Planner.History(cmd.Context(), app.User, limit)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				if gens == nil {
					gens = []*domain.Generation{}
				}
				return writeJSON(out, gens)
			}
			if len(gens) == 0 {
				fmt.Fprintln(out, "Nothing generated yet.")
				return nil
			}
			fmt.Fprint(out, formatter.FormatHistory(gens))
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 10, "Maximum generations to list")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}

func newPlanSelectCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "select [variant-id]",
		Short: "Make a generated variant your itinerary",
		Long: "Replaces your working itinerary with the chosen variant. Without an id,\n" +
			"an interactive terminal shows a picker; otherwise the best variant of\n" +
			"the latest generation is used.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var id string
			if len(args) == 1 {
				id = args[0]
			} else if app.interactive() && !asJSON {
				latest, err := app.Planner.Latest(ctx, app.User)
				if err != nil {
					return fmt.Errorf("no generated variants, run: dayroute plan generate: %w", err)
				}
				pick := app.PickVariant
				if pick == nil {
					pick = pickVariant
				}
				if id, err = pick(latest.Variants); err != nil {
					return err
				}
			}

			events, err := app.Planner.Select(ctx, app.User, id)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if asJSON {
				return writeJSON(out, events)
			}
			items, err := app.Planner.Show(ctx, app.User)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Selected %d events\n\n", len(events))
			fmt.Fprint(out, formatter.FormatItinerary(items, service.RouteLine(items)))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print the selected events as JSON")
	return cmd
}

func newPlanExplainCmd(app *App) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "explain [variant-id]",
		Short: "Describe a generated variant in prose",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var v domain.RouteVariant
			if len(args) == 1 {
				found, err := app.Planner.Variant(ctx, app.User, args[0])
				if err != nil {
					return err
				}
				v = *found
			} else {
				latest, err := app.Planner.Latest(ctx, app.User)
				if err != nil {
					return fmt.Errorf("no generated variants, run: dayroute plan generate: %w", err)
				}
				if len(latest.Variants) == 0 {
					return fmt.Errorf("latest generation has no variants: %w", domain.ErrVariantNotFound)
				}
				v = latest.Variants[0]
			}

			var explanation *intelligence.VariantExplanation
			if app.Explain != nil {
				explanation = app.Explain.ExplainVariant(ctx, v)
			} else {
				explanation = intelligence.DeterministicExplain(v)
			}
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), explanation)
			}
			fmt.Fprintln(cmd.OutOrStdout(), formatter.FormatExplanation(explanation))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	return cmd
}
