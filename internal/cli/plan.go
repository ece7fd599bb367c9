package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"itinera/internal/ai"
	"itinera/internal/config"
	"itinera/internal/modules/classifier"
	"itinera/internal/modules/plan"
	"itinera/internal/modules/scheduler"
	"itinera/internal/service"
)

type planFlags struct {
	useAI    bool
	asJSON   bool
	timezone string
}

func newPlanCmd() *cobra.Command {
	var flags planFlags
	cmd := &cobra.Command{
		Use:   "plan <text>",
		Short: "Generate an itinerary for a trip request",
		Long: `Generate an itinerary for a trip request. Plans come from the deterministic
scheduler unless --ai is set, in which case Gemini is tried first with the
scheduler as fallback.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			planner, cleanup, err := buildPlanner(cmd, flags)
			if err != nil {
				return err
			}
			defer cleanup()

			out, err := planner.PlanFromText(cmd.Context(), strings.Join(args, " "), service.PlanOptions{UseAI: flags.useAI})
			if err != nil {
				return err
			}
			w := cmd.OutOrStdout()
			switch {
			case out.NeedsFollowup:
				_, err = fmt.Fprintln(w, "Request is too vague to plan. Where would you like to go, and for how many days?")
				return err
			case out.NeedsTemplate:
				_, err = fmt.Fprintln(w, "Template reuse needs a saved plan; use the API.")
				return err
			}
			if flags.asJSON {
				enc := json.NewEncoder(w)
				enc.SetIndent("", "  ")
				enc.SetEscapeHTML(false)
				return enc.Encode(plan.ToDocument(*out.Plan))
			}
			return renderPlan(w, *out.Plan)
		},
	}
	cmd.Flags().BoolVar(&flags.useAI, "ai", false, "try Gemini first (needs GEMINI_API_KEY)")
	cmd.Flags().BoolVar(&flags.asJSON, "json", false, "print the versioned plan document")
	cmd.Flags().StringVar(&flags.timezone, "tz", "", "planning timezone (default planner.timezone)")
	return cmd
}

func buildPlanner(cmd *cobra.Command, flags planFlags) (*service.TripPlanner, func(), error) {
	cleanup := func() {}
	cfg, err := config.Load()
	if err != nil {
		return nil, cleanup, err
	}
	loc := cfg.Planner.Location
	if flags.timezone != "" {
		if loc, err = time.LoadLocation(flags.timezone); err != nil {
			return nil, cleanup, fmt.Errorf("--tz: %w", err)
		}
	}

	deps := service.Deps{
		Classifier: classifier.New(classifier.WithThresholds(cfg.Classifier), classifier.WithLocation(loc)),
		Scheduler:  scheduler.New(loc),
		Location:   loc,
		Logger:     zap.NewNop(),
	}
	// Without ai.enabled the planner records the disabled fallback.
	if flags.useAI && cfg.AI.Enabled {
		provider, err := ai.NewGeminiProvider(cmd.Context(), cfg.AI.GeminiKey, cfg.AI.Model, cfg.AI.Temperature)
		if err != nil {
			return nil, cleanup, err
		}
		cleanup = provider.Close
		deps.Itinerary = ai.NewItinerary(provider, ai.ItineraryOptions{
			Enabled:  cfg.AI.Enabled,
			Timeout:  cfg.AI.Timeout,
			CacheTTL: cfg.AI.CacheTTL,
		}, nil)
	}
	return service.NewTripPlanner(deps), cleanup, nil
}

func renderPlan(w io.Writer, r plan.PlanResult) error {
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%s, %d days)\n", r.Destination, r.Source, len(r.Days))
	for _, d := range r.Days {
		if d.Theme != "" {
			fmt.Fprintf(&b, "\n%s  %s\n", d.Date, d.Theme)
		} else {
			fmt.Fprintf(&b, "\n%s\n", d.Date)
		}
		for _, blk := range d.Blocks {
			fmt.Fprintf(&b, "  %s-%s  %-8s %s\n", blk.Start.Format("15:04"), blk.End.Format("15:04"), blk.Type, blk.Title)
		}
	}
	for _, a := range r.Assumptions {
		fmt.Fprintf(&b, "\nassumed: %s", a)
	}
	for _, f := range r.RiskFlags {
		fmt.Fprintf(&b, "\nrisk: %s", f)
	}
	if len(r.Assumptions)+len(r.RiskFlags) > 0 {
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}
