package cli

import (
	"github.com/spf13/cobra"
)

// NewRootCmd builds the itinera command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "itinera",
		Short:         "Offline trip itinerary planner",
		Long:          `Itinera classifies free-text trip requests and turns them into day-by-day itineraries.`,
		Version:       "0.1.0",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newClassifyCmd(), newPlanCmd(), newRepairCmd())
	return root
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
