package cli

import (
	"encoding/json"
	"io"
	"os"

	"github.com/spf13/cobra"

	"itinera/internal/ai"
)

func newRepairCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "repair <file|->",
		Short: "Sanitize and repair a raw model response into a trip plan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				raw []byte
				err error
			)
			if args[0] == "-" {
				raw, err = io.ReadAll(cmd.InOrStdin())
			} else {
				raw, err = os.ReadFile(args[0])
			}
			if err != nil {
				return err
			}
			p, err := ai.DecodeTripPlan(string(raw))
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			enc.SetEscapeHTML(false)
			return enc.Encode(p)
		},
	}
}
