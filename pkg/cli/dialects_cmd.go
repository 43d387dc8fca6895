package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querycanvas/internal/sqlgen"
)

func newDialectsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dialects",
		Short: "List supported SQL dialects",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			dialects := sqlgen.Dialects()
			names := make([]string, 0, len(dialects))
			for _, d := range dialects {
				names = append(names, string(d))
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"dialects": names,
				})
			}
			for _, name := range names {
				_, _ = fmt.Fprintln(os.Stdout, name)
			}
			return nil
		},
	}
}
