package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querycanvas/internal/queryir"
)

func newValidateCmd() *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a canvas query definition offline",
		Long:  "Reads a query definition and checks tables, joins, groupings, and orderings without generating SQL.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := loadQueryFile(file)
			if err != nil {
				return err
			}

			res := queryir.Validate(q)
			if getOutputFormat(cmd) == "json" {
				if err := printJSON(os.Stdout, res); err != nil {
					return err
				}
				if !res.Valid {
					os.Exit(1)
				}
				return nil
			}
			if !res.Valid {
				fmt.Fprintf(os.Stderr, "Query has %d validation error(s):\n", len(res.Errors))
				for _, e := range res.Errors {
					fmt.Fprintf(os.Stderr, "  - %s\n", e)
				}
				os.Exit(1)
			}
			_, _ = fmt.Fprintln(os.Stdout, "Query is valid.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Query definition file (JSON or YAML), - for stdin")
	return cmd
}
