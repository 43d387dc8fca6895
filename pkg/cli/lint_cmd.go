package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querycanvas/internal/sqllint"
)

func newLintCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lint [sql]",
		Short: "Lint a SQL statement",
		Long:  "Runs the statement through the canvas lint rules. Errors exit 1; warnings do not affect the exit code.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQLInput(cmd, args)
			if err != nil {
				return err
			}

			res := sqllint.ValidateSQL(sql)
			if getOutputFormat(cmd) == "json" {
				if err := printJSON(os.Stdout, res); err != nil {
					return err
				}
				if !res.IsValid {
					os.Exit(1)
				}
				return nil
			}
			for _, w := range res.Warnings {
				fmt.Fprintf(os.Stdout, "warning: %s\n", w)
			}
			for _, e := range res.Errors {
				fmt.Fprintf(os.Stdout, "error: %s\n", e)
			}
			if !res.IsValid {
				os.Exit(1)
			}
			if len(res.Warnings) == 0 {
				_, _ = fmt.Fprintln(os.Stdout, "No issues found.")
			}
			return nil
		},
	}

	cmd.Flags().StringP("file", "f", "", "Read SQL from a file")
	return cmd
}
