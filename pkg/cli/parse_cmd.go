package cli

import (
	"os"

	"github.com/spf13/cobra"

	"querycanvas/internal/sqlparse"
)

func newParseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [sql]",
		Short: "Parse SQL into a canvas query definition",
		Long:  "Best-effort parse of a SQL statement back into the canvas query model, printed as JSON. Unrecognized clauses are skipped, never fatal.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sql, err := readSQLInput(cmd, args)
			if err != nil {
				return err
			}
			return printJSON(os.Stdout, sqlparse.New().Parse(sql))
		},
	}

	cmd.Flags().StringP("file", "f", "", "Read SQL from a file")
	return cmd
}
