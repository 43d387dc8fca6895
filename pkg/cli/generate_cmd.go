package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"querycanvas/internal/queryir"
	"querycanvas/internal/sqlgen"
)

func newGenerateCmd() *cobra.Command {
	var (
		file    string
		dialect string
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate SQL from a canvas query definition",
		Long:  "Reads a query definition (JSON or YAML) and prints the SQL it renders to. Validation findings are reported but do not block generation.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := loadQueryFile(file)
			if err != nil {
				return err
			}

			d, err := sqlgen.ParseDialect(dialect)
			if err != nil {
				return err
			}

			vr := queryir.Validate(q)
			sql, err := sqlgen.Generate(q, d)
			if err != nil {
				return err
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(os.Stdout, map[string]interface{}{
					"sql":     sql,
					"dialect": string(d),
					"issues":  vr.Errors,
				})
			}
			for _, issue := range vr.Errors {
				fmt.Fprintf(os.Stderr, "warning: %s\n", issue)
			}
			fmt.Fprintln(os.Stdout, sql)
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "-", "Query definition file (JSON or YAML), - for stdin")
	cmd.Flags().StringVarP(&dialect, "dialect", "d", "", "Target SQL dialect (default postgres)")

	return cmd
}
