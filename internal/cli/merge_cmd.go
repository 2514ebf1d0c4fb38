package cli

import (
	"fmt"
	"os"

	"github.com/JonMunkholm/blo/internal/core"
	"github.com/spf13/cobra"
)

func newMergeCmd(app *App) *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "merge FILE1 FILE2",
		Short: "Merge two roll files on their ID column",
		Long: `Merge two roll files on their ID column and print a summary.

Each input is a CSV path or "sql:SELECT ..." run read-only against
DATABASE_URL. With --out the merged table is written as CSV.`,
		Example: `  blo merge part1.csv part2.csv
  blo merge part1.csv part2.csv --out merged.csv
  blo merge "sql:SELECT * FROM roll_a" part2.csv -o json`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc := app.newService()
			ds, err := app.mergeInputs(cmd.Context(), svc, args[0], args[1])
			if err != nil {
				return err
			}

			if out != "" {
				if err := writeCSVFile(out, ds.Table); err != nil {
					return err
				}
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(app.Out, map[string]any{
					"dataset_id":       ds.ID.String(),
					"rows":             ds.Summary.Rows,
					"columns":          ds.Summary.Columns,
					"message":          ds.Summary.String(),
					"column_names":     ds.Table.Columns,
					"default_criteria": svc.DefaultCriteria(),
					"written_to":       out,
				})
			}

			fmt.Fprintln(app.Out, ds.Summary.String())
			if out != "" {
				fmt.Fprintf(app.Out, "Wrote %s\n", out)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&out, "out", "", "Write the merged table to this CSV file")
	return cmd
}

func writeCSVFile(path string, t *core.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := core.WriteCSV(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
