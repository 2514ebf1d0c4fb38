package cli

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/blo/internal/core"
	"github.com/spf13/cobra"
)

type searchFlags struct {
	name1, name2, relative string
	serialFrom, serialTo   string
	epic, ac               string
	limit                  int
	out                    string
}

// criteria converts the flags. Unset serial bounds fall back to the
// dataset's defaults, as the form does after a merge.
func (f searchFlags) criteria(defaults core.Criteria) (core.Criteria, error) {
	c := core.Criteria{
		Name1:        f.name1,
		Name2:        f.name2,
		RelativeName: f.relative,
		Epic:         f.epic,
		AC:           f.ac,
		SerialFrom:   defaults.SerialFrom,
		SerialTo:     defaults.SerialTo,
	}

	var err error
	if f.serialFrom != "" {
		if c.SerialFrom, err = parseBoundFlag("serial-from", f.serialFrom); err != nil {
			return c, err
		}
	}
	if f.serialTo != "" {
		if c.SerialTo, err = parseBoundFlag("serial-to", f.serialTo); err != nil {
			return c, err
		}
	}
	return c, nil
}

func parseBoundFlag(name, v string) (*float64, error) {
	n, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid criteria: --%s %q is not a number", name, v)
	}
	return &n, nil
}

func newSearchCmd(app *App) *cobra.Command {
	var f searchFlags

	cmd := &cobra.Command{
		Use:   "search FILE1 FILE2",
		Short: "Merge two roll files and search the result",
		Long: `Merge two roll files and print the rows matching every given field.

Name fields match case-insensitively as substrings. Latin-script names are
translated to Gujarati first; if no translator is reachable they are
matched as typed. Without --serial-from/--serial-to the full serial range
of the merged data is used.`,
		Example: `  blo search a.csv b.csv --name1 Ramesh
  blo search a.csv b.csv --serial-from 10 --serial-to 25 -o json
  blo search a.csv b.csv --epic ABC1234567 --out hits.csv`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			svc := app.newService()
			ds, err := app.mergeInputs(ctx, svc, args[0], args[1])
			if err != nil {
				return err
			}

			c, err := f.criteria(svc.DefaultCriteria())
			if err != nil {
				return err
			}
			res, err := svc.Search(ctx, c)
			if err != nil {
				return err
			}

			if f.out != "" {
				if err := writeCSVFile(f.out, res.Table); err != nil {
					return err
				}
			}

			shown := res.Table
			if f.limit > 0 && f.limit < shown.Len() {
				idx := make([]int, f.limit)
				for i := range idx {
					idx[i] = i
				}
				shown = shown.Subset(idx)
			}

			if getOutputFormat(cmd) == "json" {
				return printJSON(app.Out, map[string]any{
					"dataset_id": ds.ID.String(),
					"matched":    res.Matched,
					"total":      res.Total,
					"returned":   shown.Len(),
					"columns":    shown.Columns,
					"rows":       shown.Records(),
					"criteria":   res.Criteria,
					"notice":     res.Notice,
				})
			}

			if res.Notice != "" {
				fmt.Fprintln(app.Err, res.Notice)
			}
			fmt.Fprintf(app.Out, "%d of %d rows match\n\n", res.Matched, res.Total)
			return printTable(app.Out, shown)
		},
	}

	fl := cmd.Flags()
	fl.StringVar(&f.name1, "name1", "", "Name contains")
	fl.StringVar(&f.name2, "name2", "", "Name also contains")
	fl.StringVar(&f.relative, "relative-name", "", "Relative's name contains")
	fl.StringVar(&f.serialFrom, "serial-from", "", "Lowest serial number")
	fl.StringVar(&f.serialTo, "serial-to", "", "Highest serial number")
	fl.StringVar(&f.epic, "epic", "", "EPIC number contains")
	fl.StringVar(&f.ac, "ac", "", "AC number contains")
	fl.IntVar(&f.limit, "limit", 0, "Print at most this many rows (0 for all)")
	fl.StringVar(&f.out, "out", "", "Write all matching rows to this CSV file")
	return cmd
}
