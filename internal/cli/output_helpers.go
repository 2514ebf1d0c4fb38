package cli

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/JonMunkholm/blo/internal/core"
)

// printTable writes t as aligned columns. Nulls print as blanks.
func printTable(w io.Writer, t *core.Table) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(cleanCells(t.Columns), "\t"))
	for _, rec := range t.Strings() {
		fmt.Fprintln(tw, strings.Join(cleanCells(rec), "\t"))
	}
	return tw.Flush()
}

// cleanCells keeps tabs and newlines inside cells from breaking alignment.
func cleanCells(cells []string) []string {
	out := make([]string, len(cells))
	for i, c := range cells {
		out[i] = strings.NewReplacer("\t", " ", "\n", " ", "\r", "").Replace(c)
	}
	return out
}

// printKV writes label/value pairs as two aligned columns.
func printKV(w io.Writer, pairs ...string) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for i := 0; i+1 < len(pairs); i += 2 {
		fmt.Fprintf(tw, "%s:\t%s\n", pairs[i], pairs[i+1])
	}
	return tw.Flush()
}
