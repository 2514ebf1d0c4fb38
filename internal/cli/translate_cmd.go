package cli

import (
	"github.com/spf13/cobra"
)

func newTranslateCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "translate TEXT",
		Short: "Show the Gujarati search text for a name",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			res := app.Normalizer.NormalizeResult(cmd.Context(), args[0])
			notice := app.Normalizer.Notice()

			if getOutputFormat(cmd) == "json" {
				return printJSON(app.Out, map[string]string{
					"input":  args[0],
					"text":   res.Text,
					"source": res.Source.String(),
					"notice": notice,
				})
			}

			pairs := []string{"Input", args[0], "Text", res.Text, "Source", res.Source.String()}
			if notice != "" {
				pairs = append(pairs, "Notice", notice)
			}
			return printKV(app.Out, pairs...)
		},
	}
}
