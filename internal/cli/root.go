// Package cli implements the blo command: merge two roll files and search
// the result from a terminal.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JonMunkholm/blo/internal/config"
	"github.com/JonMunkholm/blo/internal/core"
	"github.com/JonMunkholm/blo/internal/logging"
	"github.com/JonMunkholm/blo/internal/translit"
	"github.com/spf13/cobra"
)

var (
	version = "dev"
	commit  = "none"
)

// Normalizer is the translation capability the CLI needs.
type Normalizer interface {
	core.Normalizer
	NormalizeResult(ctx context.Context, text string) translit.Result
	Notice() string
}

// App carries what the commands share. Nil fields are filled from the
// environment before a command runs.
type App struct {
	Config     *config.Config
	Normalizer Normalizer
	Specs      core.RoleSpecs

	Out io.Writer
	Err io.Writer
}

// Execute runs the CLI with os.Args and returns the exit code.
func Execute(ctx context.Context, app *App) int {
	return execute(ctx, app, os.Args[1:])
}

func execute(ctx context.Context, app *App, args []string) int {
	root := NewRootCmd(app)
	root.SetArgs(args)
	if err := root.ExecuteContext(ctx); err != nil {
		if getOutputFormat(root) == "json" {
			msg := core.MapError(err)
			_ = printJSON(app.Out, map[string]string{
				"error":  err.Error(),
				"code":   msg.Code,
				"action": msg.Action,
			})
		} else {
			fmt.Fprintf(app.Err, "Error: %v\n", err)
		}
		return 1
	}
	return 0
}

// NewRootCmd builds the command tree around app.
func NewRootCmd(app *App) *cobra.Command {
	if app.Out == nil {
		app.Out = os.Stdout
	}
	if app.Err == nil {
		app.Err = os.Stderr
	}

	var (
		output      string
		databaseURL string
		aliasesFile string
	)

	root := &cobra.Command{
		Use:           "blo",
		Short:         "Merge and search BLO roll data",
		Long:          "Merge two roll CSV files on their ID column and search the result by name, relative name, serial range, EPIC and AC number. Latin-script names are translated to Gujarati before matching.",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutputFormat(output); err != nil {
				return err
			}
			if err := app.init(); err != nil {
				return err
			}
			if cmd.Flags().Changed("database-url") {
				app.Config.Source.URL = databaseURL
			}
			if cmd.Flags().Changed("columns") || app.Specs == nil {
				path := app.Config.Columns.AliasesFile
				if cmd.Flags().Changed("columns") {
					path = aliasesFile
				}
				specs, err := core.LoadRoleSpecs(path)
				if err != nil {
					return err
				}
				app.Specs = specs
			}
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&output, "output", "o", "table", "Output format (table, json)")
	root.PersistentFlags().StringVar(&databaseURL, "database-url", "", "PostgreSQL URL for sql: inputs (default $DATABASE_URL)")
	root.PersistentFlags().StringVar(&aliasesFile, "columns", "", "YAML file overriding column aliases (default $COLUMN_ALIASES_FILE)")

	root.AddCommand(
		newMergeCmd(app),
		newSearchCmd(app),
		newTranslateCmd(app),
		newVersionCmd(app),
	)
	return root
}

// init loads configuration and the translation adapter when not injected.
func (a *App) init() error {
	if a.Config == nil {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		a.Config = cfg
		slog.SetDefault(logging.New(a.Err, cfg.Logging.Level, cfg.Logging.Format))
	}
	if a.Normalizer == nil {
		t := a.Config.Translate
		a.Normalizer = translit.New(translit.Options{
			Enabled:        t.Enabled,
			GoogleEndpoint: t.GoogleEndpoint,
			LibreURL:       t.LibreURL,
			LibreAPIKey:    t.LibreAPIKey,
			Timeout:        t.Timeout,
			RPS:            t.RPS,
			Burst:          t.Burst,
		})
	}
	return nil
}

func newVersionCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if getOutputFormat(cmd) == "json" {
				return printJSON(app.Out, map[string]string{
					"version": version,
					"commit":  commit,
				})
			}
			_, err := fmt.Fprintf(app.Out, "blo version %s (commit: %s)\n", version, commit)
			return err
		},
	}
}

// getOutputFormat returns the output format from the root's persistent flags.
func getOutputFormat(cmd *cobra.Command) string {
	v, _ := cmd.Root().PersistentFlags().GetString("output")
	return v
}

func validateOutputFormat(output string) error {
	if output != "" && output != "table" && output != "json" {
		return fmt.Errorf("unsupported output format %q: use 'table' or 'json'", output)
	}
	return nil
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
