// Package cli implements the evdash command line tool.
package cli

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/config"
	"github.com/Shivani-Chovatiya/Analytics-Dashboard/internal/platform/logging"
)

type app struct {
	cfgFile string
	noColor bool
	quiet   bool

	cfg config.Config
	log zerolog.Logger
}

// NewRootCommand builds the command tree.
func NewRootCommand() *cobra.Command {
	a := &app{log: logging.Nop()}

	root := &cobra.Command{
		Use:           "evdash",
		Short:         "Summarize EV registration datasets",
		Long:          `evdash parses an electric vehicle registration CSV and prints the dashboard KPIs, charts series and a page of the filtered rows.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			_ = godotenv.Load(".env.local", ".env")
			cfg, err := config.Load(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = logging.New(logging.Config{
				Level:  cfg.Log.Level,
				Format: "console",
				Output: cmd.ErrOrStderr(),
			}, "evdash")
			if a.noColor {
				color.NoColor = true
			}
			return nil
		},
	}

	root.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default is $EVDASH_CONFIG)")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "hide progress indicators")

	root.AddCommand(newSummaryCommand(a))
	root.AddCommand(newConfigCommand(a))
	return root
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func printError(w io.Writer, err error) {
	color.New(color.FgRed).Fprintf(w, "✗ Error: %v\n", err)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}

func (a *app) showProgress(w io.Writer) bool {
	return !a.quiet && isTerminal(w)
}
