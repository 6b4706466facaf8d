package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/napolitain/lastwar-buildtime/internal/catalog"
	"github.com/napolitain/lastwar-buildtime/internal/config"
	"github.com/napolitain/lastwar-buildtime/internal/loader"
)

// app carries the global flags and what PersistentPreRunE loads from them
type app struct {
	dataPath   string
	configPath string
	quiet      bool

	out io.Writer
	now func() time.Time

	cfg     config.Config
	catalog *catalog.Catalog
}

func main() {
	a := &app{out: os.Stdout, now: time.Now}
	if err := newRootCmd(a).Execute(); err != nil {
		color.Red("Error: %v", err)
		os.Exit(1)
	}
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lwcalc",
		Short: "Last War construction time calculator",
		Long: `Looks up base upgrade times for Last War buildings and applies
construction speed bonuses to get the real duration and finish time.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.load,
	}

	rootCmd.PersistentFlags().StringVarP(&a.dataPath, "data", "d", "", "Path to a JSON or YAML catalog (default: built-in data)")
	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to YAML config file")
	rootCmd.PersistentFlags().BoolVarP(&a.quiet, "quiet", "q", false, "Minimal output")

	rootCmd.AddCommand(
		newBuildingsCmd(a),
		newTableCmd(a),
		newCalcCmd(a),
		newPlanCmd(a),
		newExportCmd(a),
	)
	rootCmd.SetOut(a.out)
	return rootCmd
}

func (a *app) load(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.configPath)
	if err != nil {
		return err
	}
	a.cfg = cfg

	path := a.dataPath
	if path == "" {
		path = cfg.Catalog.Path
	}
	cat, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("loading catalog: %w", err)
	}
	a.catalog = cat
	return nil
}

func (a *app) banner(title string) {
	if a.quiet {
		return
	}
	titleColor := color.New(color.FgCyan, color.Bold)
	titleColor.Fprintln(a.out, "\n╭───────────────────────────╮")
	titleColor.Fprintf(a.out, "│  %-25s│\n", title)
	titleColor.Fprintln(a.out, "╰───────────────────────────╯")
	fmt.Fprintln(a.out)
}
