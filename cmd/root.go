package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	cfgpkg "github.com/datateller/datateller/internal/config"
)

var (
	// Global flags
	cfgFile string
	debug   bool
	// Threshold flags (override config if set)
	flagMissingPct float64
	flagCorr       float64
	flagTopK       int

	// Loaded configuration
	cfg *cfgpkg.Global
)

var rootCmd = &cobra.Command{
	Use:   "datateller",
	Short: "Datateller: profile tabular data and tell its story",
	Long: `Datateller ingests a CSV/TSV/XLSX dataset, computes descriptive statistics,
derives natural-language insights and charts, and exports a paginated PDF report.`,
}

// Execute is the entry point called by main.main()
func Execute() {
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.datateller/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().Float64Var(&flagMissingPct, "missing-threshold", 0, "missing-value flag threshold in percent (overrides config)")
	rootCmd.PersistentFlags().Float64Var(&flagCorr, "corr-threshold", 0, "correlation flag threshold (overrides config)")
	rootCmd.PersistentFlags().IntVar(&flagTopK, "top-k", 0, "categorical top-K cutoff (overrides config)")
}

func loadConfig() {
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: fall back to defaults so analysis still runs.
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		c = cfgpkg.Default()
	}
	cfg = c

	f := rootCmd.PersistentFlags()
	if f.Changed("missing-threshold") && flagMissingPct > 0 {
		cfg.MissingPctThreshold = flagMissingPct
	}
	if f.Changed("corr-threshold") && flagCorr > 0 {
		cfg.CorrelationThreshold = flagCorr
	}
	if f.Changed("top-k") && flagTopK > 0 {
		cfg.TopK = flagTopK
	}
	if debug {
		fmt.Fprintf(os.Stderr, "effective config: %+v\n", *cfg)
	}
}
