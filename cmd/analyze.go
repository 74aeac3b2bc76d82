package cmd

import (
	"fmt"
	"math"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/insight"
	"github.com/datateller/datateller/internal/profile"
)

var anaSample bool

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file>",
	Short: "Profile a CSV/TSV/XLSX dataset and print its insights",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ds, name, err := loadDataset(args)
		if err != nil {
			return err
		}

		res, err := profile.Profile(ds, profile.Options{TopK: cfg.TopK})
		if err != nil {
			return err
		}
		insights := insight.Generate(res, cfg.Thresholds())

		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Dataset: %s\n\n", name)
		printOverview(cmd, res)
		printNumericStats(cmd, res)
		printCategoricalStats(cmd, res)
		printInsights(cmd, insights)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().BoolVar(&anaSample, "sample", false, "analyze the built-in sample dataset instead of a file")
}

// loadDataset resolves the positional file argument or the --sample flag
// shared by the analyze and report commands.
func loadDataset(args []string) (*dataset.Dataset, string, error) {
	if anaSample || repSample {
		return dataset.Sample(), "sample data", nil
	}
	if len(args) == 0 {
		return nil, "", fmt.Errorf("provide a dataset file or pass --sample")
	}
	ds, err := dataset.Load(args[0])
	if err != nil {
		return nil, "", err
	}
	return ds, args[0], nil
}

func newTable(cmd *cobra.Command) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	return t
}

func printOverview(cmd *cobra.Command, res *profile.Result) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Overview")
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Rows", "Columns", "Missing cells", "Duplicate rows", "Completeness"})
	t.AppendRow(table.Row{res.Rows, res.Cols, res.TotalMissing(), res.Duplicates,
		fmt.Sprintf("%.1f%%", res.Completeness)})
	t.Render()

	fmt.Fprintln(out)
	fmt.Fprintln(out, "Columns")
	t = newTable(cmd)
	t.AppendHeader(table.Row{"Column", "Type", "Missing", "Missing %"})
	for _, name := range res.ColumnOrder {
		t.AppendRow(table.Row{name, res.Types[name].String(), res.Missing[name],
			fmt.Sprintf("%.1f%%", res.MissingPct[name])})
	}
	t.Render()
	fmt.Fprintln(out)
}

func printNumericStats(cmd *cobra.Command, res *profile.Result) {
	numeric := res.NumericColumns()
	if len(numeric) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Numeric statistics")
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"})
	for _, name := range numeric {
		s := res.Numeric[name]
		t.AppendRow(table.Row{name, s.Count,
			fmtStat(s.Mean), fmtStat(s.Std), fmtStat(s.Min),
			fmtStat(s.Q1), fmtStat(s.Median), fmtStat(s.Q3), fmtStat(s.Max)})
	}
	t.Render()
	fmt.Fprintln(out)
}

func printCategoricalStats(cmd *cobra.Command, res *profile.Result) {
	names := append(res.CategoricalColumns(), res.BooleanColumns()...)
	if len(names) == 0 {
		return
	}
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Categorical frequencies")
	t := newTable(cmd)
	t.AppendHeader(table.Row{"Column", "Unique", "Top values"})
	for _, name := range names {
		f, ok := res.Categorical[name]
		if !ok {
			continue
		}
		parts := make([]string, 0, len(f.Top))
		for _, vc := range f.Top {
			parts = append(parts, fmt.Sprintf("%s (%d)", vc.Value, vc.Count))
		}
		if f.Other > 0 {
			parts = append(parts, fmt.Sprintf("other (%d)", f.Other))
		}
		t.AppendRow(table.Row{name, f.Unique, strings.Join(parts, ", ")})
	}
	t.Render()
	fmt.Fprintln(out)
}

func printInsights(cmd *cobra.Command, insights []insight.Insight) {
	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Insights")
	categories := []insight.Category{
		insight.Overview, insight.Quality, insight.Numeric,
		insight.Categorical, insight.Correlation, insight.Duplicates,
	}
	for _, c := range categories {
		group := insight.ByCategory(insights, c)
		if len(group) == 0 {
			continue
		}
		fmt.Fprintf(out, "  [%s]\n", c)
		for _, in := range group {
			fmt.Fprintf(out, "  - %s\n", in.Text)
		}
	}
}

func fmtStat(v float64) string {
	if math.IsNaN(v) {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", v)
}
