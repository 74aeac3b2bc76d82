// Package report assembles profiling output, insights and rendered charts
// into a fixed-order sectioned document and writes it as a paginated PDF.
package report

import (
	"fmt"
	"time"

	"github.com/datateller/datateller/internal/insight"
	"github.com/datateller/datateller/internal/profile"
	"github.com/datateller/datateller/internal/viz"
)

// BlockKind discriminates the content block union.
type BlockKind int

const (
	TextBlock BlockKind = iota
	TableBlock
	ImageBlock
)

// Table is a rendered data table.
type Table struct {
	Header []string
	Rows   [][]string
}

// Image is an embedded chart.
type Image struct {
	Name    string
	Caption string
	PNG     []byte
}

// Block is one content block of a section: text, table or image.
type Block struct {
	Kind  BlockKind
	Text  string
	Table *Table
	Image *Image
}

func textBlock(format string, args ...any) Block {
	return Block{Kind: TextBlock, Text: fmt.Sprintf(format, args...)}
}

func tableBlock(header []string, rows [][]string) Block {
	return Block{Kind: TableBlock, Table: &Table{Header: header, Rows: rows}}
}

func imageBlock(c viz.Chart) Block {
	return Block{Kind: ImageBlock, Image: &Image{
		Name:    fmt.Sprintf("%s-%s", c.Spec.Kind, c.Spec.Title),
		Caption: c.Spec.Title,
		PNG:     c.PNG,
	}}
}

// Section is a titled, ordered list of content blocks.
type Section struct {
	Title  string
	Blocks []Block
}

// Report is the assembled document. It is built once per generate action and
// immutable afterwards.
type Report struct {
	Title       string
	GeneratedAt time.Time
	Sections    []Section
}

// Options controls assembly.
type Options struct {
	// TopInsights caps the executive summary.
	TopInsights int
}

// DefaultOptions returns the standard assembly options.
func DefaultOptions() Options {
	return Options{TopInsights: 6}
}

// summaryPriority orders executive summary picks across categories.
var summaryPriority = []insight.Category{
	insight.Quality,
	insight.Correlation,
	insight.Numeric,
	insight.Categorical,
	insight.Overview,
	insight.Duplicates,
}

// Assemble builds the report. All seven sections are always present in fixed
// order; charts or insights that are absent degrade to omitted blocks, never
// to a missing section.
func Assemble(res *profile.Result, insights []insight.Insight, charts []viz.Chart, opt Options) *Report {
	if opt.TopInsights <= 0 {
		opt.TopInsights = DefaultOptions().TopInsights
	}
	return &Report{
		Title:       "Data Analysis Report",
		GeneratedAt: time.Now(),
		Sections: []Section{
			executiveSummary(insights, opt.TopInsights),
			datasetOverview(res),
			numericAnalysis(res, charts),
			categoricalAnalysis(res, charts),
			correlationFindings(res, insights, charts),
			recommendations(res, insights),
			qualityAssessment(res),
		},
	}
}

func executiveSummary(insights []insight.Insight, topN int) Section {
	sec := Section{Title: "Executive Summary"}
	n := 0
	for _, cat := range summaryPriority {
		for _, in := range insight.ByCategory(insights, cat) {
			if n == topN {
				break
			}
			n++
			sec.Blocks = append(sec.Blocks, textBlock("%d. %s", n, in.Text))
		}
	}
	if n == 0 {
		sec.Blocks = append(sec.Blocks, textBlock("No insights were generated from the data analysis."))
	}
	return sec
}

func datasetOverview(res *profile.Result) Section {
	sec := Section{Title: "Dataset Overview"}
	sec.Blocks = append(sec.Blocks, tableBlock(
		[]string{"Metric", "Value"},
		[][]string{
			{"Total rows", fmt.Sprintf("%d", res.Rows)},
			{"Total columns", fmt.Sprintf("%d", res.Cols)},
			{"Missing values", fmt.Sprintf("%d", res.TotalMissing())},
			{"Duplicate rows", fmt.Sprintf("%d", res.Duplicates)},
			{"Numeric columns", fmt.Sprintf("%d", len(res.NumericColumns()))},
			{"Categorical columns", fmt.Sprintf("%d", len(res.CategoricalColumns()))},
			{"Datetime columns", fmt.Sprintf("%d", len(res.DatetimeColumns()))},
			{"Boolean columns", fmt.Sprintf("%d", len(res.BooleanColumns()))},
		}))

	rows := make([][]string, 0, len(res.ColumnOrder))
	for _, name := range res.ColumnOrder {
		rows = append(rows, []string{
			name,
			res.Types[name].String(),
			fmt.Sprintf("%d", res.Missing[name]),
			fmt.Sprintf("%.1f%%", res.MissingPct[name]),
		})
	}
	sec.Blocks = append(sec.Blocks, tableBlock([]string{"Column", "Type", "Missing", "Missing %"}, rows))
	return sec
}

func numericAnalysis(res *profile.Result, charts []viz.Chart) Section {
	sec := Section{Title: "Numeric Analysis"}
	numeric := res.NumericColumns()
	if len(numeric) == 0 {
		sec.Blocks = append(sec.Blocks, textBlock("No numeric columns found in the dataset."))
		return sec
	}

	rows := make([][]string, 0, len(numeric))
	for _, name := range numeric {
		s := res.Numeric[name]
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", s.Count),
			fmt.Sprintf("%.2f", s.Mean),
			fmt.Sprintf("%.2f", s.Std),
			fmt.Sprintf("%.2f", s.Min),
			fmt.Sprintf("%.2f", s.Q1),
			fmt.Sprintf("%.2f", s.Median),
			fmt.Sprintf("%.2f", s.Q3),
			fmt.Sprintf("%.2f", s.Max),
		})
	}
	sec.Blocks = append(sec.Blocks, tableBlock(
		[]string{"Column", "Count", "Mean", "Std", "Min", "Q1", "Median", "Q3", "Max"}, rows))

	for _, c := range viz.OfKind(charts, viz.Distribution) {
		sec.Blocks = append(sec.Blocks, imageBlock(c))
	}
	if c, ok := viz.Find(charts, viz.ScatterMatrix); ok {
		sec.Blocks = append(sec.Blocks, imageBlock(c))
	}
	for _, c := range viz.OfKind(charts, viz.TimeSeries) {
		sec.Blocks = append(sec.Blocks, imageBlock(c))
	}
	return sec
}

func categoricalAnalysis(res *profile.Result, charts []viz.Chart) Section {
	sec := Section{Title: "Categorical Analysis"}
	categorical := res.CategoricalColumns()
	boolean := res.BooleanColumns()
	if len(categorical) == 0 && len(boolean) == 0 {
		sec.Blocks = append(sec.Blocks, textBlock("No categorical columns found in the dataset."))
		return sec
	}

	for _, name := range append(append([]string{}, categorical...), boolean...) {
		f := res.Categorical[name]
		sec.Blocks = append(sec.Blocks, textBlock("%s: %d unique values", name, f.Unique))
		rows := make([][]string, 0, len(f.Top)+1)
		for _, vc := range f.Top {
			rows = append(rows, []string{vc.Value, fmt.Sprintf("%d", vc.Count)})
		}
		if f.Other > 0 {
			rows = append(rows, []string{"(other)", fmt.Sprintf("%d", f.Other)})
		}
		if len(rows) > 0 {
			sec.Blocks = append(sec.Blocks, tableBlock([]string{"Value", "Count"}, rows))
		}
	}
	for _, c := range viz.OfKind(charts, viz.Box) {
		sec.Blocks = append(sec.Blocks, imageBlock(c))
	}
	return sec
}

func correlationFindings(res *profile.Result, insights []insight.Insight, charts []viz.Chart) Section {
	sec := Section{Title: "Correlation Findings"}
	m := res.Corr
	if m == nil || len(m.Columns) < 2 {
		sec.Blocks = append(sec.Blocks, textBlock("Not enough numeric columns for correlation analysis."))
		return sec
	}

	header := append([]string{""}, m.Columns...)
	rows := make([][]string, len(m.Columns))
	for i, name := range m.Columns {
		row := make([]string, 0, len(m.Columns)+1)
		row = append(row, name)
		for j := range m.Columns {
			if m.Defined(i, j) {
				row = append(row, fmt.Sprintf("%.2f", m.At(i, j)))
			} else {
				row = append(row, "n/a")
			}
		}
		rows[i] = row
	}
	sec.Blocks = append(sec.Blocks, tableBlock(header, rows))

	if c, ok := viz.Find(charts, viz.Heatmap); ok {
		sec.Blocks = append(sec.Blocks, imageBlock(c))
	}
	flagged := insight.ByCategory(insights, insight.Correlation)
	if len(flagged) == 0 {
		sec.Blocks = append(sec.Blocks, textBlock("No column pairs exceed the correlation flag threshold."))
	}
	for _, in := range flagged {
		sec.Blocks = append(sec.Blocks, textBlock("%s", in.Text))
	}
	return sec
}

func recommendations(res *profile.Result, insights []insight.Insight) Section {
	sec := Section{Title: "Recommendations & Conclusions"}
	quality := insight.ByCategory(insights, insight.Quality)
	correlated := insight.ByCategory(insights, insight.Correlation)

	var recs []string
	if len(quality) > 0 {
		recs = append(recs, "Review columns with high missing values and consider imputation strategies.")
	}
	if res.Duplicates > 0 {
		recs = append(recs, "Remove or investigate duplicate records to ensure data quality.")
	}
	if len(correlated) > 0 {
		recs = append(recs, "Analyze strongly correlated pairs for feature engineering opportunities.")
	}
	recs = append(recs, "Validate data distributions and handle outliers appropriately.")
	if res.Rows < 1000 {
		recs = append(recs, "Consider collecting more data; small datasets limit the reliability of these statistics.")
	}
	for i, r := range recs {
		sec.Blocks = append(sec.Blocks, textBlock("%d. %s", i+1, r))
	}

	sec.Blocks = append(sec.Blocks, textBlock(
		"This analysis of %d records across %d variables highlights the key patterns and "+
			"data quality considerations above. The dataset is %.1f%% complete, with %d numeric and "+
			"%d categorical variables available for further modeling.",
		res.Rows, res.Cols, res.Completeness,
		len(res.NumericColumns()), len(res.CategoricalColumns())))
	return sec
}

func qualityAssessment(res *profile.Result) Section {
	sec := Section{Title: "Data Quality Assessment"}

	rows := make([][]string, 0, len(res.ColumnOrder))
	for _, name := range res.ColumnOrder {
		rows = append(rows, []string{
			name,
			fmt.Sprintf("%d", res.Missing[name]),
			fmt.Sprintf("%.1f%%", res.MissingPct[name]),
		})
	}
	sec.Blocks = append(sec.Blocks, tableBlock([]string{"Column", "Missing", "Missing %"}, rows))

	dupRate := 100 * float64(res.Duplicates) / float64(res.Rows)
	volume := "Small"
	switch {
	case res.Rows > 10000:
		volume = "Large"
	case res.Rows > 1000:
		volume = "Medium"
	}
	diversity := "Limited variable diversity."
	if len(res.NumericColumns()) > 0 && len(res.CategoricalColumns()) > 0 {
		diversity = "Good mix of numeric and categorical variables."
	}
	sec.Blocks = append(sec.Blocks,
		textBlock("Completeness score: %.1f%%", res.Completeness),
		textBlock("Duplicate rows: %d (%.1f%% of the dataset)", res.Duplicates, dupRate),
		textBlock("Data volume: %s dataset (%d rows)", volume, res.Rows),
		textBlock("%s", diversity),
	)
	return sec
}
