// Package insight renders templated natural-language observations from a
// profiling result. Generation is deterministic: the same Result always
// yields the same insights in the same order.
package insight

import (
	"fmt"
	"math"
	"sort"

	"github.com/datateller/datateller/internal/profile"
)

// Category tags an insight with the rule family that produced it.
type Category int

const (
	Overview Category = iota
	Quality
	Numeric
	Categorical
	Correlation
	Duplicates
)

func (c Category) String() string {
	switch c {
	case Overview:
		return "overview"
	case Quality:
		return "quality"
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Correlation:
		return "correlation"
	case Duplicates:
		return "duplicates"
	default:
		return "unknown"
	}
}

// Insight is one rendered observation.
type Insight struct {
	Category Category
	Text     string
}

// Thresholds are the tunable flag levels for the quality and correlation
// rule families.
type Thresholds struct {
	// MissingPct flags columns whose missing-value percentage meets or
	// exceeds it.
	MissingPct float64
	// Correlation flags pairs whose absolute correlation meets it.
	Correlation float64
}

// DefaultThresholds returns the standard flag levels.
func DefaultThresholds() Thresholds {
	return Thresholds{MissingPct: 5, Correlation: 0.7}
}

// skewRatio flags a numeric column when one tail stretches this many times
// further from the mean than the other.
const skewRatio = 3.0

// rule couples a category with its formatting function. The table is
// evaluated in order; within a rule, columns follow dataset order.
type rule struct {
	category Category
	apply    func(res *profile.Result, th Thresholds) []string
}

var rules = []rule{
	{Overview, overviewTexts},
	{Quality, qualityTexts},
	{Numeric, numericTexts},
	{Categorical, categoricalTexts},
	{Correlation, correlationTexts},
	{Duplicates, duplicateTexts},
}

// Generate produces the full ordered insight sequence for a profiling result.
func Generate(res *profile.Result, th Thresholds) []Insight {
	var out []Insight
	for _, r := range rules {
		for _, text := range r.apply(res, th) {
			out = append(out, Insight{Category: r.category, Text: text})
		}
	}
	return out
}

func overviewTexts(res *profile.Result, _ Thresholds) []string {
	texts := []string{
		fmt.Sprintf("The dataset contains %d rows and %d columns.", res.Rows, res.Cols),
	}
	texts = append(texts, fmt.Sprintf(
		"Column types: %d numeric, %d categorical, %d datetime, %d boolean.",
		len(res.NumericColumns()), len(res.CategoricalColumns()),
		len(res.DatetimeColumns()), len(res.BooleanColumns())))
	return texts
}

func qualityTexts(res *profile.Result, th Thresholds) []string {
	var texts []string
	for _, name := range res.ColumnOrder {
		if res.Missing[name] == 0 {
			continue
		}
		pct := res.MissingPct[name]
		if pct >= th.MissingPct {
			texts = append(texts, fmt.Sprintf(
				"Column %q has %d missing values (%.1f%% of rows).",
				name, res.Missing[name], pct))
		}
	}
	if res.Duplicates > 0 {
		texts = append(texts, fmt.Sprintf("%d duplicate rows detected.", res.Duplicates))
	}
	return texts
}

func numericTexts(res *profile.Result, _ Thresholds) []string {
	var texts []string
	for _, name := range res.NumericColumns() {
		s := res.Numeric[name]
		if s.Count == 0 {
			continue
		}
		texts = append(texts, fmt.Sprintf(
			"Column %q averages %.2f (std %.2f) over the range %.2f to %.2f.",
			name, s.Mean, s.Std, s.Min, s.Max))
		if tail := skewDirection(s); tail != "" {
			texts = append(texts, fmt.Sprintf(
				"Values of %q are skewed toward the %s end of their range.", name, tail))
		}
	}
	return texts
}

// skewDirection compares the two tail lengths around the mean.
func skewDirection(s profile.NumericStats) string {
	upper := s.Max - s.Mean
	lower := s.Mean - s.Min
	switch {
	case lower > 0 && upper > skewRatio*lower:
		return "high"
	case upper > 0 && lower > skewRatio*upper:
		return "low"
	default:
		return ""
	}
}

func categoricalTexts(res *profile.Result, _ Thresholds) []string {
	var texts []string
	for _, name := range res.CategoricalColumns() {
		f := res.Categorical[name]
		if len(f.Top) == 0 {
			continue
		}
		nonMissing := res.Rows - res.Missing[name]
		if nonMissing == 0 {
			continue
		}
		top := f.Top[0]
		texts = append(texts, fmt.Sprintf(
			"Most frequent value in %q is %q (%.1f%% of non-missing rows).",
			name, top.Value, 100*float64(top.Count)/float64(nonMissing)))
	}
	return texts
}

func correlationTexts(res *profile.Result, th Thresholds) []string {
	m := res.Corr
	if m == nil || len(m.Columns) < 2 {
		return nil
	}
	type pair struct {
		a, b string
		r    float64
	}
	var pairs []pair
	for i := 0; i < len(m.Columns); i++ {
		for j := i + 1; j < len(m.Columns); j++ {
			r := m.At(i, j)
			// Undefined correlations are a valid analytic outcome, not an
			// error: skip silently.
			if math.IsNaN(r) || math.Abs(r) < th.Correlation {
				continue
			}
			pairs = append(pairs, pair{a: m.Columns[i], b: m.Columns[j], r: r})
		}
	}
	sort.Slice(pairs, func(i, j int) bool {
		ai, aj := math.Abs(pairs[i].r), math.Abs(pairs[j].r)
		if ai == aj {
			return pairs[i].a+pairs[i].b < pairs[j].a+pairs[j].b
		}
		return ai > aj
	})
	var texts []string
	for _, p := range pairs {
		direction := "positive"
		if p.r < 0 {
			direction = "negative"
		}
		texts = append(texts, fmt.Sprintf(
			"Strong %s correlation between %q and %q (r=%.2f).", direction, p.a, p.b, p.r))
	}
	return texts
}

func duplicateTexts(res *profile.Result, _ Thresholds) []string {
	if res.Duplicates == 0 {
		return nil
	}
	return []string{fmt.Sprintf(
		"Duplicate rows: %d (%.1f%% of the dataset).",
		res.Duplicates, 100*float64(res.Duplicates)/float64(res.Rows))}
}

// ByCategory filters insights to one category, preserving order.
func ByCategory(insights []Insight, c Category) []Insight {
	var out []Insight
	for _, in := range insights {
		if in.Category == c {
			out = append(out, in)
		}
	}
	return out
}
