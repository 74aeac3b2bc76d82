// Package profile computes descriptive statistics over a loaded dataset.
package profile

import (
	"errors"
	"math"
	"sort"
	"strings"

	"github.com/datateller/datateller/internal/dataset"
)

// ErrInsufficientData indicates the dataset has zero rows or zero columns.
// Profiling is all-or-nothing: no partial Result is produced.
var ErrInsufficientData = errors.New("insufficient data: dataset has no rows or columns")

// Options controls profiling behavior.
type Options struct {
	// TopK caps categorical frequency tables; the remainder is summed into
	// an Other bucket.
	TopK int
}

// DefaultOptions returns the standard profiling options.
func DefaultOptions() Options {
	return Options{TopK: 10}
}

// NumericStats holds descriptive statistics for one numeric column, computed
// over its non-missing values.
type NumericStats struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Q1     float64
	Median float64
	Q3     float64
}

// ValueCount is one entry of a categorical frequency table.
type ValueCount struct {
	Value string
	Count int
}

// Frequency is a top-K frequency table for a categorical or boolean column.
// Other sums the occurrences of values beyond the top K.
type Frequency struct {
	Unique int
	Top    []ValueCount
	Other  int
}

// Matrix is a square Pearson correlation matrix over the numeric columns.
// Entries are in [-1, 1]; undefined correlations (zero variance, too few
// paired observations) are NaN and must never be read as 0 or 1.
type Matrix struct {
	Columns []string
	Values  [][]float64
}

// Index returns the matrix index of a column name, or -1.
func (m *Matrix) Index(name string) int {
	for i, c := range m.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// At returns the correlation entry at (i, j).
func (m *Matrix) At(i, j int) float64 { return m.Values[i][j] }

// Defined reports whether the entry at (i, j) is a defined correlation.
func (m *Matrix) Defined(i, j int) bool { return !math.IsNaN(m.Values[i][j]) }

// Result is an immutable profiling snapshot. ColumnOrder preserves the
// dataset's column order for deterministic iteration over the maps.
type Result struct {
	Rows        int
	Cols        int
	ColumnOrder []string
	Types       map[string]dataset.Type
	Missing     map[string]int
	MissingPct  map[string]float64
	Duplicates  int
	// Completeness is the percentage of non-missing cells across the dataset.
	Completeness float64
	Numeric      map[string]NumericStats
	Categorical  map[string]Frequency
	// Corr is nil when the dataset has no numeric columns.
	Corr *Matrix
}

// NumericColumns returns the numeric column names in dataset order.
func (r *Result) NumericColumns() []string { return r.columnsOf(dataset.Numeric) }

// CategoricalColumns returns the categorical column names in dataset order.
func (r *Result) CategoricalColumns() []string { return r.columnsOf(dataset.Categorical) }

// DatetimeColumns returns the datetime column names in dataset order.
func (r *Result) DatetimeColumns() []string { return r.columnsOf(dataset.Datetime) }

// BooleanColumns returns the boolean column names in dataset order.
func (r *Result) BooleanColumns() []string { return r.columnsOf(dataset.Boolean) }

func (r *Result) columnsOf(t dataset.Type) []string {
	var names []string
	for _, name := range r.ColumnOrder {
		if r.Types[name] == t {
			names = append(names, name)
		}
	}
	return names
}

// TotalMissing returns the number of missing cells across all columns.
func (r *Result) TotalMissing() int {
	n := 0
	for _, m := range r.Missing {
		n += m
	}
	return n
}

// Profile computes a Result from the dataset. The dataset is not mutated.
func Profile(ds *dataset.Dataset, opt Options) (*Result, error) {
	if ds == nil || ds.Rows() == 0 || ds.Cols() == 0 {
		return nil, ErrInsufficientData
	}
	if opt.TopK <= 0 {
		opt.TopK = DefaultOptions().TopK
	}

	res := &Result{
		Rows:        ds.Rows(),
		Cols:        ds.Cols(),
		ColumnOrder: ds.Names(),
		Types:       make(map[string]dataset.Type, ds.Cols()),
		Missing:     make(map[string]int, ds.Cols()),
		MissingPct:  make(map[string]float64, ds.Cols()),
		Numeric:     make(map[string]NumericStats),
		Categorical: make(map[string]Frequency),
	}

	missingCells := 0
	for _, c := range ds.Columns {
		res.Types[c.Name] = c.Type
		miss := c.Missing()
		res.Missing[c.Name] = miss
		res.MissingPct[c.Name] = 100 * float64(miss) / float64(res.Rows)
		missingCells += miss

		switch c.Type {
		case dataset.Numeric:
			res.Numeric[c.Name] = numericStats(ds.NumericValues(c.Name))
		case dataset.Categorical, dataset.Boolean:
			res.Categorical[c.Name] = frequency(c.Values, opt.TopK)
		}
	}
	totalCells := res.Rows * res.Cols
	res.Completeness = 100 * float64(totalCells-missingCells) / float64(totalCells)
	res.Duplicates = duplicateRows(ds)
	if numeric := ds.ColumnsOfType(dataset.Numeric); len(numeric) > 0 {
		res.Corr = correlate(ds, numeric)
	}
	return res, nil
}

func numericStats(vals []float64) NumericStats {
	clean := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			clean = append(clean, v)
		}
	}
	s := NumericStats{Count: len(clean)}
	if s.Count == 0 {
		return s
	}

	// Welford accumulation for mean and sample std.
	mean, m2 := 0.0, 0.0
	s.Min, s.Max = math.Inf(1), math.Inf(-1)
	for i, v := range clean {
		if v < s.Min {
			s.Min = v
		}
		if v > s.Max {
			s.Max = v
		}
		delta := v - mean
		mean += delta / float64(i+1)
		m2 += delta * (v - mean)
	}
	s.Mean = mean
	if s.Count > 1 {
		s.Std = math.Sqrt(m2 / float64(s.Count-1))
	}

	sorted := make([]float64, len(clean))
	copy(sorted, clean)
	sort.Float64s(sorted)
	s.Q1 = quantile(sorted, 0.25)
	s.Median = quantile(sorted, 0.5)
	s.Q3 = quantile(sorted, 0.75)
	return s
}

// quantile interpolates linearly between order statistics; vals must be sorted.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	if q <= 0 {
		return vals[0]
	}
	if q >= 1 {
		return vals[len(vals)-1]
	}
	pos := q * float64(len(vals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return vals[lo]
	}
	w := pos - float64(lo)
	return vals[lo]*(1-w) + vals[hi]*w
}

func frequency(values []string, topK int) Frequency {
	counts := map[string]int{}
	for _, v := range values {
		if v == "" {
			continue
		}
		counts[v]++
	}
	all := make([]ValueCount, 0, len(counts))
	for v, n := range counts {
		all = append(all, ValueCount{Value: v, Count: n})
	}
	sort.Slice(all, func(i, j int) bool {
		if all[i].Count == all[j].Count {
			return all[i].Value < all[j].Value
		}
		return all[i].Count > all[j].Count
	})
	f := Frequency{Unique: len(all)}
	if len(all) > topK {
		f.Top = all[:topK]
		for _, vc := range all[topK:] {
			f.Other += vc.Count
		}
	} else {
		f.Top = all
	}
	return f
}

func duplicateRows(ds *dataset.Dataset) int {
	seen := make(map[string]bool, ds.Rows())
	dups := 0
	var b strings.Builder
	for r := 0; r < ds.Rows(); r++ {
		b.Reset()
		for ci, c := range ds.Columns {
			if ci > 0 {
				b.WriteByte('\x1f')
			}
			b.WriteString(c.Values[r])
		}
		key := b.String()
		if seen[key] {
			dups++
		} else {
			seen[key] = true
		}
	}
	return dups
}

// correlate builds the pairwise Pearson matrix. Each pair is computed over
// the rows where both values are present; a diagonal entry is 1 only when
// the column has nonzero variance.
func correlate(ds *dataset.Dataset, numeric []string) *Matrix {
	n := len(numeric)
	cols := make([][]float64, n)
	for i, name := range numeric {
		cols[i] = ds.NumericValues(name)
	}

	m := &Matrix{Columns: numeric, Values: make([][]float64, n)}
	for i := range m.Values {
		m.Values[i] = make([]float64, n)
	}
	for i := 0; i < n; i++ {
		m.Values[i][i] = selfCorrelation(cols[i])
		for j := i + 1; j < n; j++ {
			r := pearson(cols[i], cols[j])
			m.Values[i][j] = r
			m.Values[j][i] = r
		}
	}
	return m
}

// selfCorrelation is 1 for a column with nonzero variance and NaN otherwise;
// a constant column correlates with nothing, including itself.
func selfCorrelation(xs []float64) float64 {
	var n float64
	var sum, sumSq float64
	for _, x := range xs {
		if math.IsNaN(x) {
			continue
		}
		n++
		sum += x
		sumSq += x * x
	}
	if n < 2 || n*sumSq-sum*sum <= 0 {
		return math.NaN()
	}
	return 1
}

func pearson(xs, ys []float64) float64 {
	var n, sumX, sumY, sumXX, sumYY, sumXY float64
	for i := range xs {
		x, y := xs[i], ys[i]
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		n++
		sumX += x
		sumY += y
		sumXX += x * x
		sumYY += y * y
		sumXY += x * y
	}
	if n < 2 {
		return math.NaN()
	}
	varX := n*sumXX - sumX*sumX
	varY := n*sumYY - sumY*sumY
	if varX <= 0 || varY <= 0 {
		return math.NaN()
	}
	r := (n*sumXY - sumX*sumY) / math.Sqrt(varX*varY)
	if r > 1 {
		r = 1
	} else if r < -1 {
		r = -1
	}
	return r
}
