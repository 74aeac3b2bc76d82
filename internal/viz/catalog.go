// Package viz derives a chart catalog from a profiled dataset and renders
// each entry to a PNG. Chart specs are declarative and regenerable; the
// rendering engine is an implementation detail of this package.
package viz

import (
	"fmt"

	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/profile"
)

// Kind identifies a chart type.
type Kind int

const (
	Heatmap Kind = iota
	Distribution
	ScatterMatrix
	Box
	TimeSeries
)

func (k Kind) String() string {
	switch k {
	case Heatmap:
		return "heatmap"
	case Distribution:
		return "distribution"
	case ScatterMatrix:
		return "scatter matrix"
	case Box:
		return "box plot"
	case TimeSeries:
		return "time series"
	default:
		return "unknown"
	}
}

// Spec describes one chart: its kind and the columns that feed it. The data
// itself stays in the Dataset/Result, so a Spec can be re-rendered at any
// time.
type Spec struct {
	Kind    Kind
	Title   string
	Columns []string
}

// Chart pairs a spec with its rendered PNG bytes.
type Chart struct {
	Spec Spec
	PNG  []byte
}

// Options controls catalog construction.
type Options struct {
	// MaxBoxCategories caps the number of boxes per categorical plot.
	MaxBoxCategories int
	// MaxScatterColumns caps the scatter matrix dimensions.
	MaxScatterColumns int
}

// DefaultOptions returns the standard catalog options.
func DefaultOptions() Options {
	return Options{MaxBoxCategories: 12, MaxScatterColumns: 4}
}

// BuildCatalog derives the fixed chart catalog for a profiled dataset. Every
// skip condition is explicit: the heatmap and scatter matrix need at least
// two numeric columns, box plots need a numeric measure, and time series
// need a datetime column. An absent chart type is a valid state, not an
// error.
func BuildCatalog(ds *dataset.Dataset, res *profile.Result, opt Options) []Spec {
	if opt.MaxBoxCategories <= 0 {
		opt.MaxBoxCategories = DefaultOptions().MaxBoxCategories
	}
	if opt.MaxScatterColumns <= 0 {
		opt.MaxScatterColumns = DefaultOptions().MaxScatterColumns
	}

	numeric := res.NumericColumns()
	categorical := res.CategoricalColumns()
	datetimes := res.DatetimeColumns()

	var specs []Spec
	if len(numeric) >= 2 {
		specs = append(specs, Spec{Kind: Heatmap, Title: "Correlation Heatmap", Columns: numeric})
	}
	for _, name := range numeric {
		specs = append(specs, Spec{
			Kind:    Distribution,
			Title:   fmt.Sprintf("Distribution of %s", name),
			Columns: []string{name},
		})
	}
	if len(numeric) >= 2 {
		cols := numeric
		if len(cols) > opt.MaxScatterColumns {
			cols = cols[:opt.MaxScatterColumns]
		}
		specs = append(specs, Spec{Kind: ScatterMatrix, Title: "Scatter Matrix", Columns: cols})
	}
	if len(numeric) > 0 {
		measure := numeric[0]
		for _, name := range categorical {
			specs = append(specs, Spec{
				Kind:    Box,
				Title:   fmt.Sprintf("%s by %s", measure, name),
				Columns: []string{name, measure},
			})
		}
	}
	for _, dt := range datetimes {
		for _, name := range numeric {
			specs = append(specs, Spec{
				Kind:    TimeSeries,
				Title:   fmt.Sprintf("%s over Time", name),
				Columns: []string{dt, name},
			})
		}
	}
	return specs
}

// RenderCatalog renders every spec, reporting per-chart failures through
// warn and continuing with the rest. A failed chart is omitted from the
// returned slice.
func RenderCatalog(ds *dataset.Dataset, res *profile.Result, specs []Spec, opt Options, warn func(error)) []Chart {
	var charts []Chart
	for _, spec := range specs {
		png, err := Render(spec, ds, res, opt)
		if err != nil {
			if warn != nil {
				warn(err)
			}
			continue
		}
		charts = append(charts, Chart{Spec: spec, PNG: png})
	}
	return charts
}

// Find returns the first chart of the given kind, or false.
func Find(charts []Chart, k Kind) (Chart, bool) {
	for _, c := range charts {
		if c.Spec.Kind == k {
			return c, true
		}
	}
	return Chart{}, false
}

// OfKind returns all charts of the given kind, preserving catalog order.
func OfKind(charts []Chart, k Kind) []Chart {
	var out []Chart
	for _, c := range charts {
		if c.Spec.Kind == k {
			out = append(out, c)
		}
	}
	return out
}
