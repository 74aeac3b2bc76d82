package viz

import (
	"bytes"
	"fmt"
	"math"
	"sort"
	"time"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/palette/moreland"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/profile"
)

// RenderError reports a single chart that could not be rendered. It is
// contained per-chart: callers log it and continue with the remaining
// catalog.
type RenderError struct {
	Kind  Kind
	Title string
	Err   error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s %q: %v", e.Kind, e.Title, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// Render draws one chart spec to PNG bytes.
func Render(spec Spec, ds *dataset.Dataset, res *profile.Result, opt Options) ([]byte, error) {
	var (
		png []byte
		err error
	)
	switch spec.Kind {
	case Heatmap:
		png, err = renderHeatmap(spec, res)
	case Distribution:
		png, err = renderDistribution(spec, ds)
	case ScatterMatrix:
		png, err = renderScatterMatrix(spec, ds)
	case Box:
		png, err = renderBox(spec, ds, res, opt)
	case TimeSeries:
		png, err = renderTimeSeries(spec, ds)
	default:
		err = fmt.Errorf("unknown chart kind %d", spec.Kind)
	}
	if err != nil {
		return nil, &RenderError{Kind: spec.Kind, Title: spec.Title, Err: err}
	}
	return png, nil
}

// corrGrid adapts a correlation matrix to the heatmap grid interface.
// Undefined entries render as the palette midpoint (neutral); the profiling
// result itself keeps them as NaN.
type corrGrid struct{ m *profile.Matrix }

func (g corrGrid) Dims() (c, r int) { n := len(g.m.Columns); return n, n }
func (g corrGrid) X(c int) float64  { return float64(c) }
func (g corrGrid) Y(r int) float64  { return float64(r) }

func (g corrGrid) Z(c, r int) float64 {
	v := g.m.At(r, c)
	if math.IsNaN(v) {
		return 0
	}
	return v
}

func renderHeatmap(spec Spec, res *profile.Result) ([]byte, error) {
	if res.Corr == nil || len(res.Corr.Columns) < 2 {
		return nil, fmt.Errorf("correlation matrix needs at least 2 numeric columns")
	}
	colors := moreland.SmoothBlueRed()
	colors.SetMin(-1)
	colors.SetMax(1)
	hm := plotter.NewHeatMap(corrGrid{m: res.Corr}, colors.Palette(255))
	hm.Min, hm.Max = -1, 1

	p := plot.New()
	p.Title.Text = spec.Title
	p.Add(hm)
	p.X.Tick.Marker = plot.ConstantTicks(nameTicks(res.Corr.Columns))
	p.Y.Tick.Marker = plot.ConstantTicks(nameTicks(res.Corr.Columns))
	p.X.Tick.Label.Rotation = math.Pi / 4
	p.X.Tick.Label.XAlign = draw.XRight
	return pngBytes(p, 6*vg.Inch, 5*vg.Inch)
}

func nameTicks(names []string) []plot.Tick {
	ticks := make([]plot.Tick, len(names))
	for i, n := range names {
		ticks[i] = plot.Tick{Value: float64(i), Label: n}
	}
	return ticks
}

func renderDistribution(spec Spec, ds *dataset.Dataset) ([]byte, error) {
	vals := cleanValues(ds, spec.Columns[0])
	if len(vals) == 0 {
		return nil, fmt.Errorf("column %q has no numeric values", spec.Columns[0])
	}
	h, err := plotter.NewHist(plotter.Values(vals), 30)
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = spec.Columns[0]
	p.Y.Label.Text = "count"
	p.Add(h)
	return pngBytes(p, 6*vg.Inch, 4*vg.Inch)
}

func renderScatterMatrix(spec Spec, ds *dataset.Dataset) ([]byte, error) {
	n := len(spec.Columns)
	if n < 2 {
		return nil, fmt.Errorf("scatter matrix needs at least 2 columns")
	}
	cols := make([][]float64, n)
	for i, name := range spec.Columns {
		cols[i] = ds.NumericValues(name)
	}

	plots := make([][]*plot.Plot, n)
	for r := 0; r < n; r++ {
		plots[r] = make([]*plot.Plot, n)
		for c := 0; c < n; c++ {
			p := plot.New()
			if r == n-1 {
				p.X.Label.Text = spec.Columns[c]
			}
			if c == 0 {
				p.Y.Label.Text = spec.Columns[r]
			}
			if r == c {
				vals := cleanValues(ds, spec.Columns[r])
				if len(vals) > 0 {
					if h, err := plotter.NewHist(plotter.Values(vals), 20); err == nil {
						p.Add(h)
					}
				}
			} else {
				var xys plotter.XYs
				for i := range cols[c] {
					x, y := cols[c][i], cols[r][i]
					if math.IsNaN(x) || math.IsNaN(y) {
						continue
					}
					xys = append(xys, plotter.XY{X: x, Y: y})
				}
				s, err := plotter.NewScatter(xys)
				if err != nil {
					return nil, err
				}
				s.Radius = vg.Points(1.5)
				p.Add(s)
			}
			plots[r][c] = p
		}
	}

	img := vgimg.New(9*vg.Inch, 9*vg.Inch)
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	canvases := plot.Align(plots, tiles, dc)
	for r := 0; r < n; r++ {
		for c := 0; c < n; c++ {
			plots[r][c].Draw(canvases[r][c])
		}
	}
	var buf bytes.Buffer
	pngc := vgimg.PngCanvas{Canvas: img}
	if _, err := pngc.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func renderBox(spec Spec, ds *dataset.Dataset, res *profile.Result, opt Options) ([]byte, error) {
	catName, numName := spec.Columns[0], spec.Columns[1]
	cat, ok := ds.Column(catName)
	if !ok {
		return nil, fmt.Errorf("unknown column %q", catName)
	}
	nums := ds.NumericValues(numName)

	// Categories capped for readability, most frequent first.
	freq := res.Categorical[catName]
	limit := opt.MaxBoxCategories
	if limit <= 0 {
		limit = DefaultOptions().MaxBoxCategories
	}
	var names []string
	for _, vc := range freq.Top {
		if len(names) == limit {
			break
		}
		names = append(names, vc.Value)
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("column %q has no categories", catName)
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.Y.Label.Text = numName
	for i, name := range names {
		var vals plotter.Values
		for r, v := range cat.Values {
			if v != name || math.IsNaN(nums[r]) {
				continue
			}
			vals = append(vals, nums[r])
		}
		if len(vals) == 0 {
			continue
		}
		b, err := plotter.NewBoxPlot(vg.Points(20), float64(i), vals)
		if err != nil {
			return nil, err
		}
		p.Add(b)
	}
	p.NominalX(names...)
	return pngBytes(p, 6*vg.Inch, 4*vg.Inch)
}

func renderTimeSeries(spec Spec, ds *dataset.Dataset) ([]byte, error) {
	dtName, numName := spec.Columns[0], spec.Columns[1]
	times := ds.TimeValues(dtName)
	nums := ds.NumericValues(numName)

	type point struct {
		t time.Time
		v float64
	}
	var pts []point
	for i := range times {
		if times[i].IsZero() || math.IsNaN(nums[i]) {
			continue
		}
		pts = append(pts, point{t: times[i], v: nums[i]})
	}
	if len(pts) == 0 {
		return nil, fmt.Errorf("no paired observations for %q over %q", numName, dtName)
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].t.Before(pts[j].t) })

	xys := make(plotter.XYs, len(pts))
	for i, pt := range pts {
		xys[i] = plotter.XY{X: float64(pt.t.Unix()), Y: pt.v}
	}
	line, err := plotter.NewLine(xys)
	if err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = spec.Title
	p.X.Label.Text = dtName
	p.Y.Label.Text = numName
	p.X.Tick.Marker = plot.TimeTicks{Format: "2006-01-02"}
	p.Add(line)
	return pngBytes(p, 7*vg.Inch, 4*vg.Inch)
}

func cleanValues(ds *dataset.Dataset, name string) []float64 {
	var vals []float64
	for _, v := range ds.NumericValues(name) {
		if !math.IsNaN(v) {
			vals = append(vals, v)
		}
	}
	return vals
}

func pngBytes(p *plot.Plot, w, h vg.Length) ([]byte, error) {
	wt, err := p.WriterTo(w, h, "png")
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if _, err := wt.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
