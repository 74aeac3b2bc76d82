package viz

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/datateller/datateller/internal/dataset"
	"github.com/datateller/datateller/internal/profile"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

const storeCSV = `day,units,price,region
2023-01-01,10,1.50,North
2023-01-02,12,1.75,South
2023-01-03,9,1.60,North
2023-01-04,15,2.00,East
2023-01-05,11,1.80,South
2023-01-06,14,1.95,North
`

func loadStore(t *testing.T) (*dataset.Dataset, *profile.Result) {
	t.Helper()
	ds, err := dataset.LoadCSV(strings.NewReader(storeCSV), ',')
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	res, err := profile.Profile(ds, profile.DefaultOptions())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	return ds, res
}

func countKinds(specs []Spec) map[Kind]int {
	m := map[Kind]int{}
	for _, s := range specs {
		m[s.Kind]++
	}
	return m
}

func TestBuildCatalogFull(t *testing.T) {
	ds, res := loadStore(t)
	specs := BuildCatalog(ds, res, DefaultOptions())
	got := countKinds(specs)
	want := map[Kind]int{
		Heatmap:       1,
		Distribution:  2, // units, price
		ScatterMatrix: 1,
		Box:           1, // units by region
		TimeSeries:    2, // units and price over day
	}
	for k, n := range want {
		if got[k] != n {
			t.Errorf("%v charts = %d, want %d", k, got[k], n)
		}
	}
}

func TestBuildCatalogSingleNumeric(t *testing.T) {
	csv := "value,label\n1,a\n2,b\n3,a\n"
	ds, err := dataset.LoadCSV(strings.NewReader(csv), ',')
	if err != nil {
		t.Fatal(err)
	}
	res, err := profile.Profile(ds, profile.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	specs := BuildCatalog(ds, res, DefaultOptions())
	got := countKinds(specs)
	if got[Heatmap] != 0 || got[ScatterMatrix] != 0 {
		t.Errorf("pairwise charts with one numeric column: %v", got)
	}
	if got[Distribution] != 1 || got[Box] != 1 {
		t.Errorf("catalog = %v, want 1 distribution and 1 box", got)
	}
}

func TestBuildCatalogNoNumeric(t *testing.T) {
	csv := "label,flag\na,true\nb,false\n"
	ds, err := dataset.LoadCSV(strings.NewReader(csv), ',')
	if err != nil {
		t.Fatal(err)
	}
	res, err := profile.Profile(ds, profile.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if specs := BuildCatalog(ds, res, DefaultOptions()); len(specs) != 0 {
		t.Errorf("got %d specs for a dataset with no numeric columns", len(specs))
	}
}

func TestBuildCatalogScatterCap(t *testing.T) {
	csv := "a,b,c,d,e,f\n1,2,3,4,5,6\n2,3,4,5,6,7\n3,4,5,6,7,8\n"
	ds, err := dataset.LoadCSV(strings.NewReader(csv), ',')
	if err != nil {
		t.Fatal(err)
	}
	res, err := profile.Profile(ds, profile.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	specs := BuildCatalog(ds, res, Options{MaxScatterColumns: 3})
	for _, s := range specs {
		if s.Kind == ScatterMatrix && len(s.Columns) != 3 {
			t.Errorf("scatter matrix columns = %d, want 3", len(s.Columns))
		}
	}
}

func TestRenderCatalog(t *testing.T) {
	ds, res := loadStore(t)
	specs := BuildCatalog(ds, res, DefaultOptions())
	var warnings []error
	charts := RenderCatalog(ds, res, specs, DefaultOptions(), func(err error) {
		warnings = append(warnings, err)
	})
	if len(warnings) > 0 {
		t.Fatalf("render warnings: %v", warnings)
	}
	if len(charts) != len(specs) {
		t.Fatalf("rendered %d of %d charts", len(charts), len(specs))
	}
	for _, c := range charts {
		if !bytes.HasPrefix(c.PNG, pngMagic) {
			t.Errorf("%s: output is not a PNG", c.Spec.Title)
		}
	}
}

func TestRenderEachKind(t *testing.T) {
	ds, res := loadStore(t)
	specs := []Spec{
		{Kind: Heatmap, Title: "heat", Columns: []string{"units", "price"}},
		{Kind: Distribution, Title: "dist", Columns: []string{"units"}},
		{Kind: ScatterMatrix, Title: "scatter", Columns: []string{"units", "price"}},
		{Kind: Box, Title: "box", Columns: []string{"region", "units"}},
		{Kind: TimeSeries, Title: "ts", Columns: []string{"day", "units"}},
	}
	for _, spec := range specs {
		png, err := Render(spec, ds, res, DefaultOptions())
		if err != nil {
			t.Errorf("%v: %v", spec.Kind, err)
			continue
		}
		if !bytes.HasPrefix(png, pngMagic) {
			t.Errorf("%v: output is not a PNG", spec.Kind)
		}
	}
}

func TestRenderErrorWraps(t *testing.T) {
	ds, res := loadStore(t)
	spec := Spec{Kind: Distribution, Title: "missing", Columns: []string{"nope"}}
	_, err := Render(spec, ds, res, DefaultOptions())
	if err == nil {
		t.Fatal("expected an error for an unknown column")
	}
	var re *RenderError
	if !errors.As(err, &re) {
		t.Fatalf("err %T is not a RenderError", err)
	}
	if re.Kind != Distribution {
		t.Errorf("RenderError.Kind = %v, want Distribution", re.Kind)
	}
}

func TestFindAndOfKind(t *testing.T) {
	charts := []Chart{
		{Spec: Spec{Kind: Distribution, Title: "a"}},
		{Spec: Spec{Kind: Box, Title: "b"}},
		{Spec: Spec{Kind: Distribution, Title: "c"}},
	}
	if c, ok := Find(charts, Distribution); !ok || c.Spec.Title != "a" {
		t.Errorf("Find = (%+v, %v)", c, ok)
	}
	if _, ok := Find(charts, Heatmap); ok {
		t.Error("Find located a chart kind that is absent")
	}
	got := OfKind(charts, Distribution)
	if len(got) != 2 || got[0].Spec.Title != "a" || got[1].Spec.Title != "c" {
		t.Errorf("OfKind = %+v", got)
	}
}
