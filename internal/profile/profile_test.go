package profile

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/datateller/datateller/internal/dataset"
)

// buildDataset assembles a 10-row dataset with one missing age, an exact
// duplicate row, a constant column and a pair of linearly related measures.
func buildDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	var b strings.Builder
	b.WriteString("age,height,constant,city,signup_date\n")
	ages := []string{"20", "25", "30", "35", "", "45", "50", "55", "60", "20"}
	cities := []string{"Oslo", "Oslo", "Bergen", "Oslo", "Bergen", "Tromso", "Oslo", "Bergen", "Oslo", "Oslo"}
	for i := 0; i < 10; i++ {
		height := ""
		if ages[i] != "" {
			var a float64
			fmt.Sscanf(ages[i], "%f", &a)
			height = fmt.Sprintf("%.1f", 100+2*a)
		} else {
			height = "190.0"
		}
		// Rows 0 and 9 share every value: one duplicate.
		if i == 9 {
			height = "140.0"
			cities[i] = "Oslo"
		}
		date := fmt.Sprintf("2023-01-%02d", i+1)
		if i == 9 {
			date = "2023-01-01"
		}
		fmt.Fprintf(&b, "%s,%s,5,%s,%s\n", ages[i], height, cities[i], date)
	}
	ds, err := dataset.LoadCSV(strings.NewReader(b.String()), ',')
	if err != nil {
		t.Fatalf("LoadCSV: %v", err)
	}
	return ds
}

func TestProfileBasics(t *testing.T) {
	ds := buildDataset(t)
	res, err := Profile(ds, DefaultOptions())
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if res.Rows != 10 || res.Cols != 5 {
		t.Fatalf("got %dx%d, want 10x5", res.Rows, res.Cols)
	}
	if res.Missing["age"] != 1 {
		t.Errorf("Missing[age] = %d, want 1", res.Missing["age"])
	}
	if got := res.MissingPct["age"]; got != 10 {
		t.Errorf("MissingPct[age] = %v, want 10", got)
	}
	if res.Duplicates != 1 {
		t.Errorf("Duplicates = %d, want 1", res.Duplicates)
	}
	// 1 missing cell out of 50.
	if got := res.Completeness; math.Abs(got-98) > 1e-9 {
		t.Errorf("Completeness = %v, want 98", got)
	}
	if res.Types["city"] != dataset.Categorical || res.Types["signup_date"] != dataset.Datetime {
		t.Errorf("types = %v", res.Types)
	}
}

func TestProfileNumericStats(t *testing.T) {
	ds := buildDataset(t)
	res, err := Profile(ds, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	s, ok := res.Numeric["age"]
	if !ok {
		t.Fatal("no stats for age")
	}
	if s.Count != 9 {
		t.Errorf("Count = %d, want 9", s.Count)
	}
	if s.Min != 20 || s.Max != 60 {
		t.Errorf("range = [%v, %v], want [20, 60]", s.Min, s.Max)
	}
	wantMean := (20.0 + 25 + 30 + 35 + 45 + 50 + 55 + 60 + 20) / 9
	if math.Abs(s.Mean-wantMean) > 1e-9 {
		t.Errorf("Mean = %v, want %v", s.Mean, wantMean)
	}
	if s.Median != 35 {
		t.Errorf("Median = %v, want 35", s.Median)
	}
	if s.Q1 >= s.Median || s.Median >= s.Q3 {
		t.Errorf("quartiles out of order: %v %v %v", s.Q1, s.Median, s.Q3)
	}
}

func TestProfileFrequency(t *testing.T) {
	ds := buildDataset(t)
	res, err := Profile(ds, Options{TopK: 2})
	if err != nil {
		t.Fatal(err)
	}
	f, ok := res.Categorical["city"]
	if !ok {
		t.Fatal("no frequency for city")
	}
	if f.Unique != 3 {
		t.Errorf("Unique = %d, want 3", f.Unique)
	}
	if len(f.Top) != 2 {
		t.Fatalf("len(Top) = %d, want 2", len(f.Top))
	}
	if f.Top[0].Value != "Oslo" || f.Top[0].Count != 6 {
		t.Errorf("Top[0] = %+v, want Oslo 6", f.Top[0])
	}
	if f.Other != 1 {
		t.Errorf("Other = %d, want 1 (Tromso)", f.Other)
	}
}

func TestProfileCorrelation(t *testing.T) {
	ds := buildDataset(t)
	res, err := Profile(ds, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m := res.Corr
	if m == nil {
		t.Fatal("Corr is nil")
	}
	i, j := m.Index("age"), m.Index("height")
	if i < 0 || j < 0 {
		t.Fatalf("age/height missing from matrix %v", m.Columns)
	}
	// Symmetry.
	if m.At(i, j) != m.At(j, i) {
		t.Errorf("matrix not symmetric: %v vs %v", m.At(i, j), m.At(j, i))
	}
	// Heights lie exactly on 100+2*age over the paired rows.
	if r := m.At(i, j); math.Abs(r-1) > 1e-9 {
		t.Errorf("corr(age, height) = %v, want 1", r)
	}
	if !m.Defined(i, i) || m.At(i, i) != 1 {
		t.Errorf("diagonal for age = %v, want 1", m.At(i, i))
	}
	// Constant column: undefined everywhere, including its own diagonal.
	k := m.Index("constant")
	if k < 0 {
		t.Fatal("constant missing from matrix")
	}
	if m.Defined(k, k) || m.Defined(k, i) {
		t.Errorf("constant column should have undefined correlations")
	}
}

func TestProfileInsufficientData(t *testing.T) {
	empty := &dataset.Dataset{}
	if _, err := Profile(empty, DefaultOptions()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("empty dataset: err = %v, want ErrInsufficientData", err)
	}
	headerOnly, err := dataset.LoadCSV(strings.NewReader("a,b\n"), ',')
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Profile(headerOnly, DefaultOptions()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("header-only dataset: err = %v, want ErrInsufficientData", err)
	}
	if _, err := Profile(nil, DefaultOptions()); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("nil dataset: err = %v, want ErrInsufficientData", err)
	}
}

func TestProfileDoesNotMutate(t *testing.T) {
	ds := buildDataset(t)
	before := make([]string, len(ds.Columns[0].Values))
	copy(before, ds.Columns[0].Values)
	if _, err := Profile(ds, DefaultOptions()); err != nil {
		t.Fatal(err)
	}
	for i, v := range ds.Columns[0].Values {
		if v != before[i] {
			t.Fatalf("dataset mutated at row %d", i)
		}
	}
}

func TestQuantile(t *testing.T) {
	vals := []float64{1, 2, 3, 4}
	if got := quantile(vals, 0.5); got != 2.5 {
		t.Errorf("median of 1..4 = %v, want 2.5", got)
	}
	if got := quantile(vals, 0); got != 1 {
		t.Errorf("q0 = %v, want 1", got)
	}
	if got := quantile(vals, 1); got != 4 {
		t.Errorf("q1 = %v, want 4", got)
	}
	if got := quantile(nil, 0.5); got != 0 {
		t.Errorf("empty = %v, want 0", got)
	}
}
