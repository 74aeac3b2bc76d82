package dataset

import (
	"math"
	"strings"
	"time"
)

// Type is the inferred semantic type of a column. It is determined once at
// load time and carried immutably with the Dataset; downstream components
// never re-infer it.
type Type int

const (
	Numeric Type = iota
	Categorical
	Datetime
	Boolean
)

func (t Type) String() string {
	switch t {
	case Numeric:
		return "numeric"
	case Categorical:
		return "categorical"
	case Datetime:
		return "datetime"
	case Boolean:
		return "boolean"
	default:
		return "unknown"
	}
}

// Column holds one named column of raw cell text. Missing cells are stored
// as the empty string; recognized null markers are normalized at load time.
type Column struct {
	Name   string
	Type   Type
	Values []string
}

// Missing returns the number of missing cells in the column.
func (c Column) Missing() int {
	n := 0
	for _, v := range c.Values {
		if v == "" {
			n++
		}
	}
	return n
}

// Dataset is an ordered collection of named columns. All columns have equal
// length and unique names; both invariants are enforced by the loaders.
type Dataset struct {
	Columns []Column
}

// Rows returns the row count.
func (d *Dataset) Rows() int {
	if len(d.Columns) == 0 {
		return 0
	}
	return len(d.Columns[0].Values)
}

// Cols returns the column count.
func (d *Dataset) Cols() int { return len(d.Columns) }

// Names returns the column names in dataset order.
func (d *Dataset) Names() []string {
	names := make([]string, len(d.Columns))
	for i, c := range d.Columns {
		names[i] = c.Name
	}
	return names
}

// Column returns the named column, or false if it does not exist.
func (d *Dataset) Column(name string) (Column, bool) {
	for _, c := range d.Columns {
		if c.Name == name {
			return c, true
		}
	}
	return Column{}, false
}

// ColumnsOfType returns the names of all columns with the given type, in
// dataset order.
func (d *Dataset) ColumnsOfType(t Type) []string {
	var names []string
	for _, c := range d.Columns {
		if c.Type == t {
			names = append(names, c.Name)
		}
	}
	return names
}

// NumericValues returns the named column parsed as floats, one entry per row.
// Missing or unparsable cells are NaN.
func (d *Dataset) NumericValues(name string) []float64 {
	c, ok := d.Column(name)
	if !ok {
		return nil
	}
	out := make([]float64, len(c.Values))
	for i, v := range c.Values {
		if x, ok := parseNumber(v); ok {
			out[i] = x
		} else {
			out[i] = math.NaN()
		}
	}
	return out
}

// TimeValues returns the named column parsed as timestamps, one entry per
// row. Missing or unparsable cells are the zero time.
func (d *Dataset) TimeValues(name string) []time.Time {
	c, ok := d.Column(name)
	if !ok {
		return nil
	}
	out := make([]time.Time, len(c.Values))
	for i, v := range c.Values {
		if t, ok := parseTime(v); ok {
			out[i] = t
		}
	}
	return out
}

// nullMarkers are cell values treated as missing, compared case-insensitively.
var nullMarkers = map[string]bool{
	"na": true, "n/a": true, "null": true, "nil": true, "none": true, "-": true,
}

// IsMissing reports whether a raw cell value counts as missing.
func IsMissing(v string) bool {
	v = strings.TrimSpace(v)
	return v == "" || nullMarkers[strings.ToLower(v)]
}
