package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ErrUnsupportedFormat indicates the uploaded file is neither a recognized
// CSV/TSV nor a spreadsheet. The caller should prompt for another file.
var ErrUnsupportedFormat = errors.New("unsupported file format (want .csv, .tsv or .xlsx)")

// Load reads a tabular file from disk, dispatching on the file extension.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer f.Close()
	return LoadNamed(f, filepath.Base(path))
}

// LoadNamed reads a tabular stream whose format is determined by the file
// name, as with an uploaded file.
func LoadNamed(r io.Reader, name string) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return LoadCSV(r, ',')
	case ".tsv":
		return LoadCSV(r, '\t')
	case ".xlsx":
		return LoadXLSX(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, name)
	}
}

// LoadCSV reads a delimited stream with a header row.
func LoadCSV(r io.Reader, delim rune) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.Comma = delim
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	return fromRows(rows), nil
}

// LoadXLSX reads the first sheet of a spreadsheet, treating the first row as
// the header.
func LoadXLSX(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("read spreadsheet: %w", err)
	}
	defer f.Close()
	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	return fromRows(rows), nil
}

// fromRows builds a Dataset from header+data rows. Ragged rows are padded,
// duplicate header names are disambiguated with a numeric suffix, and
// recognized null markers are normalized to the empty string before type
// inference runs.
func fromRows(rows [][]string) *Dataset {
	if len(rows) == 0 {
		return &Dataset{}
	}
	header := rows[0]
	ncol := len(header)
	if ncol == 0 {
		return &Dataset{}
	}

	names := make([]string, ncol)
	seen := map[string]int{}
	for i, h := range header {
		name := strings.TrimSpace(h)
		if name == "" {
			name = fmt.Sprintf("column_%d", i+1)
		}
		if n := seen[name]; n > 0 {
			seen[name] = n + 1
			name = fmt.Sprintf("%s_%d", name, n+1)
		}
		seen[name]++
		names[i] = name
	}

	cols := make([]Column, ncol)
	nrows := len(rows) - 1
	for i := range cols {
		cols[i] = Column{Name: names[i], Values: make([]string, nrows)}
	}
	for ri, rec := range rows[1:] {
		for ci := 0; ci < ncol; ci++ {
			var v string
			if ci < len(rec) {
				v = strings.TrimSpace(rec[ci])
			}
			if IsMissing(v) {
				v = ""
			}
			cols[ci].Values[ri] = v
		}
	}
	for i := range cols {
		cols[i].Type = inferType(cols[i].Values)
	}
	return &Dataset{Columns: cols}
}
