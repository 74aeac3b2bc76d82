package dataset

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Inference policy: a column is boolean if its non-missing values stay within
// a recognized two-token truth domain, numeric if they all parse as numbers,
// datetime if they all parse under a recognized layout, and categorical
// otherwise. Columns with no non-missing values are categorical.
func inferType(values []string) Type {
	nonMissing := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			nonMissing = append(nonMissing, v)
		}
	}
	if len(nonMissing) == 0 {
		return Categorical
	}
	if allBool(nonMissing) {
		return Boolean
	}
	if all(nonMissing, func(s string) bool { _, ok := parseNumber(s); return ok }) {
		return Numeric
	}
	if all(nonMissing, func(s string) bool { _, ok := parseTime(s); return ok }) {
		return Datetime
	}
	return Categorical
}

func all(vals []string, pred func(string) bool) bool {
	for _, v := range vals {
		if !pred(v) {
			return false
		}
	}
	return true
}

var boolTokens = map[string]bool{
	"true": true, "false": false,
	"yes": true, "no": false,
	"y": true, "n": false,
	"t": true, "f": false,
}

func allBool(vals []string) bool {
	for _, v := range vals {
		if _, ok := boolTokens[strings.ToLower(v)]; !ok {
			return false
		}
	}
	return true
}

// ParseBool maps a recognized truth token to its value. Only meaningful for
// cells of a Boolean column.
func ParseBool(v string) (val, ok bool) {
	val, ok = boolTokens[strings.ToLower(strings.TrimSpace(v))]
	return val, ok
}

var (
	thousandsRe = regexp.MustCompile(`^-?\d{1,3}(,\d{3})+(\.\d+)?$`)
	commaDecRe  = regexp.MustCompile(`^-?\d+,\d+$`)
)

// parseNumber parses a cell as a float. It tolerates surrounding whitespace,
// a trailing percent sign, comma thousands separators, and a comma decimal
// separator when no dot is present.
func parseNumber(s string) (float64, bool) {
	raw := strings.TrimSpace(s)
	if raw == "" {
		return 0, false
	}
	raw = strings.TrimSuffix(raw, "%")
	raw = strings.TrimSpace(raw)
	switch {
	case thousandsRe.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", "")
	case commaDecRe.MatchString(raw):
		raw = strings.ReplaceAll(raw, ",", ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

var timeLayouts = []string{
	time.RFC3339, "2006-01-02", "2006/01/02", "02/01/2006", "01/02/2006",
	"2006-01-02 15:04", "2006-01-02 15:04:05", "1/2/2006 15:04", "1/2/2006 15:04:05",
	"Jan 2, 2006", "2 Jan 2006",
}

func parseTime(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, l := range timeLayouts {
		if t, err := time.Parse(l, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
