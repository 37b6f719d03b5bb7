// Package panel loads the multi-year College Scorecard raw data release into
// one typed dataset constrained by the schema catalog.
package panel

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/edstats/scorecard"
)

// Value is one typed, nullable cell of a Dataset.
type Value struct {
	Kind scorecard.Type
	Null bool

	Num  float64
	Flag bool
	Text string
}

// NullValue returns the missing value of type kind.
func NullValue(kind scorecard.Type) Value {
	return Value{Kind: kind, Null: true}
}

// FloatValue returns a float cell.
func FloatValue(f float64) Value {
	return Value{Kind: scorecard.Float64, Num: f}
}

// BoolValue returns a boolean cell.
func BoolValue(b bool) Value {
	return Value{Kind: scorecard.Boolean, Flag: b}
}

// TextValue returns a text cell.
func TextValue(s string) Value {
	return Value{Kind: scorecard.Text, Text: s}
}

// naTokens are the literal raw values treated as missing in every column,
// alongside the empty field the cache artifact uses.
var naTokens = map[string]struct{}{
	"":                  {},
	"NULL":              {},
	"PrivacySuppressed": {},
}

// ParseValue coerces raw text into a cell of type kind. Missing-value tokens
// produce a null cell; any other raw text that does not coerce is an error.
func ParseValue(kind scorecard.Type, raw string) (Value, error) {
	if _, na := naTokens[raw]; na {
		return NullValue(kind), nil
	}
	parsed, err := kind.Parser().Parse(raw)
	if err != nil {
		return Value{}, errors.Wrapf(err, "coercing '%s' to %s", raw, kind)
	}
	switch kind {
	case scorecard.Float64:
		return FloatValue(parsed.(float64)), nil
	case scorecard.Boolean:
		return BoolValue(parsed.(bool)), nil
	default:
		return TextValue(parsed.(string)), nil
	}
}

// String returns the canonical text form of the cell, the form the cache
// artifact stores. Null cells serialize to the empty field.
func (v Value) String() string {
	if v.Null {
		return ""
	}
	switch v.Kind {
	case scorecard.Float64:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case scorecard.Boolean:
		return strconv.FormatBool(v.Flag)
	default:
		return v.Text
	}
}

// Dataset is the unioned table across all yearly fragments: a fixed column
// set in catalog order and row-major typed cells. Built once per load, then
// treated as immutable by downstream consumers.
type Dataset struct {
	columns []string
	index   map[string]int
	rows    [][]Value
}

// NewDataset returns an empty dataset over the given columns.
func NewDataset(columns []string) *Dataset {
	index := make(map[string]int, len(columns))
	for i, name := range columns {
		index[name] = i
	}
	return &Dataset{
		columns: append([]string(nil), columns...),
		index:   index,
	}
}

// Columns returns the dataset's column names in order.
func (d *Dataset) Columns() []string {
	return append([]string(nil), d.columns...)
}

// ColumnIndex returns the position of the named column.
func (d *Dataset) ColumnIndex(name string) (int, bool) {
	i, ok := d.index[name]
	return i, ok
}

// NumRows returns the number of rows.
func (d *Dataset) NumRows() int {
	return len(d.rows)
}

// Row returns the i'th row. The returned slice is shared, not copied; callers
// must not modify it.
func (d *Dataset) Row(i int) []Value {
	return d.rows[i]
}

// Append adds a row to the dataset.
func (d *Dataset) Append(row []Value) error {
	if len(row) != len(d.columns) {
		return errors.Errorf("row has %d cells, dataset has %d columns", len(row), len(d.columns))
	}
	d.rows = append(d.rows, row)
	return nil
}

// AppendFrom unions another dataset's rows into this one. The column sets
// must match exactly.
func (d *Dataset) AppendFrom(other *Dataset) error {
	if len(other.columns) != len(d.columns) {
		return errors.Errorf("column count mismatch: %d vs %d", len(other.columns), len(d.columns))
	}
	for i, name := range d.columns {
		if other.columns[i] != name {
			return errors.Errorf("column mismatch at %d: %s vs %s", i, other.columns[i], name)
		}
	}
	d.rows = append(d.rows, other.rows...)
	return nil
}

// Filter returns a new dataset holding the rows keep accepts.
func (d *Dataset) Filter(keep func(row []Value) bool) *Dataset {
	out := NewDataset(d.columns)
	for _, row := range d.rows {
		if keep(row) {
			out.rows = append(out.rows, row)
		}
	}
	return out
}

// GroupBy partitions the dataset by the canonical text forms of the named
// columns. A composite key joins the column values with ", " in argument
// order.
func (d *Dataset) GroupBy(columns ...string) (map[string]*Dataset, error) {
	if len(columns) == 0 {
		return nil, errors.New("no group columns")
	}
	idx := make([]int, len(columns))
	for i, name := range columns {
		j, ok := d.index[name]
		if !ok {
			return nil, errors.Errorf("no column %s", name)
		}
		idx[i] = j
	}
	groups := make(map[string]*Dataset)
	parts := make([]string, len(idx))
	for _, row := range d.rows {
		for i, j := range idx {
			parts[i] = row[j].String()
		}
		key := strings.Join(parts, ", ")
		group, ok := groups[key]
		if !ok {
			group = NewDataset(d.columns)
			groups[key] = group
		}
		group.rows = append(group.rows, row)
	}
	return groups, nil
}

// MeanBy groups the dataset by one or more columns and averages a numeric
// column within each group, skipping null cells. Groups with no non-null
// cells are omitted.
func (d *Dataset) MeanBy(value string, groups ...string) (map[string]float64, error) {
	vi, ok := d.index[value]
	if !ok {
		return nil, errors.Errorf("no column %s", value)
	}
	parts, err := d.GroupBy(groups...)
	if err != nil {
		return nil, err
	}
	means := make(map[string]float64, len(parts))
	for key, part := range parts {
		sum, n := 0.0, 0
		for _, row := range part.rows {
			if cell := row[vi]; !cell.Null {
				sum += cell.Num
				n++
			}
		}
		if n > 0 {
			means[key] = sum / float64(n)
		}
	}
	return means, nil
}
