// Package schema loads the College Scorecard data dictionary into an
// immutable catalog of typed column descriptors.
package schema

import (
	"github.com/edstats/scorecard"
	"github.com/pkg/errors"
)

// AcademicYearColumn is the synthetic Text column added to every catalog. It
// never appears in the raw dictionary; the panel loader stamps it onto every
// row from the year embedded in the source filename.
const AcademicYearColumn = "Academic Year"

// IncludedColumns is the fixed allow-list of column names ever materialized
// into downstream datasets. Raw sources carry thousands of other columns;
// none of them survive loading. The order here is the column order of the
// panel dataset and its cache artifact.
var IncludedColumns = []string{
	AcademicYearColumn,
	"MD_EARN_WNE_P10",
	"CONTROL",
	"ST_FIPS",
	"SATVRMID",
	"SATMTMID",
	"SATWRMID",
	"ACTCMMID",
}

// Included reports whether name is on the allow-list.
func Included(name string) bool {
	for _, col := range IncludedColumns {
		if col == name {
			return true
		}
	}
	return false
}

// Column describes one dataset column: its semantic type, human-readable
// description, and, for categorical columns, the decode table from raw values
// to labels.
type Column struct {
	Name        string
	Description string
	Type        scorecard.Type

	// Labels maps raw values to human-readable labels. When present it must
	// cover every raw value the column can legally hold.
	Labels map[string]string
}

// Label decodes a raw value through the column's decode table. A raw value
// with no entry is an error, never a silent pass-through.
func (c *Column) Label(raw string) (string, error) {
	label, ok := c.Labels[raw]
	if !ok {
		return "", errors.Errorf("no label for value '%s' in column %s", raw, c.Name)
	}
	return label, nil
}

// Catalog is the name-keyed description of which columns exist. It is built
// once per run and read-only thereafter; the panel loader shares it without
// synchronization.
type Catalog struct {
	columns map[string]*Column
}

// NewCatalog builds a catalog from descriptors, keeping only allow-listed
// names and adding the synthetic Academic Year column.
func NewCatalog(columns []*Column) *Catalog {
	cat := &Catalog{columns: make(map[string]*Column, len(columns)+1)}
	for _, col := range columns {
		if Included(col.Name) {
			cat.columns[col.Name] = col
		}
	}
	cat.columns[AcademicYearColumn] = &Column{
		Name:        AcademicYearColumn,
		Description: AcademicYearColumn,
		Type:        scorecard.Text,
	}
	return cat
}

// Column returns the descriptor for name.
func (c *Catalog) Column(name string) (*Column, bool) {
	col, ok := c.columns[name]
	return col, ok
}

// Columns returns the catalog's descriptors in allow-list order, skipping
// allow-listed names the dictionary did not define.
func (c *Catalog) Columns() []*Column {
	columns := make([]*Column, 0, len(c.columns))
	for _, name := range IncludedColumns {
		if col, ok := c.columns[name]; ok {
			columns = append(columns, col)
		}
	}
	return columns
}

// Len returns the number of columns in the catalog.
func (c *Catalog) Len() int {
	return len(c.columns)
}
