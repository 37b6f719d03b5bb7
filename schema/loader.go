package schema

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/edstats/scorecard"
)

const (
	// DefaultRemote is the published data dictionary for the College
	// Scorecard raw data releases.
	DefaultRemote = "https://collegescorecard.ed.gov/assets/CollegeScorecardDataDictionary.xlsx"

	// DefaultSheet is the sheet within the dictionary workbook holding the
	// per-variable rows.
	DefaultSheet = "data_dictionary"
)

// Header labels of the dictionary sheet columns the parser consumes.
const (
	variableHeader = "VARIABLE NAME"
	elementHeader  = "NAME OF DATA ELEMENT"
	typeHeader     = "API data type"
	valueHeader    = "VALUE"
	labelHeader    = "LABEL"
)

// Loader produces a Catalog from the data dictionary spreadsheet, caching the
// parsed result in a bolt file so later runs skip the download and parse.
type Loader struct {
	remote   string
	sheet    string
	useCache bool
}

// Option is a functional option to pass to NewLoader.
type Option func(*Loader)

// OptRemote sets the remote locator of the dictionary spreadsheet.
func OptRemote(remote string) Option {
	return func(l *Loader) {
		l.remote = remote
	}
}

// OptSheet sets the workbook sheet to parse.
func OptSheet(sheet string) Option {
	return func(l *Loader) {
		l.sheet = sheet
	}
}

// OptUseCache controls whether an existing artifact is trusted.
func OptUseCache(use bool) Option {
	return func(l *Loader) {
		l.useCache = use
	}
}

// NewLoader returns a Loader with the default remote, sheet, and caching
// enabled, then applies opts.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		remote:   DefaultRemote,
		sheet:    DefaultSheet,
		useCache: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the catalog cached at path, building it from the remote
// dictionary first when no artifact exists.
func (l *Loader) Load(path string) (*Catalog, error) {
	cl := &scorecard.Loader[*Catalog]{
		Label:      "college document",
		Remote:     l.remote,
		UseCache:   l.useCache,
		LoadCached: loadCatalog,
		Build:      l.build,
	}
	return cl.Load(path)
}

func (l *Loader) build(path string) (*Catalog, error) {
	raw, err := os.CreateTemp("", "scorecard-dictionary-*.xlsx")
	if err != nil {
		return nil, errors.Wrap(err, "creating holding file")
	}
	defer os.Remove(raw.Name())
	if err := scorecard.Download(scorecard.NewOpener(l.remote), raw); err != nil {
		raw.Close()
		return nil, errors.Wrap(err, "downloading dictionary")
	}
	if err := raw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing holding file")
	}

	cat, err := l.parse(raw.Name())
	if err != nil {
		return nil, err
	}
	if err := saveCatalog(path, cat); err != nil {
		return nil, errors.Wrap(err, "persisting catalog")
	}
	return cat, nil
}

func (l *Loader) parse(path string) (*Catalog, error) {
	wb, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening dictionary workbook")
	}
	defer wb.Close()

	rows, err := wb.GetRows(l.sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet '%s'", l.sheet)
	}
	if len(rows) < 2 {
		return nil, errors.Errorf("sheet '%s' has no data rows", l.sheet)
	}

	index, err := headerIndex(rows[0])
	if err != nil {
		return nil, err
	}
	filled := forwardFill(rows[1:], len(rows[0]))

	return NewCatalog(groupColumns(filled, index)), nil
}

// headerIndex locates the consumed dictionary headers in the sheet's first
// row.
func headerIndex(header []string) (map[string]int, error) {
	index := make(map[string]int, len(header))
	for i, name := range header {
		index[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{variableHeader, elementHeader, typeHeader, valueHeader, labelHeader} {
		if _, ok := index[required]; !ok {
			return nil, errors.Errorf("dictionary sheet missing header '%s'", required)
		}
	}
	return index, nil
}

// forwardFill carries the last non-blank value of every column downward
// through blank cells, so the continuation rows of a categorical block (one
// row per value) share their variable's name, description, and type. Rows are
// also padded to a uniform width since the sheet reader trims trailing blank
// cells.
func forwardFill(rows [][]string, width int) [][]string {
	last := make([]string, width)
	filled := make([][]string, len(rows))
	for i, row := range rows {
		out := make([]string, width)
		for j := 0; j < width; j++ {
			cell := ""
			if j < len(row) {
				cell = strings.TrimSpace(row[j])
			}
			if cell == "" {
				cell = last[j]
			} else {
				last[j] = cell
			}
			out[j] = cell
		}
		filled[i] = out
	}
	return filled
}

// groupColumns groups the filled rows by variable name and derives one
// descriptor per allow-listed variable: the description and type come from
// the group's first row, the decode table from its (value, label) pairs. Rows
// missing either the value or the label contribute nothing to the table.
func groupColumns(rows [][]string, index map[string]int) []*Column {
	var order []string
	groups := make(map[string]*Column)
	for _, row := range rows {
		name := row[index[variableHeader]]
		if name == "" || !Included(name) {
			continue
		}
		col, ok := groups[name]
		if !ok {
			col = &Column{
				Name:        name,
				Description: row[index[elementHeader]],
				Type:        scorecard.ParseType(row[index[typeHeader]]),
				Labels:      make(map[string]string),
			}
			groups[name] = col
			order = append(order, name)
		}
		value, label := row[index[valueHeader]], row[index[labelHeader]]
		if value != "" && label != "" {
			col.Labels[value] = label
		}
	}

	columns := make([]*Column, 0, len(order))
	for _, name := range order {
		columns = append(columns, groups[name])
	}
	return columns
}
