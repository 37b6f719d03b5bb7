package panel

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/edstats/scorecard"
	"github.com/edstats/scorecard/schema"
)

// DefaultRemote is the published zip of one raw CSV per academic year.
const DefaultRemote = "https://ed-public-download.app.cloud.gov/downloads/CollegeScorecard_Raw_Data.zip"

// yearPattern extracts the beginning year from a raw member name. The first
// 4-digit run wins, so a member name with an unrelated leading 4-digit number
// would be misread; the published names embed only the year.
var yearPattern = regexp.MustCompile(`\d{4}`)

// Loader produces the merged panel Dataset from the raw data release, caching
// the result as a CSV artifact. The schema catalog drives which columns are
// kept and how their raw text is coerced.
type Loader struct {
	catalog  *schema.Catalog
	remote   string
	useCache bool
}

// Option is a functional option to pass to NewLoader.
type Option func(*Loader)

// OptRemote sets the remote locator of the raw data zip.
func OptRemote(remote string) Option {
	return func(l *Loader) {
		l.remote = remote
	}
}

// OptUseCache controls whether an existing artifact is trusted.
func OptUseCache(use bool) Option {
	return func(l *Loader) {
		l.useCache = use
	}
}

// NewLoader returns a Loader over the given read-only catalog with the
// default remote and caching enabled, then applies opts.
func NewLoader(catalog *schema.Catalog, opts ...Option) *Loader {
	l := &Loader{
		catalog:  catalog,
		remote:   DefaultRemote,
		useCache: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the dataset cached at path, building it from the remote
// archive first when no artifact exists.
func (l *Loader) Load(path string) (*Dataset, error) {
	cl := &scorecard.Loader[*Dataset]{
		Label:      "college dataset",
		Remote:     l.remote,
		UseCache:   l.useCache,
		LoadCached: l.loadCached,
		Build:      l.build,
	}
	return cl.Load(path)
}

func (l *Loader) loadCached(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening artifact '%s'", path)
	}
	defer f.Close()
	return l.parseFragment(f, "")
}

func (l *Loader) build(path string) (*Dataset, error) {
	dir, err := os.MkdirTemp("", "scorecard-raw-")
	if err != nil {
		return nil, errors.Wrap(err, "creating holding directory")
	}
	defer os.RemoveAll(dir)

	if err := l.fetchFragments(dir); err != nil {
		return nil, err
	}
	ds, err := l.combineFragments(dir)
	if err != nil {
		return nil, err
	}
	if err := writeDataset(ds, path); err != nil {
		return nil, errors.Wrap(err, "persisting dataset")
	}
	return ds, nil
}

// fetchFragments downloads the raw zip into a holding file and extracts every
// yearly CSV member into dir, renamed to its academic-year stem. Members
// which are not CSVs, or whose names embed no year, are skipped.
func (l *Loader) fetchFragments(dir string) error {
	raw, err := os.CreateTemp("", "scorecard-raw-*.zip")
	if err != nil {
		return errors.Wrap(err, "creating holding file")
	}
	defer os.Remove(raw.Name())
	if err := scorecard.Download(scorecard.NewOpener(l.remote), raw); err != nil {
		raw.Close()
		return errors.Wrap(err, "downloading raw dataset")
	}
	if err := raw.Close(); err != nil {
		return errors.Wrap(err, "closing holding file")
	}
	return scorecard.ExtractRenamed(raw.Name(), dir, fragmentName)
}

// fragmentName renames a raw archive member like "MERGED2013_14_PP.csv" to
// "2013-2014.csv".
func fragmentName(base string) (string, bool) {
	if !strings.HasSuffix(base, ".csv") {
		return "", false
	}
	year := yearPattern.FindString(base)
	if year == "" {
		return "", false
	}
	begin, err := strconv.Atoi(year)
	if err != nil {
		return "", false
	}
	return fmt.Sprintf("%d-%d.csv", begin, begin+1), true
}

// combineFragments parses every extracted fragment under the catalog's
// constraints, stamps its rows with the academic year from the filename stem,
// and unions everything into one dataset.
func (l *Loader) combineFragments(dir string) (*Dataset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, errors.Wrapf(err, "listing fragments in '%s'", dir)
	}

	log.Printf("combining raw datasets")
	merged := NewDataset(l.datasetColumns())
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".csv") {
			continue
		}
		fragPath := filepath.Join(dir, entry.Name())
		log.Printf("processing raw dataset at '%s'", fragPath)
		year := strings.TrimSuffix(entry.Name(), ".csv")
		fragment, err := l.parseFragmentFile(fragPath, year)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing fragment '%s'", entry.Name())
		}
		if err := merged.AppendFrom(fragment); err != nil {
			return nil, errors.Wrapf(err, "merging fragment '%s'", entry.Name())
		}
	}
	return merged, nil
}

func (l *Loader) parseFragmentFile(path, yearTag string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening fragment")
	}
	defer f.Close()
	return l.parseFragment(f, yearTag)
}

// parseFragment reads one tabular stream under the catalog's constraints:
// only allow-listed columns are kept, each coerced to its declared type, with
// NULL and PrivacySuppressed treated as missing. A non-empty yearTag stamps
// every row; an empty yearTag means the stream already carries the Academic
// Year column (the cache artifact form).
func (l *Loader) parseFragment(r io.Reader, yearTag string) (*Dataset, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "reading header")
	}
	srcIndex := make(map[string]int, len(header))
	for i, name := range header {
		srcIndex[strings.TrimSpace(name)] = i
	}

	columns := l.datasetColumns()
	ds := NewDataset(columns)
	for line := 2; ; line++ {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrapf(err, "reading line %d", line)
		}
		row := make([]Value, len(columns))
		for i, name := range columns {
			if name == schema.AcademicYearColumn && yearTag != "" {
				row[i] = TextValue(yearTag)
				continue
			}
			col, _ := l.catalog.Column(name)
			j, ok := srcIndex[name]
			if !ok || j >= len(record) {
				row[i] = NullValue(col.Type)
				continue
			}
			cell, err := ParseValue(col.Type, record[j])
			if err != nil {
				return nil, errors.Wrapf(err, "line %d, column %s", line, name)
			}
			row[i] = cell
		}
		if err := ds.Append(row); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

// datasetColumns returns the panel column set: the catalog's allow-listed
// columns in their fixed order, Academic Year included.
func (l *Loader) datasetColumns() []string {
	cols := l.catalog.Columns()
	names := make([]string, len(cols))
	for i, col := range cols {
		names[i] = col.Name
	}
	return names
}

// writeDataset persists the merged dataset as the CSV cache artifact, missing
// values as empty fields. The artifact is written to a temp file in the same
// directory and renamed into place, so a failed write never leaves a partial
// artifact for a later run to trust.
func writeDataset(ds *Dataset, path string) error {
	f, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return errors.Wrap(err, "creating artifact temp file")
	}
	defer os.Remove(f.Name())
	w := csv.NewWriter(f)
	if err := w.Write(ds.Columns()); err != nil {
		f.Close()
		return errors.Wrap(err, "writing header")
	}
	record := make([]string, len(ds.Columns()))
	for i := 0; i < ds.NumRows(); i++ {
		for j, cell := range ds.Row(i) {
			record[j] = cell.String()
		}
		if err := w.Write(record); err != nil {
			f.Close()
			return errors.Wrapf(err, "writing row %d", i)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return errors.Wrap(err, "flushing artifact")
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(err, "closing artifact temp file")
	}
	return errors.Wrapf(os.Rename(f.Name(), path), "renaming artifact into '%s'", path)
}
