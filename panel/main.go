package panel

import (
	"log"
	"path/filepath"
	"sort"

	"github.com/pkg/errors"

	"github.com/edstats/scorecard/schema"
)

// Main contains the configuration for the panel subcommand.
type Main struct {
	Remote       string `help:"Remote locator of the raw data zip."`
	Path         string `help:"Local cache path for the dataset artifact."`
	SchemaRemote string `help:"Remote locator of the data dictionary spreadsheet."`
	SchemaPath   string `help:"Local cache path for the catalog artifact."`
	Cache        bool   `help:"Trust existing artifacts."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Remote:       DefaultRemote,
		Path:         filepath.Join("data", "data.csv"),
		SchemaRemote: schema.DefaultRemote,
		SchemaPath:   filepath.Join("data", "data.meta"),
		Cache:        true,
	}
}

// Run loads the catalog, then the panel dataset, and logs mean earnings per
// academic year.
func (m *Main) Run() error {
	cat, err := schema.NewLoader(
		schema.OptRemote(m.SchemaRemote),
		schema.OptUseCache(m.Cache),
	).Load(m.SchemaPath)
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}

	ds, err := NewLoader(cat, OptRemote(m.Remote), OptUseCache(m.Cache)).Load(m.Path)
	if err != nil {
		return errors.Wrap(err, "loading dataset")
	}
	log.Printf("loaded %d rows across %d columns", ds.NumRows(), len(ds.Columns()))

	means, err := ds.MeanBy("MD_EARN_WNE_P10", schema.AcademicYearColumn)
	if err != nil {
		return errors.Wrap(err, "averaging earnings")
	}
	years := make([]string, 0, len(means))
	for year := range means {
		years = append(years, year)
	}
	sort.Strings(years)
	for _, year := range years {
		log.Printf("%s: mean median earnings $%.2f", year, means[year])
	}
	return nil
}
