package schema

import (
	"log"
	"path/filepath"

	"github.com/pkg/errors"
)

// Main contains the configuration for the schema subcommand.
type Main struct {
	Remote string `help:"Remote locator of the data dictionary spreadsheet."`
	Path   string `help:"Local cache path for the catalog artifact."`
	Sheet  string `help:"Workbook sheet holding the dictionary."`
	Cache  bool   `help:"Trust an existing artifact at path."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Remote: DefaultRemote,
		Path:   filepath.Join("data", "data.meta"),
		Sheet:  DefaultSheet,
		Cache:  true,
	}
}

// Run loads the catalog and logs its columns.
func (m *Main) Run() error {
	loader := NewLoader(OptRemote(m.Remote), OptSheet(m.Sheet), OptUseCache(m.Cache))
	cat, err := loader.Load(m.Path)
	if err != nil {
		return errors.Wrap(err, "loading catalog")
	}
	for _, col := range cat.Columns() {
		log.Printf("%s (%s): %s, %d labels", col.Name, col.Type, col.Description, len(col.Labels))
	}
	return nil
}
