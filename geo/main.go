package geo

import (
	"log"
	"path/filepath"

	"github.com/pkg/errors"
)

// Main contains the configuration for the geo subcommand.
type Main struct {
	Remote    string `help:"Remote locator of the boundary archive."`
	Path      string `help:"Local cache path of the .shp file."`
	NameField string `help:"Attribute the boundary table is keyed on."`
	Cache     bool   `help:"Trust an existing artifact at path."`
}

// NewMain gets a new Main with the default configuration.
func NewMain() *Main {
	return &Main{
		Remote:    DefaultRemote,
		Path:      filepath.Join("data", "ne_110m_admin_1_states_provinces.shp"),
		NameField: DefaultNameField,
		Cache:     true,
	}
}

// Run loads the boundary table and logs a summary.
func (m *Main) Run() error {
	loader := NewLoader(OptRemote(m.Remote), OptNameField(m.NameField), OptUseCache(m.Cache))
	table, err := loader.Load(m.Path)
	if err != nil {
		return errors.Wrap(err, "loading geodata")
	}
	log.Printf("loaded %d boundary features", table.Len())
	return nil
}
