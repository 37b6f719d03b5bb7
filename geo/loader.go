package geo

import (
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/edstats/scorecard"
)

const (
	// DefaultRemote is the Natural Earth 110m states and provinces archive.
	DefaultRemote = "https://www.naturalearthdata.com/" +
		"http//www.naturalearthdata.com/download/110m/" +
		"cultural/ne_110m_admin_1_states_provinces.zip"

	// DefaultNameField is the attribute the table is keyed on.
	DefaultNameField = "name"
)

// Loader produces a boundary Table from a zipped shapefile archive. The cache
// artifact is the flattened sibling set itself: the archive's members
// extracted, stripped of internal directories, into the directory holding the
// load path, which must point at the .shp file. The shapefile reader needs
// its siblings together at a stable location, which is why the build extracts
// to the cache directory and reads back from there rather than parsing the
// holding area directly.
type Loader struct {
	remote    string
	nameField string
	useCache  bool
}

// Option is a functional option to pass to NewLoader.
type Option func(*Loader)

// OptRemote sets the remote locator of the boundary archive.
func OptRemote(remote string) Option {
	return func(l *Loader) {
		l.remote = remote
	}
}

// OptNameField sets the attribute the table is keyed on.
func OptNameField(field string) Option {
	return func(l *Loader) {
		l.nameField = field
	}
}

// OptUseCache controls whether an existing artifact is trusted.
func OptUseCache(use bool) Option {
	return func(l *Loader) {
		l.useCache = use
	}
}

// NewLoader returns a Loader with the default remote and name field and
// caching enabled, then applies opts.
func NewLoader(opts ...Option) *Loader {
	l := &Loader{
		remote:    DefaultRemote,
		nameField: DefaultNameField,
		useCache:  true,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load returns the boundary table cached at path (the .shp file), building
// the flattened sibling set first when no artifact exists.
func (l *Loader) Load(path string) (*Table, error) {
	cl := &scorecard.Loader[*Table]{
		Label:      "geodata",
		Remote:     l.remote,
		UseCache:   l.useCache,
		LoadCached: l.loadCached,
		Build:      l.build,
	}
	return cl.Load(path)
}

func (l *Loader) loadCached(path string) (*Table, error) {
	return readTable(path, l.nameField)
}

func (l *Loader) build(path string) (*Table, error) {
	raw, err := os.CreateTemp("", "scorecard-geo-*.zip")
	if err != nil {
		return nil, errors.Wrap(err, "creating holding file")
	}
	defer os.Remove(raw.Name())
	if err := scorecard.Download(scorecard.NewOpener(l.remote), raw); err != nil {
		raw.Close()
		return nil, errors.Wrap(err, "downloading geodata")
	}
	if err := raw.Close(); err != nil {
		return nil, errors.Wrap(err, "closing holding file")
	}

	if err := scorecard.ExtractFlat(raw.Name(), filepath.Dir(path)); err != nil {
		return nil, errors.Wrap(err, "extracting geodata")
	}
	return readTable(path, l.nameField)
}
