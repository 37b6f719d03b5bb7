// Package geo loads a zipped boundary archive into a directory of shapefile
// siblings and reads it back as a table of named boundary features.
package geo

import (
	shp "github.com/jonas-p/go-shp"
	"github.com/mmcloughlin/geohash"
	"github.com/pkg/errors"
)

// Feature is one boundary row read from the shapefile: its name, raw
// attributes, bounding box, and the geohash of the bounding box centroid.
type Feature struct {
	Name    string
	Attrs   map[string]string
	BBox    shp.Box
	Geohash string
}

// Centroid returns the midpoint of the feature's bounding box as (lat, lng).
func (f *Feature) Centroid() (float64, float64) {
	return (f.BBox.MinY + f.BBox.MaxY) / 2, (f.BBox.MinX + f.BBox.MaxX) / 2
}

// Table is a spatial table keyed by boundary name. Names are assumed unique
// within one boundary set; a duplicate name keeps the last feature read.
type Table struct {
	features []*Feature
	byName   map[string]*Feature
}

// NewTable builds a table over features, keyed by their Name.
func NewTable(features []*Feature) *Table {
	t := &Table{
		features: features,
		byName:   make(map[string]*Feature, len(features)),
	}
	for _, f := range features {
		t.byName[f.Name] = f
	}
	return t
}

// Len returns the number of features.
func (t *Table) Len() int {
	return len(t.features)
}

// Features returns the features in file order.
func (t *Table) Features() []*Feature {
	return append([]*Feature(nil), t.features...)
}

// ByName returns the feature with the given boundary name.
func (t *Table) ByName(name string) (*Feature, bool) {
	f, ok := t.byName[name]
	return f, ok
}

// readTable reads the shapefile at path into a Table keyed on the nameField
// attribute. Sibling files (.dbf, .shx) must reside next to the .shp; a
// missing sibling surfaces here as a read error.
func readTable(path, nameField string) (*Table, error) {
	r, err := shp.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening shapefile '%s'", path)
	}
	defer r.Close()

	fields := r.Fields()
	nameIndex := -1
	for i, field := range fields {
		if field.String() == nameField {
			nameIndex = i
			break
		}
	}
	if nameIndex < 0 {
		return nil, errors.Errorf("attribute '%s' not present in '%s'", nameField, path)
	}

	var features []*Feature
	for r.Next() {
		n, shape := r.Shape()
		attrs := make(map[string]string, len(fields))
		for i, field := range fields {
			attrs[field.String()] = r.ReadAttribute(n, i)
		}
		feature := &Feature{
			Name:  attrs[nameField],
			Attrs: attrs,
			BBox:  shape.BBox(),
		}
		lat, lng := feature.Centroid()
		feature.Geohash = geohash.Encode(lat, lng)
		features = append(features, feature)
	}
	if err := r.Err(); err != nil {
		return nil, errors.Wrapf(err, "reading shapefile '%s'", path)
	}
	return NewTable(features), nil
}
