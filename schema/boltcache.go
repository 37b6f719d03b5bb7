package schema

import (
	"bytes"
	"encoding/gob"
	"time"

	"github.com/boltdb/bolt"
	"github.com/pkg/errors"
)

// The catalog artifact is a bolt file with a single bucket of gob-encoded
// descriptors keyed by column name. The synthetic Academic Year column is not
// stored; NewCatalog re-adds it on load, so a round trip reproduces the
// identical catalog.
var columnsBucket = []byte("columns")

func saveCatalog(path string, cat *Catalog) error {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return errors.Wrapf(err, "opening catalog db '%s'", path)
	}
	defer db.Close()

	err = db.Update(func(tx *bolt.Tx) error {
		b, err := tx.CreateBucketIfNotExists(columnsBucket)
		if err != nil {
			return errors.Wrap(err, "creating columns bucket")
		}
		for _, col := range cat.Columns() {
			if col.Name == AcademicYearColumn {
				continue
			}
			var buf bytes.Buffer
			if err := gob.NewEncoder(&buf).Encode(col); err != nil {
				return errors.Wrapf(err, "encoding column %s", col.Name)
			}
			if err := b.Put([]byte(col.Name), buf.Bytes()); err != nil {
				return errors.Wrapf(err, "storing column %s", col.Name)
			}
		}
		return nil
	})
	return errors.Wrap(err, "writing catalog")
}

func loadCatalog(path string) (*Catalog, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: time.Second, ReadOnly: true})
	if err != nil {
		return nil, errors.Wrapf(err, "opening catalog db '%s'", path)
	}
	defer db.Close()

	var columns []*Column
	err = db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(columnsBucket)
		if b == nil {
			return errors.Errorf("catalog db '%s' has no columns bucket", path)
		}
		return b.ForEach(func(k, v []byte) error {
			col := &Column{}
			if err := gob.NewDecoder(bytes.NewReader(v)).Decode(col); err != nil {
				return errors.Wrapf(err, "decoding column %s", k)
			}
			columns = append(columns, col)
			return nil
		})
	})
	if err != nil {
		return nil, errors.Wrap(err, "reading catalog")
	}
	return NewCatalog(columns), nil
}
