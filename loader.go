package scorecard

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Loader is the cache-or-build template shared by every dataset loader. It is
// parameterized by two operations: LoadCached reads a previously persisted
// artifact from a local path, and Build fetches the remote resource,
// transforms it, and persists the result at that path. Load picks between
// them based on artifact presence alone.
//
// Loaders do not retry and do not fall back between the two paths; any error
// from either operation propagates to the caller.
type Loader[T any] struct {
	// Label names the resource in status output, e.g. "college document".
	Label string

	// Remote locates the raw resource. Anything accepted by NewOpener works:
	// an http(s) URL, an s3://bucket/key object, or a local file path.
	Remote string

	// UseCache controls whether an existing artifact at the load path is
	// trusted. When false, Load always rebuilds.
	UseCache bool

	LoadCached func(path string) (T, error)
	Build      func(path string) (T, error)
}

// Load returns the artifact for path, building and persisting it first if
// there is no cached copy. The parent directory of path is created before
// Build runs, so Build can write the artifact (or its sibling files) without
// checking.
func (l *Loader[T]) Load(path string) (T, error) {
	var zero T
	log.Printf("loading %s from '%s'", l.Label, path)
	if l.UseCache && Exists(path) {
		log.Printf("cache found, loading %s from cache", l.Label)
		t, err := l.LoadCached(path)
		if err != nil {
			return zero, errors.Wrapf(err, "loading cached %s", l.Label)
		}
		return t, nil
	}
	log.Printf("cache not found, downloading %s from '%s'", l.Label, l.Remote)
	if err := EnsureDir(filepath.Dir(path)); err != nil {
		return zero, errors.Wrapf(err, "creating directory for %s", l.Label)
	}
	t, err := l.Build(path)
	if err != nil {
		return zero, errors.Wrapf(err, "building %s", l.Label)
	}
	log.Printf("done caching %s at '%s'", l.Label, path)
	return t, nil
}

// Exists reports whether a cache artifact is present at path. Presence is the
// only validity signal a Loader consults.
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// EnsureDir creates dir and any missing parents.
func EnsureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return errors.Wrapf(os.MkdirAll(dir, 0755), "making directory '%s'", dir)
}
