package scorecard

import (
	"archive/zip"
	"io"
	"os"
	"path"
	"path/filepath"

	"github.com/pkg/errors"
)

// ExtractRenamed extracts every non-directory member of the zip archive at
// src into destDir. Member names are flattened to their basenames before the
// rename hook runs; archive-internal directory structure never survives
// extraction. The hook returns the name to extract under, or ok=false to skip
// the member entirely. Members extracting to the same name overwrite each
// other, last write wins.
func ExtractRenamed(src, destDir string, rename func(base string) (name string, ok bool)) error {
	zr, err := zip.OpenReader(src)
	if err != nil {
		return errors.Wrapf(err, "opening archive '%s'", src)
	}
	defer zr.Close()
	if err := EnsureDir(destDir); err != nil {
		return err
	}
	for _, member := range zr.File {
		if member.FileInfo().IsDir() {
			continue
		}
		name := path.Base(member.Name)
		if rename != nil {
			var ok bool
			if name, ok = rename(name); !ok {
				continue
			}
		}
		if err := extractMember(member, filepath.Join(destDir, name)); err != nil {
			return errors.Wrapf(err, "extracting '%s'", member.Name)
		}
	}
	return nil
}

// ExtractFlat extracts every non-directory member of the zip archive at src
// into destDir under its basename.
func ExtractFlat(src, destDir string) error {
	return ExtractRenamed(src, destDir, nil)
}

func extractMember(member *zip.File, dest string) error {
	content, err := member.Open()
	if err != nil {
		return errors.Wrap(err, "opening member")
	}
	defer content.Close()
	out, err := os.Create(dest)
	if err != nil {
		return errors.Wrapf(err, "creating '%s'", dest)
	}
	if _, err := io.Copy(out, content); err != nil {
		out.Close()
		return errors.Wrap(err, "writing member")
	}
	return errors.Wrapf(out.Close(), "closing '%s'", dest)
}
