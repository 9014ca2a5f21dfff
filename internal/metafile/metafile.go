// Package metafile reads and writes the record store: a JSON array of
// country groups, each holding its metas in page order.
package metafile

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"

	"github.com/lukas-hzb/geometa/internal/model"
)

// SaveOptions controls how Save writes the file.
type SaveOptions struct {
	// Backup copies the existing file to <path>.bak before replacing it.
	Backup bool
}

// Load reads the record store at path.
func Load(path string) ([]model.CountryGroup, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, eris.Wrapf(err, "metafile: open %s", path)
	}
	defer f.Close() //nolint:errcheck

	groups, err := Decode(f)
	if err != nil {
		return nil, eris.Wrapf(err, "metafile: load %s", path)
	}
	return groups, nil
}

// Decode parses a record store from r. Missing string fields decode as
// empty and missing tag lists as empty lists.
func Decode(r io.Reader) ([]model.CountryGroup, error) {
	var groups []model.CountryGroup
	if err := json.NewDecoder(r).Decode(&groups); err != nil {
		return nil, eris.Wrap(err, "metafile: decode")
	}
	if groups == nil {
		groups = []model.CountryGroup{}
	}
	normalize(groups)
	return groups, nil
}

func normalize(groups []model.CountryGroup) {
	for gi := range groups {
		if groups[gi].Metas == nil {
			groups[gi].Metas = []model.Meta{}
		}
		for mi := range groups[gi].Metas {
			if groups[gi].Metas[mi].Tags == nil {
				groups[gi].Metas[mi].Tags = []model.Tag{}
			}
		}
	}
}

// Encode writes groups as two-space indented JSON. Non-ASCII text and
// HTML-significant characters are written as is.
func Encode(w io.Writer, groups []model.CountryGroup) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(groups); err != nil {
		return eris.Wrap(err, "metafile: encode")
	}
	return nil
}

// Save replaces the file at path with groups. The data is written to a
// temporary file in the same directory and renamed over the target, so a
// failed save leaves the previous file intact.
func Save(path string, groups []model.CountryGroup, opts SaveOptions) error {
	var buf bytes.Buffer
	if err := Encode(&buf, groups); err != nil {
		return err
	}

	if opts.Backup {
		if err := backup(path); err != nil {
			return err
		}
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return eris.Wrapf(err, "metafile: create temp in %s", dir)
	}
	tmpName := tmp.Name()
	cleanup := func() { _ = os.Remove(tmpName) }

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close() //nolint:errcheck
		cleanup()
		return eris.Wrapf(err, "metafile: write %s", tmpName)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return eris.Wrapf(err, "metafile: close %s", tmpName)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return eris.Wrapf(err, "metafile: rename to %s", path)
	}
	return nil
}

// backup copies path to path.bak. A missing source is not an error.
func backup(path string) error {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return eris.Wrapf(err, "metafile: read %s for backup", path)
	}
	if err := os.WriteFile(path+".bak", data, 0o644); err != nil {
		return eris.Wrapf(err, "metafile: write backup %s.bak", path)
	}
	return nil
}

// ExportYAML writes groups as a YAML document.
func ExportYAML(w io.Writer, groups []model.CountryGroup) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(groups); err != nil {
		return eris.Wrap(err, "metafile: encode yaml")
	}
	if err := enc.Close(); err != nil {
		return eris.Wrap(err, "metafile: flush yaml")
	}
	return nil
}
