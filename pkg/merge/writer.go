package merge

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
	"github.com/chronicle-archive/chronicle/pkg/timeline"
)

// WriteCanonical persists a family's merged rows in the family's fixed
// column order, writing only if the serialized content differs from what is
// on disk. Returns whether a write happened.
func WriteCanonical(path string, f timeline.Family, rows []timeline.Row) (bool, error) {
	data, err := timeline.EncodeCSV(f.Columns, rows)
	if err != nil {
		return false, errors.WrapParse("csv", path, err)
	}

	current, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return false, errors.WrapIO("read", path, err)
	}
	if err == nil && bytes.Equal(current, data) {
		return false, nil
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, constants.DirPermissions); err != nil {
		return false, errors.WrapIO("create", dir, err)
	}
	if err := os.WriteFile(path, data, constants.FilePermissions); err != nil {
		return false, errors.WrapIO("write", path, err)
	}
	return true, nil
}

// EnsureCanonical creates an empty, headers-only dataset file if the path
// does not exist yet. First runs start from empty canonical datasets.
func EnsureCanonical(path string, f timeline.Family) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !os.IsNotExist(err) {
		return errors.WrapIO("stat", path, err)
	}
	_, err := WriteCanonical(path, f, nil)
	return err
}
