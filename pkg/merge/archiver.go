package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/agentstation/utc"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// Archiver relocates consumed batch files into the archive directory,
// suffixing each with the run's UTC timestamp. One Archiver serves one run,
// so every batch consumed in that run shares a stamp. Files are renamed,
// never copied-and-left; a batch whose merge did not complete is never
// passed here.
type Archiver struct {
	dir   string
	stamp string
}

// NewArchiver creates an archiver for one run.
func NewArchiver(dir string, now utc.Time) *Archiver {
	return &Archiver{
		dir:   dir,
		stamp: now.Format(constants.ArchiveStampFormat),
	}
}

// Stamp returns the run timestamp suffix.
func (a *Archiver) Stamp() string {
	return a.stamp
}

// Archive moves a consumed batch file to
// <dir>/<original-stem>.processed_<stamp>.csv and returns the new path.
func (a *Archiver) Archive(path string) (string, error) {
	if err := os.MkdirAll(a.dir, constants.DirPermissions); err != nil {
		return "", errors.WrapIO("create", a.dir, err)
	}

	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	dest := filepath.Join(a.dir, fmt.Sprintf(constants.ArchiveSuffixFormat, stem, a.stamp))

	if err := os.Rename(path, dest); err != nil {
		return "", errors.WrapIO("rename", path, err)
	}
	return dest, nil
}
