// Package report builds the human- and machine-readable artifacts derived
// from the canonical datasets: the changelog and its snapshot CSV, the
// reference-completion checklist, and static status badges.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/chronicle-archive/chronicle/pkg/constants"
	"github.com/chronicle-archive/chronicle/pkg/errors"
)

// Version is a semantic version as tracked in the VERSION file.
type Version struct {
	Major int
	Minor int
	Patch int
}

// DefaultVersion is assumed when no VERSION file exists yet.
var DefaultVersion = Version{Major: 1, Minor: 0, Patch: 0}

var versionPattern = regexp.MustCompile(`^v?(\d+)\.(\d+)\.(\d+)`)

// ParseVersion parses "v1.2.3" or "1.2.3". Trailing noise after the patch
// number is tolerated, anything else is an error.
func ParseVersion(s string) (Version, error) {
	m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return Version{}, errors.NewParseError("version", "", fmt.Sprintf("%q is not a semantic version", s), nil)
	}
	major, _ := strconv.Atoi(m[1])
	minor, _ := strconv.Atoi(m[2])
	patch, _ := strconv.Atoi(m[3])
	return Version{Major: major, Minor: minor, Patch: patch}, nil
}

// String renders the version with its leading "v".
func (v Version) String() string {
	return fmt.Sprintf("v%d.%d.%d", v.Major, v.Minor, v.Patch)
}

// BumpKind selects which component of the version to increment.
type BumpKind string

// Bump kinds, ordered by severity.
const (
	BumpMajor BumpKind = "major"
	BumpMinor BumpKind = "minor"
	BumpPatch BumpKind = "patch"
)

// Bump returns the next version for the given kind. Lower components reset
// to zero on a higher bump.
func (v Version) Bump(kind BumpKind) Version {
	switch kind {
	case BumpMajor:
		return Version{Major: v.Major + 1}
	case BumpMinor:
		return Version{Major: v.Major, Minor: v.Minor + 1}
	default:
		return Version{Major: v.Major, Minor: v.Minor, Patch: v.Patch + 1}
	}
}

// BumpRules maps changed paths to a bump kind. Paths under a MajorPrefixes
// entry or listed in MajorFiles force a major bump; MinorPrefixes force a
// minor bump; everything else is a patch.
type BumpRules struct {
	MajorPrefixes []string
	MajorFiles    []string
	MinorPrefixes []string
}

// DefaultBumpRules treats workflow and pipeline changes as breaking,
// tooling and source-registry changes as features, and data or doc updates
// as patches.
func DefaultBumpRules() BumpRules {
	return BumpRules{
		MajorPrefixes: []string{".github/workflows/"},
		MajorFiles: []string{
			"pkg/merge/runner.go",
			"pkg/timeline/family.go",
			"cmd/chronicle/main.go",
		},
		MinorPrefixes: []string{"pkg/", "cmd/", "data/sources/"},
	}
}

// Classify picks the bump kind for a set of changed paths.
func (r BumpRules) Classify(changed []string) BumpKind {
	for _, p := range changed {
		if hasAnyPrefix(p, r.MajorPrefixes) || containsString(r.MajorFiles, p) {
			return BumpMajor
		}
	}
	for _, p := range changed {
		if hasAnyPrefix(p, r.MinorPrefixes) {
			return BumpMinor
		}
	}
	return BumpPatch
}

func hasAnyPrefix(s string, prefixes []string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// ReadVersionFile reads a VERSION file, falling back to DefaultVersion when
// the file is missing or malformed.
func ReadVersionFile(path string) Version {
	data, err := os.ReadFile(path)
	if err != nil {
		return DefaultVersion
	}
	v, err := ParseVersion(string(data))
	if err != nil {
		return DefaultVersion
	}
	return v
}

// WriteVersionFile persists the version, creating parent directories.
func WriteVersionFile(path string, v Version) error {
	if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
		return errors.WrapIO("create", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(v.String()+"\n"), constants.FilePermissions); err != nil {
		return errors.WrapIO("write", path, err)
	}
	return nil
}
