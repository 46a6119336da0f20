// Package constants provides shared constants used throughout the chronicle codebase.
// This includes file permissions, naming patterns, and timestamp formats that
// should be consistent across the application.
package constants

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644
)

// Naming and format constants for the data layout
const (
	// BatchGlob matches pending batch files inside a family's pending directory.
	BatchGlob = "*.csv"

	// ArchiveStampFormat is the UTC timestamp layout appended to archived
	// batch filenames (e.g. 20240131T235959Z).
	ArchiveStampFormat = "20060102T150405Z"

	// ArchiveSuffixFormat builds an archived batch filename from the
	// original stem and the run timestamp.
	ArchiveSuffixFormat = "%s.processed_%s.csv"

	// SnapshotTimeFormat is the timestamp layout used in summary snapshots
	// and changelog entries.
	SnapshotTimeFormat = "2006-01-02T15:04:05Z"
)

// Status values for deep-search columns
const (
	// StatusPending marks a row still awaiting further research. Any other
	// non-empty value means the row is considered resolved.
	StatusPending = "pending"
)

// Lead discriminator column carried by unverified batch rows
const (
	// LeadTypeColumn selects which unverified schema a batch row projects into.
	LeadTypeColumn = "type"
)
