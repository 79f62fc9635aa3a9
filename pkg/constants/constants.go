// Package constants provides shared constants used throughout rostersync.
// This includes file names, timeouts, permissions and the defaults that
// describe which organizational units count as courses.
package constants

import "time"

// Timeout constants
const (
	// DefaultHTTPTimeout is the timeout for a single Brightspace API request
	DefaultHTTPTimeout = 30 * time.Second

	// DownloadTimeout bounds a single export archive download
	DownloadTimeout = 10 * time.Minute

	// CommandTimeout is the default timeout for CLI commands
	CommandTimeout = 30 * time.Minute
)

// File permission constants define standard Unix file permissions
const (
	// DirPermissions is the default permission for created directories (rwxr-xr-x)
	DirPermissions = 0755

	// FilePermissions is the default permission for created files (rw-r--r--)
	FilePermissions = 0644

	// SecureFilePermissions is for files holding credentials (rw-------)
	SecureFilePermissions = 0600
)

// Brightspace service defaults
const (
	// DefaultAuthService is the Brightspace OAuth2 authorization service
	DefaultAuthService = "https://auth.brightspace.com"

	// DataHubAPIVersion is the learning platform API version used for Data Hub
	DataHubAPIVersion = "1.18"

	// DataExportScope is the OAuth2 scope required to list and download exports
	DataExportScope = "datahub:dataexports:*"

	// CreatedDateLayout parses CreatedDate values returned by Data Hub, which
	// carry a variable number of fractional digits
	CreatedDateLayout = time.RFC3339Nano
)

// Scope defaults
const (
	// DefaultLeafOrganization is the organization whose course offerings are synced
	DefaultLeafOrganization = "Open Society University Network"

	// DefaultLeafType is the org unit type at which hierarchy expansion stops
	DefaultLeafType = "Course Offering"

	// DefaultSystemUser is the user name of the Brightspace service account
	DefaultSystemUser = "System"

	// LearnerRole is the only Brightspace role that maps to a plain group member
	LearnerRole = "Learner"
)

// Output directory naming
const (
	// TimestampLayout formats timestamps in generated directory names
	TimestampLayout = "2006-01-02_15-04-05"

	// BrightspaceDirPrefix prefixes directories created by fetch
	BrightspaceDirPrefix = "BrightSpace_"

	// ProntoDirPrefix prefixes directories created by convert
	ProntoDirPrefix = "Pronto_"

	// ManifestFile records differential recency next to the extracted tables
	ManifestFile = "manifest.yaml"
)
