// Package version carries the build identity stamped by the release
// pipeline through -ldflags.
package version

var (
	// Version is the release tag; local builds report "dev".
	Version = "dev"
	// Commit is the git revision the binary was built from.
	Commit = "unknown"
	// Date is the build timestamp.
	Date = "unknown"
)
