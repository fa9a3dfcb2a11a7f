// Package frontdown holds module-wide constants shared by the CLI and core
// packages.
package frontdown

import "fmt"

const (
	// VersionMajor is the current major version of Frontdown.
	VersionMajor = 0
	// VersionMinor is the current minor version of Frontdown.
	VersionMinor = 1
	// VersionPatch is the current patch version of Frontdown.
	VersionPatch = 0
)

// Version is the dotted version string computed from the version
// components above.
var Version = fmt.Sprintf("%d.%d.%d", VersionMajor, VersionMinor, VersionPatch)

// LegalNotice is the module's legal notice text. No CLI command prints it;
// the "version" command prints only Version.
const LegalNotice = `Frontdown

Copyright information for third-party dependencies is recorded in go.mod
and the module's dependency graph.
`
