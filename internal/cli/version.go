package cli

import (
	"fmt"

	"golang.org/x/mod/semver"
)

// Version is the module's own version string, set at build time via
// -ldflags "-X github.com/smoynes/macro10/internal/cli.Version=v1.2.3". It defaults to a
// development placeholder when built without that flag.
var Version = "v0.0.0-dev"

// VersionString returns Version in canonical form (dropping any build metadata/prerelease
// suffix's surrounding noise), or Version followed by " (not a valid semantic version)" if it is
// not a valid semantic version.
func VersionString() string {
	if !semver.IsValid(Version) {
		return Version + " (not a valid semantic version)"
	}

	return semver.Canonical(Version)
}

// handleVersionFlag checks for a bare "-version"/"--version" argument before dispatching to a
// sub-command, printing the module version and returning true if found.
func (cli *Commander) handleVersionFlag(args []string) bool {
	if len(args) != 1 {
		return false
	}

	if args[0] != "-version" && args[0] != "--version" {
		return false
	}

	fmt.Println(VersionString())

	return true
}
