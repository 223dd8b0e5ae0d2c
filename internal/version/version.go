// Package version reports the plugrel build version.
package version

import (
	"runtime/debug"
	"strings"
)

// version is set at build time with
// -ldflags "-X github.com/indaco/plugrel/internal/version.version=1.2.3".
var version = ""

// readBuildInfo is replaced in tests.
var readBuildInfo = debug.ReadBuildInfo

// GetVersion returns the plugrel version without a leading "v".
func GetVersion() string {
	if version != "" {
		return strings.TrimPrefix(version, "v")
	}
	if info, ok := readBuildInfo(); ok {
		if v := info.Main.Version; v != "" && v != "(devel)" {
			return strings.TrimPrefix(v, "v")
		}
	}
	return "dev"
}
