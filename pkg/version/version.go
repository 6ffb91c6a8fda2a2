// Package version exposes build information for the stagereport binary.
package version

import (
	"runtime/debug"
)

// Build information, overridden at link time via -ldflags "-X".
var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

const (
	vcsRevision = "vcs.revision"
	vcsTime     = "vcs.time"
)

// InitBinaryVersion fills unset build fields from the embedded module build info.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	apply(info)
}

func apply(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, s := range info.Settings {
		switch s.Key {
		case vcsRevision:
			if Commit == "none" {
				Commit = s.Value
			}
		case vcsTime:
			if Date == "unknown" {
				Date = s.Value
			}
		}
	}
}

// String returns "version (commit: c, built: d)".
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
