// Package version holds build metadata for the importcheck binary.
package version

import "runtime/debug"

const unknown = "unknown"

// Build metadata, overridden at link time with -ldflags "-X".
var (
	Version = "dev"
	Commit  = unknown
	Date    = unknown
)

// InitBinaryVersion fills Version and Commit from the embedded module build
// info when they were not set by the linker.
func InitBinaryVersion() {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return
	}

	applyBuildInfo(info)
}

func applyBuildInfo(info *debug.BuildInfo) {
	if Version == "dev" && info.Main.Version != "" && info.Main.Version != "(devel)" {
		Version = info.Main.Version
	}

	for _, setting := range info.Settings {
		switch setting.Key {
		case "vcs.revision":
			if Commit == unknown {
				Commit = setting.Value
			}
		case "vcs.time":
			if Date == unknown {
				Date = setting.Value
			}
		}
	}
}

// String returns "<version> (commit: <commit>, built: <date>)".
func String() string {
	return Version + " (commit: " + Commit + ", built: " + Date + ")"
}
