package common

import (
	"fmt"
	"runtime"
	"runtime/debug"
)

// Version and GitCommit can be set via ldflags at build time
var (
	Version   = "dev"
	GitCommit = "unknown"
)

// BuildInfo describes the running binary.
type BuildInfo struct {
	Version   string
	GitCommit string
	GoVersion string
}

// GetBuildInfo prefers the ldflags values and falls back to the module
// build information.
func GetBuildInfo() BuildInfo {
	info := BuildInfo{
		Version:   Version,
		GitCommit: GitCommit,
		GoVersion: runtime.Version(),
	}
	if Version != "dev" {
		return info
	}

	build, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if len(build.Main.Version) > 0 && build.Main.Version != "(devel)" {
		info.Version = build.Main.Version
	}
	for _, setting := range build.Settings {
		if setting.Key == "vcs.revision" {
			info.GitCommit = setting.Value
			break
		}
	}
	return info
}

// ShortCommit returns the first 8 characters of the commit hash.
func (b BuildInfo) ShortCommit() string {
	if len(b.GitCommit) > 8 {
		return b.GitCommit[:8]
	}
	return b.GitCommit
}

func (b BuildInfo) String() string {
	if len(b.GitCommit) == 0 || b.GitCommit == "unknown" {
		return fmt.Sprintf("%s (%s)", b.Version, b.GoVersion)
	}
	return fmt.Sprintf("%s (git: %s, %s)", b.Version, b.ShortCommit(), b.GoVersion)
}
