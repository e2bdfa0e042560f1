package version

import "runtime/debug"

// Set via -ldflags at release build time. When unset, Resolve falls back
// to the VCS information embedded by the Go toolchain.
var (
	Version = ""
	Commit  = ""
)

type Info struct {
	Version string
	Commit  string
	Dirty   bool
}

func Resolve() Info {
	info := Info{Version: Version, Commit: Commit}

	bi, ok := debug.ReadBuildInfo()
	if !ok {
		if info.Version == "" {
			info.Version = "dev"
		}
		return info
	}
	if info.Version == "" {
		info.Version = bi.Main.Version
		if info.Version == "" || info.Version == "(devel)" {
			info.Version = "dev"
		}
	}
	for _, s := range bi.Settings {
		switch s.Key {
		case "vcs.revision":
			if info.Commit == "" {
				info.Commit = s.Value
			}
		case "vcs.modified":
			info.Dirty = s.Value == "true"
		}
	}
	return info
}

func String() string {
	info := Resolve()
	s := info.Version
	if info.Commit != "" {
		s += " (" + shortCommit(info.Commit) + ")"
	}
	if info.Dirty {
		s += " dirty"
	}
	return s
}

func shortCommit(commit string) string {
	if len(commit) <= 12 {
		return commit
	}
	return commit[:12]
}
