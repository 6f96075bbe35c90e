// Package buildinfo exposes the vcs revision baked into the binary, logged
// on server start so deployments can be told apart.
package buildinfo

import (
	"runtime/debug"
)

const shortRevLen = 7

// Revision returns the short vcs revision of the running build. Builds made
// outside a repository yield an empty string.
func Revision() string {
	rev := vcsSetting("vcs.revision")
	if len(rev) > shortRevLen {
		rev = rev[:shortRevLen]
	}
	return rev
}

func vcsSetting(key string) string {
	if info, ok := debug.ReadBuildInfo(); ok {
		for _, setting := range info.Settings {
			if setting.Key == key {
				return setting.Value
			}
		}
	}
	return ""
}
