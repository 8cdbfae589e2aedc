// Package template provides placeholder expansion for snapshot name prefixes.
package template

import (
	"os"
	"os/user"
	"runtime"
	"strings"
)

// Expand expands placeholders in a snapshot prefix.
//
// Supported placeholders:
//   {hostname}  - System hostname, domain part stripped
//   {user}      - Current username
//   {arch}      - System architecture (e.g., amd64, arm64)
//
// Only host-stable placeholders are supported on purpose: the expanded
// prefix selects which existing snapshots belong to a retention group,
// so a value that changes between runs (date, pid) would orphan every
// previously created snapshot from pruning.
func Expand(prefix string) string {
	placeholders := map[string]string{
		"arch": runtime.GOARCH,
	}

	if u, err := user.Current(); err == nil {
		placeholders["user"] = u.Username
	} else {
		placeholders["user"] = "unknown"
	}

	if h, err := os.Hostname(); err == nil {
		placeholders["hostname"] = strings.Split(h, ".")[0]
	} else {
		placeholders["hostname"] = "unknown"
	}

	result := prefix
	for key, value := range placeholders {
		result = strings.ReplaceAll(result, "{"+key+"}", value)
	}
	return result
}
