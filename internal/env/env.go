package env

import (
	"os"
	"runtime"
	"strings"
)

// PkgConfigPathVar is the search-path variable read by pkg-config.
const PkgConfigPathVar = "PKG_CONFIG_PATH"

// LocalPkgConfigDir is not on the default pkg-config search path of every
// distribution, so it is always prepended.
const LocalPkgConfigDir = "/usr/local/lib/pkgconfig"

// PkgConfigPath returns cur with LocalPkgConfigDir prepended.
func PkgConfigPath(cur string) string {
	return prependPath(LocalPkgConfigDir, cur)
}

// DefaultPkgConfigPath is PkgConfigPath applied to the current process value.
func DefaultPkgConfigPath() string {
	return PkgConfigPath(os.Getenv(PkgConfigPathVar))
}

// Merge returns base with every key in overrides replaced or appended.
// base is not modified.
func Merge(base []string, overrides map[string]string) []string {
	out := make([]string, len(base), len(base)+len(overrides))
	copy(out, base)
	idx := make(map[string]int, len(out))
	for i, kv := range out {
		if k, _, ok := strings.Cut(kv, "="); ok {
			idx[k] = i
		}
	}
	for k, v := range overrides {
		if i, ok := idx[k]; ok {
			out[i] = k + "=" + v
		} else {
			out = append(out, k+"="+v)
		}
	}
	return out
}

// prependPath prepends value to a PATH-style list.
func prependPath(value, cur string) string {
	sep := ":"
	if runtime.GOOS == "windows" {
		sep = ";"
	}
	if cur != "" {
		value += sep + cur
	}
	return value
}
