// SPDX-License-Identifier: MPL-2.0

package runner

import (
	"maps"
	"os"
	"sort"
	"strings"
)

// Environ returns the current process environment as a map.
func Environ() map[string]string {
	return EnvFromSlice(os.Environ())
}

// EnvFromSlice parses KEY=VALUE entries. Entries without '=' are dropped;
// later duplicates win.
func EnvFromSlice(environ []string) map[string]string {
	env := make(map[string]string, len(environ))
	for _, e := range environ {
		key, value, ok := strings.Cut(e, "=")
		if !ok || key == "" {
			continue
		}
		env[key] = value
	}
	return env
}

// EnvToSlice flattens env into sorted KEY=VALUE entries.
func EnvToSlice(env map[string]string) []string {
	result := make([]string, 0, len(env))
	for k, v := range env {
		result = append(result, k+"="+v)
	}
	sort.Strings(result)
	return result
}

// MergeEnv returns a new map holding base overlaid with each overlay in
// order. None of the inputs is modified.
func MergeEnv(base map[string]string, overlays ...map[string]string) map[string]string {
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]string)
	}
	for _, overlay := range overlays {
		maps.Copy(out, overlay)
	}
	return out
}
