package runner

import (
	"strings"
)

// FieldOf returns the n-th (1-based) whitespace-separated field of the first
// line of output whose first field is match, or "" when no line matches or
// the line is too short.
func FieldOf(output, match string, n int) string {
	if n < 1 {
		return ""
	}
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 0 || fields[0] != match {
			continue
		}
		if n > len(fields) {
			return ""
		}
		return fields[n-1]
	}
	return ""
}

// CollapseSlashes replaces every run of "/" with a single "/".
func CollapseSlashes(p string) string {
	if !strings.Contains(p, "//") {
		return p
	}
	var b strings.Builder
	b.Grow(len(p))
	prev := byte(0)
	for i := 0; i < len(p); i++ {
		if p[i] == '/' && prev == '/' {
			continue
		}
		b.WriteByte(p[i])
		prev = p[i]
	}
	return b.String()
}
