// Package stacktrace condenses raw goroutine stack dumps down to the frames
// that belong to this repository, so panic logs stay readable.
package stacktrace

import "strings"

// InternalPaths extracts "internal/...go:line" frames from a raw stack trace.
//
// Returns nil when no internal frame is present; callers usually fall back to
// logging the full stack in that case.
func InternalPaths(stack []byte) []string {
	lines := strings.Split(string(stack), "\n")

	var paths []string
	for _, line := range lines {
		line = strings.TrimSpace(line)

		idx := strings.Index(line, ".go:")
		if idx == -1 {
			continue
		}

		start := strings.Index(line, "/internal/")
		if start == -1 {
			continue
		}

		end := strings.IndexByte(line[idx:], ' ')
		if end == -1 {
			end = len(line)
		} else {
			end += idx
		}

		paths = append(paths, line[start+1:end])
	}

	return paths
}
