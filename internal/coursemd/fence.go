package coursemd

import "strings"

// FenceTracker follows fenced code blocks (``` or ~~~) line by line.
// The zero value starts outside any fence.
type FenceTracker struct {
	marker byte
	size   int
}

// Step consumes one line and reports whether it belongs to a fenced block,
// opening and closing fence lines included.
func (f *FenceTracker) Step(line string) bool {
	trimmed := strings.TrimLeft(line, " ")
	if len(line)-len(trimmed) > 3 {
		return f.size > 0
	}

	n, c := fenceRun(trimmed)
	if f.size == 0 {
		if n < 3 {
			return false
		}
		// A backtick fence info string cannot contain backticks.
		if c == '`' && strings.ContainsRune(trimmed[n:], '`') {
			return false
		}
		f.marker, f.size = c, n
		return true
	}

	if c == f.marker && n >= f.size && strings.TrimSpace(trimmed[n:]) == "" {
		f.marker, f.size = 0, 0
	}
	return true
}

// InFence reports whether the tracker is inside an open fence.
func (f *FenceTracker) InFence() bool {
	return f.size > 0
}

func fenceRun(s string) (int, byte) {
	if s == "" || (s[0] != '`' && s[0] != '~') {
		return 0, 0
	}
	c := s[0]
	n := 0
	for n < len(s) && s[n] == c {
		n++
	}
	return n, c
}

// fencedLineStarts returns the byte offsets of every line start that lies
// inside a fenced code block.
func fencedLineStarts(s string) map[int]bool {
	var (
		fenced = map[int]bool{}
		ft     FenceTracker
		offset int
	)
	for _, line := range strings.SplitAfter(s, "\n") {
		if ft.Step(strings.TrimSuffix(line, "\n")) {
			fenced[offset] = true
		}
		offset += len(line)
	}
	return fenced
}
