package fold

import (
	"strings"

	"github.com/kobzarvs/vedit/internal/document"
)

// ApplyVirtualEdit translates an edit made against the virtual view back
// into the actual content. prev must be the Result the virtual view was
// rendered from, i.e. computed against actualContent. Lines outside the
// changed virtual span, hidden lines included, are carried over
// untouched.
//
// Edits are expected to be localized (single keystroke or paste), so a
// common prefix/suffix line trim is enough to find the changed span.
func ApplyVirtualEdit(actualContent, newVirtualContent string, prev Result) string {
	if !prev.Mapping.HasActiveFolds {
		// No hidden lines: virtual and actual are the same text.
		return newVirtualContent
	}

	oldVirtual := prev.VirtualLines
	newVirtual := document.SplitLines(newVirtualContent)
	actual := document.SplitLines(actualContent)

	prefix, suffix := trimCommonLines(oldVirtual, newVirtual)
	if prefix == len(oldVirtual) && prefix == len(newVirtual) {
		return actualContent
	}

	// Changed virtual span: [prefix, len(oldVirtual)-suffix).
	oldEnd := len(oldVirtual) - suffix
	replacement := newVirtual[prefix : len(newVirtual)-suffix]

	var actualStart, actualEnd int
	if prefix == oldEnd {
		// Pure line insertion at virtual index prefix: splice before the
		// actual line that virtual line maps to, or after the last line.
		if prefix < len(oldVirtual) {
			at := prev.Mapping.VirtualToActual[prefix]
			return joinSplice(actual, at, at, replacement)
		}
		return joinSplice(actual, len(actual), len(actual), replacement)
	}

	actualStart = prev.Mapping.VirtualToActual[prefix]
	actualEnd = prev.Mapping.VirtualToActual[oldEnd-1] + 1
	return joinSplice(actual, actualStart, actualEnd, replacement)
}

// trimCommonLines returns the longest common prefix and suffix line
// counts of a and b, with prefix+suffix never exceeding the shorter
// slice.
func trimCommonLines(a, b []string) (prefix, suffix int) {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	for prefix < n && a[prefix] == b[prefix] {
		prefix++
	}
	for suffix < n-prefix && a[len(a)-1-suffix] == b[len(b)-1-suffix] {
		suffix++
	}
	return prefix, suffix
}

// joinSplice replaces lines[start:end] with replacement and rejoins.
func joinSplice(lines []string, start, end int, replacement []string) string {
	out := make([]string, 0, len(lines)-(end-start)+len(replacement))
	out = append(out, lines[:start]...)
	out = append(out, replacement...)
	out = append(out, lines[end:]...)
	return strings.Join(out, "\n")
}
