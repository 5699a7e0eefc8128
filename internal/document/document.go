package document

import "strings"

// Position is one location in a buffer expressed in all three coordinate
// systems at once. Offset is the global character index; it always equals
// the sum of the preceding lines' lengths (plus one newline each) plus
// Column.
type Position struct {
	Line   int
	Column int
	Offset int
}

// Range is a span between two positions. Start and End may arrive in
// either order; call Normalize before treating them as min/max.
type Range struct {
	Start Position
	End   Position
}

// Normalize returns a copy of r with Start <= End.
func (r Range) Normalize() Range {
	if r.End.Offset < r.Start.Offset {
		return Range{Start: r.End, End: r.Start}
	}
	return r
}

// IsEmpty reports whether the range covers no characters.
func (r Range) IsEmpty() bool {
	return r.Start.Offset == r.End.Offset
}

// SplitLines splits content on "\n". Empty content yields a single empty
// line, so there is always at least one line to address.
func SplitLines(content string) []string {
	return strings.Split(content, "\n")
}

// LineStarts returns the character offset of the first character of each
// line.
func LineStarts(lines []string) []int {
	starts := make([]int, len(lines))
	offset := 0
	for i, line := range lines {
		starts[i] = offset
		offset += len([]rune(line)) + 1
	}
	return starts
}

// TotalLength returns the character length of the joined lines, newlines
// included.
func TotalLength(lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	total := len(lines) - 1
	for _, line := range lines {
		total += len([]rune(line))
	}
	return total
}

// OffsetToPosition converts a global character offset into a Position
// against the given lines. Negative offsets clamp to the document start,
// offsets past the end clamp to the last line's end. The returned Offset
// is the clamped value, so the round trip through PositionToOffset is
// stable.
func OffsetToPosition(offset int, lines []string) Position {
	if len(lines) == 0 {
		return Position{}
	}
	if offset < 0 {
		offset = 0
	}
	running := 0
	for i, line := range lines {
		length := len([]rune(line))
		if offset <= running+length {
			col := offset - running
			if col > length {
				col = length
			}
			return Position{Line: i, Column: col, Offset: running + col}
		}
		running += length + 1
	}
	last := len(lines) - 1
	length := len([]rune(lines[last]))
	return Position{Line: last, Column: length, Offset: running - 1}
}

// PositionToOffset converts a (line, column) pair into a global character
// offset. Line is clamped to the valid range and column to the line's
// length.
func PositionToOffset(line, column int, lines []string) int {
	if len(lines) == 0 {
		return 0
	}
	if line < 0 {
		line = 0
	}
	if line >= len(lines) {
		line = len(lines) - 1
	}
	offset := 0
	for i := 0; i < line; i++ {
		offset += len([]rune(lines[i])) + 1
	}
	if column < 0 {
		column = 0
	}
	if length := len([]rune(lines[line])); column > length {
		column = length
	}
	return offset + column
}

// PositionAt is OffsetToPosition for callers holding the raw content.
func PositionAt(offset int, content string) Position {
	return OffsetToPosition(offset, SplitLines(content))
}
