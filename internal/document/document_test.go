package document

import "testing"

func TestSplitLinesEmpty(t *testing.T) {
	lines := SplitLines("")
	if len(lines) != 1 || lines[0] != "" {
		t.Fatalf("lines = %q, want one empty line", lines)
	}
}

func TestLineStarts(t *testing.T) {
	starts := LineStarts([]string{"abc", "de", ""})
	want := []int{0, 4, 7}
	for i, s := range starts {
		if s != want[i] {
			t.Fatalf("starts[%d] = %d, want %d", i, s, want[i])
		}
	}
}

func TestOffsetToPosition(t *testing.T) {
	lines := SplitLines("abc\ndef\nghi")
	cases := []struct {
		offset int
		line   int
		col    int
	}{
		{0, 0, 0},
		{2, 0, 2},
		{3, 0, 3}, // end of line 0, before the newline
		{4, 1, 0},
		{7, 1, 3},
		{8, 2, 0},
		{11, 2, 3},
	}
	for _, c := range cases {
		pos := OffsetToPosition(c.offset, lines)
		if pos.Line != c.line || pos.Column != c.col || pos.Offset != c.offset {
			t.Fatalf("offset %d = %+v, want line %d col %d", c.offset, pos, c.line, c.col)
		}
	}
}

func TestOffsetToPositionClamps(t *testing.T) {
	lines := SplitLines("abc\nde")
	pos := OffsetToPosition(-5, lines)
	if pos.Line != 0 || pos.Column != 0 || pos.Offset != 0 {
		t.Fatalf("negative offset = %+v, want document start", pos)
	}
	pos = OffsetToPosition(100, lines)
	if pos.Line != 1 || pos.Column != 2 || pos.Offset != 6 {
		t.Fatalf("past-end offset = %+v, want last line end", pos)
	}
}

func TestPositionToOffsetClamps(t *testing.T) {
	lines := SplitLines("abc\nde")
	if got := PositionToOffset(0, 99, lines); got != 3 {
		t.Fatalf("clamped column offset = %d, want 3", got)
	}
	if got := PositionToOffset(-1, 0, lines); got != 0 {
		t.Fatalf("negative line offset = %d, want 0", got)
	}
	if got := PositionToOffset(99, 0, lines); got != 4 {
		t.Fatalf("past-end line offset = %d, want 4", got)
	}
}

func TestOffsetRoundTrip(t *testing.T) {
	content := "abc\n\ndef ghi\nx"
	lines := SplitLines(content)
	total := TotalLength(lines)
	if total != len([]rune(content)) {
		t.Fatalf("total = %d, want %d", total, len([]rune(content)))
	}
	for o := 0; o <= total; o++ {
		pos := OffsetToPosition(o, lines)
		if got := PositionToOffset(pos.Line, pos.Column, lines); got != o {
			t.Fatalf("round trip %d -> %+v -> %d", o, pos, got)
		}
	}
}

func TestRangeNormalize(t *testing.T) {
	r := Range{
		Start: Position{Line: 1, Column: 0, Offset: 4},
		End:   Position{Line: 0, Column: 1, Offset: 1},
	}
	n := r.Normalize()
	if n.Start.Offset != 1 || n.End.Offset != 4 {
		t.Fatalf("normalized = %+v, want start 1 end 4", n)
	}
	if !(Range{}).IsEmpty() {
		t.Fatalf("zero range not empty")
	}
}
