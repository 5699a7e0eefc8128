package cursor

import (
	"sort"

	"github.com/kobzarvs/vedit/internal/document"
)

// Cursor is one independent insertion point. The ID is stable across
// edits so callers can track a cursor while its position moves.
type Cursor struct {
	ID        string
	Position  document.Position
	Selection *document.Range
}

// New returns a cursor at the given position with no selection.
func New(id string, pos document.Position) Cursor {
	return Cursor{ID: id, Position: pos}
}

// Result is the outcome of one logical multi-cursor operation: the new
// content plus every cursor repositioned against it, in the caller's
// original order, selections cleared.
type Result struct {
	Content string
	Cursors []Cursor
}

// ApplyInsert inserts text at every cursor at once. Cursors with a
// selection replace it. Cursors are processed bottom-to-top so an edit
// at a later offset never shifts a not-yet-processed earlier cursor;
// the final content is therefore independent of the input order.
func ApplyInsert(content string, cursors []Cursor, text string) Result {
	return apply(content, cursors, text, false)
}

// ApplyBackspace deletes one character before every cursor, or the
// selection where one exists. A cursor at offset zero with no selection
// is a no-op while the rest of the batch still edits.
func ApplyBackspace(content string, cursors []Cursor) Result {
	return apply(content, cursors, "", true)
}

func apply(content string, cursors []Cursor, text string, backspace bool) Result {
	order := make([]int, len(cursors))
	for i := range order {
		order[i] = i
	}
	// Textually last cursor first.
	sort.SliceStable(order, func(a, b int) bool {
		pa, pb := cursors[order[a]].Position, cursors[order[b]].Position
		if pa.Line != pb.Line {
			return pa.Line > pb.Line
		}
		return pa.Column > pb.Column
	})

	insert := []rune(text)
	offsets := make(map[string]int, len(cursors))
	for _, idx := range order {
		c := cursors[idx]
		// Offsets are recomputed against the current content: cursors
		// above this one are unaffected by the edits already applied
		// below it.
		lines := document.SplitLines(content)
		runes := []rune(content)

		deleteStart, deleteEnd := editSpan(c, lines, backspace)

		// Cursors already processed sit at or after this edit; shift
		// their recorded offsets so they stay pinned to the same text.
		delta := len(insert) - (deleteEnd - deleteStart)
		if delta != 0 {
			for id, o := range offsets {
				if o >= deleteStart {
					offsets[id] = o + delta
				}
			}
		}

		spliced := make([]rune, 0, len(runes)-(deleteEnd-deleteStart)+len(insert))
		spliced = append(spliced, runes[:deleteStart]...)
		spliced = append(spliced, insert...)
		spliced = append(spliced, runes[deleteEnd:]...)
		content = string(spliced)
		offsets[c.ID] = deleteStart + len(insert)
	}

	finalLines := document.SplitLines(content)
	out := make([]Cursor, len(cursors))
	for i, c := range cursors {
		out[i] = Cursor{
			ID:       c.ID,
			Position: document.OffsetToPosition(offsets[c.ID], finalLines),
		}
	}
	return Result{Content: content, Cursors: out}
}

// editSpan resolves the span a single cursor deletes, clamped to the
// current content.
func editSpan(c Cursor, lines []string, backspace bool) (int, int) {
	if c.Selection != nil && !c.Selection.IsEmpty() {
		sel := c.Selection.Normalize()
		start := document.PositionToOffset(sel.Start.Line, sel.Start.Column, lines)
		end := document.PositionToOffset(sel.End.Line, sel.End.Column, lines)
		if end < start {
			start, end = end, start
		}
		return start, end
	}
	offset := document.PositionToOffset(c.Position.Line, c.Position.Column, lines)
	if !backspace {
		return offset, offset
	}
	start := offset - 1
	if start < 0 {
		start = 0
	}
	return start, offset
}
