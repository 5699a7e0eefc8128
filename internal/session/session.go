package session

import (
	"strconv"

	"github.com/kobzarvs/vedit/internal/cursor"
	"github.com/kobzarvs/vedit/internal/document"
	"github.com/kobzarvs/vedit/internal/fold"
	"github.com/kobzarvs/vedit/internal/logger"
)

// Session coordinates one open buffer: the actual content, the cursor
// list, and the buffer's fold state. It is the only owner of that state;
// every content-changing input for the buffer goes through here, and the
// fold mapping is recomputed after each change so queries never see a
// stale view.
type Session struct {
	folds *fold.Store

	buffer    string
	content   string
	cursors   []cursor.Cursor
	primaryID string
	nextID    int

	result fold.Result
}

func New(folds *fold.Store) *Session {
	return &Session{folds: folds}
}

// SetBuffer switches the active buffer. Cursors belong to the previous
// buffer and are reset to a single primary at the document start.
func (s *Session) SetBuffer(name, content string) {
	s.buffer = name
	s.content = content
	s.nextID = 0
	primary := s.newCursor(document.Position{})
	s.cursors = []cursor.Cursor{primary}
	s.primaryID = primary.ID
	s.refresh()
}

// CloseBuffer drops the buffer's fold state from the store.
func (s *Session) CloseBuffer() {
	if s.buffer != "" {
		s.folds.Close(s.buffer)
	}
	s.buffer = ""
	s.content = ""
	s.cursors = nil
	s.result = fold.Result{}
}

func (s *Session) newCursor(pos document.Position) cursor.Cursor {
	id := "c" + strconv.Itoa(s.nextID)
	s.nextID++
	return cursor.New(id, pos)
}

// Buffer returns the active buffer name.
func (s *Session) Buffer() string { return s.buffer }

// Content returns the actual content, hidden lines included.
func (s *Session) Content() string { return s.content }

// Lines returns the actual content split into lines.
func (s *Session) Lines() []string { return document.SplitLines(s.content) }

// VirtualLines returns the folded view's lines.
func (s *Session) VirtualLines() []string { return s.result.VirtualLines }

// VirtualContent returns the folded view's text.
func (s *Session) VirtualContent() string { return s.result.VirtualContent }

// Mapping returns the current actual/virtual line mapping.
func (s *Session) Mapping() fold.Mapping { return s.result.Mapping }

// Cursors returns the live cursor list.
func (s *Session) Cursors() []cursor.Cursor { return s.cursors }

// Primary returns the cursor driven by the input surface.
func (s *Session) Primary() cursor.Cursor {
	for _, c := range s.cursors {
		if c.ID == s.primaryID {
			return c
		}
	}
	if len(s.cursors) > 0 {
		return s.cursors[0]
	}
	return cursor.Cursor{}
}

// SetPrimaryPosition moves the primary cursor without editing.
func (s *Session) SetPrimaryPosition(line, col int) {
	lines := document.SplitLines(s.content)
	offset := document.PositionToOffset(line, col, lines)
	pos := document.OffsetToPosition(offset, lines)
	for i, c := range s.cursors {
		if c.ID == s.primaryID {
			s.cursors[i].Position = pos
			s.cursors[i].Selection = nil
			return
		}
	}
}

// AddCursor adds a secondary cursor at the given actual position and
// returns it.
func (s *Session) AddCursor(line, col int) cursor.Cursor {
	lines := document.SplitLines(s.content)
	offset := document.PositionToOffset(line, col, lines)
	c := s.newCursor(document.OffsetToPosition(offset, lines))
	s.cursors = append(s.cursors, c)
	return c
}

// ClearSecondaryCursors keeps only the primary cursor.
func (s *Session) ClearSecondaryCursors() {
	primary := s.Primary()
	s.cursors = []cursor.Cursor{primary}
	s.primaryID = primary.ID
}

// MultiCursor reports whether more than one cursor is active.
func (s *Session) MultiCursor() bool { return len(s.cursors) > 1 }

// Insert applies one logical insert at every cursor. Single-cursor
// edits go through the virtual view so collapsed regions stay intact;
// multi-cursor edits operate directly on actual content and ignore
// folds.
func (s *Session) Insert(text string) {
	if s.MultiCursor() {
		res := cursor.ApplyInsert(s.content, s.cursors, text)
		s.content = res.Content
		s.cursors = res.Cursors
		s.refresh()
		return
	}
	s.singleEdit(text, false)
}

// Backspace deletes one character (or the selection) at every cursor.
func (s *Session) Backspace() {
	if s.MultiCursor() {
		res := cursor.ApplyBackspace(s.content, s.cursors)
		s.content = res.Content
		s.cursors = res.Cursors
		s.refresh()
		return
	}
	s.singleEdit("", true)
}

// singleEdit runs the single-cursor path: apply the edit against the
// virtual content, then translate the result back into the actual
// content through the mapping the view was rendered from.
func (s *Session) singleEdit(text string, backspace bool) {
	prev := s.result
	primary := s.Primary()

	vc := cursor.Cursor{
		ID:        primary.ID,
		Position:  s.virtualPosition(primary.Position),
		Selection: s.virtualSelection(primary),
	}
	var res cursor.Result
	if backspace {
		res = cursor.ApplyBackspace(prev.VirtualContent, []cursor.Cursor{vc})
	} else {
		res = cursor.ApplyInsert(prev.VirtualContent, []cursor.Cursor{vc}, text)
	}

	s.content = fold.ApplyVirtualEdit(s.content, res.Content, prev)
	s.refresh()

	// The post-edit cursor is known in virtual coordinates; translate it
	// back through the fresh mapping.
	actualPos := s.actualPosition(res.Cursors[0].Position)
	for i, c := range s.cursors {
		if c.ID == primary.ID {
			s.cursors[i].Position = actualPos
			s.cursors[i].Selection = nil
		}
	}
}

// virtualPosition translates an actual position into the virtual view.
// Positions on hidden lines land on their region's visible start line.
func (s *Session) virtualPosition(pos document.Position) document.Position {
	vline, ok := s.result.Mapping.ActualToVirtual[pos.Line]
	if !ok {
		vline = 0
	}
	lines := s.result.VirtualLines
	offset := document.PositionToOffset(vline, pos.Column, lines)
	return document.OffsetToPosition(offset, lines)
}

func (s *Session) virtualSelection(c cursor.Cursor) *document.Range {
	if c.Selection == nil {
		return nil
	}
	sel := c.Selection.Normalize()
	return &document.Range{
		Start: s.virtualPosition(sel.Start),
		End:   s.virtualPosition(sel.End),
	}
}

// actualPosition translates a virtual position back into actual
// coordinates using the current mapping.
func (s *Session) actualPosition(pos document.Position) document.Position {
	aline, ok := s.result.Mapping.VirtualToActual[pos.Line]
	if !ok {
		aline = pos.Line
	}
	lines := document.SplitLines(s.content)
	offset := document.PositionToOffset(aline, pos.Column, lines)
	return document.OffsetToPosition(offset, lines)
}

// SetRegions replaces the buffer's fold regions, typically after the
// analyzer re-parsed the content.
func (s *Session) SetRegions(regions []fold.Region) {
	st := s.folds.Open(s.buffer)
	st.Regions = regions
	s.refresh()
	s.clampCursors()
}

// ToggleFold collapses or expands the region starting at the given
// actual line.
func (s *Session) ToggleFold(line int) bool {
	st := s.folds.Open(s.buffer)
	ok := st.Toggle(line)
	if ok {
		s.refresh()
		s.clampCursors()
	}
	return ok
}

// FoldState exposes the buffer's fold state, creating it on first use.
func (s *Session) FoldState() *fold.State {
	return s.folds.Open(s.buffer)
}

// refresh recomputes the fold mapping. It runs after every content or
// fold-state change; the mapping is never patched incrementally.
func (s *Session) refresh() {
	st := s.folds.Open(s.buffer)
	s.result = fold.Compute(s.content, st)
	logger.Debug("mapping refreshed",
		"buffer", s.buffer,
		"virtualLines", len(s.result.VirtualLines),
		"folds", len(s.result.Mapping.Folded))
}

// clampCursors moves cursors stranded on hidden lines up to the fold's
// visible start line.
func (s *Session) clampCursors() {
	lines := document.SplitLines(s.content)
	for i, c := range s.cursors {
		for _, f := range s.result.Mapping.Folded {
			if c.Position.Line > f.Start && c.Position.Line <= f.End {
				offset := document.PositionToOffset(f.Start, len([]rune(lines[f.Start])), lines)
				s.cursors[i].Position = document.OffsetToPosition(offset, lines)
				s.cursors[i].Selection = nil
				break
			}
		}
	}
}
