package editor

import (
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/vedit/internal/config"
	"github.com/kobzarvs/vedit/internal/fold"
	"github.com/kobzarvs/vedit/internal/session"
)

func newTestEditor(content string, regions ...fold.Region) *Editor {
	sess := session.New(fold.NewStore())
	sess.SetBuffer("test.txt", content)
	if len(regions) > 0 {
		sess.SetRegions(regions)
	}
	return New(config.Default(), sess)
}

func TestVisualColWithTabs(t *testing.T) {
	line := []rune("a\tb")
	if got := visualCol(line, 0, 4); got != 0 {
		t.Fatalf("col0 = %d, want 0", got)
	}
	if got := visualCol(line, 1, 4); got != 1 {
		t.Fatalf("col1 = %d, want 1", got)
	}
	if got := visualCol(line, 2, 4); got != 4 {
		t.Fatalf("col2 = %d, want 4", got)
	}
	if got := visualCol(line, 3, 4); got != 5 {
		t.Fatalf("col3 = %d, want 5", got)
	}
}

func TestLogicalColInvertsVisualCol(t *testing.T) {
	line := []rune("a\tbc")
	for logical := 0; logical <= len(line); logical++ {
		visual := visualCol(line, logical, 4)
		if got := logicalCol(line, visual, 4); got != logical {
			t.Fatalf("logicalCol(%d) = %d, want %d", visual, got, logical)
		}
	}
}

func TestInsertModeTyping(t *testing.T) {
	e := newTestEditor("ab")
	e.execAction("enter_insert")
	if e.mode != ModeInsert {
		t.Fatalf("mode = %v, want insert", e.mode)
	}
	e.execAction("move_right")
	e.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'X', 0))
	if got := e.Content(); got != "aXb" {
		t.Fatalf("content = %q, want %q", got, "aXb")
	}
	if !e.dirty {
		t.Fatalf("dirty = false after edit")
	}
}

func TestMoveDownSkipsCollapsedRegion(t *testing.T) {
	e := newTestEditor("a\nb\nc\nd\ne", fold.Region{StartLine: 1, EndLine: 3})
	e.sess.SetPrimaryPosition(1, 0)
	e.execAction("toggle_fold")
	e.execAction("move_down")
	if got := e.sess.Primary().Position.Line; got != 4 {
		t.Fatalf("cursor line = %d, want 4 (fold skipped)", got)
	}
	e.execAction("move_up")
	if got := e.sess.Primary().Position.Line; got != 1 {
		t.Fatalf("cursor line = %d, want 1", got)
	}
}

func TestToggleFoldInsideRegion(t *testing.T) {
	e := newTestEditor("a\nb\nc\nd", fold.Region{StartLine: 0, EndLine: 2})
	e.sess.SetPrimaryPosition(1, 0)
	e.execAction("toggle_fold")
	if !e.sess.FoldState().Collapsed[0] {
		t.Fatalf("enclosing region not collapsed")
	}
}

func TestNormalModeKeySequence(t *testing.T) {
	e := newTestEditor("a\nb\nc", fold.Region{StartLine: 0, EndLine: 2})
	e.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'z', 0))
	if e.pending != "z" {
		t.Fatalf("pending = %q, want z", e.pending)
	}
	e.HandleKey(tcell.NewEventKey(tcell.KeyRune, 'a', 0))
	if e.pending != "" {
		t.Fatalf("pending = %q after sequence, want empty", e.pending)
	}
	if !e.sess.FoldState().Collapsed[0] {
		t.Fatalf("za did not toggle the fold")
	}
}

func TestDeleteChar(t *testing.T) {
	e := newTestEditor("abc")
	e.sess.SetPrimaryPosition(0, 1)
	e.execAction("delete_char")
	if got := e.Content(); got != "ac" {
		t.Fatalf("content = %q, want %q", got, "ac")
	}
	if p := e.sess.Primary().Position; p.Column != 1 {
		t.Fatalf("cursor col = %d, want 1", p.Column)
	}
}

func TestAddCursorBelowAndInsert(t *testing.T) {
	e := newTestEditor("abc\ndef")
	e.execAction("add_cursor_below")
	if len(e.sess.Cursors()) != 2 {
		t.Fatalf("cursor count = %d, want 2", len(e.sess.Cursors()))
	}
	e.execAction("enter_insert")
	e.HandleKey(tcell.NewEventKey(tcell.KeyRune, '#', 0))
	if got := e.Content(); got != "#abc\n#def" {
		t.Fatalf("content = %q, want %q", got, "#abc\n#def")
	}
	e.execAction("enter_normal")
	e.execAction("clear_cursors")
	if len(e.sess.Cursors()) != 1 {
		t.Fatalf("cursor count = %d after clear, want 1", len(e.sess.Cursors()))
	}
}

func TestKeyStringNamedKeys(t *testing.T) {
	cases := []struct {
		ev   *tcell.EventKey
		want string
	}{
		{tcell.NewEventKey(tcell.KeyRune, 'x', 0), "x"},
		{tcell.NewEventKey(tcell.KeyRune, ' ', 0), "space"},
		{tcell.NewEventKey(tcell.KeyTab, 0, 0), "tab"},
		{tcell.NewEventKey(tcell.KeyEnter, 0, 0), "enter"},
		{tcell.NewEventKey(tcell.KeyEscape, 0, 0), "esc"},
		{tcell.NewEventKey(tcell.KeyCtrlD, 0, tcell.ModCtrl), "ctrl+d"},
		{tcell.NewEventKey(tcell.KeyBackspace2, 0, 0), "backspace"},
	}
	for _, c := range cases {
		if got := keyString(c.ev); got != c.want {
			t.Fatalf("keyString = %q, want %q", got, c.want)
		}
	}
}

func TestRenderGutterShowsActualLineNumbers(t *testing.T) {
	e := newTestEditor("a\nb\nc\nd\ne", fold.Region{StartLine: 1, EndLine: 3})
	e.sess.ToggleFold(1)

	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init screen: %v", err)
	}
	defer s.Fini()
	s.SetSize(30, 6)

	e.Render(s)
	cells, w, _ := s.GetContents()
	rowText := func(row int) string {
		var b []rune
		for x := 0; x < w; x++ {
			cell := cells[row*w+x]
			if len(cell.Runes) > 0 {
				b = append(b, cell.Runes[0])
			}
		}
		return string(b)
	}
	// Virtual row 2 is actual line 4 ("e"), gutter shows "5".
	if got := rowText(2); !containsRune(got, '5') || !containsRune(got, 'e') {
		t.Fatalf("row 2 = %q, want gutter 5 and text e", got)
	}
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}
