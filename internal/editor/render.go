package editor

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// Render draws the virtual view: folded interiors are absent, the
// gutter shows actual line numbers translated through the mapping, and
// collapsed start lines carry a fold marker.
func (e *Editor) Render(s tcell.Screen) {
	w, h := s.Size()
	viewHeight := h - 1
	if viewHeight < 0 {
		viewHeight = 0
	}
	e.viewHeight = viewHeight
	e.ensureCursorVisible()

	s.Fill(' ', e.styleMain)

	m := e.sess.Mapping()
	virtualLines := e.sess.VirtualLines()
	gutter := e.gutterWidth()
	primary := e.sess.Primary().Position
	primaryVirtual := m.ActualToVirtual[primary.Line]

	collapsedAt := make(map[int]bool, len(m.Folded))
	hiddenCount := make(map[int]int, len(m.Folded))
	for _, f := range m.Folded {
		collapsedAt[f.VirtualLine] = true
		hiddenCount[f.VirtualLine] = f.End - f.Start
	}

	secondary := e.secondaryCells()

	for row := 0; row < viewHeight; row++ {
		vline := e.scroll + row
		if vline >= len(virtualLines) {
			break
		}
		aline := m.VirtualToActual[vline]
		e.drawGutter(s, row, aline, primaryVirtual == vline, gutter)

		line := []rune(virtualLines[vline])
		x := gutter
		for col, r := range line {
			style := e.styleMain
			if secondary[cellPos{vline, col}] {
				style = e.styleSecondaryCursor
			}
			if r == '\t' {
				next := gutter + visualCol(line, col+1, e.tabWidth)
				for ; x < next && x < w; x++ {
					s.SetContent(x, row, ' ', nil, style)
				}
				continue
			}
			if x < w {
				s.SetContent(x, row, r, nil, style)
			}
			x++
		}
		// Cursor sitting at end of line.
		if secondary[cellPos{vline, len(line)}] && x < w {
			s.SetContent(x, row, ' ', nil, e.styleSecondaryCursor)
		}
		if collapsedAt[vline] {
			marker := " " + e.foldSymbol + " " + strconv.Itoa(hiddenCount[vline]) + " lines"
			for i, r := range marker {
				if x+1+i >= w {
					break
				}
				s.SetContent(x+1+i, row, r, nil, e.styleFoldMarker)
			}
		}
	}

	e.drawStatusline(s, w, h-1)

	// Hardware cursor on the primary position.
	cy := primaryVirtual - e.scroll
	if cy >= 0 && cy < viewHeight {
		vline := e.virtualLine(primaryVirtual)
		col := primary.Column
		if col > len(vline) {
			col = len(vline)
		}
		cx := gutter + visualCol(vline, col, e.tabWidth)
		cursorStyle := tcell.CursorStyleSteadyBlock
		if e.mode == ModeInsert {
			cursorStyle = tcell.CursorStyleSteadyBar
		}
		s.SetCursorStyle(cursorStyle)
		s.ShowCursor(cx, cy)
	} else {
		s.HideCursor()
	}

	s.Show()
}

type cellPos struct {
	vline int
	col   int
}

// secondaryCells maps every non-primary cursor to its virtual cell.
func (e *Editor) secondaryCells() map[cellPos]bool {
	out := make(map[cellPos]bool)
	mapping := e.sess.Mapping()
	primaryID := e.sess.Primary().ID
	for _, c := range e.sess.Cursors() {
		if c.ID == primaryID {
			continue
		}
		vline, ok := mapping.ActualToVirtual[c.Position.Line]
		if !ok {
			continue
		}
		out[cellPos{vline, c.Position.Column}] = true
	}
	return out
}

func (e *Editor) drawGutter(s tcell.Screen, row, aline int, active bool, gutter int) {
	if e.lineNumberMode == LineNumberOff || gutter == 0 {
		return
	}
	num := aline + 1
	if e.lineNumberMode == LineNumberRelative && !active {
		primary := e.sess.Primary().Position.Line
		num = aline - primary
		if num < 0 {
			num = -num
		}
	}
	style := e.styleLineNumber
	if active {
		style = e.styleLineNumberActive
	}
	text := fmt.Sprintf("%*d ", gutter-1, num)
	for i, r := range text {
		s.SetContent(i, row, r, nil, style)
	}
}

func (e *Editor) gutterWidth() int {
	if e.lineNumberMode == LineNumberOff {
		return 0
	}
	digits := len(strconv.Itoa(len(e.sess.Lines())))
	if digits < 3 {
		digits = 3
	}
	return digits + 1
}

func (e *Editor) drawStatusline(s tcell.Screen, w, y int) {
	if y < 0 {
		return
	}
	pos := e.sess.Primary().Position
	left := " " + e.mode.String() + "  " + e.filename
	if e.dirty {
		left += " [+]"
	}
	if e.statusMessage != "" {
		left += "  " + e.statusMessage
	}
	right := ""
	if n := len(e.sess.Cursors()); n > 1 {
		right += fmt.Sprintf("%d cursors  ", n)
	}
	if folds := len(e.sess.Mapping().Folded); folds > 0 {
		right += fmt.Sprintf("%d folds  ", folds)
	}
	if e.gitBranch != "" {
		right += e.gitBranch + "  "
	}
	right += fmt.Sprintf("%d:%d ", pos.Line+1, pos.Column+1)

	pad := w - len([]rune(left)) - len([]rune(right))
	if pad < 1 {
		pad = 1
	}
	text := left + strings.Repeat(" ", pad) + right
	for i, r := range []rune(text) {
		if i >= w {
			break
		}
		s.SetContent(i, y, r, nil, e.styleStatus)
	}
}

// ensureCursorVisible scrolls so the primary cursor's virtual line is on
// screen.
func (e *Editor) ensureCursorVisible() {
	if e.viewHeight <= 0 {
		return
	}
	vline := e.sess.Mapping().ActualToVirtual[e.sess.Primary().Position.Line]
	if vline < e.scroll {
		e.scroll = vline
	}
	if vline >= e.scroll+e.viewHeight {
		e.scroll = vline - e.viewHeight + 1
	}
	if e.scroll < 0 {
		e.scroll = 0
	}
}

func visualCol(line []rune, logicalCol int, tabWidth int) int {
	col := 0
	for i := 0; i < logicalCol && i < len(line); i++ {
		if line[i] == '\t' {
			col = (col/tabWidth + 1) * tabWidth
		} else {
			col++
		}
	}
	return col
}

// logicalCol inverts visualCol for mouse clicks.
func logicalCol(line []rune, visual int, tabWidth int) int {
	if visual < 0 {
		return 0
	}
	col := 0
	for i := range line {
		if col >= visual {
			return i
		}
		if line[i] == '\t' {
			col = (col/tabWidth + 1) * tabWidth
		} else {
			col++
		}
	}
	return len(line)
}

func parseColor(name string, fallback tcell.Color) tcell.Color {
	name = strings.TrimSpace(name)
	if name == "" {
		return fallback
	}
	if strings.HasPrefix(name, "#") && len(name) == 7 {
		r, err1 := strconv.ParseInt(name[1:3], 16, 32)
		g, err2 := strconv.ParseInt(name[3:5], 16, 32)
		b, err3 := strconv.ParseInt(name[5:7], 16, 32)
		if err1 == nil && err2 == nil && err3 == nil {
			return tcell.NewRGBColor(int32(r), int32(g), int32(b))
		}
		return fallback
	}
	name = strings.ToLower(name)
	if name == "default" {
		return tcell.ColorDefault
	}
	c := tcell.GetColor(name)
	if c == tcell.ColorDefault {
		return fallback
	}
	return c
}
