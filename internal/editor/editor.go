package editor

import (
	"os"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/kobzarvs/vedit/internal/config"
	"github.com/kobzarvs/vedit/internal/logger"
	"github.com/kobzarvs/vedit/internal/session"
)

type Mode int

const (
	ModeNormal Mode = iota
	ModeInsert
)

func (m Mode) String() string {
	if m == ModeInsert {
		return "INSERT"
	}
	return "NORMAL"
}

type LineNumberMode int

const (
	LineNumberOff LineNumberMode = iota
	LineNumberAbsolute
	LineNumberRelative
)

type keymapSet struct {
	normal map[string]string
	insert map[string]string
}

// Editor is the terminal shell around an edit session. The session owns
// the buffer, cursors and fold state; the editor owns presentation
// state: mode, scroll, styles and the keymap.
type Editor struct {
	sess     *session.Session
	manager  *session.Manager
	filename string
	dirty    bool
	mode     Mode
	scroll   int
	keymap   keymapSet
	pending  string

	tabWidth       int
	foldSymbol     string
	lineNumberMode LineNumberMode
	viewHeight     int
	statusMessage  string
	gitBranch      string
	changeTick     uint64

	styleMain             tcell.Style
	styleStatus           tcell.Style
	styleLineNumber       tcell.Style
	styleLineNumberActive tcell.Style
	styleSelection        tcell.Style
	styleFoldMarker       tcell.Style
	styleSecondaryCursor  tcell.Style
}

func New(cfg config.Config, sess *session.Session) *Editor {
	normal := make(map[string]string, len(cfg.Keymap.Normal))
	for k, v := range cfg.Keymap.Normal {
		normal[k] = v
	}
	insert := make(map[string]string, len(cfg.Keymap.Insert))
	for k, v := range cfg.Keymap.Insert {
		insert[k] = v
	}
	tabWidth := cfg.Editor.TabWidth
	if tabWidth < 1 {
		tabWidth = 1
	}
	mainFg := parseColor(cfg.Theme.Foreground, tcell.ColorWhite)
	mainBg := parseColor(cfg.Theme.Background, tcell.ColorBlack)
	statusFg := parseColor(cfg.Theme.StatuslineForeground, tcell.ColorBlack)
	statusBg := parseColor(cfg.Theme.StatuslineBackground, tcell.ColorGray)
	lineNumberFg := parseColor(cfg.Theme.LineNumberForeground, tcell.ColorGray)
	lineNumberActiveFg := parseColor(cfg.Theme.LineNumberActiveForeground, mainFg)
	selectionFg := parseColor(cfg.Theme.SelectionForeground, mainFg)
	selectionBg := parseColor(cfg.Theme.SelectionBackground, mainBg)
	foldFg := parseColor(cfg.Theme.FoldMarkerForeground, tcell.ColorYellow)
	foldBg := parseColor(cfg.Theme.FoldMarkerBackground, mainBg)
	secondaryFg := parseColor(cfg.Theme.SecondaryCursorForeground, mainBg)
	secondaryBg := parseColor(cfg.Theme.SecondaryCursorBackground, tcell.ColorYellow)
	return &Editor{
		sess:                  sess,
		mode:                  ModeNormal,
		keymap:                keymapSet{normal: normal, insert: insert},
		tabWidth:              tabWidth,
		foldSymbol:            cfg.Editor.FoldSymbol,
		lineNumberMode:        parseLineNumberMode(cfg.Editor.LineNumbers),
		styleMain:             tcell.StyleDefault.Foreground(mainFg).Background(mainBg),
		styleStatus:           tcell.StyleDefault.Foreground(statusFg).Background(statusBg),
		styleLineNumber:       tcell.StyleDefault.Foreground(lineNumberFg).Background(mainBg),
		styleLineNumberActive: tcell.StyleDefault.Foreground(lineNumberActiveFg).Background(mainBg),
		styleSelection:        tcell.StyleDefault.Foreground(selectionFg).Background(selectionBg),
		styleFoldMarker:       tcell.StyleDefault.Foreground(foldFg).Background(foldBg),
		styleSecondaryCursor:  tcell.StyleDefault.Foreground(secondaryFg).Background(secondaryBg),
	}
}

// SetSessionManager wires session persistence; nil disables it.
func (e *Editor) SetSessionManager(m *session.Manager) {
	e.manager = m
}

func (e *Editor) OpenFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	content := strings.ReplaceAll(string(data), "\r\n", "\n")
	e.sess.SetBuffer(path, content)
	e.filename = path
	e.mode = ModeNormal
	e.scroll = 0
	e.dirty = false
	e.pending = ""
	e.statusMessage = ""
	e.changeTick++
	e.restoreFileState(path)
	logger.Info("file opened", "path", path, "lines", len(e.sess.Lines()))
	return nil
}

func (e *Editor) restoreFileState(path string) {
	if e.manager == nil {
		return
	}
	state, ok := e.manager.GetFileState(path)
	if !ok {
		return
	}
	e.sess.SetPrimaryPosition(state.CursorLine, state.CursorCol)
	e.scroll = state.ScrollY
	if state.Mode == "insert" {
		e.mode = ModeInsert
	}
	st := e.sess.FoldState()
	for _, line := range state.CollapsedLines {
		st.Collapsed[line] = true
	}
}

func (e *Editor) saveFileState() {
	if e.manager == nil || e.filename == "" {
		return
	}
	pos := e.sess.Primary().Position
	st := e.sess.FoldState()
	collapsed := make([]int, 0, len(st.Collapsed))
	for line := range st.Collapsed {
		collapsed = append(collapsed, line)
	}
	mode := "normal"
	if e.mode == ModeInsert {
		mode = "insert"
	}
	e.manager.SetFileState(e.filename, session.FileState{
		CursorLine:     pos.Line,
		CursorCol:      pos.Column,
		ScrollY:        e.scroll,
		Mode:           mode,
		CollapsedLines: collapsed,
	})
}

func (e *Editor) Shutdown() {
	e.saveFileState()
	if e.manager != nil {
		e.manager.Stop()
	}
}

func (e *Editor) Save() error {
	if e.filename == "" {
		return nil
	}
	if err := os.WriteFile(e.filename, []byte(e.sess.Content()), 0o644); err != nil {
		return err
	}
	e.dirty = false
	e.setStatus("saved " + e.filename)
	logger.Info("file saved", "path", e.filename)
	return nil
}

func (e *Editor) Content() string { return e.sess.Content() }

func (e *Editor) ChangeTick() uint64 { return e.changeTick }

func (e *Editor) SetGitBranch(b string) { e.gitBranch = strings.TrimSpace(b) }

func (e *Editor) setStatus(msg string) { e.statusMessage = msg }

// HandleKey processes one key event. It returns true when the editor
// should quit.
func (e *Editor) HandleKey(ev *tcell.EventKey) bool {
	if e.statusMessage != "" {
		e.statusMessage = ""
	}
	switch e.mode {
	case ModeInsert:
		return e.handleInsert(ev)
	default:
		return e.handleNormal(ev)
	}
}

func (e *Editor) handleNormal(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if key == "" {
		return false
	}

	// Multi-key sequences ("za"): accumulate runes while the pending
	// string is a strict prefix of some binding.
	if ev.Key() == tcell.KeyRune && ev.Modifiers() == 0 {
		candidate := e.pending + key
		if action, ok := e.keymap.normal[candidate]; ok {
			e.pending = ""
			return e.execAction(action)
		}
		if e.hasPrefix(candidate) {
			e.pending = candidate
			return false
		}
		e.pending = ""
		if action, ok := e.keymap.normal[key]; ok {
			return e.execAction(action)
		}
		return false
	}

	e.pending = ""
	if action, ok := e.keymap.normal[key]; ok {
		return e.execAction(action)
	}
	return false
}

func (e *Editor) hasPrefix(s string) bool {
	for k := range e.keymap.normal {
		if len(k) > len(s) && strings.HasPrefix(k, s) {
			return true
		}
	}
	return false
}

func (e *Editor) handleInsert(ev *tcell.EventKey) bool {
	key := keyString(ev)
	if action, ok := e.keymap.insert[key]; ok {
		return e.execAction(action)
	}
	if ev.Key() == tcell.KeyRune {
		e.insertText(string(ev.Rune()))
	}
	return false
}

func (e *Editor) execAction(action string) bool {
	switch action {
	case "quit":
		e.Shutdown()
		return true
	case "save":
		if err := e.Save(); err != nil {
			e.setStatus(err.Error())
		}
	case "enter_insert":
		e.mode = ModeInsert
	case "enter_normal":
		e.mode = ModeNormal
	case "move_left":
		e.moveLeft()
	case "move_right":
		e.moveRight()
	case "move_up":
		e.moveVertical(-1)
	case "move_down":
		e.moveVertical(1)
	case "line_start":
		pos := e.sess.Primary().Position
		e.sess.SetPrimaryPosition(pos.Line, 0)
	case "line_end":
		pos := e.sess.Primary().Position
		lines := e.sess.Lines()
		if pos.Line < len(lines) {
			e.sess.SetPrimaryPosition(pos.Line, len([]rune(lines[pos.Line])))
		}
	case "toggle_fold":
		e.toggleFold()
	case "add_cursor_below":
		e.addCursor(1)
	case "add_cursor_above":
		e.addCursor(-1)
	case "clear_cursors":
		e.sess.ClearSecondaryCursors()
	case "toggle_line_numbers":
		e.cycleLineNumbers()
	case "delete_char":
		e.deleteChar()
	case "backspace":
		e.backspace()
	case "newline":
		e.insertText("\n")
	case "indent":
		e.insertText("\t")
	}
	return false
}

func (e *Editor) insertText(text string) {
	e.sess.Insert(text)
	e.dirty = true
	e.changeTick++
}

func (e *Editor) backspace() {
	e.sess.Backspace()
	e.dirty = true
	e.changeTick++
}

// deleteChar removes the character under the cursor by stepping over it
// and backspacing.
func (e *Editor) deleteChar() {
	pos := e.sess.Primary().Position
	lines := e.sess.Lines()
	if pos.Line >= len(lines) || pos.Column >= len([]rune(lines[pos.Line])) {
		return
	}
	e.sess.SetPrimaryPosition(pos.Line, pos.Column+1)
	e.backspace()
}

// moveVertical moves the primary cursor by delta virtual lines, so a
// collapsed region is crossed in one step.
func (e *Editor) moveVertical(delta int) {
	m := e.sess.Mapping()
	pos := e.sess.Primary().Position
	vline, ok := m.ActualToVirtual[pos.Line]
	if !ok {
		return
	}
	vline += delta
	if vline < 0 {
		vline = 0
	}
	if last := len(e.sess.VirtualLines()) - 1; vline > last {
		vline = last
	}
	aline, ok := m.VirtualToActual[vline]
	if !ok {
		return
	}
	e.sess.SetPrimaryPosition(aline, pos.Column)
}

func (e *Editor) moveLeft() {
	pos := e.sess.Primary().Position
	if pos.Column > 0 {
		e.sess.SetPrimaryPosition(pos.Line, pos.Column-1)
		return
	}
	// Wrap to the end of the previous virtual line.
	m := e.sess.Mapping()
	vline, ok := m.ActualToVirtual[pos.Line]
	if !ok || vline == 0 {
		return
	}
	aline := m.VirtualToActual[vline-1]
	lines := e.sess.Lines()
	e.sess.SetPrimaryPosition(aline, len([]rune(lines[aline])))
}

func (e *Editor) moveRight() {
	pos := e.sess.Primary().Position
	lines := e.sess.Lines()
	if pos.Line < len(lines) && pos.Column < len([]rune(lines[pos.Line])) {
		e.sess.SetPrimaryPosition(pos.Line, pos.Column+1)
		return
	}
	m := e.sess.Mapping()
	vline, ok := m.ActualToVirtual[pos.Line]
	if !ok || vline+1 >= len(e.sess.VirtualLines()) {
		return
	}
	e.sess.SetPrimaryPosition(m.VirtualToActual[vline+1], 0)
}

func (e *Editor) toggleFold() {
	pos := e.sess.Primary().Position
	if e.sess.ToggleFold(pos.Line) {
		e.setStatus("")
		return
	}
	// Not on a region start: try the enclosing region.
	for _, r := range e.sess.FoldState().Regions {
		if r.StartLine < pos.Line && pos.Line <= r.EndLine {
			if e.sess.ToggleFold(r.StartLine) {
				return
			}
		}
	}
	e.setStatus("no fold region here")
}

func (e *Editor) addCursor(delta int) {
	m := e.sess.Mapping()
	pos := e.sess.Primary().Position
	vline, ok := m.ActualToVirtual[pos.Line]
	if !ok {
		return
	}
	vline += delta
	if vline < 0 || vline >= len(e.sess.VirtualLines()) {
		return
	}
	aline, ok := m.VirtualToActual[vline]
	if !ok {
		return
	}
	e.sess.AddCursor(aline, pos.Column)
}

func (e *Editor) cycleLineNumbers() {
	switch e.lineNumberMode {
	case LineNumberOff:
		e.lineNumberMode = LineNumberAbsolute
	case LineNumberAbsolute:
		e.lineNumberMode = LineNumberRelative
	default:
		e.lineNumberMode = LineNumberOff
	}
}

// HandleMouse sets the primary cursor on click; alt-click adds a
// secondary cursor.
func (e *Editor) HandleMouse(ev *tcell.EventMouse) {
	if ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	vline := e.scroll + y
	m := e.sess.Mapping()
	aline, ok := m.VirtualToActual[vline]
	if !ok {
		return
	}
	col := logicalCol(e.virtualLine(vline), x-e.gutterWidth(), e.tabWidth)
	if ev.Modifiers()&tcell.ModAlt != 0 {
		e.sess.AddCursor(aline, col)
		return
	}
	e.sess.SetPrimaryPosition(aline, col)
}

func (e *Editor) virtualLine(vline int) []rune {
	lines := e.sess.VirtualLines()
	if vline < 0 || vline >= len(lines) {
		return nil
	}
	return []rune(lines[vline])
}

func parseLineNumberMode(s string) LineNumberMode {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "off", "none":
		return LineNumberOff
	case "relative", "rel":
		return LineNumberRelative
	default:
		return LineNumberAbsolute
	}
}
