package main

import (
	"fmt"
	"unicode"
	"unicode/utf16"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

func runTUI(app *appState) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return err
	}
	if err := screen.Init(); err != nil {
		return err
	}
	defer screen.Fini()
	screen.EnableMouse()

	for {
		drawTUI(screen, app)
		switch e := screen.PollEvent().(type) {
		case *tcell.EventResize:
			screen.Sync()
		case *tcell.EventKey:
			if !handleTUIKey(app, e) {
				logger.Info("quit")
				return nil
			}
		case *tcell.EventMouse:
			handleTUIMouse(app, e)
		case nil:
			return nil
		}
	}
}

func handleTUIKey(app *appState, ev *tcell.EventKey) bool {
	if app == nil || ev == nil {
		return true
	}
	mods := tcellToMods(ev.Modifiers())
	if ev.Key() == tcell.KeyRune && (ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt)) == 0 {
		return handleTextEvent(app, string(ev.Rune()))
	}
	if ev.Key() == tcell.KeyRune && (ev.Modifiers()&tcell.ModCtrl) != 0 {
		if k, ok := ctrlRuneToKey(ev.Rune()); ok {
			return handleKeyEvent(app, keyEvent{key: k, mods: mods | modCtrl})
		}
		return true
	}
	if k, ok := tcellKeyToKeyCode(ev); ok {
		if ev.Key() == tcell.KeyCtrlA || ev.Key() == tcell.KeyCtrlQ {
			mods |= modCtrl
		}
		return handleKeyEvent(app, keyEvent{key: k, mods: mods})
	}
	return true
}

// handleTUIMouse accepts the suggestion under a left click.
func handleTUIMouse(app *appState, ev *tcell.EventMouse) {
	if app == nil || ev == nil || ev.Buttons()&tcell.Button1 == 0 {
		return
	}
	x, y := ev.Position()
	if s, ok := popupHit(app, x, y); ok {
		pickSuggestion(app, s)
	}
}

func popupHit(app *appState, x, y int) (string, bool) {
	p := app.popup
	if !app.snap.Suggesting() || p.rows == 0 {
		return "", false
	}
	if x < p.x || x >= p.x+p.w || y < p.y || y >= p.y+p.rows {
		return "", false
	}
	i := p.top + (y - p.y)
	if i < 0 || i >= len(app.snap.Suggestions) {
		return "", false
	}
	return app.snap.Suggestions[i], true
}

func tcellToMods(m tcell.ModMask) modMask {
	var out modMask
	if (m & tcell.ModShift) != 0 {
		out |= modShift
	}
	if (m & tcell.ModCtrl) != 0 {
		out |= modCtrl
	}
	if (m & tcell.ModAlt) != 0 {
		out |= modAlt
	}
	return out
}

func tcellKeyToKeyCode(ev *tcell.EventKey) (keyCode, bool) {
	switch ev.Key() {
	case tcell.KeyUp:
		return keyUp, true
	case tcell.KeyDown:
		return keyDown, true
	case tcell.KeyLeft:
		return keyLeft, true
	case tcell.KeyRight:
		return keyRight, true
	case tcell.KeyHome:
		return keyHome, true
	case tcell.KeyEnd:
		return keyEnd, true
	case tcell.KeyEscape:
		return keyEscape, true
	case tcell.KeyTAB:
		return keyTab, true
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		return keyBackspace, true
	case tcell.KeyDelete:
		return keyDelete, true
	case tcell.KeyEnter:
		return keyReturn, true
	case tcell.KeyCtrlA:
		return keyA, true
	case tcell.KeyCtrlQ:
		return keyQ, true
	}
	return keyUnknown, false
}

func ctrlRuneToKey(r rune) (keyCode, bool) {
	switch unicode.ToLower(r) {
	case 'a':
		return keyA, true
	case 'q':
		return keyQ, true
	}
	return keyUnknown, false
}

// ======================
// Drawing
// ======================

var (
	styleBase      = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite)
	styleGutter    = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorDarkCyan)
	styleSelected  = styleBase.Reverse(true)
	styleSpan      = styleBase.Foreground(tcell.ColorLightSkyBlue).Underline(true)
	styleStatus    = tcell.StyleDefault.Background(tcell.ColorDarkSlateBlue).Foreground(tcell.ColorWhite)
	styleHint      = tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorGray)
	stylePopup     = tcell.StyleDefault.Background(tcell.ColorDarkSlateGray).Foreground(tcell.ColorWhite)
	stylePopupMark = stylePopup.Reverse(true)
)

func drawTUI(s tcell.Screen, app *appState) {
	s.Clear()
	w, h := s.Size()
	if app == nil || app.doc == nil || w < 10 || h < 4 {
		s.Show()
		return
	}

	ids := app.doc.Blocks()
	caret := app.doc.Caret()
	caretLine := max(app.doc.BlockIndex(caret.Block), 0)
	contentH := h - 2
	ensureCaretVisible(app, caretLine, len(ids), contentH)

	selFrom, selTo := orderedSelection(app)
	span, spanLive := app.ac.Span()

	caretX, caretY := -1, -1
	for row := 0; row < contentH; row++ {
		ln := app.scrollLine + row
		fillRow(s, row, w, styleBase)
		if ln >= len(ids) {
			continue
		}
		text, err := app.doc.Text(ids[ln])
		if err != nil {
			continue
		}
		drawCellText(s, 0, row, fmt.Sprintf("%4d ", ln+1), styleGutter)
		styleAt := func(off int) tcell.Style {
			if inSelection(ln, off, selFrom, selTo) {
				return styleSelected
			}
			if spanLive && span.Block == ids[ln] && off >= span.Start && off < span.End {
				return styleSpan
			}
			return styleBase
		}
		drawBlockLine(s, gutterWidth, row, w, text, styleAt)
		if ln == caretLine {
			caretX = gutterWidth + visualColForOffset(text, caret.Offset, tabWidth)
			caretY = row
		}
	}

	drawCellText(s, 0, h-2, padRight(statusLine(app), w), styleStatus)
	drawCellText(s, 0, h-1, padRight(hintLine(app), w), styleHint)

	app.popup = popupBox{}
	if app.snap.Suggesting() && caretY >= 0 {
		drawPopup(s, app, caretX, caretY, w, contentH)
	}

	if caretX >= 0 && caretX < w {
		s.ShowCursor(caretX, caretY)
	} else {
		s.HideCursor()
	}
	s.Show()
}

// drawPopup draws the suggestion list under the caret row, or above it
// when there is no room below.
func drawPopup(s tcell.Screen, app *appState, caretX, caretY, w, contentH int) {
	list := app.snap.Suggestions
	rows := min(len(list), app.maxVisible())
	if rows == 0 {
		return
	}
	boxW := 0
	for _, item := range list {
		boxW = max(boxW, runewidth.StringWidth(item))
	}
	boxW = min(boxW+2, w)
	x := clamp(caretX, 0, max(0, w-boxW))
	y := caretY + 1
	if y+rows > contentH {
		y = max(0, caretY-rows)
		rows = min(rows, caretY-y)
		if rows <= 0 {
			return
		}
	}
	ensurePopupVisible(app, app.snap.Highlighted, len(list), rows)
	for i := range rows {
		idx := app.popupTop + i
		if idx >= len(list) {
			break
		}
		st := stylePopup
		if idx == app.snap.Highlighted {
			st = stylePopupMark
		}
		text := " " + runewidth.Truncate(list[idx], boxW-2, "…")
		drawCellText(s, x, y+i, padRight(text, boxW), st)
	}
	app.popup = popupBox{x: x, y: y, w: boxW, top: app.popupTop, rows: rows}
}

func statusLine(app *appState) string {
	status := fmt.Sprintf("block %d/%d | %s", max(app.doc.BlockIndex(app.doc.Caret().Block), 0)+1, len(app.doc.Blocks()), app.snap.State)
	if app.snap.Suggesting() {
		status += fmt.Sprintf(" %d/%d", app.snap.Highlighted+1, len(app.snap.Suggestions))
	}
	if span, ok := app.ac.Span(); ok {
		status += fmt.Sprintf(" | span [%d,%d) %q", span.Start, span.End, span.Text)
	}
	if app.lastEvent != "" {
		status += " | " + app.lastEvent
	}
	return status
}

func hintLine(app *appState) string {
	if app.snap.Suggesting() {
		return "Up/Down choose | Enter/Tab accept | click to pick"
	}
	return fmt.Sprintf("type %s to complete | Backspace after a completion removes it | Ctrl+Q or Esc Esc quits", app.ac.Marker())
}

// orderedSelection returns the selection ends as (block index, offset)
// pairs in document order, or two equal points when collapsed.
func orderedSelection(app *appState) ([2]int, [2]int) {
	sel := app.doc.Selection()
	a := [2]int{app.doc.BlockIndex(sel.Anchor.Block), sel.Anchor.Offset}
	f := [2]int{app.doc.BlockIndex(sel.Focus.Block), sel.Focus.Offset}
	if f[0] < a[0] || (f[0] == a[0] && f[1] < a[1]) {
		return f, a
	}
	return a, f
}

func inSelection(line, off int, from, to [2]int) bool {
	if from == to {
		return false
	}
	p := [2]int{line, off}
	afterFrom := p[0] > from[0] || (p[0] == from[0] && p[1] >= from[1])
	beforeTo := p[0] < to[0] || (p[0] == to[0] && p[1] < to[1])
	return afterFrom && beforeTo
}

// drawBlockLine draws text expanding tabs. styleAt receives the UTF-16
// offset of each rune.
func drawBlockLine(s tcell.Screen, x, y, maxX int, text string, styleAt func(int) tcell.Style) {
	visual := 0
	off := 0
	for _, r := range text {
		st := styleAt(off)
		off += utf16.RuneLen(r)
		if r == '\t' {
			next := ((visual / tabWidth) + 1) * tabWidth
			for ; visual < next; visual++ {
				if x+visual < maxX {
					s.SetContent(x+visual, y, ' ', nil, st)
				}
			}
			continue
		}
		rw := runewidth.RuneWidth(r)
		if rw <= 0 {
			continue
		}
		if x+visual+rw > maxX {
			return
		}
		s.SetContent(x+visual, y, r, nil, st)
		visual += rw
	}
}

// visualColForOffset converts a UTF-16 offset into a screen column.
func visualColForOffset(text string, offset, width int) int {
	vis := 0
	off := 0
	for _, r := range text {
		if off >= offset {
			break
		}
		off += utf16.RuneLen(r)
		if r == '\t' {
			vis = ((vis / width) + 1) * width
			continue
		}
		vis += max(runewidth.RuneWidth(r), 0)
	}
	return vis
}

func drawCellText(s tcell.Screen, x, y int, text string, st tcell.Style) {
	for _, r := range text {
		w := runewidth.RuneWidth(r)
		if w <= 0 {
			continue
		}
		s.SetContent(x, y, r, nil, st)
		x += w
	}
}

func fillRow(s tcell.Screen, y, w int, st tcell.Style) {
	for x := range w {
		s.SetContent(x, y, ' ', nil, st)
	}
}

func padRight(s string, w int) string {
	if runewidth.StringWidth(s) >= w {
		return runewidth.Truncate(s, w, "")
	}
	return runewidth.FillRight(s, w)
}
