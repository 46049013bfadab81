package main

import (
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	if err := s.Init(); err != nil {
		t.Fatalf("init simulation screen: %v", err)
	}
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func rowText(s tcell.SimulationScreen, y, w int) string {
	var b strings.Builder
	for x := 0; x < w; x++ {
		r, _, _, _ := s.GetContent(x, y)
		b.WriteRune(r)
	}
	return strings.TrimRight(b.String(), " ")
}

func isReversed(s tcell.SimulationScreen, x, y int) bool {
	_, _, st, _ := s.GetContent(x, y)
	_, _, attr := st.Decompose()
	return attr&tcell.AttrReverse != 0
}

func TestTcellKeyMapping(t *testing.T) {
	tests := []struct {
		key  tcell.Key
		want keyCode
	}{
		{tcell.KeyTAB, keyTab},
		{tcell.KeyEnter, keyReturn},
		{tcell.KeyBackspace2, keyBackspace},
		{tcell.KeyUp, keyUp},
		{tcell.KeyDown, keyDown},
		{tcell.KeyEscape, keyEscape},
	}
	for _, tt := range tests {
		got, ok := tcellKeyToKeyCode(tcell.NewEventKey(tt.key, 0, tcell.ModNone))
		if !ok || got != tt.want {
			t.Fatalf("tcellKeyToKeyCode(%v) = %v %v, want %v", tt.key, got, ok, tt.want)
		}
	}
	if _, ok := tcellKeyToKeyCode(tcell.NewEventKey(tcell.KeyF5, 0, tcell.ModNone)); ok {
		t.Fatalf("F5 should not map to a key")
	}
	if got, ok := ctrlRuneToKey('Q'); !ok || got != keyQ {
		t.Fatalf("ctrlRuneToKey('Q') = %v %v, want keyQ true", got, ok)
	}
}

func TestHandleTUIKey_TypesAndAccepts(t *testing.T) {
	app := newTestApp(t, "")
	for _, r := range "<>ba" {
		handleTUIKey(app, tcell.NewEventKey(tcell.KeyRune, r, tcell.ModNone))
	}
	if !app.snap.Suggesting() {
		t.Fatalf("expected suggestions after typing through tcell events")
	}
	handleTUIKey(app, tcell.NewEventKey(tcell.KeyTAB, 0, tcell.ModNone))
	expectDoc(t, app, "<>banana")
	if handleTUIKey(app, tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModCtrl)) {
		t.Fatalf("Ctrl+Q should quit")
	}
}

func TestDrawTUI_PopupUnderCaret(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	app := newTestApp(t, "")
	typeString(app, "<>py")
	drawTUI(s, app)

	if got := rowText(s, 0, 40); got != "   1 <>py" {
		t.Fatalf("row 0: got %q", got)
	}
	x, y, visible := s.GetCursor()
	if !visible || x != gutterWidth+4 || y != 0 {
		t.Fatalf("cursor: want (%d,0) visible, got (%d,%d) %v", gutterWidth+4, x, y, visible)
	}
	for i, want := range []string{"Python", "PyPI", "pytest"} {
		row := rowText(s, 1+i, 40)
		if !strings.Contains(row, want) {
			t.Fatalf("popup row %d: want %q in %q", i, want, row)
		}
	}
	if !isReversed(s, app.popup.x, 1) || isReversed(s, app.popup.x, 2) {
		t.Fatalf("only the highlighted row should be reversed")
	}

	press(app, keyDown)
	drawTUI(s, app)
	if isReversed(s, app.popup.x, 1) || !isReversed(s, app.popup.x, 2) {
		t.Fatalf("highlight should follow navigation")
	}
	if status := rowText(s, 10, 40); !strings.Contains(status, "suggesting 2/3") {
		t.Fatalf("status line: got %q", status)
	}
}

func TestDrawTUI_PopupScrolls(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	app := newTestApp(t, "")
	app.cfg.MaxVisible = 2
	typeString(app, "<>p")
	press(app, keyDown)
	press(app, keyDown)
	drawTUI(s, app)
	if app.popup.rows != 2 || app.popup.top != 1 {
		t.Fatalf("popup window: want rows=2 top=1, got %+v", app.popup)
	}
	if row := rowText(s, 2, 40); !strings.Contains(row, "pytest") {
		t.Fatalf("last visible row should hold the highlight, got %q", row)
	}
}

func TestDrawTUI_PopupAboveCaretAtBottom(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	app := newTestApp(t, "a\nb\nc")
	press(app, keyDown)
	press(app, keyDown)
	press(app, keyDown)
	typeString(app, " <>ap")
	drawTUI(s, app)
	if app.popup.rows != 2 || app.popup.y != 0 {
		t.Fatalf("popup should open above the caret, got %+v", app.popup)
	}
}

func TestMouseClickPicksSuggestion(t *testing.T) {
	s := newSimScreen(t, 40, 12)
	app := newTestApp(t, "")
	typeString(app, "find <>ap")
	drawTUI(s, app)
	handleTUIMouse(app, tcell.NewEventMouse(app.popup.x+1, app.popup.y+1, tcell.Button1, tcell.ModNone))
	expectDoc(t, app, "find <>apricot")
	if app.snap.Suggesting() {
		t.Fatalf("click should close the list")
	}
	handleTUIMouse(app, tcell.NewEventMouse(0, 5, tcell.Button1, tcell.ModNone))
	expectDoc(t, app, "find <>apricot")
}

func TestDrawTUI_TabsAndWideRunes(t *testing.T) {
	s := newSimScreen(t, 40, 6)
	app := newTestApp(t, "\t漢x")
	app.doc.MoveToBlockEnd(false)
	drawTUI(s, app)
	r, _, _, _ := s.GetContent(gutterWidth+tabWidth, 0)
	if r != '漢' {
		t.Fatalf("tab should expand to %d cells, got %q at the tab stop", tabWidth, r)
	}
	x, _, _ := s.GetCursor()
	if want := gutterWidth + tabWidth + 3; x != want {
		t.Fatalf("cursor after wide rune: want %d, got %d", want, x)
	}
}

func TestVisualColForOffset(t *testing.T) {
	if got := visualColForOffset("a\tb", 2, 4); got != 4 {
		t.Fatalf("after tab: want 4, got %d", got)
	}
	if got := visualColForOffset("😀a", 2, 4); got != 2 {
		t.Fatalf("after emoji: want 2, got %d", got)
	}
}

func TestEnsureCaretVisible(t *testing.T) {
	app := &appState{}
	ensureCaretVisible(app, 30, 40, 10)
	if app.scrollLine != 21 {
		t.Fatalf("scroll down: want 21, got %d", app.scrollLine)
	}
	ensureCaretVisible(app, 3, 40, 10)
	if app.scrollLine != 3 {
		t.Fatalf("scroll up: want 3, got %d", app.scrollLine)
	}
}
