package main

import (
	"fmt"
	"time"

	ac "github.com/AdeelKamalMalik/template-autocomplete/autocomplete"
	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

type modMask uint16

const (
	modShift modMask = 1 << iota
	modCtrl
	modAlt
)

type keyCode int

const (
	keyUnknown keyCode = iota
	keyUp
	keyDown
	keyLeft
	keyRight
	keyHome
	keyEnd
	keyEscape
	keyTab
	keyBackspace
	keyDelete
	keyReturn
	keyA
	keyQ
)

type keyEvent struct {
	key  keyCode
	mods modMask
}

// handleKeyEvent applies one key to the document. The controller sees the
// key first; the document default runs only when the controller passes.
// It returns false when the app should quit.
func handleKeyEvent(app *appState, e keyEvent) bool {
	app.lastEvent = fmt.Sprintf("key=%s mods=%s", keyName(e.key), modsString(e.mods))
	logger.Debug("%s", app.lastEvent)

	if e.key == keyEscape {
		now := app.now()
		if !app.lastEscAt.IsZero() && now.Sub(app.lastEscAt) < escQuitWindow {
			return false
		}
		app.lastEscAt = now
		app.lastEvent = "Esc again to quit"
		return true
	}
	app.lastEscAt = time.Time{}

	shift := (e.mods & modShift) != 0
	if (e.mods & modCtrl) != 0 {
		switch e.key {
		case keyQ:
			return false
		case keyA:
			app.doc.SelectBlock()
			app.ac.OnChange()
			return true
		}
	}

	doc := app.doc
	switch e.key {
	case keyBackspace:
		if app.ac.HandleDeleteBackward() == ac.Handled {
			app.lastEvent = "Removed completion"
			return true
		}
		doc.DeleteBackward()
	case keyDelete:
		doc.DeleteForward()
	case keyReturn, keyTab, keyUp, keyDown:
		if app.ac.HandleKey(controllerKey(e.key)) == ac.Handled {
			return true
		}
		switch e.key {
		case keyReturn:
			doc.SplitBlock()
		case keyTab:
			doc.InsertText("\t")
		case keyUp:
			doc.MoveBlock(-1, shift)
		case keyDown:
			doc.MoveBlock(1, shift)
		}
	case keyLeft:
		doc.MoveCaret(-1, shift)
	case keyRight:
		doc.MoveCaret(1, shift)
	case keyHome:
		doc.MoveToBlockStart(shift)
	case keyEnd:
		doc.MoveToBlockEnd(shift)
	default:
		return true
	}
	app.ac.OnChange()
	return true
}

// handleTextEvent types text at the caret.
func handleTextEvent(app *appState, text string) bool {
	if text == "" {
		return true
	}
	app.lastEscAt = time.Time{}
	app.doc.InsertText(text)
	app.ac.OnChange()
	return true
}

// pickSuggestion accepts s as if it had been chosen from the list.
func pickSuggestion(app *appState, s string) bool {
	if !app.ac.Accept(s) {
		return false
	}
	app.lastEvent = fmt.Sprintf("Completed %q", s)
	return true
}

func controllerKey(k keyCode) ac.Key {
	switch k {
	case keyReturn:
		return ac.KeyEnter
	case keyTab:
		return ac.KeyTab
	case keyUp:
		return ac.KeyUp
	case keyDown:
		return ac.KeyDown
	}
	return ac.KeyOther
}

var keyNames = map[keyCode]string{
	keyUp:        "up",
	keyDown:      "down",
	keyLeft:      "left",
	keyRight:     "right",
	keyHome:      "home",
	keyEnd:       "end",
	keyEscape:    "escape",
	keyTab:       "tab",
	keyBackspace: "backspace",
	keyDelete:    "delete",
	keyReturn:    "enter",
	keyA:         "a",
	keyQ:         "q",
}

func keyName(k keyCode) string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "unknown"
}

// keyByName is the inverse of keyName, used by replay scripts.
func keyByName(name string) (keyCode, bool) {
	for k, n := range keyNames {
		if n == name {
			return k, true
		}
	}
	return keyUnknown, false
}
