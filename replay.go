package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

// runReplay drives the app from a script instead of a terminal. One command
// per line:
//
//	type <text>     type text at the caret (trailing spaces kept)
//	key <name>      enter, tab, up, down, left, right, backspace, delete, home, end
//	pick <word>     accept word from the open suggestion list
//	print           write the document
//	state           write the controller state
//
// Blank lines and lines starting with '#' are ignored.
func runReplay(app *appState, r io.Reader, w io.Writer) error {
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		raw := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(raw) == "" || strings.HasPrefix(strings.TrimSpace(raw), "#") {
			continue
		}
		cmd, arg, _ := strings.Cut(strings.TrimLeft(raw, " \t"), " ")
		logger.Debug("replay %d: %s %q", line, cmd, arg)
		switch cmd {
		case "type":
			for _, ch := range arg {
				handleTextEvent(app, string(ch))
			}
		case "key":
			k, ok := keyByName(strings.TrimSpace(arg))
			if !ok || k == keyEscape || k == keyA || k == keyQ {
				return fmt.Errorf("replay line %d: unknown key %q", line, arg)
			}
			handleKeyEvent(app, keyEvent{key: k})
		case "pick":
			word := strings.TrimSpace(arg)
			if !pickSuggestion(app, word) {
				fmt.Fprintf(w, "pick %q: not suggesting\n", word)
			}
		case "print":
			fmt.Fprintln(w, app.doc.String())
		case "state":
			fmt.Fprintln(w, describeState(app))
		default:
			return fmt.Errorf("replay line %d: unknown command %q", line, cmd)
		}
	}
	if err := sc.Err(); err != nil {
		return fmt.Errorf("read replay script: %w", err)
	}
	return nil
}

// describeState renders the controller state on one line, for example
// "suggesting [apple apricot] highlighted=0 caret=0:9".
func describeState(app *appState) string {
	snap := app.ac.Snapshot()
	var b strings.Builder
	b.WriteString(snap.State.String())
	if snap.Suggesting() {
		fmt.Fprintf(&b, " %v highlighted=%d", snap.Suggestions, snap.Highlighted)
	}
	caret := app.doc.Caret()
	fmt.Fprintf(&b, " caret=%d:%d", app.doc.BlockIndex(caret.Block), caret.Offset)
	if span, ok := app.ac.Span(); ok {
		fmt.Fprintf(&b, " span=[%d,%d)%q", span.Start, span.End, span.Text)
	}
	return b.String()
}
