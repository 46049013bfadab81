package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mattn/go-isatty"

	ac "github.com/AdeelKamalMalik/template-autocomplete/autocomplete"
	"github.com/AdeelKamalMalik/template-autocomplete/candidates"
	"github.com/AdeelKamalMalik/template-autocomplete/config"
	"github.com/AdeelKamalMalik/template-autocomplete/editor"
	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

const tabWidth = 4
const gutterWidth = 5

// escQuitWindow is how close two Esc presses must be to quit.
const escQuitWindow = 400 * time.Millisecond

// popupBox is where the suggestion list was last drawn, for mouse hits.
type popupBox struct {
	x, y, w int
	top     int
	rows    int
}

type appState struct {
	doc        *editor.Document
	ac         *ac.Controller
	cfg        config.Config
	snap       ac.Snapshot
	lastEvent  string
	lastEscAt  time.Time
	scrollLine int
	popupTop   int
	popup      popupBox
	now        func() time.Time
}

func newApp(doc *editor.Document, words []string, cfg config.Config) *appState {
	app := &appState{
		doc: doc,
		cfg: cfg,
		now: time.Now,
	}
	app.ac = ac.NewController(doc, words,
		ac.WithMarker(cfg.Trigger),
		ac.WithSpanVerification(cfg.VerifySpan),
	)
	app.snap = app.ac.Snapshot()
	app.ac.Subscribe(ac.ObserverFunc(app.snapshotChanged))
	return app
}

func (app *appState) snapshotChanged(s ac.Snapshot) {
	app.snap = s
	if !s.Suggesting() {
		app.popupTop = 0
		return
	}
	ensurePopupVisible(app, s.Highlighted, len(s.Suggestions), app.maxVisible())
}

func (app *appState) maxVisible() int {
	if app.cfg.MaxVisible < 1 {
		return 1
	}
	return app.cfg.MaxVisible
}

func ensurePopupVisible(app *appState, highlighted, total, visible int) {
	maxTop := max(0, total-visible)
	if highlighted < app.popupTop {
		app.popupTop = highlighted
	} else if highlighted >= app.popupTop+visible {
		app.popupTop = highlighted - visible + 1
	}
	app.popupTop = clamp(app.popupTop, 0, maxTop)
}

func ensureCaretVisible(app *appState, caretLine, totalLines, visibleLines int) {
	if app == nil {
		return
	}
	caretLine = max(caretLine, 0)
	totalLines = max(totalLines, 0)
	visibleLines = max(visibleLines, 1)
	maxStart := max(0, totalLines-visibleLines)
	if caretLine < app.scrollLine {
		app.scrollLine = caretLine
	} else if caretLine >= app.scrollLine+visibleLines {
		app.scrollLine = caretLine - visibleLines + 1
	}
	app.scrollLine = clamp(app.scrollLine, 0, maxStart)
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "tac: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("tac", flag.ContinueOnError)
	fs.SetOutput(stderr)
	cfgPath := fs.String("config", "", "TOML or YAML config file")
	trigger := fs.String("trigger", "", "trigger marker (overrides config)")
	verify := fs.Bool("verify-span", false, "verify a completion is intact before removing it")
	logPath := fs.String("log", "", "write a debug log to this file")
	schema := fs.Bool("schema", false, "print the config JSON schema and exit")
	replay := fs.String("replay", "", "run a headless script instead of the terminal UI")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: tac [flags] [file]\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if *schema {
		data, err := config.Schema()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, string(data))
		return err
	}

	cfg := config.Default()
	if *cfgPath != "" {
		loaded, err := config.Load(*cfgPath)
		if err != nil {
			return err
		}
		cfg = loaded
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "trigger":
			cfg.Trigger = *trigger
		case "verify-span":
			cfg.VerifySpan = *verify
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}

	if *logPath != "" {
		if err := logger.Init(*logPath, true); err != nil {
			return err
		}
		defer logger.Close()
	}

	words, err := candidates.Assemble(cfg)
	if err != nil {
		return err
	}
	doc, err := loadDocument(fs.Arg(0))
	if err != nil {
		return err
	}
	app := newApp(doc, words, cfg)
	logger.Info("start: %d blocks, %d candidates, trigger %q", len(doc.Blocks()), len(words), cfg.Trigger)

	if *replay != "" {
		f, err := os.Open(*replay)
		if err != nil {
			return fmt.Errorf("open replay script: %w", err)
		}
		defer f.Close()
		return runReplay(app, f, stdout)
	}
	if !isTerminal(stdin) {
		return runReplay(app, stdin, stdout)
	}
	return runTUI(app)
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// loadDocument opens path as the initial document. Markdown files are split
// into blocks by their structure; anything else is one block per line.
func loadDocument(path string) (*editor.Document, error) {
	if path == "" {
		return editor.New(""), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open document: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".md", ".markdown":
		return editor.FromMarkdown(string(data))
	}
	return editor.New(strings.TrimSuffix(string(data), "\n")), nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func modsString(m modMask) string {
	var parts []string
	if (m & modShift) != 0 {
		parts = append(parts, "SHIFT")
	}
	if (m & modCtrl) != 0 {
		parts = append(parts, "CTRL")
	}
	if (m & modAlt) != 0 {
		parts = append(parts, "ALT")
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}
