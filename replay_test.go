package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func replayLines(t *testing.T, app *appState, script string) []string {
	t.Helper()
	var out bytes.Buffer
	if err := runReplay(app, strings.NewReader(script), &out); err != nil {
		t.Fatalf("runReplay: %v", err)
	}
	return strings.Split(strings.TrimRight(out.String(), "\n"), "\n")
}

func TestReplay_AcceptAndAtomicDelete(t *testing.T) {
	app := newTestApp(t, "")
	got := replayLines(t, app, `
# open a query and take the first entry
type find <>ap
state
key enter
print
state
key backspace
print
key backspace
print
`)
	want := []string{
		"suggesting [apple apricot] highlighted=0 caret=0:9",
		"find <>apple",
		`idle caret=0:12 span=[7,12)"apple"`,
		"find <>",
		"find <",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("replay output mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_TypeKeepsTrailingSpace(t *testing.T) {
	app := newTestApp(t, "")
	got := replayLines(t, app, "type <>PY \nstate\nkey down\nkey down\nkey down\nstate\npick pytest\nprint\n")
	want := []string{
		"suggesting [Python PyPI pytest] highlighted=0 caret=0:5",
		"suggesting [Python PyPI pytest] highlighted=2 caret=0:5",
		"<>pytest",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("replay output mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_PickWhileIdle(t *testing.T) {
	app := newTestApp(t, "")
	got := replayLines(t, app, "type hello\npick apple\nprint\n")
	want := []string{`pick "apple": not suggesting`, "hello"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("replay output mismatch (-want +got):\n%s", diff)
	}
}

func TestReplay_Errors(t *testing.T) {
	tests := []struct {
		name   string
		script string
		want   string
	}{
		{name: "unknown command", script: "jump 3\n", want: `line 1: unknown command "jump"`},
		{name: "unknown key", script: "\nkey f13\n", want: `line 2: unknown key "f13"`},
		{name: "quit key refused", script: "key escape\n", want: `unknown key "escape"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := runReplay(newTestApp(t, ""), strings.NewReader(tt.script), &bytes.Buffer{})
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("error: want %q, got %v", tt.want, err)
			}
		})
	}
}

func TestRun_ReplayWithConfig(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(body), 0644); err != nil {
			t.Fatalf("seed %s: %v", name, err)
		}
		return path
	}
	write("words.txt", "gopher\ngoroutine\n")
	cfg := write("tac.toml", "trigger = \"::\"\nbuiltin = false\ncandidate_files = [\"words.txt\"]\n")
	script := write("script.txt", "type go ::gor\nkey tab\nprint\n")

	var stdout, stderr bytes.Buffer
	if err := run([]string{"-config", cfg, "-replay", script}, strings.NewReader(""), &stdout, &stderr); err != nil {
		t.Fatalf("run: %v (stderr %q)", err, stderr.String())
	}
	if got := stdout.String(); got != "go ::goroutine\n" {
		t.Fatalf("stdout: want %q, got %q", "go ::goroutine\n", got)
	}
}

func TestRun_StdinReplayAndTriggerFlag(t *testing.T) {
	var stdout bytes.Buffer
	err := run([]string{"-trigger", "@@"}, strings.NewReader("type @@ban\nkey enter\nprint\n"), &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := stdout.String(); got != "@@banana\n" {
		t.Fatalf("stdout: got %q", got)
	}
}

func TestRun_MarkdownDocument(t *testing.T) {
	dir := t.TempDir()
	doc := filepath.Join(dir, "notes.md")
	if err := os.WriteFile(doc, []byte("# Notes\n\nuse <>dock\n"), 0644); err != nil {
		t.Fatalf("seed doc: %v", err)
	}
	var stdout bytes.Buffer
	err := run([]string{doc}, strings.NewReader("key down\nkey end\nkey tab\nprint\n"), &stdout, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if got := stdout.String(); got != "# Notes\nuse <>docker\n" {
		t.Fatalf("stdout: got %q", got)
	}
}

func TestRun_Schema(t *testing.T) {
	var stdout bytes.Buffer
	if err := run([]string{"-schema"}, strings.NewReader(""), &stdout, &bytes.Buffer{}); err != nil {
		t.Fatalf("run -schema: %v", err)
	}
	if !strings.Contains(stdout.String(), `"verify_span"`) {
		t.Fatalf("schema output missing verify_span: %s", stdout.String())
	}
}

func TestRun_BadTrigger(t *testing.T) {
	err := run([]string{"-trigger", "a b"}, strings.NewReader(""), &bytes.Buffer{}, &bytes.Buffer{})
	if err == nil {
		t.Fatalf("whitespace trigger should be rejected")
	}
}

func TestRun_LogFile(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "tac.log")
	err := run([]string{"-log", logPath}, strings.NewReader("type <>ap\n"), &bytes.Buffer{}, &bytes.Buffer{})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "state idle -> suggesting") {
		t.Fatalf("log should record the state change, got:\n%s", data)
	}
}
