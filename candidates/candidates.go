package candidates

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/AdeelKamalMalik/template-autocomplete/config"
	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

// Builtin is the candidate list used when no configuration says otherwise.
var Builtin = []string{
	"apple", "banana", "cherry", "date", "orange", "grape", "kiwi", "melon", "pear", "plum", "watermelon",
	"ruby", "javascript", "python", "html", "css", "react", "nodejs", "vue", "angular", "typescript",
	"database", "server", "cloud", "api", "microservices", "authentication", "graphql", "express", "docker",
}

// ReadWords reads one candidate per line. Blank lines and lines starting
// with '#' are skipped.
func ReadWords(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		out = append(out, line)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func LoadWords(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open word file: %w", err)
	}
	defer f.Close()
	words, err := ReadWords(f)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return words, nil
}

// Assemble builds the candidate set in order: builtin, inline, word files,
// harvested identifiers. The first occurrence of a duplicate wins.
func Assemble(cfg config.Config) ([]string, error) {
	var all []string
	if cfg.UseBuiltin() {
		all = append(all, Builtin...)
	}
	all = append(all, cfg.Candidates...)
	for _, path := range cfg.CandidateFiles {
		words, err := LoadWords(path)
		if err != nil {
			return nil, err
		}
		all = append(all, words...)
	}
	for _, path := range cfg.Harvest {
		src, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read harvest source: %w", err)
		}
		idents, err := Harvest(path, string(src))
		if err != nil {
			return nil, err
		}
		logger.Debug("harvested %d identifiers from %s", len(idents), path)
		all = append(all, idents...)
	}
	out := Dedupe(all)
	logger.Info("candidate set: %d entries", len(out))
	return out, nil
}

// Dedupe drops repeated entries, keeping first-seen order.
func Dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
