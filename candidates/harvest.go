package candidates

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	sitterc "github.com/smacker/go-tree-sitter/c"
	sittergo "github.com/smacker/go-tree-sitter/golang"
	sitterhs "github.com/tree-sitter/tree-sitter-haskell/bindings/go"
)

type sourceKind int

const (
	sourceNone sourceKind = iota
	sourceGo
	sourceC
	sourceHaskell
)

const minIdentLen = 2

// identNodes lists, per grammar, the leaf node types that name things.
var identNodes = map[sourceKind]map[string]struct{}{
	sourceGo: {
		"identifier":         {},
		"type_identifier":    {},
		"field_identifier":   {},
		"package_identifier": {},
	},
	sourceC: {
		"identifier":       {},
		"type_identifier":  {},
		"field_identifier": {},
	},
	sourceHaskell: {
		"variable":    {},
		"constructor": {},
		"name":        {},
	},
}

var goPseudoKeywords = map[string]struct{}{
	"nil":   {},
	"true":  {},
	"false": {},
	"iota":  {},
}

func detectSource(path string) sourceKind {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".go":
		return sourceGo
	case ".c", ".h":
		return sourceC
	case ".hs", ".m":
		return sourceHaskell
	}
	return sourceNone
}

func languageFor(kind sourceKind) *sitter.Language {
	switch kind {
	case sourceGo:
		return sittergo.GetLanguage()
	case sourceC:
		return sitterc.GetLanguage()
	case sourceHaskell:
		return sitter.NewLanguage(sitterhs.Language())
	}
	return nil
}

// Harvest returns the identifiers declared or used in src, in first-seen
// order. The grammar is chosen from the path extension.
func Harvest(path, src string) ([]string, error) {
	kind := detectSource(path)
	if kind == sourceNone {
		return nil, fmt.Errorf("harvest %s: no grammar for %q", path, filepath.Ext(path))
	}
	root, err := sitter.ParseCtx(context.Background(), []byte(src), languageFor(kind))
	if err != nil {
		return nil, fmt.Errorf("harvest %s: %w", path, err)
	}
	if root == nil {
		return nil, nil
	}
	types := identNodes[kind]
	seen := map[string]struct{}{}
	var out []string
	walkTreeLeaves(root, func(n *sitter.Node) {
		if _, ok := types[n.Type()]; !ok {
			return
		}
		text := nodeText(src, n)
		if len(text) < minIdentLen || strings.Trim(text, "_") == "" {
			return
		}
		if kind == sourceGo {
			if _, ok := goPseudoKeywords[text]; ok {
				return
			}
		}
		if _, ok := seen[text]; ok {
			return
		}
		seen[text] = struct{}{}
		out = append(out, text)
	})
	return out, nil
}

func walkTreeLeaves(node *sitter.Node, visit func(*sitter.Node)) {
	if node == nil {
		return
	}
	if node.ChildCount() == 0 {
		visit(node)
		return
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		walkTreeLeaves(node.Child(i), visit)
	}
}

func nodeText(src string, node *sitter.Node) string {
	if node == nil {
		return ""
	}
	a := max(int(node.StartByte()), 0)
	b := min(int(node.EndByte()), len(src))
	if a >= b {
		return ""
	}
	return src[a:b]
}
