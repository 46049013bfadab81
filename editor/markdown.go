package editor

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	sittermd "github.com/smacker/go-tree-sitter/markdown/tree-sitter-markdown"
)

// FromMarkdown loads a markdown source as a document. Headings and
// paragraphs become one block each (soft line breaks joined with a space);
// lists, quotes, code and everything else contribute one block per line.
// Setext underlines are dropped.
func FromMarkdown(src string) (*Document, error) {
	root, err := sitter.ParseCtx(context.Background(), []byte(src), sittermd.GetLanguage())
	if err != nil {
		return nil, fmt.Errorf("parse markdown: %w", err)
	}
	if root == nil {
		return New(""), nil
	}
	var texts []string
	collectBlocks(root, src, &texts)
	return FromBlocks(texts), nil
}

func collectBlocks(node *sitter.Node, src string, out *[]string) {
	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		switch child.Type() {
		case "section", "document":
			collectBlocks(child, src, out)
		case "atx_heading", "setext_heading", "paragraph":
			if text := joinSoftBreaks(nodeText(src, child)); text != "" {
				*out = append(*out, text)
			}
		default:
			for line := range strings.SplitSeq(nodeText(src, child), "\n") {
				line = strings.TrimRight(line, "\r")
				if strings.TrimSpace(line) == "" {
					continue
				}
				*out = append(*out, line)
			}
		}
	}
}

func joinSoftBreaks(text string) string {
	var parts []string
	for line := range strings.SplitSeq(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.Trim(line, "=-") == "" {
			continue
		}
		parts = append(parts, line)
	}
	return strings.Join(parts, " ")
}

func nodeText(src string, node *sitter.Node) string {
	a := int(node.StartByte())
	b := int(node.EndByte())
	a = max(a, 0)
	b = min(b, len(src))
	if a >= b {
		return ""
	}
	return src[a:b]
}
