package autocomplete

import "fmt"

// BlockID identifies a block of the document. It stays stable while the
// block's text changes.
type BlockID string

// Position addresses a point inside a block. Offset counts UTF-16 code
// units from the start of the block text.
type Position struct {
	Block  BlockID
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%s:%d", p.Block, p.Offset)
}

// Selection is the surface's cursor. It is collapsed when anchor and
// focus coincide.
type Selection struct {
	Anchor Position
	Focus  Position
}

// Caret returns a collapsed selection at p.
func Caret(p Position) Selection {
	return Selection{Anchor: p, Focus: p}
}

func (s Selection) Collapsed() bool {
	return s.Anchor == s.Focus
}

// Range is a half-open [Start, End) span of UTF-16 offsets inside one block.
type Range struct {
	Block BlockID
	Start int
	End   int
}

func (r Range) Len() int {
	return r.End - r.Start
}

func (r Range) String() string {
	return fmt.Sprintf("%s[%d,%d)", r.Block, r.Start, r.End)
}
