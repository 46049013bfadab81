package editor

// Block-structured document used as the reference editing surface. This
// package is UI-agnostic to keep editing behaviour testable.

import (
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"unicode/utf16"

	"github.com/google/uuid"

	ac "github.com/AdeelKamalMalik/template-autocomplete/autocomplete"
)

var (
	ErrUnknownBlock = errors.New("unknown block")
	ErrRange        = errors.New("range out of bounds")
)

type block struct {
	id  ac.BlockID
	buf gapBuffer
}

// Document is an ordered list of text blocks plus a selection. It
// implements autocomplete.Surface.
type Document struct {
	blocks []*block
	sel    ac.Selection
}

var fallbackID atomic.Int64

func newBlockID() ac.BlockID {
	id, err := uuid.NewV7()
	if err != nil {
		return ac.BlockID(fmt.Sprintf("blk_fallback_%d", fallbackID.Add(1)))
	}
	return ac.BlockID(id.String())
}

// New splits text into one block per line.
func New(text string) *Document {
	return FromBlocks(strings.Split(text, "\n"))
}

// FromBlocks builds a document with one block per entry and the caret at
// the start of the first block.
func FromBlocks(texts []string) *Document {
	if len(texts) == 0 {
		texts = []string{""}
	}
	d := &Document{blocks: make([]*block, 0, len(texts))}
	for _, t := range texts {
		d.blocks = append(d.blocks, &block{id: newBlockID(), buf: newGapBufferString(t)})
	}
	d.sel = ac.Caret(ac.Position{Block: d.blocks[0].id})
	return d
}

// ======================
// Surface
// ======================

func (d *Document) Text(id ac.BlockID) (string, error) {
	b := d.find(id)
	if b == nil {
		return "", fmt.Errorf("text %s: %w", id, ErrUnknownBlock)
	}
	return b.buf.String(), nil
}

func (d *Document) Selection() ac.Selection {
	return d.sel
}

// SetSelection clamps both ends into their blocks. A selection naming an
// unknown block is ignored.
func (d *Document) SetSelection(s ac.Selection) {
	a, okA := d.clampPos(s.Anchor)
	f, okF := d.clampPos(s.Focus)
	if !okA || !okF {
		return
	}
	d.sel = ac.Selection{Anchor: a, Focus: f}
}

func (d *Document) ReplaceRange(r ac.Range, text string) error {
	b, err := d.checkRange(r)
	if err != nil {
		return fmt.Errorf("replace %v: %w", r, err)
	}
	b.buf.Delete(r.Start, r.End)
	b.buf.Insert(r.Start, utf16.Encode([]rune(text)))
	return nil
}

func (d *Document) RemoveRange(r ac.Range) error {
	b, err := d.checkRange(r)
	if err != nil {
		return fmt.Errorf("remove %v: %w", r, err)
	}
	b.buf.Delete(r.Start, r.End)
	return nil
}

// ======================
// Inspection
// ======================

func (d *Document) Blocks() []ac.BlockID {
	out := make([]ac.BlockID, len(d.blocks))
	for i, b := range d.blocks {
		out[i] = b.id
	}
	return out
}

// BlockIndex returns the position of id in the document, or -1.
func (d *Document) BlockIndex(id ac.BlockID) int {
	for i, b := range d.blocks {
		if b.id == id {
			return i
		}
	}
	return -1
}

// Caret returns the focus end of the selection.
func (d *Document) Caret() ac.Position {
	return d.sel.Focus
}

// String joins the blocks with newlines.
func (d *Document) String() string {
	parts := make([]string, len(d.blocks))
	for i, b := range d.blocks {
		parts[i] = b.buf.String()
	}
	return strings.Join(parts, "\n")
}

// ======================
// Editing + selection
// ======================

// InsertText types text at the caret, replacing a non-collapsed selection.
// Newlines split the block.
func (d *Document) InsertText(text string) {
	if !d.sel.Collapsed() {
		d.deleteSelection()
	}
	for i, line := range strings.Split(text, "\n") {
		if i > 0 {
			d.SplitBlock()
		}
		if line == "" {
			continue
		}
		b, off := d.caretBlock()
		units := utf16.Encode([]rune(line))
		b.buf.Insert(off, units)
		d.sel = ac.Caret(ac.Position{Block: b.id, Offset: off + len(units)})
	}
}

// DeleteBackward is the default backspace: one character, the selection,
// or a merge with the previous block at offset 0.
func (d *Document) DeleteBackward() {
	if !d.sel.Collapsed() {
		d.deleteSelection()
		return
	}
	b, off := d.caretBlock()
	if off > 0 {
		start := d.stepBack(b, off)
		b.buf.Delete(start, off)
		d.sel = ac.Caret(ac.Position{Block: b.id, Offset: start})
		return
	}
	i := d.BlockIndex(b.id)
	if i <= 0 {
		return
	}
	d.mergeWithPrevious(i)
}

// DeleteForward is the default delete key.
func (d *Document) DeleteForward() {
	if !d.sel.Collapsed() {
		d.deleteSelection()
		return
	}
	b, off := d.caretBlock()
	if off < b.buf.Len() {
		b.buf.Delete(off, d.stepFwd(b, off))
		return
	}
	i := d.BlockIndex(b.id)
	if i < 0 || i+1 >= len(d.blocks) {
		return
	}
	d.mergeWithPrevious(i + 1)
}

// SplitBlock breaks the caret block in two; the caret moves to the start
// of the new block.
func (d *Document) SplitBlock() {
	if !d.sel.Collapsed() {
		d.deleteSelection()
	}
	b, off := d.caretBlock()
	tail := b.buf.Slice(off, b.buf.Len())
	b.buf.Delete(off, b.buf.Len())
	nb := &block{id: newBlockID(), buf: newGapBuffer(tail)}
	i := d.BlockIndex(b.id)
	d.blocks = append(d.blocks[:i+1], append([]*block{nb}, d.blocks[i+1:]...)...)
	d.sel = ac.Caret(ac.Position{Block: nb.id})
}

// MoveCaret moves the focus by delta characters, crossing block
// boundaries. Without extend the selection collapses at the new focus.
func (d *Document) MoveCaret(delta int, extend bool) {
	pos := d.sel.Focus
	for ; delta > 0; delta-- {
		pos = d.posFwd(pos)
	}
	for ; delta < 0; delta++ {
		pos = d.posBack(pos)
	}
	d.moveFocus(pos, extend)
}

// MoveBlock moves the focus delta blocks up or down keeping the offset
// where the target block is long enough.
func (d *Document) MoveBlock(delta int, extend bool) {
	i := d.BlockIndex(d.sel.Focus.Block)
	j := clamp(i+delta, 0, len(d.blocks)-1)
	if i < 0 || j == i {
		return
	}
	nb := d.blocks[j]
	d.moveFocus(ac.Position{Block: nb.id, Offset: min(d.sel.Focus.Offset, nb.buf.Len())}, extend)
}

func (d *Document) MoveToBlockStart(extend bool) {
	d.moveFocus(ac.Position{Block: d.sel.Focus.Block}, extend)
}

func (d *Document) MoveToBlockEnd(extend bool) {
	b, _ := d.caretBlock()
	d.moveFocus(ac.Position{Block: b.id, Offset: b.buf.Len()}, extend)
}

// SelectBlock selects the whole caret block.
func (d *Document) SelectBlock() {
	b, _ := d.caretBlock()
	d.sel = ac.Selection{
		Anchor: ac.Position{Block: b.id},
		Focus:  ac.Position{Block: b.id, Offset: b.buf.Len()},
	}
}

func (d *Document) moveFocus(pos ac.Position, extend bool) {
	if extend {
		d.sel.Focus = pos
		return
	}
	d.sel = ac.Caret(pos)
}

func (d *Document) posFwd(p ac.Position) ac.Position {
	i := d.BlockIndex(p.Block)
	if i < 0 {
		return p
	}
	b := d.blocks[i]
	if p.Offset < b.buf.Len() {
		return ac.Position{Block: b.id, Offset: d.stepFwd(b, p.Offset)}
	}
	if i+1 < len(d.blocks) {
		return ac.Position{Block: d.blocks[i+1].id}
	}
	return p
}

func (d *Document) posBack(p ac.Position) ac.Position {
	i := d.BlockIndex(p.Block)
	if i < 0 {
		return p
	}
	b := d.blocks[i]
	if p.Offset > 0 {
		return ac.Position{Block: b.id, Offset: d.stepBack(b, p.Offset)}
	}
	if i > 0 {
		prev := d.blocks[i-1]
		return ac.Position{Block: prev.id, Offset: prev.buf.Len()}
	}
	return p
}

// stepBack returns the offset one character before off, keeping
// surrogate pairs together.
func (d *Document) stepBack(b *block, off int) int {
	if off >= 2 {
		lo, _ := b.buf.At(off - 1)
		hi, _ := b.buf.At(off - 2)
		if isHighSurrogate(hi) && isLowSurrogate(lo) {
			return off - 2
		}
	}
	return off - 1
}

func (d *Document) stepFwd(b *block, off int) int {
	if off+1 < b.buf.Len() {
		hi, _ := b.buf.At(off)
		lo, _ := b.buf.At(off + 1)
		if isHighSurrogate(hi) && isLowSurrogate(lo) {
			return off + 2
		}
	}
	return off + 1
}

func isHighSurrogate(u uint16) bool {
	return u >= 0xd800 && u < 0xdc00
}

func isLowSurrogate(u uint16) bool {
	return u >= 0xdc00 && u < 0xe000
}

func (d *Document) mergeWithPrevious(i int) {
	prev, cur := d.blocks[i-1], d.blocks[i]
	join := prev.buf.Len()
	prev.buf.Insert(join, cur.buf.Units())
	d.blocks = append(d.blocks[:i], d.blocks[i+1:]...)
	d.sel = ac.Caret(ac.Position{Block: prev.id, Offset: join})
}

// deleteSelection removes the selected text, which may span blocks.
func (d *Document) deleteSelection() {
	a, b := d.normalised()
	ia, ib := d.BlockIndex(a.Block), d.BlockIndex(b.Block)
	if ia < 0 || ib < 0 {
		d.sel = ac.Caret(d.sel.Focus)
		return
	}
	first, last := d.blocks[ia], d.blocks[ib]
	if ia == ib {
		first.buf.Delete(a.Offset, b.Offset)
	} else {
		tail := last.buf.Slice(b.Offset, last.buf.Len())
		first.buf.Delete(a.Offset, first.buf.Len())
		first.buf.Insert(a.Offset, tail)
		d.blocks = append(d.blocks[:ia+1], d.blocks[ib+1:]...)
	}
	d.sel = ac.Caret(a)
}

// normalised orders the selection ends by document position.
func (d *Document) normalised() (ac.Position, ac.Position) {
	a, f := d.sel.Anchor, d.sel.Focus
	ia, ifc := d.BlockIndex(a.Block), d.BlockIndex(f.Block)
	if ia < ifc || (ia == ifc && a.Offset <= f.Offset) {
		return a, f
	}
	return f, a
}

func (d *Document) caretBlock() (*block, int) {
	b := d.find(d.sel.Focus.Block)
	if b == nil {
		b = d.blocks[0]
		d.sel = ac.Caret(ac.Position{Block: b.id})
	}
	return b, clamp(d.sel.Focus.Offset, 0, b.buf.Len())
}

func (d *Document) find(id ac.BlockID) *block {
	for _, b := range d.blocks {
		if b.id == id {
			return b
		}
	}
	return nil
}

func (d *Document) clampPos(p ac.Position) (ac.Position, bool) {
	b := d.find(p.Block)
	if b == nil {
		return p, false
	}
	return ac.Position{Block: b.id, Offset: clamp(p.Offset, 0, b.buf.Len())}, true
}

func (d *Document) checkRange(r ac.Range) (*block, error) {
	b := d.find(r.Block)
	if b == nil {
		return nil, ErrUnknownBlock
	}
	if r.Start < 0 || r.End < r.Start || r.End > b.buf.Len() {
		return nil, ErrRange
	}
	return b, nil
}

// ======================
// Util
// ======================

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
