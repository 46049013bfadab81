package editor

import "unicode/utf16"

// gapBuffer stores one block as UTF-16 code units so offsets match the
// autocomplete surface contract directly.
type gapBuffer struct {
	data     []uint16
	gapStart int
	gapEnd   int
}

const minGap = 64

func newGapBuffer(units []uint16) gapBuffer {
	gap := minGap
	data := make([]uint16, len(units)+gap)
	copy(data, units)
	return gapBuffer{data: data, gapStart: len(units), gapEnd: len(units) + gap}
}

func newGapBufferString(s string) gapBuffer {
	return newGapBuffer(utf16.Encode([]rune(s)))
}

func (g *gapBuffer) Len() int {
	return len(g.data) - (g.gapEnd - g.gapStart)
}

func (g *gapBuffer) ensureGap(n int) {
	if n <= g.gapEnd-g.gapStart {
		return
	}
	extra := n + minGap
	oldGap := g.gapEnd - g.gapStart
	newData := make([]uint16, len(g.data)+extra)
	copy(newData, g.data[:g.gapStart])
	tailLen := len(g.data) - g.gapEnd
	newGapEnd := g.gapStart + oldGap + extra
	copy(newData[newGapEnd:newGapEnd+tailLen], g.data[g.gapEnd:])
	g.data = newData
	g.gapEnd = newGapEnd
}

func (g *gapBuffer) moveGap(pos int) {
	pos = clamp(pos, 0, g.Len())
	if pos == g.gapStart {
		return
	}
	if pos < g.gapStart {
		delta := g.gapStart - pos
		copy(g.data[g.gapEnd-delta:g.gapEnd], g.data[pos:g.gapStart])
		g.gapStart -= delta
		g.gapEnd -= delta
		return
	}
	delta := pos - g.gapStart
	copy(g.data[g.gapStart:g.gapStart+delta], g.data[g.gapEnd:g.gapEnd+delta])
	g.gapStart += delta
	g.gapEnd += delta
}

func (g *gapBuffer) Insert(pos int, units []uint16) {
	if len(units) == 0 {
		return
	}
	g.moveGap(pos)
	g.ensureGap(len(units))
	copy(g.data[g.gapStart:g.gapStart+len(units)], units)
	g.gapStart += len(units)
}

func (g *gapBuffer) Delete(start, end int) {
	start = max(start, 0)
	end = min(end, g.Len())
	if end <= start {
		return
	}
	g.moveGap(start)
	g.gapEnd += end - start
}

func (g *gapBuffer) At(i int) (uint16, bool) {
	if i < 0 || i >= g.Len() {
		return 0, false
	}
	if i < g.gapStart {
		return g.data[i], true
	}
	return g.data[i+(g.gapEnd-g.gapStart)], true
}

func (g *gapBuffer) Slice(a, b int) []uint16 {
	a = max(a, 0)
	b = min(b, g.Len())
	if b <= a {
		return nil
	}
	out := make([]uint16, b-a)
	for i := range out {
		out[i], _ = g.At(a + i)
	}
	return out
}

func (g *gapBuffer) Units() []uint16 {
	out := make([]uint16, g.Len())
	copy(out, g.data[:g.gapStart])
	copy(out[g.gapStart:], g.data[g.gapEnd:])
	return out
}

func (g *gapBuffer) String() string {
	return string(utf16.Decode(g.Units()))
}
