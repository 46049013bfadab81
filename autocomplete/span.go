package autocomplete

// Span is text the controller inserted on accept. End is fixed at
// creation; later edits are not tracked, they invalidate the span.
type Span struct {
	Block BlockID
	Start int
	End   int
	Text  string
}

func (s Span) Range() Range {
	return Range{Block: s.Block, Start: s.Start, End: s.End}
}

// SpanTracker holds at most one live span.
type SpanTracker struct {
	span Span
	live bool
}

// Track records the span for text inserted at start, replacing any
// previous span.
func (t *SpanTracker) Track(block BlockID, start int, text string) Span {
	t.span = Span{Block: block, Start: start, End: start + Len16(text), Text: text}
	t.live = true
	return t.span
}

func (t *SpanTracker) Current() (Span, bool) {
	return t.span, t.live
}

func (t *SpanTracker) Clear() {
	t.span = Span{}
	t.live = false
}

// Observe applies the invalidation rule for a new selection and reports
// whether the span was dropped. Moving before the end, selecting a range,
// or leaving the block all turn the completion into ordinary text.
func (t *SpanTracker) Observe(sel Selection) bool {
	if !t.live {
		return false
	}
	if !sel.Collapsed() || sel.Focus.Block != t.span.Block || sel.Focus.Offset < t.span.End {
		t.Clear()
		return true
	}
	return false
}

// AtEnd reports whether sel is a caret sitting exactly at the span end.
func (t *SpanTracker) AtEnd(sel Selection) bool {
	return t.live && sel.Collapsed() && sel.Focus.Block == t.span.Block && sel.Focus.Offset == t.span.End
}
