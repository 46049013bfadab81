package autocomplete

import (
	"github.com/AdeelKamalMalik/template-autocomplete/logger"
)

// Surface is the text editing surface the controller works against. The
// controller never caches what it reads beyond one event.
type Surface interface {
	Text(id BlockID) (string, error)
	Selection() Selection
	ReplaceRange(r Range, text string) error
	RemoveRange(r Range) error
	SetSelection(s Selection)
}

type State int

const (
	Idle State = iota
	Suggesting
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Suggesting:
		return "suggesting"
	}
	return "unknown"
}

type Direction int

const (
	Up Direction = iota
	Down
)

// Key is a surface key already decoded from hardware events.
type Key int

const (
	KeyOther Key = iota
	KeyEnter
	KeyTab
	KeyUp
	KeyDown
)

// Result tells the surface whether to suppress its default action.
type Result bool

const (
	NotHandled Result = false
	Handled    Result = true
)

// Snapshot is what a consumer needs to draw the suggestion list.
type Snapshot struct {
	State       State
	Suggestions []string
	Highlighted int
}

func (s Snapshot) Suggesting() bool {
	return s.State == Suggesting
}

// Observer is notified after every event that changed the snapshot.
type Observer interface {
	SnapshotChanged(Snapshot)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) SnapshotChanged(s Snapshot) { f(s) }

type Option func(*Controller)

// WithMarker sets the trigger marker (default "<>").
func WithMarker(marker string) Option {
	return func(c *Controller) {
		c.detector.Marker = marker
	}
}

// WithSpanVerification makes the atomic delete check that the buffer
// still holds the inserted text at the tracked range.
func WithSpanVerification(on bool) Option {
	return func(c *Controller) {
		c.verifySpan = on
	}
}

// Controller is the autocomplete state machine for one surface. It is
// driven synchronously by the surface and is not safe for concurrent use.
type Controller struct {
	surface    Surface
	index      *Index
	detector   Detector
	verifySpan bool

	state       State
	suggestions []string
	highlighted int
	spans       SpanTracker

	observers []Observer
}

func NewController(surface Surface, candidates []string, opts ...Option) *Controller {
	c := &Controller{
		surface:     surface,
		index:       NewIndex(candidates),
		suggestions: []string{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Controller) Subscribe(o Observer) {
	if o != nil {
		c.observers = append(c.observers, o)
	}
}

func (c *Controller) Snapshot() Snapshot {
	return Snapshot{
		State:       c.state,
		Suggestions: append([]string{}, c.suggestions...),
		Highlighted: c.highlighted,
	}
}

func (c *Controller) State() State {
	return c.state
}

func (c *Controller) Suggesting() bool {
	return c.state == Suggesting
}

// Span returns the live autocompleted span, if any.
func (c *Controller) Span() (Span, bool) {
	return c.spans.Current()
}

// Marker returns the trigger marker in use.
func (c *Controller) Marker() string {
	return c.detector.marker()
}

// OnChange must be called by the surface after every content or selection
// mutation it performs itself.
func (c *Controller) OnChange() {
	before := c.Snapshot()
	sel := c.surface.Selection()
	if c.spans.Observe(sel) {
		logger.Debug("span invalidated by selection %v", sel.Focus)
	}
	c.detect(sel)
	c.notify(before)
}

// Navigate moves the highlight, clamped to the list.
func (c *Controller) Navigate(dir Direction) {
	if c.state != Suggesting || len(c.suggestions) == 0 {
		return
	}
	before := c.Snapshot()
	switch dir {
	case Up:
		if c.highlighted > 0 {
			c.highlighted--
		}
	case Down:
		if c.highlighted < len(c.suggestions)-1 {
			c.highlighted++
		}
	}
	c.notify(before)
}

// Accept inserts suggestion, or the highlighted entry when none is given.
// It reports whether text was inserted.
func (c *Controller) Accept(suggestion ...string) bool {
	if c.state != Suggesting {
		return false
	}
	before := c.Snapshot()
	var pick string
	if len(suggestion) > 0 {
		pick = suggestion[0]
	} else {
		if len(c.suggestions) == 0 {
			return false
		}
		c.highlighted = clamp(c.highlighted, 0, len(c.suggestions)-1)
		pick = c.suggestions[c.highlighted]
	}
	ok := c.insert(pick)
	c.reset()
	c.notify(before)
	return ok
}

// HandleKey is called before the surface applies its default key action.
func (c *Controller) HandleKey(k Key) Result {
	if c.state != Suggesting {
		return NotHandled
	}
	switch k {
	case KeyEnter, KeyTab:
		c.Accept()
		return Handled
	case KeyUp:
		c.Navigate(Up)
		return Handled
	case KeyDown:
		c.Navigate(Down)
		return Handled
	}
	return NotHandled
}

// HandleDeleteBackward removes the whole autocompleted span when the caret
// sits right after it. Otherwise the surface performs its default delete.
func (c *Controller) HandleDeleteBackward() Result {
	sel := c.surface.Selection()
	if !c.spans.AtEnd(sel) {
		return NotHandled
	}
	span, _ := c.spans.Current()
	if c.verifySpan {
		text, err := c.surface.Text(span.Block)
		if err != nil || Slice16(text, span.Start, span.End) != span.Text {
			logger.Debug("span %v no longer holds %q; default delete", span.Range(), span.Text)
			c.spans.Clear()
			return NotHandled
		}
	}

	before := c.Snapshot()
	if err := c.surface.RemoveRange(span.Range()); err != nil {
		logger.Error("remove span %v: %v", span.Range(), err)
		c.spans.Clear()
		c.reset()
		c.notify(before)
		return NotHandled
	}
	c.surface.SetSelection(Caret(Position{Block: span.Block, Offset: span.Start}))
	c.spans.Clear()
	logger.Debug("removed span %v %q", span.Range(), span.Text)
	c.detect(c.surface.Selection())
	c.notify(before)
	return Handled
}

func (c *Controller) detect(sel Selection) {
	if !sel.Collapsed() {
		c.reset()
		return
	}
	text, err := c.surface.Text(sel.Focus.Block)
	if err != nil {
		logger.Error("read block %s: %v", sel.Focus.Block, err)
		c.reset()
		return
	}
	m, ok := c.detector.Detect(text, sel.Focus.Offset)
	if !ok {
		c.reset()
		return
	}
	list := c.index.Filter(m.Query)
	if len(list) == 0 {
		c.reset()
		return
	}
	c.state = Suggesting
	c.suggestions = list
	c.highlighted = 0
}

// insert replaces the query after the marker with s. The marker offset is
// looked up again because the buffer may have changed since detection.
func (c *Controller) insert(s string) bool {
	sel := c.surface.Selection()
	if !sel.Collapsed() {
		return false
	}
	block, cursor := sel.Focus.Block, sel.Focus.Offset
	text, err := c.surface.Text(block)
	if err != nil {
		logger.Error("read block %s: %v", block, err)
		return false
	}
	start, ok := c.detector.Locate(text, cursor)
	if !ok {
		logger.Debug("marker gone at accept time in %s", block)
		return false
	}
	from := start + c.detector.MarkerLen()
	if err := c.surface.ReplaceRange(Range{Block: block, Start: from, End: cursor}, s); err != nil {
		logger.Error("replace %s[%d,%d): %v", block, from, cursor, err)
		return false
	}
	span := c.spans.Track(block, from, s)
	c.surface.SetSelection(Caret(Position{Block: block, Offset: span.End}))
	logger.Debug("accepted %q at %v", s, span.Range())
	return true
}

func (c *Controller) reset() {
	c.state = Idle
	c.suggestions = []string{}
	c.highlighted = 0
}

func (c *Controller) notify(before Snapshot) {
	if before.State != c.state {
		logger.Debug("state %s -> %s", before.State, c.state)
	}
	if len(c.observers) == 0 || sameSnapshot(before, c) {
		return
	}
	snap := c.Snapshot()
	for _, o := range c.observers {
		o.SnapshotChanged(snap)
	}
}

func sameSnapshot(s Snapshot, c *Controller) bool {
	if s.State != c.state || s.Highlighted != c.highlighted || len(s.Suggestions) != len(c.suggestions) {
		return false
	}
	for i := range s.Suggestions {
		if s.Suggestions[i] != c.suggestions[i] {
			return false
		}
	}
	return true
}
