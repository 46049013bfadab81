package autocomplete

import (
	"strings"
	"unicode/utf16"
)

// DefaultMarker opens an autocomplete query.
const DefaultMarker = "<>"

// TriggerMatch is an open query: the marker starts at Start in Block and
// Query is the trimmed text between the marker and the cursor.
type TriggerMatch struct {
	Block BlockID
	Start int
	Query string
}

// Detector finds the marker that precedes the cursor.
type Detector struct {
	Marker string
}

func (d Detector) marker() string {
	if d.Marker == "" {
		return DefaultMarker
	}
	return d.Marker
}

// MarkerLen is the marker length in UTF-16 code units.
func (d Detector) MarkerLen() int {
	return Len16(d.marker())
}

// Locate returns the offset of the last marker that starts at or before
// cursor and ends at or before it. A cursor that splits the marker counts
// as no marker.
func (d Detector) Locate(blockText string, cursor int) (int, bool) {
	hay := Units(blockText)
	needle := Units(d.marker())
	cursor = clamp(cursor, 0, len(hay))
	start, ok := scanBack(hay, needle, cursor)
	if !ok || start+len(needle) > cursor {
		return -1, false
	}
	return start, true
}

// Detect returns the open query at cursor, if any. A marker followed only
// by whitespace is not a match.
func (d Detector) Detect(blockText string, cursor int) (TriggerMatch, bool) {
	start, ok := d.Locate(blockText, cursor)
	if !ok {
		return TriggerMatch{}, false
	}
	hay := Units(blockText)
	cursor = clamp(cursor, 0, len(hay))
	query := strings.TrimSpace(string(utf16.Decode(hay[start+d.MarkerLen() : cursor])))
	if query == "" {
		return TriggerMatch{}, false
	}
	return TriggerMatch{Start: start, Query: query}, true
}

// Detect runs the default detector.
func Detect(blockText string, cursor int) (TriggerMatch, bool) {
	return Detector{}.Detect(blockText, cursor)
}

// scanBack finds the last needle starting at or before start.
func scanBack(hay, needle []uint16, start int) (int, bool) {
	if start < 0 || len(needle) == 0 || len(needle) > len(hay) {
		return -1, false
	}
	lastStart := min(start, len(hay)-len(needle))
	for i := lastStart; i >= 0; i-- {
		if matchAt(hay, needle, i) {
			return i, true
		}
	}
	return -1, false
}

func matchAt(hay, needle []uint16, i int) bool {
	for j := 0; j < len(needle); j++ {
		if hay[i+j] != needle[j] {
			return false
		}
	}
	return true
}
