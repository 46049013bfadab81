package autocomplete

import "unicode/utf16"

// Offsets are UTF-16 code units so that positions agree with surfaces
// that index text that way. These helpers convert at the boundary.

// Units returns the UTF-16 encoding of s.
func Units(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// Len16 returns the length of s in UTF-16 code units.
func Len16(s string) int {
	n := 0
	for _, r := range s {
		n += utf16.RuneLen(r)
	}
	return n
}

// Slice16 returns the text of s between UTF-16 offsets a and b, clamped.
func Slice16(s string, a, b int) string {
	u := Units(s)
	a = clamp(a, 0, len(u))
	b = clamp(b, a, len(u))
	return string(utf16.Decode(u[a:b]))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
