package autocomplete

import "strings"

// Filter returns the candidates whose lowercase form starts with the
// lowercase query, in candidate order. The result is always a fresh slice.
func Filter(candidates []string, query string) []string {
	q := strings.ToLower(query)
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		if strings.HasPrefix(strings.ToLower(c), q) {
			out = append(out, c)
		}
	}
	return out
}

// Index is an immutable candidate set with its lowercase keys precomputed.
type Index struct {
	items []string
	keys  []string
}

func NewIndex(candidates []string) *Index {
	ix := &Index{
		items: append([]string(nil), candidates...),
		keys:  make([]string, len(candidates)),
	}
	for i, c := range ix.items {
		ix.keys[i] = strings.ToLower(c)
	}
	return ix
}

// Filter behaves like the package-level Filter over the indexed set.
func (ix *Index) Filter(query string) []string {
	if ix == nil {
		return []string{}
	}
	q := strings.ToLower(query)
	out := make([]string, 0, len(ix.items))
	for i, k := range ix.keys {
		if strings.HasPrefix(k, q) {
			out = append(out, ix.items[i])
		}
	}
	return out
}

func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.items)
}

// Candidates returns a copy of the indexed set.
func (ix *Index) Candidates() []string {
	if ix == nil {
		return nil
	}
	return append([]string(nil), ix.items...)
}
