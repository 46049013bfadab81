package autocomplete

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

var fixtureCandidates = []string{"apple", "apricot", "banana", "Python", "PyPI", "pytest"}

func TestFilter_CaseInsensitivePrefix(t *testing.T) {
	for _, q := range []string{"PY", "py", "pY"} {
		got := Filter(fixtureCandidates, q)
		if diff := cmp.Diff([]string{"Python", "PyPI", "pytest"}, got); diff != "" {
			t.Fatalf("Filter(%q) mismatch (-want +got):\n%s", q, diff)
		}
	}
}

func TestFilter_KeepsOrderAndIsFresh(t *testing.T) {
	in := []string{"b2", "a1", "b1"}
	got := Filter(in, "b")
	if diff := cmp.Diff([]string{"b2", "b1"}, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
	got[0] = "zz"
	if in[0] != "b2" {
		t.Fatalf("Filter result aliases the input")
	}
	if got := Filter(in, "q"); got == nil || len(got) != 0 {
		t.Fatalf("no match should be an empty, non-nil list, got %#v", got)
	}
}

func TestIndex_MatchesFilter(t *testing.T) {
	ix := NewIndex(fixtureCandidates)
	for _, q := range []string{"a", "AP", "py", "x", ""} {
		if diff := cmp.Diff(Filter(fixtureCandidates, q), ix.Filter(q)); diff != "" {
			t.Fatalf("Index.Filter(%q) differs from Filter (-want +got):\n%s", q, diff)
		}
	}
	if ix.Len() != len(fixtureCandidates) {
		t.Fatalf("Len: want %d, got %d", len(fixtureCandidates), ix.Len())
	}
	c := ix.Candidates()
	c[0] = "changed"
	if ix.Candidates()[0] != "apple" {
		t.Fatalf("Candidates must return a copy")
	}
}

func TestIndex_Nil(t *testing.T) {
	var ix *Index
	if ix.Len() != 0 || len(ix.Filter("a")) != 0 || ix.Candidates() != nil {
		t.Fatalf("nil index should behave as empty")
	}
}
