package utils

import (
	"testing"
)

func TestSet(t *testing.T) {
	// Labels of "ij,jk->ik".
	lhs, rhs, output := SetWith('i', 'j'), SetWith('j', 'k'), SetWith('i', 'k')
	if len(MakeSet[rune](10)) != 0 {
		t.Errorf("MakeSet should create an empty set")
	}
	if !lhs.Has('i') || !lhs.Has('j') || lhs.Has('k') {
		t.Errorf("unexpected lhs labels %v", lhs)
	}

	all := lhs.Union(rhs)
	if !all.Equal(SetWith('i', 'j', 'k')) {
		t.Errorf("expected union {i, j, k}, got %v", all)
	}
	if all.Equal(output) || all.Equal(SetWith('i', 'j', 'l')) {
		t.Errorf("%v should only be equal to {i, j, k}", all)
	}
	if union := output.Union(MakeSet[rune]()); !union.Equal(output) {
		t.Errorf("union with the empty set should be {i, k}, got %v", union)
	}

	// Insert is idempotent.
	keep := MakeSet[rune]()
	keep.Insert('i', 'k', 'i')
	if len(keep) != 2 || !keep.Equal(output) {
		t.Errorf("expected {i, k}, got %v", keep)
	}
	delete(keep, 'k')
	if keep.Has('k') || len(keep) != 1 {
		t.Errorf("expected {i}, got %v", keep)
	}
}
