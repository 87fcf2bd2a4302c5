package libknot_test

import (
	"testing"

	"github.com/strand-systems/knotsig/goknot"
	"github.com/strand-systems/knotsig/libknot"
)

func TestEnumKnotCounts(t *testing.T) {
	// pairings(n) * 2^n upper-pass choices * 2^n sign choices, plus the unknot
	count := libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 1}).PullAll()
	if count != 1+4 {
		t.Fatalf("got %d diagrams, want 5", count)
	}

	count = libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 2, MaxCrossings: 2}).PullAll()
	if count != 3*4*4 {
		t.Fatalf("got %d diagrams, want 48", count)
	}
}

func TestStreamAddToSigSet(t *testing.T) {
	set := libknot.NewSigSet()

	added := libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 1}).
		AddTo(set, libknot.AddSigOpts{UseReflection: true, UseReversal: true}).
		PullAll()

	// all four 1-crossing diagrams collapse to one signature under the full
	// symmetry group
	if added != 2 {
		t.Fatalf("got %d unique diagrams, want 2", added)
	}
	if n := set.NumSigs(0); n != 1 {
		t.Fatalf("NumSigs(0) = %d, want 1", n)
	}
	if n := set.NumSigs(1); n != 1 {
		t.Fatalf("NumSigs(1) = %d, want 1", n)
	}

	// without reflection, the two 1-crossing signs stay distinct
	noReflect := libknot.NewSigSet()
	libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 1, MaxCrossings: 1}).
		AddTo(noReflect, libknot.AddSigOpts{UseReversal: true}).
		PullAll()
	if n := noReflect.NumSigs(1); n != 2 {
		t.Fatalf("NumSigs(1) = %d, want 2", n)
	}
}

func TestSelectFromCatalog(t *testing.T) {
	set := libknot.NewSigSet()
	libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 2}).
		AddTo(set, libknot.AddSigOpts{UseReflection: true, UseReversal: true}).
		PullAll()

	pulled := 0
	for L := range libknot.SelectFromCatalog(set, goknot.SigSelector{MinCrossings: 1, MaxCrossings: 2}).Outlet {
		if L.NumCrossings() < 1 || L.NumCrossings() > 2 {
			t.Fatalf("selected diagram with %d crossings", L.NumCrossings())
		}
		if err := L.Validate(); err != nil {
			t.Fatal(err)
		}
		pulled++
	}
	if pulled != int(set.NumSigs(1)+set.NumSigs(2)) {
		t.Fatalf("pulled %d, want %d", pulled, set.NumSigs(1)+set.NumSigs(2))
	}
}

// A zero MaxCrossings imposes no upper bound on Select.
func TestSelectUnbounded(t *testing.T) {
	set := libknot.NewSigSet()
	libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 2}).
		AddTo(set, libknot.AddSigOpts{UseReflection: true, UseReversal: true}).
		PullAll()

	pulled := 0
	for L := range libknot.SelectFromCatalog(set, goknot.SigSelector{}).Outlet {
		if err := L.Validate(); err != nil {
			t.Fatal(err)
		}
		pulled++
	}
	want := int(set.NumSigs(0) + set.NumSigs(1) + set.NumSigs(2))
	if pulled != want {
		t.Fatalf("pulled %d, want %d", pulled, want)
	}
}

func TestStreamSelect(t *testing.T) {
	kept := libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 2}).
		SelectFromStream(libknot.LinkSelector{MinCrossings: 2, MaxCrossings: 2}).
		PullAll()
	if kept != 48 {
		t.Fatalf("got %d diagrams, want 48", kept)
	}
}
