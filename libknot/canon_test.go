package libknot_test

import (
	"testing"

	"github.com/strand-systems/knotsig/libknot"
)

const trefoil = "O1+ U2+ O3+ U1+ O2+ U3+"

// Every symmetry setting, fast rotation search against the direct search,
// over every diagram the enumerator can produce up to 4 crossings.
func TestFastMatchesDirectSearch(t *testing.T) {
	combos := [][2]bool{
		{false, false},
		{true, false},
		{false, true},
		{true, true},
	}

	checked := 0
	for L := range libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 4}).Outlet {
		for _, combo := range combos {
			direct, mDirect, err := L.CanonicalSeq(combo[0], combo[1])
			if err != nil {
				t.Fatal(err)
			}
			fast, mFast, err := L.FastCanonicalSeq(combo[0], combo[1])
			if err != nil {
				t.Fatal(err)
			}
			if direct.Compare(fast) != 0 || mDirect != mFast {
				t.Fatalf("fast/direct mismatch for %q reflect=%v reverse=%v:\n  direct: %v (m=%d)\n  fast:   %v (m=%d)",
					L.GaussCode(), combo[0], combo[1], direct, mDirect, fast, mFast)
			}
		}
		checked++
	}
	if checked < 100 {
		t.Fatalf("enumerator produced only %d diagrams", checked)
	}
}

func TestCanonicalInvariance(t *testing.T) {
	codes := []string{
		"O1+ U1+",
		trefoil,
		"O1+ U2- O3+ U1+ O2- U3+",
		"U1- O2+ U3- O4+ U2+ O1- U4+ O3-",
	}

	for _, code := range codes {
		L, err := libknot.NewLinkFromGauss(code)
		if err != nil {
			t.Fatal(err)
		}
		want, err := L.Sig(true, true)
		if err != nil {
			t.Fatal(err)
		}

		mirrored := L.Copy()
		mirrored.Mirror()
		reversed := L.Copy()
		reversed.ReverseOrient()
		flipped := L.Copy()
		flipped.RelabelStrands()

		for i, variant := range []*libknot.Link{mirrored, reversed, flipped} {
			got, err := variant.Sig(true, true)
			if err != nil {
				t.Fatal(err)
			}
			if got != want {
				t.Fatalf("variant %d of %q not canonical: got %q, want %q", i, code, got, want)
			}
		}
	}
}

// The strand relabeling is free even when reflection and reversal are off.
func TestFlipStrandAlwaysFree(t *testing.T) {
	L, err := libknot.NewLinkFromGauss(trefoil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := L.Sig(false, false)
	if err != nil {
		t.Fatal(err)
	}
	L.RelabelStrands()
	got, err := L.Sig(false, false)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("flip-strand changed signature: got %q, want %q", got, want)
	}
}

func TestMultipleComponentsRejected(t *testing.T) {
	// Hopf link: two components, two crossings
	hopf, err := libknot.NewLinkFromGauss("O1+ U2+ ; O2+ U1+")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err = hopf.CanonicalSeq(true, true); err == nil {
		t.Fatal("expected multi-component diagram to be rejected")
	}
	if _, _, err = hopf.FastCanonicalSeq(true, true); err == nil {
		t.Fatal("expected multi-component diagram to be rejected")
	}
}
