package libknot_test

import (
	"errors"
	"testing"

	"github.com/strand-systems/knotsig/goknot"
	"github.com/strand-systems/knotsig/libknot"
)

func TestGaussRoundTrip(t *testing.T) {
	codes := []string{
		"",
		"O1+ U1+",
		trefoil,
		"O1+ U2+ ; O2+ U1+",
		"U1- O2+ U3- O4+ U2+ O1- U4+ O3-",
	}

	for _, code := range codes {
		L, err := libknot.NewLinkFromGauss(code)
		if err != nil {
			t.Fatalf("%q: %v", code, err)
		}
		emitted := L.GaussCode()
		reparsed, err := libknot.NewLinkFromGauss(emitted)
		if err != nil {
			t.Fatalf("emitted %q does not reparse: %v", emitted, err)
		}
		if reparsed.NumCrossings() != L.NumCrossings() {
			t.Fatalf("%q: crossing count changed across round trip", code)
		}
		if reparsed.NumComponents() != L.NumComponents() {
			t.Fatalf("%q: component count changed across round trip", code)
		}
	}
}

func TestGaussRoundTripPreservesSig(t *testing.T) {
	L, err := libknot.NewLinkFromGauss(trefoil)
	if err != nil {
		t.Fatal(err)
	}
	want, err := L.Sig(true, true)
	if err != nil {
		t.Fatal(err)
	}

	reparsed, err := libknot.NewLinkFromGauss(L.GaussCode())
	if err != nil {
		t.Fatal(err)
	}
	got, err := reparsed.Sig(true, true)
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Fatalf("sig changed across gauss round trip: got %q, want %q", got, want)
	}
}

func TestBadGaussCodes(t *testing.T) {
	bad := []string{
		"O1+",             // missing the under pass
		"O1+ O1- U2+ U2-", // crossing 1 passes O twice
		"Z1+ U1+",         // unrecognized pass
		"O0+ U0+",         // labels are 1-based
		"O1+ U1",          // missing sign
	}
	for _, code := range bad {
		if _, err := libknot.NewLinkFromGauss(code); err == nil {
			t.Fatalf("%q: expected parse failure", code)
		}
	}

	// same crossing with two different signs
	_, err := libknot.NewLinkFromGauss("O1+ U1-")
	if err == nil {
		t.Fatal("expected sign clash")
	}
}

func TestGaussSignClashError(t *testing.T) {
	_, err := libknot.NewLinkFromGauss("O1+ U2+ O2+ U1-")
	if err == nil {
		t.Fatal("expected sign clash")
	}
	if !errors.Is(err, goknot.ErrSignClash) {
		t.Fatalf("got %v, want %v", err, goknot.ErrSignClash)
	}
}
