package libknot_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/strand-systems/knotsig/goknot"
	"github.com/strand-systems/knotsig/libknot"
)

func TestUnknotSig(t *testing.T) {
	sig, err := libknot.NewUnknot().Sig(true, true)
	require.NoError(t, err)
	require.Equal(t, goknot.Signature("a"), sig)

	L, err := libknot.DecodeLinkSig(sig)
	require.NoError(t, err)
	require.Equal(t, 0, L.NumCrossings())
	require.Equal(t, 1, L.NumComponents())
}

func TestOneCrossingSig(t *testing.T) {
	// a single positive crossing self-linked into a 1-crossing unknot
	L, err := libknot.NewLinkFromGauss("O1+ U1+")
	require.NoError(t, err)

	sig, err := L.Sig(true, true)
	require.NoError(t, err)
	require.Equal(t, goknot.Signature("bcaabd"), sig)

	// its mirror normalizes to the same signature
	neg, err := libknot.NewLinkFromGauss("O1- U1-")
	require.NoError(t, err)
	negSig, err := neg.Sig(true, true)
	require.NoError(t, err)
	require.Equal(t, sig, negSig)

	decoded, err := libknot.DecodeLinkSig(sig)
	require.NoError(t, err)
	reSig, err := decoded.Sig(true, true)
	require.NoError(t, err)
	require.Equal(t, sig, reSig)
}

func TestSigRoundTrip(t *testing.T) {
	for L := range libknot.EnumKnots(libknot.EnumOpts{MinCrossings: 0, MaxCrossings: 3}).Outlet {
		sig, err := L.Sig(true, true)
		require.NoError(t, err)

		decoded, err := libknot.DecodeLinkSig(sig)
		require.NoError(t, err, "sig %q", sig)
		require.Equal(t, L.NumCrossings(), decoded.NumCrossings())

		info := L.GetInfo()
		decInfo := decoded.GetInfo()
		require.Equal(t, info.NumCrossings, decInfo.NumCrossings)

		// re-encoding the decoded diagram reproduces the signature exactly
		reSig, err := decoded.Sig(true, true)
		require.NoError(t, err)
		require.Equal(t, sig, reSig, "gauss %q", L.GaussCode())
	}
}

func TestMirrorSigs(t *testing.T) {
	L, err := libknot.NewLinkFromGauss(trefoil)
	require.NoError(t, err)
	mirror := L.Copy()
	mirror.Mirror()

	withReflect, err := L.Sig(true, true)
	require.NoError(t, err)
	mirrorWithReflect, err := mirror.Sig(true, true)
	require.NoError(t, err)
	require.Equal(t, withReflect, mirrorWithReflect)

	// the trefoil is chiral: without reflection the two sigs differ
	noReflect, err := L.Sig(false, true)
	require.NoError(t, err)
	mirrorNoReflect, err := mirror.Sig(false, true)
	require.NoError(t, err)
	require.NotEqual(t, noReflect, mirrorNoReflect)
}

func TestSigWhitespace(t *testing.T) {
	L, err := libknot.DecodeLinkSig("  bcaabd \n")
	require.NoError(t, err)
	require.Equal(t, 1, L.NumCrossings())

	_, err = libknot.DecodeLinkSig("bca abd")
	require.ErrorIs(t, err, goknot.ErrMalformedSig)
}

func TestSigRejection(t *testing.T) {
	cases := []struct {
		name string
		sig  goknot.Signature
		want error
	}{
		{"invalid char", "bcaab~", goknot.ErrMalformedSig},
		{"truncated", "bcaab", goknot.ErrMalformedSig},
		{"trailing junk", "bcaabda", goknot.ErrMalformedSig},
		{"crossing index at n", "bcbabd", goknot.ErrBadCrossingIndex},
		{"duplicated connection", "bcaadd", goknot.ErrBadConnection},
		{"flipped sign bit", "bcaabb", goknot.ErrSignClash},
		{"extraneous sign bits", "bcaabh", goknot.ErrExtraneousBits},
		{"extraneous strand bits", "bcaahd", goknot.ErrExtraneousBits},
		{"component marker short", "baaabd", goknot.ErrMultipleComponents},
		{"empty", "", goknot.ErrMalformedSig},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			L, err := libknot.DecodeLinkSig(tc.sig)
			require.Nil(t, L)
			require.ErrorIs(t, err, tc.want)
		})
	}
}

// A header is not trusted until the remaining length matches the body it
// implies, so an absurd crossing count in a short string cannot force an
// allocation.
func TestSigLengthGuard(t *testing.T) {
	// long-form header declaring n = 2^60 - 1
	hdr := []byte{goknot.SigAlphabet[goknot.SigSentinel], goknot.SigAlphabet[10]}
	for i := 0; i < 10; i++ {
		hdr = append(hdr, goknot.SigAlphabet[63])
	}
	filler := "aaaaaaaaaaa"

	L, err := libknot.DecodeLinkSig(goknot.Signature(string(hdr) + filler))
	require.Nil(t, L)
	require.ErrorIs(t, err, goknot.ErrMalformedSig)

	T, err := libknot.DecodeTangleSig(goknot.Signature(string(hdr) + "a" + filler))
	require.Nil(t, T)
	require.ErrorIs(t, err, goknot.ErrMalformedSig)

	// a modest crossing count over a short body fails the same check
	_, err = libknot.DecodeLinkSig("caab")
	require.ErrorIs(t, err, goknot.ErrMalformedSig)
}

func TestDigitsPerInt(t *testing.T) {
	require.Equal(t, 1, goknot.DigitsPerInt(0))
	require.Equal(t, 1, goknot.DigitsPerInt(63))
	require.Equal(t, 2, goknot.DigitsPerInt(64))
	require.Equal(t, 2, goknot.DigitsPerInt(4095))
	require.Equal(t, 3, goknot.DigitsPerInt(4096))
}

func TestSigAlphabetRoundTrip(t *testing.T) {
	for i := 0; i < 64; i++ {
		require.Equal(t, int8(i), goknot.SigDigit(goknot.SigAlphabet[i]))
	}
	require.Equal(t, int8(-1), goknot.SigDigit('~'))
	require.Equal(t, int8(-1), goknot.SigDigit(' '))
}
