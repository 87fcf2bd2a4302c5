package libknot

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/strand-systems/knotsig/goknot"
)

func appendSigInt(buf []byte, val, digits int) []byte {
	for i := 0; i < digits; i++ {
		buf = append(buf, goknot.SigAlphabet[val&0x3F])
		val >>= 6
	}
	return buf
}

// appendSigBits packs one bit per token, 6 per character, low bit first.
func appendSigBits(buf []byte, seq goknot.Seq, bit func(goknot.Token) int) []byte {
	acc, nb := 0, 0
	for _, t := range seq {
		acc |= bit(t) << nb
		nb++
		if nb == 6 {
			buf = append(buf, goknot.SigAlphabet[acc])
			acc, nb = 0, 0
		}
	}
	if nb > 0 {
		buf = append(buf, goknot.SigAlphabet[acc])
	}
	return buf
}

// encodeSig serializes a canonical sequence.  Fields, in order: the header
// (n, or sentinel + charsPerInt + n when n does not fit one digit), the
// tangle type digit when tangle is set, the start marker m, the 2n crossing
// indices, the packed strand bits, the packed sign bits.  The marker can
// reach 2n, so it gets its own digit width.
func encodeSig(seq goknot.Seq, n, m int, tangle bool, typ goknot.TangleType) goknot.Signature {
	var buf []byte
	if n < int(goknot.SigSentinel) {
		buf = append(buf, goknot.SigAlphabet[n])
	} else {
		cpi := goknot.DigitsPerInt(n)
		buf = append(buf, goknot.SigAlphabet[goknot.SigSentinel])
		buf = append(buf, goknot.SigAlphabet[cpi])
		buf = appendSigInt(buf, n, cpi)
	}
	if tangle {
		ord, _ := typ.Ord()
		buf = append(buf, goknot.SigAlphabet[ord])
	}
	if n == 0 {
		return goknot.Signature(buf)
	}
	cpi := goknot.DigitsPerInt(n)
	buf = appendSigInt(buf, m, goknot.DigitsPerInt(2*n))
	for _, t := range seq {
		buf = appendSigInt(buf, int(t.Crossing), cpi)
	}
	buf = appendSigBits(buf, seq, func(t goknot.Token) int {
		return int(t.Strand)
	})
	buf = appendSigBits(buf, seq, func(t goknot.Token) int {
		if t.Sign > 0 {
			return 1
		}
		return 0
	})
	return goknot.Signature(buf)
}

// Sig returns the canonical signature of a single-component link, minimal
// over the enabled symmetry transforms.
func (L *Link) Sig(useReflection, useReversal bool) (goknot.Signature, error) {
	seq, m, err := L.FastCanonicalSeq(useReflection, useReversal)
	if err != nil {
		return "", err
	}
	return encodeSig(seq, L.NumCrossings(), m, false, 0), nil
}

// Sig returns the canonical signature of a tangle.
func (T *Tangle) Sig(useReflection, useReversal bool) (goknot.Signature, error) {
	seq, m, err := T.CanonicalSeq(useReflection, useReversal)
	if err != nil {
		return "", err
	}
	return encodeSig(seq, T.NumCrossings(), m, true, T.typ), nil
}

// sigReader consumes a signature string digit by digit.  Every read is
// bounds and alphabet checked, so a truncated or corrupted string fails at
// the first bad character.
type sigReader struct {
	s   string
	pos int
}

func (r *sigReader) readDigit() (int, error) {
	if r.pos >= len(r.s) {
		return 0, errors.Wrap(goknot.ErrMalformedSig, "unexpected end of signature")
	}
	d := goknot.SigDigit(r.s[r.pos])
	if d < 0 {
		return 0, errors.Wrapf(goknot.ErrMalformedSig, "invalid character at offset %d", r.pos)
	}
	r.pos++
	return int(d), nil
}

func (r *sigReader) readInt(digits int) (int, error) {
	v := 0
	for i := 0; i < digits; i++ {
		d, err := r.readDigit()
		if err != nil {
			return 0, err
		}
		v |= d << (6 * i)
	}
	return v, nil
}

// readBits unpacks count bits stored 6 per character, low bit first.
// Set bits past count are rejected.
func (r *sigReader) readBits(count int) ([]bool, error) {
	bits := make([]bool, count)
	for i := 0; i < count; i += 6 {
		d, err := r.readDigit()
		if err != nil {
			return nil, err
		}
		for b := 0; b < 6; b++ {
			if d&(1<<b) == 0 {
				continue
			}
			if i+b >= count {
				return nil, goknot.ErrExtraneousBits
			}
			bits[i+b] = true
		}
	}
	return bits, nil
}

// readHeader reads n, enforcing that the long form is only used when n
// needs it and that its declared digit width is the minimal one.
func (r *sigReader) readHeader() (n int, err error) {
	n, err = r.readDigit()
	if err != nil {
		return 0, err
	}
	if n < int(goknot.SigSentinel) {
		return n, nil
	}
	cpi, err := r.readDigit()
	if err != nil {
		return 0, err
	}
	n, err = r.readInt(cpi)
	if err != nil {
		return 0, err
	}
	if n < int(goknot.SigSentinel) || cpi != goknot.DigitsPerInt(n) {
		return 0, errors.Wrap(goknot.ErrMalformedSig, "non-canonical crossing count header")
	}
	return n, nil
}

// checkBodyLen verifies the characters remaining after the header match the
// exact body length an n-crossing diagram encodes to.  The crossing count is
// bounded by the remaining length first, so a hostile header cannot force a
// huge allocation.
func (r *sigReader) checkBodyLen(n int) error {
	remain := len(r.s) - r.pos
	if n > remain {
		return errors.Wrapf(goknot.ErrMalformedSig, "crossing count %d exceeds signature length", n)
	}
	N := 2 * n
	want := goknot.DigitsPerInt(N) + N*goknot.DigitsPerInt(n) + 2*((N+5)/6)
	if remain != want {
		return errors.Wrapf(goknot.ErrMalformedSig, "signature length does not match crossing count %d", n)
	}
	return nil
}

// readBody reads the marker, crossing indices, strand bits, and sign bits
// for a diagram of n crossings.  The length check runs before anything is
// allocated.
func (r *sigReader) readBody(n int) (m int, idx []int, strands, signs []bool, err error) {
	if err = r.checkBodyLen(n); err != nil {
		return
	}
	N := 2 * n
	if m, err = r.readInt(goknot.DigitsPerInt(N)); err != nil {
		return
	}
	cpi := goknot.DigitsPerInt(n)
	idx = make([]int, N)
	for k := 0; k < N; k++ {
		if idx[k], err = r.readInt(cpi); err != nil {
			return
		}
		if idx[k] >= n {
			err = errors.Wrapf(goknot.ErrBadCrossingIndex, "crossing %d out of range", idx[k])
			return
		}
	}
	if strands, err = r.readBits(N); err != nil {
		return
	}
	signs, err = r.readBits(N)
	return
}

func (r *sigReader) expectEnd() error {
	if r.pos != len(r.s) {
		return errors.Wrap(goknot.ErrMalformedSig, "trailing characters after signature")
	}
	return nil
}

// replayStep assigns the crossing's sign on first encounter and checks it
// on the second.
func replayStep(d *diagram, c int, positive bool) error {
	sign := int8(-1)
	if positive {
		sign = 1
	}
	cr := &d.crossings[c]
	if cr.Sign == 0 {
		cr.Sign = sign
	} else if cr.Sign != sign {
		return goknot.ErrSignClash
	}
	return nil
}

// DecodeLinkSig reconstructs a link from its signature.  Decoding is
// strict: any malformed field aborts and no diagram is returned.
func DecodeLinkSig(sig goknot.Signature) (*Link, error) {
	r := &sigReader{s: strings.TrimSpace(string(sig))}
	n, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err = r.expectEnd(); err != nil {
			return nil, err
		}
		return NewUnknot(), nil
	}
	m, idx, strands, signs, err := r.readBody(n)
	if err != nil {
		return nil, err
	}
	if err = r.expectEnd(); err != nil {
		return nil, err
	}
	N := 2 * n
	if m != N {
		if m < N {
			return nil, goknot.ErrMultipleComponents
		}
		return nil, errors.Wrap(goknot.ErrMalformedSig, "component marker out of range")
	}

	L := NewLink(n)
	for k := 0; k < N; k++ {
		if err = replayStep(&L.diagram, idx[k], signs[k]); err != nil {
			return nil, err
		}
		wrap := (k + 1) % N
		from := StrandRef{Cross: int32(idx[k]), Strand: strandBit(strands[k])}
		to := StrandRef{Cross: int32(idx[wrap]), Strand: strandBit(strands[wrap])}
		if err = L.diagram.Connect(from, to); err != nil {
			return nil, err
		}
	}
	L.AddComponent(StrandRef{Cross: int32(idx[0]), Strand: strandBit(strands[0])})
	if err = L.Validate(); err != nil {
		return nil, err
	}
	return L, nil
}

// DecodeTangleSig reconstructs a tangle from its signature.
func DecodeTangleSig(sig goknot.Signature) (*Tangle, error) {
	r := &sigReader{s: strings.TrimSpace(string(sig))}
	n, err := r.readHeader()
	if err != nil {
		return nil, err
	}
	typOrd, err := r.readDigit()
	if err != nil {
		return nil, err
	}
	typ, err := goknot.TangleTypeFromOrd(byte(typOrd))
	if err != nil {
		return nil, err
	}
	if n == 0 {
		if err = r.expectEnd(); err != nil {
			return nil, err
		}
		return NewTangle(typ, 0), nil
	}
	m, idx, strands, signs, err := r.readBody(n)
	if err != nil {
		return nil, err
	}
	if err = r.expectEnd(); err != nil {
		return nil, err
	}
	N := 2 * n
	if m > N {
		return nil, errors.Wrap(goknot.ErrMalformedSig, "string marker out of range")
	}

	T := NewTangle(typ, n)
	for k := 0; k < N; k++ {
		if err = replayStep(&T.diagram, idx[k], signs[k]); err != nil {
			return nil, err
		}
		// steps m-1 and N-1 end their strings at the boundary
		if k+1 == m || k+1 == N {
			continue
		}
		from := StrandRef{Cross: int32(idx[k]), Strand: strandBit(strands[k])}
		to := StrandRef{Cross: int32(idx[k+1]), Strand: strandBit(strands[k+1])}
		if err = T.diagram.Connect(from, to); err != nil {
			return nil, err
		}
	}
	slotAt := func(k int) StrandRef {
		if k < 0 || k >= N {
			return NilRef
		}
		return StrandRef{Cross: int32(idx[k]), Strand: strandBit(strands[k])}
	}
	if m > 0 {
		T.SetString(0, slotAt(0), slotAt(m-1))
	}
	if m < N {
		T.SetString(1, slotAt(m), slotAt(N-1))
	}
	if err = T.Validate(); err != nil {
		return nil, err
	}
	return T, nil
}

func strandBit(upper bool) uint8 {
	if upper {
		return 1
	}
	return 0
}
