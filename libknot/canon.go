package libknot

import (
	"github.com/strand-systems/knotsig/goknot"
)

// verdict is the three-way state of a candidate walk against the best so far.
type verdict int8

const (
	undetermined verdict = iota // tied with best on every token produced
	candBetter                  // beat best at some earlier token
	candWorse                   // lost to best; candidate aborted
)

// CanonicalSeq returns the canonical sequence of a single-component Link,
// the lexicographic minimum over every enabled symmetry transform, plus the
// start marker m (for a link, the position where a second component would
// have begun, i.e. 2n).
//
// This is the direct search: every symmetry combination crossed with every
// candidate starting crossing, with token-by-token early abort.  The fast
// path (FastCanonicalSeq) must produce identical output.
func (L *Link) CanonicalSeq(useReflection, useReversal bool) (goknot.Seq, int, error) {
	if err := L.Validate(); err != nil {
		return nil, 0, err
	}
	if len(L.comps) != 1 {
		return nil, 0, goknot.ErrMultipleComponents
	}
	n := L.NumCrossings()
	if n == 0 {
		return goknot.Seq{}, 0, nil
	}
	N := 2 * n

	best := make(goknot.Seq, N)
	curr := make(goknot.Seq, N)
	relID := newWalkScratch(n)
	var w walker
	first := true

	for reflect := 0; reflect < 2; reflect++ {
		if reflect == 1 && !useReflection {
			break
		}
		for rev := 0; rev < 2; rev++ {
			if rev == 1 && !useReversal {
				break
			}
			for flip := 0; flip < 2; flip++ {
				opts := walkOpts{
					reflect: reflect == 1,
					flip:    flip == 1,
					reverse: rev == 1,
				}
				for c := 0; c < n; c++ {
					sign := L.crossings[c].Sign
					if opts.reflect {
						sign = -sign
					}
					// With reflection available the winner must begin with a
					// positive sign, so negative-sign starts cannot win.
					if useReflection && sign < 0 {
						continue
					}
					start := StrandRef{Cross: int32(c), Strand: uint8(1 ^ flip)}
					w.reset(&L.diagram, start, opts, relID)

					v := undetermined
					if first {
						v = candBetter
					}
					for k := 0; k < N; k++ {
						tok, _ := w.next()
						curr[k] = tok
						if v == undetermined {
							cmp := goknot.CompareTokens(tok, best[k])
							if cmp > 0 {
								v = candWorse
								break
							}
							if cmp < 0 {
								v = candBetter
							}
						}
					}
					if v == candBetter {
						best, curr = curr, best
						first = false
					}
				}
			}
		}
	}
	return best, N, nil
}

// CanonicalSeq returns the canonical sequence of a Tangle plus the start
// marker m: the number of tokens on the winning walk's first string.
//
// The candidate pool crosses reflect / reverse / flip-strand with the two
// boundary re-entry sides.  Starting from the opposite side of a diagonal
// tangle additionally swaps which pass counts as upper, so the upper strand
// is still visited first after mirroring the start side.
func (T *Tangle) CanonicalSeq(useReflection, useReversal bool) (goknot.Seq, int, error) {
	if err := T.Validate(); err != nil {
		return nil, 0, err
	}
	n := T.NumCrossings()
	if n == 0 {
		return goknot.Seq{}, 0, nil
	}
	N := 2 * n

	best := make(goknot.Seq, N)
	curr := make(goknot.Seq, N)
	relID := newWalkScratch(n)
	var w walker
	first := true
	bestM := 0

	for reflect := 0; reflect < 2; reflect++ {
		if reflect == 1 && !useReflection {
			break
		}
		for rev := 0; rev < 2; rev++ {
			if rev == 1 && !useReversal {
				break
			}
			for flip := 0; flip < 2; flip++ {
				for side := 0; side < 2; side++ {
					effFlip := flip
					if side == 1 && T.typ == goknot.TangleDiag {
						effFlip ^= 1
					}
					opts := walkOpts{
						reflect: reflect == 1,
						flip:    effFlip == 1,
						reverse: rev == 1,
					}

					v := undetermined
					if first {
						v = candBetter
					}
					k := 0
					m := 0
					for seg := 0; seg < 2; seg++ {
						si := side ^ seg
						var start StrandRef
						if opts.reverse {
							start = T.ends[si][1]
						} else {
							start = T.ends[si][0]
						}
						if seg == 0 {
							w.reset(&T.diagram, start, opts, relID)
						} else {
							m = k
							w.restart(start)
						}
						for {
							tok, ok := w.next()
							if !ok {
								break
							}
							curr[k] = tok
							if v == undetermined {
								cmp := goknot.CompareTokens(tok, best[k])
								if cmp > 0 {
									v = candWorse
									break
								}
								if cmp < 0 {
									v = candBetter
								}
							}
							k++
						}
						if v == candWorse {
							break
						}
					}
					switch {
					case v == candBetter:
						best, curr = curr, best
						bestM = m
						first = false
					case v == undetermined && m < bestM:
						// full tie on tokens: keep the smaller first-string length
						bestM = m
					}
				}
			}
		}
	}
	return best, bestM, nil
}
