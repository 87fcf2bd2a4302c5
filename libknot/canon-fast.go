package libknot

import (
	"github.com/strand-systems/knotsig/goknot"
)

// rotToken is one walk position of a closed diagram prepared for minimal
// rotation search.  It carries the walk positions of both visits to its
// crossing, so the crossing's comparison key relative to any rotation start
// can be computed in O(1) as the nearer forward distance to either visit.
type rotToken struct {
	occA   int32 // position of the crossing's first visit
	occB   int32 // position of the crossing's second visit
	strand uint8
	sign   int8
}

// minDist is a token's comparison key relative to rotation start:
// the smaller forward circular distance from start to either occurrence.
func minDist(t *rotToken, start, N int) int {
	da := int(t.occA) - start
	if da < 0 {
		da += N
	}
	db := int(t.occB) - start
	if db < 0 {
		db += N
	}
	if db < da {
		return db
	}
	return da
}

// cmpRotStep compares step k of the rotations of a starting at i and of b
// starting at j.  Positive means a's rotation is smaller at this step.
// When both walks agree on all steps before k, comparing minDist keys is
// equivalent to comparing the dense relabeled crossing IDs: a fresh crossing
// has key k on both sides, and repeat crossings compare by first-visit
// position, which equal prefixes map to identical IDs.
func cmpRotStep(a []rotToken, i int, b []rotToken, j int, k int) int {
	N := len(a)
	ta := &a[(i+k)%N]
	tb := &b[(j+k)%N]
	ka := minDist(ta, i, N)
	kb := minDist(tb, j, N)
	if ka != kb {
		if ka < kb {
			return 1
		}
		return -1
	}
	if ta.strand != tb.strand {
		if ta.strand > tb.strand {
			return 1
		}
		return -1
	}
	if ta.sign != tb.sign {
		if ta.sign > tb.sign {
			return 1
		}
		return -1
	}
	return 0
}

// circularCompare compares the rotation of a starting at i against the
// rotation of b starting at j, over at most maxSteps tokens.  It returns 0
// when every compared step ties, and otherwise ±(eq+1) where eq is the
// number of equal steps before the first difference; positive means a's
// rotation is smaller.
func circularCompare(a []rotToken, i int, b []rotToken, j int, maxSteps int) int {
	for k := 0; k < maxSteps; k++ {
		if c := cmpRotStep(a, i, b, j, k); c != 0 {
			if c > 0 {
				return k + 1
			}
			return -(k + 1)
		}
	}
	return 0
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// minimumStartingPoint returns the rotation offset in [0, limit) whose walk
// is lexicographically smallest.  It scans candidate offsets against the
// best so far, skipping ahead by a proven-safe span after each loss: when
// the walks first differ at step k, every start cand+t for t up to the
// winning token's own key is beaten by best+t, because shifting both starts
// by t either reduces both keys by t or turns both tokens fresh together.
// A full-period tie means the token sequence itself has rotational symmetry,
// so the search collapses to the period gcd(cand-best, limit) and recurses.
func minimumStartingPoint(toks []rotToken, limit int) int {
	N := len(toks)
	if N == 0 || limit <= 1 {
		return 0
	}
	best := 0
	for cand := 1; cand < limit; {
		r := circularCompare(toks, cand, toks, best, N)
		if r == 0 {
			return minimumStartingPoint(toks, gcd(cand-best, N))
		}
		if r > 0 {
			best = cand
			cand++
			continue
		}
		k := -r - 1
		cand += minDist(&toks[(best+k)%N], best, N) + 1
	}
	return best
}

// buildRotTokens fills toks from the closed walk recorded in slots,
// pairing the two visits of each crossing.  firstSeen is caller scratch of
// length numCrossings.
func buildRotTokens(d *diagram, slots []StrandRef, toks []rotToken, firstSeen []int32) {
	for i := range firstSeen {
		firstSeen[i] = -1
	}
	for p, ref := range slots {
		cr := &d.crossings[ref.Cross]
		toks[p] = rotToken{strand: ref.Strand, sign: cr.Sign}
		if f := firstSeen[ref.Cross]; f < 0 {
			firstSeen[ref.Cross] = int32(p)
		} else {
			toks[f].occA = f
			toks[f].occB = int32(p)
			toks[p].occA = f
			toks[p].occB = int32(p)
		}
	}
}

func transformRotTokens(dst, src []rotToken, reflect, flip bool) {
	copy(dst, src)
	if reflect {
		for i := range dst {
			dst[i].sign = -dst[i].sign
		}
	}
	if flip {
		for i := range dst {
			dst[i].strand ^= 1
		}
	}
}

// FastCanonicalSeq computes the same canonical sequence as CanonicalSeq but
// replaces the per-crossing start enumeration with a minimal-rotation search
// over the 2n-length circular token sequence, one search per symmetry
// transform.  Unlike the direct search it admits rotation starts on either
// strand bit; those starting on the lower strand lose at the first token to
// some upper-strand start under the complementary flip, so the overall
// minimum is unchanged.
func (L *Link) FastCanonicalSeq(useReflection, useReversal bool) (goknot.Seq, int, error) {
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

	firstSeen := newWalkScratch(n)
	slots := make([]StrandRef, 0, N)

	fwd := make([]rotToken, N)
	slots = appendSlotWalk(&L.diagram, L.comps[0], false, N, slots)
	buildRotTokens(&L.diagram, slots, fwd, firstSeen)

	bwd := make([]rotToken, N)
	slots = appendSlotWalk(&L.diagram, L.comps[0], true, N, slots[:0])
	buildRotTokens(&L.diagram, slots, bwd, firstSeen)

	work := make([]rotToken, N)
	bestToks := make([]rotToken, N)
	bestOff := 0
	first := true

	for reflect := 0; reflect < 2; reflect++ {
		if reflect == 1 && !useReflection {
			break
		}
		for rev := 0; rev < 2; rev++ {
			if rev == 1 && !useReversal {
				break
			}
			base := fwd
			if rev == 1 {
				base = bwd
			}
			for flip := 0; flip < 2; flip++ {
				transformRotTokens(work, base, reflect == 1, flip == 1)
				off := minimumStartingPoint(work, N)
				if first || circularCompare(work, off, bestToks, bestOff, N) > 0 {
					work, bestToks = bestToks, work
					bestOff = off
					first = false
				}
			}
		}
	}

	// remap crossings to dense IDs in visit order from the winning offset
	idByFirst := newWalkScratch(N)
	for i := range idByFirst {
		idByFirst[i] = -1
	}
	seq := make(goknot.Seq, N)
	nextID := int32(0)
	for k := 0; k < N; k++ {
		t := &bestToks[(bestOff+k)%N]
		if idByFirst[t.occA] < 0 {
			idByFirst[t.occA] = nextID
			nextID++
		}
		seq[k] = goknot.Token{
			Crossing: idByFirst[t.occA],
			Strand:   t.strand,
			Sign:     t.sign,
		}
	}
	return seq, N, nil
}
