package libknot

import (
	"github.com/strand-systems/knotsig/goknot"
)

// walkOpts selects the symmetry relabeling a walk is viewed under.
type walkOpts struct {
	reflect bool // negate every visited sign
	flip    bool // XOR every visited strand bit with 1
	reverse bool // follow prev links instead of next
}

// walker produces the token stream of a diagram walk one token at a time,
// re-indexing crossings on first visit so that walks from different starts
// compare directly.  The relID scratch buffer is caller-owned; reset()
// prepares it for a fresh candidate without reallocating.
type walker struct {
	d      *diagram
	at     StrandRef
	opts   walkOpts
	relID  []int32
	nextID int32
}

func newWalkScratch(numCrossings int) []int32 {
	return make([]int32, numCrossings)
}

func (w *walker) reset(d *diagram, start StrandRef, opts walkOpts, relID []int32) {
	w.d = d
	w.at = start
	w.opts = opts
	w.relID = relID
	w.nextID = 0
	for i := range relID {
		relID[i] = -1
	}
}

// restart moves the walker to a new start while keeping the relative IDs
// assigned so far, so a second string continues the numbering of the first.
func (w *walker) restart(start StrandRef) {
	w.at = start
}

// next emits the token at the current position and advances.
// ok is false once the walk has run off a free end (tangles only).
func (w *walker) next() (tok goknot.Token, ok bool) {
	if w.at.IsNil() {
		return goknot.Token{}, false
	}
	c := w.at.Cross
	id := w.relID[c]
	if id < 0 {
		id = w.nextID
		w.relID[c] = id
		w.nextID++
	}
	tok.Crossing = id
	tok.Strand = w.at.Strand
	if w.opts.flip {
		tok.Strand ^= 1
	}
	tok.Sign = w.d.crossings[c].Sign
	if w.opts.reflect {
		tok.Sign = -tok.Sign
	}
	if w.opts.reverse {
		w.at = w.d.Prev(w.at)
	} else {
		w.at = w.d.Next(w.at)
	}
	return tok, true
}

// appendSlotWalk appends the raw slot sequence of a walk from start to out,
// following at most maxSteps links.  A closed walk stops when it returns to
// start; an open walk stops at a free end.
func appendSlotWalk(d *diagram, start StrandRef, reverse bool, maxSteps int, out []StrandRef) []StrandRef {
	if start.IsNil() {
		return out
	}
	at := start
	for i := 0; i < maxSteps; i++ {
		out = append(out, at)
		if reverse {
			at = d.Prev(at)
		} else {
			at = d.Next(at)
		}
		if at == start || at.IsNil() {
			break
		}
	}
	return out
}
