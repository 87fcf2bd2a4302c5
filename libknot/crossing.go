package libknot

import (
	"github.com/strand-systems/knotsig/goknot"
)

// A StrandRef addresses one of the two strand slots at a crossing: the pair
// (arena index, strand bit).  Strand bit 1 is the upper pass, 0 the lower.
// StrandRefs are non-owning; the arena belongs to the enclosing Link/Tangle.
type StrandRef struct {
	Cross  int32
	Strand uint8
}

// NilRef marks a free diagram end (no crossing).
var NilRef = StrandRef{Cross: -1}

func (ref StrandRef) IsNil() bool {
	return ref.Cross < 0
}

// Crossing is a 4-valent vertex of a diagram: a sign plus a directed
// successor and predecessor link for each of its two strand passes.
// Sign 0 appears only mid-construction and never in a valid diagram.
type Crossing struct {
	Sign int8
	next [2]StrandRef
	prev [2]StrandRef
}

// diagram is the crossing arena shared by Link and Tangle.
// All references into the arena are (index, strand) pairs, so dropping the
// arena drops the whole graph — there is no per-node cleanup.
type diagram struct {
	crossings []Crossing
}

func newDiagram(numCrossings int) diagram {
	d := diagram{
		crossings: make([]Crossing, numCrossings),
	}
	for i := range d.crossings {
		d.crossings[i].next = [2]StrandRef{NilRef, NilRef}
		d.crossings[i].prev = [2]StrandRef{NilRef, NilRef}
	}
	return d
}

func (d *diagram) NumCrossings() int {
	return len(d.crossings)
}

// Next steps forward along the diagram from the given strand slot.
func (d *diagram) Next(ref StrandRef) StrandRef {
	return d.crossings[ref.Cross].next[ref.Strand]
}

// Prev steps backward along the diagram from the given strand slot.
func (d *diagram) Prev(ref StrandRef) StrandRef {
	return d.crossings[ref.Cross].prev[ref.Strand]
}

// Connect joins from's outgoing slot to to's incoming slot, keeping the
// next/prev pair mutually consistent.  Either slot already being occupied is
// a connection conflict.
func (d *diagram) Connect(from, to StrandRef) error {
	if !d.crossings[from.Cross].next[from.Strand].IsNil() {
		return goknot.ErrBadConnection
	}
	if !d.crossings[to.Cross].prev[to.Strand].IsNil() {
		return goknot.ErrBadConnection
	}
	d.crossings[from.Cross].next[from.Strand] = to
	d.crossings[to.Cross].prev[to.Strand] = from
	return nil
}

// Mirror negates the sign of every crossing, producing the diagram's mirror
// image in place.
func (d *diagram) Mirror() {
	for i := range d.crossings {
		d.crossings[i].Sign = -d.crossings[i].Sign
	}
}

// reverseLinks swaps every next/prev pair, reversing the traversal
// orientation of every strand.
func (d *diagram) reverseLinks() {
	for i := range d.crossings {
		c := &d.crossings[i]
		c.next, c.prev = c.prev, c.next
	}
}

// relabelStrands swaps which pass at each crossing is stored as upper,
// rewriting every reference accordingly.  This is the diagram-level form of
// the free flip-strand symmetry.
func (d *diagram) relabelStrands() {
	flip := func(ref StrandRef) StrandRef {
		if ref.IsNil() {
			return ref
		}
		ref.Strand ^= 1
		return ref
	}
	for i := range d.crossings {
		c := &d.crossings[i]
		c.next[0], c.next[1] = flip(c.next[1]), flip(c.next[0])
		c.prev[0], c.prev[1] = flip(c.prev[1]), flip(c.prev[0])
	}
}

func (d *diagram) signTally() (pos, neg int) {
	for i := range d.crossings {
		switch {
		case d.crossings[i].Sign > 0:
			pos++
		case d.crossings[i].Sign < 0:
			neg++
		}
	}
	return
}

// checkConnections verifies that every slot of every crossing is linked and
// that every next/prev pair is mutually consistent.
func (d *diagram) checkConnections(allowFreeEnds bool) error {
	for i := range d.crossings {
		c := &d.crossings[i]
		if c.Sign != 1 && c.Sign != -1 {
			return goknot.ErrBadDiagram
		}
		for s := uint8(0); s < 2; s++ {
			nxt := c.next[s]
			if nxt.IsNil() {
				if !allowFreeEnds {
					return goknot.ErrBadDiagram
				}
			} else if d.crossings[nxt.Cross].prev[nxt.Strand] != (StrandRef{Cross: int32(i), Strand: s}) {
				return goknot.ErrBadDiagram
			}
			prv := c.prev[s]
			if prv.IsNil() {
				if !allowFreeEnds {
					return goknot.ErrBadDiagram
				}
			} else if d.crossings[prv.Cross].next[prv.Strand] != (StrandRef{Cross: int32(i), Strand: s}) {
				return goknot.ErrBadDiagram
			}
		}
	}
	return nil
}
