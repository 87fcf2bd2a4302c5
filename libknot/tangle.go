package libknot

import (
	"fmt"
	"io"
	"strings"

	"github.com/strand-systems/knotsig/goknot"
)

// Tangle owns a crossing arena plus two open strings, each with a begin and
// an end boundary slot.  Unlike a Link, traversal runs off a free end rather
// than cycling.
type Tangle struct {
	diagram
	typ  goknot.TangleType
	ends [2][2]StrandRef // [string][0 = begin, 1 = end]
}

// NewTangle returns a Tangle with numCrossings unconnected crossings and
// both strings empty (all four boundary slots nil).
func NewTangle(typ goknot.TangleType, numCrossings int) *Tangle {
	T := &Tangle{
		diagram: newDiagram(numCrossings),
		typ:     typ,
	}
	T.ends[0] = [2]StrandRef{NilRef, NilRef}
	T.ends[1] = [2]StrandRef{NilRef, NilRef}
	return T
}

func (T *Tangle) Type() goknot.TangleType {
	return T.typ
}

// SetString assigns the begin and end boundary slots of string i.
// Both are nil for a string that passes through with no crossings.
func (T *Tangle) SetString(i int, begin, end StrandRef) {
	T.ends[i][0] = begin
	T.ends[i][1] = end
}

// Begin returns the entry slot of string i, or NilRef for an empty string.
func (T *Tangle) Begin(i int) StrandRef {
	return T.ends[i][0]
}

// End returns the final slot of string i, or NilRef for an empty string.
func (T *Tangle) End(i int) StrandRef {
	return T.ends[i][1]
}

func (T *Tangle) SetSign(crossing int, sign int8) {
	T.crossings[crossing].Sign = sign
}

// SwapSides exchanges the two strings, re-entering the tangle from its
// opposite boundary side.  For a diagonal tangle this also relabels which
// pass counts as upper, matching the search's start-strand correction.
func (T *Tangle) SwapSides() {
	T.ends[0], T.ends[1] = T.ends[1], T.ends[0]
	if T.typ == goknot.TangleDiag {
		T.relabelStrands()
		for i := 0; i < 2; i++ {
			for j := 0; j < 2; j++ {
				if !T.ends[i][j].IsNil() {
					T.ends[i][j].Strand ^= 1
				}
			}
		}
	}
}

// Copy returns a deep copy of this Tangle.
func (T *Tangle) Copy() *Tangle {
	cp := &Tangle{
		diagram: diagram{crossings: append([]Crossing(nil), T.crossings...)},
		typ:     T.typ,
		ends:    T.ends,
	}
	return cp
}

// Validate checks structural invariants: signs resolved, next/prev pairs
// mutual, and the two string walks together visiting every strand slot
// exactly once before running off their free ends.
func (T *Tangle) Validate() error {
	if _, err := T.typ.Ord(); err != nil {
		return err
	}
	n := T.NumCrossings()
	if n == 0 {
		return nil
	}
	if err := T.checkConnections(true); err != nil {
		return err
	}

	visited := make([]bool, 2*n)
	for i := 0; i < 2; i++ {
		begin, end := T.ends[i][0], T.ends[i][1]
		if begin.IsNil() != end.IsNil() {
			return goknot.ErrBadDiagram
		}
		if begin.IsNil() {
			continue
		}
		if !T.Prev(begin).IsNil() || !T.Next(end).IsNil() {
			return goknot.ErrBadDiagram
		}
		at := begin
		for {
			slot := 2*at.Cross + int32(at.Strand)
			if visited[slot] {
				return goknot.ErrBadDiagram
			}
			visited[slot] = true
			if at == end {
				break
			}
			at = T.Next(at)
			if at.IsNil() {
				// ran off a free end before reaching the declared string end
				return goknot.ErrBadDiagram
			}
		}
	}
	for _, seen := range visited {
		if !seen {
			return goknot.ErrBadDiagram
		}
	}
	return nil
}

func (T *Tangle) GetInfo() goknot.DiagramInfo {
	pos, neg := T.signTally()
	return goknot.DiagramInfo{
		NumCrossings: T.NumCrossings(),
		NumPos:       pos,
		NumNeg:       neg,
		NumStrings:   2,
	}
}

func (T *Tangle) WriteAsString(out io.Writer, opts goknot.PrintOpts) {
	if opts.Label != "" {
		fmt.Fprintf(out, "%s,", opts.Label)
	}
	info := T.GetInfo()
	fmt.Fprintf(out, "type=%c,n=%d,", T.typ, info.NumCrossings)
	if opts.GaussCode {
		fmt.Fprintf(out, "%q,", T.GaussCode())
	}
	if opts.Crossings {
		T.writeCrossingTable(out)
	}
	if opts.Sig {
		sig, err := T.Sig(true, true)
		if err != nil {
			fmt.Fprintf(out, "sig-err=%q,", err.Error())
		} else {
			fmt.Fprintf(out, "%s,", sig)
		}
	}
}

func (T *Tangle) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	T.WriteAsString(&b, goknot.DefaultPrintOpts)
	fmt.Println(b.String())
}
