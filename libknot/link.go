package libknot

import (
	"fmt"
	"io"
	"strings"

	"github.com/strand-systems/knotsig/goknot"
)

// Link owns a crossing arena plus one entry point per closed component.
// A knot is a Link with exactly one component; its single walk passes
// through every crossing exactly twice.
type Link struct {
	diagram
	comps []StrandRef
}

// NewLink returns a Link with numCrossings unconnected crossings and no
// components.  Callers wire it up via SetSign / Connect / AddComponent.
func NewLink(numCrossings int) *Link {
	return &Link{
		diagram: newDiagram(numCrossings),
	}
}

// NewUnknot returns the zero-crossing unknot: no crossings, one trivial
// component.
func NewUnknot() *Link {
	L := NewLink(0)
	L.comps = append(L.comps, NilRef)
	return L
}

func (L *Link) SetSign(crossing int, sign int8) {
	L.crossings[crossing].Sign = sign
}

// AddComponent records an entry point into a closed loop of the diagram.
func (L *Link) AddComponent(entry StrandRef) {
	L.comps = append(L.comps, entry)
}

func (L *Link) NumComponents() int {
	return len(L.comps)
}

// Component returns the entry point of the i-th component.
func (L *Link) Component(i int) StrandRef {
	return L.comps[i]
}

// ReverseOrient reverses the traversal orientation of every component.
func (L *Link) ReverseOrient() {
	L.reverseLinks()
}

// RelabelStrands applies the diagram-level flip-strand relabeling, updating
// component entry points to match.
func (L *Link) RelabelStrands() {
	L.relabelStrands()
	for i, c := range L.comps {
		if !c.IsNil() {
			L.comps[i].Strand ^= 1
		}
	}
}

// Copy returns a deep copy of this Link.
func (L *Link) Copy() *Link {
	cp := &Link{
		diagram: diagram{crossings: append([]Crossing(nil), L.crossings...)},
		comps:   append([]StrandRef(nil), L.comps...),
	}
	return cp
}

// Validate checks the structural invariants of a closed diagram: every sign
// resolved to +-1, every slot connected, every next/prev pair mutual, and
// every crossing reachable from the component list.
func (L *Link) Validate() error {
	n := L.NumCrossings()
	if n == 0 {
		if len(L.comps) == 0 {
			return goknot.ErrBadDiagram
		}
		return nil
	}
	if err := L.checkConnections(false); err != nil {
		return err
	}

	visited := make([]bool, 2*n)
	for _, entry := range L.comps {
		if entry.IsNil() {
			continue
		}
		at := entry
		for {
			slot := 2*at.Cross + int32(at.Strand)
			if visited[slot] {
				return goknot.ErrBadDiagram
			}
			visited[slot] = true
			at = L.Next(at)
			if at == entry {
				break
			}
		}
	}
	for _, seen := range visited {
		if !seen {
			// a strand slot unreachable from any listed component
			return goknot.ErrBadDiagram
		}
	}
	return nil
}

func (L *Link) GetInfo() goknot.DiagramInfo {
	pos, neg := L.signTally()
	return goknot.DiagramInfo{
		NumCrossings: L.NumCrossings(),
		NumPos:       pos,
		NumNeg:       neg,
		NumStrings:   len(L.comps),
	}
}

func (L *Link) WriteAsString(out io.Writer, opts goknot.PrintOpts) {
	if opts.Label != "" {
		fmt.Fprintf(out, "%s,", opts.Label)
	}
	info := L.GetInfo()
	fmt.Fprintf(out, "n=%d,c=%d,", info.NumCrossings, info.NumStrings)
	if opts.GaussCode {
		fmt.Fprintf(out, "%q,", L.GaussCode())
	}
	if opts.Crossings {
		L.writeCrossingTable(out)
	}
	if opts.Sig {
		sig, err := L.Sig(true, true)
		if err != nil {
			fmt.Fprintf(out, "sig-err=%q,", err.Error())
		} else {
			fmt.Fprintf(out, "%s,", sig)
		}
	}
}

func (d *diagram) writeCrossingTable(out io.Writer) {
	out.Write([]byte("\"{"))
	for i := range d.crossings {
		c := &d.crossings[i]
		if i > 0 {
			out.Write([]byte(","))
		}
		fmt.Fprintf(out, "{%+d", c.Sign)
		for s := 1; s >= 0; s-- {
			nxt := c.next[s]
			if nxt.IsNil() {
				out.Write([]byte(" ."))
			} else {
				fmt.Fprintf(out, " %d:%d", nxt.Cross, nxt.Strand)
			}
		}
		out.Write([]byte("}"))
	}
	out.Write([]byte("}\","))
}

func (L *Link) Println(prefix string) {
	b := strings.Builder{}
	b.Grow(192)
	b.WriteString(prefix)
	L.WriteAsString(&b, goknot.DefaultPrintOpts)
	fmt.Println(b.String())
}
