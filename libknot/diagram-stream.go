package libknot

import (
	"fmt"
	"io"
	"strings"

	"github.com/strand-systems/knotsig/goknot"
)

// DiagramStream is a pipeline stage passing link diagrams between
// goroutines.  Operators consume their receiver's Outlet and return a new
// downstream stage, so stages compose left to right.
type DiagramStream struct {
	Outlet chan *Link
}

// AddSigOpts controls how a stream's diagrams are added to a Catalog.
type AddSigOpts struct {
	UseReflection    bool
	UseReversal      bool
	AutoCloseCatalog bool
}

// LinkSelector bounds which diagrams a Select stage passes through.
type LinkSelector struct {
	MinCrossings int
	MaxCrossings int // 0 means no upper bound
}

func (sel LinkSelector) AllowLink(L *Link) bool {
	n := L.NumCrossings()
	if n < sel.MinCrossings {
		return false
	}
	if sel.MaxCrossings > 0 && n > sel.MaxCrossings {
		return false
	}
	return true
}

func NewDiagramStream() *DiagramStream {
	return &DiagramStream{
		Outlet: make(chan *Link),
	}
}

// StreamLink wraps a single diagram as a one-shot stream.
func StreamLink(L *Link) *DiagramStream {
	next := NewDiagramStream()

	go func() {
		next.Outlet <- L.Copy()
		next.Close()
	}()

	return next
}

func (stream *DiagramStream) Close() {
	if stream.Outlet != nil {
		close(stream.Outlet)
	}
}

func (stream *DiagramStream) PushLink(L *Link) {
	stream.Outlet <- L.Copy()
}

func (stream *DiagramStream) PullLink() *Link {
	return <-stream.Outlet
}

// PullAll drains the stream, returning how many diagrams passed through.
func (stream *DiagramStream) PullAll() int {
	count := 0
	for range stream.Outlet {
		count++
	}
	return count
}

// Print writes each passing diagram to out per opts and forwards it
// downstream.
func (stream *DiagramStream) Print(out io.WriteCloser, opts goknot.PrintOpts) *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Link, 1),
	}

	go func() {
		buf := strings.Builder{}
		buf.Grow(256)

		count := 0
		for L := range stream.Outlet {
			if len(opts.Label) > 0 {
				buf.WriteString(opts.Label)
			}
			buf.WriteByte(',')

			count++
			fmt.Fprintf(&buf, "%06d,", count)
			L.WriteAsString(&buf, opts)
			buf.WriteByte('\n')
			out.Write([]byte(buf.String()))
			buf.Reset()
			next.Outlet <- L
		}
		out.Close()
		next.Close()
	}()

	return next
}

// AddTo computes each diagram's signature and offers it to the catalog,
// forwarding only diagrams whose signature was newly added.  Diagrams whose
// signature cannot be computed are dropped.
func (stream *DiagramStream) AddTo(cat goknot.Catalog, opts AddSigOpts) *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Link, 1),
	}

	go func() {
		for L := range stream.Outlet {
			sig, err := L.Sig(opts.UseReflection, opts.UseReversal)
			if err != nil {
				continue
			}
			wasAdded, err := cat.TryAddSig(sig, L.NumCrossings())
			if err == nil && wasAdded {
				next.Outlet <- L
			}
		}
		if opts.AutoCloseCatalog {
			cat.Close()
		}
		next.Close()
	}()

	return next
}

// SelectFromStream forwards only the diagrams the selector allows.
func (stream *DiagramStream) SelectFromStream(sel LinkSelector) *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Link, 1),
	}

	go func() {
		for L := range stream.Outlet {
			if sel.AllowLink(L) {
				next.Outlet <- L
			}
		}
		next.Close()
	}()

	return next
}

// SelectFromCatalog streams the decoded diagram of every stored signature
// meeting the selection criteria.
func SelectFromCatalog(cat goknot.Catalog, sel goknot.SigSelector) *DiagramStream {
	next := &DiagramStream{
		Outlet: make(chan *Link, 1),
	}

	onHit := make(chan goknot.Signature, 4)

	go func() {
		cat.Select(sel, onHit)
		close(onHit)
	}()

	go func() {
		for sig := range onHit {
			L, err := DecodeLinkSig(sig)
			if err == nil {
				next.Outlet <- L
			}
		}
		next.Close()
	}()

	return next
}
