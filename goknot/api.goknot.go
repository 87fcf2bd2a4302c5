package goknot

import (
	"io"
)

// SigAlphabet is the 64-character alphabet used for signature strings.
// One character encodes one radix-64 digit (6 bits).
const SigAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789+-"

// SigSentinel is the header digit announcing a multi-digit crossing count.
const SigSentinel = 63

// Signature is the canonical, invertible text form of a diagram.
// Equal diagrams (up to the enabled symmetry group) yield equal Signatures.
type Signature string

// Token is one visited (crossing, strand, sign) triple of a diagram walk.
// Crossing is re-indexed relative to the walk's own start: the first crossing
// visited is 0, the next distinct crossing is 1, and so on.
type Token struct {
	Crossing int32
	Strand   uint8 // 1 denotes the upper pass, 0 the lower
	Sign     int8  // +1 or -1
}

// Seq is a complete diagram walk: 2n Tokens for an n-crossing diagram.
type Seq []Token

// CompareTokens orders two Tokens the way candidate walks are ranked:
// lower Crossing first, then upper strand before lower, then positive sign
// before negative.  Returns <0 if a ranks first, >0 if b ranks first.
func CompareTokens(a, b Token) int {
	if d := a.Crossing - b.Crossing; d != 0 {
		return int(d)
	}
	if d := int(b.Strand) - int(a.Strand); d != 0 {
		return d
	}
	return int(b.Sign) - int(a.Sign)
}

// Compare ranks two Seqs lexicographically by CompareTokens.
// A shorter Seq that is a prefix of the other ranks first.
func (seq Seq) Compare(other Seq) int {
	N := len(seq)
	if len(other) < N {
		N = len(other)
	}
	for i := 0; i < N; i++ {
		if d := CompareTokens(seq[i], other[i]); d != 0 {
			return d
		}
	}
	return len(seq) - len(other)
}

// TangleType tags how a tangle's two strings connect through its boundary.
type TangleType byte

const (
	TangleHoriz TangleType = '-' // both strings run side to side
	TangleVert  TangleType = '|' // both strings run top to bottom
	TangleDiag  TangleType = 'x' // the strings cross diagonally
)

// Ord returns the radix-64 digit used to encode this type tag.
func (tt TangleType) Ord() (byte, error) {
	switch tt {
	case TangleHoriz:
		return 0, nil
	case TangleVert:
		return 1, nil
	case TangleDiag:
		return 2, nil
	}
	return 0, ErrBadTangleType
}

// TangleTypeFromOrd is the inverse of TangleType.Ord.
func TangleTypeFromOrd(ord byte) (TangleType, error) {
	switch ord {
	case 0:
		return TangleHoriz, nil
	case 1:
		return TangleVert, nil
	case 2:
		return TangleDiag, nil
	}
	return 0, ErrBadTangleType
}

// DiagramInfo tallies the defining counts of a diagram.
type DiagramInfo struct {
	NumCrossings int
	NumPos       int
	NumNeg       int
	NumStrings   int // components for a link, boundary strings (2) for a tangle
}

// Diagram is any crossing graph that can produce a canonical signature.
type Diagram interface {

	// NumCrossings returns the number of crossings in this diagram.
	NumCrossings() int

	// Sig computes the canonical signature under the given symmetry settings.
	Sig(useReflection, useReversal bool) (Signature, error)

	// GetInfo returns the defining counts of this diagram.
	GetInfo() DiagramInfo

	// WriteAsString writes a human-readable rendering per opts.
	WriteAsString(out io.Writer, opts PrintOpts)
}

// PrintOpts specifies what is printed when printing a diagram
type PrintOpts struct {
	Label     string // Prefix label
	GaussCode bool   // If set, prints the diagram's Gauss code
	Crossings bool   // If set, prints the crossing connection table
	Sig       bool   // If set, prints the canonical signature
}

// DefaultPrintOpts is what Println uses.
var DefaultPrintOpts = PrintOpts{
	GaussCode: true,
	Sig:       true,
}

// OnSigHit is a callback channel used to return signatures meeting a set of
// selection criteria.
type OnSigHit chan<- Signature

// SigSelector bounds which catalog entries a Select call returns.
type SigSelector struct {
	MinCrossings int
	MaxCrossings int // 0 means no upper bound
}

// CatalogOpts specifies params for opening a signature Catalog
type CatalogOpts struct {
	DbPathName    string // omit for an in-memory db
	ReadOnly      bool   // open in read-only mode
	CrossingLimit int    // max crossing count the catalog tracks counts for
}

// Catalog wraps a database of canonical diagram signatures.
type Catalog interface {

	// TryAddSig adds the given signature if not already present.
	// Returns true if the signature was newly added.
	TryAddSig(sig Signature, numCrossings int) (bool, error)

	// NumSigs returns the number of unique signatures stored for a given
	// crossing count.  An out of bounds crossing count returns 0.
	NumSigs(forCrossingCount int) int64

	// Select fires the given callback with each stored signature that meets
	// the selection criteria.
	Select(sel SigSelector, onHit OnSigHit) error

	// Returns true if this catalog was opened for read-only access.
	IsReadOnly() bool

	Close() error
}

// CatalogContext is a container for open / active Catalog instances.
type CatalogContext interface {

	// Attaches the given Catalog to this context.
	AttachCatalog(cat Catalog)

	// Detaches the given Catalog from this context.
	DetachCatalog(cat Catalog)

	// Signals all open catalogs to close, then closes.
	Close()

	// Closing signals that Close() has begun.
	Closing() <-chan struct{}

	// Done signals when Close() completed and all open Catalogs have closed.
	Done() <-chan struct{}
}
