package libknot

import (
	"strings"
	"sync"

	"github.com/emirpasic/gods/trees/redblacktree"
	"github.com/strand-systems/knotsig/goknot"
)

type sigKey struct {
	crossings int
	sig       goknot.Signature
}

// SigSet is an in-memory Catalog: an ordered set of canonical signatures
// keyed by crossing count, suitable for small enumeration runs and tests
// where a persistent database is not wanted.
type SigSet struct {
	mu     sync.Mutex
	tree   redblacktree.Tree
	counts map[int]int64
}

func NewSigSet() *SigSet {
	return &SigSet{
		tree: redblacktree.Tree{
			Comparator: func(A, B interface{}) int {
				a := A.(sigKey)
				b := B.(sigKey)
				if d := a.crossings - b.crossings; d != 0 {
					return d
				}
				return strings.Compare(string(a.sig), string(b.sig))
			},
		},
		counts: make(map[int]int64),
	}
}

// TryAddSig adds the given signature if not already present.
// Returns true if the signature was newly added.
func (set *SigSet) TryAddSig(sig goknot.Signature, numCrossings int) (bool, error) {
	key := sigKey{crossings: numCrossings, sig: sig}

	set.mu.Lock()
	defer set.mu.Unlock()

	if _, found := set.tree.Get(key); found {
		return false, nil
	}
	set.tree.Put(key, nil)
	set.counts[numCrossings]++
	return true, nil
}

func (set *SigSet) NumSigs(forCrossingCount int) int64 {
	set.mu.Lock()
	defer set.mu.Unlock()
	return set.counts[forCrossingCount]
}

// Select fires onHit with each stored signature in (crossing count, sig)
// order that meets the selection criteria.
func (set *SigSet) Select(sel goknot.SigSelector, onHit goknot.OnSigHit) error {
	set.mu.Lock()
	hits := make([]goknot.Signature, 0, set.tree.Size())
	for _, k := range set.tree.Keys() {
		key := k.(sigKey)
		if key.crossings < sel.MinCrossings {
			continue
		}
		if sel.MaxCrossings > 0 && key.crossings > sel.MaxCrossings {
			break
		}
		hits = append(hits, key.sig)
	}
	set.mu.Unlock()

	for _, sig := range hits {
		onHit <- sig
	}
	return nil
}

func (set *SigSet) IsReadOnly() bool {
	return false
}

// Close removes all previously added signatures from this set.
func (set *SigSet) Close() error {
	set.mu.Lock()
	defer set.mu.Unlock()
	set.tree.Clear()
	set.counts = make(map[int]int64)
	return nil
}
