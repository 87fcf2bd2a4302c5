package libknot

// EnumOpts bounds a diagram enumeration run.
type EnumOpts struct {
	MinCrossings int
	MaxCrossings int
}

// EnumKnots streams every single-component knot diagram with a crossing
// count in the given range: every pairing of the 2n walk positions into n
// crossings, crossed with every upper-pass assignment and every sign
// assignment.  Diagrams are emitted as built, not deduplicated; pipe the
// stream through a Catalog to collapse them to canonical signatures.
func EnumKnots(opts EnumOpts) *DiagramStream {
	stream := NewDiagramStream()

	go func() {
		if opts.MinCrossings <= 0 {
			stream.Outlet <- NewUnknot()
		}
		lo := opts.MinCrossings
		if lo < 1 {
			lo = 1
		}
		for n := lo; n <= opts.MaxCrossings; n++ {
			enumKnotDiagrams(n, func(L *Link) {
				stream.Outlet <- L
			})
		}
		stream.Close()
	}()

	return stream
}

// enumKnotDiagrams yields every n-crossing knot diagram exactly once.
// The walk positions 0..2n-1 are paired left to right, so pairings are
// generated in a stable order and none is produced twice.
func enumKnotDiagrams(n int, yield func(*Link)) {
	N := 2 * n
	pairs := make([][2]int, 0, n)
	taken := make([]bool, N)

	var pairUp func(from int)
	pairUp = func(from int) {
		p := from
		for p < N && taken[p] {
			p++
		}
		if p == N {
			emitPairings(n, pairs, yield)
			return
		}
		taken[p] = true
		for q := p + 1; q < N; q++ {
			if taken[q] {
				continue
			}
			taken[q] = true
			pairs = append(pairs, [2]int{p, q})
			pairUp(p + 1)
			pairs = pairs[:len(pairs)-1]
			taken[q] = false
		}
		taken[p] = false
	}
	pairUp(0)
}

// emitPairings yields every upper-pass and sign assignment of one pairing.
func emitPairings(n int, pairs [][2]int, yield func(*Link)) {
	N := 2 * n
	slots := make([]StrandRef, N)

	for over := 0; over < 1<<n; over++ {
		for c, pair := range pairs {
			s := uint8(over>>c) & 1
			slots[pair[0]] = StrandRef{Cross: int32(c), Strand: s}
			slots[pair[1]] = StrandRef{Cross: int32(c), Strand: s ^ 1}
		}
		for signs := 0; signs < 1<<n; signs++ {
			L := NewLink(n)
			for c := 0; c < n; c++ {
				sign := int8(1)
				if signs&(1<<c) != 0 {
					sign = -1
				}
				L.SetSign(c, sign)
			}
			// each slot appears exactly once in the walk, so Connect never
			// hits an occupied slot
			for k := 0; k < N; k++ {
				L.Connect(slots[k], slots[(k+1)%N])
			}
			L.AddComponent(slots[0])
			yield(L)
		}
	}
}
