package libknot

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/pkg/errors"
	"github.com/strand-systems/knotsig/goknot"
)

// GaussExpr is a signed Gauss code: one run of crossing passes per string,
// strings separated by ";".  Each pass names a crossing and which strand
// goes through it ("O3" over, "U3" under), followed by the crossing's sign:
//
//	O1+ U2+ O3- U1+ O2+ U3-
type GaussExpr struct {
	Strings []*GaussString `parser:"(@@ (';' @@)*)?"`
}

type GaussString struct {
	Steps []*GaussStep `parser:"@@*"`
}

type GaussStep struct {
	Pass string `parser:"@Ident"`
	Sign string `parser:"@('+' | '-')"`
}

var parseGaussExpr = participle.MustBuild[GaussExpr]()

type gaussStep struct {
	ref  StrandRef
	sign int8
}

// buildGaussSteps resolves the parsed expression to per-string slot
// sequences, assigning arena indices in first-appearance order. Every
// crossing label must occur exactly twice, once over and once under, with
// the same sign both times.
func buildGaussSteps(expr *GaussExpr) (strs [][]gaussStep, signs []int8, err error) {
	labelID := make(map[int]int32)
	var labels []int
	var passes [][2]bool

	strs = make([][]gaussStep, 0, len(expr.Strings))
	for _, gs := range expr.Strings {
		steps := make([]gaussStep, 0, len(gs.Steps))
		for _, st := range gs.Steps {
			var strand uint8
			switch st.Pass[0] {
			case 'O', 'o':
				strand = 1
			case 'U', 'u':
				strand = 0
			default:
				return nil, nil, errors.Wrapf(goknot.ErrBadGaussCode, "unrecognized pass %q", st.Pass)
			}
			label, convErr := strconv.Atoi(st.Pass[1:])
			if convErr != nil || label < 1 {
				return nil, nil, errors.Wrapf(goknot.ErrBadGaussCode, "bad crossing label %q", st.Pass)
			}
			id, ok := labelID[label]
			if !ok {
				id = int32(len(labels))
				labelID[label] = id
				labels = append(labels, label)
				passes = append(passes, [2]bool{})
				signs = append(signs, 0)
			}
			if passes[id][strand] {
				return nil, nil, errors.Wrapf(goknot.ErrBadGaussCode, "crossing %d passes %c twice", label, st.Pass[0])
			}
			passes[id][strand] = true
			sign := int8(1)
			if st.Sign == "-" {
				sign = -1
			}
			if signs[id] == 0 {
				signs[id] = sign
			} else if signs[id] != sign {
				return nil, nil, errors.Wrapf(goknot.ErrSignClash, "crossing %d", label)
			}
			steps = append(steps, gaussStep{
				ref:  StrandRef{Cross: id, Strand: strand},
				sign: sign,
			})
		}
		strs = append(strs, steps)
	}

	for id, p := range passes {
		if !p[0] || !p[1] {
			return nil, nil, errors.Wrapf(goknot.ErrBadGaussCode, "crossing %d missing its second pass", labels[id])
		}
	}
	return strs, signs, nil
}

// NewLinkFromGauss builds a Link from a signed Gauss code.  Each string is
// one closed component; the empty code is the zero-crossing unknot.
func NewLinkFromGauss(code string) (*Link, error) {
	expr, err := parseGaussExpr.ParseString("", code)
	if err != nil {
		return nil, errors.Wrap(goknot.ErrBadGaussCode, err.Error())
	}
	strs, signs, err := buildGaussSteps(expr)
	if err != nil {
		return nil, err
	}
	n := len(signs)
	if n == 0 {
		return NewUnknot(), nil
	}
	L := NewLink(n)
	for i, sign := range signs {
		L.SetSign(i, sign)
	}
	for _, steps := range strs {
		if len(steps) == 0 {
			continue
		}
		for k := range steps {
			next := steps[(k+1)%len(steps)]
			if err = L.Connect(steps[k].ref, next.ref); err != nil {
				return nil, err
			}
		}
		L.AddComponent(steps[0].ref)
	}
	if err = L.Validate(); err != nil {
		return nil, err
	}
	return L, nil
}

// NewTangleFromGauss builds a Tangle from a signed Gauss code carrying a
// type prefix, e.g. "x: O1+ U2- ; U1+ O2-".  A tangle has exactly two
// strings; either may be empty.
func NewTangleFromGauss(code string) (*Tangle, error) {
	sep := strings.IndexByte(code, ':')
	if sep < 0 {
		return nil, errors.Wrap(goknot.ErrBadGaussCode, "missing tangle type prefix")
	}
	typStr := strings.TrimSpace(code[:sep])
	if len(typStr) != 1 {
		return nil, errors.Wrapf(goknot.ErrBadGaussCode, "bad tangle type %q", typStr)
	}
	typ := goknot.TangleType(typStr[0])
	if _, err := typ.Ord(); err != nil {
		return nil, err
	}
	expr, err := parseGaussExpr.ParseString("", code[sep+1:])
	if err != nil {
		return nil, errors.Wrap(goknot.ErrBadGaussCode, err.Error())
	}
	strs, signs, err := buildGaussSteps(expr)
	if err != nil {
		return nil, err
	}
	if len(strs) > 2 {
		return nil, errors.Wrapf(goknot.ErrBadGaussCode, "tangle has %d strings, expected 2", len(strs))
	}

	T := NewTangle(typ, len(signs))
	for i, sign := range signs {
		T.SetSign(i, sign)
	}
	for si := 0; si < 2; si++ {
		var steps []gaussStep
		if si < len(strs) {
			steps = strs[si]
		}
		if len(steps) == 0 {
			T.SetString(si, NilRef, NilRef)
			continue
		}
		for k := 0; k+1 < len(steps); k++ {
			if err = T.Connect(steps[k].ref, steps[k+1].ref); err != nil {
				return nil, err
			}
		}
		T.SetString(si, steps[0].ref, steps[len(steps)-1].ref)
	}
	if err = T.Validate(); err != nil {
		return nil, err
	}
	return T, nil
}

// gaussSteps renders one walk from start as Gauss code steps, relabeling
// crossings 1-based in visit order via the caller's relID scratch.
func (d *diagram) gaussSteps(relID []int32, nextID *int32, start StrandRef) []string {
	var out []string
	if start.IsNil() {
		return out
	}
	at := start
	for {
		id := relID[at.Cross]
		if id < 0 {
			id = *nextID
			relID[at.Cross] = id
			*nextID++
		}
		pass := byte('U')
		if at.Strand == 1 {
			pass = 'O'
		}
		sign := byte('-')
		if d.crossings[at.Cross].Sign > 0 {
			sign = '+'
		}
		out = append(out, fmt.Sprintf("%c%d%c", pass, id, sign))
		at = d.Next(at)
		if at.IsNil() || at == start {
			return out
		}
	}
}

// GaussCode renders this link as a signed Gauss code, one string per
// component.
func (L *Link) GaussCode() string {
	relID := newWalkScratch(L.NumCrossings())
	for i := range relID {
		relID[i] = -1
	}
	nextID := int32(1)
	strs := make([]string, 0, len(L.comps))
	for _, entry := range L.comps {
		strs = append(strs, strings.Join(L.gaussSteps(relID, &nextID, entry), " "))
	}
	return strings.Join(strs, " ; ")
}

// GaussCode renders this tangle as a signed Gauss code with its type
// prefix.
func (T *Tangle) GaussCode() string {
	relID := newWalkScratch(T.NumCrossings())
	for i := range relID {
		relID[i] = -1
	}
	nextID := int32(1)
	s0 := strings.Join(T.gaussSteps(relID, &nextID, T.ends[0][0]), " ")
	s1 := strings.Join(T.gaussSteps(relID, &nextID, T.ends[1][0]), " ")
	return fmt.Sprintf("%c: %s ; %s", T.typ, s0, s1)
}
