/*Package symbolic implements the small amount of computer algebra needed to
expand products of Legendre series: multivariate polynomials whose variables
are cos(angle) and sin(angle) atoms and whose coefficients are float64s.

Every Poly is kept fully expanded, so "expand" is never a separate step, and
no Poly is ever modified after it is returned.
*/
package symbolic

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// ErrDerivation is wrapped by every error which comes out of a symbolic
// derivation that could not be reduced to the expected form.
var ErrDerivation = errors.New("symbolic derivation failed")

// simplifyTol is the size, relative to the largest coefficient, below which
// Simplify treats a coefficient as cancelled round-off.
const simplifyTol = 1e-13

type Func uint8

const (
	CosFunc Func = iota
	SinFunc
)

// Atom is a single trigonometric function applied to a named angle.
type Atom struct {
	Func  Func
	Angle string
}

func CosAtom(angle string) Atom { return Atom{CosFunc, angle} }
func SinAtom(angle string) Atom { return Atom{SinFunc, angle} }

func (a Atom) String() string {
	if a.Func == SinFunc {
		return fmt.Sprintf("sin(%s)", a.Angle)
	}
	return fmt.Sprintf("cos(%s)", a.Angle)
}

// Eval returns the value of the atom at the given angle.
func (a Atom) Eval(x float64) float64 {
	if a.Func == SinFunc {
		return math.Sin(x)
	}
	return math.Cos(x)
}

func (a Atom) less(b Atom) bool {
	if a.Angle != b.Angle {
		return a.Angle < b.Angle
	}
	return a.Func < b.Func
}

type factor struct {
	atom Atom
	exp  int
}

// term is coef * prod(factors). factors are sorted and all exponents are
// positive.
type term struct {
	factors []factor
	coef    float64
}

func (t term) key() string {
	sb := strings.Builder{}
	for _, f := range t.factors {
		if f.atom.Func == SinFunc {
			sb.WriteByte('s')
		} else {
			sb.WriteByte('c')
		}
		sb.WriteString(f.atom.Angle)
		sb.WriteByte('^')
		sb.WriteString(strconv.Itoa(f.exp))
		sb.WriteByte(';')
	}
	return sb.String()
}

// exp returns the exponent of a in t.
func (t term) exp(a Atom) int {
	for _, f := range t.factors {
		if f.atom == a {
			return f.exp
		}
	}
	return 0
}

// without returns a copy of t with the atom a removed.
func (t term) without(a Atom) term {
	out := term{coef: t.coef, factors: make([]factor, 0, len(t.factors))}
	for _, f := range t.factors {
		if f.atom != a {
			out.factors = append(out.factors, f)
		}
	}
	return out
}

func mergeFactors(a, b []factor) []factor {
	out := make([]factor, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i].atom == b[j].atom:
			out = append(out, factor{a[i].atom, a[i].exp + b[j].exp})
			i++
			j++
		case a[i].atom.less(b[j].atom):
			out = append(out, a[i])
			i++
		default:
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Poly is an expanded polynomial in trigonometric atoms. The zero value is
// the zero polynomial.
type Poly struct {
	terms map[string]term
}

func newPoly(n int) Poly { return Poly{make(map[string]term, n)} }

func (p Poly) addTerm(t term) {
	if t.coef == 0 {
		return
	}
	k := t.key()
	if old, ok := p.terms[k]; ok {
		old.coef += t.coef
		p.terms[k] = old
	} else {
		p.terms[k] = t
	}
}

// Const returns the constant polynomial c.
func Const(c float64) Poly {
	p := newPoly(1)
	p.addTerm(term{coef: c})
	return p
}

// Cos returns the polynomial cos(angle).
func Cos(angle string) Poly { return AtomPoly(CosAtom(angle)) }

// Sin returns the polynomial sin(angle).
func Sin(angle string) Poly { return AtomPoly(SinAtom(angle)) }

func AtomPoly(a Atom) Poly {
	p := newPoly(1)
	p.addTerm(term{coef: 1, factors: []factor{{a, 1}}})
	return p
}

// Len returns the number of terms in p.
func (p Poly) Len() int { return len(p.terms) }

func (p Poly) IsZero() bool { return len(p.terms) == 0 }

func (p Poly) Add(q Poly) Poly {
	out := newPoly(len(p.terms) + len(q.terms))
	for _, t := range p.terms {
		out.addTerm(t)
	}
	for _, t := range q.terms {
		out.addTerm(t)
	}
	return out.dropZeros()
}

func (p Poly) Sub(q Poly) Poly { return p.Add(q.Scale(-1)) }

func (p Poly) Scale(c float64) Poly {
	out := newPoly(len(p.terms))
	if c == 0 {
		return out
	}
	for k, t := range p.terms {
		out.terms[k] = term{factors: t.factors, coef: t.coef * c}
	}
	return out
}

func (p Poly) Mul(q Poly) Poly {
	out := newPoly(len(p.terms) * len(q.terms))
	for _, t1 := range p.terms {
		for _, t2 := range q.terms {
			out.addTerm(term{
				factors: mergeFactors(t1.factors, t2.factors),
				coef:    t1.coef * t2.coef,
			})
		}
	}
	return out.dropZeros()
}

// Pow returns p^n for n >= 0.
func (p Poly) Pow(n int) Poly {
	if n < 0 {
		panic(fmt.Sprintf("Poly.Pow() given negative exponent %d.", n))
	}
	out, sq := Const(1), p
	for ; n > 0; n >>= 1 {
		if n&1 == 1 {
			out = out.Mul(sq)
		}
		if n > 1 {
			sq = sq.Mul(sq)
		}
	}
	return out
}

func (p Poly) dropZeros() Poly {
	for k, t := range p.terms {
		if t.coef == 0 {
			delete(p.terms, k)
		}
	}
	return p
}

// Simplify removes terms whose coefficients are round-off left over from
// cancellation.
func (p Poly) Simplify() Poly {
	max := 0.0
	for _, t := range p.terms {
		if c := math.Abs(t.coef); c > max {
			max = c
		}
	}
	out := newPoly(len(p.terms))
	for k, t := range p.terms {
		if math.Abs(t.coef) > max*simplifyTol {
			out.terms[k] = t
		}
	}
	return out
}

// Subst replaces every power of the atom a with the matching power of repl.
func (p Poly) Subst(a Atom, repl Poly) Poly {
	pows := map[int]Poly{}
	out := newPoly(len(p.terms))
	for _, t := range p.terms {
		e := t.exp(a)
		if e == 0 {
			out.addTerm(t)
			continue
		}
		rp, ok := pows[e]
		if !ok {
			rp = repl.Pow(e)
			pows[e] = rp
		}
		rest := t.without(a)
		for _, rt := range rp.terms {
			out.addTerm(term{
				factors: mergeFactors(rest.factors, rt.factors),
				coef:    rest.coef * rt.coef,
			})
		}
	}
	return out.dropZeros()
}

// ReplacePowers replaces a^i with rules[i] wherever a appears with exactly
// the exponent i. Powers without a rule are left untouched. All rules are
// applied simultaneously, so the output of one rule is never matched by
// another.
func (p Poly) ReplacePowers(a Atom, rules map[int]Poly) Poly {
	out := newPoly(len(p.terms))
	for _, t := range p.terms {
		rp, ok := rules[t.exp(a)]
		if !ok || t.exp(a) == 0 {
			out.addTerm(t)
			continue
		}
		rest := t.without(a)
		for _, rt := range rp.terms {
			out.addTerm(term{
				factors: mergeFactors(rest.factors, rt.factors),
				coef:    rest.coef * rt.coef,
			})
		}
	}
	return out.dropZeros()
}

// Degree returns the largest exponent of a in p.
func (p Poly) Degree(a Atom) int {
	d := 0
	for _, t := range p.terms {
		if e := t.exp(a); e > d {
			d = e
		}
	}
	return d
}

// Coefficient returns the polynomial multiplying a^n in p.
func (p Poly) Coefficient(a Atom, n int) Poly {
	out := newPoly(0)
	for _, t := range p.terms {
		if t.exp(a) == n {
			out.addTerm(t.without(a))
		}
	}
	return out
}

// Parity returns the terms of p in which the exponent of a is even, if odd is
// false, or odd, if odd is true.
func (p Poly) Parity(a Atom, odd bool) Poly {
	out := newPoly(0)
	for k, t := range p.terms {
		if (t.exp(a)%2 == 1) == odd {
			out.terms[k] = t
		}
	}
	return out
}

// Contains returns true if any atom of p is a function of angle.
func (p Poly) Contains(angle string) bool {
	for _, t := range p.terms {
		for _, f := range t.factors {
			if f.atom.Angle == angle {
				return true
			}
		}
	}
	return false
}

// Angles returns the sorted names of every angle that appears in p.
func (p Poly) Angles() []string {
	set := map[string]bool{}
	for _, t := range p.terms {
		for _, f := range t.factors {
			set[f.atom.Angle] = true
		}
	}
	out := make([]string, 0, len(set))
	for a := range set {
		out = append(out, a)
	}
	sort.Strings(out)
	return out
}

// Eval evaluates p numerically. Every angle in p must have a value in vals.
func (p Poly) Eval(vals map[string]float64) (float64, error) {
	atoms := map[Atom]float64{}
	sum := 0.0
	for _, t := range p.terms {
		x := t.coef
		for _, f := range t.factors {
			v, ok := atoms[f.atom]
			if !ok {
				angle, ok := vals[f.atom.Angle]
				if !ok {
					return math.NaN(), fmt.Errorf(
						"No value given for angle '%s'.", f.atom.Angle,
					)
				}
				v = f.atom.Eval(angle)
				atoms[f.atom] = v
			}
			x *= ipow(v, f.exp)
		}
		sum += x
	}
	return sum, nil
}

func ipow(x float64, n int) float64 {
	out := 1.0
	for ; n > 0; n-- {
		out *= x
	}
	return out
}

// Equal returns true if every coefficient of p - q is no larger than tol.
func (p Poly) Equal(q Poly, tol float64) bool {
	for _, t := range p.Sub(q).terms {
		if math.Abs(t.coef) > tol {
			return false
		}
	}
	return true
}

func (p Poly) String() string {
	if len(p.terms) == 0 {
		return "0"
	}
	keys := make([]string, 0, len(p.terms))
	for k := range p.terms {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	strs := make([]string, len(keys))
	for i, k := range keys {
		t := p.terms[k]
		parts := []string{strconv.FormatFloat(t.coef, 'g', -1, 64)}
		for _, f := range t.factors {
			if f.exp == 1 {
				parts = append(parts, f.atom.String())
			} else {
				parts = append(parts, fmt.Sprintf("%s^%d", f.atom, f.exp))
			}
		}
		strs[i] = strings.Join(parts, "*")
	}
	return strings.Join(strs, " + ")
}

func (p Poly) GoString() string { return p.String() }
