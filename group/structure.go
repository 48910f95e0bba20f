package group

import (
	"errors"
	"fmt"
	"math/big"
	"sync"
)

// ErrNotInGroup is returned by DiscreteLog for elements outside the span
// of the generators.
var ErrNotInGroup = errors.New("element is not in the group")

// ErrNotAbelianGroup is returned by Structure when the given elements are
// not closed under the group law or do not form an abelian group.
var ErrNotAbelianGroup = errors.New("elements do not form a finite abelian group")

// Decomposition is the invariant factor decomposition
//
//	G = Z/n_1 + Z/n_2 + ... + Z/n_k,  n_{i+1} | n_i,
//
// of a finite abelian group together with generators g_i of order n_i.
type Decomposition[E any] struct {
	// Orders holds the invariant factors n_i, largest first.
	Orders []*big.Int
	// Gens holds generators with Gens[i] of order Orders[i].
	Gens []E

	g     Group[E]
	once  sync.Once
	table map[string][]int64
}

// Order returns the product of the invariant factors.
func (d *Decomposition[E]) Order() *big.Int {
	n := big.NewInt(1)
	for _, o := range d.Orders {
		n.Mul(n, o)
	}
	return n
}

// Element returns sum(coords[i] * Gens[i]).
func (d *Decomposition[E]) Element(coords []*big.Int) (E, error) {
	acc := d.g.Zero()
	if len(coords) != len(d.Gens) {
		return acc, fmt.Errorf("got %d coordinates for %d generators", len(coords), len(d.Gens))
	}
	for i, c := range coords {
		acc = d.g.Add(acc, Multiple(d.g, d.Gens[i], c))
	}
	return acc, nil
}

// DiscreteLog returns the coordinates c with x = sum(c[i] * Gens[i]) and
// 0 <= c[i] < Orders[i]. The lookup table is built on first use and holds
// one entry per group element.
func (d *Decomposition[E]) DiscreteLog(x E) ([]*big.Int, error) {
	d.once.Do(d.buildTable)
	c, ok := d.table[d.g.Key(x)]
	if !ok {
		return nil, ErrNotInGroup
	}
	out := make([]*big.Int, len(c))
	for i, v := range c {
		out[i] = big.NewInt(v)
	}
	return out, nil
}

func (d *Decomposition[E]) buildTable() {
	type entry struct {
		x E
		c []int64
	}
	cur := []entry{{x: d.g.Zero()}}
	for i, gen := range d.Gens {
		n := d.Orders[i].Int64()
		next := make([]entry, 0, len(cur)*int(n))
		step := d.g.Zero()
		for k := int64(0); k < n; k++ {
			for _, e := range cur {
				c := make([]int64, i+1)
				copy(c, e.c)
				c[i] = k
				next = append(next, entry{x: d.g.Add(e.x, step), c: c})
			}
			step = d.g.Add(step, gen)
		}
		cur = next
	}
	d.table = make(map[string][]int64, len(cur))
	for _, e := range cur {
		d.table[d.g.Key(e.x)] = e.c
	}
}

// Structure computes the invariant factors of the finite abelian group
// whose complete list of elements is elems, together with generators
// realising them.
//
// The group is split into its Sylow subgroups. In each p-subgroup a basis
// is built greedily: the element y of largest order modulo the span H of
// the basis so far is picked, say of order p^e modulo H, and corrected by
// some z in H with p^e*z = p^e*y so that y - z has order exactly p^e and
// meets H trivially. The p-parts are then recombined into invariant
// factors. The result is deterministic for a given ordering of elems.
func Structure[E any](g Group[E], elems []E) (*Decomposition[E], error) {
	n := big.NewInt(int64(len(elems)))
	if len(elems) == 0 {
		return nil, fmt.Errorf("empty element list: %w", ErrNotAbelianGroup)
	}

	orders := make([]*big.Int, len(elems))
	for i, x := range elems {
		o, err := OrderFromMultiple(g, x, n)
		if err != nil {
			return nil, fmt.Errorf("element %s: %w", g.Key(x), ErrNotAbelianGroup)
		}
		orders[i] = o
	}

	type sylow struct {
		gens []E
		ords []*big.Int
	}
	var parts []sylow
	k := 0
	for _, pp := range Factor(n) {
		var P []E
		for i, x := range elems {
			if isPowerOf(orders[i], pp.P) {
				P = append(P, x)
			}
		}
		want := new(big.Int).Exp(pp.P, big.NewInt(int64(pp.E)), nil)
		if big.NewInt(int64(len(P))).Cmp(want) != 0 {
			return nil, fmt.Errorf("sylow %s-subgroup has %d elements, want %s: %w", pp.P, len(P), want, ErrNotAbelianGroup)
		}
		gens, ords, err := sylowBasis(g, P, pp.P)
		if err != nil {
			return nil, err
		}
		parts = append(parts, sylow{gens: gens, ords: ords})
		k = max(k, len(gens))
	}

	dec := &Decomposition[E]{g: g}
	for i := 0; i < k; i++ {
		ord := big.NewInt(1)
		gen := g.Zero()
		for _, s := range parts {
			if i < len(s.gens) {
				ord.Mul(ord, s.ords[i])
				gen = g.Add(gen, s.gens[i])
			}
		}
		dec.Orders = append(dec.Orders, ord)
		dec.Gens = append(dec.Gens, gen)
	}
	if dec.Order().Cmp(n) != 0 {
		return nil, fmt.Errorf("invariant factors multiply to %s, want %s: %w", dec.Order(), n, ErrNotAbelianGroup)
	}
	return dec, nil
}

func isPowerOf(n, p *big.Int) bool {
	m := new(big.Int).Set(n)
	r := new(big.Int)
	q := new(big.Int)
	for m.Cmp(one) != 0 {
		q.QuoRem(m, p, r)
		if r.Sign() != 0 {
			return false
		}
		m.Set(q)
	}
	return true
}

// sylowBasis returns a basis of the abelian p-group P with generator
// orders in non-increasing order.
func sylowBasis[E any](g Group[E], P []E, p *big.Int) ([]E, []*big.Int, error) {
	span := []E{g.Zero()}
	inSpan := map[string]bool{g.Key(g.Zero()): true}

	var gens []E
	var ords []*big.Int
	for len(span) < len(P) {
		// y of largest order modulo the current span
		var y E
		best := new(big.Int)
		for _, x := range P {
			q := big.NewInt(1)
			cur := x
			for !inSpan[g.Key(cur)] {
				cur = Multiple(g, cur, p)
				q.Mul(q, p)
			}
			if q.Cmp(best) > 0 {
				y, best = x, q
			}
		}
		if best.Cmp(one) <= 0 {
			return nil, nil, fmt.Errorf("%s-subgroup is not closed: %w", p, ErrNotAbelianGroup)
		}

		// y - z has order exactly best and meets the span trivially.
		h := Multiple(g, y, best)
		found := false
		for _, z := range span {
			if g.Equal(Multiple(g, z, best), h) {
				y = Sub(g, y, z)
				found = true
				break
			}
		}
		if !found {
			return nil, nil, fmt.Errorf("no %s-th root in span: %w", best, ErrNotAbelianGroup)
		}
		gens = append(gens, y)
		ords = append(ords, best)

		next := make([]E, 0, len(span)*int(best.Int64()))
		step := g.Zero()
		for i := int64(0); i < best.Int64(); i++ {
			for _, w := range span {
				next = append(next, g.Add(w, step))
			}
			step = g.Add(step, y)
		}
		span = next
		for _, w := range span {
			inSpan[g.Key(w)] = true
		}
		if len(inSpan) != len(span) {
			return nil, nil, fmt.Errorf("basis is not independent: %w", ErrNotAbelianGroup)
		}
	}
	return gens, ords, nil
}

// NewDecomposition wraps known invariant factors and generators, for
// example ones computed by an external algorithm. The caller is
// responsible for gens[i] having order orders[i] and for the generators
// being independent.
func NewDecomposition[E any](g Group[E], orders []*big.Int, gens []E) (*Decomposition[E], error) {
	if len(orders) != len(gens) {
		return nil, fmt.Errorf("%d orders for %d generators", len(orders), len(gens))
	}
	for i, gen := range gens {
		if !HasOrder(g, gen, orders[i]) {
			return nil, fmt.Errorf("generator %s does not have order %s: %w", g.Key(gen), orders[i], ErrNotAbelianGroup)
		}
	}
	return &Decomposition[E]{Orders: orders, Gens: gens, g: g}, nil
}
