package bqf

import (
	"fmt"
	"math/big"
)

// floorDiv returns floor(x / y) for y != 0.
func floorDiv(x, y *big.Int) *big.Int {
	r := new(big.Int)
	q, _ := new(big.Int).QuoRem(x, y, r)
	if (r.Sign() > 0 && y.Sign() < 0) || (r.Sign() < 0 && y.Sign() > 0) {
		q.Sub(q, one)
	}
	return q
}

// IsNormal reports whether -a < b <= a.
func (f *Form) IsNormal() bool {
	negA := new(big.Int).Neg(f.a)
	return f.b.Cmp(negA) > 0 && f.b.Cmp(f.a) <= 0
}

// IsReduced reports whether f is the reduced representative of its class,
// that is |b| <= a <= c with b >= 0 whenever |b| = a or a = c.
func (f *Form) IsReduced() bool {
	if f.a.Sign() <= 0 {
		return false
	}
	absB := new(big.Int).Abs(f.b)
	if absB.Cmp(f.a) > 0 || f.a.Cmp(f.c) > 0 {
		return false
	}
	if (absB.Cmp(f.a) == 0 || f.a.Cmp(f.c) == 0) && f.b.Sign() < 0 {
		return false
	}
	return true
}

// Normalize returns the properly equivalent form with -a < b <= a.
// f must have a > 0.
func (f *Form) Normalize() *Form {
	if f.IsNormal() {
		return f
	}
	// r = (a - b) div 2a
	twoA := new(big.Int).Lsh(f.a, 1)
	r := floorDiv(new(big.Int).Sub(f.a, f.b), twoA)

	// b' = b + 2ra, c' = a*r^2 + b*r + c
	b := new(big.Int).Mul(twoA, r)
	b.Add(b, f.b)
	c := new(big.Int).Mul(f.a, r)
	c.Add(c, f.b)
	c.Mul(c, r)
	c.Add(c, f.c)
	return newOwned(f.A(), b, c)
}

// Reduce returns the unique reduced form properly equivalent to f.
// It fails with ErrNotPositiveDefinite unless f is positive definite.
func (f *Form) Reduce() (*Form, error) {
	if !f.IsPositiveDefinite() {
		return nil, fmt.Errorf("reduce %d: %w", f, ErrNotPositiveDefinite)
	}
	return f.reduce(), nil
}

// reduce assumes f is positive definite.
func (f *Form) reduce() *Form {
	g := f.Normalize()
	a, b, c := g.A(), g.B(), g.C()

	twoC := new(big.Int)
	t := new(big.Int)
	for a.Cmp(c) > 0 || (a.Cmp(c) == 0 && b.Sign() < 0) {
		// s = (c + b) div 2c
		twoC.Lsh(c, 1)
		s := floorDiv(t.Add(c, b), twoC)

		// (a, b, c) <- (c, -b + 2sc, c*s^2 - b*s + a)
		nb := new(big.Int).Mul(twoC, s)
		nb.Sub(nb, b)
		nc := new(big.Int).Mul(c, s)
		nc.Sub(nc, b)
		nc.Mul(nc, s)
		nc.Add(nc, a)
		a, b, c = c, nb, nc
	}
	return newOwned(a, b, c).Normalize()
}
