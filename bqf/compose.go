package bqf

import (
	"fmt"
	"math/big"
)

// Compose returns a form in the product of the classes of f and g.
//
// The forms must be primitive, positive definite and of the same
// discriminant. The result is generally not reduced.
func Compose(f, g *Form) (*Form, error) {
	d := f.Discriminant()
	if d.Cmp(g.Discriminant()) != 0 {
		return nil, fmt.Errorf("compose %d and %d: %w", f, g, ErrDiscriminantMismatch)
	}
	if !f.IsPositiveDefinite() || !g.IsPositiveDefinite() {
		return nil, fmt.Errorf("compose %d and %d: %w", f, g, ErrNotPositiveDefinite)
	}
	return compose(f, g, d), nil
}

// compose is Shanks' variant of Dirichlet composition. It assumes both
// forms are primitive with positive leading coefficient and discriminant d.
func compose(f, g *Form, d *big.Int) *Form {
	if f.a.Cmp(g.a) > 0 {
		f, g = g, f
	}
	a1, b1 := f.a, f.b
	a2, b2, c2 := g.a, g.b, g.c

	// s = (b1 + b2) / 2, n = b2 - s
	s := new(big.Int).Add(b1, b2)
	s.Rsh(s, 1)
	n := new(big.Int).Sub(b2, s)

	// y1*a1 = d0 (mod a2) where d0 = gcd(a1, a2)
	y1 := new(big.Int)
	d0 := new(big.Int)
	if new(big.Int).Rem(a2, a1).Sign() == 0 {
		d0.Set(a1)
	} else {
		d0.GCD(y1, nil, a2, a1)
	}

	// d1 = gcd(s, d0) = x2*s + y2*d0
	x2 := new(big.Int)
	y2 := new(big.Int)
	d1 := new(big.Int)
	if new(big.Int).Rem(s, d0).Sign() == 0 {
		y2.SetInt64(-1)
		d1.Set(d0)
	} else {
		d1.GCD(x2, y2, s, d0)
		y2.Neg(y2)
	}

	v1 := new(big.Int).Quo(a1, d1)
	v2 := new(big.Int).Quo(a2, d1)

	// r = (y1*y2*n - x2*c2) mod v1
	r := new(big.Int).Mul(y1, y2)
	r.Mul(r, n)
	r.Sub(r, new(big.Int).Mul(x2, c2))
	r.Mod(r, v1)

	// b3 = b2 + 2*v2*r, a3 = v1*v2, c3 = (b3^2 - D) / 4a3
	b3 := new(big.Int).Mul(v2, r)
	b3.Lsh(b3, 1)
	b3.Add(b3, b2)
	a3 := new(big.Int).Mul(v1, v2)
	c3 := new(big.Int).Mul(b3, b3)
	c3.Sub(c3, d)
	c3.Quo(c3, new(big.Int).Lsh(a3, 2))
	return newOwned(a3, b3, c3)
}

// Mul composes f with g and reduces the result.
func (f *Form) Mul(g *Form) (*Form, error) {
	h, err := Compose(f, g)
	if err != nil {
		return nil, err
	}
	return h.reduce(), nil
}

// Square returns the reduced square of f.
func (f *Form) Square() (*Form, error) {
	return f.Mul(f)
}

// Pow returns the reduced form of f composed with itself n times, using
// left-to-right square and multiply. Negative exponents use the inverse
// class; n = 0 gives the principal form.
func (f *Form) Pow(n *big.Int) (*Form, error) {
	if !f.IsPositiveDefinite() {
		return nil, fmt.Errorf("pow %d: %w", f, ErrNotPositiveDefinite)
	}
	d := f.Discriminant()
	base := f.reduce()
	if n.Sign() < 0 {
		base = base.Negate().reduce()
	}
	e := new(big.Int).Abs(n)
	acc, err := Principal(d)
	if err != nil {
		return nil, err
	}
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = compose(acc, acc, d).reduce()
		if e.Bit(i) == 1 {
			acc = compose(acc, base, d).reduce()
		}
	}
	return acc, nil
}

// MulUnchecked composes and reduces like Mul but skips all validation.
// f and g must be primitive positive definite forms of the same
// discriminant.
func (f *Form) MulUnchecked(g *Form) *Form {
	return compose(f, g, f.Discriminant()).reduce()
}

// ReduceUnchecked is Reduce without the positive definiteness check.
func (f *Form) ReduceUnchecked() *Form {
	return f.reduce()
}
