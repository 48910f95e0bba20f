package group

import (
	"math/big"
)

// Group describes a finite additive abelian group whose elements have type
// E. Implementations must treat elements as immutable values.
type Group[E any] interface {
	// Zero returns the neutral element.
	Zero() E
	// Add returns a+b.
	Add(a, b E) E
	// Negate returns -a.
	Negate(a E) E
	// Equal reports whether a and b are the same element.
	Equal(a, b E) bool
	// Key returns a canonical string for a. Equal elements must have equal
	// keys and distinct elements distinct keys.
	Key(a E) string
}

// IsZero reports whether x is the neutral element of g.
func IsZero[E any](g Group[E], x E) bool {
	return g.Equal(x, g.Zero())
}

// Sub returns a-b.
func Sub[E any](g Group[E], a, b E) E {
	return g.Add(a, g.Negate(b))
}

// Multiple returns n*x using left-to-right double-and-add. A negative n
// multiplies -x by |n|, and n = 0 gives the neutral element.
func Multiple[E any](g Group[E], x E, n *big.Int) E {
	if n.Sign() < 0 {
		x = g.Negate(x)
	}
	e := new(big.Int).Abs(n)
	acc := g.Zero()
	for i := e.BitLen() - 1; i >= 0; i-- {
		acc = g.Add(acc, acc)
		if e.Bit(i) == 1 {
			acc = g.Add(acc, x)
		}
	}
	return acc
}

// MultipleInt64 is Multiple for machine-sized n.
func MultipleInt64[E any](g Group[E], x E, n int64) E {
	return Multiple(g, x, big.NewInt(n))
}
