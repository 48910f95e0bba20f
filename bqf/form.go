package bqf

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

var (
	// ErrInvalidDiscriminant is returned for integers that are zero or not
	// congruent to 0 or 1 modulo 4.
	ErrInvalidDiscriminant = errors.New("not a discriminant")
	// ErrDiscriminantMismatch is returned when two forms that must share a
	// discriminant do not.
	ErrDiscriminantMismatch = errors.New("forms have different discriminants")
	// ErrNotPositiveDefinite is returned by operations that are only
	// defined for positive definite forms.
	ErrNotPositiveDefinite = errors.New("form is not positive definite")
	// ErrNotIntegral is returned when (b^2 - D) is not divisible by 4a.
	ErrNotIntegral = errors.New("coefficients do not define an integral form")
)

var (
	zero = big.NewInt(0)
	one  = big.NewInt(1)
	two  = big.NewInt(2)
	four = big.NewInt(4)
)

// Form is the binary quadratic form a*x^2 + b*x*y + c*y^2.
//
// The zero value is not a usable form; construct forms with [New],
// [NewInt64] or [FromAB].
type Form struct {
	a, b, c *big.Int
}

// New returns the form with coefficients (a, b, c). The arguments are
// copied.
func New(a, b, c *big.Int) *Form {
	return &Form{
		a: new(big.Int).Set(a),
		b: new(big.Int).Set(b),
		c: new(big.Int).Set(c),
	}
}

// NewInt64 is a convenience wrapper around [New].
func NewInt64(a, b, c int64) *Form {
	return &Form{a: big.NewInt(a), b: big.NewInt(b), c: big.NewInt(c)}
}

// FromAB returns the form (a, b, c) of discriminant d, where
// c = (b^2 - d) / 4a.
func FromAB(a, b, d *big.Int) (*Form, error) {
	if a.Sign() == 0 {
		return nil, fmt.Errorf("leading coefficient is zero: %w", ErrNotIntegral)
	}
	num := new(big.Int).Mul(b, b)
	num.Sub(num, d)
	den := new(big.Int).Mul(a, four)
	c, r := new(big.Int).QuoRem(num, den, new(big.Int))
	if r.Sign() != 0 {
		return nil, fmt.Errorf("a=%s b=%s D=%s: %w", a, b, d, ErrNotIntegral)
	}
	return &Form{a: new(big.Int).Set(a), b: new(big.Int).Set(b), c: c}, nil
}

// newOwned wraps the given integers without copying them.
func newOwned(a, b, c *big.Int) *Form {
	return &Form{a: a, b: b, c: c}
}

// A returns a copy of the coefficient of x^2.
func (f *Form) A() *big.Int { return new(big.Int).Set(f.a) }

// B returns a copy of the coefficient of x*y.
func (f *Form) B() *big.Int { return new(big.Int).Set(f.b) }

// C returns a copy of the coefficient of y^2.
func (f *Form) C() *big.Int { return new(big.Int).Set(f.c) }

// Coefficients returns copies of (a, b, c).
func (f *Form) Coefficients() (a, b, c *big.Int) {
	return f.A(), f.B(), f.C()
}

// Discriminant returns b^2 - 4ac.
func (f *Form) Discriminant() *big.Int {
	d := new(big.Int).Mul(f.b, f.b)
	ac := new(big.Int).Mul(f.a, f.c)
	ac.Lsh(ac, 2)
	return d.Sub(d, ac)
}

// Content returns gcd(a, b, c).
func (f *Form) Content() *big.Int {
	g := new(big.Int).GCD(nil, nil, f.a, f.b)
	return g.GCD(nil, nil, g, f.c)
}

// IsPrimitive reports whether gcd(a, b, c) = 1.
func (f *Form) IsPrimitive() bool {
	return f.Content().Cmp(one) == 0
}

// IsPositiveDefinite reports whether a > 0 and the discriminant is
// negative.
func (f *Form) IsPositiveDefinite() bool {
	return f.a.Sign() > 0 && f.Discriminant().Sign() < 0
}

// IsNegativeDefinite reports whether a < 0 and the discriminant is
// negative.
func (f *Form) IsNegativeDefinite() bool {
	return f.a.Sign() < 0 && f.Discriminant().Sign() < 0
}

// IsIndefinite reports whether the discriminant is positive.
func (f *Form) IsIndefinite() bool {
	return f.Discriminant().Sign() > 0
}

// Negate returns (a, -b, c), which represents the inverse class.
func (f *Form) Negate() *Form {
	return newOwned(f.A(), new(big.Int).Neg(f.b), f.C())
}

// Equal reports whether f and g have identical coefficients.
func (f *Form) Equal(g *Form) bool {
	return f.a.Cmp(g.a) == 0 && f.b.Cmp(g.b) == 0 && f.c.Cmp(g.c) == 0
}

// Cmp compares the coefficient triples of f and g lexicographically and
// returns -1, 0 or +1.
func (f *Form) Cmp(g *Form) int {
	if r := f.a.Cmp(g.a); r != 0 {
		return r
	}
	if r := f.b.Cmp(g.b); r != 0 {
		return r
	}
	return f.c.Cmp(g.c)
}

// Key returns a string that identifies the coefficient triple, suitable as
// a map key.
func (f *Form) Key() string {
	return f.a.String() + "," + f.b.String() + "," + f.c.String()
}

// String renders the form as a polynomial, for example
// "5*x^2 - 3*x*y + 22*y^2".
func (f *Form) String() string {
	var sb strings.Builder
	writeTerm(&sb, f.a, "x^2")
	writeTerm(&sb, f.b, "x*y")
	writeTerm(&sb, f.c, "y^2")
	if sb.Len() == 0 {
		return "0"
	}
	return sb.String()
}

func writeTerm(sb *strings.Builder, coef *big.Int, monomial string) {
	if coef.Sign() == 0 {
		return
	}
	abs := new(big.Int).Abs(coef)
	switch {
	case sb.Len() == 0 && coef.Sign() < 0:
		sb.WriteString("-")
	case sb.Len() > 0 && coef.Sign() < 0:
		sb.WriteString(" - ")
	case sb.Len() > 0:
		sb.WriteString(" + ")
	}
	if abs.Cmp(one) != 0 {
		sb.WriteString(abs.String())
		sb.WriteString("*")
	}
	sb.WriteString(monomial)
}

// Format implements fmt.Formatter so that %v and %s print the polynomial
// and %d prints the coefficient triple as "(a, b, c)".
func (f *Form) Format(s fmt.State, verb rune) {
	switch verb {
	case 'd':
		fmt.Fprintf(s, "(%s, %s, %s)", f.a, f.b, f.c)
	default:
		fmt.Fprint(s, f.String())
	}
}
