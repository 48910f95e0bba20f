package bqf

import (
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"math"
	"math/big"
)

// ErrNotSplit is returned by PrimeForm when p is not an odd prime that
// splits for the given discriminant.
var ErrNotSplit = errors.New("prime does not split")

// ValidDiscriminant checks that d is non-zero and congruent to 0 or 1
// modulo 4.
func ValidDiscriminant(d *big.Int) error {
	if d.Sign() == 0 {
		return ErrInvalidDiscriminant
	}
	if r := new(big.Int).Mod(d, four).Int64(); r != 0 && r != 1 {
		return fmt.Errorf("%s mod 4 = %d: %w", d, r, ErrInvalidDiscriminant)
	}
	return nil
}

// Principal returns the principal form of discriminant d: (1, 0, -d/4)
// for d = 0 mod 4 and (1, 1, (1-d)/4) for d = 1 mod 4.
func Principal(d *big.Int) (*Form, error) {
	if err := ValidDiscriminant(d); err != nil {
		return nil, err
	}
	b := new(big.Int).Mod(d, two)
	return FromAB(big.NewInt(1), b, d)
}

// ReducedForms returns every primitive reduced form of the negative
// discriminant d in lexicographic order. The number of forms returned is
// the class number h(d).
//
// The enumeration runs in time proportional to |d| and is only supported
// for discriminants that fit in an int64.
func ReducedForms(d *big.Int) ([]*Form, error) {
	var forms []*Form
	err := eachReducedForm(d, func(a, b, c int64) {
		forms = append(forms, NewInt64(a, b, c))
	})
	if err != nil {
		return nil, err
	}
	return forms, nil
}

// CountReducedForms returns the number of primitive reduced forms of the
// negative discriminant d without materialising them.
func CountReducedForms(d *big.Int) (int64, error) {
	var n int64
	err := eachReducedForm(d, func(_, _, _ int64) { n++ })
	return n, err
}

func eachReducedForm(d *big.Int, fn func(a, b, c int64)) error {
	if err := ValidDiscriminant(d); err != nil {
		return err
	}
	if d.Sign() > 0 {
		return fmt.Errorf("enumerate reduced forms of %s: %w", d, ErrNotPositiveDefinite)
	}
	// |b| <= a <= sqrt(|d|/3) keeps b^2 - d well inside int64.
	if !d.IsInt64() || d.Int64() < -(1<<62) {
		return fmt.Errorf("enumerate reduced forms of %s: discriminant too large", d)
	}
	D := d.Int64()
	for a := int64(1); 3*a*a <= -D; a++ {
		fourA := 4 * a
		// b = D (mod 2)
		start := -a + 1
		if (start-D)&1 != 0 {
			start++
		}
		for b := start; b <= a; b += 2 {
			num := b*b - D
			if num%fourA != 0 {
				continue
			}
			c := num / fourA
			if c < a || (c == a && b < 0) {
				continue
			}
			if gcd64(gcd64(a, abs64(b)), c) != 1 {
				continue
			}
			fn(a, b, c)
		}
	}
	return nil
}

func gcd64(x, y int64) int64 {
	for y != 0 {
		x, y = y, x%y
	}
	return x
}

func abs64(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// PrimeForm returns the form (p, b, c) of discriminant d for an odd prime
// p with Kronecker symbol (d/p) = 1, taking 0 <= b < p with b = d (mod 2)
// before reduction. The result is not reduced.
func PrimeForm(d, p *big.Int) (*Form, error) {
	if err := ValidDiscriminant(d); err != nil {
		return nil, err
	}
	if p.Cmp(two) <= 0 || p.Bit(0) == 0 || !p.ProbablyPrime(20) {
		return nil, fmt.Errorf("p=%s: %w", p, ErrNotSplit)
	}
	dm := new(big.Int).Mod(d, p)
	if big.Jacobi(dm, p) != 1 {
		return nil, fmt.Errorf("p=%s D=%s: %w", p, d, ErrNotSplit)
	}
	b := new(big.Int).ModSqrt(dm, p)
	if b == nil {
		return nil, fmt.Errorf("p=%s D=%s: %w", p, d, ErrNotSplit)
	}
	// p is odd, so p - b has the other parity.
	if b.Bit(0) != d.Bit(0) {
		b.Sub(p, b)
	}
	return FromAB(p, b, d)
}

// randomBound is the smallest range primes are drawn from, so that tiny
// discriminants still have split primes to pick.
const randomBound = 1 << 12

// Random returns a pseudo-random reduced primitive positive definite form
// of the negative discriminant d.
//
// Classes are sampled by drawing a random prime p below max(|d|, 4096)
// that splits, taking the associated prime form and inverting it with
// probability one half. No guarantee is made about the distribution of the
// resulting classes, but heuristically it is close to uniform. If r is nil
// crypto/rand is used.
func Random(r io.Reader, d *big.Int) (*Form, error) {
	if err := ValidDiscriminant(d); err != nil {
		return nil, err
	}
	if d.Sign() > 0 {
		return nil, fmt.Errorf("random form of discriminant %s: %w", d, ErrNotPositiveDefinite)
	}
	if r == nil {
		r = rand.Reader
	}
	bound := new(big.Int).Abs(d)
	if bound.Cmp(big.NewInt(randomBound)) < 0 {
		bound.SetInt64(randomBound)
	}
	for i := 0; i < math.MaxInt32; i++ {
		p, err := rand.Int(r, bound)
		if err != nil {
			return nil, err
		}
		p.SetBit(p, 0, 1)
		f, err := PrimeForm(d, p)
		if err != nil {
			continue
		}
		coin, err := rand.Int(r, two)
		if err != nil {
			return nil, err
		}
		if coin.Sign() == 1 {
			f = f.Negate()
		}
		return f.reduce(), nil
	}
	return nil, fmt.Errorf("random form of discriminant %s: no split prime found", d)
}
