package classgroup

import (
	"fmt"
	"math/big"
	"sync"

	"github.com/f3rmion/formclass/bqf"
	"github.com/f3rmion/formclass/group"
)

// Element is a class of primitive positive definite forms, represented by
// its unique reduced form. Elements are immutable and safe for concurrent
// use.
type Element struct {
	parent *Group
	form   *bqf.Form

	orderOnce sync.Once
	order     *big.Int
	orderErr  error
}

// Parent returns the class group containing e.
func (e *Element) Parent() *Group { return e.parent }

// Form returns the reduced form representing e.
func (e *Element) Form() *bqf.Form { return e.form }

// Key returns the coefficients of the reduced form as "a,b,c".
func (e *Element) Key() string { return e.form.Key() }

// String implements fmt.Stringer.
func (e *Element) String() string {
	return "Class of " + e.form.String()
}

func (e *Element) check(f *Element) error {
	if f == nil {
		return ErrNotForm
	}
	if !e.parent.Equal(f.parent) {
		return fmt.Errorf("discriminants %s and %s: %w", e.parent.disc, f.parent.disc, ErrParentMismatch)
	}
	return nil
}

// Add returns the class of the composition of e and f.
func (e *Element) Add(f *Element) (*Element, error) {
	if err := e.check(f); err != nil {
		return nil, err
	}
	return e.add(f), nil
}

func (e *Element) add(f *Element) *Element {
	return &Element{parent: e.parent, form: e.form.MulUnchecked(f.form)}
}

// Sub returns e - f.
func (e *Element) Sub(f *Element) (*Element, error) {
	if err := e.check(f); err != nil {
		return nil, err
	}
	return e.add(f.Neg()), nil
}

// Neg returns the inverse of e, the class of (a, -b, c).
func (e *Element) Neg() *Element {
	return e.parent.wrap(e.form.Negate())
}

// Mul returns n*e. Negative n multiplies the inverse.
func (e *Element) Mul(n *big.Int) *Element {
	return group.Multiple[*Element](ops{e.parent}, e, n)
}

// MulInt is Mul for machine-sized n.
func (e *Element) MulInt(n int64) *Element {
	return e.Mul(big.NewInt(n))
}

// Equal reports whether e and f are the same class of the same group.
func (e *Element) Equal(f *Element) bool {
	if f == nil {
		return false
	}
	return e.parent.Equal(f.parent) && e.form.Equal(f.form)
}

// Cmp compares the reduced forms of e and f lexicographically by
// (a, b, c). It carries no group-theoretic meaning.
func (e *Element) Cmp(f *Element) int {
	return e.form.Cmp(f.form)
}

// Less reports whether e sorts before f.
func (e *Element) Less(f *Element) bool {
	return e.Cmp(f) < 0
}

// Hash returns a hash of the reduced form of e. Equal elements have equal
// hashes.
func (e *Element) Hash() uint64 {
	return hash64("class", e.form.Key())
}

// IsZero reports whether e is the class of the principal form.
func (e *Element) IsZero() bool {
	return e.form.Equal(e.parent.zero.form)
}

// Bool reports whether e is not the identity.
func (e *Element) Bool() bool {
	return !e.IsZero()
}

// Order returns the order of e. The class number is computed first and
// used as a multiple of the order; the result is cached both on e and on
// its group.
func (e *Element) Order() (*big.Int, error) {
	e.orderOnce.Do(func() {
		e.order, e.orderErr = e.computeOrder()
	})
	if e.orderErr != nil {
		return nil, e.orderErr
	}
	return new(big.Int).Set(e.order), nil
}

func (e *Element) computeOrder() (*big.Int, error) {
	if v, err := e.parent.orders.Get(e.Key()); err == nil {
		return v.(*big.Int), nil
	}
	h, err := e.parent.Order()
	if err != nil {
		return nil, err
	}
	o, err := group.OrderFromMultiple[*Element](ops{e.parent}, e, h)
	if err != nil {
		return nil, fmt.Errorf("order of %s: %w", e, err)
	}
	if err := e.parent.orders.Set(e.Key(), o); err != nil {
		log.Debugw("order cache", "key", e.Key(), "err", err)
	}
	return o, nil
}
