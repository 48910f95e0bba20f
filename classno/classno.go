// Package classno computes class numbers and class group structures of
// negative discriminants.
//
// Both computations start from the classical enumeration of primitive
// reduced forms: for D < 0 every class of primitive positive definite
// forms contains exactly one reduced form, so counting them gives the
// class number h(D), and composing them gives the whole group, from which
// [Structure] extracts invariant factors and generators. The running time
// grows linearly with |D|, so discriminants above [MaxDiscriminant] in
// absolute value are refused.
package classno

import (
	"errors"
	"fmt"
	"math/big"
	"time"

	logging "github.com/ipfs/go-log/v2"

	"github.com/f3rmion/formclass/bqf"
	"github.com/f3rmion/formclass/group"
)

var log = logging.Logger("classno")

// MaxDiscriminant bounds |D| for the enumeration based algorithms.
var MaxDiscriminant = new(big.Int).Lsh(big.NewInt(1), 32)

var (
	// ErrPositiveDiscriminant is returned for D > 0.
	ErrPositiveDiscriminant = errors.New("positive discriminants are not supported")
	// ErrDiscriminantTooLarge is returned when |D| exceeds MaxDiscriminant.
	ErrDiscriminantTooLarge = errors.New("discriminant too large")
)

// Result describes the class group of a discriminant.
type Result struct {
	// Order is the class number h(D).
	Order *big.Int
	// Orders holds the invariant factors, largest first. Their product is
	// Order.
	Orders []*big.Int
	// Gens holds reduced forms whose classes generate the group, with the
	// class of Gens[i] of order Orders[i].
	Gens []*bqf.Form
}

func check(d *big.Int) error {
	if err := bqf.ValidDiscriminant(d); err != nil {
		return err
	}
	if d.Sign() > 0 {
		return fmt.Errorf("D=%s: %w", d, ErrPositiveDiscriminant)
	}
	if new(big.Int).Abs(d).Cmp(MaxDiscriminant) > 0 {
		return fmt.Errorf("|D|=%s exceeds %s: %w", new(big.Int).Abs(d), MaxDiscriminant, ErrDiscriminantTooLarge)
	}
	return nil
}

// ClassNumber returns the number of classes of primitive positive definite
// forms of discriminant d < 0.
func ClassNumber(d *big.Int) (*big.Int, error) {
	if err := check(d); err != nil {
		return nil, err
	}
	start := time.Now()
	h, err := bqf.CountReducedForms(d)
	if err != nil {
		return nil, err
	}
	log.Debugw("class number", "D", d.String(), "h", h, "elapsed", time.Since(start))
	return big.NewInt(h), nil
}

// Structure returns the class number of d < 0 together with the invariant
// factors of the class group and reduced forms generating it.
func Structure(d *big.Int) (*Result, error) {
	if err := check(d); err != nil {
		return nil, err
	}
	start := time.Now()
	forms, err := bqf.ReducedForms(d)
	if err != nil {
		return nil, err
	}
	principal, err := bqf.Principal(d)
	if err != nil {
		return nil, err
	}
	dec, err := group.Structure[*bqf.Form](Forms{Principal: principal}, forms)
	if err != nil {
		return nil, fmt.Errorf("class group of %s: %w", d, err)
	}
	res := &Result{
		Order:  big.NewInt(int64(len(forms))),
		Orders: dec.Orders,
		Gens:   dec.Gens,
	}
	log.Debugw("class group structure", "D", d.String(), "h", res.Order.String(),
		"invariants", fmt.Sprint(res.Orders), "elapsed", time.Since(start))
	return res, nil
}

// Forms implements group.Group on reduced primitive positive definite
// forms of a single discriminant, with composition followed by reduction
// as the group law.
type Forms struct {
	// Principal is the principal form of the discriminant.
	Principal *bqf.Form
}

// Zero implements group.Group.
func (g Forms) Zero() *bqf.Form { return g.Principal }

// Add implements group.Group.
func (g Forms) Add(a, b *bqf.Form) *bqf.Form { return a.MulUnchecked(b) }

// Negate implements group.Group.
func (g Forms) Negate(a *bqf.Form) *bqf.Form { return a.Negate().ReduceUnchecked() }

// Equal implements group.Group.
func (g Forms) Equal(a, b *bqf.Form) bool { return a.Equal(b) }

// Key implements group.Group.
func (g Forms) Key(a *bqf.Form) string { return a.Key() }
