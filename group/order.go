package group

import (
	"errors"
	"fmt"
	"math/big"
)

// ErrNotMultiple is returned by OrderFromMultiple when m*x is not zero.
var ErrNotMultiple = errors.New("not a multiple of the element order")

// OrderFromMultiple returns the order of x given a positive multiple m of
// it. It factors m and strips each prime for as long as the quotient still
// annihilates x, which needs O(log m) multiplications per prime factor.
func OrderFromMultiple[E any](g Group[E], x E, m *big.Int) (*big.Int, error) {
	if m.Sign() <= 0 {
		return nil, fmt.Errorf("multiple %s is not positive: %w", m, ErrNotMultiple)
	}
	if !IsZero(g, Multiple(g, x, m)) {
		return nil, fmt.Errorf("%s*x != 0: %w", m, ErrNotMultiple)
	}
	order := new(big.Int).Set(m)
	for _, pp := range Factor(m) {
		for i := 0; i < pp.E; i++ {
			cand := new(big.Int).Quo(order, pp.P)
			if !IsZero(g, Multiple(g, x, cand)) {
				break
			}
			order = cand
		}
	}
	return order, nil
}

// HasOrder reports whether x has exactly order n.
func HasOrder[E any](g Group[E], x E, n *big.Int) bool {
	if n.Sign() <= 0 || !IsZero(g, Multiple(g, x, n)) {
		return false
	}
	for _, pp := range Factor(n) {
		if IsZero(g, Multiple(g, x, new(big.Int).Quo(n, pp.P))) {
			return false
		}
	}
	return true
}
