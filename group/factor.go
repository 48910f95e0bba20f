package group

import (
	"math/big"
	"sort"
)

// PrimePower is one factor P^E of a factorization.
type PrimePower struct {
	P *big.Int
	E int
}

// trialBound limits trial division before switching to Pollard's rho.
const trialBound = 1 << 16

var (
	one = big.NewInt(1)
	two = big.NewInt(2)
)

// Factor returns the prime factorization of n > 0 in increasing order of
// primes. Factor(1) is empty. It panics if n is not positive.
func Factor(n *big.Int) []PrimePower {
	if n.Sign() <= 0 {
		panic("group: Factor of non-positive integer")
	}
	counts := make(map[string]*PrimePower)
	add := func(p *big.Int) {
		k := p.String()
		if pp, ok := counts[k]; ok {
			pp.E++
			return
		}
		counts[k] = &PrimePower{P: new(big.Int).Set(p), E: 1}
	}

	m := new(big.Int).Set(n)
	r := new(big.Int)
	q := new(big.Int)
	for p := int64(2); p < trialBound; p++ {
		bp := big.NewInt(p)
		if new(big.Int).Mul(bp, bp).Cmp(m) > 0 {
			break
		}
		for {
			q.QuoRem(m, bp, r)
			if r.Sign() != 0 {
				break
			}
			add(bp)
			m.Set(q)
		}
	}

	var split func(m *big.Int)
	split = func(m *big.Int) {
		if m.Cmp(one) == 0 {
			return
		}
		if m.ProbablyPrime(20) {
			add(m)
			return
		}
		d := pollardRho(m)
		split(d)
		split(new(big.Int).Quo(m, d))
	}
	split(m)

	out := make([]PrimePower, 0, len(counts))
	for _, pp := range counts {
		out = append(out, *pp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].P.Cmp(out[j].P) < 0 })
	return out
}

// pollardRho returns a non-trivial divisor of the composite n.
func pollardRho(n *big.Int) *big.Int {
	if n.Bit(0) == 0 {
		return big.NewInt(2)
	}
	x := new(big.Int)
	y := new(big.Int)
	d := new(big.Int)
	diff := new(big.Int)
	for c := int64(1); ; c++ {
		cc := big.NewInt(c)
		step := func(v *big.Int) {
			v.Mul(v, v)
			v.Add(v, cc)
			v.Mod(v, n)
		}
		x.Set(two)
		y.Set(two)
		d.SetInt64(1)
		for d.Cmp(one) == 0 {
			step(x)
			step(y)
			step(y)
			diff.Sub(x, y)
			diff.Abs(diff)
			d.GCD(nil, nil, diff, n)
		}
		if d.Cmp(n) != 0 {
			return new(big.Int).Set(d)
		}
	}
}

// Divisors returns all positive divisors of n in increasing order.
func Divisors(n *big.Int) []*big.Int {
	divs := []*big.Int{big.NewInt(1)}
	for _, pp := range Factor(n) {
		cur := len(divs)
		pk := new(big.Int).Set(pp.P)
		for k := 1; k <= pp.E; k++ {
			for i := 0; i < cur; i++ {
				divs = append(divs, new(big.Int).Mul(divs[i], pk))
			}
			pk = new(big.Int).Mul(pk, pp.P)
		}
	}
	sort.Slice(divs, func(i, j int) bool { return divs[i].Cmp(divs[j]) < 0 })
	return divs
}
