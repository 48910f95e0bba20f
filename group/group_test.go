package group

import (
	"errors"
	"fmt"
	"math/big"
	"testing"
)

// product is Z/m_1 + ... + Z/m_k with elements as coordinate vectors.
type product struct {
	moduli []int64
}

func (p product) Zero() []int64 { return make([]int64, len(p.moduli)) }

func (p product) Add(a, b []int64) []int64 {
	c := make([]int64, len(a))
	for i := range a {
		c[i] = (a[i] + b[i]) % p.moduli[i]
	}
	return c
}

func (p product) Negate(a []int64) []int64 {
	c := make([]int64, len(a))
	for i := range a {
		c[i] = (p.moduli[i] - a[i]) % p.moduli[i]
	}
	return c
}

func (p product) Equal(a, b []int64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func (p product) Key(a []int64) string { return fmt.Sprint(a) }

func (p product) elements() [][]int64 {
	all := [][]int64{p.Zero()}
	for i, m := range p.moduli {
		var next [][]int64
		for _, e := range all {
			for k := int64(0); k < m; k++ {
				c := append([]int64(nil), e...)
				c[i] = k
				next = append(next, c)
			}
		}
		all = next
	}
	return all
}

func TestMultiple(t *testing.T) {
	g := product{moduli: []int64{12, 5}}
	x := []int64{1, 2}

	t.Run("MatchesRepeatedAddition", func(t *testing.T) {
		acc := g.Zero()
		for n := int64(0); n < 70; n++ {
			got := MultipleInt64(g, x, n)
			if !g.Equal(got, acc) {
				t.Fatalf("%d*x = %v, want %v", n, got, acc)
			}
			acc = g.Add(acc, x)
		}
	})

	t.Run("Negative", func(t *testing.T) {
		for n := int64(1); n < 30; n++ {
			neg := MultipleInt64(g, x, -n)
			pos := MultipleInt64(g, x, n)
			if !IsZero(g, g.Add(neg, pos)) {
				t.Fatalf("(-%d)*x + %d*x != 0", n, n)
			}
		}
	})

	t.Run("Zero", func(t *testing.T) {
		if !IsZero(g, MultipleInt64(g, x, 0)) {
			t.Error("0*x != 0")
		}
	})

	t.Run("Sub", func(t *testing.T) {
		y := []int64{5, 4}
		if !g.Equal(g.Add(Sub(g, x, y), y), x) {
			t.Error("(x-y)+y != x")
		}
	})
}

func TestFactor(t *testing.T) {
	tests := []struct {
		n    string
		want string
	}{
		{"1", "[]"},
		{"2", "[2^1]"},
		{"21", "[3^1 7^1]"},
		{"24", "[2^3 3^1]"},
		{"65536", "[2^16]"},
		{"4295098369", "[65537^2]"},
		{"1000000016000000063", "[1000000007^1 1000000009^1]"},
	}
	for _, tt := range tests {
		n, _ := new(big.Int).SetString(tt.n, 10)
		var s []string
		for _, pp := range Factor(n) {
			s = append(s, fmt.Sprintf("%s^%d", pp.P, pp.E))
		}
		if got := fmt.Sprint(s); got != tt.want {
			t.Errorf("Factor(%s) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestDivisors(t *testing.T) {
	var got []int64
	for _, d := range Divisors(big.NewInt(12)) {
		got = append(got, d.Int64())
	}
	if fmt.Sprint(got) != "[1 2 3 4 6 12]" {
		t.Errorf("Divisors(12) = %v", got)
	}
}

func TestOrderFromMultiple(t *testing.T) {
	g := product{moduli: []int64{12, 5}}
	tests := []struct {
		x    []int64
		want int64
	}{
		{[]int64{0, 0}, 1},
		{[]int64{1, 0}, 12},
		{[]int64{6, 0}, 2},
		{[]int64{4, 0}, 3},
		{[]int64{0, 3}, 5},
		{[]int64{3, 1}, 20},
		{[]int64{1, 1}, 60},
	}
	for _, tt := range tests {
		got, err := OrderFromMultiple(g, tt.x, big.NewInt(60))
		if err != nil {
			t.Fatal(err)
		}
		if got.Int64() != tt.want {
			t.Errorf("order of %v = %s, want %d", tt.x, got, tt.want)
		}
		if !HasOrder(g, tt.x, got) {
			t.Errorf("HasOrder(%v, %s) = false", tt.x, got)
		}
	}

	t.Run("NotAMultiple", func(t *testing.T) {
		_, err := OrderFromMultiple(g, []int64{1, 0}, big.NewInt(10))
		if !errors.Is(err, ErrNotMultiple) {
			t.Errorf("expected ErrNotMultiple, got %v", err)
		}
		_, err = OrderFromMultiple(g, []int64{1, 0}, big.NewInt(0))
		if !errors.Is(err, ErrNotMultiple) {
			t.Errorf("expected ErrNotMultiple, got %v", err)
		}
	})
}

func TestStructure(t *testing.T) {
	tests := []struct {
		moduli []int64
		want   string
	}{
		{[]int64{1}, "[]"},
		{[]int64{21}, "[21]"},
		{[]int64{3, 7}, "[21]"},
		{[]int64{2, 4, 2}, "[4 2 2]"},
		{[]int64{6, 4}, "[12 2]"},
		{[]int64{9, 3, 2}, "[18 3]"},
		{[]int64{8, 2, 4}, "[8 4 2]"},
	}
	for _, tt := range tests {
		g := product{moduli: tt.moduli}
		dec, err := Structure(g, g.elements())
		if err != nil {
			t.Fatalf("Structure(%v): %v", tt.moduli, err)
		}
		if got := fmt.Sprint(dec.Orders); got != tt.want {
			t.Errorf("Structure(%v) = %s, want %s", tt.moduli, got, tt.want)
		}
		for i, gen := range dec.Gens {
			if !HasOrder(g, gen, dec.Orders[i]) {
				t.Errorf("generator %v does not have order %s", gen, dec.Orders[i])
			}
		}
		for i := 1; i < len(dec.Orders); i++ {
			if new(big.Int).Rem(dec.Orders[i-1], dec.Orders[i]).Sign() != 0 {
				t.Errorf("%s does not divide %s", dec.Orders[i], dec.Orders[i-1])
			}
		}

		// every element has a unique discrete log that maps back to it
		seen := make(map[string]bool)
		for _, x := range g.elements() {
			c, err := dec.DiscreteLog(x)
			if err != nil {
				t.Fatalf("DiscreteLog(%v): %v", x, err)
			}
			if seen[fmt.Sprint(c)] {
				t.Fatalf("coordinates %v repeated", c)
			}
			seen[fmt.Sprint(c)] = true
			y, err := dec.Element(c)
			if err != nil {
				t.Fatal(err)
			}
			if !g.Equal(x, y) {
				t.Errorf("Element(DiscreteLog(%v)) = %v", x, y)
			}
		}
	}

	t.Run("NotInGroup", func(t *testing.T) {
		g := product{moduli: []int64{4}}
		dec, _ := Structure(g, g.elements())
		if _, err := dec.DiscreteLog([]int64{7}); !errors.Is(err, ErrNotInGroup) {
			t.Errorf("expected ErrNotInGroup, got %v", err)
		}
	})

	t.Run("Incomplete", func(t *testing.T) {
		g := product{moduli: []int64{4}}
		_, err := Structure(g, [][]int64{{0}, {1}, {2}})
		if !errors.Is(err, ErrNotAbelianGroup) {
			t.Errorf("expected ErrNotAbelianGroup, got %v", err)
		}
	})
}
