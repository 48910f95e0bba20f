package classgroup

import (
	"errors"
	"math/big"
	"sort"
	"testing"

	"github.com/f3rmion/formclass/bqf"
)

func TestArithmetic(t *testing.T) {
	g := mustGroup(t, -431)
	c1 := mustElement(t, g, 22, 91, 99)

	t.Run("Neg", func(t *testing.T) {
		if got, want := c1.Neg().String(), "Class of 5*x^2 + 3*x*y + 22*y^2"; got != want {
			t.Errorf("-c1 = %q, want %q", got, want)
		}
		diff, err := c1.Sub(c1)
		if err != nil {
			t.Fatal(err)
		}
		if got, want := diff.String(), "Class of x^2 + x*y + 108*y^2"; got != want {
			t.Errorf("c1 - c1 = %q, want %q", got, want)
		}
		if !diff.IsZero() || diff.Bool() {
			t.Error("c1 - c1 is not zero")
		}
		if !c1.Bool() {
			t.Error("c1 should not be zero")
		}
	})

	t.Run("Add", func(t *testing.T) {
		c2 := mustElement(t, g, 4, 1, 27)
		sum, err := c2.Add(c1)
		if err != nil {
			t.Fatal(err)
		}
		if !sum.Equal(mustElement(t, g, 9, 1, 12)) {
			t.Errorf("c2 + c1 = %v, want class of (9, 1, 12)", sum)
		}
		rev, _ := c1.Add(c2)
		if !rev.Equal(sum) {
			t.Error("addition is not commutative")
		}
		if o, _ := sum.Order(); o.Int64() != 21 {
			t.Errorf("order of c2 + c1 = %s, want 21", o)
		}
		if o, _ := c2.Order(); o.Int64() != 7 {
			t.Errorf("order of c2 = %s, want 7", o)
		}
		z, _ := c1.Add(g.Zero())
		if !z.Equal(c1) {
			t.Error("zero is not neutral")
		}
	})

	t.Run("Mul", func(t *testing.T) {
		tests := []struct {
			n    int64
			want *Element
		}{
			{0, g.Zero()},
			{1, c1},
			{-1, c1.Neg()},
			{7, mustElement(t, g, 10, -3, 11)},
			{20, c1.Neg()},
			{21, g.Zero()},
			{-42, g.Zero()},
		}
		for _, tt := range tests {
			if got := c1.MulInt(tt.n); !got.Equal(tt.want) {
				t.Errorf("%d * c1 = %v, want %v", tt.n, got, tt.want)
			}
		}
		m := new(big.Int).Lsh(big.NewInt(21), 100)
		if !c1.Mul(m).IsZero() {
			t.Error("(21 << 100) * c1 is not zero")
		}
	})

	t.Run("ParentMismatch", func(t *testing.T) {
		other := mustElement(t, mustGroup(t, -23), 2, 1, 3)
		if _, err := c1.Add(other); !errors.Is(err, ErrParentMismatch) {
			t.Errorf("Add: expected ErrParentMismatch, got %v", err)
		}
		if _, err := c1.Sub(other); !errors.Is(err, ErrParentMismatch) {
			t.Errorf("Sub: expected ErrParentMismatch, got %v", err)
		}
		if _, err := c1.Add(nil); !errors.Is(err, ErrNotForm) {
			t.Errorf("Add(nil): expected ErrNotForm, got %v", err)
		}
		if c1.Equal(other) || c1.Equal(nil) {
			t.Error("elements of different groups compare equal")
		}
	})
}

func TestEquality(t *testing.T) {
	g := mustGroup(t, -431)
	a := mustElement(t, g, 22, 91, 99)
	b := mustElement(t, g, 5, -3, 22)
	if !a.Equal(b) || a.Hash() != b.Hash() || a.Cmp(b) != 0 {
		t.Error("equivalent forms give different classes")
	}
	if a.Equal(a.Neg()) {
		t.Error("c1 equals -c1")
	}

	g23 := mustGroup(t, -23)
	elems := allElements(t, g23)
	for i, j := 0, len(elems)-1; i < j; i, j = i+1, j-1 {
		elems[i], elems[j] = elems[j], elems[i]
	}
	sort.Slice(elems, func(i, j int) bool { return elems[i].Less(elems[j]) })
	want := []string{"1,1,6", "2,-1,3", "2,1,3"}
	for i, e := range elems {
		if e.Key() != want[i] {
			t.Errorf("sorted[%d] = %s, want %s", i, e.Key(), want[i])
		}
	}
}

// TestGroupLaws checks the group axioms and the class invariants on every
// class of a few discriminants.
func TestGroupLaws(t *testing.T) {
	for _, d := range []int64{-23, -431, -999, -3108} {
		g := mustGroup(t, d)
		h, err := g.Order()
		if err != nil {
			t.Fatal(err)
		}
		elems := allElements(t, g)
		if int64(len(elems)) != h.Int64() {
			t.Fatalf("D=%d: %d reduced forms, class number %s", d, len(elems), h)
		}

		for _, x := range elems {
			if !x.Form().IsReduced() || x.Form().Discriminant().Int64() != d {
				t.Errorf("D=%d: %v is not a reduced form of the group", d, x)
			}
			if !x.Mul(h).IsZero() {
				t.Errorf("D=%d: h * %v != 0", d, x)
			}
			o, err := x.Order()
			if err != nil {
				t.Fatal(err)
			}
			if new(big.Int).Mod(h, o).Sign() != 0 {
				t.Errorf("D=%d: order %s of %v does not divide %s", d, o, x, h)
			}
			if !x.Mul(o).IsZero() {
				t.Errorf("D=%d: %s * %v != 0", d, o, x)
			}
			sum, _ := x.Add(x.Neg())
			if !sum.IsZero() {
				t.Errorf("D=%d: %v + (-%v) != 0", d, x, x)
			}
			if !x.Neg().Neg().Equal(x) {
				t.Errorf("D=%d: -(-%v) != %v", d, x, x)
			}
		}

		// Associativity and commutativity on a sample.
		n := min(len(elems), 8)
		for _, x := range elems[:n] {
			for _, y := range elems[:n] {
				xy, _ := x.Add(y)
				yx, _ := y.Add(x)
				if !xy.Equal(yx) {
					t.Errorf("D=%d: %v + %v not commutative", d, x, y)
				}
				for _, z := range elems[:n] {
					l, _ := xy.Add(z)
					yz, _ := y.Add(z)
					r, _ := x.Add(yz)
					if !l.Equal(r) {
						t.Errorf("D=%d: (%v + %v) + %v not associative", d, x, y, z)
					}
				}
			}
		}
	}
}

// TestFormClassHomomorphism checks that classifying a composed form agrees
// with adding the classes of its factors.
func TestFormClassHomomorphism(t *testing.T) {
	tests := []struct {
		d      int64
		f1, f2 [3]int64
	}{
		{-431, [3]int64{22, 91, 99}, [3]int64{4, 1, 27}},
		{-40404, [3]int64{3221, 2114, 350}, [3]int64{29, 14, 350}},
		{-3108, [3]int64{11, 4, 71}, [3]int64{13, 8, 61}},
		{-999, [3]int64{5, 1, 50}, [3]int64{5, 1, 50}},
	}
	for _, tt := range tests {
		f1 := bqf.NewInt64(tt.f1[0], tt.f1[1], tt.f1[2])
		f2 := bqf.NewInt64(tt.f2[0], tt.f2[1], tt.f2[2])
		if f1.Discriminant().Int64() != tt.d || f2.Discriminant().Int64() != tt.d {
			t.Fatalf("bad test forms for %d", tt.d)
		}
		prod, err := bqf.Compose(f1, f2)
		if err != nil {
			t.Fatal(err)
		}
		lhs, err := FormClass(prod)
		if err != nil {
			t.Fatal(err)
		}
		red, err := prod.Reduce()
		if err != nil {
			t.Fatal(err)
		}
		if !lhs.Form().IsReduced() || !red.Equal(lhs.Form()) {
			t.Errorf("class of %d stores %d, want %d", prod, lhs.Form(), red)
		}
		e1, _ := FormClass(f1)
		e2, _ := FormClass(f2)
		rhs, err := e1.Add(e2)
		if err != nil {
			t.Fatal(err)
		}
		if !lhs.Equal(rhs) {
			t.Errorf("class of %d * %d = %v, sum of classes = %v", f1, f2, lhs, rhs)
		}
	}
}

func TestElementOrderCache(t *testing.T) {
	g := mustGroup(t, -999)
	x := mustElement(t, g, 5, 1, 50)
	o1, err := x.Order()
	if err != nil {
		t.Fatal(err)
	}
	// An independently built element of the same class hits the group cache.
	y := mustElement(t, g, 5, 1, 50)
	o2, err := y.Order()
	if err != nil {
		t.Fatal(err)
	}
	if o1.Cmp(o2) != 0 {
		t.Errorf("orders %s and %s differ", o1, o2)
	}
	o1.SetInt64(-1)
	if o3, _ := x.Order(); o3.Sign() <= 0 {
		t.Error("Order returned a shared *big.Int")
	}
}
