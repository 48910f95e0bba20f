package classgroup

import (
	"encoding/binary"
	"fmt"
	"io"
	"math/big"
	"strings"
	"sync"
	"time"

	"github.com/bluele/gcache"
	logging "github.com/ipfs/go-log/v2"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/formclass/bqf"
	"github.com/f3rmion/formclass/classno"
	"github.com/f3rmion/formclass/group"
)

var log = logging.Logger("classgroup")

// orderCacheSize bounds the number of element orders memoized per group.
const orderCacheSize = 1024

var registry = struct {
	sync.Mutex
	groups map[string]*Group
}{groups: make(map[string]*Group)}

// Group is the form class group of a negative discriminant. It is safe for
// concurrent use.
type Group struct {
	disc *big.Int
	zero *Element

	orderOnce sync.Once
	order     *big.Int
	orderErr  error

	structOnce sync.Once
	structure  *Structure
	structErr  error

	orders gcache.Cache
}

// New returns the class group of discriminant d. Repeated calls with equal
// discriminants return the same *Group.
func New(d *big.Int) (*Group, error) {
	if d == nil {
		return nil, fmt.Errorf("nil discriminant: %w", ErrInvalidDiscriminant)
	}
	if err := bqf.ValidDiscriminant(d); err != nil {
		return nil, err
	}
	if d.Sign() > 0 {
		return nil, fmt.Errorf("D=%s: %w", d, ErrUnsupportedDiscriminant)
	}

	key := d.String()
	registry.Lock()
	defer registry.Unlock()
	if g, ok := registry.groups[key]; ok {
		return g, nil
	}
	g, err := newGroup(d)
	if err != nil {
		return nil, err
	}
	registry.groups[key] = g
	log.Debugw("registered class group", "D", key)
	return g, nil
}

// NewInt64 is New for discriminants that fit in an int64.
func NewInt64(d int64) (*Group, error) {
	return New(big.NewInt(d))
}

func newGroup(d *big.Int) (*Group, error) {
	g := &Group{
		disc:   new(big.Int).Set(d),
		orders: gcache.New(orderCacheSize).ARC().Build(),
	}
	principal, err := bqf.Principal(g.disc)
	if err != nil {
		return nil, err
	}
	g.zero = &Element{parent: g, form: principal}
	return g, nil
}

// FormClass returns the class of f in the class group of f's
// discriminant.
func FormClass(f *bqf.Form) (*Element, error) {
	if f == nil {
		return nil, ErrNotForm
	}
	g, err := New(f.Discriminant())
	if err != nil {
		return nil, err
	}
	return g.Element(f)
}

// Discriminant returns a copy of the discriminant of g.
func (g *Group) Discriminant() *big.Int {
	return new(big.Int).Set(g.disc)
}

// String implements fmt.Stringer.
func (g *Group) String() string {
	return "Form Class Group of Discriminant " + g.disc.String()
}

// Equal reports whether g and h have the same discriminant.
func (g *Group) Equal(h *Group) bool {
	if g == nil || h == nil {
		return g == h
	}
	return g.disc.Cmp(h.disc) == 0
}

// Hash returns a hash of the discriminant of g.
func (g *Group) Hash() uint64 {
	return hash64("group", g.disc.String())
}

func hash64(tag, s string) uint64 {
	sum := blake2b.Sum256([]byte(tag + ":" + s))
	return binary.LittleEndian.Uint64(sum[:8])
}

// Zero returns the class of the principal form, the identity of g.
func (g *Group) Zero() *Element {
	return g.zero
}

// Input is accepted by ElementOf: either a RawForm to be validated and
// reduced, or an element that has already been classified.
type Input interface {
	isInput()
}

// RawForm is an Input holding a quadratic form.
type RawForm struct {
	Form *bqf.Form
}

// Classified is an Input holding an existing class.
type Classified struct {
	Element *Element
}

func (RawForm) isInput()    {}
func (Classified) isInput() {}

// ElementOf converts in to an element of g.
//
// A RawForm must have discriminant D, be primitive and be positive
// definite; its class is represented by its reduced form. A Classified
// element is returned unchanged if it belongs to g.
func (g *Group) ElementOf(in Input) (*Element, error) {
	switch in := in.(type) {
	case RawForm:
		return g.Element(in.Form)
	case Classified:
		if in.Element == nil {
			return nil, ErrNotForm
		}
		if !in.Element.parent.Equal(g) {
			return nil, fmt.Errorf("element of discriminant %s in group of discriminant %s: %w",
				in.Element.parent.disc, g.disc, ErrWrongDiscriminant)
		}
		return in.Element, nil
	default:
		return nil, fmt.Errorf("input of type %T: %w", in, ErrNotForm)
	}
}

// Element returns the class of f in g.
func (g *Group) Element(f *bqf.Form) (*Element, error) {
	if f == nil {
		return nil, ErrNotForm
	}
	if f.Discriminant().Cmp(g.disc) != 0 {
		return nil, fmt.Errorf("form %d has discriminant %s, want %s: %w", f, f.Discriminant(), g.disc, ErrWrongDiscriminant)
	}
	if !f.IsPrimitive() {
		return nil, fmt.Errorf("form %d: %w", f, ErrNotPrimitive)
	}
	if !f.IsPositiveDefinite() {
		return nil, fmt.Errorf("form %d: %w", f, ErrNotPositiveDefinite)
	}
	return g.wrap(f), nil
}

// wrap returns the class of f, which must be a primitive positive definite
// form of discriminant D.
func (g *Group) wrap(f *bqf.Form) *Element {
	if !f.IsReduced() {
		f = f.ReduceUnchecked()
	}
	return &Element{parent: g, form: f}
}

// Order returns the class number of g. It is computed on first use.
func (g *Group) Order() (*big.Int, error) {
	g.orderOnce.Do(func() {
		start := time.Now()
		g.order, g.orderErr = classno.ClassNumber(g.disc)
		if g.orderErr == nil {
			log.Debugw("class number cached", "D", g.disc.String(), "h", g.order.String(), "elapsed", time.Since(start))
		}
	})
	if g.orderErr != nil {
		return nil, g.orderErr
	}
	return new(big.Int).Set(g.order), nil
}

// Cardinality is an alias for Order.
func (g *Group) Cardinality() (*big.Int, error) {
	return g.Order()
}

// Structure returns the invariant factor decomposition of g. It is
// computed on first use.
func (g *Group) Structure() (*Structure, error) {
	g.structOnce.Do(func() {
		g.structure, g.structErr = g.computeStructure()
	})
	return g.structure, g.structErr
}

// AbelianGroup is an alias for Structure.
func (g *Group) AbelianGroup() (*Structure, error) {
	return g.Structure()
}

func (g *Group) computeStructure() (*Structure, error) {
	start := time.Now()
	res, err := classno.Structure(g.disc)
	if err != nil {
		return nil, err
	}
	h, err := g.Order()
	if err != nil {
		return nil, err
	}
	if res.Order.Cmp(h) != 0 {
		return nil, fmt.Errorf("class group of %s: structure has order %s, class number is %s", g.disc, res.Order, h)
	}

	gens := make([]*Element, len(res.Gens))
	for i, f := range res.Gens {
		e, err := g.Element(f)
		if err != nil {
			return nil, fmt.Errorf("generator %d: %w", i, err)
		}
		gens[i] = e
	}
	dec, err := group.NewDecomposition[*Element](ops{g}, res.Orders, gens)
	if err != nil {
		return nil, err
	}
	for i, e := range gens {
		g.orders.Set(e.Key(), res.Orders[i])
	}
	log.Debugw("class group structure cached", "D", g.disc.String(),
		"invariants", fmt.Sprint(res.Orders), "elapsed", time.Since(start))
	return &Structure{g: g, dec: dec}, nil
}

// Gens returns generators of g, with Gens()[i] of order equal to the i-th
// invariant factor.
func (g *Group) Gens() ([]*Element, error) {
	s, err := g.Structure()
	if err != nil {
		return nil, err
	}
	return s.Gens(), nil
}

// DiscreteLog returns the coordinates of x with respect to Gens().
func (g *Group) DiscreteLog(x *Element) ([]*big.Int, error) {
	s, err := g.Structure()
	if err != nil {
		return nil, err
	}
	return s.DiscreteLog(x)
}

// RandomElement returns a class sampled using randomness from r, or from
// crypto/rand if r is nil.
func (g *Group) RandomElement(r io.Reader) (*Element, error) {
	f, err := bqf.Random(r, g.disc)
	if err != nil {
		return nil, err
	}
	return g.wrap(f), nil
}

// Structure is the decomposition of a class group into cyclic factors
// Z/n_1 + ... + Z/n_k with n_{i+1} | n_i.
type Structure struct {
	g   *Group
	dec *group.Decomposition[*Element]
}

// Invariants returns the invariant factors, largest first. The trivial
// group has none.
func (s *Structure) Invariants() []*big.Int {
	out := make([]*big.Int, len(s.dec.Orders))
	for i, o := range s.dec.Orders {
		out[i] = new(big.Int).Set(o)
	}
	return out
}

// Gens returns the generators, Gens()[i] of order Invariants()[i].
func (s *Structure) Gens() []*Element {
	return append([]*Element(nil), s.dec.Gens...)
}

// Order returns the product of the invariant factors.
func (s *Structure) Order() *big.Int {
	return s.dec.Order()
}

// Element returns sum(coords[i] * Gens()[i]).
func (s *Structure) Element(coords []*big.Int) (*Element, error) {
	return s.dec.Element(coords)
}

// DiscreteLog returns c with x = sum(c[i] * Gens()[i]) and
// 0 <= c[i] < Invariants()[i].
func (s *Structure) DiscreteLog(x *Element) ([]*big.Int, error) {
	if x == nil {
		return nil, ErrNotForm
	}
	if !x.parent.Equal(s.g) {
		return nil, ErrParentMismatch
	}
	return s.dec.DiscreteLog(x)
}

// String returns the decomposition as "Z/4 + Z/2 + Z/2", or "0" for the
// trivial group.
func (s *Structure) String() string {
	if len(s.dec.Orders) == 0 {
		return "0"
	}
	parts := make([]string, len(s.dec.Orders))
	for i, o := range s.dec.Orders {
		parts[i] = "Z/" + o.String()
	}
	return strings.Join(parts, " + ")
}

// ops implements group.Group on the elements of a single class group.
type ops struct{ g *Group }

func (o ops) Zero() *Element { return o.g.zero }
func (o ops) Add(a, b *Element) *Element { return a.add(b) }
func (o ops) Negate(a *Element) *Element { return a.Neg() }
func (o ops) Equal(a, b *Element) bool { return a.Equal(b) }
func (o ops) Key(a *Element) string { return a.Key() }
