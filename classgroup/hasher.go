package classgroup

import (
	"crypto/sha256"
	"encoding/binary"
	"errors"
	"fmt"
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr/mimc"
	"golang.org/x/crypto/blake2b"

	"github.com/f3rmion/formclass/bqf"
)

// Hasher maps byte strings to integers for HashToElement. Different
// implementations can provide different hash functions and domain
// separation schemes.
type Hasher interface {
	// HashToInt hashes data, bound to the discriminant d, to a
	// non-negative integer.
	HashToInt(d *big.Int, data ...[]byte) *big.Int
}

// maxHashAttempts bounds the prime search in HashToElement.
const maxHashAttempts = 1 << 16

// ErrHashToElement is returned when no split prime is found near the
// hash output.
var ErrHashToElement = errors.New("no split prime found for hash")

// HashToElement deterministically maps data to a class of g.
//
// The hash output is made odd and used as the start of a search for a
// prime p with (D/p) = 1. The result is the class of the prime form
// (p, b, c) with b^2 = D mod 4p, which is then reduced.
func (g *Group) HashToElement(h Hasher, data ...[]byte) (*Element, error) {
	p := h.HashToInt(g.disc, data...)
	p.SetBit(p, 0, 1)
	for i := 0; i < maxHashAttempts; i++ {
		f, err := bqf.PrimeForm(g.disc, p)
		if err == nil {
			return g.wrap(f), nil
		}
		p.Add(p, two)
	}
	return nil, fmt.Errorf("D=%s: %w", g.disc, ErrHashToElement)
}

var two = big.NewInt(2)

// SHA256Hasher implements Hasher using SHA-256.
// This is the default hasher for general use.
type SHA256Hasher struct{}

func (h *SHA256Hasher) hash(data ...[]byte) []byte {
	hasher := sha256.New()
	for _, d := range data {
		hasher.Write(lengthPrefix(d))
		hasher.Write(d)
	}
	return hasher.Sum(nil)
}

// HashToInt implements Hasher.HashToInt.
func (h *SHA256Hasher) HashToInt(d *big.Int, data ...[]byte) *big.Int {
	in := append([][]byte{[]byte("class"), []byte(d.String())}, data...)
	return new(big.Int).SetBytes(h.hash(in...))
}

// Blake2bHasher implements Hasher using Blake2b-512 with domain separation.
//
// Domain separation format: prefix + discriminant + input.
// Output is interpreted as little-endian.
type Blake2bHasher struct {
	// Prefix is the domain separation prefix.
	// Default: "FORMCLASS-BLAKE512-v1"
	Prefix string
}

// NewBlake2bHasher creates a Blake2bHasher with the default prefix.
func NewBlake2bHasher() *Blake2bHasher {
	return &Blake2bHasher{
		Prefix: "FORMCLASS-BLAKE512-v1",
	}
}

func (h *Blake2bHasher) hash(d *big.Int, data ...[]byte) []byte {
	hasher, _ := blake2b.New512(nil)
	hasher.Write([]byte(h.Prefix))
	hasher.Write([]byte(d.String()))
	for _, b := range data {
		hasher.Write(lengthPrefix(b))
		hasher.Write(b)
	}
	return hasher.Sum(nil)
}

// HashToInt implements Hasher.HashToInt.
func (h *Blake2bHasher) HashToInt(d *big.Int, data ...[]byte) *big.Int {
	hash := h.hash(d, data...)

	// Reverse bytes for little-endian interpretation
	reversed := make([]byte, len(hash))
	for i := 0; i < len(hash); i++ {
		reversed[i] = hash[len(hash)-1-i]
	}
	return new(big.Int).SetBytes(reversed)
}

// MiMCHasher implements Hasher using MiMC over the BN254 scalar field,
// which is cheap to verify inside a SNARK circuit.
//
// The discriminant and every input are absorbed as sequences of field
// elements, each input preceded by its length.
type MiMCHasher struct{}

// mimcChunk is the number of input bytes packed into one field element so
// that every chunk is canonical.
const mimcChunk = fr.Bytes - 1

// HashToInt implements Hasher.HashToInt.
func (h *MiMCHasher) HashToInt(d *big.Int, data ...[]byte) *big.Int {
	hasher := mimc.NewMiMC()
	absorb := func(b []byte) {
		var e fr.Element
		e.SetUint64(uint64(len(b)))
		buf := e.Bytes()
		hasher.Write(buf[:])
		for i := 0; i < len(b); i += mimcChunk {
			e.SetBytes(b[i:min(i+mimcChunk, len(b))])
			buf = e.Bytes()
			hasher.Write(buf[:])
		}
	}
	absorb([]byte(d.String()))
	for _, b := range data {
		absorb(b)
	}
	return new(big.Int).SetBytes(hasher.Sum(nil))
}

func lengthPrefix(b []byte) []byte {
	var n [8]byte
	binary.BigEndian.PutUint64(n[:], uint64(len(b)))
	return n[:]
}
