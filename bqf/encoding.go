package bqf

import (
	"errors"
	"fmt"
	"math/big"

	"github.com/fxamacker/cbor/v2"
)

// ErrInvalidEncoding is returned when a byte string does not decode to a
// form of the expected discriminant.
var ErrInvalidEncoding = errors.New("invalid form encoding")

// encodedIntSize is the width in bytes of one coefficient in the
// fixed-width encoding for discriminant d. One extra byte is reserved for
// the sign.
func encodedIntSize(d *big.Int) int {
	return (d.BitLen() + 16) >> 4
}

// Bytes encodes the reduced form of f as two fixed-width two's complement
// integers (a, b). The width depends only on the discriminant, so all
// elements of a class group serialize to the same length. f must be
// positive definite.
func (f *Form) Bytes() []byte {
	r := f.reduce()
	size := encodedIntSize(f.Discriminant())
	buf := make([]byte, 2*size)
	copy(buf[:size], signExtend(encodeTwosComplement(r.a), size))
	copy(buf[size:], signExtend(encodeTwosComplement(r.b), size))
	return buf
}

// FromBytes decodes a form of discriminant d produced by [Form.Bytes].
func FromBytes(buf []byte, d *big.Int) (*Form, error) {
	size := encodedIntSize(d)
	if len(buf) != 2*size {
		return nil, fmt.Errorf("got %d bytes, want %d: %w", len(buf), 2*size, ErrInvalidEncoding)
	}
	a := decodeTwosComplement(buf[:size])
	b := decodeTwosComplement(buf[size:])
	if a.Sign() == 0 {
		return nil, fmt.Errorf("zero leading coefficient: %w", ErrInvalidEncoding)
	}
	f, err := FromAB(a, b, d)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidEncoding, err)
	}
	return f, nil
}

func decodeTwosComplement(buf []byte) *big.Int {
	if len(buf) == 0 || buf[0]&0x80 == 0 {
		return new(big.Int).SetBytes(buf)
	}
	inv := make([]byte, len(buf))
	for i := range buf {
		inv[i] = buf[i] ^ 0xff
	}
	n := new(big.Int).SetBytes(inv)
	return n.Sub(n.Neg(n), one)
}

func encodeTwosComplement(n *big.Int) []byte {
	switch n.Sign() {
	case 0:
		return []byte{0}
	case 1:
		b := n.Bytes()
		if b[0]&0x80 == 0 {
			return b
		}
		return append([]byte{0}, b...)
	}
	// -n - 1, bitwise inverted
	m := new(big.Int).Neg(n)
	m.Sub(m, one)
	b := m.Bytes()
	if len(b) == 0 {
		return []byte{0xff}
	}
	for i := range b {
		b[i] ^= 0xff
	}
	if b[0]&0x80 != 0 {
		return b
	}
	return append([]byte{0xff}, b...)
}

func signExtend(b []byte, size int) []byte {
	if len(b) >= size {
		return b
	}
	out := make([]byte, size)
	pad := size - len(b)
	if b[0]&0x80 != 0 {
		for i := 0; i < pad; i++ {
			out[i] = 0xff
		}
	}
	copy(out[pad:], b)
	return out
}

type formWire struct {
	_ struct{} `cbor:",toarray"`
	A *big.Int
	B *big.Int
	C *big.Int
}

// MarshalCBOR encodes f as the CBOR array [a, b, c] of bignums.
func (f *Form) MarshalCBOR() ([]byte, error) {
	return cbor.Marshal(formWire{A: f.a, B: f.b, C: f.c})
}

// UnmarshalCBOR decodes an array written by MarshalCBOR into f.
func (f *Form) UnmarshalCBOR(data []byte) error {
	var w formWire
	if err := cbor.Unmarshal(data, &w); err != nil {
		return err
	}
	if w.A == nil || w.B == nil || w.C == nil {
		return fmt.Errorf("missing coefficient: %w", ErrInvalidEncoding)
	}
	f.a, f.b, f.c = w.A, w.B, w.C
	return nil
}
