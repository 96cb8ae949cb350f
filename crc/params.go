package crc

import (
	"errors"
	"fmt"
	"math/bits"
)

// CheckString is the input over which a CRC variant's published check value
// is computed.
const CheckString = "123456789"

var (
	// ErrInvalidWidth is returned by Validate when Width does not fit the register type.
	ErrInvalidWidth = errors.New("crc: invalid width")
	// ErrCheckMismatch is returned by Verify when a variant does not reproduce its check value.
	ErrCheckMismatch = errors.New("crc: check value mismatch")
)

// Register is the set of unsigned integer types that can hold a CRC register.
type Register interface {
	~uint8 | ~uint16 | ~uint32 | ~uint64
}

// Parameters describes a CRC variant in the Rocksoft model.
//
// Polynomial, Init and FinalXOR are truncated to Width bits by every
// operation. Width must be in [1, bits(T)]; operations do not check it, use
// Validate when the parameters come from an untrusted source.
type Parameters[T Register] struct {
	// Name is the catalogue name of the variant (e.g. "CRC-16/ARC").
	Name string
	// Width is the number of bits in the CRC register.
	Width int
	// Polynomial is the generator polynomial in normal (MSB-first) notation
	// without the implicit x^Width term.
	Polynomial T
	// Init is the register value before any input is processed.
	Init T
	// ReflectInput feeds each input byte least significant bit first.
	ReflectInput bool
	// ReflectOutput reverses the final register within Width bits before FinalXOR.
	ReflectOutput bool
	// FinalXOR is XORed into the result.
	FinalXOR T
	// Check is the published CRC of CheckString. Zero if unknown.
	Check T
}

// Mask returns a value with the low Width bits set.
func (p Parameters[T]) Mask() T {
	return T(mask(p.Width))
}

// Validate reports whether Width fits the register type.
func (p Parameters[T]) Validate() error {
	limit := registerBits[T]()
	if p.Width < 1 || p.Width > limit {
		return fmt.Errorf("%w: %d not in [1, %d]", ErrInvalidWidth, p.Width, limit)
	}
	return nil
}

// Verify computes the CRC of CheckString and compares it with Check.
func (p Parameters[T]) Verify() error {
	if err := p.Validate(); err != nil {
		return err
	}
	if got := Calculate([]byte(CheckString), p); got != p.Check&p.Mask() {
		return fmt.Errorf("%w: %s: got %#x, want %#x", ErrCheckMismatch, p.Name, uint64(got), uint64(p.Check))
	}
	return nil
}

// MakeTable builds the lookup table for p.
func (p Parameters[T]) MakeTable() *Table[T] {
	return NewTable(p)
}

func (p Parameters[T]) String() string {
	return fmt.Sprintf("{Name:%s Width:%d Poly:%#x Init:%#x RefIn:%t RefOut:%t XorOut:%#x Check:%#x}",
		p.Name, p.Width, uint64(p.Polynomial), uint64(p.Init), p.ReflectInput, p.ReflectOutput,
		uint64(p.FinalXOR), uint64(p.Check))
}

func (p Parameters[T]) model() model {
	m := mask(p.Width)
	return model{
		width:  p.Width,
		mask:   m,
		poly:   uint64(p.Polynomial) & m,
		init:   uint64(p.Init) & m,
		xorOut: uint64(p.FinalXOR) & m,
		refIn:  p.ReflectInput,
		refOut: p.ReflectOutput,
	}
}

// Reflect reverses the low width bits of v. Bits above width are discarded.
func Reflect(v uint64, width int) uint64 {
	if width <= 0 {
		return 0
	}
	return bits.Reverse64(v) >> (64 - width)
}

func mask(width int) uint64 {
	if width >= 64 {
		return ^uint64(0)
	}
	if width <= 0 {
		return 0
	}
	return uint64(1)<<width - 1
}

func registerBits[T Register]() int {
	return bits.Len64(uint64(^T(0)))
}
