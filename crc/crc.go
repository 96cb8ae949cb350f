package crc

// model is the width-normalised form of Parameters shared by the bit-serial
// and table-driven paths. All register arithmetic happens in uint64; the
// register is kept in natural (MSB-first) order.
type model struct {
	width  int
	mask   uint64
	poly   uint64
	init   uint64
	xorOut uint64
	refIn  bool
	refOut bool
}

// finalize turns a raw register into a published CRC value.
func (m *model) finalize(reg uint64) uint64 {
	if m.refOut {
		reg = Reflect(reg, m.width)
	}
	return (reg ^ m.xorOut) & m.mask
}

// unfinalize is the inverse of finalize. It lets a previously returned CRC
// seed a continuation.
func (m *model) unfinalize(crc uint64) uint64 {
	reg := (crc ^ m.xorOut) & m.mask
	if m.refOut {
		reg = Reflect(reg, m.width)
	}
	return reg
}

// clock shifts the first n bits of b, in transmission order, through reg.
func (m *model) clock(reg uint64, b byte, n int) uint64 {
	top := uint64(1) << (m.width - 1)
	for i := 0; i < n; i++ {
		var bit uint64
		if m.refIn {
			bit = uint64(b>>i) & 1
		} else {
			bit = uint64(b>>(7-i)) & 1
		}
		msb := reg & top
		reg = (reg << 1) & m.mask
		if (msb != 0) != (bit != 0) {
			reg ^= m.poly
		}
	}
	return reg
}

// bitwise feeds nbits of data through reg one bit at a time.
// It panics if nbits exceeds 8*len(data).
func (m *model) bitwise(reg uint64, data []byte, nbits int) uint64 {
	full := nbits / 8
	for _, b := range data[:full] {
		reg = m.clock(reg, b, 8)
	}
	if rem := nbits % 8; rem > 0 {
		reg = m.clock(reg, data[full], rem)
	}
	return reg
}

// Calculate returns the CRC of data using bit-serial division.
//
// For repeated use of the same parameters prefer a Table, which computes the
// same value one byte per lookup.
func Calculate[T Register](data []byte, p Parameters[T]) T {
	m := p.model()
	return T(m.finalize(m.bitwise(m.init, data, len(data)*8)))
}

// Update continues a CRC computation. crc is a value previously returned by
// Calculate or Update for the same parameters:
//
//	Update(Calculate(a, p), b, p) == Calculate(append(a, b...), p)
func Update[T Register](crc T, data []byte, p Parameters[T]) T {
	m := p.model()
	return T(m.finalize(m.bitwise(m.unfinalize(uint64(crc)), data, len(data)*8)))
}

// CalculateBits returns the CRC of the first nbits bits of data.
//
// Whole bytes are processed as in Calculate. Of a trailing partial byte the
// first nbits%8 bits in transmission order are used: the most significant
// bits for non-reflected input, the least significant bits for reflected
// input. It panics if nbits exceeds 8*len(data).
func CalculateBits[T Register](data []byte, nbits int, p Parameters[T]) T {
	m := p.model()
	return T(m.finalize(m.bitwise(m.init, data, nbits)))
}

// UpdateBits continues a CRC computation with the first nbits bits of data.
func UpdateBits[T Register](crc T, data []byte, nbits int, p Parameters[T]) T {
	m := p.model()
	return T(m.finalize(m.bitwise(m.unfinalize(uint64(crc)), data, nbits)))
}
