package crc

// Table is a 256-entry lookup table for one CRC variant.
//
// A Table is immutable once built and safe for concurrent use. Every method
// returns exactly what the bit-serial function of the same name returns for
// the table's Parameters.
type Table[T Register] struct {
	params  Parameters[T]
	m       model
	entries [256]T
	// span is the register width used by the non-reflected table: Width,
	// or 8 when Width is narrower. align = span - Width.
	span  int
	align int
}

// NewTable builds the lookup table for p.
func NewTable[T Register](p Parameters[T]) *Table[T] {
	t := &Table[T]{
		params: p,
		m:      p.model(),
	}

	if t.m.refIn {
		// Reflected tables run the register LSB-first so no alignment is needed.
		poly := Reflect(t.m.poly, t.m.width)
		for i := range t.entries {
			r := uint64(i)
			for j := 0; j < 8; j++ {
				if r&1 != 0 {
					r = r>>1 ^ poly
				} else {
					r >>= 1
				}
			}
			t.entries[i] = T(r)
		}
		return t
	}

	t.span = max(t.m.width, 8)
	t.align = t.span - t.m.width
	poly := t.m.poly << t.align
	top := uint64(1) << (t.span - 1)
	spanMask := mask(t.span)
	for i := range t.entries {
		r := uint64(i) << (t.span - 8)
		for j := 0; j < 8; j++ {
			if r&top != 0 {
				r = (r<<1 ^ poly) & spanMask
			} else {
				r = (r << 1) & spanMask
			}
		}
		t.entries[i] = T(r)
	}
	return t
}

// Parameters returns the parameters the table was built from.
func (t *Table[T]) Parameters() Parameters[T] {
	return t.params
}

// Entry returns the table entry for byte value i. Entries of non-reflected
// variants narrower than 8 bits are left-aligned to 8 bits.
func (t *Table[T]) Entry(i byte) T {
	return t.entries[i]
}

// Calculate returns the CRC of data.
func (t *Table[T]) Calculate(data []byte) T {
	return T(t.m.finalize(t.run(t.m.init, data, len(data)*8)))
}

// Update continues a CRC computation from a previously returned crc.
func (t *Table[T]) Update(crc T, data []byte) T {
	return T(t.m.finalize(t.run(t.m.unfinalize(uint64(crc)), data, len(data)*8)))
}

// CalculateBits returns the CRC of the first nbits bits of data. See the
// package-level CalculateBits for the treatment of a trailing partial byte.
func (t *Table[T]) CalculateBits(data []byte, nbits int) T {
	return T(t.m.finalize(t.run(t.m.init, data, nbits)))
}

// UpdateBits continues a CRC computation with the first nbits bits of data.
func (t *Table[T]) UpdateBits(crc T, data []byte, nbits int) T {
	return T(t.m.finalize(t.run(t.m.unfinalize(uint64(crc)), data, nbits)))
}

// run advances the natural-order register reg over nbits of data. Whole
// bytes go through the table, trailing bits through the bit-serial clock.
func (t *Table[T]) run(reg uint64, data []byte, nbits int) uint64 {
	full := nbits / 8
	rem := nbits % 8
	if rem > 0 && full >= len(data) {
		panic("crc: bit count exceeds data length")
	}

	if t.m.refIn {
		r := Reflect(reg, t.m.width)
		for _, b := range data[:full] {
			r = r>>8 ^ uint64(t.entries[byte(r)^b])
		}
		reg = Reflect(r, t.m.width)
	} else {
		shift := t.span - 8
		spanMask := mask(t.span)
		r := reg << t.align
		for _, b := range data[:full] {
			r = (r<<8 ^ uint64(t.entries[byte(r>>shift)^b])) & spanMask
		}
		reg = r >> t.align
	}

	if rem > 0 {
		reg = t.m.clock(reg, data[full], rem)
	}
	return reg
}
