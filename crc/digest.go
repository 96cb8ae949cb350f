package crc

import "hash"

var _ hash.Hash64 = (*Digest[uint16])(nil)

// Digest is a streaming CRC computation backed by a Table.
// It implements hash.Hash64; Sum appends the CRC big-endian in Size bytes.
type Digest[T Register] struct {
	t   *Table[T]
	crc T
}

// NewDigest returns a Digest that starts at the table's initial value.
func NewDigest[T Register](t *Table[T]) *Digest[T] {
	d := &Digest[T]{t: t}
	d.Reset()
	return d
}

// Write adds p to the running CRC. It never returns an error.
func (d *Digest[T]) Write(p []byte) (int, error) {
	d.crc = d.t.Update(d.crc, p)
	return len(p), nil
}

// Reset restores the digest to the CRC of empty input.
func (d *Digest[T]) Reset() {
	d.crc = d.t.Calculate(nil)
}

// Value returns the current CRC.
func (d *Digest[T]) Value() T { return d.crc }

func (d *Digest[T]) Sum64() uint64 { return uint64(d.crc) }

func (d *Digest[T]) Size() int { return byteSize(d.t.params.Width) }

func (d *Digest[T]) BlockSize() int { return 1 }

func (d *Digest[T]) Sum(in []byte) []byte {
	return appendBigEndian(in, uint64(d.crc), d.Size())
}

func byteSize(width int) int {
	return (width + 7) / 8
}

func appendBigEndian(in []byte, v uint64, n int) []byte {
	for i := n - 1; i >= 0; i-- {
		in = append(in, byte(v>>(8*i)))
	}
	return in
}
