// Package crc implements parameterised cyclic redundancy checks.
//
// A CRC variant is described by Parameters in the Rocksoft model: register
// width, generator polynomial, initial value, input and output reflection,
// and a final XOR. The register type T is any unsigned integer wide enough
// for the variant, so CRC-5/USB runs in a uint8 and CRC-24/OPENPGP in a
// uint32.
//
// # Bit-serial and table-driven
//
// The package-level functions simulate the polynomial division one bit at a
// time. A Table precomputes the contribution of every byte value and then
// processes one byte per lookup. Both paths produce identical results for
// every variant and every input:
//
//	sum := crc.Calculate(data, crc.CRC16XModem)
//
//	table := crc.NewTable(crc.CRC16XModem) // build once, share freely
//	sum = table.Calculate(data)
//
// # Streaming
//
// Update continues a computation from a previously returned CRC, so a
// message can be checksummed in pieces:
//
//	sum := table.Calculate(part1)
//	sum = table.Update(sum, part2) // == table.Calculate(part1 || part2)
//
// Digest wraps a Table as a hash.Hash64 for use with io.Copy and friends.
//
// # Bit granularity
//
// CalculateBits and UpdateBits accept a length in bits. Of a trailing
// partial byte the first bits in transmission order are consumed: the most
// significant ones for non-reflected variants, the least significant ones
// for reflected variants.
//
// # Presets and engines
//
// The catalogue variants (CRC8, CRC16ARC, CRC32, CRC64XZ, ...) are package
// variables carrying the published check value over "123456789". Lookup
// returns a width-independent Engine by catalogue name; the CRC-32 and
// CRC-32C engines are hardware accelerated where the CPU allows.
//
// # Preconditions
//
// There are no runtime errors. A Width outside [1, bits(T)] or a bit count
// larger than the data are caller bugs; Parameters.Validate checks the
// former.
package crc
