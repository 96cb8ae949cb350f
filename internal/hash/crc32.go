package hash

import (
	"hash"

	"github.com/klauspost/crc32"
)

// Tables are computed once; crc32 selects SSE4.2/PCLMUL or ARM64 CRC
// instructions for them when the CPU supports it.
var (
	ieeeTable       = crc32.IEEETable
	castagnoliTable = crc32.MakeTable(crc32.Castagnoli)
)

// CRC32C computes the CRC-32C (Castagnoli) checksum of data.
func CRC32C(data []byte) uint32 {
	return crc32.Checksum(data, castagnoliTable)
}

// UpdateCRC32C continues a CRC-32C checksum. crc is a previously returned checksum.
func UpdateCRC32C(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, castagnoliTable, data)
}

// NewCRC32C returns a new CRC-32C hash.Hash32.
func NewCRC32C() hash.Hash32 {
	return crc32.New(castagnoliTable)
}

// IEEE computes the CRC-32 (IEEE 802.3) checksum of data.
func IEEE(data []byte) uint32 {
	return crc32.Checksum(data, ieeeTable)
}

// UpdateIEEE continues a CRC-32 checksum. crc is a previously returned checksum.
func UpdateIEEE(crc uint32, data []byte) uint32 {
	return crc32.Update(crc, ieeeTable, data)
}

// NewIEEE returns a new CRC-32 hash.Hash32.
func NewIEEE() hash.Hash32 {
	return crc32.New(ieeeTable)
}
