// Package hash wraps github.com/klauspost/crc32 for the two CRC-32 variants
// that have hardware support: IEEE 802.3 and Castagnoli (CRC-32C).
//
// The crc package registers engines for both on top of these helpers, so
// CRC-32 and CRC-32C checksums of large blobs run at memory speed while
// every other width goes through the generic table path.
//
//	sum := hash.CRC32C(data)
//	sum = hash.UpdateCRC32C(sum, more)
//
// Update takes a previously returned checksum, not a raw register.
package hash
