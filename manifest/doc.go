// Package manifest persists checksum manifests.
//
// A manifest lists the CRC of every blob in a snapshot, optionally with one
// CRC per fixed-size block. Manifests are stored as MANIFEST-NNNNNN.bin
// blobs next to a CURRENT blob naming the latest one. The binary form is
// itself protected by a CRC-32C so a damaged manifest is never trusted.
package manifest
