// Package compress wraps the lz4, zstd and gzip codecs used for compressed
// blobs and stored manifests.
//
// NewReader and NewWriter stream whole files in their native container
// format, so a blob named "x.zst" can be checksummed over its decoded
// content. Compress and Decompress handle small single-block payloads with
// an 8-byte size header and fall back to storing data verbatim when it
// does not compress.
package compress
