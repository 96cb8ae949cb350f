package crcgo

import (
	"errors"
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Report is the outcome of verifying a manifest against its store.
type Report struct {
	ManifestID uint64
	Algorithm  string
	// Checked is the number of entries that were read back.
	Checked int
	// BytesRead is the number of bytes checksummed.
	BytesRead int64
	// Mismatches lists damaged blobs ordered by name.
	Mismatches []*ErrChecksumMismatch
	// Missing lists blobs that no longer exist, ordered by name.
	Missing []string
	// CorruptBlocks holds the indexes of damaged blocks per blob.
	CorruptBlocks map[string]*roaring.Bitmap
}

// OK reports whether every entry matched, block checksums included.
func (r *Report) OK() bool {
	return len(r.Mismatches) == 0 && len(r.Missing) == 0 && len(r.CorruptBlocks) == 0
}

// Err joins all mismatches and missing blobs into one error, nil if OK.
func (r *Report) Err() error {
	if r.OK() {
		return nil
	}
	errs := make([]error, 0, len(r.Mismatches)+len(r.Missing))
	for _, m := range r.Mismatches {
		errs = append(errs, m)
	}
	for _, name := range r.Missing {
		errs = append(errs, fmt.Errorf("%w: %s", ErrNotFound, name))
	}
	return errors.Join(errs...)
}

// CorruptBlockCount returns the number of damaged blocks over all blobs.
func (r *Report) CorruptBlockCount() uint64 {
	var n uint64
	for _, bm := range r.CorruptBlocks {
		n += bm.GetCardinality()
	}
	return n
}
