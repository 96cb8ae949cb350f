package crcgo

import (
	"errors"
	"fmt"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/manifest"
)

var (
	// ErrUnknownAlgorithm is returned for names missing from the crc catalogue.
	ErrUnknownAlgorithm = errors.New("unknown crc algorithm")

	// ErrNotFound is returned when a blob or manifest does not exist.
	ErrNotFound = errors.New("not found")

	// ErrCorrupt is matched by every *ErrChecksumMismatch.
	ErrCorrupt = errors.New("data corrupted")

	// ErrInvalidOption is returned by New for out-of-range options.
	ErrInvalidOption = errors.New("invalid option")
)

// ErrChecksumMismatch reports a blob whose content no longer matches its
// manifest entry.
//
// errors.Is(err, ErrCorrupt) holds for every ErrChecksumMismatch.
type ErrChecksumMismatch struct {
	Name         string
	Expected     uint64
	Actual       uint64
	ExpectedSize int64
	ActualSize   int64
	// Cause is set when the blob could not be decoded at all.
	Cause error
}

func (e *ErrChecksumMismatch) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("checksum mismatch for %s: %v", e.Name, e.Cause)
	}
	if e.ExpectedSize != e.ActualSize {
		return fmt.Sprintf("checksum mismatch for %s: expected %d bytes, got %d", e.Name, e.ExpectedSize, e.ActualSize)
	}
	if e.Expected == e.Actual {
		return fmt.Sprintf("checksum mismatch for %s: block checksums differ, whole-blob checksum %#x unchanged", e.Name, e.Actual)
	}
	return fmt.Sprintf("checksum mismatch for %s: expected %#x, got %#x", e.Name, e.Expected, e.Actual)
}

func (e *ErrChecksumMismatch) Unwrap() []error {
	if e.Cause != nil {
		return []error{ErrCorrupt, e.Cause}
	}
	return []error{ErrCorrupt}
}

func translateError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) {
		return err
	}
	if errors.Is(err, blobstore.ErrNotFound) || errors.Is(err, manifest.ErrNotFound) {
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	}
	return err
}
