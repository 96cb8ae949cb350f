// Package mmap maps files read-only into memory so they can be checksummed
// without copying through kernel buffers.
//
//	m, err := mmap.Open("data.bin")
//	if err != nil { ... }
//	defer m.Close()
//
//	_ = m.Advise(mmap.AccessSequential)
//	sum := table.Calculate(m.Bytes())
//
// Unix platforms use mmap(2) and madvise(2). Windows uses
// CreateFileMapping/MapViewOfFile and ignores access hints.
//
// A Mapping and its Regions are safe for concurrent reads. Close is
// idempotent; slices obtained from Bytes must not be used after it returns.
package mmap
