// Package crcgo checksums blob stores with configurable CRC engines and
// keeps versioned manifests of the results.
//
// The CRC engines live in package crc, which implements the full Rocksoft
// parameter model for widths 1 to 64 with bit-serial and table-driven
// paths. This package puts them to work on data at rest.
//
// # Quick Start
//
//	ctx := context.Background()
//	svc, _ := crcgo.New(blobstore.NewLocalStore("./data"),
//	    crcgo.WithAlgorithm("CRC-64/XZ"),
//	    crcgo.WithBlockSize(4<<20),
//	)
//
//	m, _ := svc.Snapshot(ctx, "")   // checksum every blob
//	_ = svc.Commit(ctx, m)          // MANIFEST-000001.bin + CURRENT
//
//	report, _ := svc.VerifyLatest(ctx)
//	if !report.OK() {
//	    log.Println(report.Err())
//	}
//
// # Cloud Stores
//
// Any blobstore.BlobStore works: blobstore/s3 (with DynamoDB-backed
// commits for concurrent writers) and blobstore/minio ship with the module.
//
// # Limits
//
// WithConcurrency, WithIOLimit and WithBufferLimit bound the workers,
// read throughput and buffer memory used by Snapshot and Verify.
package crcgo
