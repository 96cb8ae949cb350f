// Package s3 provides Amazon S3 implementations of blobstore.BlobStore.
//
// # Usage
//
//	cfg, err := config.LoadDefaultConfig(ctx)
//	if err != nil { ... }
//	store := s3.NewStore(awss3.NewFromConfig(cfg), "my-bucket", "checksums/")
//
//	svc, err := crcgo.New(store)
//
// # Features
//
//   - Range reads, one GET per ReadRange
//   - Multipart uploads through feature/s3/manager for Create
//   - CRC-32C upload checksums verified by S3
//   - DDBCommitStore for concurrent writers of the CURRENT manifest pointer
package s3
