// Package blobstore abstracts the storage that checksummed blobs and their
// manifests live in.
//
// BlobStore is a flat namespace of immutable blobs:
//
//	type BlobStore interface {
//	    Open(ctx, name) (Blob, error)
//	    Create(ctx, name) (WritableBlob, error)
//	    Put(ctx, name, data) error
//	    Delete(ctx, name) error
//	    List(ctx, prefix) ([]string, error)
//	}
//
// # Built-in Implementations
//
//   - LocalStore: a directory, memory mapped for reading
//   - MemoryStore: a map, for tests
//   - minio.Store: MinIO and other S3-compatible servers
//   - s3.Store: Amazon S3 with range reads and multipart uploads
//   - s3.DDBCommitStore: s3.Store with DynamoDB-arbitrated CURRENT pointer
//
// Blob.ReadRange is the streaming read path; remote backends turn it into a
// single ranged GET.
package blobstore
