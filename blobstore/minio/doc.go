// Package minio provides a BlobStore backed by the MinIO client, for MinIO
// and other S3-compatible servers (Ceph, Garage, SeaweedFS).
//
//	client, err := minio.New("localhost:9000", &minio.Options{
//	    Creds:  credentials.NewStaticV4("minioadmin", "minioadmin", ""),
//	    Secure: false,
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	store := minioblob.NewStore(client, "my-bucket", "checksums/")
//	svc, err := crcgo.New(store)
//
// Put records the CRC-32C of each blob under the ChecksumMetaKey user
// metadata key.
package minio
