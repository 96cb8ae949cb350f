package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"
	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	miniogo "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/hupe1980/crcgo/blobstore"
	"github.com/hupe1980/crcgo/blobstore/minio"
	"github.com/hupe1980/crcgo/blobstore/s3"
)

// openStore resolves a store URL: a local path, file:///path,
// s3://bucket/prefix or minio://host:port/bucket/prefix.
func openStore(ctx context.Context, raw, ddbTable string) (blobstore.BlobStore, error) {
	if !strings.Contains(raw, "://") {
		return blobstore.NewLocalStore(raw), nil
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("store url: %w", err)
	}

	switch u.Scheme {
	case "file":
		if u.Path == "" {
			return nil, errors.New("store url: file:// needs a path")
		}
		return blobstore.NewLocalStore(u.Path), nil
	case "s3":
		return openS3(ctx, u, ddbTable)
	case "minio":
		return openMinio(u)
	default:
		return nil, fmt.Errorf("store url: unsupported scheme %q", u.Scheme)
	}
}

func openS3(ctx context.Context, u *url.URL, ddbTable string) (blobstore.BlobStore, error) {
	if u.Host == "" {
		return nil, errors.New("store url: s3:// needs a bucket")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	store := s3.NewStore(awss3.NewFromConfig(cfg), u.Host, strings.Trim(u.Path, "/"))
	if ddbTable == "" {
		return store, nil
	}
	return s3.NewDDBCommitStore(store, dynamodb.NewFromConfig(cfg), ddbTable, u.String()), nil
}

func openMinio(u *url.URL) (blobstore.BlobStore, error) {
	bucket, prefix, _ := strings.Cut(strings.TrimPrefix(u.Path, "/"), "/")
	if u.Host == "" || bucket == "" {
		return nil, errors.New("store url: minio:// needs host and bucket")
	}

	client, err := miniogo.New(u.Host, &miniogo.Options{
		Creds:  credentials.NewStaticV4(os.Getenv("MINIO_ACCESS_KEY"), os.Getenv("MINIO_SECRET_KEY"), ""),
		Secure: os.Getenv("MINIO_SECURE") == "true",
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}
	return minio.NewStore(client, bucket, prefix), nil
}
