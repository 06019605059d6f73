package blob

import (
	"context"
	"io"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"

	"github.com/eduverse/lms/core"
)

type minioStore struct {
	client *minio.Client
	bucket string
}

var _ core.BlobStore = (*minioStore)(nil) // interface compliance check

// NewMinioStore connects to the object server and ensures the bucket exists.
func NewMinioStore(ctx context.Context, conf *core.Config) (core.BlobStore, error) {
	client, err := minio.New(conf.Minio.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(conf.Minio.AccessKey, conf.Minio.SecretKey, ""),
		Secure: conf.Minio.UseSSL,
	})
	if err != nil {
		return nil, errors.Wrap(err, "connecting to object storage")
	}

	exists, err := client.BucketExists(ctx, conf.Minio.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "checking bucket")
	}
	if !exists {
		if err = client.MakeBucket(ctx, conf.Minio.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, errors.Wrap(err, "creating bucket")
		}
	}
	return &minioStore{client: client, bucket: conf.Minio.Bucket}, nil
}

func (s *minioStore) PutObject(ctx context.Context, key string, r io.Reader, size int64, contentType string) error {
	_, err := s.client.PutObject(ctx, s.bucket, key, r, size, minio.PutObjectOptions{ContentType: contentType})
	return errors.Wrap(err, "storing object")
}

func (s *minioStore) GetObject(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, errors.Wrap(err, "getting object")
	}
	return obj, nil
}

func (s *minioStore) DeleteObject(ctx context.Context, key string) error {
	return errors.Wrap(s.client.RemoveObject(ctx, s.bucket, key, minio.RemoveObjectOptions{}), "deleting object")
}
