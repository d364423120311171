package s3

import (
	"context"
	"io"
	"time"

	apperrors "instaideas-backend/pkg/errors"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"go.uber.org/zap"
)

// BlobStore implements audio byte retrieval and presigned direct uploads on
// top of S3. The bucket is treated as an opaque key-value byte store.
type BlobStore struct {
	client    *s3.Client
	presigner *s3.PresignClient
	logger    *zap.Logger
}

// NewBlobStore creates a new blob store backed by the given S3 client
func NewBlobStore(client *s3.Client, logger *zap.Logger) *BlobStore {
	return &BlobStore{
		client:    client,
		presigner: s3.NewPresignClient(client),
		logger:    logger,
	}
}

// Retrieve fetches the raw bytes at key. Single attempt: a missing object or
// a failed read surfaces as a storage error.
func (b *BlobStore) Retrieve(ctx context.Context, bucket, key string) ([]byte, error) {
	out, err := b.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		b.logger.Error("Failed to get object from S3",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return nil, apperrors.NewStorageError("get object", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, apperrors.NewStorageError("read object body", err)
	}

	return data, nil
}

// SignPut returns a presigned PUT URL scoped to exactly this key, binding
// the declared content type, valid for expiry.
func (b *BlobStore) SignPut(ctx context.Context, bucket, key, contentType string, expiry time.Duration) (string, error) {
	req, err := b.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = expiry
	})
	if err != nil {
		b.logger.Error("Failed to presign PutObject",
			zap.String("bucket", bucket),
			zap.String("key", key),
			zap.Error(err),
		)
		return "", apperrors.NewStorageError("presign put object", err)
	}

	return req.URL, nil
}
