package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"instaideas-backend/application/ports"
	"instaideas-backend/pkg/errors"
	"instaideas-backend/pkg/utils"

	"go.uber.org/zap"
)

const (
	// DefaultFilename is used when the caller does not name the upload.
	DefaultFilename = "audio.m4a"

	// DefaultExtension is used when the filename carries no extension.
	DefaultExtension = "m4a"

	// DefaultContentType is bound into the presigned URL when the caller
	// does not declare one.
	DefaultContentType = "audio/m4a"

	// UploadURLExpiry bounds how long the write credential stays valid.
	UploadURLExpiry = 5 * time.Minute
)

// UploadLocation is the allocation result: the storage key the audio will
// live under and the presigned URL that writes to exactly that key.
type UploadLocation struct {
	AudioKey  string
	UploadURL string
}

// UploadAllocator builds storage keys for new audio uploads and hands back
// time-limited write credentials. No existence check is performed before a
// key is issued; two allocations for the same user within the same second
// produce an identical key (documented collision risk).
type UploadAllocator struct {
	signer ports.UploadSigner
	bucket string
	logger *zap.Logger
}

// NewUploadAllocator creates a new upload allocator
func NewUploadAllocator(signer ports.UploadSigner, bucket string, logger *zap.Logger) *UploadAllocator {
	return &UploadAllocator{
		signer: signer,
		bucket: bucket,
		logger: logger,
	}
}

// Allocate builds the upload key for userID and returns it together with a
// presigned PUT URL. filename and contentType are optional.
func (a *UploadAllocator) Allocate(ctx context.Context, userID, filename, contentType string) (*UploadLocation, error) {
	if filename == "" {
		filename = DefaultFilename
	}
	if contentType == "" {
		contentType = DefaultContentType
	}

	key := buildAudioKey(userID, filename)

	url, err := a.signer.SignPut(ctx, a.bucket, key, contentType, UploadURLExpiry)
	if err != nil {
		a.logger.Error("Failed to presign upload URL",
			zap.String("userID", userID),
			zap.String("audioKey", key),
			zap.Error(err),
		)
		return nil, errors.NewStorageError("presign upload", err)
	}

	a.logger.Info("Allocated upload location",
		zap.String("userID", userID),
		zap.String("audioKey", key),
		zap.String("contentType", contentType),
	)

	return &UploadLocation{
		AudioKey:  key,
		UploadURL: url,
	}, nil
}

// buildAudioKey constructs the path within the bucket:
// audio/{userId}/{timestamp}-idea.{ext}, timestamp at second resolution with
// ':' replaced since store keys must avoid characters unsafe in path
// segments.
func buildAudioKey(userID, filename string) string {
	ext := DefaultExtension
	if idx := strings.LastIndex(filename, "."); idx >= 0 && idx < len(filename)-1 {
		ext = filename[idx+1:]
	}
	return fmt.Sprintf("audio/%s/%s-idea.%s", userID, utils.NowStorageTimestamp(), ext)
}
