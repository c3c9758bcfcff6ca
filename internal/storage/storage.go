package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Default expiry duration for presigned URLs
const DefaultPresignedURLExpiry = 15 * time.Minute

// FileStorage defines the interface for object storage operations.
type FileStorage interface {
	// PutObject writes body under objectKey, replacing any previous object.
	PutObject(ctx context.Context, objectKey, contentType string, body []byte) error

	// GeneratePresignedDownloadURL creates a temporary URL that allows GET requests
	// for downloading an object directly from the storage provider.
	GeneratePresignedDownloadURL(ctx context.Context, objectKey string, expires time.Duration) (string, error)

	// DeleteObject removes an object from the storage provider.
	DeleteObject(ctx context.Context, objectKey string) error
}

// PlanExportKey builds a unique object key for a plan snapshot.
func PlanExportKey(userID, planID string) string {
	return fmt.Sprintf("exports/%s/%s/%s.json", userID, planID, uuid.NewString())
}
