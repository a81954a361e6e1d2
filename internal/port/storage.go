package port

import (
	"context"
	"io"
)

// ObjectStorage abstracts read access to uploaded document objects.
type ObjectStorage interface {
	GetPresignedURL(ctx context.Context, bucket, key string, expirySeconds int64) (string, error)
	// Download returns the object body and its content type. The caller closes the body.
	Download(ctx context.Context, bucket, key string) (io.ReadCloser, string, error)
}
