// Package blob abstracts object storage for raw agent outputs and exported
// documents: plain filesystem for zero-infra runs, MinIO for local
// S3-compatible setups, AWS S3 in the cloud.
package blob

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("blob not found")

type Store interface {
	Save(ctx context.Context, key string, data []byte, contentType string) error
	Load(ctx context.Context, key string) ([]byte, error)
}
