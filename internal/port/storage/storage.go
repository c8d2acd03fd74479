package storage

import (
	"context"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

// PreviewStorage holds image payloads for the duration of a draft
// session and hands back a preview handle per upload. Remove must be
// safe to call for a key that is already gone.
type PreviewStorage interface {
	Upload(ctx context.Context, fileName, contentType string, data []byte) (entity.PreviewHandle, error)
	Remove(ctx context.Context, key string) error
}
