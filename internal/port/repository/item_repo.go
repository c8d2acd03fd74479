package repository

import (
	"context"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

// ItemRepository loads the browsing catalog. The browse pipeline itself
// runs in memory over whatever slice this returns.
type ItemRepository interface {
	List(ctx context.Context) ([]*entity.Item, error)
	GetByID(ctx context.Context, id string) (*entity.Item, error)
}
