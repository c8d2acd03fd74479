package repository

import (
	"context"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
)

type PostRepository interface {
	Create(ctx context.Context, post *entity.Post) (string, error)
	GetByID(ctx context.Context, id string) (*entity.Post, error)
	Update(ctx context.Context, post *entity.Post) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, page, pageSize int) ([]*entity.Post, int, error)
}
