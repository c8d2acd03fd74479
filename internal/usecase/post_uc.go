package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/cache"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/repository"
)

type PostPublisherInterface interface {
	PublishPostCreated(ctx context.Context, post *entity.Post) error
	PublishPostUpdated(ctx context.Context, post *entity.Post) error
	PublishPostDeleted(ctx context.Context, postID string) error
}

type PostUsecase struct {
	postRepo  repository.PostRepository
	publisher PostPublisherInterface
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewPostUsecase(
	pr repository.PostRepository,
	pub PostPublisherInterface,
	cr cache.CacheRepository,
	log *zap.Logger,
) *PostUsecase {
	return &PostUsecase{
		postRepo:  pr,
		publisher: pub,
		cacheRepo: cr,
		logger:    log,
	}
}

func postCacheKey(postID string) string {
	return fmt.Sprintf("post:%s", postID)
}

const postCacheTTL = 5 * time.Minute

type CreatePostInput struct {
	Title    string
	Content  string
	AuthorID string
	ImageURL string
	Category string
}

func (uc *PostUsecase) CreatePost(ctx context.Context, input CreatePostInput) (*entity.Post, error) {
	now := time.Now()
	post := &entity.Post{
		Title:     input.Title,
		Content:   input.Content,
		AuthorID:  input.AuthorID,
		ImageURL:  input.ImageURL,
		Category:  input.Category,
		CreatedAt: now,
		UpdatedAt: now,
	}

	createdID, err := uc.postRepo.Create(ctx, post)
	if err != nil {
		uc.logger.Error("failed to create post in repository", zap.Error(err))
		return nil, fmt.Errorf("PostUsecase.CreatePost: failed to create post in repo: %w", err)
	}
	post.ID = createdID

	if uc.cacheRepo != nil {
		if data, marshalErr := json.Marshal(post); marshalErr == nil {
			key := postCacheKey(post.ID)
			if setErr := uc.cacheRepo.Set(ctx, key, data, postCacheTTL); setErr != nil {
				uc.logger.Warn("failed to set post in cache after create",
					zap.Error(setErr), zap.String("key", key))
			}
		}
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostCreated(ctx, post); errPub != nil {
			uc.logger.Warn("failed to publish post created event",
				zap.Error(errPub), zap.String("post_id", post.ID))
		}
	}

	return post, nil
}

func (uc *PostUsecase) GetPostByID(ctx context.Context, id string) (*entity.Post, error) {
	if uc.cacheRepo != nil {
		key := postCacheKey(id)
		cachedBytes, err := uc.cacheRepo.Get(ctx, key)
		if err == nil {
			var cached entity.Post
			if unmarshalErr := json.Unmarshal(cachedBytes, &cached); unmarshalErr == nil {
				uc.logger.Debug("post fetched from cache", zap.String("key", key))
				return &cached, nil
			}
			uc.logger.Error("failed to unmarshal post from cache", zap.String("key", key))
			if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
				uc.logger.Warn("failed to delete corrupted post from cache",
					zap.String("key", key), zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("failed to get post from cache", zap.Error(err), zap.String("key", key))
		}
	}

	post, err := uc.postRepo.GetByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("failed to get post by id from repository",
				zap.Error(err), zap.String("post_id", id))
		}
		return nil, fmt.Errorf("PostUsecase.GetPostByID: failed to get post from repo: %w", err)
	}

	if uc.cacheRepo != nil && post != nil {
		if data, marshalErr := json.Marshal(post); marshalErr == nil {
			key := postCacheKey(post.ID)
			if setErr := uc.cacheRepo.Set(ctx, key, data, postCacheTTL); setErr != nil {
				uc.logger.Warn("failed to set post in cache after repo fetch",
					zap.Error(setErr), zap.String("key", key))
			}
		}
	}
	return post, nil
}

type UpdatePostInput struct {
	ID       string
	Title    *string
	Content  *string
	ImageURL *string
	Category *string
}

func (uc *PostUsecase) UpdatePost(ctx context.Context, input UpdatePostInput) (*entity.Post, error) {
	post, err := uc.postRepo.GetByID(ctx, input.ID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("failed to get post for update",
				zap.Error(err), zap.String("post_id", input.ID))
		}
		return nil, fmt.Errorf("PostUsecase.UpdatePost: failed to get post for update: %w", err)
	}

	updated := false
	if input.Title != nil && post.Title != *input.Title {
		post.Title = *input.Title
		updated = true
	}
	if input.Content != nil && post.Content != *input.Content {
		post.Content = *input.Content
		updated = true
	}
	if input.ImageURL != nil && post.ImageURL != *input.ImageURL {
		post.ImageURL = *input.ImageURL
		updated = true
	}
	if input.Category != nil && post.Category != *input.Category {
		post.Category = *input.Category
		updated = true
	}

	if !updated {
		uc.logger.Info("no actual changes detected for post update", zap.String("post_id", input.ID))
		return post, nil
	}

	post.UpdatedAt = time.Now()

	if err := uc.postRepo.Update(ctx, post); err != nil {
		uc.logger.Error("failed to update post in repository",
			zap.Error(err), zap.String("post_id", post.ID))
		return nil, fmt.Errorf("PostUsecase.UpdatePost: failed to update post in repo: %w", err)
	}

	if uc.cacheRepo != nil {
		key := postCacheKey(post.ID)
		if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
			uc.logger.Warn("failed to delete post from cache after update",
				zap.Error(delErr), zap.String("key", key))
		}
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostUpdated(ctx, post); errPub != nil {
			uc.logger.Warn("failed to publish post updated event",
				zap.Error(errPub), zap.String("post_id", post.ID))
		}
	}

	return post, nil
}

func (uc *PostUsecase) DeletePost(ctx context.Context, id string) error {
	if _, err := uc.GetPostByID(ctx, id); err != nil {
		return fmt.Errorf("PostUsecase.DeletePost: post to delete not found: %w", err)
	}

	if err := uc.postRepo.Delete(ctx, id); err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			uc.logger.Error("failed to delete post from repository",
				zap.Error(err), zap.String("post_id", id))
		}
		return fmt.Errorf("PostUsecase.DeletePost: failed to delete post from repo: %w", err)
	}

	if uc.cacheRepo != nil {
		key := postCacheKey(id)
		if delErr := uc.cacheRepo.Delete(ctx, key); delErr != nil {
			uc.logger.Warn("failed to delete post from cache after delete",
				zap.Error(delErr), zap.String("key", key))
		}
	}

	if uc.publisher != nil {
		if errPub := uc.publisher.PublishPostDeleted(ctx, id); errPub != nil {
			uc.logger.Warn("failed to publish post deleted event",
				zap.Error(errPub), zap.String("post_id", id))
		}
	}
	return nil
}

type ListPostsInput struct {
	Page     int
	PageSize int
}

type ListPostsOutput struct {
	Posts      []*entity.Post
	TotalCount int
}

func (uc *PostUsecase) ListPosts(ctx context.Context, input ListPostsInput) (*ListPostsOutput, error) {
	if input.Page <= 0 {
		input.Page = 1
	}
	if input.PageSize <= 0 {
		input.PageSize = 10
	}

	posts, total, err := uc.postRepo.List(ctx, input.Page, input.PageSize)
	if err != nil {
		uc.logger.Error("failed to list posts from repository", zap.Error(err))
		return nil, fmt.Errorf("PostUsecase.ListPosts: failed to list posts from repo: %w", err)
	}

	return &ListPostsOutput{Posts: posts, TotalCount: total}, nil
}
