package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/repository"
)

func TestPostUsecase_CreatePost(t *testing.T) {
	repo := new(MockPostRepository)
	publisher := new(MockPostPublisher)
	store := newMemStore()
	uc := NewPostUsecase(repo, publisher, store, zap.NewNop())

	repo.On("Create", mock.Anything, mock.AnythingOfType("*entity.Post")).Return("post-1", nil).Once()
	publisher.On("PublishPostCreated", mock.Anything, mock.AnythingOfType("*entity.Post")).Return(nil).Once()

	post, err := uc.CreatePost(context.Background(), CreatePostInput{
		Title:    "نصائح البيع الآمن",
		Content:  "محتوى المقال",
		AuthorID: "admin-1",
		Category: "tips",
	})

	assert.NoError(t, err)
	assert.Equal(t, "post-1", post.ID)
	assert.False(t, post.CreatedAt.IsZero())
	assert.Equal(t, post.CreatedAt, post.UpdatedAt)
	assert.True(t, store.has(postCacheKey("post-1")))

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPostUsecase_GetPostByID_CacheHitSkipsRepo(t *testing.T) {
	repo := new(MockPostRepository)
	store := newMemStore()
	uc := NewPostUsecase(repo, nil, store, zap.NewNop())

	repo.On("GetByID", mock.Anything, "post-1").
		Return(&entity.Post{ID: "post-1", Title: "مقال"}, nil).Once()

	first, err := uc.GetPostByID(context.Background(), "post-1")
	assert.NoError(t, err)
	assert.Equal(t, "مقال", first.Title)

	second, err := uc.GetPostByID(context.Background(), "post-1")
	assert.NoError(t, err)
	assert.Equal(t, first.Title, second.Title)
	repo.AssertNumberOfCalls(t, "GetByID", 1)
}

func TestPostUsecase_GetPostByID_NotFound(t *testing.T) {
	repo := new(MockPostRepository)
	uc := NewPostUsecase(repo, nil, newMemStore(), zap.NewNop())

	repo.On("GetByID", mock.Anything, "missing").Return(nil, repository.ErrNotFound).Once()

	_, err := uc.GetPostByID(context.Background(), "missing")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}

func TestPostUsecase_UpdatePost_NoChangeSkipsWrite(t *testing.T) {
	repo := new(MockPostRepository)
	uc := NewPostUsecase(repo, nil, newMemStore(), zap.NewNop())

	existing := &entity.Post{ID: "post-1", Title: "عنوان", Content: "محتوى"}
	repo.On("GetByID", mock.Anything, "post-1").Return(existing, nil).Once()

	title := "عنوان"
	post, err := uc.UpdatePost(context.Background(), UpdatePostInput{ID: "post-1", Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "عنوان", post.Title)
	repo.AssertNotCalled(t, "Update")
}

func TestPostUsecase_UpdatePost_InvalidatesCache(t *testing.T) {
	repo := new(MockPostRepository)
	publisher := new(MockPostPublisher)
	store := newMemStore()
	uc := NewPostUsecase(repo, publisher, store, zap.NewNop())

	_ = store.Set(context.Background(), postCacheKey("post-1"), []byte(`{"id":"post-1"}`), 0)

	existing := &entity.Post{ID: "post-1", Title: "قديم"}
	repo.On("GetByID", mock.Anything, "post-1").Return(existing, nil).Once()
	repo.On("Update", mock.Anything, mock.AnythingOfType("*entity.Post")).Return(nil).Once()
	publisher.On("PublishPostUpdated", mock.Anything, mock.AnythingOfType("*entity.Post")).Return(nil).Once()

	title := "جديد"
	post, err := uc.UpdatePost(context.Background(), UpdatePostInput{ID: "post-1", Title: &title})

	assert.NoError(t, err)
	assert.Equal(t, "جديد", post.Title)
	assert.False(t, post.UpdatedAt.IsZero())
	assert.False(t, store.has(postCacheKey("post-1")))

	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPostUsecase_DeletePost(t *testing.T) {
	repo := new(MockPostRepository)
	publisher := new(MockPostPublisher)
	store := newMemStore()
	uc := NewPostUsecase(repo, publisher, store, zap.NewNop())

	repo.On("GetByID", mock.Anything, "post-1").
		Return(&entity.Post{ID: "post-1"}, nil).Once()
	repo.On("Delete", mock.Anything, "post-1").Return(nil).Once()
	publisher.On("PublishPostDeleted", mock.Anything, "post-1").Return(nil).Once()

	err := uc.DeletePost(context.Background(), "post-1")

	assert.NoError(t, err)
	assert.False(t, store.has(postCacheKey("post-1")))
	repo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestPostUsecase_ListPosts_DefaultsPagination(t *testing.T) {
	repo := new(MockPostRepository)
	uc := NewPostUsecase(repo, nil, newMemStore(), zap.NewNop())

	posts := []*entity.Post{{ID: "a"}, {ID: "b"}}
	repo.On("List", mock.Anything, 1, 10).Return(posts, 2, nil).Once()

	out, err := uc.ListPosts(context.Background(), ListPostsInput{Page: 0, PageSize: -3})

	assert.NoError(t, err)
	assert.Equal(t, 2, out.TotalCount)
	assert.Len(t, out.Posts, 2)
	repo.AssertExpectations(t)
}
