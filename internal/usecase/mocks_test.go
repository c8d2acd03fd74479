package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/cache"
)

// memStore is an in-memory stand-in for the Redis-backed key-value
// port, so tests can assert on exactly what was written.
type memStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{data: make(map[string][]byte)}
}

func (s *memStore) Get(ctx context.Context, key string) ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if !ok {
		return nil, cache.ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (s *memStore) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = append([]byte(nil), value...)
	return nil
}

func (s *memStore) Delete(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	return nil
}

func (s *memStore) has(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.data[key]
	return ok
}

// memPreviewStorage counts uploads and removals per object key.
type memPreviewStorage struct {
	mu      sync.Mutex
	seq     int
	removed map[string]int
	uploads int
}

func newMemPreviewStorage() *memPreviewStorage {
	return &memPreviewStorage{removed: make(map[string]int)}
}

func (s *memPreviewStorage) Upload(ctx context.Context, fileName, contentType string, data []byte) (entity.PreviewHandle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.uploads++
	key := fmt.Sprintf("previews/%d", s.seq)
	return entity.PreviewHandle{Key: key, URL: "http://minio.local/listing-previews/" + key}, nil
}

func (s *memPreviewStorage) Remove(ctx context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.removed[key]++
	return nil
}

func (s *memPreviewStorage) removedCount(key string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.removed[key]
}

func (s *memPreviewStorage) totalRemoved() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.removed {
		n += c
	}
	return n
}

type MockSubmitPublisher struct{ mock.Mock }

func (m *MockSubmitPublisher) PublishListingSubmitted(ctx context.Context, rec *entity.CompletedListing, previews []entity.PreviewHandle) error {
	args := m.Called(ctx, rec, previews)
	return args.Error(0)
}

type MockModerationNotifier struct{ mock.Mock }

func (m *MockModerationNotifier) NotifyListingSubmitted(rec *entity.CompletedListing) error {
	args := m.Called(rec)
	return args.Error(0)
}

type MockPostPublisher struct{ mock.Mock }

func (m *MockPostPublisher) PublishPostCreated(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostPublisher) PublishPostUpdated(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostPublisher) PublishPostDeleted(ctx context.Context, postID string) error {
	args := m.Called(ctx, postID)
	return args.Error(0)
}

type MockPostRepository struct{ mock.Mock }

func (m *MockPostRepository) Create(ctx context.Context, post *entity.Post) (string, error) {
	args := m.Called(ctx, post)
	return args.String(0), args.Error(1)
}

func (m *MockPostRepository) GetByID(ctx context.Context, id string) (*entity.Post, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Post), args.Error(1)
}

func (m *MockPostRepository) Update(ctx context.Context, post *entity.Post) error {
	args := m.Called(ctx, post)
	return args.Error(0)
}

func (m *MockPostRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockPostRepository) List(ctx context.Context, page, pageSize int) ([]*entity.Post, int, error) {
	args := m.Called(ctx, page, pageSize)
	if args.Get(0) == nil {
		return nil, args.Int(1), args.Error(2)
	}
	return args.Get(0).([]*entity.Post), args.Int(1), args.Error(2)
}
