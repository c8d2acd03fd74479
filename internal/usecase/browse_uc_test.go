package usecase

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/cache"
)

func browseItems() []*entity.Item {
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return []*entity.Item{
		{ID: "1", Title: "iPhone 13 Pro", Location: "السالمية", PriceLabel: "د.ك 250.000", CategoryID: "phones", PostedAt: base.Add(48 * time.Hour)},
		{ID: "2", Title: "Toyota Camry", Location: "حولي", PriceLabel: "د.ك 3500.000", CategoryID: "cars", PostedAt: base},
		{ID: "3", Title: "سرير اطفال", Location: "الفروانية", PriceLabel: "د.ك 40.000", CategoryID: "furniture", PostedAt: base.Add(24 * time.Hour)},
		{ID: "4", Title: "iPhone charger", Location: "حولي", PriceLabel: "د.ك 5.000", CategoryID: "phones", PostedAt: base.Add(72 * time.Hour)},
	}
}

func TestFilter_IdentityUnderNoConstraints(t *testing.T) {
	items := browseItems()
	got := Filter(items, "", CategoryAll)
	assert.Equal(t, items, got)
}

func TestFilter_QueryMatchesTitleOrLocation(t *testing.T) {
	items := browseItems()

	byTitle := Filter(items, "iphone", CategoryAll)
	assert.Len(t, byTitle, 2)
	assert.Equal(t, "1", byTitle[0].ID)
	assert.Equal(t, "4", byTitle[1].ID)

	byLocation := Filter(items, "حولي", CategoryAll)
	assert.Len(t, byLocation, 2)
	assert.Equal(t, "2", byLocation[0].ID)
	assert.Equal(t, "4", byLocation[1].ID)
}

func TestFilter_CategoryAndQueryCombine(t *testing.T) {
	items := browseItems()
	got := Filter(items, "iphone", "phones")
	assert.Len(t, got, 2)

	got = Filter(items, "iphone", "cars")
	assert.Empty(t, got)
}

func TestSortItems_PriceLowDoesNotMutateInput(t *testing.T) {
	items := []*entity.Item{
		{ID: "a", PriceLabel: "د.ك 5.000"},
		{ID: "b", PriceLabel: "د.ك 3.000"},
	}

	got := SortItems(items, SortPriceLow)
	assert.Equal(t, "b", got[0].ID)
	assert.Equal(t, "a", got[1].ID)

	// Original slice order is untouched.
	assert.Equal(t, "a", items[0].ID)
	assert.Equal(t, "b", items[1].ID)
}

func TestSortItems_PriceHigh(t *testing.T) {
	got := SortItems(browseItems(), SortPriceHigh)
	assert.Equal(t, []string{"2", "1", "3", "4"}, ids(got))
}

func TestSortItems_Chronological(t *testing.T) {
	items := browseItems()

	newest := SortItems(items, SortNewest)
	assert.Equal(t, []string{"4", "1", "3", "2"}, ids(newest))

	oldest := SortItems(items, SortOldest)
	assert.Equal(t, []string{"2", "3", "1", "4"}, ids(oldest))
}

func TestSortItems_StableOnEqualKeys(t *testing.T) {
	items := []*entity.Item{
		{ID: "x", PriceLabel: "د.ك 10.000"},
		{ID: "y", PriceLabel: "د.ك 10.000"},
		{ID: "z", PriceLabel: "د.ك 10.000"},
	}
	got := SortItems(items, SortPriceLow)
	assert.Equal(t, []string{"x", "y", "z"}, ids(got))
}

func TestSortItems_UnknownStrategyKeepsOrder(t *testing.T) {
	items := browseItems()
	got := SortItems(items, "whatever")
	assert.Equal(t, ids(items), ids(got))
}

func TestPriceValue_ExtractsFirstNumericRun(t *testing.T) {
	// The currency prefix "د.ك" contributes a stray dot that must not
	// break extraction.
	assert.Equal(t, 5.0, priceValue("د.ك 5.000"))
	assert.Equal(t, 3500.0, priceValue("د.ك 3500.000"))
	assert.Equal(t, 12.5, priceValue("12.5 KD"))
	assert.Equal(t, 7.0, priceValue("٧ دنانير"))
	assert.Equal(t, 0.0, priceValue("مجاناً"))
}

func ids(items []*entity.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

type MockItemRepository struct{ mock.Mock }

func (m *MockItemRepository) List(ctx context.Context) ([]*entity.Item, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.Item), args.Error(1)
}

func (m *MockItemRepository) GetByID(ctx context.Context, id string) (*entity.Item, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Item), args.Error(1)
}

func TestBrowseUsecase_SearchLoadsFromRepoOnCacheMiss(t *testing.T) {
	logger := zap.NewNop()
	repo := new(MockItemRepository)
	store := newMemStore()

	items := browseItems()
	repo.On("List", mock.Anything).Return(items, nil).Once()

	uc := NewBrowseUsecase(repo, store, logger)
	got, err := uc.Search(context.Background(), "", CategoryAll, "")

	assert.NoError(t, err)
	assert.Equal(t, ids(items), ids(got))
	repo.AssertExpectations(t)

	// The catalog is now cached; a second search must not hit the repo.
	_, err = uc.Search(context.Background(), "iphone", "phones", SortPriceLow)
	assert.NoError(t, err)
	repo.AssertNumberOfCalls(t, "List", 1)
}

func TestBrowseUsecase_CorruptCacheFallsBackToRepo(t *testing.T) {
	logger := zap.NewNop()
	repo := new(MockItemRepository)
	store := newMemStore()
	_ = store.Set(context.Background(), catalogCacheKey, []byte("{not json"), 0)

	repo.On("List", mock.Anything).Return(browseItems(), nil).Once()

	uc := NewBrowseUsecase(repo, store, logger)
	got, err := uc.Search(context.Background(), "", CategoryAll, "")

	assert.NoError(t, err)
	assert.Len(t, got, 4)
	repo.AssertExpectations(t)

	// Corrupted entry was replaced with a fresh marshal.
	cached, err := store.Get(context.Background(), catalogCacheKey)
	assert.NoError(t, err)
	var cachedItems []*entity.Item
	assert.NoError(t, json.Unmarshal(cached, &cachedItems))
	assert.Len(t, cachedItems, 4)
}

var _ cache.CacheRepository = (*memStore)(nil)
