package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/cache"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/repository"
)

const (
	SortPriceLow  = "price-low"
	SortPriceHigh = "price-high"
	SortNewest    = "newest"
	SortOldest    = "oldest"

	// CategoryAll matches every item regardless of its category tag.
	CategoryAll = "all"
)

const catalogCacheKey = "catalog:items"

const catalogCacheTTL = 5 * time.Minute

// BrowseUsecase runs the search/filter/sort pipeline over the catalog.
// The pipeline itself is pure; only loading the catalog touches the
// repository and the cache.
type BrowseUsecase struct {
	itemRepo  repository.ItemRepository
	cacheRepo cache.CacheRepository
	logger    *zap.Logger
}

func NewBrowseUsecase(ir repository.ItemRepository, cr cache.CacheRepository, log *zap.Logger) *BrowseUsecase {
	return &BrowseUsecase{
		itemRepo:  ir,
		cacheRepo: cr,
		logger:    log,
	}
}

// Search loads the catalog and applies Filter then SortItems.
func (uc *BrowseUsecase) Search(ctx context.Context, query, categoryID, strategy string) ([]*entity.Item, error) {
	items, err := uc.loadCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return SortItems(Filter(items, query, categoryID), strategy), nil
}

func (uc *BrowseUsecase) loadCatalog(ctx context.Context) ([]*entity.Item, error) {
	if uc.cacheRepo != nil {
		cached, err := uc.cacheRepo.Get(ctx, catalogCacheKey)
		if err == nil {
			var items []*entity.Item
			if unmarshalErr := json.Unmarshal(cached, &items); unmarshalErr == nil {
				return items, nil
			}
			uc.logger.Warn("failed to unmarshal cached catalog", zap.String("key", catalogCacheKey))
			if delErr := uc.cacheRepo.Delete(ctx, catalogCacheKey); delErr != nil {
				uc.logger.Warn("failed to delete corrupted catalog cache", zap.Error(delErr))
			}
		} else if !errors.Is(err, cache.ErrNotFound) {
			uc.logger.Warn("catalog cache read failed", zap.Error(err))
		}
	}

	items, err := uc.itemRepo.List(ctx)
	if err != nil {
		uc.logger.Error("failed to load catalog from repository", zap.Error(err))
		return nil, err
	}

	if uc.cacheRepo != nil {
		if data, err := json.Marshal(items); err == nil {
			if setErr := uc.cacheRepo.Set(ctx, catalogCacheKey, data, catalogCacheTTL); setErr != nil {
				uc.logger.Warn("failed to cache catalog", zap.Error(setErr))
			}
		}
	}
	return items, nil
}

// Filter keeps the items matching both predicates, in their original
// order. An empty query matches everything; otherwise the query must be
// a case-folded substring of the title or the location. The category
// predicate passes for CategoryAll or an exact tag match.
func Filter(items []*entity.Item, query, categoryID string) []*entity.Item {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]*entity.Item, 0, len(items))
	for _, it := range items {
		if q != "" &&
			!strings.Contains(strings.ToLower(it.Title), q) &&
			!strings.Contains(strings.ToLower(it.Location), q) {
			continue
		}
		if categoryID != "" && categoryID != CategoryAll && categoryID != it.CategoryID {
			continue
		}
		out = append(out, it)
	}
	return out
}

// SortItems orders a copy of items by the given strategy; the input
// slice is never mutated and equal keys keep their relative order. An
// unknown strategy returns the copy unordered.
func SortItems(items []*entity.Item, strategy string) []*entity.Item {
	out := append([]*entity.Item(nil), items...)
	switch strategy {
	case SortPriceLow:
		sort.SliceStable(out, func(i, j int) bool {
			return priceValue(out[i].PriceLabel) < priceValue(out[j].PriceLabel)
		})
	case SortPriceHigh:
		sort.SliceStable(out, func(i, j int) bool {
			return priceValue(out[i].PriceLabel) > priceValue(out[j].PriceLabel)
		})
	case SortNewest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedAt.After(out[j].PostedAt)
		})
	case SortOldest:
		sort.SliceStable(out, func(i, j int) bool {
			return out[i].PostedAt.Before(out[j].PostedAt)
		})
	}
	return out
}

// priceValue extracts the first numeric run from a display price such
// as "د.ك 5.000", normalizing Arabic-Indic digits and tolerating the
// stray dots that currency prefixes contribute.
func priceValue(label string) float64 {
	var runes []rune
	seenDigit := false
	seenDot := false
scan:
	for _, r := range label {
		switch {
		case r >= '0' && r <= '9':
			runes = append(runes, r)
			seenDigit = true
		case r >= '٠' && r <= '٩':
			runes = append(runes, '0'+(r-'٠'))
			seenDigit = true
		case r == '.' && seenDigit && !seenDot:
			runes = append(runes, r)
			seenDot = true
		default:
			if seenDigit {
				break scan
			}
		}
	}
	s := strings.TrimSuffix(string(runes), ".")
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return v
}
