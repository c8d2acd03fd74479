package handler

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/usecase"
)

type BrowseHandler struct {
	browse *usecase.BrowseUsecase
	logger *zap.Logger
}

func NewBrowseHandler(browse *usecase.BrowseUsecase, logger *zap.Logger) *BrowseHandler {
	return &BrowseHandler{browse: browse, logger: logger}
}

type itemDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Price       string    `json:"price"`
	Location    string    `json:"location"`
	PostedLabel string    `json:"posted_label"`
	PostedAt    time.Time `json:"posted_at"`
	CategoryID  string    `json:"category_id"`
	ImageURL    string    `json:"image_url,omitempty"`
	Condition   string    `json:"condition,omitempty"`
}

func toItemDTO(it *entity.Item) itemDTO {
	return itemDTO{
		ID:          it.ID,
		Title:       it.Title,
		Price:       it.PriceLabel,
		Location:    it.Location,
		PostedLabel: it.PostedLabel,
		PostedAt:    it.PostedAt,
		CategoryID:  it.CategoryID,
		ImageURL:    it.ImageURL,
		Condition:   it.Condition,
	}
}

// HandleBrowse runs the catalog through the filter/sort pipeline and
// returns the result in order.
func (h *BrowseHandler) HandleBrowse(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query")
	categoryID := r.URL.Query().Get("category_id")
	if categoryID == "" {
		categoryID = usecase.CategoryAll
	}
	strategy := r.URL.Query().Get("sort")

	items, err := h.browse.Search(r.Context(), query, categoryID, strategy)
	if err != nil {
		h.logger.Error("failed to browse listings", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to load listings")
		return
	}

	dtos := make([]itemDTO, len(items))
	for i, it := range items {
		dtos[i] = toItemDTO(it)
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"items": dtos,
		"total": len(dtos),
	})
}
