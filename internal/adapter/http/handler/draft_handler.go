package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/entity"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/usecase"
)

const maxUploadBytes = 32 << 20

// DraftHandler exposes the listing-creation flow: one session per form,
// field edits, image batches, submit and teardown.
type DraftHandler struct {
	manager *usecase.DraftManager
	logger  *zap.Logger
}

func NewDraftHandler(manager *usecase.DraftManager, logger *zap.Logger) *DraftHandler {
	return &DraftHandler{manager: manager, logger: logger}
}

type draftImageDTO struct {
	FileName string `json:"file_name"`
	URL      string `json:"url"`
}

type draftStateDTO struct {
	SessionID    string          `json:"session_id"`
	Title        string          `json:"title"`
	TitleError   string          `json:"title_error,omitempty"`
	Description  string          `json:"description"`
	Price        string          `json:"price"`
	Whatsapp     string          `json:"whatsapp"`
	CategoryID   string          `json:"category_id"`
	CategoryName string          `json:"category_name"`
	Images       []draftImageDTO `json:"images"`
	Submittable  bool            `json:"submittable"`
}

func draftState(s *usecase.DraftSession) draftStateDTO {
	d := s.Draft()
	images := make([]draftImageDTO, len(d.Images))
	for i, img := range d.Images {
		images[i] = draftImageDTO{FileName: img.FileName, URL: img.Preview.URL}
	}
	return draftStateDTO{
		SessionID:    s.ID,
		Title:        d.Title,
		TitleError:   d.TitleError,
		Description:  d.Description,
		Price:        d.Price,
		Whatsapp:     d.Whatsapp,
		CategoryID:   d.CategoryID,
		CategoryName: d.CategoryName,
		Images:       images,
		Submittable:  s.IsSubmittable(),
	}
}

// HandleStartSession opens a draft session for the category carried in
// the navigation context and restores any stored snapshot.
func (h *DraftHandler) HandleStartSession(w http.ResponseWriter, r *http.Request) {
	categoryID := r.URL.Query().Get("category_id")
	categoryName := r.URL.Query().Get("category_name")

	s := h.manager.StartSession(r.Context(), categoryID, categoryName)
	writeJSON(w, http.StatusCreated, draftState(s))
}

func (h *DraftHandler) session(w http.ResponseWriter, r *http.Request) (*usecase.DraftSession, bool) {
	s, err := h.manager.Session(chi.URLParam(r, "sessionID"))
	if err != nil {
		writeError(w, http.StatusNotFound, "draft session not found")
		return nil, false
	}
	return s, true
}

func (h *DraftHandler) HandleGetDraft(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, draftState(s))
}

type updateFieldRequest struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

func (h *DraftHandler) HandleUpdateField(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	var req updateFieldRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := s.UpdateField(r.Context(), req.Name, req.Value); err != nil {
		if errors.Is(err, usecase.ErrUnknownField) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to update draft field", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update draft")
		return
	}
	writeJSON(w, http.StatusOK, draftState(s))
}

// HandleAddImages appends a multipart batch. The source query parameter
// distinguishes picker batches (taken as-is) from drop batches, which
// silently lose their non-image files first.
func (h *DraftHandler) HandleAddImages(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	if err := r.ParseMultipartForm(maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart body")
		return
	}

	var incoming []usecase.IncomingImage
	for _, fh := range r.MultipartForm.File["images"] {
		f, err := fh.Open()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		data, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			writeError(w, http.StatusBadRequest, "failed to read uploaded file")
			return
		}
		incoming = append(incoming, usecase.IncomingImage{
			FileName:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Data:        data,
		})
	}

	var err error
	if r.URL.Query().Get("source") == "drop" {
		err = s.AddImagesFromDrop(r.Context(), incoming)
	} else {
		err = s.AddImagesFromPicker(r.Context(), incoming)
	}
	if err != nil {
		if errors.Is(err, usecase.ErrTooManyImages) {
			writeError(w, http.StatusConflict, err.Error())
			return
		}
		h.logger.Error("failed to add draft images", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to add images")
		return
	}
	writeJSON(w, http.StatusOK, draftState(s))
}

func (h *DraftHandler) HandleRemoveImage(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid image index")
		return
	}
	if err := s.RemoveImage(r.Context(), index); err != nil {
		if errors.Is(err, usecase.ErrImageIndex) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.logger.Error("failed to remove draft image", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to remove image")
		return
	}
	writeJSON(w, http.StatusOK, draftState(s))
}

func (h *DraftHandler) HandleSubmit(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r)
	if !ok {
		return
	}

	rec, err := s.Submit(r.Context())
	if err != nil {
		var vErr *usecase.ValidationError
		if errors.As(err, &vErr) {
			writeFieldError(w, http.StatusBadRequest, vErr.Field, vErr.Message)
			return
		}
		if errors.Is(err, usecase.ErrNotSubmittable) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.Error("failed to submit draft", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to submit listing")
		return
	}
	writeJSON(w, http.StatusCreated, submitResponse{
		Listing: rec,
		Next:    "publish",
	})
}

type submitResponse struct {
	Listing *entity.CompletedListing `json:"listing"`
	Next    string                   `json:"next"`
}

func (h *DraftHandler) HandleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.manager.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		writeError(w, http.StatusNotFound, "draft session not found")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
