package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/http/middleware"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/port/repository"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/usecase"
)

type PostHandler struct {
	posts  *usecase.PostUsecase
	logger *zap.Logger
}

func NewPostHandler(posts *usecase.PostUsecase, logger *zap.Logger) *PostHandler {
	return &PostHandler{posts: posts, logger: logger}
}

func (h *PostHandler) HandleListPosts(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	pageSize, _ := strconv.Atoi(r.URL.Query().Get("page_size"))

	out, err := h.posts.ListPosts(r.Context(), usecase.ListPostsInput{Page: page, PageSize: pageSize})
	if err != nil {
		h.logger.Error("failed to list posts", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to list posts")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"posts": out.Posts,
		"total": out.TotalCount,
	})
}

func (h *PostHandler) HandleGetPost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.posts.GetPostByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("failed to get post", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to get post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

type createPostRequest struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	ImageURL string `json:"image_url"`
	Category string `json:"category"`
}

func (h *PostHandler) HandleCreatePost(w http.ResponseWriter, r *http.Request) {
	var req createPostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	authorID, _ := r.Context().Value(middleware.UserIDCtxKey).(string)
	post, err := h.posts.CreatePost(r.Context(), usecase.CreatePostInput{
		Title:    req.Title,
		Content:  req.Content,
		AuthorID: authorID,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if err != nil {
		h.logger.Error("failed to create post", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to create post")
		return
	}
	writeJSON(w, http.StatusCreated, post)
}

type updatePostRequest struct {
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	ImageURL *string `json:"image_url"`
	Category *string `json:"category"`
}

func (h *PostHandler) HandleUpdatePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req updatePostRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	post, err := h.posts.UpdatePost(r.Context(), usecase.UpdatePostInput{
		ID:       id,
		Title:    req.Title,
		Content:  req.Content,
		ImageURL: req.ImageURL,
		Category: req.Category,
	})
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("failed to update post", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

func (h *PostHandler) HandleDeletePost(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.posts.DeletePost(r.Context(), id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			writeError(w, http.StatusNotFound, "post not found")
			return
		}
		h.logger.Error("failed to delete post", zap.String("id", id), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "failed to delete post")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
