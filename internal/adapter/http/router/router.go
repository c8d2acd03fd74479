package router

import (
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/http/handler"
	"github.com/shazamohamed705/layatofk-master88-sub001/internal/adapter/http/middleware"
)

// New wires every route of the service. Draft and browse endpoints are
// public like the front end that consumes them; post mutations sit
// behind the admin JWT.
func New(
	draftHandler *handler.DraftHandler,
	browseHandler *handler.BrowseHandler,
	postHandler *handler.PostHandler,
	infoHandler *handler.InfoHandler,
	jwtSecret string,
	logger *zap.Logger,
) *chi.Mux {
	mux := chi.NewRouter()
	mux.Use(middleware.Logger(logger))
	mux.Use(middleware.Tracing("layatofk-listing-service"))

	mux.Get("/health", infoHandler.HandleHealth)
	mux.Get("/api/about", infoHandler.HandleAbout)

	mux.Route("/api/drafts", func(r chi.Router) {
		r.Post("/", draftHandler.HandleStartSession)
		r.Get("/{sessionID}", draftHandler.HandleGetDraft)
		r.Patch("/{sessionID}", draftHandler.HandleUpdateField)
		r.Delete("/{sessionID}", draftHandler.HandleCloseSession)
		r.Post("/{sessionID}/images", draftHandler.HandleAddImages)
		r.Delete("/{sessionID}/images/{index}", draftHandler.HandleRemoveImage)
		r.Post("/{sessionID}/submit", draftHandler.HandleSubmit)
	})

	mux.Get("/api/listings", browseHandler.HandleBrowse)

	mux.Get("/api/posts", postHandler.HandleListPosts)
	mux.Get("/api/posts/{id}", postHandler.HandleGetPost)

	mux.Group(func(r chi.Router) {
		r.Use(middleware.JWTAuth(jwtSecret, logger))
		r.Post("/api/posts", postHandler.HandleCreatePost)
		r.Put("/api/posts/{id}", postHandler.HandleUpdatePost)
		r.Delete("/api/posts/{id}", postHandler.HandleDeletePost)
	})

	return mux
}
