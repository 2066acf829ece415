package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/prn-tf/bloglist/internal/auth"
	"github.com/prn-tf/bloglist/internal/service"
)

// PostHandler serves post reads and mutations.
// Mutations take the principal stored by the identity middleware.
type PostHandler struct {
	postService *service.PostService
	logger      zerolog.Logger
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(postService *service.PostService, logger zerolog.Logger) *PostHandler {
	return &PostHandler{
		postService: postService,
		logger:      logger.With().Str("handler", "post").Logger(),
	}
}

// List handles GET /api/posts.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) error {
	posts, err := h.postService.List(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, posts)
	return nil
}

// Stats handles GET /api/posts/stats.
func (h *PostHandler) Stats(w http.ResponseWriter, r *http.Request) error {
	stats, err := h.postService.Stats(r.Context())
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, stats)
	return nil
}

// Get handles GET /api/posts/{id}.
func (h *PostHandler) Get(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	post, err := h.postService.Get(r.Context(), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, post)
	return nil
}

// Create handles POST /api/posts.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) error {
	var input service.PostInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	post, err := h.postService.Create(r.Context(), auth.PrincipalFrom(r.Context()), input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusCreated, post)
	return nil
}

// Update handles PUT /api/posts/{id}.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	var input service.PostInput
	if err := decodeJSON(r, &input); err != nil {
		return err
	}

	post, err := h.postService.Update(r.Context(), auth.PrincipalFrom(r.Context()), id, input)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, post)
	return nil
}

// Like handles POST /api/posts/{id}/like.
func (h *PostHandler) Like(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	post, err := h.postService.Like(r.Context(), auth.PrincipalFrom(r.Context()), id)
	if err != nil {
		return err
	}
	writeJSON(w, http.StatusOK, post)
	return nil
}

// Delete handles DELETE /api/posts/{id}.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) error {
	id, err := pathID(r)
	if err != nil {
		return err
	}

	if err := h.postService.Delete(r.Context(), auth.PrincipalFrom(r.Context()), id); err != nil {
		return err
	}
	w.WriteHeader(http.StatusNoContent)
	return nil
}
