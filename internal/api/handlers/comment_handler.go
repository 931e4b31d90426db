package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/dmarquez/inkwell-be/internal/auth"
	"github.com/dmarquez/inkwell-be/internal/services"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

// CommentHandler handles HTTP requests for comments.
type CommentHandler struct {
	service services.CommentServiceProvider
}

// NewCommentHandler creates a new CommentHandler.
func NewCommentHandler(service services.CommentServiceProvider) *CommentHandler {
	return &CommentHandler{service: service}
}

// Create adds a comment to a post.
func (h *CommentHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	postID := chi.URLParam(r, "id")

	var payload struct {
		Content string `json:"content" validate:"required"`
	}
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if err := validate.Struct(payload); err != nil {
		http.Error(w, "Invalid comment data: "+err.Error(), http.StatusBadRequest)
		return
	}

	comment, err := h.service.AddComment(postID, claims.UserID, payload.Content)
	if err != nil {
		log.Warn().Err(err).Str("post_id", postID).Str("user_id", claims.UserID).Msg("Failed to add comment")
		writeServiceError(w, err, "Failed to add comment")
		return
	}
	writeJSON(w, http.StatusCreated, comment)
}

// List returns a post's comments, newest first.
func (h *CommentHandler) List(w http.ResponseWriter, r *http.Request) {
	postID := chi.URLParam(r, "id")
	comments, err := h.service.ListByPost(postID)
	if err != nil {
		log.Error().Err(err).Str("post_id", postID).Msg("Failed to list comments")
		writeServiceError(w, err, "Failed to list comments")
		return
	}
	writeJSON(w, http.StatusOK, comments)
}
