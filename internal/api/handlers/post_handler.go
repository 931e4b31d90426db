package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/dmarquez/inkwell-be/internal/auth"
	"github.com/dmarquez/inkwell-be/internal/services"
	"github.com/dmarquez/inkwell-be/internal/storage"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

const homeFeedLimit = 12
const homeTrendingLimit = 6

// PostHandler handles HTTP requests for posts.
type PostHandler struct {
	service services.PostServiceProvider
	images  *storage.ImageStore
}

// NewPostHandler creates a new PostHandler.
func NewPostHandler(service services.PostServiceProvider, images *storage.ImageStore) *PostHandler {
	return &PostHandler{service: service, images: images}
}

// postForm carries the fields shared by create and update requests,
// which arrive either as JSON or as a multipart form with an image.
type postForm struct {
	Title     string `json:"title" validate:"required,max=255"`
	Content   string `json:"content" validate:"required"`
	Slug      string `json:"slug" validate:"omitempty,max=255"`
	imagePath string
}

func (h *PostHandler) parsePostForm(r *http.Request) (postForm, error) {
	var form postForm

	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&form); err != nil {
			return form, err
		}
		return form, validate.Struct(form)
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		return form, err
	}
	form.Title = r.FormValue("title")
	form.Content = r.FormValue("content")
	form.Slug = r.FormValue("slug")

	file, header, err := r.FormFile("image")
	if err == nil {
		defer file.Close()
		form.imagePath, err = h.images.Save("posts", file, header)
		if err != nil {
			return form, err
		}
	} else if err != http.ErrMissingFile {
		return form, err
	}
	return form, validate.Struct(form)
}

// Create handles new post creation, assigning a slug when none is given.
func (h *PostHandler) Create(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	form, err := h.parsePostForm(r)
	if err != nil {
		http.Error(w, "Invalid post data: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.CreatePost(form.Title, form.Content, form.imagePath, claims.UserID, form.Slug)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Str("title", form.Title).Msg("Failed to create post")
		writeServiceError(w, err, "Failed to create post")
		return
	}

	w.Header().Set("Location", post.URLPath())
	writeJSON(w, http.StatusCreated, post)
}

// List returns all posts, newest first. An optional limit query
// parameter caps the result.
func (h *PostHandler) List(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.service.ListPosts(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to list posts")
		http.Error(w, "Failed to list posts", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// Home returns the home feed: the latest posts plus the trending list.
func (h *PostHandler) Home(w http.ResponseWriter, r *http.Request) {
	posts, err := h.service.ListPosts(homeFeedLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load home feed")
		http.Error(w, "Failed to load home feed", http.StatusInternalServerError)
		return
	}
	trending, err := h.service.TrendingPosts(homeTrendingLimit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load trending posts")
		http.Error(w, "Failed to load home feed", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"posts":    posts,
		"trending": trending,
	})
}

// Trending returns the trending list. An optional limit query parameter
// overrides the default.
func (h *PostHandler) Trending(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	posts, err := h.service.TrendingPosts(limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to compute trending posts")
		writeServiceError(w, err, "Failed to compute trending posts")
		return
	}
	writeJSON(w, http.StatusOK, posts)
}

// GetBySlug handles retrieving a post by its slug.
func (h *PostHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	post, err := h.service.GetPostBySlug(slug)
	if err != nil {
		writeServiceError(w, err, "Failed to load post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// GetByID handles retrieving a post by its identifier, the fallback
// route for posts without a slug.
func (h *PostHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	post, err := h.service.GetPostByID(id)
	if err != nil {
		writeServiceError(w, err, "Failed to load post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Update handles editing a post. Only the author may edit.
func (h *PostHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	form, err := h.parsePostForm(r)
	if err != nil {
		http.Error(w, "Invalid post data: "+err.Error(), http.StatusBadRequest)
		return
	}

	post, err := h.service.UpdatePost(id, claims.UserID, form.Title, form.Content, form.imagePath)
	if err != nil {
		log.Warn().Err(err).Str("post_id", id).Str("user_id", claims.UserID).Msg("Failed to update post")
		writeServiceError(w, err, "Failed to update post")
		return
	}
	writeJSON(w, http.StatusOK, post)
}

// Delete handles removing a post. Only the author may delete; comments
// and like memberships cascade with it.
func (h *PostHandler) Delete(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	imagePath, err := h.service.DeletePost(id, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("post_id", id).Str("user_id", claims.UserID).Msg("Failed to delete post")
		writeServiceError(w, err, "Failed to delete post")
		return
	}
	if err := h.images.Remove(imagePath); err != nil {
		log.Warn().Err(err).Str("post_id", id).Msg("Failed to remove post image")
	}
	w.WriteHeader(http.StatusNoContent)
}

// ToggleLike flips the authenticated user's like on a post and returns
// the new count.
func (h *PostHandler) ToggleLike(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}
	id := chi.URLParam(r, "id")

	count, err := h.service.ToggleLike(id, claims.UserID)
	if err != nil {
		log.Warn().Err(err).Str("post_id", id).Str("user_id", claims.UserID).Msg("Failed to toggle like")
		writeServiceError(w, err, "Failed to toggle like")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"likes": count})
}
