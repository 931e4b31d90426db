package handlers

import (
	"net/http"

	"github.com/dmarquez/inkwell-be/internal/auth"
	"github.com/dmarquez/inkwell-be/internal/services"
	"github.com/dmarquez/inkwell-be/internal/storage"
	"github.com/rs/zerolog/log"
)

// ProfileHandler handles HTTP requests for the authenticated user's
// profile page.
type ProfileHandler struct {
	users  services.UserServiceProvider
	posts  services.PostServiceProvider
	images *storage.ImageStore
}

// NewProfileHandler creates a new ProfileHandler.
func NewProfileHandler(users services.UserServiceProvider, posts services.PostServiceProvider, images *storage.ImageStore) *ProfileHandler {
	return &ProfileHandler{users: users, posts: posts, images: images}
}

// Get returns the authenticated user's profile together with their posts.
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	profile, err := h.users.GetProfile(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load profile")
		writeServiceError(w, err, "Failed to load profile")
		return
	}
	posts, err := h.posts.ListPostsByAuthor(claims.UserID)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to load profile posts")
		http.Error(w, "Failed to load profile", http.StatusInternalServerError)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"profile": profile,
		"posts":   posts,
	})
}

// Update sets the profile bio and, when an avatar file is attached,
// replaces the avatar image. The request is a multipart form.
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		http.Error(w, "Could not retrieve user from token", http.StatusInternalServerError)
		return
	}

	if err := r.ParseMultipartForm(10 << 20); err != nil {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}
	bio := r.FormValue("bio")

	var avatarPath string
	file, header, err := r.FormFile("avatar")
	if err == nil {
		defer file.Close()
		avatarPath, err = h.images.Save("profiles", file, header)
		if err != nil {
			http.Error(w, "Invalid avatar image: "+err.Error(), http.StatusBadRequest)
			return
		}
	} else if err != http.ErrMissingFile {
		http.Error(w, "Invalid form data", http.StatusBadRequest)
		return
	}

	profile, err := h.users.UpdateProfile(claims.UserID, bio, avatarPath)
	if err != nil {
		log.Error().Err(err).Str("user_id", claims.UserID).Msg("Failed to update profile")
		writeServiceError(w, err, "Failed to update profile")
		return
	}
	writeJSON(w, http.StatusOK, profile)
}
