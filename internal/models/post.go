package models

import "time"

// Post represents a published piece of content.
type Post struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Slug         string    `json:"slug"`
	AuthorID     string    `json:"authorId"`
	AuthorName   string    `json:"authorName,omitempty"` // joined from users for display
	Content      string    `json:"content"`
	ImagePath    string    `json:"imagePath,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	LikeCount    int       `json:"likeCount"`
	CommentCount int       `json:"commentCount"`
}

// URLPath returns the canonical API path for the post. The slug route is
// preferred; posts without a slug fall back to the id-based route.
func (p Post) URLPath() string {
	if p.Slug != "" {
		return "/api/v1/posts/" + p.Slug
	}
	return "/api/v1/posts/id/" + p.ID
}
