package services

import (
	"database/sql"
	"fmt"

	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/google/uuid"
)

// CommentServiceProvider defines the interface for comment services.
type CommentServiceProvider interface {
	AddComment(postID, authorID, content string) (models.Comment, error)
	ListByPost(postID string) ([]models.Comment, error)
}

// CommentService provides business logic for comments.
type CommentService struct {
	db *sql.DB
}

// NewCommentService creates a new CommentService.
func NewCommentService(db *sql.DB) *CommentService {
	return &CommentService{db: db}
}

// AddComment attaches a new comment to an existing post.
func (s *CommentService) AddComment(postID, authorID, content string) (models.Comment, error) {
	var exists int
	if err := s.db.QueryRow("SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)", postID).Scan(&exists); err != nil {
		return models.Comment{}, err
	}
	if exists == 0 {
		return models.Comment{}, fmt.Errorf("post with id %s: %w", postID, models.ErrNotFound)
	}

	id := uuid.New().String()
	_, err := s.db.Exec("INSERT INTO comments(id, post_id, author_id, content) VALUES(?, ?, ?, ?)",
		id, postID, authorID, content)
	if err != nil {
		return models.Comment{}, err
	}

	var comment models.Comment
	row := s.db.QueryRow(`
		SELECT c.id, c.post_id, c.author_id, u.username, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.id = ?`, id)
	err = row.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName, &comment.Content, &comment.CreatedAt)
	if err != nil {
		return models.Comment{}, err
	}
	return comment, nil
}

// ListByPost retrieves a post's comments, newest first.
func (s *CommentService) ListByPost(postID string) ([]models.Comment, error) {
	rows, err := s.db.Query(`
		SELECT c.id, c.post_id, c.author_id, u.username, c.content, c.created_at
		FROM comments c JOIN users u ON u.id = c.author_id
		WHERE c.post_id = ?
		ORDER BY c.created_at DESC, c.id DESC`, postID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []models.Comment
	for rows.Next() {
		var comment models.Comment
		if err := rows.Scan(&comment.ID, &comment.PostID, &comment.AuthorID, &comment.AuthorName, &comment.Content, &comment.CreatedAt); err != nil {
			return nil, err
		}
		comments = append(comments, comment)
	}
	return comments, rows.Err()
}
