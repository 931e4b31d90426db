package services

import (
	"database/sql"
	"fmt"
	"strings"

	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/dmarquez/inkwell-be/internal/slug"
	"github.com/google/uuid"
)

// slugRetryAttempts bounds how many times a lost slug-uniqueness race is
// retried with a fresh candidate before the error surfaces.
const slugRetryAttempts = 3

// DefaultTrendingLimit is used when the caller does not supply one.
const DefaultTrendingLimit = 5

// Capabilities describes which optional relations the schema carries.
// They are resolved once at service construction; trending and like
// operations consult the flags instead of probing the schema per call.
type Capabilities struct {
	Likes    bool
	Comments bool
}

// DetectCapabilities inspects the schema for the optional relations.
func DetectCapabilities(db *sql.DB) (Capabilities, error) {
	var caps Capabilities
	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type = 'table' AND name IN ('post_likes', 'comments')`)
	if err != nil {
		return caps, err
	}
	defer rows.Close()

	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return caps, err
		}
		switch name {
		case "post_likes":
			caps.Likes = true
		case "comments":
			caps.Comments = true
		}
	}
	return caps, rows.Err()
}

// PostServiceProvider defines the interface for post services.
type PostServiceProvider interface {
	CreatePost(title, content, imagePath, authorID, explicitSlug string) (models.Post, error)
	GetPostBySlug(slugStr string) (models.Post, error)
	GetPostByID(id string) (models.Post, error)
	ListPosts(limit int) ([]models.Post, error)
	ListPostsByAuthor(authorID string) ([]models.Post, error)
	UpdatePost(id, actorID, title, content, imagePath string) (models.Post, error)
	DeletePost(id, actorID string) (string, error)
	TrendingPosts(limit int) ([]models.Post, error)
	ToggleLike(postID, userID string) (int, error)
}

// PostService provides business logic for posts, including slug
// assignment, trending ranking, and the like toggle.
type PostService struct {
	db   *sql.DB
	caps Capabilities
}

// NewPostService creates a new PostService with capabilities detected
// from the schema.
func NewPostService(db *sql.DB) (*PostService, error) {
	caps, err := DetectCapabilities(db)
	if err != nil {
		return nil, fmt.Errorf("failed to detect schema capabilities: %w", err)
	}
	return &PostService{db: db, caps: caps}, nil
}

// likeCountExpr and commentCountExpr degrade to a literal zero when the
// relation is absent, so the same select works on either schema shape.
func (s *PostService) likeCountExpr() string {
	if s.caps.Likes {
		return "(SELECT COUNT(*) FROM post_likes l WHERE l.post_id = p.id)"
	}
	return "0"
}

func (s *PostService) commentCountExpr() string {
	if s.caps.Comments {
		return "(SELECT COUNT(*) FROM comments c WHERE c.post_id = p.id)"
	}
	return "0"
}

func (s *PostService) selectPosts(where, orderBy, limit string, args ...interface{}) ([]models.Post, error) {
	query := fmt.Sprintf(`
		SELECT p.id, p.title, p.slug, p.author_id, u.username, p.content, p.image_path, p.created_at,
		       %s AS like_count, %s AS comment_count
		FROM posts p
		JOIN users u ON u.id = p.author_id
		%s
		ORDER BY %s`,
		s.likeCountExpr(), s.commentCountExpr(), where, orderBy)
	if limit != "" {
		query += " LIMIT " + limit
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}
	return posts, rows.Err()
}

func scanPost(scanner interface{ Scan(...interface{}) error }) (models.Post, error) {
	var post models.Post
	var imagePath sql.NullString
	err := scanner.Scan(
		&post.ID, &post.Title, &post.Slug, &post.AuthorID, &post.AuthorName,
		&post.Content, &imagePath, &post.CreatedAt,
		&post.LikeCount, &post.CommentCount,
	)
	if err != nil {
		return post, err
	}
	post.ImagePath = imagePath.String
	return post, nil
}

// isSlugConflict reports whether err is the unique-index violation on
// posts.slug, i.e. a probe-then-write race lost to a concurrent insert.
func isSlugConflict(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: posts.slug")
}

// CreatePost persists a new post. An empty explicitSlug triggers slug
// assignment: the title is normalized to a base and suffixed candidates
// are probed until a free one is found. The probe and the insert run in
// one transaction, but a concurrent creation with the same title can
// still win the unique index; that collision is retried with a
// re-probed candidate before ErrDuplicateSlug surfaces. An explicit
// slug is stored verbatim and only checked by the unique index itself.
func (s *PostService) CreatePost(title, content, imagePath, authorID, explicitSlug string) (models.Post, error) {
	for attempt := 0; attempt < slugRetryAttempts; attempt++ {
		post, err := s.insertPost(title, content, imagePath, authorID, explicitSlug)
		if isSlugConflict(err) {
			if explicitSlug != "" {
				return models.Post{}, fmt.Errorf("slug %q already taken: %w", explicitSlug, models.ErrDuplicateSlug)
			}
			continue
		}
		if err != nil {
			return models.Post{}, err
		}
		return post, nil
	}
	return models.Post{}, fmt.Errorf("slug assignment for %q lost %d races: %w", title, slugRetryAttempts, models.ErrDuplicateSlug)
}

func (s *PostService) insertPost(title, content, imagePath, authorID, explicitSlug string) (models.Post, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return models.Post{}, err
	}
	defer tx.Rollback()

	slugStr := explicitSlug
	if slugStr == "" {
		base := slug.Make(title)
		slugStr, err = slug.Unique(base, func(candidate string) (bool, error) {
			var exists int
			err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM posts WHERE slug = ?)", candidate).Scan(&exists)
			return exists == 1, err
		})
		if err != nil {
			return models.Post{}, err
		}
	}

	id := uuid.New().String()
	var img interface{}
	if imagePath != "" {
		img = imagePath
	}
	_, err = tx.Exec(
		"INSERT INTO posts(id, title, slug, author_id, content, image_path) VALUES(?, ?, ?, ?, ?, ?)",
		id, title, slugStr, authorID, content, img,
	)
	if err != nil {
		return models.Post{}, err
	}
	if err := tx.Commit(); err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(id)
}

// GetPostBySlug retrieves a single post by its slug.
func (s *PostService) GetPostBySlug(slugStr string) (models.Post, error) {
	posts, err := s.selectPosts("WHERE p.slug = ?", "p.created_at DESC", "", slugStr)
	if err != nil {
		return models.Post{}, err
	}
	if len(posts) == 0 {
		return models.Post{}, fmt.Errorf("post with slug %q: %w", slugStr, models.ErrNotFound)
	}
	return posts[0], nil
}

// GetPostByID retrieves a single post by its identifier. This backs the
// id-based canonical URL used for posts without a slug.
func (s *PostService) GetPostByID(id string) (models.Post, error) {
	posts, err := s.selectPosts("WHERE p.id = ?", "p.created_at DESC", "", id)
	if err != nil {
		return models.Post{}, err
	}
	if len(posts) == 0 {
		return models.Post{}, fmt.Errorf("post with id %s: %w", id, models.ErrNotFound)
	}
	return posts[0], nil
}

// ListPosts retrieves posts newest-first. A limit <= 0 means all.
func (s *PostService) ListPosts(limit int) ([]models.Post, error) {
	if limit > 0 {
		return s.selectPosts("", "p.created_at DESC, p.id DESC", "?", limit)
	}
	return s.selectPosts("", "p.created_at DESC, p.id DESC", "")
}

// ListPostsByAuthor retrieves one author's posts newest-first.
func (s *PostService) ListPostsByAuthor(authorID string) ([]models.Post, error) {
	return s.selectPosts("WHERE p.author_id = ?", "p.created_at DESC, p.id DESC", "", authorID)
}

// UpdatePost modifies a post's title, content, and optionally its image.
// Only the author may update; the slug is never regenerated. An empty
// imagePath leaves the current image untouched.
func (s *PostService) UpdatePost(id, actorID, title, content, imagePath string) (models.Post, error) {
	post, err := s.GetPostByID(id)
	if err != nil {
		return models.Post{}, err
	}
	if post.AuthorID != actorID {
		return models.Post{}, fmt.Errorf("post %s belongs to another user: %w", id, models.ErrNotAuthorized)
	}

	if imagePath != "" {
		_, err = s.db.Exec("UPDATE posts SET title = ?, content = ?, image_path = ? WHERE id = ?", title, content, imagePath, id)
	} else {
		_, err = s.db.Exec("UPDATE posts SET title = ?, content = ? WHERE id = ?", title, content, id)
	}
	if err != nil {
		return models.Post{}, err
	}
	return s.GetPostByID(id)
}

// DeletePost removes a post. Only the author may delete. Comments and
// like memberships go with it via the schema's cascade rules. The
// post's image path is returned so the caller can remove the file.
func (s *PostService) DeletePost(id, actorID string) (string, error) {
	post, err := s.GetPostByID(id)
	if err != nil {
		return "", err
	}
	if post.AuthorID != actorID {
		return "", fmt.Errorf("post %s belongs to another user: %w", id, models.ErrNotAuthorized)
	}

	if _, err := s.db.Exec("DELETE FROM posts WHERE id = ?", id); err != nil {
		return "", err
	}
	return post.ImagePath, nil
}

// TrendingPosts returns up to limit posts ranked by popularity, highest
// first. Ranking uses a strict tier fallback: distinct-liker count when
// the like relation is present, else comment count, else recency. Only
// one tier is ever consulted per call. Ties break by descending
// creation time, then id, so the order is deterministic.
func (s *PostService) TrendingPosts(limit int) ([]models.Post, error) {
	if limit <= 0 {
		limit = DefaultTrendingLimit
	}

	var orderBy string
	switch {
	case s.caps.Likes:
		orderBy = "like_count DESC, p.created_at DESC, p.id DESC"
	case s.caps.Comments:
		orderBy = "comment_count DESC, p.created_at DESC, p.id DESC"
	default:
		orderBy = "p.created_at DESC, p.id DESC"
	}
	return s.selectPosts("", orderBy, "?", limit)
}

// ToggleLike flips the user's membership in the post's like-set and
// returns the new like count. The check and the flip run in one
// transaction so two rapid toggles always land as two flips.
func (s *PostService) ToggleLike(postID, userID string) (int, error) {
	if !s.caps.Likes {
		return 0, models.ErrLikesUnavailable
	}

	tx, err := s.db.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	var exists int
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM posts WHERE id = ?)", postID).Scan(&exists); err != nil {
		return 0, err
	}
	if exists == 0 {
		return 0, fmt.Errorf("post with id %s: %w", postID, models.ErrNotFound)
	}

	var liked int
	if err := tx.QueryRow("SELECT EXISTS(SELECT 1 FROM post_likes WHERE post_id = ? AND user_id = ?)", postID, userID).Scan(&liked); err != nil {
		return 0, err
	}

	if liked == 1 {
		_, err = tx.Exec("DELETE FROM post_likes WHERE post_id = ? AND user_id = ?", postID, userID)
	} else {
		_, err = tx.Exec("INSERT INTO post_likes(post_id, user_id) VALUES(?, ?)", postID, userID)
	}
	if err != nil {
		return 0, err
	}

	var count int
	if err := tx.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = ?", postID).Scan(&count); err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return count, nil
}
