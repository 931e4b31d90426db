package services

import (
	"testing"

	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreatePost_SlugAssignment(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	author := createTestUser(t, db, "ana")

	t.Run("same title yields suffixed sequence", func(t *testing.T) {
		want := []string{"hello-world", "hello-world-1", "hello-world-2", "hello-world-3"}
		for _, expected := range want {
			post, err := svc.CreatePost("Hello, World!", "body", "", author.ID, "")
			require.NoError(t, err)
			assert.Equal(t, expected, post.Slug)
		}
	})

	t.Run("punctuation-only title uses fallback base", func(t *testing.T) {
		post, err := svc.CreatePost("???", "body", "", author.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "post", post.Slug)

		post, err = svc.CreatePost("!!!", "body", "", author.ID, "")
		require.NoError(t, err)
		assert.Equal(t, "post-1", post.Slug)
	})

	t.Run("explicit slug is preserved verbatim", func(t *testing.T) {
		post, err := svc.CreatePost("Hello, World!", "body", "", author.ID, "my-Custom_slug")
		require.NoError(t, err)
		assert.Equal(t, "my-Custom_slug", post.Slug)
	})

	t.Run("explicit duplicate slug surfaces the constraint", func(t *testing.T) {
		_, err := svc.CreatePost("Another title", "body", "", author.ID, "hello-world")
		assert.ErrorIs(t, err, models.ErrDuplicateSlug)
	})
}

func TestPostLookupAndCanonicalURL(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	author := createTestUser(t, db, "bea")

	created, err := svc.CreatePost("Hello, World!", "body", "", author.ID, "")
	require.NoError(t, err)

	bySlug, err := svc.GetPostBySlug("hello-world")
	require.NoError(t, err)
	assert.Equal(t, created.ID, bySlug.ID)
	assert.Equal(t, "bea", bySlug.AuthorName)
	assert.Equal(t, "/api/v1/posts/hello-world", bySlug.URLPath())

	byID, err := svc.GetPostByID(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.Slug, byID.Slug)

	slugless := byID
	slugless.Slug = ""
	assert.Equal(t, "/api/v1/posts/id/"+created.ID, slugless.URLPath())

	_, err = svc.GetPostBySlug("no-such-slug")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestListPosts_NewestFirst(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	author := createTestUser(t, db, "cam")

	oldest, err := svc.CreatePost("First", "body", "", author.ID, "")
	require.NoError(t, err)
	middle, err := svc.CreatePost("Second", "body", "", author.ID, "")
	require.NoError(t, err)
	newest, err := svc.CreatePost("Third", "body", "", author.ID, "")
	require.NoError(t, err)
	backdate(t, db, "posts", oldest.ID, 30)
	backdate(t, db, "posts", middle.ID, 20)
	backdate(t, db, "posts", newest.ID, 10)

	posts, err := svc.ListPosts(0)
	require.NoError(t, err)
	require.Len(t, posts, 3)
	assert.Equal(t, []string{newest.ID, middle.ID, oldest.ID}, []string{posts[0].ID, posts[1].ID, posts[2].ID})

	limited, err := svc.ListPosts(2)
	require.NoError(t, err)
	assert.Len(t, limited, 2)
}

func TestUpdatePost_AuthorOnly(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	author := createTestUser(t, db, "dia")
	other := createTestUser(t, db, "eli")

	post, err := svc.CreatePost("My Draft", "body", "", author.ID, "")
	require.NoError(t, err)

	_, err = svc.UpdatePost(post.ID, other.ID, "Hijacked", "body", "")
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	updated, err := svc.UpdatePost(post.ID, author.ID, "My Post", "new body", "")
	require.NoError(t, err)
	assert.Equal(t, "My Post", updated.Title)
	assert.Equal(t, "new body", updated.Content)
	assert.Equal(t, "my-draft", updated.Slug, "slug stays immutable across edits")
}

func TestToggleLike(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	author := createTestUser(t, db, "fay")
	reader := createTestUser(t, db, "gus")

	post, err := svc.CreatePost("Likeable", "body", "", author.ID, "")
	require.NoError(t, err)

	t.Run("odd number of toggles flips membership", func(t *testing.T) {
		count, err := svc.ToggleLike(post.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("even number of toggles restores membership", func(t *testing.T) {
		count, err := svc.ToggleLike(post.ID, reader.ID)
		require.NoError(t, err)
		assert.Equal(t, 0, count)
	})

	t.Run("memberships are per user", func(t *testing.T) {
		_, err := svc.ToggleLike(post.ID, reader.ID)
		require.NoError(t, err)
		count, err := svc.ToggleLike(post.ID, author.ID)
		require.NoError(t, err)
		assert.Equal(t, 2, count)
	})

	t.Run("missing post is reported", func(t *testing.T) {
		_, err := svc.ToggleLike("no-such-post", reader.ID)
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("absent like relation is a configuration error", func(t *testing.T) {
		degraded := &PostService{db: db, caps: Capabilities{Likes: false, Comments: true}}
		_, err := degraded.ToggleLike(post.ID, reader.ID)
		assert.ErrorIs(t, err, models.ErrLikesUnavailable)
	})
}

func TestTrendingPosts(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	comments := NewCommentService(db)
	author := createTestUser(t, db, "hal")

	var likers []models.User
	for _, name := range []string{"iva", "jon", "kim", "lou", "mia"} {
		likers = append(likers, createTestUser(t, db, name))
	}

	// Post A: 3 likes, 10 comments. Post B: 5 likes, 0 comments.
	postA, err := svc.CreatePost("Post A", "body", "", author.ID, "")
	require.NoError(t, err)
	postB, err := svc.CreatePost("Post B", "body", "", author.ID, "")
	require.NoError(t, err)
	postC, err := svc.CreatePost("Post C", "body", "", author.ID, "")
	require.NoError(t, err)
	backdate(t, db, "posts", postA.ID, 30)
	backdate(t, db, "posts", postB.ID, 20)
	backdate(t, db, "posts", postC.ID, 10)

	for _, u := range likers[:3] {
		_, err := svc.ToggleLike(postA.ID, u.ID)
		require.NoError(t, err)
	}
	for _, u := range likers {
		_, err := svc.ToggleLike(postB.ID, u.ID)
		require.NoError(t, err)
	}
	for i := 0; i < 10; i++ {
		_, err := comments.AddComment(postA.ID, likers[i%len(likers)].ID, "nice")
		require.NoError(t, err)
	}

	t.Run("ranks by like count highest first", func(t *testing.T) {
		got, err := svc.TrendingPosts(2)
		require.NoError(t, err)
		require.Len(t, got, 2)
		assert.Equal(t, postB.ID, got[0].ID)
		assert.Equal(t, postA.ID, got[1].ID)
		assert.Equal(t, 5, got[0].LikeCount)
		assert.Equal(t, 3, got[1].LikeCount)
	})

	t.Run("like tier fully shadows comment counts", func(t *testing.T) {
		// A's 10 comments never outrank B's likes while the like
		// relation is present.
		got, err := svc.TrendingPosts(3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{postB.ID, postA.ID, postC.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("comment tier takes over without the like relation", func(t *testing.T) {
		degraded := &PostService{db: db, caps: Capabilities{Likes: false, Comments: true}}
		got, err := degraded.TrendingPosts(3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, postA.ID, got[0].ID, "ten comments rank first in the comment tier")
		assert.Zero(t, got[0].LikeCount, "like counts degrade to zero without the relation")
	})

	t.Run("recency tier is the last resort", func(t *testing.T) {
		degraded := &PostService{db: db, caps: Capabilities{}}
		got, err := degraded.TrendingPosts(3)
		require.NoError(t, err)
		require.Len(t, got, 3)
		assert.Equal(t, []string{postC.ID, postB.ID, postA.ID}, []string{got[0].ID, got[1].ID, got[2].ID})
	})

	t.Run("never exceeds the limit", func(t *testing.T) {
		got, err := svc.TrendingPosts(2)
		require.NoError(t, err)
		assert.Len(t, got, 2)
	})

	t.Run("returns fewer only when fewer posts exist", func(t *testing.T) {
		got, err := svc.TrendingPosts(50)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})

	t.Run("default limit applies when none is given", func(t *testing.T) {
		got, err := svc.TrendingPosts(0)
		require.NoError(t, err)
		assert.Len(t, got, 3)
	})
}

func TestDeletePost_Cascades(t *testing.T) {
	db := testDB(t)
	svc := newTestPostService(t, db)
	comments := NewCommentService(db)
	author := createTestUser(t, db, "noa")
	reader := createTestUser(t, db, "oli")

	post, err := svc.CreatePost("Doomed", "body", "", author.ID, "")
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		_, err := comments.AddComment(post.ID, reader.ID, "keep it!")
		require.NoError(t, err)
	}
	_, err = svc.ToggleLike(post.ID, reader.ID)
	require.NoError(t, err)

	_, err = svc.DeletePost(post.ID, reader.ID)
	assert.ErrorIs(t, err, models.ErrNotAuthorized)

	_, err = svc.DeletePost(post.ID, author.ID)
	require.NoError(t, err)

	_, err = svc.GetPostByID(post.ID)
	assert.ErrorIs(t, err, models.ErrNotFound)

	var commentCount, likeCount int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM comments WHERE post_id = ?", post.ID).Scan(&commentCount))
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM post_likes WHERE post_id = ?", post.ID).Scan(&likeCount))
	assert.Zero(t, commentCount)
	assert.Zero(t, likeCount)
}

func TestDetectCapabilities(t *testing.T) {
	db := testDB(t)
	caps, err := DetectCapabilities(db)
	require.NoError(t, err)
	assert.True(t, caps.Likes)
	assert.True(t, caps.Comments)
}
