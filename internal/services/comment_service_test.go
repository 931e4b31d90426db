package services

import (
	"testing"

	"github.com/dmarquez/inkwell-be/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	db := testDB(t)
	posts := newTestPostService(t, db)
	svc := NewCommentService(db)
	author := createTestUser(t, db, "uma")
	reader := createTestUser(t, db, "val")

	post, err := posts.CreatePost("Discussable", "body", "", author.ID, "")
	require.NoError(t, err)

	comment, err := svc.AddComment(post.ID, reader.ID, "first!")
	require.NoError(t, err)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "val", comment.AuthorName)
	assert.Equal(t, "first!", comment.Content)

	t.Run("missing post is reported", func(t *testing.T) {
		_, err := svc.AddComment("no-such-post", reader.ID, "hello?")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("comment count shows up on the post", func(t *testing.T) {
		got, err := posts.GetPostByID(post.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, got.CommentCount)
	})
}

func TestListByPost_NewestFirst(t *testing.T) {
	db := testDB(t)
	posts := newTestPostService(t, db)
	svc := NewCommentService(db)
	author := createTestUser(t, db, "wes")

	post, err := posts.CreatePost("Thread", "body", "", author.ID, "")
	require.NoError(t, err)

	first, err := svc.AddComment(post.ID, author.ID, "one")
	require.NoError(t, err)
	second, err := svc.AddComment(post.ID, author.ID, "two")
	require.NoError(t, err)
	backdate(t, db, "comments", first.ID, 20)
	backdate(t, db, "comments", second.ID, 10)

	got, err := svc.ListByPost(post.ID)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, second.ID, got[0].ID)
	assert.Equal(t, first.ID, got[1].ID)

	t.Run("post without comments lists empty", func(t *testing.T) {
		empty, err := posts.CreatePost("Quiet", "body", "", author.ID, "")
		require.NoError(t, err)
		got, err := svc.ListByPost(empty.ID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
