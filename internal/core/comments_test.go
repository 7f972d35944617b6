package core

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/siahsang/forum/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateComment(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	alice := createUser(t, c, "alice")
	general := createCategory(t, c, "General")
	post := createPost(t, c, alice, general.ID, "How does X work?")

	_, err := c.CreateComment(ctx, alice, post.ID+100, "hello")
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.CreateComment(ctx, alice, post.ID, "   ")
	requireValidationField(t, err, "content")

	_, err = c.CreateComment(ctx, alice, post.ID, strings.Repeat("x", maxCommentLength+1))
	requireValidationField(t, err, "content")

	comment, err := c.CreateComment(ctx, alice, post.ID, "  hello  ")
	require.NoError(t, err)
	assert.Equal(t, "hello", comment.Content)
	assert.Equal(t, post.ID, comment.PostID)
	assert.Equal(t, "alice", comment.Author.Username)
}

func TestListComments_OldestFirst(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	alice := createUser(t, c, "alice")
	bob := createUser(t, c, "bob")
	general := createCategory(t, c, "General")
	post := createPost(t, c, alice, general.ID, "How does X work?")

	for _, content := range []string{"one", "two", "three"} {
		_, err := c.CreateComment(ctx, bob, post.ID, content)
		require.NoError(t, err)
	}

	comments, err := c.ListComments(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "one", comments[0].Content)
	assert.Equal(t, "two", comments[1].Content)
	assert.Equal(t, "three", comments[2].Content)
	assert.Equal(t, "bob", comments[0].Author.Username)

	none, err := c.ListComments(ctx, post.ID+100)
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestUpdateComment(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	alice := createUser(t, c, "alice")
	bob := createUser(t, c, "bob")
	general := createCategory(t, c, "General")
	post := createPost(t, c, alice, general.ID, "How does X work?")
	comment, err := c.CreateComment(ctx, bob, post.ID, "original")
	require.NoError(t, err)

	_, err = c.UpdateComment(ctx, alice, comment.ID, models.CommentPatch{Content: ptr("edited")})
	assert.True(t, errors.Is(err, ErrForbidden))

	_, err = c.UpdateComment(ctx, bob, comment.ID+100, models.CommentPatch{Content: ptr("edited")})
	assert.True(t, errors.Is(err, ErrNotFound))

	_, err = c.UpdateComment(ctx, bob, comment.ID, models.CommentPatch{Content: ptr(" ")})
	requireValidationField(t, err, "content")

	unchanged, err := c.UpdateComment(ctx, bob, comment.ID, models.CommentPatch{})
	require.NoError(t, err)
	assert.Equal(t, "original", unchanged.Content)

	updated, err := c.UpdateComment(ctx, bob, comment.ID, models.CommentPatch{Content: ptr("edited")})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)
	assert.Equal(t, "bob", updated.Author.Username)
}

func TestDeleteComment(t *testing.T) {
	c, _ := newTestCore(t)
	ctx := context.Background()
	alice := createUser(t, c, "alice")
	bob := createUser(t, c, "bob")
	general := createCategory(t, c, "General")
	post := createPost(t, c, alice, general.ID, "How does X work?")
	comment, err := c.CreateComment(ctx, bob, post.ID, "reply")
	require.NoError(t, err)

	err = c.DeleteComment(ctx, alice, comment.ID)
	assert.True(t, errors.Is(err, ErrForbidden))

	require.NoError(t, c.DeleteComment(ctx, bob, comment.ID))

	err = c.DeleteComment(ctx, bob, comment.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}
