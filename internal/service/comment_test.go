package service

import (
	"testing"

	"ourlog/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteCommentNotifiesAuthor(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")
	_, bob := env.signup(t, "bob")
	post := env.writePost(t, bob.ID, "bob's post")

	commentID, err := env.comments.Write(aliceToken, post.ID, "nice post!")
	require.NoError(t, err)
	assert.NotZero(t, commentID)

	rows := env.notificationsFor(t, bob.ID)
	require.Len(t, rows, 1)
	assert.Equal(t, models.NotificationComment, rows[0].Type)
	assert.Equal(t, alice.ID, rows[0].SenderID)
	require.NotNil(t, rows[0].PostID)
	assert.Equal(t, post.ID, *rows[0].PostID)
}

func TestWriteCommentOnOwnPost(t *testing.T) {
	env := newTestEnv(t)
	bobToken, bob := env.signup(t, "bob")
	post := env.writePost(t, bob.ID, "bob's post")

	// Commenting under your own post never notifies.
	_, err := env.comments.Write(bobToken, post.ID, "replying to myself")
	require.NoError(t, err)
	assert.Empty(t, env.notificationsFor(t, bob.ID))
}

func TestWriteCommentErrors(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")

	_, err := env.comments.Write(aliceToken, 9999, "into the void")
	assert.ErrorIs(t, err, ErrPostNotFound)

	_, err = env.comments.Write("bad-token", 1, "hello")
	assert.ErrorIs(t, err, ErrInvalidSession)
}

func TestListAndCountComments(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")
	post := env.writePost(t, bob.ID, "bob's post")

	_, err := env.comments.Write(aliceToken, post.ID, "first")
	require.NoError(t, err)
	_, err = env.comments.Write(bobToken, post.ID, "second")
	require.NoError(t, err)

	items, err := env.comments.List(post.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	// Newest first, with author names resolved.
	assert.Equal(t, "second", items[0].Content)
	assert.Equal(t, "bob", items[0].Author)
	assert.Equal(t, "first", items[1].Content)
	assert.Equal(t, "alice", items[1].Author)

	count, err := env.comments.Count(post.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	_, err = env.comments.List(9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
	_, err = env.comments.Count(9999)
	assert.ErrorIs(t, err, ErrPostNotFound)
}
