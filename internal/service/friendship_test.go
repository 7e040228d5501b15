package service

import (
	"testing"

	"ourlog/backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestCreatesBothRows(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")
	_, bob := env.signup(t, "bob")

	require.NoError(t, env.friends.Request(aliceToken, "bob"))

	bobRows := env.notificationsFor(t, bob.ID)
	require.Len(t, bobRows, 1)
	assert.Equal(t, models.NotificationRequest, bobRows[0].Type)
	assert.Equal(t, alice.ID, bobRows[0].SenderID)
	require.NotNil(t, bobRows[0].Accepted)
	assert.False(t, *bobRows[0].Accepted)

	aliceRows := env.notificationsFor(t, alice.ID)
	require.Len(t, aliceRows, 1)
	assert.Equal(t, models.NotificationRequested, aliceRows[0].Type)
	assert.Equal(t, bob.ID, aliceRows[0].SenderID)
	assert.Nil(t, aliceRows[0].Accepted)
}

func TestRequestErrors(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")

	assert.ErrorIs(t, env.friends.Request(aliceToken, "nobody"), ErrUserNotFound)
	assert.ErrorIs(t, env.friends.Request("bad-token", "alice"), ErrInvalidSession)
}

func TestRequestAcceptFlow(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")

	require.NoError(t, env.friends.Request(aliceToken, "bob"))

	request := env.notificationsFor(t, bob.ID)[0]
	require.NoError(t, env.friends.Accept(bobToken, request.ID))

	// Both friends sets gained the other side.
	assert.Equal(t, []uint{bob.ID}, env.friendsOf(t, alice.ID))
	assert.Equal(t, []uint{alice.ID}, env.friendsOf(t, bob.ID))

	// The original request is marked accepted.
	var updated models.Notification
	require.NoError(t, env.db.First(&updated, request.ID).Error)
	require.NotNil(t, updated.Accepted)
	assert.True(t, *updated.Accepted)

	// Each side got an accepted receipt.
	bobRows := env.notificationsFor(t, bob.ID)
	require.Len(t, bobRows, 2)
	assert.Equal(t, models.NotificationAccepted, bobRows[0].Type)
	aliceRows := env.notificationsFor(t, alice.ID)
	require.Len(t, aliceRows, 2)
	assert.Equal(t, models.NotificationAccepted, aliceRows[0].Type)

	// Relation is now friends, from both perspectives.
	status, err := env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationFriends, status)
	status, err = env.friends.Relation(bobToken, "alice")
	require.NoError(t, err)
	assert.Equal(t, RelationFriends, status)

	// A repeated request between friends is rejected.
	assert.ErrorIs(t, env.friends.Request(aliceToken, "bob"), ErrAlreadyFriends)
}

func TestAcceptValidation(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")
	carolToken, _ := env.signup(t, "carol")

	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	request := env.notificationsFor(t, bob.ID)[0]
	receipt := env.notificationsFor(t, alice.ID)[0]

	// Unknown notification id.
	assert.ErrorIs(t, env.friends.Accept(bobToken, 9999), ErrInvalidRequest)
	// Addressed to a different receiver.
	assert.ErrorIs(t, env.friends.Accept(carolToken, request.ID), ErrInvalidRequest)
	// Wrong type: the mirror receipt is not acceptable.
	assert.ErrorIs(t, env.friends.Accept(aliceToken, receipt.ID), ErrInvalidRequest)

	// Accepting twice fails once the two are friends.
	require.NoError(t, env.friends.Accept(bobToken, request.ID))
	assert.ErrorIs(t, env.friends.Accept(bobToken, request.ID), ErrAlreadyFriends)
}

func TestBreakFriend(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")

	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	require.NoError(t, env.friends.Accept(bobToken, env.notificationsFor(t, bob.ID)[0].ID))

	require.NoError(t, env.friends.Break(aliceToken, "bob"))

	// Both sides of the relation are gone.
	assert.Empty(t, env.friendsOf(t, alice.ID))
	assert.Empty(t, env.friendsOf(t, bob.ID))

	// Each side got a broken notification.
	assert.Equal(t, models.NotificationBroken, env.notificationsFor(t, alice.ID)[0].Type)
	assert.Equal(t, models.NotificationBroken, env.notificationsFor(t, bob.ID)[0].Type)

	// Relation is back to none unless a new request exists.
	status, err := env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)

	// Breaking again fails.
	assert.ErrorIs(t, env.friends.Break(aliceToken, "bob"), ErrNotFriends)
}

func TestRelationDerivation(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")
	bobToken, _ := env.signup(t, "bob")

	// No history at all.
	status, err := env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)

	// Self.
	status, err = env.friends.Relation(aliceToken, "alice")
	require.NoError(t, err)
	assert.Equal(t, RelationSelf, status)

	require.NoError(t, env.friends.Request(aliceToken, "bob"))

	// Pending from the sender's side.
	status, err = env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationPending, status)

	// The receiver of the pending request sees none from their own side:
	// the derivation only consults requests the viewer sent.
	status, err = env.friends.Relation(bobToken, "alice")
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)

	_, err = env.friends.Relation(aliceToken, "nobody")
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestRelationAfterBreakAndRerequest(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")

	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	require.NoError(t, env.friends.Accept(bobToken, env.notificationsFor(t, bob.ID)[0].ID))
	require.NoError(t, env.friends.Break(aliceToken, "bob"))

	// The newest broken row wins over the stale accepted request.
	status, err := env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationNone, status)

	// A fresh request flips it back to pending.
	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	status, err = env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationPending, status)
}

func TestDuplicateRequestsPileUp(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")
	_, bob := env.signup(t, "bob")

	// There is no duplicate-request guard: repeated requests each insert
	// their pair and only the most recent one decides the relation.
	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	require.NoError(t, env.friends.Request(aliceToken, "bob"))

	assert.Len(t, env.notificationsFor(t, bob.ID), 2)

	status, err := env.friends.Relation(aliceToken, "bob")
	require.NoError(t, err)
	assert.Equal(t, RelationPending, status)
}

func TestSelfRequestIsNotGuarded(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, alice := env.signup(t, "alice")

	// Requesting friendship with yourself succeeds and inserts the pair,
	// both rows addressed to the same user.
	require.NoError(t, env.friends.Request(aliceToken, "alice"))
	assert.Len(t, env.notificationsFor(t, alice.ID), 2)

	// Self still dominates the derived relation.
	status, err := env.friends.Relation(aliceToken, "alice")
	require.NoError(t, err)
	assert.Equal(t, RelationSelf, status)
}

func TestFriendsCount(t *testing.T) {
	env := newTestEnv(t)
	aliceToken, _ := env.signup(t, "alice")
	bobToken, bob := env.signup(t, "bob")
	carolToken, carol := env.signup(t, "carol")

	count, err := env.friends.FriendsCount(aliceToken)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, env.friends.Request(aliceToken, "bob"))
	require.NoError(t, env.friends.Accept(bobToken, env.notificationsFor(t, bob.ID)[0].ID))
	require.NoError(t, env.friends.Request(aliceToken, "carol"))
	require.NoError(t, env.friends.Accept(carolToken, env.notificationsFor(t, carol.ID)[0].ID))

	count, err = env.friends.FriendsCount(aliceToken)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	count, err = env.friends.FriendsCount(bobToken)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	_, err = env.friends.FriendsCount("bad-token")
	assert.ErrorIs(t, err, ErrInvalidSession)
}
