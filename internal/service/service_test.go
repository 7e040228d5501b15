package service

import (
	"fmt"
	"testing"

	"ourlog/backend/internal/database"
	"ourlog/backend/internal/models"
	"ourlog/backend/pkg/token"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	db            *gorm.DB
	users         *UserService
	friends       *FriendshipService
	notifications *NotificationService
	posts         *PostService
	comments      *CommentService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	users := NewUserService(db)
	return &testEnv{
		db:            db,
		users:         users,
		friends:       NewFriendshipService(db, users, nil),
		notifications: NewNotificationService(db, users),
		posts:         NewPostService(db, users, nil),
		comments:      NewCommentService(db, users, nil),
	}
}

// signup inserts a user with a live session, bypassing the signup flow so
// tests that don't exercise it stay fast (bcrypt.MinCost).
func (e *testEnv) signup(t *testing.T, username string) (string, *models.User) {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Username:     username,
		LoginID:      username + "-login",
		PasswordHash: string(hash),
	}
	require.NoError(t, e.db.Create(&user).Error)

	session := models.Session{Token: token.NewSessionToken(), UserID: user.ID}
	require.NoError(t, e.db.Create(&session).Error)

	return session.Token, &user
}

// writePost inserts a post owned by the given user.
func (e *testEnv) writePost(t *testing.T, authorID uint, title string) *models.Post {
	t.Helper()

	post := models.Post{Title: title, Content: "content of " + title, AuthorID: authorID}
	require.NoError(t, e.db.Create(&post).Error)
	return &post
}

// friendsOf reloads a user's friends set.
func (e *testEnv) friendsOf(t *testing.T, userID uint) []uint {
	t.Helper()

	var user models.User
	require.NoError(t, e.db.Preload("Friends").First(&user, userID).Error)

	ids := make([]uint, 0, len(user.Friends))
	for _, friend := range user.Friends {
		ids = append(ids, friend.ID)
	}
	return ids
}

// notificationsFor loads all notification rows addressed to a user, newest first.
func (e *testEnv) notificationsFor(t *testing.T, userID uint) []models.Notification {
	t.Helper()

	var rows []models.Notification
	require.NoError(t, e.db.Where("receiver_id = ?", userID).
		Order("created_at DESC").Order("id DESC").Find(&rows).Error)
	return rows
}
