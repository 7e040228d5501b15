package service

import (
	"errors"

	"ourlog/backend/internal/hub"
	"ourlog/backend/internal/models"

	"gorm.io/gorm"
)

// PageSize is the number of posts per page in post listings.
const PageSize = 10

// PostService handles posts and the like/save toggles.
type PostService struct {
	db    *gorm.DB
	users *UserService
	hub   *hub.Hub
}

func NewPostService(db *gorm.DB, users *UserService, events *hub.Hub) *PostService {
	return &PostService{db: db, users: users, hub: events}
}

// Create stores a new post for the session's user and returns its id.
// images are the stored filenames of the uploaded attachments.
func (s *PostService) Create(sessionToken, title, content string, images []string) (uint, error) {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return 0, err
	}

	post := models.Post{
		Title:    title,
		Content:  content,
		Images:   images,
		AuthorID: user.ID,
	}
	if err := s.db.Create(&post).Error; err != nil {
		return 0, err
	}
	return post.ID, nil
}

// Get loads a post with its author, likes and comments.
func (s *PostService) Get(postID uint) (*models.Post, error) {
	var post models.Post
	err := s.db.Preload("Author").Preload("Likes").Preload("Comments").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPostNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// List returns one page of posts, newest first. Pages start at 1.
func (s *PostService) List(page int) ([]models.Post, error) {
	if page < 1 {
		page = 1
	}
	var posts []models.Post
	err := s.db.Preload("Author").Preload("Likes").Preload("Comments").
		Order("created_at DESC").
		Order("id DESC").
		Limit(PageSize).
		Offset(PageSize * (page - 1)).
		Find(&posts).Error
	return posts, err
}

// ListByUser returns all of a user's posts, newest first.
func (s *PostService) ListByUser(username string) ([]models.Post, error) {
	user, err := s.users.ByUsername(username)
	if err != nil {
		return nil, err
	}
	var posts []models.Post
	err = s.db.Where("author_id = ?", user.ID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&posts).Error
	return posts, err
}

// Count returns the total number of posts.
func (s *PostService) Count() (int64, error) {
	var count int64
	err := s.db.Model(&models.Post{}).Count(&count).Error
	return count, err
}

// IsLiking reports whether the session's user has liked the post.
func (s *PostService) IsLiking(postID uint, sessionToken string) (bool, error) {
	return s.hasJoinRow(&models.Like{}, postID, sessionToken)
}

// IsSaved reports whether the session's user has saved the post.
func (s *PostService) IsSaved(postID uint, sessionToken string) (bool, error) {
	return s.hasJoinRow(&models.Save{}, postID, sessionToken)
}

func (s *PostService) hasJoinRow(model interface{}, postID uint, sessionToken string) (bool, error) {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return false, err
	}
	if _, err := s.Get(postID); err != nil {
		return false, err
	}
	var count int64
	err = s.db.Model(model).Where("post_id = ? AND user_id = ?", postID, user.ID).Count(&count).Error
	return count > 0, err
}

// ToggleLike likes the post if the session's user hasn't liked it yet and
// unlikes it otherwise. Liking someone else's post also inserts a like
// notification for the author, in the same transaction as the like row;
// unliking never notifies.
func (s *PostService) ToggleLike(sessionToken string, postID uint) error {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return err
	}

	var post models.Post
	err = s.db.Preload("Likes").Preload("Author").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrPostNotFound
	}
	if err != nil {
		return err
	}

	for _, like := range post.Likes {
		if like.UserID == user.ID {
			return s.db.Delete(&models.Like{}, like.ID).Error
		}
	}

	like := models.Like{PostID: post.ID, UserID: user.ID}
	if user.ID == post.AuthorID {
		return s.db.Create(&like).Error
	}

	notification := models.NewLikeNotification(user.ID, post.AuthorID, post.ID)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&like).Error; err != nil {
			return err
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return err
	}

	if s.hub != nil {
		s.hub.Broadcast(notification.ReceiverID, hub.Event{Type: "notification", Payload: NotificationItem{
			ID:     notification.ID,
			Type:   notification.Type,
			Sender: user.Username,
			PostID: notification.PostID,
		}})
	}
	return nil
}

// ToggleSave saves the post if the session's user hasn't saved it yet and
// unsaves it otherwise. Saves are private; no notification is created.
func (s *PostService) ToggleSave(sessionToken string, postID uint) error {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return err
	}
	if _, err := s.Get(postID); err != nil {
		return err
	}

	var existing models.Save
	err = s.db.First(&existing, "post_id = ? AND user_id = ?", postID, user.ID).Error
	if err == nil {
		return s.db.Delete(&models.Save{}, existing.ID).Error
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	return s.db.Create(&models.Save{PostID: postID, UserID: user.ID}).Error
}
