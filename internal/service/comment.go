package service

import (
	"errors"
	"time"

	"ourlog/backend/internal/hub"
	"ourlog/backend/internal/models"

	"gorm.io/gorm"
)

// CommentItem is a comment as the transport layer sees it.
type CommentItem struct {
	ID        uint      `json:"id"`
	Author    string    `json:"author"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"createdDate"`
}

// CommentService handles comments and their notification fan-out.
type CommentService struct {
	db    *gorm.DB
	users *UserService
	hub   *hub.Hub
}

func NewCommentService(db *gorm.DB, users *UserService, events *hub.Hub) *CommentService {
	return &CommentService{db: db, users: users, hub: events}
}

// Write stores a comment under the post and returns its id. Commenting on
// someone else's post also inserts a comment notification for the author,
// in the same transaction as the comment row.
func (s *CommentService) Write(sessionToken string, postID uint, content string) (uint, error) {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return 0, err
	}

	var post models.Post
	err = s.db.Preload("Author").First(&post, postID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, ErrPostNotFound
	}
	if err != nil {
		return 0, err
	}

	comment := models.Comment{Content: content, UserID: user.ID, PostID: post.ID}
	if user.ID == post.AuthorID {
		if err := s.db.Create(&comment).Error; err != nil {
			return 0, err
		}
		return comment.ID, nil
	}

	notification := models.NewCommentNotification(user.ID, post.AuthorID, post.ID)
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&comment).Error; err != nil {
			return err
		}
		return tx.Create(&notification).Error
	})
	if err != nil {
		return 0, err
	}

	if s.hub != nil {
		s.hub.Broadcast(notification.ReceiverID, hub.Event{Type: "notification", Payload: NotificationItem{
			ID:     notification.ID,
			Type:   notification.Type,
			Sender: user.Username,
			PostID: notification.PostID,
		}})
	}
	return comment.ID, nil
}

// List returns the post's comments, newest first, with author names.
func (s *CommentService) List(postID uint) ([]CommentItem, error) {
	if _, err := s.postExists(postID); err != nil {
		return nil, err
	}

	var comments []models.Comment
	err := s.db.Preload("User").
		Where("post_id = ?", postID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}

	items := make([]CommentItem, 0, len(comments))
	for _, comment := range comments {
		items = append(items, CommentItem{
			ID:        comment.ID,
			Author:    comment.User.Username,
			Content:   comment.Content,
			CreatedAt: comment.CreatedAt,
		})
	}
	return items, nil
}

// Count returns the number of comments under the post.
func (s *CommentService) Count(postID uint) (int64, error) {
	if _, err := s.postExists(postID); err != nil {
		return 0, err
	}
	var count int64
	err := s.db.Model(&models.Comment{}).Where("post_id = ?", postID).Count(&count).Error
	return count, err
}

func (s *CommentService) postExists(postID uint) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Post{}).Where("id = ?", postID).Count(&count).Error; err != nil {
		return false, err
	}
	if count == 0 {
		return false, ErrPostNotFound
	}
	return true, nil
}
