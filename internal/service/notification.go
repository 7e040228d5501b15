package service

import (
	"ourlog/backend/internal/models"

	"gorm.io/gorm"
)

// NotificationItem is what the transport layer sees of a notification:
// the sender resolved to a display name, the variant tag, and the
// variant-specific fields (nil when not meaningful for the type).
type NotificationItem struct {
	ID       uint                    `json:"id"`
	Type     models.NotificationType `json:"type"`
	Sender   string                  `json:"sender"`
	PostID   *uint                   `json:"postId"`
	Accepted *bool                   `json:"accepted"`
}

// NotificationService lists a user's received notifications.
type NotificationService struct {
	db    *gorm.DB
	users *UserService
}

func NewNotificationService(db *gorm.DB, users *UserService) *NotificationService {
	return &NotificationService{db: db, users: users}
}

// List returns every notification addressed to the session's user, newest
// first. There is no pagination and no read/unread state.
func (s *NotificationService) List(sessionToken string) ([]NotificationItem, error) {
	user, err := s.users.UserBySession(sessionToken, false)
	if err != nil {
		return nil, err
	}

	var notifications []models.Notification
	err = s.db.Preload("Sender").
		Where("receiver_id = ?", user.ID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}

	items := make([]NotificationItem, 0, len(notifications))
	for _, n := range notifications {
		items = append(items, NotificationItem{
			ID:       n.ID,
			Type:     n.Type,
			Sender:   n.Sender.Username,
			PostID:   n.PostID,
			Accepted: n.Accepted,
		})
	}
	return items, nil
}
