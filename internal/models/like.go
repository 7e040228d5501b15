package models

import "time"

// Like is a (post, user) join row. The composite unique index closes the
// concurrent double-toggle race at the storage layer; the service still
// does a lookup before deciding between insert and delete.
type Like struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_likes_post_user"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
