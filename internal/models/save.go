package models

import "time"

// Save is a (post, user) bookmark row. Unlike likes, saving a post never
// notifies the author.
type Save struct {
	ID        uint `gorm:"primaryKey"`
	PostID    uint `gorm:"not null;uniqueIndex:idx_saves_post_user"`
	UserID    uint `gorm:"not null;uniqueIndex:idx_saves_post_user"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID"`
}
