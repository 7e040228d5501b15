package models

import "gorm.io/gorm"

// Comment represents a comment written under a post.
type Comment struct {
	gorm.Model
	Content string `gorm:"type:text;not null"`
	UserID  uint   `gorm:"not null;index"`
	PostID  uint   `gorm:"not null;index"`

	User User `gorm:"foreignKey:UserID"`
	Post Post `gorm:"foreignKey:PostID"`
}
