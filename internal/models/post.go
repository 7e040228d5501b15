package models

import "gorm.io/gorm"

// Post represents a user's post with optional image attachments.
type Post struct {
	gorm.Model
	Title    string   `gorm:"size:255;not null"`
	Content  string   `gorm:"type:text;not null"`
	Images   []string `gorm:"serializer:json"` // attachment filenames, in upload order
	AuthorID uint     `gorm:"not null;index"`

	Author   User      `gorm:"foreignKey:AuthorID"`
	Likes    []Like    `gorm:"foreignKey:PostID"`
	Comments []Comment `gorm:"foreignKey:PostID"`
	Saves    []Save    `gorm:"foreignKey:PostID"`
}
