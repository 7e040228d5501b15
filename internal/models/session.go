package models

import "time"

// Session maps an opaque token to exactly one authenticated user.
// Signing in revokes any previous sessions for the user, so at most one
// session per user is live at a time.
type Session struct {
	Token     string `gorm:"primaryKey;size:36"`
	UserID    uint   `gorm:"not null;index"`
	CreatedAt time.Time

	User User `gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
