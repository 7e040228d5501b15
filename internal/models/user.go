package models

import "gorm.io/gorm"

// User represents a user in the system.
type User struct {
	gorm.Model
	Username     string `gorm:"size:255;unique;not null"`
	LoginID      string `gorm:"size:255;unique;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Introduction string `gorm:"type:text"`
	Image        string `gorm:"size:255"` // profile image filename under the upload dir

	Posts    []Post    `gorm:"foreignKey:AuthorID"`
	Likes    []Like    `gorm:"foreignKey:UserID"`
	Comments []Comment `gorm:"foreignKey:UserID"`
	Saves    []Save    `gorm:"foreignKey:UserID"`

	// Friends is a symmetric relation stored as two directed rows in
	// user_friends. Both directions are always written together; one
	// direction must never be assumed to imply its mirror.
	Friends []*User `gorm:"many2many:user_friends"`
}

// IsFriendOf reports whether target is in the user's friends set.
// The Friends association must have been preloaded.
func (u *User) IsFriendOf(targetID uint) bool {
	for _, friend := range u.Friends {
		if friend.ID == targetID {
			return true
		}
	}
	return false
}
