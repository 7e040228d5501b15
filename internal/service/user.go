package service

import (
	"errors"

	"ourlog/backend/internal/models"
	"ourlog/backend/pkg/token"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// UserService handles accounts, sessions and profiles. It is also the
// identity resolver the other services go through: every session token is
// turned into a user here.
type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// UserBySession resolves a session token to its owning user. withFriends
// eager-loads the friends relation for callers that need it.
func (s *UserService) UserBySession(sessionToken string, withFriends bool) (*models.User, error) {
	query := s.db.Preload("User")
	if withFriends {
		query = query.Preload("User.Friends")
	}

	var session models.Session
	if err := query.First(&session, "token = ?", sessionToken).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidSession
		}
		return nil, err
	}
	return &session.User, nil
}

// SignupInput carries a new user's profile. Image is the stored filename of
// the uploaded profile image, which may be empty.
type SignupInput struct {
	Username     string
	LoginID      string
	Password     string
	Introduction string
	Image        string
}

// Signup creates the user and signs them in, returning the session token.
func (s *UserService) Signup(input SignupInput) (string, error) {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}

	user := models.User{
		Username:     input.Username,
		LoginID:      input.LoginID,
		PasswordHash: string(hashedPassword),
		Introduction: input.Introduction,
		Image:        input.Image,
	}

	session := models.Session{Token: token.NewSessionToken()}
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&user).Error; err != nil {
			return err
		}
		session.UserID = user.ID
		return tx.Create(&session).Error
	})
	if err != nil {
		return "", err
	}
	return session.Token, nil
}

// Signin verifies the credentials and rotates the user's session: any
// previous sessions are revoked before the new one is created.
func (s *UserService) Signin(loginID, password string) (string, string, error) {
	var user models.User
	if err := s.db.First(&user, "login_id = ?", loginID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", "", ErrInvalidCredentials
		}
		return "", "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", ErrInvalidCredentials
	}

	session := models.Session{Token: token.NewSessionToken(), UserID: user.ID}
	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", user.ID).Delete(&models.Session{}).Error; err != nil {
			return err
		}
		return tx.Create(&session).Error
	})
	if err != nil {
		return "", "", err
	}
	return session.Token, user.Username, nil
}

// Signout deletes the session row.
func (s *UserService) Signout(sessionToken string) error {
	result := s.db.Delete(&models.Session{}, "token = ?", sessionToken)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrInvalidSession
	}
	return nil
}

// LoginIDTaken reports whether a login id is already registered.
func (s *UserService) LoginIDTaken(loginID string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("login_id = ?", loginID).Count(&count).Error
	return count > 0, err
}

// UsernameTaken reports whether a username is already registered.
func (s *UserService) UsernameTaken(username string) (bool, error) {
	var count int64
	err := s.db.Model(&models.User{}).Where("username = ?", username).Count(&count).Error
	return count > 0, err
}

// ByUsername looks a user up by username.
func (s *UserService) ByUsername(username string) (*models.User, error) {
	var user models.User
	if err := s.db.First(&user, "username = ?", username).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// UpdateIntroduction replaces the user's introduction text.
func (s *UserService) UpdateIntroduction(userID uint, introduction string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("introduction", introduction).Error
}

// UpdateImage replaces the user's profile image filename.
func (s *UserService) UpdateImage(userID uint, image string) error {
	return s.db.Model(&models.User{}).Where("id = ?", userID).Update("image", image).Error
}

// PostCount returns the number of posts a user has written.
func (s *UserService) PostCount(username string) (int64, error) {
	user, err := s.ByUsername(username)
	if err != nil {
		return 0, err
	}
	var count int64
	err = s.db.Model(&models.Post{}).Where("author_id = ?", user.ID).Count(&count).Error
	return count, err
}

// Search finds users whose username contains query, ranked exact match
// first, then prefix matches, then the rest, ties broken by post count.
func (s *UserService) Search(query string) ([]models.User, error) {
	pattern := "%" + query + "%"

	var users []models.User
	err := s.db.Model(&models.User{}).
		Select("users.*, COUNT(posts.id) AS post_count").
		Joins("LEFT JOIN posts ON posts.author_id = users.id AND posts.deleted_at IS NULL").
		Where("users.username LIKE ?", pattern).
		Group("users.id").
		Order(clause.OrderBy{Expression: clause.Expr{
			SQL:                "CASE WHEN users.username = ? THEN 0 WHEN users.username LIKE ? THEN 1 ELSE 2 END ASC",
			Vars:               []interface{}{query, query + "%"},
			WithoutParentheses: true,
		}}).
		Order("post_count DESC").
		Find(&users).Error
	return users, err
}
