package services

import (
	"errors"
	"fmt"
	"log"

	"questlog/models"
	"questlog/validation"

	"gorm.io/gorm"
)

type AuthService struct {
	db *gorm.DB
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{db: db}
}

type SignupRequest struct {
	Username *string `json:"username" binding:"required,min=3,max=30"`
	Password *string `json:"password" binding:"required,min=1,max=72"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Signup creates an account. A taken username yields ErrConflict and leaves
// nothing behind.
func (s *AuthService) Signup(req *SignupRequest) (*models.User, error) {
	if err := validation.Struct(req); err != nil {
		return nil, err
	}

	user := models.User{Username: *req.Username}
	if err := user.SetPassword(*req.Password); err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.db.Create(&user).Error; err != nil {
		if isDuplicateKey(err) {
			return nil, ErrConflict
		}
		return nil, err
	}

	log.Printf("User signed up: %s (ID: %d)", user.Username, user.ID)
	return &user, nil
}

func (s *AuthService) Login(req *LoginRequest) (*models.User, error) {
	if req.Username == "" || req.Password == "" {
		return nil, ErrInvalidCredentials
	}

	var user models.User
	if err := s.db.Where("username = ?", req.Username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !user.Authenticate(req.Password) {
		return nil, ErrInvalidCredentials
	}

	return s.GetUser(user.ID)
}

// GetUser loads a user with their games and everything the user view embeds.
func (s *AuthService) GetUser(userID uint) (*models.User, error) {
	var user models.User
	query := s.db.Preload("Games", func(db *gorm.DB) *gorm.DB {
		return db.Order("games.id")
	})
	err := gameDetails(query, "Games.").First(&user, userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, notFound("User")
		}
		return nil, err
	}
	return &user, nil
}

// DeleteAccount removes the user and everything they own.
func (s *AuthService) DeleteAccount(userID uint) error {
	if _, err := s.GetUser(userID); err != nil {
		return err
	}

	if err := inTransaction(s.db, func(tx *gorm.DB) error {
		return deleteUserTree(tx, userID)
	}); err != nil {
		return err
	}

	log.Printf("User %d deleted their account", userID)
	return nil
}
