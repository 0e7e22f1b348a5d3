package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/kannan-2002/Assessment-Management-System/models"

	"gorm.io/gorm"
)

// UserRepository defines the interface for interacting with user accounts.
type UserRepository interface {
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new instance of UserRepository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

// CreateUser persists a new user account.
func (r *userRepository) CreateUser(user *models.User) error {
	if user == nil {
		return errors.New("user cannot be nil")
	}
	if err := r.db.Create(user).Error; err != nil {
		log.Printf("ERROR: [UserRepository] Failed to create user '%s': %v", user.Email, err)
		return fmt.Errorf("failed to create user '%s': %w", user.Email, err)
	}
	log.Printf("INFO: [UserRepository] Created user '%s' with role '%s'.", user.Email, user.Role)
	return nil
}

// GetUserByEmail retrieves a user by email. Returns (nil, nil) when no such
// user exists; the service layer interprets that as unknown account.
func (r *userRepository) GetUserByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to fetch user by email '%s': %v", email, err)
		return nil, fmt.Errorf("failed to fetch user by email '%s': %w", email, err)
	}
	return &user, nil
}

// GetUserByID retrieves a user by id. Returns (nil, nil) when not found.
func (r *userRepository) GetUserByID(id string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UserRepository] Failed to fetch user by id '%s': %v", id, err)
		return nil, fmt.Errorf("failed to fetch user by id '%s': %w", id, err)
	}
	return &user, nil
}
