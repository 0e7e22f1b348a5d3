package services

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/kannan-2002/Assessment-Management-System/models"
	"github.com/kannan-2002/Assessment-Management-System/repository"
	"github.com/kannan-2002/Assessment-Management-System/utils"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

// AuthService is the identity collaborator: it authenticates accounts and
// turns bearer tokens back into an Actor {id, role}. This is a demo
// provider, not production authentication.
type AuthService interface {
	Login(email, password string) (*models.User, string, error)
	Register(email, password, name string) (*models.User, string, error)
	ParseToken(token string) (*models.Actor, error)
	SeedDemoUsers() error
}

type authService struct {
	users  repository.UserRepository
	secret []byte
	ttl    time.Duration
}

// NewAuthService creates a new instance of AuthService.
func NewAuthService(users repository.UserRepository, secret string, ttl time.Duration) AuthService {
	return &authService{users: users, secret: []byte(secret), ttl: ttl}
}

// SeedDemoUsers installs the fixed demo accounts when they are missing:
// admin@test.com/admin123 (admin) and user@test.com/user123 (user).
func (s *authService) SeedDemoUsers() error {
	demo := []struct {
		email    string
		password string
		name     string
		role     models.UserRole
	}{
		{"admin@test.com", "admin123", "Admin User", models.RoleAdmin},
		{"user@test.com", "user123", "Test User", models.RoleUser},
	}

	for _, d := range demo {
		existing, err := s.users.GetUserByEmail(d.email)
		if err != nil {
			return fmt.Errorf("failed to check demo user '%s': %w", d.email, err)
		}
		if existing != nil {
			continue
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(d.password), bcrypt.DefaultCost)
		if err != nil {
			return fmt.Errorf("failed to hash demo password for '%s': %w", d.email, err)
		}
		user := &models.User{
			ID:           utils.NewID("user"),
			Email:        d.email,
			Name:         d.name,
			Role:         d.role,
			PasswordHash: string(hash),
			CreatedAt:    time.Now(),
		}
		if err := s.users.CreateUser(user); err != nil {
			return err
		}
		log.Printf("INFO: [AuthService] Seeded demo account '%s' (role '%s').", d.email, d.role)
	}
	return nil
}

// Login verifies credentials and returns the user plus a signed session
// token.
func (s *authService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up account '%s': %w", email, err)
	}
	if user == nil {
		log.Printf("INFO: [AuthService] Login failed for unknown account '%s'.", email)
		return nil, "", models.ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		log.Printf("INFO: [AuthService] Login failed for account '%s': wrong password.", email)
		return nil, "", models.ErrInvalidCredentials
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	log.Printf("INFO: [AuthService] User '%s' logged in (role '%s').", user.ID, user.Role)
	return user, token, nil
}

// Register creates a new account with the user role and logs it in.
func (s *authService) Register(email, password, name string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || password == "" || name == "" {
		return nil, "", fmt.Errorf("%w: email, password and name are required", models.ErrInvalidInput)
	}

	existing, err := s.users.GetUserByEmail(email)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check account '%s': %w", email, err)
	}
	if existing != nil {
		return nil, "", fmt.Errorf("%w: '%s'", models.ErrEmailTaken, email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}
	user := &models.User{
		ID:           utils.NewID("user"),
		Email:        email,
		Name:         name,
		Role:         models.RoleUser,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	if err := s.users.CreateUser(user); err != nil {
		return nil, "", err
	}

	token, err := s.issueToken(user)
	if err != nil {
		return nil, "", err
	}
	log.Printf("INFO: [AuthService] Registered new user '%s' ('%s').", user.ID, user.Email)
	return user, token, nil
}

// ParseToken validates a session token and extracts the caller identity.
func (s *authService) ParseToken(tokenString string) (*models.Actor, error) {
	token, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("invalid session token: %w", err)
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.New("invalid session token claims")
	}
	sub, _ := claims["sub"].(string)
	role, _ := claims["role"].(string)
	if sub == "" || role == "" {
		return nil, errors.New("session token is missing identity claims")
	}
	return &models.Actor{ID: sub, Role: models.UserRole(role)}, nil
}

func (s *authService) issueToken(user *models.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  user.ID,
		"role": string(user.Role),
		"name": user.Name,
		"iat":  now.Unix(),
		"exp":  now.Add(s.ttl).Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		log.Printf("ERROR: [AuthService] Failed to sign session token for user '%s': %v", user.ID, err)
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}
