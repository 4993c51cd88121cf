package services

import (
	"errors"
	"fmt"
	"strings"

	"hotel-booking-backend/config"
	"hotel-booking-backend/models"
	"hotel-booking-backend/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthService struct {
	DB  *gorm.DB
	cfg *config.Config
}

func NewAuthService(db *gorm.DB, cfg *config.Config) *AuthService {
	return &AuthService{DB: db, cfg: cfg}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Name     string
	Role     string
}

// Register creates a user with a bcrypt-hashed password and returns the
// user with a signed token. Role defaults to "user".
func (s *AuthService) Register(input RegisterInput) (*models.User, string, error) {
	input.Email = strings.ToLower(strings.TrimSpace(input.Email))
	input.Username = strings.TrimSpace(input.Username)
	if input.Username == "" || input.Email == "" || input.Name == "" {
		return nil, "", utils.NewInvalidInput("username, email and name are required")
	}
	if len(input.Password) < 8 {
		return nil, "", utils.NewInvalidInput("password must be at least 8 characters")
	}

	roleName := input.Role
	if roleName == "" {
		roleName = models.RoleUser
	}
	var role models.Role
	if err := s.DB.Where("name = ?", roleName).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.NewInvalidInput(fmt.Sprintf("unknown role %q", roleName))
		}
		return nil, "", fmt.Errorf("failed to resolve role: %w", err)
	}

	var existing models.User
	err := s.DB.Where("email = ?", input.Email).First(&existing).Error
	if err == nil {
		return nil, "", utils.NewConflict("email already registered")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", fmt.Errorf("failed to check existing user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hash),
		Name:     input.Name,
		RoleID:   role.ID,
	}
	if err := s.DB.Create(&user).Error; err != nil {
		if isDuplicateEntry(err) {
			return nil, "", utils.NewConflict("username or email already registered")
		}
		return nil, "", fmt.Errorf("failed to create user: %w", err)
	}
	user.Role = role

	token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.JWTExpiry, user.ID, role.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return &user, token, nil
}

// Login checks credentials and issues a token. Invalid email and invalid
// password are indistinguishable to the caller.
func (s *AuthService) Login(email, password string) (*models.User, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var user models.User
	if err := s.DB.Preload("Role").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", utils.NewUnauthorized("invalid credentials")
		}
		return nil, "", fmt.Errorf("failed to load user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, "", utils.NewUnauthorized("invalid credentials")
	}

	token, err := utils.GenerateToken(s.cfg.JWTSecret, s.cfg.JWTExpiry, user.ID, user.Role.Name)
	if err != nil {
		return nil, "", fmt.Errorf("failed to issue token: %w", err)
	}
	return &user, token, nil
}

func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	var user models.User
	if err := s.DB.Preload("Role").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, utils.NewNotFound("user not found")
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &user, nil
}

func (s *AuthService) GetUsers() ([]models.User, error) {
	var users []models.User
	if err := s.DB.Preload("Role").Order("created_at DESC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve users: %w", err)
	}
	return users, nil
}
