package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 72 * time.Hour

type AuthService struct {
	userRepo  repository.UserRepository
	jwtSecret []byte
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	IsAdmin  bool
}

func NewAuthService(userRepo repository.UserRepository, jwtSecret string) *AuthService {
	return &AuthService{userRepo: userRepo, jwtSecret: []byte(jwtSecret)}
}

// Register creates a user with a bcrypt-hashed password.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*models.User, error) {
	if strings.TrimSpace(in.Username) == "" {
		return nil, models.NewValidationError("username is required")
	}
	if len(in.Password) < 8 {
		return nil, models.NewValidationError("password must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, models.NewInternalError(err)
	}

	user := &models.User{
		Username:     in.Username,
		Email:        in.Email,
		PasswordHash: string(hash),
		IsAdmin:      in.IsAdmin,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, translateDBError(err, "user", nil)
	}
	return user, nil
}

// Login verifies credentials and issues a signed JWT. Missing users and bad
// passwords report the same error so usernames can not be probed.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, *models.User, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", nil, models.NewUnauthorizedError("invalid credentials")
	}

	token, err := s.generateToken(user)
	if err != nil {
		return "", nil, models.NewInternalError(err)
	}
	return token, user, nil
}

func (s *AuthService) generateToken(user *models.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID,
		"admin": user.IsAdmin,
		"exp":   time.Now().Add(tokenTTL).Unix(),
		"iat":   time.Now().Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.jwtSecret)
}
