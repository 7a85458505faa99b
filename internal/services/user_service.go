package services

import (
	"context"
	"strings"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"bazarBack/internal/models"
	"bazarBack/internal/repositories"
	"bazarBack/utils"
)

const refreshTokenTTL = 30 * 24 * time.Hour

type UserService struct {
	UserRepo     *repositories.UserRepository
	TokenManager *utils.Manager
	SigningKey   string
	AccessTTL    time.Duration
}

type AuthResponse struct {
	User         models.User `json:"user"`
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
}

func (s *UserService) SignUp(ctx context.Context, user models.User) (models.User, error) {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.Email == "" || user.Password == "" {
		return models.User{}, models.ErrInvalidCredentials
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(user.Password), bcrypt.DefaultCost)
	if err != nil {
		return models.User{}, err
	}
	user.Password = string(hashed)
	user.Role = "user"

	return s.UserRepo.CreateUser(ctx, user)
}

func (s *UserService) SignIn(ctx context.Context, email, password string) (AuthResponse, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.UserRepo.GetUserByEmail(ctx, email)
	if err != nil {
		return AuthResponse{}, models.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return AuthResponse{}, models.ErrInvalidCredentials
	}

	accessToken, err := s.newAccessToken(user.ID, user.Role)
	if err != nil {
		return AuthResponse{}, err
	}

	refreshToken, err := s.newRefreshToken()
	if err != nil {
		return AuthResponse{}, err
	}
	session := models.Session{
		UserID:       user.ID,
		Role:         user.Role,
		RefreshToken: refreshToken,
		ExpiresAt:    time.Now().Add(refreshTokenTTL),
	}
	if err := s.UserRepo.SaveSession(ctx, session); err != nil {
		return AuthResponse{}, err
	}

	user.Password = ""
	return AuthResponse{
		User:         user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *UserService) newAccessToken(userID int, role string) (string, error) {
	ttl := s.AccessTTL
	if ttl == 0 {
		ttl = 20 * time.Hour
	}
	claims := &models.Claims{
		UserID: uint(userID),
		Role:   role,
		StandardClaims: jwt.StandardClaims{
			ExpiresAt: time.Now().Add(ttl).Unix(),
			IssuedAt:  time.Now().Unix(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.SigningKey))
}

func (s *UserService) newRefreshToken() (string, error) {
	if s.TokenManager != nil {
		return s.TokenManager.NewRefreshToken()
	}
	return uuid.New().String(), nil // Fallback if TokenManager is unavailable
}
