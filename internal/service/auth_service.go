package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"time"

	"mobileopsconnect/internal/apperr"
	"mobileopsconnect/internal/middleware"
	"mobileopsconnect/internal/model"
	"mobileopsconnect/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	accessTokenTTL  = 24 * time.Hour
	refreshTokenTTL = 7 * 24 * time.Hour
)

// DTOs for Request validation
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

type SessionResponse struct {
	User   UserResponse `json:"user"`
	Tokens TokenPair    `json:"tokens"`
}

// AuthService handles login, refresh token rotation and logout.
type AuthService interface {
	Login(ctx context.Context, req LoginRequest, ip string) (*SessionResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, refreshToken string) error
}

type authService struct {
	users  repository.UserRepository
	tokens repository.RefreshTokenRepository
	audit  AuditService
}

// NewAuthService returns a new instance of AuthService
func NewAuthService(users repository.UserRepository, tokens repository.RefreshTokenRepository, audit AuditService) AuthService {
	return &authService{users: users, tokens: tokens, audit: audit}
}

func (s *authService) Login(ctx context.Context, req LoginRequest, ip string) (*SessionResponse, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		// Same message for unknown email and wrong password
		return nil, apperr.Authorization("invalid email or password")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, apperr.Authorization("invalid email or password")
	}

	pair, err := s.issueTokens(ctx, user)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, Actor{ID: user.ID, Email: user.Email, Role: user.Role},
		model.ActionLogin, "Logged in.", ip)

	return &SessionResponse{User: toUserResponse(*user), Tokens: *pair}, nil
}

// Refresh rotates the refresh token: the presented token is consumed and a
// fresh pair is issued, so a stolen token can be used at most once.
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	stored, err := s.tokens.GetByToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Authorization("invalid refresh token")
		}
		return nil, apperr.Unavailable(err, "failed to look up refresh token")
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.tokens.DeleteByToken(ctx, refreshToken)
		return nil, apperr.Authorization("refresh token expired")
	}

	user, err := s.users.GetByID(ctx, stored.UserID.String())
	if err != nil {
		return nil, apperr.Authorization("invalid refresh token")
	}

	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return nil, apperr.Unavailable(err, "failed to rotate refresh token")
	}

	return s.issueTokens(ctx, user)
}

func (s *authService) Logout(ctx context.Context, refreshToken string) error {
	if refreshToken == "" {
		return nil
	}
	if err := s.tokens.DeleteByToken(ctx, refreshToken); err != nil {
		return apperr.Unavailable(err, "failed to revoke refresh token")
	}
	return nil
}

func (s *authService) issueTokens(ctx context.Context, user *model.User) (*TokenPair, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  user.Role,
		"iat":   now.Unix(),
		"exp":   now.Add(accessTokenTTL).Unix(),
	})

	accessToken, err := token.SignedString(middleware.GetJWTSecret())
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to sign access token")
	}

	refreshValue, err := randomToken()
	if err != nil {
		return nil, apperr.Unavailable(err, "failed to generate refresh token")
	}

	stored := model.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: now.Add(refreshTokenTTL),
	}
	if err := s.tokens.Create(ctx, &stored); err != nil {
		return nil, apperr.Unavailable(err, "failed to persist refresh token")
	}

	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshValue}, nil
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
