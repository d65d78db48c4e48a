// internal/service/auth_service.go
package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/nmiguel/devpanel/internal/models"
	"github.com/nmiguel/devpanel/internal/repository"
	"github.com/nmiguel/devpanel/pkg/auth"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailTaken         = errors.New("email is already registered")
)

// AuthService owns account registration and session issuance. The rest
// of the system only needs the resulting user id: authorization stops at
// "is logged in".
type AuthService struct {
	users     repository.UserStore
	tokens    *auth.TokenManager
	passwords *auth.PasswordManager
}

func NewAuthService(users repository.UserStore, tokens *auth.TokenManager, passwords *auth.PasswordManager) *AuthService {
	return &AuthService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
	}
}

type RegisterRequest struct {
	Email    string `json:"email" binding:"required"`
	Name     string `json:"name" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type Session struct {
	User         *models.User `json:"user"`
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	ExpiresIn    int64        `json:"expires_in"`
}

func (s *AuthService) Register(ctx context.Context, req *RegisterRequest) (*Session, error) {
	if err := auth.ValidateEmail(req.Email); err != nil {
		return nil, &ValidationError{Field: "email", Reason: err.Error()}
	}
	if strings.TrimSpace(req.Name) == "" {
		return nil, required("name")
	}

	hash, err := s.passwords.HashPassword(req.Password)
	if err != nil {
		return nil, &ValidationError{Field: "password", Reason: err.Error()}
	}

	if _, err := s.users.GetByEmail(ctx, req.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !repository.IsNotFound(err) {
		return nil, fmt.Errorf("check email: %w", err)
	}

	user, err := s.users.Insert(ctx, &repository.UserInput{
		Email:        req.Email,
		Name:         strings.TrimSpace(req.Name),
		PasswordHash: hash,
	})
	if err != nil {
		// A concurrent registration can slip past the lookup above and
		// trip the unique index on email instead.
		if repository.IsConflict(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return s.session(user)
}

func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*Session, error) {
	user, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("look up account: %w", err)
	}

	if err := s.passwords.ComparePassword(user.PasswordHash, req.Password); err != nil {
		return nil, ErrInvalidCredentials
	}

	return s.session(user)
}

// Refresh trades a valid refresh token for a fresh session.
func (s *AuthService) Refresh(ctx context.Context, req *RefreshRequest) (*Session, error) {
	claims, err := s.tokens.ValidateRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, fmt.Errorf("validate refresh token: %w", err)
	}

	id, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, auth.ErrInvalidClaims
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("look up account: %w", err)
	}

	return s.session(user)
}

// Me returns the account behind a session id.
func (s *AuthService) Me(ctx context.Context, userID uuid.UUID) (*models.User, error) {
	return s.users.GetByID(ctx, userID)
}

func (s *AuthService) session(user *models.User) (*Session, error) {
	access, refresh, expiresIn, err := s.tokens.GenerateTokenPair(user.ID.String(), user.Email)
	if err != nil {
		return nil, fmt.Errorf("issue tokens: %w", err)
	}
	return &Session{
		User:         user,
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    expiresIn,
	}, nil
}
