package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	domainerrors "taskmanager/internal/domain/errors"
	"taskmanager/internal/domain/models"
)

// Repository is the credential store contract.
type Repository interface {
	GetUserByID(ctx context.Context, id string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	CreateUser(ctx context.Context, user *models.User) error
}

// Service orchestrates registration, login and token authentication. It is
// the sole gate task operations pass through to obtain a caller identity.
type Service struct {
	repo   Repository
	hasher *PasswordHasher
	tokens *TokenManager
}

func NewService(repo Repository, hasher *PasswordHasher, tokens *TokenManager) *Service {
	return &Service{
		repo:   repo,
		hasher: hasher,
		tokens: tokens,
	}
}

// Register creates a new account and returns the user plus a signed token.
func (s *Service) Register(ctx context.Context, req models.RegisterRequest) (*models.User, string, error) {
	if fe := models.Validate(req); fe != nil {
		return nil, "", fe
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := s.repo.GetUserByEmail(ctx, email); err == nil {
		return nil, "", domainerrors.ErrEmailTaken
	} else if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, "", err
	}

	if _, err := s.repo.GetUserByUsername(ctx, req.Username); err == nil {
		return nil, "", domainerrors.ErrUsernameTaken
	} else if !errors.Is(err, domainerrors.ErrUserNotFound) {
		return nil, "", err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, "", domainerrors.ErrInternalServer
	}

	now := time.Now()
	user := &models.User{
		ID:           uuid.New().String(),
		Username:     req.Username,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return nil, "", err
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Login verifies credentials and returns the user plus a signed token. An
// unknown email and a wrong password fail identically, so callers cannot
// probe for registered accounts.
func (s *Service) Login(ctx context.Context, req models.LoginRequest) (*models.User, string, error) {
	if fe := models.Validate(req); fe != nil {
		return nil, "", fe
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))

	user, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainerrors.ErrUserNotFound) {
			return nil, "", domainerrors.ErrInvalidCredentials
		}
		return nil, "", err
	}

	if !s.hasher.Verify(req.Password, user.PasswordHash) {
		return nil, "", domainerrors.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, "", err
	}
	return user, token, nil
}

// Authenticate resolves a token to the user it identifies. A valid signature
// over a user that no longer exists is still an authentication failure.
func (s *Service) Authenticate(ctx context.Context, token string) (*models.User, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	user, err := s.repo.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domainerrors.ErrNotFound) {
			return nil, domainerrors.ErrInvalidToken
		}
		return nil, err
	}
	return user, nil
}
