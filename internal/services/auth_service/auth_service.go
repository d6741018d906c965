package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"adriarent/internal/domain/models"
	"adriarent/internal/lib/jwt"
	"adriarent/internal/lib/logger/sl"
	"adriarent/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

// AuthService is the identity collaborator glue: it issues the opaque bearer
// tokens the rest of the system consumes. Refresh tokens are tracked in
// Redis so they can be revoked.
type AuthService struct {
	log        *slog.Logger
	users      repository.UserRepository
	tokens     repository.TokenRepository
	secret     string
	accessTTL  time.Duration
	refreshTTL time.Duration
}

func NewAuthService(log *slog.Logger, users repository.UserRepository, tokens repository.TokenRepository, secret string, accessTTL, refreshTTL time.Duration) *AuthService {
	return &AuthService{
		log:        log,
		users:      users,
		tokens:     tokens,
		secret:     secret,
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (uuid.UUID, error) {
	const op = "auth_service.Register"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.users.SaveUser(ctx, models.User{
		Name:     name,
		Email:    email,
		PassHash: passHash,
		Role:     models.RoleUser,
	})
	if err != nil {
		if errors.Is(err, models.ErrUserExists) {
			log.Warn("user already exists")
			return uuid.Nil, fmt.Errorf("%s: %w", op, models.ErrUserExists)
		}
		log.Error("failed to save user", sl.Err(err))
		return uuid.Nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("user registered", slog.String("user_id", id.String()))
	return id, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*models.TokenPair, error) {
	const op = "auth_service.Login"
	log := s.log.With(slog.String("op", op), slog.String("email", email))

	user, err := s.users.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			log.Warn("user not found", sl.Err(err))
			return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword(user.PassHash, []byte(password)); err != nil {
		log.Info("invalid credentials", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, ErrInvalidCredentials)
	}

	return s.issueTokens(ctx, user)
}

func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*models.TokenPair, error) {
	const op = "auth_service.Refresh"
	log := s.log.With(slog.String("op", op))

	identity, err := jwt.ParseIdentity(refreshToken, s.secret)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	known, err := s.tokens.GetRefreshToken(ctx, identity.ID.String(), refreshToken)
	if err != nil || !known {
		return nil, fmt.Errorf("%s: %w", op, models.ErrUnauthorized)
	}

	// Rotation: a refresh token is single-use.
	if err := s.tokens.DeleteRefreshToken(ctx, identity.ID.String(), refreshToken); err != nil {
		log.Error("failed to rotate refresh token", sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	user, err := s.users.UserByID(ctx, identity.ID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return s.issueTokens(ctx, user)
}

// CurrentUser returns the snapshot clients keep in their durable cache.
func (s *AuthService) CurrentUser(ctx context.Context, id uuid.UUID) (models.User, error) {
	const op = "auth_service.CurrentUser"

	user, err := s.users.UserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("%s: %w", op, err)
	}
	return user, nil
}

func (s *AuthService) issueTokens(ctx context.Context, user models.User) (*models.TokenPair, error) {
	const op = "auth_service.issueTokens"

	access, err := jwt.NewToken(user, s.secret, s.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	refresh, err := jwt.NewToken(user, s.secret, s.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.tokens.SaveRefreshToken(ctx, user.ID.String(), refresh, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	return &models.TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
