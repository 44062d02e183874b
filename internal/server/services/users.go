package services

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/dsmirnov/drivebox/internal/common"
	"github.com/dsmirnov/drivebox/internal/logging"
	"github.com/dsmirnov/drivebox/internal/server/auth"
	"github.com/dsmirnov/drivebox/internal/server/config"
	"github.com/dsmirnov/drivebox/internal/server/models"
	"github.com/dsmirnov/drivebox/internal/server/repositories/users"
)

// UserService handles registration and login against the credential store.
type UserService struct {
	repo         users.Repository
	logger       logging.Logger
	jwtSecret    []byte
	tokenTTL     time.Duration
	storeTimeout time.Duration
}

func NewUserService(repo users.Repository, logger logging.Logger, cfg *config.Config) *UserService {
	ttl := cfg.TokenTTL
	if ttl <= 0 {
		ttl = auth.DefaultTokenTTL
	}
	return &UserService{
		repo:         repo,
		logger:       logger.With("module", "user_service"),
		jwtSecret:    []byte(cfg.SecretKey),
		tokenTTL:     ttl,
		storeTimeout: cfg.StoreTimeout,
	}
}

// Register creates a new credential record. A duplicate email yields
// common.ErrConflict: the pre-insert lookup catches the common case and the
// unique index on email catches the concurrent one. No token is returned;
// the caller logs in separately.
func (s *UserService) Register(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return common.ErrInvalid
	}

	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		return common.ErrConflict
	}
	if !errors.Is(err, common.ErrNotFound) {
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return storeErr(err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error(ctx, "password hashing failed", "error", err)
		return common.ErrInternal
	}

	user := &models.User{
		ID:           bson.NewObjectID().Hex(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.repo.Create(ctx, user); err != nil {
		if errors.Is(err, common.ErrConflict) {
			return common.ErrConflict
		}
		s.logger.Error(ctx, "user insert failed", "error", err)
		return storeErr(err)
	}

	s.logger.Info(ctx, "user registered", "email", email)
	return nil
}

// Login verifies credentials and issues a bearer token with subject = email.
// An unknown email and a wrong password produce the same outcome.
func (s *UserService) Login(ctx context.Context, email, password string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, s.storeTimeout)
	defer cancel()

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return "", common.ErrUnauthorized
		}
		s.logger.Error(ctx, "user lookup failed", "error", err)
		return "", storeErr(err)
	}

	if !auth.CheckPassword(password, user.PasswordHash) {
		return "", common.ErrUnauthorized
	}

	token, err := auth.IssueToken(user.Email, s.jwtSecret, s.tokenTTL)
	if err != nil {
		s.logger.Error(ctx, "token issue failed", "error", err)
		return "", common.ErrInternal
	}

	return token, nil
}
