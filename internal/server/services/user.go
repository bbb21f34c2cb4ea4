// Package services contains server-side business logic. This file implements
// UserService, which handles registration, credential verification, and
// issuing session JWTs.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/petiteannonce/server/internal/common"
	"github.com/petiteannonce/server/internal/logging"
	"github.com/petiteannonce/server/internal/server/auth"
	"github.com/petiteannonce/server/internal/server/config"
	"github.com/petiteannonce/server/internal/server/models"
	"github.com/petiteannonce/server/internal/server/repositories/repomanager"
)

// dummyHash is a valid bcrypt hash compared against when the email is
// unknown, so a miss costs the same as a password mismatch.
var dummyHash = []byte("$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy")

// UserService provides authentication-related operations:
// - Register: create users with a salted one-way password hash
// - Authenticate: verify credentials against the stored hash
// - IssueToken: mint session JWTs
type UserService struct {
	db              *sql.DB
	repomanager     repomanager.RepositoryManager
	logger          logging.Logger
	jwtSecret       []byte
	sessionValidity time.Duration
	bcryptCost      int
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config, l logging.Logger) *UserService {
	return &UserService{
		db:              db,
		repomanager:     m,
		logger:          l.With("module", "user_service"),
		jwtSecret:       []byte(cfg.SecretKey),
		sessionValidity: cfg.SessionValidityDuration,
		bcryptCost:      cfg.BcryptCost,
	}
}

// Register creates a new user. The raw password is hashed immediately and
// never stored or logged; a duplicate email yields common.ErrorConflict.
func (s *UserService) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.bcryptCost)
	if err != nil {
		return nil, common.ErrorInternal
	}

	user := &models.User{Name: name, Email: email, PasswordHash: string(hash)}

	repo := s.repomanager.Users(s.db)
	u, err := repo.Create(ctx, user)
	if err != nil {
		if errors.Is(err, common.ErrorConflict) {
			return nil, common.ErrorConflict
		}
		return nil, fmt.Errorf("error creating user: %w", err)
	}

	s.logger.Info(ctx, "user registered", "user_id", u.ID)
	return u, nil
}

// Authenticate verifies the email/password pair. An unknown email and a
// wrong password are indistinguishable to the caller and produce the same
// log line.
func (s *UserService) Authenticate(ctx context.Context, email, password string) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// burn a comparison so the miss is not cheaper than a mismatch
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(password))
			s.logger.Warn(ctx, "authentication failed")
			return nil, common.ErrorUnauthorized
		}
		return nil, common.ErrorInternal
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Warn(ctx, "authentication failed")
		return nil, common.ErrorUnauthorized
	}

	return user, nil
}

// IssueToken signs a session token for the user.
func (s *UserService) IssueToken(user *models.User) (string, error) {
	token, err := auth.GenerateToken(user.ID, user.Email, s.jwtSecret, s.sessionValidity)
	if err != nil {
		return "", common.ErrorInternal
	}
	return token, nil
}

// SessionValidity reports how long issued tokens (and their cookies) live.
func (s *UserService) SessionValidity() time.Duration {
	return s.sessionValidity
}
