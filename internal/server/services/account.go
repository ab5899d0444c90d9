package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/auth"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
)

// ProfilePatch lists the profile fields to change; nil means keep.
type ProfilePatch struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// AccountService handles signup, signin and the caller's own profile.
type AccountService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	hasher      *auth.PasswordHasher
	tokens      *auth.TokenService
	logger      logging.Logger
}

func NewAccountService(db *sql.DB, m repomanager.RepositoryManager, hasher *auth.PasswordHasher,
	tokens *auth.TokenService, logger logging.Logger) *AccountService {
	return &AccountService{
		db:          db,
		repomanager: m,
		hasher:      hasher,
		tokens:      tokens,
		logger:      logger.With("module", "accounts"),
	}
}

// Signup creates an account for email and returns an access token for it.
// An email that is already registered yields common.ErrorEmailTaken.
func (s *AccountService) Signup(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return "", err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}

	user, err := repo.Create(ctx, &models.User{Email: email, PasswordHash: hash})
	if err != nil {
		// a concurrent signup may win between the check and the insert
		return "", storeError(err)
	}

	s.logger.Info(ctx, "user signed up", "user_id", user.ID)
	return s.tokens.Issue(user.ID, user.Email)
}

// Signin checks the password and returns a fresh access token. An unknown
// email and a wrong password both yield common.ErrorInvalidCredentials.
func (s *AccountService) Signin(ctx context.Context, email, password string) (string, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			s.hasher.VerifyMissing(password)
			return "", common.ErrorInvalidCredentials
		}
		return "", storeError(err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		s.logger.Info(ctx, "signin rejected", "user_id", user.ID)
		return "", common.ErrorInvalidCredentials
	}

	return s.tokens.Issue(user.ID, user.Email)
}

// GetProfile returns the subject's own account.
func (s *AccountService) GetProfile(ctx context.Context, subjectID string) (*models.User, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, subjectID)
	if err != nil {
		return nil, storeError(err)
	}
	return user, nil
}

// EditProfile applies patch to the subject's account. Moving to an email
// another account holds yields common.ErrorEmailTaken.
func (s *AccountService) EditProfile(ctx context.Context, subjectID string, patch ProfilePatch) (*models.User, error) {
	repo := s.repomanager.Users(s.db)

	user, err := repo.GetByID(ctx, subjectID)
	if err != nil {
		return nil, storeError(err)
	}

	if patch.Email != nil && *patch.Email != user.Email {
		if err := s.ensureEmailFree(ctx, *patch.Email, user.ID); err != nil {
			return nil, err
		}
		user.Email = *patch.Email
	}
	if patch.FirstName != nil {
		user.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		user.LastName = patch.LastName
	}

	updated, err := repo.Update(ctx, user)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// ensureEmailFree fails with common.ErrorEmailTaken when email belongs to an
// account other than exceptID.
func (s *AccountService) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	existing, err := s.repomanager.Users(s.db).GetByEmail(ctx, email)
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return nil
	case err != nil:
		return storeError(err)
	case existing.ID != exceptID:
		return common.ErrorEmailTaken
	default:
		return nil
	}
}
