// Package services contains application services for the bookmarks CLI.
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/bookmarks/internal/client/client"
	"github.com/dmitrijs2005/bookmarks/internal/client/repositories/session"
	"github.com/dmitrijs2005/bookmarks/internal/common"
)

// ErrNotSignedIn means there is neither an explicit token nor a saved
// session for the configured server.
var ErrNotSignedIn = errors.New("not signed in")

// SessionService obtains access tokens and keeps the current one in the
// local database.
//
// Token resolution order: the explicit token (-t or BOOKMARKS_TOKEN), then
// the saved session if it was issued by the same server.
type SessionService struct {
	client    client.Client
	repo      session.Repository
	serverURL string
	explicit  string
}

func NewSessionService(c client.Client, repo session.Repository, serverURL, explicitToken string) *SessionService {
	return &SessionService{client: c, repo: repo, serverURL: serverURL, explicit: explicitToken}
}

// Signup registers an account and saves the returned token.
func (s *SessionService) Signup(ctx context.Context, email string, password []byte) error {
	token, err := s.client.Signup(ctx, email, password)
	if err != nil {
		return err
	}
	return s.save(ctx, email, token)
}

// Signin authenticates and saves the returned token.
func (s *SessionService) Signin(ctx context.Context, email string, password []byte) error {
	token, err := s.client.Signin(ctx, email, password)
	if err != nil {
		return err
	}
	return s.save(ctx, email, token)
}

func (s *SessionService) save(ctx context.Context, email, token string) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	for k, v := range map[string]string{
		session.KeyAccessToken: token,
		session.KeyServerURL:   s.serverURL,
		session.KeyEmail:       email,
	} {
		if err := s.repo.Set(ctx, k, v); err != nil {
			return fmt.Errorf("save session: %w", err)
		}
	}
	return nil
}

// Token returns the token to authenticate with.
func (s *SessionService) Token(ctx context.Context) (string, error) {
	if s.explicit != "" {
		return s.explicit, nil
	}

	server, ok, err := s.repo.Get(ctx, session.KeyServerURL)
	if err != nil {
		return "", err
	}
	if !ok || server != s.serverURL {
		return "", ErrNotSignedIn
	}

	token, ok, err := s.repo.Get(ctx, session.KeyAccessToken)
	if err != nil {
		return "", err
	}
	if !ok || token == "" {
		return "", ErrNotSignedIn
	}
	return token, nil
}

// Email returns the address of the saved session, if any.
func (s *SessionService) Email(ctx context.Context) (string, bool, error) {
	return s.repo.Get(ctx, session.KeyEmail)
}

// Logout revokes the current token on the server and forgets the saved
// session. A token the server already rejects is treated as logged out.
func (s *SessionService) Logout(ctx context.Context) error {
	token, err := s.Token(ctx)
	if err != nil && !errors.Is(err, ErrNotSignedIn) {
		return err
	}

	if token != "" {
		if err := s.client.Logout(ctx, token); err != nil && !errors.Is(err, common.ErrorUnauthorized) {
			return err
		}
	}
	return s.repo.Clear(ctx)
}

// Forget drops the saved session when the server no longer accepts it.
func (s *SessionService) Forget(ctx context.Context) error {
	if s.explicit != "" {
		return nil
	}
	return s.repo.Clear(ctx)
}
