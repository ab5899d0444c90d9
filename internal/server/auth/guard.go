// Package auth implements the credential store, token service and the bearer
// guard that protects every authenticated operation.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/common"
)

// RevocationStore remembers logged-out token ids until they would have
// expired anyway.
type RevocationStore interface {
	Revoke(ctx context.Context, jti string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, jti string) (bool, error)
}

// Principal is the authenticated caller behind a request.
type Principal struct {
	SubjectID string
	TokenID   string
	ExpiresAt time.Time
}

// Guard turns an Authorization header value into an authenticated subject.
type Guard struct {
	tokens  *TokenService
	revoked RevocationStore
}

// NewGuard builds a Guard. revoked may be nil, in which case tokens are only
// checked for signature and expiry.
func NewGuard(tokens *TokenService, revoked RevocationStore) *Guard {
	return &Guard{tokens: tokens, revoked: revoked}
}

// Authenticate returns the subject id carried by a valid bearer header.
func (g *Guard) Authenticate(ctx context.Context, header string) (string, error) {
	p, err := g.Identify(ctx, header)
	if err != nil {
		return "", err
	}
	return p.SubjectID, nil
}

// Identify is Authenticate plus the token id and expiry.
// Malformed, forged, expired and revoked tokens all yield
// common.ErrorUnauthorized.
func (g *Guard) Identify(ctx context.Context, header string) (*Principal, error) {
	raw, ok := strings.CutPrefix(header, common.BearerPrefix)
	if !ok || raw == "" {
		return nil, common.ErrorUnauthorized
	}

	claims, err := g.tokens.Verify(raw)
	if err != nil {
		if errors.Is(err, common.ErrInvalidToken) {
			return nil, common.ErrorUnauthorized
		}
		return nil, err
	}

	p := &Principal{SubjectID: claims.Subject, TokenID: claims.ID}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}

	if g.revoked != nil && p.TokenID != "" {
		revoked, err := g.revoked.IsRevoked(ctx, p.TokenID)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
		}
		if revoked {
			return nil, common.ErrorUnauthorized
		}
	}

	return p, nil
}

// Revoke invalidates the token behind p until it expires. Without a
// revocation store this is a no-op.
func (g *Guard) Revoke(ctx context.Context, p *Principal) error {
	if g.revoked == nil || p.TokenID == "" {
		return nil
	}
	if err := g.revoked.Revoke(ctx, p.TokenID, p.ExpiresAt); err != nil {
		return fmt.Errorf("%w: %v", common.ErrorStoreUnavailable, err)
	}
	return nil
}
