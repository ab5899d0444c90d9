package revokedtokens

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, tokenID string, expiresAt time.Time) error
	Exists(ctx context.Context, tokenID string) (bool, error)
	PurgeExpired(ctx context.Context, before time.Time) (int64, error)
}
