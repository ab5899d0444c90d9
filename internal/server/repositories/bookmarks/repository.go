package bookmarks

import (
	"context"

	"github.com/dmitrijs2005/bookmarks/internal/server/models"
)

type Repository interface {
	Create(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	ListByUser(ctx context.Context, userID string) ([]*models.Bookmark, error)
	GetByID(ctx context.Context, id string) (*models.Bookmark, error)
	Update(ctx context.Context, b *models.Bookmark) (*models.Bookmark, error)
	Delete(ctx context.Context, id string) error
	DeleteAll(ctx context.Context) (int64, error)
}
