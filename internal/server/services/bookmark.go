package services

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/dbx"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
	"github.com/google/uuid"
)

// NewBookmark is the input of BookmarkService.Create.
type NewBookmark struct {
	Title       string
	Link        string
	Description *string
}

// BookmarkPatch lists the bookmark fields to change; nil means keep.
type BookmarkPatch struct {
	Title       *string
	Description *string
	Link        *string
}

// CleanupResult reports how many rows DeleteAllForCleanup removed.
type CleanupResult struct {
	Bookmarks int64
	Users     int64
}

// BookmarkService is CRUD over bookmarks scoped to their owner. A bookmark
// that exists but belongs to someone else is reported as missing.
type BookmarkService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	logger      logging.Logger
}

// NewBookmarkService builds a BookmarkService over db.
func NewBookmarkService(db *sql.DB, m repomanager.RepositoryManager, logger logging.Logger) *BookmarkService {
	return &BookmarkService{
		db:          db,
		repomanager: m,
		logger:      logger.With("module", "bookmarks"),
	}
}

// Create stores a new bookmark owned by subjectID.
func (s *BookmarkService) Create(ctx context.Context, subjectID string, in NewBookmark) (*models.Bookmark, error) {
	b := &models.Bookmark{
		ID:          uuid.NewString(),
		UserID:      subjectID,
		Title:       in.Title,
		Link:        in.Link,
		Description: in.Description,
	}

	created, err := s.repomanager.Bookmarks(s.db).Create(ctx, b)
	if err != nil {
		return nil, storeError(err)
	}
	s.logger.Debug(ctx, "bookmark created", "user_id", subjectID, "bookmark_id", created.ID)
	return created, nil
}

// List returns the subject's bookmarks oldest first; never nil.
func (s *BookmarkService) List(ctx context.Context, subjectID string) ([]*models.Bookmark, error) {
	list, err := s.repomanager.Bookmarks(s.db).ListByUser(ctx, subjectID)
	if err != nil {
		return nil, storeError(err)
	}
	if list == nil {
		list = []*models.Bookmark{}
	}
	return list, nil
}

// Get returns bookmark id if subjectID owns it, ErrorNotFound otherwise.
func (s *BookmarkService) Get(ctx context.Context, subjectID, id string) (*models.Bookmark, error) {
	return s.getOwned(ctx, subjectID, id)
}

// Update applies the non-nil fields of patch to a bookmark subjectID owns.
func (s *BookmarkService) Update(ctx context.Context, subjectID, id string, patch BookmarkPatch) (*models.Bookmark, error) {
	b, err := s.getOwned(ctx, subjectID, id)
	if err != nil {
		return nil, err
	}

	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}
	if patch.Link != nil {
		b.Link = *patch.Link
	}

	updated, err := s.repomanager.Bookmarks(s.db).Update(ctx, b)
	if err != nil {
		return nil, storeError(err)
	}
	return updated, nil
}

// Delete removes a bookmark subjectID owns.
func (s *BookmarkService) Delete(ctx context.Context, subjectID, id string) error {
	b, err := s.getOwned(ctx, subjectID, id)
	if err != nil {
		return err
	}
	if err := s.repomanager.Bookmarks(s.db).Delete(ctx, b.ID); err != nil {
		return storeError(err)
	}
	s.logger.Debug(ctx, "bookmark deleted", "user_id", subjectID, "bookmark_id", id)
	return nil
}

// DeleteAllForCleanup wipes every bookmark and then every user in one
// transaction. It is maintenance tooling and is not scoped to a subject.
func (s *BookmarkService) DeleteAllForCleanup(ctx context.Context) (*CleanupResult, error) {
	res := &CleanupResult{}

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		n, err := s.repomanager.Bookmarks(tx).DeleteAll(ctx)
		if err != nil {
			return err
		}
		res.Bookmarks = n

		n, err = s.repomanager.Users(tx).DeleteAll(ctx)
		if err != nil {
			return err
		}
		res.Users = n
		return nil
	})
	if err != nil {
		return nil, storeError(err)
	}

	s.logger.Warn(ctx, "all data deleted", "bookmarks", res.Bookmarks, "users", res.Users)
	return res, nil
}

// getOwned loads id and checks it belongs to subjectID. Ids that are not
// UUIDs cannot exist and are rejected without a query; the rest are looked
// up in canonical form.
func (s *BookmarkService) getOwned(ctx context.Context, subjectID, id string) (*models.Bookmark, error) {
	parsed, err := uuid.Parse(id)
	if err != nil {
		return nil, common.ErrorNotFound
	}

	b, err := s.repomanager.Bookmarks(s.db).GetByID(ctx, parsed.String())
	if err != nil {
		return nil, storeError(err)
	}
	if b.UserID != subjectID {
		return nil, common.ErrorNotFound
	}
	return b, nil
}
