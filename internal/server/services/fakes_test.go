package services

import (
	"context"
	"database/sql"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/dbx"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/bookmarks"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/revokedtokens"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/users"
	"github.com/google/uuid"
)

// --- helpers ---

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		Argon2Time:                  1,
		Argon2MemoryKiB:             1024,
		Argon2Threads:               1,
	}
}

// fakeUsersRepo is an in-memory users.Repository. Set the *Err fields to
// make the matching call fail.
type fakeUsersRepo struct {
	mu   sync.Mutex
	byID map[string]*models.User

	getByEmailErr error
	getByIDErr    error
	createErr     error
	updateErr     error
	deleteAllErr  error

	createCalls int
}

func newFakeUsersRepo() *fakeUsersRepo {
	return &fakeUsersRepo{byID: map[string]*models.User{}}
}

func (f *fakeUsersRepo) Create(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	for _, existing := range f.byID {
		if existing.Email == u.Email {
			return nil, common.ErrorEmailTaken
		}
	}
	u.ID = uuid.NewString()
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByEmailErr != nil {
		return nil, f.getByEmailErr
	}
	for _, u := range f.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (f *fakeUsersRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getByIDErr != nil {
		return nil, f.getByIDErr
	}
	u, ok := f.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsersRepo) Update(_ context.Context, u *models.User) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	if _, ok := f.byID[u.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	u.UpdatedAt = time.Now()
	cp := *u
	f.byID[u.ID] = &cp
	return u, nil
}

func (f *fakeUsersRepo) DeleteAll(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAllErr != nil {
		return 0, f.deleteAllErr
	}
	n := int64(len(f.byID))
	f.byID = map[string]*models.User{}
	return n, nil
}

// fakeBookmarksRepo is an in-memory bookmarks.Repository.
type fakeBookmarksRepo struct {
	mu    sync.Mutex
	rows  map[string]*models.Bookmark
	clock time.Time

	err          error
	deleteAllErr error
	getCalls     int
}

func newFakeBookmarksRepo() *fakeBookmarksRepo {
	return &fakeBookmarksRepo{
		rows:  map[string]*models.Bookmark{},
		clock: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (f *fakeBookmarksRepo) Create(_ context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.clock = f.clock.Add(time.Second)
	b.CreatedAt, b.UpdatedAt = f.clock, f.clock
	cp := *b
	f.rows[b.ID] = &cp
	return b, nil
}

func (f *fakeBookmarksRepo) ListByUser(_ context.Context, userID string) ([]*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	var out []*models.Bookmark
	for _, b := range f.rows {
		if b.UserID == userID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].ID < out[j].ID
		}
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeBookmarksRepo) GetByID(_ context.Context, id string) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.rows[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarksRepo) Update(_ context.Context, b *models.Bookmark) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	if _, ok := f.rows[b.ID]; !ok {
		return nil, common.ErrorNotFound
	}
	f.clock = f.clock.Add(time.Second)
	b.UpdatedAt = f.clock
	cp := *b
	f.rows[b.ID] = &cp
	return b, nil
}

func (f *fakeBookmarksRepo) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.rows[id]; !ok {
		return common.ErrorNotFound
	}
	delete(f.rows, id)
	return nil
}

func (f *fakeBookmarksRepo) DeleteAll(context.Context) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteAllErr != nil {
		return 0, f.deleteAllErr
	}
	n := int64(len(f.rows))
	f.rows = map[string]*models.Bookmark{}
	return n, nil
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	b *fakeBookmarksRepo
}

func newFakeRepoManager() *fakeRepoManager {
	return &fakeRepoManager{u: newFakeUsersRepo(), b: newFakeBookmarksRepo()}
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error       { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) users.Repository                 { return m.u }
func (m *fakeRepoManager) Bookmarks(db dbx.DBTX) bookmarks.Repository         { return m.b }
func (m *fakeRepoManager) RevokedTokens(db dbx.DBTX) revokedtokens.Repository { return nil }
