package httpapi

import (
	"context"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/auth"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
	"github.com/google/uuid"
)

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "test-secret",
		AccessTokenValidityDuration: time.Hour,
		Argon2Time:                  1,
		Argon2MemoryKiB:             1024,
		Argon2Threads:               1,
	}
}

// fakeAccounts stores users in memory and issues real tokens.
type fakeAccounts struct {
	mu     sync.Mutex
	tokens *auth.TokenService
	users  map[string]*models.User
	pw     map[string]string
	err    error
}

func newFakeAccounts(tokens *auth.TokenService) *fakeAccounts {
	return &fakeAccounts{tokens: tokens, users: map[string]*models.User{}, pw: map[string]string{}}
}

func (f *fakeAccounts) byEmail(email string) *models.User {
	for _, u := range f.users {
		if u.Email == email {
			return u
		}
	}
	return nil
}

func (f *fakeAccounts) Signup(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	if f.byEmail(email) != nil {
		return "", common.ErrorEmailTaken
	}
	u := &models.User{ID: uuid.NewString(), Email: email, CreatedAt: time.Now(), UpdatedAt: time.Now()}
	f.users[u.ID] = u
	f.pw[u.ID] = password
	return f.tokens.Issue(u.ID, u.Email)
}

func (f *fakeAccounts) Signin(_ context.Context, email, password string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return "", f.err
	}
	u := f.byEmail(email)
	if u == nil || f.pw[u.ID] != password {
		return "", common.ErrorInvalidCredentials
	}
	return f.tokens.Issue(u.ID, u.Email)
}

func (f *fakeAccounts) GetProfile(_ context.Context, subjectID string) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	u, ok := f.users[subjectID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeAccounts) EditProfile(_ context.Context, subjectID string, patch services.ProfilePatch) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[subjectID]
	if !ok {
		return nil, common.ErrorNotFound
	}
	if patch.Email != nil {
		if other := f.byEmail(*patch.Email); other != nil && other.ID != subjectID {
			return nil, common.ErrorEmailTaken
		}
		u.Email = *patch.Email
	}
	if patch.FirstName != nil {
		u.FirstName = patch.FirstName
	}
	if patch.LastName != nil {
		u.LastName = patch.LastName
	}
	cp := *u
	return &cp, nil
}

// fakeBookmarks applies the same ownership rule as the real service.
type fakeBookmarks struct {
	mu   sync.Mutex
	rows map[string]*models.Bookmark
	seq  int
	err  error
}

func newFakeBookmarks() *fakeBookmarks {
	return &fakeBookmarks{rows: map[string]*models.Bookmark{}}
}

func (f *fakeBookmarks) Create(_ context.Context, subjectID string, in services.NewBookmark) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.seq++
	ts := time.Date(2024, 1, 1, 0, 0, f.seq, 0, time.UTC)
	b := &models.Bookmark{ID: uuid.NewString(), UserID: subjectID, Title: in.Title, Link: in.Link,
		Description: in.Description, CreatedAt: ts, UpdatedAt: ts}
	f.rows[b.ID] = b
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) List(_ context.Context, subjectID string) ([]*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	out := []*models.Bookmark{}
	for _, b := range f.rows {
		if b.UserID == subjectID {
			cp := *b
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeBookmarks) owned(subjectID, id string) (*models.Bookmark, error) {
	if f.err != nil {
		return nil, f.err
	}
	b, ok := f.rows[id]
	if !ok || b.UserID != subjectID {
		return nil, common.ErrorNotFound
	}
	return b, nil
}

func (f *fakeBookmarks) Get(_ context.Context, subjectID, id string) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := f.owned(subjectID, id)
	if err != nil {
		return nil, err
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) Update(_ context.Context, subjectID, id string, patch services.BookmarkPatch) (*models.Bookmark, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	b, err := f.owned(subjectID, id)
	if err != nil {
		return nil, err
	}
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Link != nil {
		b.Link = *patch.Link
	}
	if patch.Description != nil {
		b.Description = patch.Description
	}
	cp := *b
	return &cp, nil
}

func (f *fakeBookmarks) Delete(_ context.Context, subjectID, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, err := f.owned(subjectID, id); err != nil {
		return err
	}
	delete(f.rows, id)
	return nil
}

type fakeExporter struct {
	enabled bool
	calls   []string
}

func (f *fakeExporter) Enabled() bool { return f.enabled }

func (f *fakeExporter) Export(_ context.Context, subjectID string) (*services.Export, error) {
	f.calls = append(f.calls, subjectID)
	return &services.Export{Key: "exports/" + subjectID + "/x.json", URL: "http://s3/x", Count: 0}, nil
}
