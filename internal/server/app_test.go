package server

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/alicebob/miniredis/v2"
	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/bookmarks/internal/tracing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testManager struct {
	repomanager.RepositoryManager
	migrateErr error
}

func (m *testManager) RunMigrations(context.Context, *sql.DB) error { return m.migrateErr }

func testConfig() *config.Config {
	c := &config.Config{}
	c.LoadDefaults()
	c.SecretKey = "k"
	c.Argon2MemoryKiB = 1024
	c.Argon2Threads = 1
	c.EndpointAddrHTTP = "127.0.0.1:0"
	return c
}

func testLogger() logging.Logger {
	return logging.NewJSONLogger(io.Discard, "error")
}

// stubStorage routes openDB to a sqlmock connection and skips migrations
// unless migrateErr is set. opts are sqlmock option values (e.g.
// sqlmock.MonitorPingsOption); their type is unexported by sqlmock, so they
// are forwarded to sqlmock.New via reflection.
func stubStorage(t *testing.T, migrateErr error, opts ...any) sqlmock.Sqlmock {
	t.Helper()
	args := make([]reflect.Value, len(opts))
	for i, o := range opts {
		args[i] = reflect.ValueOf(o)
	}
	out := reflect.ValueOf(sqlmock.New).Call(args)
	db, _ := out[0].Interface().(*sql.DB)
	mock, _ := out[1].Interface().(sqlmock.Sqlmock)
	err, _ := out[2].Interface().(error)
	require.NoError(t, err)

	origOpen, origManager := openDB, newRepositoryManager
	t.Cleanup(func() { openDB, newRepositoryManager = origOpen, origManager })

	openDB = func(context.Context, string) (*sql.DB, error) { return db, nil }
	newRepositoryManager = func(db *sql.DB) (repomanager.RepositoryManager, error) {
		rm, err := origManager(db)
		if err != nil {
			return nil, err
		}
		return &testManager{RepositoryManager: rm, migrateErr: migrateErr}, nil
	}
	return mock
}

func checkNames(app *App) []string {
	var names []string
	for _, c := range app.checks {
		names = append(names, c.Name)
	}
	return names
}

func TestNewApp_InvalidConfig(t *testing.T) {
	called := false
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(context.Context, string) (*sql.DB, error) {
		called = true
		return nil, errors.New("unreachable")
	}

	c := testConfig()
	c.SecretKey = ""
	_, err := NewApp(context.Background(), c, testLogger())
	assert.ErrorContains(t, err, "invalid config")
	assert.False(t, called)
}

func TestNewApp_OpenFails(t *testing.T) {
	orig := openDB
	t.Cleanup(func() { openDB = orig })
	openDB = func(context.Context, string) (*sql.DB, error) { return nil, errors.New("refused") }

	_, err := NewApp(context.Background(), testConfig(), testLogger())
	assert.ErrorContains(t, err, "db init error: refused")
}

func TestNewApp_MigrationFails(t *testing.T) {
	mock := stubStorage(t, errors.New("dirty schema"))
	mock.ExpectClose()

	_, err := NewApp(context.Background(), testConfig(), testLogger())
	assert.ErrorContains(t, err, "migrations failed: dirty schema")
	assert.NoError(t, mock.ExpectationsWereMet(), "db closed on failure")
}

func TestNewApp_RevocationBackends(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		backend string
		checks  []string
	}{
		{config.RevocationNone, []string{"db"}},
		{config.RevocationMemory, []string{"db"}},
		{config.RevocationPostgres, []string{"db"}},
		{config.RevocationRedis, []string{"db", "redis"}},
	}
	for _, tt := range tests {
		t.Run(tt.backend, func(t *testing.T) {
			stubStorage(t, nil)
			c := testConfig()
			c.RevocationBackend = tt.backend
			c.RedisAddr = mr.Addr()

			app, err := NewApp(context.Background(), c, testLogger())
			require.NoError(t, err)
			defer app.Close()

			assert.Equal(t, tt.checks, checkNames(app))
			assert.NotNil(t, app.guard)
		})
	}
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	mock := stubStorage(t, nil)
	mock.ExpectClose()

	c := testConfig()
	c.RevocationBackend = config.RevocationRedis
	c.RedisAddr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), c, testLogger())
	assert.ErrorContains(t, err, "failed to connect to redis")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNewApp_BadPurgeSchedule(t *testing.T) {
	stubStorage(t, nil)
	c := testConfig()
	c.RevocationBackend = config.RevocationPostgres
	c.RevocationPurgeSchedule = "whenever"

	_, err := NewApp(context.Background(), c, testLogger())
	assert.ErrorContains(t, err, "revocation purge schedule")
}

func TestApp_Cleanup(t *testing.T) {
	mock := stubStorage(t, nil)
	var logs bytes.Buffer
	app, err := NewApp(context.Background(), testConfig(), logging.NewJSONLogger(&logs, "debug"))
	require.NoError(t, err)
	defer app.Close()

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM bookmarks`).WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM users`).WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectCommit()

	require.NoError(t, app.Cleanup(context.Background()))
	assert.NoError(t, mock.ExpectationsWereMet())

	var reports []string
	for _, line := range strings.Split(logs.String(), "\n") {
		if strings.Contains(line, `"users":2`) {
			reports = append(reports, line)
		}
	}
	require.Len(t, reports, 1, "cleanup is reported once")
	assert.Contains(t, reports[0], `"msg":"all data deleted"`)
	assert.Contains(t, reports[0], `"bookmarks":3`)
}

func TestApp_HandlerReadiness(t *testing.T) {
	mock := stubStorage(t, nil, sqlmock.MonitorPingsOption(true))
	app, err := NewApp(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)
	defer app.Close()

	h := app.Handler()

	mock.ExpectPing()
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	mock.ExpectPing().WillReturnError(errors.New("gone"))
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestApp_RunStopsOnCancel(t *testing.T) {
	stubStorage(t, nil)
	orig := initTracing
	t.Cleanup(func() { initTracing = orig })
	shutdownCalled := false
	initTracing = func(context.Context, string, string) (tracing.ShutdownFunc, error) {
		return func(context.Context) error { shutdownCalled = true; return nil }, nil
	}

	app, err := NewApp(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)
	defer app.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- app.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	assert.True(t, shutdownCalled)
}

func TestApp_RunTracingFails(t *testing.T) {
	stubStorage(t, nil)
	orig := initTracing
	t.Cleanup(func() { initTracing = orig })
	initTracing = func(context.Context, string, string) (tracing.ShutdownFunc, error) {
		return nil, errors.New("collector down")
	}

	app, err := NewApp(context.Background(), testConfig(), testLogger())
	require.NoError(t, err)
	defer app.Close()

	assert.ErrorContains(t, app.Run(context.Background()), "tracing init error")
}
