// Package httpapi exposes the account and bookmark operations over HTTP/JSON.
package httpapi

import (
	"context"
	"net/http"

	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/auth"
	"github.com/dmitrijs2005/bookmarks/internal/server/metrics"
	"github.com/dmitrijs2005/bookmarks/internal/server/models"
	"github.com/dmitrijs2005/bookmarks/internal/server/services"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

type AccountManager interface {
	Signup(ctx context.Context, email, password string) (string, error)
	Signin(ctx context.Context, email, password string) (string, error)
	GetProfile(ctx context.Context, subjectID string) (*models.User, error)
	EditProfile(ctx context.Context, subjectID string, patch services.ProfilePatch) (*models.User, error)
}

type BookmarkManager interface {
	Create(ctx context.Context, subjectID string, in services.NewBookmark) (*models.Bookmark, error)
	List(ctx context.Context, subjectID string) ([]*models.Bookmark, error)
	Get(ctx context.Context, subjectID, id string) (*models.Bookmark, error)
	Update(ctx context.Context, subjectID, id string, patch services.BookmarkPatch) (*models.Bookmark, error)
	Delete(ctx context.Context, subjectID, id string) error
}

type Exporter interface {
	Enabled() bool
	Export(ctx context.Context, subjectID string) (*services.Export, error)
}

// Authenticator is satisfied by *auth.Guard.
type Authenticator interface {
	Identify(ctx context.Context, header string) (*auth.Principal, error)
	Revoke(ctx context.Context, p *auth.Principal) error
}

// HealthCheck is one dependency probed by /health/ready.
type HealthCheck struct {
	Name  string
	Check func(ctx context.Context) error
}

// Deps wires the API to its services. Exporter and Checks are optional.
type Deps struct {
	Accounts  AccountManager
	Bookmarks BookmarkManager
	Exporter  Exporter
	Guard     Authenticator
	Checks    []HealthCheck
	Metrics   *metrics.Collector
	Logger    logging.Logger

	// AuthRateLimitPerMinute caps signup and signin attempts per client IP.
	// Zero or less turns the limit off.
	AuthRateLimitPerMinute int
}

type API struct {
	accounts  AccountManager
	bookmarks BookmarkManager
	exporter  Exporter
	guard     Authenticator
	checks    []HealthCheck
	metrics   *metrics.Collector
	logger    logging.Logger
	limiter   *ipRateLimiter
}

func New(d Deps) *API {
	a := &API{
		accounts:  d.Accounts,
		bookmarks: d.Bookmarks,
		exporter:  d.Exporter,
		guard:     d.Guard,
		checks:    d.Checks,
		metrics:   d.Metrics,
		logger:    d.Logger.With("module", "http_api"),
	}
	if a.metrics == nil {
		a.metrics = metrics.NewCollector()
	}
	if d.AuthRateLimitPerMinute > 0 {
		a.limiter = newIPRateLimiter(d.AuthRateLimitPerMinute)
	}
	return a
}

// Router returns the chi router serving every endpoint.
func (a *API) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(a.recoverer)
	r.Use(a.observe)

	r.Get("/health/live", a.live)
	r.Get("/health/ready", a.ready)
	r.Method(http.MethodGet, "/metrics", a.metrics.Handler())

	r.Group(func(r chi.Router) {
		if a.limiter != nil {
			r.Use(a.limiter.middleware)
		}
		r.Post("/auth/signup", a.signup)
		r.Post("/auth/signin", a.signin)
	})

	r.Group(func(r chi.Router) {
		r.Use(a.authenticate)

		r.Post("/auth/logout", a.logout)

		r.Get("/users/me", a.me)
		r.Patch("/users", a.editUser)

		r.Post("/bookmarks", a.createBookmark)
		r.Get("/bookmarks", a.listBookmarks)
		r.Post("/bookmarks/export", a.exportBookmarks)
		r.Get("/bookmarks/{id}", a.getBookmark)
		r.Patch("/bookmarks/{id}", a.editBookmark)
		r.Delete("/bookmarks/{id}", a.deleteBookmark)
	})

	return r
}
