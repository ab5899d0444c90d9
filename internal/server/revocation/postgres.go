package revocation

import (
	"context"
	"database/sql"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server/repositories/repomanager"
	"github.com/robfig/cron/v3"
)

// PostgresStore keeps revoked token ids in the revoked_tokens table.
type PostgresStore struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
}

func NewPostgresStore(db *sql.DB, m repomanager.RepositoryManager) *PostgresStore {
	return &PostgresStore{db: db, repomanager: m}
}

func (s *PostgresStore) Revoke(ctx context.Context, jti string, expiresAt time.Time) error {
	return s.repomanager.RevokedTokens(s.db).Create(ctx, jti, expiresAt)
}

func (s *PostgresStore) IsRevoked(ctx context.Context, jti string) (bool, error) {
	return s.repomanager.RevokedTokens(s.db).Exists(ctx, jti)
}

// Purger periodically deletes expired rows from revoked_tokens.
type Purger struct {
	store  *PostgresStore
	logger logging.Logger
	cron   *cron.Cron
	now    func() time.Time
}

func NewPurger(store *PostgresStore, logger logging.Logger) *Purger {
	return &Purger{
		store:  store,
		logger: logger.With("module", "revocation-purger"),
		cron:   cron.New(),
		now:    time.Now,
	}
}

// Start schedules the purge with a cron spec such as "@every 1h" and
// starts the scheduler.
func (p *Purger) Start(schedule string) error {
	if _, err := p.cron.AddFunc(schedule, func() { _, _ = p.PurgeOnce(context.Background()) }); err != nil {
		return err
	}
	p.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running purge to finish.
func (p *Purger) Stop() {
	<-p.cron.Stop().Done()
}

// PurgeOnce deletes every row that has already expired.
func (p *Purger) PurgeOnce(ctx context.Context) (int64, error) {
	n, err := p.store.repomanager.RevokedTokens(p.store.db).PurgeExpired(ctx, p.now())
	if err != nil {
		p.logger.Error(ctx, "purge of revoked tokens failed", "error", err)
		return 0, err
	}
	if n > 0 {
		p.logger.Info(ctx, "purged expired revoked tokens", "count", n)
	}
	return n, nil
}
