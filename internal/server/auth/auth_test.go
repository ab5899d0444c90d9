package auth

import (
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/server/config"
)

// testConfig keeps argon2 cheap so the suite stays fast.
func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "super-secret",
		AccessTokenValidityDuration: 15 * time.Minute,
		Argon2Time:                  1,
		Argon2MemoryKiB:             1024,
		Argon2Threads:               1,
	}
}

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestTokenService(now *time.Time) *TokenService {
	s := NewTokenService(testConfig())
	s.now = func() time.Time { return *now }
	return s
}
