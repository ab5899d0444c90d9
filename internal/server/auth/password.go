package auth

import (
	"crypto/subtle"

	"github.com/dmitrijs2005/bookmarks/internal/common"
	"github.com/dmitrijs2005/bookmarks/internal/cryptox"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
)

const saltLen = 16

// PasswordHasher turns plaintext passwords into self-describing argon2id
// hashes and checks candidates against them.
type PasswordHasher struct {
	params cryptox.Params
}

// NewPasswordHasher takes cost parameters from cfg; the key length is fixed.
func NewPasswordHasher(cfg *config.Config) *PasswordHasher {
	return &PasswordHasher{params: cryptox.Params{
		Time:    cfg.Argon2Time,
		Memory:  cfg.Argon2MemoryKiB,
		Threads: cfg.Argon2Threads,
		KeyLen:  cryptox.DefaultParams.KeyLen,
	}}
}

// Hash derives a key under a fresh random salt and returns the PHC string.
func (h *PasswordHasher) Hash(plaintext string) (string, error) {
	salt := common.GenerateRandByteArray(saltLen)
	key := cryptox.DeriveKey([]byte(plaintext), salt, h.params)
	return cryptox.EncodePHC(h.params, salt, key), nil
}

// Verify recomputes the key with the parameters stored in encoded.
// A malformed hash never verifies.
func (h *PasswordHasher) Verify(plaintext, encoded string) bool {
	p, salt, key, err := cryptox.DecodePHC(encoded)
	if err != nil {
		return false
	}
	candidate := cryptox.DeriveKey([]byte(plaintext), salt, p)
	defer common.WipeByteArray(candidate)
	return subtle.ConstantTimeCompare(key, candidate) == 1
}

// dummyHash is what Verify runs against when there is no stored hash, so a
// miss costs about as much as a wrong password.
func (h *PasswordHasher) dummyHash() string {
	return cryptox.EncodePHC(h.params, make([]byte, saltLen), make([]byte, h.params.KeyLen))
}

// VerifyMissing burns one verification and always reports false.
func (h *PasswordHasher) VerifyMissing(plaintext string) bool {
	_ = h.Verify(plaintext, h.dummyHash())
	return false
}
