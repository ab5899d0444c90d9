package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testConfig())

	encoded, err := h.Hash("correct horse")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(encoded, "$argon2id$v=19$m=1024,t=1,p=1$"), encoded)
	assert.NotContains(t, encoded, "correct horse")
	assert.True(t, h.Verify("correct horse", encoded))
	assert.False(t, h.Verify("correct horsE", encoded))
	assert.False(t, h.Verify("", encoded))
}

func TestPasswordHasher_SaltedPerCall(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testConfig())

	a, err := h.Hash("same")
	require.NoError(t, err)
	b, err := h.Hash("same")
	require.NoError(t, err)

	assert.NotEqual(t, a, b)
	assert.True(t, h.Verify("same", a))
	assert.True(t, h.Verify("same", b))
}

func TestPasswordHasher_VerifyUsesStoredParams(t *testing.T) {
	t.Parallel()
	cheap := NewPasswordHasher(testConfig())
	encoded, err := cheap.Hash("pw")
	require.NoError(t, err)

	cfg := testConfig()
	cfg.Argon2Time = 2
	cfg.Argon2MemoryKiB = 2048
	other := NewPasswordHasher(cfg)

	assert.True(t, other.Verify("pw", encoded), "hashes stay valid after a cost change")
}

func TestPasswordHasher_MalformedNeverVerifies(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testConfig())

	for _, encoded := range []string{"", "pw", "$argon2id$", "$argon2id$v=19$m=1024,t=1,p=1$$"} {
		assert.False(t, h.Verify("pw", encoded), encoded)
	}
}

func TestPasswordHasher_VerifyMissing(t *testing.T) {
	t.Parallel()
	h := NewPasswordHasher(testConfig())
	assert.False(t, h.VerifyMissing("anything"))
}
