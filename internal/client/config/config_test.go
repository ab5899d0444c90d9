package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	c := &Config{}
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:3333", c.ServerURL)
	assert.Equal(t, ".bookmarks", c.DataDir)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Empty(t, c.Token)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	t.Setenv("BOOKMARKS_TOKEN", "from-env")
	t.Setenv("BOOKMARKS_SERVER", "http://env:1")
	t.Setenv("BOOKMARKS_TIMEOUT", "2500ms")

	os.Args = []string{"cli", "-a", "http://flag:2", "list"}
	c := LoadConfig()

	assert.Equal(t, "from-env", c.Token)
	assert.Equal(t, "http://flag:2", c.ServerURL)
	assert.Equal(t, 2500*time.Millisecond, c.RequestTimeout, "-w not given keeps env value")

	os.Args = []string{"cli", "-t", "from-flag", "list"}
	assert.Equal(t, "from-flag", LoadConfig().Token)
}

func TestLoadConfig_BadEnvPanics(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"cli"}

	t.Setenv("BOOKMARKS_TIMEOUT", "soon")
	assert.Panics(t, func() { LoadConfig() })
}
