package config

import "time"

// Config holds runtime settings for the bookmarks CLI.
type Config struct {
	ServerURL      string        `env:"BOOKMARKS_SERVER"`
	Token          string        `env:"BOOKMARKS_TOKEN"`
	DataDir        string        `env:"BOOKMARKS_DATA_DIR"`
	RequestTimeout time.Duration `env:"BOOKMARKS_TIMEOUT"`
	LogLevel       string        `env:"BOOKMARKS_LOG_LEVEL"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerURL = "http://127.0.0.1:3333"
	c.DataDir = ".bookmarks"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "warn"
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON, the environment and command-line flags. Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseEnv(cfg)
	parseFlags(cfg)
	return cfg
}
