package config

import (
	"github.com/caarlos0/env/v11"
)

// parseEnv overlays variables that are set in the environment; unset
// variables leave the current value alone. Malformed values panic, like a
// broken JSON file does.
func parseEnv(config *Config) {
	if err := env.Parse(config); err != nil {
		panic(err)
	}
}
