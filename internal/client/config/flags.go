package config

import (
	"flag"
	"os"
	"time"

	"github.com/dmitrijs2005/bookmarks/internal/flagx"
)

// GlobalFlags lists the valued flags owned by this package, plus the config
// file flags. Everything else on the command line is the subcommand.
var GlobalFlags = []string{"-a", "-t", "-d", "-w", "-l", "-c", "-config"}

// parseFlags populates selected Config fields from command-line flags.
// Only the flags listed in GlobalFlags are picked out of os.Args.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-t", "-d", "-w", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.ServerURL, "a", cfg.ServerURL, "base URL of the server")
	fs.StringVar(&cfg.Token, "t", cfg.Token, "access token")
	fs.StringVar(&cfg.DataDir, "d", cfg.DataDir, "local data directory")
	timeout := fs.Int("w", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	fs.Visit(func(f *flag.Flag) {
		if f.Name == "w" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
}
