package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/bookmarks/internal/logging"
	"github.com/dmitrijs2005/bookmarks/internal/server"
	"github.com/dmitrijs2005/bookmarks/internal/server/config"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Printf("%v", err)
		os.Exit(1)
	}
	defer app.Close()

	if cfg.Cleanup {
		if err := app.Cleanup(ctx); err != nil {
			log.Printf("cleanup failed: %v", err)
			app.Close()
			os.Exit(1)
		}
		return
	}

	if err := app.Run(ctx); err != nil {
		log.Printf("%v", err)
		app.Close()
		os.Exit(1)
	}
}
