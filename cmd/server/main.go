package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/gachaserver/internal/logging"
	"github.com/dmitrijs2005/gachaserver/internal/server"
	"github.com/dmitrijs2005/gachaserver/internal/server/config"
)

func main() {

	ctx := context.Background()

	cfg, err := config.LoadConfig(os.Args[1:])
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	logger := logging.NewJSON(os.Stdout, cfg.LogLevel)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil {
		logger.Error(ctx, err.Error())
		os.Exit(1)
	}

}
