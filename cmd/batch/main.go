package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"image-pipeline/internal/cli"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		zlog.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := cli.Run(ctx, os.Args[1:], os.Stdout, os.Stderr, &zlog.Logger)
	stop()

	os.Exit(code)
}
