package main

import (
	"os"

	"image-pipeline/internal/app"
	"image-pipeline/internal/config"

	"github.com/joho/godotenv"
	"github.com/wb-go/wbf/zlog"
)

func main() {
	zlog.Init()

	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		zlog.Logger.Warn().Err(err).Msg("Failed to load .env file")
	}

	cfg, err := config.MustLoad()
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to load config")
	}

	studio, err := app.NewApp(cfg, &zlog.Logger)
	if err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Failed to create studio")
	}

	if err := studio.Run(); err != nil {
		zlog.Logger.Fatal().Err(err).Msg("Studio failed")
	}

	zlog.Logger.Info().Msg("Studio exited successfully")
}
