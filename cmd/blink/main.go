package main

import (
	"log"
	"log/slog"
	"os"

	"github.com/blink-dev/blink/db"
	"github.com/blink-dev/blink/internal/auth"
	"github.com/blink-dev/blink/internal/config"
	"github.com/blink-dev/blink/internal/handlers"
	"github.com/blink-dev/blink/internal/router"
	"github.com/blink-dev/blink/internal/services"
	"github.com/blink-dev/blink/internal/shortcode"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// .env is a development convenience; production sets real env vars.
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file loaded")
	}

	cfg, err := config.Load()

	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	var logger *slog.Logger

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
		logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}

	database, err := db.ConnectDatabase(cfg.DatabaseDSN)

	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := db.MigrateDatabase(database); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	codec, err := auth.NewCodec(cfg.TokenSecret)

	if err != nil {
		log.Fatalf("Failed to build token codec: %v", err)
	}

	sessions := services.NewSessionStore(database)
	authService := services.NewAuthService(logger, database, sessions, codec, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	workspaceService := services.NewWorkspaceService(logger, database)
	blinkService := services.NewBlinkService(logger, database, shortcode.NewGenerator())

	r := router.NewRouter(router.Deps{
		Log:            logger,
		DB:             database,
		Codec:          codec,
		Auth:           handlers.NewAuthHandler(authService, cfg.CookieDomain, cfg.IsProduction(), cfg.AccessTokenTTL, cfg.RefreshTokenTTL),
		Workspaces:     handlers.NewWorkspaceHandler(workspaceService),
		Members:        handlers.NewMemberHandler(workspaceService),
		Blinks:         handlers.NewBlinkHandler(blinkService),
		Redirect:       handlers.NewRedirectHandler(blinkService, cfg.IsProduction()),
		AllowedOrigins: cfg.AllowedOrigins,
	})

	logger.Info("starting server", slog.String("port", cfg.Port), slog.String("env", cfg.Env))

	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}
