package main

import (
	"context"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ripplegram/backend/internal/router"
	"github.com/ripplegram/backend/internal/security"
	"github.com/ripplegram/backend/internal/storage"
	"github.com/ripplegram/backend/pkg/config"
	"github.com/ripplegram/backend/pkg/firebase"
	"github.com/ripplegram/backend/pkg/log"
	"github.com/ripplegram/backend/pkg/validators"
)

func main() {
	cfg := config.Load()
	log.Init(log.Config{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	ctx := context.Background()

	db, err := config.InitDB(cfg)
	if err != nil {
		log.L().Fatal().Err(err).Msg("failed to initialize database")
	}
	defer db.CloseDB()

	firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.L().Fatal().Err(err).Msg("failed to initialize firebase")
	}

	var uploader storage.Uploader
	if cfg.S3Bucket != "" {
		s3Storage, err := storage.NewS3Storage(ctx, storage.S3Config{
			Endpoint:        cfg.S3Endpoint,
			Region:          cfg.S3Region,
			Bucket:          cfg.S3Bucket,
			AccessKeyID:     cfg.S3AccessKeyID,
			SecretAccessKey: cfg.S3SecretAccessKey,
			UsePathStyle:    cfg.S3UsePathStyle,
			PublicURL:       cfg.S3PublicURL,
		})
		if err != nil {
			log.L().Fatal().Err(err).Msg("failed to initialize media storage")
		}
		uploader = s3Storage
	} else {
		log.L().Warn().Msg("media storage not configured, image uploads disabled")
	}

	// Edge security degrades gracefully: without Redis the shield still
	// applies bot rules but skips rate limiting.
	var limiter security.RateLimiter
	if cfg.RedisAddr != "" {
		redisLimiter, err := security.NewRedisLimiter(cfg.RedisAddr, cfg.RedisPassword, 15, 10, 10*time.Second)
		if err != nil {
			log.L().Warn().Err(err).Msg("redis unavailable, rate limiting disabled")
		} else {
			defer redisLimiter.Close()
			limiter = redisLimiter
		}
	}
	shield := security.NewShield(limiter)

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()

	router.SetupMiddleware(e, shield)
	if err := router.SetupRoutes(ctx, e, db.Database, firebaseApp.AuthClient, uploader); err != nil {
		log.L().Fatal().Err(err).Msg("failed to set up routes")
	}

	log.L().Info().Str("port", cfg.Port).Msg("starting server")
	if err := e.Start(":" + cfg.Port); err != nil {
		log.L().Fatal().Err(err).Msg("server stopped")
	}
}
