package router

import (
	"context"

	"firebase.google.com/go/v4/auth"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/ripplegram/backend/internal/handlers"
	"github.com/ripplegram/backend/internal/middleware"
	"github.com/ripplegram/backend/internal/repositories"
	"github.com/ripplegram/backend/internal/security"
	"github.com/ripplegram/backend/internal/service"
	"github.com/ripplegram/backend/internal/storage"
	pkgfirebase "github.com/ripplegram/backend/pkg/firebase"
	"github.com/ripplegram/backend/pkg/log"
)

// SetupMiddleware configures global Echo middleware. The shield runs in
// front of everything, including public routes.
func SetupMiddleware(e *echo.Echo, shield *security.Shield) {
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	e.Use(requestLogger())
	e.Use(middleware.Shield(shield))
}

// SetupRoutes wires repositories, services and handlers onto the Echo
// instance and creates the store indexes.
func SetupRoutes(ctx context.Context, e *echo.Echo, db *mongo.Database, authClient *auth.Client, uploader storage.Uploader) error {
	userRepo := repositories.NewMongoUserRepository(db)
	postRepo := repositories.NewMongoPostRepository(db)
	commentRepo := repositories.NewMongoCommentRepository(db)
	notificationRepo := repositories.NewMongoNotificationRepository(db)

	// The unique index on firebase_uid is what makes concurrent first-sync
	// creation safe, so index creation failure is a startup failure.
	if err := userRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := commentRepo.EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := notificationRepo.EnsureIndexes(ctx); err != nil {
		return err
	}

	notificationService := service.NewNotificationService(notificationRepo, userRepo)
	identityService := service.NewIdentityService(userRepo, pkgfirebase.NewIdentityProvider(authClient))
	graphService := service.NewSocialGraphService(userRepo, identityService, notificationService)
	contentService := service.NewContentService(userRepo, postRepo, commentRepo, identityService, notificationService, uploader)

	userHandler := handlers.NewUserHandler(identityService, graphService)
	postHandler := handlers.NewPostHandler(contentService)
	commentHandler := handlers.NewCommentHandler(contentService)
	notificationHandler := handlers.NewNotificationHandler(identityService, notificationService)

	e.GET("/health", handlers.HealthCheck)

	public := e.Group("/api")
	userHandler.RegisterPublicRoutes(public)
	postHandler.RegisterPublicRoutes(public)
	commentHandler.RegisterPublicRoutes(public)

	protected := e.Group("/api", middleware.FirebaseAuth(authClient))
	userHandler.RegisterProtectedRoutes(protected)
	postHandler.RegisterProtectedRoutes(protected)
	commentHandler.RegisterProtectedRoutes(protected)
	notificationHandler.RegisterProtectedRoutes(protected)

	log.L().Info().Msg("all routes configured")
	return nil
}

// requestLogger emits one structured log line per request.
func requestLogger() echo.MiddlewareFunc {
	return echomw.RequestLoggerWithConfig(echomw.RequestLoggerConfig{
		LogStatus:  true,
		LogURI:     true,
		LogMethod:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v echomw.RequestLoggerValues) error {
			log.L().Info().
				Str("method", v.Method).
				Str("path", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Msg("request")
			return nil
		},
	})
}
