package app

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/libbyyosef/team-availability/internal/auth"
	"github.com/libbyyosef/team-availability/internal/auth/handler"
	"github.com/libbyyosef/team-availability/internal/auth/session"
	"github.com/libbyyosef/team-availability/internal/config"
	"github.com/libbyyosef/team-availability/internal/middleware"
	"github.com/libbyyosef/team-availability/internal/status"
	"github.com/libbyyosef/team-availability/internal/user"
)

func setupHTTP(ctx context.Context, cfg config.Config) (*gin.Engine, func() error, error) {

	infra, err := setupInfra(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	// ----------------------------
	// Dependencies
	// ----------------------------

	codec, err := session.NewCodec(cfg.SessionSecret)
	if err != nil {
		return nil, nil, err
	}

	userStore := user.NewStore(infra.DB)
	statusStore := status.NewStore(infra.DB)

	sessions := session.NewManager(codec, userStore, session.CookieOptions{
		Name:          cfg.CookieName,
		Path:          cfg.CookiePath,
		Domain:        cfg.CookieDomain,
		MaxAgeSeconds: cfg.CookieMaxAgeSeconds,
		Secure:        cfg.CookieSecure,
		SameSite:      cfg.CookieSameSite,
	})

	var limiter handler.LoginLimiter
	if infra.Redis != nil {
		limiter = auth.NewLoginLimiter(infra.Redis.Client)
	}

	authHandler := handler.NewHandler(sessions, limiter)
	userHandler := user.NewHandler(userStore)
	statusHandler := status.NewHandler(statusStore)

	authMiddleware := middleware.NewAuthMiddleware(sessions)
	requireAuth := middleware.GinRequireAuth(authMiddleware)

	// ----------------------------
	// Router
	// ----------------------------

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())

	authHandler.RegisterRoutes(router)
	userHandler.RegisterRoutes(router, requireAuth)
	statusHandler.RegisterRoutes(router, requireAuth)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return router, func() error {
		if infra.Redis != nil {
			_ = infra.Redis.Close()
		}
		return infra.DB.Close()
	}, nil
}
