package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/wallpix/backend/internal/cache"
	"github.com/wallpix/backend/internal/config"
	"github.com/wallpix/backend/internal/database"
	"github.com/wallpix/backend/internal/handlers"
	"github.com/wallpix/backend/internal/middleware"
	"github.com/wallpix/backend/internal/notify"
	"github.com/wallpix/backend/internal/services"
	"github.com/wallpix/backend/pkg/logger"
	"github.com/wallpix/backend/pkg/utils"
)

func main() {
	logger.Init()

	cfg := config.Load()
	utils.ConfigureJWT(cfg.JWT.Secret, cfg.JWT.ExpirationHours)

	db, err := database.Connect(cfg.DB)
	if err != nil {
		log.Fatalf("database connection failed: %v", err)
	}

	var shareCache *cache.ShareViewCache
	if rdb := database.ConnectRedis(cfg.Redis); rdb != nil {
		shareCache = cache.NewShareViewCache(rdb, cfg.Redis.CacheTTL, "")
	}

	var notifier notify.Notifier = notify.NopNotifier{}
	if cfg.Mail.RelayURL != "" {
		notifier = notify.NewRelayNotifier(cfg.Mail.RelayURL)
	}

	// The nil-interface dance keeps the services' cache checks meaningful.
	var invalidator services.ShareCacheInvalidator
	var viewStore services.ShareViewStore
	if shareCache != nil {
		invalidator = shareCache
		viewStore = shareCache
	}

	draftService := services.NewDraftService(db, notifier, invalidator)
	shareService := services.NewShareService(db, viewStore)
	upgradeService := services.NewUpgradeService(db, notifier)

	authHandler := handlers.NewAuthHandler(db)
	draftsHandler := handlers.NewDraftsHandler(db, draftService, cfg.Share.BaseURL)
	sharesHandler := handlers.NewSharesHandler(shareService)
	upgradesHandler := handlers.NewUpgradesHandler(db, upgradeService)
	usersHandler := handlers.NewUsersHandler(db, draftService, upgradeService)

	authMiddleware := middleware.NewAuthMiddleware(db)

	app := fiber.New(fiber.Config{BodyLimit: 10 * 1024 * 1024})
	app.Use(recover.New(recover.Config{EnableStackTrace: true}))
	app.Use(middleware.CORS())
	app.Use(middleware.RequestLogger())
	app.Use(middleware.SecurityLogger())
	app.Use(middleware.Metrics())

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{"status": "ok"})
	})
	app.Get("/metrics", middleware.MetricsHandler())

	api := app.Group("/api")

	authRoutes := api.Group("/auth")
	authRoutes.Post("/register", authHandler.Register)
	authRoutes.Post("/login", authHandler.Login)
	authRoutes.Get("/me", authMiddleware.RequireAuth, authHandler.Me)
	authRoutes.Put("/password", authMiddleware.RequireAuth, authHandler.ChangePassword)

	api.Get("/plans", handlers.ListPlans)

	api.Get("/shared/:token", sharesHandler.Resolve)
	api.Get("/view/:token", sharesHandler.Resolve)

	draftRoutes := api.Group("/drafts", authMiddleware.RequireAuth)
	draftRoutes.Post("/", draftsHandler.Create)
	draftRoutes.Get("/", draftsHandler.List)
	draftRoutes.Get("/:id", draftsHandler.Get)
	draftRoutes.Put("/:id", draftsHandler.Update)
	draftRoutes.Delete("/:id", draftsHandler.Delete)

	upgradeRoutes := api.Group("/upgrade", authMiddleware.RequireAuth)
	upgradeRoutes.Post("/", upgradesHandler.Request)
	upgradeRoutes.Get("/status", upgradesHandler.Status)
	upgradeRoutes.Delete("/", upgradesHandler.Cancel)

	adminRoutes := api.Group("/admin", authMiddleware.RequireAuth, middleware.AdminOnly)
	adminRoutes.Get("/users", usersHandler.List)
	adminRoutes.Get("/users/:id", usersHandler.Get)
	adminRoutes.Put("/users/:id", usersHandler.Update)
	adminRoutes.Delete("/users/:id", usersHandler.Delete)
	adminRoutes.Get("/drafts", draftsHandler.AdminList)
	adminRoutes.Delete("/drafts/:id", draftsHandler.AdminDelete)
	adminRoutes.Get("/upgrades", upgradesHandler.AdminList)
	adminRoutes.Put("/upgrades/:id/approve", upgradesHandler.Approve)
	adminRoutes.Put("/upgrades/:id/reject", upgradesHandler.Reject)

	listenAddr := fmt.Sprintf(":%s", cfg.Server.Port)

	logger.Info("server_starting", map[string]interface{}{
		"port":    cfg.Server.Port,
		"address": listenAddr,
	})

	errCh := make(chan error, 1)
	go func() {
		errCh <- app.Listen(listenAddr)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		log.Printf("shutting down server due to signal: %s", sig)
		shutdownDone := make(chan struct{})
		go func() {
			_ = app.Shutdown()
			close(shutdownDone)
		}()
		select {
		case <-shutdownDone:
		case <-time.After(10 * time.Second):
			log.Print("forced shutdown timeout reached")
		}
	case err := <-errCh:
		if err != nil {
			log.Fatalf("server error: %v", err)
		}
	}
}
