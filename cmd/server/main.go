package main

import (
	"errors"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	swagger "github.com/gofiber/swagger"
	"github.com/tingmate/tingmate-backend/internal/config"
	"github.com/tingmate/tingmate-backend/internal/database"
	"github.com/tingmate/tingmate-backend/internal/handlers"
	"github.com/tingmate/tingmate-backend/internal/middleware"
	"github.com/tingmate/tingmate-backend/internal/types"
	"github.com/tingmate/tingmate-backend/internal/utils"

	_ "github.com/tingmate/tingmate-backend/docs/api" // Swagger docs
)

// @title Ting Mate API
// @version 1.0.0
// @description Caregiver and carereceiver coordination backend
// @termsOfService http://swagger.io/terms/

// @host localhost:3000
// @BasePath /api
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close(db)

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ErrorHandler:          customErrorHandler,
		DisableStartupMessage: false,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(compress.New())

	// Prometheus metrics
	prometheus := fiberprometheus.New("tingmate")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Create handlers
	authHandler := &handlers.AuthHandler{DB: db, Cfg: cfg}
	userHandler := &handlers.UserHandler{DB: db}
	invitationHandler := &handlers.InvitationHandler{DB: db, Cfg: cfg}
	linkHandler := &handlers.LinkHandler{DB: db}
	taskHandler := &handlers.TaskHandler{DB: db}
	noteHandler := &handlers.NoteHandler{DB: db}
	safeZoneHandler := &handlers.SafeZoneHandler{DB: db}
	locationHandler := &handlers.LocationHandler{DB: db}
	activityHandler := &handlers.ActivityHandler{DB: db}
	notificationHandler := &handlers.NotificationHandler{DB: db}
	healthHandler := &handlers.HealthHandler{DB: db, Cfg: cfg}

	app.Get("/health", healthHandler.Check)

	// API routes under /api
	api := app.Group("/api")
	api.Use(middleware.VersionMiddleware())

	// Public routes
	api.Post("/auth/register", authHandler.Register)
	api.Post("/auth/login", authHandler.Login)
	api.Post("/users/anonymous", userHandler.CreateAnonymous)

	// Authenticated routes
	auth := middleware.RequireUser(cfg.JWTSecret, db)

	api.Get("/user/me", auth, userHandler.Me)
	api.Get("/user", auth, userHandler.ByEmail)
	api.Patch("/user/settings", auth, userHandler.UpdateSettings)
	api.Post("/user/role/transition", auth, userHandler.TransitionRole)

	api.Post("/user/invitations", auth, invitationHandler.Create)
	api.Post("/user/invitations/accept", auth, invitationHandler.Accept)
	api.Get("/user/invitations/:code", auth, invitationHandler.Info)
	api.Delete("/user/invitations/:code", auth, invitationHandler.Cancel)

	api.Get("/user/links", auth, linkHandler.List)
	api.Delete("/user/links/:userEmail", auth, linkHandler.Remove)

	api.Get("/tasks", auth, taskHandler.List)
	api.Post("/tasks", auth, taskHandler.Create)
	api.Patch("/tasks/:id", auth, taskHandler.Update)
	api.Delete("/tasks/:id", auth, taskHandler.Delete)

	api.Get("/shared-notes", auth, noteHandler.List)
	api.Post("/shared-notes", auth, noteHandler.Create)
	api.Patch("/shared-notes/:id", auth, noteHandler.Update)
	api.Delete("/shared-notes/:id", auth, noteHandler.Delete)

	api.Get("/safe-zones", auth, safeZoneHandler.Get)
	api.Put("/safe-zones", auth, safeZoneHandler.Upsert)
	api.Delete("/safe-zones", auth, safeZoneHandler.Delete)

	api.Post("/user-locations", auth, locationHandler.Record)
	api.Get("/user-locations/:userId", auth, locationHandler.Latest)

	api.Get("/activity-logs", auth, activityHandler.List)

	api.Get("/notifications", auth, notificationHandler.List)
	api.Post("/notifications/:id/read", auth, notificationHandler.MarkRead)

	// 404 handler
	app.Use(func(c *fiber.Ctx) error {
		return utils.NotFoundResponse(c, "[404] Resource Not Found")
	})

	// Graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("Gracefully shutting down...")
		_ = app.Shutdown()
	}()

	// Start server
	port := cfg.Port
	log.Printf("Starting server on port %s", port)
	if err := app.Listen(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	log.Println("Server stopped")
}

// customErrorHandler handles errors globally
func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := err.Error()
	errorType := "unknown"

	var apiErr *types.APIError
	if errors.As(err, &apiErr) {
		code = apiErr.Code
		message = apiErr.Message
		errorType = apiErr.Type
	} else if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"status":    code,
		"message":   message,
		"ok":        false,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"url":       c.OriginalURL(),
		"type":      errorType,
	})
}
