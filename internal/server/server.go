// Package server contains the HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"fritter/internal/cache"
	"fritter/internal/config"
	"fritter/internal/database"
	"fritter/internal/middleware"
	"fritter/internal/models"
	"fritter/internal/repository"
	"fritter/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	promMiddleware *fiberprometheus.FiberPrometheus
	userRepo       repository.UserRepository
	freetRepo      repository.FreetRepository
	graphRepo      repository.GraphRepository
	userService    *service.UserService
	freetService   *service.FreetService
	graphService   *service.GraphService
	feedService    *service.FeedService
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	middleware.InitMiddleware(cfg)

	userRepo := repository.NewUserRepository(db)
	freetRepo := repository.NewFreetRepository(db)
	graphRepo := repository.NewGraphRepository(db)

	prom := middleware.InitMetrics("fritter-api")

	server := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: prom,
		userRepo:       userRepo,
		freetRepo:      freetRepo,
		graphRepo:      graphRepo,
	}

	server.userService = service.NewUserService(userRepo, graphRepo)
	server.freetService = service.NewFreetService(freetRepo, userRepo)
	server.graphService = service.NewGraphService(graphRepo, userRepo, freetRepo)
	server.feedService = service.NewFeedService(graphRepo, userRepo)

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// Prometheus metrics
	if s.promMiddleware != nil {
		app.Use(s.promMiddleware.Middleware)
	}

	// Structured logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit
	// (e.g. limiter) so browser clients still receive CORS headers on error
	// responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// User routes. Session creation and signup are public; stricter rate
	// limits apply because both hit bcrypt.
	users := api.Group("/users")
	users.Post("/", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	users.Post("/session", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	users.Patch("/", middleware.AuthRequired, s.UpdateProfile)
	users.Delete("/", middleware.AuthRequired, s.DeleteAccount)

	// Aggregated views come before the generic /:username route.
	users.Get("/timeline", middleware.AuthRequired, s.GetTimeline)
	users.Get("/feed", middleware.AuthRequired, s.GetFeed)
	users.Put("/:username/follow", middleware.AuthRequired, s.Follow)
	users.Put("/:username/unfollow", middleware.AuthRequired, s.Unfollow)
	users.Get("/:username", s.GetProfile)

	// Freet routes
	freets := api.Group("/freets")
	freets.Get("/", s.GetFreets)
	freets.Get("/:freetId", s.GetFreet)
	freets.Post("/", middleware.AuthRequired, s.CreateFreet)
	freets.Patch("/:freetId", middleware.AuthRequired, s.UpdateFreet)
	freets.Delete("/:freetId", middleware.AuthRequired, s.DeleteFreet)
	freets.Put("/:freetId/like", middleware.AuthRequired, s.LikeFreet)
	freets.Put("/:freetId/unlike", middleware.AuthRequired, s.UnlikeFreet)
	freets.Put("/:freetId/share", middleware.AuthRequired, s.ShareFreet)
	freets.Put("/:freetId/unshare", middleware.AuthRequired, s.UnshareFreet)
}

// LivenessCheck reports that the process is up.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// ReadinessCheck reports whether the server can serve traffic, which
// requires a reachable database. Redis is optional and only reported.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	sqlDB, err := s.db.DB()
	if err == nil {
		err = sqlDB.PingContext(c.Context())
	}
	if err != nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"status":   "unavailable",
			"database": "down",
		})
	}

	redisStatus := "disabled"
	if s.redis != nil {
		redisStatus = "up"
		if pingErr := s.redis.Ping(c.Context()).Err(); pingErr != nil {
			redisStatus = "down"
		}
	}

	return c.JSON(fiber.Map{
		"status":   "ok",
		"database": "up",
		"redis":    redisStatus,
	})
}

// Shutdown gracefully releases server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	return nil
}

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// currentUserID returns the authenticated user's ID stored by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	id, _ := c.Locals("userID").(uint)
	return id
}

// parseFreetID extracts the freetId route parameter as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
// Callers should check: if err != nil { return nil }
func (s *Server) parseFreetID(c *fiber.Ctx) (uint, error) {
	id, err := c.ParamsInt("freetId")
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid freet ID"))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// respondServiceError maps domain error codes onto HTTP statuses.
func respondServiceError(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}
