// Package server contains the HTTP handlers and route wiring for the API.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"inkwell/internal/cache"
	"inkwell/internal/config"
	"inkwell/internal/database"
	"inkwell/internal/middleware"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/service"
	"inkwell/internal/storage"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config  *config.Config
	db      *gorm.DB
	cache   *cache.Client
	logger  *slog.Logger
	metrics *observability.Metrics
	files   *storage.Handler
	local   *storage.LocalBackend

	categoryRepo repository.CategoryRepository
	tagRepo      repository.TagRepository
	postRepo     repository.PostRepository
	musicRepo    repository.MusicRepository
	downloadRepo repository.DownloadRepository
	aboutRepo    repository.AboutRepository
	userRepo     repository.UserRepository
	chatRepo     repository.ChatRepository

	categoryService *service.CategoryService
	tagService      *service.TagService
	postService     *service.PostService
	musicService    *service.MusicService
	downloadService *service.DownloadService
	aboutService    *service.AboutService
	authService     *service.AuthService
	aiService       *service.AIService
}

// NewServer builds a server with live database, cache, and storage.
func NewServer(cfg *config.Config, logger *slog.Logger) (*Server, error) {
	db, err := database.Connect(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.Migrate(db); err != nil {
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	metrics := observability.NewMetrics("inkwell-api")

	var cacheClient *cache.Client
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(cfg.RedisURL, logger, metrics)
		if err != nil {
			logger.Warn("redis unavailable, running without cache", slog.String("error", err.Error()))
			cacheClient = nil
		}
	}

	var backend storage.Backend
	var local *storage.LocalBackend
	switch cfg.StorageBackend {
	case "s3":
		backend, err = storage.NewS3Backend(storage.S3Config{
			Bucket:         cfg.S3Bucket,
			Region:         cfg.S3Region,
			Endpoint:       cfg.S3Endpoint,
			AccessKey:      cfg.S3AccessKey,
			SecretKey:      cfg.S3SecretKey,
			ForcePathStyle: cfg.S3ForcePathStyle,
		})
		if err != nil {
			return nil, fmt.Errorf("s3 storage init failed: %w", err)
		}
	default:
		local, err = storage.NewLocalBackend(cfg.UploadDir)
		if err != nil {
			return nil, fmt.Errorf("local storage init failed: %w", err)
		}
		backend = local
	}

	const mb = 1 << 20
	files := storage.NewHandler(backend, storage.Limits{
		Image:    int64(cfg.MaxImageSizeMB) * mb,
		Music:    int64(cfg.MaxMusicSizeMB) * mb,
		Document: int64(cfg.MaxFileSizeMB) * mb,
	}, logger, metrics)

	srv := NewServerWithDeps(cfg, db, cacheClient, files, logger)
	srv.metrics = metrics
	srv.local = local
	return srv, nil
}

// NewServerWithDeps creates a Server from already-initialized dependencies.
// Tests use this with an in-memory database and a temp-dir storage handler.
func NewServerWithDeps(
	cfg *config.Config,
	db *gorm.DB,
	cacheClient *cache.Client,
	files *storage.Handler,
	logger *slog.Logger,
) *Server {
	s := &Server{
		config: cfg,
		db:     db,
		cache:  cacheClient,
		logger: logger,
		files:  files,
	}

	s.categoryRepo = repository.NewCategoryRepository(db, cacheClient)
	s.tagRepo = repository.NewTagRepository(db, cacheClient)
	s.postRepo = repository.NewPostRepository(db, cacheClient)
	s.musicRepo = repository.NewMusicRepository(db, cacheClient)
	s.downloadRepo = repository.NewDownloadRepository(db)
	s.aboutRepo = repository.NewAboutRepository(db, cacheClient)
	s.userRepo = repository.NewUserRepository(db)
	s.chatRepo = repository.NewChatRepository(db)

	s.categoryService = service.NewCategoryService(s.categoryRepo)
	s.tagService = service.NewTagService(s.tagRepo)
	s.postService = service.NewPostService(s.postRepo, s.categoryRepo, s.tagRepo, files, logger)
	s.musicService = service.NewMusicService(s.musicRepo, files, logger)
	s.downloadService = service.NewDownloadService(s.downloadRepo, files, logger)
	s.aboutService = service.NewAboutService(s.aboutRepo, files, logger)
	s.authService = service.NewAuthService(s.userRepo, cfg.JWTSecret)
	s.aiService = service.NewAIService(s.chatRepo, s.postRepo, service.AIConfig{
		APIKey: cfg.AIAPIKey,
		APIURL: cfg.AIAPIURL,
		Model:  cfg.AIModel,
	}, logger)

	return s
}

// Shutdown releases the server's database and cache connections.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			s.logger.Warn("closing cache", slog.String("error", err.Error()))
		}
	}
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SetupMiddleware configures the global middleware stack.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())

	if s.metrics != nil {
		s.metrics.Register(app)
	}

	app.Use(s.requestLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        200,
		Expiration: 1 * time.Minute,
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes wires every endpoint onto the app.
func (s *Server) SetupRoutes(app *fiber.App) {
	if s.local != nil {
		app.Static("/uploads", s.local.BaseDir())
	}

	app.Get("/health", s.HealthCheck)

	api := app.Group("/api")

	auth := api.Group("/auth")
	auth.Post("/login", s.Login)

	api.Get("/posts", s.ListPosts)
	api.Get("/posts/:id", s.GetPost)
	api.Get("/categories", s.ListCategories)
	api.Get("/categories/:id", s.GetCategory)
	api.Get("/tags", s.ListTags)
	api.Get("/music", s.ListMusic)
	api.Get("/music/:id", s.GetMusic)
	api.Get("/downloads", s.ListDownloads)
	api.Get("/about", s.GetAbout)

	chat := api.Group("/chat")
	chat.Post("/", s.Chat)
	chat.Get("/:sessionID/history", s.ChatHistory)

	admin := api.Group("/admin", middleware.AdminRequired(s.config.AdminToken, s.config.JWTSecret))
	admin.Get("/dashboard", s.Dashboard)
	admin.Get("/posts", s.ListAllPosts)
	admin.Post("/posts", s.CreatePost)
	admin.Put("/posts/:id", s.UpdatePost)
	admin.Delete("/posts/:id", s.DeletePost)
	admin.Put("/posts/:id/tags", s.UpdatePostTags)
	admin.Put("/posts/:id/cover", s.UpdatePostCover)
	admin.Post("/posts/:id/images", s.UploadPostImage)

	admin.Post("/categories", s.CreateCategory)
	admin.Put("/categories/:id", s.UpdateCategory)
	admin.Delete("/categories/:id", s.DeleteCategory)

	admin.Post("/tags", s.CreateTag)
	admin.Put("/tags/:id", s.UpdateTag)
	admin.Delete("/tags/:id", s.DeleteTag)

	admin.Post("/music", s.CreateMusic)
	admin.Put("/music/:id", s.UpdateMusic)
	admin.Put("/music/:id/cover", s.UpdateMusicCover)
	admin.Delete("/music/:id", s.DeleteMusic)

	admin.Post("/downloads", s.CreateDownload)
	admin.Delete("/downloads/:id", s.DeleteDownload)

	admin.Put("/about", s.UpdateAbout)
	admin.Put("/about/photo", s.UpdateAboutPhoto)

	admin.Post("/ai/assist", s.AIAssist)
	admin.Get("/chat/sessions", s.ListChatSessions)
	admin.Delete("/chat/sessions/:sessionID", s.DeleteChatSession)
}

// requestLogger emits one structured line per request.
func (s *Server) requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		s.logger.Info("request",
			slog.String("method", c.Method()),
			slog.String("path", c.Path()),
			slog.Int("status", c.Response().StatusCode()),
			slog.Duration("duration", time.Since(start)),
			slog.String("request_id", requestID(c)),
		)
		return err
	}
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals(requestid.ConfigDefault.ContextKey).(string); ok {
		return id
	}
	return ""
}

// HealthCheck reports database and cache health.
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := "disabled"
	if s.cache != nil {
		cacheStatus = "healthy"
		if _, ok := s.cache.Get(ctx, "health:probe"); !ok {
			// A miss is fine; only transport errors matter, and Get
			// already folded those into the miss. Probe with a write.
			s.cache.Set(ctx, "health:probe", "ok", time.Minute)
		}
	}

	status := fiber.StatusOK
	overall := "healthy"
	if dbStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overall = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overall,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"time": time.Now(),
	})
}
