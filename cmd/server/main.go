package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/ArunDev-07/apple-podcast-backend/internal/auth"
	"github.com/ArunDev-07/apple-podcast-backend/internal/cache"
	"github.com/ArunDev-07/apple-podcast-backend/internal/database"
	"github.com/ArunDev-07/apple-podcast-backend/internal/handlers"
	"github.com/ArunDev-07/apple-podcast-backend/internal/logger"
	"github.com/ArunDev-07/apple-podcast-backend/internal/metrics"
	"github.com/ArunDev-07/apple-podcast-backend/internal/middleware"
	"github.com/ArunDev-07/apple-podcast-backend/internal/telemetry"
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

func main() {
	// .env is optional in deployed environments
	_ = godotenv.Load()

	logLevel := getEnv("LOG_LEVEL", "info")
	logFile := getEnv("LOG_FILE", "logs/server.log")
	if err := logger.Initialize(logLevel, logFile); err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Close()

	if err := database.Initialize(); err != nil {
		logger.FatalWithFields("Failed to connect to database", err)
	}
	defer database.Close()

	if err := database.Migrate(); err != nil {
		logger.FatalWithFields("Failed to run migrations", err)
	}

	// Redis is optional: without it response caching is skipped and every
	// request hits Postgres
	redisHost := getEnv("REDIS_HOST", "localhost")
	redisPort := getEnv("REDIS_PORT", "6379")
	redisPassword := os.Getenv("REDIS_PASSWORD")
	if _, err := cache.NewRedisClient(redisHost, redisPort, redisPassword); err != nil {
		logger.WarnWithFields("Redis unavailable, response caching disabled", err)
	}

	metrics.Initialize()

	otelEnabled, _ := strconv.ParseBool(getEnv("OTEL_ENABLED", "false"))
	samplingRate, err := strconv.ParseFloat(getEnv("OTEL_SAMPLING_RATE", "0.1"), 64)
	if err != nil {
		samplingRate = 0.1
	}
	tp, err := telemetry.InitTracer(telemetry.Config{
		ServiceName:  "apple-podcast-backend",
		Environment:  getEnv("ENVIRONMENT", "development"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		Enabled:      otelEnabled,
		SamplingRate: samplingRate,
	})
	if err != nil {
		logger.WarnWithFields("Failed to initialize tracing", err)
	}
	if tp != nil {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tp.Shutdown(ctx); err != nil {
				logger.WarnWithFields("Failed to shut down tracer provider", err)
			}
		}()
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		logger.FatalWithFields("JWT_SECRET must be set", nil)
	}
	authService := auth.NewService([]byte(jwtSecret))

	router := setupRouter(authService, otelEnabled)

	port := getEnv("PORT", "8080")
	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("Server starting", zap.String("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.FatalWithFields("Server failed", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("Shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.ErrorWithFields("Forced shutdown", err)
	}
	logger.Log.Info("Server stopped")
}

func setupRouter(authService *auth.Service, otelEnabled bool) *gin.Engine {
	if getEnv("ENVIRONMENT", "development") == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.GinLoggerMiddleware())
	router.Use(middleware.MetricsMiddleware())
	if otelEnabled {
		router.Use(otelgin.Middleware("apple-podcast-backend"))
	}
	router.Use(gzip.Gzip(gzip.DefaultCompression))

	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{getEnv("CORS_ORIGIN", "http://localhost:3000")}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = append(corsConfig.AllowHeaders, "Authorization", "X-Request-ID")
	router.Use(cors.New(corsConfig))

	router.GET("/health", func(c *gin.Context) {
		if err := database.Health(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	h := handlers.NewHandlers()
	authHandlers := handlers.NewAuthHandlers(authService)
	requireAuth := authHandlers.AuthMiddleware()

	cacheTTL := 5 * time.Minute

	v1 := router.Group("/api/v1")
	{
		authGroup := v1.Group("/auth")
		{
			authGroup.POST("/register", authHandlers.Register)
			authGroup.POST("/login", authHandlers.Login)
			authGroup.GET("/me", requireAuth, authHandlers.Me)
		}

		podcasts := v1.Group("/podcasts")
		{
			podcasts.GET("", h.ListPodcasts)
			podcasts.GET("/trending", h.GetTrendingPodcasts)
			podcasts.GET("/:id", h.GetPodcast)
			podcasts.GET("/:id/episodes", h.ListEpisodes)

			podcasts.POST("", requireAuth, middleware.RequireAdmin(), h.CreatePodcast)
			podcasts.PUT("/:id", requireAuth, middleware.RequireAdmin(), h.UpdatePodcast)
			podcasts.DELETE("/:id", requireAuth, middleware.RequireAdmin(), h.DeletePodcast)
			podcasts.POST("/:id/episodes", requireAuth, middleware.RequireAdmin(), h.CreateEpisode)
			podcasts.PUT("/:id/episodes/:episodeId", requireAuth, middleware.RequireAdmin(), h.UpdateEpisode)
			podcasts.DELETE("/:id/episodes/:episodeId", requireAuth, middleware.RequireAdmin(), h.DeleteEpisode)

			podcasts.POST("/:id/like", requireAuth, h.LikePodcast)
			podcasts.DELETE("/:id/like", requireAuth, h.UnlikePodcast)
			podcasts.POST("/:id/bookmark", requireAuth, h.BookmarkPodcast)
			podcasts.DELETE("/:id/bookmark", requireAuth, h.UnbookmarkPodcast)
			podcasts.POST("/:id/play", requireAuth, h.RecordPlay)
			podcasts.GET("/:id/status", requireAuth, h.GetPodcastStatus)
			podcasts.POST("/status", requireAuth, h.GetBulkPodcastStatus)
		}

		library := v1.Group("/library", requireAuth)
		{
			library.GET("", middleware.ResponseCacheMiddleware(cacheTTL), h.GetLibrary)
			library.GET("/liked", middleware.ResponseCacheMiddleware(cacheTTL), h.GetLikedPodcasts)
			library.GET("/bookmarked", middleware.ResponseCacheMiddleware(cacheTTL), h.GetBookmarkedPodcasts)
			library.GET("/recently-played", middleware.ResponseCacheMiddleware(cacheTTL), h.GetRecentlyPlayed)
			library.GET("/most-played", middleware.ResponseCacheMiddleware(cacheTTL), h.GetMostPlayedGlobal)
		}

		playlists := v1.Group("/playlists", requireAuth)
		{
			playlists.GET("", h.ListPlaylists)
			playlists.POST("", h.CreatePlaylist)
			playlists.GET("/:id", h.GetPlaylist)
			playlists.DELETE("/:id", h.DeletePlaylist)
			playlists.POST("/:id/items", h.AddPlaylistItem)
			playlists.DELETE("/:id/items/:podcastId", h.RemovePlaylistItem)
		}
	}

	return router
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
