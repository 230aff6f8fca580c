package handler

import (
	"log/slog"
	"net/http"
	"slices"
	"time"

	"mangapress/internal/microservices/http-api/middleware"
	"mangapress/internal/microservices/http-api/service"
	"mangapress/internal/telemetry"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouterDeps is everything NewRouter mounts. Nil Metrics, MetricsHandler
// and UploadLimiter switch the matching feature off.
type RouterDeps struct {
	Auth       service.AuthService
	Posts      service.PostService
	Categories service.CategoryService
	Mangas     service.MangaService
	Chapters   service.ChapterService
	Uploader   Uploader
	Sweeper    Sweeper
	Health     map[string]Checker

	Metrics        *telemetry.Metrics
	MetricsHandler http.Handler
	Logger         *slog.Logger

	CORSOrigins    []string
	UploadLimiter  *rate.Limiter
	UploadMaxBytes int64
}

func NewRouter(d RouterDeps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(d.Logger))
	if d.Metrics != nil {
		r.Use(middleware.Metrics(d.Metrics))
	}
	r.Use(cors.New(corsConfig(d.CORSOrigins)))

	r.GET("/healthz", NewHealthHandler(d.Health, d.Logger).Health)
	if d.MetricsHandler != nil {
		r.GET("/metrics", gin.WrapH(d.MetricsHandler))
	}

	requireAuth := middleware.RequireAuth(d.Auth)

	api := r.Group("/api")
	NewAuthHandler(d.Auth, d.Logger).RegisterRoutes(api.Group("/auth"))
	NewPostHandler(d.Posts, d.Logger).RegisterRoutes(api.Group("/blog"), requireAuth)
	NewCategoryHandler(d.Categories, d.Logger).RegisterRoutes(api.Group("/category"), requireAuth)
	NewMangaHandler(d.Mangas, d.Logger).RegisterRoutes(api.Group("/manga"), requireAuth)
	NewChapterHandler(d.Chapters, d.Logger).RegisterRoutes(api.Group("/chapter"), requireAuth)

	// auth runs before the limiter so anonymous callers cannot drain it
	uploadChain := []gin.HandlerFunc{requireAuth}
	if d.UploadLimiter != nil {
		uploadChain = append(uploadChain, middleware.RateLimit(d.UploadLimiter))
	}
	NewUploadHandler(d.Uploader, d.UploadMaxBytes, d.Logger).RegisterRoutes(api.Group("/upload"), uploadChain...)
	NewMediaHandler(d.Sweeper, d.Logger).RegisterRoutes(api.Group("/admin/media"), requireAuth)

	return r
}

// corsConfig echoes any origin when "*" is listed. An empty list allows none.
func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	switch {
	case slices.Contains(origins, "*"):
		cfg.AllowOriginFunc = func(string) bool { return true }
	case len(origins) == 0:
		cfg.AllowOriginFunc = func(string) bool { return false }
	default:
		cfg.AllowOrigins = origins
	}
	return cfg
}
