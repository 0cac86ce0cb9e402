// Package server wires the REST API consumed by the web and CLI clients.
package server

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/Tariqai1/student-productivity-app/internal/attendance"
	"github.com/Tariqai1/student-productivity-app/internal/auth"
	"github.com/Tariqai1/student-productivity-app/internal/config"
	"github.com/Tariqai1/student-productivity-app/internal/httpmiddleware"
	"github.com/Tariqai1/student-productivity-app/internal/mailer"
	"github.com/Tariqai1/student-productivity-app/internal/store"
	"github.com/Tariqai1/student-productivity-app/internal/uploads"
)

// Server bundles the API dependencies.
type Server struct {
	cfg      config.App
	log      zerolog.Logger
	repo     *attendance.Repository
	svc      *attendance.Service
	redis    *store.Redis
	uploader uploads.Uploader
	mail     *mailer.Mailer
	loc      *time.Location
}

// New creates a server. uploader may be a LocalStore or a Cloudinary client.
func New(cfg config.App, log zerolog.Logger, repo *attendance.Repository, svc *attendance.Service,
	redis *store.Redis, uploader uploads.Uploader, mail *mailer.Mailer) *Server {
	return &Server{
		cfg:      cfg,
		log:      log,
		repo:     repo,
		svc:      svc,
		redis:    redis,
		uploader: uploader,
		mail:     mail,
		loc:      cfg.Location(),
	}
}

// Engine builds the gin engine with the full route table.
func (s *Server) Engine() *gin.Engine {
	r := gin.New()

	r.Use(gin.Recovery())
	r.Use(gin.LoggerWithConfig(gin.LoggerConfig{
		SkipPaths: []string{"/healthz", "/metrics"},
	}))
	r.Use(corsMiddleware())
	r.Use(securityHeaders())
	r.Use(httpmiddleware.NewSimpleTokenBucket(s.cfg.RateLimitPerMin, s.cfg.RateLimitPerMin).GinMiddleware())

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/healthz", s.healthz)

	r.Static("/static", s.cfg.UploadDir)

	authRoutes := r.Group("/auth")
	{
		authRoutes.POST("/login", s.login)
		authRoutes.POST("/register", s.register)
		authRoutes.POST("/forgot-password", s.forgotPassword)
		authRoutes.POST("/reset-password", s.resetPassword)
	}

	authed := r.Group("/", auth.Bearer(s.cfg.JWTSigningKey, s.cfg.JWTIssuer))
	{
		authed.GET("/students/me", s.myProfile)
		authed.PUT("/students/me", s.updateMyProfile)
		authed.POST("/students/upload-photo", s.uploadPhoto)
		authed.POST("/students/remark", s.myRemark)

		authed.POST("/attendance/check-in", s.checkIn)
		authed.POST("/attendance/check-out", s.checkOut)
		authed.POST("/attendance/upload-proof", s.uploadProof)
		authed.GET("/attendance/my-history", s.myHistory)

		authed.GET("/analytics/my-performance", s.myPerformance)

		admin := authed.Group("/", auth.AdminOnly())
		{
			admin.GET("/analytics/admin/student-stats/:id", s.studentStats)
			admin.GET("/admin/daily-report", s.dailyReport)
			admin.GET("/admin/students", s.listStudents)
			admin.GET("/admin/attendance/:id", s.studentHistory)
			admin.POST("/admin/student-remark", s.adminRemark)
			admin.GET("/admin/download-daily-report", s.downloadDailyReport)
			admin.GET("/admin/download-weekly-report", s.downloadWeeklyReport)
			admin.PATCH("/admin/users/:id/status", s.toggleStudentStatus)
		}
	}

	return r
}

func (s *Server) healthz(c *gin.Context) {
	redisHealthy := s.redis.Healthy(c.Request.Context())
	status := http.StatusOK
	if !redisHealthy {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": "ok", "redis": redisHealthy})
}

func detail(c *gin.Context, status int, msg string) {
	c.JSON(status, gin.H{"detail": msg})
}

// CORS middleware for browser requests
func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if origin == "" {
			origin = "*"
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Origin, Content-Type, Accept, Authorization")
		c.Header("Access-Control-Allow-Credentials", "true")
		c.Header("Access-Control-Max-Age", "86400")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// Security headers middleware
func securityHeaders() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("X-Content-Type-Options", "nosniff")
		c.Header("X-Frame-Options", "DENY")
		c.Header("Referrer-Policy", "strict-origin-when-cross-origin")

		if gin.Mode() == gin.ReleaseMode {
			c.Header("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}

		c.Next()
	}
}
