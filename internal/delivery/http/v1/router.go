package v1

import (
	"net/http"
	"time"

	"cv-platform-backend/config"
	"cv-platform-backend/internal/delivery/http/middleware"
	"cv-platform-backend/internal/delivery/http/response"
	"cv-platform-backend/internal/domain"
	"cv-platform-backend/internal/usecase"
	"cv-platform-backend/pkg/security"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type RouterDeps struct {
	AuthUC      domain.AuthUsecase
	CandidateUC domain.CandidateUsecase
	HealthUC    usecase.HealthUsecase
	Tokens      middleware.TokenVerifier
	RateLimiter *middleware.RateLimiter
	Audit       *security.SecurityLogger
	Config      *config.Config
}

func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middlewares
	r.Use(middleware.CORSMiddleware(deps.Config.AllowedOrigins, deps.Config.IsProduction())) // CORS must be first!
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.SecurityHeadersMiddleware(deps.Config.IsProduction()))
	r.Use(middleware.ErrorHandler())

	window := time.Duration(deps.Config.RateLimitWindowSeconds) * time.Second
	r.Use(deps.RateLimiter.Middleware(middleware.DefaultRateLimitConfig(deps.Config.RateLimitGlobalThreshold, window)))

	// Health Check
	r.GET("/health", func(c *gin.Context) {
		status, healthy := deps.HealthUC.Check(c.Request.Context())
		code := http.StatusOK
		if !healthy {
			code = http.StatusServiceUnavailable
		}
		response.JSON(c, code, status)
	})

	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Generated CVs when no object storage is configured
	r.Static(deps.Config.StaticPrefix, deps.Config.StaticDir)

	public := r.Group("")

	// Protected routes
	protected := r.Group("")
	protected.Use(middleware.AuthMiddleware(deps.Tokens))
	{
		NewAuthHandler(public, protected, deps.AuthUC, deps.RateLimiter.Middleware(middleware.AuthRateLimitConfig()))
		NewCandidateHandler(protected, deps.CandidateUC, middleware.RequireRoles(deps.Audit, domain.RoleRecruiter))
		NewCVHandler(public, protected, deps.CandidateUC, deps.RateLimiter.Middleware(middleware.GenerateRateLimitConfig()))
	}

	return r
}
