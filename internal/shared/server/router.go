package server

import (
	"github.com/gin-gonic/gin"

	"resume-scanner/internal/resumes"
	"resume-scanner/internal/search"
	"resume-scanner/internal/services/health"
	"resume-scanner/internal/shared/config"
	"resume-scanner/internal/shared/metrics"
	"resume-scanner/internal/shared/server/middleware"
	"resume-scanner/internal/shared/server/respond"
)

const scanRateGroup = "SCAN"

// RouterDeps carries the handlers wired into the HTTP router.
type RouterDeps struct {
	Config        config.Config
	ResumeHandler *resumes.Handler
	SearchHandler *search.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.Config.CORSAllowOrigin),
		middleware.RateLimit(middleware.RateLimitConfig{
			// Folder scans and searches re-parse every file; keep them slow.
			Rules: map[string]middleware.RateLimitRule{
				scanRateGroup: {Rate: 1, Burst: 3},
			},
			GroupFor: func(c *gin.Context) string {
				switch c.FullPath() {
				case "/api/v1/resumes/scan", "/api/v1/resumes/search":
					return scanRateGroup
				}
				return ""
			},
		}),
	)

	healthSvc := health.NewService()

	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	api.GET("/health", func(c *gin.Context) {
		respond.OK(c, healthSvc.Status())
	})
	if deps.ResumeHandler != nil {
		deps.ResumeHandler.RegisterRoutes(api)
	}
	if deps.SearchHandler != nil {
		deps.SearchHandler.RegisterRoutes(api)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}
