// internal/api/router.go
package api

import (
	"net/http"
	"slices"
	"time"

	apperrors "grant-portal/internal/common/errors"
	"grant-portal/internal/common/logger"
	"grant-portal/internal/store"
	fieldrules "grant-portal/internal/wizard/field-rules"
	formsession "grant-portal/internal/wizard/form-session"
	stepdefinitions "grant-portal/internal/wizard/step-definitions"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the wizard components the HTTP layer serves.
type Deps struct {
	Registry *formsession.Registry
	Steps    *stepdefinitions.Table
	Catalog  fieldrules.Catalog
	Store    store.ApplicationStore
	Logger   logger.Logger

	ServiceName    string
	Version        string
	AllowedOrigins []string
	// MetricsPath mounts the Prometheus handler. Empty disables it.
	MetricsPath string
	Checks      []ReadinessCheck
}

type Server struct {
	deps     Deps
	logger   logger.Logger
	errors   *apperrors.ErrorHandler
	sessions *SessionHandler
	health   *HealthHandler
}

func NewServer(deps Deps) *Server {
	log := deps.Logger.WithFields(map[string]interface{}{"component": "api"})
	errs := apperrors.NewErrorHandler(log)
	return &Server{
		deps:     deps,
		logger:   log,
		errors:   errs,
		sessions: NewSessionHandler(deps.Registry, errs),
		health:   NewHealthHandler(deps.ServiceName, deps.Version, deps.Checks),
	}
}

// Router builds the gin engine with middleware and every route mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(AccessLogMiddleware(s.logger))
	r.Use(MetricsMiddleware())
	r.Use(cors.New(corsConfig(s.deps.AllowedOrigins)))

	s.health.RegisterRoutes(r)
	if s.deps.MetricsPath != "" {
		r.GET(s.deps.MetricsPath, gin.WrapH(promhttp.Handler()))
	}

	v1 := r.Group("/api/v1")
	v1.GET("/form", s.getForm)
	s.sessions.RegisterRoutes(v1)
	v1.GET("/applications", s.listApplications)
	v1.GET("/stats", s.getStats)
	v1.GET("/dashboard", s.getDashboard)

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})
	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	if len(origins) == 0 || slices.Contains(origins, "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	cfg.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	cfg.AllowHeaders = []string{"Origin", "Content-Type", "Accept", requestIDHeader}
	cfg.ExposeHeaders = []string{requestIDHeader}
	cfg.MaxAge = 12 * time.Hour
	return cfg
}
