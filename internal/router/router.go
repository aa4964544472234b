package router

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/doctorsportal/portal-api/internal/handler"
	"github.com/doctorsportal/portal-api/internal/middleware"
	"github.com/doctorsportal/portal-api/pkg/metrics"
)

// Handler registers a group of routes, applying auth middleware per route.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup, *middleware.AuthMiddleware)
}

type Router struct {
	engine   *gin.Engine
	auth     *middleware.AuthMiddleware
	handlers []Handler
	h        *handler.Handler
	metrics  *metrics.Metrics
}

func NewRouter(
	auth *middleware.AuthMiddleware,
	h *handler.Handler,
	m *metrics.Metrics,
	handlers ...Handler,
) *Router {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()

	r := &Router{
		engine:   engine,
		auth:     auth,
		handlers: handlers,
		h:        h,
		metrics:  m,
	}

	engine.Use(
		gin.Recovery(),
		middleware.RequestID(),
		middleware.Logger(),
		middleware.CORS(middleware.DefaultCORSConfig()),
		r.metricsMiddleware(),
	)

	return r
}

// Setup registers the operational endpoints and every handler's routes.
func (r *Router) Setup() {
	r.engine.GET("/healthz", r.h.LivenessCheck)
	r.engine.GET("/readyz", r.h.ReadinessCheck)
	r.engine.GET("/metrics", r.h.MetricsHandler)

	root := r.engine.Group("")
	for _, h := range r.handlers {
		h.RegisterRoutes(root, r.auth)
	}
}

func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) metricsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		r.metrics.RequestTotal.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
			"status": strconv.Itoa(c.Writer.Status()),
		}).Inc()
		r.metrics.RequestDuration.With(prometheus.Labels{
			"method": c.Request.Method,
			"path":   path,
		}).Observe(time.Since(start).Seconds())
	}
}
