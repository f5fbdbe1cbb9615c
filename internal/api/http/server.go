// Package httpapi exposes the warehouse manager over a small JSON API. It
// is a demo shell around the core, not part of it: nothing under
// internal/manager or internal/warehouse imports this package, only the
// reverse.
package httpapi

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/secure"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nilsson-hagberg/warehouse/internal/http/middleware"
	"github.com/nilsson-hagberg/warehouse/internal/manager"
)

// Options configures the server's middleware stack.
type Options struct {
	// Dev relaxes CORS to localhost, matching cmd/zmux-server's "ENV=dev"
	// switch. Leave false in production.
	Dev bool
}

// NewRouter builds a gin engine serving m's operations as JSON endpoints.
func NewRouter(log *zap.Logger, m *manager.Manager, opts Options) *gin.Engine {
	log = log.Named("http")

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1"})

	r.Use(gin.Recovery())
	r.Use(secure.New(secure.Config{
		FrameDeny:          true,
		ContentTypeNosniff: true,
	}))
	if opts.Dev {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     []string{"http://localhost:5173"},
			AllowMethods:     []string{"GET", "POST", "DELETE"},
			AllowHeaders:     []string{"Content-Type"},
			AllowCredentials: false,
			MaxAge:           12 * time.Hour,
		}))
	}
	r.Use(middleware.RequestID())
	r.Use(accessLog(log))

	h := &handlers{log: log, m: m, listCache: newSortedNameCache(m)}

	r.GET("/api/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"message": "pong"}) })
	r.POST("/api/items", h.add)
	r.DELETE("/api/items/:row/:shelf/:zone", h.remove)
	r.GET("/api/items/by-id/:id", h.locateByID)
	r.GET("/api/items/by-name/:name", h.locateByName)
	r.GET("/api/items", h.listSortedByName)
	r.POST("/api/items/allocate", h.allocate)
	r.GET("/api/expiring/:day", h.countExpiringBy)

	return r
}

// accessLog mirrors cmd/zmux-server's ZapLogger middleware: one structured
// line per request, logged at a level proportional to the response status.
func accessLog(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", c.FullPath()),
			zap.Int("status", status),
			zap.String("request_id", middleware.GetRequestID(c)),
			zap.Duration("latency", time.Since(start)),
		}
		switch {
		case status >= 500:
			log.Error("request", fields...)
		case status >= 400:
			log.Warn("request", fields...)
		default:
			log.Info("request", fields...)
		}
	}
}
