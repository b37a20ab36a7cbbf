// Package httpapi exposes the engine as a single-shot HTTP service, the
// same shape the teacher gives its own optimizer: a thin Gin server with
// CORS enabled for everything, routes grouped under /api, and handlers that
// parse JSON, call into the domain layer, and render JSON back.
package httpapi

import (
	"net/http"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/salsa-engine/salsa/internal/assistant"
	"github.com/salsa-engine/salsa/internal/store"
)

// Version is set at build time.
var Version = "dev"

// Server wraps the Gin router, the run-history store, and the optional
// report-explaining assistant.
type Server struct {
	store     *store.Store
	assistant *assistant.Assistant
	log       *logrus.Logger
	router    *gin.Engine
}

// NewServer builds the router and registers every route.
func NewServer(st *store.Store, asst *assistant.Assistant) *Server {
	log := logrus.New()

	s := &Server{
		store:     st,
		assistant: asst,
		log:       log,
		router:    gin.New(),
	}

	s.router.Use(gin.Recovery(), s.requestLogger())

	config := cors.DefaultConfig()
	config.AllowAllOrigins = true
	config.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	s.router.Use(cors.New(config))

	s.setupRoutes()
	return s
}

// requestLogger is the logrus-based request-correlation middleware carried
// for the HTTP shell (each request gets a logged method/path/status line;
// the solve run id is not part of that line), grounded on the pack's other real service shell
// (AlejandroMBJS-IRIS) rather than the teacher's bare log.Printf, since this
// is exactly the kind of leveled, structured logging logrus is for.
func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()
		s.log.WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.Request.URL.Path,
			"status": c.Writer.Status(),
		}).Info("request handled")
	}
}

func (s *Server) setupRoutes() {
	h := &handler{store: s.store, assistant: s.assistant, log: s.log}

	api := s.router.Group("/api/v1")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		api.GET("/version", func(c *gin.Context) {
			version := Version
			if v := os.Getenv("APP_VERSION"); v != "" {
				version = v
			}
			c.JSON(http.StatusOK, gin.H{"version": version})
		})

		api.POST("/schedule/solve", h.Solve)
		api.GET("/schedule/runs", h.RecentRuns)

		api.GET("/settings/:name", h.GetSettingsProfile)
		api.PUT("/settings/:name", h.PutSettingsProfile)
	}
}

// Run starts the HTTP listener.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
