package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/vladimiradmaev/insulin-uploader/internal/apperrors"
	"github.com/vladimiradmaev/insulin-uploader/internal/config"
	"github.com/vladimiradmaev/insulin-uploader/internal/interfaces"
	"github.com/vladimiradmaev/insulin-uploader/internal/logger"
)

// Server is the inbound HTTP surface of the uploader.
type Server struct {
	engine *gin.Engine
	httpd  *http.Server
}

func New(cfg *config.Config, extractor interfaces.Extractor, processor interfaces.TreatmentProcessor) *Server {
	h := &handlers{
		extractor:      extractor,
		processor:      processor,
		errs:           apperrors.NewHandler(logger.GetLogger()),
		autoConfirm:    cfg.AutoConfirm,
		requestTimeout: cfg.RequestTimeout,
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestID())
	r.Use(cors.New(cors.Config{
		AllowOriginFunc:  func(string) bool { return true },
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/", h.liveness)
	r.POST("/upload", h.upload)
	r.POST("/confirm", h.confirm)

	return &Server{
		engine: r,
		httpd: &http.Server{
			Addr:    ":" + cfg.Port,
			Handler: r,
		},
	}
}

// Start blocks serving HTTP until Shutdown is called.
func (s *Server) Start() error {
	logger.Info("HTTP server listening", "addr", s.httpd.Addr)
	if err := s.httpd.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpd.Shutdown(ctx)
}

// Engine exposes the router. Used by tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// requestID attaches a request id to the context and response headers so log
// lines of one upload can be correlated.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}
