// Package api exposes the selling-chat HTTP surface: the streaming chat
// endpoint, streamer persona CRUD, and the embedded web UI.
package api

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v5"
	"golang.org/x/time/rate"

	"github.com/hinwong/salescast/internal/generate"
	"github.com/hinwong/salescast/internal/inference"
	"github.com/hinwong/salescast/internal/logger"
	"github.com/hinwong/salescast/internal/persona"
	"github.com/hinwong/salescast/internal/version"
	"github.com/hinwong/salescast/internal/webui"
)

// ServerConfig wires the server's collaborators.
type ServerConfig struct {
	Engine   inference.Engine
	Store    *persona.Store
	Defaults generate.Config
	Log      logger.Logger

	// RateLimit bounds chat request admission; zero means 5 req/s.
	RateLimit rate.Limit
	RateBurst int
}

// Server handles the chat-commerce API. Decode runs are serialized through
// a single-slot semaphore: the model is a shared single-accelerator
// resource and the decode core does not schedule concurrent runs itself.
type Server struct {
	engine   inference.Engine
	store    *persona.Store
	defaults generate.Config
	log      logger.Logger
	limiter  *rate.Limiter
	runSlot  chan struct{}
	clock    func() time.Time
}

func NewServer(cfg ServerConfig) *Server {
	if cfg.Log == nil {
		cfg.Log = logger.Default()
	}
	limit := cfg.RateLimit
	if limit == 0 {
		limit = rate.Limit(5)
	}
	burst := cfg.RateBurst
	if burst == 0 {
		burst = 10
	}
	return &Server{
		engine:   cfg.Engine,
		store:    cfg.Store,
		defaults: cfg.Defaults,
		log:      cfg.Log,
		limiter:  rate.NewLimiter(limit, burst),
		runSlot:  make(chan struct{}, 1),
		clock:    time.Now,
	}
}

func (s *Server) Register(e *echo.Echo) {
	e.POST("/v1/chat", s.handleChat)

	e.GET("/v1/streamers", s.handleListStreamers)
	e.POST("/v1/streamers", s.handleCreateStreamer)
	e.GET("/v1/streamers/:id", s.handleGetStreamer)
	e.PUT("/v1/streamers/:id", s.handleUpdateStreamer)
	e.DELETE("/v1/streamers/:id", s.handleDeleteStreamer)

	e.GET("/v1/quick_replies", s.handleQuickReplies)
	e.GET("/healthz", s.handleHealth)
	e.GET("/", s.handleIndex)
}

func (s *Server) handleHealth(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"status":  "ok",
		"version": version.String(),
	})
}

func (s *Server) handleQuickReplies(c *echo.Context) error {
	return c.JSON(http.StatusOK, map[string]any{
		"object": "list",
		"data":   persona.WantToBuyReplies,
	})
}

func (s *Server) handleIndex(c *echo.Context) error {
	return c.HTMLBlob(http.StatusOK, webui.Index())
}
