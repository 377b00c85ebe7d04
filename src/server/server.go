package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"seasonality-dashboard/src/interfaces"
	"seasonality-dashboard/src/logger"
	"seasonality-dashboard/src/models"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// DashboardServer
// -----------------------------------------------------------------------------

var _ interfaces.IDataExchanger = (*DashboardServer)(nil)

type DashboardServer struct {
	Config     *models.MConfig
	Logger     *logger.Logger
	Controller interfaces.IChartController
	Journal    interfaces.IFetchJournal // optional
	engine     *gin.Engine
	httpServer *http.Server

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan models.MCombinedView
	register   chan *Client
	unregister chan *Client
	quit       chan struct{}
	hubOnce    sync.Once
	stopOnce   sync.Once

	// Local cache
	latestState models.MCombinedView
	stateMutex  sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewDashboardServer(
	cfg *models.MConfig,
	ctrl interfaces.IChartController,
	journal interfaces.IFetchJournal,
	logger *logger.Logger,
) *DashboardServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &DashboardServer{
		Config:     cfg,
		Logger:     logger,
		Controller: ctrl,
		Journal:    journal,
		engine:     engine,
		clients:    make(map[*Client]struct{}),
		// Buffered so the controller loop never waits on the hub
		broadcast:   make(chan models.MCombinedView, 256),
		register:    make(chan *Client),
		unregister:  make(chan *Client),
		quit:        make(chan struct{}),
		latestState: ctrl.View(),
	}
	s.latestState.Type = "INITIAL"

	s.engine.Use(s.requestLogger())
	s.engine.Use(corsMiddleware)

	s.setupRoutes()
	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// -----------------------------------------------------------------------------

// Add CORS Middleware
func corsMiddleware(c *gin.Context) {
	origin := c.Request.Header.Get("Origin")
	if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
		c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
	}
	c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
	c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
	c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT")

	if c.Request.Method == "OPTIONS" {
		c.AbortWithStatus(http.StatusNoContent)
		return
	}

	c.Next()
}

func (s *DashboardServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		s.Logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, c.Writer.Status(), time.Since(start))
	}
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *DashboardServer) setupRoutes() {
	api := s.engine.Group("/api")
	api.GET("/health", s.getHealth)
	api.GET("/catalog", s.getCatalog)
	api.GET("/selection", s.getSelection)
	api.POST("/selection/asset", s.postAsset)
	api.POST("/selection/year", s.postYear)
	api.POST("/selection/time-range", s.postTimeRange)
	api.POST("/submit", s.postSubmit)
	api.GET("/view", s.getView)
	api.GET("/stats", s.getStats)
	api.GET("/fetches", s.getFetches)

	s.engine.GET("/ws", s.handleWebSocket)
}

// Engine exposes the router, mainly for httptest.
func (s *DashboardServer) Engine() *gin.Engine {
	return s.engine
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *DashboardServer) Start() error {
	s.Logger.Info("Starting server on %s", s.httpServer.Addr)
	s.startHub()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) Stop(ctx context.Context) error {
	s.stopOnce.Do(func() { close(s.quit) })
	return s.httpServer.Shutdown(ctx)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) startHub() {
	s.hubOnce.Do(func() { go s.handleWebsockets() })
}
