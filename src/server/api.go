package server

import (
	"fmt"
	"runtime"
	"strings"
	"sync"
	"time"

	"stock-analyzer/src/analysis"
	"stock-analyzer/src/helpers"
	"stock-analyzer/src/interfaces"
	"stock-analyzer/src/logger"
	"stock-analyzer/src/models"
	"stock-analyzer/src/utils"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// APIServer
// -----------------------------------------------------------------------------

type APIServer struct {
	Config   *models.MConfig
	Logger   *logger.Logger
	Facade   *analysis.AnalysisFacade
	Registry *analysis.HandleRegistry
	Store    interfaces.IDatasetStore
	Calendar *utils.TradingCalendar
	engine   *gin.Engine

	// WebSocket clients
	clients    map[*Client]struct{}
	broadcast  chan *models.MAnalysisReport
	register   chan *Client
	unregister chan *Client

	// Latest completed report, served to newly connected clients
	latestReport *models.MAnalysisReport
	stateMutex   sync.RWMutex
}

// -----------------------------------------------------------------------------
// Constructor
// -----------------------------------------------------------------------------

func NewAPIServer(
	cfg *models.MConfig,
	log *logger.Logger,
	facade *analysis.AnalysisFacade,
	registry *analysis.HandleRegistry,
	store interfaces.IDatasetStore,
) *APIServer {
	if cfg.LogLevel != "DEBUG" {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &APIServer{
		Config:   cfg,
		Logger:   log,
		Facade:   facade,
		Registry: registry,
		Store:    store,
		Calendar: utils.GetCalendar(cfg.Market.MIC),
		engine:   gin.Default(),
		clients:  make(map[*Client]struct{}),
		// Buffered queue so analysis completion never blocks on slow clients
		broadcast:  make(chan *models.MAnalysisReport, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		latestReport: &models.MAnalysisReport{
			Type: "INITIAL",
		},
	}

	// CORS for local dashboards
	s.engine.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if strings.HasPrefix(origin, "http://127.0.0.1:") || strings.HasPrefix(origin, "http://localhost:") {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	})

	s.setupRoutes()
	return s
}

// -----------------------------------------------------------------------------
// Route Setup
// -----------------------------------------------------------------------------

func (s *APIServer) setupRoutes() {
	// One-shot analytics
	s.engine.POST("/api/span", s.postSpan)
	s.engine.POST("/api/analyze", s.postAnalyze)

	// Handle-based analytics
	s.engine.POST("/api/tree", s.postTree)
	s.engine.GET("/api/tree/:id/query", s.getTreeQuery)
	s.engine.DELETE("/api/tree/:id", s.deleteTree)

	s.engine.POST("/api/window", s.postWindow)
	s.engine.GET("/api/window/:id/:idx", s.getWindow)
	s.engine.DELETE("/api/window/:id", s.deleteWindow)

	// Dataset inputs
	s.engine.PUT("/api/datasets/:name", s.putDataset)
	s.engine.GET("/api/datasets/:name", s.getDataset)
	s.engine.GET("/api/datasets", s.listDatasets)
	s.engine.DELETE("/api/datasets/:name", s.deleteDataset)

	// Operational endpoints
	s.engine.GET("/api/health", s.getHealth)
	s.engine.GET("/api/metrics", s.getMetrics)

	// WebSocket endpoint
	s.engine.GET("/ws", s.handleWebSocket)
}

// -----------------------------------------------------------------------------
// Server Lifecycle
// -----------------------------------------------------------------------------

func (s *APIServer) Start() error {
	addr := fmt.Sprintf("%s:%d", s.Config.Host, s.Config.Port)
	s.Logger.Info("Starting server on %s", addr)

	go s.handleWebsockets()

	return s.engine.Run(addr)
}

// -----------------------------------------------------------------------------

func (s *APIServer) Stop() error {
	close(s.broadcast)
	close(s.register)
	close(s.unregister)
	return nil
}

// -----------------------------------------------------------------------------

// Engine exposes the router for tests.
func (s *APIServer) Engine() *gin.Engine {
	return s.engine
}

// -----------------------------------------------------------------------------
// Request payloads
// -----------------------------------------------------------------------------

type seriesRequest struct {
	Prices []float64 `json:"prices"`
}

type windowRequest struct {
	Prices     []float64 `json:"prices"`
	WindowSize int       `json:"window_size"`
}

type analyzeRequest struct {
	Name       string    `json:"name"`
	Prices     []float64 `json:"prices"`
	WindowSize int       `json:"window_size"`
}

// -----------------------------------------------------------------------------
// Analytics Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) postSpan(c *gin.Context) {
	var req seriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewMissingArgumentError("invalid request body: %v", err))
		return
	}
	if req.Prices == nil {
		respondError(c, helpers.NewMissingArgumentError("prices field is required"))
		return
	}

	spans, err := s.Facade.ComputeSpans(req.Prices)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "spans": spans})
}

// -----------------------------------------------------------------------------

func (s *APIServer) postTree(c *gin.Context) {
	var req seriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewMissingArgumentError("invalid request body: %v", err))
		return
	}
	if req.Prices == nil {
		respondError(c, helpers.NewMissingArgumentError("prices field is required"))
		return
	}

	handle, err := s.Facade.BuildTree(s.Registry, req.Prices)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "handle": handle, "length": len(req.Prices)})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getTreeQuery(c *gin.Context) {
	handle, err := parseHandle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	ql, err1 := parseIndex(c.Query("from"), "from")
	qr, err2 := parseIndex(c.Query("to"), "to")
	if err1 != nil {
		respondError(c, err1)
		return
	}
	if err2 != nil {
		respondError(c, err2)
		return
	}

	stats, err := s.Registry.QueryTree(handle, ql, qr)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "result": stats})
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteTree(c *gin.Context) {
	handle, err := parseHandle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	// Release is a no-op on absent handles
	s.Registry.ReleaseTree(handle)
	c.Status(204)
}

// -----------------------------------------------------------------------------

func (s *APIServer) postWindow(c *gin.Context) {
	var req windowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewMissingArgumentError("invalid request body: %v", err))
		return
	}
	if req.Prices == nil {
		respondError(c, helpers.NewMissingArgumentError("prices field is required"))
		return
	}
	handle, numWindows, err := s.Facade.AnalyzeWindows(s.Registry, req.Prices, req.WindowSize)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "handle": handle, "num_windows": numWindows})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getWindow(c *gin.Context) {
	handle, err := parseHandle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	idx, err := parseIndex(c.Param("idx"), "idx")
	if err != nil {
		respondError(c, err)
		return
	}

	stats, err := s.Registry.GetWindow(handle, idx)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "result": stats})
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteWindow(c *gin.Context) {
	handle, err := parseHandle(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	s.Registry.ReleaseWindows(handle)
	c.Status(204)
}

// -----------------------------------------------------------------------------

func (s *APIServer) postAnalyze(c *gin.Context) {
	var req analyzeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewMissingArgumentError("invalid request body: %v", err))
		return
	}

	prices := req.Prices
	name := req.Name

	if prices == nil {
		if name == "" {
			respondError(c, helpers.NewMissingArgumentError("either prices or a dataset name is required"))
			return
		}
		ds, err := s.Store.LoadDataset(name)
		if err != nil {
			respondError(c, err)
			return
		}
		prices = ds.Prices
	}

	report, err := s.Facade.RunFullAnalysis(name, prices, req.WindowSize)
	if err != nil {
		respondError(c, err)
		return
	}

	s.UpdateLatestReport(&report)
	s.Broadcast(&report)

	c.JSON(200, gin.H{"status": helpers.StatusOK, "report": report})
}

// -----------------------------------------------------------------------------
// Dataset Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) putDataset(c *gin.Context) {
	var req seriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, helpers.NewMissingArgumentError("invalid request body: %v", err))
		return
	}

	name := c.Param("name")

	// Validate before storing so the store only ever holds usable input
	if err := s.Facade.ValidateSeries(req.Prices); err != nil {
		respondError(c, err)
		return
	}

	if err := s.Store.SaveDataset(name, req.Prices); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "name": name, "length": len(req.Prices)})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getDataset(c *gin.Context) {
	ds, err := s.Store.LoadDataset(c.Param("name"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "dataset": ds})
}

// -----------------------------------------------------------------------------

func (s *APIServer) listDatasets(c *gin.Context) {
	infos, err := s.Store.ListDatasets()
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(200, gin.H{"status": helpers.StatusOK, "datasets": infos})
}

// -----------------------------------------------------------------------------

func (s *APIServer) deleteDataset(c *gin.Context) {
	if err := s.Store.DeleteDataset(c.Param("name")); err != nil {
		respondError(c, err)
		return
	}
	c.Status(204)
}

// -----------------------------------------------------------------------------
// Operational Handlers
// -----------------------------------------------------------------------------

func (s *APIServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestReport.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"status":        "ok",
		"connections":   connections,
		"live_handles":  s.Registry.LiveHandles(),
		"market_open":   s.Calendar.IsOpenOnMinute(time.Now()),
		"latest_update": timestamp,
	})
}

// -----------------------------------------------------------------------------

func (s *APIServer) getMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	s.stateMutex.RLock()
	metrics := s.latestReport.ProcessingMetrics
	s.stateMutex.RUnlock()

	c.JSON(200, gin.H{
		"live_handles":       s.Registry.LiveHandles(),
		"retained_bytes":     s.Registry.RetainedBytes(),
		"heap_mb":            float64(m.HeapAlloc) / 1024 / 1024,
		"processing_metrics": metrics,
	})
}
