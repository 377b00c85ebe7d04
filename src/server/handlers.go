package server

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// -----------------------------------------------------------------------------
// Request bodies
// -----------------------------------------------------------------------------

type assetRequest struct {
	Ticker string `json:"ticker" binding:"required"`
}

type yearRequest struct {
	Year int `json:"year" binding:"required"`
}

type timeRangeRequest struct {
	TimeRange string `json:"time_range" binding:"required"`
}

// -----------------------------------------------------------------------------
// Route Handlers
// -----------------------------------------------------------------------------

func (s *DashboardServer) getHealth(c *gin.Context) {
	s.stateMutex.RLock()
	connections := len(s.clients)
	timestamp := s.latestState.Timestamp
	s.stateMutex.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"connections":   connections,
		"latest_update": timestamp,
		"generation":    s.Controller.Stats().Generation,
	})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, s.Controller.Catalog())
}

func (s *DashboardServer) getSelection(c *gin.Context) {
	c.JSON(http.StatusOK, s.Controller.Selection())
}

func (s *DashboardServer) getView(c *gin.Context) {
	c.JSON(http.StatusOK, s.Controller.View())
}

func (s *DashboardServer) getStats(c *gin.Context) {
	c.JSON(http.StatusOK, s.Controller.Stats())
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postAsset(c *gin.Context) {
	var req assetRequest
	if !bindJSON(c, &req) {
		return
	}
	sel, err := s.Controller.ChooseAsset(req.Ticker)
	if err != nil {
		s.abortWithError(c, "choose asset", err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

func (s *DashboardServer) postYear(c *gin.Context) {
	var req yearRequest
	if !bindJSON(c, &req) {
		return
	}
	sel, err := s.Controller.ClickYear(req.Year)
	if err != nil {
		s.abortWithError(c, "click year", err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

func (s *DashboardServer) postTimeRange(c *gin.Context) {
	var req timeRangeRequest
	if !bindJSON(c, &req) {
		return
	}
	sel, err := s.Controller.SetTimeRange(req.TimeRange)
	if err != nil {
		s.abortWithError(c, "set time range", err)
		return
	}
	c.JSON(http.StatusOK, sel)
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) postSubmit(c *gin.Context) {
	gen, err := s.Controller.Submit()
	if err != nil {
		s.abortWithError(c, "submit", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"generation": gen})
}

// -----------------------------------------------------------------------------

func (s *DashboardServer) getFetches(c *gin.Context) {
	if s.Journal == nil {
		c.JSON(http.StatusOK, []interface{}{})
		return
	}

	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records, err := s.Journal.Recent(limit)
	if err != nil {
		s.abortWithError(c, "list fetches", err)
		return
	}
	c.JSON(http.StatusOK, records)
}
