// Package api serves the dashboard UI: resolved prices with provenance tags,
// recent news, and recent analysis notes.
package api

import (
	"context"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"marketpulse/internal/model"
)

// QuoteResolver is the price resolution pipeline the API serves from.
type QuoteResolver interface {
	ResolveAll(ctx context.Context, tickers []string) []model.ResolvedQuote
}

// Reader is the slice of the store the read endpoints need.
type Reader interface {
	ListRecentNews(limit int) ([]model.NewsItem, error)
	ListRecentAnalyses(limit int) ([]model.AnalysisNote, error)
}

// Server holds the API dependencies.
type Server struct {
	Resolver QuoteResolver
	Store    Reader
	Symbols  []string
	Trigger  func() // manual refresh hook; optional
}

// Router builds the gin engine with all routes registered.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.GET("/prices", s.handlePrices)
	api.GET("/news", s.handleNews)
	api.GET("/analysis", s.handleAnalysis)
	api.POST("/refresh", s.handleRefresh)
	return r
}

// handlePrices resolves the tracked symbol set and returns it with source
// tags and a response timestamp. A response with fewer entries than
// requested symbols is flagged degraded rather than erroring, so the UI can
// still render what resolved.
func (s *Server) handlePrices(c *gin.Context) {
	quotes := s.Resolver.ResolveAll(c.Request.Context(), s.Symbols)
	c.JSON(http.StatusOK, gin.H{
		"data":      quotes,
		"degraded":  len(quotes) < len(s.Symbols),
		"timestamp": time.Now().UTC(),
	})
}

func (s *Server) handleNews(c *gin.Context) {
	items, err := s.Store.ListRecentNews(limitParam(c, 20))
	if err != nil {
		log.Printf("[ERROR] list news: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "news unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": items, "timestamp": time.Now().UTC()})
}

func (s *Server) handleAnalysis(c *gin.Context) {
	notes, err := s.Store.ListRecentAnalyses(limitParam(c, 20))
	if err != nil {
		log.Printf("[ERROR] list analysis: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "analysis unavailable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": notes, "timestamp": time.Now().UTC()})
}

func (s *Server) handleRefresh(c *gin.Context) {
	if s.Trigger == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "refresh not configured"})
		return
	}
	go s.Trigger()
	c.JSON(http.StatusAccepted, gin.H{"status": "refresh scheduled"})
}

func limitParam(c *gin.Context, def int) int {
	v := c.Query("limit")
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 || n > 100 {
		return def
	}
	return n
}
