// Copyright 2026 The CityScout Authors
// SPDX-License-Identifier: Apache-2.0

// Package webui serves the search results over HTTP for a browser front end.
package webui

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/nmerlino/cityscout/browser"
	"github.com/nmerlino/cityscout/history"
	"github.com/nmerlino/cityscout/places"
	"github.com/nmerlino/cityscout/search"
)

// Server exposes one result collection over a JSON API.
//
// The collection itself is single-threaded; the server serializes every
// access with its own mutex, so concurrent HTTP requests are safe.
type Server struct {
	svc  search.Service
	repo history.Repository // optional
	coll *places.Collection

	mu         sync.Mutex
	lastChange places.Change
}

// NewServer creates a server around svc. repo may be nil to disable history.
func NewServer(svc search.Service, repo history.Repository) *Server {
	s := &Server{
		svc:  svc,
		repo: repo,
		coll: places.NewCollection(),
	}

	// The observer runs inside mutating handlers, which already hold s.mu.
	s.coll.Notify(func(ch places.Change) {
		s.lastChange = ch
	})

	return s
}

// Routes registers the API on r.
func (s *Server) Routes(r *gin.Engine) {
	r.GET("/api/search", s.searchHandler)
	r.GET("/api/results", s.listResults)
	r.GET("/api/results/:index", s.getResult)
	r.GET("/api/results/:index/map", s.mapRedirect)
	r.POST("/api/results/clear", s.clearResults)
	r.GET("/api/service", s.serviceInfo)
	r.GET("/api/history", s.listHistory)
	r.GET("/api/history/nearby", s.nearbyHistory)
}

// Run serves the API on addr until the listener fails.
func (s *Server) Run(addr string) error {
	r := gin.Default()
	s.Routes(r)

	return r.Run(addr)
}

// resultsPayload is the JSON shape of the current collection state. Change
// tells a polling client whether the last mutation appended rows or reset the
// list, so it can redraw incrementally or fully.
type resultsPayload struct {
	Version int64            `json:"version"`
	Change  string           `json:"change"`
	Count   int              `json:"count"`
	Results []*places.Record `json:"results"`
}

// payloadLocked builds the response; the caller must hold s.mu.
func (s *Server) payloadLocked() resultsPayload {
	change := "appended"
	if s.lastChange.Kind == places.ChangeReset || s.coll.Version() == 0 {
		change = "reset"
	}

	return resultsPayload{
		Version: int64(s.coll.Version()),
		Change:  change,
		Count:   s.coll.Len(),
		Results: s.coll.Records(),
	}
}

func (s *Server) searchHandler(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing query parameter 'q'"})

		return
	}

	records, err := s.svc.Search(c.Request.Context(), query)
	if err != nil {
		status := http.StatusBadGateway
		if errors.Is(err, search.ErrNoResults) {
			status = http.StatusNotFound
		}

		c.JSON(status, gin.H{"error": err.Error()})

		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Each search starts a fresh result list, like clearing the UI before
	// new results arrive.
	s.coll.Clear()
	s.coll.InsertBatch(records)

	if s.repo != nil {
		if _, err := s.repo.SaveSearch(query, s.coll.Records()); err != nil {
			// History is best effort; the search itself succeeded.
			log.Printf("webui: saving search history: %v", err)
		}
	}

	c.JSON(http.StatusOK, s.payloadLocked())
}

func (s *Server) listResults(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c.JSON(http.StatusOK, s.payloadLocked())
}

func (s *Server) getResult(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})

		return
	}

	s.mu.Lock()
	record := s.coll.At(index)
	s.mu.Unlock()

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result at index"})

		return
	}

	c.JSON(http.StatusOK, record)
}

func (s *Server) mapRedirect(c *gin.Context) {
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid index"})

		return
	}

	s.mu.Lock()
	record := s.coll.At(index)
	s.mu.Unlock()

	if record == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "no result at index"})

		return
	}

	c.Redirect(http.StatusFound, browser.OSMMapURL(record.Lat, record.Lon))
}

func (s *Server) clearResults(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.coll.Clear()

	c.JSON(http.StatusOK, s.payloadLocked())
}

func (s *Server) serviceInfo(c *gin.Context) {
	stats := s.svc.Stats()

	c.JSON(http.StatusOK, gin.H{
		"name":        s.svc.Name(),
		"description": s.svc.Description(),
		"successes":   stats.Successes,
		"failures":    stats.Failures,
		"last_error":  stats.LastError,
	})
}

func (s *Server) listHistory(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})

		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))

	entries, err := s.repo.ListSearches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"searches": entries})
}

func (s *Server) nearbyHistory(c *gin.Context) {
	if s.repo == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "history is disabled"})

		return
	}

	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)

	if errLat != nil || errLon != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid or missing lat/lon"})

		return
	}

	records, err := s.repo.ResultsNear(lat, lon)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})

		return
	}

	c.JSON(http.StatusOK, gin.H{"results": records})
}
