// Package quoteapi provides an in-memory stand-in for the json-server quote
// collection, for tests that exercise the gateway over real HTTP.
package quoteapi

import (
	"net/http"
	"net/http/httptest"
	"slices"
	"strconv"
	"sync"

	"github.com/gin-gonic/gin"
)

// Record is a stored quote as the API holds it.
type Record struct {
	ID             int64    `json:"id"`
	Text           string   `json:"text"`
	Author         string   `json:"author"`
	ScheduledDates []string `json:"scheduledDates"`
}

// body is a create or update payload. ID is optional on create.
type body struct {
	ID             *int64   `json:"id"`
	Text           string   `json:"text"`
	Author         string   `json:"author"`
	ScheduledDates []string `json:"scheduledDates"`
}

// Server serves GET/POST /quotes and PUT/DELETE /quotes/:id from memory.
// Created records get the next id after the highest one stored.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	records  []Record
	failWith int
	requests []string
}

// NewServer starts a server holding records.
func NewServer(records ...Record) *Server {
	gin.SetMode(gin.TestMode)

	s := &Server{records: slices.Clone(records)}

	router := gin.New()
	router.Use(s.track)
	router.GET("/quotes", s.list)
	router.POST("/quotes", s.create)
	router.PUT("/quotes/:id", s.update)
	router.DELETE("/quotes/:id", s.remove)

	s.Server = httptest.NewServer(router)

	return s
}

// Records returns a copy of what is stored.
func (s *Server) Records() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// Requests returns "METHOD /path" for every request received, in order.
func (s *Server) Requests() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.requests)
}

// FailWith makes every subsequent request answer status. Zero restores normal service.
func (s *Server) FailWith(status int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.failWith = status
}

func (s *Server) track(c *gin.Context) {
	s.mu.Lock()
	s.requests = append(s.requests, c.Request.Method+" "+c.Request.URL.Path)
	status := s.failWith
	s.mu.Unlock()

	if status != 0 {
		c.AbortWithStatusJSON(status, gin.H{"message": http.StatusText(status)})
		return
	}

	c.Next()
}

func (s *Server) list(c *gin.Context) {
	records := s.Records()

	if limit, err := strconv.Atoi(c.Query("_limit")); err == nil && limit < len(records) {
		records = records[:limit]
	}

	c.JSON(http.StatusOK, records)
}

func (s *Server) create(c *gin.Context) {
	var in body
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec := Record{ID: s.nextID(), Text: in.Text, Author: in.Author, ScheduledDates: in.ScheduledDates}
	if in.ID != nil {
		rec.ID = *in.ID
	}

	s.records = append(s.records, rec)

	c.JSON(http.StatusCreated, rec)
}

func (s *Server) update(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var in body
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}

	s.records[i] = Record{ID: id, Text: in.Text, Author: in.Author, ScheduledDates: in.ScheduledDates}

	c.JSON(http.StatusOK, s.records[i])
}

func (s *Server) remove(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	i := s.indexOf(id)
	if i < 0 {
		c.JSON(http.StatusNotFound, gin.H{})
		return
	}

	s.records = slices.Delete(s.records, i, i+1)

	c.JSON(http.StatusOK, gin.H{})
}

// nextID returns one more than the highest stored id. Caller holds s.mu.
func (s *Server) nextID() int64 {
	var highest int64
	for _, r := range s.records {
		highest = max(highest, r.ID)
	}

	return highest + 1
}

// indexOf returns the position of id or -1. Caller holds s.mu.
func (s *Server) indexOf(id int64) int {
	return slices.IndexFunc(s.records, func(r Record) bool { return r.ID == id })
}

func parseID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{})
		return 0, false
	}

	return id, true
}
