package httpapi

import (
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/media"
)

type pathRequest struct {
	Path string `json:"path" binding:"required"`
}

type processingResponse struct {
	Path       string `json:"path"`
	AgeSeconds int64  `json:"age_seconds"`
}

type queueResponse struct {
	Queue      []string            `json:"queue"`
	Processing *processingResponse `json:"processing"`
	Processed  map[string]int64    `json:"processed,omitempty"`
}

func (s *Server) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func (s *Server) getQueue(c *gin.Context) {
	paths, err := s.deps.Queue.Get()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	st, err := s.deps.Queue.Status()
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}

	resp := queueResponse{Queue: paths}
	if resp.Queue == nil {
		resp.Queue = []string{}
	}
	if st.Processing {
		resp.Processing = &processingResponse{Path: st.Path, AgeSeconds: st.AgeSeconds()}
	}
	if s.deps.Stats != nil {
		if resp.Processed, err = s.deps.Stats(c.Request.Context()); err != nil {
			s.fail(c, http.StatusInternalServerError, err)
			return
		}
	}
	c.JSON(http.StatusOK, resp)
}

func (s *Server) enqueue(c *gin.Context) {
	path, ok := s.bindPath(c)
	if !ok {
		return
	}
	if !media.IsVideo(path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "not a recognised video extension"})
		return
	}

	added, err := s.deps.Queue.Append(path)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"added": added})
}

func (s *Server) cancel(c *gin.Context) {
	if err := s.deps.Queue.Cancel(); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"cancel_requested": true})
}

func (s *Server) block(c *gin.Context) {
	path, ok := s.bindPath(c)
	if !ok {
		return
	}
	if err := s.deps.Queue.Block(path); err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"blocked": path})
}

func (s *Server) listVideos(c *gin.Context) {
	q := catalog.Query{
		Filter:    splitFilter(c.Query("filter")),
		SortBy:    c.DefaultQuery("sort_by", "base_name"),
		Ascending: !strings.EqualFold(c.Query("order"), "desc"),
	}
	q.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	q.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(catalog.DefaultLimit)))

	page, err := s.deps.Catalog.List(c.Request.Context(), q)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, page)
}

func (s *Server) sources(c *gin.Context) {
	sources, err := s.deps.Catalog.Sources(c.Request.Context())
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	if sources == nil {
		sources = []string{}
	}
	c.JSON(http.StatusOK, sources)
}

func (s *Server) search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.Status(http.StatusBadRequest)
		return
	}

	results, err := s.deps.Searcher.Search(c.Request.Context(), query, splitFilter(c.Query("filter")))
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, results)
}

func (s *Server) rebuild(c *gin.Context) {
	n, err := s.deps.Catalog.Rebuild(c.Request.Context(), s.deps.Roots)
	if err != nil {
		s.fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"count": n})
}

func (s *Server) bindPath(c *gin.Context) (string, bool) {
	var req pathRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return "", false
	}
	if !filepath.IsAbs(req.Path) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "path must be absolute"})
		return "", false
	}
	return filepath.Clean(req.Path), true
}

func (s *Server) fail(c *gin.Context, status int, err error) {
	s.logger.With(ctxRequestID, c.GetString(ctxRequestID)).Error(c.Request.Context(), "%s %s: %v", c.Request.Method, c.Request.URL.Path, err)
	c.JSON(status, gin.H{"error": err.Error()})
}

// splitFilter turns "a,b" into its non-empty comma-separated terms.
func splitFilter(raw string) []string {
	var terms []string
	for _, t := range strings.Split(raw, ",") {
		if t = strings.TrimSpace(t); t != "" {
			terms = append(terms, t)
		}
	}
	return terms
}
