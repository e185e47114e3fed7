// Package httpapi is the local HTTP surface over the queue, the catalog and
// transcript search.
package httpapi

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nguyentantai21042004/atci/internal/catalog"
	"github.com/nguyentantai21042004/atci/internal/logger"
	"github.com/nguyentantai21042004/atci/internal/queue"
	"github.com/nguyentantai21042004/atci/internal/search"
)

const shutdownTimeout = 5 * time.Second

// Deps are the components the handlers read and write.
type Deps struct {
	Queue    queue.Queue
	Catalog  catalog.Catalog
	Searcher search.Searcher
	// Roots are rescanned by POST /api/rebuild.
	Roots []string
	// Password, when set, must accompany every /api request.
	Password string
	// Stats, when set, reports processed-item counts by outcome for
	// GET /api/queue.
	Stats  func(ctx context.Context) (map[string]int64, error)
	Logger logger.Logger
}

// Server serves the API.
type Server struct {
	deps   Deps
	logger logger.Logger
	engine *gin.Engine
}

// New builds the router.
func New(deps Deps) *Server {
	gin.SetMode(gin.ReleaseMode)

	s := &Server{
		deps:   deps,
		logger: deps.Logger,
		engine: gin.New(),
	}

	s.engine.Use(gin.Recovery(), s.requestID(), s.accessLog())
	s.engine.Use(cors.Default())

	s.engine.GET("/healthz", s.health)

	api := s.engine.Group("/api", s.auth())
	{
		api.GET("/queue", s.getQueue)
		api.POST("/queue", s.enqueue)
		api.POST("/cancel", s.cancel)
		api.POST("/block", s.block)
		api.GET("/videos", s.listVideos)
		api.GET("/sources", s.sources)
		api.GET("/search", s.search)
		api.POST("/rebuild", s.rebuild)
	}
	return s
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Serve listens on addr until ctx is done, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()
	s.logger.Info(ctx, "HTTP API listening on %s", addr)

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info(ctx, "Shutting down HTTP API ...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
