package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"courtscraper/internal/storage"
)

// Server exposes the operational surface of a running scrape: metrics and
// health. It carries no crawl-control endpoints; the crawl is driven purely
// by configuration.
type Server struct {
	httpServer *http.Server
	sink       storage.RecordSink
	dedup      *storage.RedisStore // nil when dedup is disabled
	logger     *zap.Logger
}

func NewServer(port string, sink storage.RecordSink, dedup *storage.RedisStore, logger *zap.Logger) *Server {
	s := &Server{
		sink:   sink,
		dedup:  dedup,
		logger: logger,
	}
	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%s", port),
		Handler:      s.setupRouter(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) Start() error {
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
