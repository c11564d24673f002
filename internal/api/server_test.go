package api

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"courtscraper/internal/domain"
)

type stubSink struct {
	pingErr error
}

func (s stubSink) Insert(context.Context, *domain.JudgmentRecord) error { return nil }
func (s stubSink) Ping(context.Context) error                           { return s.pingErr }

func TestHealthCheckHealthy(t *testing.T) {
	s := NewServer("0", stubSink{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), `"sink":"healthy"`)
}

func TestHealthCheckUnhealthySink(t *testing.T) {
	s := NewServer("0", stubSink{pingErr: errors.New("connection refused")}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestMetricsEndpointExposed(t *testing.T) {
	s := NewServer("0", stubSink{}, nil, zap.NewNop())

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	s.httpServer.Handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
