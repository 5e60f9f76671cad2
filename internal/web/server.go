package web

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/rs/xid"
	"github.com/vitos/faucet_gateway/internal/infrastructure/metrics"
	"github.com/vitos/faucet_gateway/internal/usecase"
	"go.uber.org/zap"
)

type Server struct {
	router    *http.ServeMux
	server    *http.Server
	forwarder *usecase.Forwarder
	prices    *usecase.PriceStore
	metrics   *metrics.Metrics
	logger    *zap.Logger
	upgrader  websocket.Upgrader
	newID     func() string
}

func NewServer(
	port int,
	forwarder *usecase.Forwarder,
	prices *usecase.PriceStore,
	m *metrics.Metrics,
	logger *zap.Logger,
) *Server {
	s := &Server{
		router:    http.NewServeMux(),
		forwarder: forwarder,
		prices:    prices,
		metrics:   m,
		logger:    logger,
		upgrader: websocket.Upgrader{
			// same policy as the CORS headers: any origin may read prices
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		newID: func() string { return xid.New().String() },
	}
	s.routes()
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: s.router,
	}
	return s
}

func (s *Server) routes() {
	// Backend relay
	s.router.HandleFunc("/api/claim/{address}", s.handleClaim)
	s.router.HandleFunc("/api/", s.handleRelay)

	// Prices
	s.router.HandleFunc("GET /prices/{coingeckoId}", s.handlePriceByCoingeckoID)
	s.router.HandleFunc("GET /tokens/{symbol}/price", s.handleTokenPrice)
	s.router.HandleFunc("GET /tokens/{symbol}/value", s.handleTokenValue)
	s.router.HandleFunc("GET /ws/prices", s.handlePriceFeed)
	for _, pattern := range []string{"/prices/{coingeckoId}", "/tokens/{symbol}/price", "/tokens/{symbol}/value", "/ws/prices"} {
		s.router.HandleFunc("OPTIONS "+pattern, handlePreflight)
	}

	// Ops
	s.router.HandleFunc("GET /healthz", s.handleHealth)
	if s.metrics != nil {
		s.router.Handle("GET /metrics", s.metrics.Handler())
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.logger.Info("Starting web server", zap.String("addr", s.server.Addr))
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
