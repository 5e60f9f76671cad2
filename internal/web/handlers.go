package web

import (
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/vitos/faucet_gateway/internal/domain"
	"go.uber.org/zap"
)

func (s *Server) handleRelay(w http.ResponseWriter, r *http.Request) {
	req, err := s.relayRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp := s.forwarder.Forward(r.Context(), req)
	s.logRelay(req, resp, start)
	s.writeRelay(w, resp)
}

func (s *Server) handleClaim(w http.ResponseWriter, r *http.Request) {
	address := r.PathValue("address")
	req, err := s.relayRequest(r)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	start := time.Now()
	resp := s.forwarder.ForwardClaim(r.Context(), req, address)
	s.logRelay(req, resp, start)
	s.writeRelay(w, resp)
}

// relayRequest copies what the forwarder needs out of r. Bodies of non-GET/HEAD
// requests are read fully before forwarding.
func (s *Server) relayRequest(r *http.Request) (*domain.RelayRequest, error) {
	req := &domain.RelayRequest{
		ID:       s.newID(),
		Method:   r.Method,
		Path:     r.URL.EscapedPath(),
		RawQuery: r.URL.RawQuery,
		Header:   r.Header,
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		body, err := io.ReadAll(r.Body)
		if err != nil {
			return nil, fmt.Errorf("read request body: %w", err)
		}
		req.Body = body
	}
	return req, nil
}

// writeRelay sends the backend's status and body. Only Content-Type and the CORS
// headers are passed on; the reason phrase is whatever net/http uses for the code.
func (s *Server) writeRelay(w http.ResponseWriter, resp *domain.RelayResponse) {
	setCorsRespHeaders(w.Header())
	w.Header().Set("Content-Type", resp.ContentType)
	w.WriteHeader(resp.StatusCode)
	if _, err := w.Write(resp.Body); err != nil {
		s.logger.Debug("Failed to write relay response", zap.Error(err))
	}
}

func (s *Server) logRelay(req *domain.RelayRequest, resp *domain.RelayResponse, start time.Time) {
	s.logger.Debug("Relayed request",
		zap.String("request_id", req.ID),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
		zap.Int("status", resp.StatusCode),
		zap.Duration("elapsed", time.Since(start)))
}
