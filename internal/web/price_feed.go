package web

import (
	"context"
	"errors"
	"net/http"

	"github.com/vitos/faucet_gateway/internal/domain"
	"go.uber.org/zap"
)

type priceFeedMessage struct {
	State  domain.PriceState   `json:"state"`
	Prices domain.PriceMapping `json:"prices"`
}

// handlePriceFeed upgrades to a websocket and pushes the price mapping once the
// fetch has completed. The cache never refreshes, so there is exactly one message.
func (s *Server) handlePriceFeed(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Debug("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		select {
		case <-closed:
			cancel()
		case <-ctx.Done():
		}
	}()

	if err := s.prices.Wait(ctx); err != nil && !errors.Is(err, domain.ErrPricesUnavailable) {
		return
	}

	msg := priceFeedMessage{State: s.prices.State(), Prices: s.prices.Snapshot()}
	if err := conn.WriteJSON(msg); err != nil {
		s.logger.Debug("Failed to write price feed", zap.Error(err))
		return
	}
	<-closed
}
