package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"

	"github.com/shopspring/decimal"
	"github.com/vitos/faucet_gateway/internal/domain"
	"github.com/vitos/faucet_gateway/internal/usecase"
	"go.uber.org/zap"
)

// Prices are reported as null, never as an error, while they are unavailable.

type priceResponse struct {
	CoingeckoID string   `json:"coingecko_id"`
	Price       *float64 `json:"price"`
}

type tokenPriceResponse struct {
	Symbol string  `json:"symbol"`
	Price  *string `json:"price"`
}

type tokenValueResponse struct {
	Symbol string   `json:"symbol"`
	Amount string   `json:"amount"`
	Value  *float64 `json:"value"`
}

func (s *Server) handlePriceByCoingeckoID(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("coingeckoId")
	resp := priceResponse{CoingeckoID: id}
	if p, ok := s.prices.GetPriceByCoingeckoID(id); ok {
		resp.Price = &p
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenPrice(w http.ResponseWriter, r *http.Request) {
	token, ok := s.lookupToken(w, r)
	if !ok {
		return
	}
	resp := tokenPriceResponse{Symbol: token.Symbol}
	if p, ok := s.prices.GetPrice(token); ok {
		resp.Price = &p
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleTokenValue(w http.ResponseWriter, r *http.Request) {
	token, ok := s.lookupToken(w, r)
	if !ok {
		return
	}

	amount := usecase.UnitAmount
	if raw := r.URL.Query().Get("amount"); raw != "" {
		parsed, err := parseAmount(raw)
		if err != nil {
			s.writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		amount = parsed
	}

	resp := tokenValueResponse{Symbol: token.Symbol, Amount: amount.String()}
	if v, ok := s.prices.GetValuePrice(token, amount); ok {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			s.writeError(w, http.StatusBadRequest, "amount out of range: "+amount.String())
			return
		}
		resp.Value = &v
	}
	s.writeJSON(w, http.StatusOK, resp)
}

// maxAmountDigits fits any uint256 smallest-unit balance.
const maxAmountDigits = 78

// parseAmount accepts a non-negative smallest-unit integer. The exponent is
// bounded before anything expands the coefficient.
func parseAmount(raw string) (decimal.Decimal, error) {
	if len(raw) > 2*maxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: too long")
	}
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: %s", raw)
	}
	if exp := d.Exponent(); exp > maxAmountDigits || exp < -maxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: out of range: %s", raw)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: negative: %s", raw)
	}
	if !d.IsInteger() {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: not an integer: %s", raw)
	}
	if digits := len(d.Coefficient().String()) + int(d.Exponent()); digits > maxAmountDigits {
		return decimal.Decimal{}, fmt.Errorf("invalid amount: out of range: %s", raw)
	}
	return d, nil
}

func (s *Server) lookupToken(w http.ResponseWriter, r *http.Request) (domain.Token, bool) {
	symbol := r.PathValue("symbol")
	token, err := s.prices.Tokens().BySymbol(symbol)
	if errors.Is(err, domain.ErrUnknownToken) {
		s.writeError(w, http.StatusNotFound, "unknown token: "+symbol)
		return domain.Token{}, false
	}
	return token, true
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"prices": string(s.prices.State()),
	})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	setCorsRespHeaders(w.Header())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
