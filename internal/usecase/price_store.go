package usecase

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/faucet_gateway/internal/domain"
	"github.com/vitos/faucet_gateway/internal/infrastructure/metrics"
	"go.uber.org/zap"
)

// UnitAmount is the default amount for GetValuePrice callers that want the price of one base unit scaled by decimals.
var UnitAmount = decimal.NewFromInt(1)

// PriceStore lazily loads USD prices for the configured tokens exactly once and
// answers reads from the cached mapping. Reads never block; before the fetch
// completes they report the price as absent.
type PriceStore struct {
	source    domain.PriceSource
	tokens    domain.TokenList
	snapshots domain.PriceSnapshotRepository
	metrics   *metrics.Metrics
	logger    *zap.Logger
	baseCtx   context.Context
	timeNow   func() time.Time // For testing

	mu     sync.Mutex
	state  domain.PriceState
	prices domain.PriceMapping
	done   chan struct{}
}

type PriceStoreOption func(*PriceStore)

// WithSnapshotRepository records every successful fetch.
func WithSnapshotRepository(repo domain.PriceSnapshotRepository) PriceStoreOption {
	return func(s *PriceStore) {
		s.snapshots = repo
	}
}

func WithPriceMetrics(m *metrics.Metrics) PriceStoreOption {
	return func(s *PriceStore) {
		s.metrics = m
	}
}

// WithBaseContext bounds the background fetch. It is not tied to any single caller.
func WithBaseContext(ctx context.Context) PriceStoreOption {
	return func(s *PriceStore) {
		s.baseCtx = ctx
	}
}

func NewPriceStore(source domain.PriceSource, tokens domain.TokenList, logger *zap.Logger, opts ...PriceStoreOption) *PriceStore {
	s := &PriceStore{
		source:  source,
		tokens:  tokens,
		logger:  logger,
		baseCtx: context.Background(),
		timeNow: time.Now,
		state:   domain.PriceStateUninitialized,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init dispatches the price fetch if it has not been dispatched yet. The state
// leaves Uninitialized under the lock, so concurrent callers never start a second fetch.
func (s *PriceStore) Init() {
	s.mu.Lock()
	if s.state != domain.PriceStateUninitialized {
		s.mu.Unlock()
		return
	}
	s.state = domain.PriceStateLoading
	s.mu.Unlock()

	go s.load(s.tokens.CoingeckoIDs())
}

func (s *PriceStore) load(ids []string) {
	var (
		prices domain.PriceMapping
		err    error
	)
	if len(ids) > 0 {
		s.logger.Debug("Dispatching price fetch", zap.Strings("ids", ids))
		prices, err = s.source.FetchUSDPrices(s.baseCtx, ids)
	}

	state := domain.PriceStateReady
	if err != nil {
		s.logger.Error("Failed to fetch token prices", zap.Error(err))
		state = domain.PriceStateFailed
		prices = nil
	}
	if prices == nil {
		prices = domain.PriceMapping{}
	}

	s.metrics.ObservePriceFetch(err, len(prices))
	if err == nil {
		s.saveSnapshots(prices)
	}

	s.logger.Info("Token prices loaded", zap.String("state", string(state)), zap.Int("count", len(prices)))

	s.mu.Lock()
	s.prices = prices
	s.state = state
	close(s.done)
	s.mu.Unlock()
}

func (s *PriceStore) saveSnapshots(prices domain.PriceMapping) {
	if s.snapshots == nil || len(prices) == 0 {
		return
	}
	now := s.timeNow()
	snaps := make([]*domain.PriceSnapshot, 0, len(prices))
	for id, p := range prices {
		snaps = append(snaps, &domain.PriceSnapshot{CoingeckoID: id, PriceUSD: p, FetchedAt: now})
	}
	if err := s.snapshots.SaveSnapshots(s.baseCtx, snaps); err != nil {
		s.logger.Error("Failed to save price snapshots", zap.Error(err))
	}
}

// Wait blocks until the fetch has completed or ctx is done. It returns
// domain.ErrPricesUnavailable when the fetch failed.
func (s *PriceStore) Wait(ctx context.Context) error {
	s.Init()
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	if s.State() == domain.PriceStateFailed {
		return domain.ErrPricesUnavailable
	}
	return nil
}

func (s *PriceStore) State() domain.PriceState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Snapshot returns a copy of the cached mapping, nil while nothing has been loaded.
func (s *PriceStore) Snapshot() domain.PriceMapping {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.prices.Clone()
}

func (s *PriceStore) Tokens() domain.TokenList {
	return s.tokens
}

func (s *PriceStore) lookup(coingeckoID string) (float64, bool) {
	s.Init()
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.prices[coingeckoID]
	return p, ok
}

// GetPriceByCoingeckoID returns the cached USD price for id.
func (s *PriceStore) GetPriceByCoingeckoID(coingeckoID string) (float64, bool) {
	return s.lookup(coingeckoID)
}

// GetPrice returns the token price formatted for display.
func (s *PriceStore) GetPrice(token domain.Token) (string, bool) {
	p, ok := s.lookup(token.CoingeckoID)
	if !ok {
		return "", false
	}
	return FormatUSD(p), true
}

// GetValuePrice converts a smallest-unit amount of token to USD: price * amount / 10^decimals.
func (s *PriceStore) GetValuePrice(token domain.Token, amount decimal.Decimal) (float64, bool) {
	p, ok := s.lookup(token.CoingeckoID)
	if !ok {
		return 0, false
	}
	value := decimal.NewFromFloat(p).Mul(amount).Shift(-int32(token.Decimals))
	return value.InexactFloat64(), true
}
