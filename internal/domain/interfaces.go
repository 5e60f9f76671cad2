package domain

import "context"

// PriceSource defines the interface for fetching USD prices from a pricing API.
type PriceSource interface {
	// FetchUSDPrices returns the USD price of every requested coin identifier the API knows about.
	FetchUSDPrices(ctx context.Context, coingeckoIDs []string) (PriceMapping, error)
}

// PriceSnapshotRepository defines storage operations for fetched prices.
type PriceSnapshotRepository interface {
	SaveSnapshots(ctx context.Context, snapshots []*PriceSnapshot) error
	ListSnapshots(ctx context.Context, limit int) ([]*PriceSnapshot, error)
}

// ClaimRepository defines storage operations for relayed claim requests.
type ClaimRepository interface {
	SaveClaim(ctx context.Context, claim *ClaimRecord) error
	ListClaims(ctx context.Context, limit int) ([]*ClaimRecord, error)
}
