package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/vitos/faucet_gateway/internal/infrastructure/storage"
)

func main() {
	dbPath := flag.String("db", "gateway.db", "sqlite database path")
	limit := flag.Int("limit", 20, "rows per table")
	flag.Parse()

	store, err := storage.NewSQLiteStore(*dbPath)
	if err != nil {
		fmt.Printf("Failed to init sqlite: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	ctx := context.Background()
	snapshots, err := store.ListSnapshots(ctx, *limit)
	if err != nil {
		fmt.Printf("Failed to list price snapshots: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d price snapshots:\n", len(snapshots))
	for _, p := range snapshots {
		fmt.Printf("- %s: $%f (fetched %s)\n", p.CoingeckoID, p.PriceUSD, p.FetchedAt.Format("2006-01-02 15:04:05"))
	}

	claims, err := store.ListClaims(ctx, *limit)
	if err != nil {
		fmt.Printf("Failed to list claims: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Found %d claim requests:\n", len(claims))
	for _, c := range claims {
		if c.Error != "" {
			fmt.Printf("  ❌ %s -> %s: %d (%s)\n", c.Address, c.Backend, c.StatusCode, c.Error)
		} else {
			fmt.Printf("  ✅ %s -> %s: %d\n", c.Address, c.Backend, c.StatusCode)
		}
	}
}
