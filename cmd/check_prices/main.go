package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/shopspring/decimal"
	"github.com/vitos/faucet_gateway/internal/config"
	"github.com/vitos/faucet_gateway/internal/infrastructure/coingecko"
	"github.com/vitos/faucet_gateway/internal/usecase"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to the yaml config")
	flag.Parse()

	// 1. Load Config
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	client := coingecko.NewClient(cfg.Prices.APIKey, cfg.Prices.BaseURL, time.Duration(cfg.Prices.TimeoutMs)*time.Millisecond)
	fmt.Printf("Testing CoinGecko Interaction...\n")
	fmt.Printf("Endpoint: %s\n", client.BaseURL())
	if cfg.Prices.APIKey != "" {
		fmt.Printf("API Key: %s...\n", cfg.Prices.APIKey[:min(4, len(cfg.Prices.APIKey))])
	}

	// 2. Fetch through the store, exactly as the gateway does
	store := usecase.NewPriceStore(client, cfg.Tokens, zap.NewNop())
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := store.Wait(ctx); err != nil {
		fmt.Printf("❌ Failed to get prices: %v\n", err)
		os.Exit(1)
	}

	tokens := append(cfg.Tokens[:0:0], cfg.Tokens...)
	sort.Slice(tokens, func(i, j int) bool { return tokens[i].Symbol < tokens[j].Symbol })

	for _, t := range tokens {
		price, ok := store.GetPrice(t)
		if !ok {
			fmt.Printf("⚠️ %s (%s): no price\n", t.Symbol, t.CoingeckoID)
			continue
		}
		// value of one whole token, expressed in smallest units
		whole := decimal.New(1, int32(t.Decimals))
		value, _ := store.GetValuePrice(t, whole)
		fmt.Printf("✅ %s (%s): %s, 1 %s = %f USD\n", t.Symbol, t.CoingeckoID, price, t.Symbol, value)
	}
}
