package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClient_BaseURLSelection(t *testing.T) {
	assert.Equal(t, PublicBaseURL, NewClient("", "", time.Second).BaseURL())
	assert.Equal(t, ProBaseURL, NewClient("key", "", time.Second).BaseURL())
	assert.Equal(t, "http://localhost:1234/api/v3", NewClient("key", "http://localhost:1234/api/v3/", time.Second).BaseURL())
}

func TestFetchUSDPrices(t *testing.T) {
	var gotPath, gotIDs, gotVs, gotKey string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotIDs = r.URL.Query().Get("ids")
		gotVs = r.URL.Query().Get("vs_currencies")
		gotKey = r.Header.Get("x-cg-pro-api-key")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"osmosis":{"usd":0.52},"cosmos":{"usd":7.1},"delisted":{}}`))
	}))
	defer srv.Close()

	c := NewClient("pro-key", srv.URL+"/api/v3", time.Second)
	prices, err := c.FetchUSDPrices(context.Background(), []string{"osmosis", "cosmos", "delisted"})
	require.NoError(t, err)

	assert.Equal(t, "/api/v3/simple/price", gotPath)
	assert.Equal(t, "osmosis,cosmos,delisted", gotIDs)
	assert.Equal(t, "usd", gotVs)
	assert.Equal(t, "pro-key", gotKey)

	assert.Len(t, prices, 2)
	assert.Equal(t, 0.52, prices["osmosis"])
	assert.Equal(t, 7.1, prices["cosmos"])
	_, ok := prices["delisted"]
	assert.False(t, ok)
}

func TestFetchUSDPrices_NoKeyHeaderWithoutKey(t *testing.T) {
	var hasKey bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hasKey = r.Header["X-Cg-Pro-Api-Key"]
		w.Write([]byte(`{}`))
	}))
	defer srv.Close()

	prices, err := NewClient("", srv.URL, time.Second).FetchUSDPrices(context.Background(), []string{"osmosis"})
	require.NoError(t, err)
	assert.Empty(t, prices)
	assert.False(t, hasKey)
}

func TestFetchUSDPrices_Errors(t *testing.T) {
	t.Run("status", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"status":{"error_code":429}}`))
		}))
		defer srv.Close()

		_, err := NewClient("", srv.URL, time.Second).FetchUSDPrices(context.Background(), []string{"osmosis"})
		assert.ErrorContains(t, err, "status 429")
	})

	t.Run("not json", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte(`<html>maintenance</html>`))
		}))
		defer srv.Close()

		_, err := NewClient("", srv.URL, time.Second).FetchUSDPrices(context.Background(), []string{"osmosis"})
		assert.ErrorContains(t, err, "decode coingecko response")
	})

	t.Run("unreachable", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		url := srv.URL
		srv.Close()

		_, err := NewClient("", url, time.Second).FetchUSDPrices(context.Background(), []string{"osmosis"})
		assert.Error(t, err)
	})
}
