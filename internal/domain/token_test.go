package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenList_CoingeckoIDs(t *testing.T) {
	tokens := TokenList{
		{Symbol: "OSMO", CoingeckoID: "osmosis"},
		{Symbol: "POOL", CoingeckoID: ""},
		{Symbol: "ATOM", CoingeckoID: "cosmos"},
		{Symbol: "stOSMO", CoingeckoID: "osmosis"},
	}

	assert.Equal(t, []string{"osmosis", "cosmos"}, tokens.CoingeckoIDs())
	assert.Empty(t, TokenList{}.CoingeckoIDs())
}

func TestTokenList_BySymbol(t *testing.T) {
	tokens := TokenList{{Symbol: "OSMO", Decimals: 6}}

	tok, err := tokens.BySymbol("OSMO")
	require.NoError(t, err)
	assert.Equal(t, 6, tok.Decimals)

	_, err = tokens.BySymbol("osmo")
	assert.ErrorIs(t, err, ErrUnknownToken)
}

func TestPriceMapping_Clone(t *testing.T) {
	var empty PriceMapping
	assert.Nil(t, empty.Clone())

	orig := PriceMapping{"bitcoin": 50000}
	cp := orig.Clone()
	cp["bitcoin"] = 1

	assert.Equal(t, 50000.0, orig["bitcoin"])
}
