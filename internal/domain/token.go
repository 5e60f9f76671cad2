package domain

import "errors"

var ErrUnknownToken = errors.New("unknown token")

// Token is a chain asset the UI can display a USD value for.
type Token struct {
	Symbol      string `json:"symbol" yaml:"symbol"`
	Denom       string `json:"denom" yaml:"denom"`
	CoingeckoID string `json:"coingecko_id" yaml:"coingecko_id"`
	Decimals    int    `json:"decimals" yaml:"decimals"`
}

// TokenList is the configured token universe.
type TokenList []Token

// BySymbol finds a token by its symbol, case-sensitive.
func (l TokenList) BySymbol(symbol string) (Token, error) {
	for _, t := range l {
		if t.Symbol == symbol {
			return t, nil
		}
	}
	return Token{}, ErrUnknownToken
}

// CoingeckoIDs returns the distinct non-empty coin identifiers in list order.
func (l TokenList) CoingeckoIDs() []string {
	seen := make(map[string]bool, len(l))
	ids := make([]string, 0, len(l))
	for _, t := range l {
		if t.CoingeckoID == "" || seen[t.CoingeckoID] {
			continue
		}
		seen[t.CoingeckoID] = true
		ids = append(ids, t.CoingeckoID)
	}
	return ids
}
