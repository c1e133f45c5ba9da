// Package marketdata analyzes equity-index price history into the
// annualized return and volatility figures the planning tools consume.
package marketdata

import "time"

// Quote is a single dated closing price.
type Quote struct {
	Date  time.Time
	Close float64
}

// PriceFeed supplies daily closing-price history for a symbol.
type PriceFeed interface {
	History(symbol string) ([]Quote, bool)
}

// MapPriceFeed is a static map-backed implementation for development/testing.
type MapPriceFeed struct {
	series map[string][]Quote
}

func NewMapPriceFeed(series map[string][]Quote) *MapPriceFeed {
	return &MapPriceFeed{series: series}
}

func (m *MapPriceFeed) History(symbol string) ([]Quote, bool) {
	quotes, ok := m.series[symbol]
	return quotes, ok
}
