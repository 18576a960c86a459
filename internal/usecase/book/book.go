// Package book holds the additive price-level book built by a reconstruction
// pass. Levels are created on first touch and never pruned; quantities and
// open-order counts are plain sums of the applied deltas, so a replay window
// that clips an order's lifecycle can legitimately drive a level negative.
package book

import (
	"sort"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// Book aggregates order events into per-price levels, one map per side.
type Book struct {
	asks map[float64]*marketdatav1.PriceLevel
	bids map[float64]*marketdatav1.PriceLevel
}

// New returns an empty book.
func New() *Book {
	return &Book{
		asks: make(map[float64]*marketdatav1.PriceLevel),
		bids: make(map[float64]*marketdatav1.PriceLevel),
	}
}

func (b *Book) levels(side marketdatav1.Side) map[float64]*marketdatav1.PriceLevel {
	if side == marketdatav1.SideBuy {
		return b.bids
	}
	return b.asks
}

// Apply folds one delta into the level at price, creating the level if it has
// never been touched. The level timestamp only moves forward.
func (b *Book) Apply(side marketdatav1.Side, price float64, quantityDelta, orderDelta, timestamp int64) {
	levels := b.levels(side)
	level, ok := levels[price]
	if !ok {
		level = &marketdatav1.PriceLevel{}
		levels[price] = level
	}

	level.Quantity += quantityDelta
	level.OpenOrders += orderDelta
	if timestamp > level.Timestamp {
		level.Timestamp = timestamp
	}
}

// Level returns a copy of the level at price and whether it exists.
func (b *Book) Level(side marketdatav1.Side, price float64) (marketdatav1.PriceLevel, bool) {
	level, ok := b.levels(side)[price]
	if !ok {
		return marketdatav1.PriceLevel{}, false
	}
	return *level, true
}

// Side returns a copy of every level on the given side, keyed by price.
func (b *Book) Side(side marketdatav1.Side) map[float64]marketdatav1.PriceLevel {
	levels := b.levels(side)
	out := make(map[float64]marketdatav1.PriceLevel, len(levels))
	for price, level := range levels {
		out[price] = *level
	}
	return out
}

// Prices returns the side's prices sorted ascending for asks and descending
// for bids, best price first either way.
func (b *Book) Prices(side marketdatav1.Side) []float64 {
	levels := b.levels(side)
	prices := make([]float64, 0, len(levels))
	for price := range levels {
		prices = append(prices, price)
	}

	if side == marketdatav1.SideBuy {
		sort.Sort(sort.Reverse(sort.Float64Slice(prices)))
	} else {
		sort.Float64s(prices)
	}
	return prices
}

// Totals sums quantity and open-order counts over every level of a side, not
// just the displayed ones.
func (b *Book) Totals(side marketdatav1.Side) marketdatav1.SideTotals {
	var totals marketdatav1.SideTotals
	for _, level := range b.levels(side) {
		totals.Quantity += level.Quantity
		totals.Orders += level.OpenOrders
	}
	return totals
}
