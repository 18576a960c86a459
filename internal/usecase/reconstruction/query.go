package reconstruction

import (
	"sort"
	"strconv"
	"time"

	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
)

// DefaultTopN is how many levels per side a depth view displays.
const DefaultTopN = 10

// QueryOptions shapes a depth view.
type QueryOptions struct {
	Exchange string
	Source   string

	// ReferencePrice splits the displayed book: asks at or above it, bids at
	// or below it. Zero disables the filter.
	ReferencePrice float64

	// TopN caps the displayed levels per side; totals stay untruncated.
	TopN int
}

// Depth builds the displayed book for symbol: per side the top-N levels that
// pass the reference-price filter, plus totals summed over every level of the
// side. Level timestamps come from the newest audit entry at that price and
// side, falling back to the wall clock; they stay on the microsecond event
// clock, unconverted.
func (p *Pass) Depth(symbol string, opts QueryOptions) marketdatav1.Depth {
	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}

	return marketdatav1.Depth{
		Ask:       p.depthSide(symbol, marketdatav1.SideSell, opts, topN),
		Bid:       p.depthSide(symbol, marketdatav1.SideBuy, opts, topN),
		AskTotals: p.book.Totals(marketdatav1.SideSell),
		BidTotals: p.book.Totals(marketdatav1.SideBuy),
	}
}

func (p *Pass) depthSide(symbol string, side marketdatav1.Side, opts QueryOptions, topN int) map[string]marketdatav1.DepthLevel {
	out := make(map[string]marketdatav1.DepthLevel)
	rank := 0
	for _, price := range p.book.Prices(side) {
		if opts.ReferencePrice > 0 {
			if side == marketdatav1.SideSell && price < opts.ReferencePrice {
				continue
			}
			if side == marketdatav1.SideBuy && price > opts.ReferencePrice {
				continue
			}
		}
		if rank >= topN {
			break
		}

		level, _ := p.book.Level(side, price)
		out[strconv.Itoa(rank)] = marketdatav1.DepthLevel{
			Symbol:    symbol,
			Quantity:  level.Quantity,
			Orders:    level.OpenOrders,
			Price:     price,
			Exchange:  opts.Exchange,
			Timestamp: p.levelTimestamp(price, side),
			Source:    opts.Source,
			Side:      sideLabel(side),
		}
		rank++
	}
	return out
}

func (p *Pass) levelTimestamp(price float64, side marketdatav1.Side) float64 {
	if ts, ok := p.audit.LatestTimestamp(price, side); ok {
		return float64(ts)
	}
	return float64(time.Now().UnixMicro())
}

func sideLabel(side marketdatav1.Side) string {
	if side == marketdatav1.SideBuy {
		return "bid"
	}
	return "ask"
}

// CourseOfSales returns the ledger as consumer-facing trade records, newest
// first. Trade times are the microsecond event timestamps divided by 1000,
// kept fractional so sub-millisecond ordering survives.
func (p *Pass) CourseOfSales() []marketdatav1.TradeRecord {
	trades := p.ledger.Trades()
	out := make([]marketdatav1.TradeRecord, 0, len(trades))
	for _, trade := range trades {
		out = append(out, marketdatav1.TradeRecord{
			Price:    trade.Price,
			Quantity: trade.Quantity,
			Time:     float64(trade.Timestamp) / 1000,
		})
	}
	return out
}

// Result bundles the depth view and course of sales for one symbol.
func (p *Pass) Result(symbol string, opts QueryOptions) marketdatav1.DepthResult {
	return marketdatav1.DepthResult{
		Symbol: symbol,
		Depth:  p.Depth(symbol, opts),
		Trades: p.CourseOfSales(),
	}
}

// TradesBySide reports executed volume per resting side. Only full executions
// count toward the per-side trade counts, matching how the book retires
// open-order counts.
func (p *Pass) TradesBySide() marketdatav1.TradesBySide {
	return p.trades
}

// OrderDataByPrice audits one price: it selects the orders whose final
// resting price equals target and returns, per order, the window-filtered
// entries that shaped it there. Delete, executed and unresolved entries at
// the target price are always kept; of the modifies at the target price only
// the last survives; an add at the target price is kept only when the order
// was never modified away from it, or at some point came back to it.
func (p *Pass) OrderDataByPrice(target float64, window Window) marketdatav1.PriceActivityReport {
	report := marketdatav1.PriceActivityReport{
		Price:  target,
		Orders: make(map[string][]marketdatav1.PriceActivityEntry),
	}

	for orderID, entries := range p.audit.ByOrder() {
		if p.finalPrice(orderID) != target {
			continue
		}

		inWindow := entries[:0:0]
		for _, entry := range entries {
			if window.Contains(entry.Timestamp) {
				inWindow = append(inWindow, entry)
			}
		}

		kept := selectEntriesAt(target, inWindow)
		if len(kept) > 0 {
			report.Orders[orderID] = kept
		}
	}
	return report
}

// finalPrice resolves where an order ended up: the live table wins, then the
// unfiltered reference. Orders in neither table have no final price.
func (p *Pass) finalPrice(orderID string) float64 {
	if record, ok := p.live[orderID]; ok {
		return record.Price
	}
	if record, ok := p.unfiltered[orderID]; ok {
		return record.Price
	}
	return 0
}

func selectEntriesAt(target float64, entries []marketdatav1.PriceActivityEntry) []marketdatav1.PriceActivityEntry {
	// Walk the modifies in time order: remember the last one that landed at
	// the target price, and whether the order ever left the target and came
	// back. A later move away does not undo either.
	var lastTargetModify *marketdatav1.PriceActivityEntry
	wasModifiedAway := false
	wasModifiedBack := false
	for i := range entries {
		if entries[i].Type != marketdatav1.ActivityModify {
			continue
		}
		if entries[i].Price == target {
			lastTargetModify = &entries[i]
			if wasModifiedAway {
				wasModifiedBack = true
			}
		} else {
			wasModifiedAway = true
		}
	}

	keepAdd := !wasModifiedAway || wasModifiedBack

	kept := make([]marketdatav1.PriceActivityEntry, 0, len(entries))
	for i := range entries {
		entry := entries[i]
		switch entry.Type {
		case marketdatav1.ActivityAdd:
			if entry.Price == target && keepAdd {
				kept = append(kept, entry)
			}
		case marketdatav1.ActivityModify:
			// of the modifies at the target price only the last matters
			if lastTargetModify == &entries[i] {
				kept = append(kept, entry)
			}
		default:
			if entry.Price == target {
				kept = append(kept, entry)
			}
		}
	}
	return kept
}

// MergeDepth folds two depth results for the same symbol into one: levels at
// matching prices sum quantities and order counts and keep the newer
// timestamp, each side is re-ranked to topN, and the trade feeds are merged
// newest-first up to tradeLimit. Unlike Depth, the merged totals cover only
// the displayed levels, which is what the snapshot consumers expect.
func MergeDepth(a, b marketdatav1.DepthResult, topN, tradeLimit int) marketdatav1.DepthResult {
	if topN <= 0 {
		topN = DefaultTopN
	}
	if tradeLimit <= 0 {
		tradeLimit = DefaultLedgerLimit
	}

	merged := marketdatav1.DepthResult{
		Symbol: a.Symbol,
		Depth: marketdatav1.Depth{
			Ask: mergeSide(a.Depth.Ask, b.Depth.Ask, topN, false),
			Bid: mergeSide(a.Depth.Bid, b.Depth.Bid, topN, true),
		},
		Trades: mergeTrades(a.Trades, b.Trades, tradeLimit),
	}

	merged.Depth.AskTotals = displayedTotals(merged.Depth.Ask)
	merged.Depth.BidTotals = displayedTotals(merged.Depth.Bid)
	return merged
}

func mergeSide(a, b map[string]marketdatav1.DepthLevel, topN int, descending bool) map[string]marketdatav1.DepthLevel {
	byPrice := make(map[float64]marketdatav1.DepthLevel)
	for _, levels := range []map[string]marketdatav1.DepthLevel{a, b} {
		for _, level := range levels {
			existing, ok := byPrice[level.Price]
			if !ok {
				byPrice[level.Price] = level
				continue
			}
			existing.Quantity += level.Quantity
			existing.Orders += level.Orders
			if level.Timestamp > existing.Timestamp {
				existing.Timestamp = level.Timestamp
			}
			byPrice[level.Price] = existing
		}
	}

	prices := make([]float64, 0, len(byPrice))
	for price := range byPrice {
		prices = append(prices, price)
	}
	if descending {
		sort.Sort(sort.Reverse(sort.Float64Slice(prices)))
	} else {
		sort.Float64s(prices)
	}

	out := make(map[string]marketdatav1.DepthLevel)
	for rank, price := range prices {
		if rank >= topN {
			break
		}
		out[strconv.Itoa(rank)] = byPrice[price]
	}
	return out
}

func mergeTrades(a, b []marketdatav1.TradeRecord, limit int) []marketdatav1.TradeRecord {
	out := make([]marketdatav1.TradeRecord, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Time > out[j].Time
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

func displayedTotals(levels map[string]marketdatav1.DepthLevel) marketdatav1.SideTotals {
	var totals marketdatav1.SideTotals
	for _, level := range levels {
		totals.Quantity += level.Quantity
		totals.Orders += level.Orders
	}
	return totals
}

// MaxTimestamp returns the newest level timestamp across both sides of a
// depth view, 0 when the view is empty.
func MaxTimestamp(depth marketdatav1.Depth) float64 {
	var max float64
	for _, levels := range []map[string]marketdatav1.DepthLevel{depth.Ask, depth.Bid} {
		for _, level := range levels {
			if level.Timestamp > max {
				max = level.Timestamp
			}
		}
	}
	return max
}
