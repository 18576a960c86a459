// Package reconstruction replays per-order feed events into an aggregated
// price-level book, a bounded course-of-sales ledger and a per-price activity
// audit. A Pass owns all of its state; build one per reconstruction run.
package reconstruction

import (
	marketdatav1 "github.com/AzuraKiko/CBOE-log/internal/domain/marketdata/v1"
	"github.com/AzuraKiko/CBOE-log/internal/usecase/book"
	"github.com/AzuraKiko/CBOE-log/pkg/logger"
)

// Stats counts what a pass did with its input.
type Stats struct {
	Events      int
	Applied     int
	Duplicates  int
	OutOfWindow int
	UnknownSide int
	Unresolved  int
}

// Pass is one reconstruction run over an event log.
type Pass struct {
	logger logger.Interface
	window Window

	book   *book.Book
	ledger *Ledger
	audit  *ActivityLog

	// live tracks orders currently resting in the book; unfiltered remembers
	// every order ever added, window or not.
	live       ReferenceTable
	unfiltered ReferenceTable

	trades marketdatav1.TradesBySide
	stats  Stats
}

// NewPass returns a pass replaying inside window with a course-of-sales
// ledger capped at ledgerLimit.
func NewPass(log logger.Interface, window Window, ledgerLimit int) *Pass {
	return &Pass{
		logger:     log,
		window:     window,
		book:       book.New(),
		ledger:     NewLedger(ledgerLimit),
		audit:      NewActivityLog(),
		live:       make(ReferenceTable),
		unfiltered: make(ReferenceTable),
	}
}

// Run replays the whole event log. Per order the events are sorted ascending
// by timestamp, window-filtered, then de-duplicated on the feed header
// sequence; surviving events are applied in order.
func (p *Pass) Run(log marketdatav1.EventLog) Stats {
	p.unfiltered = buildUnfilteredReference(log)

	for _, byOrder := range log {
		for _, events := range byOrder {
			p.replayOrder(events)
		}
	}
	return p.stats
}

func (p *Pass) replayOrder(events []marketdatav1.OrderEvent) {
	sortEventsAscending(events)

	seen := make(map[int64]struct{}, len(events))
	for _, ev := range events {
		p.stats.Events++

		if !p.window.Contains(ev.Timestamp) {
			p.stats.OutOfWindow++
			continue
		}

		// De-dup after the window filter so an in-window retransmission of an
		// out-of-window event still applies once. Sequence 0 means the feed
		// line carried no header sequence; those are never collapsed.
		if ev.Sequence != 0 {
			if _, dup := seen[ev.Sequence]; dup {
				p.stats.Duplicates++
				continue
			}
			seen[ev.Sequence] = struct{}{}
		}

		p.apply(ev)
	}
}

func (p *Pass) apply(ev marketdatav1.OrderEvent) {
	switch ev.Type {
	case marketdatav1.EventAdd:
		p.applyAdd(ev)
	case marketdatav1.EventModify:
		p.applyModify(ev)
	case marketdatav1.EventDelete:
		p.applyDelete(ev)
	case marketdatav1.EventExecuted:
		p.applyExecuted(ev)
	}
	p.stats.Applied++
}

// resolve looks an order up in the live table first, then in the unfiltered
// reference.
func (p *Pass) resolve(orderID string) (marketdatav1.OrderRecord, bool) {
	if record, ok := p.live[orderID]; ok {
		return record, true
	}
	record, ok := p.unfiltered[orderID]
	return record, ok
}

func (p *Pass) applyAdd(ev marketdatav1.OrderEvent) {
	p.live[ev.OrderID] = marketdatav1.OrderRecord{
		Price:     ev.Price,
		Quantity:  ev.Quantity,
		Side:      ev.Side,
		Timestamp: ev.Timestamp,
	}

	p.applyLevel(ev.Side, ev.Price, ev.Quantity, 1, ev.Timestamp, ev.OrderID)

	p.audit.Record(ev.Price, marketdatav1.PriceActivityEntry{
		Type:      marketdatav1.ActivityAdd,
		OrderID:   ev.OrderID,
		Side:      ev.Side,
		Price:     ev.Price,
		Quantity:  ev.Quantity,
		Timestamp: ev.Timestamp,
	})
}

func (p *Pass) applyModify(ev marketdatav1.OrderEvent) {
	ref, ok := p.resolve(ev.OrderID)
	if !ok {
		p.recordUnresolved(ev, ev.Quantity)
		// Remember the modify so later events on this order can still price
		// themselves.
		p.live[ev.OrderID] = marketdatav1.OrderRecord{
			Price:     ev.Price,
			Quantity:  ev.Quantity,
			Side:      ev.Side,
			Timestamp: ev.Timestamp,
		}
		return
	}

	side := ref.Side
	if !side.IsValid() {
		side = ev.Side
	}

	if ev.Price != ref.Price {
		// The order moved: retract it from the old level with the reference
		// timestamp, rest it at the new one with the event timestamp.
		p.applyLevel(side, ref.Price, -ref.Quantity, -1, ref.Timestamp, ev.OrderID)
		p.applyLevel(side, ev.Price, ev.Quantity, 1, ev.Timestamp, ev.OrderID)
	} else {
		p.applyLevel(side, ev.Price, ev.Quantity-ref.Quantity, 0, ev.Timestamp, ev.OrderID)
	}

	p.live[ev.OrderID] = marketdatav1.OrderRecord{
		Price:     ev.Price,
		Quantity:  ev.Quantity,
		Side:      side,
		Timestamp: ev.Timestamp,
	}

	p.audit.Record(ev.Price, marketdatav1.PriceActivityEntry{
		Type:      marketdatav1.ActivityModify,
		OrderID:   ev.OrderID,
		Side:      side,
		Price:     ev.Price,
		Quantity:  ev.Quantity,
		Timestamp: ev.Timestamp,
	})
}

func (p *Pass) applyDelete(ev marketdatav1.OrderEvent) {
	ref, ok := p.resolve(ev.OrderID)
	if !ok {
		p.recordUnresolved(ev, ev.Quantity)
		return
	}

	p.applyLevel(ref.Side, ref.Price, -ref.Quantity, -1, ev.Timestamp, ev.OrderID)
	delete(p.live, ev.OrderID)

	p.audit.Record(ref.Price, marketdatav1.PriceActivityEntry{
		Type:      marketdatav1.ActivityDelete,
		OrderID:   ev.OrderID,
		Side:      ref.Side,
		Price:     ref.Price,
		Quantity:  ref.Quantity,
		Timestamp: ev.Timestamp,
	})
}

func (p *Pass) applyExecuted(ev marketdatav1.OrderEvent) {
	ref, ok := p.resolve(ev.OrderID)
	if !ok {
		p.recordUnresolved(ev, ev.ExecutedQty)
		return
	}

	full := ev.ExecutedQty == ref.Quantity
	orderDelta := int64(0)
	if full {
		orderDelta = -1
	}

	p.applyLevel(ref.Side, ref.Price, -ev.ExecutedQty, orderDelta, ev.Timestamp, ev.OrderID)

	p.ledger.Record(marketdatav1.Trade{
		Price:     ref.Price,
		Quantity:  ev.ExecutedQty,
		Side:      ref.Side,
		Timestamp: ev.Timestamp,
	})

	switch ref.Side {
	case marketdatav1.SideBuy:
		p.trades.BuyQuantity += ev.ExecutedQty
		if full {
			p.trades.BuyCount++
		}
	case marketdatav1.SideSell:
		p.trades.SellQuantity += ev.ExecutedQty
		if full {
			p.trades.SellCount++
		}
	}

	if full {
		delete(p.live, ev.OrderID)
	} else {
		ref.Quantity -= ev.ExecutedQty
		p.live[ev.OrderID] = ref
	}

	p.audit.Record(ref.Price, marketdatav1.PriceActivityEntry{
		Type:      marketdatav1.ActivityExecuted,
		OrderID:   ev.OrderID,
		Side:      ref.Side,
		Price:     ref.Price,
		Quantity:  ev.ExecutedQty,
		Timestamp: ev.Timestamp,
	})
}

// applyLevel mutates the book, skipping (with a warning) sides the feed did
// not tag as buy or sell. The audit entry for the event is still recorded by
// the caller.
func (p *Pass) applyLevel(side marketdatav1.Side, price float64, quantityDelta, orderDelta, timestamp int64, orderID string) {
	if !side.IsValid() {
		p.stats.UnknownSide++
		p.logger.Warn("skipping level update for unknown side",
			logger.Field{Key: "orderID", Value: orderID},
			logger.Field{Key: "side", Value: string(side)},
			logger.Field{Key: "price", Value: price},
		)
		return
	}
	p.book.Apply(side, price, quantityDelta, orderDelta, timestamp)
}

// recordUnresolved degrades an event whose order is in neither reference
// table: the audit keeps the event's own fields, the book is left untouched.
func (p *Pass) recordUnresolved(ev marketdatav1.OrderEvent, quantity int64) {
	p.stats.Unresolved++
	p.logger.Warn("order reference not found",
		logger.Field{Key: "orderID", Value: ev.OrderID},
		logger.Field{Key: "type", Value: string(ev.Type)},
	)

	p.audit.Record(ev.Price, marketdatav1.PriceActivityEntry{
		Type:      marketdatav1.ActivityUnresolved,
		OrderID:   ev.OrderID,
		Side:      ev.Side,
		Price:     ev.Price,
		Quantity:  quantity,
		Timestamp: ev.Timestamp,
	})
}

// Book exposes the aggregated price-level book.
func (p *Pass) Book() *book.Book {
	return p.book
}

// Ledger exposes the course-of-sales ledger.
func (p *Pass) Ledger() *Ledger {
	return p.ledger
}

// Audit exposes the per-price activity log.
func (p *Pass) Audit() *ActivityLog {
	return p.audit
}

// Live exposes the live reference table as it stands after the replay.
func (p *Pass) Live() ReferenceTable {
	return p.live
}

// Unfiltered exposes the window-independent order reference table.
func (p *Pass) Unfiltered() ReferenceTable {
	return p.unfiltered
}

// Stats reports the replay counters.
func (p *Pass) Stats() Stats {
	return p.stats
}
