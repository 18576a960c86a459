package marketdatav1

import (
	"sort"
	"strconv"
	"strings"

	"github.com/AzuraKiko/CBOE-log/pkg/errors"
)

// Side is the resting side of an order as carried on the feed.
type Side string

const (
	// SideBuy marks a buy (bid) order.
	SideBuy Side = "B"
	// SideSell marks a sell (ask) order.
	SideSell Side = "S"
)

// IsValid reports whether the side is one of the two known side codes.
func (s Side) IsValid() bool {
	return s == SideBuy || s == SideSell
}

// EventType represents the lifecycle stage an order event describes.
type EventType string

const (
	// EventAdd is a new resting order entering the book.
	EventAdd EventType = "add"
	// EventModify is a price and/or quantity change of a resting order.
	EventModify EventType = "modify"
	// EventDelete removes a resting order from the book.
	EventDelete EventType = "delete"
	// EventExecuted fills a resting order, partially or in full.
	EventExecuted EventType = "executed"
)

// OrderEvent is one parsed per-order event from the feed-connector log.
// Quantity carries the resting quantity for add/modify/delete; ExecutedQty
// carries the filled quantity for executed events. Timestamp is microseconds
// since epoch; Sequence is the feed header sequence used for de-duplication.
type OrderEvent struct {
	Type        EventType `json:"type"`
	OrderID     string    `json:"orderID"`
	Symbol      string    `json:"symbol"`
	Side        Side      `json:"side"`
	Price       float64   `json:"price"`
	Quantity    int64     `json:"quantity"`
	ExecutedQty int64     `json:"executedQty"`
	Timestamp   int64     `json:"timestamp"`
	Sequence    int64     `json:"sequence"`
}

// EventLog is the grouped event history consumed by a reconstruction pass:
// symbol -> order id -> events. Per-order event lists are not guaranteed to be
// time-sorted; the pass sorts defensively.
type EventLog map[string]map[string][]OrderEvent

// Append adds an event under its symbol and order id.
func (l EventLog) Append(ev OrderEvent) {
	byOrder, ok := l[ev.Symbol]
	if !ok {
		byOrder = make(map[string][]OrderEvent)
		l[ev.Symbol] = byOrder
	}
	byOrder[ev.OrderID] = append(byOrder[ev.OrderID], ev)
}

// Clone returns a deep copy of the log, safe to hand to a pass while the
// accumulator keeps appending.
func (l EventLog) Clone() EventLog {
	out := make(EventLog, len(l))
	for symbol, byOrder := range l {
		orders := make(map[string][]OrderEvent, len(byOrder))
		for orderID, events := range byOrder {
			copied := make([]OrderEvent, len(events))
			copy(copied, events)
			orders[orderID] = copied
		}
		out[symbol] = orders
	}
	return out
}

// Empty reports whether the log holds no events at all.
func (l EventLog) Empty() bool {
	for _, byOrder := range l {
		for _, events := range byOrder {
			if len(events) > 0 {
				return false
			}
		}
	}
	return true
}

// FirstSymbol returns the lexicographically smallest symbol in the log, used
// to label single-symbol depth results deterministically.
func (l EventLog) FirstSymbol() string {
	symbols := make([]string, 0, len(l))
	for symbol := range l {
		symbols = append(symbols, symbol)
	}
	if len(symbols) == 0 {
		return ""
	}
	sort.Strings(symbols)
	return symbols[0]
}

// RawNumber accepts a JSON number or a numeric string; the feed connector
// emits both depending on the field.
type RawNumber string

// UnmarshalJSON strips surrounding quotes and keeps the raw text.
func (n *RawNumber) UnmarshalJSON(b []byte) error {
	*n = RawNumber(strings.Trim(string(b), `"`))
	return nil
}

// Float64 parses the raw value, returning 0 for empty or unparseable input.
func (n RawNumber) Float64() float64 {
	v, err := strconv.ParseFloat(string(n), 64)
	if err != nil {
		return 0
	}
	return v
}

// Int64 parses the raw value, returning 0 for empty or unparseable input.
func (n RawNumber) Int64() int64 {
	v, err := strconv.ParseInt(string(n), 10, 64)
	if err != nil {
		// quantities occasionally arrive as "100.0"
		f, ferr := strconv.ParseFloat(string(n), 64)
		if ferr != nil {
			return 0
		}
		return int64(f)
	}
	return v
}

// RawOrderEvent mirrors one feed-connector log line.
type RawOrderEvent struct {
	MessageType string           `json:"message_type"`
	Parsed      *RawParsedFields `json:"parsed_message"`
}

// RawParsedFields is the parsed_message payload of a feed-connector line.
type RawParsedFields struct {
	OrderID       string    `json:"OrderID"`
	Symbol        string    `json:"Symbol"`
	SideIndicator string    `json:"SideIndicator"`
	Price         RawNumber `json:"Price"`
	Quantity      RawNumber `json:"Quantity"`
	ExecutedQty   RawNumber `json:"ExecutedQty"`
	Timestamp     RawNumber `json:"Timestamp"`
	HdrSequence   RawNumber `json:"HdrSequence"`
}

var messageTypes = map[string]EventType{
	"AddOrderMessage":      EventAdd,
	"ModifyOrderMessage":   EventModify,
	"DeleteOrderMessage":   EventDelete,
	"OrderExecutedMessage": EventExecuted,
}

// ToEvent converts a raw feed line into an OrderEvent. Lines without a parsed
// payload, order id, or timestamp are malformed and rejected; other missing
// fields default to zero and are resolved against the reference tables during
// replay.
func (r *RawOrderEvent) ToEvent() (OrderEvent, error) {
	if r == nil || r.Parsed == nil {
		return OrderEvent{}, errors.NewErrorDetails(
			"feed message has no parsed payload",
			string(errors.FeedMalformedEvent),
			"parsed_message",
		)
	}

	eventType, ok := messageTypes[r.MessageType]
	if !ok {
		return OrderEvent{}, errors.NewErrorDetails(
			"unrecognized feed message type "+r.MessageType,
			string(errors.FeedUnknownMessageType),
			"message_type",
		)
	}

	if r.Parsed.OrderID == "" {
		return OrderEvent{}, errors.NewErrorDetails(
			"feed message missing OrderID",
			string(errors.FeedMalformedEvent),
			"OrderID",
		)
	}

	timestamp := r.Parsed.Timestamp.Int64()
	if timestamp == 0 {
		return OrderEvent{}, errors.NewErrorDetails(
			"feed message missing Timestamp",
			string(errors.FeedMalformedEvent),
			"Timestamp",
		)
	}

	return OrderEvent{
		Type:        eventType,
		OrderID:     r.Parsed.OrderID,
		Symbol:      r.Parsed.Symbol,
		Side:        Side(r.Parsed.SideIndicator),
		Price:       r.Parsed.Price.Float64(),
		Quantity:    r.Parsed.Quantity.Int64(),
		ExecutedQty: r.Parsed.ExecutedQty.Int64(),
		Timestamp:   timestamp,
		Sequence:    r.Parsed.HdrSequence.Int64(),
	}, nil
}
