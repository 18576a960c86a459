package marketdatav1

// DepthLevel is one displayed row of aggregated depth.
type DepthLevel struct {
	Symbol   string  `json:"symbol"`
	Quantity int64   `json:"quantity"`
	Orders   int64   `json:"number_of_trades"`
	Price    float64 `json:"price"`
	Exchange string  `json:"exchange"`
	// Timestamp is microseconds since epoch, straight off the event clock.
	// Float because merged views take the max of two feeds.
	Timestamp float64 `json:"timestamp"`
	Source    string  `json:"source"`
	Side      string  `json:"side"`
}

// Depth is the displayed book: top levels per side, keyed by string index
// starting at "0", plus side totals computed over every level.
type Depth struct {
	Ask       map[string]DepthLevel `json:"ask"`
	Bid       map[string]DepthLevel `json:"bid"`
	AskTotals SideTotals            `json:"total_ask"`
	BidTotals SideTotals            `json:"total_bid"`
}

// DepthResult is a full reconstruction output for one symbol.
type DepthResult struct {
	Symbol string        `json:"symbol"`
	Depth  Depth         `json:"depth"`
	Trades []TradeRecord `json:"course_of_sales"`
}

// ActivityType classifies a price-activity entry.
type ActivityType string

const (
	// ActivityAdd records an order arriving at the price.
	ActivityAdd ActivityType = "add"
	// ActivityModify records an order moving to or resizing at the price.
	ActivityModify ActivityType = "modify"
	// ActivityDelete records an order leaving the price.
	ActivityDelete ActivityType = "delete"
	// ActivityExecuted records a fill at the price.
	ActivityExecuted ActivityType = "executed"
	// ActivityUnresolved records an event whose order reference could not be
	// found in either reference table; its own fields are recorded as-is.
	ActivityUnresolved ActivityType = "unresolved"
)

// PriceActivityEntry is one audited event at a price level.
type PriceActivityEntry struct {
	Type      ActivityType `json:"type"`
	OrderID   string       `json:"orderID"`
	Side      Side         `json:"side"`
	Price     float64      `json:"price"`
	Quantity  int64        `json:"quantity"`
	Timestamp int64        `json:"timestamp"`
}

// PriceActivityReport is the audit of one price: for every order that finally
// rested at the price, the filtered entries that shaped it there.
type PriceActivityReport struct {
	Price  float64                         `json:"price"`
	Orders map[string][]PriceActivityEntry `json:"orders"`
}
